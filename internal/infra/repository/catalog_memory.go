package repository

import (
	"context"
	"sort"
	"sync"

	"rocketcart/internal/domain/model"
	repo "rocketcart/internal/repository"
)

// CatalogMemoryRepository はシードJSONだけで動かすときの実装。
type CatalogMemoryRepository struct {
	mu       sync.RWMutex
	products map[int64]model.CatalogProduct
	stock    map[int64]model.Stock
}

var _ repo.CatalogRepository = (*CatalogMemoryRepository)(nil)

func NewCatalogMemoryRepository() *CatalogMemoryRepository {
	return &CatalogMemoryRepository{
		products: make(map[int64]model.CatalogProduct),
		stock:    make(map[int64]model.Stock),
	}
}

func (r *CatalogMemoryRepository) ListProducts(ctx context.Context) ([]model.CatalogProduct, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.CatalogProduct, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CatalogMemoryRepository) FindProductByID(ctx context.Context, id int64) (model.CatalogProduct, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return model.CatalogProduct{}, repo.ErrNotFound
	}
	return p, nil
}

func (r *CatalogMemoryRepository) FindStockByID(ctx context.Context, id int64) (model.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stock[id]
	if !ok {
		return model.Stock{}, repo.ErrNotFound
	}
	return s, nil
}

func (r *CatalogMemoryRepository) UpsertProduct(ctx context.Context, p model.CatalogProduct) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[p.ID] = p
	return nil
}

func (r *CatalogMemoryRepository) UpsertStock(ctx context.Context, s model.Stock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stock[s.ID] = s
	return nil
}
