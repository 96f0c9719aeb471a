package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"rocketcart/internal/domain/model"
	repo "rocketcart/internal/repository"
)

// CatalogUsecase は在庫/商品参照APIの業務ロジック。
type CatalogUsecase struct {
	repo repo.CatalogRepository
	tx   repo.TransactionManager // nilならTx無しで投入
}

// DI
func NewCatalogUsecase(r repo.CatalogRepository, tx repo.TransactionManager) *CatalogUsecase {
	return &CatalogUsecase{repo: r, tx: tx}
}

// シードJSON（json-server の db.json と同じ形）
type CatalogFixture struct {
	Products []model.CatalogProduct `json:"products"`
	Stock    []model.Stock          `json:"stock"`
}

func DecodeCatalogFixture(r io.Reader) (CatalogFixture, error) {
	var f CatalogFixture
	dec := json.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return CatalogFixture{}, fmt.Errorf("decode catalog fixture: %w", err)
	}
	return f, nil
}

func (u *CatalogUsecase) ListProducts(ctx context.Context) ([]model.CatalogProduct, error) {
	items, err := u.repo.ListProducts(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, id int64) (model.CatalogProduct, error) {
	if id <= 0 {
		return model.CatalogProduct{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.repo.FindProductByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CatalogProduct{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.CatalogProduct{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *CatalogUsecase) GetStock(ctx context.Context, id int64) (model.Stock, error) {
	if id <= 0 {
		return model.Stock{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	s, err := u.repo.FindStockByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Stock{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Stock{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

// Seed はシードをまとめて投入する（同一IDは上書き）。
// 1件でも不正なら何も書かない。
func (u *CatalogUsecase) Seed(ctx context.Context, f CatalogFixture) error {
	for _, p := range f.Products {
		if p.ID <= 0 {
			return fmt.Errorf("seed product: invalid id %d", p.ID)
		}
	}
	for _, s := range f.Stock {
		if s.ID <= 0 || s.Amount < 0 {
			return fmt.Errorf("seed stock: invalid entry id=%d amount=%d", s.ID, s.Amount)
		}
	}

	if u.tx == nil {
		return seedInto(ctx, u.repo, f)
	}
	return u.tx.WithinTx(ctx, func(r repo.CatalogRepository) error {
		return seedInto(ctx, r, f)
	})
}

func seedInto(ctx context.Context, r repo.CatalogRepository, f CatalogFixture) error {
	for _, p := range f.Products {
		if err := r.UpsertProduct(ctx, p); err != nil {
			return fmt.Errorf("seed product %d: %w", p.ID, err)
		}
	}
	for _, s := range f.Stock {
		if err := r.UpsertStock(ctx, s); err != nil {
			return fmt.Errorf("seed stock %d: %w", s.ID, err)
		}
	}
	return nil
}
