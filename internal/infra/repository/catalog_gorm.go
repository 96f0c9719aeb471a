package repository

import (
	"context"
	"errors"

	"rocketcart/internal/domain/model"
	repo "rocketcart/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

var _ repo.CatalogRepository = (*CatalogGormRepository)(nil)

// DI
func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

func (r *CatalogGormRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&model.CatalogProduct{}, &model.Stock{})
}

// 商品一覧（削除済みは除く）
func (r *CatalogGormRepository) ListProducts(ctx context.Context) ([]model.CatalogProduct, error) {
	var products []model.CatalogProduct

	if err := r.db.WithContext(ctx).
		Order("id asc").
		Find(&products).Error; err != nil {
		return []model.CatalogProduct{}, err
	}
	return products, nil
}

// IDで商品を取得
func (r *CatalogGormRepository) FindProductByID(ctx context.Context, id int64) (model.CatalogProduct, error) {
	var p model.CatalogProduct
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CatalogProduct{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CatalogProduct{}, err
	}
	return p, nil
}

// IDで在庫を取得
func (r *CatalogGormRepository) FindStockByID(ctx context.Context, id int64) (model.Stock, error) {
	var s model.Stock
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Stock{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Stock{}, err
	}
	return s, nil
}

// 商品の作成/更新
func (r *CatalogGormRepository) UpsertProduct(ctx context.Context, p model.CatalogProduct) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "price", "image", "updated_at"}),
		}).
		Create(&p).Error
}

// 在庫を「現在値」に更新
func (r *CatalogGormRepository) UpsertStock(ctx context.Context, s model.Stock) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
		}).
		Create(&s).Error
}
