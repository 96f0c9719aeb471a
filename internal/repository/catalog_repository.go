package repository

import (
	"context"

	"rocketcart/internal/domain/model"
)

// 在庫/商品のリモート参照（カート側から見た外部サービス）
type CatalogClient interface {
	GetStock(ctx context.Context, productID int64) (model.Stock, error)
	GetProduct(ctx context.Context, productID int64) (model.CatalogProduct, error)
}

// 参照サービス側の永続化
type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]model.CatalogProduct, error)
	FindProductByID(ctx context.Context, id int64) (model.CatalogProduct, error)
	FindStockByID(ctx context.Context, id int64) (model.Stock, error)

	// シード投入用（同一IDは上書き）
	UpsertProduct(ctx context.Context, p model.CatalogProduct) error
	UpsertStock(ctx context.Context, s model.Stock) error
}
