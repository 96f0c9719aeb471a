package repository

import (
	"context"

	repo "rocketcart/internal/repository"

	"gorm.io/gorm"
)

type TxManagerGorm struct {
	db *gorm.DB
}

var _ repo.TransactionManager = (*TxManagerGorm)(nil)

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.CatalogRepository) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		return fn(NewCatalogGormRepository(tx))
	})
}

// メモリ実装用：Txは張らずにそのまま渡す
type TxManagerMemory struct {
	catalog *CatalogMemoryRepository
}

var _ repo.TransactionManager = (*TxManagerMemory)(nil)

func NewTxManagerMemory(r *CatalogMemoryRepository) *TxManagerMemory {
	return &TxManagerMemory{catalog: r}
}

func (tm *TxManagerMemory) WithinTx(ctx context.Context, fn func(r repo.CatalogRepository) error) error {
	return fn(tm.catalog)
}
