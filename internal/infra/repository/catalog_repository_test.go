package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rocketcart/internal/domain/model"
	"rocketcart/internal/infra/repository"
	repo "rocketcart/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

// =====================
// Gorm
// =====================

func TestCatalogGormRepository_FindProductByID(t *testing.T) {
	gdb, mock := newMockGorm(t)
	r := repository.NewCatalogGormRepository(gdb)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE "products"."id" = \$1 AND "products"."deleted_at" IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "image", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, "Tênis", "179.90", "1.jpg", now, now, nil))

	p, err := r.FindProductByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Tênis", p.Title)
	assert.True(t, decimal.RequireFromString("179.9").Equal(p.Price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogGormRepository_NotFound(t *testing.T) {
	gdb, mock := newMockGorm(t)
	r := repository.NewCatalogGormRepository(gdb)

	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "stock"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := r.FindProductByID(context.Background(), 9)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	_, err = r.FindStockByID(context.Background(), 9)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogGormRepository_FindStockByID(t *testing.T) {
	gdb, mock := newMockGorm(t)
	r := repository.NewCatalogGormRepository(gdb)

	mock.ExpectQuery(`SELECT \* FROM "stock" WHERE "stock"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "updated_at"}).AddRow(2, 5, time.Now()))

	s, err := r.FindStockByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), s.Amount)
}

func TestCatalogGormRepository_ListProducts_Error(t *testing.T) {
	gdb, mock := newMockGorm(t)
	r := repository.NewCatalogGormRepository(gdb)
	boom := errors.New("conn refused")

	mock.ExpectQuery(`SELECT \* FROM "products" .*ORDER BY id asc`).WillReturnError(boom)

	items, err := r.ListProducts(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, items)
}

func TestCatalogGormRepository_Upserts(t *testing.T) {
	gdb, mock := newMockGorm(t)
	r := repository.NewCatalogGormRepository(gdb)

	mock.ExpectExec(`INSERT INTO "products" .* ON CONFLICT \("id"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO "stock" .* ON CONFLICT \("id"\) DO UPDATE SET "amount"`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, r.UpsertProduct(context.Background(), model.CatalogProduct{ID: 1, Title: "A", Price: decimal.NewFromInt(1)}))
	require.NoError(t, r.UpsertStock(context.Background(), model.Stock{ID: 1, Amount: 3}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// =====================
// Memory
// =====================

func TestCatalogMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := repository.NewCatalogMemoryRepository()

	_, err := r.FindProductByID(ctx, 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	_, err = r.FindStockByID(ctx, 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, r.UpsertProduct(ctx, model.CatalogProduct{ID: 3, Title: "C"}))
	require.NoError(t, r.UpsertProduct(ctx, model.CatalogProduct{ID: 1, Title: "A"}))
	require.NoError(t, r.UpsertProduct(ctx, model.CatalogProduct{ID: 1, Title: "A2"}))
	require.NoError(t, r.UpsertStock(ctx, model.Stock{ID: 1, Amount: 4}))

	items, err := r.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, "A2", items[0].Title)

	s, err := r.FindStockByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), s.Amount)
}

// =====================
// Tx
// =====================

func TestTxManagerGorm_CommitsSeed(t *testing.T) {
	gdb, mock := newMockGorm(t)
	tm := repository.NewTxManagerGorm(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "stock"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := tm.WithinTx(context.Background(), func(r repo.CatalogRepository) error {
		return r.UpsertStock(context.Background(), model.Stock{ID: 1, Amount: 2})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManagerGorm_RollsBackOnError(t *testing.T) {
	gdb, mock := newMockGorm(t)
	tm := repository.NewTxManagerGorm(gdb)
	boom := errors.New("seed failed")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := tm.WithinTx(context.Background(), func(r repo.CatalogRepository) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
