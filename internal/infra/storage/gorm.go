package storage

import (
	"context"
	"errors"
	"time"

	repo "rocketcart/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 1キー1行
type StorageEntry struct {
	Key       string    `gorm:"column:storage_key;type:varchar(255);primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (StorageEntry) TableName() string { return "storage_entries" }

const pgUndefinedTable = "42P01"

type GormStore struct {
	db *gorm.DB
}

// DI
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&StorageEntry{})
}

// キーの値を取得（テーブル未作成も「無し」扱い）
func (s *GormStore) Get(ctx context.Context, key string) (string, error) {
	var e StorageEntry

	err := s.db.WithContext(ctx).
		Where("storage_key = ?", key).
		Take(&e).Error

	if errors.Is(err, gorm.ErrRecordNotFound) || isUndefinedTable(err) {
		return "", repo.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return e.Value, nil
}

// 同一キーは上書き
func (s *GormStore) Set(ctx context.Context, key string, value string) error {
	e := StorageEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "storage_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&e).Error
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}
