package storage

import (
	"context"
	"fmt"

	"rocketcart/internal/config"
	"rocketcart/internal/infra/db"
	repo "rocketcart/internal/repository"

	"gorm.io/gorm"
)

// Open は STORAGE_DRIVER に応じたストアを返す。closeは必ず呼ぶ。
func Open(ctx context.Context, cfg config.Config) (repo.KeyValueStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageDriver {
	case "memory":
		return NewMemoryStore(), noop, nil

	case "postgres":
		gormDB, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return openGorm(ctx, gormDB)

	case "redis":
		s := NewRedisStore(cfg.RedisAddr)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return s, s.Close, nil

	case "sqlite":
		s, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case "s3":
		s, err := NewS3Store(ctx, S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Prefix:    "carts/",
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// 接続後に失敗したらプールを閉じてから返す
func openGorm(ctx context.Context, gormDB *gorm.DB) (repo.KeyValueStore, func() error, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("postgres pool: %w", err)
	}

	s := NewGormStore(gormDB)
	if err := s.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("migrate storage_entries: %w", err)
	}
	return s, sqlDB.Close, nil
}
