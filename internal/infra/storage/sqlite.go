package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	repo "rocketcart/internal/repository"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteStore はローカルファイルにキー/値を保存する。
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "rocketcart.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// 書き込みは1本に絞る（:memory: でも同じDBを見る）
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS storage_entries (
		storage_key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create storage_entries: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM storage_entries WHERE storage_key = ?`, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repo.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select storage entry: %w", err)
	}
	return v, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO storage_entries (storage_key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(storage_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert storage entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
