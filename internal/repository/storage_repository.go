package repository

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 文字列のキー/値を同期的に読み書きするだけの約束。
// キーが無ければ ErrNotFound を返す。
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}
