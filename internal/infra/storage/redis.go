package storage

import (
	"context"
	"errors"
	"strings"

	repo "rocketcart/internal/repository"

	"github.com/go-redis/redis/v8"
)

// RedisStore は Redis の GET/SET をそのまま使う。期限は付けない。
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore は "redis://..." か "host:port" を受け取る。
func NewRedisStore(addr string) *RedisStore {
	opts, err := redis.ParseURL(addr)
	if err != nil || !strings.Contains(addr, "://") {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			MaxRetries:   3,
		}
	}
	return NewRedisStoreFromClient(redis.NewClient(opts))
}

func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", repo.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
