package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"rocketcart/internal/config"
	"rocketcart/internal/handler"
	"rocketcart/internal/infra/lookup"
	"rocketcart/internal/infra/notify"
	"rocketcart/internal/infra/storage"
	"rocketcart/internal/infra/token"
	"rocketcart/internal/logger"
	"rocketcart/internal/metrics"
	"rocketcart/internal/server"
	"rocketcart/internal/shutdown"
	"rocketcart/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは任意
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{
		Service: "cart-api",
		Env:     cfg.GoEnv,
		Level:   cfg.LogLevel,
	})

	// 価格はカタログと同じく数値で返す
	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("cart-api stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	m := metrics.New()

	//保存先
	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn("storage close failed", slog.Any("err", err))
		}
	}()

	//在庫/商品API
	catalog := lookup.NewClient(cfg.LookupBaseURL, cfg.LookupTimeout, m)

	//セッションごとのカート
	carts := usecase.NewSessionCarts(cfg.CartStorageKey, func(ctx context.Context, key string) *usecase.CartUsecase {
		return usecase.NewCartUsecase(ctx, store, catalog, usecase.CartOptions{
			StorageKey: key,
			Logger:     log,
			Metrics:    m,
		})
	}, usecase.SessionCartsOptions{
		MaxIdle: cfg.CartCacheSize,
		IdleTTL: cfg.CartIdleTTL,
	})

	sessionUC := usecase.NewSessionUsecase(&uuidGenerator{}, token.NewJWTIssuer(cfg.SessionSecret, cfg.SessionTTL), &realClock{})

	//Handler生成
	cartH := handler.NewCartHandler(carts, notify.NewLogNotifier(log), cfg.SessionSecret)
	sessionH := handler.NewSessionHandler(sessionUC)

	e := server.New(server.Options{Logger: log, Metrics: m}, sessionH, cartH)
	return server.Start(ctx, e, cfg.Addr(), log)
}
