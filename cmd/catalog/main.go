package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"rocketcart/internal/config"
	"rocketcart/internal/handler"
	"rocketcart/internal/infra/db"
	infraRepo "rocketcart/internal/infra/repository"
	"rocketcart/internal/logger"
	"rocketcart/internal/metrics"
	repo "rocketcart/internal/repository"
	"rocketcart/internal/server"
	"rocketcart/internal/shutdown"
	"rocketcart/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{
		Service: "catalog",
		Env:     cfg.GoEnv,
		Level:   cfg.LogLevel,
	})
	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("catalog stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	catalogRepo, tx, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	uc := usecase.NewCatalogUsecase(catalogRepo, tx)

	//シード投入
	if cfg.CatalogSeed != "" {
		f, err := os.Open(cfg.CatalogSeed)
		if err != nil {
			return fmt.Errorf("open seed: %w", err)
		}
		fixture, err := usecase.DecodeCatalogFixture(f)
		_ = f.Close()
		if err != nil {
			return err
		}
		if err := uc.Seed(ctx, fixture); err != nil {
			return err
		}
		log.Info("catalog seeded",
			slog.Int("products", len(fixture.Products)),
			slog.Int("stock", len(fixture.Stock)),
		)
	}

	e := server.New(server.Options{Logger: log, Metrics: metrics.New()}, handler.NewCatalogHandler(uc))
	return server.Start(ctx, e, cfg.CatalogAddr(), log)
}

func openCatalog(ctx context.Context, cfg config.Config) (repo.CatalogRepository, repo.TransactionManager, error) {
	switch cfg.CatalogDriver {
	case "postgres":
		gormDB, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		r := infraRepo.NewCatalogGormRepository(gormDB)
		if err := r.Migrate(ctx); err != nil {
			return nil, nil, fmt.Errorf("migrate catalog: %w", err)
		}
		return r, infraRepo.NewTxManagerGorm(gormDB), nil
	default:
		r := infraRepo.NewCatalogMemoryRepository()
		return r, infraRepo.NewTxManagerMemory(r), nil
	}
}
