package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"rocketcart/internal/metrics"
	"rocketcart/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// handlerごとのルート登録
type RouteRegistrar interface {
	RegisterRoutes(e *echo.Echo)
}

type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// New はミドルウェアと共通ルート（/health, /metrics）を載せたechoを返す。
func New(opts Options, handlers ...RouteRegistrar) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	if opts.Logger != nil {
		e.Use(middleware.RequestLog(opts.Logger))
	}

	RegisterRoutes(e, opts.Metrics, handlers...)
	return e
}

// Start はctxが終わるまで待ち受け、終わったらgracefulに止める。
func Start(ctx context.Context, e *echo.Echo, addr string, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutdown requested")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
