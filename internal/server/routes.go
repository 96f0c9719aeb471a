package server

import (
	"net/http"

	"rocketcart/internal/metrics"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, m *metrics.Metrics, handlers ...RouteRegistrar) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	for _, h := range handlers {
		h.RegisterRoutes(e)
	}
}
