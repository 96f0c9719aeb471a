package handler

import (
	"context"
	"net/http"
	"strconv"

	"rocketcart/internal/infra/notify"
	"rocketcart/internal/middleware"
	"rocketcart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	carts         *usecase.SessionCarts
	notifier      usecase.Notifier
	sessionSecret string
}

// DI
func NewCartHandler(carts *usecase.SessionCarts, notifier usecase.Notifier, sessionSecret string) *CartHandler {
	return &CartHandler{
		carts:         carts,
		notifier:      notifier,
		sessionSecret: sessionSecret,
	}
}

type UpdateProductAmountRequest struct {
	Amount int64 `json:"amount"`
}

// /cart, /cart/products/{id} を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/cart")
	g.Use(middleware.SessionJWT(h.sessionSecret))

	g.GET("", h.getCart)
	g.POST("/products/:id", h.addProduct)
	g.PATCH("/products/:id", h.updateProductAmount)
	g.DELETE("/products/:id", h.removeProduct)
}

func (h *CartHandler) getCart(c echo.Context) error {
	store, release, err := h.storeFor(c)
	if err != nil {
		return writeError(c, err)
	}
	defer release()

	return c.JSON(http.StatusOK, store.Summary())
}

func (h *CartHandler) addProduct(c echo.Context) error {
	return h.mutate(c, func(ctx context.Context, cart *usecase.NotifyingCart, productID int64) {
		cart.AddProduct(ctx, productID)
	})
}

func (h *CartHandler) removeProduct(c echo.Context) error {
	return h.mutate(c, func(ctx context.Context, cart *usecase.NotifyingCart, productID int64) {
		cart.RemoveProduct(ctx, productID)
	})
}

func (h *CartHandler) updateProductAmount(c echo.Context) error {
	var req UpdateProductAmountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	return h.mutate(c, func(ctx context.Context, cart *usecase.NotifyingCart, productID int64) {
		cart.UpdateProductAmount(ctx, usecase.UpdateProductAmountInput{
			ProductID: productID,
			Amount:    req.Amount,
		})
	})
}

// mutate は操作を実行し、通知があればエラー応答、無ければ最新のカートを返す。
func (h *CartHandler) mutate(c echo.Context, fn func(ctx context.Context, cart *usecase.NotifyingCart, productID int64)) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	store, release, err := h.storeFor(c)
	if err != nil {
		return writeError(c, err)
	}
	defer release()

	collector := notify.NewCollector()
	cart := usecase.NewNotifyingCart(store, notify.Multi{collector, h.notifier})

	fn(c.Request().Context(), cart, productID)

	if n, ok := collector.Last(); ok {
		return c.JSON(statusForKind(n.Kind), ErrorResponse{Error: n.Message})
	}
	return c.JSON(http.StatusOK, cart.Summary())
}

// 応答を書き終えるまでカートを借りておく
func (h *CartHandler) storeFor(c echo.Context) (*usecase.CartUsecase, func(), error) {
	sid, ok := middleware.SessionIDFrom(c)
	if !ok {
		return nil, nil, usecase.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	store, release, err := h.carts.Acquire(c.Request().Context(), sid)
	if err != nil {
		return nil, nil, usecase.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return store, release, nil
}
