package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rocketcart/internal/domain/model"
	"rocketcart/internal/handler"
	"rocketcart/internal/infra/lookup"
	"rocketcart/internal/infra/repository"
	repo "rocketcart/internal/repository"
	"rocketcart/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogEcho(t *testing.T) *echo.Echo {
	t.Helper()

	mem := repository.NewCatalogMemoryRepository()
	uc := usecase.NewCatalogUsecase(mem, repository.NewTxManagerMemory(mem))
	require.NoError(t, uc.Seed(context.Background(), usecase.CatalogFixture{
		Products: []model.CatalogProduct{
			{ID: 2, Title: "Boot", Price: decimal.RequireFromString("139.9"), Image: "2.jpg"},
			{ID: 1, Title: "Tênis", Price: decimal.RequireFromString("179.9"), Image: "1.jpg"},
		},
		Stock: []model.Stock{{ID: 1, Amount: 3}, {ID: 2, Amount: 5}},
	}))

	e := echo.New()
	handler.NewCatalogHandler(uc).RegisterRoutes(e)
	return e
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestCatalogHandler_ListProducts(t *testing.T) {
	rec := get(newCatalogEcho(t), "/products")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []model.CatalogProduct
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, int64(2), items[1].ID)
}

func TestCatalogHandler_Lookups(t *testing.T) {
	e := newCatalogEcho(t)

	rec := get(e, "/stock/2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":2,"amount":5}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, get(e, "/stock/9").Code)
	assert.Equal(t, http.StatusNotFound, get(e, "/products/9").Code)
	assert.Equal(t, http.StatusBadRequest, get(e, "/products/x").Code)
	assert.Equal(t, http.StatusBadRequest, get(e, "/stock/0").Code)
}

// カート側のlookupクライアントと参照APIを繋いで確認する
func TestCatalogHandler_ServesLookupClient(t *testing.T) {
	srv := httptest.NewServer(newCatalogEcho(t))
	defer srv.Close()

	c := lookup.NewClient(srv.URL, time.Second, nil)

	p, err := c.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Tênis", p.Title)
	assert.True(t, decimal.RequireFromString("179.9").Equal(p.Price))

	s, err := c.GetStock(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Amount)

	_, err = c.GetStock(context.Background(), 42)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
