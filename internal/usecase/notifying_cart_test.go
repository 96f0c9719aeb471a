package usecase_test

import (
	"context"
	"errors"
	"testing"

	"rocketcart/internal/domain/model"
	"rocketcart/internal/infra/notify"
	"rocketcart/internal/infra/storage"
	"rocketcart/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// 4つのシナリオ（通知込み）
// =====================

func TestNotifyingCart_AddNewProduct(t *testing.T) {
	s := newCountingStore()
	c := new(CatalogClientMock)
	col := notify.NewCollector()
	cart := usecase.NewNotifyingCart(newCart(t, s, c), col)

	c.On("GetStock", mock.Anything, int64(1)).Return(model.Stock{ID: 1, Amount: 5}, nil)
	c.On("GetProduct", mock.Anything, int64(1)).Return(catalogShoe(1), nil)

	cart.AddProduct(context.Background(), 1)

	assertSameCart(t, model.Cart{shoe(1, 1)}, cart.Cart())
	assertSameCart(t, model.Cart{shoe(1, 1)}, storedCart(t, s))
	assert.Empty(t, col.Notifications())
}

func TestNotifyingCart_AddBeyondStock(t *testing.T) {
	s := newCountingStore()
	seedCart(t, s, model.Cart{shoe(1, 5)})
	c := new(CatalogClientMock)
	col := notify.NewCollector()
	cart := usecase.NewNotifyingCart(newCart(t, s, c), col)
	setsBefore := s.Sets()

	c.On("GetStock", mock.Anything, int64(1)).Return(model.Stock{ID: 1, Amount: 5}, nil)

	cart.AddProduct(context.Background(), 1)

	got := col.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, usecase.MsgOutOfStock, got[0].Message)
	assert.Equal(t, usecase.KindOutOfStock, got[0].Kind)
	assert.Equal(t, usecase.OpAddProduct, got[0].Op)
	assert.Equal(t, int64(1), got[0].ProductID)

	assertSameCart(t, model.Cart{shoe(1, 5)}, cart.Cart())
	assert.Equal(t, setsBefore, s.Sets())
}

func TestNotifyingCart_RemoveAbsent(t *testing.T) {
	s := newCountingStore()
	seedCart(t, s, model.Cart{shoe(2, 1)})
	col := notify.NewCollector()
	cart := usecase.NewNotifyingCart(newCart(t, s, new(CatalogClientMock)), col)
	setsBefore := s.Sets()

	cart.RemoveProduct(context.Background(), 3)

	got := col.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, usecase.MsgRemoveFailed, got[0].Message)
	assertSameCart(t, model.Cart{shoe(2, 1)}, cart.Cart())
	assert.Equal(t, setsBefore, s.Sets())
}

func TestNotifyingCart_UpdateToZero(t *testing.T) {
	s := newCountingStore()
	seedCart(t, s, model.Cart{shoe(1, 2)})
	c := new(CatalogClientMock)
	col := notify.NewCollector()
	cart := usecase.NewNotifyingCart(newCart(t, s, c), col)
	setsBefore := s.Sets()

	cart.UpdateProductAmount(context.Background(), usecase.UpdateProductAmountInput{ProductID: 1, Amount: 0})

	assert.Empty(t, col.Notifications())
	assertSameCart(t, model.Cart{shoe(1, 2)}, cart.Cart())
	assert.Equal(t, setsBefore, s.Sets())
	c.AssertNotCalled(t, "GetStock", mock.Anything, mock.Anything)
}

// =====================
// メッセージの振り分け
// =====================

func TestNotifyingCart_FailureMessages(t *testing.T) {
	boom := errors.New("boom")

	t.Run("add lookup failure", func(t *testing.T) {
		c := new(CatalogClientMock)
		col := notify.NewCollector()
		cart := usecase.NewNotifyingCart(newCart(t, storage.NewMemoryStore(), c), col)
		c.On("GetStock", mock.Anything, int64(1)).Return(model.Stock{}, boom)

		cart.AddProduct(context.Background(), 1)

		n, ok := col.Last()
		require.True(t, ok)
		assert.Equal(t, usecase.MsgAddFailed, n.Message)
		assert.Equal(t, usecase.KindLookup, n.Kind)
	})

	t.Run("add with zero stock", func(t *testing.T) {
		c := new(CatalogClientMock)
		col := notify.NewCollector()
		cart := usecase.NewNotifyingCart(newCart(t, storage.NewMemoryStore(), c), col)
		c.On("GetStock", mock.Anything, int64(1)).Return(model.Stock{ID: 1}, nil)

		cart.AddProduct(context.Background(), 1)

		n, ok := col.Last()
		require.True(t, ok)
		assert.Equal(t, usecase.MsgAddFailed, n.Message)
	})

	t.Run("update out of stock", func(t *testing.T) {
		s := storage.NewMemoryStore()
		seedCart(t, s, model.Cart{shoe(1, 1)})
		c := new(CatalogClientMock)
		col := notify.NewCollector()
		cart := usecase.NewNotifyingCart(newCart(t, s, c), col)
		c.On("GetStock", mock.Anything, int64(1)).Return(model.Stock{ID: 1, Amount: 2}, nil)

		cart.UpdateProductAmount(context.Background(), usecase.UpdateProductAmountInput{ProductID: 1, Amount: 3})

		n, ok := col.Last()
		require.True(t, ok)
		assert.Equal(t, usecase.MsgOutOfStock, n.Message)
	})

	t.Run("update lookup failure", func(t *testing.T) {
		s := storage.NewMemoryStore()
		seedCart(t, s, model.Cart{shoe(1, 1)})
		c := new(CatalogClientMock)
		col := notify.NewCollector()
		cart := usecase.NewNotifyingCart(newCart(t, s, c), col)
		c.On("GetStock", mock.Anything, int64(1)).Return(model.Stock{}, boom)

		cart.UpdateProductAmount(context.Background(), usecase.UpdateProductAmountInput{ProductID: 1, Amount: 2})

		n, ok := col.Last()
		require.True(t, ok)
		assert.Equal(t, usecase.MsgUpdateFailed, n.Message)
	})
}

// CartError 以外のエラーも操作ごとの文言になる
type failingStore struct{ usecase.CartStore }

func (failingStore) RemoveProduct(ctx context.Context, productID int64) (model.Cart, error) {
	return nil, errors.New("unexpected")
}

func TestNotifyingCart_PlainErrorUsesOperationMessage(t *testing.T) {
	col := notify.NewCollector()
	cart := usecase.NewNotifyingCart(failingStore{}, col)

	cart.RemoveProduct(context.Background(), 4)

	n, ok := col.Last()
	require.True(t, ok)
	assert.Equal(t, usecase.MsgRemoveFailed, n.Message)
	assert.Equal(t, int64(4), n.ProductID)
}

func TestNotifyingCart_Summary(t *testing.T) {
	s := storage.NewMemoryStore()
	seedCart(t, s, model.Cart{shoe(1, 2)})
	cart := usecase.NewNotifyingCart(newCart(t, s, new(CatalogClientMock)), notify.NewCollector())

	sum := cart.Summary()
	assert.Equal(t, int64(2), sum.Count)
	require.Len(t, sum.Items, 1)
}
