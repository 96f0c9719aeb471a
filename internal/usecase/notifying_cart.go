package usecase

import (
	"context"

	"rocketcart/internal/domain/model"
)

// ユーザーへの通知（トースト相当）
type Notification struct {
	Op        Op        `json:"op"`
	Kind      ErrorKind `json:"-"`
	ProductID int64     `json:"product_id"`
	Message   string    `json:"message"`
}

// 送りっぱなしの通知先
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifyingCart が呼び出す操作
type CartStore interface {
	Cart() model.Cart
	Summary() CartSummary
	AddProduct(ctx context.Context, productID int64) (model.Cart, error)
	RemoveProduct(ctx context.Context, productID int64) (model.Cart, error)
	UpdateProductAmount(ctx context.Context, in UpdateProductAmountInput) (model.Cart, error)
}

var _ CartStore = (*CartUsecase)(nil)

// NotifyingCart は失敗を通知に変えるだけの薄いアダプタ。
// 呼び出し側にエラーは返らない。
type NotifyingCart struct {
	store    CartStore
	notifier Notifier
}

func NewNotifyingCart(store CartStore, notifier Notifier) *NotifyingCart {
	return &NotifyingCart{store: store, notifier: notifier}
}

func (c *NotifyingCart) Cart() model.Cart {
	return c.store.Cart()
}

func (c *NotifyingCart) Summary() CartSummary {
	return c.store.Summary()
}

func (c *NotifyingCart) AddProduct(ctx context.Context, productID int64) {
	if _, err := c.store.AddProduct(ctx, productID); err != nil {
		c.notify(ctx, OpAddProduct, productID, err)
	}
}

func (c *NotifyingCart) RemoveProduct(ctx context.Context, productID int64) {
	if _, err := c.store.RemoveProduct(ctx, productID); err != nil {
		c.notify(ctx, OpRemoveProduct, productID, err)
	}
}

func (c *NotifyingCart) UpdateProductAmount(ctx context.Context, in UpdateProductAmountInput) {
	if _, err := c.store.UpdateProductAmount(ctx, in); err != nil {
		c.notify(ctx, OpUpdateProductAmount, in.ProductID, err)
	}
}

func (c *NotifyingCart) notify(ctx context.Context, op Op, productID int64, err error) {
	n := Notification{Op: op, ProductID: productID, Message: FailureMessage(op)}
	if ce, ok := AsCartError(err); ok {
		n.Kind = ce.Kind
		n.Message = ce.Message()
	}
	c.notifier.Notify(ctx, n)
}
