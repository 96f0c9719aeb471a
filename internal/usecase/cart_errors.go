package usecase

import (
	"errors"
	"fmt"
)

// カート操作の種類
type Op string

const (
	OpAddProduct          Op = "add_product"
	OpRemoveProduct       Op = "remove_product"
	OpUpdateProductAmount Op = "update_product_amount"
)

// ユーザーに見せるメッセージ
const (
	MsgOutOfStock    = "requested quantity is out of stock"
	MsgAddFailed     = "failed to add product"
	MsgRemoveFailed  = "failed to remove product"
	MsgUpdateFailed  = "failed to change product quantity"
	msgUnexpectedErr = "unexpected cart error"
)

var (
	ErrOutOfStock   = errors.New("requested quantity exceeds stock")
	ErrNotInCart    = errors.New("product not in cart")
	ErrUnavailable  = errors.New("product has no stock")
	ErrLookupFailed = errors.New("lookup failed")
)

type ErrorKind int

const (
	KindOutOfStock ErrorKind = iota + 1
	KindNotFound
	KindUnavailable
	KindLookup
	KindCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case KindOutOfStock:
		return "out_of_stock"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	case KindLookup:
		return "lookup_failed"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// CartError は拒否されたカート操作。状態は変わっていない。
type CartError struct {
	Op        Op
	Kind      ErrorKind
	ProductID int64
	Err       error
}

func (e *CartError) Error() string {
	return fmt.Sprintf("%s product %d: %v", e.Op, e.ProductID, e.Err)
}

func (e *CartError) Unwrap() error {
	return e.Err
}

// Message はトーストに出す文言。在庫超過だけは操作に関係なく同じ文言。
func (e *CartError) Message() string {
	if e.Kind == KindOutOfStock {
		return MsgOutOfStock
	}
	return FailureMessage(e.Op)
}

// 操作ごとの汎用失敗メッセージ
func FailureMessage(op Op) string {
	switch op {
	case OpAddProduct:
		return MsgAddFailed
	case OpRemoveProduct:
		return MsgRemoveFailed
	case OpUpdateProductAmount:
		return MsgUpdateFailed
	default:
		return msgUnexpectedErr
	}
}

func AsCartError(err error) (*CartError, bool) {
	var ce *CartError
	ok := errors.As(err, &ce)
	return ce, ok
}
