package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidCart は保存済みカートが不変条件を満たさないときに返す。
var ErrInvalidCart = errors.New("invalid cart")

// Cart は明細の順序付きリスト。IDは一意。
type Cart []Product

// IDで明細を探す（見つからなければ -1）
func (c Cart) Index(productID int64) int {
	for i, p := range c {
		if p.ID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) Find(productID int64) (Product, bool) {
	i := c.Index(productID)
	if i < 0 {
		return Product{}, false
	}
	return c[i], true
}

// 呼び出し側が書き換えても元に影響しないコピー
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// WithAmount は指定IDの数量だけ差し替えた新しいカートを返す。
func (c Cart) WithAmount(productID int64, amount int64) (Cart, bool) {
	i := c.Index(productID)
	if i < 0 {
		return c, false
	}
	out := c.Clone()
	out[i].Amount = amount
	return out, true
}

// Without は指定IDを除いた新しいカートを返す（順序は維持）。
func (c Cart) Without(productID int64) (Cart, bool) {
	i := c.Index(productID)
	if i < 0 {
		return c, false
	}
	out := make(Cart, 0, len(c)-1)
	out = append(out, c[:i]...)
	out = append(out, c[i+1:]...)
	return out, true
}

// Append は末尾に明細を追加した新しいカートを返す。
func (c Cart) Append(p Product) Cart {
	out := make(Cart, 0, len(c)+1)
	out = append(out, c...)
	return append(out, p)
}

// Validate はID重複と数量0以下をはじく。
func (c Cart) Validate() error {
	seen := make(map[int64]struct{}, len(c))
	for _, p := range c {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate product %d", ErrInvalidCart, p.ID)
		}
		if p.Amount < 1 {
			return fmt.Errorf("%w: product %d has amount %d", ErrInvalidCart, p.ID, p.Amount)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// 明細数量の合計
func (c Cart) Count() int64 {
	var n int64
	for _, p := range c {
		n += p.Amount
	}
	return n
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c {
		total = total.Add(p.Subtotal())
	}
	return total
}
