package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"rocketcart/internal/domain/model"
	"rocketcart/internal/metrics"
	repo "rocketcart/internal/repository"

	"github.com/shopspring/decimal"
)

const DefaultStorageKey = "@RocketShoes:cart"

type CartOptions struct {
	StorageKey string // 空なら DefaultStorageKey
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

// CartUsecase はセッション1つ分のカート状態を持つ。
// 変更は AddProduct / RemoveProduct / UpdateProductAmount だけで行い、
// 受理された変更ごとにカート全体を保存する。
type CartUsecase struct {
	storage repo.KeyValueStore
	catalog repo.CatalogClient
	key     string
	log     *slog.Logger
	metrics *metrics.Metrics

	mu    sync.RWMutex
	cart  model.Cart
	locks productLocks
}

// 数量変更の入力
type UpdateProductAmountInput struct {
	ProductID int64 `json:"product_id"`
	Amount    int64 `json:"amount"`
}

// カート画面用の集計
type CartLine struct {
	model.Product
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CartSummary struct {
	Items []CartLine      `json:"items"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// NewCartUsecase は保存済みのカートを読み込んで作る。
// 読めない/壊れている場合は空のカートから始める。
func NewCartUsecase(ctx context.Context, storage repo.KeyValueStore, catalog repo.CatalogClient, opts CartOptions) *CartUsecase {
	key := opts.StorageKey
	if key == "" {
		key = DefaultStorageKey
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	u := &CartUsecase{
		storage: storage,
		catalog: catalog,
		key:     key,
		log:     log.With("storage_key", key),
		metrics: opts.Metrics,
	}
	u.cart = u.load(ctx)
	return u
}

func (u *CartUsecase) StorageKey() string {
	return u.key
}

// Cart は現在のカートのコピーを返す。
func (u *CartUsecase) Cart() model.Cart {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.cart.Clone()
}

func (u *CartUsecase) Summary() CartSummary {
	cart := u.Cart()

	items := make([]CartLine, 0, len(cart))
	for _, p := range cart {
		items = append(items, CartLine{Product: p, Subtotal: p.Subtotal()})
	}
	return CartSummary{Items: items, Count: cart.Count(), Total: cart.Total()}
}

// AddProduct は在庫を確認して1つ追加する（既にあれば数量+1）。
func (u *CartUsecase) AddProduct(ctx context.Context, productID int64) (model.Cart, error) {
	const op = OpAddProduct

	release, err := u.locks.acquire(ctx, productID)
	if err != nil {
		return u.reject(op, productID, KindCanceled, err)
	}
	defer release()

	stock, err := u.catalog.GetStock(ctx, productID)
	if err != nil {
		return u.reject(op, productID, KindLookup, fmt.Errorf("%w: %w", ErrLookupFailed, err))
	}
	if stock.Amount <= 0 {
		return u.reject(op, productID, KindUnavailable, ErrUnavailable)
	}

	// 既存明細は数量+1（在庫を超えるなら拒否）
	if current, ok := u.peek(productID); ok {
		next := current.Amount + 1
		if next > stock.Amount {
			return u.reject(op, productID, KindOutOfStock, ErrOutOfStock)
		}
		cart := u.commit(ctx, op, func(c model.Cart) (model.Cart, bool) {
			return c.WithAmount(productID, next)
		})
		return cart, nil
	}

	// 新規は商品情報を取って数量1で末尾に追加
	p, err := u.catalog.GetProduct(ctx, productID)
	if err != nil {
		return u.reject(op, productID, KindLookup, fmt.Errorf("%w: %w", ErrLookupFailed, err))
	}
	p.ID = productID

	cart := u.commit(ctx, op, func(c model.Cart) (model.Cart, bool) {
		return c.Append(model.NewLineItem(p, 1)), true
	})
	return cart, nil
}

// RemoveProduct は明細を削除する。外部参照はしない。
func (u *CartUsecase) RemoveProduct(ctx context.Context, productID int64) (model.Cart, error) {
	const op = OpRemoveProduct

	release, err := u.locks.acquire(ctx, productID)
	if err != nil {
		return u.reject(op, productID, KindCanceled, err)
	}
	defer release()

	if _, ok := u.peek(productID); !ok {
		return u.reject(op, productID, KindNotFound, ErrNotInCart)
	}

	cart := u.commit(ctx, op, func(c model.Cart) (model.Cart, bool) {
		return c.Without(productID)
	})
	return cart, nil
}

// UpdateProductAmount は数量を指定値に変える。0以下は何もしない。
func (u *CartUsecase) UpdateProductAmount(ctx context.Context, in UpdateProductAmountInput) (model.Cart, error) {
	const op = OpUpdateProductAmount

	if in.Amount <= 0 {
		u.metrics.ObserveCartOperation(string(op), "noop")
		return u.Cart(), nil
	}

	release, err := u.locks.acquire(ctx, in.ProductID)
	if err != nil {
		return u.reject(op, in.ProductID, KindCanceled, err)
	}
	defer release()

	stock, err := u.catalog.GetStock(ctx, in.ProductID)
	if err != nil {
		return u.reject(op, in.ProductID, KindLookup, fmt.Errorf("%w: %w", ErrLookupFailed, err))
	}
	if in.Amount > stock.Amount {
		return u.reject(op, in.ProductID, KindOutOfStock, ErrOutOfStock)
	}

	if _, ok := u.peek(in.ProductID); !ok {
		return u.reject(op, in.ProductID, KindNotFound, ErrNotInCart)
	}

	cart := u.commit(ctx, op, func(c model.Cart) (model.Cart, bool) {
		return c.WithAmount(in.ProductID, in.Amount)
	})
	return cart, nil
}

// 商品IDのロックを持った状態で呼ぶ
func (u *CartUsecase) peek(productID int64) (model.Product, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.cart.Find(productID)
}

// commit は最新のカートに変更を当てて、変わったときだけ保存する。
// 保存の順序を崩さないよう書き込みもロック内で行う。
func (u *CartUsecase) commit(ctx context.Context, op Op, mutate func(model.Cart) (model.Cart, bool)) model.Cart {
	u.mu.Lock()
	defer u.mu.Unlock()

	next, changed := mutate(u.cart)
	if !changed {
		u.metrics.ObserveCartOperation(string(op), "noop")
		return u.cart.Clone()
	}

	u.cart = next
	u.persist(context.WithoutCancel(ctx), next)
	u.metrics.ObserveCartOperation(string(op), "ok")
	return next.Clone()
}

// 書き込み失敗はログと計測だけ（メモリ上の状態は戻さない）
func (u *CartUsecase) persist(ctx context.Context, cart model.Cart) {
	if cart == nil {
		cart = model.Cart{}
	}
	raw, err := json.Marshal(cart)
	if err == nil {
		err = u.storage.Set(ctx, u.key, string(raw))
	}
	u.metrics.ObserveStorageWrite(err)
	if err != nil {
		u.log.Warn("cart persist failed", slog.Any("err", err))
	}
}

func (u *CartUsecase) load(ctx context.Context) model.Cart {
	raw, err := u.storage.Get(ctx, u.key)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}
	}
	if err != nil {
		u.log.Warn("cart load failed, starting empty", slog.Any("err", err))
		return model.Cart{}
	}

	var cart model.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		u.log.Warn("stored cart is malformed, starting empty", slog.Any("err", err))
		return model.Cart{}
	}
	if err := cart.Validate(); err != nil {
		u.log.Warn("stored cart is malformed, starting empty", slog.Any("err", err))
		return model.Cart{}
	}
	if cart == nil {
		return model.Cart{}
	}
	return cart
}

func (u *CartUsecase) reject(op Op, productID int64, kind ErrorKind, err error) (model.Cart, error) {
	u.metrics.ObserveCartOperation(string(op), kind.String())
	u.log.Debug("cart operation rejected",
		slog.String("op", string(op)),
		slog.Int64("product_id", productID),
		slog.String("kind", kind.String()),
		slog.Any("err", err),
	)
	return u.Cart(), &CartError{Op: op, Kind: kind, ProductID: productID, Err: err}
}
