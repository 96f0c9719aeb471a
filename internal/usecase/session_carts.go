package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

var ErrInvalidSession = errors.New("invalid session")

const (
	DefaultSessionCacheSize = 10000
	DefaultSessionIdleTTL   = 30 * time.Minute
)

// ストレージキーを受け取ってセッション用のカートを作る
type CartFactory func(ctx context.Context, storageKey string) *CartUsecase

type SessionCartsOptions struct {
	MaxIdle int           // 保持する待機中カートの上限（0ならDefaultSessionCacheSize）
	IdleTTL time.Duration // 最後に使われてからの保持時間（0ならDefaultSessionIdleTTL）
}

type sessionEntry struct {
	cart  *CartUsecase
	users int
}

// SessionCarts はセッションIDごとにカートを1つだけ作って保持する。
// 使用中のカートは inUse に置き、解放されたら idle（LRU）へ移す。
// 追い出されるのは idle だけなので、同じセッションのカートが同時に2つ存在することはない。
type SessionCarts struct {
	baseKey string
	newCart CartFactory

	mu    sync.Mutex
	inUse map[string]*sessionEntry
	idle  *expirable.LRU[string, *sessionEntry]
	group singleflight.Group
}

func NewSessionCarts(baseKey string, newCart CartFactory, opts ...SessionCartsOptions) *SessionCarts {
	if baseKey == "" {
		baseKey = DefaultStorageKey
	}
	var o SessionCartsOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.MaxIdle <= 0 {
		o.MaxIdle = DefaultSessionCacheSize
	}
	if o.IdleTTL <= 0 {
		o.IdleTTL = DefaultSessionIdleTTL
	}

	return &SessionCarts{
		baseKey: baseKey,
		newCart: newCart,
		inUse:   make(map[string]*sessionEntry),
		idle:    expirable.NewLRU[string, *sessionEntry](o.MaxIdle, nil, o.IdleTTL),
	}
}

// "@RocketShoes:cart:<sessionID>"
func StorageKeyFor(baseKey string, sessionID string) string {
	return baseKey + ":" + sessionID
}

// Acquire はセッションのカートを返す（初回・追い出し後は保存済みの状態から作る）。
// 使い終わったら release を必ず呼ぶ。呼ぶまでカートは追い出されない。
func (s *SessionCarts) Acquire(ctx context.Context, sessionID string) (*CartUsecase, func(), error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, nil, ErrInvalidSession
	}

	for {
		s.mu.Lock()
		e, ok := s.leaseLocked(sessionID)
		s.mu.Unlock()
		if ok {
			return e.cart, s.releaser(sessionID, e), nil
		}

		// 同じセッションの同時初回アクセスでも読み込みは1回
		s.group.Do(sessionID, func() (interface{}, error) {
			s.mu.Lock()
			_, ok := s.lookupLocked(sessionID)
			s.mu.Unlock()
			if ok {
				return nil, nil
			}

			created := s.newCart(context.WithoutCancel(ctx), StorageKeyFor(s.baseKey, sessionID))

			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.lookupLocked(sessionID); !ok {
				s.inUse[sessionID] = &sessionEntry{cart: created}
			}
			return nil, nil
		})
	}
}

// 保持中のカート数（使用中 + 待機中）
func (s *SessionCarts) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inUse) + s.idle.Len()
}

func (s *SessionCarts) lookupLocked(sessionID string) (*sessionEntry, bool) {
	if e, ok := s.inUse[sessionID]; ok {
		return e, true
	}
	return s.idle.Peek(sessionID)
}

func (s *SessionCarts) leaseLocked(sessionID string) (*sessionEntry, bool) {
	if e, ok := s.inUse[sessionID]; ok {
		e.users++
		return e, true
	}
	e, ok := s.idle.Peek(sessionID)
	if !ok {
		return nil, false
	}
	s.idle.Remove(sessionID)
	e.users = 1
	s.inUse[sessionID] = e
	return e, true
}

func (s *SessionCarts) releaser(sessionID string, e *sessionEntry) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			e.users--
			if e.users > 0 {
				return
			}
			// 上限を超えたら最も古い待機中カートが落ちる
			delete(s.inUse, sessionID)
			s.idle.Add(sessionID, e)
		})
	}
}
