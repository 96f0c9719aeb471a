package usecase

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// 商品IDごとの直列化。待ち手がいなくなったエントリは消す。
type productLocks struct {
	mu    sync.Mutex
	locks map[int64]*productLock
}

type productLock struct {
	sem  *semaphore.Weighted
	refs int
}

func (l *productLocks) acquire(ctx context.Context, productID int64) (func(), error) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[int64]*productLock)
	}
	pl, ok := l.locks[productID]
	if !ok {
		pl = &productLock{sem: semaphore.NewWeighted(1)}
		l.locks[productID] = pl
	}
	pl.refs++
	l.mu.Unlock()

	if err := pl.sem.Acquire(ctx, 1); err != nil {
		l.drop(productID, pl)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			pl.sem.Release(1)
			l.drop(productID, pl)
		})
	}, nil
}

func (l *productLocks) drop(productID int64, pl *productLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pl.refs--
	if pl.refs == 0 {
		delete(l.locks, productID)
	}
}

// テスト用：保持中のエントリ数
func (l *productLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
