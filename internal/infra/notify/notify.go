package notify

import (
	"context"
	"log/slog"
	"sync"

	"rocketcart/internal/usecase"
)

// Collector はリクエスト単位で通知を溜める。
type Collector struct {
	mu    sync.Mutex
	items []usecase.Notification
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Notify(ctx context.Context, n usecase.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, n)
}

func (c *Collector) Notifications() []usecase.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]usecase.Notification, len(c.items))
	copy(out, c.items)
	return out
}

// 最後の通知（無ければ false）
func (c *Collector) Last() (usecase.Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) == 0 {
		return usecase.Notification{}, false
	}
	return c.items[len(c.items)-1], true
}

// LogNotifier は通知を構造化ログに出す。
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Notify(ctx context.Context, n usecase.Notification) {
	l.log.InfoContext(ctx, "cart notification",
		slog.String("op", string(n.Op)),
		slog.String("kind", n.Kind.String()),
		slog.Int64("product_id", n.ProductID),
		slog.String("message", n.Message),
	)
}

// Multi は全ての通知先に配る。
type Multi []usecase.Notifier

func (m Multi) Notify(ctx context.Context, n usecase.Notification) {
	for _, t := range m {
		if t != nil {
			t.Notify(ctx, n)
		}
	}
}
