package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithSignals はSIGINT/SIGTERMでキャンセルされるcontextを返す。
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
