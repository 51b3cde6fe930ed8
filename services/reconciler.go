package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cppla/dollarblog/utils"
)

// StartCounterReconciler runs ReconcileCounters every interval until ctx is
// cancelled, dropping cached post lists whenever a counter was rewritten.
// The returned channel closes when the loop has exited. cache may be nil.
func StartCounterReconciler(ctx context.Context, l *Ledger, cache *utils.Cache, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			// Wait first so startup does not race the first requests
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			n, err := l.ReconcileCounters(ctx)
			if err != nil {
				if ctx.Err() == nil {
					l.log.Error("counter reconciliation failed", zap.Error(err))
				}
				continue
			}
			if n > 0 {
				cache.InvalidatePrefix(ctx, utils.PostListCachePrefix)
			}
		}
	}()
	return done
}
