package engine

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval matches the remote counter's refresh cadence.
const DefaultPollInterval = 60 * time.Second

// StartPolling refreshes likes every interval until ctx is cancelled or the
// returned stop func is called. stop blocks until the loop has exited and
// is safe to call more than once.
func (e *Engine) StartPolling(ctx context.Context, interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.RefreshLikes(ctx)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
