package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/five82/auragen/internal/aura"
	"github.com/five82/auragen/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// HealthChecker reports service health.
type HealthChecker interface {
	Health(ctx context.Context) (aura.HealthResponse, error)
}

// StartPoller launches a background goroutine that refreshes the store,
// backing off while the service keeps failing. The returned channel is closed
// once the goroutine has exited after ctx is cancelled.
func StartPoller(ctx context.Context, store *state.Store, client HealthChecker, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, store, client, logger)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
	return done
}

func refresh(ctx context.Context, store *state.Store, client HealthChecker, logger *zap.Logger) {
	health, err := client.Health(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		store.Update(nil, err)
		logger.Debug("health poll failed", zap.Error(err))
		return
	}
	store.Update(&health, nil)
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
