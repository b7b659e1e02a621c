package source

import (
	"context"
	"fmt"
	"time"

	applog "propwatch/internal/log"
)

// RetryConfig holds the parameters for the adapter retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Do executes fn with exponential back-off, giving up early when ctx is
// cancelled.
func (r RetryConfig) Do(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	delay := r.BaseDelay

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < r.MaxAttempts {
			applog.Warn(nil, "source.retry", map[string]any{
				"op": operation, "attempt": attempt, "max": r.MaxAttempts,
				"err": lastErr.Error(), "delay": delay.String(),
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, r.MaxAttempts, lastErr)
}
