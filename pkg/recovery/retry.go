package recovery

import (
	"context"
	"fmt"
	"time"

	"github.com/user/mpvplay/pkg/ports"
)

// MaxRetryDelay caps the exponential backoff.
const MaxRetryDelay = 30 * time.Second

// WithRetry runs op up to maxAttempts times, waiting baseDelay, 2*baseDelay,
// 4*baseDelay... (capped at MaxRetryDelay) between attempts. op receives the
// 1-based attempt number. The last error is returned when every attempt
// fails; ctx cancellation stops waiting and returns ctx.Err().
func WithRetry(ctx context.Context, logger ports.Logger, maxAttempts int, baseDelay time.Duration, op func(attempt int) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	delay := baseDelay
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		logger.Debug("Attempt %d/%d", attempt, maxAttempts)
		err := op(attempt)
		if err == nil {
			return nil
		}
		lastErr = err
		logger.Warn("Attempt %d failed: %s", attempt, err.Error())

		if attempt == maxAttempts {
			break
		}

		logger.Debug("Waiting %s before retry", delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, MaxRetryDelay)
	}

	return fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}

// BackoffDelay returns the wait after the given 0-based attempt.
func BackoffDelay(attempt int, baseDelay time.Duration) time.Duration {
	delay := baseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= MaxRetryDelay {
			return MaxRetryDelay
		}
	}
	return min(delay, MaxRetryDelay)
}
