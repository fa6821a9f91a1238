package pipeline

import (
	"context"
	"time"
)

const (
	maxAttempts = 3
	retryDelay  = time.Second
)

// retry runs fn up to maxAttempts times with a fixed pause between failures
// and returns the last error when every attempt fails.
func (p *Pipeline) retry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := p.sleep(ctx, retryDelay); err != nil {
				return err
			}
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
		p.logger.Warn("Attempt failed", "attempt", attempt, "error", lastErr)
	}

	return lastErr
}

// sleepCtx pauses for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
