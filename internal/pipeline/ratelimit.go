package pipeline

import (
	"context"
	"sync"
	"time"
)

// rateLimiter enforces a sliding-window request quota for AI provider calls.
type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func newRateLimiter(perMinute int) *rateLimiter {
	return &rateLimiter{
		limit:  perMinute,
		window: time.Minute,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// wait blocks until a request slot frees up or the context is cancelled.
func (l *rateLimiter) wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		l.mu.Lock()
		now := l.now()
		l.prune(now)
		if len(l.stamps) < l.limit {
			l.stamps = append(l.stamps, now)
			l.mu.Unlock()
			return nil
		}
		wakeAt := l.stamps[0].Add(l.window)
		l.mu.Unlock()

		if err := l.sleep(ctx, wakeAt.Sub(now)); err != nil {
			return err
		}
	}
}

// prune drops timestamps outside the window. Callers hold mu.
func (l *rateLimiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	kept := l.stamps[:0]
	for _, t := range l.stamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.stamps = kept
}
