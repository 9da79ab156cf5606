// Package utils provides small helpers shared by callers of the client.
package utils

import (
	"context"
	"sync"
	"time"
)

// Throttle spaces calls out to at most one per interval. It does not retry
// and does not queue work itself; callers invoke Wait before each call.
//
// The order-check endpoint is rate limited server-side at about one call per
// second, so callers pacing repeated checks use an interval of one second.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewThrottle creates a throttle with the given minimum interval between
// calls.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		interval: interval,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Wait blocks until the interval since the previous call has elapsed, or the
// context is done. The first call never blocks.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	var wait time.Duration
	if !t.last.IsZero() {
		if elapsed := t.now().Sub(t.last); elapsed < t.interval {
			wait = t.interval - elapsed
		}
	}
	t.mu.Unlock()

	if wait > 0 {
		if err := t.sleep(ctx, wait); err != nil {
			return err
		}
	}

	t.mu.Lock()
	t.last = t.now()
	t.mu.Unlock()
	return nil
}

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
