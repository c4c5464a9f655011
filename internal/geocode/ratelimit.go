package geocode

import (
	"context"
	"sync"
	"time"
)

// rateLimiter bounds calls to max per rolling window. wait blocks until a
// slot is free or the context is cancelled.
type rateLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	sent   []time.Time
	now    func() time.Time // swapped in tests
	sleep  func(ctx context.Context, d time.Duration) error
}

func newRateLimiter(max int, window time.Duration) *rateLimiter {
	if max <= 0 {
		max = 1
	}
	return &rateLimiter{
		max:    max,
		window: window,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

func (l *rateLimiter) wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.now()

		// Drop timestamps that have aged out of the window.
		cut := 0
		for cut < len(l.sent) && now.Sub(l.sent[cut]) >= l.window {
			cut++
		}
		l.sent = l.sent[cut:]

		if len(l.sent) < l.max {
			l.sent = append(l.sent, now)
			l.mu.Unlock()
			return nil
		}

		wakeAt := l.sent[0].Add(l.window)
		l.mu.Unlock()

		if err := l.sleep(ctx, wakeAt.Sub(now)); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
