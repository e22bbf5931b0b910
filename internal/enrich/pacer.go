package enrich

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces successive operations at least an interval apart. It is the
// throttle between catalog lookups: the first Wait passes immediately, each
// later Wait blocks until the interval since the previous pass has elapsed.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewPacer creates a pacer with the given minimum spacing. A non-positive
// interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Wait blocks until the pacing interval has elapsed since the previous
// successful Wait, honouring context cancellation.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.interval <= 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	wait := p.interval - time.Since(p.last)
	if wait > 0 {
		p.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		p.mu.Lock()
	}
	p.last = time.Now()
	p.mu.Unlock()
	return nil
}
