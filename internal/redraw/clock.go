package redraw

import (
	"context"
	"sync"
	"time"
)

// FrameClock delivers display-refresh ticks. RequestFrame registers a
// one-shot callback for the next tick.
type FrameClock interface {
	RequestFrame(cb func())
}

// callbackQueue holds the callbacks waiting for the next tick.
type callbackQueue struct {
	mu      sync.Mutex
	pending []func()
}

func (q *callbackQueue) RequestFrame(cb func()) {
	q.mu.Lock()
	q.pending = append(q.pending, cb)
	q.mu.Unlock()
}

// fire runs the callbacks queued so far. Callbacks queued while firing wait
// for the next tick.
func (q *callbackQueue) fire() int {
	q.mu.Lock()
	callbacks := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, cb := range callbacks {
		cb()
	}
	return len(callbacks)
}

// TickerClock fires queued callbacks on a fixed-rate ticker.
type TickerClock struct {
	callbackQueue
	Interval time.Duration
}

// NewTickerClock returns a clock ticking at fps frames per second.
func NewTickerClock(fps int) *TickerClock {
	if fps <= 0 {
		fps = 60
	}
	return &TickerClock{Interval: time.Second / time.Duration(fps)}
}

// Run ticks until ctx is done. Callbacks run on the Run goroutine.
func (c *TickerClock) Run(ctx context.Context) {
	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.fire()
		}
	}
}

// ManualClock only ticks when Step is called.
type ManualClock struct {
	callbackQueue
}

// Step fires the callbacks queued before the call and reports how many ran.
func (c *ManualClock) Step() int { return c.fire() }
