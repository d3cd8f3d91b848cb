package countdown

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Interval is the tick cadence.
const Interval = time.Second

var ErrAlreadyStarted = errors.New("countdown timer already started")

// Timer delivers a State to a callback once right away and then every interval,
// until the countdown expires, Stop is called, or the context is cancelled.
// The expired state is delivered exactly once before the timer stops itself.
type Timer struct {
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewTimer returns a Timer. Zero interval means Interval, nil clock means time.Now.
func NewTimer(now func() time.Time, interval time.Duration) *Timer {
	if now == nil {
		now = time.Now
	}
	if interval <= 0 {
		interval = Interval
	}
	return &Timer{interval: interval, now: now, done: make(chan struct{})}
}

// Start runs the countdown to expiry in a new goroutine.
func (t *Timer) Start(ctx context.Context, expiry time.Time, fn func(State)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return ErrAlreadyStarted
	}
	t.started = true
	ctx, t.cancel = context.WithCancel(ctx)
	go t.run(ctx, expiry, fn)
	return nil
}

func (t *Timer) run(ctx context.Context, expiry time.Time, fn func(State)) {
	defer close(t.done)
	s := Tick(expiry, t.now())
	fn(s)
	if s.Expired() {
		return
	}
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s = Tick(expiry, t.now())
			fn(s)
			if s.Expired() {
				return
			}
		}
	}
}

// Stop tears the timer down and waits for the goroutine to exit. Safe to call
// more than once and before Start.
func (t *Timer) Stop() {
	t.mu.Lock()
	started, cancel := t.started, t.cancel
	t.mu.Unlock()
	if !started {
		return
	}
	cancel()
	<-t.done
}

// Done is closed once the timer has stopped.
func (t *Timer) Done() <-chan struct{} {
	return t.done
}
