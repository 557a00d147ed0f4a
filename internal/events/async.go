package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrQueueFull = errors.New("events: queue full, event dropped")
	ErrClosed    = errors.New("events: publisher closed")
)

// Async hands events to a background worker so callers never wait on the
// broker. Each publish gets its own timeout, detached from the caller's
// request context.
type Async struct {
	next    Publisher
	timeout time.Duration
	queue   chan OrderEvent
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewAsync(next Publisher, size int, timeout time.Duration) *Async {
	if size < 1 {
		size = 1
	}
	a := &Async{
		next:    next,
		timeout: timeout,
		queue:   make(chan OrderEvent, size),
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

// Publish enqueues ev without blocking. A full queue drops the event.
func (a *Async) Publish(_ context.Context, ev OrderEvent) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

func (a *Async) run() {
	defer close(a.done)
	for ev := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		if err := a.next.Publish(ctx, ev); err != nil {
			log.Warn().Err(err).Str("order_id", ev.OrderID).Str("type", ev.Type).Msg("[events] publish failed")
		}
		cancel()
	}
}

// Close stops accepting events and waits for the queued ones, at most
// until ctx is done.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
