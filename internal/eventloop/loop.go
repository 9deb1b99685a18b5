package eventloop

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrClosed is returned when work is submitted to a stopped loop.
var ErrClosed = errors.New("event loop closed")

// Timer is a cancellable deferred action.
type Timer interface {
	// Stop prevents the action from running. It reports whether the call
	// stopped the action before it was scheduled to run.
	Stop() bool
}

// Deferrer schedules f to run after d on the owner's thread of control.
type Deferrer interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Loop serializes work onto a single goroutine.
type Loop struct {
	clock clockwork.Clock
	queue chan func()
	quit  chan struct{}
	done  chan struct{}

	closeOnce sync.Once
	runOnce   sync.Once
}

// New creates a loop. A nil clock uses the real clock.
func New(clock clockwork.Clock, buffer int) *Loop {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if buffer <= 0 {
		buffer = 64
	}
	return &Loop{
		clock: clock,
		queue: make(chan func(), buffer),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Run executes posted work until ctx is cancelled or Close is called. Only the
// first call runs the loop; later calls return immediately.
func (l *Loop) Run(ctx context.Context) {
	first := false
	l.runOnce.Do(func() { first = true })
	if !first {
		return
	}
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			l.Close()
			return
		case <-l.quit:
			l.flush()
			return
		case f := <-l.queue:
			f()
		}
	}
}

// flush runs work that was queued before Close.
func (l *Loop) flush() {
	for {
		select {
		case f := <-l.queue:
			f()
		default:
			return
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Post enqueues f. It reports false if the loop is closed.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.quit:
		return false
	default:
	}
	select {
	case l.queue <- f:
		return true
	case <-l.quit:
		return false
	}
}

// Do runs f on the loop and waits for it to finish. It must not be called
// from the loop goroutine.
func (l *Loop) Do(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		f()
	}) {
		return ErrClosed
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AfterFunc schedules f onto the loop after d.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	return l.clock.AfterFunc(d, func() { l.Post(f) })
}

// Close stops accepting work; already queued work still runs.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.quit) })
}
