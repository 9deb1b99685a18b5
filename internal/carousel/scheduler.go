package carousel

import (
	"time"

	"git.home.luguber.info/inful/birthday/internal/eventloop"
	derrors "git.home.luguber.info/inful/birthday/internal/foundation/errors"
	"git.home.luguber.info/inful/birthday/internal/gallery"
)

const (
	DefaultInterval = 3 * time.Second
	DefaultSettle   = 500 * time.Millisecond
)

// Options tunes scheduler timing. Zero values take the defaults.
type Options struct {
	Interval time.Duration
	Settle   time.Duration
}

// Scheduler drives the carousel index.
type Scheduler struct {
	timers   eventloop.Deferrer
	interval time.Duration
	settle   time.Duration

	items         []gallery.Image
	current       int
	target        int
	paused        bool
	transitioning bool

	autoplay    bool
	tickTimer   eventloop.Timer
	settleTimer eventloop.Timer
	generation  uint64
	tickGen     uint64

	onChange func(State)
}

// New creates an idle scheduler whose deferred actions go through timers.
func New(timers eventloop.Deferrer, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}
	return &Scheduler{
		timers:   timers,
		interval: opts.Interval,
		settle:   opts.Settle,
		current:  -1,
		target:   -1,
	}
}

// OnChange registers an observer called after every state mutation.
func (s *Scheduler) OnChange(fn func(State)) { s.onChange = fn }

// State returns a copy of the current state.
func (s *Scheduler) State() State {
	return State{
		Items:         s.items,
		Current:       s.current,
		Target:        s.target,
		Paused:        s.paused,
		Transitioning: s.transitioning,
	}
}

// Start shows the first item (or goes idle for an empty list) and begins
// autoplay. Calling Start again restarts from scratch.
func (s *Scheduler) Start(items []gallery.Image) {
	s.cancelSettle()
	s.cancelTick()
	s.items = items
	s.paused = false
	s.resetIndex(0)
	s.autoplay = true
	s.scheduleTick()
	s.notify()
}

// Tick is the autoplay step. It does nothing while paused or idle.
func (s *Scheduler) Tick() {
	if s.paused || len(s.items) == 0 {
		return
	}
	s.advance(1)
}

// Next moves forward one item. It is allowed while paused.
func (s *Scheduler) Next() {
	if len(s.items) == 0 {
		return
	}
	s.advance(1)
}

// Previous moves back one item. It is allowed while paused.
func (s *Scheduler) Previous() {
	if len(s.items) == 0 {
		return
	}
	s.advance(-1)
}

// JumpTo transitions to item k. Out-of-range targets leave the state untouched.
func (s *Scheduler) JumpTo(k int) error {
	n := len(s.items)
	if k < 0 || k >= n {
		return derrors.IndexOutOfRangeError("carousel index out of range").
			WithContext("index", k).
			WithContext("count", n).
			Build()
	}
	s.beginTransition(k)
	return nil
}

// Pause stops autoplay from advancing. Manual navigation still works.
func (s *Scheduler) Pause() {
	if s.paused {
		return
	}
	s.paused = true
	s.notify()
}

// Resume re-enables autoplay.
func (s *Scheduler) Resume() {
	if !s.paused {
		return
	}
	s.paused = false
	s.notify()
}

// Stop cancels autoplay and any pending transition and returns to Idle.
func (s *Scheduler) Stop() {
	s.cancelSettle()
	s.cancelTick()
	s.autoplay = false
	s.items = nil
	s.resetIndex(0)
	s.notify()
}

// Refresh swaps in a new item list. The current index survives when it is
// still valid; otherwise the carousel restarts at the first item. Any
// pending transition is dropped.
func (s *Scheduler) Refresh(items []gallery.Image) {
	s.cancelSettle()
	keep := s.current
	s.items = items
	if keep < 0 || keep >= len(items) {
		keep = 0
	}
	s.resetIndex(keep)
	s.notify()
}

// advance steps from the pending target when a transition is in flight, so
// that rapid navigation composes.
func (s *Scheduler) advance(step int) {
	n := len(s.items)
	base := s.current
	if s.transitioning {
		base = s.target
	}
	s.beginTransition(((base+step)%n + n) % n)
}

func (s *Scheduler) beginTransition(to int) {
	s.cancelSettle()
	s.transitioning = true
	s.target = to
	gen := s.generation
	s.settleTimer = s.timers.AfterFunc(s.settle, func() { s.completeTransition(gen) })
	s.notify()
}

func (s *Scheduler) completeTransition(gen uint64) {
	if gen != s.generation || !s.transitioning {
		return
	}
	s.settleTimer = nil
	s.current = s.target
	s.target = -1
	s.transitioning = false
	s.notify()
}

func (s *Scheduler) scheduleTick() {
	gen := s.tickGen
	s.tickTimer = s.timers.AfterFunc(s.interval, func() {
		if !s.autoplay || gen != s.tickGen {
			return
		}
		s.Tick()
		s.scheduleTick()
	})
}

// cancelSettle invalidates the in-flight settle callback.
func (s *Scheduler) cancelSettle() {
	s.generation++
	if s.settleTimer != nil {
		s.settleTimer.Stop()
		s.settleTimer = nil
	}
	s.transitioning = false
	s.target = -1
}

func (s *Scheduler) cancelTick() {
	s.tickGen++
	if s.tickTimer != nil {
		s.tickTimer.Stop()
		s.tickTimer = nil
	}
}

func (s *Scheduler) resetIndex(i int) {
	s.target = -1
	s.transitioning = false
	if len(s.items) == 0 {
		s.current = -1
		return
	}
	s.current = i
}

func (s *Scheduler) notify() {
	if s.onChange != nil {
		s.onChange(s.State())
	}
}
