package collage

import (
	"math/rand/v2"
	"time"

	"git.home.luguber.info/inful/birthday/internal/eventloop"
	"git.home.luguber.info/inful/birthday/internal/gallery"
)

const (
	DefaultInterval      = 3 * time.Second
	DefaultTransitionOut = 500 * time.Millisecond
	DefaultGridSize      = 12
)

// Options tunes the sampler. Zero values take the defaults.
type Options struct {
	Interval      time.Duration
	TransitionOut time.Duration
	GridSize      int
}

// State is a point-in-time copy of the collage.
type State struct {
	Pool          []gallery.Image `json:"pool"`
	Visible       []int           `json:"visible_indices"`
	Transitioning bool            `json:"transitioning"`
}

// Tiles resolves the visible indices to images.
func (s State) Tiles() []gallery.Image {
	tiles := make([]gallery.Image, 0, len(s.Visible))
	for _, i := range s.Visible {
		if i >= 0 && i < len(s.Pool) {
			tiles = append(tiles, s.Pool[i])
		}
	}
	return tiles
}

// Sampler owns the collage state. It is not safe for concurrent use.
type Sampler struct {
	timers        eventloop.Deferrer
	rng           *rand.Rand
	interval      time.Duration
	transitionOut time.Duration
	gridSize      int

	pool          []gallery.Image
	visible       []int
	transitioning bool

	cycleTimer eventloop.Timer
	outTimer   eventloop.Timer
	generation uint64

	onChange func(State)
}

// New creates a sampler. A nil rng draws from a randomly seeded source.
func New(timers eventloop.Deferrer, rng *rand.Rand, opts Options) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.TransitionOut <= 0 {
		opts.TransitionOut = DefaultTransitionOut
	}
	if opts.GridSize <= 0 {
		opts.GridSize = DefaultGridSize
	}
	return &Sampler{
		timers:        timers,
		rng:           rng,
		interval:      opts.Interval,
		transitionOut: opts.TransitionOut,
		gridSize:      opts.GridSize,
		visible:       []int{},
	}
}

// OnChange registers an observer called after every state mutation.
func (s *Sampler) OnChange(fn func(State)) { s.onChange = fn }

// State returns a copy of the collage state.
func (s *Sampler) State() State {
	return State{
		Pool:          s.pool,
		Visible:       append([]int(nil), s.visible...),
		Transitioning: s.transitioning,
	}
}

// Reseed replaces the pool, cancels any in-flight cycle, draws a fresh grid
// and restarts the periodic timer. An empty pool empties the grid and leaves
// the timer stopped.
func (s *Sampler) Reseed(pool []gallery.Image) {
	s.cancel()
	s.pool = pool
	s.transitioning = false
	s.draw()
	if len(s.pool) > 0 {
		s.scheduleCycle()
	}
	s.notify()
}

// Resample redraws the grid against the current pool.
func (s *Sampler) Resample() {
	s.draw()
	s.notify()
}

// Stop cancels all timers. The grid keeps its last value.
func (s *Sampler) Stop() {
	s.cancel()
	if s.transitioning {
		s.transitioning = false
		s.notify()
	}
}

func (s *Sampler) draw() {
	s.visible = Sample(s.rng, len(s.pool), s.gridSize)
}

func (s *Sampler) scheduleCycle() {
	gen := s.generation
	s.cycleTimer = s.timers.AfterFunc(s.interval, func() {
		if gen != s.generation {
			return
		}
		s.transitioning = true
		s.notify()
		s.outTimer = s.timers.AfterFunc(s.transitionOut, func() {
			if gen != s.generation {
				return
			}
			s.outTimer = nil
			s.transitioning = false
			s.Resample()
		})
		s.scheduleCycle()
	})
}

func (s *Sampler) cancel() {
	s.generation++
	if s.cycleTimer != nil {
		s.cycleTimer.Stop()
		s.cycleTimer = nil
	}
	if s.outTimer != nil {
		s.outTimer.Stop()
		s.outTimer = nil
	}
}

func (s *Sampler) notify() {
	if s.onChange != nil {
		s.onChange(s.State())
	}
}

// Sample draws a grid of indices into a pool of n items. An empty pool yields
// an empty grid; otherwise the grid has exactly size entries.
func Sample(rng *rand.Rand, n, size int) []int {
	if n <= 0 || size <= 0 {
		return []int{}
	}
	perm := Permutation(rng, n)
	out := make([]int, size)
	k := copy(out, perm)
	for i := k; i < size; i++ {
		out[i] = rng.IntN(n)
	}
	return out
}

// Permutation returns a uniform random permutation of [0, n) using an
// explicit Fisher-Yates shuffle.
func Permutation(rng *rand.Rand, n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}
