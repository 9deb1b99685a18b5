// Package session owns the presentation state of one viewer.
//
// A Session runs a carousel Scheduler and a collage Sampler on a private
// event loop, so timer callbacks and user operations never overlap. Every
// state change publishes a Snapshot; slow consumers only miss intermediate
// snapshots, never the latest one.
package session

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"git.home.luguber.info/inful/birthday/internal/carousel"
	"git.home.luguber.info/inful/birthday/internal/celebration"
	"git.home.luguber.info/inful/birthday/internal/collage"
	"git.home.luguber.info/inful/birthday/internal/eventloop"
	"git.home.luguber.info/inful/birthday/internal/gallery"
	"git.home.luguber.info/inful/birthday/internal/logfields"
	"git.home.luguber.info/inful/birthday/internal/metrics"
)

// Options configures a session. Zero values take defaults.
type Options struct {
	Carousel carousel.Options
	Collage  collage.Options
	Clock    clockwork.Clock
	Rand     *rand.Rand
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// Snapshot is the full presentation state at one point in time.
type Snapshot struct {
	SessionID string              `json:"session_id"`
	Seq       uint64              `json:"seq"`
	Carousel  carousel.State      `json:"carousel"`
	Collage   collage.State       `json:"collage"`
	Hearts    []celebration.Heart `json:"hearts"`
}

// Session is one viewer's carousel and collage.
type Session struct {
	id       string
	source   gallery.Source
	loop     *eventloop.Loop
	cancel   context.CancelFunc
	recorder metrics.Recorder
	logger   *slog.Logger

	// Loop-owned.
	carousel *carousel.Scheduler
	collage  *collage.Sampler
	hearts   []celebration.Heart
	seq      uint64

	updates   chan Snapshot
	closeOnce sync.Once
}

// Open lists both categories once, starts the carousel and seeds the collage.
// Listing failures degrade to empty collections and are logged.
func Open(ctx context.Context, src gallery.Source, opts Options) (*Session, error) {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	id := uuid.NewString()
	s := &Session{
		id:       id,
		source:   src,
		loop:     eventloop.New(opts.Clock, 64),
		recorder: metrics.OrNoop(opts.Recorder),
		logger:   opts.Logger.With(logfields.SessionID(id)),
		hearts:   celebration.Hearts(opts.Rand, len(celebration.HeartGlyphs)),
		updates:  make(chan Snapshot, 1),
	}
	s.carousel = carousel.New(s.loop, opts.Carousel)
	s.collage = collage.New(s.loop, opts.Rand, opts.Collage)
	s.carousel.OnChange(func(carousel.State) { s.publish() })
	s.collage.OnChange(func(collage.State) { s.publish() })

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.loop.Run(loopCtx)

	items := s.list(ctx, gallery.Carousel)
	pool := s.list(ctx, gallery.Collage)

	if err := s.loop.Do(ctx, func() {
		s.carousel.Start(items)
		s.collage.Reseed(pool)
	}); err != nil {
		s.Close()
		return nil, err
	}
	s.logger.Info("Session opened",
		slog.Int("carousel_items", len(items)),
		slog.Int("collage_pool", len(pool)))
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Updates delivers snapshots after each change. Only the latest is buffered.
func (s *Session) Updates() <-chan Snapshot { return s.updates }

func (s *Session) list(ctx context.Context, cat gallery.Category) []gallery.Image {
	start := time.Now()
	images, err := gallery.ListOrEmpty(ctx, s.source, cat)
	s.recorder.ObserveListingDuration(string(cat), time.Since(start))
	if err != nil {
		s.recorder.IncListingResult(string(cat), metrics.ResultFailure)
		s.logger.Warn("Listing failed; showing no photos",
			logfields.Category(string(cat)), logfields.Error(err))
		return images
	}
	s.recorder.IncListingResult(string(cat), metrics.ResultSuccess)
	return images
}

// Next advances the carousel.
func (s *Session) Next(ctx context.Context) error {
	s.recorder.IncNavigation("next")
	return s.loop.Do(ctx, s.carousel.Next)
}

// Previous moves the carousel back.
func (s *Session) Previous(ctx context.Context) error {
	s.recorder.IncNavigation("previous")
	return s.loop.Do(ctx, s.carousel.Previous)
}

// JumpTo moves the carousel to index k.
func (s *Session) JumpTo(ctx context.Context, k int) error {
	s.recorder.IncNavigation("jump")
	var jumpErr error
	if err := s.loop.Do(ctx, func() { jumpErr = s.carousel.JumpTo(k) }); err != nil {
		return err
	}
	return jumpErr
}

// Pause stops carousel autoplay.
func (s *Session) Pause(ctx context.Context) error {
	return s.loop.Do(ctx, s.carousel.Pause)
}

// Resume restarts carousel autoplay.
func (s *Session) Resume(ctx context.Context) error {
	return s.loop.Do(ctx, s.carousel.Resume)
}

// TogglePause flips the autoplay pause state.
func (s *Session) TogglePause(ctx context.Context) error {
	return s.loop.Do(ctx, func() {
		if s.carousel.State().Paused {
			s.carousel.Resume()
		} else {
			s.carousel.Pause()
		}
	})
}

// Resample redraws the collage grid now.
func (s *Session) Resample(ctx context.Context) error {
	s.recorder.IncResample()
	return s.loop.Do(ctx, s.collage.Resample)
}

// Refresh re-lists cat and swaps the new listing in. A failed listing keeps
// the photos already on screen.
func (s *Session) Refresh(ctx context.Context, cat gallery.Category) error {
	images, err := s.source.List(ctx, cat)
	if err != nil {
		s.recorder.IncListingResult(string(cat), metrics.ResultFailure)
		s.logger.Warn("Refresh listing failed; keeping current photos",
			logfields.Category(string(cat)), logfields.Error(err))
		return err
	}
	s.recorder.IncListingResult(string(cat), metrics.ResultSuccess)
	s.logger.Debug("Refreshing photos", logfields.Category(string(cat)), logfields.Count(len(images)))
	return s.loop.Do(ctx, func() {
		switch cat {
		case gallery.Carousel:
			s.carousel.Refresh(images)
		case gallery.Collage:
			s.collage.Reseed(images)
		}
	})
}

// Snapshot returns the current state.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.loop.Do(ctx, func() { snap = s.snapshot() })
	return snap, err
}

// Close stops both state machines and the event loop. It is idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.loop.Do(stopCtx, func() {
			s.carousel.OnChange(nil)
			s.collage.OnChange(nil)
			s.carousel.Stop()
			s.collage.Stop()
		}); err != nil {
			s.logger.Debug("Session stop skipped", logfields.Error(err))
		}
		s.loop.Close()
		s.cancel()
		<-s.loop.Done()
		s.logger.Info("Session closed")
	})
}

// snapshot must run on the loop.
func (s *Session) snapshot() Snapshot {
	return Snapshot{
		SessionID: s.id,
		Seq:       s.seq,
		Carousel:  s.carousel.State(),
		Collage:   s.collage.State(),
		Hearts:    s.hearts,
	}
}

// publish must run on the loop, which is the only sender on updates.
func (s *Session) publish() {
	s.seq++
	snap := s.snapshot()
	select {
	case <-s.updates:
	default:
	}
	s.updates <- snap
}
