package carousel

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/birthday/internal/eventloop"
	derrors "git.home.luguber.info/inful/birthday/internal/foundation/errors"
	"git.home.luguber.info/inful/birthday/internal/gallery"
)

func images(n int) []gallery.Image {
	out := make([]gallery.Image, n)
	for i := range out {
		name := string(rune('A' + i))
		out[i] = gallery.Image{Src: "/photos/" + name + ".jpg", Alt: "Beautiful memory - " + name}
	}
	return out
}

func newScheduler(t *testing.T) (*Scheduler, *eventloop.Manual) {
	t.Helper()
	clock := eventloop.NewManual()
	return New(clock, Options{}), clock
}

// settled performs op and lets its settle window elapse.
func settled(clock *eventloop.Manual, op func()) {
	op()
	clock.Advance(DefaultSettle)
}

func TestStart(t *testing.T) {
	s, _ := newScheduler(t)
	s.Start(images(3))

	st := s.State()
	assert.Equal(t, Showing, st.Phase())
	assert.Equal(t, 0, st.Current)
	assert.Equal(t, -1, st.Target)
	img, ok := st.CurrentImage()
	require.True(t, ok)
	assert.Equal(t, "/photos/A.jpg", img.Src)
}

func TestStart_Empty(t *testing.T) {
	s, clock := newScheduler(t)
	s.Start(nil)

	st := s.State()
	assert.Equal(t, Idle, st.Phase())
	assert.Equal(t, -1, st.Current)
	_, ok := st.CurrentImage()
	assert.False(t, ok)

	clock.Advance(10 * time.Second)
	s.Next()
	s.Previous()
	assert.Equal(t, Idle, s.State().Phase())
}

func TestNext_CyclesThroughABC(t *testing.T) {
	s, clock := newScheduler(t)
	s.Start(images(3))
	s.Pause()

	for _, want := range []int{1, 2, 0} {
		settled(clock, s.Next)
		assert.Equal(t, want, s.State().Current)
	}
	assert.Equal(t, Showing, s.State().Phase())
}

func TestNext_CyclicInvariant(t *testing.T) {
	for n := 1; n <= 7; n++ {
		for start := range n {
			t.Run(fmt.Sprintf("n=%d/start=%d", n, start), func(t *testing.T) {
				s, clock := newScheduler(t)
				s.Start(images(n))
				s.Pause()
				require.NoError(t, s.JumpTo(start))
				clock.Advance(DefaultSettle)

				for range n {
					settled(clock, s.Next)
				}
				assert.Equal(t, start, s.State().Current)
			})
		}
	}
}

func TestNext_RapidCallsCompose(t *testing.T) {
	s, clock := newScheduler(t)
	s.Start(images(3))

	s.Next()
	s.Next()
	s.Next()
	st := s.State()
	assert.Equal(t, 0, st.Current, "index does not change before the settle window")
	assert.Equal(t, 0, st.Target)
	assert.True(t, st.Transitioning)

	clock.Advance(DefaultSettle)
	assert.Equal(t, 0, s.State().Current)
	assert.False(t, s.State().Transitioning)
}

func TestPrevious_InverseOfNext(t *testing.T) {
	for n := 1; n <= 5; n++ {
		for start := range n {
			s, clock := newScheduler(t)
			s.Start(images(n))
			require.NoError(t, s.JumpTo(start))
			clock.Advance(DefaultSettle)

			settled(clock, s.Next)
			settled(clock, s.Previous)
			assert.Equal(t, start, s.State().Current, "settled n=%d start=%d", n, start)

			s.Next()
			s.Previous()
			clock.Advance(DefaultSettle)
			assert.Equal(t, start, s.State().Current, "rapid n=%d start=%d", n, start)
		}
	}
}

func TestPrevious_WrapsToLast(t *testing.T) {
	s, clock := newScheduler(t)
	s.Start(images(4))
	settled(clock, s.Previous)
	assert.Equal(t, 3, s.State().Current)
}

func TestSettleWindow(t *testing.T) {
	s, clock := newScheduler(t)
	s.Start(images(3))

	s.Next()
	st := s.State()
	assert.Equal(t, Transitioning, st.Phase())
	assert.Equal(t, 0, st.Current)
	assert.Equal(t, 1, st.Target)

	clock.Advance(DefaultSettle - time.Millisecond)
	assert.Equal(t, 0, s.State().Current)

	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, s.State().Current)
	assert.Equal(t, Showing, s.State().Phase())
}

func TestSettleWindow_RestartedBySupersedingNavigation(t *testing.T) {
	s, clock := newScheduler(t)
	s.Start(images(5))

	s.Next()
	clock.Advance(400 * time.Millisecond)
	s.Next()

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 0, s.State().Current, "first settle window was superseded")
	assert.True(t, s.State().Transitioning)

	clock.Advance(400 * time.Millisecond)
	assert.Equal(t, 2, s.State().Current)
}

func TestJumpTo(t *testing.T) {
	s, clock := newScheduler(t)
	s.Start(images(3))
	require.NoError(t, s.JumpTo(2))
	clock.Advance(DefaultSettle)
	assert.Equal(t, 2, s.State().Current)
}

func TestJumpTo_OutOfRange(t *testing.T) {
	s, clock := newScheduler(t)
	s.Start(images(3))
	s.Next()
	before := s.State()

	for _, k := range []int{-1, 3, 100} {
		err := s.JumpTo(k)
		require.Error(t, err)
		assert.True(t, derrors.HasCategory(err, derrors.CategoryIndexOutOfRange))
		assert.Equal(t, before, s.State())
	}

	clock.Advance(DefaultSettle)
	assert.Equal(t, 1, s.State().Current, "pending transition survives a rejected jump")
}

func TestJumpTo_EmptyCarousel(t *testing.T) {
	s, _ := newScheduler(t)
	s.Start(nil)
	assert.True(t, derrors.HasCategory(s.JumpTo(0), derrors.CategoryIndexOutOfRange))
}

func TestAutoplay(t *testing.T) {
	s, clock := newScheduler(t)
	s.Start(images(3))

	clock.Advance(DefaultInterval)
	assert.True(t, s.State().Transitioning)
	clock.Advance(DefaultSettle)
	assert.Equal(t, 1, s.State().Current)

	clock.Advance(DefaultInterval)
	assert.Equal(t, 2, s.State().Current)
	clock.Advance(DefaultInterval)
	assert.Equal(t, 0, s.State().Current)
}

func TestTick_PausedNeverChangesIndex(t *testing.T) {
	s, clock := newScheduler(t)
	s.Start(images(3))
	s.Pause()

	for range 5 {
		s.Tick()
		clock.Advance(DefaultInterval)
		assert.Equal(t, 0, s.State().Current)
		assert.False(t, s.State().Transitioning)
	}

	s.Resume()
	clock.Advance(DefaultInterval + DefaultSettle)
	assert.Equal(t, 1, s.State().Current)
}

func TestManualNavigationWhilePaused(t *testing.T) {
	s, clock := newScheduler(t)
	s.Start(images(3))
	s.Pause()

	settled(clock, s.Next)
	assert.Equal(t, 1, s.State().Current)
	assert.True(t, s.State().Paused)
}

func TestStop(t *testing.T) {
	s, clock := newScheduler(t)
	s.Start(images(3))
	s.Next()
	s.Stop()

	assert.Equal(t, Idle, s.State().Phase())
	assert.Zero(t, clock.Pending())
	clock.Advance(time.Minute)
	assert.Equal(t, Idle, s.State().Phase())
}

func TestStartAgainDoesNotDoubleTick(t *testing.T) {
	s, clock := newScheduler(t)
	s.Start(images(5))
	clock.Advance(time.Second)
	s.Start(images(5))

	assert.Equal(t, 1, clock.Pending())
	clock.Advance(DefaultInterval + DefaultSettle)
	assert.Equal(t, 1, s.State().Current)
}

func TestRefresh(t *testing.T) {
	s, clock := newScheduler(t)
	s.Start(images(4))
	s.Pause()
	require.NoError(t, s.JumpTo(2))
	clock.Advance(DefaultSettle)

	s.Refresh(images(5))
	assert.Equal(t, 2, s.State().Current, "index kept when still valid")
	assert.Len(t, s.State().Items, 5)

	s.Refresh(images(2))
	assert.Equal(t, 0, s.State().Current, "index reset when out of range")

	s.Next()
	s.Refresh(images(2))
	assert.False(t, s.State().Transitioning, "pending transition dropped")
	clock.Advance(DefaultSettle)
	assert.Equal(t, 0, s.State().Current)

	s.Refresh(nil)
	assert.Equal(t, Idle, s.State().Phase())

	s.Refresh(images(3))
	assert.Equal(t, 0, s.State().Current)
}

func TestOnChange(t *testing.T) {
	s, clock := newScheduler(t)
	var phases []Phase
	s.OnChange(func(st State) { phases = append(phases, st.Phase()) })

	s.Start(images(2))
	s.Next()
	clock.Advance(DefaultSettle)
	s.Pause()
	s.Pause()

	assert.Equal(t, []Phase{Showing, Transitioning, Showing, Showing}, phases)
}
