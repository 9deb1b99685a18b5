package collage

import (
	"math/rand/v2"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/birthday/internal/eventloop"
	"git.home.luguber.info/inful/birthday/internal/gallery"
)

func pool(n int) []gallery.Image {
	out := make([]gallery.Image, n)
	for i := range out {
		out[i] = gallery.Image{Src: "/gf-photos/" + string(rune('a'+i)) + ".jpg", Alt: "Beautiful memory"}
	}
	return out
}

func seeded(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }

func TestPermutation(t *testing.T) {
	rng := seeded(1)
	for n := 0; n <= 20; n++ {
		p := Permutation(rng, n)
		sorted := append(make([]int, 0, n), p...)
		sort.Ints(sorted)
		want := make([]int, n)
		for i := range want {
			want[i] = i
		}
		if diff := cmp.Diff(want, sorted); diff != "" {
			t.Fatalf("n=%d not a permutation (-want +got):\n%s", n, diff)
		}
	}
}

func TestPermutation_Uniform(t *testing.T) {
	rng := seeded(42)
	const trials = 60000
	counts := map[[3]int]int{}
	for range trials {
		p := Permutation(rng, 3)
		counts[[3]int{p[0], p[1], p[2]}]++
	}
	require.Len(t, counts, 6)
	for perm, c := range counts {
		assert.InDelta(t, trials/6, c, trials/6*0.05, "permutation %v", perm)
	}
}

func TestSample_GridLength(t *testing.T) {
	rng := seeded(7)
	for n := 1; n <= 30; n++ {
		grid := Sample(rng, n, DefaultGridSize)
		assert.Len(t, grid, DefaultGridSize, "n=%d", n)
		for _, i := range grid {
			assert.True(t, i >= 0 && i < n)
		}
		if n >= DefaultGridSize {
			seen := map[int]bool{}
			for _, i := range grid {
				assert.False(t, seen[i], "large pools draw distinct tiles")
				seen[i] = true
			}
		}
	}
}

func TestSample_SmallPoolPrefixIsPermutation(t *testing.T) {
	grid := Sample(seeded(3), 5, DefaultGridSize)
	prefix := append([]int(nil), grid[:5]...)
	sort.Ints(prefix)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, prefix)
}

func TestSample_EmptyPool(t *testing.T) {
	assert.Equal(t, []int{}, Sample(seeded(1), 0, DefaultGridSize))
}

func TestReseed_ThreeImages(t *testing.T) {
	s := New(eventloop.NewManual(), seeded(11), Options{})
	s.Reseed(pool(3))
	s.Resample()

	st := s.State()
	require.Len(t, st.Visible, 12)
	for _, i := range st.Visible {
		assert.Contains(t, []int{0, 1, 2}, i)
	}
	assert.Len(t, st.Tiles(), 12)
}

func TestReseed_DrawsImmediately(t *testing.T) {
	s := New(eventloop.NewManual(), seeded(5), Options{})
	s.Reseed(pool(20))
	assert.Len(t, s.State().Visible, 12)
}

func TestReseed_EmptyPoolStopsTimer(t *testing.T) {
	clock := eventloop.NewManual()
	s := New(clock, seeded(5), Options{})
	s.Reseed(pool(4))
	require.Equal(t, 1, clock.Pending())

	s.Reseed(nil)
	assert.Empty(t, s.State().Visible)
	assert.Zero(t, clock.Pending())

	assert.NotPanics(t, s.Resample)
	assert.Empty(t, s.State().Visible)
}

func TestPeriodicCycle(t *testing.T) {
	clock := eventloop.NewManual()
	s := New(clock, seeded(9), Options{})
	var states []State
	s.OnChange(func(st State) { states = append(states, st) })

	s.Reseed(pool(30))
	first := s.State().Visible

	clock.Advance(DefaultInterval - time.Millisecond)
	assert.False(t, s.State().Transitioning)

	clock.Advance(time.Millisecond)
	assert.True(t, s.State().Transitioning)
	assert.Equal(t, first, s.State().Visible, "grid holds during transition-out")

	clock.Advance(DefaultTransitionOut)
	st := s.State()
	assert.False(t, st.Transitioning)
	assert.Len(t, st.Visible, 12)
	assert.NotEqual(t, first, st.Visible)
	assert.Len(t, states, 3)

	clock.Advance(DefaultInterval)
	assert.Len(t, states, 5, "cycle repeats")
}

func TestReseed_CancelsInFlightCycle(t *testing.T) {
	clock := eventloop.NewManual()
	s := New(clock, seeded(13), Options{})
	s.Reseed(pool(30))
	clock.Advance(DefaultInterval)
	require.True(t, s.State().Transitioning)

	s.Reseed(pool(2))
	assert.False(t, s.State().Transitioning)
	grid := s.State().Visible

	clock.Advance(DefaultTransitionOut)
	assert.Equal(t, grid, s.State().Visible, "stale transition-out is ignored")
	for _, i := range grid {
		assert.Less(t, i, 2)
	}
}

func TestStop(t *testing.T) {
	clock := eventloop.NewManual()
	s := New(clock, seeded(17), Options{})
	s.Reseed(pool(6))
	clock.Advance(DefaultInterval)
	s.Stop()

	assert.False(t, s.State().Transitioning)
	assert.Zero(t, clock.Pending())
	grid := s.State().Visible
	clock.Advance(time.Minute)
	assert.Equal(t, grid, s.State().Visible)
}

func TestCustomGridSize(t *testing.T) {
	s := New(eventloop.NewManual(), seeded(1), Options{GridSize: 4})
	s.Reseed(pool(2))
	assert.Len(t, s.State().Visible, 4)
}
