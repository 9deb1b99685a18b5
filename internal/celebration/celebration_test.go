package celebration

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rng() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func TestHearts(t *testing.T) {
	hearts := Hearts(rng(), 6)
	require.Len(t, hearts, 6)
	for i, h := range hearts {
		assert.Equal(t, HeartGlyphs[i], h.Glyph)
		assert.InDelta(t, float64(i)*0.5, h.DelaySeconds, 1e-9)
		assert.GreaterOrEqual(t, h.DurationSeconds, 3.0)
		assert.Less(t, h.DurationSeconds, 5.0)
		assert.GreaterOrEqual(t, h.LeftPercent, 0.0)
		assert.Less(t, h.LeftPercent, 100.0)
		assert.GreaterOrEqual(t, h.TopPercent, 0.0)
		assert.Less(t, h.TopPercent, 100.0)
	}

	assert.Len(t, Hearts(rng(), 50), len(HeartGlyphs))
	assert.Empty(t, Hearts(rng(), -1))
}

func TestHearts_Deterministic(t *testing.T) {
	if diff := cmp.Diff(Hearts(rng(), 6), Hearts(rng(), 6)); diff != "" {
		t.Fatalf("same seed produced different hearts (-a +b):\n%s", diff)
	}
}

func TestOpeningShow(t *testing.T) {
	frames := OpeningShow(rng())
	require.Len(t, frames, 11)

	assert.Equal(t, int64(250), frames[0].AtMillis)
	assert.Equal(t, int64(2750), frames[len(frames)-1].AtMillis)

	prev := ShowParticles + 1
	for _, f := range frames {
		require.Len(t, f.Bursts, 2)
		left, right := f.Bursts[0], f.Bursts[1]
		assert.Equal(t, left.ParticleCount, right.ParticleCount)
		assert.Less(t, left.ParticleCount, prev, "particle count fades")
		prev = left.ParticleCount

		assert.True(t, left.Origin.X >= 0.1 && left.Origin.X < 0.3, "left x %v", left.Origin.X)
		assert.True(t, right.Origin.X >= 0.7 && right.Origin.X < 0.9, "right x %v", right.Origin.X)
		for _, b := range f.Bursts {
			assert.True(t, b.Origin.Y >= -0.2 && b.Origin.Y < 0.8)
			assert.InDelta(t, 30, b.StartVelocity, 0)
			assert.InDelta(t, 360, b.Spread, 0)
			assert.Equal(t, 60, b.Ticks)
			require.NotNil(t, b.ZIndex)
			assert.Zero(t, *b.ZIndex)
		}
	}
	assert.Equal(t, 45, frames[0].Bursts[0].ParticleCount)
}

func TestWishBurst(t *testing.T) {
	b := WishBurst()
	assert.Equal(t, 100, b.ParticleCount)
	assert.InDelta(t, 70, b.Spread, 0)
	assert.Equal(t, Origin{X: 0.5, Y: 0.6}, b.Origin)

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"particleCount":100,"spread":70,"origin":{"x":0.5,"y":0.6}}`, string(raw))
}

func TestNewPlan(t *testing.T) {
	p := NewPlan(rng())
	assert.Len(t, p.Hearts, 6)
	assert.Len(t, p.OpeningShow, 11)
	assert.Equal(t, 5, p.WishStars)
}
