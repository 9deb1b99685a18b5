// Package celebration plans the decorative effects shown around the photos:
// floating hearts, the opening confetti show and the wish burst.
//
// Plans are plain data. The page and the terminal player render them; the
// particle engine itself lives in the browser.
package celebration

import (
	"math/rand/v2"
	"time"
)

// HeartGlyphs are the heart emoji, one per floating heart.
var HeartGlyphs = []string{"❤️", "💖", "💝", "💕", "💗", "💓"}

// Heart is one floating heart. Positions are percentages of the hero area.
type Heart struct {
	Glyph           string  `json:"glyph"`
	LeftPercent     float64 `json:"left"`
	TopPercent      float64 `json:"top"`
	DelaySeconds    float64 `json:"delay_s"`
	DurationSeconds float64 `json:"duration_s"`
}

// Hearts scatters n hearts (at most one per glyph). Heart i starts i*0.5s
// late and floats for a random 3 to 5 seconds.
func Hearts(rng *rand.Rand, n int) []Heart {
	if n > len(HeartGlyphs) {
		n = len(HeartGlyphs)
	}
	if n < 0 {
		n = 0
	}
	hearts := make([]Heart, n)
	for i := range hearts {
		hearts[i] = Heart{
			Glyph:           HeartGlyphs[i],
			LeftPercent:     rng.Float64() * 100,
			TopPercent:      rng.Float64() * 100,
			DelaySeconds:    float64(i) * 0.5,
			DurationSeconds: 3 + rng.Float64()*2,
		}
	}
	return hearts
}

// Origin is a burst origin in viewport fractions.
type Origin struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Burst is one confetti call.
type Burst struct {
	ParticleCount int     `json:"particleCount"`
	StartVelocity float64 `json:"startVelocity,omitempty"`
	Spread        float64 `json:"spread"`
	Ticks         int     `json:"ticks,omitempty"`
	ZIndex        *int    `json:"zIndex,omitempty"`
	Origin        Origin  `json:"origin"`
}

// Frame is the set of bursts fired at one offset from page load.
type Frame struct {
	AtMillis int64   `json:"at_ms"`
	Bursts   []Burst `json:"bursts"`
}

const (
	ShowDuration = 3 * time.Second
	ShowEvery    = 250 * time.Millisecond
	// ShowParticles is the per-burst particle count at the start of the show.
	ShowParticles = 50
)

// OpeningShow plans the page load confetti: every 250ms until 3s have passed,
// one burst from each side with a particle count that fades with the time
// left.
func OpeningShow(rng *rand.Rand) []Frame {
	var frames []Frame
	zero := 0
	for at := ShowEvery; at < ShowDuration; at += ShowEvery {
		left := ShowDuration - at
		count := int(ShowParticles * float64(left) / float64(ShowDuration))
		burst := func(minX, maxX float64) Burst {
			return Burst{
				ParticleCount: count,
				StartVelocity: 30,
				Spread:        360,
				Ticks:         60,
				ZIndex:        &zero,
				Origin:        Origin{X: inRange(rng, minX, maxX), Y: rng.Float64() - 0.2},
			}
		}
		frames = append(frames, Frame{
			AtMillis: at.Milliseconds(),
			Bursts:   []Burst{burst(0.1, 0.3), burst(0.7, 0.9)},
		})
	}
	return frames
}

// WishBurst is fired when a wish star is clicked.
func WishBurst() Burst {
	return Burst{ParticleCount: 100, Spread: 70, Origin: Origin{X: 0.5, Y: 0.6}}
}

// Plan bundles every effect for one page view.
type Plan struct {
	Hearts      []Heart `json:"hearts"`
	OpeningShow []Frame `json:"opening_show"`
	WishBurst   Burst   `json:"wish_burst"`
	WishStars   int     `json:"wish_stars"`
}

// NewPlan draws a fresh plan.
func NewPlan(rng *rand.Rand) Plan {
	return Plan{
		Hearts:      Hearts(rng, len(HeartGlyphs)),
		OpeningShow: OpeningShow(rng),
		WishBurst:   WishBurst(),
		WishStars:   5,
	}
}

func inRange(rng *rand.Rand, lo, hi float64) float64 {
	return rng.Float64()*(hi-lo) + lo
}
