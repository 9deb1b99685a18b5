package gallery

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu     sync.Mutex
	images map[Category][]Image
	err    error
}

func (f *fakeSource) set(cat Category, images ...Image) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images[cat] = images
}

func (f *fakeSource) List(_ context.Context, cat Category) ([]Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]Image(nil), f.images[cat]...), nil
}

func TestMonitor_NotifiesOnlyOnChange(t *testing.T) {
	src := &fakeSource{images: map[Category][]Image{}}
	src.set(Carousel, Image{Src: "/photos/a.jpg", Alt: "A"})

	var got []Change
	m := NewMonitor(src, NotifierFunc(func(c Change) { got = append(got, c) }))
	m.Prime(t.Context())
	require.NotEmpty(t, m.Hash(Carousel))

	_, changed := m.Check(t.Context(), Carousel)
	assert.False(t, changed)
	assert.Empty(t, got)

	src.set(Carousel, Image{Src: "/photos/a.jpg", Alt: "A"}, Image{Src: "/photos/b.jpg", Alt: "B"})
	change, changed := m.Check(t.Context(), Carousel)
	require.True(t, changed)
	assert.Equal(t, Carousel, change.Category)
	assert.Equal(t, 2, change.Count)
	assert.Equal(t, []Change{change}, got)

	_, changed = m.Check(t.Context(), Collage)
	assert.False(t, changed, "collage unchanged")
}

func TestMonitor_FirstCheckOnlyRecords(t *testing.T) {
	src := &fakeSource{images: map[Category][]Image{}}
	calls := 0
	m := NewMonitor(src, NotifierFunc(func(Change) { calls++ }))

	_, changed := m.Check(t.Context(), Collage)
	assert.False(t, changed)
	assert.Zero(t, calls)
}

func TestMonitor_FailureCountsAsEmpty(t *testing.T) {
	src := &fakeSource{images: map[Category][]Image{}}
	src.set(Collage, Image{Src: "/gf-photos/x.jpg", Alt: "Beautiful memory"})

	m := NewMonitor(src, nil)
	m.Prime(t.Context())

	src.err = errors.New("disk gone")
	change, changed := m.Check(t.Context(), Collage)
	require.True(t, changed)
	assert.Equal(t, 0, change.Count)
	assert.Equal(t, ListingHash(nil), change.Hash)

	src.err = nil
	_, changed = m.Check(t.Context(), Collage)
	assert.True(t, changed)
}
