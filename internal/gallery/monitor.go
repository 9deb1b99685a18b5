package gallery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/birthday/internal/logfields"
	"git.home.luguber.info/inful/birthday/internal/metrics"
)

// Change announces that the listing of a category now has a new fingerprint.
type Change struct {
	Category Category `json:"category"`
	Hash     string   `json:"hash"`
	Count    int      `json:"count"`
}

// Notifier receives listing changes.
type Notifier interface {
	Notify(Change)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Change)

// Notify implements Notifier.
func (f NotifierFunc) Notify(c Change) { f(c) }

// Monitor re-lists categories on demand and notifies only when the listing
// fingerprint differs from the last one seen. A failed listing counts as an
// empty one, which is what clients are served in that case.
type Monitor struct {
	source   Source
	notifier Notifier
	recorder metrics.Recorder

	mu     sync.Mutex
	hashes map[Category]string
}

// NewMonitor creates a monitor over src.
func NewMonitor(src Source, notifier Notifier) *Monitor {
	return &Monitor{
		source:   src,
		notifier: notifier,
		recorder: metrics.NoopRecorder{},
		hashes:   make(map[Category]string),
	}
}

// WithRecorder sets the metrics recorder.
func (m *Monitor) WithRecorder(r metrics.Recorder) *Monitor {
	m.recorder = metrics.OrNoop(r)
	return m
}

// Prime records the current fingerprint of every category without notifying.
func (m *Monitor) Prime(ctx context.Context) {
	for _, cat := range Categories() {
		change := m.observe(ctx, cat)
		m.mu.Lock()
		m.hashes[cat] = change.Hash
		m.mu.Unlock()
	}
}

// CheckAll checks every category.
func (m *Monitor) CheckAll(ctx context.Context) {
	for _, cat := range Categories() {
		m.Check(ctx, cat)
	}
}

// Check re-lists cat. It reports the change and true when the fingerprint
// moved since the previous check. The first check of a category only records.
func (m *Monitor) Check(ctx context.Context, cat Category) (Change, bool) {
	change := m.observe(ctx, cat)

	m.mu.Lock()
	prev, seen := m.hashes[cat]
	m.hashes[cat] = change.Hash
	m.mu.Unlock()

	if !seen || prev == change.Hash {
		return change, false
	}
	slog.Info("Photo listing changed",
		logfields.Category(string(cat)),
		logfields.Hash(change.Hash),
		logfields.Count(change.Count))
	m.recorder.IncChangeBroadcast(string(cat))
	if m.notifier != nil {
		m.notifier.Notify(change)
	}
	return change, true
}

func (m *Monitor) observe(ctx context.Context, cat Category) Change {
	start := time.Now()
	images, err := ListOrEmpty(ctx, m.source, cat)
	m.recorder.ObserveListingDuration(string(cat), time.Since(start))
	if err != nil {
		slog.Warn("listing failed during change check", logfields.Category(string(cat)), logfields.Error(err))
	}
	return Change{Category: cat, Hash: ListingHash(images), Count: len(images)}
}

// Hash returns the last recorded fingerprint of cat.
func (m *Monitor) Hash(cat Category) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hashes[cat]
}
