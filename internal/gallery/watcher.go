package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"

	"git.home.luguber.info/inful/birthday/internal/logfields"
)

// DefaultDebounce coalesces bursts of file events, e.g. a bulk copy.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches the photo directories and reports which category changed.
// Events are debounced per category.
type Watcher struct {
	dirs     map[Category]string
	debounce time.Duration
	clock    clockwork.Clock
	onChange func(Category)
	onReady  func()

	mu     sync.Mutex
	timers map[Category]clockwork.Timer
}

// NewWatcher creates a watcher over dirs. onChange runs on a timer goroutine.
func NewWatcher(dirs map[Category]string, debounce time.Duration, onChange func(Category)) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs := make(map[Category]string, len(dirs))
	for cat, dir := range dirs {
		if p, err := filepath.Abs(dir); err == nil {
			dir = p
		}
		abs[cat] = filepath.Clean(dir)
	}
	return &Watcher{
		dirs:     abs,
		debounce: debounce,
		clock:    clockwork.NewRealClock(),
		onChange: onChange,
		timers:   make(map[Category]clockwork.Timer),
	}
}

// WithClock replaces the clock used for debouncing.
func (w *Watcher) WithClock(c clockwork.Clock) *Watcher {
	w.clock = c
	return w
}

// WithReady sets fn to run once the directories are registered, before any
// event is handled. Changes made after fn starts are reported.
func (w *Watcher) WithReady(fn func()) *Watcher {
	w.onReady = fn
	return w
}

// Run watches until ctx is cancelled. Directories that cannot be watched are
// logged and skipped; the periodic rescan still covers them.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	watched := 0
	for cat, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			slog.Warn("watch add failed", logfields.Category(string(cat)), logfields.Dir(dir), logfields.Error(err))
			continue
		}
		watched++
	}
	if w.onReady != nil {
		w.onReady()
	}
	if watched == 0 {
		slog.Warn("no photo directories could be watched; relying on rescan")
		return nil
	}
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) || ev.Op == fsnotify.Chmod {
		return
	}
	cat, ok := w.categoryFor(ev.Name)
	if !ok {
		return
	}
	slog.Debug("Photo change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.trigger(cat)
}

func (w *Watcher) categoryFor(path string) (Category, bool) {
	dir := filepath.Dir(filepath.Clean(path))
	for cat, d := range w.dirs {
		if d == dir {
			return cat, true
		}
	}
	return "", false
}

func (w *Watcher) trigger(cat Category) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[cat]; ok {
		t.Stop()
	}
	w.timers[cat] = w.clock.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, cat)
		w.mu.Unlock()
		if w.onChange != nil {
			w.onChange(cat)
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for cat, t := range w.timers {
		t.Stop()
		delete(w.timers, cat)
	}
}

// shouldIgnoreEvent returns true for files that never affect a listing.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasSuffix(base, ".part") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
