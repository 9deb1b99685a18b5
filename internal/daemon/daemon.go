// Package daemon runs the site: the HTTP servers, the change stream and the
// change detection that feeds it.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/birthday/internal/config"
	"git.home.luguber.info/inful/birthday/internal/gallery"
	"git.home.luguber.info/inful/birthday/internal/logfields"
	"git.home.luguber.info/inful/birthday/internal/metrics"
	"git.home.luguber.info/inful/birthday/internal/server/events"
	"git.home.luguber.info/inful/birthday/internal/server/httpserver"
)

// Status represents the current state of the daemon.
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusError    Status = "error"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP servers.
const ShutdownTimeout = 30 * time.Second

// Daemon owns the serving process.
type Daemon struct {
	cfg      *config.Config
	clock    clockwork.Clock
	source   *gallery.DirSource
	recorder metrics.Recorder
	hub      *events.Hub
	monitor  *gallery.Monitor
	http     *httpserver.Server

	mu        sync.Mutex
	status    atomic.Value
	startTime time.Time
}

// Option customizes a Daemon.
type Option func(*Daemon)

// WithClock sets the clock driving the rescan schedule and watcher debounce.
func WithClock(c clockwork.Clock) Option {
	return func(d *Daemon) { d.clock = c }
}

// New wires the daemon from cfg.
func New(cfg *config.Config, opts ...Option) (*Daemon, error) {
	d := &Daemon{
		cfg:    cfg,
		clock:  clockwork.NewRealClock(),
		source: gallery.NewDirSource(cfg.Gallery),
	}
	for _, o := range opts {
		o(d)
	}
	d.status.Store(StatusStopped)

	var promHandler = metrics.HTTPHandler(nil)
	if cfg.Monitoring.Metrics.Enabled {
		reg := prom.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		d.recorder = metrics.NewPrometheusRecorder(reg)
		promHandler = metrics.HTTPHandler(reg)
	}
	d.recorder = metrics.OrNoop(d.recorder)

	d.hub = events.NewHub(events.DefaultHeartbeat, d.recorder)
	d.monitor = gallery.NewMonitor(d.source, d.hub).WithRecorder(d.recorder)

	srv, err := httpserver.New(cfg, httpserver.Options{
		Source:            d.source,
		Events:            d.hub,
		Recorder:          d.recorder,
		PrometheusHandler: promHandler,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}
	d.http = srv
	return d, nil
}

// GetStatus returns the current daemon status.
func (d *Daemon) GetStatus() Status {
	return d.status.Load().(Status)
}

// GetStartTime returns when Run started serving.
func (d *Daemon) GetStartTime() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.startTime
}

// SiteAddr returns the bound site address once running.
func (d *Daemon) SiteAddr() net.Addr { return d.http.SiteAddr() }

// AdminAddr returns the bound admin address once running.
func (d *Daemon) AdminAddr() net.Addr { return d.http.AdminAddr() }

// Run serves until ctx is cancelled or a component fails, then shuts down.
func (d *Daemon) Run(ctx context.Context) error {
	if d.GetStatus() != StatusStopped {
		return fmt.Errorf("daemon is not in stopped state: %s", d.GetStatus())
	}
	d.status.Store(StatusStarting)
	d.mu.Lock()
	d.startTime = d.clock.Now()
	d.mu.Unlock()

	if err := d.http.Start(ctx); err != nil {
		d.status.Store(StatusError)
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	// The first listing is the baseline; only later differences are broadcast.
	d.monitor.Prime(ctx)

	scheduler, err := NewScheduler(d.clock)
	if err != nil {
		d.status.Store(StatusError)
		return d.shutdown(err)
	}

	g, gctx := errgroup.WithContext(ctx)
	if _, err := scheduler.ScheduleRescan(gctx, d.cfg.Gallery.RescanInterval, d.monitor.CheckAll); err != nil {
		d.status.Store(StatusError)
		return d.shutdown(err)
	}
	scheduler.Start()

	if d.cfg.Gallery.Watch {
		dirs := map[gallery.Category]string{}
		for _, cat := range gallery.Categories() {
			dirs[cat] = d.source.Directory(cat)
		}
		watcher := gallery.NewWatcher(dirs, d.cfg.Gallery.WatchDebounce, func(cat gallery.Category) {
			d.monitor.Check(gctx, cat)
		}).WithClock(d.clock)
		g.Go(func() error {
			if err := watcher.Run(gctx); err != nil {
				slog.Warn("File watcher unavailable; relying on rescan", logfields.Error(err))
			}
			return nil
		})
	}

	d.status.Store(StatusRunning)
	slog.Info("Birthday site running",
		logfields.Addr(d.http.SiteAddr().String()),
		slog.String("admin_addr", d.http.AdminAddr().String()),
		slog.Bool("watch", d.cfg.Gallery.Watch),
		slog.Duration("rescan_interval", d.cfg.Gallery.RescanInterval))

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})
	runErr := g.Wait()

	if err := scheduler.Stop(); err != nil {
		slog.Warn("Scheduler shutdown failed", logfields.Error(err))
	}
	return d.shutdown(runErr)
}

func (d *Daemon) shutdown(cause error) error {
	d.status.Store(StatusStopping)
	stopCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	stopErr := d.http.Stop(stopCtx)
	d.status.Store(StatusStopped)
	if cause != nil {
		return cause
	}
	return stopErr
}
