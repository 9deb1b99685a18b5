package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/birthday/internal/carousel"
	"git.home.luguber.info/inful/birthday/internal/collage"
	"git.home.luguber.info/inful/birthday/internal/config"
	"git.home.luguber.info/inful/birthday/internal/gallery"
	"git.home.luguber.info/inful/birthday/internal/logfields"
	"git.home.luguber.info/inful/birthday/internal/metrics"
	"git.home.luguber.info/inful/birthday/internal/player"
	"git.home.luguber.info/inful/birthday/internal/server/events"
	"git.home.luguber.info/inful/birthday/internal/session"
)

// PlayCmd implements the 'play' command.
type PlayCmd struct {
	Server      string `help:"Base URL of a running birthday site" default:"http://localhost:3000"`
	Local       bool   `help:"Read the configured photo directories instead of a server"`
	MetricsAddr string `name:"metrics-addr" help:"Expose player metrics on this address (e.g. :9100)"`
	LogFile     string `name:"log-file" help:"Write logs to this file while the player owns the terminal"`
}

func (p *PlayCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// The terminal belongs to the player; logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if p.LogFile != "" {
		f, err := os.OpenFile(p.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer func() { _ = f.Close() }()
		logOut = f
	}
	prev := slog.Default()
	slog.SetDefault(newLogger(logOut, root.Verbose))
	defer slog.SetDefault(prev)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var recorder metrics.Recorder
	if p.MetricsAddr != "" {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		stop, err := serveMetrics(p.MetricsAddr, metrics.HTTPHandler(reg))
		if err != nil {
			return err
		}
		defer stop()
	}

	src, feed := p.sources(cfg)
	return RunPlay(ctx, src, feed, SessionOptions(cfg, recorder, slog.Default()), tea.WithAltScreen())
}

// sources picks where photos and change notifications come from.
func (p *PlayCmd) sources(cfg *config.Config) (gallery.Source, player.ChangeFeed) {
	if p.Local {
		dirs := gallery.NewDirSource(cfg.Gallery)
		return dirs, localFeed{source: dirs, debounce: cfg.Gallery.WatchDebounce}
	}
	return gallery.NewHTTPSource(p.Server, &http.Client{Timeout: 10 * time.Second}),
		events.NewSubscriber(p.Server, nil)
}

// SessionOptions maps the configured timings onto session options.
func SessionOptions(cfg *config.Config, recorder metrics.Recorder, logger *slog.Logger) session.Options {
	return session.Options{
		Carousel: carousel.Options{Interval: cfg.Carousel.Interval, Settle: cfg.Carousel.Settle},
		Collage: collage.Options{
			Interval:      cfg.Collage.Interval,
			TransitionOut: cfg.Collage.TransitionOut,
			GridSize:      cfg.Collage.GridSize,
		},
		Recorder: recorder,
		Logger:   logger,
	}
}

// RunPlay opens a session over src and runs the player until it quits.
func RunPlay(ctx context.Context, src gallery.Source, feed player.ChangeFeed, opts session.Options, progOpts ...tea.ProgramOption) error {
	sess, err := session.Open(ctx, src, opts)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer sess.Close()
	return player.Run(ctx, sess, feed, progOpts...)
}

// localFeed announces changes of local photo directories. The monitor drops
// events that leave a listing unchanged.
type localFeed struct {
	source   *gallery.DirSource
	debounce time.Duration
	// ready, when set, runs after the baseline listing is recorded.
	ready func()
}

func (f localFeed) Run(ctx context.Context, fn func(gallery.Change)) error {
	mon := gallery.NewMonitor(f.source, gallery.NotifierFunc(fn))
	dirs := make(map[gallery.Category]string, 2)
	for _, cat := range gallery.Categories() {
		dirs[cat] = f.source.Directory(cat)
	}
	// Prime only once the watches exist so no change falls between the two.
	return gallery.NewWatcher(dirs, f.debounce, func(cat gallery.Category) {
		mon.Check(ctx, cat)
	}).WithReady(func() {
		mon.Prime(ctx)
		if f.ready != nil {
			f.ready()
		}
	}).Run(ctx)
}

// serveMetrics exposes h at addr in the background and returns a stop func.
func serveMetrics(addr string, h http.Handler) (func(), error) {
	ln, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server error", logfields.Error(err))
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
