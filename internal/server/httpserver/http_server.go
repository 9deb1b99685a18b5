package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/birthday/internal/config"
	derrors "git.home.luguber.info/inful/birthday/internal/foundation/errors"
	"git.home.luguber.info/inful/birthday/internal/gallery"
	"git.home.luguber.info/inful/birthday/internal/logfields"
	"git.home.luguber.info/inful/birthday/internal/metrics"
	handlers "git.home.luguber.info/inful/birthday/internal/server/handlers"
	smw "git.home.luguber.info/inful/birthday/internal/server/middleware"
)

// Server manages the site and admin HTTP endpoints.
type Server struct {
	siteServer   *http.Server
	adminServer  *http.Server
	cfg          *config.Config
	opts         Options
	dirs         *gallery.DirSource
	errorAdapter *derrors.HTTPErrorAdapter
	page         *pageRenderer

	// Handler modules
	monitoringHandlers  *handlers.MonitoringHandlers
	photoHandlers       *handlers.PhotoHandlers
	celebrationHandlers *handlers.CelebrationHandlers

	// middleware chain
	mchain func(http.Handler) http.Handler

	siteAddr  net.Addr
	adminAddr net.Addr
}

// New constructs a new HTTP server wiring instance.
func New(cfg *config.Config, opts Options) (*Server, error) {
	dirs := gallery.NewDirSource(cfg.Gallery)
	if opts.Source == nil {
		opts.Source = dirs
	}
	opts.Recorder = metrics.OrNoop(opts.Recorder)

	page, err := newPageRenderer(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:          cfg,
		opts:         opts,
		dirs:         dirs,
		errorAdapter: derrors.NewHTTPErrorAdapter(slog.Default()),
		page:         page,
	}

	s.monitoringHandlers = handlers.NewMonitoringHandlers(time.Now(), s.readinessChecks()...)
	s.photoHandlers = handlers.NewPhotoHandlers(opts.Source, opts.Recorder)
	s.celebrationHandlers = handlers.NewCelebrationHandlers(opts.NewRand)

	s.mchain = smw.Chain(slog.Default(), s.errorAdapter)
	return s, nil
}

// readinessChecks require both photo directories to be listable.
func (s *Server) readinessChecks() []handlers.ReadinessCheck {
	checks := make([]handlers.ReadinessCheck, 0, 2)
	for _, cat := range gallery.Categories() {
		checks = append(checks, handlers.ReadinessCheck{
			Name: string(cat),
			Check: func(ctx context.Context) error {
				_, err := s.dirs.List(ctx, cat)
				return err
			},
		})
	}
	return checks
}

// Start binds both listeners up front, then serves on them in the background.
func (s *Server) Start(ctx context.Context) error {
	type preBind struct {
		name string
		port int
		ln   net.Listener
	}
	binds := []preBind{
		{name: "site", port: s.cfg.Server.SitePort},
		{name: "admin", port: s.cfg.Server.AdminPort},
	}
	var bindErrs []error
	lc := net.ListenConfig{}
	for i := range binds {
		addr := net.JoinHostPort(s.cfg.Server.Host, fmt.Sprint(binds[i].port))
		ln, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			bindErrs = append(bindErrs, fmt.Errorf("%s port %d: %w", binds[i].name, binds[i].port, err))
			continue
		}
		binds[i].ln = ln
	}
	if len(bindErrs) > 0 {
		for _, b := range binds {
			if b.ln != nil {
				_ = b.ln.Close()
			}
		}
		return derrors.WrapError(errors.Join(bindErrs...), derrors.CategoryRuntime, "http startup failed").
			Fatal().
			Build()
	}

	s.siteAddr = binds[0].ln.Addr()
	s.adminAddr = binds[1].ln.Addr()

	s.siteServer = &http.Server{
		Handler:           s.SiteHandler(),
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       s.cfg.Server.IdleTimeout,
	}
	s.adminServer = &http.Server{
		Handler:      s.AdminHandler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.startServerWithListener("site", s.siteServer, binds[0].ln)
	s.startServerWithListener("admin", s.adminServer, binds[1].ln)

	slog.Info("HTTP servers started",
		slog.String("site_addr", s.siteAddr.String()),
		slog.String("admin_addr", s.adminAddr.String()))
	return nil
}

// SiteAddr returns the bound site address after Start.
func (s *Server) SiteAddr() net.Addr { return s.siteAddr }

// AdminAddr returns the bound admin address after Start.
func (s *Server) AdminAddr() net.Addr { return s.adminAddr }

// Stop gracefully shuts down both servers. Open change streams are closed
// first so Shutdown does not wait on them.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error

	if s.opts.Events != nil {
		s.opts.Events.Shutdown()
	}
	if s.adminServer != nil {
		if err := s.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin server shutdown: %w", err))
		}
	}
	if s.siteServer != nil {
		if err := s.siteServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("site server shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}

	slog.Info("HTTP servers stopped")
	return nil
}

// startServerWithListener launches an http.Server on a pre-bound listener.
func (s *Server) startServerWithListener(kind string, srv *http.Server, ln net.Listener) {
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error(fmt.Sprintf("%s server error", kind), logfields.Error(err))
		}
	}()
}
