package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/birthday/internal/config"
	"git.home.luguber.info/inful/birthday/internal/daemon"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	SitePort  int  `name:"site-port" help:"Override the site port"`
	AdminPort int  `name:"admin-port" help:"Override the admin port"`
	NoWatch   bool `name:"no-watch" help:"Disable file watching; rely on the periodic rescan"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := s.apply(cfg); err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunServe(ctx, cfg)
}

// apply overrides cfg with the command flags.
func (s *ServeCmd) apply(cfg *config.Config) error {
	if s.SitePort != 0 {
		cfg.Server.SitePort = s.SitePort
	}
	if s.AdminPort != 0 {
		cfg.Server.AdminPort = s.AdminPort
	}
	if s.NoWatch {
		cfg.Gallery.Watch = false
	}
	return config.ValidateConfig(cfg)
}

func RunServe(ctx context.Context, cfg *config.Config) error {
	slog.Info("Starting birthday site",
		slog.Int("site_port", cfg.Server.SitePort),
		slog.Int("admin_port", cfg.Server.AdminPort))

	d, err := daemon.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}
	if err := d.Run(ctx); err != nil {
		return fmt.Errorf("daemon error: %w", err)
	}
	slog.Info("Birthday site stopped")
	return nil
}
