package config

import "time"

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// Nominal page timings: a rotation every 3s with a 500ms cross-fade.
const (
	DefaultRotationInterval = 3000 * time.Millisecond
	DefaultSettleWindow     = 500 * time.Millisecond
	DefaultGridSize         = 12
)

func applyDefaults(cfg *Config) error {
	appliers := []DefaultApplier{
		siteDefaults{},
		galleryDefaults{},
		timingDefaults{},
		serverDefaults{},
		monitoringDefaults{},
	}
	for _, a := range appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

type siteDefaults struct{}

func (siteDefaults) Domain() string { return "site" }

func (siteDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = "Happy Birthday!"
	}
	if cfg.Site.Subtitle == "" {
		cfg.Site.Subtitle = "To the most amazing girlfriend in the world"
	}
	return nil
}

type galleryDefaults struct{}

func (galleryDefaults) Domain() string { return "gallery" }

func (galleryDefaults) ApplyDefaults(cfg *Config) error {
	g := &cfg.Gallery
	defaultCategory(&g.Carousel, "public/photos", "/photos", AltStyleName)
	defaultCategory(&g.Collage, "public/gf-photos", "/gf-photos", AltStyleFixed)
	if g.WatchDebounce <= 0 {
		g.WatchDebounce = 300 * time.Millisecond
	}
	if g.RescanInterval <= 0 {
		g.RescanInterval = time.Minute
	}
	return nil
}

func defaultCategory(c *CategoryConfig, dir, prefix string, style AltStyle) {
	if c.Directory == "" {
		c.Directory = dir
	}
	if c.URLPrefix == "" {
		c.URLPrefix = prefix
	}
	if c.AltText == "" {
		c.AltText = "Beautiful memory"
	}
	if c.AltStyle == "" {
		c.AltStyle = style
	}
}

type timingDefaults struct{}

func (timingDefaults) Domain() string { return "timing" }

func (timingDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Carousel.Interval <= 0 {
		cfg.Carousel.Interval = DefaultRotationInterval
	}
	if cfg.Carousel.Settle <= 0 {
		cfg.Carousel.Settle = DefaultSettleWindow
	}
	if cfg.Collage.Interval <= 0 {
		cfg.Collage.Interval = DefaultRotationInterval
	}
	if cfg.Collage.TransitionOut <= 0 {
		cfg.Collage.TransitionOut = DefaultSettleWindow
	}
	if cfg.Collage.GridSize <= 0 {
		cfg.Collage.GridSize = DefaultGridSize
	}
	return nil
}

type serverDefaults struct{}

func (serverDefaults) Domain() string { return "server" }

func (serverDefaults) ApplyDefaults(cfg *Config) error {
	s := &cfg.Server
	if s.SitePort == 0 {
		s.SitePort = 3000
	}
	if s.AdminPort == 0 {
		s.AdminPort = s.SitePort + 1
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = 120 * time.Second
	}
	if s.RateLimit.PerSecond <= 0 {
		s.RateLimit.PerSecond = 20
	}
	if s.RateLimit.Burst <= 0 {
		s.RateLimit.Burst = 40
	}
	return nil
}

type monitoringDefaults struct{}

func (monitoringDefaults) Domain() string { return "monitoring" }

func (monitoringDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Monitoring.Health.Path == "" {
		cfg.Monitoring.Health.Path = "/health"
	}
	if cfg.Monitoring.Metrics.Path == "" {
		cfg.Monitoring.Metrics.Path = "/metrics"
	}
	return nil
}
