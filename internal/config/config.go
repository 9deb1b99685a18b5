package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/birthday/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	Version    string           `yaml:"version"`
	Site       SiteConfig       `yaml:"site"`
	Gallery    GalleryConfig    `yaml:"gallery"`
	Carousel   CarouselConfig   `yaml:"carousel"`
	Collage    CollageConfig    `yaml:"collage"`
	Server     ServerConfig     `yaml:"server"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// SiteConfig holds the hero section copy. Message is Markdown.
type SiteConfig struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle,omitempty"`
	Message  string `yaml:"message,omitempty"`
}

// AltStyle selects how a listing derives alt text from a file name.
type AltStyle string

const (
	// AltStyleName appends the file name stem: "Beautiful memory - beach".
	AltStyleName AltStyle = "name"
	// AltStyleFixed uses the alt text verbatim for every image.
	AltStyleFixed AltStyle = "fixed"
)

// CategoryConfig describes one photo collection on disk and how it is published.
type CategoryConfig struct {
	Directory string   `yaml:"directory"`
	URLPrefix string   `yaml:"url_prefix"`
	AltText   string   `yaml:"alt_text"`
	AltStyle  AltStyle `yaml:"alt_style"`
}

// GalleryConfig configures both image collections and change detection.
type GalleryConfig struct {
	Carousel       CategoryConfig `yaml:"carousel"`
	Collage        CategoryConfig `yaml:"collage"`
	Watch          bool           `yaml:"watch"`
	WatchDebounce  time.Duration  `yaml:"watch_debounce"`
	RescanInterval time.Duration  `yaml:"rescan_interval"`
}

// CarouselConfig holds rotation timing.
type CarouselConfig struct {
	Interval time.Duration `yaml:"interval"`
	Settle   time.Duration `yaml:"settle"`
}

// CollageConfig holds sampling timing and grid size.
type CollageConfig struct {
	Interval      time.Duration `yaml:"interval"`
	TransitionOut time.Duration `yaml:"transition_out"`
	GridSize      int           `yaml:"grid_size"`
}

// ServerConfig configures the site and admin listeners.
type ServerConfig struct {
	Host        string          `yaml:"host,omitempty"`
	SitePort    int             `yaml:"site_port"`
	AdminPort   int             `yaml:"admin_port"`
	ReadTimeout time.Duration   `yaml:"read_timeout"`
	IdleTimeout time.Duration   `yaml:"idle_timeout"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig configures the token bucket guarding /api.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// MonitoringConfig configures admin endpoints.
type MonitoringConfig struct {
	Health  MonitoringHealth  `yaml:"health"`
	Metrics MonitoringMetrics `yaml:"metrics"`
}

type MonitoringHealth struct {
	Path string `yaml:"path"`
}

type MonitoringMetrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load loads configuration from the specified file, applying defaults and validation.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just note it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, derrors.ConfigError("configuration file not found").
				WithContext("path", configPath).Build()
		}
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).Build()
	}

	return Parse(data)
}

// Parse decodes YAML configuration after expanding ${ENV} references.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}
	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a fully defaulted configuration.
func Default() *Config {
	cfg := &Config{}
	// Defaults never fail on an empty config.
	_ = applyDefaults(cfg)
	return cfg
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	example := Default()
	example.Gallery.Watch = true
	example.Monitoring.Metrics.Enabled = true
	example.Site.Message = "On this special day, I want to celebrate you and all the joy you bring to my life.\n" +
		"Your smile brightens my darkest days, and your love makes every moment magical.\n\n" +
		"Here's to many more **beautiful memories** together!\n"

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
