package config

import (
	"strings"

	derrors "git.home.luguber.info/inful/birthday/internal/foundation/errors"
)

// ValidateConfig validates a defaulted configuration.
func ValidateConfig(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	return v.validate()
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateGallery(); err != nil {
		return err
	}
	if err := cv.validateTiming(); err != nil {
		return err
	}
	return cv.validateServer()
}

func (cv *configurationValidator) validateGallery() error {
	g := cv.config.Gallery
	for name, c := range map[string]CategoryConfig{"carousel": g.Carousel, "collage": g.Collage} {
		if !strings.HasPrefix(c.URLPrefix, "/") || c.URLPrefix == "/" {
			return derrors.ConfigError("url_prefix must be an absolute, non-root path").
				WithContext("category", name).
				WithContext("url_prefix", c.URLPrefix).Build()
		}
		if strings.HasPrefix(c.URLPrefix, "/api") || strings.HasPrefix(c.URLPrefix, "/static") {
			return derrors.ConfigError("url_prefix collides with a reserved route").
				WithContext("category", name).
				WithContext("url_prefix", c.URLPrefix).Build()
		}
		if c.AltStyle != AltStyleName && c.AltStyle != AltStyleFixed {
			return derrors.ConfigError("unknown alt_style").
				WithContext("category", name).
				WithContext("alt_style", string(c.AltStyle)).Build()
		}
	}
	if strings.TrimRight(g.Carousel.URLPrefix, "/") == strings.TrimRight(g.Collage.URLPrefix, "/") {
		return derrors.ConfigError("carousel and collage must use different url_prefix values").Build()
	}
	return nil
}

func (cv *configurationValidator) validateTiming() error {
	c := cv.config
	if c.Carousel.Settle >= c.Carousel.Interval {
		return derrors.ConfigError("carousel settle window must be shorter than the rotation interval").
			WithContext("settle", c.Carousel.Settle.String()).
			WithContext("interval", c.Carousel.Interval.String()).Build()
	}
	if c.Collage.TransitionOut >= c.Collage.Interval {
		return derrors.ConfigError("collage transition_out must be shorter than the sampling interval").
			WithContext("transition_out", c.Collage.TransitionOut.String()).
			WithContext("interval", c.Collage.Interval.String()).Build()
	}
	return nil
}

func (cv *configurationValidator) validateServer() error {
	s := cv.config.Server
	for name, port := range map[string]int{"site_port": s.SitePort, "admin_port": s.AdminPort} {
		if port < 0 || port > 65535 {
			return derrors.ConfigError("port out of range").
				WithContext("field", name).
				WithContext("port", port).Build()
		}
	}
	if s.SitePort != 0 && s.SitePort == s.AdminPort {
		return derrors.ConfigError("site_port and admin_port must differ").
			WithContext("port", s.SitePort).Build()
	}
	return nil
}
