package httpserver

import (
	"math/rand/v2"
	"net/http"

	"git.home.luguber.info/inful/birthday/internal/gallery"
	"git.home.luguber.info/inful/birthday/internal/metrics"
)

// ChangeStream supports the change stream SSE endpoint.
type ChangeStream interface {
	http.Handler
	Shutdown()
}

// Options configures server wiring that is runtime-specific.
type Options struct {
	// Source lists photos; defaults to a DirSource over the configured directories.
	Source gallery.Source

	// Optional: change stream served at /api/events.
	Events ChangeStream

	// Optional: metrics recorder and the handler exposing it on the admin port.
	Recorder          metrics.Recorder
	PrometheusHandler http.Handler

	// Optional: seeds celebration plans (tests).
	NewRand func() *rand.Rand
}
