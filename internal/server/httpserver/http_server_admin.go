package httpserver

import (
	"net/http"

	"git.home.luguber.info/inful/birthday/internal/metrics"
)

// AdminHandler builds the admin mux: health, readiness and metrics.
func (s *Server) AdminHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(s.cfg.Monitoring.Health.Path, s.monitoringHandlers.HandleHealthCheck)
	if s.cfg.Monitoring.Health.Path != "/healthz" {
		mux.HandleFunc("/healthz", s.monitoringHandlers.HandleHealthCheck) // Kubernetes-style alias
	}
	// Ready only when both photo directories can be listed.
	mux.HandleFunc("/ready", s.monitoringHandlers.HandleReadiness)
	mux.HandleFunc("/readyz", s.monitoringHandlers.HandleReadiness)

	if s.cfg.Monitoring.Metrics.Enabled {
		h := s.opts.PrometheusHandler
		if h == nil {
			h = metrics.HTTPHandler(nil)
		}
		mux.Handle(s.cfg.Monitoring.Metrics.Path, h)
	}

	return s.mchain(mux)
}
