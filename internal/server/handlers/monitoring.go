package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/birthday/internal/foundation/errors"
	"git.home.luguber.info/inful/birthday/internal/server/responses"
	"git.home.luguber.info/inful/birthday/internal/version"
)

// ReadinessCheck reports whether one dependency is usable.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// MonitoringHandlers contains monitoring-related HTTP handlers.
type MonitoringHandlers struct {
	startTime    time.Time
	checks       []ReadinessCheck
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers(startTime time.Time, checks ...ReadinessCheck) *MonitoringHandlers {
	return &MonitoringHandlers{
		startTime:    startTime,
		checks:       checks,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

func (h *MonitoringHandlers) requireGET(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	err := errors.ValidationError("invalid HTTP method").
		WithContext("method", r.Method).
		WithContext("allowed_method", "GET").
		Build()
	h.errorAdapter.WriteErrorResponse(w, r, err)
	return false
}

// HandleHealthCheck handles the health check endpoint.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if !h.requireGET(w, r) {
		return
	}

	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
	}

	if err := writeJSONPretty(w, r, http.StatusOK, health); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write health response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// HandleReadiness runs every readiness check and answers 503 if any fails.
func (h *MonitoringHandlers) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	if !h.requireGET(w, r) {
		return
	}

	resp := &responses.ReadinessResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]string, len(h.checks)),
	}
	status := http.StatusOK
	for _, c := range h.checks {
		if err := c.Check(r.Context()); err != nil {
			resp.Checks[c.Name] = err.Error()
			resp.Status = "not ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[c.Name] = "ok"
	}

	if err := writeJSONPretty(w, r, status, resp); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write readiness response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}
