package handlers

import (
	"log/slog"
	"net/http"
	"time"

	serrors "git.home.luguber.info/inful/reposcribe/internal/errors"
	"git.home.luguber.info/inful/reposcribe/internal/logfields"
	"git.home.luguber.info/inful/reposcribe/internal/server/responses"
	"git.home.luguber.info/inful/reposcribe/internal/version"
)

// MonitoringHandlers contains health endpoints.
type MonitoringHandlers struct {
	startTime    time.Time
	errorAdapter *serrors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers(startTime time.Time) *MonitoringHandlers {
	return &MonitoringHandlers{
		startTime:    startTime,
		errorAdapter: serrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleHealth handles the health check endpoint.
func (h *MonitoringHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		err := serrors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "GET")
		h.errorAdapter.WriteErrorResponse(w, err)
		return
	}

	resp := responses.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		slog.Error("Failed to write health response", logfields.Error(err))
	}
}
