package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleHealth(t *testing.T) {
	h := NewMonitoringHandlers(time.Now().Add(-time.Minute))
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.HandleHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status  string  `json:"status"`
		Version string  `json:"version"`
		Uptime  float64 `json:"uptime"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Version)
	assert.Greater(t, body.Uptime, 0.0)
}

func TestHandleHealthRejectsPost(t *testing.T) {
	h := NewMonitoringHandlers(time.Now())
	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.HandleHealth(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
