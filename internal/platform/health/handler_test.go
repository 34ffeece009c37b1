package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fuelguard/internal/platform/health"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h *health.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	h.Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestStatus(t *testing.T) {
	rec := serve(t, health.New("test"), "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body health.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "test", body.Environment)
}

func TestReadiness(t *testing.T) {
	h := health.New("test")
	h.RegisterCheck("kafka", func(context.Context) error { return nil })

	rec := serve(t, h, "/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	h.RegisterCheck("permit_authority", func(context.Context) error { return errors.New("unreachable") })
	rec = serve(t, h, "/health/ready")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body health.ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, "up", body.Checks["kafka"])
	assert.Equal(t, "down: unreachable", body.Checks["permit_authority"])
}
