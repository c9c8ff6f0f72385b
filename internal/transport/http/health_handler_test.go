package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upscdash/internal/dataset"
	"upscdash/internal/infrastructure"
	"upscdash/internal/services"
	"upscdash/internal/shared/testutil"
	"upscdash/pkg/contracts"
	"upscdash/pkg/contracts/domain"
)

func newHealthRouter(t *testing.T, store *dataset.Store) http.Handler {
	t.Helper()
	collector, err := infrastructure.NewSystemMetricsCollector(nil, time.Minute)
	require.NoError(t, err)

	logger := testutil.DiscardLogger()
	h := NewHealthHandler(services.NewHealthService(store, nil, collector, logger), logger)

	r := chi.NewRouter()
	r.Get("/api/health", h.HealthCheck)
	r.Get("/api/health/ready", h.ReadinessCheck)
	r.Get("/api/health/live", h.LivenessCheck)
	r.Get("/api/version", h.Version)
	return r
}

func publishSample(t *testing.T, store *dataset.Store) {
	t.Helper()
	ds, err := dataset.New([]domain.Record{
		{Category: "GEN", Year: 2007, Rank: 1, Interview: 165, Written: 1400, Total: 1565},
	}, "memory")
	require.NoError(t, err)
	store.Publish(ds)
}

func TestHealthHandler_Readiness(t *testing.T) {
	store := dataset.NewStore()
	router := newHealthRouter(t, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, services.StatusNotReady, decodeBody(t, rec)["status"])

	publishSample(t, store)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, services.StatusReady, decodeBody(t, rec)["status"])
}

func TestHealthHandler_HealthAndLiveness(t *testing.T) {
	router := newHealthRouter(t, dataset.NewStore())

	tests := []struct {
		path       string
		wantStatus string
	}{
		{"/api/health", services.StatusOK},
		{"/api/health/live", services.StatusAlive},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantStatus, body["status"])
			assert.Equal(t, contracts.Version, body["version"])
		})
	}
}

func TestHealthHandler_Version(t *testing.T) {
	rec := httptest.NewRecorder()
	newHealthRouter(t, dataset.NewStore()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), contracts.Version)
}
