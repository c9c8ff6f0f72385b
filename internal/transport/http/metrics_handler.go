package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"upscdash/internal/infrastructure"
	"upscdash/internal/websocket"
)

// HubStatsProvider reports WebSocket hub counters.
type HubStatsProvider interface {
	Stats() websocket.HubStats
}

// MetricsHandler serves process and hub statistics as JSON. Prometheus
// scraping is served separately at /metrics.
type MetricsHandler struct {
	collector *infrastructure.SystemMetricsCollector
	hub       HubStatsProvider
}

// NewMetricsHandler creates a new metrics handler. hub may be nil.
func NewMetricsHandler(collector *infrastructure.SystemMetricsCollector, hub HubStatsProvider) *MetricsHandler {
	return &MetricsHandler{collector: collector, hub: hub}
}

// Routes sets up the metrics routes
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/system", h.GetSystem)
	return r
}

// SystemMetrics is the body of GET /api/metrics/system.
type SystemMetrics struct {
	Runtime   infrastructure.SystemStats `json:"runtime"`
	WebSocket *websocket.HubStats        `json:"websocket,omitempty"`
	StartedAt time.Time                  `json:"started_at"`
}

// GetSystem handles GET /api/metrics/system
func (h *MetricsHandler) GetSystem(w http.ResponseWriter, r *http.Request) {
	resp := SystemMetrics{
		Runtime:   h.collector.Stats(),
		StartedAt: h.collector.StartTime(),
	}
	if h.hub != nil {
		stats := h.hub.Stats()
		resp.WebSocket = &stats
	}
	render.JSON(w, r, resp)
}
