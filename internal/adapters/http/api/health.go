package api

import (
	"net/http"

	service "github.com/okian/salarypredict/internal/app"
	"github.com/okian/salarypredict/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	srv *Server
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(srv *Server) *HealthHandler {
	return &HealthHandler{srv: srv}
}

type healthResponse struct {
	Status        string             `json:"status"`
	Model         *service.ModelInfo `json:"model,omitempty"`
	ReferenceRows int                `json:"referenceRows"`
}

// HandleHealth handles GET /healthz requests. It answers 503 until the
// dataset and model are loaded.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.srv.writeError(w, r, NewKind("api.healthz", ErrMethodNotAllowed))
		return
	}
	info, err := h.srv.deps.ModelInfo()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Model:         &info,
		ReferenceRows: h.srv.deps.ReferenceRows(),
	})
}

// MetricsHandler exposes the Prometheus registry.
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// HandleMetrics handles GET /metrics requests.
func (m *MetricsHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	// Use our custom metrics registry to serve metrics
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
