// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/salarypredict/internal/app"
	"github.com/okian/salarypredict/internal/domain/model"
	"github.com/okian/salarypredict/internal/domain/validate"
	"github.com/okian/salarypredict/pkg/logger"
)

const defaultMaxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	// Predict validates and scores one request.
	Predict(ctx context.Context, in validate.Input) (model.Prediction, error)

	// JobTitles lists the accepted job titles.
	JobTitles(ctx context.Context) ([]string, error)

	// ModelInfo and ReferenceRows describe the loaded state for /healthz.
	ModelInfo() (service.ModelInfo, error)
	ReferenceRows() int
}

// Server wires HTTP routes for the prediction API.
type Server struct {
	deps         Dependencies
	legacyStatus bool
	maxBodyBytes int64
	logger       logger.Logger

	predictHandler   *PredictHandler
	jobTitlesHandler *JobTitlesHandler
	healthHandler    *HealthHandler
	metricsHandler   *MetricsHandler
	statsHandler     *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:         deps,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("api")
	}

	s.predictHandler = NewPredictHandler(s)
	s.jobTitlesHandler = NewJobTitlesHandler(s)
	s.healthHandler = NewHealthHandler(s)
	s.metricsHandler = NewMetricsHandler()
	s.statsHandler = NewStatsHandler(s)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/predict", s.chain(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/job-titles", s.chain(s.jobTitlesHandler.HandleJobTitles, "job_titles"))
	mux.HandleFunc("/healthz", s.chain(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.metricsHandler.HandleMetrics)
	mux.HandleFunc("/stats", s.chain(s.statsHandler.HandleStats, "stats"))
}

func (s *Server) chain(h http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(MetricsMiddleware(h, endpoint))
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends {"error": msg}. In legacy mode validation and prediction
// failures are sent with 200.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.Int("status", status),
			logger.Error(err),
		)
	}
	if status == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", allowedMethod(r.URL.Path))
	}
	if s.legacyStatus && legacyOK(err) {
		status = http.StatusOK
	}
	writeJSON(w, status, errorResponse{Error: messageOf(err)})
}

func legacyOK(err error) bool {
	return errors.Is(err, validate.ErrInvalidInput) || errors.Is(err, service.ErrPrediction)
}

func allowedMethod(path string) string {
	if path == "/predict" {
		return http.MethodPost
	}
	return http.MethodGet
}
