// Package metrics provides Prometheus metrics for the salary prediction service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels a finished prediction request.
type Outcome string

// Prediction outcomes.
const (
	OutcomeSuccess Outcome = "success"
	OutcomeInvalid Outcome = "invalid"
	OutcomeError   Outcome = "error"
)

// defaultSalaryBuckets spans the salary range of the reference data.
var defaultSalaryBuckets = []float64{ //nolint:gochecknoglobals // immutable bucket layout
	25_000, 50_000, 75_000, 100_000, 125_000, 150_000, 175_000, 200_000, 250_000,
}

// Manager manages all Prometheus metrics for the prediction service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	salaryBuckets    []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Prediction metrics
	predictions       *prometheus.CounterVec
	predictionLatency prometheus.Histogram
	predictedSalary   prometheus.Histogram
	validationErrors  *prometheus.CounterVec
	encodingErrors    *prometheus.CounterVec

	// Reference data and model
	referenceRows prometheus.Gauge
	jobTitles     prometheus.Gauge
	modelInfo     *prometheus.GaugeVec
	modelFeatures prometheus.Gauge
	modelTrees    prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var (
	mu             sync.RWMutex
	globalManager  *Manager            //nolint:gochecknoglobals // singleton metrics manager
	customRegistry *prometheus.Registry //nolint:gochecknoglobals // registry behind /metrics
)

func init() { //nolint:gochecknoinits // metrics must be usable before main configures them
	Init()
}

// Init replaces the global manager with one built from opts on a fresh
// registry. Call it once at startup, before serving traffic.
func Init(opts ...Option) {
	reg := prometheus.NewRegistry()
	m := NewManager(append([]Option{WithPrometheusRegistry(reg)}, opts...)...)

	mu.Lock()
	defer mu.Unlock()
	customRegistry = reg
	globalManager = m
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "salary",
		subsystem:        "predictor",
		histogramBuckets: prometheus.DefBuckets,
		salaryBuckets:    defaultSalaryBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.enabled {
		m.initializeMetrics()
	}

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.predictions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "predictions_total",
		Help:        "Total number of prediction requests by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.predictionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "prediction_latency_milliseconds",
		Help:        "Time spent validating, encoding and scoring one request",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.predictedSalary = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "predicted_salary",
		Help:        "Distribution of predicted salaries",
		Buckets:     m.salaryBuckets,
		ConstLabels: labels,
	})

	m.validationErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "validation_errors_total",
		Help:        "Rejected requests by offending field",
		ConstLabels: labels,
	}, []string{"field"})

	m.encodingErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "encoding_errors_total",
		Help:        "Feature encoding or inference failures by encoding mode",
		ConstLabels: labels,
	}, []string{"mode"})

	m.referenceRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reference_rows",
		Help:        "Rows loaded from the reference dataset",
		ConstLabels: labels,
	})

	m.jobTitles = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "job_titles",
		Help:        "Distinct job titles accepted by the validator",
		ConstLabels: labels,
	})

	m.modelInfo = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "model_info",
		Help:        "Loaded model artifact; value is always 1",
		ConstLabels: labels,
	}, []string{"kind", "version", "encoding_mode"})

	m.modelFeatures = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "model_features",
		Help:        "Number of input features expected by the model",
		ConstLabels: labels,
	})

	m.modelTrees = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "model_trees",
		Help:        "Number of trees in the loaded ensemble (0 for linear models)",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "Total number of errors by endpoint",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})

	m.errorsByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_type_total",
		Help:        "Total number of errors by type",
		ConstLabels: labels,
	}, []string{"error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// current returns the active manager, or nil when metrics are disabled.
func current() *Manager {
	mu.RLock()
	defer mu.RUnlock()
	if globalManager == nil || !globalManager.enabled {
		return nil
	}
	return globalManager
}

// RecordPrediction counts a finished prediction request.
func RecordPrediction(outcome Outcome) {
	m := current()
	if m == nil {
		return
	}
	switch outcome {
	case OutcomeSuccess, OutcomeInvalid, OutcomeError:
	default:
		outcome = OutcomeError
	}
	m.predictions.WithLabelValues(string(outcome)).Inc()
}

// RecordPredictionLatency records prediction latency in milliseconds.
func RecordPredictionLatency(latencyMs float64) {
	if m := current(); m != nil {
		m.predictionLatency.Observe(latencyMs)
	}
}

// RecordPredictedSalary observes a predicted salary.
func RecordPredictedSalary(salary float64) {
	if m := current(); m != nil {
		m.predictedSalary.Observe(salary)
	}
}

// RecordValidationError counts a request rejected on field.
func RecordValidationError(field string) {
	if m := current(); m != nil {
		m.validationErrors.WithLabelValues(field).Inc()
	}
}

// RecordEncodingError counts an encoding or inference failure.
func RecordEncodingError(mode string) {
	if m := current(); m != nil {
		m.encodingErrors.WithLabelValues(mode).Inc()
	}
}

// UpdateReferenceRows sets the number of reference rows.
func UpdateReferenceRows(count int) {
	if m := current(); m != nil {
		m.referenceRows.Set(float64(count))
	}
}

// UpdateJobTitleCount sets the size of the job-title vocabulary.
func UpdateJobTitleCount(count int) {
	if m := current(); m != nil {
		m.jobTitles.Set(float64(count))
	}
}

// UpdateModelInfo publishes the loaded model's identity and shape.
func UpdateModelInfo(kind, version, encodingMode string, features, trees int) {
	m := current()
	if m == nil {
		return
	}
	m.modelInfo.Reset()
	m.modelInfo.WithLabelValues(kind, version, encodingMode).Set(1)
	m.modelFeatures.Set(float64(features))
	m.modelTrees.Set(float64(trees))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if m := current(); m != nil {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if m := current(); m != nil {
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if m := current(); m != nil {
		m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if m := current(); m != nil {
		m.errorsByType.WithLabelValues(errorType, severity).Inc()
	}
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if m := current(); m != nil {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if m := current(); m != nil {
		m.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if m := current(); m != nil {
		m.systemGCPauseTime.Observe(pauseMs)
	}
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return customRegistry
}
