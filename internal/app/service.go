// Package service wires the reference dataset, validator, encoder and model
// into the operations the HTTP API serves.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/okian/salarypredict/internal/config"
	"github.com/okian/salarypredict/internal/domain/dataset"
	"github.com/okian/salarypredict/internal/domain/encoding"
	"github.com/okian/salarypredict/internal/domain/model"
	"github.com/okian/salarypredict/internal/domain/regression"
	"github.com/okian/salarypredict/internal/domain/validate"
	"github.com/okian/salarypredict/pkg/logger"
	"github.com/okian/salarypredict/pkg/metrics"
)

// ModelInfo identifies the loaded model.
type ModelInfo struct {
	Kind         string `json:"kind"`
	Version      string `json:"version"`
	Features     int    `json:"features"`
	Trees        int    `json:"trees"`
	EncodingMode string `json:"encodingMode"`
}

// Service answers prediction requests. After Start it holds only immutable
// state, so request methods never contend with each other.
type Service struct {
	mu sync.RWMutex

	// Configuration
	referencePath string
	modelPath     string
	encodingMode  string

	// Loaded state
	data      *dataset.Dataset
	validator *validate.Validator
	encoder   encoding.Encoder
	model     *regression.Model
	startedAt time.Time

	// State
	started bool

	// Counters
	served  atomic.Int64
	invalid atomic.Int64
	failed  atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithReferencePath sets the reference CSV location.
func WithReferencePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.referencePath = path
		}
	}
}

// WithModelPath sets the model artifact location.
func WithModelPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.modelPath = path
		}
	}
}

// WithEncodingMode selects config.EncodingFrozen or config.EncodingRefit.
func WithEncodingMode(mode string) Option {
	return func(s *Service) {
		if mode != "" {
			s.encodingMode = mode
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with the default configuration.
func New(opts ...Option) *Service {
	defaults := config.New()
	s := &Service{
		referencePath: defaults.ReferencePath,
		modelPath:     defaults.ModelPath,
		encodingMode:  defaults.EncodingMode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the reference dataset and the model and chooses the encoder.
// Calling Start on a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting salary predictor...",
		logger.String("reference", s.referencePath),
		logger.String("model", s.modelPath),
		logger.String("encodingMode", s.encodingMode),
	)

	data, err := dataset.Load(ctx, s.referencePath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStart, err)
	}
	m, err := regression.Load(ctx, s.modelPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStart, err)
	}
	enc, err := s.chooseEncoder(ctx, data, m)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStart, err)
	}

	// One known-good row must make it through; a mismatch between data,
	// encoding and model should stop the process, not every request.
	vec, err := enc.Encode(ctx, data.Row(0))
	if err == nil {
		_, err = m.Predict(ctx, vec)
	}
	if err != nil {
		return fmt.Errorf("%w: self-check: %w", ErrStart, err)
	}

	s.data = data
	s.validator = validate.New(data.JobTitles())
	s.encoder = enc
	s.model = m
	s.startedAt = time.Now()
	s.started = true

	metrics.UpdateReferenceRows(data.Len())
	metrics.UpdateJobTitleCount(s.validator.JobTitleCount())
	metrics.UpdateModelInfo(m.Kind(), m.Version(), enc.Mode(), len(m.FeatureNames()), m.TreeCount())

	s.logger.Info(ctx, "salary predictor started",
		logger.Int("referenceRows", data.Len()),
		logger.Int("jobTitles", s.validator.JobTitleCount()),
		logger.String("modelKind", m.Kind()),
		logger.String("modelVersion", m.Version()),
		logger.String("encodingMode", enc.Mode()),
	)
	return nil
}

func (s *Service) chooseEncoder(ctx context.Context, data *dataset.Dataset, m *regression.Model) (encoding.Encoder, error) {
	switch s.encodingMode {
	case config.EncodingRefit:
		return encoding.NewRefitEncoder(data.Rows()), nil
	case config.EncodingFrozen:
		spec := m.Encoding()
		if spec == nil {
			s.logger.Warn(ctx, "model artifact has no encoding, falling back to refit",
				logger.String("model", s.modelPath),
			)
			return encoding.NewRefitEncoder(data.Rows()), nil
		}
		enc, err := encoding.NewFrozenEncoder(spec)
		if err != nil {
			return nil, err
		}
		s.warnUnencodable(ctx, data, enc)
		return enc, nil
	default:
		return nil, fmt.Errorf("unknown encoding mode %q", s.encodingMode)
	}
}

// warnUnencodable logs reference job titles the frozen mapping cannot
// encode. The validator accepts them, so requests using them will fail.
func (s *Service) warnUnencodable(ctx context.Context, data *dataset.Dataset, enc encoding.Encoder) {
	probe := data.Row(0)
	var unknown []string
	for _, title := range data.JobTitles() {
		probe.JobTitle = title
		if _, err := enc.Encode(ctx, probe); errors.Is(err, encoding.ErrUnknownCategory) {
			unknown = append(unknown, title)
		}
	}
	if len(unknown) > 0 {
		s.logger.Warn(ctx, "reference job titles missing from the model encoding",
			logger.Int("count", len(unknown)),
			logger.Any("jobTitles", unknown),
		)
	}
}

// Stop releases the loaded state.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping salary predictor...")
	s.data = nil
	s.validator = nil
	s.encoder = nil
	s.model = nil
	s.started = false
	s.logger.Info(context.Background(), "salary predictor stopped")
}

// snapshot is the immutable state one request works with.
type snapshot struct {
	data      *dataset.Dataset
	validator *validate.Validator
	encoder   encoding.Encoder
	model     *regression.Model
}

func (s *Service) snapshot() (snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return snapshot{}, ErrNotStarted
	}
	return snapshot{data: s.data, validator: s.validator, encoder: s.encoder, model: s.model}, nil
}

// Predict validates in, encodes it and evaluates the model.
//
// Validation failures are returned as *validate.Error (matching
// validate.ErrInvalidInput). Encoding and inference failures wrap
// ErrPrediction.
func (s *Service) Predict(ctx context.Context, in validate.Input) (model.Prediction, error) {
	start := time.Now()

	st, err := s.snapshot()
	if err != nil {
		return model.Prediction{}, err
	}

	rec, err := st.validator.Validate(in)
	if err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			metrics.RecordValidationError(verr.Field)
		}
		metrics.RecordPrediction(metrics.OutcomeInvalid)
		s.invalid.Add(1)
		s.logger.Debug(ctx, "prediction request rejected", logger.Error(err))
		return model.Prediction{}, err
	}

	vec, err := st.encoder.Encode(ctx, rec)
	if err != nil {
		metrics.RecordEncodingError(st.encoder.Mode())
		return model.Prediction{}, s.fail(ctx, rec, fmt.Errorf("%w: encode: %w", ErrPrediction, err))
	}

	salary, err := st.model.Predict(ctx, vec)
	if err != nil {
		return model.Prediction{}, s.fail(ctx, rec, fmt.Errorf("%w: infer: %w", ErrPrediction, err))
	}

	elapsed := time.Since(start)
	metrics.RecordPrediction(metrics.OutcomeSuccess)
	metrics.RecordPredictionLatency(float64(elapsed.Microseconds()) / 1000)
	metrics.RecordPredictedSalary(salary)
	s.served.Add(1)

	s.logger.Debug(ctx, "salary predicted",
		logger.String("jobTitle", rec.JobTitle),
		logger.String("educationLevel", rec.EducationLevel),
		logger.String("salary", humanize.Commaf(salary)),
		logger.Duration("elapsed", elapsed),
	)
	return model.NewPrediction(rec, salary), nil
}

func (s *Service) fail(ctx context.Context, rec model.Record, err error) error {
	metrics.RecordPrediction(metrics.OutcomeError)
	s.failed.Add(1)
	s.logger.Error(ctx, "prediction failed",
		logger.String("jobTitle", rec.JobTitle),
		logger.String("gender", rec.Gender),
		logger.String("educationLevel", rec.EducationLevel),
		logger.Error(err),
	)
	return err
}

// JobTitles returns the accepted job titles in reference order.
func (s *Service) JobTitles(_ context.Context) ([]string, error) {
	st, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return st.data.JobTitles(), nil
}

// ModelInfo describes the loaded model.
func (s *Service) ModelInfo() (ModelInfo, error) {
	st, err := s.snapshot()
	if err != nil {
		return ModelInfo{}, err
	}
	return ModelInfo{
		Kind:         st.model.Kind(),
		Version:      st.model.Version(),
		Features:     len(st.model.FeatureNames()),
		Trees:        st.model.TreeCount(),
		EncodingMode: st.encoder.Mode(),
	}, nil
}

// ReferenceRows returns the number of loaded reference rows, zero before
// Start.
func (s *Service) ReferenceRows() int {
	st, err := s.snapshot()
	if err != nil {
		return 0
	}
	return st.data.Len()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"encodingMode":  s.encodingMode,
		"predictions":   s.served.Load(),
		"invalid":       s.invalid.Load(),
		"failures":      s.failed.Load(),
		"referencePath": s.referencePath,
		"modelPath":     s.modelPath,
	}

	if s.started {
		stats["referenceRows"] = s.data.Len()
		stats["jobTitles"] = s.validator.JobTitleCount()
		stats["encodingMode"] = s.encoder.Mode()
		stats["model"] = ModelInfo{
			Kind:         s.model.Kind(),
			Version:      s.model.Version(),
			Features:     len(s.model.FeatureNames()),
			Trees:        s.model.TreeCount(),
			EncodingMode: s.encoder.Mode(),
		}
		stats["uptime"] = time.Since(s.startedAt).Round(time.Second).String()
	}

	return stats
}
