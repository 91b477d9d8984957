// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional .env file, an optional YAML file and
//   SALARY_* environment variables.
// - External errors are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
)

// Encoding modes accepted by EncodingMode.
const (
	EncodingFrozen = "frozen"
	EncodingRefit  = "refit"
)

const defaultMaxBodyBytes = 1 << 20

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// ReferencePath points at the reference dataset CSV.
	ReferencePath string `koanf:"reference_path"`

	// ModelPath points at the exported model artifact (JSON).
	ModelPath string `koanf:"model_path"`

	// EncodingMode is "frozen" (training-time mapping from the artifact) or
	// "refit" (encoders fit on reference data plus the request).
	EncodingMode string `koanf:"encoding_mode"`

	// LegacyStatus answers validation and prediction failures with HTTP 200,
	// as the first deployment of this API did.
	LegacyStatus bool `koanf:"legacy_status"`

	// MaxBodyBytes caps the size of a /predict request body.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// MetricsNamespace prefixes every exported metric.
	MetricsNamespace string `koanf:"metrics_namespace"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":8000",
		ReferencePath:    "data/Clean_Salary_Data.csv",
		ModelPath:        "models/random_forest.json",
		EncodingMode:     EncodingFrozen,
		LegacyStatus:     false,
		MaxBodyBytes:     defaultMaxBodyBytes,
		MetricsNamespace: "salary",
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.ReferencePath) == "":
		return fmt.Errorf("%w: reference_path must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.ModelPath) == "":
		return fmt.Errorf("%w: model_path must not be empty", ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}

	switch c.EncodingMode {
	case EncodingFrozen, EncodingRefit:
	default:
		return fmt.Errorf("%w: encoding_mode must be %q or %q, got %q",
			ErrInvalidConfig, EncodingFrozen, EncodingRefit, c.EncodingMode)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
