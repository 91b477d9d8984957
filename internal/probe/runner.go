// Package probe drives a running salary predictor with generated requests
// and checks every answer.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/okian/salarypredict/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

type healthResponse struct {
	Status        string `json:"status"`
	ReferenceRows int    `json:"referenceRows"`
	Model         struct {
		Kind         string `json:"kind"`
		Version      string `json:"version"`
		EncodingMode string `json:"encodingMode"`
	} `json:"model"`
}

type jobTitlesResponse struct {
	JobTitles []string `json:"jobTitles"`
}

// Run executes the complete probe and returns ErrVerification when any
// answer was wrong.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting salary predictor probe",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.NumRequests),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Any("seed", config.Seed),
	)
	client := NewHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config, client); err != nil {
		return stats, err
	}

	// Step 2: Fetch the vocabulary valid requests are drawn from
	var titles jobTitlesResponse
	if status, err := client.GetJSON(ctx, config.BaseURL+"/job-titles", &titles); err != nil || status != http.StatusOK {
		return stats, fmt.Errorf("%w: job titles: status %d: %v", ErrUnhealthy, status, err)
	}

	// Step 3: Generate requests
	gen, err := NewGenerator(titles.JobTitles, config.Seed)
	if err != nil {
		return stats, err
	}
	cases, err := gen.Generate(ctx, config.NumRequests, config.InvalidRatio)
	if err != nil {
		return stats, fmt.Errorf("request generation failed: %w", err)
	}
	stats.Generated = len(cases)

	// Step 4: Submit and verify
	results := submit(ctx, config, client, cases)
	verifyResults(ctx, config, results, stats)

	// Step 5: Same request, same answer
	replay(ctx, config, client, results, config.Replay, stats)

	// Step 6: Save results to file
	if err := saveResultsToFile(ctx, config, results); err != nil {
		log.Warn(ctx, "failed to save results to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.Failed > 0 || stats.Mismatched > 0 {
		return stats, fmt.Errorf("%w: %d failed checks, %d replay mismatches",
			ErrVerification, stats.Failed, stats.Mismatched)
	}
	log.Info(ctx, "probe completed successfully")
	return stats, nil
}

func validateConfig(config *Config) error {
	switch {
	case config == nil:
		return fmt.Errorf("%w: nil config", ErrConfig)
	case config.BaseURL == "":
		return fmt.Errorf("%w: base URL must not be empty", ErrConfig)
	case config.NumRequests <= 0:
		return fmt.Errorf("%w: requests must be positive", ErrConfig)
	case config.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrConfig)
	case config.InvalidRatio < 0 || config.InvalidRatio > 1:
		return fmt.Errorf("%w: invalid ratio must be within [0,1]", ErrConfig)
	case config.Replay < 0:
		return fmt.Errorf("%w: replay must not be negative", ErrConfig)
	}
	return nil
}

// checkServiceHealth verifies the service is running and has a model loaded.
func checkServiceHealth(ctx context.Context, config *Config, client *HTTPClient) error {
	log := logger.Get()
	log.Info(ctx, "checking service health")

	var health healthResponse
	status, err := client.GetJSON(ctx, config.BaseURL+"/healthz", &health)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != http.StatusOK || health.Status != "ok" {
		return fmt.Errorf("%w: status %d (%q)", ErrUnhealthy, status, health.Status)
	}

	log.Info(ctx, "service is healthy",
		logger.String("model", health.Model.Kind),
		logger.String("version", health.Model.Version),
		logger.String("encodingMode", health.Model.EncodingMode),
		logger.Int("referenceRows", health.ReferenceRows),
	)
	return nil
}

// saveResultsToFile writes every result as a JSON array.
func saveResultsToFile(ctx context.Context, config *Config, results []Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "probe_results_" + timestamp + ".json"
	}

	// Ensure the directory exists
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	logger.Get().Info(ctx, "results saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var passRate, requestsPerSecond, avgSalary float64

	if stats.Submitted > 0 {
		passRate = float64(stats.Passed) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Submitted+stats.Replayed) / stats.Duration.Seconds()
	}
	if stats.SalaryCount > 0 {
		avgSalary = stats.SalarySum / float64(stats.SalaryCount)
	}

	logger.Get().Info(ctx, "final statistics",
		logger.String("generated", humanize.Comma(int64(stats.Generated))),
		logger.String("submitted", humanize.Comma(int64(stats.Submitted))),
		logger.Int("passed", stats.Passed),
		logger.Int("failed", stats.Failed),
		logger.Int("transportErrors", stats.Transport),
		logger.Int("replayed", stats.Replayed),
		logger.Int("replayMismatches", stats.Mismatched),
		logger.String("averageSalary", "$"+humanize.CommafWithDigits(avgSalary, 2)),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("passRate", passRate),
		logger.Float64("requestsPerSecond", requestsPerSecond),
	)
}
