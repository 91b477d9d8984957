package probe

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/salarypredict/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging sends log output to both stdout and a file. If logFile is
// empty, a timestamped filename is generated. The returned closer flushes the
// file.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "probe_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithOutput(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file, nil
}

// ShowHelp prints usage information for the probe.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Salary Predictor Probe
======================

Sends generated requests to a running salary predictor and checks every
answer: accepted requests must return a finite, non-negative salary with the
gender normalised; rejected requests must return the exact validation message.
A sample of accepted requests is replayed to check that answers are stable.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -requests int
        Number of requests to generate and submit (default 1000)
  -invalid float
        Share of requests built to be rejected (default 0.3)
  -replay int
        Number of accepted requests to replay (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -seed uint
        Generator seed (default: current time)
  -output string
        Output file for results (default: probe_results_TIMESTAMP.json)
  -log string
        Log file for probe output (default: probe_log_TIMESTAMP.log)
  -verbose
        Log every failed check
  -help
        Show this help message

Examples:
  # Probe a local server
  go run ./cmd/probe

  # Reproduce a previous run
  go run ./cmd/probe -seed 42 -requests 5000 -workers 16
`)
}
