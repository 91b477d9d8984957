package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/salarypredict/internal/probe"
)

// Default configuration constants.
const (
	defaultRequests     = 1000
	defaultInvalidRatio = 0.3
	defaultReplay       = 50
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 10 * time.Second
	defaultProbeTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8000", "Base URL of the service")
		requests   = flag.Int("requests", defaultRequests, "Number of requests to generate and submit")
		invalid    = flag.Float64("invalid", defaultInvalidRatio, "Share of requests built to be rejected")
		replayN    = flag.Int("replay", defaultReplay, "Number of accepted requests to replay")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed       = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Generator seed")
		outputFile = flag.String("output", "", "Output file for results (default: probe_results_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for probe output (default: probe_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Log every failed check")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	// Setup logging
	closer, err := probe.SetupLogging(*logFile, *verbose)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closer.Close()

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultProbeTimeout)
	defer cancel()

	config := &probe.Config{
		BaseURL:      *baseURL,
		NumRequests:  *requests,
		InvalidRatio: *invalid,
		Replay:       *replayN,
		Workers:      *workers,
		Timeout:      *timeout,
		Seed:         *seed,
		OutputFile:   *outputFile,
		Verbose:      *verbose,
	}

	if _, err := probe.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		closer.Close()
		cancel()
		os.Exit(1)
	}
}
