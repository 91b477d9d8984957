package service

import "errors"

// Sentinel kinds for service failures.
var (
	// ErrNotStarted is returned by request methods before Start succeeds.
	ErrNotStarted = errors.New("service not started")

	// ErrStart wraps failures while loading the reference data or model.
	ErrStart = errors.New("start service")

	// ErrPrediction wraps encoding and inference failures. These are
	// server-side faults, never caused by a validated request.
	ErrPrediction = errors.New("prediction failed")
)
