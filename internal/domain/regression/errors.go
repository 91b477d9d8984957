package regression

import "errors"

// Sentinel kinds for model loading and inference.
var (
	ErrOpen            = errors.New("open model artifact")
	ErrInvalidModel    = errors.New("invalid model artifact")
	ErrFeatureMismatch = errors.New("feature vector does not match model")
	ErrNonFinite       = errors.New("model produced a non-finite value")
)
