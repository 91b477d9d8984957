package dataset

import "errors"

// Sentinel kinds for dataset loading.
var (
	ErrOpen          = errors.New("open reference dataset")
	ErrMissingColumn = errors.New("reference dataset missing column")
	ErrMalformedRow  = errors.New("malformed reference row")
	ErrEmpty         = errors.New("reference dataset has no rows")
)
