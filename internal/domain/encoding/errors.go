package encoding

import "errors"

// Sentinel kinds for encoding failures.
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidSpec     = errors.New("invalid encoding spec")
)
