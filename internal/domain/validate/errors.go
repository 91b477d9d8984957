package validate

import "errors"

// ErrInvalidInput matches every *Error with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// Error describes the first field that failed validation. Message is
// user-facing and returned verbatim by the API.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is reports whether target is ErrInvalidInput.
func (e *Error) Is(target error) bool { return target == ErrInvalidInput }

func fail(field, msg string) error { return &Error{Field: field, Message: msg} }
