package deadline

import "errors"

var (
	// ErrDeadlineNotFound indicates the deadline doesn't exist.
	ErrDeadlineNotFound = errors.New("deadline not found")
	// ErrInvalidInput indicates invalid deadline input.
	ErrInvalidInput = errors.New("invalid deadline input")
)
