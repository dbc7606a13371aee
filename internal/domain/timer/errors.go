package timer

import "errors"

var (
	// ErrConflict indicates a start while a session is already active.
	ErrConflict = errors.New("a timer session is already active")
	// ErrInvalidTransition indicates pause or resume from the wrong state.
	ErrInvalidTransition = errors.New("invalid timer transition")
	// ErrNoActiveSession indicates stop or discard while idle.
	ErrNoActiveSession = errors.New("no active timer session")
	// ErrInvalidInput indicates a start without the required context.
	ErrInvalidInput = errors.New("invalid timer context")
)
