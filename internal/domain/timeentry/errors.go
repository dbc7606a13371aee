package timeentry

import "errors"

var (
	// ErrEntryNotFound indicates the time entry doesn't exist.
	ErrEntryNotFound = errors.New("time entry not found")
	// ErrInvalidTransition indicates a review status change that isn't allowed.
	ErrInvalidTransition = errors.New("invalid review transition")
	// ErrImmutable indicates an attempt to change a finalized entry.
	ErrImmutable = errors.New("time entry is immutable")
	// ErrInvalidInput indicates an entry that can't be saved.
	ErrInvalidInput = errors.New("invalid time entry")
	// ErrForbidden indicates the reviewer's role doesn't allow reviews.
	ErrForbidden = errors.New("review not allowed for this user")
)
