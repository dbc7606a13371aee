package store

import (
	"errors"
	"fmt"
)

// ErrPersistence marks a mutation that was applied in memory but could not be
// written to the byte store. Callers treat it as a warning.
var ErrPersistence = errors.New("persistence failed")

// RehydrationError reports stored data that could not be decoded. It is
// recovered inside Load and only logged.
type RehydrationError struct {
	Key string
	Err error
}

func (e *RehydrationError) Error() string {
	return fmt.Sprintf("rehydrate %s: %v", e.Key, e.Err)
}

func (e *RehydrationError) Unwrap() error {
	return e.Err
}

// PersistError carries the failed write. errors.Is matches both
// ErrPersistence and the underlying cause.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%v: write %s: %v", ErrPersistence, e.Key, e.Err)
}

func (e *PersistError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
