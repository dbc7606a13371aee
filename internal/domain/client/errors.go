package client

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrClientNotFound indicates the client doesn't exist.
	ErrClientNotFound = errors.New("client not found")
	// ErrClientInUse indicates other records still reference the client.
	ErrClientInUse = errors.New("client is still referenced")
	// ErrInvalidInput indicates invalid client input.
	ErrInvalidInput = errors.New("invalid client input")
)

// InUseError lists the collections still referencing a client.
type InUseError struct {
	ClientID   string
	References map[string]int
}

func (e *InUseError) Error() string {
	parts := make([]string, 0, len(e.References))
	for name, n := range e.References {
		parts = append(parts, fmt.Sprintf("%s=%d", name, n))
	}
	sort.Strings(parts)
	return fmt.Sprintf("%v: %s (%s)", ErrClientInUse, e.ClientID, strings.Join(parts, ", "))
}

func (e *InUseError) Unwrap() error {
	return ErrClientInUse
}
