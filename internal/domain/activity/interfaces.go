package activity

import "context"

// Store provides persistence operations for activity entries.
type Store interface {
	List() []ActivityEntry
	Create(ctx context.Context, entry ActivityEntry) error
}
