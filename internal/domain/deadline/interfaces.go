package deadline

import "context"

// Store persists deadlines.
type Store interface {
	List() []Deadline
	Find(id string) (Deadline, bool)
	Create(ctx context.Context, d Deadline) error
	Update(ctx context.Context, d Deadline) error
	Remove(ctx context.Context, id string) error
}
