package user

import "context"

// Store persists users.
type Store interface {
	List() []User
	Find(id string) (User, bool)
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	Remove(ctx context.Context, id string) error
}
