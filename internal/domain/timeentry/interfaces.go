package timeentry

import (
	"context"

	"github.com/rpggio/cabinet/internal/domain/activity"
	"github.com/rpggio/cabinet/internal/domain/user"
)

// Store persists time entries.
type Store interface {
	List() []TimeEntry
	Find(id string) (TimeEntry, bool)
	Create(ctx context.Context, e TimeEntry) error
	Update(ctx context.Context, e TimeEntry) error
	Remove(ctx context.Context, id string) error
}

// UserDirectory resolves reviewers.
type UserDirectory interface {
	Find(id string) (user.User, bool)
}

// ActivityRecorder receives review events.
type ActivityRecorder interface {
	Record(ctx context.Context, typ activity.ActivityType, actorID, subjectID, summary string)
}
