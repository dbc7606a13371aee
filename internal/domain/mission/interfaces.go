package mission

import (
	"context"

	"github.com/rpggio/cabinet/internal/domain/activity"
	"github.com/rpggio/cabinet/internal/domain/user"
)

// Store persists missions.
type Store interface {
	List() []Mission
	Find(id string) (Mission, bool)
	Create(ctx context.Context, m Mission) error
	Update(ctx context.Context, m Mission) error
	Remove(ctx context.Context, id string) error
}

// UserDirectory resolves actors for role checks.
type UserDirectory interface {
	Find(id string) (user.User, bool)
}

// ActivityRecorder receives lifecycle events.
type ActivityRecorder interface {
	Record(ctx context.Context, typ activity.ActivityType, actorID, subjectID, summary string)
}
