package billing

import (
	"context"

	"github.com/rpggio/cabinet/internal/domain/activity"
	"github.com/rpggio/cabinet/internal/domain/client"
)

// Store persists one document kind.
type Store[T any] interface {
	List() []T
	Find(id string) (T, bool)
	Create(ctx context.Context, v T) error
	Update(ctx context.Context, v T) error
	Remove(ctx context.Context, id string) error
}

// ClientLookup resolves the billed client.
type ClientLookup interface {
	Find(id string) (client.Client, bool)
}

// ActivityRecorder receives save events.
type ActivityRecorder interface {
	Record(ctx context.Context, typ activity.ActivityType, actorID, subjectID, summary string)
}
