package client

import (
	"context"

	"github.com/rpggio/cabinet/internal/domain/activity"
)

// Store persists clients.
type Store interface {
	List() []Client
	Find(id string) (Client, bool)
	Create(ctx context.Context, c Client) error
	Update(ctx context.Context, c Client) error
	Remove(ctx context.Context, id string) error
}

// Dependent is a collection whose records may reference a client.
type Dependent interface {
	CountForClient(clientID string) int
}

// ActivityRecorder receives delete events.
type ActivityRecorder interface {
	Record(ctx context.Context, typ activity.ActivityType, actorID, subjectID, summary string)
}
