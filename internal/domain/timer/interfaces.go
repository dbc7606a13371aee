package timer

import (
	"context"

	"github.com/rpggio/cabinet/internal/domain/activity"
	"github.com/rpggio/cabinet/internal/domain/mission"
	"github.com/rpggio/cabinet/internal/domain/timeentry"
)

// EntrySaver persists finalized drafts.
type EntrySaver interface {
	Save(ctx context.Context, e timeentry.TimeEntry) (*timeentry.TimeEntry, error)
}

// TimeRecorder adds finalized minutes to a mission.
type TimeRecorder interface {
	RecordTime(ctx context.Context, e timeentry.TimeEntry) (*mission.Mission, error)
}

// ActivityRecorder receives timer events.
type ActivityRecorder interface {
	Record(ctx context.Context, typ activity.ActivityType, actorID, subjectID, summary string)
}
