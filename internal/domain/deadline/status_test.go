package deadline_test

import (
	"testing"
	"time"

	"github.com/rpggio/cabinet/internal/domain/deadline"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC)

func TestEffectiveStatus(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	require.Equal(t, deadline.StatusOverdue, deadline.EffectiveStatus(deadline.StatusPending, yesterday, now))
	require.Equal(t, deadline.StatusOverdue, deadline.EffectiveStatus(deadline.StatusInProgress, yesterday, now))
	require.Equal(t, deadline.StatusCompleted, deadline.EffectiveStatus(deadline.StatusCompleted, yesterday, now))
	require.Equal(t, deadline.StatusPending, deadline.EffectiveStatus(deadline.StatusPending, tomorrow, now))
	require.Equal(t, deadline.StatusInProgress, deadline.EffectiveStatus(deadline.StatusInProgress, tomorrow, now))
}

func TestDaysUntilDue(t *testing.T) {
	require.Equal(t, -1, deadline.DaysUntilDue(now.AddDate(0, 0, -1), now))
	require.Equal(t, 0, deadline.DaysUntilDue(time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC), now))
	require.Equal(t, 0, deadline.DaysUntilDue(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), now))
	require.Equal(t, 1, deadline.DaysUntilDue(time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC), now))
	require.Equal(t, 21, deadline.DaysUntilDue(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), now))
}

func TestDaysUntilDueUsesNowLocation(t *testing.T) {
	casablanca := time.FixedZone("UTC+1", 3600)
	localNow := time.Date(2024, 6, 10, 23, 30, 0, 0, casablanca)
	due := time.Date(2024, 6, 10, 23, 0, 0, 0, time.UTC) // 00:00 on the 11th locally
	require.Equal(t, 1, deadline.DaysUntilDue(due, localNow))
}

func TestUrgency(t *testing.T) {
	require.Equal(t, deadline.LevelCritical, deadline.Urgency(-1))
	require.Equal(t, deadline.LevelCritical, deadline.Urgency(3))
	require.Equal(t, deadline.LevelWarning, deadline.Urgency(4))
	require.Equal(t, deadline.LevelWarning, deadline.Urgency(7))
	require.Equal(t, deadline.LevelNormal, deadline.Urgency(8))
}

func TestAnnotate_YesterdayPending(t *testing.T) {
	e := deadline.Annotate(deadline.Deadline{Status: deadline.StatusPending, DueDate: now.AddDate(0, 0, -1)}, now)
	require.Equal(t, deadline.StatusOverdue, e.EffectiveStatus)
	require.Equal(t, -1, e.DaysUntilDue)
	require.Equal(t, deadline.LevelCritical, e.Urgency)
}

func TestAnnotate_CompletedPastDueIsNotHighlighted(t *testing.T) {
	e := deadline.Annotate(deadline.Deadline{Status: deadline.StatusCompleted, DueDate: now.AddDate(0, 0, -2)}, now)
	require.Equal(t, deadline.StatusCompleted, e.EffectiveStatus)
	require.Equal(t, -2, e.DaysUntilDue)
	require.Equal(t, deadline.LevelNormal, e.Urgency)
}
