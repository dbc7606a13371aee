package mission_test

import (
	"testing"
	"time"

	"github.com/rpggio/cabinet/internal/domain/mission"
	"github.com/stretchr/testify/require"
)

var (
	actor = mission.Actor{ID: "u1", Name: "Ahmed Bennani"}
	now   = time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
)

func TestComplete(t *testing.T) {
	m := mission.Mission{ID: "m1", Status: mission.StatusReview, Progression: 60}

	done, err := mission.Complete(m, actor, now)
	require.NoError(t, err)
	require.Equal(t, mission.StatusCompleted, done.Status)
	require.Equal(t, 100, done.Progression)
	require.NotNil(t, done.DateFin)
	require.True(t, done.DateFin.Equal(now))
	require.Len(t, done.History, 1)
	require.Equal(t, mission.ActionCompleted, done.History[0].Action)
	require.Equal(t, "u1", done.History[0].UserID)

	_, err = mission.Complete(done, actor, now)
	require.ErrorIs(t, err, mission.ErrAlreadyTerminal)
}

func TestReopen(t *testing.T) {
	done, err := mission.Complete(mission.Mission{ID: "m1", Status: mission.StatusInProgress}, actor, now)
	require.NoError(t, err)

	_, err = mission.Reopen(done, actor, "   ", now)
	require.ErrorIs(t, err, mission.ErrMissingReason)

	reopened, err := mission.Reopen(done, actor, "Pièces manquantes", now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, mission.StatusInProgress, reopened.Status)
	require.Nil(t, reopened.DateFin)
	require.Len(t, reopened.History, 2)
	last := reopened.History[1]
	require.Equal(t, mission.ActionReopened, last.Action)
	require.Contains(t, last.Details, "Motif: Pièces manquantes")

	_, err = mission.Reopen(reopened, actor, "again", now)
	require.ErrorIs(t, err, mission.ErrNotCompleted)
}

func TestCompleteTask(t *testing.T) {
	m := mission.Mission{ID: "m1", Status: mission.StatusInProgress, Tasks: []mission.Task{
		{ID: "t1", Status: mission.TaskDone},
		{ID: "t2", Status: mission.TaskTodo},
	}}

	updated, allDone, err := mission.CompleteTask(m, "t2", actor, now)
	require.NoError(t, err)
	require.True(t, allDone)
	require.Equal(t, mission.TaskDone, updated.Tasks[1].Status)
	require.NotNil(t, updated.Tasks[1].DateFin)
	require.Len(t, updated.Tasks[1].History, 1)
	require.Equal(t, mission.ActionTaskCompleted, updated.Tasks[1].History[0].Action)
	require.Equal(t, mission.StatusInProgress, updated.Status)
	require.Equal(t, mission.TaskTodo, m.Tasks[1].Status)

	_, _, err = mission.CompleteTask(m, "missing", actor, now)
	require.ErrorIs(t, err, mission.ErrTaskNotFound)
}
