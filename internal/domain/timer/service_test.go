package timer_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/cabinet/internal/domain/mission"
	"github.com/rpggio/cabinet/internal/domain/timeentry"
	"github.com/rpggio/cabinet/internal/domain/timer"
	"github.com/rpggio/cabinet/internal/domain/user"
	"github.com/rpggio/cabinet/internal/repository/mocks"
	"github.com/rpggio/cabinet/internal/store"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTimerService_StopPersistsAndRecords(t *testing.T) {
	ctx := context.Background()
	clock := newClock()

	entryStore := store.New[timeentry.TimeEntry](store.NewMemoryByteStore(), store.Options[timeentry.TimeEntry]{Key: "time_entries"})
	require.NoError(t, entryStore.Load(ctx))
	missionStore := store.New[mission.Mission](store.NewMemoryByteStore(), store.Options[mission.Mission]{Key: "missions"})
	require.NoError(t, missionStore.Load(ctx))

	users := &mocks.EntityStore[user.User]{}
	entries := timeentry.NewService(entryStore, users, nil, nil)
	missions := mission.NewService(missionStore, users, nil, nil)

	m, err := missions.Create(ctx, mission.CreateRequest{ClientID: "c1", Title: "Bilan", BudgetHours: 10})
	require.NoError(t, err)

	svc := timer.NewService(timer.NewEngine(timer.WithClock(clock.Now)), entries, missions, nil, nil)
	work := timer.Context{UserID: "u1", ClientID: "c1", MissionID: m.ID}

	_, err = svc.Start(ctx, work)
	require.NoError(t, err)
	clock.Advance(45 * time.Minute)

	snap, seconds := svc.Status(ctx)
	require.Equal(t, timer.StateRunning, snap.State)
	require.Equal(t, int64(45*60), seconds)

	result, err := svc.Stop(ctx)
	require.NoError(t, err)
	require.Empty(t, result.Warnings)
	require.NotEmpty(t, result.Entry.ID)
	require.Equal(t, 45, result.Entry.Duration)
	require.NotNil(t, result.Mission)
	require.InDelta(t, 0.75, result.Mission.ConsumedHours, 1e-9)

	list := entries.List(ctx, timeentry.ListOptions{MissionID: m.ID})
	require.Len(t, list, 1)
}

func TestTimerService_StopWithUnknownMissionWarns(t *testing.T) {
	ctx := context.Background()
	saver := &entrySaverMock{}
	recorder := &timeRecorderMock{}
	saver.On("Save", ctx, mock.AnythingOfType("timeentry.TimeEntry")).Return(&timeentry.TimeEntry{ID: "e1", MissionID: "gone", Duration: 0}, nil)
	recorder.On("RecordTime", ctx, mock.AnythingOfType("timeentry.TimeEntry")).Return(nil, mission.ErrMissionNotFound)

	svc := timer.NewService(timer.NewEngine(), saver, recorder, nil, nil)
	_, err := svc.Start(ctx, timer.Context{UserID: "u1", MissionID: "gone"})
	require.NoError(t, err)

	result, err := svc.Stop(ctx)
	require.NoError(t, err)
	require.Equal(t, "e1", result.Entry.ID)
	require.Len(t, result.Warnings, 1)
	saver.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestTimerService_StopPersistenceFailureIsWarning(t *testing.T) {
	ctx := context.Background()
	saver := &entrySaverMock{}
	recorder := &timeRecorderMock{}
	saved := &timeentry.TimeEntry{ID: "e1", MissionID: "m1"}
	saver.On("Save", ctx, mock.AnythingOfType("timeentry.TimeEntry")).Return(saved, &store.PersistError{Key: "time_entries", Err: context.DeadlineExceeded})
	recorder.On("RecordTime", ctx, *saved).Return(&mission.Mission{ID: "m1"}, nil)

	svc := timer.NewService(timer.NewEngine(), saver, recorder, nil, nil)
	_, err := svc.Start(ctx, timer.Context{UserID: "u1", MissionID: "m1"})
	require.NoError(t, err)

	result, err := svc.Stop(ctx)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	require.Equal(t, "m1", result.Mission.ID)
}

func TestTimerService_StopIdle(t *testing.T) {
	svc := timer.NewService(timer.NewEngine(), &entrySaverMock{}, &timeRecorderMock{}, nil, nil)
	_, err := svc.Stop(context.Background())
	require.ErrorIs(t, err, timer.ErrNoActiveSession)
}

type entrySaverMock struct {
	mock.Mock
}

func (m *entrySaverMock) Save(ctx context.Context, e timeentry.TimeEntry) (*timeentry.TimeEntry, error) {
	args := m.Called(ctx, e)
	if saved, ok := args.Get(0).(*timeentry.TimeEntry); ok {
		return saved, args.Error(1)
	}
	return nil, args.Error(1)
}

type timeRecorderMock struct {
	mock.Mock
}

func (m *timeRecorderMock) RecordTime(ctx context.Context, e timeentry.TimeEntry) (*mission.Mission, error) {
	args := m.Called(ctx, e)
	if got, ok := args.Get(0).(*mission.Mission); ok {
		return got, args.Error(1)
	}
	return nil, args.Error(1)
}
