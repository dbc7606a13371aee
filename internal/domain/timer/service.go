package timer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/cabinet/internal/domain/activity"
	"github.com/rpggio/cabinet/internal/domain/mission"
	"github.com/rpggio/cabinet/internal/domain/timeentry"
	"github.com/rpggio/cabinet/internal/store"
)

// Service drives the engine and persists what it produces.
type Service struct {
	engine   *Engine
	entries  EntrySaver
	missions TimeRecorder
	activity ActivityRecorder
	logger   *slog.Logger
}

// NewService creates a new timer service.
func NewService(engine *Engine, entries EntrySaver, missions TimeRecorder, recorder ActivityRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{engine: engine, entries: entries, missions: missions, activity: recorder, logger: logger}
}

// StopResult is the outcome of Stop. Warnings carry non-fatal persistence
// failures.
type StopResult struct {
	Entry    timeentry.TimeEntry `json:"entry"`
	Mission  *mission.Mission    `json:"mission,omitempty"`
	Warnings []string            `json:"warnings,omitempty"`
}

// Start begins tracking for c.
func (s *Service) Start(ctx context.Context, c Context) (Session, error) {
	session, err := s.engine.Start(c)
	if err != nil {
		return session, err
	}
	s.record(ctx, activity.TypeTimerStarted, c.UserID, c.MissionID, c.Description)
	return session, nil
}

// Pause pauses the active session.
func (s *Service) Pause(_ context.Context) (Session, error) {
	return s.engine.Pause()
}

// Resume resumes a paused session.
func (s *Service) Resume(_ context.Context) (Session, error) {
	return s.engine.Resume()
}

// Status returns the current session and its elapsed running time.
func (s *Service) Status(_ context.Context) (Session, int64) {
	snap := s.engine.Snapshot()
	return snap, int64(s.engine.Elapsed().Seconds())
}

// Discard drops the active session.
func (s *Service) Discard(ctx context.Context) (Session, error) {
	session, err := s.engine.Discard()
	if err != nil {
		return session, err
	}
	s.record(ctx, activity.TypeTimerDiscarded, session.Context.UserID, session.Context.MissionID, "discarded")
	return session, nil
}

// Stop ends the session, saves the draft and records its minutes on the
// mission. Persistence failures are returned as warnings with the entry.
func (s *Service) Stop(ctx context.Context) (*StopResult, error) {
	draft, err := s.engine.Stop()
	if err != nil {
		return nil, err
	}

	result := &StopResult{Entry: draft}
	saved, err := s.entries.Save(ctx, draft)
	switch {
	case err == nil:
		result.Entry = *saved
	case errors.Is(err, store.ErrPersistence) && saved != nil:
		result.Entry = *saved
		result.Warnings = append(result.Warnings, err.Error())
	default:
		return result, fmt.Errorf("saving stopped session: %w", err)
	}

	m, err := s.missions.RecordTime(ctx, result.Entry)
	switch {
	case err == nil:
		result.Mission = m
	case errors.Is(err, store.ErrPersistence):
		result.Mission = m
		result.Warnings = append(result.Warnings, err.Error())
	case errors.Is(err, mission.ErrMissionNotFound):
		s.logger.Warn("stopped session references unknown mission", "mission_id", result.Entry.MissionID)
		result.Warnings = append(result.Warnings, err.Error())
	default:
		return result, fmt.Errorf("recording time: %w", err)
	}

	s.record(ctx, activity.TypeTimerStopped, draft.UserID, result.Entry.ID, fmt.Sprintf("%d min", result.Entry.Duration))
	return result, nil
}

func (s *Service) record(ctx context.Context, typ activity.ActivityType, actorID, subjectID, summary string) {
	if s.activity != nil {
		s.activity.Record(ctx, typ, actorID, subjectID, summary)
	}
}
