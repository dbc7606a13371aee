// Package timer tracks the single active work session and turns it into a
// time entry draft.
package timer

import (
	"sync"
	"time"

	"github.com/rpggio/cabinet/internal/domain/timeentry"
)

// Engine holds at most one session. It is safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	now     func() time.Time
	session *Session
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now. A nil clock is ignored.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine returns an idle engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins a session. It fails with ErrConflict if one is running or
// paused, leaving it untouched.
func (e *Engine) Start(c Context) (Session, error) {
	if c.UserID == "" || c.MissionID == "" {
		return Session{}, ErrInvalidInput
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		return *e.session, ErrConflict
	}
	now := e.now()
	c.Tags = append([]string(nil), c.Tags...)
	e.session = &Session{
		State:        StateRunning,
		Context:      c,
		StartTime:    now,
		SegmentStart: now,
	}
	return *e.session, nil
}

// Pause freezes the elapsed time. Only valid while running.
func (e *Engine) Pause() (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil || e.session.State != StateRunning {
		return e.snapshotLocked(), ErrInvalidTransition
	}
	now := e.now()
	e.session.Accumulated = e.session.elapsed(now)
	e.session.State = StatePaused
	e.session.PausedAt = &now
	return *e.session, nil
}

// Resume restarts the elapsed clock. Only valid while paused.
func (e *Engine) Resume() (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil || e.session.State != StatePaused {
		return e.snapshotLocked(), ErrInvalidTransition
	}
	now := e.now()
	e.session.Paused = e.session.pausedTotal(now)
	e.session.State = StateRunning
	e.session.PausedAt = nil
	e.session.SegmentStart = now
	return *e.session, nil
}

// Stop ends the session and returns an unsaved draft entry. The engine goes
// back to idle; persisting the draft is the caller's job.
func (e *Engine) Stop() (timeentry.TimeEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return timeentry.TimeEntry{}, ErrNoActiveSession
	}
	now := e.now()
	s := *e.session
	e.session = nil

	end := now
	return timeentry.TimeEntry{
		UserID:        s.Context.UserID,
		ClientID:      s.Context.ClientID,
		MissionID:     s.Context.MissionID,
		TaskID:        s.Context.TaskID,
		StartTime:     s.StartTime,
		EndTime:       &end,
		Duration:      int(s.elapsed(now) / time.Minute),
		BreakDuration: int(s.pausedTotal(now) / time.Minute),
		Description:   s.Context.Description,
		Tags:          append([]string{}, s.Context.Tags...),
		Status:        timeentry.StatusDraft,
		IsRunning:     false,
		CreatedAt:     now,
	}, nil
}

// Discard drops the active session without producing an entry.
func (e *Engine) Discard() (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return Session{State: StateIdle}, ErrNoActiveSession
	}
	s := *e.session
	e.session = nil
	return s, nil
}

// Elapsed returns the running time of the active session, 0 when idle.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return 0
	}
	return e.session.elapsed(e.now())
}

// Snapshot returns the current session, or an idle one.
func (e *Engine) Snapshot() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Session {
	if e.session == nil {
		return Session{State: StateIdle}
	}
	s := *e.session
	s.Context.Tags = append([]string(nil), s.Context.Tags...)
	return s
}
