package timer

import "time"

// State is the engine state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// Context is what the tracked time is for.
type Context struct {
	UserID      string   `json:"user_id"`
	ClientID    string   `json:"client_id"`
	MissionID   string   `json:"mission_id"`
	TaskID      string   `json:"task_id,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Session is a snapshot of the engine. Accumulated holds completed running
// segments; Paused holds completed pauses.
type Session struct {
	State        State         `json:"state"`
	Context      Context       `json:"context"`
	StartTime    time.Time     `json:"start_time"`
	SegmentStart time.Time     `json:"segment_start"`
	PausedAt     *time.Time    `json:"paused_at,omitempty"`
	Accumulated  time.Duration `json:"accumulated"`
	Paused       time.Duration `json:"paused"`
}

// elapsed is running time at now. Paused intervals are excluded.
func (s Session) elapsed(now time.Time) time.Duration {
	d := s.Accumulated
	if s.State == StateRunning {
		d += now.Sub(s.SegmentStart)
	}
	if d < 0 {
		return 0
	}
	return d
}

// pausedTotal is paused time at now, including an open pause.
func (s Session) pausedTotal(now time.Time) time.Duration {
	d := s.Paused
	if s.State == StatePaused && s.PausedAt != nil {
		d += now.Sub(*s.PausedAt)
	}
	if d < 0 {
		return 0
	}
	return d
}
