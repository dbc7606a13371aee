package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeTimerStarted      ActivityType = "timer_started"
	TypeTimerStopped      ActivityType = "timer_stopped"
	TypeTimerDiscarded    ActivityType = "timer_discarded"
	TypeEntrySubmitted    ActivityType = "entry_submitted"
	TypeEntryReviewed     ActivityType = "entry_reviewed"
	TypeMissionCompleted  ActivityType = "mission_completed"
	TypeMissionReopened   ActivityType = "mission_reopened"
	TypeTaskCompleted     ActivityType = "task_completed"
	TypeDocumentSaved     ActivityType = "document_saved"
	TypeClientDeleted     ActivityType = "client_deleted"
	TypePersistenceFailed ActivityType = "persistence_failed"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           string       `json:"id"`
	ActivityType ActivityType `json:"type"`
	ActorID      string       `json:"actor_id,omitempty"`
	SubjectID    string       `json:"subject_id,omitempty"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (e ActivityEntry) EntityID() string { return e.ID }

func (e ActivityEntry) Normalized() ActivityEntry { return e }
