package timeentry

import "time"

// Status is the review status of a time entry.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// TimeEntry is a finalized, billable block of work. Duration and
// BreakDuration are whole minutes and are never recomputed once set.
type TimeEntry struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	ClientID      string     `json:"client_id"`
	MissionID     string     `json:"mission_id"`
	TaskID        string     `json:"task_id,omitempty"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	Duration      int        `json:"duration"`
	BreakDuration int        `json:"break_duration"`
	Description   string     `json:"description"`
	Tags          []string   `json:"tags"`
	Status        Status     `json:"status"`
	IsRunning     bool       `json:"is_running"`
	ReviewedBy    string     `json:"reviewed_by,omitempty"`
	ReviewComment string     `json:"review_comment,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (e TimeEntry) EntityID() string { return e.ID }

func (e TimeEntry) Normalized() TimeEntry {
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return e
}
