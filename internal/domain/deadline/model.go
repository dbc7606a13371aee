package deadline

import "time"

// Type is the filing a deadline tracks.
type Type string

const (
	TypeVAT          Type = "vat"
	TypeCorporateTax Type = "corporate_tax"
	TypeIncomeTax    Type = "income_tax"
	TypeCNSS         Type = "cnss"
	TypeAMO          Type = "amo"
	TypeCIMR         Type = "cimr"
)

// Types lists every filing type in matrix column order.
var Types = []Type{TypeVAT, TypeCorporateTax, TypeIncomeTax, TypeCNSS, TypeAMO, TypeCIMR}

// Status is a stored or effective deadline status.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusOverdue    Status = "overdue"
)

// Level is the urgency band of a deadline.
type Level string

const (
	LevelCritical Level = "critical"
	LevelWarning  Level = "warning"
	LevelNormal   Level = "normal"
)

// Deadline is a statutory filing due for a client.
type Deadline struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	Type        Type      `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     time.Time `json:"due_date"`
	Period      string    `json:"period"`
	Status      Status    `json:"status"`
	Priority    string    `json:"priority"`
	AssignedTo  string    `json:"assigned_to,omitempty"`
	Documents   []string  `json:"documents"`
	Alerts      []Alert   `json:"alerts"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Alert is a reminder attached to a deadline.
type Alert struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Severity   string    `json:"severity"`
	TargetDate time.Time `json:"target_date"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

func (d Deadline) EntityID() string { return d.ID }

func (d Deadline) Normalized() Deadline {
	if d.Documents == nil {
		d.Documents = []string{}
	}
	if d.Alerts == nil {
		d.Alerts = []Alert{}
	}
	return d
}
