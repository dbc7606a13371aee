package mission

import "time"

// Status is a mission workflow status. Declaration order is the workflow
// order; completed is terminal until an explicit reopen.
type Status string

const (
	StatusTodo          Status = "todo"
	StatusInProgress    Status = "in_progress"
	StatusReview        Status = "review"
	StatusClientWaiting Status = "client_waiting"
	StatusCompleted     Status = "completed"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusReview, StatusClientWaiting, StatusCompleted}

// Rank returns the position of s in the workflow, or -1 if unknown.
func (s Status) Rank() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return s.Rank() >= 0 }

// Type is the kind of engagement.
type Type string

const (
	TypeAccounting    Type = "accounting"
	TypeVAT           Type = "vat"
	TypeCorporateTax  Type = "corporate_tax"
	TypeIncomeTax     Type = "income_tax"
	TypeCNSS          Type = "cnss"
	TypePayroll       Type = "payroll"
	TypeAudit         Type = "audit"
	TypeLegal         Type = "legal"
	TypeIncorporation Type = "incorporation"
)

// Priority is shared by missions and tasks.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// TaskStatus is the status of a single task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// Mission is a client engagement made of tasks.
type Mission struct {
	ID            string         `json:"id"`
	ClientID      string         `json:"client_id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Type          Type           `json:"type"`
	Status        Status         `json:"status"`
	Priority      Priority       `json:"priority"`
	StartDate     time.Time      `json:"start_date"`
	EndDate       time.Time      `json:"end_date"`
	DateFin       *time.Time     `json:"date_fin,omitempty"`
	Progression   int            `json:"progression"`
	BudgetHours   float64        `json:"budget_hours"`
	ConsumedHours float64        `json:"consumed_hours"`
	ManagerID     string         `json:"manager_id"`
	AssignedTo    []string       `json:"assigned_to"`
	Tags          []string       `json:"tags"`
	IsLocked      bool           `json:"is_locked"`
	Tasks         []Task         `json:"tasks"`
	Attachments   []string       `json:"attachments"`
	Comments      []Comment      `json:"comments"`
	History       []HistoryEntry `json:"history"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Task is a unit of work within a mission.
type Task struct {
	ID             string          `json:"id"`
	MissionID      string          `json:"mission_id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	DateFin        *time.Time      `json:"date_fin,omitempty"`
	AssignedTo     string          `json:"assigned_to,omitempty"`
	Status         TaskStatus      `json:"status"`
	Priority       Priority        `json:"priority"`
	EstimatedHours float64         `json:"estimated_hours"`
	ActualHours    float64         `json:"actual_hours"`
	Tags           []string        `json:"tags"`
	Checklist      []ChecklistItem `json:"checklist"`
	Comments       []Comment       `json:"comments"`
	Attachments    []string        `json:"attachments"`
	History        []HistoryEntry  `json:"history"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ChecklistItem is a checkbox on a task.
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Comment is a note left on a mission or task.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry is an append-only audit line.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	UserID    string    `json:"user_id"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

func (m Mission) EntityID() string { return m.ID }

// Normalized returns m with every nested list non-nil, tasks included.
func (m Mission) Normalized() Mission {
	m.AssignedTo = orEmpty(m.AssignedTo)
	m.Tags = orEmpty(m.Tags)
	m.Attachments = orEmpty(m.Attachments)
	m.Comments = orEmpty(m.Comments)
	m.History = orEmpty(m.History)
	m.Tasks = orEmpty(m.Tasks)
	for i := range m.Tasks {
		m.Tasks[i] = m.Tasks[i].Normalized()
	}
	return m
}

// Normalized returns t with every nested list non-nil.
func (t Task) Normalized() Task {
	t.Tags = orEmpty(t.Tags)
	t.Checklist = orEmpty(t.Checklist)
	t.Comments = orEmpty(t.Comments)
	t.Attachments = orEmpty(t.Attachments)
	t.History = orEmpty(t.History)
	return t
}

func orEmpty[E any](s []E) []E {
	if s == nil {
		return []E{}
	}
	return s
}

// Actor identifies who performs a lifecycle action.
type Actor struct {
	ID   string
	Name string
}
