package mcp

import (
	"fmt"
	"time"

	"github.com/rpggio/cabinet/internal/domain/billing"
	"github.com/rpggio/cabinet/internal/domain/client"
	"github.com/rpggio/cabinet/internal/domain/mission"
	"github.com/rpggio/cabinet/internal/domain/timeentry"
	"github.com/rpggio/cabinet/internal/domain/timer"
)

type IDParams struct {
	ID string `json:"id"`
}

type ListClientsParams struct {
	ActiveOnly bool `json:"active_only,omitempty"`
}

type ContactParams struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Position  string `json:"position,omitempty"`
	IsPrimary bool   `json:"is_primary,omitempty"`
}

type CreateClientParams struct {
	CompanyName     string          `json:"company_name"`
	RC              string          `json:"rc,omitempty"`
	ICE             string          `json:"ice,omitempty"`
	IF              string          `json:"if,omitempty"`
	CNSS            string          `json:"cnss,omitempty"`
	VATRegime       string          `json:"vat_regime,omitempty"`
	VATPeriodicity  string          `json:"vat_periodicity,omitempty"`
	FiscalYearStart string          `json:"fiscal_year_start,omitempty"`
	FiscalYearEnd   string          `json:"fiscal_year_end,omitempty"`
	Sector          string          `json:"sector,omitempty"`
	IsFreeZone      bool            `json:"is_free_zone,omitempty"`
	Currency        string          `json:"currency,omitempty"`
	Address         client.Address  `json:"address,omitempty"`
	Contacts        []ContactParams `json:"contacts,omitempty"`
}

type UpdateClientParams struct {
	ID             string          `json:"id"`
	CompanyName    *string         `json:"company_name,omitempty"`
	RC             *string         `json:"rc,omitempty"`
	ICE            *string         `json:"ice,omitempty"`
	IF             *string         `json:"if,omitempty"`
	CNSS           *string         `json:"cnss,omitempty"`
	VATRegime      *string         `json:"vat_regime,omitempty"`
	VATPeriodicity *string         `json:"vat_periodicity,omitempty"`
	Sector         *string         `json:"sector,omitempty"`
	IsFreeZone     *bool           `json:"is_free_zone,omitempty"`
	IsActive       *bool           `json:"is_active,omitempty"`
	Currency       *string         `json:"currency,omitempty"`
	Address        *client.Address `json:"address,omitempty"`
}

type DeleteClientParams struct {
	ID      string `json:"id"`
	ActorID string `json:"actor_id,omitempty"`
	Force   bool   `json:"force,omitempty"`
}

type ListMissionsParams struct {
	ClientID string `json:"client_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Status   string `json:"status,omitempty"`
}

type TaskParams struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	EndDate        string   `json:"end_date,omitempty"`
	AssignedTo     string   `json:"assigned_to,omitempty"`
	Priority       string   `json:"priority,omitempty"`
	EstimatedHours float64  `json:"estimated_hours,omitempty"`
	Checklist      []string `json:"checklist,omitempty"`
}

type CreateMissionParams struct {
	ClientID    string       `json:"client_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Type        string       `json:"type,omitempty"`
	Priority    string       `json:"priority,omitempty"`
	StartDate   string       `json:"start_date,omitempty"`
	EndDate     string       `json:"end_date,omitempty"`
	BudgetHours float64      `json:"budget_hours,omitempty"`
	ManagerID   string       `json:"manager_id,omitempty"`
	AssignedTo  []string     `json:"assigned_to,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Tasks       []TaskParams `json:"tasks,omitempty"`
}

type UpdateMissionParams struct {
	ID          string   `json:"id"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Priority    *string  `json:"priority,omitempty"`
	EndDate     *string  `json:"end_date,omitempty"`
	BudgetHours *float64 `json:"budget_hours,omitempty"`
	ManagerID   *string  `json:"manager_id,omitempty"`
	AssignedTo  []string `json:"assigned_to,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type CompleteMissionParams struct {
	ID      string `json:"id"`
	ActorID string `json:"actor_id,omitempty"`
	Confirm bool   `json:"confirm,omitempty"`
}

type ReopenMissionParams struct {
	ID      string `json:"id"`
	ActorID string `json:"actor_id,omitempty"`
	Reason  string `json:"reason"`
}

type CompleteTaskParams struct {
	MissionID string `json:"mission_id"`
	TaskID    string `json:"task_id"`
	ActorID   string `json:"actor_id,omitempty"`
}

type TimerStartParams struct {
	UserID      string   `json:"user_id,omitempty"`
	ClientID    string   `json:"client_id,omitempty"`
	MissionID   string   `json:"mission_id"`
	TaskID      string   `json:"task_id,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type ListTimeEntriesParams struct {
	UserID    string `json:"user_id,omitempty"`
	MissionID string `json:"mission_id,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	Status    string `json:"status,omitempty"`
}

type SubmitTimeEntryParams struct {
	ID      string `json:"id"`
	ActorID string `json:"actor_id,omitempty"`
}

type ReviewTimeEntryParams struct {
	ID      string `json:"id"`
	ActorID string `json:"actor_id,omitempty"`
	Approve bool   `json:"approve"`
	Comment string `json:"comment,omitempty"`
}

type DeadlineBoardParams struct {
	ClientID string `json:"client_id,omitempty"`
	Type     string `json:"type,omitempty"`
	Status   string `json:"status,omitempty"`
	View     string `json:"view,omitempty"`
	Now      string `json:"now,omitempty"`
}

type CreateDeadlineParams struct {
	ClientID    string `json:"client_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date"`
	Period      string `json:"period,omitempty"`
	Priority    string `json:"priority,omitempty"`
	AssignedTo  string `json:"assigned_to,omitempty"`
}

type UpdateDeadlineParams struct {
	ID          string  `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	AssignedTo  *string `json:"assigned_to,omitempty"`
}

type ItemParams struct {
	ID          string   `json:"id,omitempty"`
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unit_price"`
	VATRate     *float64 `json:"vat_rate,omitempty"`
	IsExpense   bool     `json:"is_expense,omitempty"`
}

type SaveInvoiceParams struct {
	ID            string       `json:"id,omitempty"`
	ClientID      string       `json:"client_id"`
	InvoiceNumber string       `json:"invoice_number,omitempty"`
	Date          string       `json:"date,omitempty"`
	DueDate       string       `json:"due_date,omitempty"`
	Currency      string       `json:"currency,omitempty"`
	Items         []ItemParams `json:"items"`
	VATRate       *float64     `json:"vat_rate,omitempty"`
	Status        string       `json:"status,omitempty"`
	ActorID       string       `json:"actor_id,omitempty"`
}

type SaveQuoteParams struct {
	ID          string       `json:"id,omitempty"`
	ClientID    string       `json:"client_id"`
	QuoteNumber string       `json:"quote_number,omitempty"`
	Date        string       `json:"date,omitempty"`
	ValidUntil  string       `json:"valid_until,omitempty"`
	Currency    string       `json:"currency,omitempty"`
	Items       []ItemParams `json:"items"`
	VATRate     *float64     `json:"vat_rate,omitempty"`
	Status      string       `json:"status,omitempty"`
	ActorID     string       `json:"actor_id,omitempty"`
}

type SaveCreditNoteParams struct {
	ID                string       `json:"id,omitempty"`
	ClientID          string       `json:"client_id,omitempty"`
	OriginalInvoiceID string       `json:"original_invoice_id"`
	CreditNoteNumber  string       `json:"credit_note_number,omitempty"`
	Date              string       `json:"date,omitempty"`
	Currency          string       `json:"currency,omitempty"`
	Items             []ItemParams `json:"items"`
	VATRate           *float64     `json:"vat_rate,omitempty"`
	Reason            string       `json:"reason"`
	Status            string       `json:"status,omitempty"`
	ActorID           string       `json:"actor_id,omitempty"`
}

type ComputeTotalsParams struct {
	Items   []ItemParams `json:"items"`
	VATRate *float64     `json:"vat_rate,omitempty"`
}

type ListDocumentsParams struct {
	Kind     string `json:"kind,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Status   string `json:"status,omitempty"`
}

type RecentActivityParams struct {
	SubjectID string `json:"subject_id,omitempty"`
	ActorID   string `json:"actor_id,omitempty"`
	Type      string `json:"type,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// Responses

// MissionResponse is a mission plus submit-time warnings.
type MissionResponse struct {
	Mission  *mission.Mission `json:"mission"`
	Warnings []string         `json:"warnings,omitempty"`
}

type MissionProgressResponse struct {
	MissionID     string             `json:"mission_id"`
	Percent       float64            `json:"percent"`
	OverBudget    bool               `json:"over_budget"`
	BudgetHours   float64            `json:"budget_hours"`
	ConsumedHours float64            `json:"consumed_hours"`
	Tasks         mission.TaskCounts `json:"tasks"`
	BlockingTasks []string           `json:"blocking_tasks"`
	Checklists    []ChecklistStatus  `json:"checklists"`
	Overdue       bool               `json:"overdue"`
}

// ChecklistStatus is the checked share of one task's checklist.
type ChecklistStatus struct {
	TaskID  string  `json:"task_id"`
	Title   string  `json:"title"`
	Percent float64 `json:"percent"`
}

type CompleteTaskResponse struct {
	Mission         *mission.Mission `json:"mission"`
	SuggestComplete bool             `json:"suggest_complete"`
	Warnings        []string         `json:"warnings,omitempty"`
}

type TimerStatusResponse struct {
	Session        timer.Session `json:"session"`
	ElapsedSeconds int64         `json:"elapsed_seconds"`
	Warnings       []string      `json:"warnings,omitempty"`
}

type TimeEntryResponse struct {
	Entry    *timeentry.TimeEntry `json:"entry"`
	Warnings []string             `json:"warnings,omitempty"`
}

type TimeEntriesResponse struct {
	Entries      []timeentry.TimeEntry `json:"entries"`
	TotalMinutes int                   `json:"total_minutes"`
}

type ClientResponse struct {
	Client   *client.Client `json:"client"`
	Warnings []string       `json:"warnings,omitempty"`
}

type DeleteResponse struct {
	ID       string   `json:"id"`
	Deleted  bool     `json:"deleted"`
	Warnings []string `json:"warnings,omitempty"`
}

type DocumentResponse struct {
	Document any      `json:"document"`
	Warnings []string `json:"warnings,omitempty"`
}

type TotalsResponse struct {
	Items   []billing.Item `json:"items"`
	VATRate float64        `json:"vat_rate"`
	billing.Totals
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. Empty input
// yields the zero time.
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD or RFC 3339", errInvalidArgument, field)
	}
	return t, nil
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
