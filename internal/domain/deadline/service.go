package deadline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service handles deadline operations.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new deadline service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// CreateRequest defines deadline creation inputs.
type CreateRequest struct {
	ClientID    string
	Type        Type
	Title       string
	Description string
	DueDate     time.Time
	Period      string
	Priority    string
	AssignedTo  string
}

// Entry is a deadline annotated for display at a given instant.
type Entry struct {
	Deadline        Deadline `json:"deadline"`
	EffectiveStatus Status   `json:"effective_status"`
	DaysUntilDue    int      `json:"days_until_due"`
	Urgency         Level    `json:"urgency"`
}

// Stats counts deadlines per effective status.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
}

// MatrixRow holds one client's deadlines grouped by type.
type MatrixRow struct {
	ClientID string           `json:"client_id"`
	Cells    map[Type][]Entry `json:"cells"`
}

// BoardOptions filters the board.
type BoardOptions struct {
	ClientID string
	Type     Type
	Status   Status
}

// Create creates a pending deadline.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Deadline, error) {
	if req.ClientID == "" || strings.TrimSpace(req.Title) == "" || req.DueDate.IsZero() || !validType(req.Type) {
		return nil, ErrInvalidInput
	}
	now := s.now()
	d := Deadline{
		ID:          uuid.NewString(),
		ClientID:    req.ClientID,
		Type:        req.Type,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DueDate:     req.DueDate,
		Period:      req.Period,
		Status:      StatusPending,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}.Normalized()
	if err := s.store.Create(ctx, d); err != nil {
		return &d, fmt.Errorf("creating deadline: %w", err)
	}
	return &d, nil
}

// Get fetches a deadline by ID.
func (s *Service) Get(_ context.Context, id string) (*Deadline, error) {
	d, ok := s.store.Find(id)
	if !ok {
		return nil, ErrDeadlineNotFound
	}
	return &d, nil
}

// Update replaces a deadline. The stored status is kept as given; overdue is
// derived, never stored by this service.
func (s *Service) Update(ctx context.Context, d Deadline) (*Deadline, error) {
	existing, ok := s.store.Find(d.ID)
	if !ok {
		return nil, ErrDeadlineNotFound
	}
	if strings.TrimSpace(d.Title) == "" || !validType(d.Type) || !validStatus(d.Status) {
		return nil, ErrInvalidInput
	}
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = s.now()
	d = d.Normalized()
	if err := s.store.Update(ctx, d); err != nil {
		return &d, fmt.Errorf("updating deadline: %w", err)
	}
	return &d, nil
}

// Delete removes a deadline.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, ok := s.store.Find(id); !ok {
		return ErrDeadlineNotFound
	}
	if err := s.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("deleting deadline: %w", err)
	}
	return nil
}

// Board annotates deadlines at now, soonest first. The status filter applies
// to the effective status.
func (s *Service) Board(_ context.Context, now time.Time, opts BoardOptions) []Entry {
	out := []Entry{}
	for _, d := range s.store.List() {
		if opts.ClientID != "" && d.ClientID != opts.ClientID {
			continue
		}
		if opts.Type != "" && d.Type != opts.Type {
			continue
		}
		e := Annotate(d, now)
		if opts.Status != "" && e.EffectiveStatus != opts.Status {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysUntilDue < out[j].DaysUntilDue
	})
	return out
}

// Stats counts the board's entries per effective status.
func (s *Service) Stats(ctx context.Context, now time.Time, opts BoardOptions) Stats {
	var st Stats
	for _, e := range s.Board(ctx, now, opts) {
		st.Total++
		switch e.EffectiveStatus {
		case StatusPending:
			st.Pending++
		case StatusInProgress:
			st.InProgress++
		case StatusCompleted:
			st.Completed++
		case StatusOverdue:
			st.Overdue++
		}
	}
	return st
}

// Matrix groups the board by client and filing type.
func (s *Service) Matrix(ctx context.Context, now time.Time, opts BoardOptions) []MatrixRow {
	rows := map[string]*MatrixRow{}
	var order []string
	for _, e := range s.Board(ctx, now, opts) {
		row, ok := rows[e.Deadline.ClientID]
		if !ok {
			row = &MatrixRow{ClientID: e.Deadline.ClientID, Cells: map[Type][]Entry{}}
			rows[e.Deadline.ClientID] = row
			order = append(order, e.Deadline.ClientID)
		}
		row.Cells[e.Deadline.Type] = append(row.Cells[e.Deadline.Type], e)
	}
	sort.Strings(order)
	out := make([]MatrixRow, 0, len(order))
	for _, id := range order {
		out = append(out, *rows[id])
	}
	return out
}

// CountForClient counts deadlines referencing clientID.
func (s *Service) CountForClient(clientID string) int {
	n := 0
	for _, d := range s.store.List() {
		if d.ClientID == clientID {
			n++
		}
	}
	return n
}

// Annotate derives the display fields of d at now. Completed deadlines are
// never urgent.
func Annotate(d Deadline, now time.Time) Entry {
	days := DaysUntilDue(d.DueDate, now)
	status := EffectiveStatus(d.Status, d.DueDate, now)
	urgency := Urgency(days)
	if status == StatusCompleted {
		urgency = LevelNormal
	}
	return Entry{
		Deadline:        d,
		EffectiveStatus: status,
		DaysUntilDue:    days,
		Urgency:         urgency,
	}
}

func validType(t Type) bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

func validStatus(st Status) bool {
	switch st {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}
