package timeentry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/cabinet/internal/domain/activity"
)

// Service handles time entry operations.
type Service struct {
	store    Store
	users    UserDirectory
	activity ActivityRecorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new time entry service.
func NewService(store Store, users UserDirectory, recorder ActivityRecorder, logger *slog.Logger) *Service {
	return &Service{store: store, users: users, activity: recorder, logger: logger, now: time.Now}
}

// ListOptions filters List.
type ListOptions struct {
	UserID    string
	MissionID string
	ClientID  string
	Status    Status
}

// Save persists a finalized draft, assigning an ID when missing. The
// duration is stored as given.
func (s *Service) Save(ctx context.Context, e TimeEntry) (*TimeEntry, error) {
	if e.IsRunning || e.EndTime == nil || e.Duration < 0 || e.UserID == "" || e.MissionID == "" {
		return nil, ErrInvalidInput
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	} else if _, exists := s.store.Find(e.ID); exists {
		return nil, ErrImmutable
	}
	if e.Status == "" {
		e.Status = StatusDraft
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	e = e.Normalized()

	if err := s.store.Create(ctx, e); err != nil {
		return &e, fmt.Errorf("saving time entry: %w", err)
	}
	return &e, nil
}

// Get fetches an entry by ID.
func (s *Service) Get(_ context.Context, id string) (*TimeEntry, error) {
	e, ok := s.store.Find(id)
	if !ok {
		return nil, ErrEntryNotFound
	}
	return &e, nil
}

// List returns entries matching opts, newest first.
func (s *Service) List(_ context.Context, opts ListOptions) []TimeEntry {
	out := []TimeEntry{}
	for _, e := range s.store.List() {
		if opts.UserID != "" && e.UserID != opts.UserID {
			continue
		}
		if opts.MissionID != "" && e.MissionID != opts.MissionID {
			continue
		}
		if opts.ClientID != "" && e.ClientID != opts.ClientID {
			continue
		}
		if opts.Status != "" && e.Status != opts.Status {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out
}

// Submit sends a draft for review.
func (s *Service) Submit(ctx context.Context, id, actorID string) (*TimeEntry, error) {
	e, ok := s.store.Find(id)
	if !ok {
		return nil, ErrEntryNotFound
	}
	if err := ValidateTransition(e.Status, StatusSubmitted); err != nil {
		return nil, err
	}
	e.Status = StatusSubmitted
	if err := s.store.Update(ctx, e); err != nil {
		return &e, fmt.Errorf("submitting time entry: %w", err)
	}
	s.record(ctx, activity.TypeEntrySubmitted, actorID, id, "submitted")
	return &e, nil
}

// Review approves or rejects a submitted entry.
func (s *Service) Review(ctx context.Context, id, reviewerID string, approve bool, comment string) (*TimeEntry, error) {
	e, ok := s.store.Find(id)
	if !ok {
		return nil, ErrEntryNotFound
	}
	reviewer, ok := s.users.Find(reviewerID)
	if !ok || !reviewer.CanReviewTime() {
		return nil, ErrForbidden
	}
	to := StatusRejected
	if approve {
		to = StatusApproved
	}
	if err := ValidateTransition(e.Status, to); err != nil {
		return nil, err
	}
	e.Status = to
	e.ReviewedBy = reviewerID
	e.ReviewComment = comment
	if err := s.store.Update(ctx, e); err != nil {
		return &e, fmt.Errorf("reviewing time entry: %w", err)
	}
	s.record(ctx, activity.TypeEntryReviewed, reviewerID, id, string(to))
	return &e, nil
}

// TotalMinutes sums the durations of entries matching opts.
func (s *Service) TotalMinutes(ctx context.Context, opts ListOptions) int {
	total := 0
	for _, e := range s.List(ctx, opts) {
		total += e.Duration
	}
	return total
}

// CountForClient counts entries referencing clientID.
func (s *Service) CountForClient(clientID string) int {
	n := 0
	for _, e := range s.store.List() {
		if e.ClientID == clientID {
			n++
		}
	}
	return n
}

func (s *Service) record(ctx context.Context, typ activity.ActivityType, actorID, subjectID, summary string) {
	if s.activity != nil {
		s.activity.Record(ctx, typ, actorID, subjectID, summary)
	}
}
