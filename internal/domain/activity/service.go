package activity

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Service handles activity log operations.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new activity service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// LogActivity logs an activity entry with the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, entry *ActivityEntry) error {
	if entry == nil || entry.ActivityType == "" {
		return ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	if err := s.store.Create(ctx, *entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// Record logs an entry and only warns on failure. Engine operations call it
// after their own mutation has succeeded.
func (s *Service) Record(ctx context.Context, typ ActivityType, actorID, subjectID, summary string) {
	if s == nil {
		return
	}
	entry := &ActivityEntry{
		ActivityType: typ,
		ActorID:      actorID,
		SubjectID:    subjectID,
		Summary:      summary,
	}
	if err := s.LogActivity(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to log activity", "type", typ, "error", err)
	}
}

// GetRecentActivity lists activity entries with filtering, newest first.
func (s *Service) GetRecentActivity(_ context.Context, opts ListActivityOptions) ([]ActivityEntry, error) {
	var out []ActivityEntry
	for _, e := range s.store.List() {
		if opts.SubjectID != "" && e.SubjectID != opts.SubjectID {
			continue
		}
		if opts.ActorID != "" && e.ActorID != opts.ActorID {
			continue
		}
		if opts.ActivityType != nil && e.ActivityType != *opts.ActivityType {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []ActivityEntry{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	if out == nil {
		out = []ActivityEntry{}
	}
	return out, nil
}
