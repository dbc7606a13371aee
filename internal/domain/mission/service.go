package mission

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/cabinet/internal/domain/activity"
	"github.com/rpggio/cabinet/internal/domain/timeentry"
	"github.com/rpggio/cabinet/internal/domain/user"
)

// Service handles mission operations.
type Service struct {
	store    Store
	users    UserDirectory
	activity ActivityRecorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new mission service.
func NewService(store Store, users UserDirectory, recorder ActivityRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, users: users, activity: recorder, logger: logger, now: time.Now}
}

// CreateRequest defines mission creation inputs.
type CreateRequest struct {
	ClientID    string
	Title       string
	Description string
	Type        Type
	Priority    Priority
	StartDate   time.Time
	EndDate     time.Time
	BudgetHours float64
	ManagerID   string
	AssignedTo  []string
	Tags        []string
	Tasks       []TaskInput
}

// TaskInput defines a task created along with its mission.
type TaskInput struct {
	Title          string
	Description    string
	EndDate        *time.Time
	AssignedTo     string
	Priority       Priority
	EstimatedHours float64
	Checklist      []string
}

// ListOptions filters List.
type ListOptions struct {
	ClientID string
	UserID   string
	Status   Status
}

// Create creates a mission in todo status.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Mission, error) {
	if strings.TrimSpace(req.Title) == "" || req.ClientID == "" || req.BudgetHours < 0 {
		return nil, ErrInvalidInput
	}
	now := s.now()
	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	m := Mission{
		ID:          uuid.NewString(),
		ClientID:    req.ClientID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        req.Type,
		Status:      StatusTodo,
		Priority:    priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		BudgetHours: req.BudgetHours,
		ManagerID:   req.ManagerID,
		AssignedTo:  req.AssignedTo,
		Tags:        req.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, in := range req.Tasks {
		m.Tasks = append(m.Tasks, newTask(m.ID, in, now))
	}
	m = m.Normalized()

	if err := s.store.Create(ctx, m); err != nil {
		return &m, fmt.Errorf("creating mission: %w", err)
	}
	return &m, nil
}

func newTask(missionID string, in TaskInput, now time.Time) Task {
	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	t := Task{
		ID:             uuid.NewString(),
		MissionID:      missionID,
		Title:          in.Title,
		Description:    in.Description,
		EndDate:        in.EndDate,
		AssignedTo:     in.AssignedTo,
		Status:         TaskTodo,
		Priority:       priority,
		EstimatedHours: in.EstimatedHours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, text := range in.Checklist {
		t.Checklist = append(t.Checklist, ChecklistItem{ID: uuid.NewString(), Text: text})
	}
	return t.Normalized()
}

// Get fetches a mission by ID.
func (s *Service) Get(_ context.Context, id string) (*Mission, error) {
	m, ok := s.store.Find(id)
	if !ok {
		return nil, ErrMissionNotFound
	}
	return &m, nil
}

// List returns missions matching opts. UserID matches the manager or any
// assignee.
func (s *Service) List(_ context.Context, opts ListOptions) []Mission {
	out := []Mission{}
	for _, m := range s.store.List() {
		if opts.ClientID != "" && m.ClientID != opts.ClientID {
			continue
		}
		if opts.Status != "" && m.Status != opts.Status {
			continue
		}
		if opts.UserID != "" && !involves(m, opts.UserID) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func involves(m Mission, userID string) bool {
	if m.ManagerID == userID {
		return true
	}
	for _, id := range m.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// Update replaces a mission's editable fields. Lifecycle fields (completion
// date, history, consumed hours) stay owned by the dedicated operations, and
// completed can only be entered or left through Complete and Reopen.
func (s *Service) Update(ctx context.Context, m Mission) (*Mission, error) {
	existing, ok := s.store.Find(m.ID)
	if !ok {
		return nil, ErrMissionNotFound
	}
	if strings.TrimSpace(m.Title) == "" || !m.Status.Valid() {
		return nil, ErrInvalidInput
	}
	if existing.Status == StatusCompleted && m.Status != StatusCompleted {
		return nil, ErrAlreadyTerminal
	}
	if existing.Status != StatusCompleted && m.Status == StatusCompleted {
		return nil, fmt.Errorf("%w: use complete_mission to close a mission", ErrInvalidInput)
	}

	m.DateFin = existing.DateFin
	m.History = existing.History
	m.ConsumedHours = existing.ConsumedHours
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = s.now()
	for i := range m.Tasks {
		if m.Tasks[i].ID == "" {
			m.Tasks[i].ID = uuid.NewString()
			m.Tasks[i].CreatedAt = m.UpdatedAt
		}
		m.Tasks[i].MissionID = m.ID
	}
	m = m.Normalized()

	if err := s.store.Update(ctx, m); err != nil {
		return &m, fmt.Errorf("updating mission: %w", err)
	}
	return &m, nil
}

// Delete removes a mission.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, ok := s.store.Find(id); !ok {
		return ErrMissionNotFound
	}
	if err := s.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("deleting mission: %w", err)
	}
	return nil
}

// Progress computes budget consumption for a stored mission.
func (s *Service) Progress(_ context.Context, id string) (Progress, error) {
	m, ok := s.store.Find(id)
	if !ok {
		return Progress{}, ErrMissionNotFound
	}
	return ComputeProgress(m), nil
}

// CompleteMission closes a mission on behalf of actorID. Open tasks fail with
// an *IncompleteTasksError unless confirm is set.
func (s *Service) CompleteMission(ctx context.Context, id, actorID string, confirm bool) (*Mission, error) {
	m, ok := s.store.Find(id)
	if !ok {
		return nil, ErrMissionNotFound
	}
	u, ok := s.users.Find(actorID)
	if !ok || !u.CanCompleteMission(m.ManagerID) {
		return nil, ErrForbidden
	}
	if m.Status == StatusCompleted {
		return nil, ErrAlreadyTerminal
	}
	if blocking := BlockingTasks(m); len(blocking) > 0 && !confirm {
		return nil, &IncompleteTasksError{MissionID: id, Tasks: blocking}
	}

	completed, err := Complete(m, actorOf(u), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, completed); err != nil {
		return &completed, fmt.Errorf("completing mission: %w", err)
	}
	s.record(ctx, activity.TypeMissionCompleted, actorID, id, ActionCompleted+": "+completed.Title)
	return &completed, nil
}

// ReopenMission reopens a completed mission with a mandatory reason.
func (s *Service) ReopenMission(ctx context.Context, id, actorID, reason string) (*Mission, error) {
	m, ok := s.store.Find(id)
	if !ok {
		return nil, ErrMissionNotFound
	}
	u, ok := s.users.Find(actorID)
	if !ok || !u.CanReopenMission() {
		return nil, ErrForbidden
	}

	reopened, err := Reopen(m, actorOf(u), reason, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, reopened); err != nil {
		return &reopened, fmt.Errorf("reopening mission: %w", err)
	}
	s.record(ctx, activity.TypeMissionReopened, actorID, id, "Motif: "+reason)
	return &reopened, nil
}

// CompleteTask marks a task done. The returned flag suggests completing the
// mission; it is never completed automatically.
func (s *Service) CompleteTask(ctx context.Context, missionID, taskID, actorID string) (*Mission, bool, error) {
	m, ok := s.store.Find(missionID)
	if !ok {
		return nil, false, ErrMissionNotFound
	}
	actor := Actor{ID: actorID, Name: user.UnassignedName}
	if u, ok := s.users.Find(actorID); ok {
		actor = actorOf(u)
	}

	updated, allDone, err := CompleteTask(m, taskID, actor, s.now())
	if err != nil {
		return nil, false, err
	}
	suggest := allDone && updated.Status != StatusCompleted
	if err := s.store.Update(ctx, updated); err != nil {
		return &updated, suggest, fmt.Errorf("completing task: %w", err)
	}
	s.record(ctx, activity.TypeTaskCompleted, actorID, missionID, ActionTaskCompleted+": "+taskID)
	return &updated, suggest, nil
}

// RecordTime adds a finalized entry's minutes to the mission and, when set,
// its task. Consumed hours never decrease, so non-positive durations are
// ignored.
func (s *Service) RecordTime(ctx context.Context, entry timeentry.TimeEntry) (*Mission, error) {
	m, ok := s.store.Find(entry.MissionID)
	if !ok {
		return nil, ErrMissionNotFound
	}
	if entry.Duration <= 0 {
		return &m, nil
	}
	hours := float64(entry.Duration) / 60
	m.ConsumedHours += hours
	for i := range m.Tasks {
		if entry.TaskID != "" && m.Tasks[i].ID == entry.TaskID {
			m.Tasks[i].ActualHours += hours
		}
	}
	m.UpdatedAt = s.now()
	if err := s.store.Update(ctx, m); err != nil {
		return &m, fmt.Errorf("recording time: %w", err)
	}
	return &m, nil
}

// CountForClient counts missions referencing clientID.
func (s *Service) CountForClient(clientID string) int {
	n := 0
	for _, m := range s.store.List() {
		if m.ClientID == clientID {
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

func actorOf(u user.User) Actor {
	return Actor{ID: u.ID, Name: u.FullName()}
}
