package mission

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ActionCompleted     = "Mission terminée"
	ActionReopened      = "Mission réouverte"
	ActionTaskCompleted = "Tâche terminée"
)

// Complete closes a mission. Open tasks do not block here; callers gate on
// BlockingTasks first.
func Complete(m Mission, actor Actor, now time.Time) (Mission, error) {
	if m.Status == StatusCompleted {
		return m, ErrAlreadyTerminal
	}
	m = m.Normalized()
	m.Status = StatusCompleted
	m.DateFin = &now
	m.Progression = 100
	m.UpdatedAt = now
	m.History = append(m.History, historyEntry(ActionCompleted, actor, "Mission clôturée par "+actor.Name, now))
	return m, nil
}

// Reopen moves a completed mission back to in_progress. The reason is kept
// verbatim in the history details.
func Reopen(m Mission, actor Actor, reason string, now time.Time) (Mission, error) {
	if m.Status != StatusCompleted {
		return m, ErrNotCompleted
	}
	if strings.TrimSpace(reason) == "" {
		return m, ErrMissingReason
	}
	m = m.Normalized()
	m.Status = StatusInProgress
	m.DateFin = nil
	m.UpdatedAt = now
	details := "Mission réouverte par " + actor.Name + ". Motif: " + reason
	m.History = append(m.History, historyEntry(ActionReopened, actor, details, now))
	return m, nil
}

// CompleteTask marks one task done and reports whether every task of the
// mission is now done. The mission status itself is left untouched.
func CompleteTask(m Mission, taskID string, actor Actor, now time.Time) (Mission, bool, error) {
	m = m.Normalized()
	m.Tasks = append([]Task(nil), m.Tasks...)
	found := false
	for i := range m.Tasks {
		t := &m.Tasks[i]
		if t.ID != taskID {
			continue
		}
		found = true
		if t.Status == TaskDone {
			break
		}
		t.Status = TaskDone
		t.DateFin = &now
		t.UpdatedAt = now
		t.History = append(t.History, historyEntry(ActionTaskCompleted, actor, "Tâche terminée par "+actor.Name, now))
		break
	}
	if !found {
		return m, false, ErrTaskNotFound
	}
	m.UpdatedAt = now
	return m, len(BlockingTasks(m)) == 0, nil
}

func historyEntry(action string, actor Actor, details string, now time.Time) HistoryEntry {
	return HistoryEntry{
		ID:        uuid.NewString(),
		Action:    action,
		UserID:    actor.ID,
		Details:   details,
		CreatedAt: now,
	}
}
