package mission

import "time"

// Progress is the budget consumption of a mission.
type Progress struct {
	Percent    float64 `json:"percent"`
	OverBudget bool    `json:"over_budget"`
}

// ComputeProgress derives budget consumption. Percent is not clamped above
// 100. A zero budget yields 0% and counts as over budget once any time is
// consumed.
func ComputeProgress(m Mission) Progress {
	consumed := m.ConsumedHours
	if consumed < 0 {
		consumed = 0
	}
	if m.BudgetHours <= 0 {
		return Progress{Percent: 0, OverBudget: consumed > 0}
	}
	return Progress{
		Percent:    consumed / m.BudgetHours * 100,
		OverBudget: consumed > m.BudgetHours,
	}
}

// BlockingTasks returns the tasks that are not done.
func BlockingTasks(m Mission) []Task {
	out := []Task{}
	for _, t := range m.Tasks {
		if t.Status != TaskDone {
			out = append(out, t)
		}
	}
	return out
}

// TaskCounts is the done/total pair shown on mission cards.
type TaskCounts struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// TaskCompletion counts done tasks.
func TaskCompletion(m Mission) TaskCounts {
	c := TaskCounts{Total: len(m.Tasks)}
	for _, t := range m.Tasks {
		if t.Status == TaskDone {
			c.Done++
		}
	}
	return c
}

// ChecklistProgress returns the percentage of checked items, 0 when empty.
func ChecklistProgress(t Task) float64 {
	if len(t.Checklist) == 0 {
		return 0
	}
	done := 0
	for _, item := range t.Checklist {
		if item.Completed {
			done++
		}
	}
	return float64(done) / float64(len(t.Checklist)) * 100
}

// IsOverdue reports whether the end date has passed on an open mission.
func IsOverdue(m Mission, now time.Time) bool {
	return m.Status != StatusCompleted && !m.EndDate.IsZero() && m.EndDate.Before(now)
}
