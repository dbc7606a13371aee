package deadline

import "time"

const day = 24 * time.Hour

// EffectiveStatus derives the displayed status. Completed always wins; a
// past due date overrides any other stored status.
func EffectiveStatus(stored Status, due, now time.Time) Status {
	if stored == StatusCompleted {
		return StatusCompleted
	}
	if due.Before(now) {
		return StatusOverdue
	}
	return stored
}

// DaysUntilDue is the signed number of calendar days from now to due,
// counted in now's location. Yesterday is -1, today 0.
func DaysUntilDue(due, now time.Time) int {
	loc := now.Location()
	d := due.In(loc)
	dueDay := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(dueDay.Sub(today) / day)
}

// Urgency bands a day count: 3 or less is critical, up to 7 warning.
func Urgency(days int) Level {
	switch {
	case days <= 3:
		return LevelCritical
	case days <= 7:
		return LevelWarning
	default:
		return LevelNormal
	}
}
