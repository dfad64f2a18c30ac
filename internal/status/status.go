// Package status derives the display classification of a task from its
// due date and completion flag. The result is never stored: "today"
// moves on its own, so callers recompute on every read.
package status

import (
	"fmt"
	"time"
)

const (
	StyleCompleted = "completed"
	StyleNone      = "none"
	StyleOverdue   = "overdue"
	StyleToday     = "today"
	StyleTomorrow  = "tomorrow"
	StyleUpcoming  = "upcoming"
)

type Status struct {
	Label string `json:"label"`
	Style string `json:"style"`
	Icon  string `json:"icon"`
}

// Classify maps (due date, completion) to a display status, evaluated
// against now. Only the calendar date of both arguments matters; the
// time-of-day component is stripped before comparison.
func Classify(due *time.Time, completed bool, now time.Time) Status {
	if completed {
		return Status{Label: "Completed", Style: StyleCompleted, Icon: "check_circle"}
	}

	if due == nil {
		return Status{Label: "No Date", Style: StyleNone, Icon: ""}
	}

	diffDays := daysBetween(now, *due)

	switch {
	case diffDays < 0:
		return Status{Label: "Overdue", Style: StyleOverdue, Icon: "error_outline"}
	case diffDays == 0:
		return Status{Label: "Due Today", Style: StyleToday, Icon: "today"}
	case diffDays == 1:
		return Status{Label: "Due Tomorrow", Style: StyleTomorrow, Icon: "calendar_today"}
	default:
		return Status{Label: fmt.Sprintf("Due in %d days", diffDays), Style: StyleUpcoming, Icon: "calendar_month"}
	}
}

// daysBetween returns the exact calendar-day count from a to b. Both
// dates are rebuilt at UTC midnight first, so the division is always an
// integer and daylight-saving shifts cannot skew the result.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / (24 * time.Hour))
}
