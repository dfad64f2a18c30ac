package todos

import (
	"fmt"
	"time"
)

// Todo is the sole entity: one row in the todos table. Position is the
// manual drag-and-drop order; it starts at 0 for every new task and is
// only renumbered by a bulk reorder. Display status is never stored on
// the record, callers derive it from DueDate and IsCompleted.
type Todo struct {
	ID          int       `json:"id"`
	Text        string    `json:"text"`
	IsCompleted bool      `json:"is_completed"`
	DueDate     *Date     `json:"due_date"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

// DueTime returns the due date as a *time.Time for the status
// classifier, or nil when the task has no date.
func (t Todo) DueTime() *time.Time {
	if t.DueDate == nil {
		return nil
	}
	tt := t.DueDate.Time
	return &tt
}

const dateLayout = "2006-01-02"

// Date is a calendar date without time-of-day semantics. It marshals
// as "2006-01-02" and accepts either that form or a full timestamp
// (only the date part is kept).
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf strips the time-of-day component from t.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	s = s[1 : len(s)-1]
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}
