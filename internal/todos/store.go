package todos

import "context"

// ListOrder selects the ordering of a List call.
type ListOrder string

const (
	// OrderByPosition sorts by the manual position field, ascending.
	// This is the order the reorderable list view uses.
	OrderByPosition ListOrder = "position"
	// OrderByDueDate sorts by due date ascending with undated tasks
	// last.
	OrderByDueDate ListOrder = "due_date"
)

// Patch carries a partial update: nil fields are left unchanged.
// ClearDueDate distinguishes "set due_date to null" from "don't touch
// due_date". The id itself is immutable and has no patch field.
type Patch struct {
	Text         *string
	IsCompleted  *bool
	DueDate      *Date
	ClearDueDate bool
	Position     *int
}

// PositionEntry is one (id, position) pair of a bulk reorder.
type PositionEntry struct {
	ID       int `json:"id"`
	Position int `json:"position"`
}

// Store is the persistence contract for the task collection.
// Implementations return ValidationError for bad input, ErrNotFound
// for unresolvable ids and StoreUnavailableError when the datastore
// itself fails.
type Store interface {
	List(ctx context.Context, order ListOrder) ([]Todo, error)
	Create(ctx context.Context, text string, due *Date) (Todo, error)
	Update(ctx context.Context, id int, patch Patch) (Todo, error)
	Delete(ctx context.Context, id int) error
	// Reposition applies every (id, position) pair as one batched,
	// best-effort-atomic write. It does no implicit renumbering:
	// callers supply complete pairs for every task whose relative
	// order changed.
	Reposition(ctx context.Context, entries []PositionEntry) error
}
