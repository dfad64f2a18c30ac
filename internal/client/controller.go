package client

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"todo-list-backend/internal/status"
	"todo-list-backend/internal/todos"
)

// Controller owns the session's copy of the task list. Toggle and
// Remove are optimistic: the local list changes first and is restored
// from a snapshot when the remote write fails. A generation counter
// guards against stale fetch results landing after a newer local
// mutation.
type Controller struct {
	api API
	now func() time.Time

	mu   sync.Mutex
	list []todos.Todo
	gen  uint64
}

func NewController(api API) *Controller {
	return &Controller{
		api: api,
		now: time.Now,
	}
}

// Load fetches the full list and replaces the local copy wholesale.
// The result is discarded if a mutation happened while the fetch was
// in flight.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	fetched, err := c.api.List(ctx)
	if err != nil {
		return fmt.Errorf("load todos: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return nil // stale: newer local state wins
	}
	c.list = fetched
	return nil
}

// Todos returns a copy of the current list in its manual order.
func (c *Controller) Todos() []todos.Todo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]todos.Todo(nil), c.list...)
}

// Add is not optimistic: the task only appears once the server has
// acknowledged it with an assigned id, then the list is refreshed.
func (c *Controller) Add(ctx context.Context, text string, due *todos.Date) (todos.Todo, error) {
	created, err := c.api.Create(ctx, text, due)
	if err != nil {
		return todos.Todo{}, fmt.Errorf("add todo: %w", err)
	}
	if err := c.Load(ctx); err != nil {
		log.Printf("[WARN] refresh after add: %v", err)
	}
	return created, nil
}

// Toggle flips completion locally, then confirms remotely. On failure
// the pre-toggle snapshot is restored.
func (c *Controller) Toggle(ctx context.Context, id int) error {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return todos.ErrNotFound
	}
	snapshot := append([]todos.Todo(nil), c.list...)
	c.list[idx].IsCompleted = !c.list[idx].IsCompleted
	target := c.list[idx].IsCompleted
	c.gen++
	c.mu.Unlock()

	if _, err := c.api.SetCompleted(ctx, id, target); err != nil {
		c.restore(snapshot)
		log.Printf("[WARN] toggle todo %d failed, reverted: %v", id, err)
		return err
	}
	return nil
}

// Remove deletes locally first and restores the snapshot when the
// remote delete fails.
func (c *Controller) Remove(ctx context.Context, id int) error {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return todos.ErrNotFound
	}
	snapshot := append([]todos.Todo(nil), c.list...)
	c.list = append(c.list[:idx], c.list[idx+1:]...)
	c.gen++
	c.mu.Unlock()

	if err := c.api.Delete(ctx, id); err != nil {
		c.restore(snapshot)
		log.Printf("[WARN] delete todo %d failed, reverted: %v", id, err)
		return err
	}
	return nil
}

// Move handles a completed drag: the item at from is moved to to, the
// whole list is renumbered 0..N-1 and submitted as one bulk reorder.
// On failure the optimistic order is discarded and the authoritative
// list is re-fetched; reconstructing the old position assignment
// locally is not reliable once positions were renumbered.
func (c *Controller) Move(ctx context.Context, from, to int) error {
	c.mu.Lock()
	if from < 0 || from >= len(c.list) || to < 0 || to >= len(c.list) {
		c.mu.Unlock()
		return fmt.Errorf("move: index out of range (from=%d, to=%d, len=%d)", from, to, len(c.list))
	}
	if from == to {
		c.mu.Unlock()
		return nil
	}

	moved := c.list[from]
	c.list = append(c.list[:from], c.list[from+1:]...)
	c.list = append(c.list[:to], append([]todos.Todo{moved}, c.list[to:]...)...)

	entries := make([]todos.PositionEntry, len(c.list))
	for i := range c.list {
		c.list[i].Position = i
		entries[i] = todos.PositionEntry{ID: c.list[i].ID, Position: i}
	}
	c.gen++
	c.mu.Unlock()

	if err := c.api.Reorder(ctx, entries); err != nil {
		log.Printf("[WARN] reorder failed, re-fetching: %v", err)
		if lerr := c.refetch(ctx); lerr != nil {
			log.Printf("[WARN] re-fetch after failed reorder: %v", lerr)
		}
		return err
	}
	return nil
}

func (c *Controller) indexOf(id int) int {
	for i := range c.list {
		if c.list[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) restore(snapshot []todos.Todo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = snapshot
	c.gen++
}

// refetch replaces the local list unconditionally, unlike Load: the
// optimistic state is known to be wrong at this point.
func (c *Controller) refetch(ctx context.Context) error {
	fetched, err := c.api.List(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = fetched
	c.gen++
	return nil
}

// Filter names one of the list views.
type Filter string

const (
	FilterAll         Filter = "All"
	FilterOverdue     Filter = "Overdue"
	FilterDueToday    Filter = "Due Today"
	FilterDueTomorrow Filter = "Due Tomorrow"
	FilterUpcoming    Filter = "Upcoming"
	FilterCompleted   Filter = "Completed"
)

// Filters lists the selectable views in display order.
var Filters = []Filter{
	FilterAll, FilterOverdue, FilterDueToday, FilterDueTomorrow, FilterUpcoming, FilterCompleted,
}

var filterStyles = map[Filter]string{
	FilterOverdue:     status.StyleOverdue,
	FilterDueToday:    status.StyleToday,
	FilterDueTomorrow: status.StyleTomorrow,
	FilterUpcoming:    status.StyleUpcoming,
	FilterCompleted:   status.StyleCompleted,
}

// Filtered derives a view from the local list without mutating it.
// Every filter except All and Completed implicitly means "not
// completed and matches status", so a finished task only shows up
// under All and Completed.
func (c *Controller) Filtered(f Filter) []todos.Todo {
	list := c.Todos()
	if f == FilterAll {
		return list
	}

	want := filterStyles[f]
	now := c.now()

	var result []todos.Todo
	for _, t := range list {
		st := status.Classify(t.DueTime(), t.IsCompleted, now)
		if st.Style == want {
			result = append(result, t)
		}
	}
	return result
}

// SortForDisplay orders a view for the due-date-sorted variant:
// completed tasks last, then earlier due dates first, undated tasks
// after dated ones. The sort is stable, so manual order breaks ties.
func SortForDisplay(list []todos.Todo) []todos.Todo {
	sorted := append([]todos.Todo(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.IsCompleted != b.IsCompleted {
			return !a.IsCompleted
		}
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return false
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		}
		return a.DueDate.Before(b.DueDate.Time)
	})
	return sorted
}
