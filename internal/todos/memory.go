package todos

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore implements Store with an in-process map. It backs the
// server when no database is configured and the test suites.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[int]Todo
	nextID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:  make(map[int]Todo),
		nextID: 1,
	}
}

func (s *MemoryStore) List(_ context.Context, order ListOrder) ([]Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Todo, 0, len(s.items))
	for _, t := range s.items {
		result = append(result, t)
	}

	// Ties fall back to created_at then id so the order is stable,
	// same as the SQL variant.
	byCreation := func(a, b Todo) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	}

	switch order {
	case OrderByDueDate:
		sort.SliceStable(result, func(i, j int) bool {
			a, b := result[i], result[j]
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return byCreation(a, b)
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			case !a.DueDate.Equal(b.DueDate.Time):
				return a.DueDate.Before(b.DueDate.Time)
			}
			return byCreation(a, b)
		})
	default:
		sort.SliceStable(result, func(i, j int) bool {
			a, b := result[i], result[j]
			if a.Position != b.Position {
				return a.Position < b.Position
			}
			return byCreation(a, b)
		})
	}
	return result, nil
}

func (s *MemoryStore) Create(_ context.Context, text string, due *Date) (Todo, error) {
	if text == "" {
		return Todo{}, &ValidationError{Msg: "text is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := Todo{
		ID:          s.nextID,
		Text:        text,
		IsCompleted: false,
		Position:    0,
		CreatedAt:   time.Now().UTC(),
	}
	if due != nil {
		d := *due
		t.DueDate = &d
	}
	s.nextID++
	s.items[t.ID] = t
	return t, nil
}

func (s *MemoryStore) Update(_ context.Context, id int, patch Patch) (Todo, error) {
	if patch.Text != nil && *patch.Text == "" {
		return Todo{}, &ValidationError{Msg: "text cannot be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.items[id]
	if !ok {
		return Todo{}, ErrNotFound
	}

	if patch.Text != nil {
		t.Text = *patch.Text
	}
	if patch.IsCompleted != nil {
		t.IsCompleted = *patch.IsCompleted
	}
	if patch.ClearDueDate {
		t.DueDate = nil
	} else if patch.DueDate != nil {
		d := *patch.DueDate
		t.DueDate = &d
	}
	if patch.Position != nil {
		t.Position = *patch.Position
	}

	s.items[id] = t
	return t, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) Reposition(_ context.Context, entries []PositionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Pairs for ids that no longer exist are skipped, matching the
	// SQL store's upsert-by-id leniency.
	for _, e := range entries {
		t, ok := s.items[e.ID]
		if !ok {
			continue
		}
		t.Position = e.Position
		s.items[e.ID] = t
	}
	return nil
}

// Len reports the collection size.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
