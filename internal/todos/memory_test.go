package todos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDefaults(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Create(ctx, "write report", nil)
	require.NoError(t, err)

	assert.Equal(t, "write report", created.Text)
	assert.False(t, created.IsCompleted)
	assert.Nil(t, created.DueDate)
	// New tasks start at position 0, they are NOT appended at the
	// end of the list.
	assert.Equal(t, 0, created.Position)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateEmptyTextRejected(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Create(ctx, "", nil)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 0, store.Len(), "collection must be unchanged")
}

func TestCreateWithDueDate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	due := NewDate(2024, time.June, 15)

	created, err := store.Create(ctx, "pay rent", &due)
	require.NoError(t, err)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, "2024-06-15", created.DueDate.String())
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a, err := store.Create(ctx, "a", nil)
	require.NoError(t, err)
	b, err := store.Create(ctx, "b", nil)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, a.ID))
	c, err := store.Create(ctx, "c", nil)
	require.NoError(t, err)

	// Ids are never reused, even after a delete.
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
	assert.NotEqual(t, b.ID, c.ID)
}

func TestUpdatePartial(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	due := NewDate(2024, time.June, 15)
	created, err := store.Create(ctx, "old text", &due)
	require.NoError(t, err)

	completed := true
	updated, err := store.Update(ctx, created.ID, Patch{IsCompleted: &completed})
	require.NoError(t, err)

	assert.True(t, updated.IsCompleted)
	assert.Equal(t, "old text", updated.Text, "omitted field must be unchanged")
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, "2024-06-15", updated.DueDate.String())
	assert.Equal(t, created.ID, updated.ID)
}

func TestUpdateClearDueDate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	due := NewDate(2024, time.June, 15)
	created, err := store.Create(ctx, "task", &due)
	require.NoError(t, err)

	updated, err := store.Update(ctx, created.ID, Patch{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestUpdateIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	created, err := store.Create(ctx, "initial", nil)
	require.NoError(t, err)

	text := "x"
	first, err := store.Update(ctx, created.ID, Patch{Text: &text})
	require.NoError(t, err)
	second, err := store.Update(ctx, created.ID, Patch{Text: &text})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestUpdateMissing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	text := "x"
	_, err := store.Update(ctx, 42, Patch{Text: &text})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateEmptyTextRejected(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	created, err := store.Create(ctx, "keep me", nil)
	require.NoError(t, err)

	empty := ""
	_, err = store.Update(ctx, created.ID, Patch{Text: &empty})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestDeleteMissing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_, err := store.Create(ctx, "survivor", nil)
	require.NoError(t, err)

	err = store.Delete(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, store.Len(), "collection must be unchanged")
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	created, err := store.Create(ctx, "doomed", nil)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, created.ID))
	assert.Equal(t, 0, store.Len())

	err = store.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound, "hard delete, second attempt fails")
}

func TestRepositionThenListByPosition(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var ids []int
	for _, text := range []string{"first", "second", "third"} {
		created, err := store.Create(ctx, text, nil)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	err := store.Reposition(ctx, []PositionEntry{
		{ID: ids[2], Position: 0},
		{ID: ids[0], Position: 1},
		{ID: ids[1], Position: 2},
	})
	require.NoError(t, err)

	list, err := store.List(ctx, OrderByPosition)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{ids[2], ids[0], ids[1]}, []int{list[0].ID, list[1].ID, list[2].ID})
}

func TestRepositionSkipsUnknownIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	created, err := store.Create(ctx, "only one", nil)
	require.NoError(t, err)

	err = store.Reposition(ctx, []PositionEntry{
		{ID: 9999, Position: 0},
		{ID: created.ID, Position: 5},
	})
	require.NoError(t, err)

	list, err := store.List(ctx, OrderByPosition)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].Position)
}

func TestListByPositionStableForTies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// All three stay at the default position 0, so creation order
	// decides.
	var ids []int
	for _, text := range []string{"a", "b", "c"} {
		created, err := store.Create(ctx, text, nil)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	list, err := store.List(ctx, OrderByPosition)
	require.NoError(t, err)
	assert.Equal(t, ids, []int{list[0].ID, list[1].ID, list[2].ID})
}

func TestListByDueDateNullsLast(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	later := NewDate(2024, time.July, 1)
	earlier := NewDate(2024, time.June, 1)

	undated, err := store.Create(ctx, "undated", nil)
	require.NoError(t, err)
	late, err := store.Create(ctx, "late", &later)
	require.NoError(t, err)
	early, err := store.Create(ctx, "early", &earlier)
	require.NoError(t, err)

	list, err := store.List(ctx, OrderByDueDate)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{early.ID, late.ID, undated.ID}, []int{list[0].ID, list[1].ID, list[2].ID})
}

func TestStoreUnavailableIsRetryableClass(t *testing.T) {
	// The taxonomy hinges on errors.As/Is distinguishing the three
	// classes; make sure wrapping keeps that intact.
	inner := errors.New("connection refused")
	err := error(&StoreUnavailableError{Op: "list", Err: inner})

	var unavailable *StoreUnavailableError
	assert.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, err, inner)

	var vErr *ValidationError
	assert.False(t, errors.As(err, &vErr))
	assert.False(t, errors.Is(err, ErrNotFound))
}
