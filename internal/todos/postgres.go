package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// PostgresStore implements Store over a todos table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const todoColumns = "id, text, is_completed, due_date, position, created_at"

func scanTodo(row interface{ Scan(...any) error }) (Todo, error) {
	var (
		t   Todo
		due sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.Text, &t.IsCompleted, &due, &t.Position, &t.CreatedAt); err != nil {
		return Todo{}, err
	}
	if due.Valid {
		d := DateOf(due.Time)
		t.DueDate = &d
	}
	return t, nil
}

func (s *PostgresStore) List(ctx context.Context, order ListOrder) ([]Todo, error) {
	// Secondary keys keep the order stable when positions or due
	// dates tie.
	orderClause := "position ASC, created_at ASC, id ASC"
	if order == OrderByDueDate {
		orderClause = "due_date ASC NULLS LAST, created_at ASC, id ASC"
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM todos ORDER BY %s`, todoColumns, orderClause,
	))
	if err != nil {
		return nil, &StoreUnavailableError{Op: "list", Err: err}
	}
	defer rows.Close()

	var result []Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, &StoreUnavailableError{Op: "list", Err: err}
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreUnavailableError{Op: "list", Err: err}
	}
	return result, nil
}

func (s *PostgresStore) Create(ctx context.Context, text string, due *Date) (Todo, error) {
	if text == "" {
		return Todo{}, &ValidationError{Msg: "text is required"}
	}

	var dueArg any
	if due != nil {
		dueArg = due.Time
	}

	row := s.db.QueryRowContext(ctx,
		`INSERT INTO todos (text, is_completed, due_date)
         VALUES ($1, FALSE, $2)
         RETURNING `+todoColumns,
		text, dueArg,
	)
	t, err := scanTodo(row)
	if err != nil {
		return Todo{}, &StoreUnavailableError{Op: "create", Err: err}
	}
	return t, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int, patch Patch) (Todo, error) {
	var (
		sets []string
		args []any
	)
	add := func(expr string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
	}

	if patch.Text != nil {
		if *patch.Text == "" {
			return Todo{}, &ValidationError{Msg: "text cannot be empty"}
		}
		add("text=$%d", *patch.Text)
	}
	if patch.IsCompleted != nil {
		add("is_completed=$%d", *patch.IsCompleted)
	}
	if patch.ClearDueDate {
		sets = append(sets, "due_date=NULL")
	} else if patch.DueDate != nil {
		add("due_date=$%d", patch.DueDate.Time)
	}
	if patch.Position != nil {
		add("position=$%d", *patch.Position)
	}

	if len(sets) == 0 {
		// Nothing to change: still report whether the id resolves.
		row := s.db.QueryRowContext(ctx,
			`SELECT `+todoColumns+` FROM todos WHERE id=$1`, id)
		t, err := scanTodo(row)
		if errors.Is(err, sql.ErrNoRows) {
			return Todo{}, ErrNotFound
		}
		if err != nil {
			return Todo{}, &StoreUnavailableError{Op: "update", Err: err}
		}
		return t, nil
	}

	args = append(args, id)
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`UPDATE todos SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), todoColumns,
	), args...)

	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Todo{}, ErrNotFound
	}
	if err != nil {
		return Todo{}, &StoreUnavailableError{Op: "update", Err: err}
	}
	return t, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id=$1`, id)
	if err != nil {
		return &StoreUnavailableError{Op: "delete", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &StoreUnavailableError{Op: "delete", Err: err}
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Reposition(ctx context.Context, entries []PositionEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StoreUnavailableError{Op: "reposition", Err: err}
	}
	defer tx.Rollback()

	// Upsert-by-id semantics: pairs whose id no longer resolves are
	// skipped, the rest are applied in one transaction.
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`UPDATE todos SET position=$1 WHERE id=$2`, e.Position, e.ID,
		); err != nil {
			return &StoreUnavailableError{Op: "reposition", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StoreUnavailableError{Op: "reposition", Err: err}
	}
	return nil
}
