package db

import (
	"database/sql"

	_ "github.com/lib/pq"
)

func Connect(connString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the todos table if it does not exist yet.
// Position defaults to 0: new tasks are not appended at the end, they
// stay at 0 until the next bulk reorder renumbers the whole list.
func EnsureSchema(db *sql.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS todos (
		id           SERIAL PRIMARY KEY,
		text         TEXT        NOT NULL,
		is_completed BOOLEAN     NOT NULL DEFAULT FALSE,
		due_date     DATE,
		position     INTEGER     NOT NULL DEFAULT 0,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	_, err := db.Exec(schema)
	return err
}
