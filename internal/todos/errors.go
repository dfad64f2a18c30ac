package todos

import (
	"errors"
	"fmt"
)

// ErrNotFound means the referenced id does not resolve to a task.
// Callers must not retry; the id is simply gone or never existed.
var ErrNotFound = errors.New("todo not found")

// ValidationError marks bad client input (missing or malformed
// required fields). Never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// StoreUnavailableError wraps a failure of the underlying datastore.
// This is the only error class a caller may reasonably retry.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}
