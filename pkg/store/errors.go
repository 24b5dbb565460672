package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation references a missing task.
var ErrNotFound = errors.New("task not found")

// IOError wraps a persistence layer failure. The operation that hit it
// failed, but in-memory state (revision counter, tracked reminders) is
// unchanged.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

func ioErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Err: err}
}
