// Package notify abstracts the platform notification facility.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Dispatcher delivers a notification for a task. Implementations may block;
// the scheduler issues dispatch off its sweep path.
type Dispatcher interface {
	Notify(taskID int64, title, message string) error
}

// DispatchError marks a delivery failure as retryable: the scheduler leaves
// the reminder due and tries again on the next sweep.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Writer is a Dispatcher that writes notifications to an io.Writer. Used as
// the fallback when no desktop facility is configured, and in tests.
type Writer struct {
	mu sync.Mutex
	W  io.Writer
}

// NewWriter creates a Writer dispatcher.
func NewWriter(w io.Writer) *Writer {
	return &Writer{W: w}
}

// Notify writes a single notification line.
func (d *Writer) Notify(taskID int64, title, message string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := fmt.Fprintf(d.W, "[reminder] task %d: %s - %s\n", taskID, title, message); err != nil {
		return &DispatchError{Err: err}
	}
	return nil
}
