// Package ledger keeps the append-only log of tracked work intervals.
package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"toodone/pkg/utils"
)

// ErrAlreadyRunning is returned by Start when the task already has an open entry.
var ErrAlreadyRunning = errors.New("timer already running for task")

// ErrNotRunning is returned by Stop when the task has no open entry.
var ErrNotRunning = errors.New("no timer running for task")

// Entry is one tracked interval of work against a task. The task reference
// is weak: entries survive task deletion for historical reporting.
type Entry struct {
	ID        int64      `db:"id"`
	TaskID    int64      `db:"task_id"`
	StartedAt time.Time  `db:"started_at"`
	StoppedAt *time.Time `db:"stopped_at"` // nil while the session is running
}

// Running reports whether the entry is an open session.
func (e Entry) Running() bool {
	return e.StoppedAt == nil
}

// Ledger records time entries in the shared database. Mutations serialize on
// its own mutex; the invariant is at most one open entry per task.
type Ledger struct {
	mu     sync.Mutex
	db     *sql.DB
	driver string

	// Now is the clock used for new entries and running durations.
	// Overridable in tests.
	Now func() time.Time
}

// New creates a Ledger on top of an existing connection. The time_entries
// table is expected to exist (store.EnsureSchema creates it).
func New(db *sql.DB, driver string) *Ledger {
	return &Ledger{db: db, driver: driver, Now: time.Now}
}

// rebind converts ? placeholders to $N for postgres.
func (l *Ledger) rebind(query string) string {
	if l.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Start opens a new entry for the task. Fails with ErrAlreadyRunning if an
// open entry exists.
func (l *Ledger) Start(taskID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("ledger start: %w", err)
	}
	defer tx.Rollback()

	var open int
	err = tx.QueryRow(
		l.rebind("SELECT COUNT(*) FROM time_entries WHERE task_id = ? AND stopped_at IS NULL"),
		taskID,
	).Scan(&open)
	if err != nil {
		return fmt.Errorf("ledger start: %w", err)
	}
	if open > 0 {
		return ErrAlreadyRunning
	}

	_, err = tx.Exec(
		l.rebind("INSERT INTO time_entries (task_id, started_at) VALUES (?, ?)"),
		taskID, l.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("ledger start: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ledger start: %w", err)
	}

	utils.Log("Started timer for task %d", taskID)
	return nil
}

// Stop closes the open entry for the task. Fails with ErrNotRunning if no
// entry is open; callers must handle that, it is not silently ignored.
func (l *Ledger) Stop(taskID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, err := l.db.Exec(
		l.rebind("UPDATE time_entries SET stopped_at = ? WHERE task_id = ? AND stopped_at IS NULL"),
		l.Now().UTC(), taskID,
	)
	if err != nil {
		return fmt.Errorf("ledger stop: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ledger stop: %w", err)
	}
	if n == 0 {
		return ErrNotRunning
	}

	utils.Log("Stopped timer for task %d", taskID)
	return nil
}

// TotalDuration sums closed intervals for the task plus the elapsed time of
// an open one.
func (l *Ledger) TotalDuration(taskID int64) (time.Duration, error) {
	entries, err := l.Entries(taskID)
	if err != nil {
		return 0, err
	}

	now := l.Now()
	var total time.Duration
	for _, e := range entries {
		if e.StoppedAt != nil {
			total += e.StoppedAt.Sub(e.StartedAt)
		} else {
			total += now.Sub(e.StartedAt)
		}
	}
	return total, nil
}

// Entries returns all entries for a task, oldest first.
func (l *Ledger) Entries(taskID int64) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.Query(
		l.rebind("SELECT id, task_id, started_at, stopped_at FROM time_entries WHERE task_id = ? ORDER BY started_at ASC"),
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("ledger entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Running returns every open session across all tasks, used to surface
// still-running timers after a restart.
func (l *Ledger) Running() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.Query("SELECT id, task_id, started_at, stopped_at FROM time_entries WHERE stopped_at IS NULL ORDER BY started_at ASC")
	if err != nil {
		return nil, fmt.Errorf("ledger running: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var stopped sql.NullTime
		if err := rows.Scan(&e.ID, &e.TaskID, &e.StartedAt, &stopped); err != nil {
			return nil, err
		}
		if stopped.Valid {
			t := stopped.Time
			e.StoppedAt = &t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FormatDuration formats a duration as HH:MM:SS for display.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Seconds())
	hours, remainder := secs/3600, secs%3600
	return fmt.Sprintf("%02d:%02d:%02d", hours, remainder/60, remainder%60)
}
