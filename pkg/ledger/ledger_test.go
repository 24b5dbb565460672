package ledger

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"toodone/pkg/store"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := store.EnsureSchema(db, store.DriverSQLite); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return New(db, store.DriverSQLite)
}

func TestStartTwiceFailsWithAlreadyRunning(t *testing.T) {
	l := newTestLedger(t)

	if err := l.Start(1); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := l.Start(1); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second start: err = %v, want ErrAlreadyRunning", err)
	}

	// A different task can still start.
	if err := l.Start(2); err != nil {
		t.Fatalf("start other task: %v", err)
	}
}

func TestStopWithoutStartFailsWithNotRunning(t *testing.T) {
	l := newTestLedger(t)

	if err := l.Stop(1); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("stop without start: err = %v, want ErrNotRunning", err)
	}
}

func TestStopTwiceFailsWithNotRunning(t *testing.T) {
	l := newTestLedger(t)

	if err := l.Start(1); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := l.Stop(1); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := l.Stop(1); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("second stop: err = %v, want ErrNotRunning", err)
	}
}

func TestTotalDurationSumsClosedIntervals(t *testing.T) {
	l := newTestLedger(t)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := base
	l.Now = func() time.Time { return now }

	// 25 minute session.
	if err := l.Start(1); err != nil {
		t.Fatalf("start: %v", err)
	}
	now = base.Add(25 * time.Minute)
	if err := l.Stop(1); err != nil {
		t.Fatalf("stop: %v", err)
	}

	// 5 minute session after a break.
	now = base.Add(time.Hour)
	if err := l.Start(1); err != nil {
		t.Fatalf("restart: %v", err)
	}
	now = base.Add(time.Hour + 5*time.Minute)
	if err := l.Stop(1); err != nil {
		t.Fatalf("stop again: %v", err)
	}

	total, err := l.TotalDuration(1)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 30*time.Minute {
		t.Errorf("total = %v, want 30m", total)
	}
}

func TestTotalDurationIncludesOpenSession(t *testing.T) {
	l := newTestLedger(t)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := base
	l.Now = func() time.Time { return now }

	if err := l.Start(1); err != nil {
		t.Fatalf("start: %v", err)
	}
	now = base.Add(10 * time.Minute)

	total, err := l.TotalDuration(1)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 10*time.Minute {
		t.Errorf("total = %v, want 10m", total)
	}
}

func TestRunningListsOpenSessions(t *testing.T) {
	l := newTestLedger(t)

	if err := l.Start(1); err != nil {
		t.Fatalf("start 1: %v", err)
	}
	if err := l.Start(2); err != nil {
		t.Fatalf("start 2: %v", err)
	}
	if err := l.Stop(1); err != nil {
		t.Fatalf("stop 1: %v", err)
	}

	running, err := l.Running()
	if err != nil {
		t.Fatalf("running: %v", err)
	}
	if len(running) != 1 || running[0].TaskID != 2 {
		t.Fatalf("running = %v, want only task 2", running)
	}
	if !running[0].Running() {
		t.Error("open entry not reported as running")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{59 * time.Second, "00:00:59"},
		{90 * time.Minute, "01:30:00"},
		{25*time.Hour + 5*time.Second, "25:00:05"},
		{-time.Minute, "00:00:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
