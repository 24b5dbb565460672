package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := New(db, DriverSQLite)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t)

	due := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	id, err := s.Create(Task{
		Title:       "write report +work @office",
		Description: "quarterly numbers",
		Priority:    2,
		DueDate:     due,
		Projects:    []string{"work"},
		Contexts:    []string{"office"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatal("create returned zero id")
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "write report +work @office" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Priority != 2 {
		t.Errorf("priority = %d, want 2", got.Priority)
	}
	if !got.DueDate.Equal(due) {
		t.Errorf("due = %v, want %v", got.DueDate, due)
	}
	if len(got.Projects) != 1 || got.Projects[0] != "work" {
		t.Errorf("projects = %v", got.Projects)
	}
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Get(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing task: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(42, Task{Title: "nope"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing task: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	s := newTestStore(t)

	if err := s.Delete(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing task: err = %v, want ErrNotFound", err)
	}
}

func TestCreateClampsPriority(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Create(Task{Title: "no priority set"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Priority != PriorityDefault {
		t.Errorf("priority = %d, want default %d", got.Priority, PriorityDefault)
	}
}

func TestQueryOrdersByDueWithUndatedLast(t *testing.T) {
	s := newTestStore(t)

	later := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	sooner := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	idLater, _ := s.Create(Task{Title: "later", DueDate: later})
	idNone, _ := s.Create(Task{Title: "no due"})
	idSooner, _ := s.Create(Task{Title: "sooner", DueDate: sooner})

	tasks, err := s.Query("")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(tasks))
	}
	if tasks[0].ID != idSooner || tasks[1].ID != idLater || tasks[2].ID != idNone {
		t.Errorf("order = [%d %d %d], want [%d %d %d]",
			tasks[0].ID, tasks[1].ID, tasks[2].ID, idSooner, idLater, idNone)
	}
}

func TestRevisionAdvancesOnEveryMutation(t *testing.T) {
	s := newTestStore(t)

	rev0 := s.Revision()

	id, err := s.Create(Task{Title: "a"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	rev1 := s.Revision()
	if rev1 <= rev0 {
		t.Fatalf("revision after create = %d, want > %d", rev1, rev0)
	}

	if err := s.SetDone(id, true); err != nil {
		t.Fatalf("set done: %v", err)
	}
	rev2 := s.Revision()
	if rev2 <= rev1 {
		t.Fatalf("revision after set done = %d, want > %d", rev2, rev1)
	}

	if err := s.Delete(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if s.Revision() <= rev2 {
		t.Fatalf("revision after delete = %d, want > %d", s.Revision(), rev2)
	}
}

func TestChangedSinceReturnsOnlyMutatedTasks(t *testing.T) {
	s := newTestStore(t)

	idA, _ := s.Create(Task{Title: "a"})
	idB, _ := s.Create(Task{Title: "b"})

	_, rev, err := s.ChangedSince(0)
	if err != nil {
		t.Fatalf("changed since 0: %v", err)
	}

	if err := s.SetDone(idB, true); err != nil {
		t.Fatalf("set done: %v", err)
	}

	changed, newRev, err := s.ChangedSince(rev)
	if err != nil {
		t.Fatalf("changed since %d: %v", rev, err)
	}
	if newRev <= rev {
		t.Fatalf("revision did not advance: %d -> %d", rev, newRev)
	}
	if len(changed) != 1 || changed[0].ID != idB {
		t.Fatalf("changed = %v, want only task %d", changed, idB)
	}
	if changed[0].ID == idA {
		t.Error("unmutated task reported as changed")
	}

	// Caught up: nothing further to report.
	changed, _, err = s.ChangedSince(newRev)
	if err != nil {
		t.Fatalf("changed since %d: %v", newRev, err)
	}
	if len(changed) != 0 {
		t.Fatalf("changed = %v, want empty", changed)
	}
}

func TestRevisionResumesAcrossReopen(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:revresume?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	s, err := New(db, DriverSQLite)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := s.Create(Task{Title: "a"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	rev := s.Revision()

	reopened, err := New(db, DriverSQLite)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	if reopened.Revision() != rev {
		t.Fatalf("resumed revision = %d, want %d", reopened.Revision(), rev)
	}
}

func TestGetByRemoteID(t *testing.T) {
	s := newTestStore(t)

	id, _ := s.Create(Task{Title: "synced", RemoteID: "rem-1"})

	got, err := s.GetByRemoteID("rem-1")
	if err != nil {
		t.Fatalf("get by remote id: %v", err)
	}
	if got.ID != id {
		t.Errorf("id = %d, want %d", got.ID, id)
	}

	if _, err := s.GetByRemoteID("rem-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unmapped remote id: err = %v, want ErrNotFound", err)
	}
}

func TestOverdue(t *testing.T) {
	s := newTestStore(t)

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	idPast, _ := s.Create(Task{Title: "past", DueDate: past})
	s.Create(Task{Title: "future", DueDate: future})
	idDone, _ := s.Create(Task{Title: "past done", DueDate: past, Done: true})
	_ = idDone

	overdue, err := s.Overdue(now)
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if len(overdue) != 1 || overdue[0].ID != idPast {
		t.Fatalf("overdue = %v, want only task %d", overdue, idPast)
	}
}

func TestBuildWhereClause(t *testing.T) {
	tests := []struct {
		name       string
		driver     string
		viewMode   ViewMode
		taskFilter TaskFilter
		search     string
		want       string
	}{
		{"all no filter", DriverSQLite, AllViewMode, AllTasksFilter, "", ""},
		{"all done only", DriverSQLite, AllViewMode, DoneTasksFilter, "", "done = 1"},
		{"all undone only", DriverSQLite, AllViewMode, UndoneTasksFilter, "", "done = 0"},
		{"today", DriverSQLite, TodayViewMode, AllTasksFilter, "", "date(duedate) = date('2026-03-01')"},
		{"today undone", DriverSQLite, TodayViewMode, UndoneTasksFilter, "", "date(duedate) = date('2026-03-01') AND done = 0"},
		{"project search", DriverSQLite, AllViewMode, AllTasksFilter, "+work", "(projects LIKE '%work%' OR description LIKE '%+work%')"},
		{"context search", DriverSQLite, AllViewMode, AllTasksFilter, "@home", "(contexts LIKE '%home%' OR description LIKE '%@home%')"},
		{"plain search", DriverSQLite, AllViewMode, AllTasksFilter, "report", "(title LIKE '%report%' OR description LIKE '%report%')"},
		{"postgres done only", DriverPostgres, AllViewMode, DoneTasksFilter, "", "done = TRUE"},
		{"postgres today undone", DriverPostgres, TodayViewMode, UndoneTasksFilter, "", "duedate::date = '2026-03-01'::date AND done = FALSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildWhereClause(tt.driver, tt.viewMode, tt.taskFilter, "2026-03-01", tt.search)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUpdateClampsPriority(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Create(Task{Title: "p", Priority: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	task, err := s.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	task.Priority = 9
	if err := s.Update(id, task); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Priority != PriorityDefault {
		t.Errorf("priority = %d, want default %d", got.Priority, PriorityDefault)
	}
}

func TestCountDueOn(t *testing.T) {
	s := newTestStore(t)

	day := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	s.Create(Task{Title: "that day", DueDate: day})
	s.Create(Task{Title: "other day", DueDate: day.AddDate(0, 0, 3)})
	s.Create(Task{Title: "no due"})

	count, err := s.CountDueOn("2026-03-01")
	if err != nil {
		t.Fatalf("count due: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	count, err = s.CountDueOn("2026-03-02")
	if err != nil {
		t.Fatalf("count due: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestDueDaysInRange(t *testing.T) {
	s := newTestStore(t)

	s.Create(Task{Title: "fifth", DueDate: time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)})
	s.Create(Task{Title: "twentieth", DueDate: time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)})
	s.Create(Task{Title: "next month", DueDate: time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)})

	days, err := s.DueDaysInRange("2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("due days: %v", err)
	}
	if len(days) != 2 || !days[5] || !days[20] {
		t.Errorf("days = %v, want {5, 20}", days)
	}
}
