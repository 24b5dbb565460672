package store

import (
	"database/sql"

	"toodone/pkg/utils"
)

// Subtask is a checklist item under a parent task. Subtasks carry no due
// timestamp of their own and never fire reminders.
type Subtask struct {
	ID     int64  `db:"id"`
	TaskID int64  `db:"task_id"`
	Title  string `db:"title"`
	Done   bool   `db:"done"`
}

// SubtaskStats summarizes subtask completion for one task.
type SubtaskStats struct {
	Done  int
	Total int
}

// AddSubtask appends a checklist item to an existing task. The parent's
// revision moves so incremental consumers see the change.
func (s *Store) AddSubtask(taskID int64, title string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Touch the parent first: a missing task rejects the insert before any
	// orphan row is written.
	if err := s.touchTaskLocked(taskID); err != nil {
		return 0, err
	}

	query := rebind(s.driver, "INSERT INTO subtasks (task_id, title, done) VALUES (?, ?, ?)")
	args := []interface{}{taskID, title, false}

	var id int64
	if s.driver == DriverPostgres {
		if err := s.db.QueryRow(query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, ioErr("add subtask", err)
		}
	} else {
		res, err := s.db.Exec(query, args...)
		if err != nil {
			return 0, ioErr("add subtask", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, ioErr("add subtask", err)
		}
	}

	utils.Log("Added subtask %d to task %d", id, taskID)
	return id, nil
}

// DeleteSubtask removes a single checklist item.
func (s *Store) DeleteSubtask(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	taskID, err := s.subtaskParentLocked(id)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(rebind(s.driver, "DELETE FROM subtasks WHERE id = ?"), id); err != nil {
		return ioErr("delete subtask", err)
	}
	return s.touchTaskLocked(taskID)
}

// ToggleSubtask flips a checklist item's completion flag and returns the
// new state.
func (s *Store) ToggleSubtask(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var taskID int64
	var done bool
	err := s.db.QueryRow(rebind(s.driver, "SELECT task_id, done FROM subtasks WHERE id = ?"), id).Scan(&taskID, &done)
	if err == sql.ErrNoRows {
		return false, ErrNotFound
	}
	if err != nil {
		return false, ioErr("toggle subtask", err)
	}

	if _, err := s.db.Exec(rebind(s.driver, "UPDATE subtasks SET done = ? WHERE id = ?"), !done, id); err != nil {
		return false, ioErr("toggle subtask", err)
	}
	if err := s.touchTaskLocked(taskID); err != nil {
		return false, err
	}
	return !done, nil
}

// Subtasks lists a task's checklist items in insertion order.
func (s *Store) Subtasks(taskID int64) ([]Subtask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(rebind(s.driver, "SELECT id, task_id, title, done FROM subtasks WHERE task_id = ? ORDER BY id ASC"), taskID)
	if err != nil {
		return nil, ioErr("subtasks", err)
	}
	defer rows.Close()

	var items []Subtask
	for rows.Next() {
		var st Subtask
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Title, &st.Done); err != nil {
			return nil, ioErr("subtasks", err)
		}
		items = append(items, st)
	}
	return items, rows.Err()
}

// SubtaskSummary returns per-task completion counts for every task that has
// subtasks, in one query.
func (s *Store) SubtaskSummary() (map[int64]SubtaskStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT task_id, COUNT(*), SUM(CASE WHEN done THEN 1 ELSE 0 END) FROM subtasks GROUP BY task_id")
	if err != nil {
		return nil, ioErr("subtask summary", err)
	}
	defer rows.Close()

	summary := make(map[int64]SubtaskStats)
	for rows.Next() {
		var taskID int64
		var stats SubtaskStats
		if err := rows.Scan(&taskID, &stats.Total, &stats.Done); err != nil {
			return nil, ioErr("subtask summary", err)
		}
		summary[taskID] = stats
	}
	return summary, rows.Err()
}

// touchTaskLocked bumps the parent task's revision and modification time.
// Returns ErrNotFound when the task is missing, which also rejects subtask
// writes against deleted parents.
func (s *Store) touchTaskLocked(taskID int64) error {
	rev := s.rev + 1
	res, err := s.db.Exec(
		rebind(s.driver, "UPDATE tasks SET lastmodified = CURRENT_TIMESTAMP, rev = ? WHERE id = ?"),
		rev, taskID,
	)
	if err != nil {
		return ioErr("touch task", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.rev = rev
	return nil
}

func (s *Store) subtaskParentLocked(id int64) (int64, error) {
	var taskID int64
	err := s.db.QueryRow(rebind(s.driver, "SELECT task_id FROM subtasks WHERE id = ?"), id).Scan(&taskID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, ioErr("subtask parent", err)
	}
	return taskID, nil
}
