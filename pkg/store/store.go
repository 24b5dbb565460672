package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"toodone/pkg/utils"
)

// Store is the durable task store. All mutations serialize on one mutex so
// the scheduler's sweep and the interactive surface never interleave a
// read-then-write pair, and every mutation bumps the revision counter the
// scheduler uses for incremental sweeps.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	driver string
	rev    uint64
}

// Open connects to the database, ensures the schema and returns a Store.
func Open(driver, dsn string) (*Store, error) {
	db, err := Connect(driver, dsn)
	if err != nil {
		return nil, err
	}
	return New(db, driver)
}

// New wraps an existing connection. The revision counter resumes from the
// highest revision recorded in the table.
func New(db *sql.DB, driver string) (*Store, error) {
	if err := EnsureSchema(db, driver); err != nil {
		return nil, ioErr("ensure schema", err)
	}

	s := &Store{db: db, driver: driver}
	var maxRev sql.NullInt64
	if err := db.QueryRow("SELECT MAX(rev) FROM tasks").Scan(&maxRev); err != nil {
		return nil, ioErr("read revision", err)
	}
	if maxRev.Valid {
		s.rev = uint64(maxRev.Int64)
	}
	return s, nil
}

// DB exposes the underlying connection for read-only display queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Revision returns the current revision counter.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}

// Create inserts a new task and returns its id.
func (s *Store) Create(task Task) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.Priority < PriorityHighest || task.Priority > PriorityLowest {
		task.Priority = PriorityDefault
	}

	rev := s.rev + 1
	query := rebind(s.driver, `INSERT INTO tasks (done, title, description, priority, created, lastmodified, duedate, projects, contexts, remoteid, rev)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP, ?, ?, ?, ?, ?)`)
	args := []interface{}{
		task.Done,
		task.Title,
		task.Description,
		task.Priority,
		dueParam(task),
		strings.Join(task.Projects, ","),
		strings.Join(task.Contexts, ","),
		task.RemoteID,
		rev,
	}

	var id int64
	if s.driver == DriverPostgres {
		if err := s.db.QueryRow(query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, ioErr("create", err)
		}
	} else {
		res, err := s.db.Exec(query, args...)
		if err != nil {
			return 0, ioErr("create", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, ioErr("create", err)
		}
	}

	s.rev = rev
	utils.Log("Created task %d (rev %d)", id, rev)
	return id, nil
}

// Update replaces the mutable fields of an existing task.
func (s *Store) Update(id int64, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.Priority < PriorityHighest || task.Priority > PriorityLowest {
		task.Priority = PriorityDefault
	}

	rev := s.rev + 1
	res, err := s.db.Exec(
		rebind(s.driver, `UPDATE tasks SET done = ?, title = ?, description = ?, priority = ?, lastmodified = CURRENT_TIMESTAMP, duedate = ?, projects = ?, contexts = ?, remoteid = ?, rev = ?
		 WHERE id = ?`),
		task.Done,
		task.Title,
		task.Description,
		task.Priority,
		dueParam(task),
		strings.Join(task.Projects, ","),
		strings.Join(task.Contexts, ","),
		task.RemoteID,
		rev,
		id,
	)
	if err != nil {
		return ioErr("update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	s.rev = rev
	utils.Log("Updated task %d (rev %d)", id, rev)
	return nil
}

// SetDone updates only the completion flag of a task. Completing a task
// cancels its pending reminder on the next sweep.
func (s *Store) SetDone(id int64, done bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rev := s.rev + 1
	res, err := s.db.Exec(
		rebind(s.driver, "UPDATE tasks SET done = ?, lastmodified = CURRENT_TIMESTAMP, rev = ? WHERE id = ?"),
		done, rev, id,
	)
	if err != nil {
		return ioErr("set done", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	s.rev = rev
	return nil
}

// Delete removes a task and its subtasks. Time entries referencing it are
// kept for historical reporting.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rev := s.rev + 1
	res, err := s.db.Exec(rebind(s.driver, "DELETE FROM tasks WHERE id = ?"), id)
	if err != nil {
		return ioErr("delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if _, err := s.db.Exec(rebind(s.driver, "DELETE FROM subtasks WHERE task_id = ?"), id); err != nil {
		return ioErr("delete", err)
	}

	// A delete is a mutation too: the scheduler notices the revision moved
	// and re-checks its tracked reminders.
	s.rev = rev
	utils.Log("Deleted task %d (rev %d)", id, rev)
	return nil
}

// Get returns a single task by id.
func (s *Store) Get(id int64) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(rebind(s.driver, selectColumns+" FROM tasks WHERE id = ?"), id)
	if err != nil {
		return Task{}, ioErr("get", err)
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return Task{}, ioErr("get", err)
	}
	if len(tasks) == 0 {
		return Task{}, ErrNotFound
	}
	return tasks[0], nil
}

// Query retrieves tasks matching the where clause, ordered by due timestamp
// ascending with tasks lacking a due date last.
func (s *Store) Query(whereClause string) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryLocked(whereClause)
}

func (s *Store) queryLocked(whereClause string) ([]Task, error) {
	query := selectColumns + " FROM tasks"
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += " ORDER BY CASE WHEN duedate IS NULL THEN 1 ELSE 0 END, duedate ASC, id ASC"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, ioErr("query", err)
	}
	defer rows.Close()

	items, err := scanTasks(rows)
	if err != nil {
		return nil, ioErr("query", err)
	}

	utils.Log("Loaded %d tasks from database", len(items))
	return items, nil
}

// ChangedSince returns every task mutated after the given revision together
// with the store's current revision. The scheduler feeds its last seen
// revision in and avoids rescanning the whole table each sweep.
func (s *Store) ChangedSince(rev uint64) ([]Task, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rev >= s.rev {
		return nil, s.rev, nil
	}

	rows, err := s.db.Query(rebind(s.driver, selectColumns+" FROM tasks WHERE rev > ?"), rev)
	if err != nil {
		return nil, s.rev, ioErr("changed since", err)
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, s.rev, ioErr("changed since", err)
	}
	return tasks, s.rev, nil
}

// Purge deletes all tasks matching the where clause and returns the count.
func (s *Store) Purge(whereClause string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := "DELETE FROM tasks"
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	res, err := s.db.Exec(query)
	if err != nil {
		return 0, ioErr("purge", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.rev++
	}
	return n, nil
}

const selectColumns = "SELECT id, done, title, description, priority, created, lastmodified, duedate, projects, contexts, remoteid"

func scanTasks(rows *sql.Rows) ([]Task, error) {
	var items []Task

	for rows.Next() {
		var item Task
		var dueDate sql.NullTime
		var description sql.NullString
		var remoteID sql.NullString
		var projectsStr sql.NullString
		var contextsStr sql.NullString

		if err := rows.Scan(
			&item.ID,
			&item.Done,
			&item.Title,
			&description,
			&item.Priority,
			&item.Created,
			&item.LastModified,
			&dueDate,
			&projectsStr,
			&contextsStr,
			&remoteID,
		); err != nil {
			return nil, err
		}

		if dueDate.Valid {
			item.DueDate = dueDate.Time
		}
		item.Description = description.String
		item.RemoteID = remoteID.String
		item.Projects = splitTags(projectsStr.String)
		item.Contexts = splitTags(contextsStr.String)

		items = append(items, item)
	}
	return items, rows.Err()
}

// splitTags parses a comma-separated tag column
func splitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func dueParam(task Task) interface{} {
	if !task.HasDue() {
		return nil
	}
	return task.DueDate.UTC()
}

// BuildWhereClause builds a SQL where clause based on view mode, task filter,
// and search term, rendered in the given driver's dialect.
func BuildWhereClause(driver string, viewMode ViewMode, taskFilter TaskFilter, viewDate string, searchTerm string) string {
	var whereClause string

	// First, set up the viewMode and taskFilter parts of the where clause
	switch viewMode {
	case AllViewMode:
		// In AllViewMode, initially no date filter
		whereClause = ""

		switch taskFilter {
		case AllTasksFilter:
			// No additional filter needed for all tasks
		case DoneTasksFilter:
			whereClause = "done = " + BoolLiteral(driver, true)
		case UndoneTasksFilter:
			whereClause = "done = " + BoolLiteral(driver, false)
		}

	case TodayViewMode:
		// Show tasks for specific date
		whereClause = DateEquals(driver, "duedate", viewDate)

		switch taskFilter {
		case AllTasksFilter:
			// No additional filter needed for all tasks
		case DoneTasksFilter:
			whereClause = whereClause + " AND done = " + BoolLiteral(driver, true)
		case UndoneTasksFilter:
			whereClause = whereClause + " AND done = " + BoolLiteral(driver, false)
		}
	}

	// Finally, add search term filter if one is set
	if searchTerm != "" {
		var searchClause string

		// Check if searching for project with +project syntax
		if strings.HasPrefix(searchTerm, "+") && len(searchTerm) > 1 {
			projectName := searchTerm[1:]
			searchClause = fmt.Sprintf("(projects LIKE '%%%s%%' OR description LIKE '%%%s%%')",
				projectName, searchTerm)
		} else if strings.HasPrefix(searchTerm, "@") && len(searchTerm) > 1 {
			// Check if searching for context with @context syntax
			contextName := searchTerm[1:]
			searchClause = fmt.Sprintf("(contexts LIKE '%%%s%%' OR description LIKE '%%%s%%')",
				contextName, searchTerm)
		} else {
			// Regular search in title or description
			searchClause = fmt.Sprintf("(title LIKE '%%%s%%' OR description LIKE '%%%s%%')",
				searchTerm, searchTerm)
		}

		if whereClause == "" {
			whereClause = searchClause
		} else {
			whereClause = whereClause + " AND " + searchClause
		}
	}

	utils.Log("Built where clause: %s", whereClause)
	return whereClause
}

// GetByRemoteID returns the task mapped to a remote (Todoist) id.
func (s *Store) GetByRemoteID(remoteID string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(rebind(s.driver, selectColumns+" FROM tasks WHERE remoteid = ?"), remoteID)
	if err != nil {
		return Task{}, ioErr("get by remote id", err)
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return Task{}, ioErr("get by remote id", err)
	}
	if len(tasks) == 0 {
		return Task{}, ErrNotFound
	}
	return tasks[0], nil
}

// CountDueOn returns how many tasks are due on the given YYYY-MM-DD day.
func (s *Store) CountDueOn(day string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	query := "SELECT COUNT(*) FROM tasks WHERE " + DateEquals(s.driver, "duedate", day)
	if err := s.db.QueryRow(query).Scan(&count); err != nil {
		return 0, ioErr("count due", err)
	}
	return count, nil
}

// DueDaysInRange returns the days of month with at least one task due
// between start and end (YYYY-MM-DD, inclusive). The calendar view shades
// these days.
func (s *Store) DueDaysInRange(start, end string) (map[int]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dayExpr := "strftime('%d', duedate)"
	rangeClause := fmt.Sprintf("date(duedate) BETWEEN date('%s') AND date('%s')", start, end)
	if s.driver == DriverPostgres {
		dayExpr = "to_char(duedate, 'DD')"
		rangeClause = fmt.Sprintf("duedate::date BETWEEN '%s'::date AND '%s'::date", start, end)
	}

	rows, err := s.db.Query(fmt.Sprintf("SELECT DISTINCT %s FROM tasks WHERE %s", dayExpr, rangeClause))
	if err != nil {
		return nil, ioErr("due days", err)
	}
	defer rows.Close()

	days := make(map[int]bool)
	for rows.Next() {
		var dayStr string
		if err := rows.Scan(&dayStr); err != nil {
			return nil, ioErr("due days", err)
		}
		day, err := strconv.Atoi(dayStr)
		if err != nil {
			continue
		}
		days[day] = true
	}
	return days, rows.Err()
}

// Overdue returns undone tasks whose due timestamp is before now.
func (s *Store) Overdue(now time.Time) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		rebind(s.driver, selectColumns+" FROM tasks WHERE done = "+BoolLiteral(s.driver, false)+" AND duedate IS NOT NULL AND duedate < ? ORDER BY duedate ASC"),
		now.UTC(),
	)
	if err != nil {
		return nil, ioErr("overdue", err)
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, ioErr("overdue", err)
	}
	return tasks, nil
}
