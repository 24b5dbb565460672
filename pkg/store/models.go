package store

import (
	"time"
)

// Task represents a single task record
type Task struct {
	ID           int64     `db:"id"`
	Done         bool      `db:"done"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Priority     int       `db:"priority"`
	Created      time.Time `db:"created"`
	LastModified time.Time `db:"lastmodified"`
	DueDate      time.Time `db:"duedate"` // zero value means no due date
	Projects     []string  `db:"projects"`
	Contexts     []string  `db:"contexts"`
	RemoteID     string    `db:"remoteid"` // Todoist task id, empty when unsynced
}

// HasDue reports whether the task carries a due timestamp.
func (t Task) HasDue() bool {
	return !t.DueDate.IsZero()
}

// Priority bounds. 1 is the highest priority, 5 the lowest.
const (
	PriorityHighest = 1
	PriorityDefault = 3
	PriorityLowest  = 5
)

// ViewMode represents the current view mode for tasks
type ViewMode int

const (
	TodayViewMode ViewMode = iota // Default - show tasks for today
	AllViewMode                   // Show all tasks (no date filter)
	CalendarViewMode
)

// TaskFilter represents the current task filter mode
type TaskFilter int

const (
	AllTasksFilter    TaskFilter = iota // Show all tasks regardless of status
	DoneTasksFilter                     // Show only completed tasks
	UndoneTasksFilter                   // Show only uncompleted tasks
)

// SortBy represents the attribute tasks are sorted by
type SortBy int

const (
	SortByDueDate SortBy = iota
	SortByTitle
	SortByDescription
	SortByPriority
	SortByCreated
	SortByStatus
	SortByProject
)

// SortOrder represents ascending or descending sort direction
type SortOrder int

const (
	SortAsc SortOrder = iota
	SortDesc
)

// GroupBy represents the attribute tasks are grouped by
type GroupBy int

const (
	GroupByNone GroupBy = iota
	GroupByProject
	GroupByContext
	GroupByDueDateDaily
	GroupByDueDateWeekly
	GroupByDueDateMonthly
	GroupByDueDateYearly
)
