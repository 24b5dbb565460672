package todoist

import (
	"time"

	"toodone/pkg/store"
)

// Project is a Todoist project.
type Project struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	IsInboxProject bool   `json:"is_inbox_project"`
}

// Due is the due object attached to a remote task.
type Due struct {
	Date     string `json:"date"`               // YYYY-MM-DD
	Datetime string `json:"datetime,omitempty"` // RFC3339, optional
}

// Task is a Todoist task as returned by the REST v2 API.
type Task struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Content     string `json:"content"`
	Description string `json:"description"`
	IsCompleted bool   `json:"is_completed"`
	Priority    int    `json:"priority"` // 1..4, 4 is urgent
	Due         *Due   `json:"due"`
	URL         string `json:"url"`
}

// NewTask is the payload for creating a remote task.
type NewTask struct {
	Content     string `json:"content"`
	Description string `json:"description,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	Priority    int    `json:"priority,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	DueDatetime string `json:"due_datetime,omitempty"`
}

// DueTime parses the remote due object. The zero time means no due date.
func (t Task) DueTime() time.Time {
	if t.Due == nil {
		return time.Time{}
	}
	if t.Due.Datetime != "" {
		if parsed, err := time.Parse(time.RFC3339, t.Due.Datetime); err == nil {
			return parsed
		}
	}
	if t.Due.Date != "" {
		if parsed, err := time.Parse("2006-01-02", t.Due.Date); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Todoist priorities run 1..4 with 4 the most urgent; local priorities run
// 1..5 with 1 the highest.

func toLocalPriority(remote int) int {
	switch remote {
	case 4:
		return store.PriorityHighest
	case 3:
		return 2
	case 2:
		return store.PriorityDefault
	default:
		return 4
	}
}

func toRemotePriority(local int) int {
	switch local {
	case store.PriorityHighest:
		return 4
	case 2:
		return 3
	case store.PriorityDefault:
		return 2
	default:
		return 1
	}
}
