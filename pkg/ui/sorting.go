package ui

import (
	"fmt"
	"sort"
	"strings"

	"toodone/pkg/store"
)

// GroupedTasks represents tasks grouped by a common attribute
type GroupedTasks struct {
	GroupName string
	Tasks     []store.Task
}

// SortTasks sorts tasks based on the specified criteria
func (m *Model) SortTasks(tasks []store.Task) []store.Task {
	sortedTasks := make([]store.Task, len(tasks))
	copy(sortedTasks, tasks)

	sort.Slice(sortedTasks, func(i, j int) bool {
		var result bool

		switch m.sortBy {
		case store.SortByTitle:
			result = strings.ToLower(sortedTasks[i].Title) < strings.ToLower(sortedTasks[j].Title)
		case store.SortByDescription:
			result = strings.ToLower(sortedTasks[i].Description) < strings.ToLower(sortedTasks[j].Description)
		case store.SortByDueDate:
			result = dueBefore(sortedTasks[i], sortedTasks[j])
		case store.SortByPriority:
			result = sortedTasks[i].Priority < sortedTasks[j].Priority // 1 is highest
		case store.SortByCreated:
			result = sortedTasks[i].Created.Before(sortedTasks[j].Created)
		case store.SortByStatus:
			result = !sortedTasks[i].Done && sortedTasks[j].Done // Undone first
		case store.SortByProject:
			proj1 := getFirstProject(sortedTasks[i])
			proj2 := getFirstProject(sortedTasks[j])
			result = strings.ToLower(proj1) < strings.ToLower(proj2)
		}

		if m.sortOrder == store.SortDesc {
			result = !result
		}
		return result
	})

	return sortedTasks
}

// dueBefore orders by due date ascending with undated tasks last.
func dueBefore(a, b store.Task) bool {
	if !a.HasDue() {
		return false
	}
	if !b.HasDue() {
		return true
	}
	return a.DueDate.Before(b.DueDate)
}

// GroupTasks groups tasks based on the specified criteria
func (m *Model) GroupTasks(tasks []store.Task) []GroupedTasks {
	if m.groupBy == store.GroupByNone {
		return []GroupedTasks{{GroupName: "", Tasks: m.SortTasks(tasks)}}
	}

	groups := make(map[string][]store.Task)

	for _, task := range tasks {
		var groupKey string

		switch m.groupBy {
		case store.GroupByProject:
			groupKey = getFirstProject(task)
			if groupKey == "" {
				groupKey = "No Project"
			} else {
				groupKey = "+" + groupKey
			}

		case store.GroupByContext:
			groupKey = getFirstContext(task)
			if groupKey == "" {
				groupKey = "No Context"
			} else {
				groupKey = "@" + groupKey
			}

		case store.GroupByDueDateDaily:
			groupKey = task.DueDate.Format("2006-01-02")

		case store.GroupByDueDateWeekly:
			year, week := task.DueDate.ISOWeek()
			groupKey = fmt.Sprintf("Week %d, %d", week, year)

		case store.GroupByDueDateMonthly:
			groupKey = task.DueDate.Format("January 2006")

		case store.GroupByDueDateYearly:
			groupKey = task.DueDate.Format("2006")
		}

		groups[groupKey] = append(groups[groupKey], task)
	}

	// Convert map to sorted slice
	var result []GroupedTasks
	var groupNames []string
	for name := range groups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	for _, name := range groupNames {
		result = append(result, GroupedTasks{
			GroupName: name,
			Tasks:     m.SortTasks(groups[name]),
		})
	}

	return result
}

// Helper functions
func getFirstProject(task store.Task) string {
	if len(task.Projects) > 0 {
		return task.Projects[0]
	}
	return ""
}

func getFirstContext(task store.Task) string {
	if len(task.Contexts) > 0 {
		return task.Contexts[0]
	}
	return ""
}
