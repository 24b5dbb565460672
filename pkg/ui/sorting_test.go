package ui

import (
	"testing"
	"time"

	"toodone/pkg/store"
)

func TestSortByDueDateUndatedLast(t *testing.T) {
	m := &Model{sortBy: store.SortByDueDate, sortOrder: store.SortAsc}

	tasks := []store.Task{
		{ID: 1, Title: "no due"},
		{ID: 2, Title: "later", DueDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 3, Title: "sooner", DueDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
	}

	sorted := m.SortTasks(tasks)
	if sorted[0].ID != 3 || sorted[1].ID != 2 || sorted[2].ID != 1 {
		t.Errorf("order = [%d %d %d], want [3 2 1]", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
}

func TestSortByPriorityHighestFirst(t *testing.T) {
	m := &Model{sortBy: store.SortByPriority, sortOrder: store.SortAsc}

	tasks := []store.Task{
		{ID: 1, Priority: 5},
		{ID: 2, Priority: 1},
		{ID: 3, Priority: 3},
	}

	sorted := m.SortTasks(tasks)
	if sorted[0].ID != 2 || sorted[1].ID != 3 || sorted[2].ID != 1 {
		t.Errorf("order = [%d %d %d], want [2 3 1]", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
}

func TestSortByStatusUndoneFirst(t *testing.T) {
	m := &Model{sortBy: store.SortByStatus, sortOrder: store.SortAsc}

	tasks := []store.Task{
		{ID: 1, Done: true},
		{ID: 2, Done: false},
	}

	sorted := m.SortTasks(tasks)
	if sorted[0].ID != 2 {
		t.Errorf("undone task not first: %v", sorted)
	}
}

func TestGroupByProject(t *testing.T) {
	m := &Model{groupBy: store.GroupByProject, sortBy: store.SortByDueDate}

	tasks := []store.Task{
		{ID: 1, Projects: []string{"home"}},
		{ID: 2, Projects: []string{"work"}},
		{ID: 3},
		{ID: 4, Projects: []string{"home"}},
	}

	groups := m.GroupTasks(tasks)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	// Group names sort alphabetically: +home, +work, No Project.
	if groups[0].GroupName != "+home" || len(groups[0].Tasks) != 2 {
		t.Errorf("first group = %q with %d tasks", groups[0].GroupName, len(groups[0].Tasks))
	}
	if groups[2].GroupName != "No Project" {
		t.Errorf("last group = %q", groups[2].GroupName)
	}
}

func TestParseProjectsAndContexts(t *testing.T) {
	projects := parseProjects("fix sink +home +diy urgently")
	if len(projects) != 2 || projects[0] != "home" || projects[1] != "diy" {
		t.Errorf("projects = %v", projects)
	}

	contexts := parseContexts("call plumber @phone")
	if len(contexts) != 1 || contexts[0] != "phone" {
		t.Errorf("contexts = %v", contexts)
	}

	if got := parseProjects("nothing tagged"); len(got) != 0 {
		t.Errorf("projects = %v, want none", got)
	}
}
