package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"toodone/pkg/config"
	"toodone/pkg/ledger"
	"toodone/pkg/store"
)

// loadTasks retrieves and displays tasks based on current filters
func (m *Model) loadTasks() {
	// Build where clause using the store package function
	dateStr := m.viewDate.Format("2006-01-02")
	whereClause := store.BuildWhereClause(m.store.Driver(), m.viewMode, m.taskFilter, dateStr, m.searchTerm)

	// Load the tasks with the combined where clause
	items, err := m.store.Query(whereClause)
	if err != nil {
		m.err = err
		return
	}

	m.items = items

	// Refresh subtask completion counts for the rendered rows
	summary, err := m.store.SubtaskSummary()
	if err != nil {
		m.err = err
		return
	}
	m.subtaskStats = summary

	// Apply grouping and sorting
	groupedTasks := m.GroupTasks(items)
	tableRows := []table.Row{}

	for _, group := range groupedTasks {
		// Add group header if grouping is enabled
		if m.groupBy != store.GroupByNone {
			groupHeader := fmt.Sprintf("== %s ==", group.GroupName)
			tableRows = append(tableRows, table.Row{
				lipgloss.NewStyle().
					Bold(true).
					Foreground(lipgloss.Color(m.styles.AccentColor)).
					Render(groupHeader),
			})
		}

		// Add tasks in the group
		for _, item := range group.Tasks {
			tableRows = append(tableRows, table.Row{m.renderTaskRow(item)})
		}

		// Add empty line between groups
		if m.groupBy != store.GroupByNone && len(groupedTasks) > 1 {
			tableRows = append(tableRows, table.Row{""})
		}
	}

	m.table.SetRows(tableRows)
}

// renderTaskRow renders one task line: status, priority, text, timer.
func (m *Model) renderTaskRow(item store.Task) string {
	status := "[ ]"
	if item.Done {
		status = "[x]"
	}

	displayText := item.Description
	if item.Title != "" {
		displayText = item.Title
	}

	priority := ""
	if item.Priority != 0 && item.Priority != store.PriorityDefault {
		priority = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.styles.AccentColor)).
			Render(fmt.Sprintf("(%d) ", item.Priority))
	}

	highlightedText := highlightProjectsAndContexts(displayText, m.styles)

	checklist := ""
	if stats, ok := m.subtaskStats[item.ID]; ok && stats.Total > 0 {
		checklist = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.styles.NormalTextColor)).
			Render(fmt.Sprintf(" [%d/%d]", stats.Done, stats.Total))
	}

	timer := ""
	if startedAt, ok := m.runningTimers[item.ID]; ok {
		timer = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.styles.TimerColor)).
			Render(fmt.Sprintf(" [%s]", ledger.FormatDuration(time.Since(startedAt))))
	}

	return fmt.Sprintf("%s %s%s%s%s", status, priority, highlightedText, checklist, timer)
}

// refreshRunningTimers reloads open timer sessions from the ledger.
func (m *Model) refreshRunningTimers() {
	running, err := m.ledger.Running()
	if err != nil {
		m.err = err
		return
	}

	m.runningTimers = make(map[int64]time.Time, len(running))
	for _, e := range running {
		m.runningTimers[e.TaskID] = e.StartedAt
	}
}

// For backward compatibility
func (m *Model) loadTodaysTasks() {
	m.viewDate = time.Now()
	m.viewMode = store.TodayViewMode
	m.loadTasks()
}

// findPrevDayWithTasks finds the previous day that has tasks and updates viewDate
func (m *Model) findPrevDayWithTasks() {
	// Start from the day before current viewDate
	startDate := m.viewDate.AddDate(0, 0, -1)

	// Store original filter to restore it later
	originalFilter := m.taskFilter

	// Set filter to show all tasks to make sure we find any task
	m.taskFilter = store.AllTasksFilter

	// Keep looking back one day at a time until we find a day with tasks
	// We'll limit the search to a year back to avoid infinite loops
	for i := 0; i < 365; i++ {
		testDate := startDate.AddDate(0, 0, -i)
		dateStr := testDate.Format("2006-01-02")

		// Ask the store whether any task is due on this date
		count, err := m.store.CountDueOn(dateStr)
		if err != nil {
			m.err = err
			break
		}

		// If we found tasks for this date, update viewDate and load the tasks
		if count > 0 {
			m.viewDate = testDate
			m.loadTasks()

			// Restore original filter
			m.taskFilter = originalFilter
			m.loadTasks()
			return
		}
	}

	// If no day with tasks was found, just restore the filter
	m.taskFilter = originalFilter
	m.loadTasks()
}

// findNextDayWithTasks finds the next day that has tasks and updates viewDate
func (m *Model) findNextDayWithTasks() {
	// Start from the day after current viewDate
	startDate := m.viewDate.AddDate(0, 0, 1)

	// Store original filter to restore it later
	originalFilter := m.taskFilter

	// Set filter to show all tasks to make sure we find any task
	m.taskFilter = store.AllTasksFilter

	// Keep looking forward one day at a time until we find a day with tasks
	// We'll limit the search to a year ahead to avoid infinite loops
	for i := 0; i < 365; i++ {
		testDate := startDate.AddDate(0, 0, i)
		dateStr := testDate.Format("2006-01-02")

		// Ask the store whether any task is due on this date
		count, err := m.store.CountDueOn(dateStr)
		if err != nil {
			m.err = err
			break
		}

		// If we found tasks for this date, update viewDate and load the tasks
		if count > 0 {
			m.viewDate = testDate
			m.loadTasks()

			// Restore original filter
			m.taskFilter = originalFilter
			m.loadTasks()
			return
		}
	}

	// If no day with tasks was found, just restore the filter
	m.taskFilter = originalFilter
	m.loadTasks()
}

// focusNextInput cycles through the form inputs
func (m *Model) focusNextInput() {
	m.activeInput = (m.activeInput + 1) % 4
	m.applyInputFocus()
}

// focusPreviousInput cycles through the form inputs
func (m *Model) focusPreviousInput() {
	m.activeInput = (m.activeInput + 3) % 4
	m.applyInputFocus()
}

func (m *Model) applyInputFocus() {
	m.titleInput.Blur()
	m.descInput.Blur()
	m.dueDateInput.Blur()
	m.priorityInput.Blur()

	switch m.activeInput {
	case 0:
		m.titleInput.Focus()
	case 1:
		m.descInput.Focus()
	case 2:
		m.dueDateInput.Focus()
	case 3:
		m.priorityInput.Focus()
	}
}

// submitForm processes the form data based on the current mode
func (m *Model) submitForm() {
	title := strings.TrimSpace(m.titleInput.Value())
	desc := strings.TrimSpace(m.descInput.Value())
	dueDate := strings.TrimSpace(m.dueDateInput.Value())
	priorityStr := strings.TrimSpace(m.priorityInput.Value())

	// Parse projects and contexts from title and description
	projects := parseProjects(title)
	projects = append(projects, parseProjects(desc)...)
	contexts := parseContexts(title)
	contexts = append(contexts, parseContexts(desc)...)

	// Parse due date
	var parsedDueDate time.Time
	var err error
	if dueDate != "" {
		parsedDueDate, err = parseFormDate(dueDate)
		if err != nil {
			m.err = fmt.Errorf("invalid date format: use YYYY-MM-DD or YYYY-MM-DD HH:MM")
			return
		}
	} else {
		// Default to current views date if no date provided
		parsedDueDate = m.viewDate
	}

	// Parse priority, default when blank
	priority := store.PriorityDefault
	if priorityStr != "" {
		priority, err = strconv.Atoi(priorityStr)
		if err != nil || priority < store.PriorityHighest || priority > store.PriorityLowest {
			m.err = fmt.Errorf("invalid priority: use 1 (highest) to 5 (lowest)")
			return
		}
	}

	switch m.mode {
	case AddMode:
		// Create new task with the collected data
		task := store.Task{
			Done:        false,
			DueDate:     parsedDueDate,
			Title:       title,
			Description: desc,
			Priority:    priority,
			Projects:    projects,
			Contexts:    contexts,
		}

		// Insert new task using the store function
		_, err := m.store.Create(task)
		if err != nil {
			m.err = err
		} else {
			m.loadTodaysTasks()
		}

	case EditMode:
		if m.editingItem != nil {
			// Update task with new values
			m.editingItem.Title = title
			m.editingItem.Description = desc
			m.editingItem.DueDate = parsedDueDate
			m.editingItem.Priority = priority
			m.editingItem.Projects = projects
			m.editingItem.Contexts = contexts

			// Update using the store function
			err := m.store.Update(m.editingItem.ID, *m.editingItem)
			if err != nil {
				m.err = err
			} else {
				m.loadTodaysTasks()
			}
		}
	}

	// Reset state
	m.mode = NormalMode
	m.resetInputs()
	m.editingItem = nil
}

// parseFormDate accepts a date with or without a time component.
func parseFormDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseProjects extracts all project tags (prefixed with +) from the description
func parseProjects(description string) []string {
	var projects []string
	words := strings.Fields(description)

	for _, word := range words {
		if strings.HasPrefix(word, "+") && len(word) > 1 {
			project := word[1:] // Remove the + prefix
			projects = append(projects, project)
		}
	}

	return projects
}

// parseContexts extracts all context tags (prefixed with @) from the description
func parseContexts(description string) []string {
	var contexts []string
	words := strings.Fields(description)

	for _, word := range words {
		if strings.HasPrefix(word, "@") && len(word) > 1 {
			context := word[1:] // Remove the @ prefix
			contexts = append(contexts, context)
		}
	}

	return contexts
}

// highlightProjectsAndContexts highlights project and context tags in text
func highlightProjectsAndContexts(text string, styles config.Styles) string {
	// Split the text into words
	words := strings.Fields(text)
	var result strings.Builder

	// Process each word
	for i, word := range words {
		if i > 0 {
			result.WriteString(" ") // Add space between words
		}

		// Check if word is a project tag (+project)
		if strings.HasPrefix(word, "+") && len(word) > 1 {
			// Highlight project with a different color (green)
			result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(styles.ProjectColor)).Render(word))
		} else if strings.HasPrefix(word, "@") && len(word) > 1 {
			// Highlight context with a different color (blue)
			result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(styles.ContextColor)).Render(word))
		} else {
			// Regular word, no highlighting
			result.WriteString(word)
		}
	}

	return result.String()
}
