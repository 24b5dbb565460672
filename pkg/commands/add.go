package commands

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"toodone/pkg/store"
)

// HandleAddTask processes the --add command
func HandleAddTask(st *store.Store, taskText string, dateStr string, priority int) {
	// Parse date
	var dueDate time.Time
	var err error

	if dateStr != "" {
		dueDate, err = parseDueDate(dateStr)
		if err != nil {
			fmt.Printf("Error parsing date: %v\n", err)
			os.Exit(1)
		}
	}

	// Extract projects and contexts from task text (+project / @context)
	projects := extractProjects(taskText)
	contexts := extractContexts(taskText)

	// Remove tags from title for clean display
	title := removeProjectTags(taskText)
	title = removeContextTags(title)

	task := store.Task{
		Done:        false,
		Title:       title,
		Description: taskText, // Keep original text in description
		Priority:    priority,
		DueDate:     dueDate,
		Projects:    projects,
		Contexts:    contexts,
	}

	id, err := st.Create(task)
	if err != nil {
		fmt.Printf("Error adding task: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Added task %d: %s\n", id, title)
}

// parseDueDate accepts either a bare date or a date with time.
func parseDueDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, use YYYY-MM-DD or YYYY-MM-DD HH:MM", s)
}

// extractProjects finds all +project tags in text
func extractProjects(text string) []string {
	re := regexp.MustCompile(`\+(\w+)`)
	matches := re.FindAllStringSubmatch(text, -1)
	var projects []string
	for _, match := range matches {
		projects = append(projects, match[1])
	}
	return projects
}

// extractContexts finds all @context tags in text
func extractContexts(text string) []string {
	re := regexp.MustCompile(`@(\w+)`)
	matches := re.FindAllStringSubmatch(text, -1)
	var contexts []string
	for _, match := range matches {
		contexts = append(contexts, match[1])
	}
	return contexts
}

// removeProjectTags removes +project tags from text for clean title
func removeProjectTags(text string) string {
	re := regexp.MustCompile(`\s*\+\w+\s*`)
	return strings.TrimSpace(re.ReplaceAllString(text, " "))
}

// removeContextTags removes @context tags from text for clean title
func removeContextTags(text string) string {
	re := regexp.MustCompile(`\s*@\w+\s*`)
	return strings.TrimSpace(re.ReplaceAllString(text, " "))
}
