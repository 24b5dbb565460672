package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"toodone/pkg/store"
)

// HandleExportCommand processes --export commands
func HandleExportCommand(st *store.Store, filename, exportType string) {
	// Load all tasks
	tasks, err := st.Query("")
	if err != nil {
		fmt.Printf("Error loading tasks: %v\n", err)
		os.Exit(1)
	}

	// Ensure directory exists
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		os.Exit(1)
	}

	var content []byte

	switch exportType {
	case "json":
		content, err = json.MarshalIndent(exportableTasks(tasks), "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling tasks to JSON: %v\n", err)
			os.Exit(1)
		}
	case "txt":
		var lines []string
		var lastDate string
		for _, task := range tasks {
			dateStr := "no date"
			if task.HasDue() {
				dateStr = task.DueDate.Format("02.01.2006")
			}
			if dateStr != lastDate {
				lines = append(lines, fmt.Sprintf("\n%s:", dateStr))
				lastDate = dateStr
			}

			status := " "
			if task.Done {
				status = "x"
			}
			lines = append(lines, fmt.Sprintf("- [%s] %s", status, task.Description))
		}
		content = []byte(strings.TrimSpace(strings.Join(lines, "\n")))
	default:
		fmt.Printf("Unknown export type: %s\n", exportType)
		os.Exit(1)
	}

	if err := os.WriteFile(filename, content, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully exported %d task(s) to %s\n", len(tasks), filename)
}

// exportableTasks renders tasks in the same shape the JSON importer accepts,
// so an export can round-trip through --import.
func exportableTasks(tasks []store.Task) []importedTask {
	out := make([]importedTask, 0, len(tasks))
	for _, t := range tasks {
		it := importedTask{
			Title:       t.Title,
			Description: t.Description,
			Done:        t.Done,
			Priority:    t.Priority,
			Projects:    t.Projects,
			Contexts:    t.Contexts,
		}
		if t.HasDue() {
			it.Due = t.DueDate.Format("2006-01-02 15:04")
		}
		out = append(out, it)
	}
	return out
}
