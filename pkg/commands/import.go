package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"toodone/pkg/store"
)

// taskSchema validates JSON imports before any row is written.
const taskSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["title"],
    "properties": {
      "title": {"type": "string", "minLength": 1},
      "description": {"type": "string"},
      "done": {"type": "boolean"},
      "priority": {"type": "integer", "minimum": 1, "maximum": 5},
      "due": {"type": "string"},
      "projects": {"type": "array", "items": {"type": "string"}},
      "contexts": {"type": "array", "items": {"type": "string"}}
    },
    "additionalProperties": false
  }
}`

type importedTask struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Done        bool     `json:"done"`
	Priority    int      `json:"priority"`
	Due         string   `json:"due"`
	Projects    []string `json:"projects"`
	Contexts    []string `json:"contexts"`
}

// HandleImportCommand processes --import commands. JSON files are validated
// against a schema first; anything else is treated as the plain text format.
func HandleImportCommand(st *store.Store, filename string) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		os.Exit(1)
	}

	var tasksAdded int
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		tasksAdded, err = importJSON(st, content)
	} else {
		tasksAdded, err = importText(st, content)
	}
	if err != nil {
		fmt.Printf("Error importing tasks: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d task(s) from %s\n", tasksAdded, filename)
}

func importJSON(st *store.Store, content []byte) (int, error) {
	schema, err := jsonschema.CompileString("tasks.json", taskSchema)
	if err != nil {
		return 0, fmt.Errorf("compile schema: %w", err)
	}

	var raw interface{}
	if err := json.Unmarshal(content, &raw); err != nil {
		return 0, fmt.Errorf("parse json: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return 0, fmt.Errorf("validate json: %w", err)
	}

	var imported []importedTask
	if err := json.Unmarshal(content, &imported); err != nil {
		return 0, err
	}

	var added int
	for _, it := range imported {
		task := store.Task{
			Done:        it.Done,
			Title:       it.Title,
			Description: it.Description,
			Priority:    it.Priority,
			Projects:    it.Projects,
			Contexts:    it.Contexts,
		}
		if task.Priority == 0 {
			task.Priority = store.PriorityDefault
		}
		if it.Due != "" {
			due, err := parseDueDate(it.Due)
			if err != nil {
				return added, err
			}
			task.DueDate = due
		}
		if _, err := st.Create(task); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func importText(st *store.Store, content []byte) (int, error) {
	lines := strings.Split(string(content), "\n")
	var currentDate time.Time
	var tasksAdded int

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Check if line contains a date (DD.MM.YYYY: or YYYY-MM-DD: format)
		dateRegex := regexp.MustCompile(`(?:(\d{2})\.(\d{2})\.(\d{4})|(\d{4})-(\d{2})-(\d{2})):?`)
		if dateMatch := dateRegex.FindStringSubmatch(line); dateMatch != nil && !strings.HasPrefix(line, "-") {
			var day, month, year int
			if dateMatch[1] != "" {
				day, _ = strconv.Atoi(dateMatch[1])
				month, _ = strconv.Atoi(dateMatch[2])
				year, _ = strconv.Atoi(dateMatch[3])
			} else {
				year, _ = strconv.Atoi(dateMatch[4])
				month, _ = strconv.Atoi(dateMatch[5])
				day, _ = strconv.Atoi(dateMatch[6])
			}
			currentDate = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			continue
		}

		// Check if line is a task (starts with -)
		if strings.HasPrefix(line, "- ") {
			taskText := strings.TrimPrefix(line, "- ")
			if taskText == "" {
				continue
			}

			done := false
			if strings.HasPrefix(taskText, "[x]") {
				done = true
				taskText = strings.TrimSpace(strings.TrimPrefix(taskText, "[x]"))
			} else if strings.HasPrefix(taskText, "[ ]") {
				taskText = strings.TrimSpace(strings.TrimPrefix(taskText, "[ ]"))
			}

			// Extract projects and contexts
			projects := extractProjects(taskText)
			contexts := extractContexts(taskText)

			// Clean title
			title := removeProjectTags(taskText)
			title = removeContextTags(title)

			task := store.Task{
				Done:        done,
				Title:       title,
				Description: taskText,
				Priority:    store.PriorityDefault,
				DueDate:     currentDate,
				Projects:    projects,
				Contexts:    contexts,
			}

			if _, err := st.Create(task); err != nil {
				fmt.Printf("Error adding task '%s': %v\n", title, err)
				continue
			}
			tasksAdded++
		}
	}

	return tasksAdded, nil
}
