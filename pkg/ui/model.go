package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"toodone/pkg/config"
	"toodone/pkg/keymaps"
	"toodone/pkg/ledger"
	"toodone/pkg/store"
)

// InputMode represents the current input mode
type InputMode int

const (
	NormalMode InputMode = iota
	AddMode
	EditMode
	DeleteConfirmMode
	SearchMode   // Mode for searching tasks
	HelpViewMode // Mode for displaying help
)

// tickMsg drives the periodic refresh of running timer displays.
type tickMsg time.Time

// Model represents the application state
type Model struct {
	table         table.Model
	items         []store.Task
	store         *store.Store
	ledger        *ledger.Ledger
	showCommands  bool
	width, height int
	err           error

	// Configuration
	config config.Config
	styles config.Styles
	keyMap keymaps.KeyMap

	// View state
	viewMode   store.ViewMode
	taskFilter store.TaskFilter
	viewDate   time.Time
	searchTerm string

	// Running timers by task id, refreshed on every tick
	runningTimers map[int64]time.Time

	// Subtask completion counts by task id, refreshed with the task list
	subtaskStats map[int64]store.SubtaskStats

	// Form state
	mode          InputMode
	titleInput    textinput.Model
	descInput     textinput.Model
	dueDateInput  textinput.Model
	priorityInput textinput.Model
	searchInput   textinput.Model
	activeInput   int

	// Edit/delete state
	editingItem *store.Task

	// Sorting and grouping state
	sortBy    store.SortBy
	groupBy   store.GroupBy
	sortOrder store.SortOrder

	calendarMonth       time.Time
	calendarSelectedDay int // Selected day in calendar view (1-31)
}

// NewModel creates a new UI model with the provided configuration
func NewModel(st *store.Store, ldg *ledger.Ledger, cfg config.Config, styles config.Styles) Model {
	// Create an empty column - the title will be empty to avoid showing a header
	columns := []table.Column{
		{Title: "", Width: 60},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	// Set table styles using the loaded styles
	s := table.DefaultStyles()
	// Remove the header border and styling to make it invisible
	s.Header = s.Header.
		BorderStyle(lipgloss.HiddenBorder()). // Hidden border
		BorderBottom(false).                  // No border at bottom
		Bold(false).                          // Not bold
		Foreground(lipgloss.NoColor{})        // No color (transparent)

	s.Selected = s.Selected.
		Foreground(lipgloss.Color(styles.SelectedTextColor)).
		Background(lipgloss.Color(styles.SelectedBgColor)).
		Bold(true)
	t.SetStyles(s)

	// Initialize text inputs
	titleInput := textinput.New()
	titleInput.Placeholder = "Title (you can include +project and @context tags)"
	titleInput.Focus()
	titleInput.Width = 40

	descInput := textinput.New()
	descInput.Placeholder = "Description"
	descInput.Width = 40

	// Initialize due date input with today's date as default
	dueDateInput := textinput.New()
	dueDateInput.Placeholder = "Due Date (YYYY-MM-DD or YYYY-MM-DD HH:MM, optional)"
	dueDateInput.Width = 40
	dueDateInput.SetValue(time.Now().Format("2006-01-02"))

	// Initialize priority input
	priorityInput := textinput.New()
	priorityInput.Placeholder = "Priority (1 highest .. 5 lowest)"
	priorityInput.Width = 40
	priorityInput.CharLimit = 1

	// Initialize search input
	searchInput := textinput.New()
	searchInput.Placeholder = "Search tasks (you can use +project or @context)"
	searchInput.Focus()
	searchInput.Width = 40

	m := Model{
		table:               t,
		store:               st,
		ledger:              ldg,
		config:              cfg,
		styles:              styles,
		keyMap:              keymaps.BuildKeyMap(cfg.KeyMap),
		showCommands:        false,
		mode:                NormalMode,
		titleInput:          titleInput,
		descInput:           descInput,
		dueDateInput:        dueDateInput,
		priorityInput:       priorityInput,
		searchInput:         searchInput,
		activeInput:         0,
		viewMode:            store.TodayViewMode,  // Default view mode shows today's tasks
		taskFilter:          store.AllTasksFilter, // Default to showing all tasks (both done and undone)
		viewDate:            time.Now(),
		searchTerm:          "", // Initialize empty search term
		runningTimers:       make(map[int64]time.Time),
		subtaskStats:        make(map[int64]store.SubtaskStats),
		calendarMonth:       time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.Now().Location()),
		calendarSelectedDay: time.Now().Day(), // Initialize to today's day
	}

	// Load initial data
	m.refreshRunningTimers()
	m.loadTodaysTasks()

	return m
}

// Init initializes the model (required by Bubble Tea Model interface)
func (m Model) Init() tea.Cmd {
	return tickEvery()
}

// tickEvery schedules the next timer display refresh.
func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// resetInputs clears all form inputs
func (m *Model) resetInputs() {
	m.titleInput.Reset()
	m.descInput.Reset()
	m.dueDateInput.SetValue(m.viewDate.Format("2006-01-02"))
	m.priorityInput.SetValue("")

	m.activeInput = 0
	m.titleInput.Focus()
	m.descInput.Blur()
	m.dueDateInput.Blur()
	m.priorityInput.Blur()
}
