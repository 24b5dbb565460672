package cli

import (
	"flag"

	"toodone/pkg/commands"
	"toodone/pkg/ledger"
	"toodone/pkg/store"
)

// Args represents parsed command line arguments
type Args struct {
	ConfigPath string
	Verbose    bool

	// Task operations
	AddTask      string
	DateFlag     string
	PriorityFlag int

	// Timer operations
	StartTimer int64
	StopTimer  int64
	ReportFlag bool

	// Database operations
	DatabaseCmd string
	ProjectFlag string
	YesFlag     bool
	DoneFlag    bool
	UndoneFlag  bool

	// Import/Export operations
	ImportFile string
	ExportFile string
	TypeFlag   string

	// Sync and background operations
	SyncFlag  bool
	WatchFlag bool
}

// ParseArgs parses command line arguments and returns Args struct
func ParseArgs() *Args {
	args := &Args{}

	// Define command line flags
	flag.StringVar(&args.ConfigPath, "config", "", "Path to configuration file")
	flag.BoolVar(&args.Verbose, "verbose", false, "Enable verbose logging")

	// Task operations
	flag.StringVar(&args.AddTask, "add", "", "Add a new task")
	flag.StringVar(&args.DateFlag, "date", "", "Date for task (YYYY-MM-DD format)")
	flag.IntVar(&args.PriorityFlag, "priority", store.PriorityDefault, "Priority for task (1 highest .. 5 lowest)")

	// Timer operations
	flag.Int64Var(&args.StartTimer, "start", 0, "Start the timer for a task id")
	flag.Int64Var(&args.StopTimer, "stop", 0, "Stop the timer for a task id")
	flag.BoolVar(&args.ReportFlag, "report", false, "Print tracked time per task")

	// Database operations
	flag.StringVar(&args.DatabaseCmd, "database", "", "Database command (purge)")
	flag.StringVar(&args.ProjectFlag, "project", "", "Filter by project")
	flag.BoolVar(&args.YesFlag, "yes", false, "Skip confirmation")
	flag.BoolVar(&args.DoneFlag, "done", false, "Filter done tasks")
	flag.BoolVar(&args.UndoneFlag, "undone", false, "Filter undone tasks")

	// Import/Export operations
	flag.StringVar(&args.ImportFile, "import", "", "Import tasks from file")
	flag.StringVar(&args.ExportFile, "export", "", "Export tasks to file")
	flag.StringVar(&args.TypeFlag, "type", "json", "Export file type (json, txt)")

	// Sync and background operations
	flag.BoolVar(&args.SyncFlag, "sync", false, "Sync tasks with Todoist")
	flag.BoolVar(&args.WatchFlag, "watch", false, "Run the reminder scheduler without the UI")

	flag.Parse()
	return args
}

// HandleCommands processes CLI commands and returns true if a command was handled
func HandleCommands(st *store.Store, ldg *ledger.Ledger, todoistToken string, args *Args) bool {
	// Check for CLI commands
	if args.AddTask != "" {
		commands.HandleAddTask(st, args.AddTask, args.DateFlag, args.PriorityFlag)
		return true
	}

	if args.StartTimer != 0 {
		commands.HandleStartTimer(st, ldg, args.StartTimer)
		return true
	}

	if args.StopTimer != 0 {
		commands.HandleStopTimer(st, ldg, args.StopTimer)
		return true
	}

	if args.ReportFlag {
		commands.HandleTimeReport(st, ldg)
		return true
	}

	if args.DatabaseCmd != "" {
		commands.HandleDatabaseCommand(st, args.DatabaseCmd, args.DateFlag, args.ProjectFlag, args.YesFlag, args.DoneFlag, args.UndoneFlag)
		return true
	}

	if args.ImportFile != "" {
		commands.HandleImportCommand(st, args.ImportFile)
		return true
	}

	if args.ExportFile != "" {
		commands.HandleExportCommand(st, args.ExportFile, args.TypeFlag)
		return true
	}

	if args.SyncFlag {
		commands.HandleSyncCommand(st, todoistToken)
		return true
	}

	// No CLI command was handled
	return false
}
