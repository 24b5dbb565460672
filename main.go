package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"toodone/pkg/cli"
	"toodone/pkg/config"
	"toodone/pkg/ledger"
	"toodone/pkg/notify"
	"toodone/pkg/scheduler"
	"toodone/pkg/store"
	"toodone/pkg/ui"
	"toodone/pkg/utils"
)

func main() {
	args := cli.ParseArgs()

	utils.InitLogger(args.Verbose)
	defer utils.CloseLogger()

	// Load configuration
	cfg, styles, err := config.Load(args.ConfigPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Open the task store
	st, err := store.Open(cfg.DatabaseDriver, cfg.Database)
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	ldg := ledger.New(st.DB(), cfg.DatabaseDriver)

	// One-shot CLI commands run without the scheduler or the UI
	if cli.HandleCommands(st, ldg, cfg.TodoistToken, args) {
		return
	}

	dispatcher := buildDispatcher(cfg)

	sched := scheduler.New(st, dispatcher, scheduler.Options{
		Lead:     cfg.ReminderLead,
		Interval: cfg.SweepInterval,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sched.Run(ctx)

	if args.WatchFlag {
		runWatch(cancel, sched)
		return
	}

	// Create and run the Bubble Tea program
	p := tea.NewProgram(ui.NewModel(st, ldg, cfg, styles), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	cancel()
	sched.Wait()
}

// buildDispatcher selects the notification backend from the config.
func buildDispatcher(cfg config.Config) notify.Dispatcher {
	switch cfg.Dispatcher {
	case config.DispatcherCommand:
		cmd, err := notify.NewCommand(cfg.NotifyCommand)
		if err != nil {
			fmt.Printf("Error in notify_command: %v\n", err)
			os.Exit(1)
		}
		return cmd
	case config.DispatcherLog:
		return &notify.Writer{W: utils.Logger().StandardLog().Writer()}
	default:
		return notify.NewDesktop()
	}
}

// runWatch keeps the reminder scheduler running headless until interrupted.
func runWatch(cancel context.CancelFunc, sched *scheduler.Scheduler) {
	fmt.Println("Watching for due reminders. Press Ctrl+C to stop.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	cancel()
	sched.Wait()
}
