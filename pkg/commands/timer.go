package commands

import (
	"errors"
	"fmt"
	"os"

	"toodone/pkg/ledger"
	"toodone/pkg/store"
)

// HandleStartTimer processes the --start command
func HandleStartTimer(st *store.Store, ldg *ledger.Ledger, taskID int64) {
	task, err := st.Get(taskID)
	if err != nil {
		fmt.Printf("Error loading task %d: %v\n", taskID, err)
		os.Exit(1)
	}

	if err := ldg.Start(taskID); err != nil {
		if errors.Is(err, ledger.ErrAlreadyRunning) {
			fmt.Printf("Timer for task %d is already running\n", taskID)
			os.Exit(1)
		}
		fmt.Printf("Error starting timer: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Started timer for task %d: %s\n", taskID, task.Title)
}

// HandleStopTimer processes the --stop command
func HandleStopTimer(st *store.Store, ldg *ledger.Ledger, taskID int64) {
	task, err := st.Get(taskID)
	if err != nil {
		fmt.Printf("Error loading task %d: %v\n", taskID, err)
		os.Exit(1)
	}

	if err := ldg.Stop(taskID); err != nil {
		if errors.Is(err, ledger.ErrNotRunning) {
			fmt.Printf("No running timer for task %d\n", taskID)
			os.Exit(1)
		}
		fmt.Printf("Error stopping timer: %v\n", err)
		os.Exit(1)
	}

	total, err := ldg.TotalDuration(taskID)
	if err != nil {
		fmt.Printf("Error computing total: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Stopped timer for task %d: %s\n", taskID, task.Title)
	fmt.Printf("Total tracked: %s\n", ledger.FormatDuration(total))
}

// HandleTimeReport processes the --report command, printing tracked time
// per task.
func HandleTimeReport(st *store.Store, ldg *ledger.Ledger) {
	tasks, err := st.Query("")
	if err != nil {
		fmt.Printf("Error loading tasks: %v\n", err)
		os.Exit(1)
	}

	running, err := ldg.Running()
	if err != nil {
		fmt.Printf("Error loading running timers: %v\n", err)
		os.Exit(1)
	}
	runningByTask := make(map[int64]bool, len(running))
	for _, e := range running {
		runningByTask[e.TaskID] = true
	}

	var any bool
	for _, task := range tasks {
		total, err := ldg.TotalDuration(task.ID)
		if err != nil {
			fmt.Printf("Error computing total for task %d: %v\n", task.ID, err)
			os.Exit(1)
		}
		if total == 0 && !runningByTask[task.ID] {
			continue
		}

		marker := ""
		if runningByTask[task.ID] {
			marker = " (running)"
		}
		fmt.Printf("%4d  %s  %s%s\n", task.ID, ledger.FormatDuration(total), task.Title, marker)
		any = true
	}

	if !any {
		fmt.Println("No tracked time yet.")
	}
}
