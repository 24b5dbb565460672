package commands

import (
	"fmt"
	"os"
	"strings"

	"toodone/pkg/store"
)

// HandleDatabaseCommand processes --database commands
func HandleDatabaseCommand(st *store.Store, cmd, dateStr, projectStr string, skipConfirm, doneOnly, undoneOnly bool) {
	if cmd != "purge" {
		fmt.Printf("Unknown database command: %s\n", cmd)
		os.Exit(1)
	}

	// Build where clause for deletion in the store's dialect
	whereClause := buildPurgeWhereClause(st.Driver(), dateStr, projectStr, doneOnly, undoneOnly)

	// Show confirmation unless --yes flag is used
	if !skipConfirm {
		fmt.Print("Are you sure you want to delete these tasks? (y/N): ")
		var response string
		fmt.Scanln(&response)
		if strings.ToLower(response) != "y" && strings.ToLower(response) != "yes" {
			fmt.Println("Operation cancelled.")
			return
		}
	}

	deleted, err := st.Purge(whereClause)
	if err != nil {
		fmt.Printf("Error purging tasks: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully deleted %d task(s)\n", deleted)
}

// buildPurgeWhereClause builds WHERE clause for purge operations
func buildPurgeWhereClause(driver, dateStr, projectStr string, doneOnly, undoneOnly bool) string {
	var conditions []string

	if dateStr != "" {
		conditions = append(conditions, store.DateEquals(driver, "duedate", dateStr))
	}

	if projectStr != "" {
		conditions = append(conditions, fmt.Sprintf("projects LIKE '%%%s%%'", projectStr))
	}

	if doneOnly {
		conditions = append(conditions, "done = "+store.BoolLiteral(driver, true))
	} else if undoneOnly {
		conditions = append(conditions, "done = "+store.BoolLiteral(driver, false))
	}

	return strings.Join(conditions, " AND ")
}
