package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Driver names accepted by Connect.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Connect opens a database connection for the given driver. For sqlite3 the
// DSN is a file path (tilde expanded, parent directories created); for
// postgres it is a lib/pq connection string.
func Connect(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite:
		// Expand tilde to home directory if present
		if strings.HasPrefix(dsn, "~") {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			dsn = homeDir + dsn[1:]
		}

		// Create the directory structure if it doesn't exist
		dbDir := filepath.Dir(dsn)
		if dbDir != "." {
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				return nil, err
			}
		}

		// SQLite will create the database file if it doesn't exist
		return sql.Open(DriverSQLite, dsn)

	case DriverPostgres:
		return sql.Open(DriverPostgres, dsn)

	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}

// rebind converts ? placeholders to the $N form lib/pq expects. SQLite
// queries pass through unchanged.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EnsureSchema creates the tables if they don't exist
func EnsureSchema(db *sql.DB, driver string) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == DriverPostgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	// Create tasks table if it doesn't exist
	_, err := db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS tasks (
			id %s,
			done BOOLEAN NOT NULL DEFAULT %s,
			created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			lastmodified TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			duedate TIMESTAMP,
			title TEXT NOT NULL,
			description TEXT,
			priority INTEGER NOT NULL DEFAULT 3,
			projects TEXT,
			contexts TEXT,
			remoteid TEXT,
			rev INTEGER NOT NULL DEFAULT 0
		)
	`, idColumn, BoolLiteral(driver, false)))
	if err != nil {
		return err
	}

	// Create subtasks table if it doesn't exist. Subtasks are checklist
	// items under a parent task; they are removed with the parent.
	idColumn = "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == DriverPostgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}
	_, err = db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS subtasks (
			id %s,
			task_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			done BOOLEAN NOT NULL DEFAULT %s
		)
	`, idColumn, BoolLiteral(driver, false)))
	if err != nil {
		return err
	}

	// Create time_entries table if it doesn't exist. task_id is a weak
	// reference: entries survive task deletion for historical reporting.
	idColumn = "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == DriverPostgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}
	_, err = db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS time_entries (
			id %s,
			task_id INTEGER NOT NULL,
			started_at TIMESTAMP NOT NULL,
			stopped_at TIMESTAMP
		)
	`, idColumn))
	return err
}

// BoolLiteral renders a boolean constant in the driver's dialect.
func BoolLiteral(driver string, v bool) string {
	if driver == DriverPostgres {
		if v {
			return "TRUE"
		}
		return "FALSE"
	}
	// SQLite uses 1 for true, 0 for false
	if v {
		return "1"
	}
	return "0"
}

// DateEquals builds a clause matching rows whose timestamp column falls on
// the given YYYY-MM-DD day, in the driver's dialect.
func DateEquals(driver, column, day string) string {
	if driver == DriverPostgres {
		return fmt.Sprintf("%s::date = '%s'::date", column, day)
	}
	return fmt.Sprintf("date(%s) = date('%s')", column, day)
}
