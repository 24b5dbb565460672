package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger for debug messages
var (
	logger  = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	logFile *os.File
)

// Log prints debug messages through the shared logger
func Log(text string, args ...interface{}) {
	logger.Debug(fmt.Sprintf(text, args...))
}

// Warn prints warning messages through the shared logger
func Warn(text string, args ...interface{}) {
	logger.Warn(fmt.Sprintf(text, args...))
}

// Error prints error messages through the shared logger
func Error(text string, args ...interface{}) {
	logger.Error(fmt.Sprintf(text, args...))
}

// Logger exposes the shared logger for packages that want structured fields
func Logger() *log.Logger {
	return logger
}

// InitLogger initializes the logging system
func InitLogger(verbose bool) {
	if verbose {
		// Create log filename with current date
		now := time.Now()
		logFileName := fmt.Sprintf("/tmp/toodone_%s.log", now.Format("2006-01-02"))

		var err error
		logFile, err = os.Create(logFileName)
		if err != nil {
			fmt.Printf("Error creating log file: %v\n", err)
			return
		}

		logger = log.NewWithOptions(logFile, log.Options{
			Level:           log.DebugLevel,
			ReportTimestamp: true,
		})
		Log("Verbose logging enabled")
	}
}

// CloseLogger closes the log file if it's open
func CloseLogger() {
	if logFile != nil {
		logFile.Close()
	}
}
