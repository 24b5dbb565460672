package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

// Desktop dispatches notifications through notify-send.
type Desktop struct{}

// NewDesktop creates a Desktop dispatcher.
func NewDesktop() *Desktop {
	return &Desktop{}
}

// Notify shells out to notify-send. Platform failures come back as
// DispatchError so the scheduler retries them.
func (d *Desktop) Notify(taskID int64, title, message string) error {
	cmd := exec.Command("notify-send", "--app-name=toodone", title, message)
	if output, err := cmd.CombinedOutput(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return &DispatchError{Err: fmt.Errorf("notify-send failed: exit code %d, output: %s",
				exitErr.ExitCode(), strings.TrimSpace(string(output)))}
		}
		return &DispatchError{Err: fmt.Errorf("notify-send failed: %w", err)}
	}
	return nil
}

// Command dispatches notifications by running a configured command with the
// task id, title and message appended as arguments.
type Command struct {
	Name string
	Args []string
}

// NewCommand creates a Command dispatcher from a command line.
func NewCommand(line string) (*Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty notify command")
	}
	return &Command{Name: fields[0], Args: fields[1:]}, nil
}

// Notify runs the configured command.
func (c *Command) Notify(taskID int64, title, message string) error {
	args := append(append([]string{}, c.Args...), fmt.Sprintf("%d", taskID), title, message)
	cmd := exec.Command(c.Name, args...)
	if err := cmd.Run(); err != nil {
		return &DispatchError{Err: fmt.Errorf("notify command %q failed: %w", c.Name, err)}
	}
	return nil
}
