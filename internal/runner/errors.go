package runner

import (
	"fmt"
	"strings"
)

// CommandError reports a checked external process that exited non-zero.
type CommandError struct {
	Argv     []string
	ExitCode int
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q exited with code %d", strings.Join(e.Argv, " "), e.ExitCode)
}
