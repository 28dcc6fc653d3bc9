// Package lifecycle provides wrapper functions for CLI command execution.
// It handles timing and completion reporting, eliminating boilerplate code
// across CLI commands.
//
// The lifecycle package is intentionally minimal: no event bus, no
// goroutines, no external dependencies.
package lifecycle

import "time"

// Reporter receives command completion events.
// Implementations must tolerate nil receivers - the wrapper checks for nil
// before calling any method.
type Reporter interface {
	// OnCommandComplete is called when a CLI command finishes execution.
	OnCommandComplete(name string, success bool, duration time.Duration)
}

// RunCommand executes fn, times it, and reports the outcome to the reporter.
// The original error is returned unchanged.
func RunCommand(reporter Reporter, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	if reporter != nil {
		reporter.OnCommandComplete(name, err == nil, time.Since(start))
	}
	return err
}
