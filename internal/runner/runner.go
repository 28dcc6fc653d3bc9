// Package runner executes external processes for opusci. It merges
// environment overrides into the inherited environment, optionally captures
// output for programmatic checks, and frames streamed output with GitHub
// Actions log groups. This abstraction allows mocking command execution in tests.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Invocation describes a single external process execution.
type Invocation struct {
	// Argv is the command and its arguments. Must be non-empty.
	Argv []string
	// Env holds environment overrides merged over the inherited environment.
	// Overrides win on key collision.
	Env map[string]string
	// Dir is the working directory (empty = inherit).
	Dir string
	// Capture collects stdout/stderr into the Result instead of streaming.
	// Capture also suppresses log-group framing: a capturing call site is
	// doing a programmatic check, not narrating to the log.
	Capture bool
	// IgnoreExit disables the non-zero exit status check. The exit code is
	// still reported in the Result.
	IgnoreExit bool
}

// Result carries the outcome of an Invocation.
type Result struct {
	ExitCode int
	// Stdout and Stderr are populated only when Capture was requested.
	Stdout string
	Stderr string
}

// Runner defines the interface for running external commands.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (*Result, error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	// Out receives streamed process output and group framing (default os.Stdout).
	Out io.Writer
	// Err receives streamed process stderr (default os.Stderr).
	Err io.Writer
}

// NewExecRunner creates an ExecRunner writing to the standard streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Out: os.Stdout, Err: os.Stderr}
}

// Run executes the invocation synchronously. When the process exits non-zero
// and IgnoreExit is unset, it returns a *CommandError alongside the Result.
// Group framing is emitted on every exit path.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	if len(inv.Argv) == 0 {
		return nil, errors.New("runner: empty command")
	}

	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	errw := r.Err
	if errw == nil {
		errw = os.Stderr
	}

	group := !inv.Capture
	if group {
		openGroup(out, strings.Join(inv.Argv, " "))
		defer closeGroup(out)
	}

	cmd := exec.CommandContext(ctx, inv.Argv[0], inv.Argv[1:]...)
	cmd.Dir = inv.Dir
	cmd.Env = mergeEnv(os.Environ(), inv.Env)

	var stdout, stderr bytes.Buffer
	if inv.Capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = out
		cmd.Stderr = errw
	}

	err := cmd.Run()
	res := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		if inv.IgnoreExit {
			return res, nil
		}
		cmdErr := &CommandError{Argv: inv.Argv, ExitCode: res.ExitCode}
		if group {
			reportFailure(out, cmdErr)
		}
		return res, cmdErr
	default:
		// Start failure (binary not found, bad working directory, ...).
		return nil, err
	}
}

// mergeEnv merges override pairs over a base environment; overrides take
// precedence on key collision.
func mergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}
	merged := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key, _, ok := strings.Cut(kv, "=")
		if ok {
			if _, shadowed := overrides[key]; shadowed {
				continue
			}
		}
		merged = append(merged, kv)
	}
	for k, v := range overrides {
		merged = append(merged, k+"="+v)
	}
	return merged
}

// Verify ExecRunner implements Runner at compile time.
var _ Runner = (*ExecRunner)(nil)
