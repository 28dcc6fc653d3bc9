// Package testutil provides test utilities and helpers for opusci tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/raveheart1/opusci/internal/runner"
)

// Response is one scripted outcome for a stubbed command.
type Response struct {
	Result *runner.Result
	Err    error
}

// rule matches invocations by argv prefix and yields scripted responses in
// order; the final response repeats once the queue is exhausted.
type rule struct {
	prefix    []string
	responses []Response
	next      int
}

// ScriptedRunner is a runner.Runner double that records every invocation and
// replays scripted responses. Unstubbed commands succeed with an empty result
// so tests only script what they assert on.
type ScriptedRunner struct {
	mu    sync.Mutex
	calls []runner.Invocation
	rules []*rule
}

// NewScriptedRunner creates an empty ScriptedRunner.
func NewScriptedRunner() *ScriptedRunner {
	return &ScriptedRunner{}
}

// Stub registers a single response for every invocation whose argv starts
// with prefix. Later stubs for the same prefix take precedence.
func (s *ScriptedRunner) Stub(prefix []string, result *runner.Result, err error) {
	s.StubSequence(prefix, Response{Result: result, Err: err})
}

// StubSequence registers ordered responses for a prefix; each invocation
// consumes the next response, and the last one repeats.
func (s *ScriptedRunner) StubSequence(prefix []string, responses ...Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, &rule{prefix: prefix, responses: responses})
}

// Run implements runner.Runner.
func (s *ScriptedRunner) Run(_ context.Context, inv runner.Invocation) (*runner.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, inv)

	// Later stubs win, so scan newest first.
	for i := len(s.rules) - 1; i >= 0; i-- {
		r := s.rules[i]
		if !hasPrefix(inv.Argv, r.prefix) {
			continue
		}
		resp := r.responses[r.next]
		if r.next < len(r.responses)-1 {
			r.next++
		}
		if resp.Result == nil && resp.Err == nil {
			return &runner.Result{}, nil
		}
		return resp.Result, resp.Err
	}
	return &runner.Result{}, nil
}

// Calls returns every recorded invocation in order.
func (s *ScriptedRunner) Calls() []runner.Invocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]runner.Invocation(nil), s.calls...)
}

// CallsMatching returns the recorded invocations whose argv starts with prefix.
func (s *ScriptedRunner) CallsMatching(prefix ...string) []runner.Invocation {
	var matched []runner.Invocation
	for _, call := range s.Calls() {
		if hasPrefix(call.Argv, prefix) {
			matched = append(matched, call)
		}
	}
	return matched
}

func hasPrefix(argv, prefix []string) bool {
	if len(prefix) > len(argv) {
		return false
	}
	for i, p := range prefix {
		if argv[i] != p {
			return false
		}
	}
	return true
}

// Verify ScriptedRunner implements runner.Runner at compile time.
var _ runner.Runner = (*ScriptedRunner)(nil)

// CallLogEntry represents a single recorded invocation in YAML form.
type CallLogEntry struct {
	Command   string            `yaml:"command"`
	Env       map[string]string `yaml:"env,omitempty"`
	Dir       string            `yaml:"dir,omitempty"`
	Capture   bool              `yaml:"capture,omitempty"`
	Timestamp string            `yaml:"timestamp"`
}

// CallLog wraps []CallLogEntry for YAML serialization.
type CallLog struct {
	Entries []CallLogEntry `yaml:"entries"`
}

// WriteCallLog writes recorded invocations to a YAML file, useful when
// debugging a failing escalation-order test.
func WriteCallLog(path string, calls []runner.Invocation) error {
	log := CallLog{Entries: make([]CallLogEntry, 0, len(calls))}
	now := time.Now().Format(time.RFC3339Nano)
	for _, call := range calls {
		log.Entries = append(log.Entries, CallLogEntry{
			Command:   strings.Join(call.Argv, " "),
			Env:       call.Env,
			Dir:       call.Dir,
			Capture:   call.Capture,
			Timestamp: now,
		})
	}

	data, err := yaml.Marshal(log)
	if err != nil {
		return fmt.Errorf("marshaling call log to YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing call log to %s: %w", path, err)
	}
	return nil
}
