package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/raveheart1/opusci/internal/runner"
)

func TestScriptedRunner_UnstubbedCommandSucceeds(t *testing.T) {
	sr := NewScriptedRunner()

	result, err := sr.Run(context.Background(), runner.Invocation{Argv: []string{"true"}})

	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Empty(t, result.Stdout)
}

func TestScriptedRunner_PrefixMatching(t *testing.T) {
	sr := NewScriptedRunner()
	sr.Stub([]string{"pkg-config", "--modversion"}, &runner.Result{Stdout: "1.5.2\n"}, nil)

	result, err := sr.Run(context.Background(), runner.Invocation{
		Argv: []string{"pkg-config", "--modversion", "opus"},
	})

	require.NoError(t, err)
	assert.Equal(t, "1.5.2\n", result.Stdout)

	// A shorter argv than the prefix never matches.
	result, err = sr.Run(context.Background(), runner.Invocation{Argv: []string{"pkg-config"}})
	require.NoError(t, err)
	assert.Empty(t, result.Stdout)
}

func TestScriptedRunner_NewestStubWins(t *testing.T) {
	sr := NewScriptedRunner()
	sr.Stub([]string{"cargo"}, nil, errors.New("old"))
	sr.Stub([]string{"cargo"}, &runner.Result{Stdout: "new"}, nil)

	result, err := sr.Run(context.Background(), runner.Invocation{Argv: []string{"cargo", "build"}})

	require.NoError(t, err)
	assert.Equal(t, "new", result.Stdout)
}

func TestScriptedRunner_SequenceLastResponseRepeats(t *testing.T) {
	sr := NewScriptedRunner()
	sr.StubSequence([]string{"pkg-config"},
		Response{Err: errors.New("absent")},
		Response{Result: &runner.Result{Stdout: "1.5.2\n"}},
	)

	_, err := sr.Run(context.Background(), runner.Invocation{Argv: []string{"pkg-config"}})
	require.Error(t, err)

	for i := 0; i < 3; i++ {
		result, err := sr.Run(context.Background(), runner.Invocation{Argv: []string{"pkg-config"}})
		require.NoError(t, err)
		assert.Equal(t, "1.5.2\n", result.Stdout)
	}
}

func TestScriptedRunner_RecordsCalls(t *testing.T) {
	sr := NewScriptedRunner()

	_, _ = sr.Run(context.Background(), runner.Invocation{Argv: []string{"cargo", "build"}})
	_, _ = sr.Run(context.Background(), runner.Invocation{Argv: []string{"objdump", "-d", "x.o"}})
	_, _ = sr.Run(context.Background(), runner.Invocation{Argv: []string{"cargo", "test"}})

	assert.Len(t, sr.Calls(), 3)

	cargo := sr.CallsMatching("cargo")
	require.Len(t, cargo, 2)
	assert.Equal(t, []string{"cargo", "build"}, cargo[0].Argv)
	assert.Equal(t, []string{"cargo", "test"}, cargo[1].Argv)
	assert.Empty(t, sr.CallsMatching("dpkg"))
}

func TestWriteCallLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.yml")
	calls := []runner.Invocation{
		{Argv: []string{"cargo", "build", "--release"}, Env: map[string]string{"CARGO_TARGET_DIR": "target/ci-generic"}},
		{Argv: []string{"objdump", "-d", "bands.c.o"}, Capture: true},
	}

	require.NoError(t, WriteCallLog(path, calls))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var log CallLog
	require.NoError(t, yaml.Unmarshal(data, &log))
	require.Len(t, log.Entries, 2)
	assert.Equal(t, "cargo build --release", log.Entries[0].Command)
	assert.Equal(t, "target/ci-generic", log.Entries[0].Env["CARGO_TARGET_DIR"])
	assert.True(t, log.Entries[1].Capture)
}
