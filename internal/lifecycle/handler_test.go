package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	name     string
	success  bool
	duration time.Duration
	called   bool
}

func (r *recordingReporter) OnCommandComplete(name string, success bool, duration time.Duration) {
	r.name = name
	r.success = success
	r.duration = duration
	r.called = true
}

func TestRunCommand_Success(t *testing.T) {
	reporter := &recordingReporter{}

	err := RunCommand(reporter, "avx", func() error { return nil })

	require.NoError(t, err)
	assert.True(t, reporter.called)
	assert.Equal(t, "avx", reporter.name)
	assert.True(t, reporter.success)
	assert.GreaterOrEqual(t, reporter.duration, time.Duration(0))
}

func TestRunCommand_FailureReturnsOriginalError(t *testing.T) {
	reporter := &recordingReporter{}
	wantErr := errors.New("boom")

	err := RunCommand(reporter, "syslib", func() error { return wantErr })

	require.ErrorIs(t, err, wantErr)
	assert.True(t, reporter.called)
	assert.False(t, reporter.success)
}

func TestRunCommand_NilReporter(t *testing.T) {
	err := RunCommand(nil, "avx", func() error { return nil })
	require.NoError(t, err)
}
