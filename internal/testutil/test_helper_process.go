package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"
)

// HelperProcessConfig configures the behavior of TestHelperProcess.
type HelperProcessConfig struct {
	// ExitCode is the exit code to return (default 0).
	ExitCode int `json:"exit_code"`
	// Stdout is the content to write to stdout.
	Stdout string `json:"stdout"`
	// Stderr is the content to write to stderr.
	Stderr string `json:"stderr"`
	// EchoEnv names an environment variable whose value is printed to
	// stdout, for asserting environment merging through a real subprocess.
	EchoEnv string `json:"echo_env,omitempty"`
}

// Environment variable names used by TestHelperProcess.
const (
	// EnvWantHelperProcess signals that the test binary should run as a helper process.
	EnvWantHelperProcess = "GO_WANT_HELPER_PROCESS"
	// EnvHelperProcessConfig contains JSON-encoded HelperProcessConfig.
	EnvHelperProcessConfig = "GO_HELPER_PROCESS_CONFIG"
)

// TestHelperProcess is a function to be called from a test function to
// implement the helper process pattern. When invoked with
// GO_WANT_HELPER_PROCESS=1, it behaves as a mock subprocess and exits
// without returning.
//
// Usage in test file:
//
//	func TestHelperProcess(t *testing.T) {
//	    testutil.TestHelperProcess(t)
//	}
func TestHelperProcess(t *testing.T) {
	if os.Getenv(EnvWantHelperProcess) != "1" {
		return
	}

	config := HelperProcessConfig{}
	if configJSON := os.Getenv(EnvHelperProcessConfig); configJSON != "" {
		// Ignore parse errors; use defaults on failure
		_ = json.Unmarshal([]byte(configJSON), &config)
	}

	if config.Stdout != "" {
		fmt.Fprint(os.Stdout, config.Stdout)
	}
	if config.Stderr != "" {
		fmt.Fprint(os.Stderr, config.Stderr)
	}
	if config.EchoEnv != "" {
		fmt.Fprint(os.Stdout, os.Getenv(config.EchoEnv))
	}

	os.Exit(config.ExitCode)
}

// HelperArgv builds an argv that re-invokes the test binary as a helper
// process running testName. Pair it with HelperEnv in an Invocation.
func HelperArgv(testName string) []string {
	return []string{os.Args[0], "-test.run=" + testName, "--"}
}

// HelperEnv builds the environment overrides that activate the helper
// process with the given configuration.
func HelperEnv(t *testing.T, config HelperProcessConfig) map[string]string {
	t.Helper()
	data, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("marshaling helper process config: %v", err)
	}
	return map[string]string{
		EnvWantHelperProcess:   "1",
		EnvHelperProcessConfig: string(data),
	}
}
