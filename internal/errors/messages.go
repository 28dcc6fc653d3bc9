package errors

import "fmt"

// Common error messages for the opusci CLI.
// These templates ensure consistent, actionable error messages.

// MissingTool creates an error for a required external tool that is not on PATH.
func MissingTool(name, install string) *CLIError {
	return NewEnvironmentError(
		fmt.Sprintf("required tool %q not found in PATH", name),
		install,
		"Run 'opusci doctor' to see all missing tools",
	)
}

// VerificationFailed wraps a gate-verification failure with next steps.
func VerificationFailed(err error) *CLIError {
	return WrapWithMessage(err, Verification,
		"AVX gating verification failed",
		"Inspect the build directory listed in the message",
		"Remove stale target directories and re-run 'opusci avx'",
	)
}

// ProvisioningFailed wraps a system-library provisioning failure with next steps.
func ProvisioningFailed(err error) *CLIError {
	return WrapWithMessage(err, Provisioning,
		"system libopus provisioning failed",
		"Check network access to the Debian mirrors",
		"Install libopus-dev manually and re-run 'opusci syslib'",
	)
}

// ConfigNotFound creates an error for a missing config file passed via --config.
func ConfigNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Create one with 'opusci config init'",
		"Or omit --config to use the defaults",
	)
}
