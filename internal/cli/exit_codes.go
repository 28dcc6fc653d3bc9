package cli

import "github.com/raveheart1/opusci/internal/errors"

// Exit codes for the opusci CLI.
// These codes support programmatic composition and CI integration.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitVerificationFailed indicates an artifact verification mismatch
	ExitVerificationFailed = 1

	// ExitProvisioningFailed indicates the system library could not be provisioned
	ExitProvisioningFailed = 2

	// ExitInvalidArguments indicates invalid command arguments or configuration
	ExitInvalidArguments = 3

	// ExitMissingDependencies indicates required external tools are missing
	ExitMissingDependencies = 4
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	// Execute wraps every bare error as an argument error; one arriving
	// here unwrapped is a parse failure that bypassed it.
	cliErr := errors.AsCLIError(err)
	if cliErr == nil {
		return ExitInvalidArguments
	}
	switch cliErr.Category {
	case errors.Argument, errors.Configuration:
		return ExitInvalidArguments
	case errors.Environment:
		return ExitMissingDependencies
	case errors.Provisioning:
		return ExitProvisioningFailed
	default:
		return ExitVerificationFailed
	}
}
