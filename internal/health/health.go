// Package health provides dependency health checks for opusci. It validates
// that the external tools both verification procedures shell out to are
// available, returning structured reports used by the 'opusci doctor' command.
package health

import (
	"fmt"
	"os/exec"
	"strings"
)

// CheckResult represents the result of a single health check.
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Install is how to get the tool, filled in for the known tool set.
	Install string
}

// HealthReport contains all health check results.
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// requiredTools lists every external tool opusci invokes, with the command
// that needs it. pkg-config absence is a hard failure even though the probe
// treats its non-zero exit as "library absent".
var requiredTools = []struct {
	Binary  string
	Usage   string
	Install string
}{
	{"cargo", "builds the crate (opusci avx, opusci syslib)", "Install the Rust toolchain via rustup (https://rustup.rs)"},
	{"objdump", "disassembles the compiled object (opusci avx)", "Install binutils: apt-get install binutils"},
	{"pkg-config", "probes the installed libopus version (opusci syslib)", "Install it: apt-get install pkg-config"},
	{"curl", "downloads .deb packages from mirrors (opusci syslib)", "Install it: apt-get install curl"},
	{"apt-get", "installs the distribution package (opusci syslib)", "Run opusci syslib on a Debian-family host"},
	{"dpkg", "installs downloaded .deb packages (opusci syslib)", "Run opusci syslib on a Debian-family host"},
}

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks() *HealthReport {
	report := &HealthReport{Passed: true}
	for _, tool := range requiredTools {
		check := CheckTool(tool.Binary, tool.Usage)
		check.Install = tool.Install
		report.Checks = append(report.Checks, check)
		if !check.Passed {
			report.Passed = false
		}
	}
	return report
}

// CheckTool checks that a single external tool is available on PATH.
func CheckTool(binary, usage string) CheckResult {
	if _, err := exec.LookPath(binary); err != nil {
		return CheckResult{
			Name:    binary,
			Passed:  false,
			Message: fmt.Sprintf("%s not found in PATH (%s)", binary, usage),
		}
	}
	return CheckResult{
		Name:    binary,
		Passed:  true,
		Message: fmt.Sprintf("%s found", binary),
	}
}

// FormatReport formats a health report for terminal display.
func FormatReport(report *HealthReport) string {
	var sb strings.Builder
	for _, check := range report.Checks {
		symbol := "✓"
		if !check.Passed {
			symbol = "✗"
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", symbol, check.Name, check.Message)
	}
	return sb.String()
}
