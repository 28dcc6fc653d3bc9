// Package cli implements the opusci command-line interface.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/raveheart1/opusci/internal/errors"
	"github.com/raveheart1/opusci/internal/output"
)

// Command group IDs for help organization.
const (
	GroupVerification = "verification"
	GroupDiagnostics  = "diagnostics"
)

var (
	cfgFile string
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "opusci",
	Short: "Build-verification harness for the opus codec crate",
	Long: `opusci verifies what a build of the opus codec crate actually produced.

It answers two questions automatically, without human inspection:
  - did a build configuration really enable or omit the AVX2 optimization
    (cross-checked between the CMake cache and the compiled object), and
  - is the system libopus present at the required version, provisioning it
    through apt or direct .deb downloads when it is not.

Both procedures are designed for CI: no flags, deterministic behavior,
non-zero exit on any mismatch.`,
	Example: `  # Verify AVX2 feature gating (builds twice)
  opusci avx

  # Provision and exercise the system libopus
  opusci syslib

  # Check that all required external tools are installed
  opusci doctor`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .opusci/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.NewArgumentError(err.Error(),
			"Run '"+cmd.CommandPath()+" --help' for available flags",
		).WithUsage(cmd.UseLine())
	})

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupVerification, Title: "Verification Commands:"},
		&cobra.Group{ID: GroupDiagnostics, Title: "Diagnostic Commands:"},
	)
}

// Execute runs the root command and prints any resulting error. Every
// command reports through CLIError, so a bare error here can only come from
// cobra's own parsing (unknown subcommands, unexpected arguments); those are
// argument errors.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	cliErr := errors.AsCLIError(err)
	if cliErr == nil {
		cliErr = errors.NewArgumentError(err.Error(),
			"Run 'opusci --help' for usage",
		)
	}
	errors.PrintError(cliErr)
	return cliErr
}

// completionReporter prints a timing line when a command succeeds.
// Failures stay silent here; Execute owns error output.
type completionReporter struct {
	out io.Writer
}

func (r *completionReporter) OnCommandComplete(name string, success bool, duration time.Duration) {
	if !success {
		return
	}
	output.PrintCompletion(r.out, fmt.Sprintf("opusci %s passed", name), duration.Seconds())
}
