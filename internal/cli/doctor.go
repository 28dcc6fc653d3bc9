package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raveheart1/opusci/internal/errors"
	"github.com/raveheart1/opusci/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Short:   "Check that required external tools are installed",
	Long:    `Check that every external tool opusci shells out to (cargo, objdump, pkg-config, curl, apt-get, dpkg) is available on PATH.`,
	GroupID: GroupDiagnostics,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report := health.RunHealthChecks()
		fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
		for _, check := range report.Checks {
			if !check.Passed {
				return errors.MissingTool(check.Name, check.Install)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
