package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raveheart1/opusci/internal/build"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Show version information",
	GroupID: GroupDiagnostics,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// Dev builds have no ldflags stamp; the commit/date would just
		// read "unknown".
		if build.IsDevBuild() {
			fmt.Fprintf(cmd.OutOrStdout(), "opusci %s\n", build.Version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "opusci %s (commit %s, built %s)\n",
			build.Version, build.Commit, build.BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
