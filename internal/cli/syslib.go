package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raveheart1/opusci/internal/config"
	"github.com/raveheart1/opusci/internal/errors"
	"github.com/raveheart1/opusci/internal/lifecycle"
	"github.com/raveheart1/opusci/internal/output"
	"github.com/raveheart1/opusci/internal/progress"
	"github.com/raveheart1/opusci/internal/runner"
	"github.com/raveheart1/opusci/internal/syslib"
)

var syslibCmd = &cobra.Command{
	Use:   "syslib",
	Short: "Provision the system libopus and test the crate against it",
	Long: `Ensure the system libopus is installed at the required version, then build
and test the crate with the system-lib feature.

Provisioning escalates only as far as needed: the installed version is probed
first, apt is tried next (best effort), and direct .deb downloads from the
configured mirrors are the last resort, gated on a Debian-family host. The
version is re-checked after every step.`,
	GroupID: GroupVerification,
	Args:    cobra.NoArgs,
	RunE:    runSyslib,
}

func init() {
	rootCmd.AddCommand(syslibCmd)
}

func runSyslib(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return errors.Wrap(err, errors.Configuration)
	}

	out := cmd.OutOrStdout()
	prov := syslib.NewProvisioner(runner.NewExecRunner())
	prov.Out = out
	prov.Sudo = cfg.Sudo
	prov.OSReleasePath = cfg.OSReleasePath
	prov.Mirrors = cfg.Mirrors
	if cfg.DownloadDir != "" {
		prov.DownloadDir = cfg.DownloadDir
	}

	reporter := &completionReporter{out: out}
	return lifecycle.RunCommand(reporter, "syslib", func() error {
		output.PrintStepHeader(out, 1, 2, "Provision system libopus "+prov.RequiredVersion())
		if err := prov.Ensure(cmd.Context()); err != nil {
			return errors.ProvisioningFailed(err)
		}

		// Final probe for the log; Ensure already converged or failed.
		caps := progress.DetectTerminalCapabilities()
		sp := progress.NewSpinner(caps, "probing installed libopus version")
		if sp != nil {
			sp.Start()
		}
		ver, _ := prov.InstalledVersion(cmd.Context())
		if sp != nil {
			sp.Stop()
		}
		fmt.Fprintf(out, "pkg-config opus version: %s\n", ver)
		output.PrintStepSuccess(out, "system libopus at "+prov.RequiredVersion())

		output.PrintStepHeader(out, 2, 2, "Build and test with system-lib")
		if err := prov.Exercise(cmd.Context()); err != nil {
			return errors.ProvisioningFailed(err)
		}
		output.PrintStepSuccess(out, "crate builds and tests against system libopus")
		return nil
	})
}
