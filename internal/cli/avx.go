package cli

import (
	"github.com/spf13/cobra"

	"github.com/raveheart1/opusci/internal/avxgate"
	"github.com/raveheart1/opusci/internal/config"
	"github.com/raveheart1/opusci/internal/errors"
	"github.com/raveheart1/opusci/internal/lifecycle"
	"github.com/raveheart1/opusci/internal/output"
	"github.com/raveheart1/opusci/internal/runner"
)

var avxCmd = &cobra.Command{
	Use:   "avx",
	Short: "Verify AVX2 feature gating in the bundled opus build",
	Long: `Build the crate twice and verify that the presume-avx2 feature actually
gates the AVX2 code path.

The generic build (no features) must show no trace of AVX2: no presume flag
in the CMake cache and no ymm registers in the disassembled object. The
presume build must show both. Each configuration requires the two signals to
agree; either one alone could be a false proxy for the build decision.`,
	GroupID: GroupVerification,
	Args:    cobra.NoArgs,
	RunE:    runAvx,
}

func init() {
	rootCmd.AddCommand(avxCmd)
}

func runAvx(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return errors.Wrap(err, errors.Configuration)
	}

	out := cmd.OutOrStdout()
	exec := runner.NewExecRunner()
	verifier := avxgate.NewVerifier(exec)
	verifier.Out = out
	verifier.GenericTargetDir = cfg.GenericTargetDir
	verifier.PresumeTargetDir = cfg.PresumeTargetDir
	verifier.PresumeFeature = cfg.PresumeFeature

	reporter := &completionReporter{out: out}
	return lifecycle.RunCommand(reporter, "avx", func() error {
		output.PrintStepHeader(out, 1, 2, "Generic build (expect no AVX)")
		if err := verifier.Verify(cmd.Context(), cfg.GenericTargetDir, "", avxgate.Expectation{}); err != nil {
			return errors.VerificationFailed(err)
		}
		output.PrintStepSuccess(out, "generic build carries no AVX flag or instructions")

		output.PrintStepHeader(out, 2, 2, "Presume build (expect AVX)")
		want := avxgate.Expectation{Flag: true, Instructions: true}
		if err := verifier.Verify(cmd.Context(), cfg.PresumeTargetDir, cfg.PresumeFeature, want); err != nil {
			return errors.VerificationFailed(err)
		}
		output.PrintStepSuccess(out, "presume build carries the AVX flag and instructions")
		return nil
	})
}
