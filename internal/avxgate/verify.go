// Package avxgate verifies that cargo feature flags actually gate the AVX2
// code paths in the bundled opus build. A verification passes only when two
// independent observations agree: the CMake cache records the presume flag,
// and the compiled object contains (or omits) wide vector instructions.
// Either signal alone could be a false proxy; agreement is the real test of
// the conditional-compilation gating.
package avxgate

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/raveheart1/opusci/internal/runner"
)

const (
	// presumeFlag is the CMake cache line proving the build enabled the
	// unconditional-AVX2 code path.
	presumeFlag = "OPUS_X86_PRESUME_AVX2:BOOL=ON"
	// buildDirPrefix names the per-crate build directories cargo creates
	// under release/build.
	buildDirPrefix = "opus-codec-"
	cacheFileName  = "CMakeCache.txt"
	// objectFileName is a compiled unit known to contain vectorized DSP code.
	objectFileName = "bands.c.o"
	// vectorRegister appearing anywhere in the disassembly signals AVX usage:
	// ymm registers are only emitted by wide-vector code.
	vectorRegister = "ymm"
)

// Expectation is the ground truth a build configuration must produce.
// Supplied by the caller per configuration, never inferred.
type Expectation struct {
	Flag         bool
	Instructions bool
}

// Verifier builds the crate and cross-checks the resulting artifacts.
type Verifier struct {
	Runner runner.Runner
	// Out receives progress narration (default os.Stdout).
	Out io.Writer
	// PresumeFeature is the cargo feature enabling unconditional AVX2
	// (default "presume-avx2").
	PresumeFeature string
	// GenericTargetDir and PresumeTargetDir scope the two build trees so the
	// runs cannot contaminate each other (defaults target/ci-generic and
	// target/ci-presume).
	GenericTargetDir string
	PresumeTargetDir string
}

// NewVerifier creates a Verifier with the default cargo layout.
func NewVerifier(r runner.Runner) *Verifier {
	return &Verifier{
		Runner:           r,
		Out:              os.Stdout,
		PresumeFeature:   "presume-avx2",
		GenericTargetDir: "target/ci-generic",
		PresumeTargetDir: "target/ci-presume",
	}
}

// VerifyAll runs the two configurations the gate check requires: a generic
// build expecting no AVX evidence, then a presume build expecting both
// signals present. Any sub-verification failure fails the whole run.
func (v *Verifier) VerifyAll(ctx context.Context) error {
	if err := v.Verify(ctx, v.GenericTargetDir, "", Expectation{}); err != nil {
		return err
	}
	return v.Verify(ctx, v.PresumeTargetDir, v.PresumeFeature, Expectation{Flag: true, Instructions: true})
}

// Verify performs a release build scoped into targetDir, locates the build
// artifacts, and asserts both the flag signature and the instruction
// signature against want.
func (v *Verifier) Verify(ctx context.Context, targetDir, features string, want Expectation) error {
	argv := []string{"cargo", "build", "--release"}
	if features != "" {
		argv = append(argv, "--features", features)
	}
	// CARGO_TARGET_DIR is threaded per invocation rather than set
	// process-wide; the two builds must not share an environment.
	_, err := v.Runner.Run(ctx, runner.Invocation{
		Argv: argv,
		Env:  map[string]string{"CARGO_TARGET_DIR": targetDir},
	})
	if err != nil {
		return err
	}

	buildDir, err := newestBuildDir(targetDir)
	if err != nil {
		return err
	}
	if buildDir == "" {
		return &BuildDirNotFoundError{TargetDir: targetDir}
	}
	fmt.Fprintf(v.out(), "Checking build dir: %s\n", buildDir)

	// Artifact presence is checked before any content is interpreted.
	artifacts, err := findArtifacts(targetDir)
	if err != nil {
		return err
	}
	if !artifacts.complete() {
		return &MissingArtifactsError{
			TargetDir: targetDir,
			Caches:    artifacts.Caches,
			Objects:   artifacts.Objects,
		}
	}

	if err := v.checkFlag(artifacts.Caches[0], want.Flag); err != nil {
		return err
	}
	return v.checkInstructions(ctx, artifacts.Objects[0], want.Instructions)
}

// checkFlag asserts the presence of the presume flag in the CMake cache.
func (v *Verifier) checkFlag(cachePath string, want bool) error {
	content, err := os.ReadFile(cachePath)
	if err != nil {
		return err
	}
	got := strings.Contains(string(content), presumeFlag)
	if got != want {
		return &FlagMismatchError{CachePath: cachePath, Want: want, Got: got}
	}
	return nil
}

// checkInstructions disassembles the object file and asserts the presence of
// wide vector register usage.
func (v *Verifier) checkInstructions(ctx context.Context, objectPath string, want bool) error {
	res, err := v.Runner.Run(ctx, runner.Invocation{
		Argv:    []string{"objdump", "-d", objectPath},
		Capture: true,
	})
	if err != nil {
		return err
	}
	got := strings.Contains(res.Stdout, vectorRegister)
	if got != want {
		return &InstructionMismatchError{ObjectPath: objectPath, Want: want, Got: got}
	}
	return nil
}

func (v *Verifier) out() io.Writer {
	if v.Out != nil {
		return v.Out
	}
	return os.Stdout
}
