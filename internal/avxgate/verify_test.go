package avxgate

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/opusci/internal/runner"
	"github.com/raveheart1/opusci/internal/testutil"
)

// plainDisasm and avxDisasm are minimal objdump excerpts; only the register
// names matter to the check.
const (
	plainDisasm = "0: 48 89 e5  mov %rsp,%rbp\n4: f3 0f 10 05  movss 0x0(%rip),%xmm0\n"
	avxDisasm   = "0: c5 fc 28 05  vmovaps 0x0(%rip),%ymm0\n8: c5 f4 58 c0  vaddps %ymm0,%ymm1,%ymm0\n"
)

// writeBuildTree lays out <target>/release/build/opus-codec-<tag>/out with
// the requested artifacts and returns the build dir path.
func writeBuildTree(t *testing.T, targetDir, tag string, cacheContent string, withObject bool) string {
	t.Helper()
	buildDir := filepath.Join(targetDir, "release", "build", "opus-codec-"+tag)
	outDir := filepath.Join(buildDir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	if cacheContent != "" {
		require.NoError(t, os.WriteFile(filepath.Join(outDir, "CMakeCache.txt"), []byte(cacheContent), 0o644))
	}
	if withObject {
		objDir := filepath.Join(outDir, "CMakeFiles", "opus.dir", "celt")
		require.NoError(t, os.MkdirAll(objDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(objDir, "bands.c.o"), []byte{0x7f, 'E', 'L', 'F'}, 0o644))
	}
	return buildDir
}

func newTestVerifier(script *testutil.ScriptedRunner) *Verifier {
	v := NewVerifier(script)
	v.Out = &bytes.Buffer{}
	return v
}

const (
	cacheWithFlag    = "// CMake cache\nOPUS_X86_MAY_HAVE_AVX2:BOOL=ON\nOPUS_X86_PRESUME_AVX2:BOOL=ON\n"
	cacheWithoutFlag = "// CMake cache\nOPUS_X86_MAY_HAVE_AVX2:BOOL=ON\nOPUS_X86_PRESUME_AVX2:BOOL=OFF\n"
)

func TestVerify_SignalAgreementMatrix(t *testing.T) {
	tests := map[string]struct {
		cache       string
		disasm      string
		want        Expectation
		wantErrFlag bool
		wantErrInst bool
	}{
		"expect both, both present": {
			cache:  cacheWithFlag,
			disasm: avxDisasm,
			want:   Expectation{Flag: true, Instructions: true},
		},
		"expect both, flag missing": {
			cache:       cacheWithoutFlag,
			disasm:      avxDisasm,
			want:        Expectation{Flag: true, Instructions: true},
			wantErrFlag: true,
		},
		"expect both, instructions missing": {
			cache:       cacheWithFlag,
			disasm:      plainDisasm,
			want:        Expectation{Flag: true, Instructions: true},
			wantErrInst: true,
		},
		"expect neither, neither present": {
			cache:  cacheWithoutFlag,
			disasm: plainDisasm,
			want:   Expectation{},
		},
		"expect neither, flag present": {
			cache:       cacheWithFlag,
			disasm:      plainDisasm,
			want:        Expectation{},
			wantErrFlag: true,
		},
		"expect neither, instructions present": {
			cache:       cacheWithoutFlag,
			disasm:      avxDisasm,
			want:        Expectation{},
			wantErrInst: true,
		},
		// Flag is checked first, so double disagreement reports the flag.
		"expect neither, both present": {
			cache:       cacheWithFlag,
			disasm:      avxDisasm,
			want:        Expectation{},
			wantErrFlag: true,
		},
		"expect both, neither present": {
			cache:       cacheWithoutFlag,
			disasm:      plainDisasm,
			want:        Expectation{Flag: true, Instructions: true},
			wantErrFlag: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			targetDir := t.TempDir()
			writeBuildTree(t, targetDir, "abc123", tt.cache, true)

			script := testutil.NewScriptedRunner()
			script.Stub([]string{"objdump"}, &runner.Result{Stdout: tt.disasm}, nil)
			v := newTestVerifier(script)

			err := v.Verify(context.Background(), targetDir, "", tt.want)

			switch {
			case tt.wantErrFlag:
				var flagErr *FlagMismatchError
				require.True(t, errors.As(err, &flagErr), "want FlagMismatchError, got %v", err)
				assert.Equal(t, tt.want.Flag, flagErr.Want)
				assert.Equal(t, !tt.want.Flag, flagErr.Got)
			case tt.wantErrInst:
				var instErr *InstructionMismatchError
				require.True(t, errors.As(err, &instErr), "want InstructionMismatchError, got %v", err)
				assert.Equal(t, tt.want.Instructions, instErr.Want)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestVerify_BuildDirNotFound(t *testing.T) {
	tests := map[string]struct {
		setup func(t *testing.T, targetDir string)
	}{
		"target dir missing entirely": {
			setup: func(t *testing.T, targetDir string) {},
		},
		"release/build exists but empty": {
			setup: func(t *testing.T, targetDir string) {
				require.NoError(t, os.MkdirAll(filepath.Join(targetDir, "release", "build"), 0o755))
			},
		},
		"only non-matching directories": {
			setup: func(t *testing.T, targetDir string) {
				dir := filepath.Join(targetDir, "release", "build", "some-other-crate-123")
				require.NoError(t, os.MkdirAll(dir, 0o755))
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			targetDir := filepath.Join(t.TempDir(), "target")
			tt.setup(t, targetDir)

			v := newTestVerifier(testutil.NewScriptedRunner())
			err := v.Verify(context.Background(), targetDir, "", Expectation{})

			var notFound *BuildDirNotFoundError
			require.True(t, errors.As(err, &notFound), "want BuildDirNotFoundError, got %v", err)
			assert.Contains(t, err.Error(), targetDir)
		})
	}
}

func TestVerify_MissingArtifactsBeforeContent(t *testing.T) {
	// The cache exists and would mismatch the expectation, but the object is
	// absent: artifact presence must be reported before content is read.
	targetDir := t.TempDir()
	writeBuildTree(t, targetDir, "abc123", cacheWithFlag, false)

	v := newTestVerifier(testutil.NewScriptedRunner())
	err := v.Verify(context.Background(), targetDir, "", Expectation{})

	var missing *MissingArtifactsError
	require.True(t, errors.As(err, &missing), "want MissingArtifactsError, got %v", err)
	assert.Len(t, missing.Caches, 1, "the found cache is enumerated for diagnostics")
	assert.Empty(t, missing.Objects)
}

func TestVerify_MissingCache(t *testing.T) {
	targetDir := t.TempDir()
	writeBuildTree(t, targetDir, "abc123", "", true)

	v := newTestVerifier(testutil.NewScriptedRunner())
	err := v.Verify(context.Background(), targetDir, "", Expectation{})

	var missing *MissingArtifactsError
	require.True(t, errors.As(err, &missing))
	assert.Empty(t, missing.Caches)
	assert.Len(t, missing.Objects, 1)
}

func TestNewestBuildDir_PicksMostRecent(t *testing.T) {
	targetDir := t.TempDir()
	older := writeBuildTree(t, targetDir, "older", cacheWithoutFlag, true)
	newer := writeBuildTree(t, targetDir, "newer", cacheWithoutFlag, true)

	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, base, base))
	require.NoError(t, os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)))

	got, err := newestBuildDir(targetDir)
	require.NoError(t, err)
	assert.Equal(t, newer, got)

	// Flip the mtimes; selection must follow.
	require.NoError(t, os.Chtimes(older, base.Add(2*time.Minute), base.Add(2*time.Minute)))
	got, err = newestBuildDir(targetDir)
	require.NoError(t, err)
	assert.Equal(t, older, got)
}

func TestVerify_BuildInvocation(t *testing.T) {
	targetDir := t.TempDir()
	writeBuildTree(t, targetDir, "abc123", cacheWithFlag, true)

	script := testutil.NewScriptedRunner()
	script.Stub([]string{"objdump"}, &runner.Result{Stdout: avxDisasm}, nil)
	v := newTestVerifier(script)

	err := v.Verify(context.Background(), targetDir, "presume-avx2", Expectation{Flag: true, Instructions: true})
	require.NoError(t, err)

	builds := script.CallsMatching("cargo", "build")
	require.Len(t, builds, 1)
	assert.Equal(t, []string{"cargo", "build", "--release", "--features", "presume-avx2"}, builds[0].Argv)
	assert.Equal(t, targetDir, builds[0].Env["CARGO_TARGET_DIR"],
		"target dir must be scoped per invocation, not process-wide")

	disasms := script.CallsMatching("objdump")
	require.Len(t, disasms, 1)
	assert.True(t, disasms[0].Capture, "disassembly is a programmatic check")
}

func TestVerify_BuildFailureStopsVerification(t *testing.T) {
	script := testutil.NewScriptedRunner()
	buildErr := &runner.CommandError{Argv: []string{"cargo", "build", "--release"}, ExitCode: 101}
	script.Stub([]string{"cargo", "build"}, nil, buildErr)
	v := newTestVerifier(script)

	err := v.Verify(context.Background(), t.TempDir(), "", Expectation{})
	require.ErrorIs(t, err, buildErr)
	assert.Empty(t, script.CallsMatching("objdump"))
}

func TestVerifyAll_RunsBothConfigurations(t *testing.T) {
	genericDir := t.TempDir()
	presumeDir := t.TempDir()
	writeBuildTree(t, genericDir, "g1", cacheWithoutFlag, true)
	writeBuildTree(t, presumeDir, "p1", cacheWithFlag, true)

	script := testutil.NewScriptedRunner()
	// First objdump call sees the generic object, second the presume one.
	script.StubSequence([]string{"objdump"},
		testutil.Response{Result: &runner.Result{Stdout: plainDisasm}},
		testutil.Response{Result: &runner.Result{Stdout: avxDisasm}},
	)
	v := newTestVerifier(script)
	v.GenericTargetDir = genericDir
	v.PresumeTargetDir = presumeDir

	require.NoError(t, v.VerifyAll(context.Background()))

	builds := script.CallsMatching("cargo", "build")
	require.Len(t, builds, 2)
	assert.Equal(t, []string{"cargo", "build", "--release"}, builds[0].Argv)
	assert.Equal(t, genericDir, builds[0].Env["CARGO_TARGET_DIR"])
	assert.Equal(t, []string{"cargo", "build", "--release", "--features", "presume-avx2"}, builds[1].Argv)
	assert.Equal(t, presumeDir, builds[1].Env["CARGO_TARGET_DIR"])
}
