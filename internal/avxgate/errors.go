package avxgate

import (
	"fmt"
	"strings"
)

// BuildDirNotFoundError reports that no candidate build directory exists
// under the target's release/build subpath.
type BuildDirNotFoundError struct {
	TargetDir string
}

func (e *BuildDirNotFoundError) Error() string {
	return fmt.Sprintf("build dir not found under %s", e.TargetDir)
}

// MissingArtifactsError reports that the build tree is missing the build
// cache, the compiled object, or both. It carries every matching path found
// so duplicate-build contamination is visible in the message.
type MissingArtifactsError struct {
	TargetDir string
	Caches    []string
	Objects   []string
}

func (e *MissingArtifactsError) Error() string {
	return fmt.Sprintf(
		"missing required build artifacts under %s (found %s: [%s]; found %s: [%s])",
		e.TargetDir,
		cacheFileName, strings.Join(e.Caches, ", "),
		objectFileName, strings.Join(e.Objects, ", "),
	)
}

// FlagMismatchError reports disagreement between the expected and observed
// presence of the AVX presume flag in the build cache.
type FlagMismatchError struct {
	CachePath string
	Want      bool
	Got       bool
}

func (e *FlagMismatchError) Error() string {
	return fmt.Sprintf("AVX presume flag mismatch in %s: expected=%v, got=%v", e.CachePath, e.Want, e.Got)
}

// InstructionMismatchError reports disagreement between the expected and
// observed presence of AVX instructions in the compiled object.
type InstructionMismatchError struct {
	ObjectPath string
	Want       bool
	Got        bool
}

func (e *InstructionMismatchError) Error() string {
	return fmt.Sprintf("AVX instructions mismatch in %s: expected=%v, got=%v", e.ObjectPath, e.Want, e.Got)
}
