package avxgate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// artifactSet holds the recursive search results for the two artifacts the
// verifier cross-checks. All matches are kept for diagnostics; verification
// interprets only the first of each.
type artifactSet struct {
	Caches  []string
	Objects []string
}

func (a artifactSet) complete() bool {
	return len(a.Caches) > 0 && len(a.Objects) > 0
}

// newestBuildDir returns the most recently modified opus-codec-* directory
// one level below <targetDir>/release/build, or "" if none exists. Ties and
// ordering come from filesystem mtimes; acceptable for a single-run CI
// target directory.
func newestBuildDir(targetDir string) (string, error) {
	buildRoot := filepath.Join(targetDir, "release", "build")
	entries, err := os.ReadDir(buildRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	var newest string
	var newestMod int64
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), buildDirPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return "", err
		}
		if newest == "" || info.ModTime().UnixNano() > newestMod {
			newest = filepath.Join(buildRoot, entry.Name())
			newestMod = info.ModTime().UnixNano()
		}
	}
	return newest, nil
}

// findArtifacts recursively searches the target tree for the build cache and
// the compiled object by filename.
func findArtifacts(targetDir string) (artifactSet, error) {
	var set artifactSet
	err := filepath.WalkDir(targetDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch d.Name() {
		case cacheFileName:
			set.Caches = append(set.Caches, path)
		case objectFileName:
			set.Objects = append(set.Objects, path)
		}
		return nil
	})
	return set, err
}
