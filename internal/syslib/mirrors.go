package syslib

// Artifact categories the direct-install escalation provisions. Both are
// required: the runtime package provides the shared library, the dev package
// the headers and pkg-config metadata.
const (
	CategoryRuntime = "runtime"
	CategoryDev     = "dev"
)

// MirrorConfig holds the ordered download URLs per artifact category.
// Mirrors are tried in order; the first success wins and later mirrors are
// never contacted.
type MirrorConfig struct {
	Runtime []string `koanf:"runtime" yaml:"runtime"`
	Dev     []string `koanf:"dev" yaml:"dev"`
}

// DefaultMirrors returns the Debian pool mirrors for libopus 1.5.2 amd64.
func DefaultMirrors() MirrorConfig {
	return MirrorConfig{
		Runtime: []string{
			"https://deb.debian.org/debian/pool/main/o/opus/libopus0_1.5.2-2_amd64.deb",
			"https://mirrors.edge.kernel.org/debian/pool/main/o/opus/libopus0_1.5.2-2_amd64.deb",
		},
		Dev: []string{
			"https://deb.debian.org/debian/pool/main/o/opus/libopus-dev_1.5.2-2_amd64.deb",
			"https://mirrors.edge.kernel.org/debian/pool/main/o/opus/libopus-dev_1.5.2-2_amd64.deb",
		},
	}
}
