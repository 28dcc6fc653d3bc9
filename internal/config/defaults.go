package config

import "github.com/raveheart1/opusci/internal/syslib"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options.
func GetDefaultConfigTemplate() string {
	return `# opusci configuration
# All values are optional; these are the CI defaults.

# AVX gate verification
generic_target_dir: target/ci-generic   # CARGO_TARGET_DIR for the no-feature build
presume_target_dir: target/ci-presume   # CARGO_TARGET_DIR for the presume-avx2 build
presume_feature: presume-avx2           # Cargo feature enabling unconditional AVX2

# System libopus provisioning
sudo: true                              # Prefix apt-get/dpkg with sudo
download_dir: ""                        # Where to place downloaded .deb files (empty = temp dir)
os_release_path: /etc/os-release        # Distribution identity file

# Ordered .deb mirrors per artifact category; first success wins
mirrors:
  runtime:
    - https://deb.debian.org/debian/pool/main/o/opus/libopus0_1.5.2-2_amd64.deb
    - https://mirrors.edge.kernel.org/debian/pool/main/o/opus/libopus0_1.5.2-2_amd64.deb
  dev:
    - https://deb.debian.org/debian/pool/main/o/opus/libopus-dev_1.5.2-2_amd64.deb
    - https://mirrors.edge.kernel.org/debian/pool/main/o/opus/libopus-dev_1.5.2-2_amd64.deb
`
}

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]interface{} {
	mirrors := syslib.DefaultMirrors()
	return map[string]interface{}{
		"generic_target_dir": "target/ci-generic",
		"presume_target_dir": "target/ci-presume",
		"presume_feature":    "presume-avx2",
		"sudo":               true,
		"download_dir":       "",
		"os_release_path":    "/etc/os-release",
		"mirrors": map[string]interface{}{
			"runtime": mirrors.Runtime,
			"dev":     mirrors.Dev,
		},
	}
}
