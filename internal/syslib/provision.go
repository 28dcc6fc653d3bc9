// Package syslib provisions the system libopus the crate's system-lib
// feature links against. Provisioning is an escalation chain: probe the
// installed version, fall back to the system package manager, then to direct
// .deb downloads from a prioritized mirror list, re-probing after every
// step. The package-manager step is best effort (its repository may simply
// lack the required version); every later step is load-bearing and fatal on
// failure. The two policies are deliberate and must stay distinct.
package syslib

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/raveheart1/opusci/internal/osrelease"
	"github.com/raveheart1/opusci/internal/runner"
)

const (
	// requiredVersion is compared by exact string equality against the
	// pkg-config probe; no version-range logic.
	requiredVersion = "1.5.2"
	// pkgConfigModule is the pkg-config name of the library.
	pkgConfigModule = "opus"
	// aptPackage is the distribution package the fast path installs.
	aptPackage = "libopus-dev"
	// systemLibFeature gates the crate's build and tests on the system
	// library instead of the bundled one.
	systemLibFeature = "system-lib"
)

// Provisioner drives the escalation chain for the system libopus.
type Provisioner struct {
	Runner runner.Runner
	// Out receives progress narration (default os.Stdout).
	Out io.Writer
	// OSReleasePath is the identity file consulted before direct installs
	// (default /etc/os-release).
	OSReleasePath string
	// DownloadDir receives the fetched .deb files (default os.TempDir()).
	DownloadDir string
	// Mirrors holds the per-category download URLs.
	Mirrors MirrorConfig
	// Sudo prefixes privileged package operations with sudo.
	Sudo bool
}

// NewProvisioner creates a Provisioner with the defaults used in CI.
func NewProvisioner(r runner.Runner) *Provisioner {
	return &Provisioner{
		Runner:        r,
		Out:           os.Stdout,
		OSReleasePath: osrelease.DefaultPath,
		DownloadDir:   os.TempDir(),
		Mirrors:       DefaultMirrors(),
		Sudo:          true,
	}
}

// RequiredVersion returns the version the provisioner converges on.
func (p *Provisioner) RequiredVersion() string {
	return requiredVersion
}

// InstalledVersion probes the installed library version via pkg-config.
// A failed probe means "absent" and is never fatal: an uninstalled library
// is the expected starting state.
func (p *Provisioner) InstalledVersion(ctx context.Context) (string, bool) {
	res, err := p.Runner.Run(ctx, runner.Invocation{
		Argv:    []string{"pkg-config", "--modversion", pkgConfigModule},
		Capture: true,
	})
	if err != nil {
		fmt.Fprintf(p.out(), "pkg-config probe failed: %v\n", err)
		return "", false
	}
	return strings.TrimSpace(res.Stdout), true
}

// Ensure runs the escalation chain until the installed version matches the
// required one, or every escalation is exhausted. Each escalation is
// preceded by a fresh probe and attempted only while the probe still
// disagrees.
func (p *Provisioner) Ensure(ctx context.Context) error {
	if ver, ok := p.InstalledVersion(ctx); ok && ver == requiredVersion {
		fmt.Fprintf(p.out(), "libopus already at %s\n", requiredVersion)
		return nil
	}

	p.aptInstall(ctx)

	ver, _ := p.InstalledVersion(ctx)
	if ver == requiredVersion {
		fmt.Fprintf(p.out(), "libopus at %s after apt install\n", requiredVersion)
		return nil
	}

	if err := p.checkEnvironment(ver); err != nil {
		return err
	}
	return p.directInstall(ctx)
}

// aptInstall refreshes the package index and installs the distribution
// package. Best effort: the repository may not carry the required version,
// so failures are logged and swallowed. The caller re-probes afterward.
func (p *Provisioner) aptInstall(ctx context.Context) {
	if _, err := p.Runner.Run(ctx, runner.Invocation{Argv: p.privileged("apt-get", "update")}); err != nil {
		fmt.Fprintf(p.out(), "apt-get update failed, will try deb mirrors: %v\n", err)
		return
	}
	if _, err := p.Runner.Run(ctx, runner.Invocation{Argv: p.privileged("apt-get", "install", "-y", aptPackage)}); err != nil {
		fmt.Fprintf(p.out(), "apt-get install %s failed, will try deb mirrors: %v\n", aptPackage, err)
	}
}

// checkEnvironment gates the direct-install escalation on the host identity.
// The mirror URLs point at Debian pool packages; installing them anywhere
// else is not attempted.
func (p *Provisioner) checkEnvironment(foundVersion string) error {
	info, err := osrelease.Load(p.OSReleasePath)
	if err != nil {
		return &UnsupportedEnvironmentError{
			Reason:       fmt.Sprintf("cannot read %s: %v", p.OSReleasePath, err),
			FoundVersion: foundVersion,
		}
	}
	if !info.DebianFamily() {
		return &UnsupportedEnvironmentError{
			Reason:       fmt.Sprintf("host identifies as %q, not a Debian-family distribution", info.ID),
			FoundVersion: foundVersion,
		}
	}
	return nil
}

// directInstall downloads the runtime and dev packages from their mirror
// lists, installs both with dpkg, and re-verifies the version.
func (p *Provisioner) directInstall(ctx context.Context) error {
	runtimeDeb := filepath.Join(p.DownloadDir, "libopus0.deb")
	devDeb := filepath.Join(p.DownloadDir, "libopus-dev.deb")

	if err := p.downloadFirst(ctx, CategoryRuntime, p.Mirrors.Runtime, runtimeDeb); err != nil {
		return err
	}
	if err := p.downloadFirst(ctx, CategoryDev, p.Mirrors.Dev, devDeb); err != nil {
		return err
	}

	if _, err := p.Runner.Run(ctx, runner.Invocation{Argv: p.privileged("dpkg", "-i", runtimeDeb, devDeb)}); err != nil {
		// One repair pass for unresolved dependencies, itself best effort.
		fmt.Fprintf(p.out(), "dpkg failed, trying apt-get install -f: %v\n", err)
		if _, err := p.Runner.Run(ctx, runner.Invocation{Argv: p.privileged("apt-get", "install", "-f", "-y")}); err != nil {
			fmt.Fprintf(p.out(), "apt-get install -f failed: %v\n", err)
		}
	}

	ver, _ := p.InstalledVersion(ctx)
	if ver != requiredVersion {
		return &VersionMismatchError{Want: requiredVersion, Got: ver}
	}
	return nil
}

// downloadFirst fetches the first reachable mirror into dest. Later mirrors
// are never contacted once one succeeds.
func (p *Provisioner) downloadFirst(ctx context.Context, category string, urls []string, dest string) error {
	for _, url := range urls {
		_, err := p.Runner.Run(ctx, runner.Invocation{
			Argv: []string{"curl", "-fLsS", url, "-o", dest},
		})
		if err == nil {
			fmt.Fprintf(p.out(), "Downloaded %s\n", url)
			return nil
		}
		fmt.Fprintf(p.out(), "Download failed from %s, trying next mirror...\n", url)
	}
	return &DownloadFailedError{Category: category, Mirrors: urls}
}

// Exercise builds and tests the crate against the provisioned library. Any
// failure here is fatal: the library is in place, so the build must work.
func (p *Provisioner) Exercise(ctx context.Context) error {
	if _, err := p.Runner.Run(ctx, runner.Invocation{
		Argv: []string{"cargo", "build", "--features", systemLibFeature},
	}); err != nil {
		return err
	}
	_, err := p.Runner.Run(ctx, runner.Invocation{
		Argv: []string{"cargo", "test", "--features", systemLibFeature},
	})
	return err
}

// privileged prefixes a package operation with sudo when configured.
func (p *Provisioner) privileged(argv ...string) []string {
	if p.Sudo {
		return append([]string{"sudo"}, argv...)
	}
	return argv
}

func (p *Provisioner) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}
