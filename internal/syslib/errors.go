package syslib

import (
	"fmt"
	"strings"
)

// UnsupportedEnvironmentError reports that direct .deb installation was
// needed but the host does not identify as a Debian-family distribution.
type UnsupportedEnvironmentError struct {
	// Reason explains what the os-release inspection found (or that the
	// file was missing entirely).
	Reason string
	// FoundVersion is the version the last probe observed ("" = absent).
	FoundVersion string
}

func (e *UnsupportedEnvironmentError) Error() string {
	found := e.FoundVersion
	if found == "" {
		found = "none"
	}
	return fmt.Sprintf("expected libopus %s but found %s; %s", requiredVersion, found, e.Reason)
}

// DownloadFailedError reports that every mirror for an artifact category
// failed.
type DownloadFailedError struct {
	Category string
	Mirrors  []string
}

func (e *DownloadFailedError) Error() string {
	return fmt.Sprintf("failed to download %s libopus deb from all mirrors: %s",
		e.Category, strings.Join(e.Mirrors, ", "))
}

// VersionMismatchError reports that the installed version still disagrees
// with the required version after all escalations.
type VersionMismatchError struct {
	Want string
	Got  string
}

func (e *VersionMismatchError) Error() string {
	got := e.Got
	if got == "" {
		got = "none"
	}
	return fmt.Sprintf("expected libopus %s but found %s", e.Want, got)
}
