package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/opusci/config.yml
// - macOS: ~/Library/Application Support/opusci/config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "opusci", "config.yml"), nil
}

// ProjectConfigPath returns the path to the project-level config file.
// This is always .opusci/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".opusci", "config.yml")
}

// ProjectConfigDir returns the path to the project-level config directory.
func ProjectConfigDir() string {
	return ".opusci"
}
