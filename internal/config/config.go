// Package config provides hierarchical configuration management for opusci
// using koanf. Configuration is loaded with priority: environment variables >
// project config (.opusci/config.yml) > user config (~/.config/opusci/config.yml)
// > defaults. Everything has a sensible CI default; a config file is optional.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	cerrors "github.com/raveheart1/opusci/internal/errors"
	"github.com/raveheart1/opusci/internal/syslib"
	yamlcheck "github.com/raveheart1/opusci/internal/yaml"
)

// Configuration represents the opusci CLI tool configuration.
type Configuration struct {
	// GenericTargetDir scopes the no-feature build (CARGO_TARGET_DIR).
	GenericTargetDir string `koanf:"generic_target_dir" yaml:"generic_target_dir"`
	// PresumeTargetDir scopes the presume-avx2 build. The two builds must use
	// distinct target dirs or artifact discovery would see both.
	PresumeTargetDir string `koanf:"presume_target_dir" yaml:"presume_target_dir"`
	// PresumeFeature is the cargo feature enabling unconditional AVX2.
	PresumeFeature string `koanf:"presume_feature" yaml:"presume_feature"`

	// Sudo prefixes privileged package operations (apt-get, dpkg) with sudo.
	Sudo bool `koanf:"sudo" yaml:"sudo"`
	// DownloadDir receives the fetched .deb files (empty = system temp dir).
	DownloadDir string `koanf:"download_dir" yaml:"download_dir"`
	// OSReleasePath is the distribution identity file consulted before
	// direct .deb installation.
	OSReleasePath string `koanf:"os_release_path" yaml:"os_release_path"`
	// Mirrors holds the per-category .deb download URLs, tried in order.
	Mirrors syslib.MirrorConfig `koanf:"mirrors" yaml:"mirrors"`
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults.
// projectConfigPath overrides the project config location ("" = default).
func Load(projectConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if userPath, err := UserConfigPath(); err == nil && fileExists(userPath) {
		if err := loadYAMLConfig(k, userPath, "user"); err != nil {
			return nil, err
		}
	}

	projectPath := ProjectConfigPath()
	if projectConfigPath != "" {
		projectPath = projectConfigPath
	}
	if fileExists(projectPath) {
		if err := loadYAMLConfig(k, projectPath, "project"); err != nil {
			return nil, err
		}
	} else if projectConfigPath != "" {
		return nil, cerrors.ConfigNotFound(projectConfigPath)
	}

	if err := k.Load(env.Provider("OPUSCI_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.DownloadDir = expandHomePath(cfg.DownloadDir)
	return &cfg, nil
}

// loadYAMLConfig validates and loads a YAML config file.
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := yamlcheck.ValidateFile(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadDefaults applies default configuration values.
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		_ = k.Set(key, value)
	}
}

// fileExists checks if a file exists at the given path.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: OPUSCI_DOWNLOAD_DIR -> download_dir
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "OPUSCI_"))
}

// expandHomePath expands ~ to the user's home directory.
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
