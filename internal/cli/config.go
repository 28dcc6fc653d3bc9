package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/raveheart1/opusci/internal/config"
	"github.com/raveheart1/opusci/internal/errors"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage opusci configuration",
	GroupID: GroupDiagnostics,
	Long: `Manage opusci configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (OPUSCI_*)
  2. Project config (.opusci/config.yml)
  3. User config (~/.config/opusci/config.yml)
  4. Built-in defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return errors.Wrap(err, errors.Configuration)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, errors.Configuration)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented config template to .opusci/config.yml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ProjectConfigPath()
		if _, err := os.Stat(path); err == nil {
			return errors.NewConfigError(
				fmt.Sprintf("config file already exists: %s", path),
				"Edit it directly, or delete it and re-run 'opusci config init'",
			)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Wrap(err, errors.Configuration)
		}
		if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
			return errors.Wrap(err, errors.Configuration)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
