package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/modernmt/mmt/internal/config"
	"github.com/modernmt/mmt/internal/constants"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and show the effective settings",
	Long: `Validate parses the mmt configuration file and displays the settings mmt
will use, including where the installation root comes from.

This is useful for:
- Checking that your config.toml syntax is correct
- Seeing which installation root wins between --root, MMT_HOME and the config`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	configPath := filepath.Join(configDir, constants.ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", configPath, err)
	}

	cfg, err := config.LoadConfigWithDir(data, configDir)
	if err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration valid!")
	fmt.Fprintf(out, "File: %s\n", configPath)
	fmt.Fprintln(out)

	root, source := config.ResolveRoot(rootDir)
	if source == config.RootFromBinary {
		root = "(located from the mmt binary)"
	}
	fmt.Fprintf(out, "Root: %s [%s]\n", root, source)
	fmt.Fprintf(out, "Log format: %s\n", logFormat(cfg.Log.JSON))

	ll := cfg.LaunchLog
	if !ll.Enabled {
		fmt.Fprintln(out, "Launch log: disabled")
		return nil
	}
	path := ll.Path
	if path == "" {
		path = "(default)"
	}
	fmt.Fprintf(out, "Launch log: %s (rotate at %d MB)\n", path, ll.MaxSizeMB)

	return nil
}

func logFormat(json bool) string {
	if json {
		return "json"
	}
	return "text"
}
