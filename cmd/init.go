package cmd

import (
	"errors"
	"fmt"

	"github.com/modernmt/mmt/internal/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default mmt configuration file",
	Long: `Init writes the default configuration to ~/.config/mmt/config.toml, or to
config.toml in the directory named by MMT_CONFIG.

The file pins the installation root, the log format and the launch log
location. Use --force to replace an existing file.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	configPath, err := config.WriteDefault(configDir, initForce)
	if errors.Is(err, config.ErrConfigExists) {
		return fmt.Errorf("%w (use --force to overwrite)", err)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration written to: %s\n", configPath)
	fmt.Fprintln(out, "Set \"root\" to pin an installation, then run 'mmt validate'.")

	return nil
}
