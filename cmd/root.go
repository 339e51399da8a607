// Package cmd implements the CLI commands for mmt.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/modernmt/mmt/internal/config"
	"github.com/modernmt/mmt/internal/constants"
	"github.com/modernmt/mmt/internal/launch"
	"github.com/modernmt/mmt/internal/layout"
	"github.com/modernmt/mmt/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose     bool
	rootDir     string
	noLaunchLog bool

	// installation is resolved on first use by currentLayout
	installation *layout.Layout
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mmt",
	Short: "MMT installation paths and Java launcher",
	Long: `mmt knows where an MMT installation keeps its engines, runtime data,
libraries and the mmt jar, and builds the java command line that runs an MMT
main class against them.

The installation root is taken from --root, then the MMT_HOME environment
variable, then the "root" key of the config file. When none is set it is the
parent of the directory holding the mmt binary, e.g. /opt/mmt for
/opt/mmt/bin/mmt.

Examples:
  mmt paths
  mmt command eu.modernmt.cli.Main --help
  mmt run eu.modernmt.cli.Main start -e default`,
	Version: layout.Version,
	// Silence usage and let Execute report errors
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.Execute()
	var exitErr *launch.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// ExitCode maps an error returned by Execute to a process exit code. A
// launched child's exit code is passed through.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *launch.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

func init() {
	// Initialize before running any command
	cobra.OnInitialize(initApp)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Installation root (or set MMT_HOME env var)")
	rootCmd.PersistentFlags().BoolVar(&noLaunchLog, "no-launch-log", false, "Do not record launches in the launch log")
}

// initApp loads the config and initializes the logger
func initApp() {
	cfgErr := config.Init()

	logger.Init(logger.Options{Verbose: verbose, JSON: config.Get().Log.JSON})

	if err := config.Err(); err != nil {
		// shown whatever the log level
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Warning: %v; using built-in defaults\n", err)
	} else if cfgErr != nil {
		logger.Warn("config not loaded, using defaults", "error", cfgErr)
	} else {
		logger.Debug("config loaded", "path", config.Path())
	}
}

// currentLayout resolves the installation layout once per process.
func currentLayout() (*layout.Layout, error) {
	if installation != nil {
		return installation, nil
	}

	root, source := config.ResolveRoot(rootDir)

	// a broken config may hold the root, so only an explicit one is trusted
	if err := config.Err(); err != nil && (source == config.RootFromConfig || source == config.RootFromBinary) {
		return nil, fmt.Errorf("%w (fix it, or pass --root or set %s)", err, constants.EnvHome)
	}

	var (
		l   *layout.Layout
		err error
	)
	if source == config.RootFromBinary {
		l, err = layout.Default()
	} else {
		l, err = layout.New(root)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve installation: %w", err)
	}

	logger.Debug("installation resolved", "root", l.Root(), "source", source)
	installation = l
	return l, nil
}
