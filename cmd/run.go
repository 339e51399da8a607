package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modernmt/mmt/internal/config"
	"github.com/modernmt/mmt/internal/constants"
	"github.com/modernmt/mmt/internal/launch"
	"github.com/modernmt/mmt/internal/launchlog"
	"github.com/modernmt/mmt/internal/logger"
	"github.com/spf13/cobra"
)

var runDir string

var runCmd = &cobra.Command{
	Use:   "run <main-class> [args...]",
	Short: "Run a main class on the MMT classpath",
	Long: `Run starts java with the MMT jar on the classpath, mmt.home set to the
installation root and the native library path set to the build directory,
then runs the given main class with the remaining arguments.

Standard input and output are passed through and mmt exits with the exit code
of java. Every run is recorded in the launch log unless --no-launch-log is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runDir, "dir", "", "Working directory for java (defaults to the current directory)")
	runCmd.Flags().SetInterspersed(false)
}

func runRun(cmd *cobra.Command, args []string) error {
	l, err := currentLayout()
	if err != nil {
		return err
	}

	initLaunchLog()
	defer launchlog.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mainClass, extra := args[0], args[1:]
	argv := l.JavaMain(mainClass, extra...)

	// scripts started by the engine find the installation through MMT_HOME
	res, runErr := launch.Run(ctx, argv, launch.Options{
		Dir:    runDir,
		Env:    []string{constants.EnvHome + "=" + l.Root()},
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
	logger.Info("java exited", "main_class", mainClass, "exit_code", res.ExitCode, "duration", res.Duration)

	if launchlog.IsEnabled() {
		recordLaunch(l.Root(), argv, mainClass, extra, res, runErr)
	}
	return runErr
}

func recordLaunch(root string, argv []string, mainClass string, extra []string, res launch.Result, runErr error) {
	cwd := runDir
	if cwd == "" {
		var err error
		if cwd, err = os.Getwd(); err != nil {
			logger.Debug("working directory unknown", "error", err)
		}
	}
	entry := launchlog.Entry{
		MainClass:  mainClass,
		Args:       extra,
		Command:    argv,
		Root:       root,
		Cwd:        cwd,
		ExitCode:   res.ExitCode,
		DurationMs: float64(res.Duration) / float64(time.Millisecond),
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	if err := launchlog.Log(entry); err != nil {
		logger.Error("failed to record launch", "error", err)
	}
}

func initLaunchLog() {
	cfg := config.Get().LaunchLog
	disable := noLaunchLog || !cfg.Enabled
	if err := launchlog.Init(cfg.Path, disable, cfg.MaxBytes()); err != nil {
		logger.Warn("launch log unavailable", "error", err)
	}
}
