// Package launch runs the command lines built by the layout package.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/modernmt/mmt/internal/logger"
	"github.com/modernmt/mmt/internal/shellquote"
)

// DefaultGracePeriod is how long a cancelled child may take to exit after
// being interrupted before it is killed.
const DefaultGracePeriod = 10 * time.Second

// ErrEmptyCommand is returned when Run is given no command.
var ErrEmptyCommand = errors.New("empty command")

// Options configures a launch. Zero values inherit from the current process.
type Options struct {
	Dir    string
	Env    []string // appended to the current environment
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// GracePeriod overrides DefaultGracePeriod.
	GracePeriod time.Duration
}

// Result describes a finished launch.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// ExitError reports a child that ran and exited with a non-zero code.
type ExitError struct {
	Command []string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command[0], e.Code)
}

// Run starts argv and waits for it.
//
// Cancelling ctx interrupts the child so a JVM can run its shutdown hooks;
// it is killed only if it is still running after the grace period. A child
// that exits non-zero yields an *ExitError, and a child killed by a signal
// reports 128 plus the signal number like a shell does. Failing to start
// (for example java not being on PATH) yields the underlying error with
// ExitCode -1.
func Run(ctx context.Context, argv []string, opts Options) (Result, error) {
	if len(argv) == 0 {
		return Result{ExitCode: -1}, ErrEmptyCommand
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	}
	if opts.Stdout != nil {
		cmd.Stdout = opts.Stdout
	}
	if opts.Stderr != nil {
		cmd.Stderr = opts.Stderr
	}

	cmd.Cancel = func() error {
		if err := cmd.Process.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
			// no SIGINT on windows
			return cmd.Process.Kill()
		}
		return nil
	}
	cmd.WaitDelay = opts.GracePeriod
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultGracePeriod
	}

	log := logger.For("launch")
	if logger.Enabled(slog.LevelDebug) {
		log.Debug("launching", "command", shellquote.MustJoin(argv), "dir", opts.Dir)
	}

	start := time.Now()
	err := cmd.Run()
	result := Result{Duration: time.Since(start)}

	if err == nil {
		log.Debug("launch finished", "duration", result.Duration)
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitCode(exitErr)
		if ctx.Err() != nil {
			log.Debug("launch interrupted", "exit_code", result.ExitCode, "duration", result.Duration)
			return result, fmt.Errorf("launch interrupted: %w", ctx.Err())
		}
		log.Debug("launch failed", "exit_code", result.ExitCode, "duration", result.Duration)
		return result, &ExitError{Command: argv, Code: result.ExitCode}
	}

	result.ExitCode = -1
	if ctx.Err() != nil {
		// exited cleanly after the interrupt
		if cmd.ProcessState != nil {
			result.ExitCode = cmd.ProcessState.ExitCode()
		}
		return result, fmt.Errorf("launch interrupted: %w", ctx.Err())
	}
	return result, fmt.Errorf("failed to start %s: %w", argv[0], err)
}

// exitCode returns the child's exit status, or 128+signal when a signal
// terminated it.
func exitCode(err *exec.ExitError) int {
	if code := err.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := err.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return -1
}
