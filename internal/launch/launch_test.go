package launch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
}

func TestRunSuccess(t *testing.T) {
	requireShell(t)

	var stdout bytes.Buffer
	res, err := Run(context.Background(), []string{"sh", "-c", `printf '%s|%s' "$1" "$MMT_TEST"`, "sh", "a b"}, Options{
		Env:    []string{"MMT_TEST=yes"},
		Stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if got := stdout.String(); got != "a b|yes" {
		t.Errorf("stdout = %q, want %q", got, "a b|yes")
	}
}

func TestRunDirAndStdin(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	var stdout bytes.Buffer
	_, err := Run(context.Background(), []string{"sh", "-c", "pwd; cat"}, Options{
		Dir:    dir,
		Stdin:  strings.NewReader("from stdin"),
		Stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want, _ := filepath.EvalSymlinks(dir)
	lines := strings.SplitN(stdout.String(), "\n", 2)
	if got, _ := filepath.EvalSymlinks(lines[0]); got != want {
		t.Errorf("working dir = %q, want %q", lines[0], want)
	}
	if len(lines) < 2 || lines[1] != "from stdin" {
		t.Errorf("stdin not forwarded: %q", stdout.String())
	}
}

func TestRunExitCode(t *testing.T) {
	requireShell(t)

	var stderr bytes.Buffer
	res, err := Run(context.Background(), []string{"sh", "-c", "echo boom >&2; exit 3"}, Options{Stderr: &stderr})

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Run() error = %v, want *ExitError", err)
	}
	if exitErr.Code != 3 || res.ExitCode != 3 {
		t.Errorf("exit code = %d/%d, want 3", exitErr.Code, res.ExitCode)
	}
	if !strings.Contains(exitErr.Error(), "sh exited with code 3") {
		t.Errorf("Error() = %q", exitErr.Error())
	}
	if strings.TrimSpace(stderr.String()) != "boom" {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunStartFailure(t *testing.T) {
	res, err := Run(context.Background(), []string{filepath.Join(t.TempDir(), "no-such-java")}, Options{})
	if err == nil {
		t.Fatal("expected error for a missing executable")
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		t.Errorf("start failure should not be an ExitError: %v", err)
	}
	if res.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", res.ExitCode)
	}
}

func TestRunEmptyCommand(t *testing.T) {
	if _, err := Run(context.Background(), nil, Options{}); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("Run(nil) error = %v, want ErrEmptyCommand", err)
	}
}

// waitForFile polls until path exists, then calls fn.
func waitForFile(t *testing.T, path string, fn func()) {
	t.Helper()
	go func() {
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if _, err := os.Stat(path); err == nil {
				break
			}
			time.Sleep(10 * time.Millisecond)
		}
		fn()
	}()
}

func TestRunCancelInterruptsChild(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	ready := filepath.Join(dir, "ready")
	marker := filepath.Join(dir, "shutdown")
	script := `trap 'echo done > "$2"; exit 130' INT TERM; : > "$1"; while :; do sleep 0.05; done`

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	waitForFile(t, ready, cancel)

	res, err := Run(ctx, []string{"sh", "-c", script, "sh", ready, marker}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if _, statErr := os.Stat(marker); statErr != nil {
		t.Errorf("child did not run its interrupt handler: %v", statErr)
	}
	if res.ExitCode != 130 {
		t.Errorf("ExitCode = %d, want 130", res.ExitCode)
	}
}

func TestRunCancelKillsAfterGracePeriod(t *testing.T) {
	requireShell(t)

	ready := filepath.Join(t.TempDir(), "ready")
	script := `trap '' INT TERM; : > "$1"; while :; do sleep 0.05; done`

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	waitForFile(t, ready, cancel)

	start := time.Now()
	res, err := Run(ctx, []string{"sh", "-c", script, "sh", ready}, Options{GracePeriod: 200 * time.Millisecond})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("child was not killed after the grace period")
	}
	if res.ExitCode != 128+9 {
		t.Errorf("ExitCode = %d, want %d", res.ExitCode, 128+9)
	}
}

func TestRunKilledBySignal(t *testing.T) {
	requireShell(t)

	res, err := Run(context.Background(), []string{"sh", "-c", "kill -TERM $$"}, Options{})

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Run() error = %v, want *ExitError", err)
	}
	if exitErr.Code != 143 || res.ExitCode != 143 {
		t.Errorf("exit code = %d/%d, want 143", exitErr.Code, res.ExitCode)
	}
	if !strings.Contains(exitErr.Error(), "code 143") {
		t.Errorf("Error() = %q", exitErr.Error())
	}
}
