// Package launchlog records every Java launch made by mmt as a JSON line.
package launchlog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/modernmt/mmt/internal/constants"
	"github.com/modernmt/mmt/internal/logger"
)

// TimestampFormat is the format used for launch log timestamps.
const TimestampFormat = "2006-01-02T15:04:05.0Z07:00"

// rotatedFormat names compressed logs; it sorts chronologically.
const rotatedFormat = "20060102T150405Z"

// EntryVersion is the current entry format.
const EntryVersion = 1

// Entry is a single launch record.
type Entry struct {
	Version    int      `json:"version"`
	Timestamp  string   `json:"timestamp"`
	MainClass  string   `json:"main_class"`
	Args       []string `json:"args"`
	Command    []string `json:"command"`
	Root       string   `json:"root"`
	Cwd        string   `json:"cwd"`
	ExitCode   int      `json:"exit_code"`
	DurationMs float64  `json:"duration_ms"`
	Error      string   `json:"error,omitempty"`
}

var (
	logFile *os.File
	mu      sync.Mutex
	enabled bool
	now     = time.Now
)

// DefaultLogPath returns the default launch log path (~/.local/share/mmt/launch.log)
func DefaultLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, filepath.FromSlash(constants.XDGDataSubdir), constants.AppName, constants.LaunchLogName), nil
}

// Init opens the launch log at path, or the default path when path is empty.
// If the existing log is larger than maxBytes it is compressed next to the
// log and a fresh file is started. maxBytes <= 0 disables rotation.
func Init(path string, disable bool, maxBytes int64) error {
	mu.Lock()
	defer mu.Unlock()

	if disable {
		enabled = false
		return nil
	}

	if path == "" {
		var err error
		path, err = DefaultLogPath()
		if err != nil {
			logger.Debug("failed to get default launch log path", "error", err)
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirMode); err != nil {
		logger.Debug("failed to create launch log directory", "error", err)
		return err
	}

	if maxBytes > 0 {
		if err := rotate(path, maxBytes); err != nil {
			// a failed rotation must not stop launches from being recorded
			logger.Warn("failed to rotate launch log", "path", path, "error", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		logger.Debug("failed to open launch log file", "error", err)
		return err
	}

	logFile = f
	enabled = true
	logger.Debug("launch log initialized", "path", path)
	return nil
}

// rotate compresses path into path.<timestamp>.gz and truncates it when it
// has grown past maxBytes.
func rotate(path string, maxBytes int64) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Size() <= maxBytes {
		return nil
	}

	rotated := fmt.Sprintf("%s.%s.gz", path, now().UTC().Format(rotatedFormat))
	if err := compressFile(path, rotated); err != nil {
		os.Remove(rotated)
		return fmt.Errorf("failed to compress %s: %w", path, err)
	}
	if err := os.Truncate(path, 0); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", path, err)
	}

	logger.Debug("launch log rotated", "path", path, "archive", rotated, "size", info.Size())
	return nil
}

func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, constants.FileMode)
	if err != nil {
		return err
	}

	zw := gzip.NewWriter(out)
	zw.Name = filepath.Base(src)
	if _, err := io.Copy(zw, in); err != nil {
		out.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Close closes the launch log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		enabled = false
		return err
	}
	return nil
}

// Log writes an entry to the launch log.
// If the launch log is not initialized or disabled, this is a no-op.
func Log(entry Entry) error {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || logFile == nil {
		return nil
	}

	entry.Version = EntryVersion
	entry.Timestamp = now().UTC().Format(TimestampFormat)

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Debug("failed to marshal launch entry", "error", err)
		return err
	}

	if _, err := logFile.Write(append(data, '\n')); err != nil {
		logger.Debug("failed to write launch entry", "error", err)
		return err
	}

	return nil
}

// IsEnabled returns whether the launch log is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Reset resets the launch log state. Used for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = nil
	enabled = false
	now = time.Now
}
