// Package testutil provides shared test utilities for mmt tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/modernmt/mmt/internal/config"
	"github.com/modernmt/mmt/internal/constants"
	"github.com/modernmt/mmt/internal/layout"
)

// SetupTestConfig points MMT_CONFIG at a temporary directory holding
// configContent and reloads the configuration. Empty content leaves the
// directory empty so the default file gets written.
func SetupTestConfig(t *testing.T, configContent string) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv(constants.EnvConfigDir, tmpDir)
	t.Setenv(constants.EnvHome, "")

	if configContent != "" {
		configPath := filepath.Join(tmpDir, constants.ConfigFileName)
		if err := os.WriteFile(configPath, []byte(configContent), constants.FileMode); err != nil {
			t.Fatal(err)
		}
	}

	config.Reset()
	config.Init()
	t.Cleanup(config.Reset)

	return tmpDir
}

// FakeInstall creates a complete installation tree with an empty jar under
// a temporary directory and returns its layout.
func FakeInstall(t *testing.T) *layout.Layout {
	t.Helper()

	l, err := layout.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range l.Dirs() {
		if d.File {
			continue
		}
		if err := os.MkdirAll(d.Path, constants.DirMode); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(l.JarPath(), nil, constants.FileMode); err != nil {
		t.Fatal(err)
	}
	return l
}

// MinimalTestConfig is a config with the launch log turned off.
const MinimalTestConfig = `
[launch_log]
enabled = false
`
