// Package config handles configuration loading and parsing for mmt.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/modernmt/mmt/internal/constants"
	"github.com/modernmt/mmt/internal/logger"
)

//go:embed config.toml
var defaultConfig []byte

// Config is the decoded mmt configuration.
type Config struct {
	// Root overrides the installation root located from the executable
	Root      string          `toml:"root"`
	Log       LogConfig       `toml:"log"`
	LaunchLog LaunchLogConfig `toml:"launch_log"`
}

// LogConfig controls the diagnostic logger.
type LogConfig struct {
	JSON bool `toml:"json"`
}

// LaunchLogConfig controls the record of `mmt run` invocations.
type LaunchLogConfig struct {
	Enabled   bool   `toml:"enabled"`
	Path      string `toml:"path"`
	MaxSizeMB int    `toml:"max_size_mb"`
}

// MaxBytes returns the rotation threshold in bytes. Zero disables rotation.
func (c LaunchLogConfig) MaxBytes() int64 {
	return int64(c.MaxSizeMB) << 20
}

// RootSource names where the installation root came from.
type RootSource string

const (
	RootFromFlag   RootSource = "flag"
	RootFromEnv    RootSource = "env"
	RootFromConfig RootSource = "config"
	RootFromBinary RootSource = "executable"
)

// ErrUnknownKeys is returned when the config file contains keys mmt does not know.
var ErrUnknownKeys = errors.New("unknown configuration keys")

var (
	// globalConfig is the loaded configuration
	globalConfig *Config
	// globalPath is the file globalConfig was read from, empty for embedded defaults
	globalPath string
	// configInitialized tracks whether config has been loaded
	configInitialized bool
	// loadErr is set when a config file exists but could not be used
	loadErr error
)

// ErrConfigExists is returned by WriteDefault when the config file is
// already present and force is not set.
var ErrConfigExists = errors.New("config file already exists")

func defaults() *Config {
	return &Config{
		LaunchLog: LaunchLogConfig{Enabled: true, MaxSizeMB: 10},
	}
}

// GetConfigDir returns the config directory path.
// Uses MMT_CONFIG env var if set, otherwise ~/.config/mmt
func GetConfigDir() (string, error) {
	if dir := os.Getenv(constants.EnvConfigDir); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, constants.XDGConfigSubdir, constants.AppName), nil
}

// EnsureConfigFiles creates the config directory and writes the default config file if it doesn't exist.
func EnsureConfigFiles(configDir string) error {
	_, err := WriteDefault(configDir, false)
	if errors.Is(err, ErrConfigExists) {
		return nil
	}
	return err
}

// WriteDefault writes the embedded default config into configDir and
// returns the file path. An existing file is only replaced when force is set.
func WriteDefault(configDir string, force bool) (string, error) {
	configPath := filepath.Join(configDir, constants.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return configPath, fmt.Errorf("%w at %s", ErrConfigExists, configPath)
	}

	if err := os.MkdirAll(configDir, constants.DirMode); err != nil {
		return configPath, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, defaultConfig, constants.FileMode); err != nil {
		return configPath, fmt.Errorf("failed to write %s: %w", constants.ConfigFileName, err)
	}
	return configPath, nil
}

// LoadConfig parses TOML data on top of the built-in defaults.
func LoadConfig(data []byte) (*Config, error) {
	return LoadConfigWithDir(data, "")
}

// LoadConfigWithDir parses TOML data like LoadConfig. A relative root or
// launch log path is resolved against dir when dir is not empty.
func LoadConfigWithDir(data []byte, dir string) (*Config, error) {
	cfg := defaults()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownKeys, strings.Join(keys, ", "))
	}

	if cfg.LaunchLog.MaxSizeMB < 0 {
		return nil, fmt.Errorf("launch_log.max_size_mb must not be negative, got %d", cfg.LaunchLog.MaxSizeMB)
	}

	if dir != "" {
		cfg.Root = resolveAgainst(dir, cfg.Root)
		cfg.LaunchLog.Path = resolveAgainst(dir, cfg.LaunchLog.Path)
	}

	return cfg, nil
}

func resolveAgainst(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// loadEmbeddedDefaults loads the embedded default config file.
func loadEmbeddedDefaults() *Config {
	cfg, err := LoadConfig(defaultConfig)
	if err != nil {
		return defaults()
	}
	return cfg
}

func fallback(reason string, err error) {
	logger.Debug(reason+", using embedded defaults", "error", err)
	globalConfig = loadEmbeddedDefaults()
	globalPath = ""
	configInitialized = true
}

// Init loads configuration from files, creating defaults if necessary.
// If loading fails, it falls back to embedded defaults.
func Init() error {
	if configInitialized {
		return nil
	}

	configDir, err := GetConfigDir()
	if err != nil {
		fallback("failed to get config dir", err)
		return err
	}

	if err := EnsureConfigFiles(configDir); err != nil {
		fallback("failed to ensure config files", err)
		return err
	}

	configPath := filepath.Join(configDir, constants.ConfigFileName)
	configData, err := os.ReadFile(configPath)
	if err != nil {
		fallback("failed to read config file", err)
		loadErr = fmt.Errorf("failed to read %s: %w", configPath, err)
		return loadErr
	}

	cfg, err := LoadConfigWithDir(configData, configDir)
	if err != nil {
		fallback("failed to parse config", err)
		loadErr = fmt.Errorf("invalid config %s: %w", configPath, err)
		return loadErr
	}

	globalConfig = cfg
	globalPath = configPath
	configInitialized = true

	logger.Debug("config loaded successfully",
		"path", configPath,
		"root", cfg.Root,
		"launch_log", cfg.LaunchLog.Enabled)
	return nil
}

// Get returns the current configuration.
// If Init has not been called, it initializes with defaults.
func Get() *Config {
	if !configInitialized {
		Init()
	}
	return globalConfig
}

// Err returns the error that made Init discard an existing config file, or
// nil. A missing or uncreatable config directory is not reported here.
func Err() error {
	return loadErr
}

// Path returns the file the current configuration was read from, or an
// empty string when the embedded defaults are in use.
func Path() string {
	return globalPath
}

// ResolveRoot picks the installation root: the flag value, then MMT_HOME,
// then the configured root. An empty result means the root must be located
// from the executable.
func ResolveRoot(flagValue string) (string, RootSource) {
	if flagValue != "" {
		return flagValue, RootFromFlag
	}
	if env := os.Getenv(constants.EnvHome); env != "" {
		return env, RootFromEnv
	}
	if cfg := Get(); cfg != nil && cfg.Root != "" {
		return cfg.Root, RootFromConfig
	}
	return "", RootFromBinary
}

// Reset resets the configuration state. Used for testing.
func Reset() {
	configInitialized = false
	globalConfig = nil
	globalPath = ""
	loadErr = nil
}

// GetDefaultConfig returns the embedded default configuration.
func GetDefaultConfig() []byte {
	return defaultConfig
}
