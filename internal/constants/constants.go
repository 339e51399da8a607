// Package constants defines shared constants used across the mmt codebase.
package constants

import "os"

// File permissions
const (
	DirMode  os.FileMode = 0755
	FileMode os.FileMode = 0644
)

// Environment variables
const (
	EnvConfigDir = "MMT_CONFIG"
	EnvHome      = "MMT_HOME"
)

// Application paths
const (
	AppName         = "mmt"
	XDGConfigSubdir = ".config"
	XDGDataSubdir   = ".local/share"
	ConfigFileName  = "config.toml"
	LaunchLogName   = "launch.log"
)
