package config

import (
	"os"
	"path/filepath"
)

const (
	appName        = "gdocs"
	configFileName = "config.toml"
)

// DefaultConfigDir returns $XDG_CONFIG_HOME/gdocs, falling back to
// ~/.config/gdocs.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// DefaultConfigPath returns the config file path used when none is given.
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return configFileName
	}
	return filepath.Join(dir, configFileName)
}
