package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are persisted defaults loaded from the user's settings file.
// Command-line flags override them.
type Settings struct {
	// Extensions is a comma-separated default extension list.
	Extensions string `yaml:"extensions"`
	// MaxLine is the default display truncation threshold.
	MaxLine int `yaml:"max_line"`
	// LogLevel sets the default logging verbosity.
	LogLevel string `yaml:"log_level"`
	// History configures run-history recording.
	History HistorySettings `yaml:"history"`
}

// HistorySettings configures the run-history store.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultSettings returns the built-in defaults used when no settings file
// exists.
func DefaultSettings() *Settings {
	return &Settings{
		MaxLine:  1000,
		LogLevel: "info",
		History: HistorySettings{
			Enabled: true,
			Path:    filepath.Join(homeDir(), ".textseek", "history.db"),
		},
	}
}

// DefaultSettingsPath returns the standard settings file location.
func DefaultSettingsPath() string {
	return filepath.Join(homeDir(), ".textseek", "config.yaml")
}

// LoadSettings reads settings from path, layered over the defaults. A
// missing file is not an error; a malformed one is.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	return settings, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
