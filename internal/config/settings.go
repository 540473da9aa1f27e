package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	appName      = "padlock"
	settingsFile = "config.yaml"
)

// Settings are the user-tunable knobs. All of them have working defaults;
// the file is optional.
type Settings struct {
	// DefaultSlot is the 1-based slot reserved when no argument is given.
	DefaultSlot int `yaml:"default_slot"`

	// PollIntervalMS and PollAttempts set the cadence and bound of the
	// discovery and free-confirmation polls.
	PollIntervalMS int `yaml:"poll_interval_ms"`
	PollAttempts   int `yaml:"poll_attempts"`

	// WaitIntervalMS is the outer control-loop tick while waiting for
	// the physical controller.
	WaitIntervalMS int `yaml:"wait_interval_ms"`

	// Listen is the default status endpoint address ("" = disabled).
	Listen string `yaml:"listen"`
}

// Defaults returns the built-in settings: slot 1, 100 polls at 10ms, 100ms
// wait tick, no status endpoint.
func Defaults() *Settings {
	return &Settings{
		DefaultSlot:    1,
		PollIntervalMS: 10,
		PollAttempts:   100,
		WaitIntervalMS: 100,
	}
}

// GetConfigDir returns the OS-appropriate configuration directory.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/padlock or $HOME/.config/padlock
//   - macOS: $HOME/.config/padlock (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\padlock
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			// Fallback to USERPROFILE\AppData\Local if LOCALAPPDATA not set
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		// Linux and other Unix-like systems
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			baseDir = filepath.Join(xdg, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// DefaultPath returns the default settings file location.
func DefaultPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFile), nil
}

// Load reads settings from the given path, or from the default location
// when path is empty. A missing file yields the defaults; a malformed file
// is an error. Zero or negative values in the file fall back per-field to
// the defaults.
func Load(path string) (*Settings, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	s := Defaults()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	s.normalize()
	return s, nil
}

// Save writes settings to the given path (default location when empty),
// creating the directory as needed.
func Save(s *Settings, path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", path, err)
	}
	return nil
}

// normalize replaces unusable values with defaults.
func (s *Settings) normalize() {
	d := Defaults()
	if s.DefaultSlot <= 0 {
		s.DefaultSlot = d.DefaultSlot
	}
	if s.PollIntervalMS <= 0 {
		s.PollIntervalMS = d.PollIntervalMS
	}
	if s.PollAttempts <= 0 {
		s.PollAttempts = d.PollAttempts
	}
	if s.WaitIntervalMS <= 0 {
		s.WaitIntervalMS = d.WaitIntervalMS
	}
}
