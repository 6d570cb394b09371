package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultDashHotkey         = "Mod4-space"
	DefaultStrutCheckInterval = 10 // seconds
	defaultStoreName          = "shellrc.toml"
)

// Config holds the daemon settings. The shell graph itself (panels, widgets,
// desktop, dash) lives in the config store named by Store.
type Config struct {
	// Store is the TOML config store path. A leading ~/ expands to $HOME.
	Store string `yaml:"store"`

	// LogLevel: debug, info, warn (or warning), error.
	LogLevel string `yaml:"log_level"`

	// Display and XAuthority override the environment before connecting to X.
	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`

	// EagerModels resolves every store group at startup instead of on demand.
	EagerModels bool `yaml:"eager_models"`

	SaveOnExit bool `yaml:"save_on_exit"`
	WatchStore bool `yaml:"watch_store"`

	// IPC enables the control socket. Socket overrides its default path.
	IPC    bool   `yaml:"ipc"`
	Socket string `yaml:"socket,omitempty"`

	// StrutCheckInterval is how often, in seconds, a failed strut publication
	// is retried. Zero disables the retry loop.
	StrutCheckInterval int `yaml:"strut_check_interval"`

	DashHotkey string `yaml:"dash_hotkey"`
	// Hotkeys maps a key sequence to the name of the widget it activates.
	Hotkeys map[string]string `yaml:"hotkeys,omitempty"`

	// NotifyErrors surfaces user-visible failures as desktop notifications.
	NotifyErrors bool `yaml:"notify_errors"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Store:              filepath.Join("~", ".config", "deskshell", defaultStoreName),
		LogLevel:           "info",
		SaveOnExit:         true,
		WatchStore:         true,
		IPC:                true,
		StrutCheckInterval: DefaultStrutCheckInterval,
		DashHotkey:         DefaultDashHotkey,
		Hotkeys:            make(map[string]string),
		NotifyErrors:       true,
	}
}

// ParseLogLevel maps a log level name to slog. Names are case-insensitive,
// "warn" is an alias for "warning" and an empty name means info.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// StorePath returns Store with a leading ~ expanded.
func (c *Config) StorePath() (string, error) {
	return expandHome(c.Store)
}

// Validate checks the settings and returns the first problem as a
// *ValidationError.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store) == "" {
		return &ValidationError{Path: "store", Err: fmt.Errorf("store is required")}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, warning, error")}
	}
	if c.StrutCheckInterval < 0 {
		return &ValidationError{Path: "strut_check_interval", Err: fmt.Errorf("strut_check_interval must be >= 0")}
	}
	if c.DashHotkey != "" && strings.TrimSpace(c.DashHotkey) == "" {
		return &ValidationError{Path: "dash_hotkey", Err: fmt.Errorf("dash_hotkey must not be blank")}
	}
	for key, name := range c.Hotkeys {
		if strings.TrimSpace(key) == "" {
			return &ValidationError{Path: "hotkeys", Err: fmt.Errorf("hotkeys contains an empty key sequence")}
		}
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "hotkeys." + key, Err: fmt.Errorf("widget name must not be empty")}
		}
		if key == c.DashHotkey {
			return &ValidationError{Path: "hotkeys." + key, Err: fmt.Errorf("key sequence is already bound to the dash")}
		}
	}
	return nil
}

// ValidationError points at the offending YAML path and, when known, the
// file position it was read from.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
