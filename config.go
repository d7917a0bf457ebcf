package toolbox

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config carries the handful of knobs the server accepts. Values come from
// an optional YAML file, overridden by environment variables, overridden by
// command-line flags.
type Config struct {
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`
	Workspace string `yaml:"workspace"`
	Analytics bool   `yaml:"analytics"`
	LogLevel  string `yaml:"log_level"`
	Debug     bool   `yaml:"debug"`
}

// DefaultConfig returns the built-in defaults. The workspace defaults to
// the current working directory.
func DefaultConfig() Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return Config{
		Name:      "toolbox-mcp",
		Version:   "0.1.0",
		Workspace: wd,
		LogLevel:  "info",
	}
}

// LoadConfig reads a YAML config file and applies environment overrides.
// A missing file is not an error; the defaults are used.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to env overrides.
		case err != nil:
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TOOLBOX_WORKSPACE"); v != "" {
		c.Workspace = v
	}
	if v := os.Getenv("TOOLBOX_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TOOLBOX_ANALYTICS"); v != "" {
		c.Analytics = v == "true"
	}
	if v := os.Getenv("TOOLBOX_DEBUG"); v != "" {
		c.Debug = v == "true"
	}
}

// SlogLevel maps the configured log level onto slog. Unknown values fall
// back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Recorder selects the usage recorder implied by the analytics toggle: a
// real in-memory recorder when enabled, a no-op otherwise.
func (c Config) Recorder() UsageRecorder {
	if c.Analytics {
		return NewMemoryRecorder()
	}
	return NopRecorder{}
}
