package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"dirsort/internal/errors"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings
const (
	EnvLogLevel  = "DIRSORT_LOG_LEVEL"
	EnvLogFormat = "DIRSORT_LOG_FORMAT"
	EnvColor     = "DIRSORT_COLOR"
)

// Directories holds directory defaults
type Directories struct {
	Default string `yaml:"default"` // Directory organized when none is given
}

// Logging controls the diagnostic log
type Logging struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // Optional file receiving a copy of the log
}

// Output controls the report printed to stdout
type Output struct {
	Color string `yaml:"color"` // auto, always or never
}

// Watch controls watch mode
type Watch struct {
	DebounceMS int `yaml:"debounce_ms"` // Quiet period before a re-run
}

// Lock controls run serialization
type Lock struct {
	Enabled bool   `yaml:"enabled"` // Take an advisory lock per target directory
	Dir     string `yaml:"dir"`     // Where lock files live; empty means the user cache dir
}

// Config represents the application configuration structure.
// The category table is compiled in and not configurable.
type Config struct {
	Directories Directories `yaml:"directories"`
	Logging     Logging     `yaml:"logging"`
	Output      Output      `yaml:"output"`
	Watch       Watch       `yaml:"watch"`
	Lock        Lock        `yaml:"lock"`
}

// DefaultPath returns ~/.config/dirsort/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dirsort", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, errors.NewConfigError("cannot locate home directory", "", errors.ConfigNotFound, err)
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
// Environment overrides are applied last.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Unmarshal over the defaults so unset keys keep their default value
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv reads KEY=VALUE pairs from path into the process environment
// without replacing variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.NewConfigError("error loading env file", path, errors.InvalidConfig, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvColor); v != "" {
		c.Output.Color = v
	}
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "text"
	cfg.Output.Color = "auto"
	cfg.Watch.DebounceMS = 500
	cfg.Lock.Enabled = true
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.NewConfigError("invalid log level "+quote(c.Logging.Level), "logging.level", errors.InvalidConfig, nil)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return errors.NewConfigError("invalid log format "+quote(c.Logging.Format), "logging.format", errors.InvalidConfig, nil)
	}

	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return errors.NewConfigError("invalid color mode "+quote(c.Output.Color), "output.color", errors.InvalidConfig, nil)
	}

	if c.Watch.DebounceMS < 0 {
		return errors.NewConfigError("debounce must be >= 0", "watch.debounce_ms", errors.InvalidConfig, nil)
	}

	return nil
}

// Debounce returns the watch quiet period
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

func quote(s string) string {
	return "'" + s + "'"
}
