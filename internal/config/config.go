// Package config handles the global pubex configuration: a YAML file under
// XDG_CONFIG_HOME, a .env file and PUBEX_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/pubex/internal/export"
)

// Config represents configuration stored in ~/.config/pubex/config.yml.
type Config struct {
	OutputFormat string `yaml:"output_format,omitempty"` // Default extract format
	Output       string `yaml:"output,omitempty"`        // Default extract destination (empty = stdout)
	DBPath       string `yaml:"db_path,omitempty"`       // SQLite index location
	LogLevel     string `yaml:"log_level,omitempty"`     // debug, info, warn, error
	LogFormat    string `yaml:"log_format,omitempty"`    // text, json
}

// Config keys, as written in the YAML file.
const (
	KeyOutputFormat = "output_format"
	KeyOutput       = "output"
	KeyDBPath       = "db_path"
	KeyLogLevel     = "log_level"
	KeyLogFormat    = "log_format"
)

// Keys lists the settable keys in display order.
var Keys = []string{KeyOutputFormat, KeyOutput, KeyDBPath, KeyLogLevel, KeyLogFormat}

// EnvPrefix prefixes the environment variable overriding each key.
const EnvPrefix = "PUBEX_"

// DBFile is the index file name used when db_path is not configured.
const DBFile = "publications.db"

// ValidLogLevels lists the supported log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats lists the supported log_format values.
var ValidLogFormats = []string{"text", "json"}

var (
	// ErrUnknownKey is returned for a key not in Keys.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a value fails validation.
	ErrInvalidValue = errors.New("invalid config value")
)

// EnvKey returns the environment variable for a config key.
func EnvKey(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

func (c *Config) field(key string) (*string, error) {
	switch key {
	case KeyOutputFormat:
		return &c.OutputFormat, nil
	case KeyOutput:
		return &c.Output, nil
	case KeyDBPath:
		return &c.DBPath, nil
	case KeyLogLevel:
		return &c.LogLevel, nil
	case KeyLogFormat:
		return &c.LogFormat, nil
	}
	return nil, fmt.Errorf("%w: %s (valid: %s)", ErrUnknownKey, key, strings.Join(Keys, ", "))
}

// Get returns the value of key.
func (c *Config) Get(key string) (string, error) {
	p, err := c.field(key)
	if err != nil {
		return "", err
	}
	return *p, nil
}

// Set validates value and stores it under key.
func (c *Config) Set(key, value string) error {
	p, err := c.field(key)
	if err != nil {
		return err
	}
	if err := validate(key, value); err != nil {
		return err
	}
	*p = value
	return nil
}

// Validate checks every configured value.
func (c *Config) Validate() error {
	for _, key := range Keys {
		v, _ := c.Get(key)
		if err := validate(key, v); err != nil {
			return err
		}
	}
	return nil
}

func validate(key, value string) error {
	if value == "" {
		return nil // Empty means "use the default"
	}
	switch key {
	case KeyOutputFormat:
		if _, err := export.ParseFormat(value); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidValue, key, err)
		}
	case KeyLogLevel:
		if _, err := ParseLogLevel(value); err != nil {
			return err
		}
	case KeyLogFormat:
		if !contains(ValidLogFormats, value) {
			return fmt.Errorf("%w: %s = %q (valid: %v)", ErrInvalidValue, key, value, ValidLogFormats)
		}
	}
	return nil
}

// ParseLogLevel maps a log_level value to a slog level. Empty means info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: %s = %q (valid: %v)", ErrInvalidValue, KeyLogLevel, s, ValidLogLevels)
}

// ResolvedDBPath returns the configured index path, or DBFile under the
// user cache directory.
func (c *Config) ResolvedDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return DBFile
	}
	return filepath.Join(cacheDir, GlobalConfigDir, DBFile)
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
