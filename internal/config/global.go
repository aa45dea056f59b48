package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "pubex"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *Config

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/pubex/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadFile reads the global config file without environment overrides.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadFile() (*Config, error) {
	path := GlobalConfigPath()
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}
	return &cfg, nil
}

// Load returns the effective configuration: the global file, then .env and
// PUBEX_* environment variables on top. The result is validated and cached.
func Load() (*Config, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}

	// Load .env file if present; variables already set win.
	_ = godotenv.Load()

	for _, key := range Keys {
		p, _ := cfg.field(key)
		*p = GetConfigValue(EnvKey(key), *p)
	}

	cfg.Output = ExpandTilde(cfg.Output)
	cfg.DBPath = ExpandTilde(cfg.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfigCache = cfg
	return cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetConfigValue returns the environment variable envKey if set, otherwise
// configValue.
func GetConfigValue(envKey, configValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return configValue
}

// Save writes cfg to the global config file, creating its directory.
func Save(cfg *Config) error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine global config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	ResetGlobalConfigCache()
	return nil
}
