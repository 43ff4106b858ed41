package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/nmclean/internal/security"
)

// AppName names the config directory under the XDG config home
const AppName = "nmclean"

// Config represents the application configuration
type Config struct {
	// Workers is the size-aggregation pool size; 0 means one per CPU
	Workers        int       `yaml:"workers"`
	ExcludePattern []string  `yaml:"exclude_patterns"`
	ProtectedPaths []string  `yaml:"protected_paths"`
	DeleteRetries  int       `yaml:"delete_retries"`
	Verbose        bool      `yaml:"verbose"`
	Log            LogConfig `yaml:"log"`
}

// LogConfig controls the zerolog logger
type LogConfig struct {
	Level string `yaml:"level"`
	// File, when set, receives JSON logs; otherwise logs go to stderr
	File string `yaml:"file"`
}

// Load loads configuration from a file. A missing file yields the defaults;
// keys absent from the file keep their default values.
func Load(configPath string) (*Config, error) {
	config := GetDefault()

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}

	if c.DeleteRetries < 0 {
		return fmt.Errorf("delete retries must be >= 0")
	}

	for _, pattern := range c.ExcludePattern {
		if err := security.ValidateGlobPattern(pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	for _, path := range c.ProtectedPaths {
		if !filepath.IsAbs(path) {
			return fmt.Errorf("protected path must be absolute: %s", path)
		}
	}

	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
			return fmt.Errorf("invalid log level '%s'", c.Log.Level)
		}
	}

	return nil
}

// GetConfigPath returns the default config path. It does not create any
// directory.
func GetConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// EnsureConfigExists writes the default config to path if nothing is there
// and reports whether it did
func EnsureConfigExists(configPath string) (bool, error) {
	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := Save(GetDefault(), configPath); err != nil {
		return false, err
	}
	return true, nil
}
