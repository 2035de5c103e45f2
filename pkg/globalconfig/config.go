// Package globalconfig provides per-user defaults for armparts.
// Configuration is stored at ~/.config/armparts/config.yaml and names the
// parts directory and output directory used when no flag is given.
package globalconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Version is the current config schema version.
const Version = "1.0"

var (
	// ErrNotInitialized is returned when no config file exists.
	ErrNotInitialized = errors.New("armparts not initialized: run 'armparts init --global <path>' first")
	// ErrPartsDirNotFound is returned when the configured parts directory doesn't exist.
	ErrPartsDirNotFound = errors.New("configured parts directory does not exist")
)

// Config represents the per-user armparts configuration.
type Config struct {
	Version   string `yaml:"version"`
	PartsDir  string `yaml:"parts_dir"`            // Set by `armparts init --global`
	OutputDir string `yaml:"output_dir,omitempty"` // Default for build --output-dir
}

// NewConfig creates a new Config with defaults.
func NewConfig() *Config {
	return &Config{Version: Version}
}

// Load loads the config from ~/.config/armparts/config.yaml.
// Returns ErrNotInitialized if config doesn't exist.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Version == "" {
		cfg.Version = Version
	}

	return &cfg, nil
}

// LoadOrCreate loads the config if it exists, or creates a new one.
func LoadOrCreate() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		if errors.Is(err, ErrNotInitialized) {
			return NewConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save saves the config to ~/.config/armparts/config.yaml.
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// PartsDirectory returns the configured parts directory and validates it
// exists.
func (c *Config) PartsDirectory() (string, error) {
	if c.PartsDir == "" {
		return "", ErrNotInitialized
	}

	info, err := os.Stat(c.PartsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrPartsDirNotFound, c.PartsDir)
		}
		return "", fmt.Errorf("failed to access parts directory: %w", err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("parts directory is not a directory: %s", c.PartsDir)
	}

	return c.PartsDir, nil
}

// SetPartsDir sets and validates the parts directory.
func (c *Config) SetPartsDir(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", absPath)
		}
		return fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", absPath)
	}

	c.PartsDir = absPath
	return nil
}
