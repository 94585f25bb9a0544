// Package config provides configuration loading and management for the
// PAR/REC decoder. It handles loading decoder options from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"parrec/pkg/parrec"
	"parrec/pkg/scaling"
)

// Config represents the decoder configuration loaded from YAML
type Config struct {
	// Scaling parameters
	Scaling struct {
		// DefaultMethod is the intensity scaling convention applied
		// by default: "dv" (console display value) or "fp"
		// (floating point value)
		DefaultMethod string `yaml:"defaultMethod"`
	} `yaml:"scaling"`

	// Parsing parameters
	Parsing struct {
		// StrictFields controls whether general-info keys outside
		// the known schema fail the parse (true) or are skipped with
		// a warning (false)
		StrictFields bool `yaml:"strictFields"`
	} `yaml:"parsing"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Scaling.DefaultMethod = string(scaling.DV)
	cfg.Parsing.StrictFields = true
	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Options translates the configuration into header construction options for
// parrec.FromReader and parrec.Load.
func (c *Config) Options() []parrec.Option {
	return []parrec.Option{
		parrec.WithScaling(scaling.Method(c.Scaling.DefaultMethod)),
		parrec.WithStrictFields(c.Parsing.StrictFields),
	}
}
