// Package config loads and validates the tagwarden configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration
type Config struct {
	Version     string      `yaml:"version"`
	Provider    string      `yaml:"provider"`
	Region      string      `yaml:"region"`
	PolicyPath  string      `yaml:"policy"`
	RegoDir     string      `yaml:"rego_rules,omitempty"`
	StorageDir  string      `yaml:"storage_dir,omitempty"`
	MultiRegion MultiRegion `yaml:"multi_region"`
	Watch       Watch       `yaml:"watch,omitempty"`
}

// MultiRegion controls the fan-out across regions
type MultiRegion struct {
	Enabled       bool          `yaml:"enabled"`
	MaxConcurrent int           `yaml:"max_concurrent"`
	MaxRetries    int           `yaml:"max_retries"`
	RegionTimeout time.Duration `yaml:"region_timeout"`
	RetryBackoff  time.Duration `yaml:"retry_backoff"`
}

// Watch controls continuous scanning mode
type Watch struct {
	Interval    time.Duration `yaml:"interval"`
	MetricsAddr string        `yaml:"metrics_addr"`
}

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Provider == "" {
		c.Provider = "aws"
	}
	if c.StorageDir == "" {
		c.StorageDir = ".tagwarden"
	}
	if c.MultiRegion.MaxConcurrent == 0 {
		c.MultiRegion.MaxConcurrent = 5
	}
	if c.MultiRegion.MaxRetries == 0 {
		c.MultiRegion.MaxRetries = 3
	}
	if c.MultiRegion.RegionTimeout == 0 {
		c.MultiRegion.RegionTimeout = 5 * time.Minute
	}
	if c.MultiRegion.RetryBackoff == 0 {
		c.MultiRegion.RetryBackoff = time.Second
	}
	if c.Watch.Interval == 0 {
		c.Watch.Interval = time.Hour
	}
	if c.Watch.MetricsAddr == "" {
		c.Watch.MetricsAddr = ":9090"
	}
}

// Validate ensures config has required fields
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.PolicyPath == "" {
		return fmt.Errorf("policy is required")
	}
	if c.MultiRegion.MaxConcurrent < 1 {
		return fmt.Errorf("multi_region.max_concurrent must be at least 1")
	}
	if c.MultiRegion.MaxRetries < 1 {
		return fmt.Errorf("multi_region.max_retries must be at least 1")
	}
	return nil
}
