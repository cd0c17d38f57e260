// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	RulesDir string `json:"rules_dir,omitempty"` // Directory containing rule markdown files
	MetaPath string `json:"meta_path,omitempty"` // Path to skill metadata JSON
	SkillDir string `json:"skill_dir,omitempty"` // Root of the skill tree for external link checks
	OutPath  string `json:"out_path,omitempty"`  // Compiled document output path

	// SQL engine
	EngineCacheDir string `json:"engine_cache_dir,omitempty"` // Where the clickhouse binary is staged
	EnginePath     string `json:"engine_path,omitempty"`      // Pre-existing binary; skips acquisition

	// External link checking
	LinkConcurrency int `json:"link_concurrency,omitempty"` // Batch size for concurrent probes
	LinkTimeoutSecs int `json:"link_timeout_secs,omitempty"` // Per-attempt timeout
	LinkMaxRetries  int `json:"link_max_retries,omitempty"`  // Additional attempts per URL

	// Behavior
	Verbose bool `json:"verbose,omitempty"`
}

// Defaults returns the built-in configuration applied underneath any
// config file values.
func Defaults() Config {
	return Config{
		LinkConcurrency: 10,
		LinkTimeoutSecs: 10,
		LinkMaxRetries:  3,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required-path checks are left to CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.LinkConcurrency < 0 {
		return fmt.Errorf("config error: 'link_concurrency' must be non-negative")
	}
	if c.LinkTimeoutSecs < 0 {
		return fmt.Errorf("config error: 'link_timeout_secs' must be non-negative")
	}
	if c.LinkMaxRetries < 0 {
		return fmt.Errorf("config error: 'link_max_retries' must be non-negative")
	}

	if c.RulesDir != "" {
		if _, err := os.Stat(c.RulesDir); os.IsNotExist(err) {
			return fmt.Errorf("config error: rules directory not found: %s", c.RulesDir)
		}
	}
	if c.MetaPath != "" {
		if _, err := os.Stat(c.MetaPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: metadata file not found: %s", c.MetaPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.RulesDir == "" {
		result.RulesDir = defaults.RulesDir
	}
	if result.MetaPath == "" {
		result.MetaPath = defaults.MetaPath
	}
	if result.SkillDir == "" {
		result.SkillDir = defaults.SkillDir
	}
	if result.OutPath == "" {
		result.OutPath = defaults.OutPath
	}
	if result.EngineCacheDir == "" {
		result.EngineCacheDir = defaults.EngineCacheDir
	}
	if result.EnginePath == "" {
		result.EnginePath = defaults.EnginePath
	}

	if result.LinkConcurrency == 0 {
		result.LinkConcurrency = defaults.LinkConcurrency
	}
	if result.LinkTimeoutSecs == 0 {
		result.LinkTimeoutSecs = defaults.LinkTimeoutSecs
	}
	if result.LinkMaxRetries == 0 {
		result.LinkMaxRetries = defaults.LinkMaxRetries
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
