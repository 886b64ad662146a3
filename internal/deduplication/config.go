package deduplication

import (
	"fmt"
	"math"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultThreshold is the minimum score to treat two records as duplicates.
const DefaultThreshold = 80

// Config holds configuration for the deduplication engine
type Config struct {
	// Threshold is the minimum score (0-100) for two records to match.
	// The comparison is inclusive. Values outside 0-100 are allowed: below 0
	// everything matches, above 100 nothing does.
	// Default: 80
	Threshold float64 `env:"CONTACTMERGE_THRESHOLD"`

	// Merge collapses duplicates into master records instead of annotating
	// them with match/certainty.
	// Default: false (link mode)
	Merge bool `env:"CONTACTMERGE_MERGE"`

	// DryRun reports the merges that would happen without performing them.
	// Only meaningful together with Merge.
	// Default: false
	DryRun bool `env:"CONTACTMERGE_DRY_RUN"`
}

// DefaultConfig returns the default deduplication configuration
func DefaultConfig() Config {
	return Config{
		Threshold: DefaultThreshold,
		Merge:     false,
		DryRun:    false,
	}
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if math.IsNaN(c.Threshold) {
		return fmt.Errorf("threshold must be a number (got NaN)")
	}
	if math.IsInf(c.Threshold, 0) {
		return fmt.Errorf("threshold must be finite (got %v)", c.Threshold)
	}
	return nil
}

// Mode returns the name of the selected deduplication mode.
func (c Config) Mode() string {
	switch {
	case c.Merge && c.DryRun:
		return "merge (dry run)"
	case c.Merge:
		return "merge"
	default:
		return "link"
	}
}

// String returns a human-readable representation of the config
func (c Config) String() string {
	return fmt.Sprintf("Config{Threshold: %.2f, Merge: %t, DryRun: %t}",
		c.Threshold, c.Merge, c.DryRun)
}

// ApplyEnv overrides cfg with any CONTACTMERGE_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ConfigFromEnv creates a Config from environment variables, falling back to defaults
//
// Environment variables:
//   - CONTACTMERGE_THRESHOLD: Minimum score (0-100) to treat records as duplicates (default: 80)
//   - CONTACTMERGE_MERGE: Merge duplicates instead of linking them (default: false)
//   - CONTACTMERGE_DRY_RUN: Report merges without performing them (default: false)
//
// Returns an error if any environment variable has an invalid value.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}
	return cfg, nil
}

// ConfigFile represents the structure of a YAML configuration file.
// Pointer fields distinguish "not set" from zero values.
type ConfigFile struct {
	Threshold     *float64 `yaml:"threshold"`
	Merge         *bool    `yaml:"merge"`
	DryRun        *bool    `yaml:"dry_run"`
	InputEncoding string   `yaml:"input_encoding"`
}

// LoadConfigFile reads and parses a YAML configuration file.
func LoadConfigFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cf ConfigFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cf, nil
}

// Apply overrides cfg with the settings present in the file.
func (cf *ConfigFile) Apply(cfg *Config) {
	if cf.Threshold != nil {
		cfg.Threshold = *cf.Threshold
	}
	if cf.Merge != nil {
		cfg.Merge = *cf.Merge
	}
	if cf.DryRun != nil {
		cfg.DryRun = *cf.DryRun
	}
}
