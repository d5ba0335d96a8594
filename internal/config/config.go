// Package config holds rulex command line tool settings loaded from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ava12/rulex/grammar"
	"github.com/ava12/rulex/langdef"
	"github.com/ava12/rulex/matcher"
)

// Config holds rulex settings.
type Config struct {
	// Start is the id of the rule candidates are matched against.
	Start int `yaml:"start"`

	// Patches are rule definitions in grammar description form merged into the grammar
	// before matching, e.g. "8: 42 | 42 8".
	Patches []string `yaml:"patches"`

	// Simplify enables rule set simplification before matching.
	Simplify bool `yaml:"simplify"`

	// MaxDepth limits rule nesting depth, 0 disables the limit.
	MaxDepth int `yaml:"max_depth"`

	// Workers is the number of candidates matched concurrently, 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns default settings.
func DefaultConfig() *Config {
	return &Config{
		Start:    grammar.RootRule,
		MaxDepth: matcher.DefaultMaxDepth,
	}
}

// Load loads configuration from a YAML file.
// Missing file is not an error, default settings are returned in this case.
// RULEX_MAX_DEPTH and RULEX_WORKERS environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.applyEnvOverrides()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() error {
	for name, dest := range map[string]*int{
		"RULEX_MAX_DEPTH": &c.MaxDepth,
		"RULEX_WORKERS":   &c.Workers,
	} {
		value := os.Getenv(name)
		if value == "" {
			continue
		}

		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", name, value, err)
		}
		*dest = n
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Start < 0 {
		return fmt.Errorf("invalid start rule id: %d", c.Start)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("invalid max depth: %d", c.MaxDepth)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid number of workers: %d", c.Workers)
	}
	_, err := c.PatchEntries()
	return err
}

// PatchEntries parses Patches, the result is suitable for grammar.Set.Merge.
func (c *Config) PatchEntries() ([]grammar.Entry, error) {
	result := make([]grammar.Entry, 0, len(c.Patches))
	for i, patch := range c.Patches {
		entry, err := langdef.ParseRule(fmt.Sprintf("patch #%d", i+1), patch)
		if err != nil {
			return nil, fmt.Errorf("invalid patch: %w", err)
		}
		result = append(result, entry)
	}
	return result, nil
}

// MatcherOptions returns matcher options corresponding to the configuration.
func (c *Config) MatcherOptions() []matcher.Option {
	opts := []matcher.Option{matcher.WithMaxDepth(c.MaxDepth)}
	if c.Workers > 0 {
		opts = append(opts, matcher.WithWorkers(c.Workers))
	}
	return opts
}
