// Package config loads the YAML configuration for anchoredit.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Log struct {
		Path        string `yaml:"path"`        // log file path, empty disables logging
		Development bool   `yaml:"development"` // readable encoder config instead of production
	} `yaml:"log"`

	Workspace struct {
		Roots []string `yaml:"roots"` // workspace folders; edits outside them require confirmation
		// CaseSensitive overrides the platform default for glob matching.
		CaseSensitive *bool `yaml:"case_sensitive"`
	} `yaml:"workspace"`

	Edit struct {
		// SimilarityThreshold for the last-resort similarity strategy.
		// 0 uses the default (0.95).
		SimilarityThreshold float64 `yaml:"similarity_threshold"`
	} `yaml:"edit"`

	Confirm struct {
		// AutoApprove rules are evaluated in order against workspace-relative
		// paths; the last matching rule wins, so put the most specific rules
		// last. Approved paths skip confirmation.
		AutoApprove []AutoApproveRule `yaml:"auto_approve"`
	} `yaml:"confirm"`
}

// AutoApproveRule maps a glob pattern to an approval verdict.
type AutoApproveRule struct {
	Pattern  string `yaml:"pattern"`
	Approved bool   `yaml:"approved"`
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Edit.SimilarityThreshold = 0.95
	if cwd, err := os.Getwd(); err == nil {
		cfg.Workspace.Roots = []string{cwd}
	}
	return cfg
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error; the defaults apply.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and fills derived defaults.
func (c *Config) Validate() error {
	if c.Edit.SimilarityThreshold < 0 || c.Edit.SimilarityThreshold > 1 {
		return fmt.Errorf("edit.similarity_threshold must be in [0, 1], got %v", c.Edit.SimilarityThreshold)
	}
	if c.Edit.SimilarityThreshold == 0 {
		c.Edit.SimilarityThreshold = 0.95
	}
	for i, rule := range c.Confirm.AutoApprove {
		if rule.Pattern == "" {
			return fmt.Errorf("confirm.auto_approve[%d]: empty pattern", i)
		}
	}
	return nil
}
