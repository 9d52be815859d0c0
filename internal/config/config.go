// Package config loads crawler configuration from an optional YAML file.
// Command-line flags override file values; both fall back to crawl
// defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sitescout/sitescout/internal/types"
)

// Duration wraps time.Duration so YAML values like "30s" parse naturally.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// File is the YAML configuration surface. MaxDepth is a pointer because
// zero is a legal depth (crawl the seed only) and must be distinguishable
// from an absent key.
type File struct {
	SeedURL         string   `yaml:"seed_url"`
	MaxPages        int      `yaml:"max_pages"`
	MaxDepth        *int     `yaml:"max_depth"`
	Timeout         Duration `yaml:"timeout"`
	DataDir         string   `yaml:"data_dir"`
	UserAgent       string   `yaml:"user_agent"`
	IncludePatterns []string `yaml:"include_patterns"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
	EnableSQLite    bool     `yaml:"enable_sqlite"`
}

// Load reads a YAML config file into a crawl Config. A missing path ("")
// yields a Config with nothing set. MaxDepth is -1 when the file does not
// set it, so callers can tell an omitted key from an explicit depth 0.
func Load(path string) (types.Config, error) {
	if path == "" {
		return types.Config{MaxDepth: -1}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return types.Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	maxDepth := -1
	if file.MaxDepth != nil {
		maxDepth = *file.MaxDepth
	}

	return types.Config{
		SeedURL:         file.SeedURL,
		MaxPages:        file.MaxPages,
		MaxDepth:        maxDepth,
		Timeout:         time.Duration(file.Timeout),
		DataDir:         file.DataDir,
		UserAgent:       file.UserAgent,
		IncludePatterns: file.IncludePatterns,
		ExcludePatterns: file.ExcludePatterns,
		EnableSQLite:    file.EnableSQLite,
	}, nil
}
