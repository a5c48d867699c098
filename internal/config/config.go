// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MaxThumbnailDimension bounds thumbnail_width and thumbnail_height.
const MaxThumbnailDimension = 4096

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Rendering
	Template        string `json:"template,omitempty"`         // Template id
	Theme           string `json:"theme,omitempty"`            // Theme id
	Font            string `json:"font,omitempty"`             // Font family id
	OutDir          string `json:"out_dir,omitempty"`          // Output directory for batch runs
	ThumbnailWidth  int    `json:"thumbnail_width,omitempty"`  // Thumbnail width in pixels
	ThumbnailHeight int    `json:"thumbnail_height,omitempty"` // Thumbnail height in pixels
	MaxPages        int    `json:"max_pages,omitempty"`        // Page budget checked after generation

	// Storage
	DatabaseURL     string `json:"database_url,omitempty"`      // PostgreSQL connection URL
	RedisAddr       string `json:"redis_addr,omitempty"`        // Redis address for the thumbnail cache
	RedisPassword   string `json:"redis_password,omitempty"`    // Redis password
	RedisDB         int    `json:"redis_db,omitempty"`          // Redis database number
	CacheTTLSeconds int    `json:"cache_ttl_seconds,omitempty"` // Thumbnail cache entry lifetime

	// Behavior
	Port             string   `json:"port,omitempty"`              // HTTP port for serve
	Workers          int      `json:"workers,omitempty"`           // Concurrent generations for batch
	Verbose          bool     `json:"verbose,omitempty"`           // Print detailed debug information
	StrictTemplates  bool     `json:"strict_templates,omitempty"`  // Fail on unknown template ids
	ForbiddenPhrases []string `json:"forbidden_phrases,omitempty"` // Phrases reported by validation
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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
// Note: template, theme and font ids are not checked here; the generator
// substitutes defaults for unknown ids.
func (c *Config) Validate() error {
	nonNegative := []struct {
		name  string
		value int
	}{
		{"thumbnail_width", c.ThumbnailWidth},
		{"thumbnail_height", c.ThumbnailHeight},
		{"max_pages", c.MaxPages},
		{"redis_db", c.RedisDB},
		{"cache_ttl_seconds", c.CacheTTLSeconds},
		{"workers", c.Workers},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", f.name)
		}
	}

	if c.ThumbnailWidth > MaxThumbnailDimension || c.ThumbnailHeight > MaxThumbnailDimension {
		return fmt.Errorf("config error: thumbnail dimensions must not exceed %d", MaxThumbnailDimension)
	}

	if c.OutDir != "" {
		if info, err := os.Stat(c.OutDir); err == nil && !info.IsDir() {
			return fmt.Errorf("config error: out_dir is not a directory: %s", c.OutDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	mergeString(&result.Template, defaults.Template)
	mergeString(&result.Theme, defaults.Theme)
	mergeString(&result.Font, defaults.Font)
	mergeString(&result.OutDir, defaults.OutDir)
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.RedisAddr, defaults.RedisAddr)
	mergeString(&result.RedisPassword, defaults.RedisPassword)
	mergeString(&result.Port, defaults.Port)

	// Int fields: use default if zero
	mergeInt(&result.ThumbnailWidth, defaults.ThumbnailWidth)
	mergeInt(&result.ThumbnailHeight, defaults.ThumbnailHeight)
	mergeInt(&result.MaxPages, defaults.MaxPages)
	mergeInt(&result.RedisDB, defaults.RedisDB)
	mergeInt(&result.CacheTTLSeconds, defaults.CacheTTLSeconds)
	mergeInt(&result.Workers, defaults.Workers)

	if len(result.ForbiddenPhrases) == 0 {
		result.ForbiddenPhrases = defaults.ForbiddenPhrases
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func mergeString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func mergeInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}
