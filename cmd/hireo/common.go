package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/hireo/internal/config"
	"github.com/jonathan/hireo/internal/generator"
	"github.com/jonathan/hireo/internal/observability"
	"github.com/jonathan/hireo/internal/schemas"
	"github.com/jonathan/hireo/internal/templates"
	"github.com/jonathan/hireo/internal/types"
	"github.com/jonathan/hireo/internal/validation"
	"github.com/spf13/cobra"
)

// defaults apply to every command after the config file, flags and environment.
var defaults = config.Config{
	OutDir:          "out",
	ThumbnailWidth:  generator.DefaultThumbnailWidth,
	ThumbnailHeight: generator.DefaultThumbnailHeight,
	Port:            "8080",
	Workers:         4,
	CacheTTLSeconds: 86400,
}

// loadConfig resolves the effective configuration: the --config file, then
// the overrides a command applies from its flags, then the environment, then
// defaults.
func loadConfig(cmd *cobra.Command, overrides func(*config.Config)) (config.Config, error) {
	var cfg config.Config
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if rootVerbose {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Loaded config from: %s\n", rootConfigPath)
		}
	}

	if overrides != nil {
		overrides(&cfg)
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = rootVerbose
	}

	env, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}
	cfg = cfg.MergeWithDefaults(env)
	cfg = cfg.MergeWithDefaults(defaults)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newGenerator(cfg config.Config) (*generator.Generator, error) {
	registry, err := templates.NewDefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return generator.New(registry, generator.Options{StrictTemplates: cfg.StrictTemplates}), nil
}

// readProfile loads a profile JSON file, checking it against the profile schema.
func readProfile(path string) (types.Profile, error) {
	var p types.Profile
	content, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read profile file: %w", err)
	}
	if err := schemas.ValidateProfile(content); err != nil {
		return p, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	if err := json.Unmarshal(content, &p); err != nil {
		return p, fmt.Errorf("failed to unmarshal profile JSON: %w", err)
	}
	return p, nil
}

// readSettings loads an optional settings JSON file. An empty path yields
// zero settings.
func readSettings(path string) (types.CustomSettings, error) {
	var s types.CustomSettings
	if path == "" {
		return s, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := schemas.ValidateSettings(content); err != nil {
		return s, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	if err := json.Unmarshal(content, &s); err != nil {
		return s, fmt.Errorf("failed to unmarshal settings JSON: %w", err)
	}
	return s, nil
}

// applyConfig fills theme and font settings the settings file left empty.
func applyConfig(s types.CustomSettings, cfg config.Config) types.CustomSettings {
	if s.ThemeID == "" {
		s.ThemeID = cfg.Theme
	}
	if s.FontID == "" {
		s.FontID = cfg.Font
	}
	return s
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// reportDocument prints what was generated and checks the plan. It returns
// an error when a check of error severity fails.
func reportDocument(cmd *cobra.Command, doc *generator.Document, cfg config.Config) error {
	printer := observability.NewPrinter(cmd.OutOrStdout())
	if cfg.Verbose {
		printer.PrintDocument(doc)
		printer.PrintPlanSummary(doc.Plan)
		if len(doc.Diagnostics.Notices) > 0 {
			printer.PrintDiagnostics(doc.Diagnostics.Notices)
		}
	} else {
		for _, n := range doc.Diagnostics.Configuration() {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", n.Message)
		}
	}

	violations, err := validation.ValidateDocument(doc.Bytes, doc.Plan, validation.Options{
		MaxPages:         cfg.MaxPages,
		ForbiddenPhrases: cfg.ForbiddenPhrases,
	})
	if err != nil {
		return fmt.Errorf("failed to validate document: %w", err)
	}
	violations.Sort()
	if len(violations.Violations) > 0 || cfg.Verbose {
		printer.PrintViolations(violations)
	}
	if violations.HasErrors() {
		return fmt.Errorf("validation found %d error(s)", violations.Count(types.SeverityError))
	}
	return nil
}
