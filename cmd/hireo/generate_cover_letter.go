package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/hireo/internal/config"
	"github.com/jonathan/hireo/internal/generator"
	"github.com/jonathan/hireo/internal/schemas"
	"github.com/jonathan/hireo/internal/types"
	"github.com/spf13/cobra"
)

var generateCoverLetterCmd = &cobra.Command{
	Use:   "generate-cover-letter",
	Short: "Generate a cover letter PDF",
	Long:  "Lays out the letter body of a JSON file under the profile's letterhead and writes the PDF.",
	RunE:  runGenerateCoverLetter,
}

var (
	letterProfilePath string
	letterPath        string
	letterTemplate    string
	letterTheme       string
	letterOutput      string
)

func init() {
	generateCoverLetterCmd.Flags().StringVarP(&letterProfilePath, "profile", "p", "", "Path to profile JSON file (required)")
	generateCoverLetterCmd.Flags().StringVarP(&letterPath, "letter", "l", "", "Path to JSON file with application and letter (required)")
	generateCoverLetterCmd.Flags().StringVarP(&letterTemplate, "template", "t", "", "Template id (defaults to the first cover letter template)")
	generateCoverLetterCmd.Flags().StringVar(&letterTheme, "theme", "", "Theme id")
	generateCoverLetterCmd.Flags().StringVarP(&letterOutput, "out", "o", "", "Path to output PDF file (required)")

	for _, name := range []string{"profile", "letter", "out"} {
		if err := generateCoverLetterCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	rootCmd.AddCommand(generateCoverLetterCmd)
}

// coverLetterFile is the content of the --letter file.
type coverLetterFile struct {
	Application *types.ApplicationLink   `json:"application,omitempty"`
	Letter      types.CoverLetterContent `json:"letter"`
}

func readCoverLetter(path string) (coverLetterFile, error) {
	var f coverLetterFile
	content, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("failed to read letter file: %w", err)
	}
	if err := schemas.ValidateCoverLetter(content); err != nil {
		return f, fmt.Errorf("invalid letter %s: %w", path, err)
	}
	if err := json.Unmarshal(content, &f); err != nil {
		return f, fmt.Errorf("failed to unmarshal letter JSON: %w", err)
	}
	return f, nil
}

func runGenerateCoverLetter(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd, func(c *config.Config) {
		// The config template names a CV template; only the flag selects a letter template.
		c.Template = letterTemplate
		if cmd.Flags().Changed("theme") {
			c.Theme = letterTheme
		}
	})
	if err != nil {
		return err
	}

	profile, err := readProfile(letterProfilePath)
	if err != nil {
		return err
	}
	letter, err := readCoverLetter(letterPath)
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	doc, err := gen.GenerateCoverLetter(ctx, generator.CoverLetterRequest{
		Profile:     profile,
		TemplateID:  cfg.Template,
		Application: letter.Application,
		Letter:      letter.Letter,
		Settings:    applyConfig(types.CustomSettings{}, cfg),
	})
	if err != nil {
		return fmt.Errorf("failed to generate cover letter: %w", err)
	}

	if err := writeFile(letterOutput, doc.Bytes); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Generated %d-page cover letter with template %s\n", doc.PageCount, doc.TemplateID)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", letterOutput)

	return reportDocument(cmd, doc, cfg)
}
