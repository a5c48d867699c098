package main

import (
	"context"
	"fmt"

	"github.com/jonathan/hireo/internal/config"
	"github.com/jonathan/hireo/internal/db"
	"github.com/jonathan/hireo/internal/generator"
	"github.com/jonathan/hireo/internal/types"
	"github.com/spf13/cobra"
)

var generateCVCmd = &cobra.Command{
	Use:   "generate-cv",
	Short: "Generate a CV PDF from a profile",
	Long: `Maps a profile onto a CV template, paginates it and writes the PDF.

With --save the profile and the document are stored in the database given by
database_url or DATABASE_URL.`,
	RunE: runGenerateCV,
}

var (
	cvProfilePath   string
	cvSettingsPath  string
	cvTemplate      string
	cvTheme         string
	cvFont          string
	cvOutput        string
	cvThumbnailPath string
	cvMaxPages      int
	cvStrict        bool
	cvSave          bool
	cvInclude       []string
	cvOrder         []string
)

func init() {
	generateCVCmd.Flags().StringVarP(&cvProfilePath, "profile", "p", "", "Path to profile JSON file (required)")
	generateCVCmd.Flags().StringVarP(&cvSettingsPath, "settings", "s", "", "Path to settings JSON file (optional)")
	generateCVCmd.Flags().StringVarP(&cvTemplate, "template", "t", "", "Template id (defaults to the first CV template)")
	generateCVCmd.Flags().StringVar(&cvTheme, "theme", "", "Theme id")
	generateCVCmd.Flags().StringVar(&cvFont, "font", "", "Font family id")
	generateCVCmd.Flags().StringVarP(&cvOutput, "out", "o", "", "Path to output PDF file (required)")
	generateCVCmd.Flags().StringVar(&cvThumbnailPath, "thumbnail", "", "Also write a PNG thumbnail of the first page to this path")
	generateCVCmd.Flags().IntVar(&cvMaxPages, "max-pages", 0, "Fail when the CV needs more pages (0 disables the check)")
	generateCVCmd.Flags().BoolVar(&cvStrict, "strict", false, "Fail on unknown template ids instead of using the default")
	generateCVCmd.Flags().BoolVar(&cvSave, "save", false, "Store the profile and the document in the database")
	generateCVCmd.Flags().StringSliceVar(&cvInclude, "include", nil, "Sections to include, e.g. summary,workExperience (default all)")
	generateCVCmd.Flags().StringSliceVar(&cvOrder, "order", nil, "Section order, a permutation of the template's sections starting with personalHeader (see templates --json)")

	if err := generateCVCmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}
	if err := generateCVCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCVCmd)
}

func runGenerateCV(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd, func(c *config.Config) {
		if cmd.Flags().Changed("template") {
			c.Template = cvTemplate
		}
		if cmd.Flags().Changed("theme") {
			c.Theme = cvTheme
		}
		if cmd.Flags().Changed("font") {
			c.Font = cvFont
		}
		if cmd.Flags().Changed("max-pages") {
			c.MaxPages = cvMaxPages
		}
		if cmd.Flags().Changed("strict") {
			c.StrictTemplates = cvStrict
		}
	})
	if err != nil {
		return err
	}

	profile, err := readProfile(cvProfilePath)
	if err != nil {
		return err
	}
	settings, err := readSettings(cvSettingsPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("include") {
		if settings.IncludedSections, err = parseSections(cvInclude); err != nil {
			return fmt.Errorf("invalid --include: %w", err)
		}
	}
	if cmd.Flags().Changed("order") {
		if settings.SectionOrder, err = parseSections(cvOrder); err != nil {
			return fmt.Errorf("invalid --order: %w", err)
		}
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	doc, err := gen.GenerateCV(ctx, generator.CVRequest{
		Profile:    profile,
		TemplateID: cfg.Template,
		Settings:   applyConfig(settings, cfg),
	})
	if err != nil {
		return fmt.Errorf("failed to generate CV: %w", err)
	}

	if err := writeFile(cvOutput, doc.Bytes); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Generated %d-page CV with template %s\n", doc.PageCount, doc.TemplateID)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", cvOutput)

	if cvThumbnailPath != "" {
		png, err := gen.ThumbnailPNG(ctx, doc.Bytes, cfg.ThumbnailWidth, cfg.ThumbnailHeight)
		if err != nil {
			return fmt.Errorf("failed to render thumbnail: %w", err)
		}
		if err := writeFile(cvThumbnailPath, png); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Thumbnail: %s\n", cvThumbnailPath)
	}

	if cvSave {
		if err := saveGenerated(ctx, cmd, cfg, profile, doc); err != nil {
			return err
		}
	}

	return reportDocument(cmd, doc, cfg)
}

// saveGenerated stores the profile and its document, reusing a stored
// document with the same content hash.
func saveGenerated(ctx context.Context, cmd *cobra.Command, cfg config.Config, profile types.Profile, doc *generator.Document) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or database_url config is required with --save")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to prepare database: %w", err)
	}

	existing, err := database.FindDocumentByHash(ctx, doc.ContentHash)
	if err != nil {
		return fmt.Errorf("failed to look up document: %w", err)
	}
	if existing != nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Document already stored: %s\n", existing.ID)
		return nil
	}

	rec, err := database.CreateProfile(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	docRec := db.NewDocumentRecord(&rec.ID, doc)
	if err := database.SaveDocument(ctx, docRec); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s and document %s\n", rec.ID, docRec.ID)
	return nil
}

func parseSections(names []string) ([]types.SectionKind, error) {
	kinds := make([]types.SectionKind, 0, len(names))
	for _, name := range names {
		k, err := types.ParseSectionKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
