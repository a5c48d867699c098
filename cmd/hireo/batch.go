package main

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/jonathan/hireo/internal/config"
	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/generator"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Render a profile with every CV template",
	Long: `Generates one CV per template into the output directory, together with a thumbnail
of each first page. Templates are rendered concurrently by --workers goroutines.`,
	RunE: runBatch,
}

var (
	batchProfilePath  string
	batchSettingsPath string
	batchOutDir       string
	batchWorkers      int
	batchThumbnails   bool
)

func init() {
	batchCmd.Flags().StringVarP(&batchProfilePath, "profile", "p", "", "Path to profile JSON file (required)")
	batchCmd.Flags().StringVarP(&batchSettingsPath, "settings", "s", "", "Path to settings JSON file (optional)")
	batchCmd.Flags().StringVarP(&batchOutDir, "out-dir", "o", "", "Output directory (default \"out\")")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Concurrent generations (default 4)")
	batchCmd.Flags().BoolVar(&batchThumbnails, "thumbnails", true, "Also write a PNG thumbnail per template")

	if err := batchCmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}

	rootCmd.AddCommand(batchCmd)
}

// batchResult is one line of the batch summary.
type batchResult struct {
	TemplateID string
	PageCount  int
	Path       string
	Degraded   bool
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd, func(c *config.Config) {
		if cmd.Flags().Changed("out-dir") {
			c.OutDir = batchOutDir
		}
		if cmd.Flags().Changed("workers") {
			c.Workers = batchWorkers
		}
	})
	if err != nil {
		return err
	}

	profile, err := readProfile(batchProfilePath)
	if err != nil {
		return err
	}
	settings, err := readSettings(batchSettingsPath)
	if err != nil {
		return err
	}
	settings = applyConfig(settings, cfg)

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	var (
		mu      sync.Mutex
		results []batchResult
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, tmpl := range gen.Registry().Templates(document.KindCV) {
		g.Go(func() error {
			doc, err := gen.GenerateCV(ctx, generator.CVRequest{
				Profile:    profile,
				TemplateID: tmpl.ID,
				Settings:   settings,
			})
			if err != nil {
				return fmt.Errorf("template %s: %w", tmpl.ID, err)
			}

			path := filepath.Join(cfg.OutDir, tmpl.ID+".pdf")
			if err := writeFile(path, doc.Bytes); err != nil {
				return err
			}
			if batchThumbnails {
				png, err := gen.ThumbnailPNG(ctx, doc.Bytes, cfg.ThumbnailWidth, cfg.ThumbnailHeight)
				if err != nil {
					return fmt.Errorf("template %s: %w", tmpl.ID, err)
				}
				if err := writeFile(filepath.Join(cfg.OutDir, tmpl.ID+".png"), png); err != nil {
					return err
				}
			}

			mu.Lock()
			results = append(results, batchResult{
				TemplateID: doc.TemplateID,
				PageCount:  doc.PageCount,
				Path:       path,
				Degraded:   doc.Diagnostics.Degraded,
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}
	slices.SortFunc(results, func(a, b batchResult) int {
		return strings.Compare(a.TemplateID, b.TemplateID)
	})

	for _, r := range results {
		marker := ""
		if r.Degraded {
			marker = " (overflows)"
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-10s %d page(s)  %s%s\n", r.TemplateID, r.PageCount, r.Path, marker)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Generated %d document(s) in %s\n", len(results), cfg.OutDir)
	return nil
}
