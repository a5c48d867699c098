package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/hireo/internal/config"
	"github.com/jonathan/hireo/internal/validation"
	"github.com/spf13/cobra"
)

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail",
	Short: "Render a PNG thumbnail of a PDF's first page",
	RunE:  runThumbnail,
}

var (
	thumbnailInput  string
	thumbnailOutput string
	thumbnailWidth  int
	thumbnailHeight int
)

func init() {
	thumbnailCmd.Flags().StringVarP(&thumbnailInput, "in", "i", "", "Path to PDF file (required)")
	thumbnailCmd.Flags().StringVarP(&thumbnailOutput, "out", "o", "", "Path to output PNG file (required)")
	thumbnailCmd.Flags().IntVar(&thumbnailWidth, "width", 0, "Thumbnail width in pixels")
	thumbnailCmd.Flags().IntVar(&thumbnailHeight, "height", 0, "Thumbnail height in pixels")

	if err := thumbnailCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := thumbnailCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(thumbnailCmd)
}

func runThumbnail(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd, func(c *config.Config) {
		if cmd.Flags().Changed("width") {
			c.ThumbnailWidth = thumbnailWidth
		}
		if cmd.Flags().Changed("height") {
			c.ThumbnailHeight = thumbnailHeight
		}
	})
	if err != nil {
		return err
	}

	pdf, err := os.ReadFile(thumbnailInput)
	if err != nil {
		return fmt.Errorf("failed to read PDF file: %w", err)
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	png, err := gen.ThumbnailPNG(ctx, pdf, cfg.ThumbnailWidth, cfg.ThumbnailHeight)
	if err != nil {
		return fmt.Errorf("failed to render thumbnail: %w", err)
	}
	if err := writeFile(thumbnailOutput, png); err != nil {
		return err
	}

	if cfg.Verbose {
		if pages, err := validation.CountPDFPages(pdf); err == nil {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Source has %d page(s)\n", pages)
		}
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rendered %dx%d thumbnail\n", cfg.ThumbnailWidth, cfg.ThumbnailHeight)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", thumbnailOutput)
	return nil
}
