package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/observability"
	"github.com/jonathan/hireo/internal/templates"
	"github.com/jonathan/hireo/internal/types"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the template catalog",
	RunE:  runTemplates,
}

var (
	templatesKind string
	templatesJSON bool
)

func init() {
	templatesCmd.Flags().StringVarP(&templatesKind, "kind", "k", "", "Only list templates of this kind (cv or cover_letter)")
	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "Print the catalog as JSON")
	rootCmd.AddCommand(templatesCmd)
}

type templateInfo struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Kind     document.Kind       `json:"kind"`
	Themes   []string            `json:"themes"`
	Fonts    []string            `json:"fonts"`
	Sections []types.SectionKind `json:"sections"`
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	kind := document.Kind(templatesKind)
	if kind != "" && kind != document.KindCV && kind != document.KindCoverLetter {
		return fmt.Errorf("invalid --kind %q: must be cv or cover_letter", templatesKind)
	}

	registry, err := templates.NewDefaultRegistry()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	list := registry.Templates(kind)

	if !templatesJSON {
		observability.NewPrinter(cmd.OutOrStdout()).PrintTemplates(list)
		return nil
	}

	infos := make([]templateInfo, 0, len(list))
	for _, t := range list {
		infos = append(infos, templateInfo{
			ID:       t.ID,
			Name:     t.Name,
			Kind:     t.Kind,
			Themes:   t.ThemeIDs,
			Fonts:    t.FontIDs,
			Sections: t.DefaultOrder,
		})
	}
	jsonBytes, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal templates to JSON: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
	return nil
}
