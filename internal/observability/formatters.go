// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/hireo/internal/generator"
	"github.com/jonathan/hireo/internal/mapping"
	"github.com/jonathan/hireo/internal/paginate"
	"github.com/jonathan/hireo/internal/templates"
	"github.com/jonathan/hireo/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

// PrintDocument outputs a summary of a generated document.
func (p *Printer) PrintDocument(doc *generator.Document) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Kind:     %s\n", doc.Kind))
	sb.WriteString(fmt.Sprintf("Template: %s\n", doc.TemplateID))
	sb.WriteString(fmt.Sprintf("Theme:    %s (%s)\n", doc.ThemeID, doc.FontID))
	sb.WriteString(fmt.Sprintf("Pages:    %d\n", doc.PageCount))
	sb.WriteString(fmt.Sprintf("Size:     %d bytes\n", len(doc.Bytes)))
	sb.WriteString(fmt.Sprintf("Hash:     %s", truncate(doc.ContentHash, 19)))
	if doc.Diagnostics.Degraded {
		sb.WriteString("\n\n⚠ content overflows its page")
	}

	p.printBox("GENERATED DOCUMENT", sb.String())
}

// PrintPlanSummary outputs the pages of a render plan with the sections on each.
func (p *Printer) PrintPlanSummary(plan *paginate.Plan) {
	if plan == nil || len(plan.Pages) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d pages, template %s:\n\n", plan.PageCount(), plan.TemplateID))

	count := min(len(plan.Pages), maxItemsToShow)
	for i := 0; i < count; i++ {
		page := plan.Pages[i]
		var sections []string
		for _, b := range page.Blocks {
			name := b.Section.String()
			if len(sections) == 0 || sections[len(sections)-1] != name {
				sections = append(sections, name)
			}
		}
		marker := "•"
		if page.Overflow {
			marker = "⚠"
		}
		sb.WriteString(fmt.Sprintf("%s Page %d: %d blocks, %.0fpt used\n", marker, page.Number, len(page.Blocks), page.Used()))
		if len(sections) > 0 {
			sb.WriteString(fmt.Sprintf("  [%s]\n", truncate(strings.Join(sections, ", "), 50)))
		}
	}

	if len(plan.Pages) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more pages", len(plan.Pages)-maxItemsToShow))
	}

	p.printBox("RENDER PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDiagnostics outputs configuration and fallback notices.
func (p *Printer) PrintDiagnostics(notices []mapping.Notice) {
	if len(notices) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d notices:\n\n", len(notices)))

	count := min(len(notices), maxItemsToShow)
	for i := 0; i < count; i++ {
		n := notices[i]
		sb.WriteString(fmt.Sprintf("• %s (%s)\n", n.Field, n.Kind))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(n.Message, 50)))
	}

	if len(notices) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more notices", len(notices)-maxItemsToShow))
	}

	p.printBox("DIAGNOSTICS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTemplates outputs the template catalog.
func (p *Printer) PrintTemplates(list []*templates.Template) {
	if len(list) == 0 {
		return
	}

	var sb strings.Builder
	for i, t := range list {
		sb.WriteString(fmt.Sprintf("%s (%s)\n", t.ID, t.Kind))
		sb.WriteString(fmt.Sprintf("  themes: %s\n", strings.Join(t.ThemeIDs, ", ")))
		sb.WriteString(fmt.Sprintf("  fonts:  %s", strings.Join(t.FontIDs, ", ")))
		if i < len(list)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("TEMPLATES", sb.String())
}

// PrintViolations outputs any constraint violations found.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintViolations(violations *types.Violations) {
	if violations == nil || len(violations.Violations) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO VIOLATIONS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d violations:\n\n", len(violations.Violations)))

	for i, v := range violations.Violations {
		sb.WriteString(fmt.Sprintf("⚠ %s (%s)\n", v.Type, v.Severity))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(v.Details, 45)))
		if i < len(violations.Violations)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("CONSTRAINT VIOLATIONS", sb.String())
}
