// Package validation checks Render Plans and rendered documents against
// page budgets and content constraints.
package validation

import (
	"fmt"

	"github.com/jonathan/hireo/internal/paginate"
	"github.com/jonathan/hireo/internal/types"
)

// Violation types.
const (
	TypePageOverflow    = "page_overflow"
	TypePageBudget      = "page_budget"
	TypeEmptyPage       = "empty_page"
	TypeLineTooWide     = "line_too_wide"
	TypeForbiddenPhrase = "forbidden_phrase"
	TypePageMismatch    = "page_mismatch"
)

// Options provides optional checks for ValidatePlan
type Options struct {
	MaxPages         int      // 0 disables the page budget check
	ForbiddenPhrases []string // case-insensitive
}

// ValidatePlan runs every plan check. A plan with no violations renders
// within its content rectangles and page budget.
func ValidatePlan(plan *paginate.Plan, opts Options) *types.Violations {
	var all []types.Violation

	// 1. Forced placements
	all = append(all, CheckOverflow(plan)...)

	// 2. Pages without blocks
	for _, page := range plan.Pages {
		if len(page.Blocks) == 0 && plan.PageCount() > 1 {
			all = append(all, types.Violation{
				Type:       TypeEmptyPage,
				Severity:   types.SeverityWarning,
				Details:    fmt.Sprintf("Page %d has no content", page.Number),
				PageNumber: intPtr(page.Number),
			})
		}
	}

	// 3. Line widths
	all = append(all, ValidateLineWidths(plan)...)

	// 4. Forbidden phrases
	all = append(all, CheckForbiddenPhrases(plan, opts.ForbiddenPhrases)...)

	// 5. Page budget
	if opts.MaxPages > 0 && plan.PageCount() > opts.MaxPages {
		analysis := AnalyzePageOverflow(plan, opts.MaxPages)
		all = append(all, types.Violation{
			Type:     TypePageBudget,
			Severity: types.SeverityError,
			Details: fmt.Sprintf("Document has %d pages, maximum allowed is %d (%.0fpt over)",
				plan.PageCount(), opts.MaxPages, analysis.ExcessHeight),
			AffectedSections: analysis.Sections,
			Overflow:         floatPtr(analysis.ExcessHeight),
		})
	}

	return &types.Violations{Violations: all}
}

// CheckOverflow reports every block placed on a page it does not fit.
func CheckOverflow(plan *paginate.Plan) []types.Violation {
	var violations []types.Violation
	for _, page := range plan.Pages {
		if !page.Overflow {
			continue
		}
		over := page.Used() - page.ContentRect.Height
		sections := sectionNames(page.Blocks)
		violations = append(violations, types.Violation{
			Type:             TypePageOverflow,
			Severity:         types.SeverityWarning,
			Details:          fmt.Sprintf("Page %d content exceeds its area by %.1fpt", page.Number, over),
			AffectedSections: sections,
			PageNumber:       intPtr(page.Number),
			Overflow:         floatPtr(over),
		})
	}
	return violations
}

func sectionNames(blocks []paginate.PlacedBlock) []string {
	var names []string
	seen := map[types.SectionKind]bool{}
	for _, b := range blocks {
		if !seen[b.Section] {
			seen[b.Section] = true
			names = append(names, b.Section.String())
		}
	}
	return names
}

func intPtr(i int) *int {
	return &i
}

func floatPtr(f float64) *float64 {
	return &f
}
