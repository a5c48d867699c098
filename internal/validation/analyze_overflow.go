package validation

import (
	"github.com/jonathan/hireo/internal/paginate"
)

// tightenFill is the largest fill of the last page, as a fraction of the
// content height, that a denser template can usually absorb.
const tightenFill = 0.25

// OverflowAnalysis contains the results of analyzing a page budget overflow
type OverflowAnalysis struct {
	ExcessPages  int      // Pages beyond the budget
	ExcessHeight float64  // Content height in points on those pages
	LastPageFill float64  // Fraction of the last page's content area in use
	Sections     []string // Sections with content beyond the budget
	CanTighten   bool     // A denser template or fewer sections likely fits
	MustDrop     bool     // Content has to be removed
}

// AnalyzePageOverflow measures how much content lies beyond maxPages.
func AnalyzePageOverflow(plan *paginate.Plan, maxPages int) *OverflowAnalysis {
	analysis := &OverflowAnalysis{}

	// If no overflow, return empty analysis
	if maxPages <= 0 || plan.PageCount() <= maxPages {
		return analysis
	}

	analysis.ExcessPages = plan.PageCount() - maxPages
	var excess []paginate.PlacedBlock
	for _, page := range plan.Pages[maxPages:] {
		analysis.ExcessHeight += page.Used()
		excess = append(excess, page.Blocks...)
	}
	analysis.Sections = sectionNames(excess)

	last := plan.Pages[len(plan.Pages)-1]
	if last.ContentRect.Height > 0 {
		analysis.LastPageFill = last.Used() / last.ContentRect.Height
	}

	analysis.CanTighten = analysis.ExcessPages == 1 && analysis.LastPageFill <= tightenFill
	analysis.MustDrop = !analysis.CanTighten
	return analysis
}
