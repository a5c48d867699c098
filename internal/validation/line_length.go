package validation

import (
	"fmt"

	"github.com/jonathan/hireo/internal/paginate"
	"github.com/jonathan/hireo/internal/types"
)

// widthTolerance absorbs float rounding in measured widths.
const widthTolerance = 0.01

// ValidateLineWidths reports text lines and chips that extend past the right
// edge of the content rectangle. Wrapping keeps every line inside unless a
// single glyph is wider than the column.
func ValidateLineWidths(plan *paginate.Plan) []types.Violation {
	var violations []types.Violation
	for _, page := range plan.Pages {
		right := page.ContentRect.X + page.ContentRect.Width + widthTolerance
		for _, b := range page.Blocks {
			for _, ln := range b.Lines {
				if end := b.Origin.X + ln.X + ln.Width; end > right {
					violations = append(violations, lineViolation(page, b, ln.Text, end-right))
				}
			}
			for _, c := range b.Chips {
				if end := b.Origin.X + c.X + c.Width; end > right {
					violations = append(violations, lineViolation(page, b, c.Text, end-right))
				}
			}
		}
	}
	return violations
}

func lineViolation(page paginate.Page, b paginate.PlacedBlock, text string, over float64) types.Violation {
	return types.Violation{
		Type:             TypeLineTooWide,
		Severity:         types.SeverityWarning,
		Details:          fmt.Sprintf("Page %d: %q is %.1fpt wider than the column", page.Number, text, over),
		AffectedSections: []string{b.Section.String()},
		PageNumber:       intPtr(page.Number),
		Overflow:         floatPtr(over),
	}
}
