package validation

import (
	"fmt"

	"github.com/jonathan/hireo/internal/paginate"
	"github.com/jonathan/hireo/internal/pdfread"
	"github.com/jonathan/hireo/internal/types"
)

// CountPDFPages counts the pages of a PDF produced by the renderer.
func CountPDFPages(data []byte) (int, error) {
	doc, err := pdfread.Parse(data)
	if err != nil {
		return 0, &Error{Op: "count pages", Err: err}
	}
	return doc.NumPages(), nil
}

// ValidateDocument checks that a rendered document has exactly the pages of
// its plan, then runs ValidatePlan.
func ValidateDocument(data []byte, plan *paginate.Plan, opts Options) (*types.Violations, error) {
	count, err := CountPDFPages(data)
	if err != nil {
		return nil, err
	}
	violations := ValidatePlan(plan, opts)
	if count != plan.PageCount() {
		violations.Add(types.Violation{
			Type:     TypePageMismatch,
			Severity: types.SeverityError,
			Details:  fmt.Sprintf("Document has %d pages, plan has %d", count, plan.PageCount()),
		})
	}
	return violations, nil
}
