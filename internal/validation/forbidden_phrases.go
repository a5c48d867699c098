package validation

import (
	"fmt"
	"strings"

	"github.com/jonathan/hireo/internal/paginate"
	"github.com/jonathan/hireo/internal/types"
)

// CheckForbiddenPhrases reports plan text containing any of phrases. Matching
// is case-insensitive and ignores runs of whitespace, so a phrase that wraps
// across lines of one block still matches.
func CheckForbiddenPhrases(plan *paginate.Plan, phrases []string) []types.Violation {
	type phrase struct{ raw, norm string }
	var normalized []phrase
	for _, p := range phrases {
		if n := normalizeForMatching(p); n != "" {
			normalized = append(normalized, phrase{raw: strings.TrimSpace(p), norm: n})
		}
	}
	if len(normalized) == 0 {
		return nil
	}

	var violations []types.Violation
	for _, page := range plan.Pages {
		for _, b := range page.Blocks {
			text := normalizeForMatching(blockText(b))
			for _, p := range normalized {
				if strings.Contains(text, p.norm) {
					violations = append(violations, types.Violation{
						Type:             TypeForbiddenPhrase,
						Severity:         types.SeverityError,
						Details:          fmt.Sprintf("Page %d contains forbidden phrase: %s", page.Number, p.raw),
						AffectedSections: []string{b.Section.String()},
						PageNumber:       intPtr(page.Number),
					})
					break // one violation per block
				}
			}
		}
	}
	return violations
}

func blockText(b paginate.PlacedBlock) string {
	var parts []string
	for _, ln := range b.Lines {
		parts = append(parts, ln.Text)
	}
	for _, c := range b.Chips {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, " ")
}

// normalizeForMatching lowercases text and collapses whitespace.
func normalizeForMatching(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
