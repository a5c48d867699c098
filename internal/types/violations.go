// Package types provides type definitions for structured data used throughout the hireo system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"sort"
)

// Severity grades a Violation. Only SeverityError fails a document.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Violation is one problem found in a render plan or its PDF.
type Violation struct {
	Type             string   `json:"type"`
	Severity         Severity `json:"severity"`
	Details          string   `json:"details"`
	AffectedSections []string `json:"affected_sections,omitempty"`
	PageNumber       *int     `json:"page_number,omitempty"`
	Overflow         *float64 `json:"overflow_pt,omitempty"`
}

func (v Violation) String() string {
	if v.PageNumber != nil {
		return fmt.Sprintf("%s [%s] page %d: %s", v.Type, v.Severity, *v.PageNumber, v.Details)
	}
	return fmt.Sprintf("%s [%s]: %s", v.Type, v.Severity, v.Details)
}

// Violations is the report of a document check.
type Violations struct {
	Violations []Violation `json:"violations"`
}

// Add appends violations to the report.
func (v *Violations) Add(vs ...Violation) {
	v.Violations = append(v.Violations, vs...)
}

// HasErrors reports whether any violation is SeverityError.
func (v Violations) HasErrors() bool {
	return v.Count(SeverityError) > 0
}

// Count returns the number of violations of severity s.
func (v Violations) Count(s Severity) int {
	n := 0
	for _, violation := range v.Violations {
		if violation.Severity == s {
			n++
		}
	}
	return n
}

// Sort orders violations by page, errors before warnings on the same page.
// Violations without a page come first.
func (v *Violations) Sort() {
	page := func(x Violation) int {
		if x.PageNumber == nil {
			return 0
		}
		return *x.PageNumber
	}
	sort.SliceStable(v.Violations, func(i, j int) bool {
		a, b := v.Violations[i], v.Violations[j]
		if page(a) != page(b) {
			return page(a) < page(b)
		}
		return a.Severity == SeverityError && b.Severity != SeverityError
	})
}
