package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

func TestViolation_JSON(t *testing.T) {
	overflow := 14.5
	raw, err := json.Marshal(Violation{
		Type:             "page_overflow",
		Severity:         SeverityWarning,
		Details:          "Block exceeds content area",
		AffectedSections: []string{"skills"},
		PageNumber:       intp(2),
		Overflow:         &overflow,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "page_overflow",
		"severity": "warning",
		"details": "Block exceeds content area",
		"affected_sections": ["skills"],
		"page_number": 2,
		"overflow_pt": 14.5
	}`, string(raw))

	raw, err = json.Marshal(Violation{Type: "page_budget", Severity: SeverityError})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "page_number")
	assert.NotContains(t, string(raw), "affected_sections")
}

func TestViolation_String(t *testing.T) {
	assert.Equal(t, "empty_page [warning] page 3: Page 3 is empty",
		Violation{Type: "empty_page", Severity: SeverityWarning, Details: "Page 3 is empty", PageNumber: intp(3)}.String())
	assert.Equal(t, "page_mismatch [error]: 1 vs 2",
		Violation{Type: "page_mismatch", Severity: SeverityError, Details: "1 vs 2"}.String())
}

func TestViolations_Counts(t *testing.T) {
	var v Violations
	assert.False(t, v.HasErrors())

	v.Add(Violation{Severity: SeverityWarning})
	assert.False(t, v.HasErrors())
	assert.Equal(t, 1, v.Count(SeverityWarning))

	v.Add(Violation{Severity: SeverityError}, Violation{Severity: SeverityWarning})
	assert.True(t, v.HasErrors())
	assert.Equal(t, 1, v.Count(SeverityError))
	assert.Equal(t, 2, v.Count(SeverityWarning))
}

func TestViolations_Sort(t *testing.T) {
	v := Violations{Violations: []Violation{
		{Type: "a", Severity: SeverityWarning, PageNumber: intp(2)},
		{Type: "b", Severity: SeverityError, PageNumber: intp(2)},
		{Type: "c", Severity: SeverityWarning, PageNumber: intp(1)},
		{Type: "d", Severity: SeverityError},
	}}
	v.Sort()

	var order []string
	for _, x := range v.Violations {
		order = append(order, x.Type)
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, order)
}
