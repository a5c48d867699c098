// Package templates provides the Template Registry: an immutable catalog of
// CV and cover-letter templates with their themes, fonts, default section
// order and per-section renderer bindings.
package templates

import (
	"fmt"
	"slices"

	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/types"
)

// Binding selects how the renderer decorates a section.
type Binding int

// Renderer bindings.
const (
	BindingHeaderLeft Binding = iota
	BindingHeaderCentered
	BindingHeaderBanner
	BindingProse
	BindingTimeline
	BindingEntries
	BindingChips
	BindingLetter

	NumBindings
)

var bindingNames = [NumBindings]string{
	BindingHeaderLeft:     "headerLeft",
	BindingHeaderCentered: "headerCentered",
	BindingHeaderBanner:   "headerBanner",
	BindingProse:          "prose",
	BindingTimeline:       "timeline",
	BindingEntries:        "entries",
	BindingChips:          "chips",
	BindingLetter:         "letter",
}

func (b Binding) String() string {
	if b < 0 || b >= NumBindings {
		return fmt.Sprintf("Binding(%d)", int(b))
	}
	return bindingNames[b]
}

// ParseBinding parses a binding name.
func ParseBinding(s string) (Binding, error) {
	for i, name := range bindingNames {
		if name == s {
			return Binding(i), nil
		}
	}
	return 0, fmt.Errorf("unknown binding %q", s)
}

// Template is one catalog entry. Values handed out by the registry are deep
// copies, so the catalog itself is never mutated after load.
type Template struct {
	ID           string
	Name         string
	Category     string
	Kind         document.Kind
	ThemeIDs     []string
	FontIDs      []string
	DefaultOrder []types.SectionKind
	Bindings     map[types.SectionKind]Binding
	Density      float64
}

// Supports reports whether the template knows the section kind.
func (t *Template) Supports(kind types.SectionKind) bool {
	return slices.Contains(t.DefaultOrder, kind)
}

// Binding returns the renderer binding of a kind, falling back to prose.
func (t *Template) Binding(kind types.SectionKind) Binding {
	if b, ok := t.Bindings[kind]; ok {
		return b
	}
	return BindingProse
}

func (t *Template) clone() *Template {
	c := *t
	c.ThemeIDs = slices.Clone(t.ThemeIDs)
	c.FontIDs = slices.Clone(t.FontIDs)
	c.DefaultOrder = slices.Clone(t.DefaultOrder)
	c.Bindings = make(map[types.SectionKind]Binding, len(t.Bindings))
	for k, v := range t.Bindings {
		c.Bindings[k] = v
	}
	return &c
}
