package types

import (
	"github.com/go-playground/validator/v10"
)

// CustomSettings carries the user's customization of a generation run.
//
// SectionOrder, when set, must be a permutation of the template's known
// kinds. IncludedSections filters that order after it is resolved; a nil
// IncludedSections means every kind is included.
type CustomSettings struct {
	IncludedSections []SectionKind `json:"included_sections,omitempty"`
	SectionOrder     []SectionKind `json:"section_order,omitempty"`
	ThemeID          string        `json:"theme_id,omitempty" validate:"omitempty,max=64"`
	FontID           string        `json:"font_id,omitempty" validate:"omitempty,max=64"`
}

// Includes reports whether kind survives the inclusion filter.
// personalHeader is never removable.
func (s CustomSettings) Includes(kind SectionKind) bool {
	if kind == SectionPersonalHeader || s.IncludedSections == nil {
		return true
	}
	for _, k := range s.IncludedSections {
		if k == kind {
			return true
		}
	}
	return false
}

// Without returns a copy of s whose inclusion set omits kind. The order is untouched.
func (s CustomSettings) Without(kind SectionKind) CustomSettings {
	out := s
	out.IncludedSections = nil
	base := s.IncludedSections
	if base == nil {
		base = AllSectionKinds()
	}
	for _, k := range base {
		if k != kind {
			out.IncludedSections = append(out.IncludedSections, k)
		}
	}
	if out.IncludedSections == nil {
		out.IncludedSections = []SectionKind{}
	}
	return out
}

// With returns a copy of s whose inclusion set contains kind.
func (s CustomSettings) With(kind SectionKind) CustomSettings {
	out := s
	if s.IncludedSections == nil || s.Includes(kind) {
		return out
	}
	out.IncludedSections = append(append([]SectionKind{}, s.IncludedSections...), kind)
	return out
}

// Validate validates the CustomSettings using the validator.
func (s *CustomSettings) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}
