// Package mapping converts profile, application and cover-letter data plus
// customization settings into a template-agnostic document.Model.
//
// Mapping never fails. Problems with the request (a malformed section order)
// and placeholder text substituted for empty fields are reported as Notices.
package mapping

import (
	"fmt"

	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/templates"
	"github.com/jonathan/hireo/internal/types"
)

// NoticeKind classifies a Notice.
type NoticeKind string

// Notice kinds.
const (
	// NoticeConfiguration reports an invalid request that was recovered by
	// substituting a default.
	NoticeConfiguration NoticeKind = "configuration"
	// NoticeFallback reports placeholder text used for an empty field.
	NoticeFallback NoticeKind = "fallback"
)

// Notice is a non-fatal diagnostic produced while mapping.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Field   string     `json:"field"`
	Message string     `json:"message"`
}

func (n Notice) String() string {
	return fmt.Sprintf("%s %s: %s", n.Kind, n.Field, n.Message)
}

// Input is everything the mapper reads. Application and Letter are only used
// by cover-letter templates.
type Input struct {
	Profile     types.Profile
	Application *types.ApplicationLink
	Letter      *types.CoverLetterContent
	Settings    types.CustomSettings
}

type mapper struct {
	in      Input
	notices []Notice
}

func (m *mapper) fallback(field, value string) string {
	m.notices = append(m.notices, Notice{
		Kind:    NoticeFallback,
		Field:   field,
		Message: fmt.Sprintf("empty, using %q", value),
	})
	return value
}

type sectionMapper func(m *mapper) []document.Section

// sectionMappers is indexed by SectionKind; its array length makes a missing
// kind a compile error.
var sectionMappers = [types.NumSectionKinds]sectionMapper{
	types.SectionPersonalHeader:  mapPersonalHeader,
	types.SectionSummary:         mapSummary,
	types.SectionWorkExperience:  mapWorkExperience,
	types.SectionEducation:       mapEducation,
	types.SectionSkills:          mapSkills,
	types.SectionLanguages:       mapLanguages,
	types.SectionProjects:        mapProjects,
	types.SectionCertificates:    mapCertificates,
	types.SectionCoverLetterBody: mapCoverLetterBody,
	types.SectionCustom:          mapCustom,
}

// Map builds the document model of tmpl from in. The result shares no memory
// with in, and identical inputs always give identical models and notices.
func Map(tmpl *templates.Template, in Input) (*document.Model, []Notice) {
	m := &mapper{in: in}

	order, notices := ResolveOrder(tmpl, in.Settings)
	m.notices = append(m.notices, notices...)

	model := &document.Model{Kind: tmpl.Kind, TemplateID: tmpl.ID}
	for _, kind := range order {
		for _, sec := range sectionMappers[kind](m) {
			if len(sec.Blocks) == 0 {
				continue
			}
			model.Sections = append(model.Sections, sec)
		}
	}
	return model, m.notices
}

// ResolveOrder returns the effective section order of a run: the template's
// default order, replaced by settings.SectionOrder when that is a valid
// permutation, then filtered by settings.IncludedSections. Filtering happens
// last so re-including a kind puts it back at its previous position.
func ResolveOrder(tmpl *templates.Template, settings types.CustomSettings) ([]types.SectionKind, []Notice) {
	var notices []Notice
	order := tmpl.DefaultOrder

	if len(settings.SectionOrder) > 0 {
		if err := checkPermutation(tmpl.DefaultOrder, settings.SectionOrder); err != nil {
			notices = append(notices, Notice{
				Kind:    NoticeConfiguration,
				Field:   "settings.section_order",
				Message: fmt.Sprintf("%v; using the %s default order", err, tmpl.ID),
			})
		} else {
			order = settings.SectionOrder
		}
	}

	out := make([]types.SectionKind, 0, len(order))
	for _, kind := range order {
		if settings.Includes(kind) {
			out = append(out, kind)
		}
	}
	return out, notices
}

func checkPermutation(known, order []types.SectionKind) error {
	if len(order) != len(known) {
		return fmt.Errorf("order has %d kinds, template knows %d", len(order), len(known))
	}
	if order[0] != types.SectionPersonalHeader {
		return fmt.Errorf("order must start with %s", types.SectionPersonalHeader)
	}
	var seen [types.NumSectionKinds]bool
	for _, kind := range order {
		if !kind.Valid() {
			return fmt.Errorf("invalid section kind %d", int(kind))
		}
		if seen[kind] {
			return fmt.Errorf("duplicate section kind %s", kind)
		}
		seen[kind] = true
	}
	for _, kind := range known {
		if !seen[kind] {
			return fmt.Errorf("order is missing %s", kind)
		}
	}
	return nil
}
