// Package document defines the template-agnostic Document Model: an ordered
// list of sections, each a list of typed content blocks.
package document

import (
	"github.com/jonathan/hireo/internal/types"
)

// Kind distinguishes a CV from a cover letter.
type Kind string

// Document kinds.
const (
	KindCV          Kind = "cv"
	KindCoverLetter Kind = "cover_letter"
)

// StyleRef names an entry of the fixed text style table.
type StyleRef string

// Style references used by the mapper.
const (
	StyleName           StyleRef = "name"
	StyleHeadline       StyleRef = "headline"
	StyleContact        StyleRef = "contact"
	StyleSectionHeading StyleRef = "sectionHeading"
	StyleBody           StyleRef = "body"
	StyleLabel          StyleRef = "label"
	StyleCaption        StyleRef = "caption"
	StyleEntryTitle     StyleRef = "entryTitle"
	StyleEntrySubtitle  StyleRef = "entrySubtitle"
	StyleEntryDate      StyleRef = "entryDate"
	StyleBullet         StyleRef = "bullet"
	StyleChip           StyleRef = "chip"
	StyleSignature      StyleRef = "signature"
)

// Block is a closed tagged variant: TextRun, TagList or TimelineEntry.
type Block interface {
	isBlock()
}

// TextRun is a paragraph of text in one style. It may be split at line boundaries.
// KeepWithNext asks the paginator to keep it on the same page as the following block.
type TextRun struct {
	Text         string
	Style        StyleRef
	KeepWithNext bool
}

// TagList is a set of chip-like items packed by the flow layout. It is atomic.
type TagList struct {
	Items []string
}

// TimelineEntry is one dated entry (a job, a degree). It is atomic unless its
// own height exceeds a full content page.
type TimelineEntry struct {
	Title     string
	Subtitle  string
	DateRange string
	Bullets   []string
}

func (TextRun) isBlock()       {}
func (TagList) isBlock()       {}
func (TimelineEntry) isBlock() {}

// Section is one section of the document.
type Section struct {
	Kind   types.SectionKind
	Blocks []Block
}

// Model is the normalized document produced by the content mapper.
// It carries no references back into the source profile.
type Model struct {
	Kind       Kind
	TemplateID string
	Sections   []Section
}

// SectionKinds returns the kinds of the model's sections in order.
func (m *Model) SectionKinds() []types.SectionKind {
	kinds := make([]types.SectionKind, 0, len(m.Sections))
	for _, s := range m.Sections {
		kinds = append(kinds, s.Kind)
	}
	return kinds
}

// Section returns the first section of the given kind.
func (m *Model) Section(kind types.SectionKind) (Section, bool) {
	for _, s := range m.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

// Texts returns every string carried by the block in reading order.
func Texts(b Block) []string {
	switch v := b.(type) {
	case TextRun:
		return []string{v.Text}
	case TagList:
		return append([]string(nil), v.Items...)
	case TimelineEntry:
		out := make([]string, 0, 3+len(v.Bullets))
		for _, s := range []string{v.Title, v.Subtitle, v.DateRange} {
			if s != "" {
				out = append(out, s)
			}
		}
		return append(out, v.Bullets...)
	}
	return nil
}
