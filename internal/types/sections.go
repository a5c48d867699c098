// Package types provides type definitions for structured data used throughout the hireo system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// SectionKind identifies one of the fixed résumé / cover-letter section kinds.
type SectionKind int

// Section kinds. The zero value is personalHeader so an unset kind never
// silently refers to an optional section.
const (
	SectionPersonalHeader SectionKind = iota
	SectionSummary
	SectionWorkExperience
	SectionEducation
	SectionSkills
	SectionLanguages
	SectionProjects
	SectionCertificates
	SectionCoverLetterBody
	SectionCustom

	// NumSectionKinds is the number of known section kinds. Dispatch tables
	// indexed by SectionKind are sized with it.
	NumSectionKinds
)

var sectionKindNames = [NumSectionKinds]string{
	SectionPersonalHeader:  "personalHeader",
	SectionSummary:         "summary",
	SectionWorkExperience:  "workExperience",
	SectionEducation:       "education",
	SectionSkills:          "skills",
	SectionLanguages:       "languages",
	SectionProjects:        "projects",
	SectionCertificates:    "certificates",
	SectionCoverLetterBody: "coverLetterBody",
	SectionCustom:          "custom",
}

// AllSectionKinds returns every known kind in declaration order.
func AllSectionKinds() []SectionKind {
	kinds := make([]SectionKind, 0, NumSectionKinds)
	for k := range NumSectionKinds {
		kinds = append(kinds, k)
	}
	return kinds
}

// String returns the camelCase wire name of the kind.
func (k SectionKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("SectionKind(%d)", int(k))
	}
	return sectionKindNames[k]
}

// Valid reports whether k is a known kind.
func (k SectionKind) Valid() bool {
	return k >= 0 && k < NumSectionKinds
}

// ParseSectionKind parses a wire name. Matching is case-insensitive and
// tolerates snake_case ("work_experience").
func ParseSectionKind(s string) (SectionKind, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	for k, name := range sectionKindNames {
		if strings.ToLower(name) == norm {
			return SectionKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown section kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k SectionKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid section kind %d", int(k))
	}
	return []byte(sectionKindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SectionKind) UnmarshalText(text []byte) error {
	parsed, err := ParseSectionKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
