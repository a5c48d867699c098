package mapping

import (
	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/types"
)

// Placeholder text for commonly empty header fields. They keep a preview of an
// incomplete profile looking like a filled document and are never derived
// from other fields.
const (
	FallbackName    = "Your Name"
	FallbackTitle   = "Professional Title"
	FallbackContact = "email@example.com · +1 555 0100 · City, Country"
)

// Headings of the sections that carry one.
var sectionTitles = map[types.SectionKind]string{
	types.SectionSummary:        "Profile",
	types.SectionWorkExperience: "Experience",
	types.SectionEducation:      "Education",
	types.SectionSkills:         "Skills",
	types.SectionLanguages:      "Languages",
	types.SectionProjects:       "Projects",
	types.SectionCertificates:   "Certificates",
}

// DefaultCustomTitle heads a custom section that has no title of its own.
const DefaultCustomTitle = "Additional Information"

func heading(title string) document.Block {
	return document.TextRun{Text: title, Style: document.StyleSectionHeading, KeepWithNext: true}
}

// withHeading builds a section whose first block is its heading. No content
// means no section at all, so an empty collection never leaves a bare heading.
func withHeading(kind types.SectionKind, title string, blocks []document.Block) []document.Section {
	if len(blocks) == 0 {
		return nil
	}
	return []document.Section{{
		Kind:   kind,
		Blocks: append([]document.Block{heading(title)}, blocks...),
	}}
}

func mapPersonalHeader(m *mapper) []document.Section {
	p := m.in.Profile.Personal

	name := joinNonEmpty(" ", p.FirstName, p.LastName)
	if name == "" {
		name = m.fallback("personal.name", FallbackName)
	}
	title := CleanText(p.Title)
	if title == "" {
		title = m.fallback("personal.title", FallbackTitle)
	}
	contact := contactLine(m.in.Profile)
	if contact == "" {
		contact = m.fallback("personal.contact", FallbackContact)
	}

	return []document.Section{{
		Kind: types.SectionPersonalHeader,
		Blocks: []document.Block{
			document.TextRun{Text: name, Style: document.StyleName},
			document.TextRun{Text: title, Style: document.StyleHeadline},
			document.TextRun{Text: contact, Style: document.StyleContact},
		},
	}}
}

func contactLine(p types.Profile) string {
	place := joinNonEmpty(", ", p.Address.City, p.Address.Country)
	return joinNonEmpty(fieldSeparator,
		p.Personal.Email,
		p.Personal.Phone,
		place,
		p.Personal.Website,
		p.Personal.LinkedIn,
	)
}

func mapSummary(m *mapper) []document.Section {
	text := CleanText(m.in.Profile.Summary)
	if text == "" {
		return nil
	}
	return withHeading(types.SectionSummary, sectionTitles[types.SectionSummary], []document.Block{
		document.TextRun{Text: text, Style: document.StyleBody},
	})
}

func mapWorkExperience(m *mapper) []document.Section {
	var blocks []document.Block
	for _, w := range m.in.Profile.WorkExperience {
		title := CleanText(w.Position)
		subtitle := joinNonEmpty(", ", w.Company, w.Location)
		if title == "" {
			title = CleanText(w.Company)
			subtitle = CleanText(w.Location)
		}
		bullets := CleanLines(append([]string{w.Description}, w.Achievements...))
		if title == "" && len(bullets) == 0 {
			continue
		}
		blocks = append(blocks, document.TimelineEntry{
			Title:     title,
			Subtitle:  subtitle,
			DateRange: FormatDateRange(w.StartDate, w.EndDate, w.IsCurrent),
			Bullets:   bullets,
		})
	}
	return withHeading(types.SectionWorkExperience, sectionTitles[types.SectionWorkExperience], blocks)
}

func mapEducation(m *mapper) []document.Section {
	var blocks []document.Block
	for _, e := range m.in.Profile.Education {
		title := CleanText(e.Degree)
		if field := CleanText(e.FieldOfStudy); field != "" {
			if title == "" {
				title = field
			} else {
				title += " in " + field
			}
		}
		subtitle := CleanText(e.Institution)
		if title == "" {
			title, subtitle = subtitle, ""
		}
		if title == "" {
			continue
		}
		var bullets []string
		if grade := CleanText(e.Grade); grade != "" {
			bullets = append(bullets, "Grade: "+grade)
		}
		bullets = append(bullets, CleanLines([]string{e.Description})...)
		blocks = append(blocks, document.TimelineEntry{
			Title:     title,
			Subtitle:  subtitle,
			DateRange: FormatDateRange(e.StartDate, e.EndDate, e.IsCurrent),
			Bullets:   bullets,
		})
	}
	return withHeading(types.SectionEducation, sectionTitles[types.SectionEducation], blocks)
}

func mapSkills(m *mapper) []document.Section {
	var blocks []document.Block
	for _, c := range m.in.Profile.SkillCategories {
		items := CleanLines(c.Skills)
		if len(items) == 0 {
			continue
		}
		if name := CleanText(c.Name); name != "" {
			blocks = append(blocks, document.TextRun{Text: name, Style: document.StyleLabel, KeepWithNext: true})
		}
		blocks = append(blocks, document.TagList{Items: items})
	}
	return withHeading(types.SectionSkills, sectionTitles[types.SectionSkills], blocks)
}

func mapLanguages(m *mapper) []document.Section {
	var items []string
	for _, l := range m.in.Profile.Languages {
		name := CleanText(l.Name)
		if name == "" {
			continue
		}
		items = append(items, joinNonEmpty(fieldSeparator, name, l.Proficiency))
	}
	if len(items) == 0 {
		return nil
	}
	return withHeading(types.SectionLanguages, sectionTitles[types.SectionLanguages], []document.Block{
		document.TagList{Items: items},
	})
}

func mapProjects(m *mapper) []document.Section {
	var blocks []document.Block
	for _, p := range m.in.Profile.Projects {
		title := CleanText(p.Name)
		if title == "" {
			continue
		}
		bullets := CleanLines([]string{p.Description})
		if tech := joinNonEmpty(", ", p.Technologies...); tech != "" {
			bullets = append(bullets, "Technologies: "+tech)
		}
		blocks = append(blocks, document.TimelineEntry{
			Title:     title,
			Subtitle:  joinNonEmpty(fieldSeparator, p.Role, p.URL),
			DateRange: FormatDateRange(p.StartDate, p.EndDate, p.IsCurrent),
			Bullets:   bullets,
		})
	}
	return withHeading(types.SectionProjects, sectionTitles[types.SectionProjects], blocks)
}

func mapCertificates(m *mapper) []document.Section {
	var blocks []document.Block
	for _, c := range m.in.Profile.Certificates {
		title := CleanText(c.Name)
		if title == "" {
			continue
		}
		var bullets []string
		if id := CleanText(c.CredentialID); id != "" {
			bullets = append(bullets, "Credential ID: "+id)
		}
		dates := FormatMonth(c.IssueDate)
		if exp := FormatMonth(c.ExpiryDate); exp != "" {
			dates = joinNonEmpty(dateSeparator, dates, exp)
		}
		blocks = append(blocks, document.TimelineEntry{
			Title:     title,
			Subtitle:  CleanText(c.Issuer),
			DateRange: dates,
			Bullets:   bullets,
		})
	}
	return withHeading(types.SectionCertificates, sectionTitles[types.SectionCertificates], blocks)
}

// mapCustom yields one section per custom section of the profile, all at the
// position of the custom kind.
func mapCustom(m *mapper) []document.Section {
	var out []document.Section
	for _, c := range m.in.Profile.CustomSections {
		var blocks []document.Block
		if body := CleanText(c.Body); body != "" {
			blocks = append(blocks, document.TextRun{Text: body, Style: document.StyleBody})
		}
		for _, item := range CleanLines(c.Items) {
			blocks = append(blocks, document.TextRun{Text: "• " + item, Style: document.StyleBullet})
		}
		title := CleanText(c.Title)
		if title == "" {
			title = DefaultCustomTitle
		}
		out = append(out, withHeading(types.SectionCustom, title, blocks)...)
	}
	return out
}
