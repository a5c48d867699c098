package mapping

import (
	"strings"
	"testing"

	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/templates"
	"github.com/jonathan/hireo/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(t *testing.T, id string) *templates.Template {
	t.Helper()
	r, err := templates.NewDefaultRegistry()
	require.NoError(t, err)
	tmpl, err := r.Lookup(id)
	require.NoError(t, err)
	return tmpl
}

func fullProfile() types.Profile {
	return types.Profile{
		Personal: types.PersonalInfo{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Title:     "Staff Engineer",
			Email:     "ada@example.org",
			Phone:     "+44 20 7946 0000",
		},
		Address: types.Address{City: "London", Country: "UK"},
		Summary: "Engineer   with a taste\nfor analytical engines.",
		WorkExperience: []types.WorkExperience{
			{
				Company:      "Analytical Engines Ltd",
				Position:     "Lead Programmer",
				Location:     "London",
				StartDate:    "2019-03",
				IsCurrent:    true,
				Description:  "Wrote the first published algorithm.",
				Achievements: []string{"Computed Bernoulli numbers", "  "},
			},
			{Company: "Difference Co", Position: "Analyst", StartDate: "2015-01", EndDate: "2019-02"},
		},
		Education: []types.Education{
			{Institution: "Home Tutoring", Degree: "BSc", FieldOfStudy: "Mathematics", StartDate: "2010-09", EndDate: "2014-06", Grade: "First"},
		},
		SkillCategories: []types.SkillCategory{
			{Name: "Programming", Skills: []string{"Go", "SQL"}},
			{Name: "Empty", Skills: []string{" "}},
			{Skills: []string{"Kubernetes"}},
		},
		Languages: []types.Language{
			{Name: "English", Proficiency: "Native"},
			{Name: "French"},
		},
		Projects: []types.Project{
			{Name: "Note G", Role: "Author", Technologies: []string{"Punch cards", "Brass"}},
		},
		Certificates: []types.Certificate{
			{Name: "Certified Engine Operator", Issuer: "Royal Society", IssueDate: "2020-05", CredentialID: "RS-42"},
		},
		CustomSections: []types.CustomSection{
			{Title: "Volunteering", Items: []string{"Mentor", "Organizer"}},
			{Body: "Enjoys poetry."},
		},
	}
}

func allTexts(model *document.Model) string {
	var b strings.Builder
	for _, s := range model.Sections {
		for _, blk := range s.Blocks {
			for _, txt := range document.Texts(blk) {
				b.WriteString(txt)
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

func TestMap_FullProfileDefaultOrder(t *testing.T) {
	tmpl := lookup(t, "classic")
	model, notices := Map(tmpl, Input{Profile: fullProfile()})

	assert.Empty(t, notices, "a complete profile needs no fallbacks")
	assert.Equal(t, document.KindCV, model.Kind)
	assert.Equal(t, "classic", model.TemplateID)
	assert.Equal(t, []types.SectionKind{
		types.SectionPersonalHeader,
		types.SectionSummary,
		types.SectionWorkExperience,
		types.SectionEducation,
		types.SectionSkills,
		types.SectionLanguages,
		types.SectionProjects,
		types.SectionCertificates,
		types.SectionCustom,
		types.SectionCustom,
	}, model.SectionKinds())
}

func TestMap_PersonalHeader(t *testing.T) {
	model, _ := Map(lookup(t, "classic"), Input{Profile: fullProfile()})
	header, ok := model.Section(types.SectionPersonalHeader)
	require.True(t, ok)
	require.Len(t, header.Blocks, 3)

	assert.Equal(t, document.TextRun{Text: "Ada Lovelace", Style: document.StyleName}, header.Blocks[0])
	assert.Equal(t, document.TextRun{Text: "Staff Engineer", Style: document.StyleHeadline}, header.Blocks[1])
	assert.Equal(t, document.TextRun{
		Text:  "ada@example.org · +44 20 7946 0000 · London, UK",
		Style: document.StyleContact,
	}, header.Blocks[2])
}

func TestMap_Fallbacks(t *testing.T) {
	model, notices := Map(lookup(t, "classic"), Input{})

	require.Equal(t, []types.SectionKind{types.SectionPersonalHeader}, model.SectionKinds())
	header := model.Sections[0]
	assert.Equal(t, FallbackName, header.Blocks[0].(document.TextRun).Text)
	assert.Equal(t, FallbackTitle, header.Blocks[1].(document.TextRun).Text)
	assert.Equal(t, FallbackContact, header.Blocks[2].(document.TextRun).Text)

	var fields []string
	for _, n := range notices {
		assert.Equal(t, NoticeFallback, n.Kind)
		fields = append(fields, n.Field)
	}
	assert.Equal(t, []string{"personal.name", "personal.title", "personal.contact"}, fields)
}

func TestMap_EmptyCollectionsAreAbsent(t *testing.T) {
	p := fullProfile()
	p.SkillCategories = []types.SkillCategory{{Name: "Nothing", Skills: nil}}
	p.Summary = "   "
	p.Languages = nil

	model, _ := Map(lookup(t, "classic"), Input{Profile: p})

	kinds := model.SectionKinds()
	assert.NotContains(t, kinds, types.SectionSkills)
	assert.NotContains(t, kinds, types.SectionSummary)
	assert.NotContains(t, kinds, types.SectionLanguages)
	assert.NotContains(t, allTexts(model), "Skills")
	assert.NotContains(t, allTexts(model), "Nothing")

	for _, s := range model.Sections {
		assert.NotEmpty(t, s.Blocks, "section %s", s.Kind)
	}
}

func TestMap_SectionsStartWithHeading(t *testing.T) {
	model, _ := Map(lookup(t, "classic"), Input{Profile: fullProfile()})

	for _, s := range model.Sections[1:] {
		run, ok := s.Blocks[0].(document.TextRun)
		require.True(t, ok, "section %s", s.Kind)
		assert.Equal(t, document.StyleSectionHeading, run.Style)
		assert.True(t, run.KeepWithNext)
		assert.Greater(t, len(s.Blocks), 1, "a heading never stands alone")
	}
}

func TestMap_WorkExperience(t *testing.T) {
	model, _ := Map(lookup(t, "classic"), Input{Profile: fullProfile()})
	work, ok := model.Section(types.SectionWorkExperience)
	require.True(t, ok)
	require.Len(t, work.Blocks, 3)

	assert.Equal(t, document.TimelineEntry{
		Title:     "Lead Programmer",
		Subtitle:  "Analytical Engines Ltd, London",
		DateRange: "Mar 2019 – Present",
		Bullets:   []string{"Wrote the first published algorithm.", "Computed Bernoulli numbers"},
	}, work.Blocks[1])
	assert.Equal(t, "Jan 2015 – Feb 2019", work.Blocks[2].(document.TimelineEntry).DateRange)
}

func TestMap_Education(t *testing.T) {
	model, _ := Map(lookup(t, "classic"), Input{Profile: fullProfile()})
	edu, ok := model.Section(types.SectionEducation)
	require.True(t, ok)

	assert.Equal(t, document.TimelineEntry{
		Title:     "BSc in Mathematics",
		Subtitle:  "Home Tutoring",
		DateRange: "Sep 2010 – Jun 2014",
		Bullets:   []string{"Grade: First"},
	}, edu.Blocks[1])
}

func TestMap_SkillsAndLanguages(t *testing.T) {
	model, _ := Map(lookup(t, "classic"), Input{Profile: fullProfile()})

	skills, ok := model.Section(types.SectionSkills)
	require.True(t, ok)
	assert.Equal(t, []document.Block{
		heading("Skills"),
		document.TextRun{Text: "Programming", Style: document.StyleLabel, KeepWithNext: true},
		document.TagList{Items: []string{"Go", "SQL"}},
		document.TagList{Items: []string{"Kubernetes"}},
	}, skills.Blocks)

	langs, ok := model.Section(types.SectionLanguages)
	require.True(t, ok)
	assert.Equal(t, document.TagList{Items: []string{"English · Native", "French"}}, langs.Blocks[1])
}

func TestMap_Custom(t *testing.T) {
	model, _ := Map(lookup(t, "classic"), Input{Profile: fullProfile()})

	var custom []document.Section
	for _, s := range model.Sections {
		if s.Kind == types.SectionCustom {
			custom = append(custom, s)
		}
	}
	require.Len(t, custom, 2)
	assert.Equal(t, heading("Volunteering"), custom[0].Blocks[0])
	assert.Equal(t, document.TextRun{Text: "• Mentor", Style: document.StyleBullet}, custom[0].Blocks[1])
	assert.Equal(t, heading(DefaultCustomTitle), custom[1].Blocks[0])
}

func TestMap_Deterministic(t *testing.T) {
	tmpl := lookup(t, "modern")
	in := Input{Profile: fullProfile()}

	a, na := Map(tmpl, in)
	b, nb := Map(tmpl, in)
	assert.Equal(t, a, b)
	assert.Equal(t, na, nb)
}

func TestMap_NoSharedMemory(t *testing.T) {
	p := fullProfile()
	model, _ := Map(lookup(t, "classic"), Input{Profile: p})

	p.WorkExperience[0].Achievements[0] = "changed"
	p.SkillCategories[0].Skills[0] = "changed"
	assert.NotContains(t, allTexts(model), "changed")
}

func TestMap_ExcludedSectionsLeaveNoText(t *testing.T) {
	tmpl := lookup(t, "classic")
	full, _ := Map(tmpl, Input{Profile: fullProfile()})

	for _, kind := range tmpl.DefaultOrder {
		if kind == types.SectionPersonalHeader {
			continue
		}
		settings := types.CustomSettings{}.Without(kind)
		model, _ := Map(tmpl, Input{Profile: fullProfile(), Settings: settings})

		assert.NotContains(t, model.SectionKinds(), kind)
		got := allTexts(model)
		for _, s := range full.Sections {
			if s.Kind != kind {
				continue
			}
			for _, blk := range s.Blocks[1:] {
				for _, txt := range document.Texts(blk) {
					assert.NotContains(t, got, txt, "excluded %s", kind)
				}
			}
		}
	}
}

func TestMap_PersonalHeaderNotRemovable(t *testing.T) {
	settings := types.CustomSettings{IncludedSections: []types.SectionKind{}}
	model, _ := Map(lookup(t, "classic"), Input{Profile: fullProfile(), Settings: settings})
	assert.Equal(t, []types.SectionKind{types.SectionPersonalHeader}, model.SectionKinds())
}

func TestResolveOrder(t *testing.T) {
	tmpl := lookup(t, "classic")
	reversed := []types.SectionKind{types.SectionPersonalHeader}
	for i := len(tmpl.DefaultOrder) - 1; i > 0; i-- {
		reversed = append(reversed, tmpl.DefaultOrder[i])
	}

	tests := []struct {
		name        string
		settings    types.CustomSettings
		want        []types.SectionKind
		wantNotices int
	}{
		{
			name: "default",
			want: tmpl.DefaultOrder,
		},
		{
			name:     "valid permutation",
			settings: types.CustomSettings{SectionOrder: reversed},
			want:     reversed,
		},
		{
			name: "not a permutation",
			settings: types.CustomSettings{SectionOrder: []types.SectionKind{
				types.SectionPersonalHeader, types.SectionSkills,
			}},
			want:        tmpl.DefaultOrder,
			wantNotices: 1,
		},
		{
			name: "duplicate kind",
			settings: types.CustomSettings{SectionOrder: append(
				[]types.SectionKind{types.SectionPersonalHeader, types.SectionSummary},
				tmpl.DefaultOrder[2:len(tmpl.DefaultOrder)-1]...,
			)},
			want:        tmpl.DefaultOrder,
			wantNotices: 1,
		},
		{
			name:        "header moved",
			settings:    types.CustomSettings{SectionOrder: append(append([]types.SectionKind{}, tmpl.DefaultOrder[1:]...), types.SectionPersonalHeader)},
			want:        tmpl.DefaultOrder,
			wantNotices: 1,
		},
		{
			name: "filtered after ordering",
			settings: types.CustomSettings{
				SectionOrder:     reversed,
				IncludedSections: []types.SectionKind{types.SectionSummary, types.SectionCustom},
			},
			want: []types.SectionKind{types.SectionPersonalHeader, types.SectionCustom, types.SectionSummary},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, notices := ResolveOrder(tmpl, tt.settings)
			assert.Equal(t, tt.want, got)
			require.Len(t, notices, tt.wantNotices)
			for _, n := range notices {
				assert.Equal(t, NoticeConfiguration, n.Kind)
				assert.Equal(t, "settings.section_order", n.Field)
			}
		})
	}
}

func TestResolveOrder_ReEnableRestoresPosition(t *testing.T) {
	tmpl := lookup(t, "modern")
	custom := types.CustomSettings{SectionOrder: []types.SectionKind{
		types.SectionPersonalHeader,
		types.SectionEducation,
		types.SectionSkills,
		types.SectionSummary,
		types.SectionWorkExperience,
		types.SectionProjects,
		types.SectionLanguages,
		types.SectionCertificates,
		types.SectionCustom,
	}}

	before, _ := ResolveOrder(tmpl, custom)
	hidden, _ := ResolveOrder(tmpl, custom.Without(types.SectionSkills))
	restored, _ := ResolveOrder(tmpl, custom.Without(types.SectionSkills).With(types.SectionSkills))

	assert.NotContains(t, hidden, types.SectionSkills)
	assert.Equal(t, before, restored)
	assert.Equal(t, types.SectionSkills, restored[2])
}

func TestFormatDateRange(t *testing.T) {
	tests := []struct {
		start, end string
		current    bool
		want       string
	}{
		{"2020-01", "2021-06", false, "Jan 2020 – Jun 2021"},
		{"2020-01", "", true, "Jan 2020 – Present"},
		{"2020-01", "2021-06", true, "Jan 2020 – Present"},
		{"2020-01", "", false, "Jan 2020"},
		{"", "2021-06", false, "Jun 2021"},
		{"", "", true, "Present"},
		{"", "", false, ""},
		{"spring 2019", "", false, "spring 2019"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDateRange(tt.start, tt.end, tt.current), "%q %q %v", tt.start, tt.end, tt.current)
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "a b c", CleanText("  a \t b\n\nc  "))
	assert.Equal(t, "ab", CleanText("a\x00b"))
	// e + combining acute composes to a single rune.
	assert.Equal(t, "\u00e9", CleanText("e\u0301"))
	assert.Equal(t, "5 -> 10, x >= 2", CleanText("5 \u2192 10, x \u2265 2"))
	assert.Equal(t, []string{"x", "y"}, CleanLines([]string{" x ", "", "\t", "y"}))
}
