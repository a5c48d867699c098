package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionKind_RoundTripNames(t *testing.T) {
	for _, kind := range AllSectionKinds() {
		text, err := kind.MarshalText()
		require.NoError(t, err)

		var parsed SectionKind
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, kind, parsed)
	}
}

func TestParseSectionKind_Tolerant(t *testing.T) {
	tests := []struct {
		in   string
		want SectionKind
	}{
		{"workExperience", SectionWorkExperience},
		{"work_experience", SectionWorkExperience},
		{"SKILLS", SectionSkills},
		{" coverLetterBody ", SectionCoverLetterBody},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSectionKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseSectionKind("hobbies")
	assert.Error(t, err)
}

func TestSectionKind_JSONInSettings(t *testing.T) {
	raw := `{"included_sections":["summary","skills"],"section_order":["personalHeader","skills","summary"],"theme_id":"navy"}`

	var s CustomSettings
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	assert.Equal(t, []SectionKind{SectionSummary, SectionSkills}, s.IncludedSections)
	assert.Equal(t, []SectionKind{SectionPersonalHeader, SectionSkills, SectionSummary}, s.SectionOrder)
	assert.Equal(t, "navy", s.ThemeID)
}

func TestCustomSettings_Includes(t *testing.T) {
	all := CustomSettings{}
	assert.True(t, all.Includes(SectionSkills), "nil inclusion set includes everything")

	none := CustomSettings{IncludedSections: []SectionKind{}}
	assert.False(t, none.Includes(SectionSkills))
	assert.True(t, none.Includes(SectionPersonalHeader), "header is never removable")
}

func TestCustomSettings_WithoutThenWith(t *testing.T) {
	s := CustomSettings{}.Without(SectionSkills)
	assert.False(t, s.Includes(SectionSkills))
	assert.True(t, s.Includes(SectionEducation))

	s = s.With(SectionSkills)
	assert.True(t, s.Includes(SectionSkills))
}

func TestProfile_Validate(t *testing.T) {
	valid := Profile{
		Personal: PersonalInfo{FirstName: "Ada", Email: "ada@example.com"},
		WorkExperience: []WorkExperience{
			{Company: "Analytical Engines", Position: "Engineer", StartDate: "2020-01", EndDate: "2022-06"},
		},
	}
	assert.NoError(t, valid.Validate())

	badEmail := valid
	badEmail.Personal.Email = "not-an-email"
	assert.Error(t, badEmail.Validate())

	badDate := valid
	badDate.WorkExperience = []WorkExperience{{Company: "X", StartDate: "January 2020"}}
	assert.Error(t, badDate.Validate())
}

func TestPersonalInfo_FullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", PersonalInfo{FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", PersonalInfo{FirstName: "Ada"}.FullName())
	assert.Equal(t, "Lovelace", PersonalInfo{LastName: "Lovelace"}.FullName())
	assert.Equal(t, "", PersonalInfo{}.FullName())
}
