package document

import (
	"testing"

	"github.com/jonathan/hireo/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestTexts(t *testing.T) {
	assert.Equal(t, []string{"hello"}, Texts(TextRun{Text: "hello"}))
	assert.Equal(t, []string{"Go", "SQL"}, Texts(TagList{Items: []string{"Go", "SQL"}}))
	assert.Equal(t,
		[]string{"Engineer", "Jan 2020 – Present", "Shipped it"},
		Texts(TimelineEntry{Title: "Engineer", DateRange: "Jan 2020 – Present", Bullets: []string{"Shipped it"}}),
	)
}

func TestModel_SectionLookup(t *testing.T) {
	m := &Model{Sections: []Section{
		{Kind: types.SectionPersonalHeader},
		{Kind: types.SectionSkills, Blocks: []Block{TagList{Items: []string{"Go"}}}},
	}}

	assert.Equal(t, []types.SectionKind{types.SectionPersonalHeader, types.SectionSkills}, m.SectionKinds())

	s, ok := m.Section(types.SectionSkills)
	assert.True(t, ok)
	assert.Len(t, s.Blocks, 1)

	_, ok = m.Section(types.SectionEducation)
	assert.False(t, ok)
}
