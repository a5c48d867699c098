package metrics

import (
	"strings"
	"testing"

	"github.com/jonathan/hireo/internal/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeWidth(s string) float64 {
	return float64(len([]rune(s)))
}

func TestWrap_Empty(t *testing.T) {
	assert.Nil(t, Wrap("", 10, runeWidth))
}

func TestWrap_Greedy(t *testing.T) {
	lines := Wrap("the quick brown fox jumps over", 10, runeWidth)
	assert.Equal(t, []string{"the quick", "brown fox", "jumps over"}, lines)
}

func TestWrap_KeepsParagraphBreaks(t *testing.T) {
	lines := Wrap("one\n\ntwo", 10, runeWidth)
	assert.Equal(t, []string{"one", "", "two"}, lines)
}

func TestWrap_CutsLongWords(t *testing.T) {
	lines := Wrap("abcdefghijkl xy", 5, runeWidth)
	assert.Equal(t, []string{"abcde", "fghij", "kl xy"}, lines)
}

func TestWrap_AlwaysProgresses(t *testing.T) {
	lines := Wrap("abc", 0, runeWidth)
	assert.Equal(t, []string{"a", "b", "c"}, lines)

	lines = Wrap("é", 0, runeWidth)
	assert.Equal(t, []string{"é"}, lines)
}

func TestWrap_LinesFitWidth(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet consectetur ", 20)
	for _, width := range []float64{8, 13, 21, 40, 77} {
		for _, line := range Wrap(text, width, runeWidth) {
			assert.LessOrEqual(t, runeWidth(line), width)
		}
	}
}

func TestUniform(t *testing.T) {
	u := Uniform{RuneWidth: 2, Line: 11}
	assert.Equal(t, 10.0, u.TextWidth("héllo", templates.TextStyle{}))
	assert.Equal(t, 11.0, u.LineHeight(templates.TextStyle{}))

	assert.Equal(t, []string{"ab", "cd"}, WrapStyled(u, "ab cd", templates.TextStyle{}, 5))
}

func testTheme(t *testing.T) templates.Theme {
	t.Helper()
	r, err := templates.NewDefaultRegistry()
	require.NoError(t, err)
	tmpl, err := r.Lookup("classic")
	require.NoError(t, err)
	theme, _ := r.ResolveTheme(tmpl, "navy", "sans")
	return theme
}

func TestPDFMeasurer_Widths(t *testing.T) {
	theme := testTheme(t)
	m, err := NewPDFMeasurer(theme)
	require.NoError(t, err)

	body := templates.StyleFor("body")
	bold := templates.TextStyle{Tier: templates.TierBody, Bold: true}

	w := m.TextWidth("Hello", body)
	assert.Greater(t, w, 0.0)
	assert.Greater(t, m.TextWidth("Hello world", body), w)
	assert.GreaterOrEqual(t, m.TextWidth("Hello", bold), w, "bold is never narrower")
	assert.Equal(t, 0.0, m.TextWidth("", body))

	display := templates.TextStyle{Tier: templates.TierDisplay}
	assert.Greater(t, m.TextWidth("Hello", display), w)
	assert.InDelta(t, theme.Size(templates.TierBody)*theme.LineSpacing, m.LineHeight(body), 1e-9)
}

func TestPDFMeasurer_NonASCII(t *testing.T) {
	m, err := NewPDFMeasurer(testTheme(t))
	require.NoError(t, err)

	body := templates.StyleFor("body")
	assert.InDelta(t, m.TextWidth("resume", body), m.TextWidth("résumé", body), 1.0)
}

func TestPDFMeasurer_WrapFits(t *testing.T) {
	m, err := NewPDFMeasurer(testTheme(t))
	require.NoError(t, err)

	body := templates.StyleFor("body")
	text := strings.Repeat("Designed and operated a distributed ingestion pipeline. ", 8)
	lines := WrapStyled(m, text, body, 200)
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, m.TextWidth(line, body), 200.0)
	}
}
