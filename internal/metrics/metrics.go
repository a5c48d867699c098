// Package metrics measures and wraps text. Pagination and rendering share it,
// so a block's measured height is exactly the height that gets drawn.
package metrics

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/hireo/internal/templates"
)

// Measurer measures text in a style. Implementations are not required to be
// safe for concurrent use; create one per generation run.
type Measurer interface {
	TextWidth(text string, style templates.TextStyle) float64
	LineHeight(style templates.TextStyle) float64
}

// WrapStyled wraps text at width using the measurer's widths for style.
func WrapStyled(m Measurer, text string, style templates.TextStyle, width float64) []string {
	return Wrap(text, width, func(s string) float64 { return m.TextWidth(s, style) })
}

// Wrap breaks text into lines no wider than width. Newlines start a new line,
// words are kept whole when they fit on an empty line, and a word that does
// not fit alone is cut at rune boundaries. Every returned line holds at least
// one rune of a non-empty word, so the result is finite for any width.
func Wrap(text string, width float64, measure func(string) float64) []string {
	if text == "" {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if measure(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			for measure(word) > width {
				head, tail := cut(word, width, measure)
				if tail == "" {
					break
				}
				lines = append(lines, head)
				word = tail
			}
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}

// cut returns the longest rune prefix of word that fits width (at least one
// rune) and the remainder.
func cut(word string, width float64, measure func(string) float64) (string, string) {
	end := 0
	for i, r := range word {
		next := i + utf8.RuneLen(r)
		if end > 0 && measure(word[:next]) > width {
			break
		}
		end = next
	}
	return word[:end], word[end:]
}

// Uniform is a Measurer where every rune has the same advance and every style
// the same line height. It is useful wherever exact font metrics do not
// matter, such as layout tests.
type Uniform struct {
	RuneWidth float64
	Line      float64
}

// TextWidth implements Measurer.
func (u Uniform) TextWidth(text string, _ templates.TextStyle) float64 {
	return float64(utf8.RuneCountInString(text)) * u.RuneWidth
}

// LineHeight implements Measurer.
func (u Uniform) LineHeight(_ templates.TextStyle) float64 {
	return u.Line
}
