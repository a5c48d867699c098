package mapping

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Separators used when joining fields.
const (
	dateSeparator  = " – "
	fieldSeparator = " · "
)

// substitutes spells out typographic characters the PDF core fonts cannot
// encode. Anything else outside cp1252 is drawn as '.' by the renderer.
var substitutes = strings.NewReplacer(
	"\u2010", "-", // hyphen
	"\u2011", "-", // non-breaking hyphen
	"\u2012", "-",
	"\u2015", "\u2014",
	"\u2212", "-", // minus
	"\u2032", "'",
	"\u2033", "\"",
	"\u2192", "->",
	"\u2190", "<-",
	"\u2264", "<=",
	"\u2265", ">=",
	"\u2713", "v",
	"\u2714", "v",
	"\u25cf", "\u2022",
	"\u25aa", "\u2022",
)

// CleanText normalizes user text for layout: NFC composition (so "é" measures
// and draws as one glyph), typographic characters the core fonts lack spelled
// out, control characters dropped, and every run of whitespace collapsed to a
// single space.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = substitutes.Replace(norm.NFC.String(text))

	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range text {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\u00a0':
			space = b.Len() > 0
			continue
		case r < 0x20 || r == 0x7f:
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CleanLines applies CleanText to each entry and drops the empty ones.
func CleanLines(lines []string) []string {
	var out []string
	for _, l := range lines {
		if c := CleanText(l); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(CleanLines(parts), sep)
}

// FormatMonth renders a "YYYY-MM" date as "Jan 2006". Unparseable input is
// returned cleaned but otherwise unchanged.
func FormatMonth(date string) string {
	date = CleanText(date)
	if date == "" {
		return ""
	}
	t, err := time.Parse("2006-01", date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2006")
}

// FormatDateRange renders a start/end pair. A current entry always ends in
// "Present", whatever its end date says.
func FormatDateRange(start, end string, current bool) string {
	from := FormatMonth(start)
	to := FormatMonth(end)
	if current {
		to = "Present"
	}
	switch {
	case from == "":
		return to
	case to == "":
		return from
	}
	return from + dateSeparator + to
}
