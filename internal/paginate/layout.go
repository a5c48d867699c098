package paginate

import (
	"strings"

	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/flow"
	"github.com/jonathan/hireo/internal/metrics"
	"github.com/jonathan/hireo/internal/templates"
)

// measured is a block laid out at the content width, before placement.
type measured struct {
	lines  []Line
	chips  []Chip
	height float64
	// splittable blocks may be cut between lines.
	splittable bool
}

// minHeight is the least space that lets some of the block be placed.
func (m measured) minHeight() float64 {
	if m.splittable && len(m.lines) > 0 {
		return m.lines[0].Height
	}
	return m.height
}

type layouter struct {
	m        metrics.Measurer
	theme    templates.Theme
	width    float64
	contentH float64
}

func (l *layouter) measure(b document.Block) measured {
	switch v := b.(type) {
	case document.TextRun:
		return l.textRun(v)
	case document.TagList:
		return l.tagList(v)
	case document.TimelineEntry:
		return l.timeline(v)
	}
	return measured{}
}

// wrap appends the wrapped lines of text at y and returns the new y.
func (l *layouter) wrap(lines []Line, text string, role LineRole, style templates.TextStyle, x, width, y float64) ([]Line, float64) {
	if style.Upper {
		text = strings.ToUpper(text)
	}
	h := l.m.LineHeight(style)
	for i, s := range metrics.WrapStyled(l.m, text, style, width) {
		r := role
		if role == RoleBullet && i > 0 {
			r = RoleBulletWrap
		}
		lines = append(lines, Line{
			Text:   s,
			Role:   r,
			Style:  style,
			X:      x,
			Y:      y,
			Width:  l.m.TextWidth(s, style),
			Height: h,
		})
		y += h
	}
	return lines, y
}

func (l *layouter) textRun(r document.TextRun) measured {
	lines, y := l.wrap(nil, r.Text, RoleText, templates.StyleFor(r.Style), 0, l.width, 0)
	return measured{lines: lines, height: y, splittable: true}
}

func (l *layouter) tagList(t document.TagList) measured {
	if len(t.Items) == 0 {
		return measured{}
	}
	sp := l.theme.Spacing
	style := templates.StyleFor(document.StyleChip)
	h := l.m.LineHeight(style) + 2*sp.ChipPadY

	widths := make([]float64, len(t.Items))
	for i, item := range t.Items {
		widths[i] = l.m.TextWidth(item, style) + 2*sp.ChipPadX
	}
	layout := flow.PackWidths(widths, h, l.width, sp.ChipGap, sp.RowGap)

	chips := make([]Chip, len(t.Items))
	for i, item := range t.Items {
		chips[i] = Chip{
			Text:   item,
			Style:  style,
			X:      layout.Origins[i].X,
			Y:      layout.Origins[i].Y,
			Width:  widths[i],
			Height: h,
			TextX:  sp.ChipPadX,
			TextY:  sp.ChipPadY,
		}
	}
	return measured{chips: chips, height: layout.Size.Height}
}

// timeline stacks title, subtitle and date lines right of the marker gutter,
// then the bullets indented below them.
func (l *layouter) timeline(e document.TimelineEntry) measured {
	sp := l.theme.Spacing
	x := sp.Gutter
	width := l.width - x

	var lines []Line
	var y float64
	lines, y = l.wrap(lines, e.Title, RoleTitle, templates.StyleFor(document.StyleEntryTitle), x, width, y)
	lines, y = l.wrap(lines, e.Subtitle, RoleSubtitle, templates.StyleFor(document.StyleEntrySubtitle), x, width, y)
	lines, y = l.wrap(lines, e.DateRange, RoleDate, templates.StyleFor(document.StyleEntryDate), x, width, y)

	if len(lines) > 0 && len(e.Bullets) > 0 {
		y += sp.Inner
	}
	bullet := templates.StyleFor(document.StyleBullet)
	for _, b := range e.Bullets {
		lines, y = l.wrap(lines, b, RoleBullet, bullet, x+sp.Indent, width-sp.Indent, y)
	}

	return measured{lines: lines, height: y, splittable: y > l.contentH}
}

// span returns the height of lines[from:to] and the offset to rebase them.
func span(lines []Line, from, to int) (height, top float64) {
	top = lines[from].Y
	last := lines[to-1]
	return last.Y + last.Height - top, top
}

// fit returns how many lines starting at from fit in avail.
func fit(lines []Line, from int, avail float64) int {
	n := 0
	for to := from + 1; to <= len(lines); to++ {
		h, _ := span(lines, from, to)
		if h > avail+epsilon {
			break
		}
		n++
	}
	return n
}

func rebase(lines []Line, top float64) []Line {
	out := make([]Line, len(lines))
	for i, ln := range lines {
		ln.Y -= top
		out[i] = ln
	}
	return out
}
