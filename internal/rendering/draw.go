package rendering

import (
	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/paginate"
	"github.com/jonathan/hireo/internal/templates"
)

type drawFunc func(c *canvas, b *paginate.PlacedBlock)

// drawers maps every renderer binding to its drawing function. Its length
// is tied to NumBindings, so adding a binding without a drawer fails to
// compile.
var drawers = [templates.NumBindings]drawFunc{
	templates.BindingHeaderLeft:     drawHeaderLeft,
	templates.BindingHeaderCentered: drawHeaderCentered,
	templates.BindingHeaderBanner:   drawHeaderBanner,
	templates.BindingProse:          drawProse,
	templates.BindingTimeline:       drawTimeline,
	templates.BindingEntries:        drawEntries,
	templates.BindingChips:          drawChips,
	templates.BindingLetter:         drawLetter,
}

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

type marker int

const (
	markerNone marker = iota
	markerTimeline
	markerSquare
)

// blockStyle is what a binding changes about the shared block drawing.
type blockStyle struct {
	align  align
	marker marker
	rule   bool // rule under the block (header contact line)
}

func drawHeaderLeft(c *canvas, b *paginate.PlacedBlock) {
	c.drawBlock(b, blockStyle{align: alignLeft, rule: isContact(b)})
}

func drawHeaderCentered(c *canvas, b *paginate.PlacedBlock) {
	c.drawBlock(b, blockStyle{align: alignCenter, rule: isContact(b)})
}

func drawHeaderBanner(c *canvas, b *paginate.PlacedBlock) {
	c.drawBlock(b, blockStyle{align: alignLeft})
}

func drawProse(c *canvas, b *paginate.PlacedBlock) {
	c.drawBlock(b, blockStyle{marker: markerSquare})
}

func drawTimeline(c *canvas, b *paginate.PlacedBlock) {
	c.drawBlock(b, blockStyle{marker: markerTimeline})
}

func drawEntries(c *canvas, b *paginate.PlacedBlock) {
	c.drawBlock(b, blockStyle{marker: markerSquare})
}

func drawChips(c *canvas, b *paginate.PlacedBlock) {
	c.drawBlock(b, blockStyle{marker: markerSquare})
}

func drawLetter(c *canvas, b *paginate.PlacedBlock) {
	style := blockStyle{}
	if run, ok := b.Block.(document.TextRun); ok && run.Style == document.StyleCaption {
		style.align = alignRight
	}
	c.drawBlock(b, style)
}

func isContact(b *paginate.PlacedBlock) bool {
	run, ok := b.Block.(document.TextRun)
	return ok && run.Style == document.StyleContact
}

func (c *canvas) drawBlock(b *paginate.PlacedBlock, style blockStyle) {
	switch v := b.Block.(type) {
	case document.TextRun:
		c.drawLines(b, style.align)
		if v.Style == document.StyleSectionHeading && !b.Fragment {
			c.ruleBelow(b, c.theme.Colors.Primary, 0.8)
		}
		if style.rule {
			c.ruleBelow(b, c.theme.Colors.Secondary, 0.5)
		}
	case document.TagList:
		c.drawChips(b)
	case document.TimelineEntry:
		switch style.marker {
		case markerTimeline:
			c.drawTimelineMarker(b)
		case markerSquare:
			c.drawSquareMarker(b)
		}
		c.drawLines(b, alignLeft)
	}
}

func (c *canvas) color(role templates.ColorRole) templates.RGB {
	if c.banner {
		return c.theme.Colors.Background
	}
	return c.theme.Color(role)
}

func (c *canvas) setFont(style templates.TextStyle) {
	c.pdf.SetFont(c.theme.Font.Core, style.FontStyle(), c.theme.Size(style.Tier))
}

// baseline returns the text baseline of a line box, centering the glyphs'
// x-height band in the box.
func (c *canvas) baseline(top, height float64, style templates.TextStyle) float64 {
	return top + height/2 + 0.3*c.theme.Size(style.Tier)
}

func (c *canvas) drawLines(b *paginate.PlacedBlock, a align) {
	bulletColor := c.theme.Colors.Secondary
	for _, ln := range b.Lines {
		if ln.Text == "" {
			continue
		}
		x := b.Origin.X + ln.X
		switch a {
		case alignCenter:
			x = b.Origin.X + (b.Size.Width-ln.Width)/2
		case alignRight:
			x = b.Origin.X + b.Size.Width - ln.Width
		}
		top := b.Origin.Y + ln.Y

		if ln.Role == paginate.RoleBullet {
			c.fill(bulletColor)
			r := c.theme.Size(ln.Style.Tier) * 0.14
			c.pdf.Circle(x-c.theme.Spacing.Indent/2, top+ln.Height/2, r, "F")
		}

		c.setFont(ln.Style)
		c.text(c.color(ln.Style.Color))
		c.pdf.Text(x, c.baseline(top, ln.Height, ln.Style), c.translate(ln.Text))
	}
}

func (c *canvas) drawChips(b *paginate.PlacedBlock) {
	bg := c.tint(c.theme.Colors.Primary, 0.12)
	for _, chip := range b.Chips {
		x := b.Origin.X + chip.X
		y := b.Origin.Y + chip.Y
		c.fill(bg)
		c.pdf.RoundedRect(x, y, chip.Width, chip.Height, min(chip.Height/2, 6), "1234", "F")

		c.setFont(chip.Style)
		c.text(c.color(chip.Style.Color))
		lineH := chip.Height - 2*chip.TextY
		c.pdf.Text(x+chip.TextX, c.baseline(y+chip.TextY, lineH, chip.Style), c.translate(chip.Text))
	}
}

// drawTimelineMarker draws a dot beside the title and a connector down the
// gutter. Continuation fragments get only the connector.
func (c *canvas) drawTimelineMarker(b *paginate.PlacedBlock) {
	gutter := c.theme.Spacing.Gutter
	if gutter <= 0 {
		return
	}
	cx := b.Origin.X + gutter/2 - 1
	top := b.Origin.Y
	c.stroke(c.tint(c.theme.Colors.Secondary, 0.6), 0.8)

	if b.Continuation || len(b.Lines) == 0 {
		c.pdf.Line(cx, top, cx, top+b.Size.Height)
		return
	}
	cy := top + b.Lines[0].Height/2
	r := min(gutter/4, 3.5)
	c.pdf.Line(cx, cy+r, cx, top+b.Size.Height)
	c.fill(c.theme.Colors.Primary)
	c.pdf.Circle(cx, cy, r, "F")
}

func (c *canvas) drawSquareMarker(b *paginate.PlacedBlock) {
	gutter := c.theme.Spacing.Gutter
	if gutter <= 0 || b.Continuation || len(b.Lines) == 0 {
		return
	}
	side := min(gutter/3, 4.0)
	cy := b.Origin.Y + b.Lines[0].Height/2
	c.fill(c.theme.Colors.Primary)
	c.pdf.Rect(b.Origin.X+gutter/2-side/2-1, cy-side/2, side, side, "F")
}

func (c *canvas) ruleBelow(b *paginate.PlacedBlock, rgb templates.RGB, width float64) {
	y := b.Origin.Y + b.Size.Height + 1.5
	c.stroke(rgb, width)
	c.pdf.Line(b.Origin.X, y, b.Origin.X+b.Size.Width, y)
}
