package paginate

import (
	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/flow"
	"github.com/jonathan/hireo/internal/templates"
	"github.com/jonathan/hireo/internal/types"
)

// A4 is the default page size in points.
var A4 = flow.Size{Width: 595, Height: 842}

// DefaultMargin is the default margin on every side, in points.
const DefaultMargin = 40

// Margins are page margins in points.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// UniformMargins returns equal margins on every side.
func UniformMargins(m float64) Margins {
	return Margins{Top: m, Right: m, Bottom: m, Left: m}
}

// Rect is an axis-aligned rectangle. Y grows downwards from the page top.
type Rect struct {
	X, Y, Width, Height float64
}

// Bottom returns the y coordinate of the lower edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// LineRole tells the renderer what a line is.
type LineRole int

// Line roles.
const (
	RoleText LineRole = iota
	RoleTitle
	RoleSubtitle
	RoleDate
	RoleBullet     // first line of a bullet, drawn with a marker
	RoleBulletWrap // continuation line of a bullet
)

// Line is one measured line of text. X and Y are offsets of the line box from
// the origin of the placed block; Width is the measured text width.
type Line struct {
	Text   string
	Role   LineRole
	Style  templates.TextStyle
	X, Y   float64
	Width  float64
	Height float64
}

// Chip is one flowed item of a tag list, relative to the placed block.
type Chip struct {
	Text   string
	Style  templates.TextStyle
	X, Y   float64
	Width  float64
	Height float64
	// TextX and TextY offset the text inside the chip.
	TextX, TextY float64
}

// PlacedBlock is a block, or a fragment of a split block, at its final
// position on a page.
type PlacedBlock struct {
	Section types.SectionKind
	Block   document.Block
	Origin  flow.Point
	Size    flow.Size
	Lines   []Line
	Chips   []Chip
	// Fragment is set when only part of the block's lines are on this page.
	Fragment bool
	// Continuation is set on every fragment after the first.
	Continuation bool
	// SectionStart is set on the first placed block of a section.
	SectionStart bool
}

// Page is one page of a Render Plan.
type Page struct {
	Number      int
	Size        flow.Size
	ContentRect Rect
	Blocks      []PlacedBlock
	// Overflow is set when a block had to be forced onto the page although it
	// does not fit the content rectangle.
	Overflow bool
}

// Used returns the vertical extent of the page's blocks.
func (p Page) Used() float64 {
	var bottom float64
	for _, b := range p.Blocks {
		bottom = max(bottom, b.Origin.Y+b.Size.Height)
	}
	if bottom == 0 {
		return 0
	}
	return bottom - p.ContentRect.Y
}

// Plan is a Render Plan: every page with its placed blocks.
type Plan struct {
	TemplateID string
	Kind       document.Kind
	Pages      []Page
	// Degraded is set when any page overflowed.
	Degraded bool
}

// PageCount returns the number of pages.
func (p *Plan) PageCount() int {
	return len(p.Pages)
}
