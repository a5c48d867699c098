package templates

import (
	"fmt"
	"strconv"
	"strings"
)

// Tier is a font-size tier of a theme.
type Tier int

// Style tiers, largest first.
const (
	TierDisplay Tier = iota
	TierHeading
	TierBody
	TierLabel
	TierCaption

	NumTiers
)

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// ParseHex parses "#RRGGBB" (the leading '#' is optional).
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex formats the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Colors is the palette of a theme.
type Colors struct {
	Primary    RGB
	Secondary  RGB
	Background RGB
	Text       RGB
}

// ColorRole selects a palette entry.
type ColorRole int

// Palette roles.
const (
	ColorText ColorRole = iota
	ColorPrimary
	ColorSecondary
	ColorBackground
)

// FontFamily maps a font id to a PDF core font.
type FontFamily struct {
	ID   string
	Name string
	Core string
}

// Spacing is the spacing scale of a theme, in points.
type Spacing struct {
	Block    float64 // between blocks
	Section  float64 // before a section that does not start a page
	Inner    float64 // between an entry's heading lines and its bullets
	ChipGap  float64 // horizontal gap between chips
	RowGap   float64 // vertical gap between chip rows
	ChipPadX float64
	ChipPadY float64
	Gutter   float64 // timeline marker column
	Indent   float64 // bullet text indent
}

func (s Spacing) scaled(f float64) Spacing {
	if f <= 0 || f == 1 {
		return s
	}
	return Spacing{
		Block:    s.Block * f,
		Section:  s.Section * f,
		Inner:    s.Inner * f,
		ChipGap:  s.ChipGap * f,
		RowGap:   s.RowGap * f,
		ChipPadX: s.ChipPadX * f,
		ChipPadY: s.ChipPadY * f,
		Gutter:   s.Gutter * f,
		Indent:   s.Indent * f,
	}
}

// Theme is the resolved color/font/spacing bundle of one generation run.
// It is a value; resolving never hands out shared state.
type Theme struct {
	ID          string
	Name        string
	Colors      Colors
	Font        FontFamily
	Sizes       [NumTiers]float64
	LineSpacing float64
	Spacing     Spacing
}

// Size returns the font size of a tier.
func (t Theme) Size(tier Tier) float64 {
	if tier < 0 || tier >= NumTiers {
		return t.Sizes[TierBody]
	}
	return t.Sizes[tier]
}

// LineHeight returns the line advance of a tier.
func (t Theme) LineHeight(tier Tier) float64 {
	ls := t.LineSpacing
	if ls <= 0 {
		ls = 1.2
	}
	return t.Size(tier) * ls
}

// Color returns the palette entry of a role.
func (t Theme) Color(role ColorRole) RGB {
	switch role {
	case ColorPrimary:
		return t.Colors.Primary
	case ColorSecondary:
		return t.Colors.Secondary
	case ColorBackground:
		return t.Colors.Background
	}
	return t.Colors.Text
}
