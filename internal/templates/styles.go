package templates

import "github.com/jonathan/hireo/internal/document"

// TextStyle is the typographic treatment of a StyleRef.
type TextStyle struct {
	Tier   Tier
	Bold   bool
	Italic bool
	Color  ColorRole
	Upper  bool
}

// FontStyle returns the fpdf style string ("", "B", "I", "BI").
func (s TextStyle) FontStyle() string {
	switch {
	case s.Bold && s.Italic:
		return "BI"
	case s.Bold:
		return "B"
	case s.Italic:
		return "I"
	}
	return ""
}

var styleTable = map[document.StyleRef]TextStyle{
	document.StyleName:           {Tier: TierDisplay, Bold: true, Color: ColorPrimary},
	document.StyleHeadline:       {Tier: TierHeading, Color: ColorSecondary},
	document.StyleContact:        {Tier: TierCaption, Color: ColorText},
	document.StyleSectionHeading: {Tier: TierHeading, Bold: true, Color: ColorPrimary, Upper: true},
	document.StyleBody:           {Tier: TierBody, Color: ColorText},
	document.StyleLabel:          {Tier: TierLabel, Bold: true, Color: ColorSecondary},
	document.StyleCaption:        {Tier: TierCaption, Color: ColorSecondary},
	document.StyleEntryTitle:     {Tier: TierBody, Bold: true, Color: ColorText},
	document.StyleEntrySubtitle:  {Tier: TierLabel, Italic: true, Color: ColorSecondary},
	document.StyleEntryDate:      {Tier: TierCaption, Color: ColorSecondary},
	document.StyleBullet:         {Tier: TierBody, Color: ColorText},
	document.StyleChip:           {Tier: TierLabel, Color: ColorPrimary},
	document.StyleSignature:      {Tier: TierBody, Bold: true, Color: ColorText},
}

// StyleFor returns the style of a reference. Unknown references render as body text.
func StyleFor(ref document.StyleRef) TextStyle {
	if s, ok := styleTable[ref]; ok {
		return s
	}
	return styleTable[document.StyleBody]
}
