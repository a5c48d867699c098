package metrics

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/jonathan/hireo/internal/templates"
)

// PDFMeasurer measures with the PDF core-font metrics of a theme's font
// family. Text is translated to cp1252 first, exactly as the renderer does
// before drawing it.
type PDFMeasurer struct {
	pdf       *fpdf.Fpdf
	theme     templates.Theme
	translate func(string) string
	current   string
}

// NewPDFMeasurer prepares a measurer for one generation run.
func NewPDFMeasurer(theme templates.Theme) (*PDFMeasurer, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: 595, Ht: 842},
	})
	m := &PDFMeasurer{
		pdf:       pdf,
		theme:     theme,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
	for _, style := range []string{"", "B", "I", "BI"} {
		pdf.SetFont(theme.Font.Core, style, theme.Size(templates.TierBody))
	}
	if pdf.Err() {
		return nil, fmt.Errorf("failed to load font %q: %w", theme.Font.Core, pdf.Error())
	}
	return m, nil
}

func (m *PDFMeasurer) use(style templates.TextStyle) {
	size := m.theme.Size(style.Tier)
	key := fmt.Sprintf("%s|%.3f", style.FontStyle(), size)
	if key == m.current {
		return
	}
	m.pdf.SetFont(m.theme.Font.Core, style.FontStyle(), size)
	m.current = key
}

// TextWidth implements Measurer.
func (m *PDFMeasurer) TextWidth(text string, style templates.TextStyle) float64 {
	m.use(style)
	return m.pdf.GetStringWidth(m.translate(text))
}

// LineHeight implements Measurer.
func (m *PDFMeasurer) LineHeight(style templates.TextStyle) float64 {
	return m.theme.LineHeight(style.Tier)
}
