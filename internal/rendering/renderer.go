package rendering

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/jonathan/hireo/internal/paginate"
	"github.com/jonathan/hireo/internal/templates"
	"github.com/jonathan/hireo/internal/types"
)

// DocumentEpoch is written as the creation and modification date of every
// document, so identical plans serialize to identical bytes.
var DocumentEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Renderer draws plans with the templates of a registry. It holds no state
// between calls and is safe for concurrent use.
type Renderer struct {
	registry *templates.Registry
	creator  string
}

// NewRenderer creates a renderer bound to a registry.
func NewRenderer(registry *templates.Registry) *Renderer {
	return &Renderer{registry: registry, creator: "hireo"}
}

// canvas is the per-call drawing state.
type canvas struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
	theme     templates.Theme
	tmpl      *templates.Template
	page      *paginate.Page
	// banner is set while drawing header blocks on a filled banner.
	banner bool
}

// Render draws every page of plan and returns the serialized PDF.
func (r *Renderer) Render(plan *paginate.Plan, theme templates.Theme) ([]byte, error) {
	if plan == nil || len(plan.Pages) == 0 {
		return nil, &RenderError{Message: "plan has no pages"}
	}
	tmpl, err := r.registry.Lookup(plan.TemplateID)
	if err != nil {
		return nil, &TemplateError{TemplateID: plan.TemplateID, Cause: err}
	}

	first := plan.Pages[0].Size
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCreationDate(DocumentEpoch)
	pdf.SetModificationDate(DocumentEpoch)
	pdf.SetCatalogSort(true)
	pdf.SetCreator(r.creator, false)
	pdf.SetTitle(fmt.Sprintf("%s (%s)", tmpl.Name, plan.Kind), false)

	c := &canvas{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
		theme:     theme,
		tmpl:      tmpl,
	}
	for i := range plan.Pages {
		c.page = &plan.Pages[i]
		c.drawPage()
		if pdf.Err() {
			return nil, &RenderError{Page: c.page.Number, Message: "failed to draw", Cause: pdf.Error()}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Message: "failed to serialize document", Cause: err}
	}
	if buf.Len() == 0 {
		return nil, &RenderError{Message: "serialization produced no bytes", Cause: errors.New("empty output")}
	}
	return buf.Bytes(), nil
}

func (c *canvas) drawPage() {
	size := c.page.Size
	c.pdf.AddPageFormat("P", fpdf.SizeType{Wd: size.Width, Ht: size.Height})

	c.fill(c.theme.Colors.Background)
	c.pdf.Rect(0, 0, size.Width, size.Height, "F")

	headerBinding := c.tmpl.Binding(types.SectionPersonalHeader)
	if headerBinding == templates.BindingHeaderBanner {
		c.drawBanner()
	}

	for i := range c.page.Blocks {
		b := &c.page.Blocks[i]
		binding := c.tmpl.Binding(b.Section)
		c.banner = binding == templates.BindingHeaderBanner && b.Section == types.SectionPersonalHeader
		drawers[binding](c, b)
	}
}

// drawBanner fills a primary-colored band from the page top to just below
// the last header block on the page.
func (c *canvas) drawBanner() {
	bottom := 0.0
	for _, b := range c.page.Blocks {
		if b.Section == types.SectionPersonalHeader {
			bottom = max(bottom, b.Origin.Y+b.Size.Height)
		}
	}
	if bottom == 0 {
		return
	}
	pad := c.page.ContentRect.Y / 2
	c.fill(c.theme.Colors.Primary)
	c.pdf.Rect(0, 0, c.page.Size.Width, bottom+pad, "F")
}

func (c *canvas) fill(rgb templates.RGB) {
	c.pdf.SetFillColor(int(rgb.R), int(rgb.G), int(rgb.B))
}

func (c *canvas) stroke(rgb templates.RGB, width float64) {
	c.pdf.SetDrawColor(int(rgb.R), int(rgb.G), int(rgb.B))
	c.pdf.SetLineWidth(width)
}

func (c *canvas) text(rgb templates.RGB) {
	c.pdf.SetTextColor(int(rgb.R), int(rgb.G), int(rgb.B))
}

// tint mixes a color toward the page background.
func (c *canvas) tint(rgb templates.RGB, amount float64) templates.RGB {
	bg := c.theme.Colors.Background
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*amount + float64(b)*(1-amount) + 0.5)
	}
	return templates.RGB{R: mix(rgb.R, bg.R), G: mix(rgb.G, bg.G), B: mix(rgb.B, bg.B)}
}
