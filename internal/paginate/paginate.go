// Package paginate turns a document.Model into a Render Plan: pages of
// blocks with absolute positions.
//
// Blocks are placed top to bottom. A block that does not fit the rest of the
// page is either split between lines (text runs, and timeline entries taller
// than a whole page) or moved to the next page whole. A block marked
// KeepWithNext is moved together with the start of the block after it, so a
// section heading never ends a page. When even an empty page cannot hold a
// block, it is forced onto the page and the plan is marked degraded; the loop
// always advances.
package paginate

import (
	"context"

	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/flow"
	"github.com/jonathan/hireo/internal/metrics"
	"github.com/jonathan/hireo/internal/templates"
	"github.com/jonathan/hireo/internal/types"
)

const epsilon = 1e-6

// Options configures a pagination run.
type Options struct {
	PageSize flow.Size
	Margins  Margins
	// Measurer must be the same measurer the renderer's fonts correspond to.
	Measurer metrics.Measurer
}

// DefaultOptions returns A4 with 40pt margins.
func DefaultOptions(m metrics.Measurer) Options {
	return Options{PageSize: A4, Margins: UniformMargins(DefaultMargin), Measurer: m}
}

// ContentRect returns the area inside the margins.
func (o Options) ContentRect() Rect {
	return Rect{
		X:      o.Margins.Left,
		Y:      o.Margins.Top,
		Width:  o.PageSize.Width - o.Margins.Left - o.Margins.Right,
		Height: o.PageSize.Height - o.Margins.Top - o.Margins.Bottom,
	}
}

type item struct {
	section      types.SectionKind
	block        document.Block
	keepWithNext bool
	sectionStart bool
	m            measured
}

type paginator struct {
	ctx     context.Context
	spacing templates.Spacing
	size    flow.Size
	content Rect
	plan    *Plan
	page    Page
	cursor  float64
}

// Paginate lays out model on pages. ctx is checked each time a page is
// finished; a cancelled run returns ctx.Err() and no plan.
func Paginate(ctx context.Context, model *document.Model, theme templates.Theme, opts Options) (*Plan, error) {
	if opts.Measurer == nil {
		return nil, &LayoutError{Message: "no measurer configured"}
	}
	if opts.PageSize == (flow.Size{}) {
		opts.PageSize = A4
	}
	content := opts.ContentRect()
	if content.Width <= 0 || content.Height <= 0 {
		return nil, &LayoutError{Message: "margins leave no content area"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := &layouter{m: opts.Measurer, theme: theme, width: content.Width, contentH: content.Height}
	var items []item
	for _, sec := range model.Sections {
		for i, b := range sec.Blocks {
			run, _ := b.(document.TextRun)
			items = append(items, item{
				section:      sec.Kind,
				block:        b,
				keepWithNext: run.KeepWithNext,
				sectionStart: i == 0,
				m:            l.measure(b),
			})
		}
	}

	p := &paginator{
		ctx:     ctx,
		spacing: theme.Spacing,
		size:    opts.PageSize,
		content: content,
		plan:    &Plan{TemplateID: model.TemplateID, Kind: model.Kind},
	}
	p.open()
	for i := range items {
		if err := p.place(items, i); err != nil {
			return nil, err
		}
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return p.plan, nil
}

func (p *paginator) open() {
	p.page = Page{
		Number:      len(p.plan.Pages) + 1,
		Size:        p.size,
		ContentRect: p.content,
	}
	p.cursor = p.content.Y
}

// finish closes the current page; this is the cancellation checkpoint.
func (p *paginator) finish() error {
	p.plan.Pages = append(p.plan.Pages, p.page)
	if p.page.Overflow {
		p.plan.Degraded = true
	}
	return p.ctx.Err()
}

func (p *paginator) newPage() error {
	if err := p.finish(); err != nil {
		return err
	}
	p.open()
	return nil
}

func (p *paginator) empty() bool {
	return len(p.page.Blocks) == 0
}

// onlyLeadIn reports whether every block on the page is a keep-with-next
// block, so all of them are waiting on the block being placed.
func (p *paginator) onlyLeadIn() bool {
	for _, b := range p.page.Blocks {
		run, ok := b.Block.(document.TextRun)
		if !ok || !run.KeepWithNext {
			return false
		}
	}
	return true
}

func (p *paginator) gapBefore(it *item) float64 {
	if p.empty() {
		return 0
	}
	return gap(p.spacing, it)
}

func gap(sp templates.Spacing, it *item) float64 {
	if it.sectionStart {
		return sp.Section
	}
	return sp.Block
}

func (p *paginator) remaining(it *item) float64 {
	return p.content.Bottom() - p.cursor - p.gapBefore(it)
}

// lead is the height that has to fit for block i to be placed: the block's
// minimum, or, for a KeepWithNext block, its full height plus the lead of the
// block after it.
func lead(items []item, sp templates.Spacing, i int) float64 {
	it := &items[i]
	if it.keepWithNext && i+1 < len(items) {
		return it.m.height + gap(sp, &items[i+1]) + lead(items, sp, i+1)
	}
	return it.m.minHeight()
}

func (p *paginator) place(items []item, i int) error {
	it := &items[i]
	if it.m.height <= 0 {
		return nil
	}

	if it.keepWithNext && !p.empty() && lead(items, p.spacing, i) > p.remaining(it)+epsilon {
		if err := p.newPage(); err != nil {
			return err
		}
	}

	if it.m.height <= p.remaining(it)+epsilon {
		p.put(it, it.m.lines, it.m.chips, it.m.height, false, false)
		return nil
	}
	if it.m.splittable {
		return p.split(it)
	}

	// A page holding only headings that lead into this block would be left
	// with nothing but the headings; keep them together and overflow.
	if !p.empty() && !p.onlyLeadIn() {
		if err := p.newPage(); err != nil {
			return err
		}
		if it.m.height <= p.remaining(it)+epsilon {
			p.put(it, it.m.lines, it.m.chips, it.m.height, false, false)
			return nil
		}
	}
	p.page.Overflow = true
	p.put(it, it.m.lines, it.m.chips, it.m.height, false, false)
	return nil
}

// split places as many lines as fit, then continues on fresh pages.
func (p *paginator) split(it *item) error {
	lines := it.m.lines
	for from := 0; from < len(lines); {
		n := fit(lines, from, p.remaining(it))
		if n == 0 {
			if !p.empty() {
				if err := p.newPage(); err != nil {
					return err
				}
				continue
			}
			n = 1
			p.page.Overflow = true
		}

		h, top := span(lines, from, from+n)
		whole := from == 0 && n == len(lines)
		p.put(it, rebase(lines[from:from+n], top), nil, h, !whole, from > 0)

		from += n
		if from < len(lines) {
			if err := p.newPage(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *paginator) put(it *item, lines []Line, chips []Chip, h float64, fragment, continuation bool) {
	y := p.cursor + p.gapBefore(it)
	p.page.Blocks = append(p.page.Blocks, PlacedBlock{
		Section:      it.section,
		Block:        it.block,
		Origin:       flow.Point{X: p.content.X, Y: y},
		Size:         flow.Size{Width: p.content.Width, Height: h},
		Lines:        lines,
		Chips:        chips,
		Fragment:     fragment,
		Continuation: continuation,
		SectionStart: it.sectionStart && !continuation,
	})
	p.cursor = y + h
}
