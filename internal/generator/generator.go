// Package generator runs the full document pipeline: template resolution,
// content mapping, pagination, rendering and thumbnails.
//
// A Generator holds only the read-only template registry, so any number of
// generations may run concurrently. Each call owns its measurer, model, plan
// and PDF writer.
package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/mapping"
	"github.com/jonathan/hireo/internal/metrics"
	"github.com/jonathan/hireo/internal/paginate"
	"github.com/jonathan/hireo/internal/rendering"
	"github.com/jonathan/hireo/internal/templates"
	"github.com/jonathan/hireo/internal/types"
)

// Options configures a Generator.
type Options struct {
	// StrictTemplates turns an unknown or mismatched template id into a
	// configuration error instead of substituting the default template.
	StrictTemplates bool
	// Margins default to paginate.DefaultMargin on every side.
	Margins *paginate.Margins
}

// Generator produces CVs, cover letters and thumbnails.
type Generator struct {
	registry *templates.Registry
	renderer *rendering.Renderer
	opts     Options
}

// New creates a generator over a template registry.
func New(registry *templates.Registry, opts Options) *Generator {
	return &Generator{
		registry: registry,
		renderer: rendering.NewRenderer(registry),
		opts:     opts,
	}
}

// Registry returns the template registry the generator draws from.
func (g *Generator) Registry() *templates.Registry {
	return g.registry
}

// CVRequest is the input of GenerateCV.
type CVRequest struct {
	Profile    types.Profile        `json:"profile"`
	TemplateID string               `json:"template_id"`
	Settings   types.CustomSettings `json:"settings"`
}

// CoverLetterRequest is the input of GenerateCoverLetter.
type CoverLetterRequest struct {
	Profile     types.Profile            `json:"profile"`
	TemplateID  string                   `json:"template_id"`
	Application *types.ApplicationLink   `json:"application,omitempty"`
	Letter      types.CoverLetterContent `json:"letter"`
	Settings    types.CustomSettings     `json:"settings"`
}

// Diagnostics collects everything that was recovered during a generation.
type Diagnostics struct {
	Notices []mapping.Notice `json:"notices,omitempty"`
	// Degraded is set when some block had to be forced onto a page it
	// overflows.
	Degraded bool `json:"degraded,omitempty"`
}

// Configuration returns the configuration notices.
func (d Diagnostics) Configuration() []mapping.Notice {
	return d.filter(mapping.NoticeConfiguration)
}

// Fallbacks returns the placeholder notices.
func (d Diagnostics) Fallbacks() []mapping.Notice {
	return d.filter(mapping.NoticeFallback)
}

func (d Diagnostics) filter(kind mapping.NoticeKind) []mapping.Notice {
	var out []mapping.Notice
	for _, n := range d.Notices {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Document is a finished PDF and what it was generated from.
type Document struct {
	Bytes       []byte         `json:"-"`
	PageCount   int            `json:"page_count"`
	Kind        document.Kind  `json:"kind"`
	TemplateID  string         `json:"template_id"`
	ThemeID     string         `json:"theme_id"`
	FontID      string         `json:"font_id"`
	ContentHash string         `json:"content_hash"`
	Plan        *paginate.Plan `json:"-"`
	Diagnostics Diagnostics    `json:"diagnostics"`
}

// GenerateCV maps, paginates and renders a CV.
func (g *Generator) GenerateCV(ctx context.Context, req CVRequest) (*Document, error) {
	return g.generate(ctx, document.KindCV, req.TemplateID, mapping.Input{
		Profile:  req.Profile,
		Settings: req.Settings,
	})
}

// GenerateCoverLetter maps, paginates and renders a cover letter.
func (g *Generator) GenerateCoverLetter(ctx context.Context, req CoverLetterRequest) (*Document, error) {
	if req.Application != nil {
		if err := req.Application.Validate(); err != nil {
			return nil, &GenerationError{Kind: KindInvalidInput, Message: "invalid application", Cause: err}
		}
	}
	letter := req.Letter
	return g.generate(ctx, document.KindCoverLetter, req.TemplateID, mapping.Input{
		Profile:     req.Profile,
		Application: req.Application,
		Letter:      &letter,
		Settings:    req.Settings,
	})
}

func (g *Generator) generate(ctx context.Context, kind document.Kind, templateID string, in mapping.Input) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}
	if err := in.Profile.Validate(); err != nil {
		return nil, &GenerationError{Kind: KindInvalidInput, Message: "invalid profile", Cause: err}
	}
	if err := in.Settings.Validate(); err != nil {
		return nil, &GenerationError{Kind: KindInvalidInput, Message: "invalid settings", Cause: err}
	}

	var diag Diagnostics
	tmpl, notice, err := g.resolveTemplate(kind, templateID)
	if err != nil {
		return nil, err
	}
	if notice != nil {
		diag.Notices = append(diag.Notices, *notice)
	}

	theme, subs := g.registry.ResolveTheme(tmpl, in.Settings.ThemeID, in.Settings.FontID)
	for _, s := range subs {
		diag.Notices = append(diag.Notices, mapping.Notice{
			Kind:    mapping.NoticeConfiguration,
			Field:   "settings." + s.Field,
			Message: fmt.Sprintf("%q is not supported by template %q, using %q", s.Requested, tmpl.ID, s.Used),
		})
	}

	model, notices := mapping.Map(tmpl, in)
	diag.Notices = append(diag.Notices, notices...)

	m, err := metrics.NewPDFMeasurer(theme)
	if err != nil {
		return nil, &GenerationError{Kind: KindRenderingFailed, Message: "failed to load font metrics", Cause: err}
	}
	opts := paginate.DefaultOptions(m)
	if g.opts.Margins != nil {
		opts.Margins = *g.opts.Margins
	}
	plan, err := paginate.Paginate(ctx, model, theme, opts)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, cancelled(err)
		}
		return nil, &GenerationError{Kind: KindRenderingFailed, Message: "pagination failed", Cause: err}
	}
	diag.Degraded = plan.Degraded

	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}
	out, err := g.renderer.Render(plan, theme)
	if err != nil {
		return nil, &GenerationError{Kind: KindRenderingFailed, Message: "rendering failed", Cause: err}
	}

	sum := sha256.Sum256(out)
	return &Document{
		Bytes:       out,
		PageCount:   plan.PageCount(),
		Kind:        kind,
		TemplateID:  tmpl.ID,
		ThemeID:     theme.ID,
		FontID:      theme.Font.ID,
		ContentHash: hex.EncodeToString(sum[:]),
		Plan:        plan,
		Diagnostics: diag,
	}, nil
}

// resolveTemplate looks up templateID and checks that it produces kind. An
// empty id selects the default silently. Any other miss substitutes the
// default and reports it, unless templates are strict.
func (g *Generator) resolveTemplate(kind document.Kind, templateID string) (*templates.Template, *mapping.Notice, error) {
	if templateID != "" {
		tmpl, err := g.registry.Lookup(templateID)
		if err == nil && tmpl.Kind == kind {
			return tmpl, nil, nil
		}
		msg := fmt.Sprintf("template %q is not a %s template", templateID, kind)
		if err != nil {
			msg = err.Error()
		}
		if g.opts.StrictTemplates {
			return nil, nil, &GenerationError{Kind: KindConfiguration, Message: msg, Cause: err}
		}
		def, derr := g.registry.DefaultTemplate(kind)
		if derr != nil {
			return nil, nil, &GenerationError{Kind: KindConfiguration, Message: "no default template", Cause: derr}
		}
		return def, &mapping.Notice{
			Kind:    mapping.NoticeConfiguration,
			Field:   "template_id",
			Message: fmt.Sprintf("%s, using %q", msg, def.ID),
		}, nil
	}

	def, err := g.registry.DefaultTemplate(kind)
	if err != nil {
		return nil, nil, &GenerationError{Kind: KindConfiguration, Message: "no default template", Cause: err}
	}
	return def, nil, nil
}

func cancelled(err error) error {
	return &GenerationError{Kind: KindCancelled, Message: "generation cancelled", Cause: err}
}
