package templates

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/types"
)

//go:embed definitions.yaml
var defaultDefinitions []byte

// Registry is the immutable template catalog. Build it once with
// NewDefaultRegistry or NewRegistry and share it; all methods are safe for
// unlimited concurrent use.
type Registry struct {
	templates map[string]*Template
	ids       []string
	themes    map[string]Theme
	fonts     map[string]FontFamily
}

type definitionFile struct {
	Fonts     []fontDef     `yaml:"fonts"`
	Themes    []themeDef    `yaml:"themes"`
	Templates []templateDef `yaml:"templates"`
}

type fontDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Core string `yaml:"core"`
}

type themeDef struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Colors      map[string]string  `yaml:"colors"`
	Font        string             `yaml:"font"`
	Sizes       map[string]float64 `yaml:"sizes"`
	LineSpacing float64            `yaml:"line_spacing"`
	Spacing     spacingDef         `yaml:"spacing"`
}

type spacingDef struct {
	Block    float64 `yaml:"block"`
	Section  float64 `yaml:"section"`
	Inner    float64 `yaml:"inner"`
	ChipGap  float64 `yaml:"chip_gap"`
	RowGap   float64 `yaml:"row_gap"`
	ChipPadX float64 `yaml:"chip_pad_x"`
	ChipPadY float64 `yaml:"chip_pad_y"`
	Gutter   float64 `yaml:"gutter"`
	Indent   float64 `yaml:"indent"`
}

type templateDef struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Kind     string            `yaml:"kind"`
	Category string            `yaml:"category"`
	Themes   []string          `yaml:"themes"`
	Fonts    []string          `yaml:"fonts"`
	Density  float64           `yaml:"density"`
	Order    []string          `yaml:"order"`
	Bindings map[string]string `yaml:"bindings"`
}

var tierNames = [NumTiers]string{
	TierDisplay: "display",
	TierHeading: "heading",
	TierBody:    "body",
	TierLabel:   "label",
	TierCaption: "caption",
}

// NewDefaultRegistry builds the registry from the embedded template catalog.
func NewDefaultRegistry() (*Registry, error) {
	return NewRegistry(defaultDefinitions)
}

// NewRegistry builds a registry from YAML definitions.
func NewRegistry(definitions []byte) (*Registry, error) {
	var file definitionFile
	if err := yaml.Unmarshal(definitions, &file); err != nil {
		return nil, &DefinitionError{Message: "failed to parse definitions", Cause: err}
	}

	r := &Registry{
		templates: make(map[string]*Template, len(file.Templates)),
		themes:    make(map[string]Theme, len(file.Themes)),
		fonts:     make(map[string]FontFamily, len(file.Fonts)),
	}

	for _, f := range file.Fonts {
		if f.ID == "" || f.Core == "" {
			return nil, &DefinitionError{Message: fmt.Sprintf("font %q needs id and core", f.ID)}
		}
		if _, dup := r.fonts[f.ID]; dup {
			return nil, &DefinitionError{Message: fmt.Sprintf("duplicate font %q", f.ID)}
		}
		r.fonts[f.ID] = FontFamily{ID: f.ID, Name: f.Name, Core: f.Core}
	}

	for _, td := range file.Themes {
		theme, err := r.buildTheme(td)
		if err != nil {
			return nil, err
		}
		r.themes[theme.ID] = theme
	}

	for _, def := range file.Templates {
		tmpl, err := r.buildTemplate(def)
		if err != nil {
			return nil, err
		}
		r.templates[tmpl.ID] = tmpl
		r.ids = append(r.ids, tmpl.ID)
	}
	sort.Strings(r.ids)

	if len(r.ids) == 0 {
		return nil, &DefinitionError{Message: "no templates defined"}
	}
	return r, nil
}

func (r *Registry) buildTheme(td themeDef) (Theme, error) {
	if td.ID == "" {
		return Theme{}, &DefinitionError{Message: "theme without id"}
	}
	if _, dup := r.themes[td.ID]; dup {
		return Theme{}, &DefinitionError{Message: fmt.Sprintf("duplicate theme %q", td.ID)}
	}
	font, ok := r.fonts[td.Font]
	if !ok {
		return Theme{}, &DefinitionError{Message: fmt.Sprintf("theme %q references unknown font %q", td.ID, td.Font)}
	}

	theme := Theme{
		ID:          td.ID,
		Name:        td.Name,
		Font:        font,
		LineSpacing: td.LineSpacing,
		Spacing: Spacing{
			Block:    td.Spacing.Block,
			Section:  td.Spacing.Section,
			Inner:    td.Spacing.Inner,
			ChipGap:  td.Spacing.ChipGap,
			RowGap:   td.Spacing.RowGap,
			ChipPadX: td.Spacing.ChipPadX,
			ChipPadY: td.Spacing.ChipPadY,
			Gutter:   td.Spacing.Gutter,
			Indent:   td.Spacing.Indent,
		},
	}

	colorSlots := map[string]*RGB{
		"primary":    &theme.Colors.Primary,
		"secondary":  &theme.Colors.Secondary,
		"background": &theme.Colors.Background,
		"text":       &theme.Colors.Text,
	}
	for name, slot := range colorSlots {
		raw, ok := td.Colors[name]
		if !ok {
			return Theme{}, &DefinitionError{Message: fmt.Sprintf("theme %q missing %s color", td.ID, name)}
		}
		c, err := ParseHex(raw)
		if err != nil {
			return Theme{}, &DefinitionError{Message: fmt.Sprintf("theme %q", td.ID), Cause: err}
		}
		*slot = c
	}

	for tier, name := range tierNames {
		size, ok := td.Sizes[name]
		if !ok || size <= 0 {
			return Theme{}, &DefinitionError{Message: fmt.Sprintf("theme %q needs a positive %s size", td.ID, name)}
		}
		theme.Sizes[tier] = size
	}
	return theme, nil
}

func (r *Registry) buildTemplate(def templateDef) (*Template, error) {
	if def.ID == "" {
		return nil, &DefinitionError{Message: "template without id"}
	}
	if _, dup := r.templates[def.ID]; dup {
		return nil, &DefinitionError{Message: fmt.Sprintf("duplicate template %q", def.ID)}
	}

	tmpl := &Template{
		ID:       def.ID,
		Name:     def.Name,
		Category: def.Category,
		Kind:     document.Kind(def.Kind),
		ThemeIDs: def.Themes,
		FontIDs:  def.Fonts,
		Density:  def.Density,
		Bindings: make(map[types.SectionKind]Binding, len(def.Bindings)),
	}
	if tmpl.Kind != document.KindCV && tmpl.Kind != document.KindCoverLetter {
		return nil, &DefinitionError{Message: fmt.Sprintf("template %q has unknown kind %q", def.ID, def.Kind)}
	}
	if tmpl.Density == 0 {
		tmpl.Density = 1
	}

	if len(tmpl.ThemeIDs) == 0 || len(tmpl.FontIDs) == 0 {
		return nil, &DefinitionError{Message: fmt.Sprintf("template %q declares no themes or fonts", def.ID)}
	}
	for _, id := range tmpl.ThemeIDs {
		if _, ok := r.themes[id]; !ok {
			return nil, &DefinitionError{Message: fmt.Sprintf("template %q references unknown theme %q", def.ID, id)}
		}
	}
	for _, id := range tmpl.FontIDs {
		if _, ok := r.fonts[id]; !ok {
			return nil, &DefinitionError{Message: fmt.Sprintf("template %q references unknown font %q", def.ID, id)}
		}
	}

	seen := make(map[types.SectionKind]bool, len(def.Order))
	for _, name := range def.Order {
		kind, err := types.ParseSectionKind(name)
		if err != nil {
			return nil, &DefinitionError{Message: fmt.Sprintf("template %q order", def.ID), Cause: err}
		}
		if seen[kind] {
			return nil, &DefinitionError{Message: fmt.Sprintf("template %q lists %s twice", def.ID, kind)}
		}
		seen[kind] = true
		tmpl.DefaultOrder = append(tmpl.DefaultOrder, kind)
	}
	if !seen[types.SectionPersonalHeader] {
		return nil, &DefinitionError{Message: fmt.Sprintf("template %q must include personalHeader", def.ID)}
	}

	for name, bindingName := range def.Bindings {
		kind, err := types.ParseSectionKind(name)
		if err != nil {
			return nil, &DefinitionError{Message: fmt.Sprintf("template %q bindings", def.ID), Cause: err}
		}
		binding, err := ParseBinding(bindingName)
		if err != nil {
			return nil, &DefinitionError{Message: fmt.Sprintf("template %q bindings", def.ID), Cause: err}
		}
		tmpl.Bindings[kind] = binding
	}
	for _, kind := range tmpl.DefaultOrder {
		if _, ok := tmpl.Bindings[kind]; !ok {
			return nil, &DefinitionError{Message: fmt.Sprintf("template %q has no binding for %s", def.ID, kind)}
		}
	}
	return tmpl, nil
}

// Lookup returns a copy of the template with the given id.
func (r *Registry) Lookup(id string) (*Template, error) {
	tmpl, ok := r.templates[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return tmpl.clone(), nil
}

// Templates returns copies of all templates of a kind, sorted by id.
// An empty kind returns every template.
func (r *Registry) Templates(kind document.Kind) []*Template {
	out := make([]*Template, 0, len(r.ids))
	for _, id := range r.ids {
		tmpl := r.templates[id]
		if kind == "" || tmpl.Kind == kind {
			out = append(out, tmpl.clone())
		}
	}
	return out
}

// DefaultTemplate returns the first template of a kind in id order.
func (r *Registry) DefaultTemplate(kind document.Kind) (*Template, error) {
	for _, id := range r.ids {
		if r.templates[id].Kind == kind {
			return r.templates[id].clone(), nil
		}
	}
	return nil, &NotFoundError{ID: string(kind)}
}

// Theme returns a theme by id.
func (r *Registry) Theme(id string) (Theme, bool) {
	t, ok := r.themes[id]
	return t, ok
}

// Font returns a font family by id.
func (r *Registry) Font(id string) (FontFamily, bool) {
	f, ok := r.fonts[id]
	return f, ok
}

// Substitution records a requested id that was replaced by a template default.
type Substitution struct {
	Field     string
	Requested string
	Used      string
}

// ResolveTheme resolves the theme and font of a run. Ids the template does not
// declare fall back to the template's first declared theme or font; each
// fallback is reported as a Substitution. An empty id silently selects the
// default. The template's density scales the spacing.
func (r *Registry) ResolveTheme(tmpl *Template, themeID, fontID string) (Theme, []Substitution) {
	var subs []Substitution

	useTheme := tmpl.ThemeIDs[0]
	if themeID != "" {
		if slices.Contains(tmpl.ThemeIDs, themeID) {
			useTheme = themeID
		} else {
			subs = append(subs, Substitution{Field: "theme_id", Requested: themeID, Used: useTheme})
		}
	}

	useFont := tmpl.FontIDs[0]
	if fontID != "" {
		if slices.Contains(tmpl.FontIDs, fontID) {
			useFont = fontID
		} else {
			subs = append(subs, Substitution{Field: "font_id", Requested: fontID, Used: useFont})
		}
	}

	theme := r.themes[useTheme]
	theme.Font = r.fonts[useFont]
	theme.Spacing = theme.Spacing.scaled(tmpl.Density)
	return theme, subs
}
