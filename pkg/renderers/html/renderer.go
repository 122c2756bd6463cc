// Package html renders form views as HTML fragments using pongo2 templates.
// Preview and standalone chrome share one template; labels and option text are
// stripped of markup before output.
package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/engine"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	"github.com/goliatone/go-formbuilder/pkg/render/template/gotemplate"
)

const formTemplate = "form.tmpl"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
	selection        *theme.Selection
	selector         ThemeSelector
	themeName        string
	themeVariant     string
	stylesheet       bool
}

// WithTemplatesFS supplies an alternate template bundle. It must provide
// form.tmpl and control.tmpl at its root.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk. It takes
// precedence over WithTemplatesFS.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = path
	}
}

// WithTemplateRenderer injects a template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme applies a resolved theme selection.
func WithTheme(selection *theme.Selection) Option {
	return func(cfg *config) {
		cfg.selection = selection
	}
}

// WithThemeSelector resolves name and variant through selector at
// construction time.
func WithThemeSelector(selector ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.selector = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

// WithStylesheet inlines the bundled stylesheet into every render.
func WithStylesheet(enabled bool) Option {
	return func(cfg *config) {
		cfg.stylesheet = enabled
	}
}

// Renderer is the HTML render.Renderer.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	themeName  string
	themeCSS   string
	stylesheet string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templates := cfg.templateRenderer
	if templates == nil {
		source := gotemplate.WithFS(cfg.templateFS)
		if cfg.templateDir != "" {
			source = gotemplate.WithBaseDir(cfg.templateDir)
		} else if cfg.templateFS == nil {
			return nil, errors.New("html renderer: templates are required")
		}
		eng, err := gotemplate.New(source, gotemplate.WithExtension(".tmpl"))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = eng
	}

	selection := cfg.selection
	if selection == nil && cfg.selector != nil {
		selected, err := cfg.selector.Select(cfg.themeName, cfg.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("html renderer: select theme: %w", err)
		}
		selection = selected
	}

	r := &Renderer{templates: templates}
	if selection != nil {
		r.themeName = selection.Theme
		r.themeCSS = themeCSS(themeTokens(selection))
	}
	if cfg.stylesheet {
		r.stylesheet = defaultStylesheet()
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType reports the output media type.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws view as an HTML fragment.
func (r *Renderer) Render(ctx context.Context, view engine.View, opts render.RenderOptions) ([]byte, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if r.templates == nil {
		return nil, errors.New("html renderer: template renderer is nil")
	}

	out, err := r.templates.RenderTemplate(formTemplate, map[string]any{
		"form": r.formData(view, opts),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(out), nil
}

type formData struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Layout     string        `json:"layout"`
	Preview    bool          `json:"preview"`
	Grid       bool          `json:"grid"`
	ThemeName  string        `json:"theme_name"`
	ThemeCSS   string        `json:"theme_css"`
	Stylesheet string        `json:"stylesheet"`
	Controls   []controlData `json:"controls"`
}

type controlData struct {
	ID          string       `json:"id"`
	DOMID       string       `json:"dom_id"`
	Kind        string       `json:"kind"`
	InputType   string       `json:"input_type"`
	Label       string       `json:"label"`
	Placeholder string       `json:"placeholder"`
	Required    bool         `json:"required"`
	Text        string       `json:"text"`
	Checked     bool         `json:"checked"`
	Files       []string     `json:"files"`
	Options     []optionData `json:"options"`
	Error       string       `json:"error"`
}

type optionData struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	DOMID    string `json:"dom_id"`
	Selected bool   `json:"selected"`
}

func (r *Renderer) formData(view engine.View, opts render.RenderOptions) formData {
	data := formData{
		ID:         view.FormID,
		Title:      sanitizeText(view.Title),
		Layout:     string(view.Layout),
		Preview:    view.Chrome == engine.ChromePreview,
		Grid:       view.Layout == model.LayoutTwoColumn,
		ThemeName:  r.themeName,
		ThemeCSS:   r.themeCSS,
		Stylesheet: r.stylesheet,
		Controls:   make([]controlData, 0, len(view.Controls)),
	}
	if data.Layout == "" {
		data.Layout = string(model.LayoutSingle)
	}

	for _, control := range view.Controls {
		domID := domID(control.FieldID)
		item := controlData{
			ID:          control.FieldID,
			DOMID:       domID,
			Kind:        string(control.Kind),
			InputType:   control.InputType,
			Label:       sanitizeText(control.Label),
			Placeholder: control.Placeholder,
			Required:    control.Required,
			Text:        control.Text(),
			Checked:     control.Checked(),
			Error:       opts.ErrorFor(control),
		}
		if item.InputType == "" {
			item.InputType = "text"
		}
		if control.Type == model.FieldTypePassword {
			item.Text = ""
		}
		for _, file := range control.Files() {
			item.Files = append(item.Files, file.Name)
		}
		for idx, option := range control.Options {
			item.Options = append(item.Options, optionData{
				Value:    option,
				Label:    sanitizeText(option),
				DOMID:    fmt.Sprintf("%s-%d", domID, idx),
				Selected: control.Selected(option),
			})
		}
		data.Controls = append(data.Controls, item)
	}
	return data
}

func domID(fieldID string) string {
	out := make([]rune, 0, len(fieldID)+3)
	out = append(out, 'f', 'b', '-')
	for _, r := range fieldID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}
