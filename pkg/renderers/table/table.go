// Package table summarises forms as plain text grids.
package table

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bndr/gotabulate"

	"github.com/goliatone/go-formbuilder/pkg/engine"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

const (
	defaultFormat   = "grid"
	defaultCellSize = 60
	emptyMarker     = "(no fields)"
)

// Option configures the renderer.
type Option func(*Renderer)

// WithFormat selects a gotabulate format ("grid", "simple", "plain").
func WithFormat(format string) Option {
	return func(r *Renderer) {
		if format != "" {
			r.format = format
		}
	}
}

// WithMaxCellSize caps cell width before wrapping.
func WithMaxCellSize(size int) Option {
	return func(r *Renderer) {
		if size > 0 {
			r.maxCell = size
		}
	}
}

// Renderer prints one row per control.
type Renderer struct {
	format  string
	maxCell int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{format: defaultFormat, maxCell: defaultCellSize}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string        { return "table" }
func (r *Renderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render lists every control with its type, required flag, value and the
// visible error.
func (r *Renderer) Render(ctx context.Context, view engine.View, opts render.RenderOptions) ([]byte, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	rows := make([][]any, 0, len(view.Controls))
	for idx, control := range view.Controls {
		value := control.Text()
		if control.Type == model.FieldTypePassword && value != "" {
			value = "********"
		}
		rows = append(rows, []any{
			strconv.Itoa(idx + 1),
			control.Label,
			string(control.Type),
			yesNo(control.Required),
			value,
			opts.ErrorFor(control),
		})
	}

	body := r.tabulate([]string{"#", "label", "type", "required", "value", "error"}, rows)
	if view.Title != "" {
		body = fmt.Sprintf("%s:\n%s", view.Title, body)
	}
	if len(view.Dropped) > 0 {
		body += fmt.Sprintf("%d field(s) skipped with unknown types\n", len(view.Dropped))
	}
	return []byte(body), nil
}

// Forms lists built forms, one row each.
func (r *Renderer) Forms(forms []model.BuiltForm) string {
	rows := make([][]any, 0, len(forms))
	for _, form := range forms {
		rows = append(rows, []any{
			form.Title,
			form.ID,
			strconv.Itoa(len(form.Components)),
			string(form.Layout),
			form.CreatedAt.Format(time.RFC3339),
		})
	}
	return r.tabulate([]string{"title", "id", "fields", "layout", "created"}, rows)
}

func (r *Renderer) tabulate(headers []string, rows [][]any) string {
	if len(rows) == 0 {
		return emptyMarker + "\n"
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(r.maxCell)
	return t.Render(r.format)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
