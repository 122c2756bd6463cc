// Package render defines the output seam between a form session and the
// concrete renderers (HTML, terminal, table) plus a name-keyed registry.
package render

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/engine"
)

// Renderer converts a form view into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view engine.View, options RenderOptions) ([]byte, error)
}
