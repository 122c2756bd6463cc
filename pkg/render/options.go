package render

import "github.com/goliatone/go-formbuilder/pkg/engine"

// RenderOptions carry per-call data that renderers may use without changing
// the view.
type RenderOptions struct {
	// Session is the live engine behind the view. Interactive renderers
	// drive it; static renderers ignore it.
	Session *engine.Engine
	// Errors overrides the per-field messages carried by the view, keyed by
	// field id. Useful when a host wants to show errors for untouched fields.
	Errors map[string]string
}

// ErrorFor returns the override for id, falling back to the control's own
// message.
func (o RenderOptions) ErrorFor(control engine.Control) string {
	if message, ok := o.Errors[control.FieldID]; ok {
		return message
	}
	return control.Error
}
