package engine

import (
	"log/slog"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/notify"
)

// Chrome selects how a rendered form is framed.
type Chrome string

const (
	// ChromePreview renders inside the builder's preview tab.
	ChromePreview Chrome = "preview"
	// ChromeStandalone renders a committed form on its own.
	ChromeStandalone Chrome = "standalone"
)

// SubmitFunc receives the coerced values of a valid submission. A returned
// error aborts the success notification and is passed back from Submit.
type SubmitFunc func(values map[string]any) error

// ValueStore is an external home for draft values. When set, every change is
// written through so the values outlive the engine.
type ValueStore interface {
	Values() map[string]any
	SetValue(id string, value any)
	ClearValues()
}

// Option configures an Engine.
type Option func(*Engine)

// WithValues seeds the initial values.
func WithValues(values map[string]any) Option {
	return func(e *Engine) {
		for key, value := range values {
			e.values[key] = value
		}
	}
}

// WithValueStore binds the engine to store: initial values are read from it
// and every change is written back.
func WithValueStore(store ValueStore) Option {
	return func(e *Engine) {
		if store == nil {
			return
		}
		e.store = store
		for key, value := range store.Values() {
			e.values[key] = value
		}
	}
}

// WithOnSubmit registers the submit callback.
func WithOnSubmit(fn SubmitFunc) Option {
	return func(e *Engine) {
		e.onSubmit = fn
	}
}

// WithNotifier sets the feedback collaborator.
func WithNotifier(notifier notify.Notifier) Option {
	return func(e *Engine) {
		if notifier != nil {
			e.notifier = notifier
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithChrome selects preview or standalone framing.
func WithChrome(chrome Chrome) Option {
	return func(e *Engine) {
		if chrome != "" {
			e.chrome = chrome
		}
	}
}

// WithLayout sets the layout reported by View.
func WithLayout(layout model.Layout) Option {
	return func(e *Engine) {
		if layout.Valid() {
			e.layout = layout
		}
	}
}

// WithFormID tags the view with the built form id.
func WithFormID(id string) Option {
	return func(e *Engine) {
		e.formID = id
	}
}

// WithTitle sets the title reported by View.
func WithTitle(title string) Option {
	return func(e *Engine) {
		e.title = title
	}
}
