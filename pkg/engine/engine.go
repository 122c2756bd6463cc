// Package engine turns field descriptors into a live, validating form session.
// An Engine holds the current values and touched state, evaluates the compiled
// schema on demand, and exposes a View that renderers draw from. Engines are
// single-owner and not safe for concurrent use.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/notify"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

const (
	// DateLayout is the storage format for date values.
	DateLayout = "2006-01-02"

	// SubmitSuccessMessage is sent to the notifier after a valid submit.
	SubmitSuccessMessage = "Form submitted successfully!"
)

// Engine is a form session over a fixed descriptor list.
type Engine struct {
	fields   []model.FieldDescriptor
	index    map[string]int
	dropped  []UnknownFieldTypeError
	schema   schema.Schema
	values   map[string]any
	touched  map[string]bool
	store    ValueStore
	onSubmit SubmitFunc
	notifier notify.Notifier
	logger   *slog.Logger
	chrome   Chrome
	layout   model.Layout
	formID   string
	title    string
}

// New builds an engine for fields. Descriptors with an unknown type are kept
// out of the session and reported through View().Dropped.
func New(fields []model.FieldDescriptor, options ...Option) *Engine {
	e := &Engine{
		index:    make(map[string]int),
		values:   make(map[string]any),
		touched:  make(map[string]bool),
		notifier: notify.Discard,
		logger:   logging.Discard(),
		chrome:   ChromeStandalone,
		layout:   model.LayoutSingle,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}

	for _, field := range fields {
		if !field.Type.Valid() {
			e.dropped = append(e.dropped, UnknownFieldTypeError{FieldID: field.ID, Type: field.Type})
			e.logger.Warn("engine: dropping field with unknown type",
				slog.String("field", field.ID),
				slog.String("type", string(field.Type)),
			)
			continue
		}
		e.index[field.ID] = len(e.fields)
		e.fields = append(e.fields, field.Clone())
	}
	e.schema = schema.Compile(e.fields)

	return e
}

// Fields returns the accepted descriptors in order.
func (e *Engine) Fields() []model.FieldDescriptor {
	return model.CloneFields(e.fields)
}

// Schema returns the compiled schema for the accepted fields.
func (e *Engine) Schema() schema.Schema {
	return e.schema
}

// Change records a new value for id.
func (e *Engine) Change(id string, value any) error {
	if _, ok := e.index[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	e.set(id, value)
	return nil
}

// SetDate stores the calendar date of t.
func (e *Engine) SetDate(id string, t time.Time) error {
	return e.Change(id, t.Format(DateLayout))
}

// SelectFiles replaces the file selection for id. Every entry is marked as
// selected; missing uids are filled in.
func (e *Engine) SelectFiles(id string, files []model.FileMeta) error {
	selected := make([]model.FileMeta, 0, len(files))
	for _, file := range files {
		if file.UID == "" {
			file.UID = uuid.NewString()
		}
		file.Status = model.FileStatusSelected
		selected = append(selected, file)
	}
	return e.Change(id, selected)
}

// BeforeUpload intercepts upload attempts. Files are held in memory only, so
// it always reports false.
func (e *Engine) BeforeUpload(model.FileMeta) bool {
	return false
}

// Blur marks id as touched.
func (e *Engine) Blur(id string) error {
	if _, ok := e.index[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	e.touched[id] = true
	return nil
}

// Touched reports whether id has been blurred or submitted.
func (e *Engine) Touched(id string) bool {
	return e.touched[id]
}

// Value returns the current value for id.
func (e *Engine) Value(id string) (any, bool) {
	value, ok := e.values[id]
	return value, ok
}

// Values returns a shallow copy of the current raw values.
func (e *Engine) Values() map[string]any {
	out := make(map[string]any, len(e.values))
	for key, value := range e.values {
		out[key] = value
	}
	return out
}

// Validate evaluates every field regardless of touched state.
func (e *Engine) Validate() map[string]string {
	return e.schema.Validate(e.values)
}

// Errors returns messages for fields that are both touched and invalid.
func (e *Engine) Errors() map[string]string {
	out := make(map[string]string)
	for id, message := range e.Validate() {
		if e.touched[id] {
			out[id] = message
		}
	}
	return out
}

// Error returns the visible error for a single field.
func (e *Engine) Error(id string) string {
	if !e.touched[id] {
		return ""
	}
	message, _ := e.schema[id].Check(e.values[id])
	return message
}

// Submit marks every field touched and validates. An invalid form yields a
// *ValidationError and the submit callback is not called. A valid form
// returns the coerced values, with absent fields omitted.
func (e *Engine) Submit() (map[string]any, error) {
	for _, field := range e.fields {
		e.touched[field.ID] = true
	}

	if errs := e.Validate(); len(errs) > 0 {
		verr := &ValidationError{}
		for _, field := range e.fields {
			if message, ok := errs[field.ID]; ok {
				verr.Fields = append(verr.Fields, FieldError{
					FieldID: field.ID,
					Label:   field.Label,
					Message: message,
				})
			}
		}
		return nil, verr
	}

	values := make(map[string]any, len(e.values))
	for _, field := range e.fields {
		value, ok := e.values[field.ID]
		if !ok {
			continue
		}
		values[field.ID] = e.schema[field.ID].Coerce(value)
	}

	if e.onSubmit != nil {
		if err := e.onSubmit(values); err != nil {
			return nil, fmt.Errorf("engine: submit callback: %w", err)
		}
	}
	e.notifier.Notify(notify.KindSuccess, SubmitSuccessMessage)
	return values, nil
}

// Clear empties values and touched state.
func (e *Engine) Clear() {
	e.values = make(map[string]any)
	e.touched = make(map[string]bool)
	if e.store != nil {
		e.store.ClearValues()
	}
}

func (e *Engine) set(id string, value any) {
	e.values[id] = value
	if e.store != nil {
		e.store.SetValue(id, value)
	}
}
