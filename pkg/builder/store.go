// Package builder holds the mutable working copy of a form under
// construction: the ordered field descriptors, the draft values entered in the
// preview, the layout, and a lazily recompiled draft schema. A Store is owned
// by a single builder session and is not safe for concurrent use.
package builder

import (
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

var (
	// ErrIndexOutOfRange is returned by ReorderComponents for indices outside
	// the current field sequence.
	ErrIndexOutOfRange = errors.New("builder: index out of range")
	// ErrInvalidLayout is returned by SetLayout for unknown layouts.
	ErrInvalidLayout = errors.New("builder: invalid layout")
)

// Candidate is the snapshot returned by BuildForm. It has no id or title yet;
// the orchestrator completes the commit.
type Candidate struct {
	Components       []model.FieldDescriptor
	Layout           model.Layout
	ValidationSchema schema.Schema
	CreatedAt        time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for candidate timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLayout sets the initial layout.
func WithLayout(layout model.Layout) Option {
	return func(s *Store) {
		if layout.Valid() {
			s.layout = layout
		}
	}
}

// Store is the builder state.
type Store struct {
	fields   []model.FieldDescriptor
	values   map[string]any
	layout   model.Layout
	draft    schema.Schema
	dirty    bool
	selected string
	now      func() time.Time
}

// New constructs an empty store.
func New(options ...Option) *Store {
	s := &Store{
		values: make(map[string]any),
		layout: model.LayoutSingle,
		now:    time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// AddComponent appends a descriptor and returns its id.
func (s *Store) AddComponent(field model.FieldDescriptor) string {
	s.fields = append(s.fields, field.Clone())
	s.dirty = true
	return field.ID
}

// UpdateComponent merges patch into the descriptor with the given id. It
// reports false when no such descriptor exists.
func (s *Store) UpdateComponent(id string, patch Patch) bool {
	idx := s.IndexOf(id)
	if idx < 0 {
		return false
	}
	patch.apply(&s.fields[idx])
	s.dirty = true
	return true
}

// RemoveComponent drops the descriptor and its draft value. It reports false
// when no such descriptor exists.
func (s *Store) RemoveComponent(id string) bool {
	idx := s.IndexOf(id)
	if idx < 0 {
		return false
	}
	s.fields = append(s.fields[:idx], s.fields[idx+1:]...)
	delete(s.values, id)
	if s.selected == id {
		s.selected = ""
	}
	s.dirty = true
	return true
}

// ReorderComponents moves the descriptor at from to position to.
func (s *Store) ReorderComponents(from, to int) error {
	n := len(s.fields)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d -> %d with %d fields", ErrIndexOutOfRange, from, to, n)
	}
	if from == to {
		return nil
	}
	moved := s.fields[from]
	s.fields = append(s.fields[:from], s.fields[from+1:]...)
	s.fields = append(s.fields[:to], append([]model.FieldDescriptor{moved}, s.fields[to:]...)...)
	return nil
}

// ResetForm clears fields, values, selection and the draft schema. The
// layout is kept.
func (s *Store) ResetForm() {
	s.fields = nil
	s.values = make(map[string]any)
	s.draft = nil
	s.dirty = false
	s.selected = ""
}

// BuildForm snapshots the current state. It reports false when the form has
// no fields.
func (s *Store) BuildForm() (Candidate, bool) {
	if len(s.fields) == 0 {
		return Candidate{}, false
	}
	return Candidate{
		Components:       model.CloneFields(s.fields),
		Layout:           s.layout,
		ValidationSchema: s.Schema(),
		CreatedAt:        s.now().UTC(),
	}, true
}

// Fields returns a copy of the ordered descriptors.
func (s *Store) Fields() []model.FieldDescriptor {
	return model.CloneFields(s.fields)
}

// Field returns the descriptor with the given id.
func (s *Store) Field(id string) (model.FieldDescriptor, bool) {
	idx := s.IndexOf(id)
	if idx < 0 {
		return model.FieldDescriptor{}, false
	}
	return s.fields[idx].Clone(), true
}

// IndexOf returns the position of id, or -1.
func (s *Store) IndexOf(id string) int {
	for idx, field := range s.fields {
		if field.ID == id {
			return idx
		}
	}
	return -1
}

// Len reports the number of fields.
func (s *Store) Len() int {
	return len(s.fields)
}

// Empty reports whether the store has no fields.
func (s *Store) Empty() bool {
	return len(s.fields) == 0
}

// SetValue records a draft value for a field.
func (s *Store) SetValue(id string, value any) {
	s.values[id] = value
}

// Values returns a shallow copy of the draft values.
func (s *Store) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for key, value := range s.values {
		out[key] = value
	}
	return out
}

// ReplaceValues swaps the draft values wholesale, dropping ids that no longer
// belong to the form.
func (s *Store) ReplaceValues(values map[string]any) {
	next := make(map[string]any, len(values))
	for key, value := range values {
		if s.IndexOf(key) < 0 {
			continue
		}
		next[key] = value
	}
	s.values = next
}

// ClearValues drops every draft value.
func (s *Store) ClearValues() {
	s.values = make(map[string]any)
}

// Layout reports the current layout.
func (s *Store) Layout() model.Layout {
	return s.layout
}

// SetLayout switches the layout.
func (s *Store) SetLayout(layout model.Layout) error {
	if !layout.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLayout, layout)
	}
	s.layout = layout
	return nil
}

// Schema returns the draft schema, recompiling it when fields changed.
func (s *Store) Schema() schema.Schema {
	if s.draft == nil || s.dirty {
		s.draft = schema.Compile(s.fields)
		s.dirty = false
	}
	return s.draft
}

// Select marks a field as the active one in the builder. Unknown ids clear
// the selection.
func (s *Store) Select(id string) {
	if s.IndexOf(id) < 0 {
		s.selected = ""
		return
	}
	s.selected = id
}

// Selected returns the selected field id, if any.
func (s *Store) Selected() (string, bool) {
	return s.selected, s.selected != ""
}
