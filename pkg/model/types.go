package model

import (
	"errors"
	"time"
)

// FieldType is the closed enumeration of palette field kinds.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeNumber   FieldType = "number"
	FieldTypeEmail    FieldType = "email"
	FieldTypePassword FieldType = "password"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeDate     FieldType = "date"
	FieldTypeFile     FieldType = "file"
)

// ErrUnknownFieldType is returned when a descriptor or factory call references
// a type outside the FieldType enumeration.
var ErrUnknownFieldType = errors.New("model: unknown field type")

// FieldTypes lists every supported type in palette order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeTextarea,
		FieldTypeNumber,
		FieldTypeEmail,
		FieldTypePassword,
		FieldTypeSelect,
		FieldTypeCheckbox,
		FieldTypeRadio,
		FieldTypeDate,
		FieldTypeFile,
	}
}

// Valid reports whether t belongs to the enumeration.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeNumber, FieldTypeEmail,
		FieldTypePassword, FieldTypeSelect, FieldTypeCheckbox, FieldTypeRadio,
		FieldTypeDate, FieldTypeFile:
		return true
	default:
		return false
	}
}

// TextLike reports whether length rules are meaningful for the type.
func (t FieldType) TextLike() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeEmail, FieldTypePassword:
		return true
	default:
		return false
	}
}

// HasOptions reports whether the type renders a fixed option list.
func (t FieldType) HasOptions() bool {
	return t == FieldTypeSelect || t == FieldTypeRadio
}

// Pattern enumerates the supported format patterns.
type Pattern string

const (
	PatternNone  Pattern = ""
	PatternEmail Pattern = "email"
)

// Layout controls how a built form arranges its fields.
type Layout string

const (
	LayoutSingle    Layout = "single"
	LayoutTwoColumn Layout = "two-column"
)

// Valid reports whether l is a known layout.
func (l Layout) Valid() bool {
	return l == LayoutSingle || l == LayoutTwoColumn
}

// ValidationRules is the rule set attached to a field. A zero MinLength or
// MaxLength means the rule is not applied.
type ValidationRules struct {
	Required  bool    `json:"required"`
	MinLength int     `json:"minLength,omitempty"`
	MaxLength int     `json:"maxLength,omitempty"`
	Pattern   Pattern `json:"pattern,omitempty"`
}

// FieldDescriptor describes one form field.
type FieldDescriptor struct {
	ID          string          `json:"id"`
	Type        FieldType       `json:"type"`
	Label       string          `json:"label"`
	Placeholder string          `json:"placeholder,omitempty"`
	Options     []string        `json:"options,omitempty"`
	Validation  ValidationRules `json:"validation"`
}

// Required reports the field's required flag.
func (f FieldDescriptor) Required() bool {
	return f.Validation.Required
}

// SetRequired updates the required flag.
func (f *FieldDescriptor) SetRequired(required bool) {
	f.Validation.Required = required
}

// Clone returns a deep copy of the descriptor.
func (f FieldDescriptor) Clone() FieldDescriptor {
	out := f
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	return out
}

// CloneFields deep-copies a descriptor slice. A nil input yields nil.
func CloneFields(fields []FieldDescriptor) []FieldDescriptor {
	if fields == nil {
		return nil
	}
	out := make([]FieldDescriptor, len(fields))
	for idx, field := range fields {
		out[idx] = field.Clone()
	}
	return out
}

// FileStatusSelected marks files held in memory awaiting submission.
const FileStatusSelected = "selected"

// FileMeta carries metadata for a selected file. Files are never uploaded; the
// engine keeps the metadata list as the field value.
type FileMeta struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"type,omitempty"`
	Status      string `json:"status"`
}

// BuiltForm is an immutable committed form.
type BuiltForm struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Components []FieldDescriptor `json:"components"`
	Layout     Layout            `json:"layout"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// Clone deep-copies the form so callers cannot mutate stored snapshots.
func (f BuiltForm) Clone() BuiltForm {
	out := f
	out.Components = CloneFields(f.Components)
	return out
}
