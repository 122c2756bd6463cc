package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PaletteEntry describes a field type offered by the builder palette.
type PaletteEntry struct {
	Type        FieldType `json:"type"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
}

var palette = []PaletteEntry{
	{Type: FieldTypeText, Label: "Text Input", Description: "Single line text input"},
	{Type: FieldTypeTextarea, Label: "Text Area", Description: "Multi-line text input"},
	{Type: FieldTypeNumber, Label: "Number Input", Description: "Numeric input field"},
	{Type: FieldTypeEmail, Label: "Email Input", Description: "Email address input"},
	{Type: FieldTypePassword, Label: "Password Input", Description: "Password field"},
	{Type: FieldTypeSelect, Label: "Select Dropdown", Description: "Dropdown selection"},
	{Type: FieldTypeCheckbox, Label: "Checkbox", Description: "Checkbox input"},
	{Type: FieldTypeRadio, Label: "Radio Button", Description: "Radio button group"},
	{Type: FieldTypeDate, Label: "Date Picker", Description: "Date selection"},
	{Type: FieldTypeFile, Label: "File Upload", Description: "File upload field"},
}

const (
	defaultMaxLength = 100
	fieldIDPrefix    = "field_"
	formIDPrefix     = "form_"
)

// Palette returns the palette entries in display order.
func Palette() []PaletteEntry {
	return append([]PaletteEntry(nil), palette...)
}

// PaletteEntryFor looks up the palette entry for a type.
func PaletteEntryFor(t FieldType) (PaletteEntry, bool) {
	for _, entry := range palette {
		if entry.Type == t {
			return entry, true
		}
	}
	return PaletteEntry{}, false
}

// NewFieldID returns a fresh opaque field identifier.
func NewFieldID() string {
	return fieldIDPrefix + uuid.NewString()
}

// NewFormID returns a fresh opaque built form identifier.
func NewFormID() string {
	return formIDPrefix + uuid.NewString()
}

// NewField creates a descriptor with palette defaults and a fresh id.
func NewField(t FieldType) (FieldDescriptor, error) {
	return NewFieldWithID(t, NewFieldID())
}

// NewFieldWithID creates a descriptor with palette defaults using the supplied
// id. Select and radio fields start with three placeholder options; text and
// textarea fields carry a 0..100 length range; email fields carry the email
// pattern. Every field starts optional.
func NewFieldWithID(t FieldType, id string) (FieldDescriptor, error) {
	entry, ok := PaletteEntryFor(t)
	if !ok {
		return FieldDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownFieldType, t)
	}

	field := FieldDescriptor{
		ID:          id,
		Type:        t,
		Label:       entry.Label,
		Placeholder: "Enter " + strings.ToLower(entry.Label),
		Options:     []string{},
	}

	if t.HasOptions() {
		field.Options = []string{"Option 1", "Option 2", "Option 3"}
	}

	switch t {
	case FieldTypeText, FieldTypeTextarea:
		field.Validation.MinLength = 0
		field.Validation.MaxLength = defaultMaxLength
	case FieldTypeEmail:
		field.Validation.Pattern = PatternEmail
	}

	return field, nil
}
