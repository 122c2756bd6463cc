// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// FixedTime is the timestamp used by fixture clocks.
var FixedTime = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

// FixedClock returns a clock that always reports FixedTime.
func FixedClock() func() time.Time {
	return func() time.Time { return FixedTime }
}

// Field builds a palette descriptor with a stable id, overriding the label and
// required flag.
func Field(t *testing.T, fieldType model.FieldType, id, label string, required bool) model.FieldDescriptor {
	t.Helper()

	field, err := model.NewFieldWithID(fieldType, id)
	if err != nil {
		t.Fatalf("new %s field: %v", fieldType, err)
	}
	field.Label = label
	field.SetRequired(required)
	return field
}

// ContactForm returns a committed form covering the common field kinds:
// a required name, an email, an optional age and a country select.
func ContactForm(t *testing.T) model.BuiltForm {
	t.Helper()

	country := Field(t, model.FieldTypeSelect, "country", "Country", false)
	country.Options = []string{"Norway", "Chile", "Japan"}

	return model.BuiltForm{
		ID:    "form_contact",
		Title: "Contact",
		Components: []model.FieldDescriptor{
			Field(t, model.FieldTypeText, "name", "Name", true),
			Field(t, model.FieldTypeEmail, "email", "Email", true),
			Field(t, model.FieldTypeNumber, "age", "Age", false),
			country,
		},
		Layout:    model.LayoutSingle,
		CreatedAt: FixedTime,
	}
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
