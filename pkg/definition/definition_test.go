package definition_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

const contactYAML = `
version: "1.2"
title: Contact
layout: two-column
fields:
  - id: name
    type: text
    label: Full name
    validation:
      required: true
      minLength: 2
  - id: email
    type: email
    required: true
  - id: topic
    type: select
    options: ["Sales", "  ", "Support"]
`

const surveyJSON = `{
  "title": "Survey",
  "fields": [
    {"id": "age", "type": "number", "label": "Age", "required": false, "validation": {"required": true}}
  ]
}`

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/contact.yaml": {Data: []byte(contactYAML)},
		"forms/survey.json":  {Data: []byte(surveyJSON)},
		"forms/README.md":    {Data: []byte("ignored")},
	}

	store, err := definition.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("want 2 forms, got %d", store.Len())
	}

	contact, ok := store.Form("Contact")
	if !ok {
		t.Fatalf("contact form missing")
	}
	if contact.Layout != model.LayoutTwoColumn || contact.Version.String() != "1.2.0" {
		t.Fatalf("contact header = %+v", contact)
	}

	want := []model.FieldDescriptor{
		{
			ID: "name", Type: model.FieldTypeText, Label: "Full name", Placeholder: "Enter text input",
			Options:    []string{},
			Validation: model.ValidationRules{Required: true, MinLength: 2, MaxLength: 100},
		},
		{
			ID: "email", Type: model.FieldTypeEmail, Label: "Email Input", Placeholder: "Enter email input",
			Options:    []string{},
			Validation: model.ValidationRules{Required: true, Pattern: model.PatternEmail},
		},
		{
			ID: "topic", Type: model.FieldTypeSelect, Label: "Select Dropdown", Placeholder: "Enter select dropdown",
			Options: []string{"Sales", "Support"},
		},
	}
	if diff := cmp.Diff(want, contact.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	survey, _ := store.Form("Survey")
	if !survey.Fields[0].Required() {
		t.Fatalf("validation.required should win over top-level required")
	}
	if survey.Layout != model.LayoutSingle {
		t.Fatalf("default layout = %q", survey.Layout)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{name: "empty", data: "  ", want: definition.ErrInvalid},
		{name: "no title", data: `{"fields": []}`, want: definition.ErrInvalid},
		{name: "future version", data: `{"version": "2.0", "title": "x"}`, want: definition.ErrUnsupportedVersion},
		{name: "unknown type", data: `{"title": "x", "fields": [{"type": "slider"}]}`, want: model.ErrUnknownFieldType},
		{name: "bad layout", data: `{"title": "x", "layout": "three"}`, want: definition.ErrInvalid},
		{name: "duplicate ids", data: `{"title": "x", "fields": [{"id": "a", "type": "text"}, {"id": "a", "type": "date"}]}`, want: definition.ErrInvalid},
		{name: "bad pattern", data: `{"title": "x", "fields": [{"type": "text", "validation": {"pattern": "phone"}}]}`, want: definition.ErrInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := definition.Parse([]byte(tc.data), tc.name)
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseLenientKeepsUnknownTypes(t *testing.T) {
	form, err := definition.Parse([]byte(`{"title": "x", "fields": [{"id": "s", "type": "slider"}]}`), "inline", definition.WithLenientTypes())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if form.Fields[0].Type != "slider" {
		t.Fatalf("type = %q", form.Fields[0].Type)
	}
}

func TestParseGeneratesMissingIDs(t *testing.T) {
	form, err := definition.Parse([]byte("title: x\nfields:\n  - type: date\n  - type: date\n"), "inline")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if form.Fields[0].ID == "" || form.Fields[0].ID == form.Fields[1].ID {
		t.Fatalf("generated ids = %q, %q", form.Fields[0].ID, form.Fields[1].ID)
	}
}

func TestLoadFSDuplicateTitle(t *testing.T) {
	fsys := fstest.MapFS{
		"a.json": {Data: []byte(`{"title": "Same"}`)},
		"b.yml":  {Data: []byte("title: Same\n")},
	}
	if _, err := definition.LoadFS(fsys); !errors.Is(err, definition.ErrDuplicateTitle) {
		t.Fatalf("want ErrDuplicateTitle, got %v", err)
	}
}

func TestWithConstraint(t *testing.T) {
	_, err := definition.Parse([]byte(`{"version": "2.1", "title": "x"}`), "inline", definition.WithConstraint(">= 2.0"))
	if err != nil {
		t.Fatalf("parse with widened constraint: %v", err)
	}
}
