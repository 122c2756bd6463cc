package schema_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

func field(t *testing.T, ft model.FieldType, id, label string) model.FieldDescriptor {
	t.Helper()
	f, err := model.NewFieldWithID(ft, id)
	if err != nil {
		t.Fatalf("new field: %v", err)
	}
	f.Label = label
	return f
}

func TestCompileKeysMatchFieldIDs(t *testing.T) {
	var fields []model.FieldDescriptor
	for idx, ft := range model.FieldTypes() {
		fields = append(fields, field(t, ft, fmt.Sprintf("f%d", idx), string(ft)))
	}

	compiled := schema.Compile(fields)
	if len(compiled) != len(fields) {
		t.Fatalf("expected %d entries, got %d", len(fields), len(compiled))
	}
	for _, f := range fields {
		set, ok := compiled[f.ID]
		if !ok {
			t.Fatalf("missing schema entry for %s", f.ID)
		}
		if set.FieldID != f.ID {
			t.Fatalf("entry keyed %s carries id %s", f.ID, set.FieldID)
		}
	}
}

func TestCompileIsOrderIndependent(t *testing.T) {
	a := field(t, model.FieldTypeText, "a", "Name")
	b := field(t, model.FieldTypeEmail, "b", "Email")

	forward := schema.Compile([]model.FieldDescriptor{a, b})
	reverse := schema.Compile([]model.FieldDescriptor{b, a})
	if diff := cmp.Diff(forward, reverse); diff != "" {
		t.Fatalf("schema depends on order (-forward +reverse):\n%s", diff)
	}
}

func TestCompileRules(t *testing.T) {
	name := field(t, model.FieldTypeText, "name", "Name")
	name.SetRequired(true)
	name.Validation.MinLength = 2
	name.Validation.MaxLength = 10

	email := field(t, model.FieldTypeEmail, "email", "Email")

	age := field(t, model.FieldTypeNumber, "age", "Age")
	age.SetRequired(true)

	compiled := schema.Compile([]model.FieldDescriptor{name, email, age})

	want := schema.RuleSet{
		FieldID: "name",
		Label:   "Name",
		Type:    model.FieldTypeText,
		Base:    schema.BaseText,
		Rules: []schema.Rule{
			{Kind: schema.RuleRequired, Message: "Name is required"},
			{Kind: schema.RuleMinLength, Limit: 2, Message: "Name must be at least 2 characters"},
			{Kind: schema.RuleMaxLength, Limit: 10, Message: "Name must be at most 10 characters"},
		},
	}
	if diff := cmp.Diff(want, compiled["name"]); diff != "" {
		t.Fatalf("name rules mismatch (-want +got):\n%s", diff)
	}

	if !compiled["email"].Has(schema.RuleEmail) {
		t.Fatalf("expected email rule")
	}
	if compiled["age"].Base != schema.BaseNumber || !compiled["age"].Has(schema.RuleNumber) || !compiled["age"].Required() {
		t.Fatalf("unexpected number rules: %+v", compiled["age"])
	}
}

// A zero minimum length compiles to no rule at all, matching the falsy check
// of the builder this library replaces.
func TestCompileZeroMinLengthIsNoRule(t *testing.T) {
	text := field(t, model.FieldTypeText, "t", "Title")
	text.Validation.MinLength = 0

	set := schema.Compile([]model.FieldDescriptor{text})["t"]
	if set.Has(schema.RuleMinLength) {
		t.Fatalf("expected zero minLength to be dropped, got %+v", set.Rules)
	}
	if !set.Has(schema.RuleMaxLength) {
		t.Fatalf("expected default maxLength rule")
	}
}

func TestCompileSkipsUnknownTypes(t *testing.T) {
	name := field(t, model.FieldTypeText, "name", "Name")
	legacy := model.FieldDescriptor{ID: "legacy", Type: "slider", Label: "Legacy"}

	compiled := schema.Compile([]model.FieldDescriptor{name, legacy})
	if diff := cmp.Diff([]string{"name"}, compiled.IDs()); diff != "" {
		t.Fatalf("schema keys mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileNumberIgnoresTextRules(t *testing.T) {
	age := field(t, model.FieldTypeNumber, "age", "Age")
	age.SetRequired(true)
	age.Validation.MinLength = 3
	age.Validation.MaxLength = 4
	age.Validation.Pattern = model.PatternEmail

	set := schema.Compile([]model.FieldDescriptor{age})["age"]
	var kinds []string
	for _, rule := range set.Rules {
		kinds = append(kinds, rule.Kind)
	}
	if diff := cmp.Diff([]string{schema.RuleNumber, schema.RuleRequired}, kinds); diff != "" {
		t.Fatalf("rule kinds mismatch (-want +got):\n%s", diff)
	}
	if msg, ok := set.Check("123456"); !ok {
		t.Fatalf("expected long number to pass, got %q", msg)
	}
}

func TestCheck(t *testing.T) {
	name := field(t, model.FieldTypeText, "name", "Name")
	name.SetRequired(true)
	name.Validation.MinLength = 3

	email := field(t, model.FieldTypeEmail, "email", "Email")
	age := field(t, model.FieldTypeNumber, "age", "Age")
	color := field(t, model.FieldTypeSelect, "color", "Color")
	color.Options = []string{"A", "B", "C"}
	terms := field(t, model.FieldTypeCheckbox, "terms", "Terms")
	terms.SetRequired(true)

	compiled := schema.Compile([]model.FieldDescriptor{name, email, age, color, terms})

	cases := []struct {
		name    string
		id      string
		value   any
		wantMsg string
	}{
		{name: "required empty", id: "name", value: "", wantMsg: "Name is required"},
		{name: "required whitespace", id: "name", value: "   ", wantMsg: "Name is required"},
		{name: "required missing", id: "name", value: nil, wantMsg: "Name is required"},
		{name: "too short", id: "name", value: "Al", wantMsg: "Name must be at least 3 characters"},
		{name: "valid name", id: "name", value: "Alice"},
		{name: "optional email empty", id: "email", value: ""},
		{name: "bad email", id: "email", value: "alice@", wantMsg: "Email must be a valid email"},
		{name: "good email", id: "email", value: "alice@example.com"},
		{name: "not a number", id: "age", value: "abc", wantMsg: "Age must be a number"},
		{name: "infinity word", id: "age", value: "inf", wantMsg: "Age must be a number"},
		{name: "signed infinity", id: "age", value: "+Inf", wantMsg: "Age must be a number"},
		{name: "nan word", id: "age", value: "NaN", wantMsg: "Age must be a number"},
		{name: "hex float", id: "age", value: "0x1p4", wantMsg: "Age must be a number"},
		{name: "underscore digits", id: "age", value: "1_000", wantMsg: "Age must be a number"},
		{name: "overflow", id: "age", value: "1e400", wantMsg: "Age must be a number"},
		{name: "exponent", id: "age", value: "1e3"},
		{name: "leading dot", id: "age", value: "-.5"},
		{name: "number string", id: "age", value: "42"},
		{name: "number value", id: "age", value: 42.5},
		{name: "option outside list", id: "color", value: "Z", wantMsg: "Color must be one of the available options"},
		{name: "option inside list", id: "color", value: "B"},
		{name: "unchecked required checkbox", id: "terms", value: false, wantMsg: "Terms is required"},
		{name: "checked checkbox", id: "terms", value: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, ok := compiled[tc.id].Check(tc.value)
			if tc.wantMsg == "" {
				if !ok {
					t.Fatalf("expected value to pass, got %q", msg)
				}
				return
			}
			if ok || msg != tc.wantMsg {
				t.Fatalf("want %q, got %q (ok=%v)", tc.wantMsg, msg, ok)
			}
		})
	}
}

func TestCoerceNumber(t *testing.T) {
	age := field(t, model.FieldTypeNumber, "age", "Age")
	set := schema.Compile([]model.FieldDescriptor{age})["age"]

	if got := set.Coerce("42"); got != float64(42) {
		t.Fatalf("expected 42.0, got %#v", got)
	}
	if got := set.Coerce("inf"); got != "inf" {
		t.Fatalf("expected infinity word unchanged, got %#v", got)
	}
	if got := set.Coerce("abc"); got != "abc" {
		t.Fatalf("expected invalid input unchanged, got %#v", got)
	}
	if got := set.Coerce(""); got != "" {
		t.Fatalf("expected empty input unchanged, got %#v", got)
	}
}

func TestSchemaValidate(t *testing.T) {
	name := field(t, model.FieldTypeText, "name", "Name")
	name.SetRequired(true)
	notes := field(t, model.FieldTypeTextarea, "notes", "Notes")

	compiled := schema.Compile([]model.FieldDescriptor{name, notes})
	got := compiled.Validate(map[string]any{"notes": "ok"})

	want := map[string]string{"name": "Name is required"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name", "notes"}, compiled.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}
