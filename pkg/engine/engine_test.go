package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/engine"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/notify"
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

// A required email field rejects missing and malformed input.
func TestRequiredEmailField(t *testing.T) {
	email := field(t, model.FieldTypeEmail, "email", "Email")
	email.SetRequired(true)

	var submitted map[string]any
	rec := &notify.Recorder{}
	eng := engine.New([]model.FieldDescriptor{email},
		engine.WithNotifier(rec),
		engine.WithOnSubmit(func(values map[string]any) error {
			submitted = values
			return nil
		}),
	)

	_, err := eng.Submit()
	var verr *engine.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	want := []engine.FieldError{{FieldID: "email", Label: "Email", Message: "Email is required"}}
	if diff := cmp.Diff(want, verr.Fields); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("ValidationError does not match ErrValidation")
	}

	if err := eng.Change("email", "not-an-email"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if got := eng.Errors()["email"]; got != "Email must be a valid email" {
		t.Fatalf("error = %q", got)
	}

	if err := eng.Change("email", "ada@example.com"); err != nil {
		t.Fatalf("change: %v", err)
	}
	values, err := eng.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"email": "ada@example.com"}, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(values, submitted); diff != "" {
		t.Fatalf("callback values mismatch (-want +got):\n%s", diff)
	}
	if last, _ := rec.Last(); last.Text != engine.SubmitSuccessMessage || last.Kind != notify.KindSuccess {
		t.Fatalf("last notification = %+v", last)
	}
}

// Number fields coerce on submit and reject text.
func TestNumberFieldCoercion(t *testing.T) {
	age := field(t, model.FieldTypeNumber, "age", "Age")
	age.SetRequired(true)
	eng := engine.New([]model.FieldDescriptor{age})

	_ = eng.Change("age", "abc")
	_ = eng.Blur("age")
	if got := eng.Errors()["age"]; got != "Age must be a number" {
		t.Fatalf("error = %q", got)
	}

	_ = eng.Change("age", "inf")
	var verr *engine.ValidationError
	if _, err := eng.Submit(); !errors.As(err, &verr) {
		t.Fatalf("expected infinity to be rejected, got %v", err)
	}

	_ = eng.Change("age", "42")
	values, err := eng.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"age": 42.0}, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

// An optional text field left empty submits cleanly even with a
// length range configured.
func TestOptionalEmptyFieldSubmits(t *testing.T) {
	notes := field(t, model.FieldTypeTextarea, "notes", "Notes")
	notes.Validation.MinLength = 5
	eng := engine.New([]model.FieldDescriptor{notes})

	values, err := eng.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("values = %v, want empty", values)
	}

	_ = eng.Change("notes", "abc")
	if _, err := eng.Submit(); err == nil {
		t.Fatalf("short value submitted without error")
	}
}

func TestErrorsAreGatedOnTouched(t *testing.T) {
	name := field(t, model.FieldTypeText, "name", "Name")
	name.SetRequired(true)
	eng := engine.New([]model.FieldDescriptor{name})

	if len(eng.Errors()) != 0 {
		t.Fatalf("untouched field reported errors: %v", eng.Errors())
	}
	if diff := cmp.Diff(map[string]string{"name": "Name is required"}, eng.Validate()); diff != "" {
		t.Fatalf("validate mismatch (-want +got):\n%s", diff)
	}

	_ = eng.Blur("name")
	if !eng.Touched("name") {
		t.Fatalf("Touched(name) = false after blur")
	}
	if diff := cmp.Diff(map[string]string{"name": "Name is required"}, eng.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	control, _ := eng.View().Control("name")
	if control.Error != "Name is required" {
		t.Fatalf("view error = %q", control.Error)
	}
}

func TestSubmitCallbackErrorSkipsNotification(t *testing.T) {
	rec := &notify.Recorder{}
	boom := errors.New("boom")
	eng := engine.New([]model.FieldDescriptor{field(t, model.FieldTypeText, "a", "A")},
		engine.WithNotifier(rec),
		engine.WithOnSubmit(func(map[string]any) error { return boom }),
	)
	if _, err := eng.Submit(); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if len(rec.Messages) != 0 {
		t.Fatalf("notifications = %v, want none", rec.Messages)
	}
}

func TestChangeUnknownField(t *testing.T) {
	eng := engine.New(nil)
	if err := eng.Change("ghost", "x"); !errors.Is(err, engine.ErrUnknownField) {
		t.Fatalf("want ErrUnknownField, got %v", err)
	}
	if err := eng.Blur("ghost"); !errors.Is(err, engine.ErrUnknownField) {
		t.Fatalf("want ErrUnknownField, got %v", err)
	}
}

func TestDateAndFiles(t *testing.T) {
	eng := engine.New([]model.FieldDescriptor{
		field(t, model.FieldTypeDate, "born", "Born"),
		field(t, model.FieldTypeFile, "cv", "CV"),
	})

	if err := eng.SetDate("born", time.Date(1990, 3, 4, 15, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("set date: %v", err)
	}
	if got, _ := eng.Value("born"); got != "1990-03-04" {
		t.Fatalf("date value = %v", got)
	}

	_ = eng.SelectFiles("cv", []model.FileMeta{{UID: "1", Name: "old.pdf"}})
	_ = eng.SelectFiles("cv", []model.FileMeta{{UID: "2", Name: "new.pdf", Size: 10}})
	control, _ := eng.View().Control("cv")
	want := []model.FileMeta{{UID: "2", Name: "new.pdf", Size: 10, Status: model.FileStatusSelected}}
	if diff := cmp.Diff(want, control.Files()); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	if eng.BeforeUpload(want[0]) {
		t.Fatalf("BeforeUpload = true")
	}
}

func TestClear(t *testing.T) {
	eng := engine.New([]model.FieldDescriptor{field(t, model.FieldTypeText, "a", "A")})
	_ = eng.Change("a", "x")
	_ = eng.Blur("a")
	eng.Clear()
	if len(eng.Values()) != 0 || eng.Touched("a") {
		t.Fatalf("clear left state: values=%v touched=%v", eng.Values(), eng.Touched("a"))
	}
}

type memStore struct{ values map[string]any }

func (m *memStore) Values() map[string]any { return m.values }
func (m *memStore) SetValue(id string, v any) {
	m.values[id] = v
}
func (m *memStore) ClearValues() { m.values = map[string]any{} }

func TestValueStoreWriteThrough(t *testing.T) {
	store := &memStore{values: map[string]any{"a": "seed"}}
	eng := engine.New([]model.FieldDescriptor{field(t, model.FieldTypeText, "a", "A")},
		engine.WithValueStore(store),
	)
	if got, _ := eng.Value("a"); got != "seed" {
		t.Fatalf("seed value = %v", got)
	}
	_ = eng.Change("a", "next")
	if store.values["a"] != "next" {
		t.Fatalf("store not updated: %v", store.values)
	}
	eng.Clear()
	if len(store.values) != 0 {
		t.Fatalf("store not cleared: %v", store.values)
	}
}

func TestViewDispatch(t *testing.T) {
	fields := []model.FieldDescriptor{
		field(t, model.FieldTypeText, "t", "T"),
		field(t, model.FieldTypePassword, "p", "P"),
		field(t, model.FieldTypeTextarea, "ta", "TA"),
		field(t, model.FieldTypeNumber, "n", "N"),
		field(t, model.FieldTypeSelect, "s", "S"),
		field(t, model.FieldTypeCheckbox, "c", "C"),
		field(t, model.FieldTypeRadio, "r", "R"),
		field(t, model.FieldTypeDate, "d", "D"),
		field(t, model.FieldTypeFile, "f", "F"),
		{ID: "x", Type: "slider", Label: "X"},
	}
	view := engine.New(fields, engine.WithLayout(model.LayoutTwoColumn), engine.WithTitle("Demo")).View()

	kinds := make([]engine.ControlKind, 0, len(view.Controls))
	for _, control := range view.Controls {
		kinds = append(kinds, control.Kind)
	}
	want := []engine.ControlKind{
		engine.ControlTextInput, engine.ControlTextInput, engine.ControlTextarea,
		engine.ControlNumberInput, engine.ControlSelect, engine.ControlCheckbox,
		engine.ControlRadioGroup, engine.ControlDatePicker, engine.ControlFilePicker,
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]engine.UnknownFieldTypeError{{FieldID: "x", Type: "slider"}}, view.Dropped); diff != "" {
		t.Fatalf("dropped mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(view.Dropped[0], model.ErrUnknownFieldType) {
		t.Fatalf("dropped error does not wrap ErrUnknownFieldType")
	}
	if view.Layout != model.LayoutTwoColumn || view.Title != "Demo" || view.Chrome != engine.ChromeStandalone {
		t.Fatalf("view header = %+v", view)
	}
	if p, _ := view.Control("p"); p.InputType != "password" {
		t.Fatalf("password input type = %q", p.InputType)
	}
}
