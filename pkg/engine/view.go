package engine

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ControlKind names the input control a field is drawn with.
type ControlKind string

const (
	ControlTextInput   ControlKind = "text-input"
	ControlTextarea    ControlKind = "textarea"
	ControlNumberInput ControlKind = "number-input"
	ControlSelect      ControlKind = "select"
	ControlCheckbox    ControlKind = "checkbox"
	ControlRadioGroup  ControlKind = "radio-group"
	ControlDatePicker  ControlKind = "date-picker"
	ControlFilePicker  ControlKind = "file-picker"
)

// Control is the render-ready state of one field.
type Control struct {
	FieldID     string
	Type        model.FieldType
	Kind        ControlKind
	InputType   string
	Label       string
	Placeholder string
	Required    bool
	Options     []string
	Value       any
	Error       string
	Touched     bool
}

// Text returns the value formatted for a text control.
func (c Control) Text() string {
	switch v := c.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []model.FileMeta:
		names := make([]string, 0, len(v))
		for _, file := range v {
			names = append(names, file.Name)
		}
		return strings.Join(names, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// Checked reports the checkbox state.
func (c Control) Checked() bool {
	checked, _ := c.Value.(bool)
	return checked
}

// Files returns the selected files for file pickers.
func (c Control) Files() []model.FileMeta {
	files, _ := c.Value.([]model.FileMeta)
	return files
}

// Selected reports whether option is the current value.
func (c Control) Selected(option string) bool {
	value, ok := c.Value.(string)
	return ok && value == option
}

// View is the render-ready state of the whole form.
type View struct {
	FormID   string
	Title    string
	Layout   model.Layout
	Chrome   Chrome
	Controls []Control
	Dropped  []UnknownFieldTypeError
}

// Control looks up a control by field id.
func (v View) Control(id string) (Control, bool) {
	for _, control := range v.Controls {
		if control.FieldID == id {
			return control, true
		}
	}
	return Control{}, false
}

// View snapshots the session for rendering.
func (e *Engine) View() View {
	view := View{
		FormID:   e.formID,
		Title:    e.title,
		Layout:   e.layout,
		Chrome:   e.chrome,
		Controls: make([]Control, 0, len(e.fields)),
		Dropped:  append([]UnknownFieldTypeError(nil), e.dropped...),
	}
	for _, field := range e.fields {
		control, ok := controlFor(field)
		if !ok {
			continue
		}
		control.Value = e.values[field.ID]
		control.Touched = e.touched[field.ID]
		control.Error = e.Error(field.ID)
		view.Controls = append(view.Controls, control)
	}
	return view
}

func controlFor(field model.FieldDescriptor) (Control, bool) {
	control := Control{
		FieldID:     field.ID,
		Type:        field.Type,
		Label:       field.Label,
		Placeholder: field.Placeholder,
		Required:    field.Required(),
	}

	switch field.Type {
	case model.FieldTypeText, model.FieldTypeEmail, model.FieldTypePassword:
		control.Kind = ControlTextInput
		control.InputType = string(field.Type)
	case model.FieldTypeTextarea:
		control.Kind = ControlTextarea
	case model.FieldTypeNumber:
		control.Kind = ControlNumberInput
		control.InputType = "number"
	case model.FieldTypeSelect:
		control.Kind = ControlSelect
		control.Options = append([]string(nil), field.Options...)
	case model.FieldTypeCheckbox:
		control.Kind = ControlCheckbox
		control.InputType = "checkbox"
	case model.FieldTypeRadio:
		control.Kind = ControlRadioGroup
		control.InputType = "radio"
		control.Options = append([]string(nil), field.Options...)
	case model.FieldTypeDate:
		control.Kind = ControlDatePicker
		control.InputType = "date"
	case model.FieldTypeFile:
		control.Kind = ControlFilePicker
		control.InputType = "file"
	default:
		return Control{}, false
	}
	return control, true
}
