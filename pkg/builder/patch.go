package builder

import "github.com/goliatone/go-formbuilder/pkg/model"

// Patch carries a partial descriptor update. Nil fields are left untouched;
// a non-nil Options slice replaces the option list.
type Patch struct {
	Label       *string
	Placeholder *string
	Required    *bool
	MinLength   *int
	MaxLength   *int
	Pattern     *model.Pattern
	Options     []string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Label == nil && p.Placeholder == nil && p.Required == nil &&
		p.MinLength == nil && p.MaxLength == nil && p.Pattern == nil && p.Options == nil
}

func (p Patch) apply(field *model.FieldDescriptor) {
	if p.Label != nil {
		field.Label = *p.Label
	}
	if p.Placeholder != nil {
		field.Placeholder = *p.Placeholder
	}
	if p.Required != nil {
		field.SetRequired(*p.Required)
	}
	if p.MinLength != nil && *p.MinLength >= 0 {
		field.Validation.MinLength = *p.MinLength
	}
	if p.MaxLength != nil && *p.MaxLength >= 0 {
		field.Validation.MaxLength = *p.MaxLength
	}
	if p.Pattern != nil {
		field.Validation.Pattern = *p.Pattern
	}
	if p.Options != nil {
		field.Options = append([]string{}, p.Options...)
	}
}

// String returns a pointer to v for building patches.
func String(v string) *string { return &v }

// Bool returns a pointer to v for building patches.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v for building patches.
func Int(v int) *int { return &v }
