// Package model defines the form-schema types shared by the builder store,
// the schema compiler, the validation engine and the renderers. A form is an
// ordered list of FieldDescriptor values; committed forms are frozen into
// BuiltForm snapshots. Field identifiers are opaque, assigned once by NewField
// and never reused. The required flag lives in ValidationRules only and is
// surfaced through FieldDescriptor.Required so the two views cannot diverge.
package model
