package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

const (
	// Version is the OpenAPI version written into exported documents.
	Version = "3.0.3"

	defaultTitle      = "Form submissions"
	defaultAPIVersion = "1.0.0"
	defaultBasePath   = "/forms"
)

var (
	// ErrNoForms is returned by Export for an empty form list.
	ErrNoForms = errors.New("openapi: no forms to export")
	// ErrInvalidDocument wraps kin-openapi validation failures.
	ErrInvalidDocument = errors.New("openapi: invalid document")
	// ErrInvalidSubmission wraps payload validation failures.
	ErrInvalidSubmission = errors.New("openapi: invalid submission")
	// ErrUnknownFormat is returned by Encode for unsupported formats.
	ErrUnknownFormat = errors.New("openapi: unknown encoding format")
)

// Option customises an export.
type Option func(*config)

type config struct {
	title    string
	version  string
	basePath string
}

// WithTitle sets info.title.
func WithTitle(title string) Option {
	return func(c *config) {
		if strings.TrimSpace(title) != "" {
			c.title = title
		}
	}
}

// WithAPIVersion sets info.version.
func WithAPIVersion(version string) Option {
	return func(c *config) {
		if strings.TrimSpace(version) != "" {
			c.version = version
		}
	}
}

// WithBasePath sets the prefix of the submission paths.
func WithBasePath(path string) Option {
	return func(c *config) {
		path = "/" + strings.Trim(path, "/")
		if path != "/" {
			c.basePath = path
		}
	}
}

// Export builds and validates a document covering forms.
func Export(ctx context.Context, forms []model.BuiltForm, options ...Option) (*openapi3.T, error) {
	if len(forms) == 0 {
		return nil, ErrNoForms
	}
	cfg := &config{title: defaultTitle, version: defaultAPIVersion, basePath: defaultBasePath}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	doc := &openapi3.T{
		OpenAPI:    Version,
		Info:       &openapi3.Info{Title: cfg.title, Version: cfg.version},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: openapi3.Schemas{}},
	}

	for _, form := range forms {
		name := SchemaName(form)
		schema := FormSchema(form)
		doc.Components.Schemas[name] = openapi3.NewSchemaRef("", schema)

		ref := openapi3.NewSchemaRef("#/components/schemas/"+name, schema)
		op := openapi3.NewOperation()
		op.OperationID = "submit_" + name
		op.Summary = "Submit " + form.Title
		op.Tags = []string{"forms"}
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref),
		}
		op.Responses = openapi3.NewResponses(
			openapi3.WithStatus(http.StatusNoContent, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Submission accepted"),
			}),
			openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Submission failed validation"),
			}),
		)
		doc.AddOperation(SubmissionPath(cfg.basePath, form), http.MethodPost, op)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc, nil
}

// SubmissionPath returns the POST path for a form under basePath.
func SubmissionPath(basePath string, form model.BuiltForm) string {
	return strings.TrimRight(basePath, "/") + "/" + SchemaName(form) + "/submissions"
}

// SchemaName derives a component key from the form id. Characters outside
// [A-Za-z0-9._-] become underscores.
func SchemaName(form model.BuiltForm) string {
	name := form.ID
	if name == "" {
		name = form.Title
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// FormSchema describes a submission of form as a JSON object keyed by field
// id. Fields with unknown types are left out.
func FormSchema(form model.BuiltForm) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = form.Title
	var required []string
	for _, field := range form.Components {
		property, ok := fieldSchema(field)
		if !ok {
			continue
		}
		schema.WithProperty(field.ID, property)
		if field.Required() {
			required = append(required, field.ID)
		}
	}
	if len(required) > 0 {
		schema.WithRequired(required)
	}
	return schema
}

func fieldSchema(field model.FieldDescriptor) (*openapi3.Schema, bool) {
	var s *openapi3.Schema
	rules := field.Validation

	switch field.Type {
	case model.FieldTypeText, model.FieldTypeTextarea, model.FieldTypeEmail, model.FieldTypePassword:
		s = openapi3.NewStringSchema()
		minLength := rules.MinLength
		if rules.Required && minLength < 1 {
			minLength = 1
		}
		if minLength > 0 {
			s.WithMinLength(int64(minLength))
		}
		if rules.MaxLength > 0 {
			s.WithMaxLength(int64(rules.MaxLength))
		}
		if rules.Pattern == model.PatternEmail || field.Type == model.FieldTypeEmail {
			s.WithFormat("email")
		}
		if field.Type == model.FieldTypePassword {
			s.WithFormat("password")
		}
	case model.FieldTypeNumber:
		s = openapi3.NewFloat64Schema()
	case model.FieldTypeSelect, model.FieldTypeRadio:
		s = openapi3.NewStringSchema()
		if len(field.Options) > 0 {
			enum := make([]any, len(field.Options))
			for idx, option := range field.Options {
				enum[idx] = option
			}
			s.WithEnum(enum...)
		}
	case model.FieldTypeCheckbox:
		s = openapi3.NewBoolSchema()
		if rules.Required {
			s.WithEnum(true)
		}
	case model.FieldTypeDate:
		s = openapi3.NewStringSchema().WithFormat("date")
	case model.FieldTypeFile:
		s = openapi3.NewArraySchema().WithItems(fileSchema())
		if rules.Required {
			s.WithMinItems(1)
		}
	default:
		return nil, false
	}

	s.Title = field.Label
	if field.Placeholder != "" {
		s.Description = field.Placeholder
	}
	return s, true
}

func fileSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("uid", openapi3.NewStringSchema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("size", openapi3.NewInt64Schema()).
		WithProperty("type", openapi3.NewStringSchema()).
		WithProperty("status", openapi3.NewStringSchema()).
		WithRequired([]string{"uid", "name"})
}

// ValidateSubmission checks values, as returned by a successful submit,
// against the form's schema. Values are normalised through JSON first so
// typed slices such as []model.FileMeta are accepted.
func ValidateSubmission(form model.BuiltForm, values map[string]any) error {
	payload, err := normalise(values)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}
	if err := FormSchema(form).VisitJSON(payload, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}
	return nil
}

func normalise(values map[string]any) (any, error) {
	if values == nil {
		values = map[string]any{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Encode serialises doc as "json" or "yaml".
func Encode(doc *openapi3.T, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "json":
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("openapi: encode json: %w", err)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("openapi: encode json: %w", err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case "yaml", "yml":
		raw, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("openapi: encode yaml: %w", err)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
