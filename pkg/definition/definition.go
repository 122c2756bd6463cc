// Package definition loads seed form definitions from JSON or YAML files.
// Each file describes one form; missing field attributes fall back to the
// palette defaults, so a definition can be as terse as a list of types.
package definition

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// DefaultConstraint is the range of definition document versions understood
// by this package.
const DefaultConstraint = ">= 1.0, < 2.0"

const defaultVersion = "1.0"

var (
	// ErrUnsupportedVersion is returned for documents outside the constraint.
	ErrUnsupportedVersion = errors.New("definition: unsupported version")
	// ErrDuplicateTitle is returned when two files define the same title.
	ErrDuplicateTitle = errors.New("definition: duplicate form title")
	// ErrInvalid is returned for structurally invalid documents.
	ErrInvalid = errors.New("definition: invalid document")
)

// Form is one parsed definition.
type Form struct {
	Source  string
	Version *version.Version
	Title   string
	Layout  model.Layout
	Fields  []model.FieldDescriptor
}

// Option configures parsing.
type Option func(*config)

type config struct {
	constraint string
	lenient    bool
}

// WithConstraint overrides DefaultConstraint.
func WithConstraint(constraint string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(constraint) != "" {
			cfg.constraint = constraint
		}
	}
}

// WithLenientTypes keeps fields with unknown types instead of rejecting the
// file. Engines drop such fields when rendering.
func WithLenientTypes() Option {
	return func(cfg *config) {
		cfg.lenient = true
	}
}

func newConfig(options []Option) *config {
	cfg := &config{constraint: DefaultConstraint}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

type documentFile struct {
	Version string      `json:"version" yaml:"version"`
	Title   string      `json:"title" yaml:"title"`
	Layout  string      `json:"layout" yaml:"layout"`
	Fields  []fieldFile `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	ID          string          `json:"id" yaml:"id"`
	Type        string          `json:"type" yaml:"type"`
	Label       string          `json:"label" yaml:"label"`
	Placeholder *string         `json:"placeholder" yaml:"placeholder"`
	Options     []string        `json:"options" yaml:"options"`
	Required    *bool           `json:"required" yaml:"required"`
	Validation  *validationFile `json:"validation" yaml:"validation"`
}

type validationFile struct {
	Required  *bool   `json:"required" yaml:"required"`
	MinLength *int    `json:"minLength" yaml:"minLength"`
	MaxLength *int    `json:"maxLength" yaml:"maxLength"`
	Pattern   *string `json:"pattern" yaml:"pattern"`
}

// Parse decodes a single definition. source names the input in errors.
func Parse(data []byte, source string, options ...Option) (Form, error) {
	cfg := newConfig(options)

	if strings.TrimSpace(string(data)) == "" {
		return Form{}, fmt.Errorf("%w: file %s is empty", ErrInvalid, source)
	}
	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = documentFile{}
		if yerr := yaml.Unmarshal(data, &doc); yerr != nil {
			return Form{}, fmt.Errorf("%w: parse %s: invalid JSON or YAML", ErrInvalid, source)
		}
	}

	return normalise(doc, source, cfg)
}

func normalise(doc documentFile, source string, cfg *config) (Form, error) {
	raw := strings.TrimSpace(doc.Version)
	if raw == "" {
		raw = defaultVersion
	}
	v, err := version.NewVersion(raw)
	if err != nil {
		return Form{}, fmt.Errorf("%w: %s: version %q: %v", ErrInvalid, source, raw, err)
	}
	constraint, err := version.NewConstraint(cfg.constraint)
	if err != nil {
		return Form{}, fmt.Errorf("definition: constraint %q: %w", cfg.constraint, err)
	}
	if !constraint.Check(v) {
		return Form{}, fmt.Errorf("%w: %s declares %s, want %s", ErrUnsupportedVersion, source, v, cfg.constraint)
	}

	form := Form{
		Source:  source,
		Version: v,
		Title:   strings.TrimSpace(doc.Title),
		Layout:  model.Layout(strings.TrimSpace(doc.Layout)),
	}
	if form.Title == "" {
		return Form{}, fmt.Errorf("%w: %s has no title", ErrInvalid, source)
	}
	if form.Layout == "" {
		form.Layout = model.LayoutSingle
	}
	if !form.Layout.Valid() {
		return Form{}, fmt.Errorf("%w: %s layout %q", ErrInvalid, source, form.Layout)
	}

	seen := make(map[string]struct{}, len(doc.Fields))
	for idx, raw := range doc.Fields {
		field, err := raw.descriptor(cfg.lenient)
		if err != nil {
			return Form{}, fmt.Errorf("%w: %s field %d: %w", ErrInvalid, source, idx, err)
		}
		if _, dup := seen[field.ID]; dup {
			return Form{}, fmt.Errorf("%w: %s field %d: duplicate id %q", ErrInvalid, source, idx, field.ID)
		}
		seen[field.ID] = struct{}{}
		form.Fields = append(form.Fields, field)
	}
	return form, nil
}

func (f fieldFile) descriptor(lenient bool) (model.FieldDescriptor, error) {
	ft := model.FieldType(strings.TrimSpace(f.Type))
	id := strings.TrimSpace(f.ID)
	if id == "" {
		id = model.NewFieldID()
	}

	field, err := model.NewFieldWithID(ft, id)
	if err != nil {
		if !lenient {
			return model.FieldDescriptor{}, err
		}
		field = model.FieldDescriptor{ID: id, Type: ft, Label: string(ft), Options: []string{}}
	}

	if label := strings.TrimSpace(f.Label); label != "" {
		field.Label = label
	}
	if f.Placeholder != nil {
		field.Placeholder = *f.Placeholder
	}
	if f.Options != nil {
		field.Options = cleanOptions(f.Options)
	}
	if f.Required != nil {
		field.SetRequired(*f.Required)
	}
	if v := f.Validation; v != nil {
		if v.Required != nil {
			field.SetRequired(*v.Required)
		}
		if v.MinLength != nil {
			field.Validation.MinLength = *v.MinLength
		}
		if v.MaxLength != nil {
			field.Validation.MaxLength = *v.MaxLength
		}
		if v.Pattern != nil {
			field.Validation.Pattern = model.Pattern(*v.Pattern)
		}
	}

	rules := field.Validation
	if rules.MinLength < 0 || rules.MaxLength < 0 {
		return model.FieldDescriptor{}, errors.New("length limits must be non-negative")
	}
	if rules.Pattern != model.PatternNone && rules.Pattern != model.PatternEmail {
		return model.FieldDescriptor{}, fmt.Errorf("unsupported pattern %q", rules.Pattern)
	}
	return field, nil
}

func cleanOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, option := range options {
		if trimmed := strings.TrimSpace(option); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Store holds the definitions loaded from a directory tree.
type Store struct {
	forms   []Form
	byTitle map[string]int
}

// LoadFS walks fsys and parses every .json, .yaml and .yml file in lexical
// order. A nil fsys yields an empty store.
func LoadFS(fsys fs.FS, options ...Option) (*Store, error) {
	store := &Store{byTitle: make(map[string]int)}
	if fsys == nil {
		return store, nil
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() && isDefinitionFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("definition: walk: %w", err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("definition: read %s: %w", path, err)
		}
		form, err := Parse(data, path, options...)
		if err != nil {
			return nil, err
		}
		if prev, exists := store.byTitle[form.Title]; exists {
			return nil, fmt.Errorf("%w: %q in %s and %s", ErrDuplicateTitle, form.Title, store.forms[prev].Source, path)
		}
		store.byTitle[form.Title] = len(store.forms)
		store.forms = append(store.forms, form)
	}
	return store, nil
}

// Forms returns the loaded definitions in load order.
func (s *Store) Forms() []Form {
	if s == nil {
		return nil
	}
	return append([]Form(nil), s.forms...)
}

// Form looks up a definition by title.
func (s *Store) Form(title string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	idx, ok := s.byTitle[title]
	if !ok {
		return Form{}, false
	}
	return s.forms[idx], true
}

// Len reports the number of definitions.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.forms)
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
