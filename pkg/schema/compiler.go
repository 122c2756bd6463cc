package schema

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Base is the value type a rule set validates against.
type Base string

const (
	BaseText   Base = "text"
	BaseNumber Base = "number"
	BaseBool   Base = "bool"
	BaseFiles  Base = "files"
)

// Rule kinds emitted by the compiler.
const (
	RuleNumber    = "number"
	RuleRequired  = "required"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RuleEmail     = "email"
	RuleOneOf     = "oneOf"
)

// Rule is a single compiled constraint. Limit carries the threshold for
// length rules and is zero otherwise.
type Rule struct {
	Kind    string `json:"kind"`
	Limit   int    `json:"limit,omitempty"`
	Message string `json:"message"`
}

// RuleSet is the compiled rule list for one field.
type RuleSet struct {
	FieldID string          `json:"fieldId"`
	Label   string          `json:"label"`
	Type    model.FieldType `json:"type"`
	Base    Base            `json:"base"`
	Rules   []Rule          `json:"rules,omitempty"`
	Options []string        `json:"options,omitempty"`
}

// Schema maps field ids to their compiled rule sets.
type Schema map[string]RuleSet

// Compile builds a Schema from the descriptors. Each field id of a known type
// yields exactly one entry; when ids repeat the last descriptor wins.
// Descriptors with unknown types are skipped.
func Compile(fields []model.FieldDescriptor) Schema {
	out := make(Schema, len(fields))
	for _, field := range fields {
		if !field.Type.Valid() {
			continue
		}
		out[field.ID] = compileField(field)
	}
	return out
}

func compileField(field model.FieldDescriptor) RuleSet {
	label := field.Label
	set := RuleSet{
		FieldID: field.ID,
		Label:   label,
		Type:    field.Type,
		Base:    baseFor(field.Type),
	}

	if field.Type == model.FieldTypeNumber {
		set.Rules = append(set.Rules, Rule{
			Kind:    RuleNumber,
			Message: fmt.Sprintf("%s must be a number", label),
		})
	}

	rules := field.Validation
	if rules.Required {
		set.Rules = append(set.Rules, Rule{
			Kind:    RuleRequired,
			Message: fmt.Sprintf("%s is required", label),
		})
	}
	// number values are not strings; length and pattern rules do not apply
	if set.Base == BaseNumber {
		return set
	}
	if rules.MinLength != 0 {
		set.Rules = append(set.Rules, Rule{
			Kind:    RuleMinLength,
			Limit:   rules.MinLength,
			Message: fmt.Sprintf("%s must be at least %d characters", label, rules.MinLength),
		})
	}
	if rules.MaxLength != 0 {
		set.Rules = append(set.Rules, Rule{
			Kind:    RuleMaxLength,
			Limit:   rules.MaxLength,
			Message: fmt.Sprintf("%s must be at most %d characters", label, rules.MaxLength),
		})
	}
	if rules.Pattern == model.PatternEmail {
		set.Rules = append(set.Rules, Rule{
			Kind:    RuleEmail,
			Message: fmt.Sprintf("%s must be a valid email", label),
		})
	}
	if field.Type.HasOptions() && len(field.Options) > 0 {
		set.Options = append([]string(nil), field.Options...)
		set.Rules = append(set.Rules, Rule{
			Kind:    RuleOneOf,
			Message: fmt.Sprintf("%s must be one of the available options", label),
		})
	}

	return set
}

func baseFor(t model.FieldType) Base {
	switch t {
	case model.FieldTypeNumber:
		return BaseNumber
	case model.FieldTypeCheckbox:
		return BaseBool
	case model.FieldTypeFile:
		return BaseFiles
	default:
		return BaseText
	}
}

// Has reports whether the rule set contains a rule of the given kind.
func (s RuleSet) Has(kind string) bool {
	for _, rule := range s.Rules {
		if rule.Kind == kind {
			return true
		}
	}
	return false
}

// Required reports whether the set carries a required rule.
func (s RuleSet) Required() bool {
	return s.Has(RuleRequired)
}

// Check evaluates the rules against value in compile order and returns the
// first failing message. Empty values only ever fail the required rule.
func (s RuleSet) Check(value any) (string, bool) {
	empty := IsEmpty(s.Base, value)
	for _, rule := range s.Rules {
		if rule.Kind == RuleRequired {
			if empty {
				return rule.Message, false
			}
			continue
		}
		if empty {
			continue
		}
		if !s.satisfies(rule, value) {
			return rule.Message, false
		}
	}
	return "", true
}

func (s RuleSet) satisfies(rule Rule, value any) bool {
	switch rule.Kind {
	case RuleNumber:
		_, ok := toNumber(value)
		return ok
	case RuleMinLength:
		return length(value) >= rule.Limit
	case RuleMaxLength:
		return length(value) <= rule.Limit
	case RuleEmail:
		return emailPattern.MatchString(strings.TrimSpace(toString(value)))
	case RuleOneOf:
		candidate := toString(value)
		for _, option := range s.Options {
			if option == candidate {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// Coerce converts a raw input into the rule set's base type. Number inputs
// arrive as strings from text controls and are returned as float64; values
// that cannot be converted are returned unchanged.
func (s RuleSet) Coerce(value any) any {
	if s.Base != BaseNumber || IsEmpty(s.Base, value) {
		return value
	}
	if number, ok := toNumber(value); ok {
		return number
	}
	return value
}

// Validate checks every field in the schema against values and returns the
// failing field ids mapped to their first error message.
func (s Schema) Validate(values map[string]any) map[string]string {
	errs := make(map[string]string)
	for id, set := range s {
		if message, ok := set.Check(values[id]); !ok {
			errs[id] = message
		}
	}
	return errs
}

// IDs returns the schema keys sorted for deterministic iteration.
func (s Schema) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsEmpty reports whether value counts as "not provided" for the base type.
func IsEmpty(base Base, value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return base == BaseBool && !v
	case []model.FileMeta:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

// mirrors the permissive address check used by browser form validation
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

// plain decimal literals only: no hex, no underscores, no inf or nan words
var decimalPattern = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		return float64(v), !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		raw := strings.TrimSpace(v)
		if !decimalPattern.MatchString(raw) {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(parsed, 0) {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func length(value any) int {
	switch v := value.(type) {
	case string:
		return len([]rune(v))
	case []model.FileMeta:
		return len(v)
	case []any:
		return len(v)
	default:
		return len([]rune(toString(v)))
	}
}
