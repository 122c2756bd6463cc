package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

var (
	// ErrUnknownField is returned when an operation names a field id the
	// engine was not constructed with.
	ErrUnknownField = errors.New("engine: unknown field")
	// ErrValidation is matched by *ValidationError through errors.Is.
	ErrValidation = errors.New("engine: validation failed")
)

// FieldError is one failing field reported by Submit.
type FieldError struct {
	FieldID string `json:"fieldId"`
	Label   string `json:"label"`
	Message string `json:"message"`
}

// ValidationError aggregates the per-field failures of a submit attempt, in
// field order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, field.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Map returns the failures keyed by field id.
func (e *ValidationError) Map() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, field := range e.Fields {
		out[field.FieldID] = field.Message
	}
	return out
}

// UnknownFieldTypeError describes a descriptor the engine could not render.
type UnknownFieldTypeError struct {
	FieldID string
	Type    model.FieldType
}

func (e UnknownFieldTypeError) Error() string {
	return fmt.Sprintf("engine: field %q has unknown type %q", e.FieldID, e.Type)
}

func (e UnknownFieldTypeError) Unwrap() error {
	return model.ErrUnknownFieldType
}
