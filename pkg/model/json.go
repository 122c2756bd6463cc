package model

import "encoding/json"

type fieldAlias FieldDescriptor

// MarshalJSON emits the required flag both at the top level and inside the
// validation block so payloads stay compatible with consumers reading either.
func (f FieldDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		fieldAlias
		Required bool `json:"required"`
	}{
		fieldAlias: fieldAlias(f),
		Required:   f.Validation.Required,
	})
}

// UnmarshalJSON accepts the required flag from either location. When both
// are present, validation.required wins.
func (f *FieldDescriptor) UnmarshalJSON(data []byte) error {
	var payload struct {
		fieldAlias
		Required *bool `json:"required"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}

	var probe struct {
		Validation struct {
			Required *bool `json:"required"`
		} `json:"validation"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	*f = FieldDescriptor(payload.fieldAlias)
	if probe.Validation.Required == nil && payload.Required != nil {
		f.Validation.Required = *payload.Required
	}
	return nil
}
