package validate

import (
	"encoding/json"
	"fmt"
)

// Input is the raw /predict payload. A nil field was either absent or of
// the wrong JSON type; the validator reports it with that field's message.
type Input struct {
	Age               *float64
	Gender            *string
	EducationLevel    *string
	JobTitle          *string
	YearsOfExperience *float64
}

// UnmarshalJSON decodes field by field so that a mistyped field fails its
// own check instead of the whole body.
func (in *Input) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("request body must be a JSON object: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("request body must be a JSON object")
	}

	*in = Input{
		Age:               decodeField[float64](raw, FieldAge),
		Gender:            decodeField[string](raw, FieldGender),
		EducationLevel:    decodeField[string](raw, FieldEducationLevel),
		JobTitle:          decodeField[string](raw, FieldJobTitle),
		YearsOfExperience: decodeField[float64](raw, FieldYearsOfExperience),
	}
	return nil
}

func decodeField[T any](raw map[string]json.RawMessage, key string) *T {
	msg, ok := raw[key]
	if !ok {
		return nil
	}
	var v *T
	if err := json.Unmarshal(msg, &v); err != nil {
		return nil
	}
	return v
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
