package models

import (
	"encoding/json"
	"maps"
)

// FormValues maps a field id to its string, float64 or bool value. An absent key means unset.
type FormValues map[string]any

// Clone returns a shallow copy safe to hand out to renderers.
func (v FormValues) Clone() FormValues {
	if v == nil {
		return FormValues{}
	}

	return maps.Clone(v)
}

// ValidationErrors maps a field id to the message of its failing rule.
// Only failing fields are present.
type ValidationErrors map[string]string

// Clone returns a copy of the error map.
func (e ValidationErrors) Clone() ValidationErrors {
	if e == nil {
		return ValidationErrors{}
	}

	return maps.Clone(e)
}

// Empty reports whether no field is failing.
func (e ValidationErrors) Empty() bool {
	return len(e) == 0
}

// IsEmptyValue reports whether a form value counts as unset for required checks.
// Only nil and the empty string are empty: false and 0 are explicit answers.
func IsEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}

// NormalizeValue coerces a value into one of the accepted form value types.
// Integers and json.Number become float64. The second result is false for
// anything that is not a string, number or boolean.
func NormalizeValue(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case string, bool, float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, false
		}

		return f, true
	default:
		return nil, false
	}
}
