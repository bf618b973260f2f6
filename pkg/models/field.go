package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldType is the closed set of input kinds a workflow field can take.
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeURL    FieldType = "url"
	FieldTypeNumber FieldType = "number"
	FieldTypeToggle FieldType = "toggle"
	FieldTypeSelect FieldType = "select"
)

// MessageInvalidURL is reported for url fields whose value is not an absolute URL.
const MessageInvalidURL = "Please enter a valid URL"

// FieldRule checks a present value and returns the error message to show, or "" when valid.
type FieldRule func(value any) string

var ruleValidator = validator.New()

// fieldRules holds exactly one rule per field type. Number and select carry no
// format rule on purpose: only required-ness is enforced for them.
var fieldRules = map[FieldType]FieldRule{
	FieldTypeText:   noRule,
	FieldTypeURL:    absoluteURLRule,
	FieldTypeNumber: noRule,
	FieldTypeToggle: noRule,
	FieldTypeSelect: noRule,
}

// Valid reports whether the field type is known.
func (t FieldType) Valid() bool {
	_, ok := fieldRules[t]

	return ok
}

// Rule returns the validation rule for the field type.
func (t FieldType) Rule() FieldRule {
	if rule, ok := fieldRules[t]; ok {
		return rule
	}

	return noRule
}

func noRule(any) string {
	return ""
}

func absoluteURLRule(value any) string {
	s, ok := value.(string)
	if !ok {
		s = fmt.Sprint(value)
	}

	if err := ruleValidator.Var(s, "url"); err != nil {
		return MessageInvalidURL
	}

	return ""
}

// WorkflowField describes one configurable input of a workflow form.
type WorkflowField struct {
	ID          string    `json:"id"                    yaml:"id"                    validate:"required"`
	Label       string    `json:"label"                 yaml:"label"                 validate:"required"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Type        FieldType `json:"type"                  yaml:"type"                  validate:"required,oneof=text url number toggle select"`
	Required    bool      `json:"required"              yaml:"required"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"     yaml:"options,omitempty"`
}

// RequiredMessage is the error shown when a required field is left empty.
func (f *WorkflowField) RequiredMessage() string {
	return f.Label + " is required"
}

// Check validates a single value against the field: required-ness first, then
// the type rule on present values. It returns "" when the value is valid.
func (f *WorkflowField) Check(value any, present bool) string {
	if !present || IsEmptyValue(value) {
		if f.Required {
			return f.RequiredMessage()
		}

		return ""
	}

	return f.Type.Rule()(value)
}
