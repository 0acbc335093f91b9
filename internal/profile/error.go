package profile

import (
	"errors"
	"strings"
)

// Error definitions for the profile package.
var (
	ErrInvalidInput = errors.New("invalid employee input")
	ErrValidation   = errors.New("employee profile failed validation")
)

// Messages shown to the user when a cross-field rule fails.
const (
	MsgCompanyExceedsTotal   = "Experience at this company cannot be greater than total work experience."
	MsgManagerExceedsCompany = "Years with current manager cannot exceed years at this company."
)

// FieldError describes why a single raw value was rejected by the input layer.
type FieldError struct {
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

// InputError is returned when raw form values fall outside their declared domain.
type InputError struct {
	Fields []FieldError
}

func (e *InputError) add(field, value, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Value: value, Reason: reason})
}

func (e *InputError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Reason)
	}

	return "invalid input: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInvalidInput) match.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Rule identifies a cross-field validation rule.
type Rule string

const (
	// RuleCompanyWithinTotal requires company experience <= total experience.
	RuleCompanyWithinTotal Rule = "company_within_total"

	// RuleManagerWithinCompany requires years with manager <= company experience.
	RuleManagerWithinCompany Rule = "manager_within_company"
)

// ValidationError is returned when a cross-field rule fails.
type ValidationError struct {
	Rule    Rule
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
