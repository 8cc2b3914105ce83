package errors

import (
	"fmt"
	"strings"
)

var (
	ErrDefinition = fmt.Errorf("definition error")
	ErrValidation = fmt.Errorf("validation error")
	ErrImmutable  = fmt.Errorf("immutable attribute")

	ErrMissingField = fmt.Errorf("missing required field")
	ErrUnknownField = fmt.Errorf("unknown field")
	ErrWrongType    = fmt.Errorf("wrong type")
	ErrConstraint   = fmt.Errorf("constraint violated")
	ErrReadonlyKey  = fmt.Errorf("readonly field in client-authored data")
	ErrUnknownValue = fmt.Errorf("unknown enumeration value")

	ErrUnknownKind      = fmt.Errorf("unknown resource kind")
	ErrMissingID        = fmt.Errorf("resource has no id")
	ErrResourceNotFound = fmt.Errorf("resource not found")
)

// DefinitionError reports a model declared in a conflicting way.
// It is raised while packages initialise, never at use.
type DefinitionError struct {
	Model  string
	Field  string
	Reason string
}

func (e *DefinitionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("definition of %s: %s", e.Model, e.Reason)
	}
	return fmt.Sprintf("definition of %s.%s: %s", e.Model, e.Field, e.Reason)
}

func (e *DefinitionError) Unwrap() error { return ErrDefinition }

// ValidationError is returned per instance when input does not fit a model.
// Err holds the finer cause (ErrMissingField, ErrWrongType, ...).
type ValidationError struct {
	Model  string
	Fields []string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid ")
	b.WriteString(e.Model)
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// ImmutabilityError is returned when a readonly attribute is mutated after construction.
type ImmutabilityError struct {
	Model string
	Field string
}

func (e *ImmutabilityError) Error() string {
	return fmt.Sprintf("%s.%s is readonly", e.Model, e.Field)
}

func (e *ImmutabilityError) Unwrap() error { return ErrImmutable }
