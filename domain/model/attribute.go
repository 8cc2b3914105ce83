package model

import (
	"fmt"
	"toloka-kit/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Attribute describes one field of a model. It is attached to a Schema and never
// changes once the schema is defined.
type Attribute struct {
	Name     string
	Type     Type
	Required bool
	Readonly bool
	// Origin is the wire key when it differs from Name.
	Origin string
	// Rules holds go-playground/validator tags checked against the coerced value.
	Rules string

	defaultValue any
	defaultFunc  func() any
	hasDefault   bool
	conflict     bool
}

type AttrOption func(*Attribute)

// Attr builds an attribute descriptor.
func Attr(name string, t Type, opts ...AttrOption) Attribute {
	a := Attribute{Name: name, Type: t}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

func Readonly() AttrOption { return func(a *Attribute) { a.Readonly = true } }

func Required() AttrOption { return func(a *Attribute) { a.Required = true } }

func Origin(wireName string) AttrOption { return func(a *Attribute) { a.Origin = wireName } }

func Rules(tag string) AttrOption { return func(a *Attribute) { a.Rules = tag } }

// Default sets a value used when the field is missing. Lists, maps and objects
// should use DefaultFactory so instances do not share it.
func Default(v any) AttrOption {
	return func(a *Attribute) {
		if a.defaultFunc != nil {
			a.conflict = true
		}
		a.defaultValue = v
		a.hasDefault = true
	}
}

func DefaultFactory(f func() any) AttrOption {
	return func(a *Attribute) {
		if a.hasDefault && a.defaultFunc == nil {
			a.conflict = true
		}
		a.defaultFunc = f
		a.hasDefault = true
	}
}

// WireName is the key used in mappings.
func (a Attribute) WireName() string {
	if a.Origin != "" {
		return a.Origin
	}
	return a.Name
}

func (a Attribute) HasDefault() bool { return a.hasDefault }

func (a Attribute) makeDefault() (any, bool) {
	if !a.hasDefault {
		return nil, false
	}
	if a.defaultFunc != nil {
		return a.defaultFunc(), true
	}
	return copyValue(a.defaultValue), true
}

// check validates the declaration itself.
func (a Attribute) check(model string) error {
	fail := func(reason string, args ...any) error {
		return &errors.DefinitionError{Model: model, Field: a.Name, Reason: fmt.Sprintf(reason, args...)}
	}
	switch {
	case a.Name == "":
		return &errors.DefinitionError{Model: model, Reason: "attribute without a name"}
	case !a.Type.valid():
		return fail("incomplete type %s", a.Type.kind)
	case a.conflict:
		return fail("both a default value and a default factory")
	case a.Required && a.hasDefault:
		return fail("required attribute cannot have a default")
	case a.Required && a.Readonly:
		return fail("readonly attribute cannot be required")
	}
	if a.Rules != "" {
		if err := checkRules(a.Rules); err != nil {
			return fail("invalid rules %q: %v", a.Rules, err)
		}
	}
	if a.hasDefault && a.defaultFunc == nil {
		if a.defaultValue == nil {
			return fail("nil default")
		}
		if _, err := a.Type.coerce(a.defaultValue, &options{log: discard}); err != nil {
			return fail("default does not fit %s: %v", a.Type, err)
		}
	}
	return nil
}

// checkRules makes validator parse the tag; unknown tags make it panic.
func checkRules(tag string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	_ = validate.Var(nil, tag)
	return nil
}

func (a Attribute) applyRules(model string, v any) error {
	if a.Rules == "" {
		return nil
	}
	if err := validate.Var(v, a.Rules); err != nil {
		return &errors.ValidationError{
			Model:  model,
			Fields: []string{a.Name},
			Reason: err.Error(),
			Err:    errors.ErrConstraint,
		}
	}
	return nil
}
