package model

import (
	"toloka-kit/domain/enum"
	"toloka-kit/errors"

	"github.com/samber/lo"
)

// Schema is the explicit descriptor table of one model. Schemas are defined
// while packages initialise and are read-only afterwards.
type Schema struct {
	name   string
	parent *Schema
	attrs  []Attribute
	byName map[string]int
	byWire map[string]int

	// poly is shared by a polymorphic base and all of its variants.
	poly *dispatch
	// tag is the fixed discriminator value of a variant.
	tag enum.Value
}

// Define registers a model with its attributes.
func Define(name string, attrs ...Attribute) (*Schema, error) {
	return build(name, nil, attrs)
}

// Extend registers a model inheriting the attributes of parent.
// An attribute declared again under the same name overrides the inherited one in place.
func Extend(parent *Schema, name string, attrs ...Attribute) (*Schema, error) {
	if parent == nil {
		return nil, &errors.DefinitionError{Model: name, Reason: "nil parent"}
	}
	return build(name, parent, attrs)
}

func MustDefine(name string, attrs ...Attribute) *Schema {
	return must(Define(name, attrs...))
}

func MustExtend(parent *Schema, name string, attrs ...Attribute) *Schema {
	return must(Extend(parent, name, attrs...))
}

func must(s *Schema, err error) *Schema {
	if err != nil {
		panic(err)
	}
	return s
}

func build(name string, parent *Schema, attrs []Attribute) (*Schema, error) {
	if name == "" {
		return nil, &errors.DefinitionError{Model: "model", Reason: "model without a name"}
	}
	s := &Schema{
		name:   name,
		parent: parent,
		byName: make(map[string]int),
		byWire: make(map[string]int),
	}
	if parent != nil {
		s.attrs = append(s.attrs, parent.attrs...)
		for i, a := range s.attrs {
			s.byName[a.Name] = i
		}
	}
	declared := make(map[string]struct{}, len(attrs))
	for _, a := range attrs {
		if err := a.check(name); err != nil {
			return nil, err
		}
		if _, dup := declared[a.Name]; dup {
			return nil, &errors.DefinitionError{Model: name, Field: a.Name, Reason: "declared twice"}
		}
		declared[a.Name] = struct{}{}
		if i, inherited := s.byName[a.Name]; inherited {
			s.attrs[i] = a
			continue
		}
		s.byName[a.Name] = len(s.attrs)
		s.attrs = append(s.attrs, a)
	}
	for i, a := range s.attrs {
		if j, taken := s.byWire[a.WireName()]; taken {
			return nil, &errors.DefinitionError{
				Model:  name,
				Field:  a.Name,
				Reason: "wire name " + a.WireName() + " already used by " + s.attrs[j].Name,
			}
		}
		s.byWire[a.WireName()] = i
	}
	return s, nil
}

func (s *Schema) Name() string    { return s.name }
func (s *Schema) Parent() *Schema { return s.parent }

// Attributes returns the descriptors in declaration order, inherited ones first.
func (s *Schema) Attributes() []Attribute {
	return append([]Attribute(nil), s.attrs...)
}

func (s *Schema) Attribute(name string) (Attribute, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Attribute{}, false
	}
	return s.attrs[i], true
}

// AttributeNames lists attribute names in declaration order.
func (s *Schema) AttributeNames() []string {
	return lo.Map(s.attrs, func(a Attribute, _ int) string { return a.Name })
}

// Is reports whether s is other or derives from it.
func (s *Schema) Is(other *Schema) bool {
	for c := s; c != nil; c = c.parent {
		if c == other {
			return true
		}
	}
	return false
}

func (s *Schema) String() string { return s.name }
