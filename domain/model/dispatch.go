package model

import (
	"fmt"
	"toloka-kit/domain/enum"
	"toloka-kit/errors"
)

// dispatch binds discriminator values of one polymorphic base to variant schemas.
type dispatch struct {
	base     *Schema
	field    string
	vocab    *enum.Vocabulary
	variants map[string]*Schema
}

// DefinePolymorphic registers a base model whose concrete type is chosen by the
// enum attribute field. The attribute is added when attrs do not declare it; it is
// always readonly since a variant's discriminator never changes.
func DefinePolymorphic(name, field string, vocab *enum.Vocabulary, attrs ...Attribute) (*Schema, error) {
	if vocab == nil {
		return nil, &errors.DefinitionError{Model: name, Field: field, Reason: "discriminator without vocabulary"}
	}
	attrs = append([]Attribute(nil), attrs...)
	declared := false
	for i, a := range attrs {
		if a.Name != field {
			continue
		}
		if a.Type.kind != KindEnum || a.Type.vocab != vocab {
			return nil, &errors.DefinitionError{
				Model:  name,
				Field:  field,
				Reason: fmt.Sprintf("discriminator must be of type %s, declared as %s", vocab.Name(), a.Type),
			}
		}
		if a.Required || a.HasDefault() {
			return nil, &errors.DefinitionError{Model: name, Field: field, Reason: "discriminator cannot be required or defaulted"}
		}
		declared = true
		attrs[i].Readonly = true
		attrs[i].Type.lenient = true
	}
	if !declared {
		t := Enum(vocab)
		t.lenient = true
		attrs = append([]Attribute{Attr(field, t, Readonly())}, attrs...)
	}
	s, err := Define(name, attrs...)
	if err != nil {
		return nil, err
	}
	s.poly = &dispatch{
		base:     s,
		field:    field,
		vocab:    vocab,
		variants: make(map[string]*Schema),
	}
	return s, nil
}

func MustDefinePolymorphic(name, field string, vocab *enum.Vocabulary, attrs ...Attribute) *Schema {
	return must(DefinePolymorphic(name, field, vocab, attrs...))
}

// Variant registers the concrete model for one discriminator value of base.
// At most one variant may be registered per value.
func Variant(base *Schema, value enum.Value, name string, attrs ...Attribute) (*Schema, error) {
	if base == nil || base.poly == nil || base.poly.base != base {
		return nil, &errors.DefinitionError{Model: name, Reason: "variant of a model without discriminator"}
	}
	d := base.poly
	if value.Vocabulary() != d.vocab || !value.IsKnown() {
		return nil, &errors.DefinitionError{
			Model:  name,
			Field:  d.field,
			Reason: fmt.Sprintf("%q is not a member of %s", value.String(), d.vocab.Name()),
		}
	}
	if prev, taken := d.variants[value.String()]; taken {
		return nil, &errors.DefinitionError{
			Model:  name,
			Field:  d.field,
			Reason: fmt.Sprintf("%s=%s already bound to %s", d.field, value, prev.name),
		}
	}
	for _, a := range attrs {
		if a.Name == d.field {
			return nil, &errors.DefinitionError{Model: name, Field: d.field, Reason: "variant cannot redeclare the discriminator"}
		}
	}
	s, err := Extend(base, name, attrs...)
	if err != nil {
		return nil, err
	}
	s.poly = d
	s.tag = value
	d.variants[value.String()] = s
	return s, nil
}

func MustVariant(base *Schema, value enum.Value, name string, attrs ...Attribute) *Schema {
	return must(Variant(base, value, name, attrs...))
}

// Discriminator returns the discriminator field name of a polymorphic model.
func (s *Schema) Discriminator() (string, bool) {
	if s.poly == nil {
		return "", false
	}
	return s.poly.field, true
}

// Tag returns the fixed discriminator value of a variant.
func (s *Schema) Tag() (enum.Value, bool) {
	return s.tag, !s.tag.IsZero()
}

// Variants returns the registered variants of a polymorphic base, in vocabulary order.
func (s *Schema) Variants() []*Schema {
	if s.poly == nil {
		return nil
	}
	var out []*Schema
	for _, m := range s.poly.vocab.Members() {
		if v, ok := s.poly.variants[m.String()]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Resolve picks the concrete schema for values. An unregistered discriminator
// value falls back to s and is returned as unresolved.
func (s *Schema) Resolve(values map[string]any) (concrete *Schema, unresolved string, err error) {
	if s.poly == nil {
		return s, "", nil
	}
	a, _ := s.Attribute(s.poly.field)
	raw, ok := values[a.WireName()]
	if !ok || raw == nil {
		return s, "", nil
	}
	var tag string
	switch x := raw.(type) {
	case string:
		tag = x
	case enum.Value:
		tag = x.String()
	default:
		return nil, "", &errors.ValidationError{
			Model:  s.name,
			Fields: []string{a.Name},
			Reason: fmt.Sprintf("discriminator must be a string, got %T", raw),
			Err:    errors.ErrWrongType,
		}
	}
	if v, ok := s.poly.variants[tag]; ok {
		if !v.Is(s) {
			return nil, "", &errors.ValidationError{
				Model:  s.name,
				Fields: []string{a.Name},
				Reason: fmt.Sprintf("%s=%s selects %s", a.Name, tag, v.name),
				Err:    errors.ErrWrongType,
			}
		}
		return v, "", nil
	}
	if !s.tag.IsZero() {
		return nil, "", &errors.ValidationError{
			Model:  s.name,
			Fields: []string{a.Name},
			Reason: fmt.Sprintf("%s=%s does not match %s", a.Name, tag, s.tag),
			Err:    errors.ErrWrongType,
		}
	}
	return s, tag, nil
}
