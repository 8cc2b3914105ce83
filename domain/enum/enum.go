// Package enum holds server-defined vocabularies such as statuses and reasons.
// Extendable vocabularies accept values the client does not know yet and keep
// the literal text so it can be sent back unchanged.
package enum

import (
	"fmt"
	"toloka-kit/errors"

	"github.com/samber/lo"
)

// Vocabulary is a named, ordered set of unique string members.
type Vocabulary struct {
	name       string
	extendable bool
	members    []string
	index      map[string]struct{}
}

// Value is either a declared member of a vocabulary or an unrecognized
// text wrapped as is. Values are comparable with ==.
type Value struct {
	vocab *Vocabulary
	raw   string
	known bool
}

// Define declares a vocabulary. Members must be non-empty and unique.
func Define(name string, extendable bool, members ...string) (*Vocabulary, error) {
	if name == "" {
		return nil, &errors.DefinitionError{Model: "enum", Reason: "vocabulary without a name"}
	}
	if len(members) == 0 {
		return nil, &errors.DefinitionError{Model: name, Reason: "vocabulary without members"}
	}
	v := &Vocabulary{
		name:       name,
		extendable: extendable,
		index:      make(map[string]struct{}, len(members)),
	}
	for _, m := range members {
		if m == "" {
			return nil, &errors.DefinitionError{Model: name, Reason: "empty member"}
		}
		if _, dup := v.index[m]; dup {
			return nil, &errors.DefinitionError{Model: name, Field: m, Reason: "duplicate member"}
		}
		v.index[m] = struct{}{}
		v.members = append(v.members, m)
	}
	return v, nil
}

// MustFixed declares a vocabulary rejecting unknown values and panics on a bad declaration.
func MustFixed(name string, members ...string) *Vocabulary {
	return must(Define(name, false, members...))
}

// MustExtendable declares a vocabulary accepting unknown values and panics on a bad declaration.
func MustExtendable(name string, members ...string) *Vocabulary {
	return must(Define(name, true, members...))
}

func must(v *Vocabulary, err error) *Vocabulary {
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Vocabulary) Name() string     { return v.name }
func (v *Vocabulary) Extendable() bool { return v.extendable }

// Members returns the declared values in declaration order.
func (v *Vocabulary) Members() []Value {
	return lo.Map(v.members, func(m string, _ int) Value {
		return Value{vocab: v, raw: m, known: true}
	})
}

// Member returns the declared value for name. Asking for an undeclared name is a
// programming error and panics.
func (v *Vocabulary) Member(name string) Value {
	if !v.Contains(name) {
		panic(fmt.Sprintf("%s has no member %q", v.name, name))
	}
	return Value{vocab: v, raw: name, known: true}
}

func (v *Vocabulary) Contains(raw string) bool {
	_, ok := v.index[raw]
	return ok
}

// Resolve maps raw text onto a member. Unknown text fails for fixed vocabularies
// and is wrapped as an unrecognized value for extendable ones.
func (v *Vocabulary) Resolve(raw string) (Value, error) {
	if v.Contains(raw) {
		return Value{vocab: v, raw: raw, known: true}, nil
	}
	if !v.extendable {
		return Value{}, &errors.ValidationError{
			Model:  v.name,
			Reason: fmt.Sprintf("%q is not one of %v", raw, v.members),
			Err:    errors.ErrUnknownValue,
		}
	}
	return Value{vocab: v, raw: raw}, nil
}

// Wrap never fails: unknown text becomes an unrecognized value even for fixed
// vocabularies. It serves discriminator fields, where unknown variants must stay
// representable.
func (v *Vocabulary) Wrap(raw string) Value {
	return Value{vocab: v, raw: raw, known: v.Contains(raw)}
}

// String returns the literal text, known or not.
func (x Value) String() string { return x.raw }

func (x Value) IsKnown() bool { return x.known }

func (x Value) IsZero() bool { return x.vocab == nil }

func (x Value) Vocabulary() *Vocabulary { return x.vocab }

func (x Value) MarshalText() ([]byte, error) { return []byte(x.raw), nil }
