// Package model is the generic object layer every resource model is built on.
//
// A model is an explicit Schema: an ordered table of Attribute descriptors
// registered while packages initialise. Objects are ordered attribute values
// checked against that table. Construct turns a parsed payload into an Object,
// ToMapping turns it back. Polymorphic models pick their concrete schema from an
// enum discriminator (see DefinePolymorphic and Variant).
//
// Objects are not safe for concurrent mutation.
package model

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"toloka-kit/domain/enum"
	"toloka-kit/errors"

	"github.com/samber/lo"
)

// Mapping is a parsed JSON object.
type Mapping = map[string]any

var discard = slog.New(slog.DiscardHandler)

type options struct {
	server bool
	log    *slog.Logger
}

type Option func(*options)

// FromServer marks the input as server data: readonly keys are accepted,
// missing required fields are tolerated and attribute rules are not checked.
func FromServer() Option { return func(o *options) { o.server = true } }

func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func newOptions(opts []Option) *options {
	cfg := &options{log: discard}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Object is an instance of a Schema.
type Object struct {
	schema     *Schema
	values     map[string]any
	unknown    Mapping
	unresolved string
}

// New returns an empty client-authored object with defaults applied.
// A variant gets its discriminator value preset.
func New(s *Schema) *Object {
	o := &Object{schema: s, values: make(map[string]any)}
	for _, a := range s.attrs {
		if v, ok := a.makeDefault(); ok {
			o.values[a.Name] = v
		}
	}
	if field, ok := s.Discriminator(); ok && !s.tag.IsZero() {
		o.values[field] = s.tag
	}
	return o
}

// Construct builds an object of s, or of the variant of s its discriminator selects.
// Keys that match no attribute are kept aside and emitted again by ToMapping.
func Construct(s *Schema, values Mapping, opts ...Option) (*Object, error) {
	return construct(s, values, newOptions(opts))
}

func construct(s *Schema, values Mapping, cfg *options) (*Object, error) {
	concrete, unresolved, err := s.Resolve(values)
	if err != nil {
		return nil, err
	}
	if unresolved != "" {
		field, _ := s.Discriminator()
		cfg.log.Warn("No variant registered, falling back to base model",
			"model", s.name, "field", field, "value", unresolved)
	}
	o := &Object{schema: concrete, values: make(map[string]any), unresolved: unresolved}
	field, polymorphic := concrete.Discriminator()

	var missing []string
	consumed := make(map[string]struct{}, len(values))
	for _, a := range concrete.attrs {
		raw, present := values[a.WireName()]
		if present {
			consumed[a.WireName()] = struct{}{}
		}
		if !present || raw == nil {
			if v, ok := a.makeDefault(); ok {
				o.values[a.Name] = v
			} else if a.Required && !cfg.server {
				missing = append(missing, a.Name)
			}
			continue
		}
		isDiscriminator := polymorphic && a.Name == field
		if a.Readonly && !cfg.server && !isDiscriminator {
			return nil, &errors.ValidationError{Model: concrete.name, Fields: []string{a.Name}, Err: errors.ErrReadonlyKey}
		}
		v, err := concrete.coerce(a, raw, cfg)
		if err != nil {
			return nil, err
		}
		if v != nil {
			o.values[a.Name] = v
		}
	}
	if polymorphic && !concrete.tag.IsZero() {
		o.values[field] = concrete.tag
	}
	if len(missing) > 0 {
		return nil, &errors.ValidationError{Model: concrete.name, Fields: missing, Err: errors.ErrMissingField}
	}
	for k, v := range values {
		if _, ok := consumed[k]; ok {
			continue
		}
		if o.unknown == nil {
			o.unknown = make(Mapping)
		}
		o.unknown[k] = copyValue(v)
	}
	return o, nil
}

// coerce converts raw for attribute a. Rules only bind client-authored values.
func (s *Schema) coerce(a Attribute, raw any, cfg *options) (any, error) {
	v, err := a.Type.coerce(raw, cfg)
	if err != nil {
		return nil, fieldError(s.name, a.Name, err)
	}
	if v == nil || cfg.server {
		return v, nil
	}
	if err := a.applyRules(s.name, v); err != nil {
		return nil, err
	}
	return v, nil
}

// fieldError attributes err to field, prefixing nested field paths.
func fieldError(model, field string, err error) error {
	var nested *errors.ValidationError
	if stderrors.As(err, &nested) {
		fields := lo.Map(nested.Fields, func(f string, _ int) string { return field + "." + f })
		if len(fields) == 0 {
			fields = []string{field}
		}
		return &errors.ValidationError{Model: model, Fields: fields, Reason: nested.Reason, Err: nested.Err}
	}
	return &errors.ValidationError{Model: model, Fields: []string{field}, Reason: err.Error(), Err: errors.ErrWrongType}
}

// Model lets embedding types satisfy Modeler.
func (o *Object) Model() *Object { return o }

func (o *Object) Schema() *Schema { return o.schema }

// Get returns the value of an attribute and whether it is set.
func (o *Object) Get(name string) (any, bool) {
	v, ok := o.values[name]
	return v, ok
}

func (o *Object) Has(name string) bool {
	_, ok := o.values[name]
	return ok
}

// Field returns the value of an attribute as T.
func Field[T any](o *Object, name string) (T, bool) {
	var zero T
	if o == nil {
		return zero, false
	}
	v, ok := o.values[name]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Set assigns an attribute. Readonly attributes fail with an ImmutabilityError,
// values that cannot be coerced with a ValidationError. Setting nil unsets.
func (o *Object) Set(name string, v any) error {
	a, err := o.writable(name)
	if err != nil {
		return err
	}
	if v == nil {
		delete(o.values, name)
		return nil
	}
	x, err := o.schema.coerce(a, v, &options{log: discard})
	if err != nil {
		return err
	}
	if x == nil {
		delete(o.values, name)
		return nil
	}
	o.values[name] = x
	return nil
}

// Unset removes an attribute value with the same guards as Set.
func (o *Object) Unset(name string) error {
	if _, err := o.writable(name); err != nil {
		return err
	}
	delete(o.values, name)
	return nil
}

func (o *Object) writable(name string) (Attribute, error) {
	a, ok := o.schema.Attribute(name)
	if !ok {
		return Attribute{}, &errors.ValidationError{Model: o.schema.name, Fields: []string{name}, Err: errors.ErrUnknownField}
	}
	if a.Readonly {
		return Attribute{}, &errors.ImmutabilityError{Model: o.schema.name, Field: name}
	}
	return a, nil
}

// Unknown returns the keys of the input that matched no attribute.
func (o *Object) Unknown() Mapping {
	out := make(Mapping, len(o.unknown))
	for k, v := range o.unknown {
		out[k] = copyValue(v)
	}
	return out
}

// UnresolvedVariant reports a discriminator value no variant was registered for.
func (o *Object) UnresolvedVariant() (string, bool) {
	return o.unresolved, o.unresolved != ""
}

// Complete checks that every required attribute is set, nested objects included,
// so the object can be sent to the server.
func (o *Object) Complete() error {
	var missing []string
	for _, a := range o.schema.attrs {
		v, ok := o.values[a.Name]
		if !ok {
			if a.Required && !a.Readonly {
				missing = append(missing, a.Name)
			}
			continue
		}
		if nested, ok := v.(*Object); ok {
			var ve *errors.ValidationError
			if err := nested.Complete(); stderrors.As(err, &ve) {
				for _, f := range ve.Fields {
					missing = append(missing, a.Name+"."+f)
				}
			}
		}
	}
	if len(missing) > 0 {
		return &errors.ValidationError{Model: o.schema.name, Fields: missing, Err: errors.ErrMissingField}
	}
	return nil
}

// Equal reports structural equality: same concrete schema, same values and
// same unknown keys.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.schema != other.schema || len(o.values) != len(other.values) || len(o.unknown) != len(other.unknown) {
		return false
	}
	for k, v := range o.values {
		w, ok := other.values[k]
		if !ok || !valueEqual(v, w) {
			return false
		}
	}
	for k, v := range o.unknown {
		w, ok := other.unknown[k]
		if !ok || !valueEqual(v, w) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	c := &Object{schema: o.schema, values: make(map[string]any, len(o.values)), unresolved: o.unresolved}
	for k, v := range o.values {
		c.values[k] = copyValue(v)
	}
	if o.unknown != nil {
		c.unknown = o.Unknown()
	}
	return c
}

// String renders the object like Training(project_id="p1", status=OPEN).
func (o *Object) String() string {
	if o == nil {
		return "<nil>"
	}
	var parts []string
	for _, a := range o.schema.attrs {
		v, ok := o.values[a.Name]
		if !ok {
			continue
		}
		parts = append(parts, a.Name+"="+repr(v))
	}
	for _, k := range o.unknownKeys() {
		parts = append(parts, k+"="+repr(o.unknown[k]))
	}
	return o.schema.name + "(" + strings.Join(parts, ", ") + ")"
}

func repr(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case time.Time:
		return FormatDateTime(x)
	case enum.Value:
		return x.String()
	case []any:
		return "[" + strings.Join(lo.Map(x, func(e any, _ int) string { return repr(e) }), ", ") + "]"
	case map[string]any:
		keys := lo.Keys(x)
		sort.Strings(keys)
		return "{" + strings.Join(lo.Map(keys, func(k string, _ int) string { return fmt.Sprintf("%q: %s", k, repr(x[k])) }), ", ") + "}"
	}
	return fmt.Sprintf("%v", v)
}

func (o *Object) unknownKeys() []string {
	keys := lo.Keys(o.unknown)
	sort.Strings(keys)
	return keys
}
