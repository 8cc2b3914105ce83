package model

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"
	"toloka-kit/domain/enum"
	"toloka-kit/errors"
)

type Kind int

const (
	KindAny Kind = iota
	KindString
	KindBool
	KindInt
	KindFloat
	KindDateTime
	KindEnum
	KindObject
	KindList
	KindMap
)

var kindNames = map[Kind]string{
	KindAny:      "any",
	KindString:   "str",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindDateTime: "datetime",
	KindEnum:     "enum",
	KindObject:   "object",
	KindList:     "list",
	KindMap:      "map",
}

func (k Kind) String() string { return kindNames[k] }

// Type is the declared semantic type of an attribute.
type Type struct {
	kind   Kind
	vocab  *enum.Vocabulary
	schema *Schema
	elem   *Type
	// lenient enums wrap unknown text even for fixed vocabularies
	lenient bool
}

var (
	Any      = Type{kind: KindAny}
	String   = Type{kind: KindString}
	Bool     = Type{kind: KindBool}
	Int      = Type{kind: KindInt}
	Float    = Type{kind: KindFloat}
	DateTime = Type{kind: KindDateTime}
)

func Enum(v *enum.Vocabulary) Type { return Type{kind: KindEnum, vocab: v} }

func ObjectOf(s *Schema) Type { return Type{kind: KindObject, schema: s} }

func ListOf(t Type) Type { return Type{kind: KindList, elem: &t} }

func MapOf(t Type) Type { return Type{kind: KindMap, elem: &t} }

func (t Type) Kind() Kind                   { return t.kind }
func (t Type) Vocabulary() *enum.Vocabulary { return t.vocab }
func (t Type) Schema() *Schema              { return t.schema }

func (t Type) Elem() Type {
	if t.elem == nil {
		return Any
	}
	return *t.elem
}

func (t Type) String() string {
	switch t.kind {
	case KindEnum:
		return t.vocab.Name()
	case KindObject:
		return t.schema.Name()
	case KindList:
		return "list[" + t.Elem().String() + "]"
	case KindMap:
		return "map[str]" + t.Elem().String()
	default:
		return t.kind.String()
	}
}

func (t Type) valid() bool {
	switch t.kind {
	case KindEnum:
		return t.vocab != nil
	case KindObject:
		return t.schema != nil
	case KindList, KindMap:
		return t.elem != nil && t.elem.valid()
	}
	return true
}

// Modeler is implemented by *Object and by every type embedding it.
type Modeler interface {
	Model() *Object
}

// coerce normalises v into the in-memory representation of t:
// string, bool, int, float64, time.Time, enum.Value, *Object, []any or map[string]any.
func (t Type) coerce(v any, cfg *options) (any, error) {
	switch t.kind {
	case KindAny:
		return v, nil
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindInt:
		if i, ok := toInt(v); ok {
			return i, nil
		}
	case KindFloat:
		if f, ok := toFloat(v); ok {
			return f, nil
		}
	case KindDateTime:
		switch x := v.(type) {
		case time.Time:
			return x, nil
		case string:
			at, err := ParseDateTime(x)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", errors.ErrWrongType, err)
			}
			return at, nil
		}
	case KindEnum:
		return t.coerceEnum(v)
	case KindObject:
		return t.coerceObject(v, cfg)
	case KindList:
		return t.coerceList(v, cfg)
	case KindMap:
		return t.coerceMap(v, cfg)
	}
	return nil, fmt.Errorf("%w: expected %s, got %T", errors.ErrWrongType, t, v)
}

func (t Type) coerceEnum(v any) (any, error) {
	switch x := v.(type) {
	case enum.Value:
		if x.IsZero() {
			return nil, fmt.Errorf("%w: zero %s value", errors.ErrWrongType, t.vocab.Name())
		}
		if x.Vocabulary() != t.vocab {
			return nil, fmt.Errorf("%w: %q belongs to %s, expected %s",
				errors.ErrWrongType, x.String(), x.Vocabulary().Name(), t.vocab.Name())
		}
		return x, nil
	case string:
		if t.lenient {
			return t.vocab.Wrap(x), nil
		}
		return t.vocab.Resolve(x)
	}
	return nil, fmt.Errorf("%w: expected %s, got %T", errors.ErrWrongType, t, v)
}

func (t Type) coerceObject(v any, cfg *options) (any, error) {
	switch x := v.(type) {
	case Modeler:
		if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, nil
		}
		o := x.Model()
		if o == nil {
			return nil, nil
		}
		if !o.schema.Is(t.schema) {
			return nil, fmt.Errorf("%w: expected %s, got %s", errors.ErrWrongType, t.schema.name, o.schema.name)
		}
		return o, nil
	case map[string]any:
		return construct(t.schema, x, cfg)
	}
	return nil, fmt.Errorf("%w: expected %s, got %T", errors.ErrWrongType, t, v)
}

func (t Type) coerceList(v any, cfg *options) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: expected %s, got %T", errors.ErrWrongType, t, v)
	}
	elem := t.Elem()
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		x, err := elem.coerce(rv.Index(i).Interface(), cfg)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, x)
	}
	return out, nil
}

func (t Type) coerceMap(v any, cfg *options) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("%w: expected %s, got %T", errors.ErrWrongType, t, v)
	}
	elem := t.Elem()
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		x, err := elem.coerce(iter.Value().Interface(), cfg)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		out[key] = x
	}
	return out, nil
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int8:
		return int(x), true
	case int16:
		return int(x), true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case uint8:
		return int(x), true
	case uint16:
		return int(x), true
	case uint32:
		return int(x), true
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, false
		}
		return int(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int(x), true
	case uintptr:
		if uint64(x) > math.MaxInt64 {
			return 0, false
		}
		return int(x), true
	case float32:
		return toInt(float64(x))
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, which int cannot hold
		if x != math.Trunc(x) || x >= float64(math.MaxInt64) || x < float64(math.MinInt64) {
			return 0, false
		}
		return int(x), true
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i), true
		}
		if f, err := x.Float64(); err == nil {
			return toInt(f)
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	if i, ok := toInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

// wire turns an in-memory value into its mapping form.
func wire(v any) any {
	switch x := v.(type) {
	case time.Time:
		return FormatDateTime(x)
	case enum.Value:
		return x.String()
	case *Object:
		return x.ToMapping()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = wire(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = wire(e)
		}
		return out
	}
	return v
}

func valueEqual(a, b any) bool {
	switch x := a.(type) {
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case *Object:
		y, ok := b.(*Object)
		return ok && x.Equal(y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !valueEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, e := range x {
			f, ok := y[k]
			if !ok || !valueEqual(e, f) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func copyValue(v any) any {
	switch x := v.(type) {
	case *Object:
		return x.Clone()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = copyValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = copyValue(e)
		}
		return out
	}
	return v
}
