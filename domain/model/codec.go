package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"toloka-kit/errors"

	"github.com/tidwall/gjson"
)

// Decode parses a JSON object and constructs it through s.
// Numbers are kept as json.Number so unknown keys round-trip unchanged.
func Decode(s *Schema, data []byte, opts ...Option) (*Object, error) {
	m, err := DecodeMapping(s, data)
	if err != nil {
		return nil, err
	}
	return Construct(s, m, opts...)
}

// DecodeMapping parses a JSON object meant for s without constructing it.
func DecodeMapping(s *Schema, data []byte) (Mapping, error) {
	if err := checkDocument(s, data); err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m Mapping
	if err := dec.Decode(&m); err != nil {
		return nil, &errors.ValidationError{Model: s.name, Reason: err.Error(), Err: errors.ErrWrongType}
	}
	return m, nil
}

// Peek returns the schema a JSON document would be constructed as, reading
// only the discriminator. The second result is false when the discriminator
// names no registered variant.
func Peek(s *Schema, data []byte) (*Schema, bool, error) {
	if err := checkDocument(s, data); err != nil {
		return nil, false, err
	}
	field, ok := s.Discriminator()
	if !ok {
		return s, true, nil
	}
	a, _ := s.Attribute(field)
	tag := gjson.GetBytes(data, gjson.Escape(a.WireName()))
	if !tag.Exists() || tag.Type == gjson.Null {
		return s, true, nil
	}
	if tag.Type != gjson.String {
		return nil, false, &errors.ValidationError{
			Model:  s.name,
			Fields: []string{field},
			Reason: fmt.Sprintf("discriminator must be a string, got %s", tag.Type),
			Err:    errors.ErrWrongType,
		}
	}
	concrete, unresolved, err := s.Resolve(Mapping{a.WireName(): tag.String()})
	if err != nil {
		return nil, false, err
	}
	return concrete, unresolved == "", nil
}

func checkDocument(s *Schema, data []byte) error {
	if !gjson.ValidBytes(data) {
		return &errors.ValidationError{Model: s.name, Reason: "malformed JSON", Err: errors.ErrWrongType}
	}
	if !gjson.ParseBytes(data).IsObject() {
		return &errors.ValidationError{Model: s.name, Reason: "JSON document is not an object", Err: errors.ErrWrongType}
	}
	return nil
}
