package model

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// ToMapping serialises set attributes under their wire names. Nested objects
// become mappings, enums and datetimes become strings, and unknown keys kept by
// Construct are emitted again.
func (o *Object) ToMapping() Mapping {
	m := make(Mapping, len(o.values)+len(o.unknown))
	for _, a := range o.schema.attrs {
		if v, ok := o.values[a.Name]; ok {
			m[a.WireName()] = wire(v)
		}
	}
	for k, v := range o.unknown {
		if _, taken := m[k]; !taken {
			m[k] = copyValue(v)
		}
	}
	return m
}

// Outbound returns the mapping to send to the server once every required
// attribute is set.
func (o *Object) Outbound() (Mapping, error) {
	if err := o.Complete(); err != nil {
		return nil, err
	}
	return o.ToMapping(), nil
}

type entry struct {
	key   string
	value any
}

// entries lists wire keys in schema order followed by sorted unknown keys.
func (o *Object) entries() []entry {
	var out []entry
	for _, a := range o.schema.attrs {
		if v, ok := o.values[a.Name]; ok {
			out = append(out, entry{a.WireName(), v})
		}
	}
	for _, k := range o.unknownKeys() {
		if _, taken := o.schema.byWire[k]; !taken {
			out = append(out, entry{k, o.unknown[k]})
		}
	}
	return out
}

// MarshalJSON writes keys in schema order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, e := range o.entries() {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(e.key)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		val, err := marshalValue(e.value)
		if err != nil {
			return nil, err
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func marshalValue(v any) ([]byte, error) {
	switch x := v.(type) {
	case *Object:
		return x.MarshalJSON()
	case []any:
		var b bytes.Buffer
		b.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				b.WriteByte(',')
			}
			raw, err := marshalValue(e)
			if err != nil {
				return nil, err
			}
			b.Write(raw)
		}
		b.WriteByte(']')
		return b.Bytes(), nil
	}
	return json.Marshal(wire(v))
}

// MarshalYAML renders the object as an ordered mapping node.
func (o *Object) MarshalYAML() (interface{}, error) {
	return o.yamlNode()
}

func (o *Object) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range o.entries() {
		value, err := yamlValue(e.value)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.key},
			value,
		)
	}
	return node, nil
}

func yamlValue(v any) (*yaml.Node, error) {
	switch x := v.(type) {
	case *Object:
		return x.yamlNode()
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range x {
			item, err := yamlValue(e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, item)
		}
		return node, nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return yamlValue(i)
		}
		if f, err := x.Float64(); err == nil {
			return yamlValue(f)
		}
	}
	node := &yaml.Node{}
	if err := node.Encode(wire(v)); err != nil {
		return nil, err
	}
	return node, nil
}
