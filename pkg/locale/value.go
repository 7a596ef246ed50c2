package locale

import (
	"bytes"
	"encoding/json"
	"errors"
	"iter"
	"slices"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Kind is the JSON type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

var errNotObject = errors.New("content is not a JSON object")

// Value is a tagged JSON value stored under one key of a ContentMap.
// Strings keep their decoded text; every other kind keeps its compact JSON
// encoding. Objects and arrays are carried through untouched and are not
// indexed by Flatten or Filter.
type Value struct {
	text string
	raw  string
	kind Kind
}

// StringValue returns a string Value.
func StringValue(s string) Value {
	return Value{kind: KindString, text: s}
}

// ParseValue decodes any JSON document into a Value.
func ParseValue(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Value{}, errors.New("invalid JSON value")
	}
	return valueOf(gjson.ParseBytes(data)), nil
}

func valueOf(r gjson.Result) Value {
	switch r.Type {
	case gjson.String:
		return Value{kind: KindString, text: r.String()}
	case gjson.Number:
		return Value{kind: KindNumber, raw: r.Raw}
	case gjson.True, gjson.False:
		return Value{kind: KindBool, raw: r.Raw}
	case gjson.Null:
		return Value{kind: KindNull, raw: "null"}
	}

	kind := KindObject
	if r.IsArray() {
		kind = KindArray
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(r.Raw)); err != nil {
		return Value{kind: kind, raw: r.Raw}
	}
	return Value{kind: kind, raw: buf.String()}
}

// Kind returns the JSON type of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsScalar reports whether the value is a string, number, bool or null.
func (v Value) IsScalar() bool {
	return v.kind != KindObject && v.kind != KindArray
}

// Text returns the display text of a scalar value. Strings are returned
// as-is, other scalars as their JSON literal. ok is false for objects and arrays.
func (v Value) Text() (text string, ok bool) {
	switch {
	case v.kind == KindString:
		return v.text, true
	case v.IsScalar():
		return v.raw, true
	default:
		return "", false
	}
}

// String returns the text of a string value and the JSON encoding of anything else.
func (v Value) String() string {
	if v.kind == KindString {
		return v.text
	}
	return v.raw
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindString {
		return encodeString(v.text)
	}
	if v.raw == "" {
		return []byte("null"), nil
	}
	return []byte(v.raw), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML renders scalars as plain YAML scalars and composite values
// as their JSON text.
func (v Value) MarshalYAML() (any, error) {
	return yamlNode(v), nil
}

func yamlNode(v Value) *yaml.Node {
	node := &yaml.Node{Kind: yaml.ScalarNode, Value: v.String()}
	switch v.kind {
	case KindString, KindObject, KindArray:
		node.Tag = "!!str"
	case KindNull:
		node.Tag = "!!null"
	}
	return node
}

// ContentMap is the ordered key/value content of one namespace file.
// Keys keep the order in which they were first inserted; replacing a value
// keeps its position. The zero value is not usable, use NewContentMap.
type ContentMap struct {
	values map[string]Value
	keys   []string
}

// NewContentMap returns an empty ContentMap.
func NewContentMap() *ContentMap {
	return &ContentMap{values: make(map[string]Value)}
}

// Len returns the number of keys.
func (m *ContentMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in stored order.
func (m *ContentMap) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Get returns the value stored under key.
func (m *ContentMap) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Set inserts or replaces the value stored under key.
func (m *ContentMap) Set(key string, v Value) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Delete removes key and reports whether it was present.
func (m *ContentMap) Delete(key string) bool {
	if _, exists := m.values[key]; !exists {
		return false
	}
	delete(m.values, key)
	if i := slices.Index(m.keys, key); i >= 0 {
		m.keys = slices.Delete(m.keys, i, i+1)
	}
	return true
}

// All iterates over the key/value pairs in stored order.
func (m *ContentMap) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Clone returns an independent copy.
func (m *ContentMap) Clone() *ContentMap {
	if m == nil {
		return nil
	}
	c := &ContentMap{
		values: make(map[string]Value, len(m.values)),
		keys:   slices.Clone(m.keys),
	}
	for k, v := range m.values {
		c.values[k] = v
	}
	return c
}

// MarshalJSON encodes the map as a JSON object in key order.
func (m *ContentMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeString(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := m.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping document key order.
// A key repeated in the document keeps its first position and last value.
func (m *ContentMap) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("malformed JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return errNotObject
	}

	fresh := NewContentMap()
	doc.ForEach(func(key, value gjson.Result) bool {
		fresh.Set(key.String(), valueOf(value))
		return true
	})
	*m = *fresh
	return nil
}

// MarshalYAML keeps key order when the map is rendered as YAML.
func (m *ContentMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range m.All() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			yamlNode(v),
		)
	}
	return node, nil
}

// encodeString encodes s as a JSON string without HTML escaping, so
// translations containing markup stay readable on disk.
func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
