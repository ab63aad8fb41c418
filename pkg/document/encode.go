// SPDX-License-Identifier: MPL-2.0

package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Encode returns the compact JSON encoding of v with object members in order.
func Encode(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeIndent returns the indented JSON encoding of v.
func EncodeIndent(v Value, indent string) ([]byte, error) {
	compact, err := Encode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler.
func (a *Array) MarshalJSON() ([]byte, error) {
	return Encode(a)
}

// MarshalJSON implements json.Marshaler.
func (o *Object) MarshalJSON() ([]byte, error) {
	return Encode(o)
}

func encodeJSON(buf *bytes.Buffer, v Value) error {
	switch x := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case Bool:
		if x {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		if !json.Valid([]byte(x)) {
			return fmt.Errorf("invalid number literal %q", string(x))
		}
		buf.WriteString(string(x))
	case String:
		quoted, err := json.Marshal(string(x))
		if err != nil {
			return err
		}
		buf.Write(quoted)
	case *Array:
		buf.WriteByte('[')
		for i, item := range x.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Object:
		buf.WriteByte('{')
		for i, k := range x.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			quoted, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(quoted)
			buf.WriteByte(':')
			if err := encodeJSON(buf, x.members[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported value %T", v)
	}
	return nil
}

// YAMLNode converts v into a yaml.v3 node tree. Mapping keys keep the object
// member order.
func YAMLNode(v Value) *yaml.Node {
	switch x := v.(type) {
	case Bool:
		if x {
			return scalar("!!bool", "true")
		}
		return scalar("!!bool", "false")
	case Number:
		return scalar(numberTag(x), string(x))
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(x)}
	case *Array:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range x.items {
			node.Content = append(node.Content, YAMLNode(item))
		}
		return node
	case *Object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range x.keys {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				YAMLNode(x.members[k]),
			)
		}
		return node
	default:
		return scalar("!!null", "null")
	}
}

// EncodeYAML returns the YAML encoding of v.
func EncodeYAML(v Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(YAMLNode(v)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func numberTag(n Number) string {
	if bytes.ContainsAny([]byte(n), ".eE") {
		return "!!float"
	}
	return "!!int"
}
