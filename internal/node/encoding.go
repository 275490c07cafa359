package node

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON implements json.Marshaler, emitting keys in record order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.Marshaler, emitting keys in record order.
func (r *Record) MarshalYAML() (any, error) {
	if r == nil {
		return nil, nil
	}

	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, k := range r.keys {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}

		val := &yaml.Node{}
		if err := val.Encode(r.values[k]); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}

		out.Content = append(out.Content, key, val)
	}

	return out, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Only mapping nodes are accepted.
func (r *Record) UnmarshalYAML(n *yaml.Node) error {
	rec, err := recordFromYAML(n)
	if err != nil {
		return err
	}

	*r = *rec

	return nil
}

// FromYAML converts a decoded YAML node into the value shapes a Record holds.
// Mappings become *Record, sequences of mappings become []*Record, sequences
// of strings become []string and other sequences become []any.
func FromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}

		return FromYAML(n.Content[0])

	case yaml.AliasNode:
		return FromYAML(n.Alias)

	case yaml.MappingNode:
		return recordFromYAML(n)

	case yaml.SequenceNode:
		return sequenceFromYAML(n)

	case yaml.ScalarNode:
		return scalarFromYAML(n)

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %v", n.Line, n.Kind)
	}
}

func recordFromYAML(n *yaml.Node) (*Record, error) {
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}

	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}

	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", n.Line)
	}

	rec := New()

	for i := 0; i+1 < len(n.Content); i += 2 {
		var key string
		if err := n.Content[i].Decode(&key); err != nil {
			return nil, fmt.Errorf("line %d: invalid key: %w", n.Content[i].Line, err)
		}

		val, err := FromYAML(n.Content[i+1])
		if err != nil {
			return nil, err
		}

		rec.Set(key, val)
	}

	return rec, nil
}

func sequenceFromYAML(n *yaml.Node) (any, error) {
	items := make([]any, 0, len(n.Content))

	allRecords, allStrings := len(n.Content) > 0, len(n.Content) > 0

	for _, c := range n.Content {
		v, err := FromYAML(c)
		if err != nil {
			return nil, err
		}

		switch v.(type) {
		case *Record:
			allStrings = false
		case string:
			allRecords = false
		default:
			allRecords, allStrings = false, false
		}

		items = append(items, v)
	}

	switch {
	case allRecords:
		out := make([]*Record, len(items))
		for i, v := range items {
			out[i] = v.(*Record)
		}

		return out, nil

	case allStrings:
		out := make([]string, len(items))
		for i, v := range items {
			out[i] = v.(string)
		}

		return out, nil

	default:
		return items, nil
	}
}

func scalarFromYAML(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil

	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}

		return b, nil

	case "!!int":
		var i int
		if err := n.Decode(&i); err != nil {
			return nil, err
		}

		return i, nil

	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}

		return f, nil

	default:
		return n.Value, nil
	}
}
