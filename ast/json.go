package ast

import (
	"encoding/json"
	"fmt"

	"github.com/ruby-syntax-tree/banyan/loc"
)

// JSON codec for reference trees. This is the wire format the Ruby oracle
// bridge emits and the format recorded fixtures are stored in.
//
// A node is {"type": "...", "range": [so, sl, sc, eo, el, ec], "children":
// [...]}. Non-node children are tagged one-key objects ({"sym": "foo"},
// {"str": "a"}, {"int": 1}, {"float": 1.5}) and absent slots are null.

type nodeJSON struct {
	Type     string            `json:"type"`
	Range    [6]int            `json:"range"`
	Children []json.RawMessage `json:"children,omitempty"`
}

type childJSON struct {
	Node  *Node    `json:"node,omitempty"`
	Sym   *string  `json:"sym,omitempty"`
	Str   *string  `json:"str,omitempty"`
	Int   *int64   `json:"int,omitempty"`
	Float *float64 `json:"float,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{
		Type: n.Type.String(),
		Range: [6]int{
			n.Range.Start.Offset, n.Range.Start.Line, n.Range.Start.Col,
			n.Range.End.Offset, n.Range.End.Line, n.Range.End.Col,
		},
	}
	for i, c := range n.Children {
		raw, err := marshalChild(c)
		if err != nil {
			return nil, fmt.Errorf("ast: marshal child %d of %s: %w", i, n.Type, err)
		}
		out.Children = append(out.Children, raw)
	}
	return json.Marshal(out)
}

func marshalChild(c any) (json.RawMessage, error) {
	switch v := c.(type) {
	case nil:
		return json.RawMessage("null"), nil
	case *Node:
		return json.Marshal(v)
	case Name:
		s := string(v)
		return json.Marshal(childJSON{Sym: &s})
	case string:
		return json.Marshal(childJSON{Str: &v})
	case int64:
		return json.Marshal(childJSON{Int: &v})
	case float64:
		return json.Marshal(childJSON{Float: &v})
	default:
		return nil, fmt.Errorf("unsupported child value %T", c)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("ast: decode node: %w", err)
	}
	t, err := TypeFromString(raw.Type)
	if err != nil {
		return err
	}
	n.Type = t
	n.Range = loc.NewRange(raw.Range[0], raw.Range[1], raw.Range[2], raw.Range[3], raw.Range[4], raw.Range[5])
	n.Children = nil
	for i, msg := range raw.Children {
		c, err := unmarshalChild(msg)
		if err != nil {
			return fmt.Errorf("ast: decode child %d of %s: %w", i, raw.Type, err)
		}
		n.Children = append(n.Children, c)
	}
	return nil
}

func unmarshalChild(msg json.RawMessage) (any, error) {
	if string(msg) == "null" {
		return nil, nil
	}
	// Distinguish a node object from a tagged literal by its keys.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(msg, &probe); err != nil {
		return nil, err
	}
	if _, ok := probe["type"]; ok {
		var child Node
		if err := json.Unmarshal(msg, &child); err != nil {
			return nil, err
		}
		return &child, nil
	}
	var tagged childJSON
	if err := json.Unmarshal(msg, &tagged); err != nil {
		return nil, err
	}
	switch {
	case tagged.Node != nil:
		return tagged.Node, nil
	case tagged.Sym != nil:
		return Name(*tagged.Sym), nil
	case tagged.Str != nil:
		return *tagged.Str, nil
	case tagged.Int != nil:
		return *tagged.Int, nil
	case tagged.Float != nil:
		return *tagged.Float, nil
	}
	return nil, fmt.Errorf("unrecognized child value %s", string(msg))
}
