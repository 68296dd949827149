package ast

import (
	"fmt"
	"strconv"
)

// Options control deep comparison.
type Options struct {
	// Ranges enables exact source range comparison on every node. When
	// false only tree shape and literal payloads are compared.
	Ranges bool
}

// Mismatch describes the first point where two trees diverge.
type Mismatch struct {
	Path      string // slash-joined node path, e.g. "begin/1/send"
	Got, Want *Node  // the nearest enclosing nodes at the divergence
	Detail    string // human-readable description of the difference
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("ast: mismatch at %s: %s", m.Path, m.Detail)
}

// Equal reports whether got and want are structurally equal under opts.
func Equal(got, want *Node, opts Options) bool {
	return Compare(got, want, opts) == nil
}

// Compare deep-compares two trees and returns the first mismatch in
// depth-first order, or nil if the trees are equal. Either argument may be
// nil (an absent tree).
func Compare(got, want *Node, opts Options) *Mismatch {
	return compareNode(got, want, "", opts)
}

func compareNode(got, want *Node, path string, opts Options) *Mismatch {
	switch {
	case got == nil && want == nil:
		return nil
	case got == nil:
		return &Mismatch{Path: childPath(path, want.Type.String()), Want: want, Detail: "missing node"}
	case want == nil:
		return &Mismatch{Path: childPath(path, got.Type.String()), Got: got, Detail: "unexpected node"}
	}

	path = childPath(path, got.Type.String())
	if got.Type != want.Type {
		return &Mismatch{Path: path, Got: got, Want: want,
			Detail: fmt.Sprintf("node type %s, want %s", got.Type, want.Type)}
	}
	if opts.Ranges && got.Range != want.Range {
		return &Mismatch{Path: path, Got: got, Want: want,
			Detail: fmt.Sprintf("range %s, want %s", got.Range, want.Range)}
	}
	if len(got.Children) != len(want.Children) {
		return &Mismatch{Path: path, Got: got, Want: want,
			Detail: fmt.Sprintf("%d children, want %d", len(got.Children), len(want.Children))}
	}
	for i := range got.Children {
		if m := compareChild(got.Children[i], want.Children[i], childPath(path, strconv.Itoa(i)), got, want, opts); m != nil {
			return m
		}
	}
	return nil
}

func compareChild(got, want any, path string, gotParent, wantParent *Node, opts Options) *Mismatch {
	gn, gotIsNode := asNode(got)
	wn, wantIsNode := asNode(want)
	switch {
	case gotIsNode && wantIsNode:
		return compareNode(gn, wn, path, opts)
	case gotIsNode != wantIsNode:
		return &Mismatch{Path: path, Got: gotParent, Want: wantParent,
			Detail: fmt.Sprintf("child %s, want %s", childString(got), childString(want))}
	}
	if got != want {
		return &Mismatch{Path: path, Got: gotParent, Want: wantParent,
			Detail: fmt.Sprintf("child %s, want %s", childString(got), childString(want))}
	}
	return nil
}

// asNode classifies a child slot as node-valued. An absent node arrives in
// two forms depending on origin: builders store a typed nil *Node, JSON
// decoding stores an untyped nil. Both classify as a nil node so the two
// forms compare equal.
func asNode(c any) (*Node, bool) {
	if c == nil {
		return nil, true
	}
	n, ok := c.(*Node)
	return n, ok
}

func childPath(base, seg string) string {
	if base == "" {
		return seg
	}
	return base + "/" + seg
}

// childString renders a non-node child value for diagnostics.
func childString(v any) string {
	switch c := v.(type) {
	case nil:
		return "nil"
	case *Node:
		if c == nil {
			return "nil"
		}
		return "(" + c.Type.String() + " ...)"
	case Name:
		return ":" + string(c)
	case string:
		return strconv.Quote(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case float64:
		return strconv.FormatFloat(c, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", c)
	}
}
