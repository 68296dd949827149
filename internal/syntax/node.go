// Package syntax is banyan's primary schema: a typed value tree built from
// the tree-sitter Ruby concrete syntax tree. Nodes are plain Go values with
// no pointers back into tree-sitter's C memory, so a Tree may be kept, sent
// across goroutines, and compared freely after parsing returns.
package syntax

import "github.com/ruby-syntax-tree/banyan/loc"

// Node is one node in the primary tree. The meaning of Text and the layout
// of Children are fixed per Kind; see the Kind documentation.
type Node struct {
	Kind     Kind
	Text     string
	Children []*Node
	Range    loc.Range
}

// NewNode builds a Node. Children may include nil entries for absent slots.
func NewNode(k Kind, text string, rng loc.Range, children ...*Node) *Node {
	return &Node{Kind: k, Text: text, Children: children, Range: rng}
}

// Child returns the i-th child, or nil if the index is out of bounds.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Tree pairs a parsed root with the source it was parsed from. Source text
// rides on the Tree rather than on nodes: nodes hold no back references, so
// structural equality over them never cycles.
type Tree struct {
	Root   *Node
	Source []byte
}

// Walk calls fn for every node in depth-first order, skipping nil slots.
func (t *Tree) Walk(fn func(*Node)) {
	var visit func(*Node)
	visit = func(n *Node) {
		if n == nil {
			return
		}
		fn(n)
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(t.Root)
}
