// Package ast models the reference node schema banyan translates into: the
// whitequark parser gem's s-expression trees, with exact source ranges.
//
// Nodes carry no parent or back pointers. Anything that needs to associate
// extra data with a node (source text, diff paths) keeps it out-of-band, so
// deep equality is a plain structural walk with no cycle guards.
package ast

import "github.com/ruby-syntax-tree/banyan/loc"

// Name is a Ruby symbol appearing as a child value, e.g. the :foo in
// (sym :foo) or the method name in (send nil :puts).
type Name string

// Node is one node in the reference tree.
//
// Children holds a mix of child values in the fixed order the whitequark
// schema defines for the node type. Each element is one of:
//
//	*Node    — a child node
//	Name     — a Ruby symbol (method, variable, constant names)
//	string   — a string literal payload
//	int64    — an integer literal payload
//	float64  — a float literal payload
//	nil      — an absent slot (e.g. the else branch of an if)
type Node struct {
	Type     Type
	Children []any
	Range    loc.Range
}

// New builds a Node. Children are stored as given, including nil slots.
func New(t Type, rng loc.Range, children ...any) *Node {
	return &Node{Type: t, Children: children, Range: rng}
}

// Child returns the i-th child, or nil if the index is out of bounds.
func (n *Node) Child(i int) any {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// ChildNode returns the i-th child as a *Node, or nil if it is absent or
// not a node.
func (n *Node) ChildNode(i int) *Node {
	c, _ := n.Child(i).(*Node)
	return c
}
