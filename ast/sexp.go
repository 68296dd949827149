package ast

import (
	"strings"
)

// Sexp renders the tree in the parser gem's inspect format, with nested
// nodes indented two spaces per level:
//
//	(send nil :puts
//	  (str "hello"))
func (n *Node) Sexp() string {
	var b strings.Builder
	writeSexp(&b, n, 0)
	return b.String()
}

func writeSexp(b *strings.Builder, n *Node, depth int) {
	if n == nil {
		b.WriteString("nil")
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Type.String())
	for _, c := range n.Children {
		if child, ok := c.(*Node); ok && child != nil {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat("  ", depth+1))
			writeSexp(b, child, depth+1)
			continue
		}
		b.WriteByte(' ')
		b.WriteString(childString(c))
	}
	b.WriteByte(')')
}
