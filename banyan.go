package banyan

import (
	"context"
	"fmt"

	"github.com/ruby-syntax-tree/banyan/ast"
	"github.com/ruby-syntax-tree/banyan/internal/syntax"
	"github.com/ruby-syntax-tree/banyan/internal/translate"
)

// Translate parses src with the primary parser and maps the tree into the
// reference schema. Returns nil for an empty program.
func Translate(ctx context.Context, src []byte) (*ast.Node, error) {
	tree, err := syntax.Parse(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("banyan: parse: %w", err)
	}
	out, err := translate.Tree(tree)
	if err != nil {
		return nil, fmt.Errorf("banyan: translate: %w", err)
	}
	return out, nil
}
