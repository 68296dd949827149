package syntax

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Tree {
	t.Helper()
	tree, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err, "parse %q", src)
	require.NotNil(t, tree.Root)
	return tree
}

// firstStmt returns the single top-level statement of a program.
func firstStmt(t *testing.T, src string) *Node {
	t.Helper()
	tree := mustParse(t, src)
	require.Equal(t, Program, tree.Root.Kind)
	require.Len(t, tree.Root.Children, 1)
	return tree.Root.Children[0]
}

func TestParseAlias(t *testing.T) {
	n := firstStmt(t, "alias foo bar\n")
	require.Equal(t, Alias, n.Kind)
	require.Len(t, n.Children, 2)
	assert.Equal(t, Ident, n.Children[0].Kind)
	assert.Equal(t, "foo", n.Children[0].Text)
	assert.Equal(t, Ident, n.Children[1].Kind)
	assert.Equal(t, "bar", n.Children[1].Text)

	assert.Equal(t, 0, n.Range.Start.Offset)
	assert.Equal(t, 13, n.Range.End.Offset)
	assert.Equal(t, 6, n.Children[0].Range.Start.Offset)
	assert.Equal(t, 9, n.Children[0].Range.End.Offset)
}

func TestParseVarAlias(t *testing.T) {
	n := firstStmt(t, "alias $foo $bar\n")
	require.Equal(t, VarAlias, n.Kind)
	require.Len(t, n.Children, 2)
	assert.Equal(t, GVar, n.Children[0].Kind)
	assert.Equal(t, "$foo", n.Children[0].Text)
	assert.Equal(t, GVar, n.Children[1].Kind)
	assert.Equal(t, "$bar", n.Children[1].Text)
}

func TestParseAssignment(t *testing.T) {
	n := firstStmt(t, "x = 1\n")
	require.Equal(t, Assign, n.Kind)
	assert.Equal(t, Ident, n.Children[0].Kind)
	assert.Equal(t, Int, n.Children[1].Kind)
	assert.Equal(t, "1", n.Children[1].Text)

	n = firstStmt(t, "@x = :ok\n")
	require.Equal(t, Assign, n.Kind)
	assert.Equal(t, IVar, n.Children[0].Kind)
	assert.Equal(t, "@x", n.Children[0].Text)
	assert.Equal(t, Symbol, n.Children[1].Kind)
	assert.Equal(t, "ok", n.Children[1].Text)
}

func TestParseOperators(t *testing.T) {
	n := firstStmt(t, "1 + 2\n")
	require.Equal(t, Binary, n.Kind)
	assert.Equal(t, "+", n.Text)

	n = firstStmt(t, "a && b\n")
	require.Equal(t, And, n.Kind)
	assert.Equal(t, "&&", n.Text)

	n = firstStmt(t, "a or b\n")
	require.Equal(t, Or, n.Kind)
	assert.Equal(t, "or", n.Text)
}

func TestParseCall(t *testing.T) {
	n := firstStmt(t, "foo.bar(1, 2)\n")
	require.Equal(t, Call, n.Kind)
	assert.Equal(t, "bar", n.Text)

	recv, method, args, block := n.Child(0), n.Child(1), n.Child(2), n.Child(3)
	require.NotNil(t, recv)
	assert.Equal(t, Ident, recv.Kind)
	assert.Equal(t, "foo", recv.Text)
	require.NotNil(t, method)
	assert.Equal(t, "bar", method.Text)
	require.NotNil(t, args)
	require.Equal(t, Args, args.Kind)
	require.Len(t, args.Children, 2)
	assert.Nil(t, block)
}

func TestParseIfElse(t *testing.T) {
	n := firstStmt(t, "if a\n  1\nelsif b\n  2\nelse\n  3\nend\n")
	require.Equal(t, If, n.Kind)
	require.Len(t, n.Children, 3)
	assert.Equal(t, Ident, n.Children[0].Kind)
	assert.Equal(t, Statements, n.Children[1].Kind)

	nested := n.Children[2]
	require.NotNil(t, nested)
	require.Equal(t, If, nested.Kind, "elsif should build a nested If")
	assert.Equal(t, Statements, nested.Children[1].Kind)
	assert.Equal(t, Statements, nested.Children[2].Kind)
}

func TestParseModifierIf(t *testing.T) {
	n := firstStmt(t, "foo if bar\n")
	require.Equal(t, IfMod, n.Kind)
	assert.Equal(t, "bar", n.Children[0].Text)
	assert.Equal(t, "foo", n.Children[1].Text)
}

func TestParseDef(t *testing.T) {
	n := firstStmt(t, "def greet(name, count = 1, *rest, &blk)\n  name\nend\n")
	require.Equal(t, Def, n.Kind)
	assert.Equal(t, "greet", n.Text)

	params := n.Child(0)
	require.NotNil(t, params)
	require.Equal(t, Params, params.Kind)
	require.Len(t, params.Children, 4)
	assert.Equal(t, Ident, params.Children[0].Kind)
	assert.Equal(t, OptParam, params.Children[1].Kind)
	assert.Equal(t, "count", params.Children[1].Text)
	assert.Equal(t, RestParam, params.Children[2].Kind)
	assert.Equal(t, "rest", params.Children[2].Text)
	assert.Equal(t, BlockParam, params.Children[3].Kind)

	body := n.Child(1)
	require.NotNil(t, body)
	assert.Equal(t, Statements, body.Kind)
}

func TestParseCaseWhen(t *testing.T) {
	n := firstStmt(t, "case x\nwhen 1, 2\n  a\nelse\n  b\nend\n")
	require.Equal(t, Case, n.Kind)
	require.Len(t, n.Children, 3)
	assert.Equal(t, Ident, n.Children[0].Kind)

	// Each test expression is unwrapped from the grammar's pattern node.
	w := n.Children[1]
	require.Equal(t, When, w.Kind)
	require.Len(t, w.Children, 3)
	assert.Equal(t, Int, w.Children[0].Kind)
	assert.Equal(t, "1", w.Children[0].Text)
	assert.Equal(t, Int, w.Children[1].Kind)
	assert.Equal(t, "2", w.Children[1].Text)
	assert.Equal(t, Statements, w.Children[2].Kind)

	assert.Equal(t, Statements, n.Children[2].Kind)
}

func TestParseWordArray(t *testing.T) {
	n := firstStmt(t, "%w[ab cd]\n")
	require.Equal(t, WordArray, n.Kind)
	require.Len(t, n.Children, 2)
	assert.Equal(t, "ab", n.Children[0].Text)
	assert.Equal(t, "cd", n.Children[1].Text)
	// Each word keeps its own range.
	assert.Equal(t, 3, n.Children[0].Range.Start.Offset)
	assert.Equal(t, 5, n.Children[0].Range.End.Offset)
	assert.Equal(t, 6, n.Children[1].Range.Start.Offset)
}

func TestParseBeginRescue(t *testing.T) {
	n := firstStmt(t, "begin\n  work\nrescue Boom => e\n  recover\nensure\n  done\nend\n")
	require.Equal(t, Begin, n.Kind)
	require.GreaterOrEqual(t, len(n.Children), 3)
	assert.Equal(t, Statements, n.Children[0].Kind)

	resc := n.Children[1]
	require.Equal(t, Rescue, resc.Kind)
	require.NotNil(t, resc.Child(0))
	assert.Equal(t, Args, resc.Child(0).Kind)
	require.NotNil(t, resc.Child(1))
	assert.Equal(t, "e", resc.Child(1).Text)
	assert.Equal(t, Statements, resc.Child(2).Kind)

	assert.Equal(t, Ensure, n.Children[2].Kind)
}

func TestRangeContainment(t *testing.T) {
	src := `class Greeter < Base
  def greet(name)
    if name
      "hi #{name}"
    else
      %w[hello world].first
    end
  end
end
`
	tree := mustParse(t, src)
	tree.Walk(func(n *Node) {
		for _, c := range n.Children {
			if c == nil {
				continue
			}
			assert.True(t, n.Range.Contains(c.Range),
				"%s %s does not contain child %s %s", n.Kind, n.Range, c.Kind, c.Range)
		}
	})
}

func TestParseDeterminism(t *testing.T) {
	src := "alias foo bar\nx = [1, 2.5, :three]\n"
	a := mustParse(t, src)
	b := mustParse(t, src)
	assert.Equal(t, a.Root, b.Root)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse(context.Background(), []byte("def broken(\n"))
	require.Error(t, err)
	var perr *ParseError
	assert.True(t, errors.As(err, &perr), "want *ParseError, got %T", err)
}
