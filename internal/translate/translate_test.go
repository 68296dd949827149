package translate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruby-syntax-tree/banyan/ast"
	"github.com/ruby-syntax-tree/banyan/internal/syntax"
)

func translateSrc(t *testing.T, src string) *ast.Node {
	t.Helper()
	tree, err := syntax.Parse(context.Background(), []byte(src))
	require.NoError(t, err, "parse %q", src)
	root, err := Tree(tree)
	require.NoError(t, err, "translate %q", src)
	require.NotNil(t, root)
	return root
}

func nodeChild(t *testing.T, n *ast.Node, i int) *ast.Node {
	t.Helper()
	c := n.ChildNode(i)
	require.NotNil(t, c, "%s child %d is not a node", n.Type, i)
	return c
}

func TestTranslateAlias(t *testing.T) {
	n := translateSrc(t, "alias foo bar\n")
	require.Equal(t, ast.Alias, n.Type)
	assert.Equal(t, 0, n.Range.Start.Offset)
	assert.Equal(t, 13, n.Range.End.Offset)

	newName := nodeChild(t, n, 0)
	assert.Equal(t, ast.Sym, newName.Type)
	assert.Equal(t, ast.Name("foo"), newName.Children[0])
	assert.Equal(t, 6, newName.Range.Start.Offset)
	assert.Equal(t, 9, newName.Range.End.Offset)

	oldName := nodeChild(t, n, 1)
	assert.Equal(t, ast.Sym, oldName.Type)
	assert.Equal(t, ast.Name("bar"), oldName.Children[0])
}

func TestTranslateVarAlias(t *testing.T) {
	n := translateSrc(t, "alias $foo $bar\n")
	require.Equal(t, ast.Alias, n.Type)
	assert.Equal(t, ast.GVar, nodeChild(t, n, 0).Type)
	assert.Equal(t, ast.Name("$bar"), nodeChild(t, n, 1).Children[0])
}

func TestTranslateIdentifierIsSend(t *testing.T) {
	n := translateSrc(t, "foo\n")
	require.Equal(t, ast.Send, n.Type)
	require.Len(t, n.Children, 2)
	assert.Nil(t, n.Children[0])
	assert.Equal(t, ast.Name("foo"), n.Children[1])
}

func TestTranslateAssignments(t *testing.T) {
	n := translateSrc(t, "x = 1\n")
	require.Equal(t, ast.LVasgn, n.Type)
	assert.Equal(t, ast.Name("x"), n.Children[0])
	assert.Equal(t, 5, n.Range.End.Offset)
	assert.Equal(t, ast.Int, nodeChild(t, n, 1).Type)

	n = translateSrc(t, "@x = 1\n")
	require.Equal(t, ast.IVasgn, n.Type)
	assert.Equal(t, ast.Name("@x"), n.Children[0])

	n = translateSrc(t, "X = 1\n")
	require.Equal(t, ast.Casgn, n.Type)
	assert.Nil(t, n.Children[0])
	assert.Equal(t, ast.Name("X"), n.Children[1])

	n = translateSrc(t, "a.b = 1\n")
	require.Equal(t, ast.Send, n.Type)
	assert.Equal(t, ast.Name("b="), n.Children[1])
}

func TestTranslateOpAssign(t *testing.T) {
	n := translateSrc(t, "x += 1\n")
	require.Equal(t, ast.OpAsgn, n.Type)
	lhs := nodeChild(t, n, 0)
	assert.Equal(t, ast.LVasgn, lhs.Type)
	require.Len(t, lhs.Children, 1, "embedded target carries no value")
	assert.Equal(t, 1, lhs.Range.End.Offset)
	assert.Equal(t, ast.Name("+"), n.Children[1])
	assert.Equal(t, ast.Int, nodeChild(t, n, 2).Type)

	n = translateSrc(t, "x ||= 1\n")
	require.Equal(t, ast.OrAsgn, n.Type)
	require.Len(t, n.Children, 2)

	n = translateSrc(t, "x &&= 1\n")
	require.Equal(t, ast.AndAsgn, n.Type)
}

func TestTranslateBinaryAndUnary(t *testing.T) {
	n := translateSrc(t, "1 + 2\n")
	require.Equal(t, ast.Send, n.Type)
	assert.Equal(t, ast.Name("+"), n.Children[1])

	n = translateSrc(t, "!ok\n")
	require.Equal(t, ast.Send, n.Type)
	assert.Equal(t, ast.Name("!"), n.Children[1])

	n = translateSrc(t, "-x\n")
	require.Equal(t, ast.Send, n.Type)
	assert.Equal(t, ast.Name("-@"), n.Children[1])
}

func TestTranslateNegativeLiteral(t *testing.T) {
	n := translateSrc(t, "-5\n")
	require.Equal(t, ast.Int, n.Type)
	assert.Equal(t, int64(-5), n.Children[0])
	// The sign folds into the literal and widens its range.
	assert.Equal(t, 0, n.Range.Start.Offset)
	assert.Equal(t, 2, n.Range.End.Offset)

	n = translateSrc(t, "-2.5\n")
	require.Equal(t, ast.Float, n.Type)
	assert.Equal(t, -2.5, n.Children[0])
}

func TestTranslateUnlessSwapsBranches(t *testing.T) {
	n := translateSrc(t, "unless a\n  b\nend\n")
	require.Equal(t, ast.If, n.Type)
	require.Len(t, n.Children, 3)
	assert.Nil(t, n.Children[1], "unless puts its body in the else slot")
	body := nodeChild(t, n, 2)
	assert.Equal(t, ast.Send, body.Type)
}

func TestTranslateModifierIf(t *testing.T) {
	n := translateSrc(t, "foo if bar\n")
	require.Equal(t, ast.If, n.Type)
	cond := nodeChild(t, n, 0)
	assert.Equal(t, ast.Name("bar"), cond.Children[1])
	assert.Equal(t, ast.Name("foo"), nodeChild(t, n, 1).Children[1])
	assert.Nil(t, n.Children[2])
}

func TestTranslateTernary(t *testing.T) {
	n := translateSrc(t, "a ? 1 : 2\n")
	require.Equal(t, ast.If, n.Type)
	assert.Equal(t, ast.Int, nodeChild(t, n, 1).Type)
	assert.Equal(t, ast.Int, nodeChild(t, n, 2).Type)
}

func TestTranslateWhilePost(t *testing.T) {
	n := translateSrc(t, "begin\n  x\nend while y\n")
	require.Equal(t, ast.WhilePost, n.Type)
	body := nodeChild(t, n, 1)
	assert.Equal(t, ast.KwBegin, body.Type)

	n = translateSrc(t, "x while y\n")
	require.Equal(t, ast.While, n.Type)
}

func TestTranslateStringLiteral(t *testing.T) {
	n := translateSrc(t, `"hi there"` + "\n")
	require.Equal(t, ast.Str, n.Type)
	assert.Equal(t, "hi there", n.Children[0])
	// The str range includes the quotes.
	assert.Equal(t, 0, n.Range.Start.Offset)
	assert.Equal(t, 10, n.Range.End.Offset)

	n = translateSrc(t, `"a\nb"` + "\n")
	require.Equal(t, ast.Str, n.Type)
	assert.Equal(t, "a\nb", n.Children[0])
}

func TestTranslateStringInterp(t *testing.T) {
	n := translateSrc(t, `"hi #{name}!"` + "\n")
	require.Equal(t, ast.DStr, n.Type)
	require.Len(t, n.Children, 3)

	lead := nodeChild(t, n, 0)
	assert.Equal(t, ast.Str, lead.Type)
	assert.Equal(t, "hi ", lead.Children[0])

	interp := nodeChild(t, n, 1)
	require.Equal(t, ast.Begin, interp.Type)
	assert.Equal(t, ast.Send, nodeChild(t, interp, 0).Type)

	tail := nodeChild(t, n, 2)
	assert.Equal(t, "!", tail.Children[0])
}

func TestTranslateStringConcat(t *testing.T) {
	n := translateSrc(t, `"a" "b"` + "\n")
	require.Equal(t, ast.DStr, n.Type)
	require.Len(t, n.Children, 2)
	assert.Equal(t, 0, n.Range.Start.Offset)
	assert.Equal(t, 7, n.Range.End.Offset)
}

func TestTranslateRegexp(t *testing.T) {
	n := translateSrc(t, "/ab c/im\n")
	require.Equal(t, ast.Regexp, n.Type)
	require.Len(t, n.Children, 2)
	assert.Equal(t, ast.Str, nodeChild(t, n, 0).Type)

	opts := nodeChild(t, n, 1)
	require.Equal(t, ast.Regopt, opts.Type)
	assert.Equal(t, []any{ast.Name("i"), ast.Name("m")}, opts.Children)
	assert.Equal(t, 6, opts.Range.Start.Offset)
	assert.Equal(t, 8, opts.Range.End.Offset)
}

func TestTranslateWordArrays(t *testing.T) {
	n := translateSrc(t, "%w[ab cd]\n")
	require.Equal(t, ast.Array, n.Type)
	require.Len(t, n.Children, 2)
	first := nodeChild(t, n, 0)
	assert.Equal(t, ast.Str, first.Type)
	assert.Equal(t, "ab", first.Children[0])
	assert.Equal(t, 3, first.Range.Start.Offset)

	n = translateSrc(t, "%i[ab cd]\n")
	require.Equal(t, ast.Array, n.Type)
	assert.Equal(t, ast.Sym, nodeChild(t, n, 0).Type)
}

func TestTranslateCollections(t *testing.T) {
	n := translateSrc(t, "[1, *rest]\n")
	require.Equal(t, ast.Array, n.Type)
	assert.Equal(t, ast.Splat, nodeChild(t, n, 1).Type)

	n = translateSrc(t, "{ a: 1 }\n")
	require.Equal(t, ast.Hash, n.Type)
	pair := nodeChild(t, n, 0)
	require.Equal(t, ast.Pair, pair.Type)
	assert.Equal(t, ast.Sym, nodeChild(t, pair, 0).Type)

	n = translateSrc(t, "1..5\n")
	require.Equal(t, ast.IRange, n.Type)
	n = translateSrc(t, "1...5\n")
	require.Equal(t, ast.ERange, n.Type)
}

func TestTranslateCall(t *testing.T) {
	n := translateSrc(t, "foo.bar(1, 2)\n")
	require.Equal(t, ast.Send, n.Type)
	require.Len(t, n.Children, 4)
	recv := nodeChild(t, n, 0)
	assert.Equal(t, ast.Send, recv.Type)
	assert.Equal(t, ast.Name("bar"), n.Children[1])
	assert.Equal(t, ast.Int, nodeChild(t, n, 2).Type)
	assert.Equal(t, ast.Int, nodeChild(t, n, 3).Type)
}

func TestTranslateElementReference(t *testing.T) {
	n := translateSrc(t, "h[:k]\n")
	require.Equal(t, ast.Send, n.Type)
	assert.Equal(t, ast.Name("[]"), n.Children[1])
	assert.Equal(t, ast.Sym, nodeChild(t, n, 2).Type)

	n = translateSrc(t, "h[:k] = 1\n")
	require.Equal(t, ast.Send, n.Type)
	assert.Equal(t, ast.Name("[]="), n.Children[1])
	require.Len(t, n.Children, 4)
	assert.Equal(t, ast.Int, nodeChild(t, n, 3).Type)
}

func TestTranslateBlock(t *testing.T) {
	n := translateSrc(t, "list.map { |x| x }\n")
	require.Equal(t, ast.Block, n.Type)
	require.Len(t, n.Children, 3)

	send := nodeChild(t, n, 0)
	require.Equal(t, ast.Send, send.Type)
	assert.Equal(t, ast.Name("map"), send.Children[1])
	// The send covers only the call, not the block.
	assert.Equal(t, 8, send.Range.End.Offset)

	args := nodeChild(t, n, 1)
	require.Equal(t, ast.Args, args.Type)
	arg := nodeChild(t, args, 0)
	assert.Equal(t, ast.Arg, arg.Type)
	assert.Equal(t, ast.Name("x"), arg.Children[0])
}

func TestTranslateDef(t *testing.T) {
	n := translateSrc(t, "def greet(name, count = 1, *rest, &blk)\n  name\nend\n")
	require.Equal(t, ast.Def, n.Type)
	assert.Equal(t, ast.Name("greet"), n.Children[0])

	args := nodeChild(t, n, 1)
	require.Equal(t, ast.Args, args.Type)
	require.Len(t, args.Children, 4)
	assert.Equal(t, ast.Arg, nodeChild(t, args, 0).Type)
	opt := nodeChild(t, args, 1)
	assert.Equal(t, ast.OptArg, opt.Type)
	assert.Equal(t, ast.Name("count"), opt.Children[0])
	assert.Equal(t, ast.RestArg, nodeChild(t, args, 2).Type)
	assert.Equal(t, ast.BlockArg, nodeChild(t, args, 3).Type)
}

func TestTranslateDefEmptyParams(t *testing.T) {
	n := translateSrc(t, "def f\nend\n")
	require.Equal(t, ast.Def, n.Type)
	args := nodeChild(t, n, 1)
	require.Equal(t, ast.Args, args.Type)
	assert.Empty(t, args.Children)
	assert.False(t, args.Range.Valid(), "empty parameter list has no source presence")
}

func TestTranslateDefs(t *testing.T) {
	n := translateSrc(t, "def self.run\nend\n")
	require.Equal(t, ast.Defs, n.Type)
	assert.Equal(t, ast.Self, nodeChild(t, n, 0).Type)
	assert.Equal(t, ast.Name("run"), n.Children[1])
}

func TestTranslateClassModule(t *testing.T) {
	n := translateSrc(t, "class Greeter < Base\nend\n")
	require.Equal(t, ast.Class, n.Type)
	assert.Equal(t, ast.Const, nodeChild(t, n, 0).Type)
	assert.Equal(t, ast.Const, nodeChild(t, n, 1).Type)
	assert.Nil(t, n.Children[2])

	n = translateSrc(t, "module M\n  VERSION = 1\nend\n")
	require.Equal(t, ast.Module, n.Type)
	assert.Equal(t, ast.Casgn, nodeChild(t, n, 1).Type)
}

func TestTranslateScopeResolution(t *testing.T) {
	n := translateSrc(t, "A::B\n")
	require.Equal(t, ast.Const, n.Type)
	scope := nodeChild(t, n, 0)
	assert.Equal(t, ast.Const, scope.Type)
	assert.Equal(t, ast.Name("B"), n.Children[1])

	n = translateSrc(t, "::A\n")
	require.Equal(t, ast.Const, n.Type)
	cbase := nodeChild(t, n, 0)
	require.Equal(t, ast.CBase, cbase.Type)
	assert.Equal(t, 0, cbase.Range.Start.Offset)
	assert.Equal(t, 2, cbase.Range.End.Offset)
}

func TestTranslateBeginRescue(t *testing.T) {
	n := translateSrc(t, "begin\n  work\nrescue Boom => e\n  recover\nend\n")
	require.Equal(t, ast.KwBegin, n.Type)
	require.Len(t, n.Children, 1)

	resc := nodeChild(t, n, 0)
	require.Equal(t, ast.Rescue, resc.Type)
	require.Len(t, resc.Children, 3)
	assert.Equal(t, ast.Send, nodeChild(t, resc, 0).Type)

	rb := nodeChild(t, resc, 1)
	require.Equal(t, ast.Resbody, rb.Type)
	exceptions := nodeChild(t, rb, 0)
	require.Equal(t, ast.Array, exceptions.Type)
	assert.Equal(t, ast.Const, nodeChild(t, exceptions, 0).Type)
	variable := nodeChild(t, rb, 1)
	assert.Equal(t, ast.LVasgn, variable.Type)
	assert.Nil(t, resc.Children[2], "no else clause")
}

func TestTranslateBeginEnsure(t *testing.T) {
	n := translateSrc(t, "begin\n  work\nensure\n  done\nend\n")
	require.Equal(t, ast.KwBegin, n.Type)
	ens := nodeChild(t, n, 0)
	require.Equal(t, ast.Ensure, ens.Type)
	require.Len(t, ens.Children, 2)
	assert.Equal(t, ast.Send, nodeChild(t, ens, 0).Type)
	assert.Equal(t, ast.Send, nodeChild(t, ens, 1).Type)
}

func TestTranslateKwBeginSplice(t *testing.T) {
	n := translateSrc(t, "begin\n  1\n  2\nend\n")
	require.Equal(t, ast.KwBegin, n.Type)
	require.Len(t, n.Children, 2)
	assert.Equal(t, ast.Int, nodeChild(t, n, 0).Type)
	assert.Equal(t, ast.Int, nodeChild(t, n, 1).Type)
}

func TestTranslateRescueModifier(t *testing.T) {
	n := translateSrc(t, "risky rescue fallback\n")
	require.Equal(t, ast.Rescue, n.Type)
	require.Len(t, n.Children, 3)
	rb := nodeChild(t, n, 1)
	require.Equal(t, ast.Resbody, rb.Type)
	// The resbody starts at the rescue keyword.
	assert.Equal(t, 6, rb.Range.Start.Offset)
	assert.Equal(t, 21, rb.Range.End.Offset)
	assert.Nil(t, n.Children[2])
}

func TestTranslateInlineDefRescue(t *testing.T) {
	n := translateSrc(t, "def f\n  work\nrescue\n  nil\nend\n")
	require.Equal(t, ast.Def, n.Type)
	body := nodeChild(t, n, 2)
	require.Equal(t, ast.Rescue, body.Type, "inline rescue has no kwbegin wrapper")
}

func TestTranslateCaseWhen(t *testing.T) {
	n := translateSrc(t, "case x\nwhen 1, 2\n  :low\nelse\n  :high\nend\n")
	require.Equal(t, ast.Case, n.Type)
	require.Len(t, n.Children, 3)

	w := nodeChild(t, n, 1)
	require.Equal(t, ast.When, w.Type)
	require.Len(t, w.Children, 3)
	assert.Equal(t, ast.Int, nodeChild(t, w, 0).Type)
	assert.Equal(t, ast.Sym, nodeChild(t, w, 2).Type)

	assert.Equal(t, ast.Sym, nodeChild(t, n, 2).Type)
}

func TestTranslateCaseNoElse(t *testing.T) {
	n := translateSrc(t, "case x\nwhen 1\n  :one\nend\n")
	require.Equal(t, ast.Case, n.Type)
	require.Len(t, n.Children, 3, "the else slot is present even when empty")
	assert.Nil(t, n.Children[2])
}

func TestTranslateParenWidens(t *testing.T) {
	n := translateSrc(t, "(1)\n")
	require.Equal(t, ast.Begin, n.Type)
	assert.Equal(t, 0, n.Range.Start.Offset)
	assert.Equal(t, 3, n.Range.End.Offset)
	assert.Equal(t, ast.Int, nodeChild(t, n, 0).Type)
}

func TestTranslateStatementsUnion(t *testing.T) {
	n := translateSrc(t, "a\nb\n")
	require.Equal(t, ast.Begin, n.Type)
	require.Len(t, n.Children, 2)
	assert.Equal(t, 0, n.Range.Start.Offset)
	assert.Equal(t, 3, n.Range.End.Offset)
}

func TestTranslateEmptyProgram(t *testing.T) {
	tree, err := syntax.Parse(context.Background(), []byte(""))
	require.NoError(t, err)
	root, err := Tree(tree)
	require.NoError(t, err)
	assert.Nil(t, root)
}

func TestTranslateForLoop(t *testing.T) {
	n := translateSrc(t, "for a in list\n  a\nend\n")
	require.Equal(t, ast.For, n.Type)
	variable := nodeChild(t, n, 0)
	assert.Equal(t, ast.LVasgn, variable.Type)
	assert.Equal(t, ast.Send, nodeChild(t, n, 1).Type)
}

func TestTranslateControlFlow(t *testing.T) {
	src := "def f\n  return 1 if done\n  yield 2\n  loop { break }\nend\n"
	n := translateSrc(t, src)
	require.Equal(t, ast.Def, n.Type)
	body := nodeChild(t, n, 2)
	require.Equal(t, ast.Begin, body.Type)

	cond := nodeChild(t, body, 0)
	require.Equal(t, ast.If, cond.Type)
	ret := nodeChild(t, cond, 1)
	require.Equal(t, ast.Return, ret.Type)
	assert.Equal(t, ast.Int, nodeChild(t, ret, 0).Type)

	y := nodeChild(t, body, 1)
	require.Equal(t, ast.Yield, y.Type)
}
