// Package translate maps banyan's primary trees onto the reference schema:
// a depth-first, single-pass structural translation from internal/syntax
// nodes to whitequark-style ast nodes. Each syntax.Kind has exactly one
// rule. A kind without a rule is a coverage gap and surfaces as a GapError;
// it is a programming error, never a property of the input.
//
// Range policy, per divergence class:
//
//   - Direct mappings copy the primary node's range verbatim.
//   - Synthesized nodes (statement sequences, word-array elements, string
//     concatenation) take the union of their constituents' ranges.
//   - Parenthesized statements keep a begin wrapper spanning the parens;
//     then/do/else keyword wrappers are dropped and the narrower statement
//     ranges kept.
//   - Nodes the reference schema materializes with no source presence (the
//     empty args of a parameterless def) carry loc.None.
package translate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ruby-syntax-tree/banyan/ast"
	"github.com/ruby-syntax-tree/banyan/internal/syntax"
	"github.com/ruby-syntax-tree/banyan/loc"
)

// GapError reports a primary node kind with no translation rule.
type GapError struct {
	Kind  syntax.Kind
	Range loc.Range
}

func (e *GapError) Error() string {
	return fmt.Sprintf("translate: no rule for node kind %s at %s", e.Kind, e.Range)
}

// Tree translates a parsed primary tree into the reference schema. The
// result is nil for an empty program.
func Tree(t *syntax.Tree) (*ast.Node, error) {
	tr := &translator{src: t.Source}
	return tr.node(t.Root)
}

type translator struct {
	src []byte
}

// node dispatches on the primary kind. Kinds that only occur inside a
// parent construct (parameter entries, rescue clauses, when bodies) are
// translated by their parent's rule and rejected here.
func (tr *translator) node(n *syntax.Node) (*ast.Node, error) {
	if n == nil {
		return nil, nil
	}

	switch n.Kind {
	case syntax.Program:
		return tr.wrapSeq(n.Children)
	case syntax.Statements:
		return tr.seq(n)

	case syntax.Alias:
		return tr.alias(n, tr.methodRef)
	case syntax.VarAlias:
		return tr.alias(n, tr.node)
	case syntax.Undef:
		kids := make([]any, 0, len(n.Children))
		for _, c := range n.Children {
			ref, err := tr.methodRef(c)
			if err != nil {
				return nil, err
			}
			kids = append(kids, ref)
		}
		return ast.New(ast.Undef, n.Range, kids...), nil

	case syntax.And, syntax.Or:
		left, err := tr.node(n.Child(0))
		if err != nil {
			return nil, err
		}
		right, err := tr.node(n.Child(1))
		if err != nil {
			return nil, err
		}
		typ := ast.And
		if n.Kind == syntax.Or {
			typ = ast.Or
		}
		return ast.New(typ, n.Range, left, right), nil

	case syntax.Not:
		operand, err := tr.node(n.Child(0))
		if err != nil {
			return nil, err
		}
		return ast.New(ast.Send, n.Range, operand, ast.Name("!")), nil

	case syntax.Defined:
		expr, err := tr.node(n.Child(0))
		if err != nil {
			return nil, err
		}
		return ast.New(ast.Defined, n.Range, expr), nil

	case syntax.Binary:
		left, err := tr.node(n.Child(0))
		if err != nil {
			return nil, err
		}
		right, err := tr.node(n.Child(1))
		if err != nil {
			return nil, err
		}
		return ast.New(ast.Send, n.Range, left, ast.Name(n.Text), right), nil

	case syntax.Unary:
		return tr.unary(n)

	case syntax.Assign:
		value, err := tr.node(n.Child(1))
		if err != nil {
			return nil, err
		}
		return tr.assign(n.Child(0), n.Range, value)

	case syntax.OpAssign:
		return tr.opAssign(n)

	case syntax.Ident:
		// Without local variable resolution every bare identifier is a
		// receiverless send; lvar divergences are carried as permanent
		// suppressions.
		return ast.New(ast.Send, n.Range, nil, ast.Name(n.Text)), nil
	case syntax.Const:
		return ast.New(ast.Const, n.Range, nil, ast.Name(n.Text)), nil
	case syntax.ScopeRes:
		return tr.scopeRes(n)
	case syntax.IVar:
		return ast.New(ast.IVar, n.Range, ast.Name(n.Text)), nil
	case syntax.GVar:
		return ast.New(ast.GVar, n.Range, ast.Name(n.Text)), nil
	case syntax.CVar:
		return ast.New(ast.CVar, n.Range, ast.Name(n.Text)), nil
	case syntax.Self:
		return ast.New(ast.Self, n.Range), nil
	case syntax.Nil:
		return ast.New(ast.Nil, n.Range), nil
	case syntax.True:
		return ast.New(ast.True, n.Range), nil
	case syntax.False:
		return ast.New(ast.False, n.Range), nil

	case syntax.Int:
		v, err := intValue(n.Text)
		if err != nil {
			return nil, fmt.Errorf("translate: integer literal %q at %s: %w", n.Text, n.Range, err)
		}
		return ast.New(ast.Int, n.Range, v), nil
	case syntax.Float:
		v, err := strconv.ParseFloat(strings.ReplaceAll(n.Text, "_", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("translate: float literal %q at %s: %w", n.Text, n.Range, err)
		}
		return ast.New(ast.Float, n.Range, v), nil

	case syntax.String:
		return tr.stringLit(n)
	case syntax.StringConcat:
		return tr.stringConcat(n)
	case syntax.Symbol:
		return ast.New(ast.Sym, n.Range, ast.Name(n.Text)), nil
	case syntax.Regexp:
		return tr.regexp(n)

	case syntax.Array:
		kids, err := tr.nodeList(n.Children)
		if err != nil {
			return nil, err
		}
		return ast.New(ast.Array, n.Range, kids...), nil
	case syntax.WordArray:
		return tr.wordArray(n, ast.Str), nil
	case syntax.SymArray:
		return tr.wordArray(n, ast.Sym), nil
	case syntax.Hash:
		kids, err := tr.nodeList(n.Children)
		if err != nil {
			return nil, err
		}
		return ast.New(ast.Hash, n.Range, kids...), nil
	case syntax.Pair:
		key, err := tr.node(n.Child(0))
		if err != nil {
			return nil, err
		}
		value, err := tr.node(n.Child(1))
		if err != nil {
			return nil, err
		}
		return ast.New(ast.Pair, n.Range, key, value), nil

	case syntax.Range:
		low, err := tr.node(n.Child(0))
		if err != nil {
			return nil, err
		}
		high, err := tr.node(n.Child(1))
		if err != nil {
			return nil, err
		}
		typ := ast.IRange
		if n.Text == "..." {
			typ = ast.ERange
		}
		return ast.New(typ, n.Range, low, high), nil

	case syntax.Call:
		return tr.call(n)
	case syntax.Splat:
		value, err := tr.node(n.Child(0))
		if err != nil {
			return nil, err
		}
		return ast.New(ast.Splat, n.Range, value), nil
	case syntax.BlockPass:
		value, err := tr.node(n.Child(0))
		if err != nil {
			return nil, err
		}
		return ast.New(ast.BlockPass, n.Range, value), nil

	case syntax.If:
		return tr.conditional(n, false)
	case syntax.Unless:
		return tr.conditional(n, true)
	case syntax.IfMod:
		return tr.modifierIf(n, false)
	case syntax.UnlessMod:
		return tr.modifierIf(n, true)
	case syntax.Ternary:
		return tr.ternary(n)

	case syntax.While:
		return tr.loop(n, ast.While)
	case syntax.Until:
		return tr.loop(n, ast.Until)
	case syntax.WhileMod:
		return tr.modifierLoop(n, ast.While, ast.WhilePost)
	case syntax.UntilMod:
		return tr.modifierLoop(n, ast.Until, ast.UntilPost)
	case syntax.For:
		return tr.forLoop(n)

	case syntax.Case:
		return tr.caseNode(n)

	case syntax.Begin:
		guts, err := tr.beginGuts(n)
		if err != nil {
			return nil, err
		}
		if guts == nil {
			return ast.New(ast.KwBegin, n.Range), nil
		}
		if guts.Type == ast.Rescue || guts.Type == ast.Ensure {
			return ast.New(ast.KwBegin, n.Range, guts), nil
		}
		// Several plain statements become the kwbegin's direct children;
		// a single statement (even a parenthesized begin) stays wrapped.
		if body := n.Child(0); body != nil && len(body.Children) > 1 {
			return ast.New(ast.KwBegin, n.Range, guts.Children...), nil
		}
		return ast.New(ast.KwBegin, n.Range, guts), nil

	case syntax.RescueMod:
		return tr.rescueMod(n)

	case syntax.Return:
		return tr.bare(n, ast.Return)
	case syntax.Break:
		return tr.bare(n, ast.Break)
	case syntax.Next:
		return tr.bare(n, ast.Next)
	case syntax.Redo:
		return ast.New(ast.Redo, n.Range), nil
	case syntax.Retry:
		return ast.New(ast.Retry, n.Range), nil
	case syntax.Yield:
		return tr.bare(n, ast.Yield)

	case syntax.Def:
		return tr.def(n)
	case syntax.DefSelf:
		return tr.defSelf(n)

	case syntax.Class:
		return tr.class(n)
	case syntax.SingletonClass:
		object, err := tr.node(n.Child(0))
		if err != nil {
			return nil, err
		}
		body, err := tr.body(n.Child(1))
		if err != nil {
			return nil, err
		}
		return ast.New(ast.SClass, n.Range, object, body), nil
	case syntax.Module:
		name, err := tr.node(n.Child(0))
		if err != nil {
			return nil, err
		}
		body, err := tr.body(n.Child(1))
		if err != nil {
			return nil, err
		}
		return ast.New(ast.Module, n.Range, name, body), nil

	case syntax.Paren:
		// Parentheses widen: the begin wrapper spans the parens even when
		// it holds a single expression.
		body := n.Child(0)
		if body == nil {
			return ast.New(ast.Begin, n.Range), nil
		}
		kids, err := tr.nodeList(body.Children)
		if err != nil {
			return nil, err
		}
		return ast.New(ast.Begin, n.Range, kids...), nil

	case syntax.Params:
		return tr.params(n)
	case syntax.StringContent:
		return ast.New(ast.Str, n.Range, unescape(n.Text)), nil
	case syntax.Interp:
		body, err := tr.seq(n.Child(0))
		if err != nil {
			return nil, err
		}
		return ast.New(ast.Begin, n.Range, body), nil

	case syntax.Block, syntax.Args, syntax.When, syntax.Rescue,
		syntax.RescueElse, syntax.Ensure, syntax.OptParam, syntax.RestParam,
		syntax.BlockParam, syntax.ForwardParam:
		return nil, fmt.Errorf("translate: %s node outside its parent construct at %s", n.Kind, n.Range)
	}

	return nil, &GapError{Kind: n.Kind, Range: n.Range}
}

// nodeList translates a slice of children, passing nil slots through.
func (tr *translator) nodeList(ns []*syntax.Node) ([]any, error) {
	out := make([]any, 0, len(ns))
	for _, n := range ns {
		child, err := tr.node(n)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

// wrapSeq translates a statement list: zero statements vanish, a single
// statement stands alone, several are wrapped in a synthesized begin whose
// range is the union of the statements.
func (tr *translator) wrapSeq(stmts []*syntax.Node) (*ast.Node, error) {
	switch len(stmts) {
	case 0:
		return nil, nil
	case 1:
		return tr.node(stmts[0])
	}
	kids, err := tr.nodeList(stmts)
	if err != nil {
		return nil, err
	}
	rng := stmts[0].Range
	for _, s := range stmts[1:] {
		rng = rng.Union(s.Range)
	}
	return ast.New(ast.Begin, rng, kids...), nil
}

// seq translates a Statements node (or nil).
func (tr *translator) seq(n *syntax.Node) (*ast.Node, error) {
	if n == nil {
		return nil, nil
	}
	return tr.wrapSeq(n.Children)
}

// body translates a def/class/module body: either a plain statement
// sequence or, for inline rescue/ensure clauses, the rescue structure
// without a kwbegin wrapper.
func (tr *translator) body(n *syntax.Node) (*ast.Node, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind == syntax.Begin {
		return tr.beginGuts(n)
	}
	return tr.seq(n)
}

// alias translates both alias forms; ref converts one operand.
func (tr *translator) alias(n *syntax.Node, ref func(*syntax.Node) (*ast.Node, error)) (*ast.Node, error) {
	newName, err := ref(n.Child(0))
	if err != nil {
		return nil, err
	}
	oldName, err := ref(n.Child(1))
	if err != nil {
		return nil, err
	}
	return ast.New(ast.Alias, n.Range, newName, oldName), nil
}

// methodRef converts a bareword or symbol method reference to a sym node.
func (tr *translator) methodRef(n *syntax.Node) (*ast.Node, error) {
	switch n.Kind {
	case syntax.Ident, syntax.Const:
		return ast.New(ast.Sym, n.Range, ast.Name(n.Text)), nil
	case syntax.Symbol:
		return ast.New(ast.Sym, n.Range, ast.Name(n.Text)), nil
	}
	return nil, fmt.Errorf("translate: %s is not a method reference at %s", n.Kind, n.Range)
}

func (tr *translator) unary(n *syntax.Node) (*ast.Node, error) {
	operand := n.Child(0)
	// A sign applied directly to a numeric literal folds into the literal,
	// keeping the operator inside the widened range.
	if n.Text == "-" && operand != nil {
		switch operand.Kind {
		case syntax.Int:
			v, err := intValue(operand.Text)
			if err != nil {
				return nil, fmt.Errorf("translate: integer literal %q at %s: %w", operand.Text, operand.Range, err)
			}
			return ast.New(ast.Int, n.Range, -v), nil
		case syntax.Float:
			v, err := strconv.ParseFloat(strings.ReplaceAll(operand.Text, "_", ""), 64)
			if err != nil {
				return nil, fmt.Errorf("translate: float literal %q at %s: %w", operand.Text, operand.Range, err)
			}
			return ast.New(ast.Float, n.Range, -v), nil
		}
	}

	inner, err := tr.node(operand)
	if err != nil {
		return nil, err
	}
	name := n.Text
	switch name {
	case "-", "+":
		name += "@"
	}
	return ast.New(ast.Send, n.Range, inner, ast.Name(name)), nil
}

// assign builds the assignment node for a target. value may be nil for the
// name-only targets inside op_asgn and resbody.
func (tr *translator) assign(target *syntax.Node, rng loc.Range, value *ast.Node) (*ast.Node, error) {
	withValue := func(t ast.Type, kids ...any) *ast.Node {
		if value != nil {
			kids = append(kids, value)
		}
		return ast.New(t, rng, kids...)
	}

	switch target.Kind {
	case syntax.Ident:
		return withValue(ast.LVasgn, ast.Name(target.Text)), nil
	case syntax.IVar:
		return withValue(ast.IVasgn, ast.Name(target.Text)), nil
	case syntax.GVar:
		return withValue(ast.GVasgn, ast.Name(target.Text)), nil
	case syntax.CVar:
		return withValue(ast.CVasgn, ast.Name(target.Text)), nil
	case syntax.Const:
		return withValue(ast.Casgn, nil, ast.Name(target.Text)), nil
	case syntax.ScopeRes:
		scope, err := tr.scope(target)
		if err != nil {
			return nil, err
		}
		return withValue(ast.Casgn, scope, ast.Name(target.Text)), nil
	case syntax.Call:
		// Attribute assignment: a.b = v becomes send :b=.
		recv, err := tr.node(target.Child(0))
		if err != nil {
			return nil, err
		}
		if target.Text == "[]" {
			kids := []any{recv, ast.Name("[]=")}
			if args := target.Child(2); args != nil {
				indexKids, err := tr.nodeList(args.Children)
				if err != nil {
					return nil, err
				}
				kids = append(kids, indexKids...)
			}
			if value != nil {
				kids = append(kids, value)
			}
			return ast.New(ast.Send, rng, kids...), nil
		}
		kids := []any{recv, ast.Name(target.Text + "=")}
		if value != nil {
			kids = append(kids, value)
		}
		return ast.New(ast.Send, rng, kids...), nil
	}
	return nil, fmt.Errorf("translate: unsupported assignment target %s at %s", target.Kind, target.Range)
}

func (tr *translator) opAssign(n *syntax.Node) (*ast.Node, error) {
	target, value := n.Child(0), n.Child(1)
	rhs, err := tr.node(value)
	if err != nil {
		return nil, err
	}
	// The embedded target node carries only the name; its range is the
	// target's own, not the whole assignment.
	lhs, err := tr.assign(target, target.Range, nil)
	if err != nil {
		return nil, err
	}

	switch n.Text {
	case "||=":
		return ast.New(ast.OrAsgn, n.Range, lhs, rhs), nil
	case "&&=":
		return ast.New(ast.AndAsgn, n.Range, lhs, rhs), nil
	}
	op := strings.TrimSuffix(n.Text, "=")
	return ast.New(ast.OpAsgn, n.Range, lhs, ast.Name(op), rhs), nil
}

func (tr *translator) scopeRes(n *syntax.Node) (*ast.Node, error) {
	scope, err := tr.scope(n)
	if err != nil {
		return nil, err
	}
	return ast.New(ast.Const, n.Range, scope, ast.Name(n.Text)), nil
}

// scope translates the scope slot of a ScopeRes node. A nil scope is a
// top-level reference and becomes a cbase covering the leading "::".
func (tr *translator) scope(n *syntax.Node) (*ast.Node, error) {
	if s := n.Child(0); s != nil {
		return tr.node(s)
	}
	cbase := n.Range
	cbase.End = loc.Position{
		Offset: cbase.Start.Offset + 2,
		Line:   cbase.Start.Line,
		Col:    cbase.Start.Col + 2,
	}
	return ast.New(ast.CBase, cbase), nil
}

func intValue(text string) (int64, error) {
	return strconv.ParseInt(strings.ReplaceAll(text, "_", ""), 0, 64)
}
