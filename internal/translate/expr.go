package translate

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ruby-syntax-tree/banyan/ast"
	"github.com/ruby-syntax-tree/banyan/internal/syntax"
	"github.com/ruby-syntax-tree/banyan/loc"
)

// call translates a method call, attaching a block wrapper when present.
// The send node inside a block covers only the call itself, not the block.
func (tr *translator) call(n *syntax.Node) (*ast.Node, error) {
	recv, method := n.Child(0), n.Child(1)
	args, block := n.Child(2), n.Child(3)

	recvNode, err := tr.node(recv)
	if err != nil {
		return nil, err
	}

	name := n.Text
	kids := []any{recvNode, ast.Name(name)}
	if args != nil {
		argKids, err := tr.nodeList(args.Children)
		if err != nil {
			return nil, err
		}
		kids = append(kids, argKids...)
	}

	sendRange := n.Range
	if block != nil {
		// Trim the block from the send's span.
		sendRange.Start = n.Range.Start
		switch {
		case args != nil:
			sendRange.End = args.Range.End
		case method != nil:
			sendRange.End = method.Range.End
		case recv != nil:
			sendRange.End = recv.Range.End
		}
	}
	send := ast.New(ast.Send, sendRange, kids...)
	if block == nil {
		return send, nil
	}

	blockArgs, err := tr.params(block.Child(0))
	if err != nil {
		return nil, err
	}
	body, err := tr.seq(block.Child(1))
	if err != nil {
		return nil, err
	}
	return ast.New(ast.Block, n.Range, send, blockArgs, body), nil
}

// stringLit translates a string literal. Pure content becomes a single str
// spanning the delimiters; interpolation produces a dstr with per-part
// ranges.
func (tr *translator) stringLit(n *syntax.Node) (*ast.Node, error) {
	if pure, ok := joinContent(n.Children); ok {
		return ast.New(ast.Str, n.Range, pure), nil
	}
	parts, err := tr.stringParts(n.Children)
	if err != nil {
		return nil, err
	}
	return ast.New(ast.DStr, n.Range, parts...), nil
}

// joinContent concatenates unescaped content parts, reporting false when
// any part is an interpolation.
func joinContent(parts []*syntax.Node) (string, bool) {
	var buf bytes.Buffer
	for _, p := range parts {
		if p.Kind != syntax.StringContent {
			return "", false
		}
		buf.WriteString(unescape(p.Text))
	}
	return buf.String(), true
}

// stringParts translates dstr/regexp parts, merging runs of adjacent
// content into one str per run.
func (tr *translator) stringParts(parts []*syntax.Node) ([]any, error) {
	out := make([]any, 0, len(parts))
	for i := 0; i < len(parts); {
		p := parts[i]
		if p.Kind == syntax.StringContent {
			rng := p.Range
			var buf bytes.Buffer
			buf.WriteString(unescape(p.Text))
			for i++; i < len(parts) && parts[i].Kind == syntax.StringContent; i++ {
				buf.WriteString(unescape(parts[i].Text))
				rng = rng.Union(parts[i].Range)
			}
			out = append(out, ast.New(ast.Str, rng, buf.String()))
			continue
		}
		child, err := tr.node(p)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
		i++
	}
	return out, nil
}

func (tr *translator) stringConcat(n *syntax.Node) (*ast.Node, error) {
	kids := make([]any, 0, len(n.Children))
	for _, c := range n.Children {
		part, err := tr.node(c)
		if err != nil {
			return nil, err
		}
		kids = append(kids, part)
	}
	return ast.New(ast.DStr, n.Range, kids...), nil
}

// regexp translates a regular expression literal. The trailing regopt node
// covers the flag characters after the closing delimiter and lists each
// flag as a symbol child.
func (tr *translator) regexp(n *syntax.Node) (*ast.Node, error) {
	parts, err := tr.stringParts(n.Children)
	if err != nil {
		return nil, err
	}

	flags := n.Text
	opts := loc.Range{
		Start: loc.Position{
			Offset: n.Range.End.Offset - len(flags),
			Line:   n.Range.End.Line,
			Col:    n.Range.End.Col - len(flags),
		},
		End: n.Range.End,
	}
	optKids := make([]any, 0, len(flags))
	for _, f := range flags {
		optKids = append(optKids, ast.Name(string(f)))
	}
	parts = append(parts, ast.New(ast.Regopt, opts, optKids...))
	return ast.New(ast.Regexp, n.Range, parts...), nil
}

// wordArray translates %w and %i literals; elem is Str or Sym.
func (tr *translator) wordArray(n *syntax.Node, elem ast.Type) *ast.Node {
	kids := make([]any, 0, len(n.Children))
	for _, w := range n.Children {
		if elem == ast.Sym {
			kids = append(kids, ast.New(ast.Sym, w.Range, ast.Name(w.Text)))
		} else {
			kids = append(kids, ast.New(ast.Str, w.Range, unescape(w.Text)))
		}
	}
	return ast.New(ast.Array, n.Range, kids...)
}

// conditional translates keyword if/unless. The reference schema has a
// single if type; unless swaps the branch slots.
func (tr *translator) conditional(n *syntax.Node, invert bool) (*ast.Node, error) {
	cond, err := tr.node(n.Child(0))
	if err != nil {
		return nil, err
	}
	thenBranch, err := tr.branch(n.Child(1))
	if err != nil {
		return nil, err
	}
	elseBranch, err := tr.branch(n.Child(2))
	if err != nil {
		return nil, err
	}
	if invert {
		thenBranch, elseBranch = elseBranch, thenBranch
	}
	return ast.New(ast.If, n.Range, cond, thenBranch, elseBranch), nil
}

// branch translates an if/case branch slot: nil, a Statements node, or a
// nested construct such as an elsif chain.
func (tr *translator) branch(n *syntax.Node) (*ast.Node, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind == syntax.Statements {
		return tr.seq(n)
	}
	return tr.node(n)
}

func (tr *translator) modifierIf(n *syntax.Node, invert bool) (*ast.Node, error) {
	cond, err := tr.node(n.Child(0))
	if err != nil {
		return nil, err
	}
	body, err := tr.node(n.Child(1))
	if err != nil {
		return nil, err
	}
	if invert {
		return ast.New(ast.If, n.Range, cond, nil, body), nil
	}
	return ast.New(ast.If, n.Range, cond, body, nil), nil
}

func (tr *translator) ternary(n *syntax.Node) (*ast.Node, error) {
	cond, err := tr.node(n.Child(0))
	if err != nil {
		return nil, err
	}
	thenBranch, err := tr.node(n.Child(1))
	if err != nil {
		return nil, err
	}
	elseBranch, err := tr.node(n.Child(2))
	if err != nil {
		return nil, err
	}
	return ast.New(ast.If, n.Range, cond, thenBranch, elseBranch), nil
}

func (tr *translator) loop(n *syntax.Node, typ ast.Type) (*ast.Node, error) {
	cond, err := tr.node(n.Child(0))
	if err != nil {
		return nil, err
	}
	body, err := tr.branch(n.Child(1))
	if err != nil {
		return nil, err
	}
	return ast.New(typ, n.Range, cond, body), nil
}

// modifierLoop translates `expr while cond`. When the body is a begin
// block the loop is do-while shaped and gets the post variant.
func (tr *translator) modifierLoop(n *syntax.Node, typ, postTyp ast.Type) (*ast.Node, error) {
	cond, err := tr.node(n.Child(0))
	if err != nil {
		return nil, err
	}
	bodyNode := n.Child(1)
	body, err := tr.node(bodyNode)
	if err != nil {
		return nil, err
	}
	if bodyNode != nil && bodyNode.Kind == syntax.Begin {
		return ast.New(postTyp, n.Range, cond, body), nil
	}
	return ast.New(typ, n.Range, cond, body), nil
}

func (tr *translator) forLoop(n *syntax.Node) (*ast.Node, error) {
	variable, err := tr.assign(n.Child(0), n.Child(0).Range, nil)
	if err != nil {
		return nil, err
	}
	iterable, err := tr.node(n.Child(1))
	if err != nil {
		return nil, err
	}
	body, err := tr.branch(n.Child(2))
	if err != nil {
		return nil, err
	}
	return ast.New(ast.For, n.Range, variable, iterable, body), nil
}

// caseNode translates a case expression. The else slot is always present,
// nil when the source has no else clause.
func (tr *translator) caseNode(n *syntax.Node) (*ast.Node, error) {
	subject, err := tr.node(n.Child(0))
	if err != nil {
		return nil, err
	}
	kids := []any{subject}

	var elseBranch *ast.Node
	for _, c := range n.Children[1:] {
		if c == nil {
			continue
		}
		if c.Kind == syntax.Statements {
			elseBranch, err = tr.seq(c)
			if err != nil {
				return nil, err
			}
			continue
		}
		w, err := tr.when(c)
		if err != nil {
			return nil, err
		}
		kids = append(kids, w)
	}
	kids = append(kids, elseBranch)
	return ast.New(ast.Case, n.Range, kids...), nil
}

func (tr *translator) when(n *syntax.Node) (*ast.Node, error) {
	kids := make([]any, 0, len(n.Children))
	var body *ast.Node
	for _, c := range n.Children {
		if c.Kind == syntax.Statements {
			b, err := tr.seq(c)
			if err != nil {
				return nil, err
			}
			body = b
			continue
		}
		test, err := tr.node(c)
		if err != nil {
			return nil, err
		}
		kids = append(kids, test)
	}
	kids = append(kids, body)
	return ast.New(ast.When, n.Range, kids...), nil
}

// beginGuts translates the interior of a begin block or an inline
// def/class body: the statement sequence wrapped in rescue and ensure
// structures as the clauses require, with no kwbegin wrapper. Returns nil
// for a completely empty body.
func (tr *translator) beginGuts(n *syntax.Node) (*ast.Node, error) {
	var (
		bodyRange  loc.Range
		haveBody   bool
		resbodies  []any
		rescueEnd  loc.Position
		elseBranch *ast.Node
		ensureStmt *syntax.Node
	)

	body, err := tr.seq(n.Child(0))
	if err != nil {
		return nil, err
	}
	if b := n.Child(0); b != nil {
		bodyRange = b.Range
		haveBody = true
	}

	for _, c := range n.Children[1:] {
		if c == nil {
			continue
		}
		switch c.Kind {
		case syntax.Rescue:
			rb, err := tr.resbody(c)
			if err != nil {
				return nil, err
			}
			resbodies = append(resbodies, rb)
			rescueEnd = c.Range.End
		case syntax.RescueElse:
			elseBranch, err = tr.seq(c.Child(0))
			if err != nil {
				return nil, err
			}
			rescueEnd = c.Range.End
		case syntax.Ensure:
			ensureStmt = c
		}
	}

	cur := body
	if len(resbodies) > 0 || elseBranch != nil {
		start := rescueEnd
		if haveBody {
			start = bodyRange.Start
		} else if len(resbodies) > 0 {
			start = resbodies[0].(*ast.Node).Range.Start
		}
		rng := loc.Range{Start: start, End: rescueEnd}
		kids := append([]any{body}, resbodies...)
		kids = append(kids, elseBranch)
		cur = ast.New(ast.Rescue, rng, kids...)
	}

	if ensureStmt != nil {
		ensureBody, err := tr.seq(ensureStmt.Child(0))
		if err != nil {
			return nil, err
		}
		start := ensureStmt.Range.Start
		if cur != nil {
			start = cur.Range.Start
		} else if haveBody {
			start = bodyRange.Start
		}
		rng := loc.Range{Start: start, End: ensureStmt.Range.End}
		cur = ast.New(ast.Ensure, rng, cur, ensureBody)
	}

	return cur, nil
}

// resbody translates one rescue clause. Exception classes are always
// wrapped in an array node; the capture variable becomes a value-less
// assignment node.
func (tr *translator) resbody(n *syntax.Node) (*ast.Node, error) {
	var exceptions, variable *ast.Node

	if exc := n.Child(0); exc != nil {
		kids, err := tr.nodeList(exc.Children)
		if err != nil {
			return nil, err
		}
		exceptions = ast.New(ast.Array, exc.Range, kids...)
	}
	if v := n.Child(1); v != nil {
		var err error
		variable, err = tr.assign(v, v.Range, nil)
		if err != nil {
			return nil, err
		}
	}
	body, err := tr.seq(n.Child(2))
	if err != nil {
		return nil, err
	}
	return ast.New(ast.Resbody, n.Range, exceptions, variable, body), nil
}

// rescueMod translates `expr rescue handler`. The synthesized resbody
// covers the rescue keyword through the handler.
func (tr *translator) rescueMod(n *syntax.Node) (*ast.Node, error) {
	expr, handler := n.Child(0), n.Child(1)
	exprNode, err := tr.node(expr)
	if err != nil {
		return nil, err
	}
	handlerNode, err := tr.node(handler)
	if err != nil {
		return nil, err
	}

	rbRange := loc.Range{Start: handler.Range.Start, End: handler.Range.End}
	if kw := tr.keywordBetween("rescue", expr.Range.End, handler.Range.Start); kw.Valid() {
		rbRange.Start = kw.Start
	}
	rb := ast.New(ast.Resbody, rbRange, nil, nil, handlerNode)
	return ast.New(ast.Rescue, n.Range, exprNode, rb, nil), nil
}

// keywordBetween locates a keyword in the source between two positions.
// Returns loc.None when absent.
func (tr *translator) keywordBetween(kw string, from, to loc.Position) loc.Range {
	if from.Offset < 0 || to.Offset > len(tr.src) || from.Offset > to.Offset {
		return loc.None
	}
	idx := bytes.Index(tr.src[from.Offset:to.Offset], []byte(kw))
	if idx < 0 {
		return loc.None
	}
	// Recover line/col by scanning the gap; the slice is short.
	pos := from
	for i := 0; i < idx; i++ {
		if tr.src[from.Offset+i] == '\n' {
			pos.Line++
			pos.Col = 0
		} else {
			pos.Col++
		}
	}
	pos.Offset = from.Offset + idx
	return loc.Range{
		Start: pos,
		End:   loc.Position{Offset: pos.Offset + len(kw), Line: pos.Line, Col: pos.Col + len(kw)},
	}
}

// bare translates return/break/next/yield, splicing the argument
// expressions directly into the node.
func (tr *translator) bare(n *syntax.Node, typ ast.Type) (*ast.Node, error) {
	kids, err := tr.nodeList(n.Children)
	if err != nil {
		return nil, err
	}
	return ast.New(typ, n.Range, kids...), nil
}

func (tr *translator) def(n *syntax.Node) (*ast.Node, error) {
	args, err := tr.params(n.Child(0))
	if err != nil {
		return nil, err
	}
	body, err := tr.body(n.Child(1))
	if err != nil {
		return nil, err
	}
	return ast.New(ast.Def, n.Range, ast.Name(n.Text), args, body), nil
}

func (tr *translator) defSelf(n *syntax.Node) (*ast.Node, error) {
	object, err := tr.node(n.Child(0))
	if err != nil {
		return nil, err
	}
	args, err := tr.params(n.Child(1))
	if err != nil {
		return nil, err
	}
	body, err := tr.body(n.Child(2))
	if err != nil {
		return nil, err
	}
	return ast.New(ast.Defs, n.Range, object, ast.Name(n.Text), args, body), nil
}

func (tr *translator) class(n *syntax.Node) (*ast.Node, error) {
	name, err := tr.node(n.Child(0))
	if err != nil {
		return nil, err
	}
	super, err := tr.node(n.Child(1))
	if err != nil {
		return nil, err
	}
	body, err := tr.body(n.Child(2))
	if err != nil {
		return nil, err
	}
	return ast.New(ast.Class, n.Range, name, super, body), nil
}

// params translates a parameter list into an args node. An absent list
// still materializes in the reference schema, as an empty args with no
// source presence.
func (tr *translator) params(n *syntax.Node) (*ast.Node, error) {
	if n == nil {
		return ast.New(ast.Args, loc.None), nil
	}
	kids := make([]any, 0, len(n.Children))
	for _, p := range n.Children {
		switch p.Kind {
		case syntax.Ident:
			kids = append(kids, ast.New(ast.Arg, p.Range, ast.Name(p.Text)))
		case syntax.OptParam:
			def, err := tr.node(p.Child(0))
			if err != nil {
				return nil, err
			}
			kids = append(kids, ast.New(ast.OptArg, p.Range, ast.Name(p.Text), def))
		case syntax.RestParam:
			if p.Text == "" {
				kids = append(kids, ast.New(ast.RestArg, p.Range))
			} else {
				kids = append(kids, ast.New(ast.RestArg, p.Range, ast.Name(p.Text)))
			}
		case syntax.BlockParam:
			kids = append(kids, ast.New(ast.BlockArg, p.Range, ast.Name(p.Text)))
		case syntax.ForwardParam:
			kids = append(kids, ast.New(ast.ForwardArg, p.Range))
		default:
			return nil, fmt.Errorf("translate: unsupported parameter %s at %s", p.Kind, p.Range)
		}
	}
	return ast.New(ast.Args, n.Range, kids...), nil
}

// unescape interprets the escape sequences Ruby supports inside
// double-quoted strings. Unknown escapes drop the backslash, which matches
// how Ruby itself treats them.
func unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var buf bytes.Buffer
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			buf.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			buf.WriteByte('\n')
		case 't':
			buf.WriteByte('\t')
		case 'r':
			buf.WriteByte('\r')
		case '0':
			buf.WriteByte(0)
		case 's':
			buf.WriteByte(' ')
		case 'a':
			buf.WriteByte('\a')
		case 'b':
			buf.WriteByte('\b')
		case 'e':
			buf.WriteByte(0x1b)
		case 'f':
			buf.WriteByte('\f')
		case 'v':
			buf.WriteByte('\v')
		default:
			buf.WriteByte(s[i])
		}
	}
	return buf.String()
}
