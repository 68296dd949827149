package syntax

import (
	"context"
	"fmt"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/ruby-syntax-tree/banyan/loc"
)

// ParseError reports that the source is not valid Ruby under the primary
// grammar.
type ParseError struct {
	Range loc.Range
	Text  string // the offending source text, truncated
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax: parse error at %s near %q", e.Range, e.Text)
}

// UnsupportedError reports a grammar construct the primary schema has no
// kind for. This is a coverage gap, not a user input error.
type UnsupportedError struct {
	Construct string
	Range     loc.Range
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("syntax: unsupported construct %q at %s", e.Construct, e.Range)
}

// Parse parses Ruby source with the tree-sitter grammar and builds the
// primary tree. The returned Tree owns no tree-sitter memory.
func Parse(ctx context.Context, src []byte) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(ruby.GetLanguage())

	tst, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("syntax: tree-sitter parse: %w", err)
	}
	defer tst.Close()

	root := tst.RootNode()
	if root.HasError() {
		if bad := firstErrorNode(root); bad != nil {
			return nil, &ParseError{Range: tsRange(bad), Text: truncate(bad.Content(src), 40)}
		}
		return nil, &ParseError{Range: tsRange(root), Text: truncate(string(src), 40)}
	}

	b := &builder{src: src}
	prog, err := b.build(root)
	if err != nil {
		return nil, err
	}
	return &Tree{Root: prog, Source: src}, nil
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstErrorNode(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

// tsRange converts tree-sitter byte offsets and points to a loc.Range.
// tree-sitter rows are 0-based; loc lines are 1-based.
func tsRange(n *sitter.Node) loc.Range {
	sp, ep := n.StartPoint(), n.EndPoint()
	return loc.Range{
		Start: loc.Position{
			Offset: safecast.MustConvert[int](n.StartByte()),
			Line:   safecast.MustConvert[int](sp.Row) + 1,
			Col:    safecast.MustConvert[int](sp.Column),
		},
		End: loc.Position{
			Offset: safecast.MustConvert[int](n.EndByte()),
			Line:   safecast.MustConvert[int](ep.Row) + 1,
			Col:    safecast.MustConvert[int](ep.Column),
		},
	}
}

// builder converts the tree-sitter CST to the primary schema.
type builder struct {
	src []byte
}

func (b *builder) text(n *sitter.Node) string {
	return n.Content(b.src)
}

// named returns the named children of n, excluding comments.
func (b *builder) named(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// buildAll builds every node in ns.
func (b *builder) buildAll(ns []*sitter.Node) ([]*Node, error) {
	out := make([]*Node, 0, len(ns))
	for _, n := range ns {
		child, err := b.build(n)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

// stmts wraps the given CST nodes in a Statements node whose range is the
// union of the children. Returns nil for an empty sequence.
func (b *builder) stmts(ns []*sitter.Node) (*Node, error) {
	children, err := b.buildAll(ns)
	if err != nil {
		return nil, err
	}
	return statementsOf(children), nil
}

func statementsOf(children []*Node) *Node {
	if len(children) == 0 {
		return nil
	}
	rng := children[0].Range
	for _, c := range children[1:] {
		rng = rng.Union(c.Range)
	}
	return &Node{Kind: Statements, Children: children, Range: rng}
}

// unwrap peels then/do/else/block_body wrapper nodes, returning the
// statement CST nodes inside. A nil input yields nil.
func (b *builder) unwrap(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "then", "do", "else", "block_body", "body_statement":
		return b.named(n)
	}
	return []*sitter.Node{n}
}

// buildOpt builds a node, passing nil through.
func (b *builder) buildOpt(n *sitter.Node) (*Node, error) {
	if n == nil {
		return nil, nil
	}
	return b.build(n)
}

// build translates one CST node. Unknown CST node types are coverage gaps
// and surface as UnsupportedError.
func (b *builder) build(n *sitter.Node) (*Node, error) {
	rng := tsRange(n)

	switch n.Type() {
	case "program":
		kids, err := b.buildAll(b.named(n))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Program, Children: kids, Range: rng}, nil

	case "alias":
		ops := b.named(n)
		if len(ops) != 2 {
			return nil, fmt.Errorf("syntax: alias with %d operands at %s", len(ops), rng)
		}
		kids, err := b.buildAll(ops)
		if err != nil {
			return nil, err
		}
		kind := Alias
		if kids[0].Kind == GVar && kids[1].Kind == GVar {
			kind = VarAlias
		}
		return &Node{Kind: kind, Children: kids, Range: rng}, nil

	case "undef":
		kids, err := b.buildAll(b.named(n))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Undef, Children: kids, Range: rng}, nil

	case "binary":
		return b.binary(n, rng)
	case "unary":
		return b.unary(n, rng)

	case "assignment":
		left, err := b.build(n.ChildByFieldName("left"))
		if err != nil {
			return nil, err
		}
		right, err := b.build(n.ChildByFieldName("right"))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Assign, Children: []*Node{left, right}, Range: rng}, nil

	case "operator_assignment":
		left, err := b.build(n.ChildByFieldName("left"))
		if err != nil {
			return nil, err
		}
		right, err := b.build(n.ChildByFieldName("right"))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: OpAssign, Text: b.operatorText(n, left, right), Children: []*Node{left, right}, Range: rng}, nil

	case "conditional":
		cond, err := b.build(n.ChildByFieldName("condition"))
		if err != nil {
			return nil, err
		}
		thenE, err := b.build(n.ChildByFieldName("consequence"))
		if err != nil {
			return nil, err
		}
		elseE, err := b.build(n.ChildByFieldName("alternative"))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Ternary, Children: []*Node{cond, thenE, elseE}, Range: rng}, nil

	case "if", "unless", "elsif":
		return b.conditional(n, rng)

	case "if_modifier":
		return b.modifier(n, rng, IfMod)
	case "unless_modifier":
		return b.modifier(n, rng, UnlessMod)

	case "while", "until":
		cond, err := b.build(n.ChildByFieldName("condition"))
		if err != nil {
			return nil, err
		}
		body, err := b.stmts(b.unwrap(n.ChildByFieldName("body")))
		if err != nil {
			return nil, err
		}
		kind := While
		if n.Type() == "until" {
			kind = Until
		}
		return &Node{Kind: kind, Children: []*Node{cond, body}, Range: rng}, nil

	case "while_modifier":
		return b.modifier(n, rng, WhileMod)
	case "until_modifier":
		return b.modifier(n, rng, UntilMod)

	case "for":
		return b.forLoop(n, rng)
	case "case":
		return b.caseNode(n, rng)
	case "when":
		return b.when(n, rng)
	case "pattern":
		// The grammar wraps each when test expression in a pattern node;
		// peel it and build the expression inside.
		named := b.named(n)
		if len(named) != 1 {
			return nil, &UnsupportedError{Construct: "pattern", Range: rng}
		}
		return b.build(named[0])
	case "begin":
		return b.begin(n, rng)

	case "rescue_modifier":
		body, err := b.build(n.ChildByFieldName("body"))
		if err != nil {
			return nil, err
		}
		handler, err := b.build(n.ChildByFieldName("handler"))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: RescueMod, Children: []*Node{body, handler}, Range: rng}, nil

	case "method":
		name := b.text(n.ChildByFieldName("name"))
		params, err := b.buildOpt(n.ChildByFieldName("parameters"))
		if err != nil {
			return nil, err
		}
		body, err := b.methodBody(n.ChildByFieldName("body"))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Def, Text: name, Children: []*Node{params, body}, Range: rng}, nil

	case "singleton_method":
		object, err := b.build(n.ChildByFieldName("object"))
		if err != nil {
			return nil, err
		}
		name := b.text(n.ChildByFieldName("name"))
		params, err := b.buildOpt(n.ChildByFieldName("parameters"))
		if err != nil {
			return nil, err
		}
		body, err := b.methodBody(n.ChildByFieldName("body"))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: DefSelf, Text: name, Children: []*Node{object, params, body}, Range: rng}, nil

	case "method_parameters", "block_parameters", "bare_parameters":
		return b.params(n, rng)

	case "class":
		return b.class(n, rng)
	case "singleton_class":
		object, err := b.build(n.ChildByFieldName("value"))
		if err != nil {
			return nil, err
		}
		body, err := b.methodBody(bodyChild(n))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: SingletonClass, Children: []*Node{object, body}, Range: rng}, nil
	case "module":
		name, err := b.build(n.ChildByFieldName("name"))
		if err != nil {
			return nil, err
		}
		body, err := b.methodBody(bodyChild(n))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Module, Children: []*Node{name, body}, Range: rng}, nil

	case "call":
		return b.call(n, rng)
	case "element_reference":
		return b.elementReference(n, rng)
	case "scope_resolution":
		scope, err := b.buildOpt(n.ChildByFieldName("scope"))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: ScopeRes, Text: b.text(n.ChildByFieldName("name")), Children: []*Node{scope}, Range: rng}, nil

	case "argument_list":
		kids, err := b.buildAll(b.named(n))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Args, Children: kids, Range: rng}, nil
	case "splat_argument":
		return b.wrapOne(n, rng, Splat)
	case "block_argument":
		return b.wrapOne(n, rng, BlockPass)

	case "block", "do_block":
		params, err := b.buildOpt(n.ChildByFieldName("parameters"))
		if err != nil {
			return nil, err
		}
		var bodyNodes []*sitter.Node
		for _, c := range b.named(n) {
			if c.Type() == "block_parameters" {
				continue
			}
			bodyNodes = append(bodyNodes, b.unwrap(c)...)
		}
		body, err := b.stmts(bodyNodes)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Block, Children: []*Node{params, body}, Range: rng}, nil

	case "return", "break", "next", "yield":
		kind := map[string]Kind{"return": Return, "break": Break, "next": Next, "yield": Yield}[n.Type()]
		var args []*sitter.Node
		if al := firstChildOfType(n, "argument_list"); al != nil {
			args = b.named(al)
		} else {
			args = b.named(n)
		}
		kids, err := b.buildAll(args)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: kind, Children: kids, Range: rng}, nil

	case "redo":
		return &Node{Kind: Redo, Range: rng}, nil
	case "retry":
		return &Node{Kind: Retry, Range: rng}, nil

	case "parenthesized_statements":
		body, err := b.stmts(b.named(n))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Paren, Children: []*Node{body}, Range: rng}, nil

	case "string":
		return b.stringLit(n, rng, String)
	case "chained_string":
		kids, err := b.buildAll(b.named(n))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: StringConcat, Children: kids, Range: rng}, nil
	case "string_content", "escape_sequence":
		return &Node{Kind: StringContent, Text: b.text(n), Range: rng}, nil
	case "interpolation":
		body, err := b.stmts(b.named(n))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Interp, Children: []*Node{body}, Range: rng}, nil

	case "simple_symbol":
		return &Node{Kind: Symbol, Text: strings.TrimPrefix(b.text(n), ":"), Range: rng}, nil
	case "delimited_symbol":
		var content strings.Builder
		for _, c := range b.named(n) {
			content.WriteString(b.text(c))
		}
		return &Node{Kind: Symbol, Text: content.String(), Range: rng}, nil
	case "hash_key_symbol":
		return &Node{Kind: Symbol, Text: b.text(n), Range: rng}, nil

	case "regex":
		return b.regex(n, rng)

	case "integer":
		return &Node{Kind: Int, Text: b.text(n), Range: rng}, nil
	case "float":
		return &Node{Kind: Float, Text: b.text(n), Range: rng}, nil

	case "array":
		kids, err := b.buildAll(b.named(n))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Array, Children: kids, Range: rng}, nil
	case "string_array":
		return b.wordArray(n, rng, WordArray)
	case "symbol_array":
		return b.wordArray(n, rng, SymArray)

	case "hash":
		kids, err := b.buildAll(b.named(n))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Hash, Children: kids, Range: rng}, nil
	case "pair":
		key, err := b.build(n.ChildByFieldName("key"))
		if err != nil {
			return nil, err
		}
		value, err := b.build(n.ChildByFieldName("value"))
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Pair, Children: []*Node{key, value}, Range: rng}, nil

	case "range":
		return b.rangeLit(n, rng)

	case "identifier":
		return &Node{Kind: Ident, Text: b.text(n), Range: rng}, nil
	case "constant":
		return &Node{Kind: Const, Text: b.text(n), Range: rng}, nil
	case "instance_variable":
		return &Node{Kind: IVar, Text: b.text(n), Range: rng}, nil
	case "global_variable":
		return &Node{Kind: GVar, Text: b.text(n), Range: rng}, nil
	case "class_variable":
		return &Node{Kind: CVar, Text: b.text(n), Range: rng}, nil
	case "self":
		return &Node{Kind: Self, Range: rng}, nil
	case "nil":
		return &Node{Kind: Nil, Range: rng}, nil
	case "true":
		return &Node{Kind: True, Range: rng}, nil
	case "false":
		return &Node{Kind: False, Range: rng}, nil
	}

	return nil, &UnsupportedError{Construct: n.Type(), Range: rng}
}

// binary handles tree-sitter's binary node, which also covers the keyword
// and symbolic boolean operators.
func (b *builder) binary(n *sitter.Node, rng loc.Range) (*Node, error) {
	left, err := b.build(n.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	right, err := b.build(n.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	op := b.operatorText(n, left, right)
	kids := []*Node{left, right}
	switch op {
	case "&&", "and":
		return &Node{Kind: And, Text: op, Children: kids, Range: rng}, nil
	case "||", "or":
		return &Node{Kind: Or, Text: op, Children: kids, Range: rng}, nil
	}
	return &Node{Kind: Binary, Text: op, Children: kids, Range: rng}, nil
}

// unary handles tree-sitter's unary node, which also covers `not` and
// `defined?`.
func (b *builder) unary(n *sitter.Node, rng loc.Range) (*Node, error) {
	operandCST := n.ChildByFieldName("operand")
	if operandCST == nil {
		named := b.named(n)
		if len(named) == 0 {
			return nil, &UnsupportedError{Construct: "unary", Range: rng}
		}
		operandCST = named[len(named)-1]
	}
	operand, err := b.build(operandCST)
	if err != nil {
		return nil, err
	}
	op := strings.TrimSpace(string(b.src[rng.Start.Offset:operand.Range.Start.Offset]))
	kids := []*Node{operand}
	switch op {
	case "!", "not":
		return &Node{Kind: Not, Text: op, Children: kids, Range: rng}, nil
	case "defined?":
		return &Node{Kind: Defined, Children: kids, Range: rng}, nil
	}
	return &Node{Kind: Unary, Text: op, Children: kids, Range: rng}, nil
}

// operatorText recovers the operator between two operands, preferring the
// grammar's operator field when present.
func (b *builder) operatorText(n *sitter.Node, left, right *Node) string {
	if f := n.ChildByFieldName("operator"); f != nil {
		return b.text(f)
	}
	return strings.TrimSpace(string(b.src[left.Range.End.Offset:right.Range.Start.Offset]))
}

// conditional builds if/unless/elsif. An elsif in the alternative slot
// becomes a nested If node.
func (b *builder) conditional(n *sitter.Node, rng loc.Range) (*Node, error) {
	cond, err := b.build(n.ChildByFieldName("condition"))
	if err != nil {
		return nil, err
	}
	thenS, err := b.stmts(b.unwrap(n.ChildByFieldName("consequence")))
	if err != nil {
		return nil, err
	}

	var elseN *Node
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		if alt.Type() == "elsif" {
			elseN, err = b.conditional(alt, tsRange(alt))
		} else {
			elseN, err = b.stmts(b.unwrap(alt))
		}
		if err != nil {
			return nil, err
		}
	}

	kind := If
	if n.Type() == "unless" {
		kind = Unless
	}
	return &Node{Kind: kind, Children: []*Node{cond, thenS, elseN}, Range: rng}, nil
}

// modifier builds the one-line modifier forms: `body if cond` and friends.
func (b *builder) modifier(n *sitter.Node, rng loc.Range, kind Kind) (*Node, error) {
	body, err := b.build(n.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	cond, err := b.build(n.ChildByFieldName("condition"))
	if err != nil {
		return nil, err
	}
	return &Node{Kind: kind, Children: []*Node{cond, body}, Range: rng}, nil
}

func (b *builder) forLoop(n *sitter.Node, rng loc.Range) (*Node, error) {
	loopVar, err := b.build(n.ChildByFieldName("pattern"))
	if err != nil {
		return nil, err
	}
	valueCST := n.ChildByFieldName("value")
	if valueCST != nil && valueCST.Type() == "in" {
		inner := b.named(valueCST)
		if len(inner) > 0 {
			valueCST = inner[0]
		}
	}
	iterable, err := b.build(valueCST)
	if err != nil {
		return nil, err
	}
	body, err := b.stmts(b.unwrap(n.ChildByFieldName("body")))
	if err != nil {
		return nil, err
	}
	return &Node{Kind: For, Children: []*Node{loopVar, iterable, body}, Range: rng}, nil
}

func (b *builder) caseNode(n *sitter.Node, rng loc.Range) (*Node, error) {
	var subject *Node
	var kids []*Node
	for _, c := range b.named(n) {
		switch c.Type() {
		case "when":
			w, err := b.build(c)
			if err != nil {
				return nil, err
			}
			kids = append(kids, w)
		case "else":
			e, err := b.stmts(b.named(c))
			if err != nil {
				return nil, err
			}
			kids = append(kids, e)
		default:
			s, err := b.build(c)
			if err != nil {
				return nil, err
			}
			subject = s
		}
	}
	return &Node{Kind: Case, Children: append([]*Node{subject}, kids...), Range: rng}, nil
}

func (b *builder) when(n *sitter.Node, rng loc.Range) (*Node, error) {
	var tests []*Node
	var bodyNodes []*sitter.Node
	for _, c := range b.named(n) {
		if c.Type() == "then" {
			bodyNodes = b.named(c)
			continue
		}
		test, err := b.build(c)
		if err != nil {
			return nil, err
		}
		tests = append(tests, test)
	}
	body, err := b.stmts(bodyNodes)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: When, Children: append(tests, body), Range: rng}, nil
}

// begin builds `begin ... end` with its rescue, else and ensure clauses.
func (b *builder) begin(n *sitter.Node, rng loc.Range) (*Node, error) {
	var bodyNodes []*sitter.Node
	var clauses []*Node
	for _, c := range b.named(n) {
		switch c.Type() {
		case "rescue":
			r, err := b.rescue(c)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, r)
		case "else":
			body, err := b.stmts(b.named(c))
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, &Node{Kind: RescueElse, Children: []*Node{body}, Range: tsRange(c)})
		case "ensure":
			body, err := b.stmts(b.named(c))
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, &Node{Kind: Ensure, Children: []*Node{body}, Range: tsRange(c)})
		default:
			bodyNodes = append(bodyNodes, c)
		}
	}
	body, err := b.stmts(bodyNodes)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: Begin, Children: append([]*Node{body}, clauses...), Range: rng}, nil
}

func (b *builder) rescue(n *sitter.Node) (*Node, error) {
	rng := tsRange(n)
	var exceptions, variable, body *Node
	for _, c := range b.named(n) {
		switch c.Type() {
		case "exceptions":
			kids, err := b.buildAll(b.named(c))
			if err != nil {
				return nil, err
			}
			exceptions = &Node{Kind: Args, Children: kids, Range: tsRange(c)}
		case "exception_variable":
			inner := b.named(c)
			if len(inner) > 0 {
				v, err := b.build(inner[0])
				if err != nil {
					return nil, err
				}
				variable = v
			}
		case "then":
			s, err := b.stmts(b.named(c))
			if err != nil {
				return nil, err
			}
			body = s
		}
	}
	return &Node{Kind: Rescue, Children: []*Node{exceptions, variable, body}, Range: rng}, nil
}

// methodBody builds a def/class/module body. A body that is nothing but
// rescue/else/ensure clauses over statements is built as a Begin node so
// the inline-rescue structure survives; the translator knows a Begin in
// body position does not get a kwbegin wrapper.
func (b *builder) methodBody(n *sitter.Node) (*Node, error) {
	if n == nil {
		return nil, nil
	}
	hasClauses := false
	for _, c := range b.named(n) {
		switch c.Type() {
		case "rescue", "ensure":
			hasClauses = true
		}
	}
	if hasClauses {
		return b.begin(n, tsRange(n))
	}
	return b.stmts(b.named(n))
}

// bodyChild finds a node's body_statement child, which some grammar rules
// do not expose as a field.
func bodyChild(n *sitter.Node) *sitter.Node {
	if f := n.ChildByFieldName("body"); f != nil {
		return f
	}
	return firstChildOfType(n, "body_statement")
}

func firstChildOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

func (b *builder) class(n *sitter.Node, rng loc.Range) (*Node, error) {
	name, err := b.build(n.ChildByFieldName("name"))
	if err != nil {
		return nil, err
	}
	var superclass *Node
	if sc := n.ChildByFieldName("superclass"); sc != nil {
		inner := b.named(sc)
		if len(inner) > 0 {
			superclass, err = b.build(inner[0])
			if err != nil {
				return nil, err
			}
		}
	}
	body, err := b.methodBody(bodyChild(n))
	if err != nil {
		return nil, err
	}
	return &Node{Kind: Class, Children: []*Node{name, superclass, body}, Range: rng}, nil
}

func (b *builder) call(n *sitter.Node, rng loc.Range) (*Node, error) {
	receiver, err := b.buildOpt(n.ChildByFieldName("receiver"))
	if err != nil {
		return nil, err
	}
	method := n.ChildByFieldName("method")
	if method == nil {
		return nil, &UnsupportedError{Construct: "call without method", Range: rng}
	}
	methodLeaf := &Node{Kind: Ident, Text: b.text(method), Range: tsRange(method)}
	args, err := b.buildOpt(n.ChildByFieldName("arguments"))
	if err != nil {
		return nil, err
	}
	block, err := b.buildOpt(n.ChildByFieldName("block"))
	if err != nil {
		return nil, err
	}
	return &Node{Kind: Call, Text: b.text(method), Children: []*Node{receiver, methodLeaf, args, block}, Range: rng}, nil
}

func (b *builder) elementReference(n *sitter.Node, rng loc.Range) (*Node, error) {
	objectCST := n.ChildByFieldName("object")
	object, err := b.build(objectCST)
	if err != nil {
		return nil, err
	}
	var indexNodes []*sitter.Node
	for _, c := range b.named(n) {
		if c.StartByte() == objectCST.StartByte() && c.EndByte() == objectCST.EndByte() {
			continue
		}
		indexNodes = append(indexNodes, c)
	}
	indexes, err := b.buildAll(indexNodes)
	if err != nil {
		return nil, err
	}
	var argsNode *Node
	if len(indexes) > 0 {
		argsRng := indexes[0].Range
		for _, ix := range indexes[1:] {
			argsRng = argsRng.Union(ix.Range)
		}
		argsNode = &Node{Kind: Args, Children: indexes, Range: argsRng}
	}
	return &Node{Kind: Call, Text: "[]", Children: []*Node{object, nil, argsNode, nil}, Range: rng}, nil
}

func (b *builder) params(n *sitter.Node, rng loc.Range) (*Node, error) {
	var kids []*Node
	for _, c := range b.named(n) {
		crng := tsRange(c)
		switch c.Type() {
		case "identifier":
			kids = append(kids, &Node{Kind: Ident, Text: b.text(c), Range: crng})
		case "optional_parameter":
			def, err := b.build(c.ChildByFieldName("value"))
			if err != nil {
				return nil, err
			}
			kids = append(kids, &Node{Kind: OptParam, Text: b.text(c.ChildByFieldName("name")), Children: []*Node{def}, Range: crng})
		case "splat_parameter":
			name := ""
			if nm := c.ChildByFieldName("name"); nm != nil {
				name = b.text(nm)
			}
			kids = append(kids, &Node{Kind: RestParam, Text: name, Range: crng})
		case "block_parameter":
			kids = append(kids, &Node{Kind: BlockParam, Text: b.text(c.ChildByFieldName("name")), Range: crng})
		case "forward_parameter":
			kids = append(kids, &Node{Kind: ForwardParam, Range: crng})
		default:
			return nil, &UnsupportedError{Construct: "parameter " + c.Type(), Range: crng}
		}
	}
	return &Node{Kind: Params, Children: kids, Range: rng}, nil
}

func (b *builder) wrapOne(n *sitter.Node, rng loc.Range, kind Kind) (*Node, error) {
	var value *Node
	named := b.named(n)
	if len(named) > 0 {
		v, err := b.build(named[0])
		if err != nil {
			return nil, err
		}
		value = v
	}
	return &Node{Kind: kind, Children: []*Node{value}, Range: rng}, nil
}

func (b *builder) stringLit(n *sitter.Node, rng loc.Range, kind Kind) (*Node, error) {
	kids, err := b.buildAll(b.named(n))
	if err != nil {
		return nil, err
	}
	return &Node{Kind: kind, Children: kids, Range: rng}, nil
}

// regex extracts parts and trailing flags from a /pattern/flags literal.
func (b *builder) regex(n *sitter.Node, rng loc.Range) (*Node, error) {
	kids, err := b.buildAll(b.named(n))
	if err != nil {
		return nil, err
	}
	text := b.text(n)
	flags := ""
	if i := strings.LastIndexByte(text, '/'); i >= 0 {
		flags = text[i+1:]
	}
	return &Node{Kind: Regexp, Text: flags, Children: kids, Range: rng}, nil
}

// wordArray builds %w[] and %i[] literals. Each word keeps its own range.
func (b *builder) wordArray(n *sitter.Node, rng loc.Range, kind Kind) (*Node, error) {
	var kids []*Node
	for _, c := range b.named(n) {
		switch c.Type() {
		case "bare_string", "bare_symbol":
			var text strings.Builder
			for _, part := range b.named(c) {
				text.WriteString(b.text(part))
			}
			kids = append(kids, &Node{Kind: StringContent, Text: text.String(), Range: tsRange(c)})
		case "string_content":
			kids = append(kids, &Node{Kind: StringContent, Text: b.text(c), Range: tsRange(c)})
		}
	}
	return &Node{Kind: kind, Children: kids, Range: rng}, nil
}

func (b *builder) rangeLit(n *sitter.Node, rng loc.Range) (*Node, error) {
	text := b.text(n)
	op := ".."
	opIdx := strings.Index(text, "...")
	if opIdx >= 0 {
		op = "..."
	} else {
		opIdx = strings.Index(text, "..")
	}

	var low, high *Node
	for _, c := range b.named(n) {
		child, err := b.build(c)
		if err != nil {
			return nil, err
		}
		if child.Range.Start.Offset < rng.Start.Offset+opIdx {
			low = child
		} else {
			high = child
		}
	}
	return &Node{Kind: Range, Text: op, Children: []*Node{low, high}, Range: rng}, nil
}
