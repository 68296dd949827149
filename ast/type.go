package ast

import "fmt"

// Type identifies a node in the reference schema. The vocabulary and naming
// follow the whitequark parser gem's s-expression node types.
type Type int

const (
	Alias Type = iota
	And
	AndAsgn
	Arg
	Args
	Array
	Begin
	Block
	BlockArg
	BlockPass
	Break
	Case
	Casgn
	CBase
	Class
	Const
	CVar
	CVasgn
	Def
	Defined
	Defs
	DStr
	DSym
	ERange
	Ensure
	False
	Float
	For
	ForwardArg
	GVar
	GVasgn
	Hash
	If
	IRange
	Int
	IVar
	IVasgn
	KwBegin
	LVar
	LVasgn
	Module
	Next
	Nil
	OpAsgn
	OptArg
	Or
	OrAsgn
	Pair
	Redo
	Regexp
	Regopt
	Resbody
	Rescue
	RestArg
	Retry
	Return
	SClass
	Self
	Send
	Splat
	Str
	Sym
	True
	Undef
	Until
	UntilPost
	When
	While
	WhilePost
	Yield

	numTypes // sentinel, keep last
)

var typeNames = [numTypes]string{
	Alias:      "alias",
	And:        "and",
	AndAsgn:    "and_asgn",
	Arg:        "arg",
	Args:       "args",
	Array:      "array",
	Begin:      "begin",
	Block:      "block",
	BlockArg:   "blockarg",
	BlockPass:  "block_pass",
	Break:      "break",
	Case:       "case",
	Casgn:      "casgn",
	CBase:      "cbase",
	Class:      "class",
	Const:      "const",
	CVar:       "cvar",
	CVasgn:     "cvasgn",
	Def:        "def",
	Defined:    "defined?",
	Defs:       "defs",
	DStr:       "dstr",
	DSym:       "dsym",
	ERange:     "erange",
	Ensure:     "ensure",
	False:      "false",
	Float:      "float",
	For:        "for",
	ForwardArg: "forward_arg",
	GVar:       "gvar",
	GVasgn:     "gvasgn",
	Hash:       "hash",
	If:         "if",
	IRange:     "irange",
	Int:        "int",
	IVar:       "ivar",
	IVasgn:     "ivasgn",
	KwBegin:    "kwbegin",
	LVar:       "lvar",
	LVasgn:     "lvasgn",
	Module:     "module",
	Next:       "next",
	Nil:        "nil",
	OpAsgn:     "op_asgn",
	OptArg:     "optarg",
	Or:         "or",
	OrAsgn:     "or_asgn",
	Pair:       "pair",
	Redo:       "redo",
	Regexp:     "regexp",
	Regopt:     "regopt",
	Resbody:    "resbody",
	Rescue:     "rescue",
	RestArg:    "restarg",
	Retry:      "retry",
	Return:     "return",
	SClass:     "sclass",
	Self:       "self",
	Send:       "send",
	Splat:      "splat",
	Str:        "str",
	Sym:        "sym",
	True:       "true",
	Undef:      "undef",
	Until:      "until",
	UntilPost:  "until_post",
	When:       "when",
	While:      "while",
	WhilePost:  "while_post",
	Yield:      "yield",
}

var nameToType = func() map[string]Type {
	m := make(map[string]Type, numTypes)
	for t, name := range typeNames {
		m[name] = Type(t)
	}
	return m
}()

// String returns the whitequark name for the type, e.g. "gvasgn".
func (t Type) String() string {
	if t < 0 || t >= numTypes {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// TypeFromString resolves a whitequark type name to a Type.
func TypeFromString(name string) (Type, error) {
	t, ok := nameToType[name]
	if !ok {
		return 0, fmt.Errorf("ast: unknown node type %q", name)
	}
	return t, nil
}
