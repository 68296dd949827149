package syntax

import "fmt"

// Kind identifies a node in the primary schema. The vocabulary is banyan's
// own: it is derived from the tree-sitter Ruby grammar but normalized so
// that every construct the translator must distinguish has its own kind
// (e.g. a global-variable alias is VarAlias, not Alias).
//
// Each kind fixes a child layout, documented here. A nil entry in Children
// marks an absent slot.
type Kind int

const (
	// Program: children are top-level statements.
	Program Kind = iota
	// Statements: a synthetic statement sequence (bodies, branches,
	// parenthesized interiors). Range is the union of the children.
	Statements

	// Alias: [new, old] method name leaves. Text is empty.
	Alias
	// VarAlias: [new, old] GVar leaves — `alias $foo $bar`.
	VarAlias
	// Undef: one or more method name leaves.
	Undef

	// And, Or: [left, right]; Text is the operator as written
	// ("&&" or "and", "||" or "or").
	And
	Or
	// Not: [operand]; Text is "!" or "not".
	Not
	// Defined: [expr] — `defined?(expr)`.
	Defined
	// Binary: [left, right]; Text is the operator.
	Binary
	// Unary: [operand]; Text is the operator ("-", "+", "~", "!").
	Unary

	// Assign: [target, value].
	Assign
	// OpAssign: [target, value]; Text is the combined operator ("+=",
	// "||=", "&&=", "<<=", ...).
	OpAssign

	// Leaves carrying their source text in Text. Variable leaves include
	// the sigil ("@x", "$x", "@@x").
	Ident
	Const
	IVar
	GVar
	CVar
	Self
	Nil
	True
	False
	// Int, Float: Text is the literal as written.
	Int
	Float

	// ScopeRes: [scope or nil]; Text is the constant name. A nil scope
	// means a top-level reference (`::Foo`).
	ScopeRes

	// String: children are StringContent and Interp parts; the range
	// covers the delimiters.
	String
	// StringContent: leaf, Text is the raw content.
	StringContent
	// Interp: [Statements] — one #{...} interpolation.
	Interp
	// StringConcat: adjacent string literals, children are String nodes.
	StringConcat
	// Symbol: leaf, Text is the name without the colon.
	Symbol
	// Regexp: children are StringContent/Interp parts; Text is the flags.
	Regexp

	// Array: children are elements.
	Array
	// WordArray, SymArray: children are StringContent leaves, one per
	// word, each with its own range.
	WordArray
	SymArray
	// Hash: children are Pair nodes.
	Hash
	// Pair: [key, value].
	Pair
	// Range: [low, high], either may be nil; Text is ".." or "...".
	Range

	// Call: [receiver, method, args, block], any slot but method may be
	// nil; method is an Ident leaf for the method name and is nil only
	// for element references; Text duplicates the method name ("[]" for
	// element references).
	Call
	// Args: children are argument expressions.
	Args
	// Splat: [value].
	Splat
	// BlockPass: [value] — `&blk` in an argument list.
	BlockPass
	// Block: [params, body], params may be nil.
	Block

	// If, Unless: [cond, then, else]; then is Statements, else is nil,
	// Statements, or a nested If (elsif chain).
	If
	Unless
	// IfMod, UnlessMod: [cond, body] — modifier form, body is a single
	// expression.
	IfMod
	UnlessMod
	// Ternary: [cond, then, else].
	Ternary
	// While, Until: [cond, body].
	While
	Until
	// WhileMod, UntilMod: [cond, body] — modifier form.
	WhileMod
	UntilMod
	// For: [var, iterable, body].
	For

	// Case: [subject, when..., else]; subject may be nil, the trailing
	// else is a Statements node or absent.
	Case
	// When: children are the test expressions followed by a Statements
	// body.
	When

	// Begin: [body, rescue..., else?, ensure?] — `begin ... end`. The
	// else clause is a RescueElse node, the ensure an Ensure node.
	Begin
	// Rescue: [exceptions, variable, body]; exceptions is an Args node
	// or nil, variable a leaf or nil.
	Rescue
	// RescueElse: [Statements].
	RescueElse
	// RescueMod: [expr, handler] — `expr rescue handler`.
	RescueMod
	// Ensure: [Statements].
	Ensure

	// Return, Break, Next: children are the value expressions, if any.
	Return
	Break
	Next
	Redo
	Retry
	// Yield: children are the argument expressions, if any.
	Yield

	// Def: [params, body], params may be nil; Text is the method name.
	Def
	// DefSelf: [object, params, body]; Text is the method name.
	DefSelf
	// Params: children are Ident, OptParam, RestParam, BlockParam and
	// ForwardParam nodes.
	Params
	// OptParam: [default]; Text is the parameter name.
	OptParam
	// RestParam: leaf; Text is the name, possibly empty (`*`).
	RestParam
	// BlockParam: leaf; Text is the name.
	BlockParam
	// ForwardParam: leaf — `...`.
	ForwardParam

	// Class: [name, superclass, body], superclass may be nil.
	Class
	// SingletonClass: [object, body] — `class << obj`.
	SingletonClass
	// Module: [name, body].
	Module

	// Paren: [Statements] — explicit parentheses around statements.
	Paren

	numKinds // sentinel, keep last
)

var kindNames = [numKinds]string{
	Program:        "Program",
	Statements:     "Statements",
	Alias:          "Alias",
	VarAlias:       "VarAlias",
	Undef:          "Undef",
	And:            "And",
	Or:             "Or",
	Not:            "Not",
	Defined:        "Defined",
	Binary:         "Binary",
	Unary:          "Unary",
	Assign:         "Assign",
	OpAssign:       "OpAssign",
	Ident:          "Ident",
	Const:          "Const",
	IVar:           "IVar",
	GVar:           "GVar",
	CVar:           "CVar",
	Self:           "Self",
	Nil:            "Nil",
	True:           "True",
	False:          "False",
	Int:            "Int",
	Float:          "Float",
	ScopeRes:       "ScopeRes",
	String:         "String",
	StringContent:  "StringContent",
	Interp:         "Interp",
	StringConcat:   "StringConcat",
	Symbol:         "Symbol",
	Regexp:         "Regexp",
	Array:          "Array",
	WordArray:      "WordArray",
	SymArray:       "SymArray",
	Hash:           "Hash",
	Pair:           "Pair",
	Range:          "Range",
	Call:           "Call",
	Args:           "Args",
	Splat:          "Splat",
	BlockPass:      "BlockPass",
	Block:          "Block",
	If:             "If",
	Unless:         "Unless",
	IfMod:          "IfMod",
	UnlessMod:      "UnlessMod",
	Ternary:        "Ternary",
	While:          "While",
	Until:          "Until",
	WhileMod:       "WhileMod",
	UntilMod:       "UntilMod",
	For:            "For",
	Case:           "Case",
	When:           "When",
	Begin:          "Begin",
	Rescue:         "Rescue",
	RescueElse:     "RescueElse",
	RescueMod:      "RescueMod",
	Ensure:         "Ensure",
	Return:         "Return",
	Break:          "Break",
	Next:           "Next",
	Redo:           "Redo",
	Retry:          "Retry",
	Yield:          "Yield",
	Def:            "Def",
	DefSelf:        "DefSelf",
	Params:         "Params",
	OptParam:       "OptParam",
	RestParam:      "RestParam",
	BlockParam:     "BlockParam",
	ForwardParam:   "ForwardParam",
	Class:          "Class",
	SingletonClass: "SingletonClass",
	Module:         "Module",
	Paren:          "Paren",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}
