// Package ast defines the syntax tree produced by the parser.
//
// Expressions, statements, assignment targets and property definitions are
// closed sets: each is a sealed interface whose variants live in this
// package, so a type switch over them can be checked for completeness.
package ast

import (
	"math/big"

	"github.com/nooga/esfront/pkg/interner"
	"github.com/nooga/esfront/pkg/lexer"
)

// --- Interfaces ---

// Node is the base interface for all AST nodes.
type Node interface {
	Span() lexer.Span
	LinearSpan() lexer.LinearSpan
}

// Expression represents an expression node in the AST.
type Expression interface {
	Node
	expressionNode()
}

// Statement represents a statement node in the AST.
type Statement interface {
	Node
	statementNode()
}

// AssignTarget is anything that may appear on the left of `=` or inside a
// destructuring pattern: identifiers, property accesses and patterns.
type AssignTarget interface {
	Node
	assignTargetNode()
}

// PropertyDefinition is one entry of an object literal.
type PropertyDefinition interface {
	Node
	propertyDefinitionNode()
}

// Base holds the source location shared by every node.
type Base struct {
	Loc    lexer.Span
	Linear lexer.LinearSpan
}

// At builds a Base from a span pair.
func At(span lexer.Span, linear lexer.LinearSpan) Base {
	return Base{Loc: span, Linear: linear}
}

func (b *Base) Span() lexer.Span             { return b.Loc }
func (b *Base) LinearSpan() lexer.LinearSpan { return b.Linear }

// Between returns a Base covering from's start to to's end.
func Between(from, to Node) Base {
	return Base{
		Loc:    lexer.NewSpan(from.Span().Start, to.Span().End),
		Linear: from.LinearSpan().Union(to.LinearSpan()),
	}
}

// --- Script ---

// Script is the root node of the AST.
type Script struct {
	Base
	Statements []Statement
	Strict     bool
}

// --- Expression Nodes ---

// Identifier is a name reference or binding.
type Identifier struct {
	Base
	Sym interner.Sym
}

func (*Identifier) expressionNode()   {}
func (*Identifier) assignTargetNode() {}

// LiteralKind tells which field of Literal holds the value.
type LiteralKind uint8

const (
	LitString LiteralKind = iota
	LitNum
	LitInt
	LitBigInt
	LitBool
	LitNull
)

// Literal is a string, numeric, boolean or null literal.
type Literal struct {
	Base
	Kind   LiteralKind
	Str    interner.Sym
	Num    float64
	Int    int32
	BigInt *big.Int
	Bool   bool
}

func (*Literal) expressionNode() {}

// RegExpLiteral is `/pattern/flags`.
type RegExpLiteral struct {
	Base
	Pattern interner.Sym
	Flags   interner.Sym
}

func (*RegExpLiteral) expressionNode() {}

// ArrayLiteral is `[a, , ...b]`; holes are nil elements.
type ArrayLiteral struct {
	Base
	Elements []Expression
	// TrailingCommaAfterSpread marks `[...a,]`, which cannot become a pattern.
	TrailingCommaAfterSpread bool
}

func (*ArrayLiteral) expressionNode() {}

// ObjectLiteral is `{ ... }`.
type ObjectLiteral struct {
	Base
	Properties []PropertyDefinition
}

func (*ObjectLiteral) expressionNode() {}

// PropertyName is a literal key, or a computed key when Computed is set.
type PropertyName struct {
	Base
	Name     interner.Sym
	Computed Expression
}

// PropertyKV is `key: value`.
type PropertyKV struct {
	Base
	Key   *PropertyName
	Value Expression
}

// ShorthandProperty is `{ a }`.
type ShorthandProperty struct {
	Base
	Ident *Identifier
}

// CoverInitializedName is `{ a = 1 }`, legal only when the literal is
// reinterpreted as a pattern.
type CoverInitializedName struct {
	Base
	Ident *Identifier
	Init  Expression
}

// SpreadProperty is `{ ...a }`.
type SpreadProperty struct {
	Base
	Arg Expression
}

// MethodKind separates plain methods from accessors.
type MethodKind uint8

const (
	MethodPlain MethodKind = iota
	MethodGet
	MethodSet
)

// MethodDefinition is `{ m() {} }`, `{ get m() {} }` or `{ set m(v) {} }`.
// Async and generator methods are told apart by Function.Kind.
type MethodDefinition struct {
	Base
	Kind     MethodKind
	Key      *PropertyName
	Function *FunctionExpression
}

func (*PropertyKV) propertyDefinitionNode()           {}
func (*ShorthandProperty) propertyDefinitionNode()    {}
func (*CoverInitializedName) propertyDefinitionNode() {}
func (*SpreadProperty) propertyDefinitionNode()       {}
func (*MethodDefinition) propertyDefinitionNode()     {}

// Parenthesized is `( expr )`.
type Parenthesized struct {
	Base
	Expr Expression
}

func (*Parenthesized) expressionNode() {}

// Binary covers arithmetic, relational, logical and comma operators.
type Binary struct {
	Base
	Op  BinaryOp
	LHS Expression
	RHS Expression
}

func (*Binary) expressionNode() {}

// Unary is a prefix operator applied to Target.
type Unary struct {
	Base
	Op     UnaryOp
	Target Expression
}

func (*Unary) expressionNode() {}

// Update is `++x`, `x++`, `--x` or `x--`.
type Update struct {
	Base
	Op     UpdateOp
	Target Expression
}

func (*Update) expressionNode() {}

// Assign is `target op= value`.
type Assign struct {
	Base
	Op     AssignOp
	Target AssignTarget
	Value  Expression
	// Cover is the target as written, before it was reinterpreted, so that
	// `(a) = 1` can be told apart from `a = 1`. Nil for synthesized nodes.
	Cover Expression
}

func (*Assign) expressionNode() {}

// Conditional is `cond ? then : else`.
type Conditional struct {
	Base
	Cond Expression
	Then Expression
	Else Expression
}

func (*Conditional) expressionNode() {}

// Call is `callee(args)`.
type Call struct {
	Base
	Callee Expression
	Args   []Expression
}

func (*Call) expressionNode() {}

// New is `new callee(args)`; HasArgs is false for `new callee`.
type New struct {
	Base
	Callee  Expression
	Args    []Expression
	HasArgs bool
}

func (*New) expressionNode() {}

// PropertyAccess is `target.name` or, with Computed set, `target[expr]`.
type PropertyAccess struct {
	Base
	Target   Expression
	Name     interner.Sym
	Computed Expression
}

func (*PropertyAccess) expressionNode()   {}
func (*PropertyAccess) assignTargetNode() {}

// SuperPropertyAccess is `super.name` or `super[expr]`.
type SuperPropertyAccess struct {
	Base
	Name     interner.Sym
	Computed Expression
}

func (*SuperPropertyAccess) expressionNode()   {}
func (*SuperPropertyAccess) assignTargetNode() {}

// SuperCall is `super(args)`.
type SuperCall struct {
	Base
	Args []Expression
}

func (*SuperCall) expressionNode() {}

// NewTarget is `new.target`.
type NewTarget struct{ Base }

func (*NewTarget) expressionNode() {}

// This is `this`.
type This struct{ Base }

func (*This) expressionNode() {}

// Spread is `...arg` inside array literals and argument lists.
type Spread struct {
	Base
	Arg Expression
}

func (*Spread) expressionNode() {}

// Yield is `yield`, `yield arg` or `yield* arg`.
type Yield struct {
	Base
	Arg      Expression
	Delegate bool
}

func (*Yield) expressionNode() {}

// Await is `await arg`.
type Await struct {
	Base
	Arg Expression
}

func (*Await) expressionNode() {}

// FunctionKind distinguishes the four function flavours.
type FunctionKind uint8

const (
	FuncOrdinary FunctionKind = iota
	FuncGenerator
	FuncAsync
	FuncAsyncGenerator
)

// IsAsync reports whether functions of this kind may use await.
func (k FunctionKind) IsAsync() bool { return k == FuncAsync || k == FuncAsyncGenerator }

// IsGenerator reports whether functions of this kind may use yield.
func (k FunctionKind) IsGenerator() bool { return k == FuncGenerator || k == FuncAsyncGenerator }

// FunctionExpression is `[async] function [*] [name] (params) { body }`.
// Name may be set afterwards by assignment; HasBindingIdentifier tells
// whether it was written in the source.
type FunctionExpression struct {
	Base
	Kind                 FunctionKind
	Name                 *Identifier
	HasBindingIdentifier bool
	Params               *FormalParameterList
	Body                 *FunctionBody
}

func (*FunctionExpression) expressionNode() {}

// ArrowFunction is `[async] params => body`. Name is only ever inferred.
type ArrowFunction struct {
	Base
	Async  bool
	Name   *Identifier
	Params *FormalParameterList
	Body   *FunctionBody
}

func (*ArrowFunction) expressionNode() {}

// FormalParameterList is a function's parameter list. As an expression it is
// the cover form produced by `( ... )` or `async( ... )` directly followed by
// `=>`, waiting for the assignment level to turn it into an arrow function.
type FormalParameterList struct {
	Base
	Params []*FormalParameter
	// Async marks the cover produced by `async ( ... ) =>`.
	Async bool
}

func (*FormalParameterList) expressionNode() {}

// FormalParameter is one parameter: a binding with an optional default, or a
// rest element.
type FormalParameter struct {
	Base
	Target AssignTarget
	Init   Expression
	Rest   bool
}

// FunctionBody holds the statements of a function or script.
type FunctionBody struct {
	Base
	Statements []Statement
	// Strict is set when the body opens with a "use strict" directive.
	Strict bool
	// Expression marks a concise arrow body; it holds one Return statement.
	Expression bool
}

// --- Patterns ---

// ObjectPattern is `{ a, b: c = 1, ...rest }` used as a target.
type ObjectPattern struct {
	Base
	Properties []*PatternProperty
}

func (*ObjectPattern) assignTargetNode() {}

// PatternProperty is one property of an ObjectPattern. Key is nil for rest
// elements.
type PatternProperty struct {
	Base
	Key    *PropertyName
	Target AssignTarget
	Init   Expression
	Rest   bool
}

// ArrayPattern is `[a, , [b] = c, ...rest]` used as a target.
type ArrayPattern struct {
	Base
	Elements []*PatternElement
}

func (*ArrayPattern) assignTargetNode() {}

// PatternElement is one slot of an ArrayPattern; Target is nil for holes.
type PatternElement struct {
	Base
	Target AssignTarget
	Init   Expression
	Rest   bool
}

// --- Statement Nodes ---

// ExpressionStatement is an expression followed by `;` or an inserted one.
type ExpressionStatement struct {
	Base
	Expr Expression
}

// Block is `{ statements }`.
type Block struct {
	Base
	Statements []Statement
}

// DeclKind is the keyword of a variable declaration.
type DeclKind uint8

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclConst
)

func (k DeclKind) String() string {
	switch k {
	case DeclLet:
		return "let"
	case DeclConst:
		return "const"
	}
	return "var"
}

// VariableDeclaration is `var|let|const a = 1, [b] = c`.
type VariableDeclaration struct {
	Base
	Kind         DeclKind
	Declarations []*VariableDeclarator
}

// VariableDeclarator binds Target, an identifier or binding pattern.
type VariableDeclarator struct {
	Base
	Target AssignTarget
	Init   Expression
}

// Return is `return [arg]`.
type Return struct {
	Base
	Arg Expression
}

// If is `if (cond) then [else otherwise]`.
type If struct {
	Base
	Cond Expression
	Then Statement
	Else Statement
}

// Empty is a lone `;`.
type Empty struct{ Base }

// FunctionDeclaration is a function in statement position; Function.Name is
// always set.
type FunctionDeclaration struct {
	Base
	Function *FunctionExpression
}

func (*ExpressionStatement) statementNode() {}
func (*Block) statementNode()               {}
func (*VariableDeclaration) statementNode() {}
func (*Return) statementNode()              {}
func (*If) statementNode()                  {}
func (*Empty) statementNode()               {}
func (*FunctionDeclaration) statementNode() {}
