package ast

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/nooga/esfront/pkg/interner"
	"github.com/nooga/esfront/pkg/lexer"
)

// JSEmitter regenerates JavaScript source from the tree. Operator
// expressions are fully parenthesized so the output re-parses to the same
// shape regardless of precedence.
type JSEmitter struct {
	indentLevel int
	buffer      bytes.Buffer
	in          *interner.Interner
}

// NewJSEmitter creates an emitter resolving symbols through in.
func NewJSEmitter(in *interner.Interner) *JSEmitter {
	return &JSEmitter{in: in}
}

// Print renders a Script, Statement or Expression. A top-level expression
// is printed without enclosing parentheses.
func Print(node Node, in *interner.Interner) string {
	e := NewJSEmitter(in)
	switch n := node.(type) {
	case *Script:
		return e.Emit(n)
	case Statement:
		e.emitStatement(n)
	case Expression:
		e.emitExpressionBare(n)
	default:
		e.write("/* Unsupported node type: %T */", n)
	}
	return e.buffer.String()
}

// Emit converts a script to JavaScript code.
func (e *JSEmitter) Emit(script *Script) string {
	e.buffer.Reset()
	e.indentLevel = 0

	for _, stmt := range script.Statements {
		e.emitStatement(stmt)
	}

	return e.buffer.String()
}

// Helper methods

func (e *JSEmitter) indent() {
	e.indentLevel++
}

func (e *JSEmitter) dedent() {
	if e.indentLevel > 0 {
		e.indentLevel--
	}
}

func (e *JSEmitter) writeIndent() {
	for i := 0; i < e.indentLevel; i++ {
		e.buffer.WriteString("  ")
	}
}

func (e *JSEmitter) write(format string, args ...interface{}) {
	fmt.Fprintf(&e.buffer, format, args...)
}

func (e *JSEmitter) writeString(s string) {
	e.buffer.WriteString(s)
}

func (e *JSEmitter) name(sym interner.Sym) string {
	return e.in.ResolveString(sym)
}

// --- Statements ---

func (e *JSEmitter) emitStatement(stmt Statement) {
	e.writeIndent()
	e.emitStatementInline(stmt)
	e.writeString("\n")
}

func (e *JSEmitter) emitStatementInline(stmt Statement) {
	switch s := stmt.(type) {
	case *ExpressionStatement:
		e.emitExpressionStatement(s)
	case *Block:
		e.emitBlock(s.Statements)
	case *VariableDeclaration:
		e.emitVariableDeclaration(s)
		e.writeString(";")
	case *Return:
		e.writeString("return")
		if s.Arg != nil {
			e.writeString(" ")
			e.emitExpression(s.Arg)
		}
		e.writeString(";")
	case *If:
		e.writeString("if (")
		e.emitExpression(s.Cond)
		e.writeString(") ")
		e.emitStatementInline(s.Then)
		if s.Else != nil {
			e.writeString(" else ")
			e.emitStatementInline(s.Else)
		}
	case *Empty:
		e.writeString(";")
	case *FunctionDeclaration:
		e.emitFunction(s.Function)
	default:
		e.write("/* Unsupported statement type: %T */", s)
	}
}

// emitExpressionStatement drops the outer parentheses of operator
// expressions, adding them back when the text would otherwise start like a
// block, a declaration or a function.
func (e *JSEmitter) emitExpressionStatement(stmt *ExpressionStatement) {
	sub := &JSEmitter{indentLevel: e.indentLevel, in: e.in}
	sub.emitExpressionBare(stmt.Expr)
	text := sub.buffer.String()
	if startsAmbiguously(text) {
		text = "(" + text + ")"
	}
	e.writeString(text)
	e.writeString(";")
}

func startsAmbiguously(text string) bool {
	for _, prefix := range []string{"{", "function", "async function", "let["} {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

func (e *JSEmitter) emitBlock(stmts []Statement) {
	if len(stmts) == 0 {
		e.writeString("{}")
		return
	}
	e.writeString("{\n")
	e.indent()
	for _, s := range stmts {
		e.emitStatement(s)
	}
	e.dedent()
	e.writeIndent()
	e.writeString("}")
}

func (e *JSEmitter) emitVariableDeclaration(decl *VariableDeclaration) {
	e.writeString(decl.Kind.String())
	e.writeString(" ")
	for i, d := range decl.Declarations {
		if i > 0 {
			e.writeString(", ")
		}
		e.emitTarget(d.Target)
		if d.Init != nil {
			e.writeString(" = ")
			e.emitExpression(d.Init)
		}
	}
}

// --- Expressions ---

// wrapsItself reports whether emitExpression surrounds expr with
// parentheses.
func wrapsItself(expr Expression) bool {
	switch expr.(type) {
	case *Binary, *Unary, *Update, *Assign, *Conditional, *ArrowFunction, *Yield, *Await:
		return true
	}
	return false
}

func (e *JSEmitter) emitExpression(expr Expression) {
	if wrapsItself(expr) {
		e.writeString("(")
		e.emitExpressionBare(expr)
		e.writeString(")")
		return
	}
	e.emitExpressionBare(expr)
}

func (e *JSEmitter) emitExpressionBare(expr Expression) {
	switch exp := expr.(type) {
	case *Identifier:
		e.writeString(e.name(exp.Sym))
	case *Literal:
		e.writeString(literalText(exp, e.in))
	case *RegExpLiteral:
		e.write("/%s/%s", e.name(exp.Pattern), e.name(exp.Flags))
	case *ArrayLiteral:
		e.emitArrayLiteral(exp)
	case *ObjectLiteral:
		e.emitObjectLiteral(exp)
	case *Parenthesized:
		if wrapsItself(exp.Expr) {
			e.emitExpression(exp.Expr)
			return
		}
		e.writeString("(")
		e.emitExpression(exp.Expr)
		e.writeString(")")
	case *Binary:
		e.emitExpression(exp.LHS)
		if exp.Op == OpComma {
			e.writeString(", ")
		} else {
			e.write(" %s ", exp.Op)
		}
		e.emitExpression(exp.RHS)
	case *Unary:
		e.writeString(exp.Op.String())
		if exp.Op >= UnaryTypeOf {
			e.writeString(" ")
		}
		e.emitExpression(exp.Target)
	case *Update:
		if exp.Op.IsPrefix() {
			e.writeString(exp.Op.String())
			e.emitExpression(exp.Target)
		} else {
			e.emitExpression(exp.Target)
			e.writeString(exp.Op.String())
		}
	case *Assign:
		e.emitTarget(exp.Target)
		e.write(" %s ", exp.Op)
		e.emitExpression(exp.Value)
	case *Conditional:
		e.emitExpression(exp.Cond)
		e.writeString(" ? ")
		e.emitExpression(exp.Then)
		e.writeString(" : ")
		e.emitExpression(exp.Else)
	case *Call:
		e.emitCallee(exp.Callee)
		e.emitArguments(exp.Args)
	case *New:
		e.writeString("new ")
		if _, isCall := exp.Callee.(*Call); isCall {
			e.writeString("(")
			e.emitExpression(exp.Callee)
			e.writeString(")")
		} else {
			e.emitCallee(exp.Callee)
		}
		if exp.HasArgs {
			e.emitArguments(exp.Args)
		}
	case *PropertyAccess:
		e.emitCallee(exp.Target)
		e.emitAccessor(exp.Name, exp.Computed)
	case *SuperPropertyAccess:
		e.writeString("super")
		e.emitAccessor(exp.Name, exp.Computed)
	case *SuperCall:
		e.writeString("super")
		e.emitArguments(exp.Args)
	case *NewTarget:
		e.writeString("new.target")
	case *This:
		e.writeString("this")
	case *Spread:
		e.writeString("...")
		e.emitExpression(exp.Arg)
	case *Yield:
		e.writeString("yield")
		if exp.Delegate {
			e.writeString("*")
		}
		if exp.Arg != nil {
			e.writeString(" ")
			e.emitExpression(exp.Arg)
		}
	case *Await:
		e.writeString("await ")
		e.emitExpression(exp.Arg)
	case *FunctionExpression:
		e.emitFunction(exp)
	case *ArrowFunction:
		e.emitArrowFunction(exp)
	case *FormalParameterList:
		if exp.Async {
			e.writeString("async ")
		}
		e.emitParams(exp)
	default:
		e.write("/* Unsupported expression type: %T */", exp)
	}
}

// emitCallee parenthesizes callees that would otherwise bind differently,
// such as `(new F)()` or `(1).toString()`.
func (e *JSEmitter) emitCallee(callee Expression) {
	switch c := callee.(type) {
	case *New:
		if !c.HasArgs {
			e.writeString("(")
			e.emitExpression(c)
			e.writeString(")")
			return
		}
	case *Literal:
		if c.Kind != LitString {
			e.writeString("(")
			e.emitExpression(c)
			e.writeString(")")
			return
		}
	}
	e.emitExpression(callee)
}

func (e *JSEmitter) emitAccessor(name interner.Sym, computed Expression) {
	if computed != nil {
		e.writeString("[")
		e.emitExpression(computed)
		e.writeString("]")
		return
	}
	e.writeString(".")
	e.writeString(e.name(name))
}

func (e *JSEmitter) emitArguments(args []Expression) {
	e.writeString("(")
	for i, arg := range args {
		if i > 0 {
			e.writeString(", ")
		}
		e.emitExpression(arg)
	}
	e.writeString(")")
}

func (e *JSEmitter) emitArrayLiteral(arr *ArrayLiteral) {
	e.writeString("[")
	for i, elem := range arr.Elements {
		if i > 0 {
			e.writeString(", ")
		}
		if elem != nil {
			e.emitExpression(elem)
		}
	}
	if n := len(arr.Elements); n > 0 && (arr.Elements[n-1] == nil || arr.TrailingCommaAfterSpread) {
		e.writeString(",")
	}
	e.writeString("]")
}

func (e *JSEmitter) emitObjectLiteral(obj *ObjectLiteral) {
	if len(obj.Properties) == 0 {
		e.writeString("{}")
		return
	}
	e.writeString("{")
	for i, prop := range obj.Properties {
		if i > 0 {
			e.writeString(",")
		}
		e.writeString(" ")
		switch p := prop.(type) {
		case *PropertyKV:
			e.emitPropertyName(p.Key)
			e.writeString(": ")
			e.emitExpression(p.Value)
		case *ShorthandProperty:
			e.writeString(e.name(p.Ident.Sym))
		case *CoverInitializedName:
			e.writeString(e.name(p.Ident.Sym))
			e.writeString(" = ")
			e.emitExpression(p.Init)
		case *SpreadProperty:
			e.writeString("...")
			e.emitExpression(p.Arg)
		case *MethodDefinition:
			switch p.Kind {
			case MethodGet:
				e.writeString("get ")
			case MethodSet:
				e.writeString("set ")
			}
			if p.Function.Kind.IsAsync() {
				e.writeString("async ")
			}
			if p.Function.Kind.IsGenerator() {
				e.writeString("*")
			}
			e.emitPropertyName(p.Key)
			e.emitParams(p.Function.Params)
			e.writeString(" ")
			e.emitBlock(p.Function.Body.Statements)
		}
	}
	e.writeString(" }")
}

func (e *JSEmitter) emitPropertyName(key *PropertyName) {
	if key.Computed != nil {
		e.writeString("[")
		e.emitExpression(key.Computed)
		e.writeString("]")
		return
	}
	units := e.in.Resolve(key.Name)
	if isIdentifierName(units) {
		e.writeString(e.name(key.Name))
		return
	}
	e.writeString(QuoteUTF16(units))
}

func isIdentifierName(units []uint16) bool {
	if len(units) == 0 {
		return false
	}
	for i, r := range utf16.Decode(units) {
		if i == 0 && !lexer.IsIdentifierStart(r) || i > 0 && !lexer.IsIdentifierPart(r) {
			return false
		}
	}
	return true
}

// --- Functions ---

func (e *JSEmitter) emitFunction(fn *FunctionExpression) {
	if fn.Kind.IsAsync() {
		e.writeString("async ")
	}
	e.writeString("function")
	if fn.Kind.IsGenerator() {
		e.writeString("*")
	}
	if fn.Name != nil && fn.HasBindingIdentifier {
		e.writeString(" ")
		e.writeString(e.name(fn.Name.Sym))
	}
	e.emitParams(fn.Params)
	e.writeString(" ")
	e.emitBlock(fn.Body.Statements)
}

func (e *JSEmitter) emitArrowFunction(fn *ArrowFunction) {
	if fn.Async {
		e.writeString("async ")
	}
	e.emitParams(fn.Params)
	e.writeString(" => ")

	if !fn.Body.Expression {
		e.emitBlock(fn.Body.Statements)
		return
	}
	ret := fn.Body.Statements[0].(*Return)
	if _, isObject := ret.Arg.(*ObjectLiteral); isObject {
		e.writeString("(")
		e.emitExpression(ret.Arg)
		e.writeString(")")
		return
	}
	e.emitExpression(ret.Arg)
}

func (e *JSEmitter) emitParams(params *FormalParameterList) {
	e.writeString("(")
	for i, p := range params.Params {
		if i > 0 {
			e.writeString(", ")
		}
		if p.Rest {
			e.writeString("...")
		}
		e.emitTarget(p.Target)
		if p.Init != nil {
			e.writeString(" = ")
			e.emitExpression(p.Init)
		}
	}
	e.writeString(")")
}

// --- Patterns ---

func (e *JSEmitter) emitTarget(target AssignTarget) {
	switch t := target.(type) {
	case *Identifier:
		e.writeString(e.name(t.Sym))
	case *PropertyAccess:
		e.emitExpression(t)
	case *SuperPropertyAccess:
		e.emitExpression(t)
	case *ObjectPattern:
		e.emitObjectPattern(t)
	case *ArrayPattern:
		e.emitArrayPattern(t)
	}
}

func (e *JSEmitter) emitObjectPattern(pat *ObjectPattern) {
	if len(pat.Properties) == 0 {
		e.writeString("{}")
		return
	}
	e.writeString("{")
	for i, p := range pat.Properties {
		if i > 0 {
			e.writeString(",")
		}
		e.writeString(" ")
		if p.Rest {
			e.writeString("...")
			e.emitTarget(p.Target)
			continue
		}
		if id, ok := p.Target.(*Identifier); !ok || p.Key.Computed != nil || id.Sym != p.Key.Name {
			e.emitPropertyName(p.Key)
			e.writeString(": ")
		}
		e.emitTarget(p.Target)
		if p.Init != nil {
			e.writeString(" = ")
			e.emitExpression(p.Init)
		}
	}
	e.writeString(" }")
}

func (e *JSEmitter) emitArrayPattern(pat *ArrayPattern) {
	e.writeString("[")
	for i, el := range pat.Elements {
		if i > 0 {
			e.writeString(", ")
		}
		if el.Target == nil {
			continue
		}
		if el.Rest {
			e.writeString("...")
		}
		e.emitTarget(el.Target)
		if el.Init != nil {
			e.writeString(" = ")
			e.emitExpression(el.Init)
		}
	}
	if n := len(pat.Elements); n > 0 && pat.Elements[n-1].Target == nil {
		e.writeString(",")
	}
	e.writeString("]")
}

// --- Literals ---

func literalText(lit *Literal, in *interner.Interner) string {
	switch lit.Kind {
	case LitString:
		return QuoteUTF16(in.Resolve(lit.Str))
	case LitNum:
		if math.IsInf(lit.Num, 1) {
			return "1e999"
		}
		return strconv.FormatFloat(lit.Num, 'g', -1, 64)
	case LitInt:
		return strconv.FormatInt(int64(lit.Int), 10)
	case LitBigInt:
		return lit.BigInt.String() + "n"
	case LitBool:
		return strconv.FormatBool(lit.Bool)
	}
	return "null"
}

// QuoteUTF16 renders code units as a double-quoted JavaScript string literal.
// Lone surrogates survive as \u escapes, so the result decodes back to
// exactly the same units.
func QuoteUTF16(units []uint16) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(units); i++ {
		u := units[i]
		if utf16.IsSurrogate(rune(u)) {
			if u < 0xDC00 && i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= 0xDFFF {
				b.WriteRune(utf16.DecodeRune(rune(u), rune(units[i+1])))
				i++
				continue
			}
			fmt.Fprintf(&b, "\\u%04X", u)
			continue
		}
		switch u {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		default:
			if u < 0x20 || u == 0x7F {
				fmt.Fprintf(&b, "\\x%02X", u)
				continue
			}
			b.WriteRune(rune(u))
		}
	}
	b.WriteByte('"')
	return b.String()
}
