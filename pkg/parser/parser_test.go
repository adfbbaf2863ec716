package parser

import (
	"strings"
	"testing"

	"github.com/nooga/esfront/pkg/ast"
	"github.com/nooga/esfront/pkg/interner"
	"github.com/nooga/esfront/pkg/lexer"
	"github.com/nooga/esfront/pkg/source"
)

func sourceOf(input string) *source.SourceFile { return source.NewEvalSource(input) }

func parse(t *testing.T, input string, opts ...Option) (*ast.Script, *interner.Interner) {
	t.Helper()
	script, in, err := ParseString(input, opts...)
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return script, in
}

func singleExpression(t *testing.T, input string) (ast.Expression, *interner.Interner) {
	t.Helper()
	script, in := parse(t, input)
	if len(script.Statements) != 1 {
		t.Fatalf("%q: expected 1 statement, got %d", input, len(script.Statements))
	}
	stmt, ok := script.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("%q: expected *ast.ExpressionStatement, got %T", input, script.Statements[0])
	}
	return stmt.Expr, in
}

func TestParsePrinted(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a + b", "a + b;\n"},
		{"a/2", "a / 2;\n"},
		{"let myRegex = /=/;", "let myRegex = /=/;\n"},
		{"fn(/=/);", "fn(/=/);\n"},
		{"fn(a) / b;", "fn(a) / b;\n"},
		{"a + d*(b-3)+1", "(a + (d * (b - 3))) + 1;\n"},
		{"a **= b", "a **= b;\n"},
		{"2 ** 3 ** 2", "2 ** (3 ** 2);\n"},
		{"a ?? b ?? c", "(a ?? b) ?? c;\n"},
		{"a || b && c", "a || (b && c);\n"},
		{"(a ?? b) || c", "(a ?? b) || c;\n"},
		{"a ? b : c ? d : e", "a ? b : (c ? d : e);\n"},
		{"a = b = c", "a = (b = c);\n"},
		{"x = a, b", "(x = a), b;\n"},
		{"-a + !b", "(-a) + (!b);\n"},
		{"a++ + ++b", "(a++) + (++b);\n"},
		{"typeof a === 'string'", "(typeof a) === \"string\";\n"},
		{"a in b", "a in b;\n"},
		{"a.b[c](d, ...e)", "a.b[c](d, ...e);\n"},
		{"new F", "new F;\n"},
		{"new F(1).g", "new F(1).g;\n"},
		{"[a, , ...b]", "[a, , ...b];\n"},
		{"x = () => 1", "x = (() => 1);\n"},
		{"x = a => a * 2", "x = ((a) => (a * 2));\n"},
		{"x = (a, b = 1, ...c) => {}", "x = ((a, b = 1, ...c) => {});\n"},
		{"x = ({a, b: [c]}) => a", "x = (({ a, b: [c] }) => a);\n"},
		{"x = async a => a", "x = (async (a) => a);\n"},
		{"x = async (a, b) => a", "x = (async (a, b) => a);\n"},
		{"async(a, b)", "async(a, b);\n"},
		{"x = async of => {}", "x = (async (of) => {});\n"},
		{"x = () => ({})", "x = (() => ({}));\n"},
		{"[a, b] = [b, a]", "[a, b] = [b, a];\n"},
		{"({a, b = 1} = c)", "({ a, b = 1 } = c);\n"},
		{"x = /[/]/g.test(y)", "x = /[/]/g.test(y);\n"},
		{"a = b\n(c)", "a = b(c);\n"},
		{"a\n++b", "a;\n++b;\n"},
		{"var a = 1, b", "var a = 1, b;\n"},
		{"if (a) b; else c", "if (a) b; else c;\n"},
		{";", ";\n"},
	}

	for i, tt := range tests {
		script, in, err := ParseString(tt.input)
		if err != nil {
			t.Errorf("tests[%d] - %q: unexpected error: %v", i, tt.input, err)
			continue
		}
		actual := ast.Print(script, in)
		if actual != tt.expected {
			t.Errorf("tests[%d] - %q printed wrong. expected=%q, got=%q", i, tt.input, tt.expected, actual)
		}
	}
}

func TestBinarySpans(t *testing.T) {
	expr, _ := singleExpression(t, "a + b")
	bin, ok := expr.(*ast.Binary)
	if !ok {
		t.Fatalf("expected *ast.Binary, got %T", expr)
	}
	if bin.Op != ast.OpAdd {
		t.Fatalf("expected '+', got %q", bin.Op)
	}

	tests := []struct {
		node       ast.Node
		start, end lexer.Position
	}{
		{bin.LHS, lexer.NewPosition(1, 1), lexer.NewPosition(1, 2)},
		{bin.RHS, lexer.NewPosition(1, 5), lexer.NewPosition(1, 6)},
		{bin, lexer.NewPosition(1, 1), lexer.NewPosition(1, 6)},
	}
	for i, tt := range tests {
		span := tt.node.Span()
		if span.Start != tt.start || span.End != tt.end {
			t.Errorf("tests[%d] - wrong span. expected=%v-%v, got=%v-%v", i, tt.start, tt.end, span.Start, span.End)
		}
	}
}

func TestDivisionAndRegExp(t *testing.T) {
	expr, _ := singleExpression(t, "a/2")
	bin, ok := expr.(*ast.Binary)
	if !ok || bin.Op != ast.OpDiv {
		t.Fatalf("expected division, got %T", expr)
	}

	script, in := parse(t, "let myRegex = /=/;")
	decl, ok := script.Statements[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected *ast.VariableDeclaration, got %T", script.Statements[0])
	}
	re, ok := decl.Declarations[0].Init.(*ast.RegExpLiteral)
	if !ok {
		t.Fatalf("expected *ast.RegExpLiteral, got %T", decl.Declarations[0].Init)
	}
	if got := in.ResolveString(re.Pattern); got != "=" {
		t.Errorf("wrong pattern. expected=%q, got=%q", "=", got)
	}

	expr, _ = singleExpression(t, "fn(a) / b;")
	if bin, ok := expr.(*ast.Binary); !ok || bin.Op != ast.OpDiv {
		t.Fatalf("expected division after a call, got %T", expr)
	}
}

func TestFunctionNameInference(t *testing.T) {
	tests := []struct {
		input string
		name  string
	}{
		{"f = function () {}", "f"},
		{"f = () => 1", "f"},
		{"f ||= function () {}", "f"},
		{"var f = async function () {}", "f"},
		{"let [f = () => 1] = []", "f"},
	}

	for i, tt := range tests {
		script, in := parse(t, tt.input)
		var found bool
		ast.Inspect(script, func(n ast.Node) bool {
			var name *ast.Identifier
			switch fn := n.(type) {
			case *ast.FunctionExpression:
				if fn.HasBindingIdentifier {
					t.Errorf("tests[%d] - %q: name should not count as written", i, tt.input)
				}
				name = fn.Name
			case *ast.ArrowFunction:
				name = fn.Name
			default:
				return true
			}
			found = true
			if name == nil {
				t.Errorf("tests[%d] - %q: no name inferred", i, tt.input)
				return false
			}
			if got := in.ResolveString(name.Sym); got != tt.name {
				t.Errorf("tests[%d] - %q: wrong name. expected=%q, got=%q", i, tt.input, tt.name, got)
			}
			return false
		})
		if !found {
			t.Errorf("tests[%d] - %q: no function found", i, tt.input)
		}
	}

	// A written name wins over the inferred one.
	expr, _ := singleExpression(t, "f = function g() {}")
	fn := expr.(*ast.Assign).Value.(*ast.FunctionExpression)
	if !fn.HasBindingIdentifier {
		t.Errorf("written name should be kept")
	}
}

func TestAsyncFunctionExpression(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.FunctionKind
		name  string
	}{
		{"x = async function () {}", ast.FuncAsync, ""},
		{"x = async function f() { await 1; }", ast.FuncAsync, "f"},
		{"x = async function* g() { yield await 1; }", ast.FuncAsyncGenerator, "g"},
		{"function* outer() { x = async function yield() {}; }", ast.FuncAsync, "yield"},
	}

	for i, tt := range tests {
		script, in := parse(t, tt.input)
		var fn *ast.FunctionExpression
		ast.Inspect(script, func(n ast.Node) bool {
			if f, ok := n.(*ast.FunctionExpression); ok && f.Kind.IsAsync() && fn == nil {
				fn = f
				return false
			}
			return fn == nil
		})
		if fn == nil {
			t.Fatalf("tests[%d] - %q: no function expression", i, tt.input)
		}
		if fn.Kind != tt.kind {
			t.Errorf("tests[%d] - wrong kind. expected=%d, got=%d", i, tt.kind, fn.Kind)
		}
		if tt.name == "" {
			if fn.HasBindingIdentifier {
				t.Errorf("tests[%d] - expected an anonymous function", i)
			}
			continue
		}
		if !fn.HasBindingIdentifier || in.ResolveString(fn.Name.Sym) != tt.name {
			t.Errorf("tests[%d] - expected function named %q", i, tt.name)
		}
	}
}

func TestAccessors(t *testing.T) {
	expr, _ := singleExpression(t, "({ get a() { return 1; }, set a(v) {}, async *g() {}, m() {} })")
	obj, ok := expr.(*ast.Parenthesized).Expr.(*ast.ObjectLiteral)
	if !ok {
		t.Fatalf("expected object literal")
	}
	kinds := []ast.MethodKind{ast.MethodGet, ast.MethodSet, ast.MethodPlain, ast.MethodPlain}
	if len(obj.Properties) != len(kinds) {
		t.Fatalf("expected %d properties, got %d", len(kinds), len(obj.Properties))
	}
	for i, kind := range kinds {
		m, ok := obj.Properties[i].(*ast.MethodDefinition)
		if !ok {
			t.Fatalf("property %d: expected *ast.MethodDefinition, got %T", i, obj.Properties[i])
		}
		if m.Kind != kind {
			t.Errorf("property %d: wrong kind. expected=%d, got=%d", i, kind, m.Kind)
		}
	}
	if fn := obj.Properties[2].(*ast.MethodDefinition).Function; fn.Kind != ast.FuncAsyncGenerator {
		t.Errorf("expected an async generator method, got kind %d", fn.Kind)
	}
}

func TestStrictDirective(t *testing.T) {
	script, _ := parse(t, "'use strict'; a")
	if !script.Strict {
		t.Errorf("script should be strict")
	}

	script, _ = parse(t, "'use\\x20strict'; a")
	if script.Strict {
		t.Errorf("escaped directive must not enable strict mode")
	}

	script, _ = parse(t, "a", WithStrict(true))
	if !script.Strict {
		t.Errorf("WithStrict should make the script strict")
	}

	script, _ = parse(t, "function f() { 'use strict'; return 1; }")
	if script.Strict {
		t.Errorf("function directive must not leak to the script")
	}
	decl := script.Statements[0].(*ast.FunctionDeclaration)
	if !decl.Function.Body.Strict {
		t.Errorf("function body should be strict")
	}
}

func TestStringLiteralEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected []uint16
	}{
		{`'a\nb'`, []uint16{'a', '\n', 'b'}},
		{`'\x41B\u{43}'`, []uint16{'A', 'B', 'C'}},
		{`'\u{1F600}'`, []uint16{0xD83D, 0xDE00}},
		{`'\uD800'`, []uint16{0xD800}},
		{`'a\
b'`, []uint16{'a', 'b'}},
		{`'\101'`, []uint16{'A'}},
		{`'\0'`, []uint16{0}},
	}

	for i, tt := range tests {
		expr, in := singleExpression(t, tt.input)
		lit, ok := expr.(*ast.Literal)
		if !ok || lit.Kind != ast.LitString {
			t.Errorf("tests[%d] - expected string literal, got %T", i, expr)
			continue
		}
		got := in.Resolve(lit.Str)
		if len(got) != len(tt.expected) {
			t.Errorf("tests[%d] - wrong length. expected=%v, got=%v", i, tt.expected, got)
			continue
		}
		for j := range got {
			if got[j] != tt.expected[j] {
				t.Errorf("tests[%d] - unit %d. expected=%#x, got=%#x", i, j, tt.expected[j], got[j])
			}
		}
	}
}

func TestParseExpression(t *testing.T) {
	p := New(sourceOf("a, b"))
	expr, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bin, ok := expr.(*ast.Binary); !ok || bin.Op != ast.OpComma {
		t.Fatalf("expected comma expression, got %T", expr)
	}

	p = New(sourceOf("a b"))
	if _, err := p.ParseExpression(); err == nil || !strings.Contains(err.Error(), "unexpected token") {
		t.Fatalf("expected trailing token error, got %v", err)
	}
}
