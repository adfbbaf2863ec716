package parser

import (
	"strings"
	"testing"

	"github.com/nooga/esfront/pkg/errors"
	"github.com/nooga/esfront/pkg/interner"
	"github.com/nooga/esfront/pkg/lexer"
)

func TestEarlyErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		// Parameters
		{"(a, a) => {}", "Duplicate parameter name not allowed in this context"},
		{"function f(a, a) { 'use strict'; }", "Duplicate parameter name not allowed in this context"},
		{"function f(a, [a]) {}", "Duplicate parameter name not allowed in this context"},
		{"({ m(a, a) {} })", "Duplicate parameter name not allowed in this context"},
		{"function f(a = 1) { 'use strict'; }", "Illegal 'use strict' directive in function with non-simple parameter list"},
		{"(a = 1) => { 'use strict'; }", "Illegal 'use strict' directive in function with non-simple parameter list"},
		{"function f(eval) { 'use strict'; }", "unexpected identifier 'eval' or 'arguments' in strict mode"},
		{"(arguments) => { 'use strict'; }", "unexpected identifier 'eval' or 'arguments' in strict mode"},
		{"function f(a) { let a; }", "formal parameter 'a' redeclared as lexical declaration"},
		{"(a) => { const a = 1; }", "formal parameter 'a' redeclared as lexical declaration"},
		{"(...a, b) => {}", "in parenthesized expression"},
		{"({ get a(x) {} })", "getter must not have any formal parameters"},
		{"({ set a() {} })", "setter must have exactly one formal parameter"},
		{"({ set a(x, y) {} })", "setter must have exactly one formal parameter"},

		// Arrow functions
		{"x\n=> 1", "unexpected token '=>'"},
		{"(x)\n=> 1", "unexpected line terminator in arrow function"},
		{"1 + (a) => 1", "malformed arrow function parameter list"},
		{"(1) => 1", "invalid arrow function parameter"},
		{"function* g() { (x = yield) => {}; }", "Yield expression not allowed in this context"},
		{"async function f() { (x = await 1) => {}; }", "Await expression not allowed in this context"},
		{"async (await) => {}", "unexpected identifier 'await' in async function"},
		{"async await => {}", "unexpected identifier 'await' in async function"},
		{"()", "unexpected token ')' in parenthesized expression"},
		{"(a,)", "unexpected trailing comma in parenthesized expression"},
		{"(...a)", "unexpected token '...' in parenthesized expression"},

		// Async function expressions
		{"x = async function await() {}", "unexpected identifier 'await' in async function"},
		{"x = async function* yield() {}", "unexpected identifier 'yield' in generator function"},
		{"x = async function () { var await; }", "unexpected identifier 'await' in async function"},
		{"x = async function (a = await 1) {}", "Await expression not allowed in formal parameter"},
		{"x = async function* (a = yield) {}", "Yield expression not allowed in formal parameter"},
		{"x = async\nfunction () {}", "unexpected token '(' in binding identifier"},
		{"if (a) async function f() {}", "async functions can only be declared at the top level or inside a block"},

		// Strict mode
		{"'use strict'; var eval = 1;", "unexpected identifier 'eval' or 'arguments' in strict mode"},
		{"'use strict'; delete x;", "delete of an unqualified identifier in strict mode"},
		{"'use strict'; var let = 1;", "unexpected identifier 'let' in strict mode"},
		{"'use strict'; var public;", "unexpected identifier 'public' in strict mode"},
		{"'use strict'; yield = 1;", "unexpected identifier 'yield' in strict mode"},
		{"function f() { 'use strict'; 08; }", "leading 0's are not allowed in strict mode"},
		{"'use strict'\n010", "legacy numeric literals are not allowed in strict mode"},
		{"function f() { 'use strict'\n'\\07' }", "octal escape sequences are not allowed in strict mode"},
		{"'use strict'; eval = 1;", "Invalid left-hand side in assignment"},
		{"([(a)]) => 0", "invalid arrow function parameter"},
		{"((a) = 1) => 0", "invalid arrow function parameter"},
		{"({a: (b)}) => 0", "invalid arrow function parameter"},
		{"([(a) = 1]) => 0", "invalid arrow function parameter"},
		{"async ([(a)]) => 0", "invalid arrow function parameter"},
		{"async ((a) = 1) => 0", "invalid arrow function parameter"},
		{"async (...a,) => 1", "unexpected trailing comma after rest parameter"},

		// Structure
		{"super.x", "invalid super usage"},
		{"function f() { super(); }", "invalid super usage"},
		{"({ m() { super(); } })", "invalid super usage"},
		{"new.target", "new.target is not allowed outside of functions"},
		{"x = () => new.target", "new.target is not allowed outside of functions"},
		{"({ a = 1 })", "invalid shorthand property initializer"},
		{"f({ a = 1 })", "invalid shorthand property initializer"},

		// Operators
		{"a ?? b && c", "cannot use '??' unparenthesized within '||' or '&&'"},
		{"a || b ?? c", "cannot use '??' unparenthesized within '||' or '&&'"},
		{"-a ** b", "unparenthesized unary expression can't appear on the left-hand side of '**'"},
		{"1 = 2", "Invalid left-hand side in assignment"},
		{"a + b = c", "Invalid left-hand side in assignment"},
		{"[a] += 1", "Invalid left-hand side in assignment"},
		{"++a()", "Invalid left-hand side in assignment"},

		// Statements
		{"return 1", "illegal return statement"},
		{"let let = 1", "let is disallowed as a lexically bound name"},
		{"const a;", "Missing initializer in const declaration"},
		{"var [a];", "Missing initializer in destructuring declaration"},
		{"let a; let a;", "lexical name 'a' declared multiple times"},
		{"var a; let a;", "lexical name 'a' declared in var names"},
		{"if (a) let [b] = c;", "lexical declaration cannot appear in a single-statement context"},
		{"a b", "unexpected token 'b'"},
		{"(a", "got end of input in parenthesized expression"},
		{"function f() {", "unexpected end of input"},
		{"x = f\\u0075nction () {}", "keyword must not contain escaped characters"},
	}

	for i, tt := range tests {
		_, _, err := ParseString(tt.input)
		if err == nil {
			t.Errorf("tests[%d] - %q: expected error containing %q, got none", i, tt.input, tt.msg)
			continue
		}
		if !strings.Contains(err.Error(), tt.msg) {
			t.Errorf("tests[%d] - %q: wrong error. expected=%q, got=%q", i, tt.input, tt.msg, err.Error())
		}
	}
}

func TestValidPrograms(t *testing.T) {
	tests := []string{
		"x = async function () { return await f(); }",
		"x = async function* () { yield* g(); }",
		"x = async function f(a, b = 1, ...c) {}",
		"function* g() { x = async function yield() {}; }",
		"x = async () => { await 1; }",
		"async (a, b) => a + b",
		"async\n(a, b)",
		"await => 1",
		"yield => 1",
		"x = async of => {}",
		"function f() { return new.target; }",
		"function f() { x = () => new.target; }",
		"({ m() { return super.x; } })",
		"({ m() { return () => super.x; } })",
		"({ a = 1 } = {})",
		"[{ a = 1 }] = []",
		"({ a = 1 }) => a",
		"[(a)] = [1]",
		"({ a: (b) } = {})",
		"(a = 1) => a",
		"([a] = [1]) => a",
		"async (...a) => a",
		"f(...a,)",
		"f = ({ a = 1 }) => a",
		"function f(a, a) {}",
		"function f() { var x = 010; }",
		"var a; var a;",
		"function f(a) { var a; }",
		"let\na = 1",
		"if (a) { let b = 1; }",
		"a\n/b/g",
		"({ get: 1, set: 2, async: 3, await: 4 })",
		"({ if: 1, class: 2 }).if",
		"x = { 'a': 1, 1: 2, [k]: 3, ...o }",
	}

	for i, input := range tests {
		if _, _, err := ParseString(input); err != nil {
			t.Errorf("tests[%d] - %q: unexpected error: %v", i, input, err)
		}
	}
}

func TestErrorPosition(t *testing.T) {
	_, _, err := ParseString("a;\n  1 = 2")
	if err == nil {
		t.Fatalf("expected an error")
	}
	se, ok := err.(*errors.SyntaxError)
	if !ok {
		t.Fatalf("expected *errors.SyntaxError, got %T", err)
	}
	if se.Line != 2 || se.Column != 5 {
		t.Errorf("wrong position. expected=2:5, got=%d:%d", se.Line, se.Column)
	}
	if se.Source == nil {
		t.Errorf("error should carry its source")
	}
}

func TestNameInLexicallyDeclaredNames(t *testing.T) {
	in := interner.New()
	a, b, c := in.InternString("a"), in.InternString("b"), in.InternString("c")
	pos := lexer.NewPosition(3, 7)

	if err := NameInLexicallyDeclaredNames([]interner.Sym{a, b}, []interner.Sym{c}, pos, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := NameInLexicallyDeclaredNames(nil, []interner.Sym{a}, pos, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := NameInLexicallyDeclaredNames([]interner.Sym{a, b}, []interner.Sym{c, b}, pos, in)
	se, ok := err.(*errors.SyntaxError)
	if !ok {
		t.Fatalf("expected *errors.SyntaxError, got %T", err)
	}
	if se.Line != 3 || se.Column != 7 {
		t.Errorf("wrong position. expected=3:7, got=%d:%d", se.Line, se.Column)
	}
	if se.Msg != "bound name 'b' redeclared as lexical declaration" {
		t.Errorf("wrong message %q", se.Msg)
	}
}
