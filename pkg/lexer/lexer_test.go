package lexer

import (
	"strings"
	"testing"

	"github.com/nooga/esfront/pkg/errors"
	"github.com/nooga/esfront/pkg/interner"
)

// lexAll reads every token of input with the Div goal, EOF included.
func lexAll(t *testing.T, input string, strict bool) ([]Token, *interner.Interner, error) {
	t.Helper()
	in := interner.New()
	l := NewFromReader(strings.NewReader(input), in)
	l.SetStrict(strict)

	var toks []Token
	for i := 0; i < 10000; i++ {
		tok, err := l.Next(GoalDiv)
		if err != nil {
			return toks, in, err
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, in, nil
		}
	}
	t.Fatalf("lexer did not reach EOF on %q", input)
	return nil, nil, nil
}

func mustLex(t *testing.T, input string) ([]Token, *interner.Interner) {
	t.Helper()
	toks, in, err := lexAll(t, input, false)
	if err != nil {
		t.Fatalf("unexpected error lexing %q: %v", input, err)
	}
	return toks, in
}

func withoutLineTerminators(toks []Token) []Token {
	out := toks[:0:0]
	for _, tok := range toks {
		if tok.Type != LineTerminator {
			out = append(out, tok)
		}
	}
	return out
}

func TestNextToken(t *testing.T) {
	input := `let five = 5;
const ten = 10.5;

let add = function(x, y) {
  return x + y;
};

let result = add(five, ten);
!*-/5;
5 < 10 > 5;

if (5 < 10) {
	return true;
} else {
	return false;
}

10 == 10;
10 != 9;
"foobar"
'foo bar'
// This is a comment
let next = null;`

	tests := []struct {
		expectedType TokenType
		expectedText string
		expectedLine uint32
	}{
		{KeywordToken, "let", 1},
		{IdentifierName, "five", 1},
		{PunctuatorToken, "=", 1},
		{NumericLiteral, "5", 1},
		{PunctuatorToken, ";", 1},
		{KeywordToken, "const", 2},
		{IdentifierName, "ten", 2},
		{PunctuatorToken, "=", 2},
		{NumericLiteral, "10.5", 2},
		{PunctuatorToken, ";", 2},
		{KeywordToken, "let", 4},
		{IdentifierName, "add", 4},
		{PunctuatorToken, "=", 4},
		{KeywordToken, "function", 4},
		{PunctuatorToken, "(", 4},
		{IdentifierName, "x", 4},
		{PunctuatorToken, ",", 4},
		{IdentifierName, "y", 4},
		{PunctuatorToken, ")", 4},
		{PunctuatorToken, "{", 4},
		{KeywordToken, "return", 5},
		{IdentifierName, "x", 5},
		{PunctuatorToken, "+", 5},
		{IdentifierName, "y", 5},
		{PunctuatorToken, ";", 5},
		{PunctuatorToken, "}", 6},
		{PunctuatorToken, ";", 6},
		{KeywordToken, "let", 8},
		{IdentifierName, "result", 8},
		{PunctuatorToken, "=", 8},
		{IdentifierName, "add", 8},
		{PunctuatorToken, "(", 8},
		{IdentifierName, "five", 8},
		{PunctuatorToken, ",", 8},
		{IdentifierName, "ten", 8},
		{PunctuatorToken, ")", 8},
		{PunctuatorToken, ";", 8},
		{PunctuatorToken, "!", 9},
		{PunctuatorToken, "*", 9},
		{PunctuatorToken, "-", 9},
		{PunctuatorToken, "/", 9},
		{NumericLiteral, "5", 9},
		{PunctuatorToken, ";", 9},
		{NumericLiteral, "5", 10},
		{PunctuatorToken, "<", 10},
		{NumericLiteral, "10", 10},
		{PunctuatorToken, ">", 10},
		{NumericLiteral, "5", 10},
		{PunctuatorToken, ";", 10},
		{KeywordToken, "if", 12},
		{PunctuatorToken, "(", 12},
		{NumericLiteral, "5", 12},
		{PunctuatorToken, "<", 12},
		{NumericLiteral, "10", 12},
		{PunctuatorToken, ")", 12},
		{PunctuatorToken, "{", 12},
		{KeywordToken, "return", 13},
		{BooleanLiteral, "true", 13},
		{PunctuatorToken, ";", 13},
		{PunctuatorToken, "}", 14},
		{KeywordToken, "else", 14},
		{PunctuatorToken, "{", 14},
		{KeywordToken, "return", 15},
		{BooleanLiteral, "false", 15},
		{PunctuatorToken, ";", 15},
		{PunctuatorToken, "}", 16},
		{NumericLiteral, "10", 18},
		{PunctuatorToken, "==", 18},
		{NumericLiteral, "10", 18},
		{PunctuatorToken, ";", 18},
		{NumericLiteral, "10", 19},
		{PunctuatorToken, "!=", 19},
		{NumericLiteral, "9", 19},
		{PunctuatorToken, ";", 19},
		{StringLiteral, `"foobar"`, 20},
		{StringLiteral, `"foo bar"`, 21},
		// Comment on line 22 is skipped
		{KeywordToken, "let", 23},
		{IdentifierName, "next", 23},
		{PunctuatorToken, "=", 23},
		{NullLiteral, "null", 23},
		{PunctuatorToken, ";", 23},
		{EOF, "end of file", 23},
	}

	toks, in := mustLex(t, input)
	toks = withoutLineTerminators(toks)
	if len(toks) != len(tests) {
		t.Fatalf("token count wrong. expected=%d, got=%d", len(tests), len(toks))
	}

	for i, tt := range tests {
		tok := toks[i]
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s (text: %q, line: %d)",
				i, tt.expectedType, tok.Type, tok.Describe(in), tok.Span.Start.Line)
		}
		if got := tok.Describe(in); got != tt.expectedText {
			t.Fatalf("tests[%d] - text wrong. expected=%q, got=%q", i, tt.expectedText, got)
		}
		if tok.Span.Start.Line != tt.expectedLine {
			t.Errorf("tests[%d] - line wrong. expected=%d, got=%d (%q)",
				i, tt.expectedLine, tok.Span.Start.Line, tt.expectedText)
		}
	}
}

func TestSpecificOperatorLexing(t *testing.T) {
	input := `* *= ** **= > >= >> >>= >>> >>>= & &= | |= || ||= ?? ??= ? <= << <<= && &&= ?. => ... === !== ~ ^ ^= % %= ++ -- a?.5:1`

	expected := []Punctuator{
		PunctMul, PunctAssignMul, PunctExp, PunctAssignPow,
		PunctGreaterThan, PunctGreaterThanOrEq, PunctRightSh, PunctAssignRightSh,
		PunctURightSh, PunctAssignURightSh, PunctAnd, PunctAssignAnd,
		PunctOr, PunctAssignOr, PunctBoolOr, PunctAssignBoolOr,
		PunctCoalesce, PunctAssignCoalesce, PunctQuestion, PunctLessThanOrEq,
		PunctLeftSh, PunctAssignLeftSh, PunctBoolAnd, PunctAssignBoolAnd,
		PunctOptional, PunctArrow, PunctSpread, PunctStrictEq, PunctStrictNotEq,
		PunctNeg, PunctXor, PunctAssignXor, PunctMod, PunctAssignMod,
		PunctInc, PunctDec,
	}

	toks, in := mustLex(t, input)
	for i, p := range expected {
		if !toks[i].IsPunct(p) {
			t.Errorf("tests[%d] - expected %q, got %q", i, p, toks[i].Describe(in))
		}
	}

	// `a?.5:1` lexes as a conditional.
	rest := toks[len(expected):]
	want := []string{"a", "?", "0.5", ":", "1", "end of file"}
	if len(rest) != len(want) {
		t.Fatalf("expected %d trailing tokens, got %d", len(want), len(rest))
	}
	for i, w := range want {
		if got := rest[i].Describe(in); got != w {
			t.Errorf("trailing[%d] - expected %q, got %q", i, w, got)
		}
	}
}

func TestTokenSpans(t *testing.T) {
	toks, _ := mustLex(t, "a + b")

	tests := []struct {
		start, end       Position
		linStart, linEnd LinearPosition
	}{
		{Position{1, 1}, Position{1, 2}, 0, 1},
		{Position{1, 3}, Position{1, 4}, 2, 3},
		{Position{1, 5}, Position{1, 6}, 4, 5},
		{Position{1, 6}, Position{1, 6}, 5, 5},
	}
	if len(toks) != len(tests) {
		t.Fatalf("expected %d tokens, got %d", len(tests), len(toks))
	}
	for i, tt := range tests {
		if toks[i].Span != NewSpan(tt.start, tt.end) {
			t.Errorf("tests[%d] - span wrong. expected=%s-%s, got=%s", i, tt.start, tt.end, toks[i].Span)
		}
		if toks[i].LinearSpan != NewLinearSpan(tt.linStart, tt.linEnd) {
			t.Errorf("tests[%d] - linear span wrong. got=%v", i, toks[i].LinearSpan)
		}
	}
}

func TestLineTerminators(t *testing.T) {
	toks, in := mustLex(t, "a\r\nb\u2028c\u2029d\re\n\nf")

	want := []struct {
		text string
		line uint32
	}{
		{"a", 1}, {"line terminator", 1},
		{"b", 2}, {"line terminator", 2},
		{"c", 3}, {"line terminator", 3},
		{"d", 4}, {"line terminator", 4},
		{"e", 5}, {"line terminator", 5}, {"line terminator", 6},
		{"f", 7}, {"end of file", 7},
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(toks))
	}
	for i, w := range want {
		if got := toks[i].Describe(in); got != w.text {
			t.Errorf("tokens[%d] - expected %q, got %q", i, w.text, got)
		}
		if toks[i].Span.Start.Line != w.line {
			t.Errorf("tokens[%d] - expected line %d, got %d", i, w.line, toks[i].Span.Start.Line)
		}
	}

	// CRLF is one terminator covering two code units.
	if toks[1].LinearSpan.Len() != 2 {
		t.Errorf("expected CRLF to span 2 code units, got %d", toks[1].LinearSpan.Len())
	}
}

func TestAstralColumns(t *testing.T) {
	toks, _ := mustLex(t, "'\U00010437' x")
	x := toks[1]
	if x.Span.Start != (Position{1, 5}) {
		t.Errorf("expected x at 1:5, got %s", x.Span.Start)
	}
	if x.LinearSpan.Start != 5 {
		t.Errorf("expected x at code unit 5, got %d", x.LinearSpan.Start)
	}
}

func TestComments(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a /* x */ b", []string{"a", "b", "end of file"}},
		{"a /*\n*/ b", []string{"a", "line terminator", "b", "end of file"}},
		{"a // c\nb", []string{"a", "line terminator", "b", "end of file"}},
		{"a // c", []string{"a", "end of file"}},
		{"#!/usr/bin/env node\nx", []string{"line terminator", "x", "end of file"}},
		{"a /**/ /***/ b", []string{"a", "b", "end of file"}},
	}

	for _, tt := range tests {
		toks, in := mustLex(t, tt.input)
		if len(toks) != len(tt.want) {
			t.Errorf("%q: expected %d tokens, got %d", tt.input, len(tt.want), len(toks))
			continue
		}
		for i, w := range tt.want {
			if got := toks[i].Describe(in); got != w {
				t.Errorf("%q: token %d expected %q, got %q", tt.input, i, w, got)
			}
		}
	}

	_, _, err := lexAll(t, "a /* never closed", false)
	if _, ok := err.(*errors.LexError); !ok {
		t.Fatalf("expected LexError for unterminated comment, got %T (%v)", err, err)
	}
}

func TestKeepComments(t *testing.T) {
	in := interner.New()
	l := NewFromReader(strings.NewReader("// hi\n/* there */"), in)
	l.KeepComments(true)

	var texts []string
	for {
		tok, err := l.Next(GoalDiv)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Type == EOF {
			break
		}
		if tok.Type == Comment {
			texts = append(texts, in.ResolveString(tok.Sym))
		}
	}
	if len(texts) != 2 || texts[0] != " hi" || texts[1] != " there " {
		t.Errorf("unexpected comment texts: %q", texts)
	}
}

func TestNumericLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  NumericKind
		text  string
	}{
		{"0", NumericInteger, "0"},
		{"42", NumericInteger, "42"},
		{"1_000", NumericInteger, "1000"},
		{"10.5", NumericRational, "10.5"},
		{".5", NumericRational, "0.5"},
		{"1.", NumericRational, "1"},
		{"1e3", NumericRational, "1000"},
		{"2.5E-1", NumericRational, "0.25"},
		{"0x1F", NumericInteger, "31"},
		{"0o17", NumericInteger, "15"},
		{"0b101", NumericInteger, "5"},
		{"0xFF_FF", NumericInteger, "65535"},
		{"017", NumericInteger, "15"},
		{"089", NumericInteger, "89"},
		{"08.5", NumericRational, "8.5"},
		{"123n", NumericBigInt, "123n"},
		{"0xFFn", NumericBigInt, "255n"},
		{"0n", NumericBigInt, "0n"},
		{"4294967296", NumericRational, "4.294967296e+09"},
		{"0xFFFFFFFF", NumericRational, "4.294967295e+09"},
	}

	for _, tt := range tests {
		toks, _ := mustLex(t, tt.input)
		tok := toks[0]
		if tok.Type != NumericLiteral {
			t.Errorf("%q: expected NumericLiteral, got %s", tt.input, tok.Type)
			continue
		}
		if tok.Numeric.Kind != tt.kind {
			t.Errorf("%q: expected kind %d, got %d", tt.input, tt.kind, tok.Numeric.Kind)
		}
		if got := tok.Numeric.String(); got != tt.text {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.text, got)
		}
		if toks[1].Type != EOF {
			t.Errorf("%q: expected a single token, got %s next", tt.input, toks[1].Type)
		}
	}
}

func TestNumericLiteralErrors(t *testing.T) {
	tests := []struct {
		input  string
		strict bool
		msg    string
	}{
		{"0x", false, "expected digits"},
		{"1_", false, "separator"},
		{"1__0", false, "separator"},
		{"0_1", false, "separator"},
		{"3in", false, "must not be followed"},
		{"0b12", false, "must not be followed"},
		{"1e", false, "exponent"},
		{"1.5n", false, "must not be followed"},
		{"017n", false, "legacy"},
		{"017", true, "implicit octal literals are not allowed in strict mode"},
		{"08", true, "leading 0's are not allowed in strict mode"},
	}

	for _, tt := range tests {
		_, _, err := lexAll(t, tt.input, tt.strict)
		se, ok := err.(*errors.SyntaxError)
		if !ok {
			t.Errorf("%q: expected SyntaxError, got %T (%v)", tt.input, err, err)
			continue
		}
		if !strings.Contains(se.Msg, tt.msg) {
			t.Errorf("%q: expected message containing %q, got %q", tt.input, tt.msg, se.Msg)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	tests := []struct {
		input   string
		typ     TokenType
		text    string
		escaped bool
	}{
		{"$_x1", IdentifierName, "$_x1", false},
		{"ünïcödé", IdentifierName, "ünïcödé", false},
		{`\u0061bc`, IdentifierName, "abc", true},
		{`a\u{62}`, IdentifierName, "ab", true},
		{`\u{1D49C}`, IdentifierName, "\U0001D49C", true},
		{"x\u200Cy", IdentifierName, "x\u200Cy", false},
		{`l\u0065t`, KeywordToken, "let", true},
		{"async", KeywordToken, "async", false},
		{"of", KeywordToken, "of", false},
		{"target", IdentifierName, "target", false},
		{"#priv", PrivateIdentifier, "#priv", false},
	}

	for _, tt := range tests {
		toks, in := mustLex(t, tt.input)
		tok := toks[0]
		if tok.Type != tt.typ {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.typ, tok.Type)
			continue
		}
		if got := tok.Describe(in); got != tt.text {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.text, got)
		}
		if tok.ContainsEscape != tt.escaped {
			t.Errorf("%q: expected ContainsEscape=%v", tt.input, tt.escaped)
		}
	}

	for _, input := range []string{`tru\u0065`, `0a`, `a\x41`, `n\u0075ll`} {
		if _, _, err := lexAll(t, input, false); err == nil {
			t.Errorf("%q: expected an error", input)
		}
	}
}

func TestTemplateLiteralRejected(t *testing.T) {
	_, _, err := lexAll(t, "`x`", false)
	if err == nil || !strings.Contains(err.Error(), "template literals") {
		t.Fatalf("expected template literal error, got %v", err)
	}
}

func TestErrorPositionsCarrySource(t *testing.T) {
	_, _, err := lexAll(t, "a\n  'oops", false)
	le, ok := err.(*errors.LexError)
	if !ok {
		t.Fatalf("expected LexError, got %T", err)
	}
	if le.Line != 2 || le.Column != 8 {
		t.Errorf("expected error at 2:8, got %d:%d", le.Line, le.Column)
	}
}
