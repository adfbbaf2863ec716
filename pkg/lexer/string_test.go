package lexer

import (
	"strings"
	"testing"

	"github.com/nooga/esfront/pkg/errors"
	"github.com/nooga/esfront/pkg/interner"
)

func lexString(t *testing.T, input string, strict bool) ([]uint16, EscapeSequence, error) {
	t.Helper()
	in := interner.New()
	l := NewFromReader(strings.NewReader(input), in)
	l.SetStrict(strict)
	tok, err := l.Next(GoalDiv)
	if err != nil {
		return nil, 0, err
	}
	if tok.Type != StringLiteral {
		t.Fatalf("%q: expected StringLiteral, got %s", input, tok.Type)
	}
	return in.Resolve(tok.Sym), tok.Escapes, nil
}

func equalUnits(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSingleCharacterEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  uint16
	}{
		{`"\n"`, 0x0A},
		{`"\t"`, 0x09},
		{`"\r"`, 0x0D},
		{`"\b"`, 0x08},
		{`"\f"`, 0x0C},
		{`"\v"`, 0x0B},
		{`"\\"`, 0x5C},
		{`"\'"`, 0x27},
		{`"\""`, 0x22},
		{`'\"'`, 0x22},
		{`"\z"`, 'z'},
	}

	for _, tt := range tests {
		units, escapes, err := lexString(t, tt.input, false)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.input, err)
			continue
		}
		if !equalUnits(units, []uint16{tt.want}) {
			t.Errorf("%s: expected [%#x], got %#x", tt.input, tt.want, units)
		}
		if escapes != EscapeOther {
			t.Errorf("%s: expected only the OTHER flag, got %b", tt.input, escapes)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input   string
		strict  bool
		want    []uint16
		escapes EscapeSequence
	}{
		{`"\u0041"`, false, []uint16{0x41}, EscapeOther},
		{`"\u{41}"`, false, []uint16{0x41}, EscapeOther},
		{`"\u{0000041}"`, false, []uint16{0x41}, EscapeOther},
		{`"\u{10437}"`, false, []uint16{0xD801, 0xDC37}, EscapeOther},
		{`"\u{10FFFF}"`, false, []uint16{0xDBFF, 0xDFFF}, EscapeOther},
		{`"\uD800"`, false, []uint16{0xD800}, EscapeOther},
		{`"\x41\x7e"`, false, []uint16{0x41, 0x7E}, EscapeOther},
		{"\"\U00010437\"", false, []uint16{0xD801, 0xDC37}, 0},
		{`"\0x"`, false, []uint16{0, 'x'}, EscapeOther},
		{`"\0"`, true, []uint16{0}, EscapeOther},
		{`"\08"`, false, []uint16{0, '8'}, EscapeLegacyOctal},
		{`"\05"`, false, []uint16{5}, EscapeLegacyOctal},
		{`"\101"`, false, []uint16{'A'}, EscapeLegacyOctal},
		{`"\377"`, false, []uint16{0xFF}, EscapeLegacyOctal},
		{`"\400"`, false, []uint16{0x20, '0'}, EscapeLegacyOctal},
		{`"\777"`, false, []uint16{0x3F, '7'}, EscapeLegacyOctal},
		{`"\8"`, false, []uint16{'8'}, EscapeNonOctalDecimal},
		{`"\9\n\1"`, false, []uint16{'9', 0x0A, 1}, EscapeNonOctalDecimal | EscapeOther | EscapeLegacyOctal},
		{"\"a\\\nb\"", false, []uint16{'a', 'b'}, EscapeOther},
		{"\"a\\\r\nb\"", false, []uint16{'a', 'b'}, EscapeOther},
		{"\"a\\\u2028b\"", false, []uint16{'a', 'b'}, EscapeOther},
		{"\"a\u2028b\u2029\"", false, []uint16{'a', 0x2028, 'b', 0x2029}, 0},
		{`'say "hi"'`, false, []uint16{'s', 'a', 'y', ' ', '"', 'h', 'i', '"'}, 0},
		{`""`, false, []uint16{}, 0},
	}

	for _, tt := range tests {
		units, escapes, err := lexString(t, tt.input, tt.strict)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.input, err)
			continue
		}
		if !equalUnits(units, tt.want) {
			t.Errorf("%s: expected %#x, got %#x", tt.input, tt.want, units)
		}
		if escapes != tt.escapes {
			t.Errorf("%s: expected escape flags %b, got %b", tt.input, tt.escapes, escapes)
		}
	}
}

func TestStringLiteralErrors(t *testing.T) {
	tests := []struct {
		input  string
		strict bool
		syntax bool
		msg    string
	}{
		{`"\u{110000}"`, false, false, "Unicode codepoint must not be greater than 0x10FFFF in escape sequence"},
		{`"\u{FFFFFFFFFF}"`, false, false, "Unicode codepoint must not be greater than 0x10FFFF in escape sequence"},
		{`"\u{}"`, false, false, "malformed Unicode character escape sequence"},
		{`"\u{12x}"`, false, false, "malformed Unicode character escape sequence"},
		{`"\u004"`, false, false, "invalid Unicode escape sequence"},
		{`"\x4"`, false, false, "invalid Hexadecimal escape sequence"},
		{`"\xg0"`, false, false, "invalid Hexadecimal escape sequence"},
		{`"\05"`, true, true, "octal escape sequences are not allowed in strict mode"},
		{`"\08"`, true, true, "octal escape sequences are not allowed in strict mode"},
		{`"\8"`, true, true, `\8 and \9 are not allowed in strict mode`},
		{`"\9"`, true, true, `\8 and \9 are not allowed in strict mode`},
		{`"abc`, false, false, "unterminated string literal"},
		{"\"a\nb\"", false, false, "unterminated string literal"},
		{"'a\rb'", false, false, "unterminated string literal"},
		{`'abc"`, false, false, "unterminated string literal"},
		{`"\`, false, false, "unterminated escape sequence in literal"},
	}

	for _, tt := range tests {
		_, _, err := lexString(t, tt.input, tt.strict)
		if err == nil {
			t.Errorf("%s: expected an error", tt.input)
			continue
		}
		var msg string
		switch e := err.(type) {
		case *errors.SyntaxError:
			if !tt.syntax {
				t.Errorf("%s: expected a LexError, got SyntaxError %q", tt.input, e.Msg)
			}
			msg = e.Msg
		case *errors.LexError:
			if tt.syntax {
				t.Errorf("%s: expected a SyntaxError, got LexError %q", tt.input, e.Msg)
			}
			msg = e.Msg
		default:
			t.Errorf("%s: unexpected error type %T", tt.input, err)
			continue
		}
		if msg != tt.msg {
			t.Errorf("%s: expected message %q, got %q", tt.input, tt.msg, msg)
		}
	}
}

func TestEscapeErrorPointsAtBackslash(t *testing.T) {
	_, _, err := lexString(t, `"ab\x"`, false)
	le, ok := err.(*errors.LexError)
	if !ok {
		t.Fatalf("expected LexError, got %T", err)
	}
	if le.Line != 1 || le.Column != 4 {
		t.Errorf("expected error at 1:4, got %d:%d", le.Line, le.Column)
	}
}

func TestTemplateEscapeContext(t *testing.T) {
	tests := []struct {
		body string
		msg  string
	}{
		{"05", "octal escape sequences are not allowed in template literal"},
		{"1", "octal escape sequences are not allowed in template literal"},
		{"8", `\8 and \9 are not allowed in template literal`},
		{"9", `\8 and \9 are not allowed in template literal`},
	}

	for _, tt := range tests {
		for _, strict := range []bool{false, true} {
			c := NewCursor(strings.NewReader(tt.body), nil)
			_, _, _, err := TakeEscapeSequenceOrLineContinuation(c, Position{1, 1}, strict, true)
			se, ok := err.(*errors.SyntaxError)
			if !ok {
				t.Errorf("%q (strict=%v): expected SyntaxError, got %T", tt.body, strict, err)
				continue
			}
			if se.Msg != tt.msg {
				t.Errorf("%q (strict=%v): expected %q, got %q", tt.body, strict, tt.msg, se.Msg)
			}
		}
	}

	// `\0` not followed by a digit stays legal in templates.
	c := NewCursor(strings.NewReader("0a"), nil)
	cp, emit, flags, err := TakeEscapeSequenceOrLineContinuation(c, Position{1, 1}, true, true)
	if err != nil || !emit || cp != 0 || flags != EscapeOther {
		t.Errorf("expected NUL, got cp=%d emit=%v flags=%b err=%v", cp, emit, flags, err)
	}
}

func TestLineContinuationEmitsNothing(t *testing.T) {
	c := NewCursor(strings.NewReader("\nrest"), nil)
	_, emit, flags, err := TakeEscapeSequenceOrLineContinuation(c, Position{1, 1}, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emit {
		t.Errorf("line continuation must not emit a code point")
	}
	if flags != EscapeOther {
		t.Errorf("expected OTHER flag, got %b", flags)
	}
	if c.Pos() != (Position{2, 1}) {
		t.Errorf("expected cursor at 2:1, got %s", c.Pos())
	}
}

func TestPushCodePoint(t *testing.T) {
	tests := []struct {
		cp   uint32
		want []uint16
	}{
		{0x41, []uint16{0x41}},
		{0xFFFF, []uint16{0xFFFF}},
		{0x10000, []uint16{0xD800, 0xDC00}},
		{0x10437, []uint16{0xD801, 0xDC37}},
		{0x1F600, []uint16{0xD83D, 0xDE00}},
		{0x10FFFF, []uint16{0xDBFF, 0xDFFF}},
	}
	for _, tt := range tests {
		if got := PushCodePoint(nil, tt.cp); !equalUnits(got, tt.want) {
			t.Errorf("%#x: expected %#x, got %#x", tt.cp, tt.want, got)
		}
	}
}
