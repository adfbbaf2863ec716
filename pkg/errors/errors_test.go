package errors

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/nooga/esfront/pkg/source"
)

func TestErrorStrings(t *testing.T) {
	se := NewSyntaxError(3, 7, "Invalid left-hand side in assignment")
	assert.Equal(t, "Syntax Error at 3:7: Invalid left-hand side in assignment", se.Error())
	assert.Equal(t, "Syntax", se.Kind())
	assert.Equal(t, -1, se.Pos().Offset)

	le := NewLexError(1, 2, "unterminated string literal")
	assert.Equal(t, "Lex Error at 1:2: unterminated string literal", le.Error())
	assert.Equal(t, "Lex", le.Kind())
}

func TestCausedByUnwraps(t *testing.T) {
	cause := pkgerrors.Wrap(io.ErrUnexpectedEOF, "read")
	le := NewLexError(1, 1, "failed to read source").CausedBy(cause)
	assert.ErrorIs(t, le, io.ErrUnexpectedEOF)

	var fe FrontError = le
	assert.Equal(t, "failed to read source", fe.Message())
}

func TestDisplayWithSource(t *testing.T) {
	src := source.NewSourceFile("a.js", "/tmp/a.js", "let x = 1;\nx + = 2;\n")
	err := &SyntaxError{
		Position: Position{Line: 2, Column: 5, Offset: -1, Source: src},
		Msg:      "unexpected token '='",
	}

	var buf bytes.Buffer
	Display(&buf, err)
	assert.Equal(t,
		"/tmp/a.js:2:5: Syntax Error: unexpected token '='\n"+
			"  x + = 2;\n"+
			"      ^\n",
		buf.String())
}

func TestDisplayWithoutSource(t *testing.T) {
	var buf bytes.Buffer
	Display(&buf, NewLexError(4, 1, "unterminated multiline comment"))
	assert.Equal(t, "Lex Error at 4:1: unterminated multiline comment\n", buf.String())

	buf.Reset()
	Display(&buf, fmt.Errorf("plain failure"))
	assert.Equal(t, "Error: plain failure\n", buf.String())
}

func TestDisplayLineOutOfRange(t *testing.T) {
	src := source.NewEvalSource("x")
	var buf bytes.Buffer
	Display(&buf, &SyntaxError{Position: Position{Line: 9, Column: 1, Source: src}, Msg: "boom"})
	assert.Equal(t, "Syntax Error: boom\n", buf.String())
}
