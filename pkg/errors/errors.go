package errors

import (
	"fmt"
	"io"
	"strings"
)

// FrontError is the interface implemented by all front-end errors.
type FrontError interface {
	error
	Pos() Position
	Kind() string // "Lex" or "Syntax"
	// Message returns the specific error message without position info.
	Message() string
	Unwrap() error
}

// LexError is raised by the tokenizer: unterminated literals, malformed
// escapes, or a failure of the underlying character reader.
type LexError struct {
	Position
	Msg   string
	Cause error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("Lex Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *LexError) Pos() Position   { return e.Position }
func (e *LexError) Kind() string    { return "Lex" }
func (e *LexError) Message() string { return e.Msg }
func (e *LexError) Unwrap() error   { return e.Cause }
func (e *LexError) CausedBy(cause error) *LexError {
	e.Cause = cause
	return e
}

// SyntaxError represents a grammar mismatch or an early error.
type SyntaxError struct {
	Position
	Msg   string
	Cause error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *SyntaxError) Pos() Position   { return e.Position }
func (e *SyntaxError) Kind() string    { return "Syntax" }
func (e *SyntaxError) Message() string { return e.Msg }
func (e *SyntaxError) Unwrap() error   { return e.Cause }
func (e *SyntaxError) CausedBy(cause error) *SyntaxError {
	e.Cause = cause
	return e
}

// NewSyntaxError builds a SyntaxError at the given line and column.
func NewSyntaxError(line, column int, msg string) *SyntaxError {
	return &SyntaxError{Position: Position{Line: line, Column: column, Offset: -1}, Msg: msg}
}

// NewLexError builds a LexError at the given line and column.
func NewLexError(line, column int, msg string) *LexError {
	return &LexError{Position: Position{Line: line, Column: column, Offset: -1}, Msg: msg}
}

// --- Error Reporting ---

// Display writes err in a user-friendly format, including the source line
// and a position marker when the error carries a source reference.
func Display(w io.Writer, err error) {
	fe, ok := err.(FrontError)
	if !ok {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	pos := fe.Pos()
	if pos.Source == nil {
		fmt.Fprintf(w, "%s Error at %d:%d: %s\n", fe.Kind(), pos.Line, pos.Column, fe.Message())
		return
	}

	lines := pos.Source.Lines()
	lineIdx := pos.Line - 1
	if lineIdx < 0 || lineIdx >= len(lines) {
		fmt.Fprintf(w, "%s Error: %s\n", fe.Kind(), fe.Message())
		return
	}

	// Format: <path>:<Line>:<Column>: <Kind> Error: <Message>
	fmt.Fprintf(w, "%s:%d:%d: %s Error: %s\n", pos.Source.DisplayPath(), pos.Line, pos.Column, fe.Kind(), fe.Message())

	sourceLine := strings.TrimRight(lines[lineIdx], "\r\n\t ")
	fmt.Fprintf(w, "  %s\n", sourceLine)

	// Column is 1-based, so the marker sits after Column-1 spaces.
	col := pos.Column - 1
	if col < 0 {
		col = 0
	}
	fmt.Fprintf(w, "  %s^\n", strings.Repeat(" ", col))
}
