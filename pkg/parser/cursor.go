package parser

import (
	"fmt"

	"github.com/nooga/esfront/pkg/errors"
	"github.com/nooga/esfront/pkg/lexer"
)

// Cursor buffers tokens between the lexer and the grammar productions.
//
// The buffer keeps LineTerminator tokens, never two in a row, so productions
// that care about line breaks (arrow functions, postfix operators, ASI) can
// see them while everything else peeks past them. Every source position is
// lexed exactly once; peeked tokens are replayed in order by Advance.
type Cursor struct {
	lexer *lexer.Lexer
	buf   []lexer.Token
	arrow bool

	// goal overrides the lexing goal of the next unbuffered token
	goal    lexer.Goal
	hasGoal bool
	// last lexed token other than a line terminator
	last    lexer.Token
	hasLast bool

	// end of the last consumed token
	prevEnd       lexer.Position
	prevLinearEnd lexer.LinearPosition
}

// NewCursor wraps l.
func NewCursor(l *lexer.Lexer) *Cursor {
	return &Cursor{lexer: l, prevEnd: lexer.NewPosition(1, 1)}
}

// SetGoal selects how the next token is lexed when it starts with `/`. It
// has no effect once that token has been peeked. The goal applies to one
// token only; after that it is inferred from the preceding token.
func (c *Cursor) SetGoal(g lexer.Goal) {
	for _, tok := range c.buf {
		if tok.Type != lexer.LineTerminator {
			return
		}
	}
	c.goal = g
	c.hasGoal = true
}

// nextGoal decides whether a `/` after the last lexed token starts a
// regular expression. A slash after an operand is division.
func (c *Cursor) nextGoal() lexer.Goal {
	if c.hasGoal {
		c.hasGoal = false
		return c.goal
	}
	if !c.hasLast {
		return lexer.GoalRegExp
	}
	switch c.last.Type {
	case lexer.PunctuatorToken:
		switch c.last.Punct {
		case lexer.PunctCloseParen, lexer.PunctCloseBracket, lexer.PunctCloseBlock, lexer.PunctInc, lexer.PunctDec:
			return lexer.GoalDiv
		}
		return lexer.GoalRegExp
	case lexer.KeywordToken:
		switch c.last.Keyword {
		case lexer.KwThis, lexer.KwSuper, lexer.KwAsync, lexer.KwAwait, lexer.KwYield, lexer.KwLet, lexer.KwOf:
			return lexer.GoalDiv
		}
		return lexer.GoalRegExp
	}
	return lexer.GoalDiv
}

// Strict reports whether the source being read is strict mode code.
func (c *Cursor) Strict() bool { return c.lexer.Strict() }

// SetStrict switches strict mode and returns a function restoring the
// previous setting.
func (c *Cursor) SetStrict(strict bool) (restore func()) {
	prev := c.lexer.Strict()
	c.lexer.SetStrict(strict)
	return func() { c.lexer.SetStrict(prev) }
}

// CheckStrictBuffered rejects tokens that were lexed ahead before strict
// mode was switched on and that strict code does not allow.
func (c *Cursor) CheckStrictBuffered() error {
	for _, tok := range c.buf {
		switch {
		case tok.Type == lexer.NumericLiteral && tok.Numeric.Legacy:
			return c.strictError(tok, "legacy numeric literals are not allowed in strict mode")
		case tok.Type == lexer.StringLiteral && tok.Escapes.Has(lexer.EscapeLegacyOctal):
			return c.strictError(tok, "octal escape sequences are not allowed in strict mode")
		case tok.Type == lexer.StringLiteral && tok.Escapes.Has(lexer.EscapeNonOctalDecimal):
			return c.strictError(tok, "\\8 and \\9 are not allowed in strict mode")
		}
	}
	return nil
}

func (c *Cursor) strictError(tok lexer.Token, msg string) error {
	return &errors.SyntaxError{Position: tok.Span.Start.ErrorPosition(c.lexer.Source()), Msg: msg}
}

// Arrow reports whether an arrow function body is being parsed.
func (c *Cursor) Arrow() bool { return c.arrow }

// SetArrow sets the arrow flag and returns a function restoring it.
func (c *Cursor) SetArrow(arrow bool) (restore func()) {
	prev := c.arrow
	c.arrow = arrow
	return func() { c.arrow = prev }
}

// PrevEnd returns where the last consumed token ended.
func (c *Cursor) PrevEnd() (lexer.Position, lexer.LinearPosition) {
	return c.prevEnd, c.prevLinearEnd
}

// raw returns the i-th buffered token, counting line terminators, lexing on
// demand. Past the end of input it keeps returning EOF.
func (c *Cursor) raw(i int) (lexer.Token, error) {
	for len(c.buf) <= i {
		if n := len(c.buf); n > 0 && c.buf[n-1].Type == lexer.EOF {
			return c.buf[n-1], nil
		}
		goal := c.nextGoal()
		tok, err := c.lexer.Next(goal)
		if err != nil {
			return lexer.Token{}, err
		}
		switch tok.Type {
		case lexer.Comment:
			c.restoreGoal(goal)
			continue
		case lexer.LineTerminator:
			c.restoreGoal(goal)
			if n := len(c.buf); n > 0 && c.buf[n-1].Type == lexer.LineTerminator {
				continue
			}
		default:
			c.last, c.hasLast = tok, true
		}
		c.buf = append(c.buf, tok)
	}
	return c.buf[i], nil
}

// restoreGoal keeps an explicit goal alive across line terminators and
// comments, which do not consume it.
func (c *Cursor) restoreGoal(goal lexer.Goal) {
	if !c.hasGoal {
		c.goal, c.hasGoal = goal, true
	}
}

// Peek returns the n-th upcoming token, skipping line terminators.
func (c *Cursor) Peek(n int) (lexer.Token, error) {
	for i := 0; ; i++ {
		tok, err := c.raw(i)
		if err != nil {
			return tok, err
		}
		if tok.Type == lexer.LineTerminator {
			continue
		}
		if n == 0 || tok.Type == lexer.EOF {
			return tok, nil
		}
		n--
	}
}

// PeekNoSkipLineTerm returns the n-th upcoming token with line terminators
// counted as tokens.
func (c *Cursor) PeekNoSkipLineTerm(n int) (lexer.Token, error) {
	return c.raw(n)
}

// PeekIsLineTerminator reports whether the n-th upcoming token, counting
// line terminators, is one.
func (c *Cursor) PeekIsLineTerminator(n int) (bool, error) {
	tok, err := c.raw(n)
	if err != nil {
		return false, err
	}
	return tok.Type == lexer.LineTerminator, nil
}

// PeekExpectNoLineTerminator returns the n-th upcoming token, failing if it
// is a line terminator. context names the production for the error.
func (c *Cursor) PeekExpectNoLineTerminator(n int, context string) (lexer.Token, error) {
	tok, err := c.raw(n)
	if err != nil {
		return tok, err
	}
	if tok.Type == lexer.LineTerminator {
		return tok, c.errorf(tok.Span.Start, "unexpected line terminator in %s", context)
	}
	return tok, nil
}

// Advance consumes the next token, along with any line terminator in front
// of it, and returns it.
func (c *Cursor) Advance() (lexer.Token, error) {
	tok, err := c.Peek(0)
	if err != nil {
		return tok, err
	}
	for len(c.buf) > 0 {
		head := c.buf[0]
		c.buf = c.buf[1:]
		if head.Type != lexer.LineTerminator {
			break
		}
	}
	c.prevEnd = tok.Span.End
	c.prevLinearEnd = tok.LinearSpan.End
	return tok, nil
}

// NextIfPunct consumes the next token if it is the punctuator p.
func (c *Cursor) NextIfPunct(p lexer.Punctuator) (bool, error) {
	tok, err := c.Peek(0)
	if err != nil || !tok.IsPunct(p) {
		return false, err
	}
	_, err = c.Advance()
	return err == nil, err
}

// ExpectPunct consumes the punctuator p or fails naming context.
func (c *Cursor) ExpectPunct(p lexer.Punctuator, context string) (lexer.Token, error) {
	return c.expect(func(t lexer.Token) bool { return t.IsPunct(p) }, "'"+p.String()+"'", context)
}

// ExpectKeyword consumes the keyword k or fails naming context.
func (c *Cursor) ExpectKeyword(k lexer.Keyword, context string) (lexer.Token, error) {
	return c.expect(func(t lexer.Token) bool { return t.IsKeyword(k) }, "'"+k.String()+"'", context)
}

func (c *Cursor) expect(match func(lexer.Token) bool, want, context string) (lexer.Token, error) {
	tok, err := c.Peek(0)
	if err != nil {
		return tok, err
	}
	if !match(tok) {
		if tok.Type == lexer.EOF {
			return tok, c.errorf(tok.Span.Start, "expected token %s, got end of input in %s", want, context)
		}
		return tok, c.errorf(tok.Span.Start, "expected token %s, got '%s' in %s", want, tok.Describe(c.lexer.Interner()), context)
	}
	return c.Advance()
}

func (c *Cursor) errorf(pos lexer.Position, format string, args ...interface{}) *errors.SyntaxError {
	return &errors.SyntaxError{
		Position: pos.ErrorPosition(c.lexer.Source()),
		Msg:      fmt.Sprintf(format, args...),
	}
}
