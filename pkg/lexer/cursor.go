package lexer

import (
	"io"

	"github.com/nooga/esfront/pkg/errors"
	"github.com/nooga/esfront/pkg/source"
)

const (
	charLF = '\n'
	charCR = '\r'
	charLS = '\u2028'
	charPS = '\u2029'
)

// IsLineTerminator reports whether ch breaks a line.
func IsLineTerminator(ch rune) bool {
	return ch == charLF || ch == charCR || ch == charLS || ch == charPS
}

// Cursor reads Unicode scalar values from a rune reader and keeps track of the
// line/column and UTF-16 offset of the next unread character.
type Cursor struct {
	r      io.RuneReader
	src    *source.SourceFile
	peeked []rune
	eof    bool

	pos    Position
	linear LinearPosition
	strict bool
}

// NewCursor wraps r. src is only used to annotate errors and may be nil.
func NewCursor(r io.RuneReader, src *source.SourceFile) *Cursor {
	return &Cursor{r: r, src: src, pos: Position{Line: 1, Column: 1}}
}

// Pos returns the position of the next unread character.
func (c *Cursor) Pos() Position { return c.pos }

// LinearPos returns the UTF-16 offset of the next unread character.
func (c *Cursor) LinearPos() LinearPosition { return c.linear }

// Strict reports whether the code being read is strict mode code.
func (c *Cursor) Strict() bool { return c.strict }

// SetStrict changes the strictness used by strict-sensitive tokenizers.
func (c *Cursor) SetStrict(strict bool) { c.strict = strict }

// Source returns the file the cursor reads from, or nil.
func (c *Cursor) Source() *source.SourceFile { return c.src }

func (c *Cursor) fill(n int) error {
	for len(c.peeked) < n && !c.eof {
		ch, _, err := c.r.ReadRune()
		if err == io.EOF {
			c.eof = true
			break
		}
		if err != nil {
			return c.lexError(c.pos, "failed to read source").CausedBy(err)
		}
		c.peeked = append(c.peeked, ch)
	}
	return nil
}

// PeekChar returns the next character without consuming it. ok is false at
// the end of input.
func (c *Cursor) PeekChar() (ch rune, ok bool, err error) {
	return c.PeekCharN(0)
}

// PeekCharN returns the character n positions ahead (0 is the next one).
func (c *Cursor) PeekCharN(n int) (rune, bool, error) {
	if err := c.fill(n + 1); err != nil {
		return 0, false, err
	}
	if n >= len(c.peeked) {
		return 0, false, nil
	}
	return c.peeked[n], true, nil
}

// NextChar consumes and returns the next character.
func (c *Cursor) NextChar() (rune, bool, error) {
	ch, ok, err := c.PeekChar()
	if err != nil || !ok {
		return 0, ok, err
	}
	c.peeked = c.peeked[1:]

	switch ch {
	case charCR:
		// CRLF counts as a single line break; the LF advances the line.
		next, ok, err := c.PeekChar()
		if err != nil {
			return 0, false, err
		}
		if ok && next == charLF {
			c.pos.Column++
		} else {
			c.newLine()
		}
	case charLF, charLS, charPS:
		c.newLine()
	default:
		c.pos.Column++
	}

	if ch >= 0x10000 {
		c.linear += 2
	} else {
		c.linear++
	}
	return ch, true, nil
}

func (c *Cursor) newLine() {
	c.pos.Line++
	c.pos.Column = 1
}

// NextIs consumes the next character when it equals want.
func (c *Cursor) NextIs(want rune) (bool, error) {
	ch, ok, err := c.PeekChar()
	if err != nil || !ok || ch != want {
		return false, err
	}
	_, _, err = c.NextChar()
	return err == nil, err
}

// NextIf consumes the next character when pred accepts it.
func (c *Cursor) NextIf(pred func(rune) bool) (rune, bool, error) {
	ch, ok, err := c.PeekChar()
	if err != nil || !ok || !pred(ch) {
		return 0, false, err
	}
	if _, _, err := c.NextChar(); err != nil {
		return 0, false, err
	}
	return ch, true, nil
}

// TakeWhile appends characters to buf while pred accepts them.
func (c *Cursor) TakeWhile(buf []rune, pred func(rune) bool) ([]rune, error) {
	for {
		ch, ok, err := c.NextIf(pred)
		if err != nil {
			return buf, err
		}
		if !ok {
			return buf, nil
		}
		buf = append(buf, ch)
	}
}

func (c *Cursor) lexError(pos Position, msg string) *errors.LexError {
	return &errors.LexError{Position: pos.ErrorPosition(c.src), Msg: msg}
}

func (c *Cursor) syntaxError(pos Position, msg string) *errors.SyntaxError {
	return &errors.SyntaxError{Position: pos.ErrorPosition(c.src), Msg: msg}
}
