// Package lexer turns ECMAScript source text into tokens.
//
// The Lexer is pulled one token at a time by the parser, which supplies the
// lexical goal for each call: whether a `/` starts a regular expression or is
// the division operator cannot be decided from the text alone.
package lexer

import (
	"io"
	"strconv"
	"unicode"
	"unicode/utf16"

	"github.com/nooga/esfront/pkg/interner"
	"github.com/nooga/esfront/pkg/source"
)

// Goal selects how an ambiguous `/` is lexed.
type Goal uint8

const (
	GoalDiv Goal = iota
	GoalRegExp
)

func (g Goal) String() string {
	if g == GoalRegExp {
		return "RegExp"
	}
	return "Div"
}

// Lexer holds the state of the scanner.
type Lexer struct {
	cursor       *Cursor
	interner     *interner.Interner
	keepComments bool
}

// New creates a Lexer over the contents of src.
func New(src *source.SourceFile, in *interner.Interner) *Lexer {
	return &Lexer{cursor: NewCursor(src.Reader(), src), interner: in}
}

// NewFromReader creates a Lexer over an arbitrary rune reader.
func NewFromReader(r io.RuneReader, in *interner.Interner) *Lexer {
	return &Lexer{cursor: NewCursor(r, nil), interner: in}
}

// Strict reports whether strict mode rules apply to the tokens being read.
func (l *Lexer) Strict() bool { return l.cursor.Strict() }

// SetStrict switches strict mode rules for subsequent tokens.
func (l *Lexer) SetStrict(strict bool) { l.cursor.SetStrict(strict) }

// KeepComments makes Next return Comment tokens instead of skipping them.
func (l *Lexer) KeepComments(keep bool) { l.keepComments = keep }

// Interner returns the symbol table tokens are interned into.
func (l *Lexer) Interner() *interner.Interner { return l.interner }

// Source returns the file being lexed, or nil.
func (l *Lexer) Source() *source.SourceFile { return l.cursor.Source() }

// Pos returns the position of the next unread character.
func (l *Lexer) Pos() Position { return l.cursor.Pos() }

// token starts a token spanning from start to the current cursor position.
func (l *Lexer) token(start Position, startLinear LinearPosition) Token {
	return Token{
		Span:       NewSpan(start, l.cursor.Pos()),
		LinearSpan: NewLinearSpan(startLinear, l.cursor.LinearPos()),
	}
}

// Next scans the input and returns the next token. Whitespace is skipped;
// line terminators, and block comments containing one, come back as
// LineTerminator tokens. At the end of input Next keeps returning EOF.
func (l *Lexer) Next(goal Goal) (Token, error) {
	if l.cursor.LinearPos() == 0 {
		if err := l.skipHashbang(); err != nil {
			return Token{}, err
		}
	}

	for {
		start := l.cursor.Pos()
		startLinear := l.cursor.LinearPos()

		ch, ok, err := l.cursor.NextChar()
		if err != nil {
			return Token{}, err
		}
		if !ok {
			tok := l.token(start, startLinear)
			tok.Type = EOF
			return tok, nil
		}

		switch {
		case IsLineTerminator(ch):
			if ch == charCR {
				if _, err := l.cursor.NextIs(charLF); err != nil {
					return Token{}, err
				}
			}
			tok := l.token(start, startLinear)
			tok.Type = LineTerminator
			return tok, nil

		case isWhitespace(ch):
			continue

		case ch == '/':
			next, _, err := l.cursor.PeekChar()
			if err != nil {
				return Token{}, err
			}
			switch {
			case next == '/':
				tok, err := l.lexLineComment(start, startLinear)
				if err != nil || l.keepComments {
					return tok, err
				}
				continue
			case next == '*':
				tok, err := l.lexBlockComment(start, startLinear)
				if err != nil || tok.Type != EOF {
					return tok, err
				}
				continue
			case goal == GoalRegExp:
				return l.lexRegExp(start, startLinear)
			}
			return l.lexPunctuator(start, startLinear, ch)

		case ch == '"' || ch == '\'':
			units, escapes, err := TakeStringCharacters(l.cursor, ch, l.cursor.Strict())
			if err != nil {
				return Token{}, err
			}
			tok := l.token(start, startLinear)
			tok.Type = StringLiteral
			tok.Sym = l.interner.Intern(units)
			tok.Escapes = escapes
			return tok, nil

		case isDecimalDigit(ch):
			return l.lexNumber(start, startLinear, ch)

		case ch == '.':
			next, ok, err := l.cursor.PeekChar()
			if err != nil {
				return Token{}, err
			}
			if ok && isDecimalDigit(next) {
				return l.lexNumber(start, startLinear, ch)
			}
			return l.lexPunctuator(start, startLinear, ch)

		case ch == '#':
			return l.lexPrivateIdentifier(start, startLinear)

		case ch == '`':
			return Token{}, l.cursor.syntaxError(start, "template literals are not supported")

		case IsIdentifierStart(ch) || ch == '\\':
			return l.lexIdentifier(start, startLinear, ch)
		}

		return l.lexPunctuator(start, startLinear, ch)
	}
}

// isWhitespace checks for WhiteSpace code points other than line terminators.
func isWhitespace(ch rune) bool {
	switch ch {
	case '\t', '\v', '\f', ' ', '\u00A0', '\uFEFF':
		return true
	}
	return ch > 0x7F && unicode.Is(unicode.Zs, ch)
}

// skipHashbang skips a `#!` line at the very start of the source.
func (l *Lexer) skipHashbang() error {
	c0, ok0, err := l.cursor.PeekCharN(0)
	if err != nil || !ok0 || c0 != '#' {
		return err
	}
	c1, ok1, err := l.cursor.PeekCharN(1)
	if err != nil || !ok1 || c1 != '!' {
		return err
	}
	_, err = l.cursor.TakeWhile(nil, func(r rune) bool { return !IsLineTerminator(r) })
	return err
}

// lexLineComment reads until the end of the line; the first '/' is consumed.
func (l *Lexer) lexLineComment(start Position, startLinear LinearPosition) (Token, error) {
	text, err := l.cursor.TakeWhile(nil, func(r rune) bool { return !IsLineTerminator(r) })
	if err != nil {
		return Token{}, err
	}
	tok := l.token(start, startLinear)
	tok.Type = Comment
	tok.Sym = l.interner.Intern(utf16.Encode(text[1:]))
	return tok, nil
}

// lexBlockComment reads until the closing '*/'. It returns a LineTerminator
// token when the comment spans lines, a Comment token when comments are
// kept, and an EOF-typed token when the comment should just be skipped.
func (l *Lexer) lexBlockComment(start Position, startLinear LinearPosition) (Token, error) {
	l.cursor.NextChar() // Consume '*'

	var (
		text        []rune
		hasNewLines bool
	)
	for {
		ch, ok, err := l.cursor.NextChar()
		if err != nil {
			return Token{}, err
		}
		if !ok {
			return Token{}, l.cursor.lexError(start, "unterminated multiline comment")
		}
		if ch == '*' {
			closed, err := l.cursor.NextIs('/')
			if err != nil {
				return Token{}, err
			}
			if closed {
				break
			}
		}
		if IsLineTerminator(ch) {
			hasNewLines = true
		}
		text = append(text, ch)
	}

	tok := l.token(start, startLinear)
	switch {
	case l.keepComments:
		tok.Type = Comment
		tok.Sym = l.interner.Intern(utf16.Encode(text))
	case hasNewLines:
		tok.Type = LineTerminator
	default:
		tok.Type = EOF
	}
	return tok, nil
}

// lexPrivateIdentifier reads `#name`; the '#' is consumed.
func (l *Lexer) lexPrivateIdentifier(start Position, startLinear LinearPosition) (Token, error) {
	first, ok, err := l.cursor.NextIf(func(r rune) bool { return IsIdentifierStart(r) || r == '\\' })
	if err != nil {
		return Token{}, err
	}
	if !ok {
		return Token{}, l.cursor.syntaxError(start, "invalid private identifier")
	}
	tok, err := l.lexIdentifier(start, startLinear, first)
	if err != nil {
		return Token{}, err
	}
	switch tok.Type {
	case KeywordToken:
		tok.Sym = tok.Keyword.Sym(l.interner)
	case BooleanLiteral:
		tok.Sym = l.interner.InternString(strconv.FormatBool(tok.Bool))
	case NullLiteral:
		tok.Sym = l.interner.InternString("null")
	}
	tok.Type = PrivateIdentifier
	return tok, nil
}

var punctuatorsByText = func() map[string]Punctuator {
	m := make(map[string]Punctuator, len(punctuatorNames))
	for p, text := range punctuatorNames {
		m[text] = Punctuator(p)
	}
	return m
}()

// lexPunctuator applies maximal munch over the punctuator table; first has
// been consumed.
func (l *Lexer) lexPunctuator(start Position, startLinear LinearPosition, first rune) (Token, error) {
	text := []rune{first}
	for i := 0; i < 3; i++ {
		ch, ok, err := l.cursor.PeekCharN(i)
		if err != nil {
			return Token{}, err
		}
		if !ok {
			break
		}
		text = append(text, ch)
	}

	for n := len(text); n >= 1; n-- {
		p, ok := punctuatorsByText[string(text[:n])]
		if !ok {
			continue
		}
		// `a?.5:b` is a conditional, not optional chaining.
		if p == PunctOptional && n < len(text) && isDecimalDigit(text[n]) {
			continue
		}
		for i := 1; i < n; i++ {
			if _, _, err := l.cursor.NextChar(); err != nil {
				return Token{}, err
			}
		}
		tok := l.token(start, startLinear)
		tok.Type = PunctuatorToken
		tok.Punct = p
		return tok, nil
	}

	return Token{}, l.cursor.syntaxError(start, "unexpected character '"+string(first)+"'")
}
