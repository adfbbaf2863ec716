package lexer

import (
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/unicode/rangetable"
)

const (
	charZWNJ = '\u200C'
	charZWJ  = '\u200D'
)

// Unicode ID_Start and ID_Continue as defined by UAX #31.
var (
	idStart = rangetable.Merge(
		unicode.L,
		unicode.Nl,
		unicode.Other_ID_Start,
	)
	idContinue = rangetable.Merge(
		idStart,
		unicode.Mn,
		unicode.Mc,
		unicode.Nd,
		unicode.Pc,
		unicode.Other_ID_Continue,
	)
)

// IsIdentifierStart reports whether ch may begin an IdentifierName.
func IsIdentifierStart(ch rune) bool {
	switch {
	case ch == '$' || ch == '_':
		return true
	case ch < 0x80:
		return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
	}
	return unicode.Is(idStart, ch)
}

// IsIdentifierPart reports whether ch may continue an IdentifierName.
func IsIdentifierPart(ch rune) bool {
	switch {
	case ch == '$' || ch == '_' || ch == charZWNJ || ch == charZWJ:
		return true
	case ch < 0x80:
		return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || isDecimalDigit(ch)
	}
	return unicode.Is(idContinue, ch)
}

// lexIdentifier reads an IdentifierName whose first character, or the
// backslash of its first escape, has already been consumed.
func (l *Lexer) lexIdentifier(start Position, startLinear LinearPosition, first rune) (Token, error) {
	var (
		name    = make([]rune, 0, 16)
		escaped bool
	)

	if first == '\\' {
		ch, err := l.takeIdentifierEscape(start, IsIdentifierStart)
		if err != nil {
			return Token{}, err
		}
		name = append(name, ch)
		escaped = true
	} else {
		name = append(name, first)
	}

	for {
		chStart := l.cursor.Pos()
		ch, ok, err := l.cursor.PeekChar()
		if err != nil {
			return Token{}, err
		}
		if !ok {
			break
		}
		if ch == '\\' {
			l.cursor.NextChar()
			ch, err = l.takeIdentifierEscape(chStart, IsIdentifierPart)
			if err != nil {
				return Token{}, err
			}
			name = append(name, ch)
			escaped = true
			continue
		}
		if !IsIdentifierPart(ch) {
			break
		}
		l.cursor.NextChar()
		name = append(name, ch)
	}

	tok := l.token(start, startLinear)
	text := string(name)
	switch text {
	case "true", "false":
		if escaped {
			return Token{}, l.cursor.syntaxError(start, "keyword must not contain escaped characters")
		}
		tok.Type = BooleanLiteral
		tok.Bool = text == "true"
		return tok, nil
	case "null":
		if escaped {
			return Token{}, l.cursor.syntaxError(start, "keyword must not contain escaped characters")
		}
		tok.Type = NullLiteral
		return tok, nil
	}

	if kw, ok := LookupKeyword(text); ok {
		tok.Type = KeywordToken
		tok.Keyword = kw
		tok.ContainsEscape = escaped
		return tok, nil
	}

	tok.Type = IdentifierName
	tok.Sym = l.interner.Intern(utf16.Encode(name))
	tok.ContainsEscape = escaped
	return tok, nil
}

// takeIdentifierEscape reads a \u escape inside an identifier; the backslash
// has been consumed. The decoded character must satisfy valid.
func (l *Lexer) takeIdentifierEscape(start Position, valid func(rune) bool) (rune, error) {
	isU, err := l.cursor.NextIs('u')
	if err != nil {
		return 0, err
	}
	if !isU {
		return 0, l.cursor.syntaxError(start, "invalid escape sequence in identifier")
	}
	cp, err := TakeUnicodeEscape(l.cursor, start)
	if err != nil {
		return 0, err
	}
	ch := rune(cp)
	if !valid(ch) {
		return 0, l.cursor.syntaxError(start, "invalid character in identifier escape")
	}
	return ch, nil
}
