package lexer

import (
	"strings"
	"unicode/utf16"

	"github.com/dlclark/regexp2"
)

// lexRegExp reads a regular expression literal; the opening slash has been
// consumed. The pattern is checked with regexp2 in ECMAScript mode unless the
// u or v flag selects the Unicode-aware grammar, which regexp2 does not model.
func (l *Lexer) lexRegExp(start Position, startLinear LinearPosition) (Token, error) {
	var (
		body    = make([]rune, 0, 16)
		inClass bool
	)

loop:
	for {
		ch, ok, err := l.cursor.NextChar()
		if err != nil {
			return Token{}, err
		}
		if !ok {
			return Token{}, l.cursor.lexError(start, "unterminated regular expression literal")
		}
		if IsLineTerminator(ch) {
			return Token{}, l.cursor.syntaxError(start, "new lines are not allowed in regular expressions")
		}
		switch ch {
		case '\\':
			escaped, ok, err := l.cursor.NextChar()
			if err != nil {
				return Token{}, err
			}
			if !ok {
				return Token{}, l.cursor.lexError(start, "unterminated regular expression literal")
			}
			if IsLineTerminator(escaped) {
				return Token{}, l.cursor.syntaxError(start, "new lines are not allowed in regular expressions")
			}
			body = append(body, ch, escaped)
			continue
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				break loop
			}
		}
		body = append(body, ch)
	}

	flags, err := l.cursor.TakeWhile(nil, IsIdentifierPart)
	if err != nil {
		return Token{}, err
	}
	if next, ok, err := l.cursor.PeekChar(); err != nil {
		return Token{}, err
	} else if ok && next == '\\' {
		return Token{}, l.cursor.syntaxError(l.cursor.Pos(), "invalid regular expression flags")
	}

	opts, err := regExpOptions(string(flags))
	if err != nil {
		return Token{}, l.cursor.syntaxError(start, err.Error())
	}
	if !strings.ContainsAny(string(flags), "uv") {
		if _, err := regexp2.Compile(string(body), opts); err != nil {
			return Token{}, l.cursor.syntaxError(start, "invalid regular expression literal: "+err.Error())
		}
	}

	tok := l.token(start, startLinear)
	tok.Type = RegularExpressionLiteral
	tok.Sym = l.interner.Intern(utf16.Encode(body))
	tok.Flags = l.interner.Intern(utf16.Encode(flags))
	return tok, nil
}

type regExpFlagError string

func (e regExpFlagError) Error() string { return string(e) }

// regExpOptions validates the flag set and maps it onto regexp2 options.
// regexp2 accepts only IgnoreCase and Multiline alongside ECMAScript.
func regExpOptions(flags string) (regexp2.RegexOptions, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	var seen [128]bool
	for _, f := range flags {
		if f >= 128 || !strings.ContainsRune("dgimsuyv", f) {
			return 0, regExpFlagError("invalid regular expression flag " + string(f))
		}
		if seen[f] {
			return 0, regExpFlagError("repeated regular expression flag " + string(f))
		}
		seen[f] = true
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		}
	}
	if seen['u'] && seen['v'] {
		return 0, regExpFlagError("regular expression flags u and v are mutually exclusive")
	}
	return opts, nil
}
