package lexer

// --- String Literals ---

// PushCodePoint appends cp to buf as one UTF-16 code unit, or as a surrogate
// pair when cp lies outside the Basic Multilingual Plane.
func PushCodePoint(buf []uint16, cp uint32) []uint16 {
	if cp < 0x10000 {
		return append(buf, uint16(cp))
	}
	cp -= 0x10000
	return append(buf, uint16(cp/1024+0xD800), uint16(cp%1024+0xDC00))
}

// TakeStringCharacters decodes a string literal body. The opening quote must
// already be consumed; the closing one is consumed on success.
func TakeStringCharacters(c *Cursor, quote rune, strict bool) ([]uint16, EscapeSequence, error) {
	var (
		buf     = make([]uint16, 0, 16)
		escapes EscapeSequence
	)
	for {
		chStart := c.Pos()
		ch, ok, err := c.NextChar()
		if err != nil {
			return nil, 0, err
		}
		switch {
		case !ok:
			return nil, 0, c.lexError(chStart, "unterminated string literal")
		case ch == quote:
			return buf, escapes, nil
		case ch == '\\':
			cp, emit, flags, err := TakeEscapeSequenceOrLineContinuation(c, chStart, strict, false)
			if err != nil {
				return nil, 0, err
			}
			escapes |= flags
			if emit {
				buf = PushCodePoint(buf, cp)
			}
		case ch == charLS || ch == charPS:
			buf = append(buf, uint16(ch))
		case ch == charLF || ch == charCR:
			return nil, 0, c.lexError(chStart, "unterminated string literal")
		default:
			buf = PushCodePoint(buf, uint32(ch))
		}
	}
}

// TakeEscapeSequenceOrLineContinuation decodes the escape whose backslash,
// found at start, has just been consumed. emit is false for a line
// continuation, which contributes no character.
func TakeEscapeSequenceOrLineContinuation(c *Cursor, start Position, strict, template bool) (cp uint32, emit bool, flags EscapeSequence, err error) {
	ch, ok, err := c.NextChar()
	if err != nil {
		return 0, false, 0, err
	}
	if !ok {
		return 0, false, 0, c.lexError(start, "unterminated escape sequence in literal")
	}

	switch ch {
	case 'b':
		return 0x08, true, EscapeOther, nil
	case 't':
		return 0x09, true, EscapeOther, nil
	case 'n':
		return 0x0A, true, EscapeOther, nil
	case 'v':
		return 0x0B, true, EscapeOther, nil
	case 'f':
		return 0x0C, true, EscapeOther, nil
	case 'r':
		return 0x0D, true, EscapeOther, nil
	case '"', '\'', '\\':
		return uint32(ch), true, EscapeOther, nil
	case 'x':
		cp, err := takeHexEscape(c, start)
		return cp, err == nil, EscapeOther, err
	case 'u':
		cp, err := TakeUnicodeEscape(c, start)
		return cp, err == nil, EscapeOther, err
	case '8', '9':
		switch {
		case template:
			return 0, false, 0, c.syntaxError(start, `\8 and \9 are not allowed in template literal`)
		case strict:
			return 0, false, 0, c.syntaxError(start, `\8 and \9 are not allowed in strict mode`)
		}
		return uint32(ch), true, EscapeNonOctalDecimal, nil
	}

	if ch == '0' {
		next, ok, err := c.PeekChar()
		if err != nil {
			return 0, false, 0, err
		}
		if !ok || !isDecimalDigit(next) {
			return 0, true, EscapeOther, nil
		}
	}

	if isOctalDigit(ch) {
		switch {
		case template:
			return 0, false, 0, c.syntaxError(start, "octal escape sequences are not allowed in template literal")
		case strict:
			return 0, false, 0, c.syntaxError(start, "octal escape sequences are not allowed in strict mode")
		}
		cp, err := takeLegacyOctalEscape(c, ch)
		return cp, err == nil, EscapeLegacyOctal, err
	}

	if IsLineTerminator(ch) {
		if ch == charCR {
			if _, err := c.NextIs(charLF); err != nil {
				return 0, false, 0, err
			}
		}
		return 0, false, EscapeOther, nil
	}

	return uint32(ch), true, EscapeOther, nil
}

// takeHexEscape reads the two digits of a \x escape.
func takeHexEscape(c *Cursor, start Position) (uint32, error) {
	var cp uint32
	for i := 0; i < 2; i++ {
		ch, ok, err := c.NextChar()
		if err != nil {
			return 0, err
		}
		if !ok || !isHexDigit(ch) {
			return 0, c.lexError(start, "invalid Hexadecimal escape sequence")
		}
		cp = cp<<4 | hexValue(ch)
	}
	return cp, nil
}

// TakeUnicodeEscape reads the body of a \u escape, in either the braced
// code point form or the four-digit code unit form. The four-digit form is
// not checked for surrogates.
func TakeUnicodeEscape(c *Cursor, start Position) (uint32, error) {
	braced, err := c.NextIs('{')
	if err != nil {
		return 0, err
	}

	if braced {
		var (
			cp       uint32
			digits   int
			tooLarge bool
		)
		for {
			ch, ok, err := c.NextChar()
			if err != nil {
				return 0, err
			}
			if !ok {
				return 0, c.lexError(start, "malformed Unicode character escape sequence")
			}
			if ch == '}' {
				break
			}
			if !isHexDigit(ch) {
				return 0, c.lexError(start, "malformed Unicode character escape sequence")
			}
			digits++
			if !tooLarge {
				cp = cp<<4 | hexValue(ch)
				tooLarge = cp > 0x10FFFF
			}
		}
		if digits == 0 {
			return 0, c.lexError(start, "malformed Unicode character escape sequence")
		}
		if tooLarge {
			return 0, c.lexError(start, "Unicode codepoint must not be greater than 0x10FFFF in escape sequence")
		}
		return cp, nil
	}

	var unit uint32
	for i := 0; i < 4; i++ {
		ch, ok, err := c.NextChar()
		if err != nil {
			return 0, err
		}
		if !ok || !isHexDigit(ch) {
			return 0, c.lexError(start, "invalid Unicode escape sequence")
		}
		unit = unit<<4 | hexValue(ch)
	}
	return unit, nil
}

// takeLegacyOctalEscape reads up to two more octal digits after first.
// ZeroToThree allows two further digits, FourToSeven only one.
func takeLegacyOctalEscape(c *Cursor, first rune) (uint32, error) {
	cp := uint32(first - '0')
	maxDigits := 1
	if first <= '3' {
		maxDigits = 2
	}
	for i := 0; i < maxDigits; i++ {
		ch, ok, err := c.NextIf(isOctalDigit)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		cp = cp*8 + uint32(ch-'0')
	}
	return cp, nil
}

func isDecimalDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isOctalDigit(ch rune) bool {
	return '0' <= ch && ch <= '7'
}

func isBinaryDigit(ch rune) bool {
	return ch == '0' || ch == '1'
}

func isHexDigit(ch rune) bool {
	return ('0' <= ch && ch <= '9') || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func hexValue(ch rune) uint32 {
	switch {
	case ch >= 'a':
		return uint32(ch-'a') + 10
	case ch >= 'A':
		return uint32(ch-'A') + 10
	}
	return uint32(ch - '0')
}

// isDigitForBase checks if the character is a valid digit for the given base.
func isDigitForBase(ch rune, base int) bool {
	switch base {
	case 16:
		return isHexDigit(ch)
	case 10:
		return isDecimalDigit(ch)
	case 8:
		return isOctalDigit(ch)
	case 2:
		return isBinaryDigit(ch)
	}
	return false
}
