package lexer

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// lexNumber reads a numeric literal. first is the already consumed leading
// character: a decimal digit, or '.' followed by a digit.
// Handles decimal (optional fraction/exponent), hex (0x), binary (0b), octal
// (0o), legacy octal (017), non-octal decimal (089), numeric separators and
// the BigInt suffix.
func (l *Lexer) lexNumber(start Position, startLinear LinearPosition, first rune) (Token, error) {
	var digits strings.Builder

	// 1. Check for base prefix (0x, 0b, 0o) and legacy forms.
	if first == '0' {
		ch, ok, err := l.cursor.PeekChar()
		if err != nil {
			return Token{}, err
		}
		base := 0
		if ok {
			switch ch {
			case 'x', 'X':
				base = 16
			case 'o', 'O':
				base = 8
			case 'b', 'B':
				base = 2
			}
		}
		if base != 0 {
			l.cursor.NextChar()
			n, err := l.takeDigits(&digits, base, true)
			if err != nil {
				return Token{}, err
			}
			if n == 0 {
				return Token{}, l.cursor.syntaxError(start, "expected digits after numeric literal prefix")
			}
			bigint, err := l.cursor.NextIs('n')
			if err != nil {
				return Token{}, err
			}
			return l.finishRadix(start, startLinear, digits.String(), base, bigint)
		}

		if ok && isDecimalDigit(ch) {
			return l.lexLegacyNumber(start, startLinear)
		}
	}

	// 2. Integer part.
	isFloat := false
	if first == '.' {
		isFloat = true
		digits.WriteString("0.")
		if _, err := l.takeDigits(&digits, 10, true); err != nil {
			return Token{}, err
		}
	} else {
		digits.WriteRune(first)
		if err := l.continueDigits(&digits, first); err != nil {
			return Token{}, err
		}

		// 3. BigInt suffix, only on plain integers.
		bigint, err := l.cursor.NextIs('n')
		if err != nil {
			return Token{}, err
		}
		if bigint {
			return l.finishRadix(start, startLinear, digits.String(), 10, true)
		}

		// 4. Fractional part.
		dot, err := l.cursor.NextIs('.')
		if err != nil {
			return Token{}, err
		}
		if dot {
			isFloat = true
			digits.WriteByte('.')
			if _, err := l.takeDigits(&digits, 10, true); err != nil {
				return Token{}, err
			}
		}
	}

	// 5. Exponent part.
	hasExp, err := l.takeExponent(&digits, start)
	if err != nil {
		return Token{}, err
	}
	isFloat = isFloat || hasExp

	if err := l.checkAfterNumber(); err != nil {
		return Token{}, err
	}

	tok := l.token(start, startLinear)
	tok.Type = NumericLiteral
	tok.Numeric = decimalValue(digits.String(), isFloat)
	return tok, nil
}

// continueDigits reads the rest of an integer part whose first digit is
// already in digits. A separator may directly follow that digit.
func (l *Lexer) continueDigits(digits *strings.Builder, first rune) error {
	ch, ok, err := l.cursor.PeekChar()
	if err != nil || !ok {
		return err
	}
	if ch == '_' {
		next, ok, err := l.cursor.PeekCharN(1)
		if err != nil {
			return err
		}
		if first == '0' || !ok || !isDecimalDigit(next) {
			return l.cursor.syntaxError(l.cursor.Pos(), "invalid numeric separator")
		}
		l.cursor.NextChar()
	}
	_, err = l.takeDigits(digits, 10, true)
	return err
}

// lexLegacyNumber handles a literal starting with 0 followed by a decimal
// digit: a legacy octal integer, or a non-octal decimal that may still carry
// a fraction and an exponent. Both are rejected in strict mode code.
func (l *Lexer) lexLegacyNumber(start Position, startLinear LinearPosition) (Token, error) {
	var digits strings.Builder
	if _, err := l.takeDigits(&digits, 10, false); err != nil {
		return Token{}, err
	}
	text := digits.String()
	octal := strings.IndexFunc(text, func(r rune) bool { return !isOctalDigit(r) }) < 0

	if l.cursor.Strict() {
		if octal {
			return Token{}, l.cursor.syntaxError(start, "implicit octal literals are not allowed in strict mode")
		}
		return Token{}, l.cursor.syntaxError(start, "leading 0's are not allowed in strict mode")
	}

	if ch, ok, err := l.cursor.PeekChar(); err != nil {
		return Token{}, err
	} else if ok && (ch == 'n' || ch == '_') {
		return Token{}, l.cursor.syntaxError(l.cursor.Pos(), "invalid legacy numeric literal")
	}

	if octal {
		tok, err := l.finishRadix(start, startLinear, text, 8, false)
		tok.Numeric.Legacy = true
		return tok, err
	}

	isFloat := false
	dot, err := l.cursor.NextIs('.')
	if err != nil {
		return Token{}, err
	}
	if dot {
		isFloat = true
		digits.WriteByte('.')
		if _, err := l.takeDigits(&digits, 10, true); err != nil {
			return Token{}, err
		}
	}
	hasExp, err := l.takeExponent(&digits, start)
	if err != nil {
		return Token{}, err
	}
	if err := l.checkAfterNumber(); err != nil {
		return Token{}, err
	}
	tok := l.token(start, startLinear)
	tok.Type = NumericLiteral
	tok.Numeric = decimalValue(digits.String(), isFloat || hasExp)
	tok.Numeric.Legacy = true
	return tok, nil
}

// takeDigits appends digits of the given base to sb, skipping numeric
// separators when allowed. A separator must sit between two digits.
func (l *Lexer) takeDigits(sb *strings.Builder, base int, separators bool) (int, error) {
	count := 0
	lastCharWasDigit := false
	for {
		ch, ok, err := l.cursor.PeekChar()
		if err != nil {
			return count, err
		}
		if !ok {
			return count, nil
		}
		switch {
		case isDigitForBase(ch, base):
			l.cursor.NextChar()
			sb.WriteRune(ch)
			count++
			lastCharWasDigit = true
		case ch == '_' && separators:
			next, ok, err := l.cursor.PeekCharN(1)
			if err != nil {
				return count, err
			}
			if !lastCharWasDigit || !ok || !isDigitForBase(next, base) {
				return count, l.cursor.syntaxError(l.cursor.Pos(), "invalid numeric separator")
			}
			l.cursor.NextChar()
			lastCharWasDigit = false
		default:
			return count, nil
		}
	}
}

func (l *Lexer) takeExponent(sb *strings.Builder, start Position) (bool, error) {
	ch, ok, err := l.cursor.PeekChar()
	if err != nil || !ok || (ch != 'e' && ch != 'E') {
		return false, err
	}
	l.cursor.NextChar()
	sb.WriteByte('e')
	if sign, ok, err := l.cursor.NextIf(func(r rune) bool { return r == '+' || r == '-' }); err != nil {
		return false, err
	} else if ok {
		sb.WriteRune(sign)
	}
	n, err := l.takeDigits(sb, 10, true)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, l.cursor.syntaxError(start, "missing exponent in numeric literal")
	}
	return true, nil
}

// checkAfterNumber rejects an identifier start or digit directly after a
// numeric literal, as in `3in` or `0b12`.
func (l *Lexer) checkAfterNumber() error {
	ch, ok, err := l.cursor.PeekChar()
	if err != nil || !ok {
		return err
	}
	if IsIdentifierStart(ch) || isDecimalDigit(ch) || ch == '\\' {
		return l.cursor.syntaxError(l.cursor.Pos(), "a numeric literal must not be followed by an identifier or digit")
	}
	return nil
}

func (l *Lexer) finishRadix(start Position, startLinear LinearPosition, digits string, base int, bigint bool) (Token, error) {
	if err := l.checkAfterNumber(); err != nil {
		return Token{}, err
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return Token{}, l.cursor.syntaxError(start, "invalid numeric literal")
	}
	tok := l.token(start, startLinear)
	tok.Type = NumericLiteral
	switch {
	case bigint:
		tok.Numeric = Numeric{Kind: NumericBigInt, BigInt: n}
	case n.IsInt64() && n.Int64() <= math.MaxInt32:
		tok.Numeric = Numeric{Kind: NumericInteger, Integer: int32(n.Int64())}
	default:
		f, _ := new(big.Float).SetInt(n).Float64()
		tok.Numeric = Numeric{Kind: NumericRational, Rational: f}
	}
	return tok, nil
}

// decimalValue converts separator-free decimal text. Integers that fit in
// int32 keep their integer form.
func decimalValue(text string, isFloat bool) Numeric {
	if !isFloat {
		if i, err := strconv.ParseInt(text, 10, 32); err == nil {
			return Numeric{Kind: NumericInteger, Integer: int32(i)}
		}
	}
	// Overflow yields ±Inf with ErrRange, which is the value we want.
	f, _ := strconv.ParseFloat(text, 64)
	return Numeric{Kind: NumericRational, Rational: f}
}
