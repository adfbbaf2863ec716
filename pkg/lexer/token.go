package lexer

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/nooga/esfront/pkg/interner"
)

// TokenType tags the variant held by a Token.
type TokenType uint8

// --- Token Types ---
const (
	EOF TokenType = iota
	BooleanLiteral
	IdentifierName
	PrivateIdentifier
	KeywordToken
	NullLiteral
	NumericLiteral
	PunctuatorToken
	StringLiteral
	RegularExpressionLiteral
	LineTerminator
	Comment
)

var tokenTypeNames = [...]string{
	EOF:                      "EOF",
	BooleanLiteral:           "BooleanLiteral",
	IdentifierName:           "IdentifierName",
	PrivateIdentifier:        "PrivateIdentifier",
	KeywordToken:             "Keyword",
	NullLiteral:              "NullLiteral",
	NumericLiteral:           "NumericLiteral",
	PunctuatorToken:          "Punctuator",
	StringLiteral:            "StringLiteral",
	RegularExpressionLiteral: "RegularExpressionLiteral",
	LineTerminator:           "LineTerminator",
	Comment:                  "Comment",
}

func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", uint8(t))
}

// EscapeSequence records which kinds of escape a string literal used.
type EscapeSequence uint8

const (
	EscapeOther EscapeSequence = 1 << iota
	EscapeLegacyOctal
	EscapeNonOctalDecimal
)

// Has reports whether every flag in other is set.
func (e EscapeSequence) Has(other EscapeSequence) bool { return e&other == other }

// NumericKind tells which field of Numeric holds the value.
type NumericKind uint8

const (
	NumericRational NumericKind = iota
	NumericInteger
	NumericBigInt
)

// Numeric is the value of a numeric literal.
type Numeric struct {
	Kind     NumericKind
	Rational float64
	Integer  int32
	BigInt   *big.Int

	// Legacy marks a literal written with a leading 0, such as 017 or 08.
	Legacy bool
}

func (n Numeric) String() string {
	switch n.Kind {
	case NumericInteger:
		return strconv.FormatInt(int64(n.Integer), 10)
	case NumericBigInt:
		return n.BigInt.String() + "n"
	default:
		return strconv.FormatFloat(n.Rational, 'g', -1, 64)
	}
}

// Token is one lexical unit. Which payload fields are meaningful depends on
// Type:
//
//	IdentifierName, PrivateIdentifier  Sym, ContainsEscape
//	KeywordToken                       Keyword, ContainsEscape
//	BooleanLiteral                     Bool
//	NumericLiteral                     Numeric
//	StringLiteral                      Sym, Escapes
//	RegularExpressionLiteral           Sym (body), Flags
//	PunctuatorToken                    Punct
//	Comment                            Sym (raw text)
type Token struct {
	Type       TokenType
	Span       Span
	LinearSpan LinearSpan

	Sym            interner.Sym
	Keyword        Keyword
	Punct          Punctuator
	Bool           bool
	Numeric        Numeric
	Escapes        EscapeSequence
	Flags          interner.Sym
	ContainsEscape bool
}

// IsPunct reports whether t is the punctuator p.
func (t Token) IsPunct(p Punctuator) bool {
	return t.Type == PunctuatorToken && t.Punct == p
}

// IsKeyword reports whether t is the keyword k, written without escapes.
func (t Token) IsKeyword(k Keyword) bool {
	return t.Type == KeywordToken && t.Keyword == k && !t.ContainsEscape
}

// Describe renders t for diagnostics and token dumps.
func (t Token) Describe(in *interner.Interner) string {
	switch t.Type {
	case EOF:
		return "end of file"
	case LineTerminator:
		return "line terminator"
	case BooleanLiteral:
		return strconv.FormatBool(t.Bool)
	case NullLiteral:
		return "null"
	case IdentifierName:
		return in.ResolveString(t.Sym)
	case PrivateIdentifier:
		return "#" + in.ResolveString(t.Sym)
	case KeywordToken:
		return t.Keyword.String()
	case NumericLiteral:
		return t.Numeric.String()
	case PunctuatorToken:
		return t.Punct.String()
	case StringLiteral:
		return strconv.Quote(in.ResolveString(t.Sym))
	case RegularExpressionLiteral:
		return "/" + in.ResolveString(t.Sym) + "/" + in.ResolveString(t.Flags)
	case Comment:
		return "comment"
	}
	return t.Type.String()
}

// Keyword is a reserved or contextual word that the lexer reports as a
// KeywordToken rather than an IdentifierName.
type Keyword uint8

const (
	KwAsync Keyword = iota
	KwAwait
	KwBreak
	KwCase
	KwCatch
	KwClass
	KwConst
	KwContinue
	KwDebugger
	KwDefault
	KwDelete
	KwDo
	KwElse
	KwEnum
	KwExport
	KwExtends
	KwFinally
	KwFor
	KwFunction
	KwIf
	KwImport
	KwIn
	KwInstanceOf
	KwLet
	KwNew
	KwOf
	KwReturn
	KwSuper
	KwSwitch
	KwThis
	KwThrow
	KwTry
	KwTypeOf
	KwVar
	KwVoid
	KwWhile
	KwWith
	KwYield
)

var keywordNames = [...]string{
	KwAsync:      "async",
	KwAwait:      "await",
	KwBreak:      "break",
	KwCase:       "case",
	KwCatch:      "catch",
	KwClass:      "class",
	KwConst:      "const",
	KwContinue:   "continue",
	KwDebugger:   "debugger",
	KwDefault:    "default",
	KwDelete:     "delete",
	KwDo:         "do",
	KwElse:       "else",
	KwEnum:       "enum",
	KwExport:     "export",
	KwExtends:    "extends",
	KwFinally:    "finally",
	KwFor:        "for",
	KwFunction:   "function",
	KwIf:         "if",
	KwImport:     "import",
	KwIn:         "in",
	KwInstanceOf: "instanceof",
	KwLet:        "let",
	KwNew:        "new",
	KwOf:         "of",
	KwReturn:     "return",
	KwSuper:      "super",
	KwSwitch:     "switch",
	KwThis:       "this",
	KwThrow:      "throw",
	KwTry:        "try",
	KwTypeOf:     "typeof",
	KwVar:        "var",
	KwVoid:       "void",
	KwWhile:      "while",
	KwWith:       "with",
	KwYield:      "yield",
}

var keywords = func() map[string]Keyword {
	m := make(map[string]Keyword, len(keywordNames))
	for kw, name := range keywordNames {
		m[name] = Keyword(kw)
	}
	return m
}()

// LookupKeyword checks the keywords table for an identifier name.
func LookupKeyword(name string) (Keyword, bool) {
	kw, ok := keywords[name]
	return kw, ok
}

func (k Keyword) String() string {
	if int(k) < len(keywordNames) {
		return keywordNames[k]
	}
	return fmt.Sprintf("Keyword(%d)", uint8(k))
}

// Sym returns the interned name of k.
func (k Keyword) Sym(in *interner.Interner) interner.Sym {
	switch k {
	case KwAsync:
		return interner.SymAsync
	case KwAwait:
		return interner.SymAwait
	case KwLet:
		return interner.SymLet
	case KwOf:
		return interner.SymOf
	case KwYield:
		return interner.SymYield
	case KwDefault:
		return interner.SymDefault
	}
	return in.InternString(k.String())
}

// Punctuator is an operator or delimiter.
type Punctuator uint8

const (
	PunctAdd Punctuator = iota
	PunctAnd
	PunctArrow
	PunctAssign
	PunctAssignAdd
	PunctAssignAnd
	PunctAssignBoolAnd
	PunctAssignBoolOr
	PunctAssignCoalesce
	PunctAssignDiv
	PunctAssignLeftSh
	PunctAssignMod
	PunctAssignMul
	PunctAssignOr
	PunctAssignPow
	PunctAssignRightSh
	PunctAssignSub
	PunctAssignURightSh
	PunctAssignXor
	PunctBoolAnd
	PunctBoolOr
	PunctCloseBlock
	PunctCloseBracket
	PunctCloseParen
	PunctCoalesce
	PunctColon
	PunctComma
	PunctDec
	PunctDiv
	PunctDot
	PunctEq
	PunctGreaterThan
	PunctGreaterThanOrEq
	PunctInc
	PunctLeftSh
	PunctLessThan
	PunctLessThanOrEq
	PunctMod
	PunctMul
	PunctNeg
	PunctNot
	PunctNotEq
	PunctOpenBlock
	PunctOpenBracket
	PunctOpenParen
	PunctOptional
	PunctOr
	PunctExp
	PunctQuestion
	PunctRightSh
	PunctSemicolon
	PunctSpread
	PunctStrictEq
	PunctStrictNotEq
	PunctSub
	PunctURightSh
	PunctXor
)

var punctuatorNames = [...]string{
	PunctAdd:             "+",
	PunctAnd:             "&",
	PunctArrow:           "=>",
	PunctAssign:          "=",
	PunctAssignAdd:       "+=",
	PunctAssignAnd:       "&=",
	PunctAssignBoolAnd:   "&&=",
	PunctAssignBoolOr:    "||=",
	PunctAssignCoalesce:  "??=",
	PunctAssignDiv:       "/=",
	PunctAssignLeftSh:    "<<=",
	PunctAssignMod:       "%=",
	PunctAssignMul:       "*=",
	PunctAssignOr:        "|=",
	PunctAssignPow:       "**=",
	PunctAssignRightSh:   ">>=",
	PunctAssignSub:       "-=",
	PunctAssignURightSh:  ">>>=",
	PunctAssignXor:       "^=",
	PunctBoolAnd:         "&&",
	PunctBoolOr:          "||",
	PunctCloseBlock:      "}",
	PunctCloseBracket:    "]",
	PunctCloseParen:      ")",
	PunctCoalesce:        "??",
	PunctColon:           ":",
	PunctComma:           ",",
	PunctDec:             "--",
	PunctDiv:             "/",
	PunctDot:             ".",
	PunctEq:              "==",
	PunctGreaterThan:     ">",
	PunctGreaterThanOrEq: ">=",
	PunctInc:             "++",
	PunctLeftSh:          "<<",
	PunctLessThan:        "<",
	PunctLessThanOrEq:    "<=",
	PunctMod:             "%",
	PunctMul:             "*",
	PunctNeg:             "~",
	PunctNot:             "!",
	PunctNotEq:           "!=",
	PunctOpenBlock:       "{",
	PunctOpenBracket:     "[",
	PunctOpenParen:       "(",
	PunctOptional:        "?.",
	PunctOr:              "|",
	PunctExp:             "**",
	PunctQuestion:        "?",
	PunctRightSh:         ">>",
	PunctSemicolon:       ";",
	PunctSpread:          "...",
	PunctStrictEq:        "===",
	PunctStrictNotEq:     "!==",
	PunctSub:             "-",
	PunctURightSh:        ">>>",
	PunctXor:             "^",
}

func (p Punctuator) String() string {
	if int(p) < len(punctuatorNames) {
		return punctuatorNames[p]
	}
	return fmt.Sprintf("Punctuator(%d)", uint8(p))
}

// IsAssignOp reports whether p is `=` or a compound assignment operator.
func (p Punctuator) IsAssignOp() bool {
	return p >= PunctAssign && p <= PunctAssignXor
}
