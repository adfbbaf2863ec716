package parser

import (
	"github.com/nooga/esfront/pkg/ast"
	"github.com/nooga/esfront/pkg/interner"
	"github.com/nooga/esfront/pkg/lexer"
)

// isIdentifierToken reports whether tok may name a binding or reference:
// an IdentifierName or one of the contextual keywords.
func isIdentifierToken(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.IdentifierName:
		return true
	case lexer.KeywordToken:
		switch tok.Keyword {
		case lexer.KwYield, lexer.KwAwait, lexer.KwAsync, lexer.KwOf, lexer.KwLet:
			return true
		}
	}
	return false
}

// isStrictReserved reports whether sym is reserved in strict mode code only.
func isStrictReserved(sym interner.Sym) bool {
	switch sym {
	case interner.SymImplements, interner.SymInterface, interner.SymPackage,
		interner.SymPrivate, interner.SymProtected, interner.SymPublic, interner.SymStatic:
		return true
	}
	return false
}

// identifierNameSym returns the name of a token usable as an IdentifierName,
// which admits reserved words: property names after `.` and object keys.
func (p *Parser) identifierNameSym(tok lexer.Token) (interner.Sym, bool) {
	switch tok.Type {
	case lexer.IdentifierName:
		return tok.Sym, true
	case lexer.KeywordToken:
		return tok.Keyword.Sym(p.interner), true
	case lexer.BooleanLiteral:
		if tok.Bool {
			return p.interner.InternString("true"), true
		}
		return p.interner.InternString("false"), true
	case lexer.NullLiteral:
		return p.interner.InternString("null"), true
	}
	return 0, false
}

// parseIdentifierReference parses an IdentifierReference.
func (p *Parser) parseIdentifierReference() (*ast.Identifier, error) {
	tok, err := p.cursor.Advance()
	if err != nil {
		return nil, err
	}
	return p.identifierFromToken(tok, false)
}

// parseBindingIdentifier parses a BindingIdentifier.
func (p *Parser) parseBindingIdentifier() (*ast.Identifier, error) {
	tok, err := p.cursor.Advance()
	if err != nil {
		return nil, err
	}
	return p.identifierFromToken(tok, true)
}

// identifierFromToken validates an already consumed token as an identifier
// in the current context.
func (p *Parser) identifierFromToken(tok lexer.Token, binding bool) (*ast.Identifier, error) {
	if !isIdentifierToken(tok) {
		if tok.Type == lexer.KeywordToken && tok.ContainsEscape {
			return nil, p.errorAt(tok.Span.Start, "keyword must not contain escaped characters")
		}
		if binding {
			return nil, p.unexpected(tok, "binding identifier")
		}
		return nil, p.unexpected(tok, "identifier reference")
	}
	sym := tok.Sym
	if tok.Type == lexer.KeywordToken {
		sym = tok.Keyword.Sym(p.interner)
	}
	strict := p.strictMode()
	pos := tok.Span.Start
	switch {
	case strict && isStrictReserved(sym):
		return nil, p.errorAt(pos, "unexpected identifier '%s' in strict mode", p.name(sym))
	case sym == interner.SymYield && p.yield:
		return nil, p.errorAt(pos, "unexpected identifier 'yield' in generator function")
	case sym == interner.SymYield && strict:
		return nil, p.errorAt(pos, "unexpected identifier 'yield' in strict mode")
	case sym == interner.SymAwait && p.await:
		return nil, p.errorAt(pos, "unexpected identifier 'await' in async function")
	case sym == interner.SymLet && strict:
		return nil, p.errorAt(pos, "unexpected identifier 'let' in strict mode")
	case binding && strict && ast.IsEvalOrArguments(sym):
		return nil, p.errorAt(pos, "unexpected identifier 'eval' or 'arguments' in strict mode")
	}
	return &ast.Identifier{Base: tokenBase(tok), Sym: sym}, nil
}

// peekSecond returns the token right after the next one, counting a line
// terminator between them as a token, as a lookahead for `x =>` and
// `async x`.
func (p *Parser) peekSecond() (lexer.Token, error) {
	skip := 1
	lt, err := p.cursor.PeekIsLineTerminator(0)
	if err != nil {
		return lexer.Token{}, err
	}
	if lt {
		skip = 2
	}
	return p.cursor.PeekNoSkipLineTerm(skip)
}

// peekThird is peekSecond one token further, skipping a line terminator
// before the third token.
func (p *Parser) peekThird() (lexer.Token, error) {
	skip := 2
	lt, err := p.cursor.PeekIsLineTerminator(0)
	if err != nil {
		return lexer.Token{}, err
	}
	if lt {
		skip = 3
	}
	tok, err := p.cursor.PeekNoSkipLineTerm(skip)
	if err != nil || tok.Type != lexer.LineTerminator {
		return tok, err
	}
	return p.cursor.PeekNoSkipLineTerm(skip + 1)
}
