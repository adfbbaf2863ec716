package parser

import (
	"github.com/nooga/esfront/pkg/ast"
	"github.com/nooga/esfront/pkg/lexer"
)

// parseAsyncFunctionExpression parses
//
//	async [no LineTerminator here] function [*] [name] (params) { body }
//
// The name, if present, is bound with await reserved, so
// `async function await() {}` is an error even in sloppy code.
func (p *Parser) parseAsyncFunctionExpression() (ast.Expression, error) {
	p.trace("AsyncFunctionExpression")
	start, err := p.cursor.ExpectKeyword(lexer.KwAsync, "async function expression")
	if err != nil {
		return nil, err
	}
	if _, err := p.cursor.PeekExpectNoLineTerminator(0, "async function expression"); err != nil {
		return nil, err
	}
	if _, err := p.cursor.ExpectKeyword(lexer.KwFunction, "async function expression"); err != nil {
		return nil, err
	}

	kind := ast.FuncAsync
	star, err := p.cursor.NextIfPunct(lexer.PunctMul)
	if err != nil {
		return nil, err
	}
	if star {
		kind = ast.FuncAsyncGenerator
	}

	var name *ast.Identifier
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if isIdentifierToken(tok) {
		restore := p.withContext(kind.IsGenerator(), true)
		name, err = p.parseBindingIdentifier()
		restore()
		if err != nil {
			return nil, err
		}
	}
	fn, err := p.parseFunctionRest(start, kind, name, false)
	if err != nil {
		return nil, err
	}
	return fn, nil
}
