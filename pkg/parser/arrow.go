package parser

import (
	"github.com/nooga/esfront/pkg/ast"
	"github.com/nooga/esfront/pkg/lexer"
)

// parseArrowFunction parses an arrow function with a single unparenthesized
// parameter, `x => body` or, when async is set, `async x => body`.
func (p *Parser) parseArrowFunction(async bool) (ast.Expression, error) {
	p.trace("ArrowFunction")
	start, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if async {
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
	}

	var param *ast.Identifier
	if async {
		restore := p.withContext(false, true)
		param, err = p.parseBindingIdentifier()
		restore()
	} else {
		param, err = p.parseBindingIdentifier()
	}
	if err != nil {
		return nil, err
	}

	if _, err := p.cursor.PeekExpectNoLineTerminator(0, "arrow function"); err != nil {
		return nil, err
	}
	if _, err := p.cursor.ExpectPunct(lexer.PunctArrow, "arrow function"); err != nil {
		return nil, err
	}
	params := &ast.FormalParameterList{
		Base:   param.Base,
		Params: []*ast.FormalParameter{{Base: param.Base, Target: param}},
		Async:  async,
	}

	body, err := p.parseConciseBody(async)
	if err != nil {
		return nil, err
	}
	if body.Strict && ast.IsEvalOrArguments(param.Sym) {
		return nil, p.errorAt(param.Span().Start, "unexpected identifier 'eval' or 'arguments' in strict mode")
	}
	if err := p.checkParamsAgainstBody(params, body, start.Span.Start); err != nil {
		return nil, err
	}
	return &ast.ArrowFunction{
		Base:   p.spanFrom(start),
		Async:  async,
		Params: params,
		Body:   body,
	}, nil
}

// parseConciseBody parses an arrow function body: a block, or a single
// assignment expression wrapped as an implicit return.
func (p *Parser) parseConciseBody(async bool) (*ast.FunctionBody, error) {
	p.trace("ConciseBody")
	defer p.cursor.SetArrow(true)()
	defer p.withContext(false, async)()

	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if tok.IsPunct(lexer.PunctOpenBlock) {
		return p.parseFunctionBody()
	}

	expr, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	base := ast.At(expr.Span(), expr.LinearSpan())
	return &ast.FunctionBody{
		Base:       base,
		Statements: []ast.Statement{&ast.Return{Base: base, Arg: expr}},
		Expression: true,
	}, nil
}
