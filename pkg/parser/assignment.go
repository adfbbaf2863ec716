package parser

import (
	"github.com/nooga/esfront/pkg/ast"
	"github.com/nooga/esfront/pkg/interner"
	"github.com/nooga/esfront/pkg/lexer"
)

// parseAssignment parses an AssignmentExpression:
//
//	yield, when the context allows it
//	x => body and async x => body
//	a cover list `( ... ) => body` or `async( ... ) => body`
//	target = value and target op= value
//	otherwise a ConditionalExpression
func (p *Parser) parseAssignment() (ast.Expression, error) {
	p.trace("AssignmentExpression")
	p.cursor.SetGoal(lexer.GoalRegExp)
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}

	switch {
	case tok.IsKeyword(lexer.KwYield) && p.yield:
		return p.parseYield()
	case isIdentifierToken(tok):
		next, err := p.peekSecond()
		if err != nil {
			return nil, err
		}
		if next.IsPunct(lexer.PunctArrow) {
			p.traceDecision("AssignmentExpression", "arrow function")
			return p.parseArrowFunction(false)
		}
		if tok.IsKeyword(lexer.KwAsync) && isIdentifierToken(next) {
			third, err := p.peekThird()
			if err != nil {
				return nil, err
			}
			if third.IsPunct(lexer.PunctArrow) {
				p.traceDecision("AssignmentExpression", "async arrow function")
				return p.parseArrowFunction(true)
			}
		}
	}

	lhs, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if params, ok := lhs.(*ast.FormalParameterList); ok {
		return p.parseCoverArrowFunction(params, tok)
	}

	opTok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if opTok.Type != lexer.PunctuatorToken || !opTok.Punct.IsAssignOp() {
		return lhs, nil
	}
	op, _ := ast.AssignOpFromPunct(opTok.Punct)
	if _, err := p.cursor.Advance(); err != nil {
		return nil, err
	}

	var (
		target ast.AssignTarget
		ok     bool
	)
	if op == ast.AssignPlain {
		target, ok = ast.AssignTargetFromExpression(lhs, p.strictMode())
	} else {
		target, ok = ast.SimpleAssignTarget(lhs, p.strictMode())
	}
	if !ok {
		return nil, p.errorAt(opTok.Span.Start, "Invalid left-hand side in assignment")
	}

	p.cursor.SetGoal(lexer.GoalRegExp)
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if id, isIdent := lhs.(*ast.Identifier); isIdent && (op == ast.AssignPlain || op.IsShortCircuit()) {
		ast.SetAnonymousFunctionName(value, id)
	}
	assign := &ast.Assign{
		Base:   p.spanFromPos(tok.Span.Start, tok.LinearSpan.Start),
		Op:     op,
		Target: target,
		Value:  value,
	}
	if op == ast.AssignPlain {
		assign.Cover = lhs
	}
	return assign, nil
}

// parseCoverArrowFunction finishes an arrow function whose parameters were
// read as a parenthesized cover. start is the first token of the cover.
func (p *Parser) parseCoverArrowFunction(params *ast.FormalParameterList, start lexer.Token) (ast.Expression, error) {
	if _, err := p.cursor.PeekExpectNoLineTerminator(0, "arrow function"); err != nil {
		return nil, err
	}
	if _, err := p.cursor.ExpectPunct(lexer.PunctArrow, "arrow function"); err != nil {
		return nil, err
	}
	if params.Async {
		for _, name := range params.BoundNames() {
			if name == interner.SymAwait {
				return nil, p.errorAt(start.Span.Start, "unexpected identifier 'await' in async function")
			}
		}
	}
	body, err := p.parseConciseBody(params.Async)
	if err != nil {
		return nil, err
	}

	pos := start.Span.Start
	switch {
	case params.HasDuplicates():
		return nil, p.errorAt(pos, "Duplicate parameter name not allowed in this context")
	case ast.Contains(params, ast.ContainsYield):
		return nil, p.errorAt(pos, "Yield expression not allowed in this context")
	case ast.Contains(params, ast.ContainsAwait):
		return nil, p.errorAt(pos, "Await expression not allowed in this context")
	case body.Strict && !params.IsSimple():
		return nil, p.errorAt(pos, "Illegal 'use strict' directive in function with non-simple parameter list")
	case (body.Strict || p.strictMode()) && containsEvalOrArguments(params.BoundNames()):
		return nil, p.errorAt(pos, "unexpected identifier 'eval' or 'arguments' in strict mode")
	}
	if err := p.checkParamsAgainstBody(params, body, pos); err != nil {
		return nil, err
	}
	return &ast.ArrowFunction{
		Base:   p.spanFrom(start),
		Async:  params.Async,
		Params: params,
		Body:   body,
	}, nil
}

// parseYield parses `yield`, `yield value` and `yield* value`. The operand
// is optional and must start on the same line.
func (p *Parser) parseYield() (ast.Expression, error) {
	p.trace("YieldExpression")
	yieldTok, err := p.cursor.Advance()
	if err != nil {
		return nil, err
	}
	p.cursor.SetGoal(lexer.GoalRegExp)
	next, err := p.cursor.PeekNoSkipLineTerm(0)
	if err != nil {
		return nil, err
	}
	if next.IsPunct(lexer.PunctMul) {
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.Yield{Base: p.spanFrom(yieldTok), Arg: arg, Delegate: true}, nil
	}
	if !startsYieldOperand(next) {
		return &ast.Yield{Base: tokenBase(yieldTok)}, nil
	}
	arg, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return &ast.Yield{Base: p.spanFrom(yieldTok), Arg: arg}, nil
}

// startsYieldOperand reports whether tok, directly after yield, begins its
// operand.
func startsYieldOperand(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.EOF, lexer.LineTerminator:
		return false
	case lexer.KeywordToken:
		return !tok.IsKeyword(lexer.KwIn) && !tok.IsKeyword(lexer.KwInstanceOf)
	case lexer.PunctuatorToken:
		switch tok.Punct {
		case lexer.PunctOpenParen, lexer.PunctOpenBracket, lexer.PunctOpenBlock,
			lexer.PunctAdd, lexer.PunctSub, lexer.PunctNot, lexer.PunctNeg,
			lexer.PunctInc, lexer.PunctDec:
			return true
		}
		return false
	}
	return true
}
