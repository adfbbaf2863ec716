package parser

import (
	"github.com/nooga/esfront/pkg/ast"
	"github.com/nooga/esfront/pkg/interner"
	"github.com/nooga/esfront/pkg/lexer"
)

// Precedence levels for binary operators, lowest first. Logical operators
// and `**` have their own productions.
const (
	_ int = iota
	LOWEST
	BITWISE_OR  // |
	BITWISE_XOR // ^
	BITWISE_AND // &
	EQUALS      // ==, !=, ===, !==
	LESSGREATER // <, >, <=, >=, in, instanceof
	SHIFT       // <<, >>, >>>
	SUM         // + -
	PRODUCT     // * / %
)

// binaryPrecedence returns the operator and precedence of tok, or zero
// precedence when tok is not a binary operator handled by parseBinary.
func binaryPrecedence(tok lexer.Token) (ast.BinaryOp, int) {
	switch {
	case tok.IsKeyword(lexer.KwIn):
		return ast.OpIn, LESSGREATER
	case tok.IsKeyword(lexer.KwInstanceOf):
		return ast.OpInstanceOf, LESSGREATER
	case tok.Type != lexer.PunctuatorToken:
		return 0, 0
	}
	op, ok := ast.BinaryOpFromPunct(tok.Punct)
	if !ok {
		return 0, 0
	}
	switch op {
	case ast.OpBitOr:
		return op, BITWISE_OR
	case ast.OpBitXor:
		return op, BITWISE_XOR
	case ast.OpBitAnd:
		return op, BITWISE_AND
	case ast.OpEq, ast.OpNotEq, ast.OpStrictEq, ast.OpStrictNotEq:
		return op, EQUALS
	case ast.OpLessThan, ast.OpGreaterThan, ast.OpLessThanOrEq, ast.OpGreaterThanOrEq:
		return op, LESSGREATER
	case ast.OpShl, ast.OpShr, ast.OpUShr:
		return op, SHIFT
	case ast.OpAdd, ast.OpSub:
		return op, SUM
	case ast.OpMul, ast.OpDiv, ast.OpMod:
		return op, PRODUCT
	}
	return 0, 0
}

// operand rejects an arrow parameter cover used where an operand is needed,
// as in `a + (b) => c`.
func (p *Parser) operand(expr ast.Expression) error {
	if _, ok := expr.(*ast.FormalParameterList); ok {
		return p.errorAt(expr.Span().Start, "malformed arrow function parameter list")
	}
	return nil
}

func isCover(expr ast.Expression) bool {
	_, ok := expr.(*ast.FormalParameterList)
	return ok
}

// parseExpression parses Expression: assignments separated by commas.
func (p *Parser) parseExpression() (ast.Expression, error) {
	p.trace("Expression")
	lhs, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.cursor.Peek(0)
		if err != nil {
			return nil, err
		}
		if !tok.IsPunct(lexer.PunctComma) {
			return lhs, nil
		}
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Binary{Base: ast.Between(lhs, rhs), Op: ast.OpComma, LHS: lhs, RHS: rhs}
	}
}

// parseConditional parses `cond ? a : b`. An arrow parameter cover is passed
// up untouched for the assignment level to finish.
func (p *Parser) parseConditional() (ast.Expression, error) {
	p.trace("ConditionalExpression")
	cond, err := p.parseShortCircuit()
	if err != nil || isCover(cond) {
		return cond, err
	}
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if !tok.IsPunct(lexer.PunctQuestion) {
		return cond, nil
	}
	if _, err := p.cursor.Advance(); err != nil {
		return nil, err
	}
	then, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if _, err := p.cursor.ExpectPunct(lexer.PunctColon, "conditional expression"); err != nil {
		return nil, err
	}
	els, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return &ast.Conditional{Base: ast.Between(cond, els), Cond: cond, Then: then, Else: els}, nil
}

// parseShortCircuit parses `||`, `&&` and `??` chains. `??` cannot be mixed
// with the other two without parentheses.
func (p *Parser) parseShortCircuit() (ast.Expression, error) {
	lhs, err := p.parseLogical(ast.OpLogicalOr)
	if err != nil || isCover(lhs) {
		return lhs, err
	}
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if !tok.IsPunct(lexer.PunctCoalesce) {
		return lhs, nil
	}
	if b, ok := lhs.(*ast.Binary); ok && (b.Op == ast.OpLogicalAnd || b.Op == ast.OpLogicalOr) {
		return nil, p.errorAt(tok.Span.Start, "cannot use '??' unparenthesized within '||' or '&&'")
	}
	for tok.IsPunct(lexer.PunctCoalesce) {
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseBinary(BITWISE_OR)
		if err != nil {
			return nil, err
		}
		if err := p.operand(rhs); err != nil {
			return nil, err
		}
		lhs = &ast.Binary{Base: ast.Between(lhs, rhs), Op: ast.OpCoalesce, LHS: lhs, RHS: rhs}
		if tok, err = p.cursor.Peek(0); err != nil {
			return nil, err
		}
	}
	if tok.IsPunct(lexer.PunctBoolAnd) || tok.IsPunct(lexer.PunctBoolOr) {
		return nil, p.errorAt(tok.Span.Start, "cannot use '??' unparenthesized within '||' or '&&'")
	}
	return lhs, nil
}

// parseLogical parses a left-associative chain of op, where `&&` binds
// tighter than `||`.
func (p *Parser) parseLogical(op ast.BinaryOp) (ast.Expression, error) {
	next := func() (ast.Expression, error) {
		if op == ast.OpLogicalOr {
			return p.parseLogical(ast.OpLogicalAnd)
		}
		return p.parseBinary(BITWISE_OR)
	}
	punct := lexer.PunctBoolAnd
	if op == ast.OpLogicalOr {
		punct = lexer.PunctBoolOr
	}

	lhs, err := next()
	if err != nil || isCover(lhs) {
		return lhs, err
	}
	for {
		tok, err := p.cursor.Peek(0)
		if err != nil {
			return nil, err
		}
		if !tok.IsPunct(punct) {
			return lhs, nil
		}
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		rhs, err := next()
		if err != nil {
			return nil, err
		}
		if err := p.operand(rhs); err != nil {
			return nil, err
		}
		lhs = &ast.Binary{Base: ast.Between(lhs, rhs), Op: op, LHS: lhs, RHS: rhs}
	}
}

// parseBinary climbs binary operator precedence from minPrec upwards.
func (p *Parser) parseBinary(minPrec int) (ast.Expression, error) {
	lhs, err := p.parseExponent()
	if err != nil || isCover(lhs) {
		return lhs, err
	}
	for {
		tok, err := p.cursor.Peek(0)
		if err != nil {
			return nil, err
		}
		op, prec := binaryPrecedence(tok)
		if prec == 0 || prec < minPrec {
			return lhs, nil
		}
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		if err := p.operand(rhs); err != nil {
			return nil, err
		}
		lhs = &ast.Binary{Base: ast.Between(lhs, rhs), Op: op, LHS: lhs, RHS: rhs}
	}
}

// isUnaryStart reports whether tok begins a UnaryExpression with an
// operator.
func (p *Parser) isUnaryStart(tok lexer.Token) bool {
	switch {
	case tok.Type == lexer.PunctuatorToken:
		switch tok.Punct {
		case lexer.PunctAdd, lexer.PunctSub, lexer.PunctNot, lexer.PunctNeg:
			return true
		}
	case tok.IsKeyword(lexer.KwDelete), tok.IsKeyword(lexer.KwVoid), tok.IsKeyword(lexer.KwTypeOf):
		return true
	case tok.IsKeyword(lexer.KwAwait):
		return p.await
	}
	return false
}

// parseExponent parses `a ** b`, which is right-associative and does not
// accept a bare unary expression on its left.
func (p *Parser) parseExponent() (ast.Expression, error) {
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if p.isUnaryStart(tok) {
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		next, err := p.cursor.Peek(0)
		if err != nil {
			return nil, err
		}
		if next.IsPunct(lexer.PunctExp) {
			return nil, p.errorAt(next.Span.Start, "unparenthesized unary expression can't appear on the left-hand side of '**'")
		}
		return expr, nil
	}

	lhs, err := p.parseUpdate()
	if err != nil || isCover(lhs) {
		return lhs, err
	}
	next, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if !next.IsPunct(lexer.PunctExp) {
		return lhs, nil
	}
	if _, err := p.cursor.Advance(); err != nil {
		return nil, err
	}
	rhs, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	if err := p.operand(rhs); err != nil {
		return nil, err
	}
	return &ast.Binary{Base: ast.Between(lhs, rhs), Op: ast.OpExp, LHS: lhs, RHS: rhs}, nil
}

// parseUnaryOperand parses the operand of a prefix operator.
func (p *Parser) parseUnaryOperand() (ast.Expression, error) {
	p.cursor.SetGoal(lexer.GoalRegExp)
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	var expr ast.Expression
	if p.isUnaryStart(tok) {
		expr, err = p.parseUnary()
	} else {
		expr, err = p.parseUpdate()
	}
	if err != nil {
		return nil, err
	}
	return expr, p.operand(expr)
}

// parseUnary parses a prefix operator and its operand, including await.
func (p *Parser) parseUnary() (ast.Expression, error) {
	p.trace("UnaryExpression")
	tok, err := p.cursor.Advance()
	if err != nil {
		return nil, err
	}
	if tok.IsKeyword(lexer.KwAwait) {
		arg, err := p.parseUnaryOperand()
		if err != nil {
			return nil, err
		}
		return &ast.Await{Base: p.spanFrom(tok), Arg: arg}, nil
	}

	var op ast.UnaryOp
	switch {
	case tok.IsPunct(lexer.PunctAdd):
		op = ast.UnaryPlus
	case tok.IsPunct(lexer.PunctSub):
		op = ast.UnaryMinus
	case tok.IsPunct(lexer.PunctNot):
		op = ast.UnaryNot
	case tok.IsPunct(lexer.PunctNeg):
		op = ast.UnaryTilde
	case tok.IsKeyword(lexer.KwDelete):
		op = ast.UnaryDelete
	case tok.IsKeyword(lexer.KwVoid):
		op = ast.UnaryVoid
	case tok.IsKeyword(lexer.KwTypeOf):
		op = ast.UnaryTypeOf
	default:
		return nil, p.unexpected(tok, "unary expression")
	}
	target, err := p.parseUnaryOperand()
	if err != nil {
		return nil, err
	}
	if op == ast.UnaryDelete && p.strictMode() && isIdentifierReference(target) {
		return nil, p.errorAt(tok.Span.Start, "delete of an unqualified identifier in strict mode")
	}
	return &ast.Unary{Base: p.spanFrom(tok), Op: op, Target: target}, nil
}

func isIdentifierReference(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.Identifier:
		return true
	case *ast.Parenthesized:
		return isIdentifierReference(e.Expr)
	}
	return false
}

// parseUpdate parses `++x`, `--x`, `x++` and `x--`. A postfix operator
// must sit on the same line as its operand.
func (p *Parser) parseUpdate() (ast.Expression, error) {
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if tok.IsPunct(lexer.PunctInc) || tok.IsPunct(lexer.PunctDec) {
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		target, err := p.parseUnaryOperand()
		if err != nil {
			return nil, err
		}
		if _, ok := ast.SimpleAssignTarget(target, p.strictMode()); !ok {
			return nil, p.errorAt(target.Span().Start, "Invalid left-hand side in assignment")
		}
		op := ast.IncrementPre
		if tok.IsPunct(lexer.PunctDec) {
			op = ast.DecrementPre
		}
		return &ast.Update{Base: p.spanFrom(tok), Op: op, Target: target}, nil
	}

	lhs, err := p.parseLHS()
	if err != nil || isCover(lhs) {
		return lhs, err
	}
	next, err := p.cursor.PeekNoSkipLineTerm(0)
	if err != nil {
		return nil, err
	}
	if !next.IsPunct(lexer.PunctInc) && !next.IsPunct(lexer.PunctDec) {
		return lhs, nil
	}
	if _, ok := ast.SimpleAssignTarget(lhs, p.strictMode()); !ok {
		return nil, p.errorAt(lhs.Span().Start, "Invalid left-hand side in assignment")
	}
	if _, err := p.cursor.Advance(); err != nil {
		return nil, err
	}
	op := ast.IncrementPost
	if next.IsPunct(lexer.PunctDec) {
		op = ast.DecrementPost
	}
	return &ast.Update{Base: p.spanFromPos(lhs.Span().Start, lhs.LinearSpan().Start), Op: op, Target: lhs}, nil
}

// parseLHS parses a LeftHandSideExpression: new, call and member chains.
// `async(...)` directly followed by `=>` becomes an async arrow parameter
// cover instead of a call.
func (p *Parser) parseLHS() (ast.Expression, error) {
	p.trace("LeftHandSideExpression")
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}

	var expr ast.Expression
	switch {
	case tok.IsKeyword(lexer.KwSuper):
		expr, err = p.parseSuper()
	case tok.IsKeyword(lexer.KwNew):
		expr, err = p.parseNew()
	default:
		expr, err = p.parsePrimary()
	}
	if err != nil || isCover(expr) {
		return expr, err
	}

	if id, ok := expr.(*ast.Identifier); ok && tok.IsKeyword(lexer.KwAsync) && id.Span() == tok.Span {
		cover, err := p.parseAsyncArrowCover(tok, id)
		if err != nil || cover != nil {
			return cover, err
		}
	}
	return p.parseCallTail(expr, true)
}

// parseAsyncArrowCover handles `async(args)` after a bare async identifier.
// It returns a FormalParameterList when `=>` follows, a Call otherwise, and
// nil when no argument list follows on the same line.
func (p *Parser) parseAsyncArrowCover(asyncTok lexer.Token, id *ast.Identifier) (ast.Expression, error) {
	next, err := p.cursor.PeekNoSkipLineTerm(0)
	if err != nil || !next.IsPunct(lexer.PunctOpenParen) {
		return nil, err
	}
	args, trailing, err := p.parseArgumentList()
	if err != nil {
		return nil, err
	}
	arrow, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if !arrow.IsPunct(lexer.PunctArrow) {
		call := &ast.Call{Base: p.spanFrom(asyncTok), Callee: id, Args: args}
		return p.parseCallTail(call, true)
	}
	p.traceDecision("LeftHandSideExpression", "async arrow parameters")
	if n := len(args); n > 0 && trailing != nil {
		if _, spread := args[n-1].(*ast.Spread); spread {
			return nil, p.errorAt(trailing.Span.Start, "unexpected trailing comma after rest parameter")
		}
	}
	list := &ast.FormalParameterList{Base: p.spanFrom(asyncTok), Async: true}
	for _, arg := range args {
		param, ok := ast.FormalParameterFromExpression(arg, p.strictMode())
		if !ok {
			return nil, p.errorAt(arg.Span().Start, "invalid arrow function parameter")
		}
		list.Params = append(list.Params, param)
	}
	for i, param := range list.Params {
		if param.Rest && i != len(list.Params)-1 {
			return nil, p.errorAt(param.Span().Start, "rest parameter must be last formal parameter")
		}
	}
	return list, nil
}

// parseCallTail applies member accesses, and calls when allowCall is set,
// to expr.
func (p *Parser) parseCallTail(expr ast.Expression, allowCall bool) (ast.Expression, error) {
	start := expr.Span().Start
	linearStart := expr.LinearSpan().Start
	for {
		tok, err := p.cursor.Peek(0)
		if err != nil {
			return nil, err
		}
		switch {
		case tok.IsPunct(lexer.PunctDot):
			if _, err := p.cursor.Advance(); err != nil {
				return nil, err
			}
			nameTok, err := p.cursor.Advance()
			if err != nil {
				return nil, err
			}
			name, ok := p.identifierNameSym(nameTok)
			if !ok {
				return nil, p.unexpected(nameTok, "member expression")
			}
			expr = &ast.PropertyAccess{Base: p.spanFromPos(start, linearStart), Target: expr, Name: name}
		case tok.IsPunct(lexer.PunctOpenBracket):
			if _, err := p.cursor.Advance(); err != nil {
				return nil, err
			}
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.cursor.ExpectPunct(lexer.PunctCloseBracket, "member expression"); err != nil {
				return nil, err
			}
			expr = &ast.PropertyAccess{Base: p.spanFromPos(start, linearStart), Target: expr, Computed: index}
		case tok.IsPunct(lexer.PunctOpenParen) && allowCall:
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			expr = &ast.Call{Base: p.spanFromPos(start, linearStart), Callee: expr, Args: args}
		default:
			return expr, nil
		}
	}
}

// parseArguments parses `( a, ...b, )`.
func (p *Parser) parseArguments() ([]ast.Expression, error) {
	args, _, err := p.parseArgumentList()
	return args, err
}

// parseArgumentList is parseArguments that also returns the comma closing
// the list, if there is one.
func (p *Parser) parseArgumentList() ([]ast.Expression, *lexer.Token, error) {
	if _, err := p.cursor.ExpectPunct(lexer.PunctOpenParen, "arguments"); err != nil {
		return nil, nil, err
	}
	args := []ast.Expression{}
	var trailing *lexer.Token
	for {
		done, err := p.cursor.NextIfPunct(lexer.PunctCloseParen)
		if err != nil || done {
			return args, trailing, err
		}
		arg, err := p.parseSpreadOrAssignment()
		if err != nil {
			return nil, nil, err
		}
		args = append(args, arg)
		if done, err := p.cursor.NextIfPunct(lexer.PunctCloseParen); err != nil || done {
			return args, nil, err
		}
		comma, err := p.cursor.ExpectPunct(lexer.PunctComma, "arguments")
		if err != nil {
			return nil, nil, err
		}
		trailing = &comma
	}
}

// parseSpreadOrAssignment parses `...expr` or an AssignmentExpression.
func (p *Parser) parseSpreadOrAssignment() (ast.Expression, error) {
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if !tok.IsPunct(lexer.PunctSpread) {
		return p.parseAssignment()
	}
	if _, err := p.cursor.Advance(); err != nil {
		return nil, err
	}
	arg, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return &ast.Spread{Base: p.spanFrom(tok), Arg: arg}, nil
}

// parseNew parses `new.target`, `new X` and `new X(args)`.
func (p *Parser) parseNew() (ast.Expression, error) {
	newTok, err := p.cursor.Advance()
	if err != nil {
		return nil, err
	}
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if tok.IsPunct(lexer.PunctDot) {
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		target, err := p.cursor.Advance()
		if err != nil {
			return nil, err
		}
		if target.Type != lexer.IdentifierName || target.Sym != interner.SymTarget || target.ContainsEscape {
			return nil, p.unexpected(target, "new.target")
		}
		return &ast.NewTarget{Base: p.spanFrom(newTok)}, nil
	}

	var callee ast.Expression
	switch {
	case tok.IsKeyword(lexer.KwNew):
		callee, err = p.parseNew()
	case tok.IsKeyword(lexer.KwSuper):
		callee, err = p.parseSuper()
		if _, ok := callee.(*ast.SuperCall); ok {
			return nil, p.errorAt(tok.Span.Start, "invalid super usage")
		}
	default:
		callee, err = p.parsePrimary()
	}
	if err != nil {
		return nil, err
	}
	if err := p.operand(callee); err != nil {
		return nil, err
	}
	if callee, err = p.parseCallTail(callee, false); err != nil {
		return nil, err
	}

	next, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if !next.IsPunct(lexer.PunctOpenParen) {
		return &ast.New{Base: p.spanFrom(newTok), Callee: callee}, nil
	}
	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	return &ast.New{Base: p.spanFrom(newTok), Callee: callee, Args: args, HasArgs: true}, nil
}

// parseSuper parses `super(args)`, `super.name` and `super[expr]`. Whether
// super is allowed here is checked once the enclosing function is known.
func (p *Parser) parseSuper() (ast.Expression, error) {
	superTok, err := p.cursor.Advance()
	if err != nil {
		return nil, err
	}
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	switch {
	case tok.IsPunct(lexer.PunctOpenParen):
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		return &ast.SuperCall{Base: p.spanFrom(superTok), Args: args}, nil
	case tok.IsPunct(lexer.PunctDot):
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		nameTok, err := p.cursor.Advance()
		if err != nil {
			return nil, err
		}
		name, ok := p.identifierNameSym(nameTok)
		if !ok {
			return nil, p.unexpected(nameTok, "super property")
		}
		return &ast.SuperPropertyAccess{Base: p.spanFrom(superTok), Name: name}, nil
	case tok.IsPunct(lexer.PunctOpenBracket):
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		index, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.cursor.ExpectPunct(lexer.PunctCloseBracket, "super property"); err != nil {
			return nil, err
		}
		return &ast.SuperPropertyAccess{Base: p.spanFrom(superTok), Computed: index}, nil
	}
	return nil, p.unexpected(tok, "super expression")
}
