package parser

import (
	"github.com/nooga/esfront/pkg/ast"
	"github.com/nooga/esfront/pkg/interner"
	"github.com/nooga/esfront/pkg/lexer"
)

// parsePrimary parses a PrimaryExpression. A parenthesized list directly
// followed by `=>` comes back as a FormalParameterList cover.
func (p *Parser) parsePrimary() (ast.Expression, error) {
	p.trace("PrimaryExpression")
	p.cursor.SetGoal(lexer.GoalRegExp)
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case lexer.KeywordToken:
		switch {
		case tok.IsKeyword(lexer.KwThis):
			if _, err := p.cursor.Advance(); err != nil {
				return nil, err
			}
			return &ast.This{Base: tokenBase(tok)}, nil
		case tok.IsKeyword(lexer.KwFunction):
			return p.parseFunctionExpression()
		case tok.IsKeyword(lexer.KwAsync):
			next, err := p.peekSecond()
			if err != nil {
				return nil, err
			}
			if next.IsKeyword(lexer.KwFunction) {
				return p.parseAsyncFunctionExpression()
			}
		}
		return p.parseIdentifierExpression()
	case lexer.IdentifierName:
		return p.parseIdentifierExpression()
	case lexer.StringLiteral, lexer.NumericLiteral, lexer.BooleanLiteral, lexer.NullLiteral:
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		return literalFromToken(tok), nil
	case lexer.RegularExpressionLiteral:
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		return &ast.RegExpLiteral{Base: tokenBase(tok), Pattern: tok.Sym, Flags: tok.Flags}, nil
	case lexer.PunctuatorToken:
		switch tok.Punct {
		case lexer.PunctOpenBracket:
			return p.parseArrayLiteral()
		case lexer.PunctOpenBlock:
			return p.parseObjectLiteral()
		case lexer.PunctOpenParen:
			return p.parseParenthesized()
		}
	}
	return nil, p.unexpected(tok, "primary expression")
}

func (p *Parser) parseIdentifierExpression() (ast.Expression, error) {
	id, err := p.parseIdentifierReference()
	if err != nil {
		return nil, err
	}
	return id, nil
}

// literalFromToken converts a literal token into a Literal node.
func literalFromToken(tok lexer.Token) *ast.Literal {
	lit := &ast.Literal{Base: tokenBase(tok)}
	switch tok.Type {
	case lexer.StringLiteral:
		lit.Kind, lit.Str = ast.LitString, tok.Sym
	case lexer.BooleanLiteral:
		lit.Kind, lit.Bool = ast.LitBool, tok.Bool
	case lexer.NullLiteral:
		lit.Kind = ast.LitNull
	case lexer.NumericLiteral:
		switch tok.Numeric.Kind {
		case lexer.NumericInteger:
			lit.Kind, lit.Int = ast.LitInt, tok.Numeric.Integer
		case lexer.NumericBigInt:
			lit.Kind, lit.BigInt = ast.LitBigInt, tok.Numeric.BigInt
		default:
			lit.Kind, lit.Num = ast.LitNum, tok.Numeric.Rational
		}
	}
	return lit
}

// parseArrayLiteral parses `[a, , ...b]`.
func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	open, err := p.cursor.Advance()
	if err != nil {
		return nil, err
	}
	arr := &ast.ArrayLiteral{Elements: []ast.Expression{}}
	for {
		tok, err := p.cursor.Peek(0)
		if err != nil {
			return nil, err
		}
		if tok.IsPunct(lexer.PunctCloseBracket) {
			break
		}
		if tok.IsPunct(lexer.PunctComma) {
			if _, err := p.cursor.Advance(); err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, nil)
			continue
		}

		elem, err := p.parseSpreadOrAssignment()
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, elem)

		next, err := p.cursor.Peek(0)
		if err != nil {
			return nil, err
		}
		if next.IsPunct(lexer.PunctCloseBracket) {
			break
		}
		if _, err := p.cursor.ExpectPunct(lexer.PunctComma, "array literal"); err != nil {
			return nil, err
		}
		if _, spread := elem.(*ast.Spread); spread {
			after, err := p.cursor.Peek(0)
			if err != nil {
				return nil, err
			}
			arr.TrailingCommaAfterSpread = after.IsPunct(lexer.PunctCloseBracket)
		}
	}
	if _, err := p.cursor.ExpectPunct(lexer.PunctCloseBracket, "array literal"); err != nil {
		return nil, err
	}
	arr.Base = p.spanFrom(open)
	return arr, nil
}

// parseObjectLiteral parses `{ a, b: c, d = 1, ...e, m() {} }`.
func (p *Parser) parseObjectLiteral() (ast.Expression, error) {
	open, err := p.cursor.Advance()
	if err != nil {
		return nil, err
	}
	obj := &ast.ObjectLiteral{Properties: []ast.PropertyDefinition{}}
	for {
		done, err := p.cursor.NextIfPunct(lexer.PunctCloseBlock)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		prop, err := p.parsePropertyDefinition()
		if err != nil {
			return nil, err
		}
		obj.Properties = append(obj.Properties, prop)

		if done, err = p.cursor.NextIfPunct(lexer.PunctCloseBlock); err != nil {
			return nil, err
		}
		if done {
			break
		}
		if _, err := p.cursor.ExpectPunct(lexer.PunctComma, "object literal"); err != nil {
			return nil, err
		}
	}
	obj.Base = p.spanFrom(open)
	return obj, nil
}

// endsPropertyName reports whether tok, following a word like get or async,
// shows the word is itself the property name.
func endsPropertyName(tok lexer.Token) bool {
	if tok.Type != lexer.PunctuatorToken {
		return false
	}
	switch tok.Punct {
	case lexer.PunctOpenParen, lexer.PunctComma, lexer.PunctColon, lexer.PunctCloseBlock, lexer.PunctAssign:
		return true
	}
	return false
}

// parsePropertyDefinition parses one entry of an object literal.
func (p *Parser) parsePropertyDefinition() (ast.PropertyDefinition, error) {
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if tok.IsPunct(lexer.PunctSpread) {
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.SpreadProperty{Base: p.spanFrom(tok), Arg: arg}, nil
	}

	// Method modifiers: get, set, async and `*`.
	kind, method := ast.MethodPlain, ast.FuncOrdinary
	modified := false
	if tok.IsKeyword(lexer.KwAsync) || (tok.Type == lexer.IdentifierName && !tok.ContainsEscape &&
		(tok.Sym == interner.SymGet || tok.Sym == interner.SymSet)) {
		next, err := p.peekSecond()
		if err != nil {
			return nil, err
		}
		if !endsPropertyName(next) && !(tok.IsKeyword(lexer.KwAsync) && next.Type == lexer.LineTerminator) {
			if _, err := p.cursor.Advance(); err != nil {
				return nil, err
			}
			modified = true
			switch {
			case tok.IsKeyword(lexer.KwAsync):
				method = ast.FuncAsync
			case tok.Sym == interner.SymGet:
				kind = ast.MethodGet
			default:
				kind = ast.MethodSet
			}
		}
	}
	star, err := p.cursor.NextIfPunct(lexer.PunctMul)
	if err != nil {
		return nil, err
	}
	if star {
		if kind != ast.MethodPlain {
			return nil, p.unexpected(tok, "accessor")
		}
		modified = true
		if method == ast.FuncAsync {
			method = ast.FuncAsyncGenerator
		} else {
			method = ast.FuncGenerator
		}
	}

	keyTok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	key, err := p.parsePropertyName()
	if err != nil {
		return nil, err
	}
	next, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if modified || next.IsPunct(lexer.PunctOpenParen) {
		return p.parseMethod(tok, kind, method, key)
	}

	if next.IsPunct(lexer.PunctColon) {
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.PropertyKV{Base: p.spanFrom(tok), Key: key, Value: value}, nil
	}

	if key.Computed != nil || !(isIdentifierToken(keyTok) || keyTok.Type == lexer.KeywordToken) {
		return nil, p.unexpected(next, "object literal")
	}
	ident, err := p.identifierFromToken(keyTok, false)
	if err != nil {
		return nil, err
	}
	if next.IsPunct(lexer.PunctAssign) {
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		init, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		ast.SetAnonymousFunctionName(init, ident)
		return &ast.CoverInitializedName{Base: p.spanFrom(tok), Ident: ident, Init: init}, nil
	}
	return &ast.ShorthandProperty{Base: tokenBase(keyTok), Ident: ident}, nil
}

// parsePropertyName parses a literal or computed property key.
func (p *Parser) parsePropertyName() (*ast.PropertyName, error) {
	tok, err := p.cursor.Advance()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case lexer.StringLiteral:
		return &ast.PropertyName{Base: tokenBase(tok), Name: tok.Sym}, nil
	case lexer.NumericLiteral:
		text := tok.Numeric.String()
		if tok.Numeric.Kind == lexer.NumericBigInt {
			text = tok.Numeric.BigInt.String()
		}
		return &ast.PropertyName{Base: tokenBase(tok), Name: p.interner.InternString(text)}, nil
	case lexer.PunctuatorToken:
		if !tok.IsPunct(lexer.PunctOpenBracket) {
			break
		}
		expr, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		if _, err := p.cursor.ExpectPunct(lexer.PunctCloseBracket, "computed property name"); err != nil {
			return nil, err
		}
		return &ast.PropertyName{Base: p.spanFrom(tok), Computed: expr}, nil
	}
	if name, ok := p.identifierNameSym(tok); ok {
		return &ast.PropertyName{Base: tokenBase(tok), Name: name}, nil
	}
	return nil, p.unexpected(tok, "property name")
}

// parseParenthesized parses `( ... )`. Directly followed by `=>` the
// contents are reinterpreted as arrow function parameters, which may hold a
// rest element, a trailing comma or nothing at all.
func (p *Parser) parseParenthesized() (ast.Expression, error) {
	open, err := p.cursor.Advance()
	if err != nil {
		return nil, err
	}
	var (
		elems    []ast.Expression
		rest     *ast.Spread
		trailing lexer.Token
		hasTrail bool
	)
	for {
		tok, err := p.cursor.Peek(0)
		if err != nil {
			return nil, err
		}
		if tok.IsPunct(lexer.PunctCloseParen) {
			break
		}
		elem, err := p.parseSpreadOrAssignment()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		if s, ok := elem.(*ast.Spread); ok {
			rest = s
			break
		}
		next, err := p.cursor.Peek(0)
		if err != nil {
			return nil, err
		}
		if next.IsPunct(lexer.PunctCloseParen) {
			break
		}
		comma, err := p.cursor.ExpectPunct(lexer.PunctComma, "parenthesized expression")
		if err != nil {
			return nil, err
		}
		trailing, hasTrail = comma, true
		if after, err := p.cursor.Peek(0); err != nil {
			return nil, err
		} else if !after.IsPunct(lexer.PunctCloseParen) {
			hasTrail = false
		}
	}
	closeTok, err := p.cursor.ExpectPunct(lexer.PunctCloseParen, "parenthesized expression")
	if err != nil {
		return nil, err
	}

	arrow, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if arrow.IsPunct(lexer.PunctArrow) {
		p.traceDecision("PrimaryExpression", "arrow parameters")
		list := &ast.FormalParameterList{Base: p.spanFrom(open), Params: []*ast.FormalParameter{}}
		for _, elem := range elems {
			param, ok := ast.FormalParameterFromExpression(elem, p.strictMode())
			if !ok {
				return nil, p.errorAt(elem.Span().Start, "invalid arrow function parameter")
			}
			list.Params = append(list.Params, param)
		}
		return list, nil
	}

	switch {
	case len(elems) == 0:
		return nil, p.unexpected(closeTok, "parenthesized expression")
	case rest != nil:
		return nil, p.errorAt(rest.Span().Start, "unexpected token '...' in parenthesized expression")
	case hasTrail:
		return nil, p.errorAt(trailing.Span.Start, "unexpected trailing comma in parenthesized expression")
	}
	expr := elems[0]
	for _, e := range elems[1:] {
		expr = &ast.Binary{Base: ast.Between(expr, e), Op: ast.OpComma, LHS: expr, RHS: e}
	}
	return &ast.Parenthesized{Base: p.spanFrom(open), Expr: expr}, nil
}
