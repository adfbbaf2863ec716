package parser

import (
	"github.com/nooga/esfront/pkg/ast"
	"github.com/nooga/esfront/pkg/interner"
	"github.com/nooga/esfront/pkg/lexer"
)

// useStrictLength is the length of `"use strict"` or `'use strict'` written
// without escapes or line continuations.
const useStrictLength = len("use strict") + 2

// parseBody parses a statement list up to `}` (when braced) or the end of
// input, starting with the directive prologue. A "use strict" directive
// switches the rest of the body to strict mode.
func (p *Parser) parseBody(braced bool) (*ast.FunctionBody, error) {
	p.trace("FunctionBody")
	body := &ast.FunctionBody{Statements: []ast.Statement{}}
	prologue := true
	var directives []lexer.Token

	for {
		p.cursor.SetGoal(lexer.GoalRegExp)
		tok, err := p.cursor.Peek(0)
		if err != nil {
			return nil, err
		}
		if tok.Type == lexer.EOF {
			if braced {
				return nil, p.unexpected(tok, "function body")
			}
			break
		}
		if braced && tok.IsPunct(lexer.PunctCloseBlock) {
			break
		}

		stmt, err := p.parseStatementListItem()
		if err != nil {
			return nil, err
		}
		body.Statements = append(body.Statements, stmt)

		if !prologue {
			continue
		}
		if !isDirective(stmt, tok) {
			prologue = false
			continue
		}
		directives = append(directives, tok)
		if tok.Sym == interner.SymUseStrict && tok.LinearSpan.Len() == useStrictLength && !body.Strict {
			body.Strict = true
			if !p.strictMode() {
				defer p.cursor.SetStrict(true)()
				if err := p.cursor.CheckStrictBuffered(); err != nil {
					return nil, err
				}
			}
			p.traceDecision("FunctionBody", "use strict")
		}
	}

	if body.Strict {
		for _, d := range directives {
			if d.Escapes.Has(lexer.EscapeLegacyOctal) {
				return nil, p.errorAt(d.Span.Start, "octal escape sequences are not allowed in strict mode")
			}
			if d.Escapes.Has(lexer.EscapeNonOctalDecimal) {
				return nil, p.errorAt(d.Span.Start, "\\8 and \\9 are not allowed in strict mode")
			}
		}
	}
	if err := p.checkStatementList(body.Statements); err != nil {
		return nil, err
	}
	return body, nil
}

// isDirective reports whether stmt is an expression statement made of the
// string literal tok alone.
func isDirective(stmt ast.Statement, tok lexer.Token) bool {
	if tok.Type != lexer.StringLiteral {
		return false
	}
	es, ok := stmt.(*ast.ExpressionStatement)
	if !ok {
		return false
	}
	lit, ok := es.Expr.(*ast.Literal)
	return ok && lit.Kind == ast.LitString && lit.Span() == tok.Span
}

// checkStatementList rejects let and const names declared twice, or also
// declared with var, in one statement list.
func (p *Parser) checkStatementList(stmts []ast.Statement) error {
	varNames := make(map[interner.Sym]struct{})
	for _, name := range ast.VarDeclaredNames(stmts) {
		varNames[name] = struct{}{}
	}
	lexical := make(map[interner.Sym]struct{})
	for _, stmt := range stmts {
		decl, ok := stmt.(*ast.VariableDeclaration)
		if !ok || decl.Kind == ast.DeclVar {
			continue
		}
		for _, d := range decl.Declarations {
			for _, name := range ast.BoundNames(d.Target) {
				if _, dup := lexical[name]; dup {
					return p.errorAt(d.Span().Start, "lexical name '%s' declared multiple times", p.name(name))
				}
				if _, clash := varNames[name]; clash {
					return p.errorAt(d.Span().Start, "lexical name '%s' declared in var names", p.name(name))
				}
				lexical[name] = struct{}{}
			}
		}
	}
	return nil
}

// parseStatementListItem parses a declaration or a statement.
func (p *Parser) parseStatementListItem() (ast.Statement, error) {
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	switch {
	case tok.IsKeyword(lexer.KwFunction):
		return p.parseFunctionDeclaration()
	case tok.IsKeyword(lexer.KwAsync):
		next, err := p.peekSecond()
		if err != nil {
			return nil, err
		}
		if next.IsKeyword(lexer.KwFunction) {
			return p.parseFunctionDeclaration()
		}
	case tok.IsKeyword(lexer.KwConst):
		return p.parseVariableStatement(ast.DeclConst)
	case tok.IsKeyword(lexer.KwLet):
		next, err := p.cursor.Peek(1)
		if err != nil {
			return nil, err
		}
		if isIdentifierToken(next) || next.IsPunct(lexer.PunctOpenBracket) || next.IsPunct(lexer.PunctOpenBlock) {
			return p.parseVariableStatement(ast.DeclLet)
		}
	}
	return p.parseStatement()
}

// parseStatement parses a Statement.
func (p *Parser) parseStatement() (ast.Statement, error) {
	p.trace("Statement")
	p.cursor.SetGoal(lexer.GoalRegExp)
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	switch {
	case tok.IsPunct(lexer.PunctOpenBlock):
		return p.parseBlock()
	case tok.IsPunct(lexer.PunctSemicolon):
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		return &ast.Empty{Base: tokenBase(tok)}, nil
	case tok.IsKeyword(lexer.KwVar):
		return p.parseVariableStatement(ast.DeclVar)
	case tok.IsKeyword(lexer.KwIf):
		return p.parseIf()
	case tok.IsKeyword(lexer.KwReturn):
		return p.parseReturn()
	}
	if tok.Type == lexer.KeywordToken && !tok.ContainsEscape {
		switch tok.Keyword {
		case lexer.KwFunction, lexer.KwClass, lexer.KwConst, lexer.KwBreak, lexer.KwCase,
			lexer.KwCatch, lexer.KwContinue, lexer.KwDebugger, lexer.KwDefault, lexer.KwDo,
			lexer.KwElse, lexer.KwEnum, lexer.KwExport, lexer.KwExtends, lexer.KwFinally,
			lexer.KwFor, lexer.KwImport, lexer.KwSwitch, lexer.KwThrow, lexer.KwTry,
			lexer.KwWhile, lexer.KwWith:
			return nil, p.unexpected(tok, "statement")
		case lexer.KwLet:
			next, err := p.cursor.Peek(1)
			if err != nil {
				return nil, err
			}
			if next.IsPunct(lexer.PunctOpenBracket) {
				return nil, p.errorAt(tok.Span.Start, "lexical declaration cannot appear in a single-statement context")
			}
		}
	}
	return p.parseExpressionStatement()
}

// parseExpressionStatement parses an expression followed by `;` or an
// inserted semicolon.
func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if tok.IsKeyword(lexer.KwAsync) {
		next, err := p.peekSecond()
		if err != nil {
			return nil, err
		}
		if next.IsKeyword(lexer.KwFunction) {
			return nil, p.errorAt(tok.Span.Start, "async functions can only be declared at the top level or inside a block")
		}
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeSemicolon("expression statement"); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Base: p.spanFrom(tok), Expr: expr}, nil
}

// consumeSemicolon accepts `;`, or inserts one before `}`, the end of input
// or a line break.
func (p *Parser) consumeSemicolon(context string) error {
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return err
	}
	switch {
	case tok.IsPunct(lexer.PunctSemicolon):
		_, err := p.cursor.Advance()
		return err
	case tok.IsPunct(lexer.PunctCloseBlock), tok.Type == lexer.EOF:
		return nil
	}
	lt, err := p.cursor.PeekIsLineTerminator(0)
	if err != nil {
		return err
	}
	if lt {
		return nil
	}
	return p.unexpected(tok, context)
}

// parseBlock parses `{ statements }`.
func (p *Parser) parseBlock() (ast.Statement, error) {
	open, err := p.cursor.Advance()
	if err != nil {
		return nil, err
	}
	block := &ast.Block{Statements: []ast.Statement{}}
	for {
		p.cursor.SetGoal(lexer.GoalRegExp)
		tok, err := p.cursor.Peek(0)
		if err != nil {
			return nil, err
		}
		if tok.IsPunct(lexer.PunctCloseBlock) {
			break
		}
		if tok.Type == lexer.EOF {
			return nil, p.unexpected(tok, "block")
		}
		stmt, err := p.parseStatementListItem()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	if _, err := p.cursor.ExpectPunct(lexer.PunctCloseBlock, "block"); err != nil {
		return nil, err
	}
	if err := p.checkStatementList(block.Statements); err != nil {
		return nil, err
	}
	block.Base = p.spanFrom(open)
	return block, nil
}

// parseVariableStatement parses a var, let or const declaration list and
// its terminating semicolon.
func (p *Parser) parseVariableStatement(kind ast.DeclKind) (ast.Statement, error) {
	p.trace("VariableDeclaration")
	kw, err := p.cursor.Advance()
	if err != nil {
		return nil, err
	}
	decl := &ast.VariableDeclaration{Kind: kind}
	for {
		tok, err := p.cursor.Peek(0)
		if err != nil {
			return nil, err
		}
		target, err := p.parseBindingTarget()
		if err != nil {
			return nil, err
		}
		if kind != ast.DeclVar {
			for _, name := range ast.BoundNames(target) {
				if name == interner.SymLet {
					return nil, p.errorAt(tok.Span.Start, "let is disallowed as a lexically bound name")
				}
			}
		}
		init, err := p.parseInitializer()
		if err != nil {
			return nil, err
		}
		_, isIdent := target.(*ast.Identifier)
		switch {
		case init != nil && isIdent:
			ast.SetAnonymousFunctionName(init, target.(*ast.Identifier))
		case init == nil && !isIdent:
			return nil, p.errorAt(tok.Span.Start, "Missing initializer in destructuring declaration")
		case init == nil && kind == ast.DeclConst:
			return nil, p.errorAt(tok.Span.Start, "Missing initializer in const declaration")
		}
		decl.Declarations = append(decl.Declarations, &ast.VariableDeclarator{
			Base:   p.spanFrom(tok),
			Target: target,
			Init:   init,
		})

		more, err := p.cursor.NextIfPunct(lexer.PunctComma)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	if err := p.consumeSemicolon(kind.String() + " declaration"); err != nil {
		return nil, err
	}
	decl.Base = p.spanFrom(kw)
	return decl, nil
}

// parseIf parses `if (cond) stmt [else stmt]`.
func (p *Parser) parseIf() (ast.Statement, error) {
	ifTok, err := p.cursor.Advance()
	if err != nil {
		return nil, err
	}
	if _, err := p.cursor.ExpectPunct(lexer.PunctOpenParen, "if statement"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.cursor.ExpectPunct(lexer.PunctCloseParen, "if statement"); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{Cond: cond, Then: then}

	p.cursor.SetGoal(lexer.GoalRegExp)
	next, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if next.IsKeyword(lexer.KwElse) {
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		if stmt.Else, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	stmt.Base = p.spanFrom(ifTok)
	return stmt, nil
}

// parseReturn parses `return [value]`, allowed only inside functions.
func (p *Parser) parseReturn() (ast.Statement, error) {
	retTok, err := p.cursor.Advance()
	if err != nil {
		return nil, err
	}
	if !p.inFunction && !p.cursor.Arrow() {
		return nil, p.errorAt(retTok.Span.Start, "illegal return statement")
	}
	p.cursor.SetGoal(lexer.GoalRegExp)
	next, err := p.cursor.PeekNoSkipLineTerm(0)
	if err != nil {
		return nil, err
	}
	ret := &ast.Return{}
	switch {
	case next.Type == lexer.LineTerminator, next.Type == lexer.EOF,
		next.IsPunct(lexer.PunctSemicolon), next.IsPunct(lexer.PunctCloseBlock):
	default:
		if ret.Arg, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if err := p.consumeSemicolon("return statement"); err != nil {
		return nil, err
	}
	ret.Base = p.spanFrom(retTok)
	return ret, nil
}
