package parser

import (
	"fmt"

	"github.com/nooga/esfront/pkg/ast"
	"github.com/nooga/esfront/pkg/errors"
	"github.com/nooga/esfront/pkg/interner"
	"github.com/nooga/esfront/pkg/lexer"
)

// parseFunctionExpression parses `function [*] [name] (params) { body }`.
func (p *Parser) parseFunctionExpression() (ast.Expression, error) {
	p.trace("FunctionExpression")
	start, err := p.cursor.ExpectKeyword(lexer.KwFunction, "function expression")
	if err != nil {
		return nil, err
	}
	kind := ast.FuncOrdinary
	star, err := p.cursor.NextIfPunct(lexer.PunctMul)
	if err != nil {
		return nil, err
	}
	if star {
		kind = ast.FuncGenerator
	}
	name, err := p.parseFunctionName(kind, false)
	if err != nil {
		return nil, err
	}
	fn, err := p.parseFunctionRest(start, kind, name, false)
	if err != nil {
		return nil, err
	}
	return fn, nil
}

// parseFunctionName parses the optional name of a function expression, or
// the required name of a declaration. An expression's name follows the
// function's own yield and await rules; a declaration's follows the
// enclosing ones.
func (p *Parser) parseFunctionName(kind ast.FunctionKind, declaration bool) (*ast.Identifier, error) {
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if !declaration {
		if tok.IsPunct(lexer.PunctOpenParen) {
			return nil, nil
		}
		defer p.withContext(kind.IsGenerator(), kind.IsAsync())()
	}
	return p.parseBindingIdentifier()
}

// parseFunctionDeclaration parses `[async] function [*] name (params) { body }`
// in statement position.
func (p *Parser) parseFunctionDeclaration() (ast.Statement, error) {
	p.trace("FunctionDeclaration")
	start, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	kind := ast.FuncOrdinary
	if start.IsKeyword(lexer.KwAsync) {
		if _, err := p.cursor.Advance(); err != nil {
			return nil, err
		}
		if _, err := p.cursor.PeekExpectNoLineTerminator(0, "async function declaration"); err != nil {
			return nil, err
		}
		kind = ast.FuncAsync
	}
	if _, err := p.cursor.ExpectKeyword(lexer.KwFunction, "function declaration"); err != nil {
		return nil, err
	}
	star, err := p.cursor.NextIfPunct(lexer.PunctMul)
	if err != nil {
		return nil, err
	}
	if star {
		if kind == ast.FuncAsync {
			kind = ast.FuncAsyncGenerator
		} else {
			kind = ast.FuncGenerator
		}
	}
	name, err := p.parseFunctionName(kind, true)
	if err != nil {
		return nil, err
	}
	fn, err := p.parseFunctionRest(start, kind, name, false)
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDeclaration{Base: fn.Base, Function: fn}, nil
}

// parseMethod parses the parameters and body of an object literal method
// whose modifiers and key have been read.
func (p *Parser) parseMethod(start lexer.Token, kind ast.MethodKind, fnKind ast.FunctionKind, key *ast.PropertyName) (ast.PropertyDefinition, error) {
	fn, err := p.parseFunctionRest(start, fnKind, nil, true)
	if err != nil {
		return nil, err
	}
	n := len(fn.Params.Params)
	switch {
	case kind == ast.MethodGet && n != 0:
		return nil, p.errorAt(fn.Params.Span().Start, "getter must not have any formal parameters")
	case kind == ast.MethodSet && (n != 1 || fn.Params.Params[0].Rest):
		return nil, p.errorAt(fn.Params.Span().Start, "setter must have exactly one formal parameter")
	}
	return &ast.MethodDefinition{Base: fn.Base, Kind: kind, Key: key, Function: fn}, nil
}

// parseFunctionRest parses `(params) { body }` for any kind of function and
// applies the early errors shared by all of them.
func (p *Parser) parseFunctionRest(start lexer.Token, kind ast.FunctionKind, name *ast.Identifier, method bool) (*ast.FunctionExpression, error) {
	restore := p.enterFunction(kind)
	defer restore()

	open, err := p.cursor.ExpectPunct(lexer.PunctOpenParen, "function parameters")
	if err != nil {
		return nil, err
	}
	paramsStart := open.Span.End
	params, err := p.parseFormalParameters(open)
	if err != nil {
		return nil, err
	}
	body, err := p.parseFunctionBody()
	if err != nil {
		return nil, err
	}

	fn := &ast.FunctionExpression{
		Base:                 p.spanFrom(start),
		Kind:                 kind,
		Name:                 name,
		HasBindingIdentifier: name != nil,
		Params:               params,
		Body:                 body,
	}
	if err := p.checkFunction(fn, paramsStart, method); err != nil {
		return nil, err
	}
	return fn, nil
}

// parseFunctionBody parses `{ statements }`.
func (p *Parser) parseFunctionBody() (*ast.FunctionBody, error) {
	open, err := p.cursor.ExpectPunct(lexer.PunctOpenBlock, "function body")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody(true)
	if err != nil {
		return nil, err
	}
	if _, err := p.cursor.ExpectPunct(lexer.PunctCloseBlock, "function body"); err != nil {
		return nil, err
	}
	body.Base = p.spanFrom(open)
	return body, nil
}

// parseFormalParameters parses the parameter list after its `(` up to and
// including the closing `)`.
func (p *Parser) parseFormalParameters(open lexer.Token) (*ast.FormalParameterList, error) {
	list := &ast.FormalParameterList{Params: []*ast.FormalParameter{}}
	for {
		done, err := p.cursor.NextIfPunct(lexer.PunctCloseParen)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		tok, err := p.cursor.Peek(0)
		if err != nil {
			return nil, err
		}
		rest, err := p.cursor.NextIfPunct(lexer.PunctSpread)
		if err != nil {
			return nil, err
		}
		target, err := p.parseBindingTarget()
		if err != nil {
			return nil, err
		}
		param := &ast.FormalParameter{Target: target, Rest: rest}
		if !rest {
			if param.Init, err = p.parseInitializer(); err != nil {
				return nil, err
			}
			if id, ok := target.(*ast.Identifier); ok && param.Init != nil {
				ast.SetAnonymousFunctionName(param.Init, id)
			}
		}
		param.Base = p.spanFrom(tok)
		list.Params = append(list.Params, param)

		if rest {
			if _, err := p.cursor.ExpectPunct(lexer.PunctCloseParen, "formal parameters"); err != nil {
				return nil, err
			}
			break
		}
		if done, err = p.cursor.NextIfPunct(lexer.PunctCloseParen); err != nil {
			return nil, err
		}
		if done {
			break
		}
		if _, err := p.cursor.ExpectPunct(lexer.PunctComma, "formal parameters"); err != nil {
			return nil, err
		}
	}
	list.Base = p.spanFrom(open)
	return list, nil
}

// parseInitializer parses an optional `= value`.
func (p *Parser) parseInitializer() (ast.Expression, error) {
	eq, err := p.cursor.NextIfPunct(lexer.PunctAssign)
	if err != nil || !eq {
		return nil, err
	}
	return p.parseAssignment()
}

// checkFunction applies the early errors of a function, in a fixed order,
// once its body is known. Errors about the parameters are reported at the
// position just after the opening parenthesis.
func (p *Parser) checkFunction(fn *ast.FunctionExpression, paramsStart lexer.Position, method bool) error {
	strict := p.strictMode() || fn.Body.Strict
	simple := fn.Params.IsSimple()

	if fn.Params.HasDuplicates() && (strict || method || !simple) {
		return p.errorAt(paramsStart, "Duplicate parameter name not allowed in this context")
	}
	if fn.Body.Strict && !simple {
		return p.errorAt(paramsStart, "Illegal 'use strict' directive in function with non-simple parameter list")
	}
	if fn.HasBindingIdentifier && strict && ast.IsEvalOrArguments(fn.Name.Sym) {
		return p.errorAt(fn.Name.Span().Start, "unexpected identifier 'eval' or 'arguments' in strict mode")
	}
	if fn.Body.Strict && containsEvalOrArguments(fn.Params.BoundNames()) {
		return p.errorAt(paramsStart, "unexpected identifier 'eval' or 'arguments' in strict mode")
	}
	if err := p.checkParamsAgainstBody(fn.Params, fn.Body, paramsStart); err != nil {
		return err
	}
	if method {
		if ast.Contains(fn, ast.ContainsSuperCall) {
			return p.errorAt(paramsStart, "invalid super usage")
		}
	} else if ast.Contains(fn, ast.ContainsSuper) {
		return p.errorAt(paramsStart, "invalid super usage")
	}
	if fn.Kind.IsGenerator() && ast.Contains(fn.Params, ast.ContainsYield) {
		return p.errorAt(paramsStart, "Yield expression not allowed in formal parameter")
	}
	if fn.Kind.IsAsync() && ast.Contains(fn.Params, ast.ContainsAwait) {
		return p.errorAt(paramsStart, "Await expression not allowed in formal parameter")
	}
	return nil
}

// checkParamsAgainstBody rejects a parameter name that the body redeclares
// with let or const.
func (p *Parser) checkParamsAgainstBody(params *ast.FormalParameterList, body *ast.FunctionBody, pos lexer.Position) error {
	err := nameInLexicallyDeclaredNames("formal parameter", params.BoundNames(), ast.LexicallyDeclaredNames(body.Statements), pos, p.interner)
	if err != nil {
		err.Source = p.src
		return err
	}
	return nil
}

// NameInLexicallyDeclaredNames fails with a SyntaxError at pos if any of the
// bound names is also lexically declared. The error carries no source.
func NameInLexicallyDeclaredNames(bound, lexical []interner.Sym, pos lexer.Position, in *interner.Interner) error {
	if err := nameInLexicallyDeclaredNames("bound name", bound, lexical, pos, in); err != nil {
		return err
	}
	return nil
}

// nameInLexicallyDeclaredNames names the clashing binding as what in the
// error message.
func nameInLexicallyDeclaredNames(what string, bound, lexical []interner.Sym, pos lexer.Position, in *interner.Interner) *errors.SyntaxError {
	declared := make(map[interner.Sym]struct{}, len(lexical))
	for _, name := range lexical {
		declared[name] = struct{}{}
	}
	for _, name := range bound {
		if _, ok := declared[name]; ok {
			return &errors.SyntaxError{
				Position: pos.ErrorPosition(nil),
				Msg:      fmt.Sprintf("%s '%s' redeclared as lexical declaration", what, in.ResolveString(name)),
			}
		}
	}
	return nil
}

func containsEvalOrArguments(names []interner.Sym) bool {
	for _, name := range names {
		if ast.IsEvalOrArguments(name) {
			return true
		}
	}
	return false
}
