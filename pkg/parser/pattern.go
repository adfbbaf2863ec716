package parser

import (
	"github.com/nooga/esfront/pkg/ast"
	"github.com/nooga/esfront/pkg/lexer"
)

// parseBindingTarget parses a BindingIdentifier or a binding pattern.
func (p *Parser) parseBindingTarget() (ast.AssignTarget, error) {
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	switch {
	case tok.IsPunct(lexer.PunctOpenBlock):
		return p.parseObjectBindingPattern()
	case tok.IsPunct(lexer.PunctOpenBracket):
		return p.parseArrayBindingPattern()
	}
	id, err := p.parseBindingIdentifier()
	if err != nil {
		return nil, err
	}
	return id, nil
}

// parseObjectBindingPattern parses `{ a, b: [c], d = 1, ...rest }`.
func (p *Parser) parseObjectBindingPattern() (ast.AssignTarget, error) {
	p.trace("ObjectBindingPattern")
	open, err := p.cursor.Advance()
	if err != nil {
		return nil, err
	}
	pat := &ast.ObjectPattern{Properties: []*ast.PatternProperty{}}
	for {
		done, err := p.cursor.NextIfPunct(lexer.PunctCloseBlock)
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

		if tok.IsPunct(lexer.PunctSpread) {
			if _, err := p.cursor.Advance(); err != nil {
				return nil, err
			}
			id, err := p.parseBindingIdentifier()
			if err != nil {
				return nil, err
			}
			pat.Properties = append(pat.Properties, &ast.PatternProperty{Base: p.spanFrom(tok), Target: id, Rest: true})
			if _, err := p.cursor.ExpectPunct(lexer.PunctCloseBlock, "object binding pattern"); err != nil {
				return nil, err
			}
			break
		}

		key, err := p.parsePropertyName()
		if err != nil {
			return nil, err
		}
		prop := &ast.PatternProperty{Key: key}
		colon, err := p.cursor.NextIfPunct(lexer.PunctColon)
		if err != nil {
			return nil, err
		}
		if colon {
			if prop.Target, err = p.parseBindingTarget(); err != nil {
				return nil, err
			}
		} else {
			if key.Computed != nil || !isIdentifierToken(tok) {
				return nil, p.unexpected(tok, "object binding pattern")
			}
			id, err := p.identifierFromToken(tok, true)
			if err != nil {
				return nil, err
			}
			prop.Target = id
		}
		if prop.Init, err = p.parseInitializer(); err != nil {
			return nil, err
		}
		if id, ok := prop.Target.(*ast.Identifier); ok && prop.Init != nil {
			ast.SetAnonymousFunctionName(prop.Init, id)
		}
		prop.Base = p.spanFrom(tok)
		pat.Properties = append(pat.Properties, prop)

		if done, err = p.cursor.NextIfPunct(lexer.PunctCloseBlock); err != nil {
			return nil, err
		}
		if done {
			break
		}
		if _, err := p.cursor.ExpectPunct(lexer.PunctComma, "object binding pattern"); err != nil {
			return nil, err
		}
	}
	pat.Base = p.spanFrom(open)
	return pat, nil
}

// parseArrayBindingPattern parses `[a, , [b] = c, ...rest]`.
func (p *Parser) parseArrayBindingPattern() (ast.AssignTarget, error) {
	p.trace("ArrayBindingPattern")
	open, err := p.cursor.Advance()
	if err != nil {
		return nil, err
	}
	pat := &ast.ArrayPattern{Elements: []*ast.PatternElement{}}
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
			pat.Elements = append(pat.Elements, &ast.PatternElement{Base: tokenBase(tok)})
			continue
		}

		rest, err := p.cursor.NextIfPunct(lexer.PunctSpread)
		if err != nil {
			return nil, err
		}
		elem := &ast.PatternElement{Rest: rest}
		if elem.Target, err = p.parseBindingTarget(); err != nil {
			return nil, err
		}
		if !rest {
			if elem.Init, err = p.parseInitializer(); err != nil {
				return nil, err
			}
			if id, ok := elem.Target.(*ast.Identifier); ok && elem.Init != nil {
				ast.SetAnonymousFunctionName(elem.Init, id)
			}
		}
		elem.Base = p.spanFrom(tok)
		pat.Elements = append(pat.Elements, elem)

		if rest {
			break
		}
		next, err := p.cursor.Peek(0)
		if err != nil {
			return nil, err
		}
		if next.IsPunct(lexer.PunctCloseBracket) {
			break
		}
		if _, err := p.cursor.ExpectPunct(lexer.PunctComma, "array binding pattern"); err != nil {
			return nil, err
		}
	}
	if _, err := p.cursor.ExpectPunct(lexer.PunctCloseBracket, "array binding pattern"); err != nil {
		return nil, err
	}
	pat.Base = p.spanFrom(open)
	return pat, nil
}
