package ast

import "github.com/nooga/esfront/pkg/interner"

// --- Cover Grammar Conversions ---

// AssignTargetFromExpression reinterprets expr as the target of a plain `=`
// assignment. Object and array literals become destructuring patterns. ok is
// false when expr cannot be assigned to.
func AssignTargetFromExpression(expr Expression, strict bool) (target AssignTarget, ok bool) {
	return cover{strict: strict}.target(expr)
}

// SimpleAssignTarget accepts only identifiers and property accesses, possibly
// parenthesized: the targets of compound assignment and update operators.
func SimpleAssignTarget(expr Expression, strict bool) (AssignTarget, bool) {
	return cover{strict: strict}.simple(expr)
}

// cover converts expressions into assignment or binding targets. In binding
// mode a parenthesized expression is never a valid target.
type cover struct {
	strict  bool
	binding bool
}

func (c cover) target(expr Expression) (AssignTarget, bool) {
	switch e := expr.(type) {
	case *ObjectLiteral:
		return c.objectPattern(e)
	case *ArrayLiteral:
		return c.arrayPattern(e)
	}
	return c.simple(expr)
}

func (c cover) simple(expr Expression) (AssignTarget, bool) {
	switch e := expr.(type) {
	case *Identifier:
		if c.strict && IsEvalOrArguments(e.Sym) {
			return nil, false
		}
		return e, true
	case *PropertyAccess:
		return e, true
	case *SuperPropertyAccess:
		return e, true
	case *Parenthesized:
		if c.binding {
			return nil, false
		}
		return c.simple(e.Expr)
	}
	return nil, false
}

// IsEvalOrArguments reports whether sym names `eval` or `arguments`.
func IsEvalOrArguments(sym interner.Sym) bool {
	return sym == interner.SymEval || sym == interner.SymArguments
}

// element splits `target = init` inside a literal being converted.
func (c cover) element(expr Expression) (AssignTarget, Expression, bool) {
	if a, ok := expr.(*Assign); ok && a.Op == AssignPlain {
		t, ok := c.assignTarget(a)
		return t, a.Value, ok
	}
	t, ok := c.target(expr)
	return t, nil, ok
}

// assignTarget returns the target of a plain assignment, converting it again
// from its written form in binding mode.
func (c cover) assignTarget(a *Assign) (AssignTarget, bool) {
	if !c.binding || a.Cover == nil {
		return a.Target, true
	}
	return c.target(a.Cover)
}

func (c cover) objectPattern(obj *ObjectLiteral) (*ObjectPattern, bool) {
	pat := &ObjectPattern{Base: obj.Base}
	for i, prop := range obj.Properties {
		var pp *PatternProperty
		switch p := prop.(type) {
		case *PropertyKV:
			target, init, ok := c.element(p.Value)
			if !ok {
				return nil, false
			}
			pp = &PatternProperty{Base: p.Base, Key: p.Key, Target: target, Init: init}
		case *ShorthandProperty:
			if c.strict && IsEvalOrArguments(p.Ident.Sym) {
				return nil, false
			}
			pp = &PatternProperty{Base: p.Base, Key: keyFor(p.Ident), Target: p.Ident}
		case *CoverInitializedName:
			if c.strict && IsEvalOrArguments(p.Ident.Sym) {
				return nil, false
			}
			pp = &PatternProperty{Base: p.Base, Key: keyFor(p.Ident), Target: p.Ident, Init: p.Init}
		case *SpreadProperty:
			if i != len(obj.Properties)-1 {
				return nil, false
			}
			target, ok := c.simple(p.Arg)
			if !ok {
				return nil, false
			}
			pp = &PatternProperty{Base: p.Base, Target: target, Rest: true}
		default:
			return nil, false
		}
		pat.Properties = append(pat.Properties, pp)
	}
	return pat, true
}

func keyFor(id *Identifier) *PropertyName {
	return &PropertyName{Base: id.Base, Name: id.Sym}
}

func (c cover) arrayPattern(arr *ArrayLiteral) (*ArrayPattern, bool) {
	pat := &ArrayPattern{Base: arr.Base}
	for i, elem := range arr.Elements {
		if elem == nil {
			pat.Elements = append(pat.Elements, &PatternElement{})
			continue
		}
		if spread, ok := elem.(*Spread); ok {
			if i != len(arr.Elements)-1 || arr.TrailingCommaAfterSpread {
				return nil, false
			}
			target, ok := c.target(spread.Arg)
			if !ok {
				return nil, false
			}
			pat.Elements = append(pat.Elements, &PatternElement{Base: spread.Base, Target: target, Rest: true})
			continue
		}
		target, init, ok := c.element(elem)
		if !ok {
			return nil, false
		}
		pat.Elements = append(pat.Elements, &PatternElement{Base: nodeBase(elem), Target: target, Init: init})
	}
	return pat, true
}

func nodeBase(n Node) Base {
	return Base{Loc: n.Span(), Linear: n.LinearSpan()}
}

// IsBindingTarget reports whether every leaf of t is an identifier, which is
// what parameter lists and declarations require.
func IsBindingTarget(t AssignTarget) bool {
	switch t := t.(type) {
	case *Identifier:
		return true
	case *ObjectPattern:
		for _, p := range t.Properties {
			if p.Rest {
				if _, ok := p.Target.(*Identifier); !ok {
					return false
				}
				continue
			}
			if !IsBindingTarget(p.Target) {
				return false
			}
		}
		return true
	case *ArrayPattern:
		for _, e := range t.Elements {
			if e.Target != nil && !IsBindingTarget(e.Target) {
				return false
			}
		}
		return true
	}
	return false
}

// FormalParameterFromExpression reinterprets one element of a parenthesized
// cover list as an arrow function parameter. Parenthesized expressions are
// rejected at any depth, including in the written target of a default.
func FormalParameterFromExpression(expr Expression, strict bool) (*FormalParameter, bool) {
	c := cover{strict: strict, binding: true}
	param := &FormalParameter{Base: nodeBase(expr)}
	if spread, ok := expr.(*Spread); ok {
		param.Rest = true
		expr = spread.Arg
	}

	var ok bool
	switch e := expr.(type) {
	case *Identifier:
		param.Target, ok = e, true
	case *ObjectLiteral, *ArrayLiteral:
		param.Target, ok = c.target(e)
	case *Assign:
		if e.Op != AssignPlain || param.Rest {
			return nil, false
		}
		param.Init = e.Value
		param.Target, ok = c.assignTarget(e)
	}
	if !ok || !IsBindingTarget(param.Target) {
		return nil, false
	}
	return param, true
}
