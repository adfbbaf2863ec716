package ast

import "github.com/nooga/esfront/pkg/interner"

// --- Static Semantics ---

// BoundNames returns the identifiers a target binds, in source order.
// Property accesses bind nothing.
func BoundNames(target AssignTarget) []interner.Sym {
	return appendBoundNames(nil, target)
}

func appendBoundNames(names []interner.Sym, target AssignTarget) []interner.Sym {
	switch t := target.(type) {
	case *Identifier:
		names = append(names, t.Sym)
	case *ObjectPattern:
		for _, p := range t.Properties {
			names = appendBoundNames(names, p.Target)
		}
	case *ArrayPattern:
		for _, e := range t.Elements {
			if e.Target != nil {
				names = appendBoundNames(names, e.Target)
			}
		}
	}
	return names
}

// BoundNames returns every name bound by the parameter list.
func (l *FormalParameterList) BoundNames() []interner.Sym {
	var names []interner.Sym
	for _, p := range l.Params {
		names = appendBoundNames(names, p.Target)
	}
	return names
}

// IsSimple reports whether the list is plain identifiers only, with no
// defaults, rest element or patterns.
func (l *FormalParameterList) IsSimple() bool {
	for _, p := range l.Params {
		if _, ok := p.Target.(*Identifier); !ok || p.Init != nil || p.Rest {
			return false
		}
	}
	return true
}

// HasDuplicates reports whether any name is bound twice.
func (l *FormalParameterList) HasDuplicates() bool {
	seen := make(map[interner.Sym]struct{})
	for _, name := range l.BoundNames() {
		if _, dup := seen[name]; dup {
			return true
		}
		seen[name] = struct{}{}
	}
	return false
}

// HasExpressions reports whether any parameter carries a default value.
func (l *FormalParameterList) HasExpressions() bool {
	for _, p := range l.Params {
		if p.Init != nil {
			return true
		}
	}
	return false
}

// LexicallyDeclaredNames returns the let and const names declared directly in
// a function or script body. Function declarations at that level are
// var-scoped and not included.
func LexicallyDeclaredNames(stmts []Statement) []interner.Sym {
	var names []interner.Sym
	for _, s := range stmts {
		decl, ok := s.(*VariableDeclaration)
		if !ok || decl.Kind == DeclVar {
			continue
		}
		for _, d := range decl.Declarations {
			names = appendBoundNames(names, d.Target)
		}
	}
	return names
}

// VarDeclaredNames returns the names declared by var statements and function
// declarations directly in stmts, and by var statements nested in blocks and
// if statements.
func VarDeclaredNames(stmts []Statement) []interner.Sym {
	var names []interner.Sym
	var walk func(s Statement, top bool)
	walk = func(s Statement, top bool) {
		switch s := s.(type) {
		case *VariableDeclaration:
			if s.Kind == DeclVar {
				for _, d := range s.Declarations {
					names = appendBoundNames(names, d.Target)
				}
			}
		case *FunctionDeclaration:
			if top {
				names = append(names, s.Function.Name.Sym)
			}
		case *Block:
			for _, inner := range s.Statements {
				walk(inner, false)
			}
		case *If:
			walk(s.Then, false)
			if s.Else != nil {
				walk(s.Else, false)
			}
		}
	}
	for _, s := range stmts {
		walk(s, true)
	}
	return names
}

// ContainsSymbol selects what Contains looks for.
type ContainsSymbol uint8

const (
	ContainsYield ContainsSymbol = iota
	ContainsAwait
	ContainsSuperProperty
	ContainsSuperCall
	ContainsSuper // either form of super
	ContainsNewTarget
	ContainsThis
)

// passesArrow reports whether the symbol is looked for inside arrow functions,
// which share super, new.target and this with their enclosing function.
func (s ContainsSymbol) passesArrow() bool {
	switch s {
	case ContainsSuperProperty, ContainsSuperCall, ContainsSuper, ContainsNewTarget, ContainsThis:
		return true
	}
	return false
}

// Contains reports whether node syntactically contains symbol. Ordinary
// functions and methods are opaque except for computed method keys; arrow
// functions are searched only for symbols they share with their parent.
func Contains(node Node, symbol ContainsSymbol) bool {
	return Find(node, symbol) != nil
}

// Find returns the first node under node matching symbol, following the
// same rules as Contains, or nil.
func Find(node Node, symbol ContainsSymbol) Node {
	var found Node
	Inspect(node, func(n Node) bool {
		if found != nil || n == nil {
			return false
		}
		match := false
		switch n := n.(type) {
		case *Yield:
			match = symbol == ContainsYield
		case *Await:
			match = symbol == ContainsAwait
		case *SuperPropertyAccess:
			match = symbol == ContainsSuperProperty || symbol == ContainsSuper
		case *SuperCall:
			match = symbol == ContainsSuperCall || symbol == ContainsSuper
		case *NewTarget:
			match = symbol == ContainsNewTarget
		case *This:
			match = symbol == ContainsThis
		case *FunctionExpression:
			return n == node
		case *MethodDefinition:
			if n.Key.Computed != nil {
				found = Find(n.Key.Computed, symbol)
			}
			return false
		case *ArrowFunction:
			return n == node || symbol.passesArrow()
		}
		if match {
			found = n
		}
		return found == nil
	})
	return found
}

// IsAnonymousFunctionDefinition reports whether expr is a function or arrow
// function without a name, looking through parentheses.
func IsAnonymousFunctionDefinition(expr Expression) bool {
	switch e := expr.(type) {
	case *Parenthesized:
		return IsAnonymousFunctionDefinition(e.Expr)
	case *FunctionExpression:
		return e.Name == nil
	case *ArrowFunction:
		return e.Name == nil
	}
	return false
}

// SetAnonymousFunctionName names an anonymous function definition after the
// identifier it is assigned to. Named functions are left alone.
func SetAnonymousFunctionName(expr Expression, name *Identifier) {
	switch e := expr.(type) {
	case *Parenthesized:
		SetAnonymousFunctionName(e.Expr, name)
	case *FunctionExpression:
		if e.Name == nil {
			e.Name = name
		}
	case *ArrowFunction:
		if e.Name == nil {
			e.Name = name
		}
	}
}
