package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/nooga/esfront/pkg/interner"
)

// Inspect traverses the tree rooted at node in depth-first order. It calls
// f(node); if that returns true, Inspect visits each non-nil child and then
// calls f(nil).
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, child := range children(node) {
		Inspect(child, f)
	}
	f(nil)
}

// children lists the direct, non-nil children of n in source order.
func children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	addExpr := func(e Expression) {
		if e != nil {
			out = append(out, e)
		}
	}
	addTarget := func(t AssignTarget) {
		if t != nil {
			out = append(out, t)
		}
	}

	switch n := n.(type) {
	case *Script:
		for _, s := range n.Statements {
			add(s)
		}
	case *ArrayLiteral:
		for _, e := range n.Elements {
			addExpr(e)
		}
	case *ObjectLiteral:
		for _, p := range n.Properties {
			add(p)
		}
	case *PropertyName:
		addExpr(n.Computed)
	case *PropertyKV:
		add(n.Key)
		addExpr(n.Value)
	case *ShorthandProperty:
		add(n.Ident)
	case *CoverInitializedName:
		add(n.Ident)
		addExpr(n.Init)
	case *SpreadProperty:
		addExpr(n.Arg)
	case *MethodDefinition:
		add(n.Key)
		add(n.Function)
	case *Parenthesized:
		addExpr(n.Expr)
	case *Binary:
		addExpr(n.LHS)
		addExpr(n.RHS)
	case *Unary:
		addExpr(n.Target)
	case *Update:
		addExpr(n.Target)
	case *Assign:
		addTarget(n.Target)
		addExpr(n.Value)
	case *Conditional:
		addExpr(n.Cond)
		addExpr(n.Then)
		addExpr(n.Else)
	case *Call:
		addExpr(n.Callee)
		for _, a := range n.Args {
			addExpr(a)
		}
	case *New:
		addExpr(n.Callee)
		for _, a := range n.Args {
			addExpr(a)
		}
	case *PropertyAccess:
		addExpr(n.Target)
		addExpr(n.Computed)
	case *SuperPropertyAccess:
		addExpr(n.Computed)
	case *SuperCall:
		for _, a := range n.Args {
			addExpr(a)
		}
	case *Spread:
		addExpr(n.Arg)
	case *Yield:
		addExpr(n.Arg)
	case *Await:
		addExpr(n.Arg)
	case *FunctionExpression:
		if n.Name != nil && n.HasBindingIdentifier {
			add(n.Name)
		}
		add(n.Params)
		add(n.Body)
	case *ArrowFunction:
		add(n.Params)
		add(n.Body)
	case *FormalParameterList:
		for _, p := range n.Params {
			add(p)
		}
	case *FormalParameter:
		addTarget(n.Target)
		addExpr(n.Init)
	case *FunctionBody:
		for _, s := range n.Statements {
			add(s)
		}
	case *ObjectPattern:
		for _, p := range n.Properties {
			add(p)
		}
	case *PatternProperty:
		if n.Key != nil {
			add(n.Key)
		}
		addTarget(n.Target)
		addExpr(n.Init)
	case *ArrayPattern:
		for _, e := range n.Elements {
			add(e)
		}
	case *PatternElement:
		addTarget(n.Target)
		addExpr(n.Init)
	case *ExpressionStatement:
		addExpr(n.Expr)
	case *Block:
		for _, s := range n.Statements {
			add(s)
		}
	case *VariableDeclaration:
		for _, d := range n.Declarations {
			add(d)
		}
	case *VariableDeclarator:
		addTarget(n.Target)
		addExpr(n.Init)
	case *Return:
		addExpr(n.Arg)
	case *If:
		addExpr(n.Cond)
		add(n.Then)
		if n.Else != nil {
			add(n.Else)
		}
	case *FunctionDeclaration:
		add(n.Function)
	}
	return out
}

// Dump writes an indented outline of the tree, one node per line with its
// span, e.g. `Binary + [1:1-1:6]`.
func Dump(w io.Writer, node Node, in *interner.Interner) error {
	depth := 0
	var err error
	Inspect(node, func(n Node) bool {
		if n == nil {
			depth--
			return false
		}
		if err == nil {
			_, err = fmt.Fprintf(w, "%s%s [%s]\n", strings.Repeat("  ", depth), describe(n, in), n.Span())
		}
		depth++
		return true
	})
	return err
}

func describe(n Node, in *interner.Interner) string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
	switch n := n.(type) {
	case *Identifier:
		return name + " " + in.ResolveString(n.Sym)
	case *Literal:
		return name + " " + literalText(n, in)
	case *RegExpLiteral:
		return name + " /" + in.ResolveString(n.Pattern) + "/" + in.ResolveString(n.Flags)
	case *PropertyName:
		if n.Computed == nil {
			return name + " " + in.ResolveString(n.Name)
		}
		return name + " computed"
	case *PropertyAccess:
		if n.Computed == nil {
			return name + " ." + in.ResolveString(n.Name)
		}
	case *SuperPropertyAccess:
		if n.Computed == nil {
			return name + " ." + in.ResolveString(n.Name)
		}
	case *Binary:
		return name + " " + n.Op.String()
	case *Unary:
		return name + " " + n.Op.String()
	case *Update:
		if n.Op.IsPrefix() {
			return name + " prefix " + n.Op.String()
		}
		return name + " postfix " + n.Op.String()
	case *Assign:
		return name + " " + n.Op.String()
	case *Yield:
		if n.Delegate {
			return name + "*"
		}
	case *FunctionExpression:
		kind := [...]string{"function", "generator", "async", "async generator"}[n.Kind]
		if n.Name != nil {
			return name + " " + kind + " " + in.ResolveString(n.Name.Sym)
		}
		return name + " " + kind
	case *ArrowFunction:
		s := name
		if n.Async {
			s += " async"
		}
		if n.Name != nil {
			s += " " + in.ResolveString(n.Name.Sym)
		}
		return s
	case *FunctionBody:
		if n.Strict {
			return name + " strict"
		}
	case *FormalParameter:
		if n.Rest {
			return name + " rest"
		}
	case *PatternProperty:
		if n.Rest {
			return name + " rest"
		}
	case *PatternElement:
		if n.Rest {
			return name + " rest"
		}
		if n.Target == nil {
			return name + " hole"
		}
	case *VariableDeclaration:
		return name + " " + n.Kind.String()
	case *MethodDefinition:
		switch n.Kind {
		case MethodGet:
			return name + " get"
		case MethodSet:
			return name + " set"
		}
	}
	return name
}
