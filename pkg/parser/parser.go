// Package parser turns ECMAScript source text into the syntax tree defined
// in package ast, reporting the first syntax or early error it meets.
package parser

import (
	"go.uber.org/zap"

	"github.com/nooga/esfront/pkg/ast"
	"github.com/nooga/esfront/pkg/errors"
	"github.com/nooga/esfront/pkg/interner"
	"github.com/nooga/esfront/pkg/lexer"
	"github.com/nooga/esfront/pkg/source"
)

// Parser is a recursive-descent parser over a Cursor. A Parser parses one
// source once; it is not safe for concurrent use.
type Parser struct {
	src      *source.SourceFile
	interner *interner.Interner
	log      *zap.Logger
	strict   bool
	cursor   *Cursor

	// Context of the innermost enclosing function.
	yield      bool // yield is an operator
	await      bool // await is an operator
	inFunction bool // return is allowed
}

// New creates a parser for src.
func New(src *source.SourceFile, opts ...Option) *Parser {
	p := &Parser{src: src}
	for _, opt := range opts {
		opt(p)
	}
	if p.interner == nil {
		p.interner = interner.New()
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	l := lexer.New(src, p.interner)
	l.SetStrict(p.strict)
	p.cursor = NewCursor(l)
	return p
}

// ParseString parses content as an anonymous script.
func ParseString(content string, opts ...Option) (*ast.Script, *interner.Interner, error) {
	p := New(source.NewEvalSource(content), opts...)
	script, err := p.ParseScript()
	return script, p.interner, err
}

// Interner returns the interner holding every symbol in the parsed tree.
func (p *Parser) Interner() *interner.Interner { return p.interner }

// ParseScript parses the whole source as a Script.
func (p *Parser) ParseScript() (*ast.Script, error) {
	p.trace("Script")
	body, err := p.parseBody(false)
	if err != nil {
		return nil, err
	}
	end, linearEnd := p.cursor.PrevEnd()
	script := &ast.Script{
		Base: ast.At(
			lexer.NewSpan(lexer.NewPosition(1, 1), end),
			lexer.NewLinearSpan(0, linearEnd),
		),
		Statements: body.Statements,
		Strict:     body.Strict || p.strict,
	}
	if err := p.checkStructure(script); err != nil {
		return nil, err
	}
	return script, nil
}

// ParseExpression parses the whole source as a single Expression.
func (p *Parser) ParseExpression() (ast.Expression, error) {
	p.trace("Expression")
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	tok, err := p.cursor.Peek(0)
	if err != nil {
		return nil, err
	}
	if tok.Type != lexer.EOF {
		return nil, p.unexpected(tok, "expression")
	}
	if err := p.checkStructure(expr); err != nil {
		return nil, err
	}
	return expr, nil
}

// checkStructure reports super, new.target and `{ a = 1 }` literals that
// ended up outside any construct allowing them.
func (p *Parser) checkStructure(root ast.Node) error {
	if n := ast.Find(root, ast.ContainsSuper); n != nil {
		return p.errorAt(n.Span().Start, "invalid super usage")
	}
	if n := ast.Find(root, ast.ContainsNewTarget); n != nil {
		return p.errorAt(n.Span().Start, "new.target is not allowed outside of functions")
	}
	var cover ast.Node
	ast.Inspect(root, func(n ast.Node) bool {
		if cover != nil {
			return false
		}
		if c, ok := n.(*ast.CoverInitializedName); ok {
			cover = c
		}
		return cover == nil
	})
	if cover != nil {
		return p.errorAt(cover.Span().Start, "invalid shorthand property initializer")
	}
	return nil
}

// --- Context ---

// withContext sets the yield and await parameters and returns a function
// restoring the previous ones.
func (p *Parser) withContext(yield, await bool) (restore func()) {
	prevYield, prevAwait := p.yield, p.await
	p.yield, p.await = yield, await
	return func() { p.yield, p.await = prevYield, prevAwait }
}

// enterFunction sets up the context of an ordinary function body.
func (p *Parser) enterFunction(kind ast.FunctionKind) (restore func()) {
	restoreCtx := p.withContext(kind.IsGenerator(), kind.IsAsync())
	restoreArrow := p.cursor.SetArrow(false)
	prevIn := p.inFunction
	p.inFunction = true
	return func() {
		p.inFunction = prevIn
		restoreArrow()
		restoreCtx()
	}
}

func (p *Parser) strictMode() bool { return p.cursor.Strict() }

// --- Errors ---

func (p *Parser) errorAt(pos lexer.Position, format string, args ...interface{}) *errors.SyntaxError {
	return p.cursor.errorf(pos, format, args...)
}

// unexpected reports tok as out of place in the named production.
func (p *Parser) unexpected(tok lexer.Token, context string) error {
	if tok.Type == lexer.EOF {
		return p.errorAt(tok.Span.Start, "unexpected end of input")
	}
	return p.errorAt(tok.Span.Start, "unexpected token '%s' in %s", tok.Describe(p.interner), context)
}

// --- Spans ---

// spanFrom covers from the start of tok to the end of the last consumed
// token.
func (p *Parser) spanFrom(tok lexer.Token) ast.Base {
	return p.spanFromPos(tok.Span.Start, tok.LinearSpan.Start)
}

func (p *Parser) spanFromPos(start lexer.Position, linearStart lexer.LinearPosition) ast.Base {
	end, linearEnd := p.cursor.PrevEnd()
	return ast.At(lexer.NewSpan(start, end), lexer.NewLinearSpan(linearStart, linearEnd))
}

func tokenBase(tok lexer.Token) ast.Base {
	return ast.At(tok.Span, tok.LinearSpan)
}

// --- Tracing ---

// trace logs entry into a production. It must not peek: peeking would lex
// the next token before the production picks its goal.
func (p *Parser) trace(production string) {
	if ce := p.log.Check(zap.DebugLevel, "parse"); ce != nil {
		pos, _ := p.cursor.PrevEnd()
		ce.Write(
			zap.String("production", production),
			zap.Uint32("line", pos.Line),
			zap.Uint32("column", pos.Column),
			zap.Bool("strict", p.strictMode()),
		)
	}
}

func (p *Parser) traceDecision(production, decision string) {
	p.log.Debug("decide",
		zap.String("production", production),
		zap.String("decision", decision),
	)
}

func (p *Parser) name(sym interner.Sym) string { return p.interner.ResolveString(sym) }
