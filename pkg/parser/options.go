package parser

import (
	"go.uber.org/zap"

	"github.com/nooga/esfront/pkg/interner"
)

// Option configures a Parser.
type Option func(*Parser)

// WithStrict parses the source as strict mode code from the first token.
func WithStrict(strict bool) Option {
	return func(p *Parser) {
		p.strict = strict
	}
}

// WithInterner shares an existing interner with the parser, so symbols from
// several parses can be compared. The interner must not be used by another
// parse at the same time.
func WithInterner(in *interner.Interner) Option {
	return func(p *Parser) {
		p.interner = in
	}
}

// WithLogger traces production decisions at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}
