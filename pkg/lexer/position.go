package lexer

import (
	"fmt"

	"github.com/nooga/esfront/pkg/errors"
	"github.com/nooga/esfront/pkg/source"
)

// Position is a 1-based line/column pair. Columns count Unicode scalar values.
type Position struct {
	Line   uint32
	Column uint32
}

// NewPosition builds a Position; both parts must be at least 1.
func NewPosition(line, column uint32) Position {
	if line == 0 || column == 0 {
		panic("lexer: positions are 1-based")
	}
	return Position{Line: line, Column: column}
}

// Less reports whether p comes strictly before other.
func (p Position) Less(other Position) bool {
	return p.Line < other.Line || (p.Line == other.Line && p.Column < other.Column)
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ErrorPosition converts p into the position carried by front-end errors.
func (p Position) ErrorPosition(src *source.SourceFile) errors.Position {
	return errors.Position{Line: int(p.Line), Column: int(p.Column), Offset: -1, Source: src}
}

// Span is the range [Start, End) covered by a token or node.
type Span struct {
	Start Position
	End   Position
}

// NewSpan builds a span; start must not come after end.
func NewSpan(start, end Position) Span {
	if end.Less(start) {
		panic(fmt.Sprintf("lexer: span start %s after end %s", start, end))
	}
	return Span{Start: start, End: end}
}

// Contains reports whether pos falls inside the span.
func (s Span) Contains(pos Position) bool {
	return !pos.Less(s.Start) && pos.Less(s.End)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// LinearPosition is a flat UTF-16 code-unit offset into the source.
type LinearPosition uint32

// LinearSpan is the half-open code-unit range [Start, End).
type LinearSpan struct {
	Start LinearPosition
	End   LinearPosition
}

// NewLinearSpan builds a linear span; start must not exceed end.
func NewLinearSpan(start, end LinearPosition) LinearSpan {
	if end < start {
		panic(fmt.Sprintf("lexer: linear span start %d after end %d", start, end))
	}
	return LinearSpan{Start: start, End: end}
}

// Union returns the smallest span covering s and other.
func (s LinearSpan) Union(other LinearSpan) LinearSpan {
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// Extend moves the end of s to pos when pos lies beyond it.
func (s LinearSpan) Extend(pos LinearPosition) LinearSpan {
	if pos > s.End {
		s.End = pos
	}
	return s
}

// Len is the number of code units covered.
func (s LinearSpan) Len() int {
	return int(s.End - s.Start)
}
