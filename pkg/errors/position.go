package errors

import "github.com/nooga/esfront/pkg/source"

// Position represents a specific location in the source code.
// Line and Column are 1-based and count Unicode scalar values; Offset is the
// 0-based UTF-16 code-unit offset used for linear spans.
type Position struct {
	Line   int                // 1-based line number
	Column int                // 1-based column number
	Offset int                // 0-based linear (UTF-16) offset, -1 when unknown
	Source *source.SourceFile // Reference to the source file, may be nil
}
