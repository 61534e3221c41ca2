package errors

import "github.com/spaceflint7/delphinium-sub000/pkg/source"

// Position represents a specific location in the source code.
// It includes line and column numbers (1-based) for human-readability,
// and byte offsets (0-based) for tooling.
type Position struct {
	Line     int                // 1-based line number
	Column   int                // 1-based column number (rune index within the line)
	StartPos int                // 0-based byte offset of the start of the span
	EndPos   int                // 0-based byte offset of the end of the span (exclusive)
	Source   *source.SourceFile // Reference to the source file
}

// PositionAt builds a Position for a byte span of sf.
func PositionAt(sf *source.SourceFile, start, end int) Position {
	pos := Position{StartPos: start, EndPos: end, Source: sf}
	if sf != nil {
		pos.Line, pos.Column = sf.LineColumn(start)
	}
	return pos
}
