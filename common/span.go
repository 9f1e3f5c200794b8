package common

import (
	"fmt"

	file_path "github.com/neosfusion/fusionls/filepath"

	protocol "github.com/gluax-lang/lsp"
)

// Span represents a range on a single source line.
type Span struct {
	Line                             uint32
	ColumnStart, ColumnEnd           uint32 // byte offsets into the line
	ColumnStartUTF16, ColumnEndUTF16 uint32 // for LSP, which uses UTF-16 code units
	Source                           string // "" == unknown
}

func (s Span) ToRange() protocol.Range {
	return protocol.Range{
		Start: protocol.Position{
			Line:      s.Line,
			Character: s.ColumnStartUTF16,
		},
		End: protocol.Position{
			Line:      s.Line,
			Character: s.ColumnEndUTF16,
		},
	}
}

func (s Span) ToLocation() protocol.Location {
	return protocol.Location{
		URI:   file_path.ToURI(s.Source),
		Range: s.ToRange(),
	}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d (%s)", s.Line, s.ColumnStart, s.ColumnEnd, s.Source)
}

// SpanOnLine builds a span over text[start:end] of the given line. Byte
// offsets outside the text are clamped.
func SpanOnLine(src string, line uint32, text string, start, end int) Span {
	idx := BuildRuneIndex(text)
	start = idx.clamp(start)
	end = idx.clamp(end)
	return Span{
		Line:             line,
		ColumnStart:      uint32(start),
		ColumnEnd:        uint32(end),
		ColumnStartUTF16: idx.UTF16Column(start),
		ColumnEndUTF16:   idx.UTF16Column(end),
		Source:           src,
	}
}

// SpanWholeLine covers the full text of a line.
func SpanWholeLine(src string, line uint32, text string) Span {
	return SpanOnLine(src, line, text, 0, len(text))
}
