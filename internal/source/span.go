// Package source indexes source buffers, mints spans, and slices text by
// span for the rest of the pipeline.
package source

import "fmt"

// Span is a byte range [Start, End) within a specific file, identified by
// FileID. Both Start and End must index a valid UTF-8 boundary in that
// file's buffer.
type Span struct {
	FileID uint32
	Start  uint32
	End    uint32
}

// Merge returns a span covering both a and b. Both spans must belong to
// the same file.
func Merge(a, b Span) Span {
	if a.FileID != b.FileID {
		panic(fmt.Sprintf("source: cannot merge spans from different files (%d, %d)", a.FileID, b.FileID))
	}
	start, end := a.Start, a.End
	if b.Start < start {
		start = b.Start
	}
	if b.End > end {
		end = b.End
	}
	return Span{FileID: a.FileID, Start: start, End: end}
}

// Len returns the byte length of the span.
func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.FileID, s.Start, s.End)
}
