package source

import (
	"fmt"
	"os"
)

// Source is an immutable loaded file or in-memory buffer. Index is its
// position in the owning Loader's table and equals the FileID used by
// spans minted against it.
type Source struct {
	Index  uint32
	Origin string // path, or an in-memory name such as "<input>"
	Bytes  []byte
}

// Loader owns an append-only ordered sequence of Sources. Spans reference
// sources by index, so the loader itself never needs to be hashed or
// looked up by content.
type Loader struct {
	sources []*Source
}

// NewLoader returns an empty Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// AddFile reads path from disk and appends it as a new Source, returning
// its index.
func (l *Loader) AddFile(path string) (uint32, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("source: load %s: %w", path, err)
	}
	return l.AddBytes(path, b), nil
}

// AddBytes appends an in-memory buffer as a new Source under origin,
// returning its index.
func (l *Loader) AddBytes(origin string, b []byte) uint32 {
	idx := uint32(len(l.sources))
	l.sources = append(l.sources, &Source{Index: idx, Origin: origin, Bytes: b})
	return idx
}

// File returns the Source at index id. It panics if id is out of range,
// since every Span in the pipeline is minted against a Source that must
// already be registered.
func (l *Loader) File(id uint32) *Source {
	return l.sources[id]
}

// Len returns the number of sources registered in the loader.
func (l *Loader) Len() int { return len(l.sources) }

// Text returns the byte slice covered by span.
func (l *Loader) Text(span Span) []byte {
	src := l.File(span.FileID)
	return src.Bytes[span.Start:span.End]
}

// SnippetWithMargins returns the text before, within, and after span,
// extending left/right margins bytes in each direction, clamped to the
// bounds of the span's source; newlines inside a margin are not treated
// specially. It is used by the diagnostic
// renderer to print the offending text with surrounding context.
func (l *Loader) SnippetWithMargins(span Span, leftMargin, rightMargin int) (left, mid, right string) {
	src := l.File(span.FileID)
	start := int(span.Start)
	end := int(span.End)

	lstart := start - leftMargin
	if lstart < 0 {
		lstart = 0
	}
	rend := end + rightMargin
	if rend > len(src.Bytes) {
		rend = len(src.Bytes)
	}

	return string(src.Bytes[lstart:start]), string(src.Bytes[start:end]), string(src.Bytes[end:rend])
}
