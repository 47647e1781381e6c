package comment

import (
	"sort"

	"github.com/docbind/docbind/doc_sync/models"
)

// LineIndex maps byte offsets to 1-based line/column positions. The table of
// line-start offsets is built once per file in O(n); every lookup afterwards
// is a binary search, so resolving thousands of positions during a project
// scan stays cheap.
type LineIndex struct {
	starts []int
}

// NewLineIndex builds the line-start table for content.
func NewLineIndex(content []byte) *LineIndex {
	starts := make([]int, 1, 64)
	starts[0] = 0
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

// Position resolves a byte offset to its line and column. Offsets past the
// end of the content resolve onto the final line.
func (ix *LineIndex) Position(off int) models.Position {
	if off < 0 {
		off = 0
	}
	// Largest line start <= off.
	i := sort.Search(len(ix.starts), func(i int) bool { return ix.starts[i] > off }) - 1
	return models.Position{Line: i + 1, Column: off - ix.starts[i] + 1}
}
