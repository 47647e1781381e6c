package comment

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/docbind/docbind/doc_sync/models"
)

var (
	commentOpen  = []byte("<!--")
	commentClose = []byte("-->")
)

// Node is one raw comment located in a file. Value includes the comment
// delimiters; Span is the byte range of the whole comment.
type Node struct {
	Value string
	Span  models.Span
	Start models.Position
	End   models.Position
}

// Extract locates comment spans in content, choosing the strategy by file
// extension: markdown files go through the markdown AST walk, everything
// else is scanned for <!--...--> pairs directly since generic source-code
// comments are invisible to a markdown parser.
func Extract(path string, content []byte, idx *LineIndex) []Node {
	if isMarkdown(path) {
		return ExtractMarkdown(content, idx)
	}
	return ExtractRaw(content, idx)
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown", ".mdx":
		return true
	}
	return false
}

// ExtractRaw scans raw bytes for <!--...--> pairs. An opening delimiter with
// no closing delimiter before EOF yields no node; the tag layer reports the
// missing close when a tag was involved.
func ExtractRaw(content []byte, idx *LineIndex) []Node {
	return extractRange(content, 0, len(content), idx)
}

// extractRange scans content[lo:hi] for comment pairs, returning nodes with
// offsets relative to the full content.
func extractRange(content []byte, lo, hi int, idx *LineIndex) []Node {
	if hi > len(content) {
		hi = len(content)
	}
	var nodes []Node
	off := lo
	for off < hi {
		rel := bytes.Index(content[off:hi], commentOpen)
		if rel < 0 {
			break
		}
		start := off + rel
		rel = bytes.Index(content[start+len(commentOpen):hi], commentClose)
		if rel < 0 {
			break
		}
		end := start + len(commentOpen) + rel + len(commentClose)
		nodes = append(nodes, Node{
			Value: string(content[start:end]),
			Span:  models.Span{Start: start, End: end},
			Start: idx.Position(start),
			End:   idx.Position(end),
		})
		off = end
	}
	return nodes
}
