package comment

import (
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractMarkdown walks the markdown AST and collects HTML comment nodes.
// The AST narrows the search to HTML blocks and inline raw HTML; the exact
// <!--...--> delimiter bounds inside each candidate region are then located
// byte-precisely, so spans are identical to what the raw scanner would
// report for the same bytes.
func ExtractMarkdown(content []byte, idx *LineIndex) []Node {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(content))

	var nodes []Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.HTMLBlock:
			if v.HTMLBlockType != ast.HTMLBlockType2 {
				return ast.WalkContinue, nil
			}
			lines := v.Lines()
			if lines.Len() == 0 {
				return ast.WalkContinue, nil
			}
			lo := lines.At(0).Start
			hi := lines.At(lines.Len() - 1).Stop
			if v.HasClosure() {
				hi = v.ClosureLine.Stop
			}
			nodes = append(nodes, extractRange(content, lo, hi, idx)...)
		case *ast.RawHTML:
			if v.Segments.Len() == 0 {
				return ast.WalkContinue, nil
			}
			lo := v.Segments.At(0).Start
			hi := v.Segments.At(v.Segments.Len() - 1).Stop
			nodes = append(nodes, extractRange(content, lo, hi, idx)...)
		}
		return ast.WalkContinue, nil
	})

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Span.Start < nodes[j].Span.Start })
	return dedupe(nodes)
}

func dedupe(nodes []Node) []Node {
	out := nodes[:0]
	for _, n := range nodes {
		if len(out) > 0 && n.Span == out[len(out)-1].Span {
			continue
		}
		out = append(out, n)
	}
	return out
}
