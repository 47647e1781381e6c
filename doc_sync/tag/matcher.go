package tag

import (
	"fmt"
	"sort"

	"github.com/docbind/docbind/doc_sync/models"
)

// Group is an open token paired with the close token that ends its block.
type Group struct {
	Open  Token
	Close Token
}

// Finding is a position-carrying defect discovered while grouping or parsing
// tokens. The scanner resolves Off to a line/column when attaching it to the
// project diagnostics.
type Finding struct {
	Kind    models.DiagnosticKind
	Name    string
	Off     int
	Message string
}

// GroupTokens validates that the raw token order forms legal open/close
// groupings. It keeps an open stack keyed by name; a close that does not
// match the most recent open may still close an older open of the same name,
// which permits different-named blocks to close in any order relative to
// each other. A close with no currently open tag of its name, and an open
// that never closes, each produce a finding instead of aborting — a
// whole-project scan must never fail outright over one malformed file.
func GroupTokens(tokens []Token) ([]Group, []Finding) {
	var (
		groups   []Group
		findings []Finding
		open     []Token
	)

	for _, tok := range tokens {
		switch tok.Kind {
		case OpenProvider, OpenConsumer:
			open = append(open, tok)
		case Close:
			matched := -1
			for i := len(open) - 1; i >= 0; i-- {
				if open[i].Name == tok.Name {
					matched = i
					break
				}
			}
			if matched < 0 {
				findings = append(findings, Finding{
					Kind:    models.DiagMalformedBlock,
					Name:    tok.Name,
					Off:     tok.Off,
					Message: fmt.Sprintf("closing tag {/%s} has no matching open tag", tok.Name),
				})
				continue
			}
			groups = append(groups, Group{Open: open[matched], Close: tok})
			open = append(open[:matched], open[matched+1:]...)
		}
	}

	for _, tok := range open {
		findings = append(findings, Finding{
			Kind:    models.DiagMissingClosingTag,
			Name:    tok.Name,
			Off:     tok.Off,
			Message: fmt.Sprintf("tag %q is never closed", tok.Name),
		})
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Open.Off < groups[j].Open.Off })
	return groups, findings
}
