package tag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docbind/docbind/doc_sync/comment"
	"github.com/docbind/docbind/doc_sync/models"
)

// Policy selects the failure behavior of ParseComments. The grammar is the
// same in both modes; only what happens on malformed input differs.
type Policy int

const (
	// Strict turns lexer-level errors into a hard error for the file. Used
	// for template files, where malformed provider syntax is a real defect.
	Strict Policy = iota
	// Lenient converts lexer-level errors into findings and keeps as many
	// valid blocks as possible. Used for ordinary consumer files.
	Lenient
)

// Result carries the blocks recovered from one file plus the findings
// recorded along the way.
type Result struct {
	Blocks   []models.Block
	Findings []Finding
}

// ParseComments runs the lexer and pattern matcher over a file's comment
// nodes and converts the validated groups into blocks. Under Lenient policy
// a malformed region yields a finding and skips only the offending block;
// under Strict the first lexer error aborts the file.
func ParseComments(nodes []comment.Node, policy Policy) (Result, error) {
	var res Result

	var tokens []Token
	for _, n := range nodes {
		toks, err := Lex(n)
		if err != nil {
			if policy == Strict {
				return Result{}, err
			}
			lexErr := err.(*LexError)
			res.Findings = append(res.Findings, Finding{
				Kind:    models.DiagInvalidTokenSequence,
				Off:     lexErr.Off,
				Message: lexErr.Msg,
			})
			continue
		}
		tokens = append(tokens, toks...)
	}

	groups, findings := GroupTokens(tokens)
	res.Findings = append(res.Findings, findings...)

	for _, g := range groups {
		transformers, err := ParseTransformers(g.Open.RawTransformers)
		if err != nil {
			if policy == Strict {
				return Result{}, err
			}
			res.Findings = append(res.Findings, Finding{
				Kind:    models.DiagMalformedBlock,
				Name:    g.Open.Name,
				Off:     g.Open.Off,
				Message: fmt.Sprintf("block %q: %v", g.Open.Name, err),
			})
			continue
		}

		kind := models.ProviderBlock
		if g.Open.Kind == OpenConsumer {
			kind = models.ConsumerBlock
		}

		content := models.Span{Start: g.Open.Span.End, End: g.Close.Span.Start}
		if content.Start > content.End {
			// Both tags inside one comment: there is nothing between them.
			content.End = content.Start
		}

		res.Blocks = append(res.Blocks, models.Block{
			Kind:         kind,
			Name:         g.Open.Name,
			Transformers: transformers,
			TagSpan:      g.Open.Span.Cover(g.Close.Span),
			ContentSpan:  content,
		})
	}
	return res, nil
}

// ParseTransformers parses a pipe-delimited transformer chain such as
// `trim|linePrefix:"// ":true`. Splitting on `|` and `:` honors quoted
// strings. Arguments are typed: double-quoted strings, `true`/`false`,
// numbers (normalized to float64) and bare words.
func ParseTransformers(raw string) ([]models.Transformer, error) {
	if raw == "" {
		return nil, nil
	}
	var out []models.Transformer
	for _, part := range splitQuoted(raw, '|') {
		fields := splitQuoted(part, ':')
		name := strings.TrimSpace(fields[0])
		if name == "" {
			return nil, fmt.Errorf("empty transformer name in %q", raw)
		}
		for i := 0; i < len(name); i++ {
			if !isNameByte(name[i]) {
				return nil, fmt.Errorf("invalid transformer name %q", name)
			}
		}
		t := models.Transformer{Name: name}
		for _, f := range fields[1:] {
			arg, err := parseArg(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("transformer %q: %w", name, err)
			}
			t.Args = append(t.Args, arg)
		}
		out = append(out, t)
	}
	return out, nil
}

func parseArg(s string) (any, error) {
	switch {
	case s == "":
		return nil, fmt.Errorf("empty argument")
	case s == "true":
		return true, nil
	case s == "false":
		return false, nil
	case s[0] == '"':
		if len(s) < 2 || s[len(s)-1] != '"' {
			return nil, fmt.Errorf("unterminated string argument %q", s)
		}
		return unescape(s[1 : len(s)-1]), nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n, nil
	}
	// Bare words pass through as strings.
	return s, nil
}

func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// splitQuoted splits s on sep outside of double-quoted regions.
func splitQuoted(s string, sep byte) []string {
	var parts []string
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch {
		case inQuote && s[i] == '\\':
			i++
		case s[i] == '"':
			inQuote = !inQuote
		case !inQuote && s[i] == sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
