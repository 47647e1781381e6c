package tag

import (
	"fmt"

	"github.com/docbind/docbind/doc_sync/comment"
)

// LexError reports a tag that starts like one of the recognized forms but is
// not well formed. Off is the absolute byte offset of the offending brace.
type LexError struct {
	Off int
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("invalid token sequence at offset %d: %s", e.Off, e.Msg)
}

// Lex scans one comment's text against the tag grammar and returns the tags
// it contains. Unmatched braces in ordinary prose are not an error; only
// text that begins the `{` + sigil pattern but fails to close is. Scanning
// is a single linear pass with no backtracking.
func Lex(n comment.Node) ([]Token, error) {
	var tokens []Token
	s := n.Value
	base := n.Span.Start

	for i := 0; i < len(s); i++ {
		if s[i] != '{' || i+1 >= len(s) {
			continue
		}
		var kind Kind
		switch s[i+1] {
		case '@':
			kind = OpenProvider
		case '=':
			kind = OpenConsumer
		case '/':
			kind = Close
		default:
			continue
		}
		braceOff := base + i

		j := i + 2
		nameStart := j
		for j < len(s) && isNameByte(s[j]) {
			j++
		}
		if j == nameStart {
			return nil, &LexError{Off: braceOff, Msg: "tag name must not be empty"}
		}
		name := s[nameStart:j]

		var raw string
		if kind == OpenConsumer && j < len(s) && s[j] == '|' {
			rawStart := j + 1
			end, err := scanTransformerSuffix(s, rawStart)
			if err != nil {
				return nil, &LexError{Off: braceOff, Msg: err.Error()}
			}
			raw = s[rawStart:end]
			j = end
		}

		if j >= len(s) || s[j] != '}' {
			return nil, &LexError{Off: braceOff, Msg: fmt.Sprintf("tag %q is not closed with '}'", name)}
		}

		tokens = append(tokens, Token{
			Kind:            kind,
			Name:            name,
			RawTransformers: raw,
			Span:            n.Span,
			Off:             braceOff,
		})
		i = j
	}
	return tokens, nil
}

// scanTransformerSuffix advances from start to the closing brace of the tag,
// honoring double-quoted strings so `|linePrefix:"}: "` does not end the tag
// early. Returns the index of the closing brace.
func scanTransformerSuffix(s string, start int) (int, error) {
	inQuote := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote && c == '\\' && i+1 < len(s):
			i++
		case c == '"':
			inQuote = !inQuote
		case !inQuote && c == '}':
			return i, nil
		}
	}
	if inQuote {
		return 0, fmt.Errorf("unterminated string in transformer arguments")
	}
	return 0, fmt.Errorf("transformer chain is not closed with '}'")
}

// isNameByte reports whether b may appear in a tag identifier. Identifiers
// are `[A-Za-z0-9_-]+`, case-sensitive.
func isNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' ||
		b >= 'A' && b <= 'Z' ||
		b >= '0' && b <= '9' ||
		b == '_' || b == '-'
}
