package models

// Span is a half-open byte range [Start, End) within a file.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.Start >= s.End
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Position is a human-readable location in a file, 1-based.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// BlockKind classifies a tag block as a provider or a consumer.
type BlockKind int

const (
	ProviderBlock BlockKind = iota
	ConsumerBlock
)

func (k BlockKind) String() string {
	if k == ProviderBlock {
		return "provider"
	}
	return "consumer"
}

// Transformer is a named content filter plus its arguments, parsed from the
// pipe-delimited suffix of a consumer tag. Argument values are string, bool
// or float64 (numbers are normalized to float64 so cached entries survive a
// JSON round trip unchanged).
type Transformer struct {
	Name string `json:"name"`
	Args []any  `json:"args,omitempty"`
}

// Block is one parsed provider or consumer block inside a single file.
// TagSpan covers both tags and the content between them; ContentSpan covers
// only the bytes strictly between the open tag's end and the close tag's
// start.
type Block struct {
	Kind         BlockKind
	Name         string
	Transformers []Transformer
	TagSpan      Span
	ContentSpan  Span
	Pos          Position
}

// ProviderEntry is the resolved text a provider block yields, keyed by name
// across the whole project.
type ProviderEntry struct {
	Name       string   `json:"name"`
	Content    string   `json:"content"`
	SourceFile string   `json:"source_file"`
	Pos        Position `json:"pos"`
}

// ConsumerEntry is one site that mirrors a provider's rendered content.
type ConsumerEntry struct {
	Name           string        `json:"name"`
	Transformers   []Transformer `json:"transformers,omitempty"`
	File           string        `json:"file"`
	ContentSpan    Span          `json:"content_span"`
	CurrentContent string        `json:"current_content"`
	Pos            Position      `json:"pos"`
}

// Project is the scan-time aggregate assembled fresh each run. It is owned
// solely by the scan that produced it and is never mutated concurrently.
type Project struct {
	Root        string
	Providers   map[string]ProviderEntry
	Consumers   []ConsumerEntry
	Diagnostics []ProjectDiagnostic
}
