package tag

import (
	"fmt"

	"github.com/docbind/docbind/doc_sync/models"
)

// Kind discriminates the three tag token forms.
type Kind int

const (
	// OpenProvider is `{@name}`.
	OpenProvider Kind = iota
	// OpenConsumer is `{=name}` with an optional transformer chain.
	OpenConsumer
	// Close is `{/name}` and closes either open form.
	Close
)

func (k Kind) String() string {
	switch k {
	case OpenProvider:
		return "open-provider"
	case OpenConsumer:
		return "open-consumer"
	default:
		return "close"
	}
}

// Token is one recognized tag. Span covers the whole enclosing comment, so
// content spans can be measured from comment boundary to comment boundary.
// Off is the absolute byte offset of the tag's opening brace, used for
// diagnostics. Tokens are ephemeral: produced and consumed within one file's
// processing.
type Token struct {
	Kind            Kind
	Name            string
	RawTransformers string
	Span            models.Span
	Off             int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%s)@%d", t.Kind, t.Name, t.Off)
}
