package doc_sync

import (
	"testing"

	"github.com/docbind/docbind/doc_sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformRegistry_Builtins(t *testing.T) {
	r := NewTransformRegistry()

	cases := []struct {
		name    string
		content string
		chain   []models.Transformer
		want    string
	}{
		{"trim", "  hello  ", []models.Transformer{{Name: "trim"}}, "hello"},
		{"trimLines", "\n\nbody\n  indented\n\n", []models.Transformer{{Name: "trimLines"}}, "body\n  indented"},
		{"indent", "a\nb", []models.Transformer{{Name: "indent", Args: []any{float64(2)}}}, "  a\n  b"},
		{"linePrefix skips empty lines", "a\n\nb", []models.Transformer{{Name: "linePrefix", Args: []any{"# "}}}, "# a\n\n# b"},
		{"linePrefix includes empty lines", "a\n\nb", []models.Transformer{{Name: "linePrefix", Args: []any{"# ", true}}}, "# a\n# \n# b"},
		{"upper", "abc", []models.Transformer{{Name: "upper"}}, "ABC"},
		{"lower", "ABC", []models.Transformer{{Name: "lower"}}, "abc"},
		{"codeFence", "x := 1", []models.Transformer{{Name: "codeFence", Args: []any{"go"}}}, "```go\nx := 1\n```"},
		{"codeFence no lang", "x", []models.Transformer{{Name: "codeFence"}}, "```\nx\n```"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Apply(tc.content, tc.chain)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTransformRegistry_OrderIsLeftToRight(t *testing.T) {
	r := NewTransformRegistry()

	got, err := r.Apply("  hello  ", []models.Transformer{
		{Name: "trim"},
		{Name: "linePrefix", Args: []any{"// ", true}},
	})
	require.NoError(t, err)
	assert.Equal(t, "// hello", got)

	// Reversed order prefixes first, so the trim can no longer remove the
	// inner padding.
	got, err = r.Apply("  hello  ", []models.Transformer{
		{Name: "linePrefix", Args: []any{"// ", true}},
		{Name: "trim"},
	})
	require.NoError(t, err)
	assert.Equal(t, "//   hello", got)
}

func TestTransformRegistry_Unknown(t *testing.T) {
	r := NewTransformRegistry()
	_, err := r.Apply("x", []models.Transformer{{Name: "sparkle"}})
	require.Error(t, err)
	var unknown *UnknownTransformerError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "sparkle", unknown.Name)
}

func TestTransformRegistry_BadArgs(t *testing.T) {
	r := NewTransformRegistry()

	_, err := r.Apply("x", []models.Transformer{{Name: "indent"}})
	assert.Error(t, err)

	_, err = r.Apply("x", []models.Transformer{{Name: "indent", Args: []any{float64(-1)}}})
	assert.Error(t, err)

	_, err = r.Apply("x", []models.Transformer{{Name: "linePrefix", Args: []any{true}}})
	assert.Error(t, err)
}

func TestTransformRegistry_Register(t *testing.T) {
	r := NewTransformRegistry()
	r.Register("reverse", func(content string, _ []any) (string, error) {
		b := []byte(content)
		for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
			b[i], b[j] = b[j], b[i]
		}
		return string(b), nil
	})
	got, err := r.Apply("abc", []models.Transformer{{Name: "reverse"}})
	require.NoError(t, err)
	assert.Equal(t, "cba", got)
}
