package doc_sync

import (
	"fmt"
	"strings"

	"github.com/docbind/docbind/doc_sync/models"
)

// TransformFunc is a pure content filter applied to provider content before
// it is injected into a consumer.
type TransformFunc func(content string, args []any) (string, error)

// UnknownTransformerError marks a consumer referencing a transformer name
// that is not registered. It downgrades the block to a diagnostic instead of
// failing the run.
type UnknownTransformerError struct {
	Name string
}

func (e *UnknownTransformerError) Error() string {
	return fmt.Sprintf("unknown transformer %q", e.Name)
}

// TransformRegistry maps transformer names to their implementations. The
// built-in set covers the common documentation shapes; callers may register
// their own.
type TransformRegistry struct {
	funcs map[string]TransformFunc
}

// NewTransformRegistry returns a registry populated with the built-in
// transformers.
func NewTransformRegistry() *TransformRegistry {
	r := &TransformRegistry{funcs: make(map[string]TransformFunc)}
	r.Register("trim", transformTrim)
	r.Register("trimLines", transformTrimLines)
	r.Register("indent", transformIndent)
	r.Register("linePrefix", transformLinePrefix)
	r.Register("upper", transformUpper)
	r.Register("lower", transformLower)
	r.Register("codeFence", transformCodeFence)
	return r
}

// Register adds or replaces a transformer.
func (r *TransformRegistry) Register(name string, fn TransformFunc) {
	r.funcs[name] = fn
}

// Apply runs the transformer pipeline strictly left to right.
func (r *TransformRegistry) Apply(content string, transformers []models.Transformer) (string, error) {
	for _, t := range transformers {
		fn, ok := r.funcs[t.Name]
		if !ok {
			return "", &UnknownTransformerError{Name: t.Name}
		}
		var err error
		content, err = fn(content, t.Args)
		if err != nil {
			return "", fmt.Errorf("transformer %q: %w", t.Name, err)
		}
	}
	return content, nil
}

func transformTrim(content string, _ []any) (string, error) {
	return strings.TrimSpace(content), nil
}

// transformTrimLines drops leading and trailing blank lines but keeps inner
// blank lines and per-line indentation intact.
func transformTrimLines(content string, _ []any) (string, error) {
	lines := strings.Split(content, "\n")
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n"), nil
}

func transformIndent(content string, args []any) (string, error) {
	n, err := intArg(args, 0)
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("indent width must not be negative, got %d", n)
	}
	return prefixLines(content, strings.Repeat(" ", n), false), nil
}

func transformLinePrefix(content string, args []any) (string, error) {
	prefix, err := stringArg(args, 0)
	if err != nil {
		return "", err
	}
	includeEmpty := boolArgOr(args, 1, false)
	return prefixLines(content, prefix, includeEmpty), nil
}

func transformUpper(content string, _ []any) (string, error) {
	return strings.ToUpper(content), nil
}

func transformLower(content string, _ []any) (string, error) {
	return strings.ToLower(content), nil
}

func transformCodeFence(content string, args []any) (string, error) {
	lang := ""
	if len(args) > 0 {
		var err error
		lang, err = stringArg(args, 0)
		if err != nil {
			return "", err
		}
	}
	return "```" + lang + "\n" + content + "\n```", nil
}

func prefixLines(content, prefix string, includeEmpty bool) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if line == "" && !includeEmpty {
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func stringArg(args []any, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("missing argument %d", i+1)
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("argument %d: expected string, got %T", i+1, args[i])
	}
	return s, nil
}

func intArg(args []any, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing argument %d", i+1)
	}
	f, ok := args[i].(float64)
	if !ok {
		return 0, fmt.Errorf("argument %d: expected number, got %T", i+1, args[i])
	}
	return int(f), nil
}

func boolArgOr(args []any, i int, def bool) bool {
	if i >= len(args) {
		return def
	}
	if b, ok := args[i].(bool); ok {
		return b
	}
	return def
}
