package render

import (
	"bytes"
	"fmt"
	"regexp"
	"text/template"
)

// Renderer substitutes `{{ variable }}` placeholders in provider content
// from an already-resolved key/value context.
type Renderer interface {
	Render(tmpl string, ctx map[string]any) (string, error)
}

// TemplateRenderer is the default Renderer, backed by text/template with
// missing keys treated as errors so a typo in a placeholder surfaces as a
// render diagnostic instead of an empty substitution.
type TemplateRenderer struct{}

// New returns the default renderer.
func New() *TemplateRenderer {
	return &TemplateRenderer{}
}

// placeholderRe matches `{{ name }}` and `{{ ns.key }}` placeholders written
// without the leading dot that text/template requires.
var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\s*\}\}`)

func (r *TemplateRenderer) Render(tmpl string, ctx map[string]any) (string, error) {
	rewritten := placeholderRe.ReplaceAllString(tmpl, "{{ .$1 }}")

	t, err := template.New("block").Option("missingkey=error").Parse(rewritten)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}
