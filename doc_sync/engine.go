package doc_sync

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/docbind/docbind/doc_sync/models"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// RenderFunc is the data-interpolation collaborator: it substitutes
// placeholders in provider content from an already-resolved key/value
// context. The engine treats it as opaque.
type RenderFunc func(template string, ctx map[string]any) (string, error)

// Engine joins consumers to providers by name, renders provider content and
// decides staleness.
type Engine struct {
	render     RenderFunc
	context    map[string]any
	transforms *TransformRegistry
}

// NewEngine creates a matching engine. render and ctx may be nil when no
// data interpolation is configured; registry may be nil to use the built-in
// transformers.
func NewEngine(render RenderFunc, ctx map[string]any, registry *TransformRegistry) *Engine {
	if registry == nil {
		registry = NewTransformRegistry()
	}
	return &Engine{render: render, context: ctx, transforms: registry}
}

// StaleBlock is one consumer whose current content differs from the
// provider's freshly rendered content.
type StaleBlock struct {
	Name     string          `json:"name"`
	File     string          `json:"file"`
	Pos      models.Position `json:"pos"`
	Span     models.Span     `json:"-"`
	Rendered string          `json:"-"`
	Diff     string          `json:"diff,omitempty"`
}

// CheckResult is the read-path outcome. Consumers without a matching
// provider are neither stale nor fresh; they surface as diagnostics only.
type CheckResult struct {
	IsOK        bool                       `json:"is_ok"`
	Stale       []StaleBlock               `json:"stale"`
	Diagnostics []models.ProjectDiagnostic `json:"diagnostics"`
}

// Check compares every consumer against its provider's rendered content.
func (e *Engine) Check(p *models.Project) *CheckResult {
	stale, diags := e.matchStale(p, true)
	res := &CheckResult{
		IsOK:        len(stale) == 0,
		Stale:       stale,
		Diagnostics: append(append([]models.ProjectDiagnostic{}, p.Diagnostics...), diags...),
	}
	return res
}

// matchStale performs the shared matching/rendering pass. Rendering failures
// are per-block: they downgrade the block to a diagnostic and never abort
// the remaining blocks.
func (e *Engine) matchStale(p *models.Project, withDiff bool) ([]StaleBlock, []models.ProjectDiagnostic) {
	var (
		stale []StaleBlock
		diags []models.ProjectDiagnostic
	)
	dmp := diffmatchpatch.New()

	for _, c := range p.Consumers {
		provider, ok := p.Providers[c.Name]
		if !ok {
			diags = append(diags, models.ProjectDiagnostic{
				Kind:    models.DiagMissingProvider,
				File:    c.File,
				Pos:     c.Pos,
				Message: fmt.Sprintf("no provider named %q found in the project", c.Name),
			})
			continue
		}

		rendered, err := e.renderFor(provider, c)
		if err != nil {
			kind := models.DiagRenderError
			var unknown *UnknownTransformerError
			if errors.As(err, &unknown) {
				kind = models.DiagUnknownTransformer
			}
			diags = append(diags, models.ProjectDiagnostic{
				Kind:    kind,
				File:    c.File,
				Pos:     c.Pos,
				Message: fmt.Sprintf("block %q: %v", c.Name, err),
			})
			continue
		}

		if rendered == c.CurrentContent {
			continue
		}
		sb := StaleBlock{
			Name:     c.Name,
			File:     c.File,
			Pos:      c.Pos,
			Span:     c.ContentSpan,
			Rendered: rendered,
		}
		if withDiff {
			patches := dmp.PatchMake(c.CurrentContent, rendered)
			sb.Diff = dmp.PatchToText(patches)
		}
		stale = append(stale, sb)
	}
	return stale, diags
}

// renderFor applies optional data interpolation and then the consumer's
// transformer pipeline, strictly left to right.
func (e *Engine) renderFor(provider models.ProviderEntry, c models.ConsumerEntry) (string, error) {
	content := provider.Content
	if e.render != nil {
		rendered, err := e.render(content, e.context)
		if err != nil {
			return "", fmt.Errorf("render provider %q: %w", provider.Name, err)
		}
		content = rendered
	}
	return e.transforms.Apply(content, c.Transformers)
}

// PendingFile is one file's spliced content, not yet written.
type PendingFile struct {
	NewContent []byte
	// Spans are the newly written content spans, in ascending order, in the
	// coordinates of NewContent.
	Spans []models.Span
}

// UpdateResult is the write-path outcome. ComputeUpdates fills it in without
// touching any file; WriteUpdates performs the actual writes, so a dry run
// is simply a computed result that is never written.
type UpdateResult struct {
	UpdatedCount int
	Files        map[string]*PendingFile
	Diagnostics  []models.ProjectDiagnostic
}

// ComputeUpdates performs the same matching as Check and splices the
// rendered content into each stale consumer's content span, leaving
// everything else in the file, including the tags, byte-identical. Multiple
// stale blocks in one file are applied in a single pass in ascending span
// order, shifting subsequent offsets as earlier replacements grow or shrink
// the file.
func (e *Engine) ComputeUpdates(p *models.Project) *UpdateResult {
	stale, diags := e.matchStale(p, false)
	res := &UpdateResult{
		Files:       make(map[string]*PendingFile),
		Diagnostics: diags,
	}

	byFile := make(map[string][]StaleBlock)
	for _, sb := range stale {
		byFile[sb.File] = append(byFile[sb.File], sb)
	}
	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, file := range files {
		blocks := byFile[file]
		sort.Slice(blocks, func(i, j int) bool { return blocks[i].Span.Start < blocks[j].Span.Start })

		content, err := os.ReadFile(filepath.Join(p.Root, filepath.FromSlash(file)))
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, models.ProjectDiagnostic{
				Kind:    models.DiagIOError,
				File:    file,
				Message: fmt.Sprintf("failed to read file: %v", err),
			})
			continue
		}

		pending := &PendingFile{}
		delta := 0
		applied := 0
		for _, sb := range blocks {
			start := sb.Span.Start + delta
			end := sb.Span.End + delta
			if start < 0 || end > len(content) || string(content[start:end]) != currentOf(p, sb) {
				res.Diagnostics = append(res.Diagnostics, models.ProjectDiagnostic{
					Kind:    models.DiagIOError,
					File:    file,
					Pos:     sb.Pos,
					Message: fmt.Sprintf("block %q: file changed since scan, skipping update", sb.Name),
				})
				continue
			}
			var next []byte
			next = append(next, content[:start]...)
			next = append(next, sb.Rendered...)
			next = append(next, content[end:]...)
			content = next
			pending.Spans = append(pending.Spans, models.Span{Start: start, End: start + len(sb.Rendered)})
			delta += len(sb.Rendered) - (sb.Span.End - sb.Span.Start)
			applied++
		}
		if applied == 0 {
			continue
		}
		pending.NewContent = content
		res.Files[file] = pending
		res.UpdatedCount += applied
	}
	return res
}

// currentOf finds the consumer's scan-time content for the stale block, used
// to verify the file has not shifted underneath the update.
func currentOf(p *models.Project, sb StaleBlock) string {
	for _, c := range p.Consumers {
		if c.File == sb.File && c.ContentSpan == sb.Span && c.Name == sb.Name {
			return c.CurrentContent
		}
	}
	return ""
}

// WriteUpdates writes every pending file back to disk, whole-file. File
// modes are preserved. Individual write failures are collected; the
// remaining files are still written.
func (e *Engine) WriteUpdates(root string, res *UpdateResult) error {
	var errs []error
	for file, pending := range res.Files {
		abs := filepath.Join(root, filepath.FromSlash(file))
		mode := os.FileMode(0644)
		if info, err := os.Stat(abs); err == nil {
			mode = info.Mode().Perm()
		}
		if err := os.WriteFile(abs, pending.NewContent, mode); err != nil {
			errs = append(errs, fmt.Errorf("failed to write %s: %w", file, err))
		}
	}
	return errors.Join(errs...)
}
