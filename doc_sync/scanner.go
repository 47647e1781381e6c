package doc_sync

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/docbind/docbind/doc_sync/comment"
	"github.com/docbind/docbind/doc_sync/models"
	"github.com/docbind/docbind/doc_sync/tag"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxFileSize guards the walk against binaries and generated blobs.
const DefaultMaxFileSize = 5 * 1024 * 1024

// ScanOptions carries the externally resolved classification rules for a
// scan. The scanner itself does not read configuration.
type ScanOptions struct {
	// IsProviderFile reports whether a relative path is a template source.
	// Template sources contribute only provider blocks; everything else
	// contributes only consumer blocks.
	IsProviderFile func(rel string) bool

	// IsExcluded skips a file or a whole directory before extraction runs.
	IsExcluded func(rel string, isDir bool) bool

	// ProjectKey is a stable hash of the effective configuration; a changed
	// key invalidates the persisted cache.
	ProjectKey string

	EnableCache bool
	Workers     int
	MaxFileSize int64
}

// DocAnalyzer scans a project tree for provider and consumer blocks.
type DocAnalyzer struct {
	root      string
	opts      ScanOptions
	telemetry models.CacheTelemetry
}

// NewDocAnalyzer initializes a new DocAnalyzer rooted at root.
func NewDocAnalyzer(root string, opts ScanOptions) *DocAnalyzer {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.IsProviderFile == nil {
		opts.IsProviderFile = func(string) bool { return false }
	}
	return &DocAnalyzer{root: root, opts: opts}
}

// Telemetry returns the cache counters recorded by the most recent Scan.
func (a *DocAnalyzer) Telemetry() models.CacheTelemetry {
	return a.telemetry
}

type candidate struct {
	rel  string
	abs  string
	info fs.FileInfo
}

type fileOutcome struct {
	rel    string
	fp     models.FileFingerprint
	data   models.FileData
	reused bool
	failed bool
}

// Scan walks the project tree, parses every eligible file (reusing cached
// results for unchanged ones) and assembles the Project aggregate. Per-file
// parsing runs on a worker pool; results are merged in lexicographic path
// order in a single reduction step, so first-seen-wins duplicate resolution
// is deterministic regardless of worker scheduling.
func (a *DocAnalyzer) Scan() (*models.Project, error) {
	var cached *models.ProjectIndexCache
	if a.opts.EnableCache {
		cached = LoadCache(a.root, a.opts.ProjectKey)
	}
	next := NewCache(a.opts.ProjectKey)

	candidates, walkDiags, err := a.collectFiles()
	if err != nil {
		return nil, err
	}

	outcomes := make([]fileOutcome, len(candidates))
	var g errgroup.Group
	g.SetLimit(a.opts.Workers)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			outcomes[i] = a.processFile(c, cached)
			return nil
		})
	}
	_ = g.Wait()

	project := &models.Project{
		Root:        a.root,
		Providers:   make(map[string]models.ProviderEntry),
		Diagnostics: walkDiags,
	}
	for _, o := range outcomes {
		if o.failed {
			project.Diagnostics = append(project.Diagnostics, o.data.Diagnostics...)
			continue
		}
		if o.reused {
			next.Telemetry.ReusedFiles++
		} else {
			next.Telemetry.ReparsedFiles++
		}
		next.Files[o.rel] = o.fp
		next.FileData[o.rel] = o.data

		for _, p := range o.data.Providers {
			if prev, dup := project.Providers[p.Name]; dup {
				project.Diagnostics = append(project.Diagnostics, models.ProjectDiagnostic{
					Kind: models.DiagDuplicateProvider,
					File: p.SourceFile,
					Pos:  p.Pos,
					Message: fmt.Sprintf("provider %q already defined in %s; first definition wins",
						p.Name, prev.SourceFile),
				})
				continue
			}
			project.Providers[p.Name] = p
		}
		project.Consumers = append(project.Consumers, o.data.Consumers...)
		project.Diagnostics = append(project.Diagnostics, o.data.Diagnostics...)
	}
	next.Telemetry.FullProjectHit = next.Telemetry.ReparsedFiles == 0

	a.telemetry = next.Telemetry
	if a.opts.EnableCache {
		// A failed cache write only costs performance on the next run.
		_ = SaveCache(a.root, next)
	}
	return project, nil
}

// collectFiles walks the tree and gathers eligible files in lexicographic
// path order. Only a failure to read the project root itself aborts the
// scan; everything file-local becomes a diagnostic.
func (a *DocAnalyzer) collectFiles() ([]candidate, []models.ProjectDiagnostic, error) {
	var (
		out   []candidate
		diags []models.ProjectDiagnostic
	)
	walkErr := filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == a.root {
				return err
			}
			rel, relErr := filepath.Rel(a.root, path)
			if relErr != nil {
				rel = path
			}
			diags = append(diags, models.ProjectDiagnostic{
				Kind:    models.DiagIOError,
				File:    filepath.ToSlash(rel),
				Message: fmt.Sprintf("failed to access: %v", err),
			})
			return nil
		}
		rel, err := filepath.Rel(a.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if d.IsDir() && d.Name() == cacheDirName {
			return filepath.SkipDir
		}
		if a.opts.IsExcluded != nil && a.opts.IsExcluded(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			diags = append(diags, models.ProjectDiagnostic{
				Kind:    models.DiagIOError,
				File:    rel,
				Message: fmt.Sprintf("failed to get file info: %v", err),
			})
			return nil
		}
		if !info.Mode().IsRegular() || info.Size() > a.opts.MaxFileSize {
			return nil
		}
		out = append(out, candidate{rel: rel, abs: path, info: info})
		return nil
	})
	if walkErr != nil {
		return nil, nil, fmt.Errorf("failed to walk project root %s: %w", a.root, walkErr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].rel < out[j].rel })
	return out, diags, nil
}

// processFile decides between cache reuse and a fresh parse for one file.
// Size plus unchanged mtime reuses without reading; same size under a new
// mtime falls back to the content hash before reparsing.
func (a *DocAnalyzer) processFile(c candidate, cached *models.ProjectIndexCache) fileOutcome {
	fp := fingerprintOf(c.info)
	if cached != nil {
		if old, ok := cached.Files[c.rel]; ok && old.Size == fp.Size && old.ModTimeNano == fp.ModTimeNano {
			if data, ok := cached.FileData[c.rel]; ok {
				return fileOutcome{rel: c.rel, fp: old, data: data, reused: true}
			}
		}
	}

	content, err := os.ReadFile(c.abs)
	if err != nil {
		return fileOutcome{rel: c.rel, failed: true, data: models.FileData{
			Diagnostics: []models.ProjectDiagnostic{{
				Kind:    models.DiagIOError,
				File:    c.rel,
				Message: fmt.Sprintf("failed to read file: %v", err),
			}},
		}}
	}
	fp.ContentHash = HashContent(content)

	if cached != nil {
		if old, ok := cached.Files[c.rel]; ok && old.Size == fp.Size && old.ContentHash != "" && old.ContentHash == fp.ContentHash {
			if data, ok := cached.FileData[c.rel]; ok {
				// Same bytes under a new mtime: keep the parse, refresh the
				// stored fingerprint.
				return fileOutcome{rel: c.rel, fp: fp, data: data, reused: true}
			}
		}
	}

	return fileOutcome{rel: c.rel, fp: fp, data: a.parseFile(c.rel, content)}
}

// parseFile runs the extraction pipeline over one file's content: comment
// extraction, lexing, token grouping and block building. Template files are
// parsed strictly and contribute providers; everything else is parsed
// leniently and contributes consumers.
func (a *DocAnalyzer) parseFile(rel string, content []byte) models.FileData {
	idx := comment.NewLineIndex(content)
	nodes := comment.Extract(rel, content, idx)

	isProvider := a.opts.IsProviderFile(rel)
	policy := tag.Lenient
	if isProvider {
		policy = tag.Strict
	}

	res, err := tag.ParseComments(nodes, policy)
	if err != nil {
		var pos models.Position
		var lexErr *tag.LexError
		if errors.As(err, &lexErr) {
			pos = idx.Position(lexErr.Off)
		}
		return models.FileData{Diagnostics: []models.ProjectDiagnostic{{
			Kind:    models.DiagInvalidTokenSequence,
			File:    rel,
			Pos:     pos,
			Message: err.Error(),
		}}}
	}

	var data models.FileData
	for _, f := range res.Findings {
		data.Diagnostics = append(data.Diagnostics, models.ProjectDiagnostic{
			Kind:    f.Kind,
			File:    rel,
			Pos:     idx.Position(f.Off),
			Message: f.Message,
		})
	}
	for _, b := range res.Blocks {
		pos := idx.Position(b.TagSpan.Start)
		switch {
		case isProvider && b.Kind == models.ProviderBlock:
			data.Providers = append(data.Providers, models.ProviderEntry{
				Name:       b.Name,
				Content:    string(content[b.ContentSpan.Start:b.ContentSpan.End]),
				SourceFile: rel,
				Pos:        pos,
			})
		case !isProvider && b.Kind == models.ConsumerBlock:
			data.Consumers = append(data.Consumers, models.ConsumerEntry{
				Name:           b.Name,
				Transformers:   b.Transformers,
				File:           rel,
				ContentSpan:    b.ContentSpan,
				CurrentContent: string(content[b.ContentSpan.Start:b.ContentSpan.End]),
				Pos:            pos,
			})
		}
	}
	return data
}
