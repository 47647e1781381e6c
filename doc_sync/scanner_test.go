package doc_sync

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docbind/docbind/doc_sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeProjectFile writes rel under root, creating parent directories.
func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0644))
}

// newTestAnalyzer classifies everything under templates/ as provider files.
func newTestAnalyzer(root string, enableCache bool) *DocAnalyzer {
	return NewDocAnalyzer(root, ScanOptions{
		IsProviderFile: func(rel string) bool { return strings.HasPrefix(rel, "templates/") },
		ProjectKey:     "test-key",
		EnableCache:    enableCache,
	})
}

func TestScan_ClassifiesProvidersAndConsumers(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "templates/blocks.md",
		"<!-- {@greeting} -->\nHello world!\n<!-- {/greeting} -->\n")
	writeProjectFile(t, root, "README.md",
		"# Readme\n\n<!-- {=greeting} -->\nstale\n<!-- {/greeting} -->\n")

	project, err := newTestAnalyzer(root, false).Scan()
	require.NoError(t, err)

	require.Contains(t, project.Providers, "greeting")
	assert.Equal(t, "\nHello world!\n", project.Providers["greeting"].Content)
	assert.Equal(t, "templates/blocks.md", project.Providers["greeting"].SourceFile)

	require.Len(t, project.Consumers, 1)
	assert.Equal(t, "greeting", project.Consumers[0].Name)
	assert.Equal(t, "README.md", project.Consumers[0].File)
	assert.Equal(t, "\nstale\n", project.Consumers[0].CurrentContent)
	assert.Empty(t, project.Diagnostics)
}

func TestScan_ProviderBlocksIgnoredOutsideTemplates(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "notes.md",
		"<!-- {@sneaky} -->\ncontent\n<!-- {/sneaky} -->\n")

	project, err := newTestAnalyzer(root, false).Scan()
	require.NoError(t, err)
	assert.Empty(t, project.Providers)
	assert.Empty(t, project.Consumers)
}

func TestScan_DuplicateProviderFirstSeenWins(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "templates/a.md",
		"<!-- {@dup} -->\nfrom a\n<!-- {/dup} -->\n")
	writeProjectFile(t, root, "templates/b.md",
		"<!-- {@dup} -->\nfrom b\n<!-- {/dup} -->\n")

	project, err := newTestAnalyzer(root, false).Scan()
	require.NoError(t, err)

	// Lexicographic merge order makes a.md the winner on every run.
	assert.Equal(t, "templates/a.md", project.Providers["dup"].SourceFile)
	assert.Equal(t, "\nfrom a\n", project.Providers["dup"].Content)

	require.Len(t, project.Diagnostics, 1)
	d := project.Diagnostics[0]
	assert.Equal(t, models.DiagDuplicateProvider, d.Kind)
	assert.Equal(t, "templates/b.md", d.File)
}

func TestScan_MissingClosingTagDiagnostic(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "doc.md", "<!-- {=open-ended} -->\ntext without a close\n")

	project, err := newTestAnalyzer(root, false).Scan()
	require.NoError(t, err)
	assert.Empty(t, project.Consumers)
	require.Len(t, project.Diagnostics, 1)
	assert.Equal(t, models.DiagMissingClosingTag, project.Diagnostics[0].Kind)
	assert.Equal(t, models.Position{Line: 1, Column: 6}, project.Diagnostics[0].Pos)
}

func TestScan_StrictTemplateErrorIsPerFile(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "templates/broken.md", "<!-- {@no-close-brace -->\n")
	writeProjectFile(t, root, "templates/good.md",
		"<!-- {@ok} -->fine<!-- {/ok} -->\n")

	project, err := newTestAnalyzer(root, false).Scan()
	require.NoError(t, err)

	// The broken template surfaces as a diagnostic; the good one still loads.
	require.Contains(t, project.Providers, "ok")
	require.Len(t, project.Diagnostics, 1)
	assert.Equal(t, models.DiagInvalidTokenSequence, project.Diagnostics[0].Kind)
	assert.Equal(t, "templates/broken.md", project.Diagnostics[0].File)
}

func TestScan_MalformedTagIsLenientInConsumerFiles(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "doc.md",
		"<!-- {=bad -->\n<!-- {=good} -->x<!-- {/good} -->\n")

	project, err := newTestAnalyzer(root, false).Scan()
	require.NoError(t, err)
	require.Len(t, project.Consumers, 1)
	assert.Equal(t, "good", project.Consumers[0].Name)
	require.Len(t, project.Diagnostics, 1)
	assert.Equal(t, models.DiagInvalidTokenSequence, project.Diagnostics[0].Kind)
}

func TestScan_ExcludedPathsAreSkipped(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "docs/included.md",
		"<!-- {=a} -->x<!-- {/a} -->\n")
	writeProjectFile(t, root, "skipme/excluded.md",
		"<!-- {=b} -->x<!-- {/b} -->\n")

	a := NewDocAnalyzer(root, ScanOptions{
		IsExcluded: func(rel string, _ bool) bool {
			return rel == "skipme" || strings.HasPrefix(rel, "skipme/")
		},
	})
	project, err := a.Scan()
	require.NoError(t, err)
	require.Len(t, project.Consumers, 1)
	assert.Equal(t, "docs/included.md", project.Consumers[0].File)
}

func TestScan_OversizeFilesAreSkipped(t *testing.T) {
	root := t.TempDir()
	big := strings.Repeat("x", 100) + "<!-- {=big} -->y<!-- {/big} -->"
	writeProjectFile(t, root, "big.md", big)
	writeProjectFile(t, root, "small.md", "<!-- {=small} -->y<!-- {/small} -->")

	a := NewDocAnalyzer(root, ScanOptions{MaxFileSize: 64})
	project, err := a.Scan()
	require.NoError(t, err)
	require.Len(t, project.Consumers, 1)
	assert.Equal(t, "small", project.Consumers[0].Name)
}

func TestScan_MissingRootFails(t *testing.T) {
	a := newTestAnalyzer(filepath.Join(t.TempDir(), "does-not-exist"), false)
	_, err := a.Scan()
	assert.Error(t, err)
}

func TestScan_DeterministicAcrossWorkerCounts(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "templates/a.md", "<!-- {@dup} -->A<!-- {/dup} -->")
	writeProjectFile(t, root, "templates/z.md", "<!-- {@dup} -->Z<!-- {/dup} -->")
	for _, rel := range []string{"d1.md", "d2.md", "d3.md", "sub/d4.md"} {
		writeProjectFile(t, root, rel, "<!-- {=dup} -->old<!-- {/dup} -->")
	}

	for _, workers := range []int{1, 4} {
		a := NewDocAnalyzer(root, ScanOptions{
			IsProviderFile: func(rel string) bool { return strings.HasPrefix(rel, "templates/") },
			Workers:        workers,
		})
		project, err := a.Scan()
		require.NoError(t, err)
		assert.Equal(t, "A", project.Providers["dup"].Content, "workers=%d", workers)

		files := make([]string, 0, len(project.Consumers))
		for _, c := range project.Consumers {
			files = append(files, c.File)
		}
		assert.Equal(t, []string{"d1.md", "d2.md", "d3.md", "sub/d4.md"}, files, "workers=%d", workers)
	}
}
