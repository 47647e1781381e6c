package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectKey_Stable(t *testing.T) {
	c := Config{
		ProviderGlobs: []string{"docs/partials/*.md"},
		Exclude:       []string{"vendor/"},
		DataSources:   map[string]string{"pkg": "package.json", "meta": "meta.toml"},
	}
	first := c.ProjectKey()
	assert.Len(t, first, 16)
	// Map iteration order must not leak into the key.
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, c.ProjectKey())
	}
}

func TestProjectKey_ChangesWithClassification(t *testing.T) {
	base := Config{ProviderGlobs: []string{"docs/partials/*.md"}}
	key := base.ProjectKey()

	changedGlobs := base
	changedGlobs.ProviderGlobs = []string{"templates/*.md"}
	assert.NotEqual(t, key, changedGlobs.ProjectKey())

	changedExclude := base
	changedExclude.Exclude = []string{"build/"}
	assert.NotEqual(t, key, changedExclude.ProjectKey())

	changedSources := base
	changedSources.DataSources = map[string]string{"pkg": "package.json"}
	assert.NotEqual(t, key, changedSources.ProjectKey())
}

func TestProjectKey_IgnoresRuntimeOnlySettings(t *testing.T) {
	a := Config{ProviderGlobs: []string{"p/*.md"}, EnableCache: true, Workers: 1}
	b := Config{ProviderGlobs: []string{"p/*.md"}, EnableCache: false, Workers: 8}
	// Cache and worker settings cannot change parse results.
	assert.Equal(t, a.ProjectKey(), b.ProjectKey())
}

func TestIsProviderFile(t *testing.T) {
	c := Config{ProviderGlobs: []string{"docs/partials/*.md", "SNIPPETS.md"}}

	assert.True(t, c.IsProviderFile("docs/partials/intro.md"))
	assert.True(t, c.IsProviderFile("SNIPPETS.md"))
	assert.True(t, c.IsProviderFile("nested/dir/SNIPPETS.md"))
	assert.False(t, c.IsProviderFile("docs/partials/deep/intro.md"))
	assert.False(t, c.IsProviderFile("docs/intro.md"))
	assert.False(t, c.IsProviderFile("README.md"))
}

func TestIsExcluded_ExcludeGlobs(t *testing.T) {
	c := Config{Exclude: []string{"build/", "*.min.md"}}

	assert.True(t, c.IsExcluded("build/out.md", false))
	assert.True(t, c.IsExcluded("docs/site.min.md", false))
	assert.False(t, c.IsExcluded("docs/site.md", false))
}

func TestIsExcluded_IncludeNarrowsFilesOnly(t *testing.T) {
	c := Config{
		ProviderGlobs: []string{"tmpl/*.md"},
		Include:       []string{"docs/*.md"},
	}

	// Directories stay traversable so included files beneath them are reached.
	assert.False(t, c.IsExcluded("docs", true))
	assert.False(t, c.IsExcluded("src", true))

	assert.False(t, c.IsExcluded("docs/guide.md", false))
	assert.True(t, c.IsExcluded("src/main.go", false))

	// Provider files are always in scope, include rules notwithstanding.
	assert.False(t, c.IsExcluded("tmpl/blocks.md", false))
}

func TestIsExcluded_NoRules(t *testing.T) {
	c := Config{}
	assert.False(t, c.IsExcluded("anything/at/all.md", false))
	assert.False(t, c.IsExcluded("anything", true))
}
