package datasource

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// Load resolves the configured namespace→file map into a single key/value
// context: each namespace becomes a top-level key holding the decoded
// document, so `{{ pkg.version }}` reads key "version" from the file bound
// to namespace "pkg". The format is chosen by file extension.
func Load(root string, sources map[string]string) (map[string]any, error) {
	ctx := make(map[string]any, len(sources))

	names := make([]string, 0, len(sources))
	for ns := range sources {
		names = append(names, ns)
	}
	sort.Strings(names)

	for _, ns := range names {
		rel := sources[ns]
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("data source %q: failed to read %s: %w", ns, rel, err)
		}
		doc, err := decode(rel, data)
		if err != nil {
			return nil, fmt.Errorf("data source %q: %w", ns, err)
		}
		ctx[ns] = doc
	}
	return ctx, nil
}

func decode(path string, data []byte) (map[string]any, error) {
	var doc map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode JSON in %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode TOML in %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode YAML in %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported data source format %q", filepath.Ext(path))
	}
	return doc, nil
}
