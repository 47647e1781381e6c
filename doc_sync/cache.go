package doc_sync

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/docbind/docbind/doc_sync/models"
	"github.com/zeebo/xxh3"
)

// CacheSchemaVersion is bumped whenever the on-disk cache shape changes
// incompatibly. Any mismatch invalidates the whole cache; there is no
// partial migration.
const CacheSchemaVersion = 1

const (
	cacheDirName  = ".docbind"
	cacheFileName = "cache.json"
)

// CachePath returns the fixed cache file location under root.
func CachePath(root string) string {
	return filepath.Join(root, cacheDirName, cacheFileName)
}

// NewCache returns an empty cache bound to the given project key.
func NewCache(projectKey string) *models.ProjectIndexCache {
	return &models.ProjectIndexCache{
		SchemaVersion: CacheSchemaVersion,
		ProjectKey:    projectKey,
		Files:         make(map[string]models.FileFingerprint),
		FileData:      make(map[string]models.FileData),
	}
}

// LoadCache returns the previously persisted cache for root, or nil when it
// is absent, unreadable, or does not match the schema version and project
// key. A mismatch is treated as cache-absent, never as an error.
func LoadCache(root, projectKey string) *models.ProjectIndexCache {
	data, err := os.ReadFile(CachePath(root))
	if err != nil {
		return nil
	}
	var c models.ProjectIndexCache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}
	if c.SchemaVersion != CacheSchemaVersion || c.ProjectKey != projectKey {
		return nil
	}
	if c.Files == nil || c.FileData == nil {
		return nil
	}
	return &c
}

// SaveCache writes the cache to a temporary file in the cache directory and
// renames it into place, so a crash mid-write never corrupts the previous
// valid cache. Callers may swallow the returned error: a missing cache
// update only degrades performance on the next run.
func SaveCache(root string, c *models.ProjectIndexCache) error {
	dir := filepath.Join(root, cacheDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "cache-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, cacheFileName)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move cache file into place: %w", err)
	}
	return nil
}

// ClearCache removes the persisted cache for root.
func ClearCache(root string) error {
	if err := os.Remove(CachePath(root)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// HashContent returns the xxh3 hex digest used as the authoritative
// fingerprint tie-breaker.
func HashContent(content []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(content))
}

// fingerprintOf captures a file's identity from its stat info. The content
// hash is filled in separately once the file has been read.
func fingerprintOf(info fs.FileInfo) models.FileFingerprint {
	return models.FileFingerprint{
		Size:        info.Size(),
		ModTimeNano: info.ModTime().UnixNano(),
	}
}
