package models

// FileFingerprint is a cheap identity used to decide whether a file's cached
// parse results can be reused. Size plus modification time is the fast path;
// the xxh3 content hash is the authoritative tie-breaker when present.
type FileFingerprint struct {
	Size        int64  `json:"size"`
	ModTimeNano int64  `json:"mtime"`
	ContentHash string `json:"hash,omitempty"`
}

// FileData is the per-file parse result stored in the index cache. It holds
// the file's contribution before cross-file merging, so duplicate-provider
// resolution can be replayed deterministically on every scan.
type FileData struct {
	Providers   []ProviderEntry     `json:"providers,omitempty"`
	Consumers   []ConsumerEntry     `json:"consumers,omitempty"`
	Diagnostics []ProjectDiagnostic `json:"diagnostics,omitempty"`
}

// CacheTelemetry tracks how much of a scan was served from cache. The
// counters are observational only and never influence matching results.
type CacheTelemetry struct {
	ReusedFiles    int  `json:"reused_files"`
	ReparsedFiles  int  `json:"reparsed_files"`
	FullProjectHit bool `json:"full_project_hit"`
}

// ProjectIndexCache is the persisted per-project index. It is loaded once at
// scan start and written once at scan end; a schema or project-key mismatch
// invalidates the whole cache rather than migrating it piecemeal.
type ProjectIndexCache struct {
	SchemaVersion int                        `json:"schema_version"`
	ProjectKey    string                     `json:"project_key"`
	Files         map[string]FileFingerprint `json:"files"`
	FileData      map[string]FileData        `json:"file_data"`
	Telemetry     CacheTelemetry             `json:"telemetry"`
}
