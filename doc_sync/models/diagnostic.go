package models

import "fmt"

// DiagnosticKind identifies the class of a non-fatal finding.
type DiagnosticKind string

const (
	DiagMissingProvider      DiagnosticKind = "missing_provider"
	DiagDuplicateProvider    DiagnosticKind = "duplicate_provider"
	DiagMissingClosingTag    DiagnosticKind = "missing_closing_tag"
	DiagMalformedBlock       DiagnosticKind = "malformed_block"
	DiagInvalidTokenSequence DiagnosticKind = "invalid_token_sequence"
	DiagUnknownTransformer   DiagnosticKind = "unknown_transformer"
	DiagRenderError          DiagnosticKind = "render_error"
	DiagIOError              DiagnosticKind = "io_error"
)

// ProjectDiagnostic is a non-fatal finding surfaced to the caller. A scan
// with diagnostics still returns a usable Project; diagnostics never
// suppress valid blocks found elsewhere.
type ProjectDiagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	File    string         `json:"file"`
	Pos     Position       `json:"pos"`
	Message string         `json:"message"`
}

func (d ProjectDiagnostic) String() string {
	if d.Pos.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Pos.Line, d.Pos.Column, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.File, d.Kind, d.Message)
}
