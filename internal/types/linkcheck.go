// Package types provides type definitions for structured data used throughout the skillcheck pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// LinkCheckResult is the outcome of probing one external URL.
// A URL appearing in multiple files is probed once; SourceFile and
// SourceSkill record where it was first observed.
type LinkCheckResult struct {
	URL         string `json:"url"`
	Success     bool   `json:"success"`
	StatusCode  int    `json:"status_code,omitempty"`
	Error       string `json:"error,omitempty"`
	SourceFile  string `json:"source_file"`
	SourceSkill string `json:"source_skill,omitempty"`
	RetriesUsed int    `json:"retries_used"`
}
