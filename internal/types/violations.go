// Package types provides type definitions for structured data used throughout the skillcheck pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Violation represents a single validation failure.
type Violation struct {
	Type         string `json:"type"`
	Severity     string `json:"severity"`
	Details      string `json:"details"`
	File         string `json:"file,omitempty"`          // Offending rule file
	RuleTitle    string `json:"rule_title,omitempty"`    // Title of the rule containing the failure
	ExampleLabel string `json:"example_label,omitempty"` // Label of the offending example, if any
	LineNumber   *int   `json:"line_number,omitempty"`
}

// Violations represents a collection of validation failures.
type Violations struct {
	Violations []Violation `json:"violations"`
}

// Empty reports whether no violations were recorded.
func (v *Violations) Empty() bool {
	return v == nil || len(v.Violations) == 0
}

// Violation type identifiers shared across validators.
const (
	ViolationParseError      = "parse_error"
	ViolationMissingTitle    = "missing_title"
	ViolationMissingBody     = "missing_explanation"
	ViolationInvalidImpact   = "invalid_impact"
	ViolationMissingNegative = "missing_negative_example"
	ViolationMissingPositive = "missing_positive_example"
	ViolationMissingCode     = "missing_example_code"
	ViolationSecurity        = "sql_security"
	ViolationEngineError     = "sql_engine_error"
	ViolationBrokenLink      = "broken_link"
)
