// Package types provides type definitions for structured data used throughout the skillcheck pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Impact is the severity level of a rule, ordered from highest to lowest effect.
type Impact string

// Valid impact levels.
const (
	ImpactCritical Impact = "critical"
	ImpactHigh     Impact = "high"
	ImpactMedium   Impact = "medium"
	ImpactLow      Impact = "low"
)

// ParseImpact parses an impact level case-insensitively.
// Returns the normalized Impact and whether the input was a valid level.
func ParseImpact(s string) (Impact, bool) {
	switch Impact(strings.ToLower(strings.TrimSpace(s))) {
	case ImpactCritical:
		return ImpactCritical, true
	case ImpactHigh:
		return ImpactHigh, true
	case ImpactMedium:
		return ImpactMedium, true
	case ImpactLow:
		return ImpactLow, true
	default:
		return "", false
	}
}

// Rule is one best-practice entry parsed from a rule file.
// Rules are immutable after parsing; no component mutates them.
type Rule struct {
	ID                string    `json:"id"`       // Derived from filename, unique within the rule set
	File              string    `json:"file"`     // Source filename (basename)
	Title             string    `json:"title"`    // Imperative statement
	Impact            Impact    `json:"impact"`   // One of the fixed severity levels
	ImpactDescription string    `json:"impact_description,omitempty"`
	Tags              []string  `json:"tags,omitempty"`
	Explanation       string    `json:"explanation"`
	Examples          []Example `json:"examples"` // Document order
	Reference         string    `json:"reference,omitempty"`
}

// Example is one labeled code illustration within a Rule.
type Example struct {
	Label    string `json:"label"`
	Language string `json:"language,omitempty"` // Code-fence tag; empty means treat as SQL
	Code     string `json:"code"`
}

// ExampleKind classifies an example label as a negative case, a positive
// case, or neither.
type ExampleKind int

// Example label classifications.
const (
	KindUnclassified ExampleKind = iota
	KindNegative
	KindPositive
)

// Label synonym tables. Matching is case-insensitive and substring-based so
// headings like "Incorrect usage" and "Good: partition by month" classify.
var (
	negativeSynonyms = []string{"incorrect", "wrong", "bad"}
	positiveSynonyms = []string{"correct", "good", "usage", "example"}
)

// ClassifyLabel maps an example label to its kind using the synonym tables.
// Negative synonyms are checked first so "incorrect usage" is negative even
// though "usage" is a positive synonym.
func ClassifyLabel(label string) ExampleKind {
	lower := strings.ToLower(label)
	for _, syn := range negativeSynonyms {
		if strings.Contains(lower, syn) {
			return KindNegative
		}
	}
	for _, syn := range positiveSynonyms {
		if strings.Contains(lower, syn) {
			return KindPositive
		}
	}
	return KindUnclassified
}

// Kind returns the classification of the example's label.
func (e Example) Kind() ExampleKind {
	return ClassifyLabel(e.Label)
}

// IsSQL reports whether the example should be submitted to the SQL engine.
// Examples with no declared language default to SQL.
func (e Example) IsSQL() bool {
	lang := strings.ToLower(strings.TrimSpace(e.Language))
	return lang == "" || lang == "sql"
}

// HasNegativeExample reports whether the rule contains at least one
// negative-labeled example.
func (r *Rule) HasNegativeExample() bool {
	for _, ex := range r.Examples {
		if ex.Kind() == KindNegative {
			return true
		}
	}
	return false
}

// HasPositiveExample reports whether the rule contains at least one
// positive-labeled example.
func (r *Rule) HasPositiveExample() bool {
	for _, ex := range r.Examples {
		if ex.Kind() == KindPositive {
			return true
		}
	}
	return false
}

// HasNonEmptyCode reports whether any example carries a non-empty code block.
func (r *Rule) HasNonEmptyCode() bool {
	for _, ex := range r.Examples {
		if strings.TrimSpace(ex.Code) != "" {
			return true
		}
	}
	return false
}
