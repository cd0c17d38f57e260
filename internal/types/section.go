// Package types provides type definitions for structured data used throughout the skillcheck pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Section is a named, ranked grouping of rules sharing a filename prefix.
// Sections are declared once in the skill metadata file and never mutated
// by validators; the rule-to-section relationship is inferred at compile
// time by prefix match.
type Section struct {
	Name        string `json:"name" validate:"required"`
	Prefix      string `json:"prefix" validate:"required"`
	Impact      Impact `json:"impact" validate:"required,oneof=critical high medium low"`
	Description string `json:"description"`
	Rank        int    `json:"rank" validate:"gte=1"`
}

// SkillMeta is the skill-level metadata consumed by the compiler: document
// identity, current semantic version, and the section definitions.
type SkillMeta struct {
	Name         string    `json:"name" validate:"required"`
	Version      string    `json:"version" validate:"required"`
	Organization string    `json:"organization"`
	Abstract     string    `json:"abstract"`
	Sections     []Section `json:"sections" validate:"required,min=1,dive"`
}
