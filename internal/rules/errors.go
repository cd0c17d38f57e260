// Package rules provides parsing and discovery of best-practice rule files.
package rules

import "fmt"

// ParseError represents a malformed rule file. It is localized to one file
// and must never abort batch processing of other files.
type ParseError struct {
	File    string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error in %s: %s: %v", e.File, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error in %s: %s", e.File, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// DiscoveryError represents a failure to enumerate rule files.
type DiscoveryError struct {
	Dir     string
	Message string
	Cause   error
}

func (e *DiscoveryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("discovery error in %s: %s: %v", e.Dir, e.Message, e.Cause)
	}
	return fmt.Sprintf("discovery error in %s: %s", e.Dir, e.Message)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Cause
}
