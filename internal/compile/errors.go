// Package compile deterministically assembles validated rules into the
// compiled reference document.
package compile

import (
	"fmt"
	"strings"
)

// MetaError represents an unreadable or invalid skill metadata file.
type MetaError struct {
	Path    string
	Message string
	Cause   error
}

func (e *MetaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("metadata error in %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("metadata error in %s: %s", e.Path, e.Message)
}

func (e *MetaError) Unwrap() error {
	return e.Cause
}

// OrphanRuleError is a hard stop: rules whose filename matches no declared
// section prefix would silently vanish from the compiled output.
type OrphanRuleError struct {
	Files []string
}

func (e *OrphanRuleError) Error() string {
	return fmt.Sprintf("orphan rules match no section prefix: %s", strings.Join(e.Files, ", "))
}

// VersionError represents an unparsable semantic version string.
type VersionError struct {
	Version string
	Message string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("invalid version %q: %s", e.Version, e.Message)
}
