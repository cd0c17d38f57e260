// Package sqlcheck validates SQL examples against a sandboxed ClickHouse
// engine, guarded by a deny-list of dangerous constructs.
package sqlcheck

import (
	"errors"
	"fmt"
)

// ErrUnsupportedPlatform indicates the engine binary is not available for
// the current OS/architecture. Callers treat this as degraded mode: SQL
// validation is skipped with a warning, not failed.
var ErrUnsupportedPlatform = errors.New("no clickhouse binary available for this platform")

// SecurityError represents a snippet that matched the dangerous-construct
// deny-list. Snippets with a SecurityError are never submitted to the engine.
type SecurityError struct {
	Construct string
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("security violation: dangerous construct %q", e.Construct)
}

// EngineError represents a syntax or semantic exception reported by the
// sandboxed engine. Message carries the engine's raw error text.
type EngineError struct {
	Message string
	Cause   error
}

func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("engine error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("engine error: %s", e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

// AcquisitionError represents a failure to download or stage the engine
// binary. Like ErrUnsupportedPlatform it degrades the run, it does not
// fail it.
type AcquisitionError struct {
	Message string
	Cause   error
}

func (e *AcquisitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("engine acquisition failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("engine acquisition failed: %s", e.Message)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Cause
}
