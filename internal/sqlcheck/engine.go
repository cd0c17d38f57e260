// Package sqlcheck validates SQL examples against a sandboxed ClickHouse
// engine, guarded by a deny-list of dangerous constructs.
package sqlcheck

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Engine is the injected capability used by the validator: submit one
// already-approved SQL snippet, get back nil or a validation failure.
// Using an interface keeps the validator unit-testable without a live
// binary.
type Engine interface {
	Validate(ctx context.Context, sql string) error
}

// Sandbox resource ceilings enforced by the engine itself. The caller
// imposes no secondary timeout; if the engine ignores its caps there is no
// fallback.
const (
	maxExecutionSeconds = 10
	maxMemoryBytes      = 256 * 1024 * 1024
	maxRowsToRead       = 1_000_000
)

// LocalEngine runs `clickhouse local` in a maximally restricted mode:
// read-only, DDL disabled, introspection disabled, execution time, memory
// and row-scan caps, and file/schema paths redirected to a non-existent
// directory as defense in depth behind the deny-list.
type LocalEngine struct {
	BinaryPath string
}

// NewLocalEngine wraps a clickhouse binary path.
func NewLocalEngine(binaryPath string) *LocalEngine {
	return &LocalEngine{BinaryPath: binaryPath}
}

// sandboxArgs builds the restricted invocation for one queries file.
func sandboxArgs(queriesFile, deadPath string) []string {
	return []string{
		"local",
		"--queries-file", queriesFile,
		"--readonly=2",
		"--allow_ddl=0",
		"--allow_introspection_functions=0",
		fmt.Sprintf("--max_execution_time=%d", maxExecutionSeconds),
		fmt.Sprintf("--max_memory_usage=%d", maxMemoryBytes),
		fmt.Sprintf("--max_rows_to_read=%d", maxRowsToRead),
		"--path", deadPath,
		"--user_files_path", deadPath,
	}
}

// Validate submits one SQL snippet to the engine via a temporary file.
// The temporary file is removed on every exit path. Any stderr containing
// exception/error markers is surfaced verbatim as an EngineError.
func (e *LocalEngine) Validate(ctx context.Context, sql string) error {
	tmpFile, err := os.CreateTemp("", "skillcheck-sql-*.sql")
	if err != nil {
		return &EngineError{Message: "failed to create temp query file", Cause: err}
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.WriteString(sql); err != nil {
		_ = tmpFile.Close()
		return &EngineError{Message: "failed to write temp query file", Cause: err}
	}
	if err := tmpFile.Close(); err != nil {
		return &EngineError{Message: "failed to close temp query file", Cause: err}
	}

	// A path that cannot exist; the engine finds no schema and no files there.
	deadPath := filepath.Join(os.TempDir(), "skillcheck-void", "nonexistent")

	cmd := exec.CommandContext(ctx, e.BinaryPath, sandboxArgs(tmpPath, deadPath)...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if msg := extractEngineError(stderr.String()); msg != "" {
		return &EngineError{Message: msg}
	}
	if runErr != nil {
		return &EngineError{
			Message: fmt.Sprintf("engine exited abnormally: %s", strings.TrimSpace(stderr.String())),
			Cause:   runErr,
		}
	}
	return nil
}

// extractEngineError returns the engine's error text when stderr contains
// a recognizable exception marker, or "" when the run was clean.
func extractEngineError(stderr string) string {
	for _, line := range strings.Split(stderr, "\n") {
		if strings.Contains(line, "Exception") || strings.Contains(line, "Error") {
			return strings.TrimSpace(line)
		}
	}
	return ""
}
