// Package sqlcheck validates SQL examples against a sandboxed ClickHouse
// engine, guarded by a deny-list of dangerous constructs.
package sqlcheck

import (
	"regexp"
	"strings"
)

// deniedConstructs is the single reviewable table of dangerous SQL
// constructs. Each entry matches a function-style call after comment
// stripping and whitespace normalization, so hiding a name inside a
// comment or padding it with newlines does not bypass the check.
var deniedConstructs = []string{
	// File-system access
	"file",
	"filecluster",
	// Network fetch
	"url",
	"urlcluster",
	"s3",
	"s3cluster",
	"azureblobstorage",
	"hdfs",
	// Remote databases
	"remote",
	"remotesecure",
	"mysql",
	"postgresql",
	"mongodb",
	"sqlite",
	"odbc",
	"jdbc",
	// Command execution
	"executable",
	// Cluster / remote execution
	"cluster",
	"clusterallreplicas",
	// Stdin reading
	"input",
	// Timing (side channels, hung validations)
	"sleep",
	"sleepeachrow",
	// Error-based exfiltration
	"throwif",
}

var (
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentPattern  = regexp.MustCompile(`--[^\n]*`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
	denyPattern         = buildDenyPattern()
	stdinPattern        = regexp.MustCompile(`(?:^|[^a-z0-9_])stdin(?:$|[^a-z0-9_])`)
)

func buildDenyPattern() *regexp.Regexp {
	escaped := make([]string, len(deniedConstructs))
	for i, name := range deniedConstructs {
		escaped[i] = regexp.QuoteMeta(name)
	}
	// Word boundary before the name, optional whitespace before the paren.
	return regexp.MustCompile(`(?:^|[^a-z0-9_])(` + strings.Join(escaped, "|") + `)\s*\(`)
}

// normalizeSQL strips comments and collapses whitespace before matching.
// Block comments are removed without leaving a separator: a name split as
// fi/**/le( rejoins to file( and is caught rather than slipping through.
func normalizeSQL(sql string) string {
	sql = blockCommentPattern.ReplaceAllString(sql, "")
	sql = lineCommentPattern.ReplaceAllString(sql, " ")
	sql = whitespacePattern.ReplaceAllString(sql, " ")
	return strings.ToLower(strings.TrimSpace(sql))
}

// CheckDenyList scans a SQL snippet for dangerous constructs. It returns a
// SecurityError naming the first construct found, or nil when the snippet
// is clean. This check must run before the snippet reaches the engine.
func CheckDenyList(sql string) error {
	normalized := normalizeSQL(sql)

	if m := denyPattern.FindStringSubmatch(normalized); m != nil {
		return &SecurityError{Construct: m[1]}
	}
	if stdinPattern.MatchString(normalized) {
		return &SecurityError{Construct: "stdin"}
	}
	return nil
}
