// Package sqlcheck validates SQL examples against a sandboxed ClickHouse
// engine, guarded by a deny-list of dangerous constructs.
package sqlcheck

import (
	"context"
	"errors"
	"strings"

	"github.com/chskill/skillcheck/internal/rules"
	"github.com/chskill/skillcheck/internal/types"
)

// Validate runs every SQL-labeled example in the rule set through the
// deny-list guard and then the engine, serially, one snippet at a time.
// Every failing snippet is reported; a failure never stops the batch.
// Examples declaring a non-SQL language are skipped.
func Validate(ctx context.Context, set *rules.RuleSet, engine Engine) *types.Violations {
	var all []types.Violation

	for _, rule := range set.Rules {
		for _, example := range rule.Examples {
			if !example.IsSQL() || strings.TrimSpace(example.Code) == "" {
				continue
			}

			violation, ok := checkSnippet(ctx, engine, example.Code)
			if !ok {
				continue
			}
			violation.File = rule.File
			violation.RuleTitle = rule.Title
			violation.ExampleLabel = example.Label
			all = append(all, violation)
		}
	}

	return &types.Violations{Violations: all}
}

// checkSnippet classifies one snippet. The deny-list runs first; a match
// means the snippet never reaches the engine.
func checkSnippet(ctx context.Context, engine Engine, sql string) (types.Violation, bool) {
	if err := CheckDenyList(sql); err != nil {
		return types.Violation{
			Type:     types.ViolationSecurity,
			Severity: "error",
			Details:  err.Error(),
		}, true
	}

	err := engine.Validate(ctx, sql)
	if err == nil {
		return types.Violation{}, false
	}

	var engineErr *EngineError
	details := err.Error()
	if errors.As(err, &engineErr) {
		details = engineErr.Message
	}
	return types.Violation{
		Type:     types.ViolationEngineError,
		Severity: "error",
		Details:  details,
	}, true
}
