// Package structural validates parsed rules against the content contract:
// required fields and required example coverage.
package structural

import (
	"fmt"
	"strings"

	"github.com/chskill/skillcheck/internal/rules"
	"github.com/chskill/skillcheck/internal/types"
)

// Validate checks every rule in the set and returns the complete list of
// violations. A single malformed rule never prevents reporting problems in
// other rules; per-file parse errors are folded in as violations.
func Validate(set *rules.RuleSet) *types.Violations {
	var all []types.Violation

	for _, perr := range set.ParseErrors {
		all = append(all, types.Violation{
			Type:     types.ViolationParseError,
			Severity: "error",
			Details:  perr.Error(),
			File:     perr.File,
		})
	}

	for _, rule := range set.Rules {
		all = append(all, checkRule(rule)...)
	}

	return &types.Violations{Violations: all}
}

// checkRule runs every structural check on one rule independently.
func checkRule(rule *types.Rule) []types.Violation {
	var violations []types.Violation

	add := func(vtype, details string) {
		violations = append(violations, types.Violation{
			Type:      vtype,
			Severity:  "error",
			Details:   details,
			File:      rule.File,
			RuleTitle: rule.Title,
		})
	}

	if strings.TrimSpace(rule.Title) == "" {
		add(types.ViolationMissingTitle, "rule has no title")
	}
	if strings.TrimSpace(rule.Explanation) == "" {
		add(types.ViolationMissingBody, "rule has no explanation body")
	}
	if _, ok := types.ParseImpact(string(rule.Impact)); !ok {
		add(types.ViolationInvalidImpact, fmt.Sprintf("impact %q is not one of critical/high/medium/low", rule.Impact))
	}

	// A rule with no examples at all gets one violation, not one per
	// missing example kind.
	if len(rule.Examples) == 0 {
		add(types.ViolationMissingCode, "rule has no examples or code blocks")
		return violations
	}

	if !rule.HasNegativeExample() {
		add(types.ViolationMissingNegative, "rule has no negative example (incorrect/wrong/bad)")
	}
	if !rule.HasPositiveExample() {
		add(types.ViolationMissingPositive, "rule has no positive example (correct/good/usage/example)")
	}
	if !rule.HasNonEmptyCode() {
		add(types.ViolationMissingCode, "rule has no example with a non-empty code block")
	}

	return violations
}
