// Package main provides the skillcheck CLI: validation and compilation of
// the ClickHouse best-practice rule set.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chskill/skillcheck/internal/observability"
	"github.com/chskill/skillcheck/internal/rules"
	"github.com/chskill/skillcheck/internal/structural"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate rule files against the content contract",
	Long:  "Checks every rule file for required fields, example coverage, and a valid impact level. All violations are reported before exiting.",
	RunE:  runValidate,
}

var validateRulesDir string

func init() {
	validateCmd.Flags().StringVarP(&validateRulesDir, "rules", "r", "", "Directory containing rule files (required)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	if err := requireFlag("rules", validateRulesDir); err != nil {
		return err
	}

	set, err := rules.Load(validateRulesDir)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	violations := structural.Validate(set)

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintViolations(violations)
	printer.PrintSummary("structural validation", len(violations.Violations), len(set.Files))

	if !violations.Empty() {
		return fmt.Errorf("structural validation found %d violation(s)", len(violations.Violations))
	}
	return nil
}
