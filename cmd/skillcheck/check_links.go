// Package main provides the skillcheck CLI: validation and compilation of
// the ClickHouse best-practice rule set.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chskill/skillcheck/internal/links"
	"github.com/chskill/skillcheck/internal/observability"
	"github.com/chskill/skillcheck/internal/rules"
)

var checkLinksCmd = &cobra.Command{
	Use:   "check-links",
	Short: "Verify internal cross-references between rule files",
	Long:  "Checks that every relative link in the rule set resolves to a real rule file. Anchor-only links are checked best-effort and never fail the run.",
	RunE:  runCheckLinks,
}

var checkLinksRulesDir string

func init() {
	checkLinksCmd.Flags().StringVarP(&checkLinksRulesDir, "rules", "r", "", "Directory containing rule files (required)")
	rootCmd.AddCommand(checkLinksCmd)
}

func runCheckLinks(_ *cobra.Command, _ []string) error {
	if err := requireFlag("rules", checkLinksRulesDir); err != nil {
		return err
	}

	violations, err := links.CheckInternal(checkLinksRulesDir)
	if err != nil {
		return fmt.Errorf("failed to check internal links: %w", err)
	}

	paths, err := rules.Discover(checkLinksRulesDir)
	if err != nil {
		return fmt.Errorf("failed to enumerate rule files: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintViolations(violations)
	printer.PrintSummary("internal link check", len(violations.Violations), len(paths))

	if !violations.Empty() {
		return fmt.Errorf("internal link check found %d broken link(s)", len(violations.Violations))
	}
	return nil
}
