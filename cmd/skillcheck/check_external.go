// Package main provides the skillcheck CLI: validation and compilation of
// the ClickHouse best-practice rule set.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/chskill/skillcheck/internal/links"
	"github.com/chskill/skillcheck/internal/observability"
)

var checkExternalCmd = &cobra.Command{
	Use:   "check-external",
	Short: "Probe every external URL in the skill tree",
	Long: "Collects absolute HTTP(S) URLs from all markdown and JSON files under the skill tree, deduplicates them, " +
		"and probes each with HEAD/GET, retries and exponential backoff, in bounded concurrent batches.",
	RunE: runCheckExternal,
}

var (
	checkExternalRoot        string
	checkExternalConcurrency int
	checkExternalTimeoutSecs int
	checkExternalMaxRetries  int
)

func init() {
	checkExternalCmd.Flags().StringVar(&checkExternalRoot, "root", "", "Root of the skill tree (required)")
	checkExternalCmd.Flags().IntVar(&checkExternalConcurrency, "concurrency", links.DefaultBatchSize, "Number of URLs probed concurrently per batch")
	checkExternalCmd.Flags().IntVar(&checkExternalTimeoutSecs, "timeout", int(links.DefaultAttemptTimeout/time.Second), "Per-attempt timeout in seconds")
	checkExternalCmd.Flags().IntVar(&checkExternalMaxRetries, "max-retries", links.DefaultMaxRetries, "Additional attempts per URL")
	rootCmd.AddCommand(checkExternalCmd)
}

func runCheckExternal(cmd *cobra.Command, _ []string) error {
	if err := requireFlag("root", checkExternalRoot); err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)

	sources, warnings, err := links.CollectURLs(checkExternalRoot)
	if err != nil {
		return fmt.Errorf("failed to collect URLs: %w", err)
	}
	for _, w := range warnings {
		printer.PrintWarning("%s", w)
	}
	if len(sources) == 0 {
		printer.PrintSummary("external link check", 0, 0)
		return nil
	}

	checker := links.NewChecker()
	checker.BatchSize = checkExternalConcurrency
	checker.AttemptTimeout = time.Duration(checkExternalTimeoutSecs) * time.Second
	checker.MaxRetries = checkExternalMaxRetries
	if verbose {
		checker.OnProgress = printer.PrintProgress
	}

	results := checker.Check(cmd.Context(), sources)

	printer.PrintLinkReport(uuid.NewString(), results)

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("external link check found %d unreachable link(s)", failed)
	}
	return nil
}
