// Package observability provides formatted report output for the
// validation and build commands.
package observability

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/chskill/skillcheck/internal/types"
)

const (
	// maxURLWidth truncates long URLs in the summary table.
	maxURLWidth = 70
)

// Printer handles formatted report output.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer that writes to the given writer.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// PrintViolations writes one block per violation with enough context to
// locate the problem: file, rule title, example label, reason.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintViolations(violations *types.Violations) {
	for _, v := range violations.Violations {
		fmt.Fprintf(p.out, "%s %s", color.RedString("✗"), v.File)
		if v.RuleTitle != "" {
			fmt.Fprintf(p.out, " — %s", v.RuleTitle)
		}
		fmt.Fprintln(p.out)
		if v.ExampleLabel != "" {
			fmt.Fprintf(p.out, "    example: %s\n", v.ExampleLabel)
		}
		fmt.Fprintf(p.out, "    [%s] %s\n", v.Type, v.Details)
	}
}

// PrintSummary writes the final pass/fail line for one validator.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSummary(name string, violationCount, checkedCount int) {
	if violationCount == 0 {
		fmt.Fprintf(p.out, "%s %s: %d checked, no violations\n",
			color.GreenString("PASS"), name, checkedCount)
		return
	}
	fmt.Fprintf(p.out, "%s %s: %d checked, %d violation(s)\n",
		color.RedString("FAIL"), name, checkedCount, violationCount)
}

// PrintWarning writes a non-fatal warning (degraded mode, skipped checks).
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintWarning(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", color.YellowString("WARN"), fmt.Sprintf(format, args...))
}

// PrintProgress writes a batch progress line for the external checker.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(done, total int) {
	fmt.Fprintf(p.out, "  checked %d/%d links\n", done, total)
}

// PrintLinkReport writes the external link summary table (failures first,
// URLs truncated for display) followed by a detailed listing of every
// failure.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintLinkReport(runID string, results []types.LinkCheckResult) {
	fmt.Fprintf(p.out, "External link check %s\n\n", runID)

	fmt.Fprintf(p.out, "%-7s %-*s %s\n", "STATUS", maxURLWidth, "URL", "SOURCE")
	for _, r := range results {
		status := color.GreenString("OK")
		if !r.Success {
			status = color.RedString("FAIL")
		}
		fmt.Fprintf(p.out, "%-7s %-*s %s\n", status, maxURLWidth, truncate(r.URL, maxURLWidth), r.SourceFile)
	}

	var failures []types.LinkCheckResult
	for _, r := range results {
		if !r.Success {
			failures = append(failures, r)
		}
	}
	if len(failures) == 0 {
		fmt.Fprintf(p.out, "\n%s all %d links reachable\n", color.GreenString("PASS"), len(results))
		return
	}

	fmt.Fprintf(p.out, "\n%d failed link(s):\n", len(failures))
	for _, r := range failures {
		fmt.Fprintf(p.out, "  %s\n", r.URL)
		if r.StatusCode != 0 {
			fmt.Fprintf(p.out, "    status:  %d\n", r.StatusCode)
		}
		if r.Error != "" {
			fmt.Fprintf(p.out, "    error:   %s\n", r.Error)
		}
		fmt.Fprintf(p.out, "    source:  %s (%s)\n", r.SourceFile, r.SourceSkill)
		fmt.Fprintf(p.out, "    retries: %d\n", r.RetriesUsed)
	}
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}
