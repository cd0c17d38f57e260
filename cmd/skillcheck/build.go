// Package main provides the skillcheck CLI: validation and compilation of
// the ClickHouse best-practice rule set.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chskill/skillcheck/internal/compile"
	"github.com/chskill/skillcheck/internal/observability"
	"github.com/chskill/skillcheck/internal/rules"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the rule set into the reference document",
	Long: "Groups rules into declared sections, numbers them deterministically, and emits the compiled markdown document " +
		"with a generated table of contents. With --upgrade the patch version is bumped and persisted before emission.",
	RunE: runBuild,
}

var (
	buildRulesDir string
	buildMetaPath string
	buildOutPath  string
	buildUpgrade  bool
)

func init() {
	buildCmd.Flags().StringVarP(&buildRulesDir, "rules", "r", "", "Directory containing rule files (required)")
	buildCmd.Flags().StringVarP(&buildMetaPath, "meta", "m", "", "Path to skill metadata JSON (required)")
	buildCmd.Flags().StringVarP(&buildOutPath, "out", "o", "", "Compiled document output path (required)")
	buildCmd.Flags().BoolVar(&buildUpgrade, "upgrade", false, "Bump the patch version before building")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(_ *cobra.Command, _ []string) error {
	for name, value := range map[string]string{
		"rules": buildRulesDir, "meta": buildMetaPath, "out": buildOutPath,
	} {
		if err := requireFlag(name, value); err != nil {
			return err
		}
	}

	printer := observability.NewPrinter(os.Stdout)

	set, err := rules.Load(buildRulesDir)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	if len(set.ParseErrors) > 0 {
		for _, perr := range set.ParseErrors {
			printer.PrintWarning("%v", perr)
		}
		return fmt.Errorf("cannot build: %d rule file(s) failed to parse", len(set.ParseErrors))
	}

	if buildUpgrade {
		next, err := compile.UpgradeVersion(buildMetaPath)
		if err != nil {
			return fmt.Errorf("failed to upgrade version: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Version bumped to %s\n", next)
	}

	meta, err := compile.LoadMeta(buildMetaPath)
	if err != nil {
		return fmt.Errorf("failed to load metadata: %w", err)
	}

	doc, err := compile.Compile(set, meta)
	if err != nil {
		return fmt.Errorf("failed to compile document: %w", err)
	}

	outDir := filepath.Dir(buildOutPath)
	if outDir != "" && outDir != "." {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(buildOutPath, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write compiled document: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Compiled %d rule(s) into %s (version %s)\n", len(set.Rules), buildOutPath, meta.Version)
	return nil
}
