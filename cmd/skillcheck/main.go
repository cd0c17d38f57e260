// Package main provides the skillcheck CLI: validation and compilation of
// the ClickHouse best-practice rule set.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/chskill/skillcheck/internal/config"
)

var rootCmd = &cobra.Command{
	Use:               "skillcheck",
	Short:             "Validate and compile the ClickHouse best-practices skill",
	Long:              "skillcheck validates best-practice rule files (structure, SQL, links) and compiles them into the versioned reference document.",
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentPreRunE = applyConfig
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file providing flag defaults")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print per-item progress during long-running checks")
}

// applyConfig fills flags the user left unset from the config file.
// Explicit flags always win.
func applyConfig(cmd *cobra.Command, _ []string) error {
	if configPath == "" {
		return nil
	}

	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg := loaded.MergeWithDefaults(config.Defaults())

	fillString(&validateRulesDir, cfg.RulesDir)
	fillString(&validateSQLRulesDir, cfg.RulesDir)
	fillString(&checkLinksRulesDir, cfg.RulesDir)
	fillString(&buildRulesDir, cfg.RulesDir)
	fillString(&buildMetaPath, cfg.MetaPath)
	fillString(&buildOutPath, cfg.OutPath)
	fillString(&checkExternalRoot, cfg.SkillDir)
	fillString(&validateSQLEngine, cfg.EnginePath)
	fillString(&validateSQLCacheDir, cfg.EngineCacheDir)

	flags := cmd.Flags()
	if cfg.LinkConcurrency > 0 && !flags.Changed("concurrency") {
		checkExternalConcurrency = cfg.LinkConcurrency
	}
	if cfg.LinkTimeoutSecs > 0 && !flags.Changed("timeout") {
		checkExternalTimeoutSecs = cfg.LinkTimeoutSecs
	}
	if cfg.LinkMaxRetries > 0 && !flags.Changed("max-retries") {
		checkExternalMaxRetries = cfg.LinkMaxRetries
	}
	if cfg.Verbose && !rootCmd.PersistentFlags().Changed("verbose") {
		verbose = true
	}

	return nil
}

func fillString(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

// requireFlag errors when a path is missing from both flags and config.
func requireFlag(name, value string) error {
	if value == "" {
		return fmt.Errorf("--%s is required (set it as a flag or in the config file)", name)
	}
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
