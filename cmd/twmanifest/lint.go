package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/twmanifest"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Lint manifest class usage in content files",
	Long: `Check class names in content files against the manifest. Arbitrary values a
fluid matcher rejects, and tokens missing from the manifest scales or
typography styles, are reported in golangci-lint format.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runLint,
}

func init() {
	f := lintCmd.Flags()
	f.StringSlice("paths", nil, "File patterns to scan (default: content)")
	f.Bool("strict", false, "Exit 1 on any issue (CI mode)")
	f.String("output-format", "", "Output format: issues|summary|full|json")
	f.Int("max-issues-per-linter", 0, "Max issues to show per linter (0=unlimited)")
	f.Int("max-same-issues", 0, "Max repeated issues to show (0=unlimited)")
	f.Bool("print-lines", true, "Show source lines with issues")
	f.Bool("print-linter-name", true, "Show (twmanifest) suffix on issues")
}

// runLint is shared between `twmanifest lint` and `twmanifest generate --lint`.
func runLint(cmd *cobra.Command, _ []string) error {
	lintConfig, err := buildLintConfig()
	if err != nil {
		return err
	}
	if len(lintConfig.ScanPaths) == 0 {
		return fmt.Errorf("nothing to lint: set content or lint.paths")
	}
	log := newLogger()
	defer func() { _ = log.Sync() }()
	lintConfig.Logger = log
	lintConfig.Reporter = newReporter()

	lintResult, err := twmanifest.Lint(commandContext(cmd), lintConfig)
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	quiet := isQuiet()
	outputFormat := getStringWithFallback("output-format", "lint.output-format", "")
	format := twmanifest.DetermineOutputFormat(outputFormat, quiet)

	if !quiet {
		if err := twmanifest.WriteOutput(os.Stdout, lintResult, format, lintConfig); err != nil {
			return err
		}
	}

	// Exit code logic - "Soft Gate" approach
	if lintConfig.Strict {
		// Strict mode: any issue (error or warning) fails the build
		if len(lintResult.Issues) > 0 {
			os.Exit(1)
		}
	} else if lintResult.ErrorCount > 0 {
		// Default "Soft Gate" mode: only errors fail the build
		os.Exit(1)
	}

	return nil
}
