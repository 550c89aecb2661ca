package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/twmanifest"
	"github.com/yacobolo/twmanifest/internal/diag"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate the Tailwind theme and stylesheet from the manifest",
	Long: `Validate the manifest, then write the theme file and the layered stylesheet.
With content globs only the manifest classes found in content are emitted;
without them every spacing and radius token is emitted.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runGenerate,
}

func init() {
	addBuildFlags(generateCmd)
	generateCmd.Flags().Bool("lint", false, "Run linter after generation")
}

// addBuildFlags registers the content and output flags of a build.
func addBuildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSlice("content", nil, "Glob patterns of files to scan for classes")
	f.String("theme-output", defaultThemeOutput, "Theme JSON output path")
	f.String("css-output", defaultCSSOutput, "Stylesheet output path")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := buildBuildConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	defer func() { _ = log.Sync() }()
	cfg.Logger = log
	cfg.Reporter = newReporter()

	result, err := twmanifest.Build(commandContext(cmd), cfg)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if !isQuiet() {
		printBuildSummary(os.Stdout, result)
	}

	if getBoolWithFallback("lint", "generate.lint", false) {
		return runLint(cmd, nil)
	}
	return nil
}

func printBuildSummary(w io.Writer, result *twmanifest.BuildResult) {
	for _, path := range result.Written {
		fmt.Fprintf(w, "Generated %s\n", twmanifest.GetRelativePath(path))
	}
	fmt.Fprintf(w, "  Manifest: %s\n", twmanifest.GetRelativePath(result.Manifest))
	fmt.Fprintf(w, "  Matchers: %d\n", result.Matchers)
	if result.Candidates > 0 {
		fmt.Fprintf(w, "  Class candidates: %d\n", result.Candidates)
	}
	fmt.Fprintf(w, "  Classes resolved: %d\n", result.Resolved)
	for _, class := range result.Skipped {
		fmt.Fprintf(w, "  Warning: %s has an invalid value\n", class)
	}

	errs := 0
	warns := 0
	for _, d := range result.Diagnostics {
		if d.Severity == diag.SeverityError {
			errs++
		} else {
			warns++
		}
	}
	if errs+warns > 0 {
		fmt.Fprintf(w, "  Diagnostics: %d errors, %d warnings\n", errs, warns)
	}
}
