package twmanifest

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yacobolo/twmanifest/internal/diag"
)

// OutputFormat selects how lint results are written.
type OutputFormat string

// Output formats
const (
	OutputIssues  OutputFormat = "issues"
	OutputSummary OutputFormat = "summary"
	OutputFull    OutputFormat = "full"
	OutputJSON    OutputFormat = "json"
)

// DetermineOutputFormat selects the output format from flags.
// Unknown formats fall back to issues, golangci-lint's default.
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	if quiet {
		return OutputIssues
	}

	switch OutputFormat(formatFlag) {
	case OutputIssues, OutputSummary, OutputFull, OutputJSON:
		return OutputFormat(formatFlag)
	}
	return OutputIssues
}

// WriteOutput writes the lint result in the specified format
func WriteOutput(w io.Writer, result *LintResult, format OutputFormat, config LintConfig) error {
	switch format {
	case OutputSummary:
		return writeSummary(w, result, diag.ShouldUseColors(config.UseColors, nil))

	case OutputFull:
		reporter := NewReporter(w, config)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(*result)
		fmt.Fprintln(w, "")
		return writeSummary(w, result, reporter.useColors)

	case OutputJSON:
		return WriteJSON(w, result)

	default:
		reporter := NewReporter(w, config)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(*result)
		return nil
	}
}

// writeSummary prints scan statistics and a table of resolved classes per
// matcher.
func writeSummary(w io.Writer, result *LintResult, useColors bool) error {
	fmt.Fprintf(w, "%s %d files, %d class candidates\n",
		diag.RenderStyle(diag.StyleCyan, "Scanned", useColors), result.FilesScanned, result.CandidatesFound)
	fmt.Fprintf(w, "%s %d manifest classes, %d resolved\n",
		diag.RenderStyle(diag.StyleGreen, "Checked", useColors), result.ManifestClasses, result.Resolved)
	if result.ErrorCount+result.WarningCount > 0 {
		fmt.Fprintf(w, "%s %s, %s\n",
			diag.RenderStyle(diag.StyleYellow, "Found", useColors),
			pluralizeCount(result.ErrorCount, "error", "errors"),
			pluralizeCount(result.WarningCount, "warning", "warnings"))
	}

	if len(result.ByMatcher) == 0 {
		return nil
	}

	names := make([]string, 0, len(result.ByMatcher))
	for name := range result.ByMatcher {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if result.ByMatcher[names[i]] != result.ByMatcher[names[j]] {
			return result.ByMatcher[names[i]] > result.ByMatcher[names[j]]
		}
		return names[i] < names[j]
	})

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("MATCHER", "USES")
	for _, name := range names {
		t.Row(name, strconv.Itoa(result.ByMatcher[name]))
	}
	if useColors {
		t.BorderStyle(diag.StyleGray)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
