package twmanifest

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/yacobolo/twmanifest/internal/diag"
)

// Reporter handles formatting and outputting linting results
type Reporter struct {
	w               io.Writer
	useColors       bool
	printLines      bool
	printLinterName bool
}

// NewReporter creates a new reporter with the given configuration
func NewReporter(w io.Writer, config LintConfig) *Reporter {
	return &Reporter{
		w:               w,
		useColors:       diag.ShouldUseColors(config.UseColors, os.Stdout),
		printLines:      config.PrintIssuedLines,
		printLinterName: config.PrintLinterName,
	}
}

// PrintIssues outputs issues in golangci-lint format, ordered by position.
func (r *Reporter) PrintIssues(issues []Issue) {
	sorted := make([]Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Pos.Filename != sorted[j].Pos.Filename {
			return sorted[i].Pos.Filename < sorted[j].Pos.Filename
		}
		if sorted[i].Pos.Line != sorted[j].Pos.Line {
			return sorted[i].Pos.Line < sorted[j].Pos.Line
		}
		return sorted[i].Pos.Column < sorted[j].Pos.Column
	})

	for _, issue := range sorted {
		r.printIssue(issue)
	}
}

// printIssue formats a single issue in golangci-lint style
func (r *Reporter) printIssue(issue Issue) {
	// Format: file:line:col: message (linter)
	location := fmt.Sprintf("%s:%d:%d:", issue.Pos.Filename, issue.Pos.Line, issue.Pos.Column)

	linterSuffix := ""
	if r.printLinterName {
		linterSuffix = fmt.Sprintf(" (%s)", issue.FromLinter)
	}

	text := issue.Text
	if issue.Severity == SeverityError {
		text = diag.RenderStyle(diag.StyleRed, text, r.useColors)
	}
	fmt.Fprintf(r.w, "%s %s%s\n",
		diag.RenderStyle(diag.StyleCyan, location, r.useColors),
		text,
		diag.RenderStyle(diag.StyleGray, linterSuffix, r.useColors))

	if r.printLines && len(issue.SourceLines) > 0 {
		for _, line := range issue.SourceLines {
			fmt.Fprintf(r.w, "\t%s\n", line)
		}
		caret := buildCaretIndicator(issue.SourceLines[0], issue.Pos.Column)
		fmt.Fprintf(r.w, "\t%s\n", diag.RenderStyle(diag.StyleYellow, caret, r.useColors))
	}
}

// buildCaretIndicator creates the "^" indicator aligned with the column.
// Tabs in the prefix are kept so the caret lines up.
func buildCaretIndicator(sourceLine string, column int) string {
	if column <= 0 {
		return "^"
	}

	prefixLen := column - 1
	if prefixLen > len(sourceLine) {
		prefixLen = len(sourceLine)
	}

	var padding strings.Builder
	for _, ch := range sourceLine[:prefixLen] {
		if ch == '\t' {
			padding.WriteRune('\t')
		} else {
			padding.WriteRune(' ')
		}
	}

	return padding.String() + "^"
}

// PrintSummary outputs the issue count summary
func (r *Reporter) PrintSummary(result LintResult) {
	total := len(result.Issues)
	truncated := result.TruncatedCount

	fmt.Fprintln(r.w, "")

	counts := pluralizeCount(total, "issue", "issues")
	if result.ErrorCount > 0 && result.WarningCount > 0 {
		counts += fmt.Sprintf(" (%s, %s",
			pluralizeCount(result.ErrorCount, "error", "errors"),
			pluralizeCount(result.WarningCount, "warning", "warnings"))
		if truncated > 0 {
			counts += fmt.Sprintf("; %s truncated", pluralizeCount(truncated, "issue", "issues"))
		}
		counts += ")"
	} else if truncated > 0 {
		counts += fmt.Sprintf(" (%s truncated)", pluralizeCount(truncated, "issue", "issues"))
	}
	fmt.Fprintf(r.w, "%s:\n", counts)

	linterCounts := make(map[string]int)
	for _, issue := range result.Issues {
		linterCounts[issue.FromLinter]++
	}
	linters := make([]string, 0, len(linterCounts))
	for l := range linterCounts {
		linters = append(linters, l)
	}
	sort.Strings(linters)
	for _, l := range linters {
		fmt.Fprintf(r.w, "* %s: %d\n", l, linterCounts[l])
	}

	if total > 0 {
		fmt.Fprintln(r.w, "")
		fmt.Fprintln(r.w, diag.RenderStyle(diag.StyleGray, "Hint: Run with --output-format summary to see resolved classes per matcher", r.useColors))
	}
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
