package twmanifest

import (
	"encoding/json"
	"io"
	"sort"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string        `json:"version"`
	Timestamp string        `json:"timestamp"`
	Summary   JSONSummary   `json:"summary"`
	Issues    []JSONIssue   `json:"issues"`
	Matchers  []JSONMatcher `json:"matchers"`
}

// JSONSummary contains high-level issue counts
type JSONSummary struct {
	TotalIssues     int `json:"total_issues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Truncated       int `json:"truncated,omitempty"`
	FilesScanned    int `json:"files_scanned"`
	Candidates      int `json:"candidates"`
	ManifestClasses int `json:"manifest_classes"`
	Resolved        int `json:"resolved"`
}

// JSONIssue represents a single linting issue
type JSONIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Linter   string `json:"linter"`
	Source   string `json:"source,omitempty"` // Optional source line
}

// JSONMatcher counts resolved uses of one matcher.
type JSONMatcher struct {
	Name string `json:"name"`
	Uses int    `json:"uses"`
}

// JSONSchemaVersion is bumped when the schema changes incompatibly.
const JSONSchemaVersion = "1.0"

// timeNow is replaced in tests.
var timeNow = time.Now

// WriteJSON writes the lint result as JSON
func WriteJSON(w io.Writer, result *LintResult) error {
	output := buildJSONOutput(result)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildJSONOutput converts LintResult to JSONOutput
func buildJSONOutput(result *LintResult) JSONOutput {
	issues := make([]JSONIssue, 0, len(result.Issues))
	for _, issue := range result.Issues {
		ji := JSONIssue{
			File:     issue.Pos.Filename,
			Line:     issue.Pos.Line,
			Column:   issue.Pos.Column,
			Severity: issue.Severity,
			Message:  issue.Text,
			Linter:   issue.FromLinter,
		}
		if len(issue.SourceLines) > 0 {
			ji.Source = issue.SourceLines[0]
		}
		issues = append(issues, ji)
	}

	matchers := make([]JSONMatcher, 0, len(result.ByMatcher))
	for name, uses := range result.ByMatcher {
		matchers = append(matchers, JSONMatcher{Name: name, Uses: uses})
	}
	sort.Slice(matchers, func(i, j int) bool {
		return matchers[i].Name < matchers[j].Name
	})

	return JSONOutput{
		Version:   JSONSchemaVersion,
		Timestamp: timeNow().UTC().Format(time.RFC3339),
		Summary: JSONSummary{
			TotalIssues:     len(result.Issues),
			Errors:          result.ErrorCount,
			Warnings:        result.WarningCount,
			Truncated:       result.TruncatedCount,
			FilesScanned:    result.FilesScanned,
			Candidates:      result.CandidatesFound,
			ManifestClasses: result.ManifestClasses,
			Resolved:        result.Resolved,
		},
		Issues:   issues,
		Matchers: matchers,
	}
}
