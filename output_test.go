package twmanifest

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermineOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		formatFlag string
		quiet      bool
		expected   OutputFormat
	}{
		{"explicit quiet flag", "", true, OutputIssues},
		{"explicit issues format", "issues", false, OutputIssues},
		{"explicit summary format", "summary", false, OutputSummary},
		{"explicit full format", "full", false, OutputFull},
		{"explicit json format", "json", false, OutputJSON},
		{"unknown format falls back to issues", "markdown", false, OutputIssues},
		{"default format is issues", "", false, OutputIssues},
		{"quiet overrides format flag", "json", true, OutputIssues},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetermineOutputFormat(tt.formatFlag, tt.quiet))
		})
	}
}

func sampleLintResult() *LintResult {
	return &LintResult{
		FilesScanned:    3,
		CandidatesFound: 40,
		ManifestClasses: 12,
		Resolved:        10,
		ErrorCount:      1,
		WarningCount:    1,
		ByMatcher:       map[string]int{"rounded": 4, "text": 6},
		Issues: []Issue{
			{
				FromLinter:  LinterName,
				Text:        `"fluid-text-large": fluid-text only accepts arbitrary values (fluid-text-[...])`,
				Severity:    SeverityError,
				SourceLines: []string{`<p class="fluid-text-large">`},
				Pos:         IssuePos{Filename: "page.templ", Line: 4, Column: 11},
			},
			{
				FromLinter: LinterName,
				Text:       `"rounded-huge": "huge" is not a manifest token for rounded`,
				Severity:   SeverityWarning,
				Pos:        IssuePos{Filename: "page.templ", Line: 9, Column: 3},
			},
		},
	}
}

func TestWriteOutput_AllFormats(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	result := sampleLintResult()
	config := LintConfig{PrintIssuedLines: true, PrintLinterName: true}

	tests := []struct {
		name           string
		format         OutputFormat
		expectedInside []string
	}{
		{
			name:           "issues format",
			format:         OutputIssues,
			expectedInside: []string{"page.templ:4:11:", "fluid-text-large", "2 issues (1 error, 1 warning):"},
		},
		{
			name:           "summary format",
			format:         OutputSummary,
			expectedInside: []string{"Scanned 3 files, 40 class candidates", "Checked 12 manifest classes, 10 resolved", "MATCHER", "rounded"},
		},
		{
			name:           "full format",
			format:         OutputFull,
			expectedInside: []string{"page.templ:9:3:", "2 issues", "MATCHER"},
		},
		{
			name:           "json format",
			format:         OutputJSON,
			expectedInside: []string{`"version"`, `"summary"`, `"issues"`, `"matchers"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteOutput(&buf, result, tt.format, config))
			for _, expected := range tt.expectedInside {
				assert.Contains(t, buf.String(), expected, "format %s", tt.format)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = time.Now })

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleLintResult()))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, JSONSchemaVersion, out.Version)
	assert.Equal(t, "2026-03-01T12:00:00Z", out.Timestamp)
	assert.Equal(t, JSONSummary{
		TotalIssues:     2,
		Errors:          1,
		Warnings:        1,
		FilesScanned:    3,
		Candidates:      40,
		ManifestClasses: 12,
		Resolved:        10,
	}, out.Summary)
	assert.Equal(t, []JSONMatcher{{Name: "rounded", Uses: 4}, {Name: "text", Uses: 6}}, out.Matchers)

	require.Len(t, out.Issues, 2)
	assert.Equal(t, JSONIssue{
		File:     "page.templ",
		Line:     4,
		Column:   11,
		Severity: SeverityError,
		Message:  `"fluid-text-large": fluid-text only accepts arbitrary values (fluid-text-[...])`,
		Linter:   LinterName,
		Source:   `<p class="fluid-text-large">`,
	}, out.Issues[0])
	assert.Empty(t, out.Issues[1].Source)
}

func TestJSONOutputSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, &LintResult{}))

	var output map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	for _, key := range []string{"version", "timestamp", "summary", "issues", "matchers"} {
		assert.Contains(t, output, key)
	}
	summary := output["summary"].(map[string]any)
	for _, key := range []string{"total_issues", "errors", "warnings", "files_scanned", "candidates", "manifest_classes", "resolved"} {
		assert.Contains(t, summary, key)
	}
	assert.NotContains(t, summary, "truncated")
	assert.Equal(t, []any{}, output["issues"])
}
