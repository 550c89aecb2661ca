package twmanifest

// Issue represents a single linting violation in golangci-lint format
type Issue struct {
	FromLinter  string     `json:"FromLinter"`  // "twmanifest"
	Text        string     `json:"Text"`        // "invalid value in \"fluid-text-[0|24]\": ..."
	Severity    string     `json:"Severity"`    // "warning", "error"
	SourceLines []string   `json:"SourceLines"` // Lines of code with issue
	Pos         IssuePos   `json:"Pos"`         // File location
	LineRange   *LineRange `json:"LineRange"`   // Optional range
}

// IssuePos specifies the exact location of an issue
type IssuePos struct {
	Filename string `json:"Filename"` // "web/components/card.templ"
	Line     int    `json:"Line"`     // 35
	Column   int    `json:"Column"`   // 15 (1-based, exact start of the class token)
}

// LineRange specifies a range of lines
type LineRange struct {
	From int `json:"From"`
	To   int `json:"To"`
}

// IssueSeverity constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// LinterName is reported as FromLinter.
const LinterName = "twmanifest"

// Issue texts
const (
	IssueInvalidValue     = "invalid value in %q: %v"
	IssueArbitraryOnly    = "%q: %s only accepts arbitrary values (%s-[...])"
	IssueUnknownToken     = "%q: %q is not a manifest token for %s"
	IssueUnknownTextStyle = "%q: no typography style %q in the manifest"
)
