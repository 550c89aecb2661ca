package twmanifest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/yacobolo/twmanifest/internal/diag"
	"github.com/yacobolo/twmanifest/internal/manifest"
	"github.com/yacobolo/twmanifest/internal/plugin"
)

// LintConfig holds linting configuration
type LintConfig struct {
	Source    manifest.Source
	Cache     *manifest.Cache
	Options   Options
	ScanPaths []string // Patterns to scan (e.g., "web/**/*.templ")
	Strict    bool     // Exit with code 1 if any issue is found

	// golangci-style output configuration
	MaxIssuesPerLinter int  // 0 = unlimited (default)
	MaxSameIssues      int  // 0 = unlimited (default)
	PrintIssuedLines   bool // Show source lines with issues (default: true)
	PrintLinterName    bool // Show (twmanifest) suffix (default: true)
	UseColors          bool // Enable color output (default: auto-detect)

	Reporter *diag.Reporter
	Logger   *zap.Logger
}

// LintResult contains linting analysis results
type LintResult struct {
	Issues []Issue

	FilesScanned    int
	FilesSkipped    int
	CandidatesFound int // Class tokens found in content
	ManifestClasses int // Candidates owned by a manifest matcher or style
	Resolved        int // Manifest candidates that produce CSS
	ErrorCount      int
	WarningCount    int
	TruncatedCount  int // Issues removed due to limits

	// ByMatcher counts resolved candidates per matcher or component family.
	ByMatcher map[string]int

	Diagnostics []diag.Diagnostic
}

// tailwindScale matches tokens Tailwind's default theme already provides.
var tailwindScale = regexp.MustCompile(`^(\d+(\.\d+)?|\d+/\d+|px|full|auto|none|screen|min|max|fit|xs|sm|md|lg|\d?xl)$`)

// classCheck is the outcome for one distinct class.
type classCheck struct {
	owner    string // matcher or family; empty for classes the manifest does not own
	resolved bool
	severity string
	text     string
}

// Lint resolves every class candidate in the scanned files against the
// manifest registrations and reports the ones a manifest matcher rejects.
// Classes no manifest matcher owns are left to Tailwind.
func Lint(ctx context.Context, config LintConfig) (*LintResult, error) {
	log := diag.OrNop(config.Logger).Named("lint")
	reporter := config.Reporter
	if reporter == nil {
		reporter = diag.NewReporter(nil, false)
	}

	m, err := loadManifest(ctx, config.Source, config.Cache, reporter)
	if err != nil {
		return nil, err
	}
	p := Assemble(m, config.Options, reporter, log)
	styles := textStyles(p.Sheet())

	cands, stats, err := Scan(config.ScanPaths)
	if err != nil {
		return nil, fmt.Errorf("failed to scan files: %w", err)
	}

	result := &LintResult{
		FilesScanned:    stats.FilesScanned,
		FilesSkipped:    stats.FilesSkipped,
		CandidatesFound: len(cands),
		ByMatcher:       make(map[string]int),
	}

	checked := make(map[string]classCheck)
	for _, c := range cands {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		check, seen := checked[c.Class]
		if !seen {
			check = checkClass(p, styles, c.Class)
			checked[c.Class] = check
		}
		if check.owner == "" {
			continue
		}
		result.ManifestClasses++
		if check.resolved {
			result.Resolved++
			result.ByMatcher[check.owner]++
			continue
		}
		result.Issues = append(result.Issues, Issue{
			FromLinter:  LinterName,
			Text:        check.text,
			Severity:    check.severity,
			SourceLines: []string{c.Location.Text},
			Pos: IssuePos{
				Filename: c.Location.File,
				Line:     c.Location.Line,
				Column:   c.Location.Column,
			},
		})
	}

	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityError:
			result.ErrorCount++
		case SeverityWarning:
			result.WarningCount++
		}
	}

	if config.MaxIssuesPerLinter > 0 || config.MaxSameIssues > 0 {
		result.Issues, result.TruncatedCount = limitIssues(result.Issues, config)
	}

	result.Diagnostics = reporter.Diagnostics()
	log.Debug("lint finished",
		zap.Int("candidates", result.CandidatesFound),
		zap.Int("manifest", result.ManifestClasses),
		zap.Int("issues", len(result.Issues)))
	return result, nil
}

// checkClass classifies one class against the registrations.
func checkClass(p *plugin.Plugin, styles map[string]bool, class string) classCheck {
	if name, _, ok := plugin.SplitArbitrary(class); ok {
		if _, owned := p.Matcher(name); !owned {
			return classCheck{}
		}
		if _, err := p.Resolve(class); err != nil {
			return classCheck{owner: name, severity: SeverityError,
				text: fmt.Sprintf(IssueInvalidValue, class, errors.Unwrap(err))}
		}
		return classCheck{owner: name, resolved: true}
	}

	match, err := p.Resolve(class)
	switch {
	case err == nil:
		return classCheck{owner: match.Matcher, resolved: true}

	case errors.Is(err, plugin.ErrUnknownToken):
		m, token := owningMatcher(p, class)
		if m == nil {
			return classCheck{}
		}
		if m.Values == nil {
			return classCheck{owner: m.Name, severity: SeverityError,
				text: fmt.Sprintf(IssueArbitraryOnly, class, m.Name, m.Name)}
		}
		if tailwindScale.MatchString(token) {
			return classCheck{}
		}
		return classCheck{owner: m.Name, severity: SeverityWarning,
			text: fmt.Sprintf(IssueUnknownToken, class, token, m.Name)}
	}

	kind, ok := strings.CutPrefix(class, "text-")
	if !ok {
		return classCheck{}
	}
	if styles[kind] {
		return classCheck{owner: "text", resolved: true}
	}
	if sameFamily(kind, styles) {
		return classCheck{owner: "text", severity: SeverityWarning,
			text: fmt.Sprintf(IssueUnknownTextStyle, class, kind)}
	}
	return classCheck{}
}

// owningMatcher returns the longest registered matcher prefixing class.
func owningMatcher(p *plugin.Plugin, class string) (*plugin.Matcher, string) {
	for i := len(class) - 1; i > 0; i-- {
		if class[i] != '-' {
			continue
		}
		if m, ok := p.Matcher(class[:i]); ok {
			return m, class[i+1:]
		}
	}
	return nil, ""
}

// textStyles returns the kinds of the registered .text-<kind> components.
func textStyles(sheet *plugin.Sheet) map[string]bool {
	out := make(map[string]bool)
	for _, key := range sheet.Components.Keys() {
		if kind, ok := strings.CutPrefix(key, ".text-"); ok {
			out[kind] = true
		}
	}
	return out
}

// sameFamily reports whether kind shares its first word with a known style,
// as "heading-7" does with "heading-1".
func sameFamily(kind string, styles map[string]bool) bool {
	family, _, _ := strings.Cut(kind, "-")
	for known := range styles {
		if f, _, _ := strings.Cut(known, "-"); f == family {
			return true
		}
	}
	return false
}

// limitIssues applies max-issues-per-linter and max-same-issues.
func limitIssues(issues []Issue, config LintConfig) ([]Issue, int) {
	originalCount := len(issues)

	if config.MaxIssuesPerLinter > 0 && len(issues) > config.MaxIssuesPerLinter {
		issues = issues[:config.MaxIssuesPerLinter]
	}

	if config.MaxSameIssues > 0 {
		issues = deduplicateSameIssues(issues, config.MaxSameIssues)
	}

	return issues, originalCount - len(issues)
}

// deduplicateSameIssues limits how many times the same message appears
func deduplicateSameIssues(issues []Issue, maxSame int) []Issue {
	messageCounts := make(map[string]int)
	var filtered []Issue

	for _, issue := range issues {
		count := messageCounts[issue.Text]
		if count < maxSame {
			filtered = append(filtered, issue)
			messageCounts[issue.Text]++
		}
	}

	return filtered
}
