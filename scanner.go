package twmanifest

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/maruel/natural"
	ignore "github.com/sabhiram/go-gitignore"
)

// Candidate is one class token found in a content file.
type Candidate struct {
	// Class is the token without variant prefixes or the important marker:
	// "md:!px-large-gap" → "px-large-gap".
	Class    string
	Raw      string
	Location FileLocation
}

// FileLocation tracks where a candidate was found
type FileLocation struct {
	File   string
	Line   int
	Column int    // 1-based column of the raw token
	Text   string // Full line content; Column indexes into it
}

// ScanStats tracks file scanning statistics
type ScanStats struct {
	FilesDiscovered int // Total files found by glob patterns
	FilesScanned    int // Files actually scanned (after filtering)
	FilesSkipped    int // Files skipped due to filtering
}

// scanPattern finds a class list; group 1 holds the list.
type scanPattern struct {
	name  string
	regex *regexp.Regexp
}

var (
	// Ordered from most specific to least specific
	patterns = []scanPattern{
		{name: "class attribute", regex: regexp.MustCompile(`\bclass(?:Name)?="([^"]+)"`)},
		{name: "class attribute single quotes", regex: regexp.MustCompile(`\bclass(?:Name)?='([^']+)'`)},
		{name: "class with string literal in braces", regex: regexp.MustCompile(`\bclass(?:Name)?=\{\s*["'` + "`" + `]([^"'` + "`" + `]+)`)},
		{name: "templ.Classes with string", regex: regexp.MustCompile(`templ\.Classes\(\s*"([^"]+)"`)},
		{name: "templ.KV with string", regex: regexp.MustCompile(`templ\.KV\(\s*"([^"]+)"`)},
		{name: "@apply", regex: regexp.MustCompile(`@apply\s+([^;]+);`)},
	}

	// Regex to detect templ.Classes with comma-separated values
	templClassesMulti = regexp.MustCompile(`templ\.Classes\(([^)]+)\)`)

	// Comment patterns to skip
	commentPattern = regexp.MustCompile(`^\s*//`)

	// A candidate starts like a class and may contain brackets, pipes and
	// fractions but no quotes or template braces.
	candidateToken = regexp.MustCompile(`^[!A-Za-z\[-][!A-Za-z0-9_:./%#\[\]|(),-]*$`)

	// gitignore caching
	gitIgnoreCache *ignore.GitIgnore
	gitIgnoreOnce  sync.Once
)

// isTemplGenerated checks if a file is a templ-generated Go file
// Handles both _templ.go and .templ.go suffix variations
func isTemplGenerated(path string) bool {
	return strings.HasSuffix(path, "_templ.go") ||
		strings.HasSuffix(path, ".templ.go")
}

// loadGitIgnore loads the .gitignore file once (thread-safe)
// Gracefully degrades if .gitignore doesn't exist
func loadGitIgnore() *ignore.GitIgnore {
	gitIgnoreOnce.Do(func() {
		gi, err := ignore.CompileIgnoreFile(".gitignore")
		if err != nil {
			gitIgnoreCache = nil
			return
		}
		gitIgnoreCache = gi
	})
	return gitIgnoreCache
}

// shouldSkipFile determines if a file should be excluded from scanning.
// Generated templ files are always skipped; relative paths are also
// checked against the project .gitignore.
func shouldSkipFile(path string) bool {
	if isTemplGenerated(path) {
		return true
	}

	// Absolute paths (like /tmp/...) should not be affected by project gitignore
	if !filepath.IsAbs(path) {
		gi := loadGitIgnore()
		if gi != nil && gi.MatchesPath(path) {
			return true
		}
	}

	return false
}

// Scan finds class candidates in files matching the given patterns.
// Files are visited in natural order; unreadable files are skipped.
func Scan(scanPatterns []string) ([]Candidate, ScanStats, error) {
	files, stats, err := expandGlobPatternsWithStats(scanPatterns)
	if err != nil {
		return nil, stats, err
	}

	var all []Candidate
	for _, file := range files {
		cands, err := scanFile(file)
		if err != nil {
			stats.FilesSkipped++
			stats.FilesScanned--
			continue
		}
		all = append(all, cands...)
	}

	return all, stats, nil
}

// UniqueClasses returns the distinct candidate classes in natural order.
func UniqueClasses(cands []Candidate) []string {
	seen := make(map[string]bool, len(cands))
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		if !seen[c.Class] {
			seen[c.Class] = true
			out = append(out, c.Class)
		}
	}
	sort.Sort(natural.StringSlice(out))
	return out
}

// expandGlobPatternsWithStats expands globs, skipping directories,
// duplicates and filtered files. Patterns starting with "!" exclude the
// files they match.
func expandGlobPatternsWithStats(patterns []string) ([]string, ScanStats, error) {
	var allFiles []string
	seen := make(map[string]bool)
	stats := ScanStats{}

	includes, excludes := splitNegated(patterns)
	for _, pattern := range excludes {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, stats, doublestar.ErrBadPattern
		}
	}

	for _, pattern := range includes {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, stats, err
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			seen[match] = true
			stats.FilesDiscovered++

			if shouldSkipFile(match) || excluded(match, excludes) {
				stats.FilesSkipped++
				continue
			}
			allFiles = append(allFiles, match)
			stats.FilesScanned++
		}
	}

	sort.Sort(natural.StringSlice(allFiles))
	return allFiles, stats, nil
}

// splitNegated separates "!pattern" exclusions from the include patterns.
func splitNegated(patterns []string) (includes, excludes []string) {
	for _, p := range patterns {
		if rest, ok := strings.CutPrefix(p, "!"); ok {
			excludes = append(excludes, rest)
			continue
		}
		includes = append(includes, p)
	}
	return includes, excludes
}

func excluded(path string, excludes []string) bool {
	for _, pattern := range excludes {
		if ok, _ := doublestar.PathMatch(pattern, path); ok {
			return true
		}
	}
	return false
}

// scanFile scans a single file for class candidates
func scanFile(filePath string) ([]Candidate, error) {
	// #nosec G304 - paths come from configured globs
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cands []Candidate
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		cands = append(cands, extractCandidatesFromLine(scanner.Text(), lineNum, filePath)...)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cands, nil
}

// extractCandidatesFromLine extracts every class token on a line.
func extractCandidatesFromLine(line string, lineNum int, file string) []Candidate {
	if commentPattern.MatchString(line) {
		return nil
	}

	loc := FileLocation{File: file, Line: lineNum, Text: strings.TrimRight(line, "\r")}

	// templ.Classes arguments are handled on their own to avoid duplicates
	if strings.Contains(line, "templ.Classes(") {
		var cands []Candidate
		for _, m := range templClassesMulti.FindAllStringSubmatchIndex(line, -1) {
			for _, arg := range stringArgs(line, m[2], m[3]) {
				cands = append(cands, splitCandidates(line[arg[0]:arg[1]], arg[0], loc)...)
			}
		}
		return cands
	}

	var cands []Candidate
	for _, pattern := range patterns {
		for _, m := range pattern.regex.FindAllStringSubmatchIndex(line, -1) {
			if len(m) < 4 {
				continue
			}
			cands = append(cands, splitCandidates(line[m[2]:m[3]], m[2], loc)...)
		}
	}
	return cands
}

// stringArgs returns the byte ranges of the double-quoted string arguments
// in line[start:end].
func stringArgs(line string, start, end int) [][2]int {
	var out [][2]int
	depth := 0
	for i := start; i < end; i++ {
		switch line[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '"':
			j := strings.IndexByte(line[i+1:end], '"')
			if j < 0 {
				return out
			}
			if depth == 0 {
				out = append(out, [2]int{i + 1, i + 1 + j})
			}
			i += j + 1
		}
	}
	return out
}

// splitCandidates splits a class list into tokens. offset is the byte
// position of value within the line.
func splitCandidates(value string, offset int, loc FileLocation) []Candidate {
	var out []Candidate
	i := 0
	for i < len(value) {
		for i < len(value) && isSpace(value[i]) {
			i++
		}
		start := i
		for i < len(value) && !isSpace(value[i]) {
			i++
		}
		if start == i {
			continue
		}
		raw := value[start:i]
		if !candidateToken.MatchString(raw) {
			continue
		}
		class := baseClass(raw)
		if class == "" {
			continue
		}
		l := loc
		l.Column = offset + start + 1
		out = append(out, Candidate{Class: class, Raw: raw, Location: l})
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// baseClass strips variants ("md:", "hover:") and the "!" marker. Colons
// inside brackets belong to the arbitrary value.
func baseClass(token string) string {
	depth, last := 0, -1
	for i := 0; i < len(token); i++ {
		switch token[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ':':
			if depth == 0 {
				last = i
			}
		}
	}
	return strings.TrimPrefix(token[last+1:], "!")
}

// GetRelativePath returns a relative path from the current working directory
func GetRelativePath(absPath string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return absPath
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil {
		return absPath
	}

	return rel
}
