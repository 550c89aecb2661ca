// Package diag renders build diagnostics and configures logging.
package diag

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/multierr"
)

// Severity of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one reported build problem.
type Diagnostic struct {
	Section  string   `json:"section"`
	Title    string   `json:"title"`
	Severity Severity `json:"severity"`
	// Problems lists the individual messages, one per aggregated error.
	Problems []string `json:"problems"`
}

// Message joins the problems into one text block.
func (d Diagnostic) Message() string {
	return strings.Join(d.Problems, "\n")
}

// Reporter prints boxed diagnostics and remembers them.
// A nil writer only collects. It is safe for concurrent use.
type Reporter struct {
	mu        sync.Mutex
	w         io.Writer
	useColors bool
	items     []Diagnostic
}

// NewReporter returns a reporter writing to w.
func NewReporter(w io.Writer, useColors bool) *Reporter {
	return &Reporter{w: w, useColors: useColors}
}

// Error reports a failure. err may be a multierr list; every element becomes
// one problem line.
func (r *Reporter) Error(section, title string, err error) {
	r.add(Diagnostic{Section: section, Title: title, Severity: SeverityError, Problems: problems(err)})
}

// Warn reports a non-fatal problem.
func (r *Reporter) Warn(section, title, msg string) {
	r.add(Diagnostic{Section: section, Title: title, Severity: SeverityWarning, Problems: []string{msg}})
}

// Diagnostics returns a copy of everything reported so far.
func (r *Reporter) Diagnostics() []Diagnostic {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.items))
	copy(out, r.items)
	return out
}

// Count returns the number of diagnostics with the given severity.
func (r *Reporter) Count(sev Severity) int {
	n := 0
	for _, d := range r.Diagnostics() {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Reset forgets collected diagnostics.
func (r *Reporter) Reset() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
}

func (r *Reporter) add(d Diagnostic) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, d)
	if r.w != nil {
		fmt.Fprintln(r.w, Render(d, r.useColors))
	}
}

// Render formats a diagnostic as a bordered box.
func Render(d Diagnostic, useColors bool) string {
	kind := "Error"
	titleStyle, box := StyleRed, StyleErrorBox
	if d.Severity == SeverityWarning {
		kind = "Warning"
		titleStyle, box = StyleYellow, StyleWarningBox
	}

	title := fmt.Sprintf("%s in TW Plugin: %s", kind, d.Title)
	body := RenderStyle(titleStyle, title, useColors) + "\n\n" + d.Message()
	if !useColors {
		return box.UnsetBorderForeground().Render(body)
	}
	return box.Render(body)
}

func problems(err error) []string {
	errs := multierr.Errors(err)
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	if len(out) == 0 {
		out = append(out, "unknown error")
	}
	return out
}
