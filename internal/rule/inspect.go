package rule

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Summary describes a parsed stylesheet.
type Summary struct {
	Rulesets     int
	AtRules      int
	Declarations int
	Classes      []string // distinct class selectors, sorted, still escaped
}

var classSelector = regexp.MustCompile(`\.((?:\\3\d |\\.|[A-Za-z0-9_-])+)`)

// Inspect parses generated CSS and returns what it contains. A syntax error
// is returned as an error.
//
// The parser only descends into rule-list at-rules such as @media; the
// content of an @layer block is opaque to it, so callers inspect layer
// bodies before wrapping them.
func Inspect(content string) (Summary, error) {
	var sum Summary
	classes := make(map[string]bool)

	p := css.NewParser(parse.NewInputString(content), false)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return sum, fmt.Errorf("generated CSS does not parse: %w", err)
			}
			sum.Classes = sortedKeys(classes)
			return sum, nil

		case css.BeginAtRuleGrammar, css.AtRuleGrammar:
			sum.AtRules++

		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			if gt == css.BeginRulesetGrammar {
				sum.Rulesets++
			}
			collectClasses(selectorText(data, p.Values()), classes)

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			sum.Declarations++
		}
	}
}

// selectorText rebuilds the selector from the first token and the rest.
func selectorText(first []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(first)
	for _, v := range values {
		sb.Write(v.Data)
	}
	return sb.String()
}

func collectClasses(selector string, into map[string]bool) {
	for _, m := range classSelector.FindAllStringSubmatch(selector, -1) {
		into[m[1]] = true
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
