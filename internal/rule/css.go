package rule

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/yacobolo/twmanifest/internal/units"
)

// DefaultScreens are Tailwind's default breakpoints for the screens the
// manifest uses.
var DefaultScreens = map[string]string{
	"sm": "640px",
	"lg": "1024px",
}

// RenderOptions controls CSS serialisation.
type RenderOptions struct {
	// Screens maps "@screen <name>" keys to min-width breakpoints.
	// Unknown screens are written as-is for Tailwind to expand.
	Screens map[string]string
	// Theme resolves theme(path) references. Unresolved references are kept.
	Theme *Rule
}

// unitless lists properties whose numeric values are written without px.
var unitless = map[string]bool{
	"animation-iteration-count": true,
	"border-image-outset":       true,
	"border-image-slice":        true,
	"border-image-width":        true,
	"column-count":              true,
	"columns":                   true,
	"flex":                      true,
	"flex-grow":                 true,
	"flex-shrink":               true,
	"font-weight":               true,
	"line-clamp":                true,
	"line-height":               true,
	"opacity":                   true,
	"order":                     true,
	"orphans":                   true,
	"tab-size":                  true,
	"widows":                    true,
	"z-index":                   true,
	"zoom":                      true,
	"fill-opacity":              true,
	"stroke-opacity":            true,
	"stroke-width":              true,
}

var themeRef = regexp.MustCompile(`theme\(\s*["']?([^"')]+?)["']?\s*\)`)

type declaration struct {
	prop  string
	value string
}

type block struct {
	atRules  []string
	selector string
	decls    []declaration
}

// Render writes rules as CSS wrapped in "@layer <layer>" when layer is not empty.
// Top-level keys of r are selectors; nested "&" selectors, "@screen" keys and
// other at-rules are flattened.
func Render(w io.Writer, layer string, r *Rule, opts RenderOptions) error {
	var blocks []block
	for _, e := range r.Entries() {
		child, ok := e.Value.(*Rule)
		if !ok {
			return fmt.Errorf("top-level key %q must hold a rule object, got %T", e.Key, e.Value)
		}
		flatten(e.Key, nil, child, opts, &blocks)
	}

	indent := ""
	if layer != "" {
		if _, err := fmt.Fprintf(w, "@layer %s {\n", layer); err != nil {
			return err
		}
		indent = "  "
	}

	for _, b := range blocks {
		if len(b.decls) == 0 {
			continue
		}
		if err := writeBlock(w, indent, b); err != nil {
			return err
		}
	}

	if layer != "" {
		if _, err := io.WriteString(w, "}\n"); err != nil {
			return err
		}
	}
	return nil
}

func writeBlock(w io.Writer, indent string, b block) error {
	var sb strings.Builder
	pad := indent
	for _, at := range b.atRules {
		fmt.Fprintf(&sb, "%s%s {\n", pad, at)
		pad += "  "
	}
	fmt.Fprintf(&sb, "%s%s {\n", pad, b.selector)
	for _, d := range b.decls {
		fmt.Fprintf(&sb, "%s  %s: %s;\n", pad, d.prop, d.value)
	}
	fmt.Fprintf(&sb, "%s}\n", pad)
	for range b.atRules {
		pad = pad[:len(pad)-2]
		fmt.Fprintf(&sb, "%s}\n", pad)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func flatten(selector string, atRules []string, r *Rule, opts RenderOptions, out *[]block) {
	idx := len(*out)
	*out = append(*out, block{atRules: atRules, selector: selector})

	for _, e := range r.Entries() {
		switch v := e.Value.(type) {
		case *Rule:
			if strings.HasPrefix(e.Key, "@") {
				nested := append(append([]string{}, atRules...), atRule(e.Key, opts))
				flatten(selector, nested, v, opts, out)
				continue
			}
			flatten(NestSelector(selector, e.Key), atRules, v, opts, out)
		default:
			prop := PropertyName(e.Key)
			(*out)[idx].decls = append((*out)[idx].decls, declaration{
				prop:  prop,
				value: resolveTheme(FormatValue(prop, v), opts.Theme),
			})
		}
	}
}

func atRule(key string, opts RenderOptions) string {
	name, ok := strings.CutPrefix(key, "@screen ")
	if !ok {
		return key
	}
	name = strings.TrimSpace(name)
	if width, ok := opts.Screens[name]; ok {
		return fmt.Sprintf("@media (min-width: %s)", width)
	}
	return key
}

// NestSelector combines a parent selector with a nested one. "&" is replaced
// by the parent; nested selectors without "&" become descendants. Comma
// separated lists on either side are crossed.
func NestSelector(parent, child string) string {
	if parent == "" {
		return child
	}
	parents := SplitSelectors(parent)
	children := SplitSelectors(child)
	out := make([]string, 0, len(parents)*len(children))
	for _, c := range children {
		for _, p := range parents {
			if strings.Contains(c, "&") {
				out = append(out, strings.ReplaceAll(c, "&", p))
			} else {
				out = append(out, p+" "+c)
			}
		}
	}
	return strings.Join(out, ", ")
}

// SplitSelectors splits a selector list on top-level commas.
func SplitSelectors(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

// PropertyName converts a camelCase property to its CSS spelling. Custom
// properties and already dashed names pass through.
func PropertyName(key string) string {
	if strings.HasPrefix(key, "--") {
		return key
	}
	var b strings.Builder
	for _, r := range key {
		if unicode.IsUpper(r) {
			// A leading capital is a vendor prefix: WebkitAppearance → -webkit-appearance.
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatValue renders a declaration value. Numbers get a px unit unless the
// property is unitless or the number is zero.
func FormatValue(prop string, v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return withUnit(prop, val)
	case int:
		return withUnit(prop, float64(val))
	case bool:
		if val {
			return "true"
		}
		return "false"
	}
	return fmt.Sprint(v)
}

func withUnit(prop string, v float64) string {
	s := units.FormatNumber(v)
	if v == 0 || unitless[prop] || strings.HasPrefix(prop, "--") {
		return s
	}
	return s + "px"
}

func resolveTheme(value string, theme *Rule) string {
	if theme == nil || !strings.Contains(value, "theme(") {
		return value
	}
	return themeRef.ReplaceAllStringFunc(value, func(m string) string {
		path := themeRef.FindStringSubmatch(m)[1]
		for _, candidate := range []string{path, "extend." + path} {
			if v, ok := theme.Lookup(candidate); ok {
				if _, nested := v.(*Rule); !nested {
					return FormatValue("", v)
				}
			}
		}
		return m
	})
}

// EscapeClass escapes a class name for use in a selector.
func EscapeClass(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_', r > 0x7f:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				fmt.Fprintf(&b, "\\3%c ", r)
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
