// Package plugin collects generated styles the way a Tailwind plugin
// registers them: base styles, component classes, and matchers that turn a
// class candidate such as "rounded-lg" or "fluid-text-[16|24]" into CSS.
package plugin

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/yacobolo/twmanifest/internal/rule"
)

// Layer is a Tailwind cascade layer.
type Layer string

const (
	LayerBase       Layer = "base"
	LayerComponents Layer = "components"
	LayerUtilities  Layer = "utilities"
)

// Layers lists the layers in output order.
var Layers = []Layer{LayerBase, LayerComponents, LayerUtilities}

// DefaultToken is the value key used for a matcher's bare class name
// ("rounded" instead of "rounded-<token>").
const DefaultToken = "DEFAULT"

var (
	// ErrNoMatcher means no matcher is registered for the class.
	ErrNoMatcher = errors.New("no matcher for class")
	// ErrUnknownToken means the matcher exists but has no such value.
	ErrUnknownToken = errors.New("unknown token")
)

// MatchFunc returns the declarations for one matched value. value is the
// registered theme value for token classes or the raw string inside the
// brackets for arbitrary classes. An error rejects the candidate.
type MatchFunc func(value any) (*rule.Rule, error)

// Matcher is a registered utility or component matcher.
type Matcher struct {
	Name  string
	Layer Layer
	Fn    MatchFunc
	// Values maps tokens to values in order. Nil accepts arbitrary values only.
	Values *rule.Rule
}

// Plugin accumulates registrations. It is not safe for concurrent mutation.
type Plugin struct {
	theme      *rule.Rule
	base       *rule.Rule
	components *rule.Rule
	utilities  *rule.Rule
	matchers   []*Matcher
	byName     map[string]*Matcher
}

// New returns an empty plugin.
func New() *Plugin {
	return &Plugin{
		theme:      rule.New(),
		base:       rule.New(),
		components: rule.New(),
		utilities:  rule.New(),
		byName:     make(map[string]*Matcher),
	}
}

// Theme returns the theme configuration.
func (p *Plugin) Theme() *rule.Rule {
	return p.theme
}

// SetTheme stores value at a dot separated theme path.
func (p *Plugin) SetTheme(path string, value any) {
	p.theme.SetPath(path, value)
}

// ThemeValue looks up a theme path.
func (p *Plugin) ThemeValue(path string) (any, bool) {
	return p.theme.Lookup(path)
}

// AddBase registers element styles.
func (p *Plugin) AddBase(r *rule.Rule) {
	mergeSelectors(p.base, r)
}

// AddComponents registers component classes.
func (p *Plugin) AddComponents(r *rule.Rule) {
	mergeSelectors(p.components, r)
}

// AddUtilities registers static utility classes.
func (p *Plugin) AddUtilities(r *rule.Rule) {
	mergeSelectors(p.utilities, r)
}

// MatchUtility registers a value-bound utility matcher.
func (p *Plugin) MatchUtility(name string, fn MatchFunc, values *rule.Rule) {
	p.register(&Matcher{Name: name, Layer: LayerUtilities, Fn: fn, Values: values})
}

// MatchComponent registers a component matcher. values may be nil.
func (p *Plugin) MatchComponent(name string, fn MatchFunc, values *rule.Rule) {
	p.register(&Matcher{Name: name, Layer: LayerComponents, Fn: fn, Values: values})
}

func (p *Plugin) register(m *Matcher) {
	if prev, ok := p.byName[m.Name]; ok {
		*prev = *m
		return
	}
	p.matchers = append(p.matchers, m)
	p.byName[m.Name] = m
}

// Matchers returns the registered matchers in registration order.
func (p *Plugin) Matchers() []*Matcher {
	out := make([]*Matcher, len(p.matchers))
	copy(out, p.matchers)
	return out
}

// Matcher returns the matcher registered under name.
func (p *Plugin) Matcher(name string) (*Matcher, bool) {
	m, ok := p.byName[name]
	return m, ok
}

// Sheet returns a copy of the static registrations.
func (p *Plugin) Sheet() *Sheet {
	return &Sheet{
		Base:       p.base.Clone(),
		Components: p.components.Clone(),
		Utilities:  p.utilities.Clone(),
	}
}

// Match is a resolved class candidate.
type Match struct {
	Class   string
	Matcher string
	Layer   Layer
	// Rule maps the escaped class selector to its declarations.
	Rule *rule.Rule
}

// Resolve turns a class candidate into CSS. Arbitrary candidates
// ("name-[value]") pass the bracket content, with underscores read as
// spaces, to the matcher. Token candidates try the longest matcher name
// first. A bare matcher name resolves its DEFAULT value.
func (p *Plugin) Resolve(class string) (*Match, error) {
	if name, arg, ok := SplitArbitrary(class); ok {
		m, found := p.byName[name]
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrNoMatcher, class)
		}
		return p.apply(m, class, strings.ReplaceAll(arg, "_", " "))
	}

	if m, ok := p.byName[class]; ok && m.Values != nil {
		if v, ok := m.Values.Get(DefaultToken); ok {
			return p.apply(m, class, v)
		}
	}

	var tokenErr error
	for i := len(class) - 1; i > 0; i-- {
		if class[i] != '-' {
			continue
		}
		m, ok := p.byName[class[:i]]
		if !ok {
			continue
		}
		token := class[i+1:]
		if m.Values == nil {
			tokenErr = fmt.Errorf("%w: %s accepts arbitrary values only", ErrUnknownToken, m.Name)
			continue
		}
		v, ok := m.Values.Get(token)
		if !ok {
			tokenErr = fmt.Errorf("%w: %q for %s", ErrUnknownToken, token, m.Name)
			continue
		}
		return p.apply(m, class, v)
	}
	if tokenErr != nil {
		return nil, tokenErr
	}
	return nil, fmt.Errorf("%w: %s", ErrNoMatcher, class)
}

func (p *Plugin) apply(m *Matcher, class string, value any) (*Match, error) {
	decls, err := m.Fn(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", class, err)
	}
	if decls == nil || decls.Len() == 0 {
		return nil, fmt.Errorf("%s: matcher %s produced no declarations", class, m.Name)
	}
	r := rule.New().Set("."+rule.EscapeClass(class), decls)
	return &Match{Class: class, Matcher: m.Name, Layer: m.Layer, Rule: r}, nil
}

// Expand resolves every token of every value-bound matcher, in registration
// order. Errors from individual tokens are combined; the rest still resolve.
func (p *Plugin) Expand() ([]*Match, error) {
	var (
		out  []*Match
		errs error
	)
	for _, m := range p.matchers {
		for _, e := range m.Values.Entries() {
			class := m.Name
			if e.Key != DefaultToken {
				class += "-" + e.Key
			}
			match, err := p.apply(m, class, e.Value)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			out = append(out, match)
		}
	}
	return out, errs
}

// SplitArbitrary splits "name-[value]" into name and value.
func SplitArbitrary(class string) (name, value string, ok bool) {
	if !strings.HasSuffix(class, "]") {
		return "", "", false
	}
	i := strings.Index(class, "-[")
	if i <= 0 {
		return "", "", false
	}
	return class[:i], class[i+2 : len(class)-1], true
}

func mergeSelectors(dst, src *rule.Rule) {
	for _, e := range src.Entries() {
		child, ok := e.Value.(*rule.Rule)
		if !ok {
			dst.Set(e.Key, e.Value)
			continue
		}
		if existing, ok := dst.Get(e.Key); ok {
			if er, ok := existing.(*rule.Rule); ok {
				er.Merge(child)
				continue
			}
		}
		dst.Set(e.Key, child.Clone())
	}
}
