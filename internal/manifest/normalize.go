package manifest

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/gosimple/slug"
)

// Kebab turns a design-tool name into a lowercase, dash separated token.
//
// Words are split on spaces, slashes, underscores, punctuation and
// lower→upper camel boundaries. Letters and digits are not split, so
// "2XS" stays "2xs" and "Heading 1" becomes "heading-1". Non-ASCII letters
// are transliterated. Symbols such as "&" and "@" separate words and are
// not spelled out.
func Kebab(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		switch {
		case r == '\'' || r == '’':
			continue
		case !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r):
			b.WriteRune(' ')
			continue
		}
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}

	out := slug.Make(b.String())
	out = strings.ReplaceAll(out, "_", "-")
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	return strings.Trim(out, "-")
}

// HasPrefixFold reports whether s starts with prefix, ignoring case.
func HasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// StripPrefix removes the first matching prefix (case-insensitive).
func StripPrefix(key string, prefixes ...string) (string, bool) {
	for _, p := range prefixes {
		if HasPrefixFold(key, p) {
			return key[len(p):], true
		}
	}
	return key, false
}

// PathToken normalizes the remainder of a manifest path: slash separated
// segments are kebab-cased and joined with dashes.
func PathToken(rest string) string {
	return Kebab(strings.ReplaceAll(rest, "/", " "))
}

// Collision records two manifest keys that normalized to the same token.
type Collision struct {
	Token    string
	Kept     string // the key whose value is emitted (the later one)
	Replaced string
}

func (c Collision) String() string {
	return fmt.Sprintf("%q and %q both normalize to %q; %q wins", c.Replaced, c.Kept, c.Token, c.Kept)
}

// Normalizer tracks which manifest key produced each token so collisions
// can be reported. It never changes which value is emitted: the last key
// for a token wins.
type Normalizer struct {
	sources    map[string]string
	collisions []Collision
}

// NewNormalizer returns an empty normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{sources: make(map[string]string)}
}

// Track records that key produced token.
func (n *Normalizer) Track(key, token string) {
	if prev, ok := n.sources[token]; ok && prev != key {
		n.collisions = append(n.collisions, Collision{Token: token, Kept: key, Replaced: prev})
	}
	n.sources[token] = key
}

// Collisions returns the recorded collisions in discovery order.
func (n *Normalizer) Collisions() []Collision {
	return n.collisions
}

// ErrNotResponsive is returned for values that are not {mobile, desktop} pairs.
var ErrNotResponsive = errors.New("not a responsive value")

// ResponsiveValue is a mobile/desktop pair of pixel values.
type ResponsiveValue struct {
	Mobile  float64 `json:"mobile"`
	Desktop float64 `json:"desktop"`
}

// ResponsiveFields returns the raw mobile and desktop fields of v.
func ResponsiveFields(v any) (mobile, desktop any, err error) {
	obj, ok := v.(*Object)
	if !ok {
		return nil, nil, fmt.Errorf("%w: expected object, got %s", ErrNotResponsive, TypeName(v))
	}
	mobile, hasMobile := obj.Get("mobile")
	desktop, hasDesktop := obj.Get("desktop")
	if !hasMobile || !hasDesktop {
		return nil, nil, fmt.Errorf("%w: mobile and desktop are required", ErrNotResponsive)
	}
	return mobile, desktop, nil
}

// ParseResponsive converts v into a ResponsiveValue. Both fields must be numbers.
func ParseResponsive(v any) (ResponsiveValue, error) {
	mobile, desktop, err := ResponsiveFields(v)
	if err != nil {
		return ResponsiveValue{}, err
	}
	m, mok := mobile.(float64)
	d, dok := desktop.(float64)
	if !mok || !dok {
		return ResponsiveValue{}, fmt.Errorf("%w: expected numbers, got mobile=%s desktop=%s",
			ErrNotResponsive, TypeName(mobile), TypeName(desktop))
	}
	return ResponsiveValue{Mobile: m, Desktop: d}, nil
}
