package sections

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/yacobolo/twmanifest/internal/manifest"
	"github.com/yacobolo/twmanifest/internal/plugin"
	"github.com/yacobolo/twmanifest/internal/rule"
	"github.com/yacobolo/twmanifest/internal/units"
)

// Manifest key prefixes per sizing family.
var (
	SpacingPrefixes      = []string{"Space/", "Inputs/"}
	BorderRadiusPrefixes = []string{"Border/Radius", "Inputs/Forms/Radius"}
	ButtonPrefixes       = []string{"Inputs/Button/"}
)

// PageMarginTokens are the spacing tokens used for container padding, in
// lookup order.
var PageMarginTokens = []string{"page-margin", "pagemargin"}

// SizeToken is one normalized responsive sizing entry.
type SizeToken struct {
	Token string
	Key   string // manifest key it came from
	manifest.ResponsiveValue
}

// SizeScale is an ordered set of responsive tokens.
type SizeScale struct {
	Tokens     []SizeToken
	Collisions []manifest.Collision
	// Skipped lists entries dropped for a missing or non-numeric value.
	Skipped []string
	index   map[string]int
}

// Get returns the value for token.
func (s *SizeScale) Get(token string) (manifest.ResponsiveValue, bool) {
	if s == nil {
		return manifest.ResponsiveValue{}, false
	}
	i, ok := s.index[token]
	if !ok {
		return manifest.ResponsiveValue{}, false
	}
	return s.Tokens[i].ResponsiveValue, true
}

// Len returns the number of tokens.
func (s *SizeScale) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Tokens)
}

// Values returns token → ResponsiveValue in scale order.
func (s *SizeScale) Values() *rule.Rule {
	out := rule.New()
	for _, t := range s.Tokens {
		out.Set(t.Token, t.ResponsiveValue)
	}
	return out
}

// SortByMobile orders tokens ascending by mobile size, keeping manifest
// order for equal sizes.
func (s *SizeScale) SortByMobile() {
	sort.SliceStable(s.Tokens, func(i, j int) bool {
		return s.Tokens[i].Mobile < s.Tokens[j].Mobile
	})
	for i, t := range s.Tokens {
		s.index[t.Token] = i
	}
}

func (s *SizeScale) put(t SizeToken) {
	if i, ok := s.index[t.Token]; ok {
		s.Tokens[i] = t
		return
	}
	s.index[t.Token] = len(s.Tokens)
	s.Tokens = append(s.Tokens, t)
}

// ParseSizeScale collects the responsive entries of the sizing section whose
// key starts with one of prefixes. tokenFn derives the token from the key.
//
// Entries with a string mobile value are design-tool placeholders and are
// dropped silently. Any other entry without numeric mobile and desktop
// values is dropped into Skipped. Only a section that is not an object
// fails.
func ParseSizeScale(section any, prefixes []string, tokenFn func(key string) string) (*SizeScale, error) {
	obj, ok := section.(*manifest.Object)
	if !ok {
		return nil, fmt.Errorf("sizing section must be an object, got %s", manifest.TypeName(section))
	}

	scale := &SizeScale{index: make(map[string]int)}
	norm := manifest.NewNormalizer()
	obj.Each(func(key string, value any) {
		if _, ok := manifest.StripPrefix(key, prefixes...); !ok {
			return
		}
		mobile, desktop, err := manifest.ResponsiveFields(value)
		if err != nil {
			scale.Skipped = append(scale.Skipped, fmt.Sprintf("%q: %v", key, err))
			return
		}
		if _, isString := mobile.(string); isString {
			return
		}
		m, ok := mobile.(float64)
		if !ok {
			scale.Skipped = append(scale.Skipped, fmt.Sprintf("%q: mobile must be a number, got %s", key, manifest.TypeName(mobile)))
			return
		}
		d, ok := desktop.(float64)
		if !ok {
			scale.Skipped = append(scale.Skipped, fmt.Sprintf("%q: desktop must be a number, got %s", key, manifest.TypeName(desktop)))
			return
		}

		token := tokenFn(key)
		norm.Track(key, token)
		scale.put(SizeToken{Token: token, Key: key, ResponsiveValue: manifest.ResponsiveValue{Mobile: m, Desktop: d}})
	})
	scale.Collisions = norm.Collisions()
	return scale, nil
}

// SpacingToken maps "Space/Large Gap" and "Inputs/Button/Gap" to
// "large-gap" and "button-gap".
func SpacingToken(key string) string {
	rest, _ := manifest.StripPrefix(key, SpacingPrefixes...)
	return manifest.PathToken(rest)
}

// BorderRadiusToken maps "Border/Radius/Small" to "small" and
// "Inputs/Forms/Radius" to "forms-radius". The bare "Border/Radius" key is
// the DEFAULT value.
func BorderRadiusToken(key string) string {
	rest, _ := manifest.StripPrefix(key, "Border/Radius", "Inputs/")
	if token := manifest.PathToken(rest); token != "" {
		return token
	}
	return plugin.DefaultToken
}

// ButtonToken maps "Inputs/Button/Padding Left Right" to "padding-left-right".
func ButtonToken(key string) string {
	rest, _ := manifest.StripPrefix(key, ButtonPrefixes...)
	return manifest.PathToken(rest)
}

// ParseSpacing returns the spacing scale sorted ascending by mobile size.
func ParseSpacing(section any) (*SizeScale, error) {
	scale, err := ParseSizeScale(section, SpacingPrefixes, SpacingToken)
	if err != nil {
		return nil, err
	}
	scale.SortByMobile()
	return scale, nil
}

// FluidScale maps every token to its fluid expression.
func FluidScale(scale *SizeScale, mode units.FluidMode) (*rule.Rule, error) {
	out := rule.New()
	var errs error
	for _, t := range scale.Tokens {
		v, err := units.FluidSize(t.Mobile, t.Desktop, mode)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%q: %w", t.Key, err))
			continue
		}
		out.Set(t.Token, v)
	}
	return out, errs
}

// StaticScale returns "sm-<token>" and "lg-<token>" fixed rem values.
func StaticScale(scale *SizeScale) *rule.Rule {
	out := rule.New()
	for _, t := range scale.Tokens {
		out.Set(ScreenMobile+"-"+t.Token, units.Rem(t.Mobile))
		out.Set(ScreenDesktop+"-"+t.Token, units.Rem(t.Desktop))
	}
	return out
}

// PageMargin returns the container padding token of the scale.
func PageMargin(scale *SizeScale) (manifest.ResponsiveValue, bool) {
	for _, token := range PageMarginTokens {
		if v, ok := scale.Get(token); ok {
			return v, true
		}
	}
	return manifest.ResponsiveValue{}, false
}

// AddSizing writes the spacing scale and container padding to the theme.
// The fluid scale is only written when fluid sizing is enabled; the static
// sm-/lg- scale is always written.
func AddSizing(env *Env, section any) (*SizeScale, bool) {
	log := env.logger("sizing")
	mode := env.Options.Fluid

	scale, err := ParseSpacing(section)
	if err != nil {
		env.fail("sizing", "Manifest Sizing is Invalid", err)
		return nil, false
	}
	env.reportCollisions("sizing", scale.Collisions)
	for _, s := range scale.Skipped {
		env.warn("sizing", "Spacing token skipped", s)
	}

	spacing := rule.New()
	if existing, ok := env.Plugin.ThemeValue("extend.spacing"); ok {
		if r, ok := existing.(*rule.Rule); ok {
			spacing = r
		}
	}

	if mode.Enabled() {
		fluid, err := FluidScale(scale, mode)
		if err != nil {
			env.fail("sizing", "Fluid spacing values are invalid", err)
		}
		spacing.Merge(fluid)
	}
	spacing.Merge(StaticScale(scale))
	env.Plugin.SetTheme("extend.spacing", spacing)
	log.Debug("theme.extend.spacing", zap.Int("tokens", spacing.Len()), zap.Stringer("mode", mode))

	pm, ok := PageMargin(scale)
	if !ok {
		env.fail("sizing", "Manifest Container Spacing is Invalid",
			fmt.Errorf("spacing token %q is missing", PageMarginTokens[0]))
		return scale, true
	}
	padding, err := units.FluidSize(pm.Mobile, pm.Desktop, mode)
	if err != nil {
		env.fail("sizing", "Manifest Container Spacing is Invalid", err)
		return scale, true
	}
	env.Plugin.SetTheme("container", rule.New().Set("center", true).Set("padding", padding))
	return scale, true
}

// ResponsiveDecls sets every property to the mobile rem value and nests the
// desktop values under the desktop breakpoint.
func ResponsiveDecls(v manifest.ResponsiveValue, props ...string) *rule.Rule {
	out := rule.New()
	desktop := rule.New()
	for _, p := range props {
		out.Set(p, units.Rem(v.Mobile))
		desktop.Set(p, units.Rem(v.Desktop))
	}
	out.Set(rule.ScreenKey(ScreenDesktop), desktop)
	return out
}

func responsiveMatcher(props ...string) plugin.MatchFunc {
	return func(value any) (*rule.Rule, error) {
		v, ok := value.(manifest.ResponsiveValue)
		if !ok {
			return nil, fmt.Errorf("expected a responsive value, got %T", value)
		}
		return ResponsiveDecls(v, props...), nil
	}
}

// SpacingUtility is a responsive spacing utility and the properties it sets.
type SpacingUtility struct {
	Name       string
	Properties []string
}

// SpacingUtilities are registered when fluid sizing is off.
var SpacingUtilities = []SpacingUtility{
	{"gap", []string{"gap"}},
	{"row-gap", []string{"row-gap"}},
	{"column-gap", []string{"column-gap"}},
	{"p", []string{"padding"}},
	{"px", []string{"paddingLeft", "paddingRight"}},
	{"py", []string{"paddingTop", "paddingBottom"}},
	{"pt", []string{"paddingTop"}},
	{"pb", []string{"paddingBottom"}},
	{"pl", []string{"paddingLeft"}},
	{"pr", []string{"paddingRight"}},
	{"m", []string{"margin"}},
	{"mt", []string{"marginTop"}},
	{"mb", []string{"marginBottom"}},
	{"ml", []string{"marginLeft"}},
	{"mr", []string{"marginRight"}},
	{"mx", []string{"marginLeft", "marginRight"}},
	{"my", []string{"marginTop", "marginBottom"}},
	{"inset", []string{"top", "right", "bottom", "left"}},
	{"top", []string{"top"}},
	{"right", []string{"right"}},
	{"bottom", []string{"bottom"}},
	{"left", []string{"left"}},
	{"width", []string{"width"}},
	{"minWidth", []string{"minWidth"}},
	{"maxWidth", []string{"maxWidth"}},
	{"height", []string{"height"}},
	{"minHeight", []string{"minHeight"}},
	{"maxHeight", []string{"maxHeight"}},
	{"size", []string{"width", "height"}},
}

// AddResponsiveSpacing registers the spacing utilities and the
// st-[property|token] component for a validated scale.
func AddResponsiveSpacing(env *Env, scale *SizeScale) {
	values := scale.Values()
	for _, u := range SpacingUtilities {
		env.Plugin.MatchUtility(u.Name, responsiveMatcher(u.Properties...), values)
	}
	env.Plugin.MatchComponent("st", spacingTokenMatcher(scale), nil)
	env.logger("sizing").Debug("responsive spacing utilities registered",
		zap.Int("utilities", len(SpacingUtilities)), zap.Int("tokens", scale.Len()))
}

func spacingTokenMatcher(scale *SizeScale) plugin.MatchFunc {
	return func(value any) (*rule.Rule, error) {
		s, _ := value.(string)
		parts := splitNonEmpty(s, "|")
		if len(parts) < 2 {
			return nil, fmt.Errorf("want [property|token], got %q", s)
		}
		prop, token := parts[0], parts[1]
		v, ok := scale.Get(token)
		if !ok {
			return nil, fmt.Errorf("unknown spacing token %q", token)
		}
		return ResponsiveDecls(v, prop), nil
	}
}

// AddBorderRadius registers the rounded-<token> utility.
func AddBorderRadius(env *Env, section any) bool {
	scale, err := ParseSizeScale(section, BorderRadiusPrefixes, BorderRadiusToken)
	if err != nil {
		env.fail("radius", "Manifest Border Radius is Invalid", err)
		return false
	}
	env.reportCollisions("radius", scale.Collisions)
	for _, s := range scale.Skipped {
		env.warn("radius", "Border radius token skipped", s)
	}
	env.Plugin.MatchUtility("rounded", responsiveMatcher("borderRadius"), scale.Values())
	env.logger("radius").Debug("borderRadius", zap.Int("tokens", scale.Len()))
	return true
}
