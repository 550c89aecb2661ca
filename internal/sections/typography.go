package sections

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/yacobolo/twmanifest/internal/manifest"
	"github.com/yacobolo/twmanifest/internal/rule"
	"github.com/yacobolo/twmanifest/internal/units"
)

var textCaseToCSS = map[string]string{
	"ORIGINAL": "none",
	"UPPER":    "uppercase",
	"LOWER":    "lowercase",
	"TITLE":    "capitalize",
}

var textDecorationToCSS = map[string]string{
	"NONE":          "none",
	"UNDERLINE":     "underline",
	"STRIKETHROUGH": "line-through",
}

// FontStyleWeights maps the first word of a font style to a weight.
var FontStyleWeights = map[string]int{
	"thin":       100,
	"extralight": 200,
	"light":      300,
	"regular":    400,
	"medium":     500,
	"semibold":   600,
	"bold":       700,
	"extrabold":  800,
	"black":      900,
}

// TagForStyle maps typography style tokens to the element they style.
var TagForStyle = map[string]string{
	"heading-1": "h1",
	"heading-2": "h2",
	"heading-3": "h3",
	"heading-4": "h4",
	"heading-5": "h5",
	"heading-6": "h6",
	"body":      "p",
	"caption":   "caption",
	"pullquote": "blockquote",
}

// HeadingRole is the font role forced onto heading styles.
const HeadingRole = "Heading"

// TextStyle is one validated typography entry.
type TextStyle struct {
	FontSize       float64
	TextDecoration string
	LetterSpacing  any // string em value or float64 pixels, nil when absent
	LineHeight     any // string rem/"inherit" or float64 em ratio, nil when absent
	TextTransform  string
	FontFamily     string
	FontWeight     int
	FontStyle      string
	FontNameStyle  string
	TextIndent     float64
}

// TypeStyle pairs the mobile and desktop variants of a named style.
type TypeStyle struct {
	Kind    string
	Mobile  TextStyle
	Desktop TextStyle
}

// Tag returns the element the style applies to, if any.
func (s TypeStyle) Tag() (string, bool) {
	tag, ok := TagForStyle[s.Kind]
	return tag, ok
}

// Typography is the validated typography section in manifest order.
type Typography struct {
	Styles []TypeStyle
	index  map[string]int
}

// Style returns the named style.
func (t *Typography) Style(kind string) (TypeStyle, bool) {
	if t == nil {
		return TypeStyle{}, false
	}
	i, ok := t.index[kind]
	if !ok {
		return TypeStyle{}, false
	}
	return t.Styles[i], true
}

// ParseFontStyle reads a style name such as "Bold Italic": the first word
// selects the weight (400 when unknown), the second the font style
// ("normal" when absent).
func ParseFontStyle(name string) (weight int, style string) {
	words := strings.Split(strings.ToLower(name), " ")
	weight, ok := FontStyleWeights[words[0]]
	if !ok {
		weight = 400
	}
	style = "normal"
	if len(words) > 1 && words[1] != "" {
		style = words[1]
	}
	return weight, style
}

// ParseTypography validates every entry. Keys are "<style name>/<viewport>";
// a viewport other than mobile or desktop, or none, applies the entry to
// both. A style with only one viewport uses it for the other.
func ParseTypography(section any) (*Typography, error) {
	obj, ok := section.(*manifest.Object)
	if !ok {
		return nil, fmt.Errorf("typography section must be an object, got %s", manifest.TypeName(section))
	}

	type pair struct {
		mobile, desktop *TextStyle
	}
	var order []string
	pairs := make(map[string]*pair)

	var errs error
	obj.Each(func(key string, value any) {
		ts, err := parseTextStyle(value)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%q: %w", key, err))
			return
		}

		base, viewport, _ := strings.Cut(strings.ToLower(key), "/")
		kind := manifest.Kebab(strings.TrimSpace(base))
		p, seen := pairs[kind]
		if !seen {
			p = &pair{}
			pairs[kind] = p
			order = append(order, kind)
		}
		switch strings.TrimSpace(viewport) {
		case "mobile":
			p.mobile = &ts
		case "desktop":
			p.desktop = &ts
		default:
			p.mobile, p.desktop = &ts, &ts
		}
	})
	if errs != nil {
		return nil, errs
	}

	t := &Typography{index: make(map[string]int, len(order))}
	for _, kind := range order {
		p := pairs[kind]
		if p.mobile == nil {
			p.mobile = p.desktop
		}
		if p.desktop == nil {
			p.desktop = p.mobile
		}
		t.index[kind] = len(t.Styles)
		t.Styles = append(t.Styles, TypeStyle{Kind: kind, Mobile: *p.mobile, Desktop: *p.desktop})
	}
	return t, nil
}

func parseTextStyle(v any) (TextStyle, error) {
	obj, ok := v.(*manifest.Object)
	if !ok {
		return TextStyle{}, fmt.Errorf("expected object, got %s", manifest.TypeName(v))
	}

	var ts TextStyle
	var errs error
	fail := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf(format, args...))
	}

	if raw, ok := obj.Get("fontSize"); !ok {
		fail("fontSize is required")
	} else if f, ok := raw.(float64); !ok {
		fail("fontSize must be a number, got %s", manifest.TypeName(raw))
	} else {
		ts.FontSize = f
	}

	var err error
	if ts.TextTransform, err = enumField(obj, "textCase", "ORIGINAL", textCaseToCSS); err != nil {
		errs = multierr.Append(errs, err)
	}
	if ts.TextDecoration, err = enumField(obj, "textDecoration", "NONE", textDecorationToCSS); err != nil {
		errs = multierr.Append(errs, err)
	}

	if err := parseFontName(obj, &ts); err != nil {
		errs = multierr.Append(errs, err)
	}

	if raw, ok := obj.Get("letterSpacing"); ok {
		if ts.LetterSpacing, err = parseLetterSpacing(raw); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("letterSpacing: %w", err))
		}
	}
	if raw, ok := obj.Get("lineHeight"); ok {
		if ts.LineHeight, err = parseLineHeight(raw); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("lineHeight: %w", err))
		}
	}

	if raw, ok := obj.Get("paragraphIndent"); ok {
		f, isNum := raw.(float64)
		if !isNum {
			fail("paragraphIndent must be a number, got %s", manifest.TypeName(raw))
		}
		ts.TextIndent = f
	}
	return ts, errs
}

func enumField(obj *manifest.Object, name, def string, table map[string]string) (string, error) {
	raw, ok := obj.Get(name)
	if !ok {
		return table[def], nil
	}
	s, _ := raw.(string)
	css, ok := table[s]
	if !ok {
		return "", fmt.Errorf("%s: unknown value %v", name, raw)
	}
	return css, nil
}

func parseFontName(obj *manifest.Object, ts *TextStyle) error {
	raw, ok := obj.Get("fontName")
	if !ok {
		return fmt.Errorf("fontName is required")
	}
	fn, ok := raw.(*manifest.Object)
	if !ok {
		return fmt.Errorf("fontName must be an object, got %s", manifest.TypeName(raw))
	}

	family, style := "system-ui", "normal"
	if v, ok := fn.Get("family"); ok {
		s, isStr := v.(string)
		if !isStr {
			return fmt.Errorf("fontName.family must be a string, got %s", manifest.TypeName(v))
		}
		family = s
	}
	if v, ok := fn.Get("style"); ok {
		s, isStr := v.(string)
		if !isStr {
			return fmt.Errorf("fontName.style must be a string, got %s", manifest.TypeName(v))
		}
		style = s
	}

	ts.FontFamily = family
	ts.FontWeight, ts.FontStyle = ParseFontStyle(style)
	ts.FontNameStyle = style
	return nil
}

func unitValue(raw any) (value float64, hasValue bool, unit string, err error) {
	obj, ok := raw.(*manifest.Object)
	if !ok {
		return 0, false, "", fmt.Errorf("expected object, got %s", manifest.TypeName(raw))
	}
	u, _ := obj.Get("unit")
	unit, _ = u.(string)
	if v, ok := obj.Get("value"); ok {
		f, isNum := v.(float64)
		if !isNum {
			return 0, false, "", fmt.Errorf("value must be a number, got %s", manifest.TypeName(v))
		}
		return f, true, unit, nil
	}
	return 0, false, unit, nil
}

func parseLetterSpacing(raw any) (any, error) {
	v, hasValue, unit, err := unitValue(raw)
	if err != nil {
		return nil, err
	}
	if !hasValue {
		return nil, fmt.Errorf("value is required")
	}
	switch unit {
	case "PERCENT":
		if v == 0 {
			return 0.0, nil
		}
		return units.PercentToEm(v), nil
	case "PIXELS":
		return v, nil
	}
	return nil, fmt.Errorf("unknown unit %q", unit)
}

func parseLineHeight(raw any) (any, error) {
	v, hasValue, unit, err := unitValue(raw)
	if err != nil {
		return nil, err
	}
	switch unit {
	case "AUTO":
		return "inherit", nil
	case "PERCENT", "PIXELS":
		if !hasValue {
			return nil, fmt.Errorf("value is required for unit %s", unit)
		}
		if unit == "PERCENT" {
			return units.PercentToEmValue(v), nil
		}
		return units.Rem(v), nil
	}
	return nil, fmt.Errorf("unknown unit %q", unit)
}

// Fonts resolves manifest font families to CSS.
type Fonts struct {
	Mapping map[string]string
	Weights map[string]map[string]float64
	// Unmapped is called once per family missing from a non-empty mapping.
	Unmapped func(family string)
	reported map[string]bool
}

// WithRole returns a copy of f where family maps to role.
func (f *Fonts) WithRole(family, role string) *Fonts {
	m := make(map[string]string, len(f.Mapping)+1)
	for k, v := range f.Mapping {
		m[k] = v
	}
	m[family] = role
	return &Fonts{Mapping: m, Weights: f.Weights, Unmapped: f.Unmapped, reported: f.reportedSet()}
}

func (f *Fonts) reportedSet() map[string]bool {
	if f.reported == nil {
		f.reported = make(map[string]bool)
	}
	return f.reported
}

// Role returns the semantic role for a family.
func (f *Fonts) Role(family string) (string, bool) {
	if f == nil || f.Mapping == nil {
		return "", false
	}
	role, ok := f.Mapping[family]
	if !ok {
		if seen := f.reportedSet(); !seen[family] {
			seen[family] = true
			if f.Unmapped != nil {
				f.Unmapped(family)
			}
		}
	}
	return role, ok
}

// Family returns var(--font-family-<role>, "<family>") for mapped families
// and the raw family otherwise.
func (f *Fonts) Family(family string) string {
	role, ok := f.Role(family)
	if !ok {
		return family
	}
	return fmt.Sprintf("var(--font-family-%s, %q)", manifest.Kebab(role), family)
}

// Weight returns the mapped weight for a family's style name.
func (f *Fonts) Weight(family, styleName string) (float64, bool) {
	if f == nil || f.Weights == nil || f.Mapping == nil || styleName == "" {
		return 0, false
	}
	role, ok := f.Role(family)
	if !ok {
		role = family
	}
	w, ok := f.Weights[role][styleName]
	return w, ok && w != 0
}

// TextRule builds the rule for a style: mobile values at top level, desktop
// values under the desktop breakpoint. With fluid sizing the font size is a
// single fluid expression; otherwise the desktop size is set in the override.
// weights false disables the weight mapping.
func TextRule(mobile, desktop TextStyle, fonts *Fonts, weights bool, mode units.FluidMode) (*rule.Rule, error) {
	var size string
	if mode.Enabled() {
		s, err := units.FluidSize(mobile.FontSize, desktop.FontSize, mode)
		if err != nil {
			return nil, fmt.Errorf("fontSize: %w", err)
		}
		size = s
	} else {
		size = units.Rem(mobile.FontSize)
	}

	out := rule.New().
		Set("fontSize", size).
		Set("fontFamily", fonts.Family(mobile.FontFamily))
	styleDecls(out, mobile)
	if weights {
		if w, ok := fonts.Weight(mobile.FontFamily, mobile.FontNameStyle); ok {
			out.Set("fontWeight", w)
		}
	}

	lg := rule.New()
	if !mode.Enabled() {
		lg.Set("fontSize", units.Rem(desktop.FontSize))
	}
	lg.Set("fontFamily", fonts.Family(desktop.FontFamily))
	styleDecls(lg, desktop)
	if weights {
		if w, ok := fonts.Weight(desktop.FontFamily, desktop.FontNameStyle); ok {
			lg.Set("fontWeight", w)
		}
	}
	out.Set(rule.ScreenKey(ScreenDesktop), lg)
	return out, nil
}

func styleDecls(r *rule.Rule, ts TextStyle) {
	r.Set("textDecoration", ts.TextDecoration)
	if ts.LetterSpacing != nil {
		r.Set("letterSpacing", ts.LetterSpacing)
	}
	if ts.LineHeight != nil {
		r.Set("lineHeight", ts.LineHeight)
	}
	r.Set("textTransform", ts.TextTransform)
	r.Set("fontWeight", ts.FontWeight)
	r.Set("fontStyle", ts.FontStyle)
	if ts.TextIndent != 0 {
		r.Set("textIndent", ts.TextIndent)
	}
}

func (e *Env) fonts() *Fonts {
	return &Fonts{
		Mapping: e.Options.FontMapping,
		Weights: e.Options.FontWeightMapping,
		Unmapped: func(family string) {
			e.warn("typography", "Font Mapping",
				fmt.Sprintf("Font family %s is not defined in the font mapping", family))
		},
	}
}

// TypographyRules builds the base and component rules for every style.
func TypographyRules(t *Typography, fonts *Fonts, mode units.FluidMode) (base, components *rule.Rule, err error) {
	base, components = rule.New(), rule.New()
	for _, s := range t.Styles {
		tag, hasTag := s.Tag()
		styleFonts := fonts
		if hasTag && strings.HasPrefix(tag, "h") && len(tag) == 2 {
			styleFonts = fonts.WithRole(s.Mobile.FontFamily, HeadingRole)
		}

		selector := "." + s.Kind
		if hasTag {
			selector = "." + tag
		}

		main, err := TextRule(s.Mobile, s.Desktop, styleFonts, true, mode)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", s.Kind, err)
		}
		fixed, err := TextRule(s.Mobile, s.Desktop, styleFonts, true, units.FluidOff)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", s.Kind, err)
		}
		components.Set(selector, main)
		components.Set(".text-"+s.Kind, fixed)
		if hasTag {
			base.Set(tag, main.Clone())
		}
	}
	return base, components, nil
}

// AddTypography validates the typography section and registers base element
// styles and text components. theme.extend.fontSize is reset either way.
func AddTypography(env *Env, section any) (*Typography, bool) {
	log := env.logger("typography")
	env.Plugin.SetTheme("extend.fontSize", rule.New())

	t, err := ParseTypography(section)
	if err != nil {
		env.fail("typography", "Manifest Typography Error", err)
		return nil, false
	}
	base, components, err := TypographyRules(t, env.fonts(), env.Options.Fluid)
	if err != nil {
		env.fail("typography", "Manifest Typography Error", err)
		return nil, false
	}
	env.Plugin.AddBase(base)
	env.Plugin.AddComponents(components)
	log.Debug("typography registered",
		zap.Int("styles", len(t.Styles)), zap.Int("base", base.Len()), zap.Int("components", components.Len()))
	return t, true
}
