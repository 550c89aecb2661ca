package sections

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/multierr"
	"golang.org/x/image/colornames"
	"go.uber.org/zap"

	"github.com/yacobolo/twmanifest/internal/manifest"
	"github.com/yacobolo/twmanifest/internal/rule"
	"github.com/yacobolo/twmanifest/internal/units"
)

// ColorGroupStyle selects how the group segment appears in a color token.
type ColorGroupStyle string

const (
	// ColorGroupFull keeps the whole group: "Brand/Primary" → "brand-primary".
	ColorGroupFull ColorGroupStyle = "full"
	// ColorGroupInitial keeps its first letter: "Theme/Primary" → "t-primary".
	ColorGroupInitial ColorGroupStyle = "initial"
)

// ParseColorGroupStyle accepts "", "full" or "initial".
func ParseColorGroupStyle(s string) (ColorGroupStyle, error) {
	switch ColorGroupStyle(strings.ToLower(strings.TrimSpace(s))) {
	case "", ColorGroupFull:
		return ColorGroupFull, nil
	case ColorGroupInitial:
		return ColorGroupInitial, nil
	}
	return ColorGroupFull, fmt.Errorf("unknown color group style %q (want full or initial)", s)
}

// Color is a validated color with straight alpha.
type Color struct {
	colorful.Color
	Alpha float64
}

// CSS returns lowercase hex for opaque colors and rgba() otherwise.
func (c Color) CSS() string {
	if c.Alpha >= 1 {
		return c.Hex()
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, units.FormatNumber(c.Alpha))
}

// Colors is the validated color section.
type Colors struct {
	// Tokens maps color tokens to CSS color strings, in manifest order.
	Tokens     *rule.Rule
	Collisions []manifest.Collision
}

// ParseColors validates every entry of the color section. Any invalid entry
// rejects the whole section.
func ParseColors(section any, style ColorGroupStyle) (*Colors, error) {
	obj, ok := section.(*manifest.Object)
	if !ok {
		return nil, fmt.Errorf("color section must be an object, got %s", manifest.TypeName(section))
	}

	norm := manifest.NewNormalizer()
	tokens := rule.New()
	var errs error
	obj.Each(func(key string, value any) {
		c, err := ParseColor(value)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%q: %w", key, err))
			return
		}
		token, ok := ColorToken(key, style)
		if !ok {
			return
		}
		norm.Track(key, token)
		tokens.Set(token, c.CSS())
	})
	if errs != nil {
		return nil, errs
	}
	return &Colors{Tokens: tokens, Collisions: norm.Collisions()}, nil
}

// ColorToken derives the token for a "Group/Name[/Sub]" key. A sub group
// replaces the name. Leading underscores mark hidden tokens and are dropped.
func ColorToken(key string, style ColorGroupStyle) (string, bool) {
	parts := strings.Split(key, "/")
	segs := make([]string, len(parts))
	for i, p := range parts {
		segs[i] = manifest.Kebab(strings.TrimPrefix(strings.TrimSpace(p), "_"))
	}

	group := segs[0]
	var name string
	if len(segs) > 1 {
		name = segs[1]
	}
	if len(segs) > 2 && segs[2] != "" {
		name = segs[2]
	}
	if group == "" || name == "" {
		return "", false
	}
	if style == ColorGroupInitial {
		group = group[:1]
	}
	return group + "-" + name, true
}

// ParseColor accepts an {r, g, b[, a]} object with channels in [0,1] or a
// color string.
func ParseColor(v any) (Color, error) {
	switch val := v.(type) {
	case *manifest.Object:
		return parseRGBAObject(val)
	case string:
		return ParseColorString(val)
	}
	return Color{}, fmt.Errorf("expected RGBA object or color string, got %s", manifest.TypeName(v))
}

func parseRGBAObject(obj *manifest.Object) (Color, error) {
	channel := func(name string, required bool, def float64) (float64, error) {
		raw, ok := obj.Get(name)
		if !ok {
			if required {
				return 0, fmt.Errorf("channel %s is required", name)
			}
			return def, nil
		}
		f, ok := raw.(float64)
		if !ok {
			return 0, fmt.Errorf("channel %s must be a number, got %s", name, manifest.TypeName(raw))
		}
		if f < 0 || f > 1 {
			return 0, fmt.Errorf("channel %s must be between 0 and 1, got %s", name, units.FormatNumber(f))
		}
		return f, nil
	}

	var errs error
	r, err := channel("r", true, 0)
	errs = multierr.Append(errs, err)
	g, err := channel("g", true, 0)
	errs = multierr.Append(errs, err)
	b, err := channel("b", true, 0)
	errs = multierr.Append(errs, err)
	a, err := channel("a", false, 1)
	errs = multierr.Append(errs, err)
	if errs != nil {
		return Color{}, errs
	}
	return Color{Color: colorful.Color{R: r, G: g, B: b}, Alpha: a}, nil
}

var errColorSyntax = errors.New("not a valid color")

// ParseColorString accepts #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(), rgba(),
// hsl(), hsla(), CSS named colors and transparent.
func ParseColorString(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "transparent":
		return Color{Alpha: 0}, nil
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgb"):
		return parseRGBFunc(s)
	case strings.HasPrefix(s, "hsl"):
		return parseHSLFunc(s)
	}
	if named, ok := colornames.Map[s]; ok {
		c, _ := colorful.MakeColor(named)
		return Color{Color: c, Alpha: 1}, nil
	}
	return Color{}, fmt.Errorf("%w: %q", errColorSyntax, s)
}

func parseHex(s string) (Color, error) {
	digits := s[1:]
	alphaHex := ""
	switch len(digits) {
	case 4:
		alphaHex, digits = digits[3:]+digits[3:], digits[:3]
	case 8:
		alphaHex, digits = digits[6:], digits[:6]
	}
	if len(digits) != 3 && len(digits) != 6 {
		return Color{}, fmt.Errorf("%w: %q", errColorSyntax, s)
	}

	alpha := 1.0
	if alphaHex != "" {
		a, err := strconv.ParseUint(alphaHex, 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", errColorSyntax, s)
		}
		alpha = math.Round(float64(a)/255*1000) / 1000
	}
	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", errColorSyntax, s)
	}
	return Color{Color: c, Alpha: alpha}, nil
}

func parseRGBFunc(s string) (Color, error) {
	fields, alpha, err := colorFunc(s)
	if err != nil {
		return Color{}, err
	}
	var ch [3]float64
	for i, f := range fields {
		v, err := channelValue(f, 255)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", errColorSyntax, s)
		}
		ch[i] = v
	}
	return Color{Color: colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, Alpha: alpha}, nil
}

func parseHSLFunc(s string) (Color, error) {
	fields, alpha, err := colorFunc(s)
	if err != nil {
		return Color{}, err
	}
	hue, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "deg"), 64)
	if err != nil || math.IsInf(hue, 0) || math.IsNaN(hue) {
		return Color{}, fmt.Errorf("%w: %q", errColorSyntax, s)
	}
	hue = math.Mod(math.Mod(hue, 360)+360, 360)
	var sl [2]float64
	for i, f := range fields[1:] {
		if !strings.HasSuffix(f, "%") {
			return Color{}, fmt.Errorf("%w: %q", errColorSyntax, s)
		}
		v, err := channelValue(f, 1)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", errColorSyntax, s)
		}
		sl[i] = v
	}
	return Color{Color: colorful.Hsl(hue, sl[0], sl[1]).Clamped(), Alpha: alpha}, nil
}

// colorFunc splits "name(a, b, c[, alpha])" or "name(a b c / alpha)" into
// its three channel fields and the rounded alpha.
func colorFunc(s string) ([]string, float64, error) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open || end != len(s)-1 {
		return nil, 0, fmt.Errorf("%w: %q", errColorSyntax, s)
	}
	fields := strings.FieldsFunc(s[open+1:end], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(fields) != 3 && len(fields) != 4 {
		return nil, 0, fmt.Errorf("%w: %q", errColorSyntax, s)
	}
	alpha := 1.0
	if len(fields) == 4 {
		v, err := channelValue(fields[3], 1)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %q", errColorSyntax, s)
		}
		alpha = v
	}
	return fields[:3], math.Round(alpha*1000) / 1000, nil
}

// channelValue reads a number in [0, limit] or a percentage in [0%, 100%]
// and scales it to [0, 1].
func channelValue(f string, limit float64) (float64, error) {
	if pct, ok := strings.CutSuffix(f, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil || v < 0 || v > 100 {
			return 0, errColorSyntax
		}
		return v / 100, nil
	}
	v, err := strconv.ParseFloat(f, 64)
	if err != nil || v < 0 || v > limit {
		return 0, errColorSyntax
	}
	return v / limit, nil
}

// AddColors validates the color section and replaces theme.colors.
func AddColors(env *Env, section any) bool {
	log := env.logger("colors")
	colors, err := ParseColors(section, env.Options.ColorGroupStyle)
	if err != nil {
		env.fail("colors", "Manifest Colors are Invalid", err)
		return false
	}
	env.reportCollisions("colors", colors.Collisions)
	env.Plugin.SetTheme("colors", colors.Tokens)
	log.Debug("theme.colors", zap.Int("tokens", colors.Tokens.Len()))
	return true
}
