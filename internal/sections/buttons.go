package sections

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/yacobolo/twmanifest/internal/manifest"
	"github.com/yacobolo/twmanifest/internal/rule"
	"github.com/yacobolo/twmanifest/internal/units"
)

// Button type styles a button may inherit.
const (
	ButtonTypeBody    = "body"
	ButtonTypeUtility = "utility"
)

// ButtonSizing holds the Inputs/Button/ tokens. Missing tokens fall back to
// CSS custom properties.
type ButtonSizing struct {
	PaddingInline *manifest.ResponsiveValue
	PaddingBlock  *manifest.ResponsiveValue
	Gap           *manifest.ResponsiveValue
	IconSize      *manifest.ResponsiveValue
	Radius        *manifest.ResponsiveValue
	Height        *manifest.ResponsiveValue
}

// ParseButtonSizing reads the button tokens from the sizing section.
func ParseButtonSizing(section any) (*ButtonSizing, error) {
	scale, err := ParseSizeScale(section, ButtonPrefixes, ButtonToken)
	if err != nil {
		return nil, err
	}
	get := func(token string) *manifest.ResponsiveValue {
		if v, ok := scale.Get(token); ok {
			return &v
		}
		return nil
	}
	return &ButtonSizing{
		PaddingInline: get("padding-left-right"),
		PaddingBlock:  get("padding-top-bottom"),
		Gap:           get("gap"),
		IconSize:      get("icon-size"),
		Radius:        get("radius"),
		Height:        get("height"),
	}, nil
}

// ButtonTypography checks that the body and utility styles exist and returns
// the one buttons inherit.
func ButtonTypography(t *Typography, typename string) (TypeStyle, error) {
	var errs error
	for _, kind := range []string{ButtonTypeBody, ButtonTypeUtility} {
		if _, ok := t.Style(kind); !ok {
			errs = multierr.Append(errs, fmt.Errorf("typography style %q is required", kind))
		}
	}
	if errs != nil {
		return TypeStyle{}, errs
	}
	if typename == "" {
		typename = ButtonTypeBody
	}
	s, ok := t.Style(typename)
	if !ok {
		return TypeStyle{}, fmt.Errorf("button typename must be %s or %s, got %q", ButtonTypeBody, ButtonTypeUtility, typename)
	}
	return s, nil
}

func remOr(v *manifest.ResponsiveValue, fallback string) string {
	if v == nil {
		return fallback
	}
	return units.Rem(v.Mobile)
}

func setDesktop(r *rule.Rule, prop string, v *manifest.ResponsiveValue) {
	if v != nil {
		r.Set(prop, units.Rem(v.Desktop))
	}
}

// ButtonColorNames maps the color tokens the .btn family refers to, written
// in initial group style ("t-brand-primary"), to the tokens the color
// section produces under style. Tokens missing from the section map to
// themselves.
func ButtonColorNames(section any, style ColorGroupStyle) func(token string) string {
	names := make(map[string]string)
	if obj, ok := section.(*manifest.Object); ok {
		for _, key := range obj.Keys() {
			short, ok := ColorToken(key, ColorGroupInitial)
			if !ok {
				continue
			}
			if _, seen := names[short]; seen {
				continue
			}
			if token, ok := ColorToken(key, style); ok {
				names[short] = token
			}
		}
	}
	return func(token string) string {
		if name, ok := names[token]; ok {
			return name
		}
		return token
	}
}

// ButtonRules builds the .btn component family and the base link style.
// colorName maps the referenced color tokens; nil keeps them as written.
func ButtonRules(sz *ButtonSizing, style TypeStyle, fonts *Fonts, mode units.FluidMode, colorName func(string) string) (components, base *rule.Rule, err error) {
	fontConfig, err := TextRule(style.Mobile, style.Desktop, fonts, false, mode)
	if err != nil {
		return nil, nil, err
	}
	color := func(token string) string {
		if colorName != nil {
			token = colorName(token)
		}
		return "theme(colors." + token + ")"
	}
	lgKey := rule.ScreenKey(ScreenDesktop)

	variantBase := func() *rule.Rule {
		lg := rule.New()
		setDesktop(lg, "padding-block", sz.PaddingBlock)
		setDesktop(lg, "padding-inline", sz.PaddingInline)
		setDesktop(lg, "borderRadius", sz.Radius)
		setDesktop(lg, "height", sz.Height)
		return rule.New().
			Set("min-width", "var(--button-min-width, 160px)").
			Set("padding-block", remOr(sz.PaddingBlock, "var(--button-padding-block, 10px)")).
			Set("padding-inline", remOr(sz.PaddingInline, "var(--button-padding-inline, 20px)")).
			Set("borderRadius", remOr(sz.Radius, "var(--button-radius, 4px)")).
			Set("height", remOr(sz.Height, "var(--button-height, 40px)")).
			Set("whiteSpace", "nowrap").
			Set(lgKey, lg)
	}

	btn := rule.New().
		Set("display", "inline-flex").
		Set("alignItems", "center").
		Set("justifyContent", "center").
		Set("textDecoration", "none").
		Set("gap", remOr(sz.Gap, "var(--button-gap, 10px)")).
		Set("transitionProperty", "background-color, color").
		Set("transitionDuration", "theme(transitionDuration.150)").
		Set("transitionTimingFunction", "ease-in-out").
		Set("&:hover, &:focus, &:focus-within, &:focus-visible", rule.New().Set("textDecoration", "none")).
		Set("--icon-size", remOr(sz.IconSize, "var(--button-icon-size, 10px)"))
	btn.Merge(fontConfig.Clone())

	btn.Set("& > svg, & > .icon, & > img", rule.New().
		Set("width", "var(--icon-size)").
		Set("height", "var(--icon-size)").
		Set("color", "currentColor"))
	btn.Set("&:disabled, &.disabled", rule.New().Set("pointerEvents", "none"))

	btn.Set("&[variant='primary']", variantBase().
		Set("backgroundColor", color("t-brand-primary")).
		Set("color", color("t-background")).
		Set("&:hover", rule.New().
			Set("backgroundColor", color("t-brand-secondary")).
			Set("color", color("t-foreground"))).
		Set("&:disabled, &.disabled", rule.New().
			Set("backgroundColor", color("t-disabled"))).
		Set("&:focus, &:focus-within, &:focus-visible", rule.New().
			Set("outlineColor", color("u-focus"))))

	btn.Set("&[variant='secondary']", variantBase().
		Set("borderWidth", "1px").
		Set("borderStyle", "solid").
		Set("borderColor", color("t-foreground")).
		Set("color", color("t-foreground")).
		Set("&:hover", rule.New().
			Set("backgroundColor", color("t-foreground")).
			Set("color", color("t-background"))).
		Set("&:disabled, &.disabled", rule.New().
			Set("color", color("t-disabled")).
			Set("borderColor", color("t-disabled"))))

	btn.Set("&[variant='tertiary']", rule.New().
		Set("color", color("t-foreground")).
		Set("borderBottomWidth", "2px").
		Set("borderBottomStyle", "solid").
		Set("borderColor", color("t-foreground")).
		Set("paddingBlockEnd", "theme(spacing.sm-2xs)").
		Set("width", "fit-content").
		Set("lineHeight", 1).
		Set(lgKey, rule.New().Set("paddingBlockEnd", "theme(spacing.lg-2xs)")).
		Set("&:hover, &[active]", rule.New().
			Set("color", color("t-foreground")).
			Set("borderColor", color("t-brand-primary"))).
		Set("&:disabled, &.disabled", rule.New().
			Set("color", color("t-disabled")).
			Set("borderColor", color("t-disabled"))))

	lg := rule.New()
	if fontLg, ok := fontConfig.Get(lgKey); ok {
		lg.Merge(fontLg.(*rule.Rule))
	}
	setDesktop(lg, "gap", sz.Gap)
	setDesktop(lg, "--icon-size", sz.IconSize)
	btn.Set(lgKey, lg)

	components = rule.New().Set(".btn", btn)
	base = rule.New().Set("a", rule.New().
		Set("textDecoration", "none").
		Set("&:hover", rule.New().
			Set("textDecoration", "underline").
			Set("color", color("p-dark"))))
	return components, base, nil
}

// AddButtons registers the .btn component. Both the button tokens and the
// body and utility typography styles must validate; each failure is
// reported on its own. Color references follow the color section's group
// style.
func AddButtons(env *Env, sizing, typography, colors any) bool {
	sz, sizeErr := ParseButtonSizing(sizing)
	if sizeErr != nil {
		env.fail("buttons", "Manifest Button Sizings Invalid or Missing", sizeErr)
	}

	var style TypeStyle
	t, typeErr := ParseTypography(typography)
	if typeErr == nil {
		style, typeErr = ButtonTypography(t, env.Options.ButtonTypename)
	}
	if typeErr != nil {
		env.fail("buttons", "Manifest Typography Invalid or Missing", typeErr)
	}
	if sizeErr != nil || typeErr != nil {
		return false
	}

	components, base, err := ButtonRules(sz, style, env.fonts(), env.Options.Fluid,
		ButtonColorNames(colors, env.Options.ColorGroupStyle))
	if err != nil {
		env.fail("buttons", "Manifest Typography Invalid or Missing", err)
		return false
	}
	env.Plugin.AddComponents(components)
	env.Plugin.AddBase(base)
	env.logger("buttons").Debug("buttons registered", zap.String("typename", style.Kind))
	return true
}
