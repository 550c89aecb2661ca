package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/twmanifest/internal/diag"
	"github.com/yacobolo/twmanifest/internal/plugin"
	"github.com/yacobolo/twmanifest/internal/rule"
	"github.com/yacobolo/twmanifest/internal/units"
)

func TestParseButtonSizing(t *testing.T) {
	sz, err := ParseButtonSizing(decodeSection(t, sizingDoc))
	require.NoError(t, err)

	require.NotNil(t, sz.PaddingInline)
	assert.Equal(t, 20.0, sz.PaddingInline.Mobile)
	require.NotNil(t, sz.PaddingBlock)
	require.NotNil(t, sz.Gap)
	assert.Nil(t, sz.IconSize)
	assert.Nil(t, sz.Radius)
	assert.Nil(t, sz.Height)
}

func TestAddButtons(t *testing.T) {
	env := newEnv(units.FluidOn)
	require.True(t, AddButtons(env, decodeSection(t, sizingDoc), decodeSection(t, typographyDoc), nil))
	assert.Empty(t, env.Reporter.Diagnostics())

	sheet := env.Plugin.Sheet()
	assert.Equal(t, []string{".btn"}, sheet.Components.Keys())
	assert.Equal(t, []string{"a"}, sheet.Base.Keys())

	btn := childRule(t, sheet.Components, ".btn")
	assert.Equal(t, "0.5rem", value(t, btn, "gap"))
	assert.Equal(t, "var(--button-icon-size, 10px)", value(t, btn, "--icon-size"))
	assert.Equal(t, "Maison Neue", value(t, btn, "fontFamily"))
	assert.Equal(t, 400, value(t, btn, "fontWeight"))

	lg := childRule(t, btn, rule.ScreenKey(ScreenDesktop))
	assert.Equal(t, "0.625rem", value(t, lg, "gap"))
	assert.Equal(t, "Maison Neue", value(t, lg, "fontFamily"), "font overrides are kept")
	assert.False(t, lg.Has("--icon-size"))

	primary := childRule(t, btn, "&[variant='primary']")
	assert.Equal(t, "1.25rem", value(t, primary, "padding-inline"))
	assert.Equal(t, "0.625rem", value(t, primary, "padding-block"))
	assert.Equal(t, "var(--button-radius, 4px)", value(t, primary, "borderRadius"))
	primaryLg := childRule(t, primary, rule.ScreenKey(ScreenDesktop))
	assert.Equal(t, "1.5rem", value(t, primaryLg, "padding-inline"))
	assert.False(t, primaryLg.Has("borderRadius"))

	childRule(t, btn, "&[variant='secondary']")
	childRule(t, btn, "&[variant='tertiary']")
}

func TestAddButtons_UtilityTypename(t *testing.T) {
	env := newEnv(units.FluidOff)
	env.Options.ButtonTypename = ButtonTypeUtility
	env.Options.FontWeightMapping = map[string]map[string]float64{"Maison Neue": {"Medium": 550}}
	env.Options.FontMapping = map[string]string{"Maison Neue": "Secondary"}
	require.True(t, AddButtons(env, decodeSection(t, sizingDoc), decodeSection(t, typographyDoc), nil))

	btn := childRule(t, env.Plugin.Sheet().Components, ".btn")
	assert.Equal(t, "0.75rem", value(t, btn, "fontSize"))
	assert.Equal(t, 500, value(t, btn, "fontWeight"), "weight mapping is not applied to buttons")
	assert.Equal(t, "capitalize", value(t, btn, "textTransform"))
}

func TestAddButtons_RendersValidCSS(t *testing.T) {
	env := newEnv(units.FluidOn)
	require.True(t, AddButtons(env, decodeSection(t, sizingDoc), decodeSection(t, typographyDoc), nil))

	css, err := env.Plugin.Sheet().LayerCSS(plugin.LayerComponents, rule.RenderOptions{Screens: rule.DefaultScreens})
	require.NoError(t, err)
	assert.Contains(t, css, ".btn[variant='primary']:hover {")
	assert.Contains(t, css, ".btn > svg, .btn > .icon, .btn > img {")

	sum, err := rule.Inspect(css)
	require.NoError(t, err)
	assert.Contains(t, sum.Classes, "btn")
	assert.Contains(t, sum.Classes, "disabled")
	assert.Positive(t, sum.AtRules)
}

func TestAddButtons_ColorReferencesFollowGroupStyle(t *testing.T) {
	colors := `{
  "Theme/Brand Primary": "#112233",
  "Theme/Background": "#ffffff",
  "Utility/Focus": "#0000ff"
}`
	tests := []struct {
		style      ColorGroupStyle
		background string
		color      string
		outline    string
	}{
		{ColorGroupFull, "theme(colors.theme-brand-primary)", "theme(colors.theme-background)", "theme(colors.utility-focus)"},
		{ColorGroupInitial, "theme(colors.t-brand-primary)", "theme(colors.t-background)", "theme(colors.u-focus)"},
	}
	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			env := newEnv(units.FluidOn)
			env.Options.ColorGroupStyle = tt.style
			require.True(t, AddButtons(env, decodeSection(t, sizingDoc), decodeSection(t, typographyDoc), decodeSection(t, colors)))

			primary := childRule(t, childRule(t, env.Plugin.Sheet().Components, ".btn"), "&[variant='primary']")
			assert.Equal(t, tt.background, value(t, primary, "backgroundColor"))
			assert.Equal(t, tt.color, value(t, primary, "color"))
			focus := childRule(t, primary, "&:focus, &:focus-within, &:focus-visible")
			assert.Equal(t, tt.outline, value(t, focus, "outlineColor"))

			// Tokens the manifest does not define are left as written.
			hover := childRule(t, primary, "&:hover")
			assert.Equal(t, "theme(colors.t-brand-secondary)", value(t, hover, "backgroundColor"))
		})
	}
}

func TestAddButtons_Failures(t *testing.T) {
	withoutUtility := `{"Body": {"fontSize": 16, "fontName": {"family": "Maison Neue"}}}`

	tests := []struct {
		name       string
		sizing     string
		typography string
		typename   string
		titles     []string
	}{
		{
			name:       "missing sizing and utility style",
			typography: withoutUtility,
			titles:     []string{"Manifest Button Sizings Invalid or Missing", "Manifest Typography Invalid or Missing"},
		},
		{
			name:       "unknown typename",
			sizing:     sizingDoc,
			typography: typographyDoc,
			typename:   "caption",
			titles:     []string{"Manifest Typography Invalid or Missing"},
		},
		{
			name:       "invalid typography",
			sizing:     sizingDoc,
			typography: `{"Body": 1}`,
			titles:     []string{"Manifest Typography Invalid or Missing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(units.FluidOn)
			if tt.typename != "" {
				env.Options.ButtonTypename = tt.typename
			}
			var sizing any
			if tt.sizing != "" {
				sizing = decodeSection(t, tt.sizing)
			}

			require.False(t, AddButtons(env, sizing, decodeSection(t, tt.typography), nil))
			assert.Equal(t, 0, env.Plugin.Sheet().Len(), "nothing is registered")

			var titles []string
			for _, d := range env.Reporter.Diagnostics() {
				assert.Equal(t, diag.SeverityError, d.Severity)
				titles = append(titles, d.Title)
			}
			assert.Equal(t, tt.titles, titles)
		})
	}
}
