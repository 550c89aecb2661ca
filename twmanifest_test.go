package twmanifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/twmanifest/internal/diag"
	"github.com/yacobolo/twmanifest/internal/plugin"
	"github.com/yacobolo/twmanifest/internal/rule"
	"github.com/yacobolo/twmanifest/internal/units"
)

func TestAssemble_DefaultOptions(t *testing.T) {
	rep := quietReporter()
	p := Assemble(parseFixture(t, manifestDoc), DefaultOptions(), rep, nil)

	assert.Empty(t, rep.Diagnostics(), "no font mapping means nothing is reported unmapped")

	for _, name := range []string{"fluid-text", "fluid-size", "rounded"} {
		_, ok := p.Matcher(name)
		assert.True(t, ok, "matcher %s", name)
	}
	_, ok := p.Matcher("gap")
	assert.False(t, ok, "spacing utilities are only registered without fluid sizing")

	sheet := p.Sheet()
	for _, sel := range []string{".h1", ".text-heading-1", ".p", ".text-body", ".utility", ".text-utility"} {
		assert.True(t, sheet.Components.Has(sel), "component %s", sel)
	}
	assert.False(t, sheet.Components.Has(".btn"))
	assert.Equal(t, []string{"h1", "p"}, sheet.Base.Keys())

	theme := p.Theme()
	assert.Equal(t, "#112233", themeValue(t, theme, "colors.brand-primary"))
	assert.Equal(t, "rgba(0, 0, 0, 0.5)", themeValue(t, theme, "colors.brand-overlay"))
	assert.Equal(t, "max(calc(10 * 1px), calc(calc(100vw / 1440) * 12))", themeValue(t, theme, "extend.spacing.small"))
	assert.Equal(t, "0.625rem", themeValue(t, theme, "extend.spacing.sm-small"))
	assert.Equal(t, "0.75rem", themeValue(t, theme, "extend.spacing.lg-small"))
	assert.Equal(t, true, themeValue(t, theme, "container.center"))
}

func TestAssemble_UnmappedFontFamily(t *testing.T) {
	opts := DefaultOptions()
	opts.FontMapping = map[string]string{"PP Editorial New": "Primary"}
	rep := quietReporter()
	p := Assemble(parseFixture(t, manifestDoc), opts, rep, nil)

	require.Equal(t, 1, rep.Count(diag.SeverityWarning))
	assert.Equal(t, "Font Mapping", rep.Diagnostics()[0].Title)

	body := p.Sheet().Components.Child(".text-body")
	assert.Equal(t, "Maison Neue", declValue(t, body, "fontFamily"))
	heading := p.Sheet().Components.Child(".h1")
	assert.Equal(t, `var(--font-family-heading, "PP Editorial New")`, declValue(t, heading, "fontFamily"))
}

func TestAssemble_FluidOffRegistersSpacingUtilities(t *testing.T) {
	opts := DefaultOptions()
	opts.FluidTypography = units.FluidOff
	p := Assemble(parseFixture(t, manifestDoc), opts, quietReporter(), nil)

	match, err := p.Resolve("gap-large-gap")
	require.NoError(t, err)
	assert.Equal(t, "gap", match.Matcher)
	assert.Equal(t, "2.5rem", declValue(t, declarations(t, match), "gap"))

	_, err = p.Resolve("st-[margin-top|small]")
	require.NoError(t, err)

	_, ok := p.Theme().Lookup("extend.spacing.small")
	assert.False(t, ok, "the fluid scale is skipped without fluid sizing")
	assert.Equal(t, "0.625rem", themeValue(t, p.Theme(), "extend.spacing.sm-small"))
}

func TestAssemble_DisabledSections(t *testing.T) {
	opts := Options{FluidTypography: units.FluidOn}
	rep := quietReporter()
	p := Assemble(parseFixture(t, manifestDoc), opts, rep, nil)

	assert.Zero(t, p.Sheet().Len())
	_, ok := p.Theme().Lookup("colors")
	assert.False(t, ok)
	_, ok = p.Matcher("rounded")
	assert.False(t, ok)
	_, ok = p.Matcher("fluid-text")
	assert.True(t, ok, "the fluid helper is always registered")
	assert.Empty(t, rep.Diagnostics())
}

func TestAssemble_MissingSectionsAreReported(t *testing.T) {
	rep := quietReporter()
	p := Assemble(parseFixture(t, `{"Color": {"Brand/Primary": "#000"}}`), DefaultOptions(), rep, nil)

	assert.Equal(t, "#000000", themeValue(t, p.Theme(), "colors.brand-primary"))

	var titles []string
	for _, d := range rep.Diagnostics() {
		titles = append(titles, d.Title)
	}
	assert.ElementsMatch(t, []string{
		"Manifest Typography Error",
		"Manifest Border Radius is Invalid",
		"Manifest Sizing is Invalid",
	}, titles)
}

func TestAssemble_ButtonsKillSwitch(t *testing.T) {
	m := parseFixture(t, manifestDoc)
	opts := DefaultOptions()
	opts.FontMapping = map[string]string{"PP Editorial New": "Primary", "Maison Neue": "Secondary"}

	p := Assemble(m, opts, quietReporter(), nil)
	assert.False(t, p.Sheet().Components.Has(".btn"), "buttons are disabled package-wide")

	buttonsEnabled = true
	t.Cleanup(func() { buttonsEnabled = false })

	rep := quietReporter()
	p = Assemble(m, opts, rep, nil)
	assert.Zero(t, rep.Count(diag.SeverityError))
	assert.True(t, p.Sheet().Components.Has(".btn"))

	opts.Buttons = false
	p = Assemble(m, opts, quietReporter(), nil)
	assert.False(t, p.Sheet().Components.Has(".btn"))
}

func TestAssemble_ExpandRoundedTokens(t *testing.T) {
	p := Assemble(parseFixture(t, manifestDoc), DefaultOptions(), quietReporter(), nil)

	matches, err := p.Expand()
	require.NoError(t, err)

	var classes []string
	for _, m := range matches {
		classes = append(classes, m.Class)
		assert.Equal(t, plugin.LayerUtilities, m.Layer)
	}
	assert.Equal(t, []string{"rounded", "rounded-large"}, classes)

	r := declarations(t, matches[1])
	assert.Equal(t, "0.75rem", declValue(t, r, "borderRadius"))
	desktop := r.Child(rule.ScreenKey("lg"))
	require.NotNil(t, desktop)
	assert.Equal(t, "1rem", declValue(t, desktop, "borderRadius"))
}

func TestRenderOptions_DefaultScreens(t *testing.T) {
	opts := Options{}
	assert.Equal(t, rule.DefaultScreens, opts.renderOptions(nil).Screens)

	opts.Screens = map[string]string{"lg": "1200px"}
	assert.Equal(t, "1200px", opts.renderOptions(nil).Screens["lg"])
}
