package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/twmanifest/internal/rule"
)

func radiusPlugin() *Plugin {
	p := New()
	values := rule.New().Set(DefaultToken, "4px").Set("lg", "12px").Set("bad", 3)
	p.MatchUtility("rounded", func(v any) (*rule.Rule, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return rule.New().Set("borderRadius", s), nil
	}, values)
	p.MatchComponent("st", func(v any) (*rule.Rule, error) {
		prop, token, ok := strings.Cut(v.(string), "|")
		if !ok {
			return nil, errors.New("want property|token")
		}
		return rule.New().Set(prop, token), nil
	}, nil)
	return p
}

func TestResolve_Token(t *testing.T) {
	p := radiusPlugin()

	m, err := p.Resolve("rounded-lg")
	require.NoError(t, err)
	assert.Equal(t, "rounded", m.Matcher)
	assert.Equal(t, LayerUtilities, m.Layer)

	decls, ok := m.Rule.Get(".rounded-lg")
	require.True(t, ok)
	v, _ := decls.(*rule.Rule).Get("borderRadius")
	assert.Equal(t, "12px", v)
}

func TestResolve_Default(t *testing.T) {
	m, err := radiusPlugin().Resolve("rounded")
	require.NoError(t, err)
	assert.True(t, m.Rule.Has(".rounded"))
}

func TestResolve_Arbitrary(t *testing.T) {
	m, err := radiusPlugin().Resolve("st-[padding|lg]")
	require.NoError(t, err)
	assert.Equal(t, LayerComponents, m.Layer)
	assert.True(t, m.Rule.Has(`.st-\[padding\|lg\]`))

	_, err = radiusPlugin().Resolve("st-[padding]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want property|token")
}

func TestResolve_Errors(t *testing.T) {
	p := radiusPlugin()

	_, err := p.Resolve("rounded-huge")
	require.ErrorIs(t, err, ErrUnknownToken)

	_, err = p.Resolve("st-padding")
	require.ErrorIs(t, err, ErrUnknownToken)

	_, err = p.Resolve("flex")
	require.ErrorIs(t, err, ErrNoMatcher)

	_, err = p.Resolve("shadow-[0_0_1px]")
	require.ErrorIs(t, err, ErrNoMatcher)
}

func TestResolve_LongestNameWins(t *testing.T) {
	p := New()
	values := rule.New().Set("t-large", "a").Set("large", "b")
	p.MatchUtility("p", func(v any) (*rule.Rule, error) { return rule.New().Set("padding", v), nil }, values)
	p.MatchUtility("pt", func(v any) (*rule.Rule, error) { return rule.New().Set("paddingTop", v), nil }, values)

	m, err := p.Resolve("pt-large")
	require.NoError(t, err)
	assert.Equal(t, "pt", m.Matcher)
}

func TestExpand(t *testing.T) {
	matches, err := radiusPlugin().Expand()
	require.Error(t, err, "the numeric token is rejected")

	var classes []string
	for _, m := range matches {
		classes = append(classes, m.Class)
	}
	assert.Equal(t, []string{"rounded", "rounded-lg"}, classes)
}

func TestRegisterReplacesByName(t *testing.T) {
	p := radiusPlugin()
	p.MatchUtility("rounded", func(any) (*rule.Rule, error) { return rule.New().Set("x", 1), nil }, rule.New().Set("a", 1))

	assert.Len(t, p.Matchers(), 2)
	m, ok := p.Matcher("rounded")
	require.True(t, ok)
	assert.True(t, m.Values.Has("a"))
}

func TestTheme(t *testing.T) {
	p := New()
	p.SetTheme("extend.spacing.large-gap", "2rem")
	p.SetTheme("container.center", true)

	v, ok := p.ThemeValue("extend.spacing.large-gap")
	require.True(t, ok)
	assert.Equal(t, "2rem", v)

	out, err := json.Marshal(p.Theme())
	require.NoError(t, err)
	assert.Equal(t, `{"extend":{"spacing":{"large-gap":"2rem"}},"container":{"center":true}}`, string(out))
}

func TestAddComponents_MergesSelectors(t *testing.T) {
	p := New()
	first := rule.New()
	first.Child(".btn").Set("display", "inline-flex")
	second := rule.New()
	second.Child(".btn").Set("gap", "1rem")
	p.AddComponents(first)
	p.AddComponents(second)

	sheet := p.Sheet()
	btn, _ := sheet.Components.Get(".btn")
	assert.Equal(t, []string{"display", "gap"}, btn.(*rule.Rule).Keys())
}

func TestSheet_WriteCSS(t *testing.T) {
	p := radiusPlugin()
	base := rule.New()
	base.Child("h1").Set("fontSize", "2rem")
	p.AddBase(base)

	sheet := p.Sheet()
	m, err := p.Resolve("rounded-lg")
	require.NoError(t, err)
	sheet.Add(m)
	assert.Equal(t, 2, sheet.Len())

	var sb strings.Builder
	require.NoError(t, sheet.WriteCSS(&sb, rule.RenderOptions{}))
	out := sb.String()
	assert.Contains(t, out, "@layer base {")
	assert.Contains(t, out, "@layer utilities {")
	assert.NotContains(t, out, "@layer components")
	assert.Less(t, strings.Index(out, "@layer base"), strings.Index(out, "@layer utilities"))

	body, err := sheet.LayerCSS(LayerUtilities, rule.RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, ".rounded-lg {\n  border-radius: 12px;\n}\n", body)
}

func TestSplitArbitrary(t *testing.T) {
	name, val, ok := SplitArbitrary("fluid-text-[16|24]")
	require.True(t, ok)
	assert.Equal(t, "fluid-text", name)
	assert.Equal(t, "16|24", val)

	_, _, ok = SplitArbitrary("fluid-text-16")
	assert.False(t, ok)
	_, _, ok = SplitArbitrary("[16]")
	assert.False(t, ok)
}
