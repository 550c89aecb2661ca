package sections

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yacobolo/twmanifest/internal/diag"
	"github.com/yacobolo/twmanifest/internal/plugin"
	"github.com/yacobolo/twmanifest/internal/rule"
	"github.com/yacobolo/twmanifest/internal/units"
)

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}

func newEnv(mode units.FluidMode) *Env {
	return &Env{
		Plugin:   plugin.New(),
		Reporter: diag.NewReporter(nil, false),
		Options:  Options{Fluid: mode, ColorGroupStyle: ColorGroupFull, ButtonTypename: ButtonTypeBody},
	}
}

func childRule(t *testing.T, r *rule.Rule, key string) *rule.Rule {
	t.Helper()
	v, ok := r.Get(key)
	require.True(t, ok, "missing key %q in %v", key, r.Keys())
	child, ok := v.(*rule.Rule)
	require.True(t, ok, "key %q holds %T", key, v)
	return child
}

func value(t *testing.T, r *rule.Rule, key string) any {
	t.Helper()
	v, ok := r.Get(key)
	require.True(t, ok, "missing key %q in %v", key, r.Keys())
	return v
}

const sizingDoc = `{
  "Space/Large Gap": {"mobile": 40, "desktop": 64},
  "Space/Small": {"mobile": 10, "desktop": 12},
  "Space/Medium": {"mobile": 25, "desktop": 32},
  "Space/Page Margin": {"mobile": 16, "desktop": 40},
  "Space/Placeholder": {"mobile": "auto", "desktop": "auto"},
  "Inputs/Button/Padding Left Right": {"mobile": 20, "desktop": 24},
  "Inputs/Button/Padding Top Bottom": {"mobile": 10, "desktop": 12},
  "Inputs/Button/Gap": {"mobile": 8, "desktop": 10},
  "Inputs/Forms/Radius": {"mobile": 4, "desktop": 6},
  "Border/Radius": {"mobile": 2, "desktop": 4},
  "Border/Radius/Large": {"mobile": 12, "desktop": 16},
  "Grid/Columns": {"mobile": 4, "desktop": 12}
}`

const typographyDoc = `{
  "Heading 1/Mobile": {
    "fontSize": 32,
    "textCase": "UPPER",
    "fontName": {"family": "PP Editorial New", "style": "Bold Italic"},
    "lineHeight": {"value": 110, "unit": "PERCENT"},
    "letterSpacing": {"value": -2, "unit": "PERCENT"}
  },
  "Heading 1/Desktop": {
    "fontSize": 64,
    "textCase": "UPPER",
    "fontName": {"family": "PP Editorial New", "style": "Bold Italic"},
    "lineHeight": {"value": 110, "unit": "PERCENT"},
    "letterSpacing": {"value": -2, "unit": "PERCENT"}
  },
  "Body": {
    "fontSize": 16,
    "fontName": {"family": "Maison Neue", "style": "Regular"},
    "lineHeight": {"value": 24, "unit": "PIXELS"},
    "textDecoration": "NONE"
  },
  "Utility/Desktop": {
    "fontSize": 12,
    "textCase": "TITLE",
    "fontName": {"family": "Maison Neue", "style": "Medium"},
    "lineHeight": {"unit": "AUTO"},
    "letterSpacing": {"value": 1, "unit": "PIXELS"}
  }
}`
