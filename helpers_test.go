package twmanifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yacobolo/twmanifest/internal/diag"
	"github.com/yacobolo/twmanifest/internal/manifest"
	"github.com/yacobolo/twmanifest/internal/plugin"
	"github.com/yacobolo/twmanifest/internal/rule"
)

const manifestDoc = `{
  "Typography": {
    "Heading 1/Mobile": {
      "fontSize": 32,
      "fontName": {"family": "PP Editorial New", "style": "Bold"},
      "lineHeight": {"value": 110, "unit": "PERCENT"}
    },
    "Heading 1/Desktop": {
      "fontSize": 64,
      "fontName": {"family": "PP Editorial New", "style": "Bold"},
      "lineHeight": {"value": 110, "unit": "PERCENT"}
    },
    "Body": {
      "fontSize": 16,
      "fontName": {"family": "Maison Neue", "style": "Regular"},
      "lineHeight": {"value": 24, "unit": "PIXELS"}
    },
    "Utility/Desktop": {
      "fontSize": 12,
      "fontName": {"family": "Maison Neue", "style": "Medium"},
      "lineHeight": {"unit": "AUTO"}
    }
  },
  "Color": {
    "Brand/Primary": "#112233",
    "Brand/Overlay": {"r": 0, "g": 0, "b": 0, "a": 0.5}
  },
  "Sizing": {
    "Space/Small": {"mobile": 10, "desktop": 12},
    "Space/Large Gap": {"mobile": 40, "desktop": 64},
    "Space/Page Margin": {"mobile": 16, "desktop": 40},
    "Inputs/Button/Padding Left Right": {"mobile": 20, "desktop": 24},
    "Inputs/Button/Padding Top Bottom": {"mobile": 10, "desktop": 12},
    "Inputs/Button/Gap": {"mobile": 8, "desktop": 10},
    "Border/Radius": {"mobile": 2, "desktop": 4},
    "Border/Radius/Large": {"mobile": 12, "desktop": 16}
  }
}`

func parseFixture(t *testing.T, doc string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.ParseBytes([]byte(doc), "fixture")
	require.NoError(t, err)
	return m
}

func writeManifest(t *testing.T, dir, doc string) string {
	t.Helper()
	path := filepath.Join(dir, "design.manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func quietReporter() *diag.Reporter {
	return diag.NewReporter(nil, false)
}

func themeValue(t *testing.T, theme *rule.Rule, path string) any {
	t.Helper()
	v, ok := theme.Lookup(path)
	require.True(t, ok, "missing theme path %q", path)
	return v
}

// declarations returns the declaration block of a single-selector match.
func declarations(t *testing.T, m *plugin.Match) *rule.Rule {
	t.Helper()
	entries := m.Rule.Entries()
	require.Len(t, entries, 1)
	r, ok := entries[0].Value.(*rule.Rule)
	require.True(t, ok)
	return r
}

func declValue(t *testing.T, r *rule.Rule, key string) any {
	t.Helper()
	v, ok := r.Get(key)
	require.True(t, ok, "missing %q in %v", key, r.Keys())
	return v
}
