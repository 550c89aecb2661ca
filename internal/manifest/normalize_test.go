package manifest

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}

func TestKebab(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Large Gap", "large-gap"},
		{"large-gap", "large-gap"},
		{"LargeGap", "large-gap"},
		{"Heading 1", "heading-1"},
		{"2XS", "2xs"},
		{"_Deprecated", "deprecated"},
		{"padding_left  right", "padding-left-right"},
		{"XMLHttp", "xml-http"},
		{"Café Noir", "cafe-noir"},
		{"Black & White", "black-white"},
		{"Info@Large", "info-large"},
		{"Editor's Pick", "editors-pick"},
		{"50% Tint", "50-tint"},
		{"  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Kebab(tt.in))
		})
	}
}

func TestKebab_Idempotent(t *testing.T) {
	for _, s := range []string{"Large Gap", "Page Margin", "Button/Padding Top Bottom", "2XL"} {
		once := Kebab(s)
		assert.Equal(t, once, Kebab(once), s)
	}
}

func TestStripPrefix(t *testing.T) {
	rest, ok := StripPrefix("Space/Large Gap", "Space/", "Inputs/")
	require.True(t, ok)
	assert.Equal(t, "Large Gap", rest)

	rest, ok = StripPrefix("space/large-gap", "Space/", "Inputs/")
	require.True(t, ok)
	assert.Equal(t, "large-gap", rest)

	_, ok = StripPrefix("Border/Radius/Small", "Space/", "Inputs/")
	assert.False(t, ok)
}

func TestPathToken_SameTokenForEquivalentKeys(t *testing.T) {
	a, _ := StripPrefix("Space/Large Gap", "Space/")
	b, _ := StripPrefix("space/large-gap", "Space/")
	assert.Equal(t, "large-gap", PathToken(a))
	assert.Equal(t, PathToken(a), PathToken(b))

	assert.Equal(t, "button-padding-top-bottom", PathToken("Button/Padding Top Bottom"))
	assert.Equal(t, "black-white", PathToken("Black & White"))
}

func TestNormalizer_RecordsCollisions(t *testing.T) {
	n := NewNormalizer()
	n.Track("Space/Large Gap", "large-gap")
	n.Track("Space/Small", "small")
	n.Track("space/large-gap", "large-gap")
	n.Track("space/large-gap", "large-gap")

	require.Len(t, n.Collisions(), 1)
	c := n.Collisions()[0]
	assert.Equal(t, "large-gap", c.Token)
	assert.Equal(t, "space/large-gap", c.Kept)
	assert.Equal(t, "Space/Large Gap", c.Replaced)
	assert.Contains(t, c.String(), `"large-gap"`)
}

func TestParseResponsive(t *testing.T) {
	obj := NewObject()
	obj.Set("mobile", 16.0)
	obj.Set("desktop", 24.0)

	v, err := ParseResponsive(obj)
	require.NoError(t, err)
	assert.Equal(t, ResponsiveValue{Mobile: 16, Desktop: 24}, v)

	bad := NewObject()
	bad.Set("mobile", "auto")
	bad.Set("desktop", 24.0)
	_, err = ParseResponsive(bad)
	require.ErrorIs(t, err, ErrNotResponsive)

	missing := NewObject()
	missing.Set("mobile", 1.0)
	_, err = ParseResponsive(missing)
	require.ErrorIs(t, err, ErrNotResponsive)

	_, err = ParseResponsive("16px")
	require.ErrorIs(t, err, ErrNotResponsive)
}
