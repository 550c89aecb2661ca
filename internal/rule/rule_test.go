package rule

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRule_SetKeepsPosition(t *testing.T) {
	r := New().Set("a", 1).Set("b", 2).Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, r.Keys())
	v, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestRule_MergeIsSpread(t *testing.T) {
	base := New().Set("fontSize", "1rem").Set("lineHeight", 1.2)
	over := New().Set("lineHeight", 1.5).Set("letterSpacing", "0.02em")

	got := base.Clone().Merge(over)
	want := []Entry{
		{Key: "fontSize", Value: "1rem"},
		{Key: "lineHeight", Value: 1.5},
		{Key: "letterSpacing", Value: "0.02em"},
	}
	if diff := cmp.Diff(want, got.Entries()); diff != "" {
		t.Errorf("merged entries mismatch (-want +got):\n%s", diff)
	}

	// Clone is deep: the original is untouched.
	v, _ := base.Get("lineHeight")
	assert.Equal(t, 1.2, v)
}

func TestRule_CloneIsDeep(t *testing.T) {
	r := New()
	r.Child(".a").Set("color", "red")

	c := r.Clone()
	c.Child(".a").Set("color", "blue")

	v, _ := r.Child(".a").Get("color")
	assert.Equal(t, "red", v)
}

func TestRule_Without(t *testing.T) {
	r := New().Set("fontSize", 16).Set("fontFamily", "x").Set("color", "red")
	assert.Equal(t, []string{"color"}, r.Without("fontSize", "fontFamily").Keys())
	assert.Equal(t, 3, r.Len())
}

func TestRule_Paths(t *testing.T) {
	r := New()
	r.SetPath("extend.spacing.large-gap", "2rem")
	r.SetPath("colors.brand-primary", "#112233")

	v, ok := r.Lookup("extend.spacing.large-gap")
	require.True(t, ok)
	assert.Equal(t, "2rem", v)

	_, ok = r.Lookup("extend.spacing.missing")
	assert.False(t, ok)
	_, ok = r.Lookup("colors.brand-primary.deeper")
	assert.False(t, ok)
}

func TestRule_MarshalJSONKeepsOrder(t *testing.T) {
	r := New().Set("z", 1).Set("a", "x")
	r.Child("m").Set("center", true)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"x","m":{"center":true}}`, string(out))
}

func TestRule_NilIsEmpty(t *testing.T) {
	var r *Rule
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Entries())
	assert.False(t, r.Has("x"))
}

func TestScreenKey(t *testing.T) {
	assert.Equal(t, "@screen lg", ScreenKey("lg"))
	assert.True(t, strings.HasPrefix(ScreenKey("sm"), "@"))
}
