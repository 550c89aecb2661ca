package manifest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeObject_PreservesOrder(t *testing.T) {
	doc := `{"b": 1, "a": {"z": true, "y": null}, "c": [1, "x"], "b": 2}`

	obj, err := DecodeObject(stringsReader(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, obj.Keys())

	b, _ := obj.Get("b")
	assert.InDelta(t, 2.0, b, 1e-9, "later duplicate wins")

	a, _ := obj.Get("a")
	require.IsType(t, &Object{}, a)
	assert.Equal(t, []string{"z", "y"}, a.(*Object).Keys())

	c, _ := obj.Get("c")
	assert.Equal(t, []any{1.0, "x"}, c)

	out, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2,"a":{"z":true,"y":null},"c":[1,"x"]}`, string(out))
	assert.Equal(t, `{"b":2,"a":{"z":true,"y":null},"c":[1,"x"]}`, string(out))
}

func TestDecodeObject_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"array at top level", `[1, 2]`},
		{"truncated", `{"a": 1`},
		{"trailing data", `{"a": 1} {"b": 2}`},
		{"bad literal", `{"a": nope}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeObject(stringsReader(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestManifestSection(t *testing.T) {
	m, err := ParseBytes([]byte(`{"Color": {"Brand/Primary": "#112233"}}`), "fixture")
	require.NoError(t, err)

	colors, ok := m.Section(SectionColor)
	require.True(t, ok)
	require.IsType(t, &Object{}, colors)

	_, ok = m.Section(SectionTypography)
	assert.False(t, ok)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "design.manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Sizing": {}}`), 0644))

	m, err := FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, m.Origin)

	_, err = FileSource{Path: filepath.Join(dir, "missing.json")}.Load(context.Background())
	require.ErrorIs(t, err, ErrManifestNotFound)

	_, err = FileSource{}.Load(context.Background())
	require.ErrorIs(t, err, ErrManifestNotFound)
}

func TestMemorySource_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MemorySource{Data: []byte(`{}`)}.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCache_ReloadsOnlyWhenFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "design.manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Color": {}}`), 0644))

	cache := NewCache()
	src := FileSource{Path: path}
	ctx := context.Background()

	first, err := cache.Get(ctx, src)
	require.NoError(t, err)
	second, err := cache.Get(ctx, src)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Loads())

	require.NoError(t, os.WriteFile(path, []byte(`{"Color": {"A/B": "#fff"}}`), 0644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	third, err := cache.Get(ctx, src)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, 2, cache.Loads())
	assert.Equal(t, 1, cache.Len())

	cache.Reset()
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 0, cache.Loads())
}

func TestCache_EvictsMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "design.manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	cache := NewCache()
	_, err := cache.Get(context.Background(), FileSource{Path: path})
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	_, err = cache.Get(context.Background(), FileSource{Path: path})
	require.ErrorIs(t, err, ErrManifestNotFound)
	assert.Equal(t, 0, cache.Len())
}

func TestDefaultCache_IsSingleton(t *testing.T) {
	assert.Same(t, DefaultCache(), DefaultCache())
}
