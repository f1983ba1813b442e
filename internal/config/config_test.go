package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/vstyle/pkg/dom/htmldoc"
	"github.com/recera/vstyle/pkg/styling"
)

const manifest = `
title: Demo
mixins:
  center:
    display: flex
    align-items: center
  loud:
    color: orange
    font-weight: bold
rules:
  - selector: .card
    mixins: [center, loud]
    properties:
      color: red
      padding: 4px
  - selector: .card
    media: print
    properties:
      color: black
  - selector: .card
    remove: [padding]
  - selector: .ghost
    remove: all
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(manifest))
	require.NoError(t, err)

	assert.Equal(t, "Demo", m.Title)
	assert.Equal(t, defaultAddr, m.Addr)
	require.Len(t, m.Rules, 4)
	assert.Equal(t, Block{{Name: "display", Value: "flex"}, {Name: "align-items", Value: "center"}}, m.Mixins["center"])
	assert.False(t, m.Rules[0].IsRemoval())
	assert.True(t, m.Rules[2].IsRemoval())
	assert.Equal(t, styling.RemoveProperties{Names: []string{"padding"}}, m.Rules[2].Request())
	assert.Equal(t, styling.RemoveAll{}, m.Rules[3].Request())
}

func TestResolve_MixinOrder(t *testing.T) {
	m, err := Parse([]byte(manifest))
	require.NoError(t, err)

	got := m.Rules[0].Resolve(m.Mixins)
	want := styling.Props(
		"display", "flex",
		"align-items", "center",
		"color", "red",
		"font-weight", "bold",
		"padding", "4px",
	)
	assert.Equal(t, want, got)
}

func TestApply(t *testing.T) {
	m, err := Parse([]byte(manifest))
	require.NoError(t, err)

	reg := styling.New(htmldoc.New())
	res := Apply(m, reg)

	assert.Equal(t, Result{Inserted: 2, Removed: 1, Missed: 1}, res)

	e, ok := reg.Lookup(".card", "")
	require.True(t, ok)
	assert.Equal(t, ".card{display : flex;align-items : center;color : red;font-weight : bold;}", e.CSS)

	e, ok = reg.Lookup(".card", "print")
	require.True(t, ok)
	assert.Equal(t, ".card{color : black;}", e.CSS)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing selector", "rules:\n  - properties: {color: red}\n"},
		{"unknown mixin", "rules:\n  - selector: a\n    mixins: [nope]\n"},
		{"remove with properties", "rules:\n  - selector: a\n    remove: all\n    properties: {color: red}\n"},
		{"remove number", "rules:\n  - selector: a\n    remove: 3\n"},
		{"remove list of maps", "rules:\n  - selector: a\n    remove: [{x: 1}]\n"},
		{"nested property", "rules:\n  - selector: a\n    properties: {color: {r: 1}}\n"},
		{"properties list", "rules:\n  - selector: a\n    properties: [color]\n"},
		{"not yaml", "rules: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidManifest)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "styles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9000\"\nrules:\n  - selector: p\n    properties: {margin: 0}\n"), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", m.Addr)
	assert.Equal(t, defaultTitle, m.Title)
	assert.Equal(t, styling.Props("margin", "0"), m.Rules[0].Resolve(nil))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
