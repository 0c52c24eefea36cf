package yaml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/socforge/internal/config"
)

func TestParse_YAMLKeepsOrder(t *testing.T) {
	src := `
PROTOCOLS:
  axi_lite:
    WIDTHS:
      awvalid: 1
      awaddr: ADDR_WIDTH
      wdata: 32
    HANDSHAKES:
      aw: {DIRECTION: REQUEST, VALID: awvalid, READY: awready, FRAME: [awaddr]}
      b:  {DIRECTION: RESPONSE, VALID: bvalid, READY: "", FRAME: []}
    ENABLED: true
    RATIO: 0.5
    MISSING: ~
`
	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	widths, ok := doc.Lookup("PROTOCOLS", "axi_lite", "WIDTHS")
	require.True(t, ok)
	assert.Equal(t, []string{"awvalid", "awaddr", "wdata"}, widths.Keys())

	hs, _ := doc.Lookup("PROTOCOLS", "axi_lite", "HANDSHAKES")
	assert.Equal(t, []string{"aw", "b"}, hs.Keys())
	frame, _ := hs.Lookup("aw", "FRAME")
	assert.Equal(t, "[awaddr]", frame.Text())

	enabled, _ := doc.Lookup("PROTOCOLS", "axi_lite", "ENABLED")
	assert.Equal(t, config.KindBool, enabled.Kind)
	ratio, _ := doc.Lookup("PROTOCOLS", "axi_lite", "RATIO")
	assert.Equal(t, 0.5, ratio.Float)
	missing, _ := doc.Lookup("PROTOCOLS", "axi_lite", "MISSING")
	assert.Equal(t, config.KindNull, missing.Kind)
}

func TestParse_JSON(t *testing.T) {
	doc, err := Parse([]byte(`{"b": 1, "a": [1, "x", 2.5], "c": {"z": null}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, doc.Keys())
	a, _ := doc.Get("a")
	assert.Equal(t, "[1, x, 2.5]", a.Text())
}

func TestParse_AnchorsAndMerge(t *testing.T) {
	src := `
base: &base {WIDTH: 8, DIRECTION: SOURCE}
led:
  <<: *base
  WIDTH: 4
`
	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	led, _ := doc.Get("led")
	assert.Equal(t, []string{"WIDTH", "DIRECTION"}, led.Keys())
	w, _ := led.Get("WIDTH")
	assert.Equal(t, int64(4), w.Int)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("a: 1\na: 2\n"))
	assert.ErrorContains(t, err, "duplicate key")

	_, err = Parse([]byte("a: [1, 2"))
	assert.Error(t, err)

	doc, err := Parse([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, doc.Keys())
}

func TestLoader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte("DESCRIPTION:\n  DIRECTORY: arty\n"), 0o644))

	doc, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	dir, ok := doc.Lookup("DESCRIPTION", "DIRECTORY")
	require.True(t, ok)
	assert.Equal(t, "arty", dir.Str)
}
