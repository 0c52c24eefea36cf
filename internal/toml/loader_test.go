package toml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modulesDoc = `
# module catalog
[uart_axi]
PARAMETERS = ["CLKS_PER_BIT", "DATA_WIDTH"]

[uart_axi.INTERFACES.clk]
TYPE = "CLOCK"
DIRECTION = "SINK"

[uart_axi.INTERFACES.bus]
TYPE = "axi_lite"
DIRECTION = "SINK"
ADDR_WIDTH = "ADDRESS_BITS"

[uart_axi.INTERFACES.tx]
TYPE = "GENERAL"
DIRECTION = "SOURCE"
WIDTH = 1

[uart_axi.REQUIREMENTS.INCLUDES]
COMMON = ["uart.v"]
BOARD = []
`

func TestParse_PreservesOrder(t *testing.T) {
	doc, err := Parse([]byte(modulesDoc))
	require.NoError(t, err)

	ifaces, ok := doc.Lookup("uart_axi", "INTERFACES")
	require.True(t, ok)
	assert.Equal(t, []string{"clk", "bus", "tx"}, ifaces.Keys())

	uart, _ := doc.Get("uart_axi")
	assert.Equal(t, []string{"PARAMETERS", "INTERFACES", "REQUIREMENTS"}, uart.Keys())

	width, _ := doc.Lookup("uart_axi", "INTERFACES", "tx", "WIDTH")
	assert.Equal(t, int64(1), width.Int)
}

func TestParse_Values(t *testing.T) {
	doc, err := Parse([]byte(`
hex = 0x1F
under = 1_000
real = 100.0
flag = true
when = 2024-01-02
inline = { b = 2, a = 1 }
dotted.key = "v"
nested = [[1, 2], ["x"]]
`))
	require.NoError(t, err)

	get := func(path ...string) string {
		v, ok := doc.Lookup(path...)
		require.True(t, ok, path)
		return v.Text()
	}
	assert.Equal(t, "31", get("hex"))
	assert.Equal(t, "1000", get("under"))
	assert.Equal(t, "100.0", get("real"))
	assert.Equal(t, "1", get("flag"))
	assert.Equal(t, "2024-01-02", get("when"))
	assert.Equal(t, "v", get("dotted", "key"))

	inline, _ := doc.Get("inline")
	assert.Equal(t, []string{"b", "a"}, inline.Keys())

	nested, _ := doc.Get("nested")
	require.Len(t, nested.List, 2)
	assert.Equal(t, "[1, 2]", nested.List[0].Text())
}

func TestParse_ArrayTables(t *testing.T) {
	doc, err := Parse([]byte(`
[[RULES]]
HANDSHAKES = ["read", "write"]
RESOLUTION = "a"

[[RULES]]
HANDSHAKES = ["read"]
RESOLUTION = "b"

[RULES.extra]
k = 1
`))
	require.NoError(t, err)
	rules, _ := doc.Get("RULES")
	require.Len(t, rules.List, 2)
	res, _ := rules.List[1].Get("RESOLUTION")
	assert.Equal(t, "b", res.Str)
	k, ok := rules.List[1].Lookup("extra", "k")
	require.True(t, ok)
	assert.Equal(t, int64(1), k.Int)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("a = 1\na = 2\n"))
	assert.ErrorContains(t, err, `duplicate key "a"`)

	_, err = Parse([]byte("a = \n"))
	assert.ErrorContains(t, err, "line 1")

	_, err = Parse([]byte("a = 1\n[a]\n"))
	assert.ErrorContains(t, err, "not a table")
}

func TestLoader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.tml")
	require.NoError(t, os.WriteFile(path, []byte("[IO.led]\nWIDTH = 4\n"), 0o644))

	doc, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	w, ok := doc.Lookup("IO", "led", "WIDTH")
	require.True(t, ok)
	assert.Equal(t, int64(4), w.Int)

	_, err = NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.tml"))
	assert.ErrorContains(t, err, "failed to read")
}
