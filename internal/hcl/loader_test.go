package hcl

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/socforge/internal/ctxlog"
)

const systemDoc = `
DESCRIPTION {
  NAME = "blinky"
}

INSTANTIATIONS "cpu" {
  MODULE = "picorv32_axi"
  PARAMETERS = { ENABLE_INTERRUPTS = 0, CLOCK_FREQ_MHZ = 100.5 }
  MAP = {
    ram  = { ORIGIN = "0x00000000", LENGTH = "0x1000" }
    uart = { ORIGIN = "0x00010000", LENGTH = "0x10" }
  }
}

INSTANTIATIONS "led_ctrl" {
  MODULE = "gpio"
}

EXTERNAL_IO {
  PORTS = ["clk", "led"]
}

INTERCONNECT {
  STATIC = [
    ["BOARD:clk", "MODULE:cpu:clk"],
  ]
  OVERRIDES = [["MODULE:cpu:irq", -1]]
}
`

func TestParse_BlocksAndAttributesInOrder(t *testing.T) {
	doc, err := Parse([]byte(systemDoc), "system.hcl")
	require.NoError(t, err)

	assert.Equal(t, []string{"DESCRIPTION", "INSTANTIATIONS", "EXTERNAL_IO", "INTERCONNECT"}, doc.Keys())

	insts, _ := doc.Get("INSTANTIATIONS")
	assert.Equal(t, []string{"cpu", "led_ctrl"}, insts.Keys())

	cpu, _ := insts.Get("cpu")
	assert.Equal(t, []string{"MODULE", "PARAMETERS", "MAP"}, cpu.Keys())

	mapping, _ := cpu.Get("MAP")
	assert.Equal(t, []string{"ram", "uart"}, mapping.Keys())
	origin, _ := mapping.Lookup("uart", "ORIGIN")
	assert.Equal(t, "0x00010000", origin.Str)

	params, _ := cpu.Get("PARAMETERS")
	assert.Equal(t, []string{"ENABLE_INTERRUPTS", "CLOCK_FREQ_MHZ"}, params.Keys())
	irq, _ := params.Get("ENABLE_INTERRUPTS")
	assert.Equal(t, "0", irq.Text())
	clk, _ := params.Get("CLOCK_FREQ_MHZ")
	assert.Equal(t, 100.5, clk.Float)

	static, _ := doc.Lookup("INTERCONNECT", "STATIC")
	require.Len(t, static.List, 1)
	pair, ok := static.List[0].Strings()
	require.True(t, ok)
	assert.Equal(t, []string{"BOARD:clk", "MODULE:cpu:clk"}, pair)

	overrides, _ := doc.Lookup("INTERCONNECT", "OVERRIDES")
	assert.Equal(t, "[MODULE:cpu:irq, -1]", overrides.List[0].Text())
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("a = {"), "broken.hcl")
	assert.ErrorContains(t, err, "failed to parse HCL file broken.hcl")

	_, err = Parse([]byte("a = var.x\n"), "vars.hcl")
	assert.Error(t, err)

	_, err = Parse([]byte("a = 1\na {\n}\n"), "clash.hcl")
	assert.ErrorContains(t, err, "conflicts with attribute")
}

func TestLoader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`MODULES "uart_axi" { UART_BAUD_RATE_BPS = 115200 }`), 0o644))

	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	doc, err := NewLoader().Load(ctx, path)
	require.NoError(t, err)
	baud, ok := doc.Lookup("MODULES", "uart_axi", "UART_BAUD_RATE_BPS")
	require.True(t, ok)
	assert.Equal(t, int64(115200), baud.Int)
}
