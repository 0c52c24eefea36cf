package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/yaml"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		kind    Kind
		doc     string
		wantErr string
	}{
		{
			name: "module catalog",
			kind: Modules,
			doc: `
uart_axi:
  PARAMETERS: [CLKS_PER_BIT]
  INTERFACES:
    clk: {TYPE: CLOCK, DIRECTION: SINK}
    tx: {TYPE: GENERAL, DIRECTION: SOURCE, WIDTH: 1}
  REQUIREMENTS: {INCLUDES: {COMMON: [uart.v], BOARD: []}}
`,
		},
		{
			name: "interface direction is checked",
			kind: Modules,
			doc: `
uart_axi:
  INTERFACES:
    tx: {TYPE: GENERAL, DIRECTION: OUTWARD, WIDTH: 1}
`,
			wantErr: "uart_axi.INTERFACES.tx.DIRECTION",
		},
		{
			name: "protocol with passive handshake",
			kind: Definitions,
			doc: `
PROTOCOLS:
  gpio:
    WIDTHS: {data: 8, oe: 1}
    HANDSHAKES:
      NONE: {REQUEST: [oe], RESPONSE: []}
      write: {DIRECTION: REQUEST, VALID: oe, READY: "", FRAME: [data]}
INTRINSICS:
  pullup: "PULLUP %{name} (.O(%{net}));"
`,
		},
		{
			name: "handshake requires a direction",
			kind: Definitions,
			doc: `
PROTOCOLS:
  gpio:
    WIDTHS: {data: 8}
    HANDSHAKES:
      write: {VALID: oe}
`,
			wantErr: "DIRECTION",
		},
		{
			name: "board needs a directory",
			kind: Board,
			doc: `
DESCRIPTION: {PART: {LONG: xc7a35ticsg324-1L}}
IO: {}
`,
			wantErr: "DIRECTORY",
		},
		{
			name: "system",
			kind: System,
			doc: `
DESCRIPTION: {NAME: blinky}
INSTANTIATIONS:
  cpu:
    MODULE: picorv32_axi
    MAP: {ram: {ORIGIN: "0x0", LENGTH: "0x1000"}}
INTERCONNECT:
  STATIC: [["BOARD:clk", "MODULE:cpu:clk"]]
  OVERRIDES: [["MODULE:cpu:irq", 0]]
`,
		},
		{
			name: "overrides are pairs",
			kind: System,
			doc: `
DESCRIPTION: {NAME: blinky}
INSTANTIATIONS: {}
INTERCONNECT:
  OVERRIDES: [["MODULE:cpu:irq"]]
`,
			wantErr: "OVERRIDES",
		},
	}

	v, err := New()
	require.NoError(t, err)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := yaml.Parse([]byte(tc.doc))
			require.NoError(t, err)

			err = v.Validate(tc.kind, "doc.yaml", doc)

			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrSchema))
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
