package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/socforge/internal/model"
)

// The demo library: a CPU with a memory bus routed by address to a RAM and a
// GPIO block, plus a UART wired straight to a board bundle port.

const DemoModules = `
cpu:
  PARAMETERS: [ADDR_WIDTH, RESET_VECTOR]
  INTERFACES:
    clk: {TYPE: CLOCK, DIRECTION: SINK}
    irq: {TYPE: GENERAL, DIRECTION: SINK, WIDTH: 1}
    bus: {TYPE: MEMBUS, DIRECTION: SOURCE, ADDR_WIDTH: ADDR_WIDTH}
  REQUIREMENTS: {INCLUDES: {COMMON: [cpu.v], BOARD: []}}
ram:
  PARAMETERS: [DEPTH, ADDR_WIDTH]
  INTERFACES:
    clk: {TYPE: CLOCK, DIRECTION: SINK}
    bus: {TYPE: MEMBUS, DIRECTION: SINK, ADDR_WIDTH: ADDR_WIDTH}
  REQUIREMENTS: {INCLUDES: {COMMON: [ram.v, cpu.v]}}
gpio:
  PARAMETERS: [COUNT]
  INTERFACES:
    clk: {TYPE: CLOCK, DIRECTION: SINK}
    leds: {TYPE: GENERAL, DIRECTION: SOURCE, WIDTH: COUNT}
    bus: {TYPE: MEMBUS, DIRECTION: SINK, ADDR_WIDTH: 16}
  REQUIREMENTS: {INCLUDES: {COMMON: [gpio.v], BOARD: [clocking.v]}}
uart_axi:
  PARAMETERS: [CLKS_PER_BIT]
  INTERFACES:
    clk: {TYPE: CLOCK, DIRECTION: SINK}
    serial: {TYPE: UART, DIRECTION: SOURCE}
  REQUIREMENTS: {INCLUDES: {COMMON: [uart.v]}}
`

const DemoDefinitions = `
PROTOCOLS:
  MEMBUS:
    WIDTHS: {addr: ADDR_WIDTH, wdata: 32, req_valid: 1, req_ready: 1, rdata: 32, resp_valid: 1, resp_ready: 1, err: 1}
    HANDSHAKES:
      NONE: {REQUEST: [], RESPONSE: [err]}
      REQ: {DIRECTION: REQUEST, VALID: req_valid, READY: req_ready, FRAME: [addr, wdata]}
      RESP: {DIRECTION: RESPONSE, VALID: resp_valid, READY: resp_ready, FRAME: [rdata]}
  UART:
    WIDTHS: {tx: 1, rx: 1}
    HANDSHAKES:
      NONE: {REQUEST: [tx], RESPONSE: [rx]}
INTRINSICS:
  BUFG: "BUFG %{name} (.I(%{in}), .O(%{out}));"
`

const DemoCommonDefaults = `
MODULES:
  cpu: {ADDR_WIDTH: 16, RESET_VECTOR: "32'h0"}
  ram: {DEPTH: 1024, ADDR_WIDTH: 16}
  gpio: {COUNT: 4}
  uart_axi: {CLOCK_FREQ_MHZ: 100, UART_BAUD_RATE_BPS: 115200}
`

const DemoBoard = `
DESCRIPTION: {DIRECTORY: arty, PART: {LONG: xc7a35ticsg324-1L}}
IO:
  clk: {DIRECTION: SOURCE, INTERFACE_TYPE: CLOCK, WIDTH: 1}
  led: {DIRECTION: SINK, INTERFACE_TYPE: GENERAL, WIDTH: 4}
  uart: {DIRECTION: SINK, INTERFACE_TYPE: UART, SIGNALS: {tx: {WIDTH: 1}, rx: {WIDTH: 1}}}
CONSTRAINTS:
  clk: "set_property -dict { PACKAGE_PIN E3 IOSTANDARD LVCMOS33 } [get_ports { clk }];"
  led: "set_property -dict { PACKAGE_PIN H5 IOSTANDARD LVCMOS33 } [get_ports { led[0] }];"
  uart: "set_property -dict { PACKAGE_PIN D10 IOSTANDARD LVCMOS33 } [get_ports { uart_tx }];"
REQUIREMENTS:
  IP:
    clocking.v: {clk_wiz: "create_ip -name clk_wiz -vendor xilinx.com -library ip -module_name clk_wiz_0"}
    reset_sync.v: {proc_sys_reset: "create_ip -name proc_sys_reset -vendor xilinx.com -library ip -module_name rst_0"}
  FILES:
    clocking.v: {HDL: [reset_sync.v], IP: [clk_wiz_0.xci]}
    reset_sync.v: {HDL: []}
`

const DemoBoardDefaults = `
MODULES:
  uart_axi: {CLOCK_FREQ_MHZ: 50}
`

const DemoSystem = `
DESCRIPTION: {NAME: demo}
REQUIREMENTS: {BOARDS: [arty]}
MEMORY_MAP:
  ram: {ORIGIN: "0x0000", LENGTH: "0x1000"}
  gpio: {ORIGIN: "0x1000", LENGTH: "0x0010"}
EXTERNAL_IO: {PORTS: [clk, led, uart]}
INSTANTIATIONS:
  cpu: {MODULE: cpu}
  ram: {MODULE: ram, PARAMETERS: {DEPTH: 2048}}
  gpio: {MODULE: gpio}
  uart0: {MODULE: uart_axi}
INTRINSICS:
  BUFG:
    - {name: clk_buf, in: "BOARD:clk", out: "CUSTOM:clk_g"}
INTERCONNECT:
  STATIC:
    - ["BOARD:clk", "MODULE:cpu:clk", "MODULE:ram:clk", "MODULE:gpio:clk", "MODULE:uart0:clk"]
    - ["MODULE:gpio:leds", "BOARD:led"]
    - ["MODULE:uart0:serial", "BOARD:uart"]
  DYNAMIC:
    "MODULE:cpu:bus":
      HANDSHAKES: [REQ, RESP]
      GROUPS:
        - INTERCONNECT_TYPE: ONE_TO_MANY
          HANDSHAKE_MAP: ["REQ MODULE:cpu:bus:addr", "RESP MODULE:cpu:bus:addr"]
          ADDRESS_MAP: ["SYSTEM:MEMORY_MAP.ram MODULE:ram:bus", "SYSTEM:MEMORY_MAP.gpio MODULE:gpio:bus"]
    "MODULE:ram:bus":
      HANDSHAKES: [REQ, RESP]
      GROUPS: [{INTERCONNECT_TYPE: ONE_TO_ONE, INTERFACE: "MODULE:cpu:bus"}]
    "MODULE:gpio:bus":
      HANDSHAKES: [REQ, RESP]
      GROUPS: [{INTERCONNECT_TYPE: ONE_TO_ONE, INTERFACE: "MODULE:cpu:bus"}]
  OVERRIDES:
    - ["MODULE:cpu:irq", "0"]
`

// Library is a set of inline catalog documents.
type Library struct {
	Modules        string
	Definitions    string
	CommonDefaults string
	Board          string
	BoardDefaults  string
}

// Demo is the demo library.
var Demo = Library{
	Modules:        DemoModules,
	Definitions:    DemoDefinitions,
	CommonDefaults: DemoCommonDefaults,
	Board:          DemoBoard,
	BoardDefaults:  DemoBoardDefaults,
}

// Catalog decodes the library. The board is named arty.
func (l Library) Catalog(t testing.TB) *model.Catalog {
	t.Helper()

	modules, err := model.DecodeModules(Doc(t, l.Modules))
	require.NoError(t, err)
	defs, err := model.DecodeDefinitions(Doc(t, l.Definitions))
	require.NoError(t, err)
	common, err := model.DecodeDefaults(Doc(t, l.CommonDefaults))
	require.NoError(t, err)
	boardDefaults, err := model.DecodeDefaults(Doc(t, l.BoardDefaults))
	require.NoError(t, err)
	board, err := model.DecodeBoard("arty", Doc(t, l.Board))
	require.NoError(t, err)

	return &model.Catalog{
		Modules:        modules,
		Definitions:    defs,
		CommonDefaults: common,
		BoardDefaults:  boardDefaults,
		Board:          board,
	}
}

// System decodes an inline system description.
func System(t testing.TB, src string) *model.System {
	t.Helper()
	sys, err := model.DecodeSystem("system.yaml", Doc(t, src))
	require.NoError(t, err)
	return sys
}
