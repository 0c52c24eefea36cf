package signal

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/params"
	"github.com/vk/socforge/internal/testutil"
)

func demoResolver(t *testing.T) *Resolver {
	t.Helper()
	cat := testutil.Demo.Catalog(t)
	sys := testutil.System(t, testutil.DemoSystem)
	resolved := map[string]*params.Resolved{}
	for name, inst := range sys.Instances.All() {
		p, err := params.New(cat).Resolve(inst)
		require.NoError(t, err)
		resolved[name] = p
	}
	return NewResolver(cat, sys, resolved)
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in   string
		want Ref
	}{
		{"42", NumeralRef{Value: "42"}},
		{"CONSTANT:1'b0", ConstantRef{Value: "1'b0"}},
		{"CUSTOM:clk_g", CustomRef{Name: "clk_g"}},
		{"PARAMETER:cpu:ADDR_WIDTH", ParameterRef{Instance: "cpu", Param: "ADDR_WIDTH"}},
		{"BOARD:led", BoardRef{Port: "led"}},
		{"BOARD:uart:tx", BoardRef{Port: "uart", Signal: "tx"}},
		{"MODULE:cpu:bus", ModuleRef{Instance: "cpu", Interface: "bus"}},
		{"MODULE:cpu:bus:addr", ModuleRef{Instance: "cpu", Interface: "bus", Signal: "addr"}},
		{"INTERNAL:CUSTOM:x", InternalRef{Inner: CustomRef{Name: "x"}}},
		{"SYSTEM:MEMORY_MAP.ram.ORIGIN", SystemRef{Path: []string{"MEMORY_MAP", "ram", "ORIGIN"}}},
		{"BUSCONTENTION:RD:MODULE:m:bus:addr", BusContentionRef{Handshake: "RD", Target: ModuleRef{Instance: "m", Interface: "bus", Signal: "addr"}}},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.in, got.String())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{
		"NOWHERE:x",
		"MODULE:cpu",
		"MODULE:cpu:bus:addr:extra",
		"PARAMETER:cpu",
		"INTERNAL:SYSTEM:x",
		"BUSCONTENTION:RD:BOARD:led",
		"BOARD:",
		"",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrSchema))
		})
	}
}

func TestIsNumeral(t *testing.T) {
	assert.True(t, IsNumeral("0"))
	assert.True(t, IsNumeral("123"))
	assert.False(t, IsNumeral(""))
	assert.False(t, IsNumeral("-1"))
	assert.False(t, IsNumeral("1'b0"))
	assert.False(t, IsNumeral("0x10"))
}

func TestResolve(t *testing.T) {
	r := demoResolver(t)
	testCases := []struct {
		ref  string
		want Signal
	}{
		{
			ref:  "7",
			want: Signal{Namespace: Numeral, Name: "7", Signal: "7", Direction: model.Source, InterfaceType: model.General},
		},
		{
			ref:  "CONSTANT:1'b1",
			want: Signal{Namespace: Constant, Name: "1'b1", Signal: "1'b1", Direction: model.Source, InterfaceType: model.General},
		},
		{
			ref:  "CUSTOM:clk_g",
			want: Signal{Namespace: Custom, Name: "custom_clk_g", Signal: "clk_g", Direction: model.Source, InterfaceType: model.General},
		},
		{
			ref:  "PARAMETER:ram:DEPTH",
			want: Signal{Namespace: Parameter, Name: "PARAMETER_RAM_DEPTH", Signal: "PARAMETER_RAM_DEPTH", Direction: model.Source, InterfaceType: model.General},
		},
		{
			ref:  "SYSTEM:MEMORY_MAP.gpio.ORIGIN",
			want: Signal{Namespace: System, Name: "16'h1000", Signal: "16'h1000", Direction: model.Source, InterfaceType: model.General},
		},
		{
			ref:  "SYSTEM:DESCRIPTION.NAME",
			want: Signal{Namespace: System, Name: "demo", Signal: "demo", Direction: model.Source, InterfaceType: model.General},
		},
		{
			ref: "BOARD:led",
			want: Signal{Namespace: Board, Name: "led", Signal: "led", Interface: "led", Direction: model.Sink,
				InterfaceType: model.General, Width: "4", IODirection: "output"},
		},
		{
			ref:  "BOARD:uart",
			want: Signal{Namespace: Board, Name: "uart", Interface: "uart", Direction: model.Sink, InterfaceType: "UART"},
		},
		{
			ref: "BOARD:uart:rx",
			want: Signal{Namespace: Board, Name: "uart_rx", Signal: "rx", Interface: "uart", Direction: model.Source,
				InterfaceType: "UART", Width: "1", IODirection: "input"},
		},
		{
			ref: "MODULE:cpu:clk",
			want: Signal{Namespace: Module, Name: "module_cpu_clk", Signal: "clk", Instance: "cpu", Interface: "clk",
				Direction: model.Sink, InterfaceType: model.Clock, Width: "1"},
		},
		{
			ref: "MODULE:gpio:leds",
			want: Signal{Namespace: Module, Name: "module_gpio_leds", Signal: "leds", Instance: "gpio", Interface: "leds",
				Direction: model.Source, InterfaceType: model.General, Width: "PARAMETER_GPIO_COUNT"},
		},
		{
			ref: "MODULE:cpu:bus",
			want: Signal{Namespace: Module, Name: "module_cpu_bus", Instance: "cpu", Interface: "bus",
				Direction: model.Source, InterfaceType: "MEMBUS"},
		},
		{
			ref: "MODULE:cpu:bus:addr",
			want: Signal{Namespace: Module, Name: "module_cpu_bus_addr", Signal: "addr", Instance: "cpu", Interface: "bus",
				Direction: model.Source, InterfaceType: "MEMBUS", Width: "PARAMETER_CPU_ADDR_WIDTH"},
		},
		{
			ref: "MODULE:gpio:bus:addr",
			want: Signal{Namespace: Module, Name: "module_gpio_bus_addr", Signal: "addr", Instance: "gpio", Interface: "bus",
				Direction: model.Sink, InterfaceType: "MEMBUS", Width: "16"},
		},
		{
			ref: "MODULE:ram:bus:req_ready",
			want: Signal{Namespace: Module, Name: "module_ram_bus_req_ready", Signal: "req_ready", Instance: "ram", Interface: "bus",
				Direction: model.Source, InterfaceType: "MEMBUS", Width: "1"},
		},
		{
			ref: "INTERNAL:MODULE:cpu:bus:rdata",
			want: Signal{Namespace: Internal, Name: "internal_module_cpu_bus_rdata", Signal: "rdata", Instance: "cpu", Interface: "bus",
				Direction: model.Sink, InterfaceType: "MEMBUS", Width: "32"},
		},
		{
			ref: "BUSCONTENTION:REQ:MODULE:ram:bus:addr",
			want: Signal{Namespace: BusContention, Name: "bus_contention_REQ_module_ram_bus_addr", Signal: "addr", Instance: "ram", Interface: "bus",
				Direction: model.Sink, InterfaceType: "MEMBUS", Width: "PARAMETER_RAM_ADDR_WIDTH"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.ref, func(t *testing.T) {
			got, err := r.Resolve(tc.ref)
			require.NoError(t, err)

			want := tc.want
			want.Ref = tc.ref
			if diff := cmp.Diff(&want, got); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tc.ref, diff)
			}
		})
	}
}

func TestResolve_WidthExpression(t *testing.T) {
	lib := testutil.Demo
	lib.Modules = `
fifo:
  PARAMETERS: [DEPTH]
  INTERFACES:
    level: {TYPE: GENERAL, DIRECTION: SOURCE, WIDTH: "DEPTH + 1"}
`
	lib.CommonDefaults = "MODULES: {fifo: {DEPTH: 8}}"
	cat := lib.Catalog(t)
	sys := testutil.System(t, "INSTANTIATIONS: {q: {MODULE: fifo}}")
	inst, _ := sys.Instances.Get("q")
	p, err := params.New(cat).Resolve(inst)
	require.NoError(t, err)

	s, err := NewResolver(cat, sys, map[string]*params.Resolved{"q": p}).Resolve("MODULE:q:level")

	require.NoError(t, err)
	assert.Equal(t, "(PARAMETER_Q_DEPTH + 1)", s.Width)
	decl, err := Declare(s)
	require.NoError(t, err)
	assert.Equal(t, "wire [(PARAMETER_Q_DEPTH + 1)-1:0] module_q_level;", decl)
}

func TestResolve_Errors(t *testing.T) {
	r := demoResolver(t)
	for _, ref := range []string{
		"MODULE:nobody:bus",
		"MODULE:cpu:nowhere",
		"MODULE:cpu:bus:nosuch",
		"MODULE:cpu:clk:edge",
		"BOARD:nowhere",
		"BOARD:uart:cts",
		"SYSTEM:MEMORY_MAP.rom.ORIGIN",
		"PARAMETER:nobody:X",
	} {
		t.Run(ref, func(t *testing.T) {
			_, err := r.Resolve(ref)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrSchema), "got %v", err)
		})
	}
}

func TestDirection(t *testing.T) {
	defs, err := model.DecodeDefinitions(testutil.Doc(t, `
PROTOCOLS:
  P:
    WIDTHS: {v: 1, r: 1, f: 8, rv: 1, rr: 1, rf: 8, req: 1, rsp: 1, io: 1}
    HANDSHAKES:
      NONE: {REQUEST: [req], RESPONSE: [rsp]}
      A: {DIRECTION: REQUEST, VALID: v, READY: r, FRAME: [f]}
      B: {DIRECTION: RESPONSE, VALID: rv, READY: rr, FRAME: [rf]}
  Q:
    WIDTHS: {x: 1}
    HANDSHAKES: {}
`))
	require.NoError(t, err)
	p := defs.Protocols["P"]

	testCases := []struct {
		sig   string
		iface model.Direction
		want  model.Direction
	}{
		// request handshake: initiator drives VALID and FRAME
		{"v", model.Source, model.Source},
		{"v", model.Sink, model.Sink},
		{"f", model.Source, model.Source},
		{"f", model.Sink, model.Sink},
		{"r", model.Source, model.Sink},
		{"r", model.Sink, model.Source},
		// response handshake: roles swap
		{"rv", model.Source, model.Sink},
		{"rv", model.Sink, model.Source},
		{"rf", model.Source, model.Sink},
		{"rr", model.Source, model.Source},
		{"rr", model.Sink, model.Sink},
		// passive signals
		{"req", model.Source, model.Source},
		{"req", model.Sink, model.Sink},
		{"rsp", model.Source, model.Sink},
		{"rsp", model.Sink, model.Source},
		{"io", model.Source, model.Bidir},
		{"io", model.Sink, model.Bidir},
	}
	for _, tc := range testCases {
		t.Run(tc.sig+"/"+string(tc.iface), func(t *testing.T) {
			got, err := Direction(p, tc.iface, tc.sig)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("unknown signal", func(t *testing.T) {
		_, err := Direction(p, model.Source, "nope")
		assert.True(t, errors.Is(err, model.ErrSchema))
	})
	t.Run("undetermined without passive list", func(t *testing.T) {
		_, err := Direction(defs.Protocols["Q"], model.Source, "x")
		assert.ErrorContains(t, err, "could not be determined")
	})
	t.Run("bidirectional interface", func(t *testing.T) {
		_, err := Direction(p, model.Bidir, "v")
		assert.True(t, errors.Is(err, model.ErrSchema))
	})
}

func TestDeclare(t *testing.T) {
	r := demoResolver(t)
	testCases := []struct {
		ref  string
		want string
	}{
		{"BOARD:clk", "input clk;"},
		{"BOARD:led", "output [3:0] led;"},
		{"BOARD:uart:tx", "output uart_tx;"},
		{"BOARD:uart:rx", "input uart_rx;"},
		{"MODULE:cpu:clk", "wire module_cpu_clk;"},
		{"MODULE:cpu:bus:wdata", "wire [31:0] module_cpu_bus_wdata;"},
		{"MODULE:cpu:bus:addr", "wire [PARAMETER_CPU_ADDR_WIDTH-1:0] module_cpu_bus_addr;"},
		{"BUSCONTENTION:RESP:MODULE:cpu:bus:rdata", "wire [31:0] bus_contention_RESP_module_cpu_bus_rdata;"},
	}
	for _, tc := range testCases {
		t.Run(tc.ref, func(t *testing.T) {
			s, err := r.Resolve(tc.ref)
			require.NoError(t, err)
			got, err := Declare(s)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, ref := range []string{"CUSTOM:x", "BOARD:uart", "MODULE:cpu:bus"} {
		t.Run("rejects "+ref, func(t *testing.T) {
			s, err := r.Resolve(ref)
			require.NoError(t, err)
			_, err = Declare(s)
			assert.True(t, errors.Is(err, model.ErrSchema))
		})
	}
}
