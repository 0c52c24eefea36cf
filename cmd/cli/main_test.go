package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/socforge/internal/testutil"
	"github.com/vk/socforge/modules/uart"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Registering the same evaluator twice panics inside app.NewApp().
	args := []string{"boards", "--root", t.TempDir()}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, args, &uart.Module{}, &uart.Module{})

	// --- Assert ---
	require.Error(t, runErr, "run() should have returned an error after recovering from a panic")

	errStr := runErr.Error()
	require.True(t, strings.Contains(errStr, "application startup panicked"), "The error message should indicate that a panic was recovered.")
	require.True(t, strings.Contains(errStr, "already registered"), "The error message should contain the underlying reason for the panic.")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"build", "--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_BuildFromTOML(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The YAML fixture library with the system rewritten as TOML, so both
	// loaders behind the multi-loader take part.
	tree := testutil.WriteTree(t, testutil.Demo, testutil.DemoSystem, testutil.DemoFiles)
	system := testutil.WriteFile(t, t.TempDir(), "blinky/system.toml", `
[DESCRIPTION]
NAME = "blinky"

[REQUIREMENTS]
BOARDS = ["arty"]

[EXTERNAL_IO]
PORTS = ["clk", "led"]

[INSTANTIATIONS.gpio]
MODULE = "gpio"
PARAMETERS = { COUNT = 4 }

[INTERCONNECT]
STATIC = [
  ["BOARD:clk", "MODULE:gpio:clk"],
  ["MODULE:gpio:leds", "BOARD:led"],
]
OVERRIDES = [
  ["MODULE:gpio:bus:addr", "0"],
]
`)
	out := filepath.Join(t.TempDir(), "build")
	stdout := &bytes.Buffer{}

	// --- Act ---
	err := run(stdout, []string{
		"build", "--root", tree.Root, "--system", system, "--board", "arty",
		"--out", out, "--log-format", "json", "--log-level", "error",
	})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "Built blinky for board arty")
	top := testutil.ReadFile(t, out, "top.v")
	require.Contains(t, top, "assign led = module_gpio_leds;")
	require.Contains(t, top, ".bus_addr(0),")
	require.Equal(t, "set PROJECT blinky\ncreate_ip -name clk_wiz -vendor xilinx.com -library ip -module_name clk_wiz_0\n"+
		"create_ip -name proc_sys_reset -vendor xilinx.com -library ip -module_name rst_0\n",
		testutil.ReadFile(t, out, "ip.tcl"))
}
