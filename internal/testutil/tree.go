package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// DemoFiles are the library and system sources the demo system stages.
// Paths are relative to the tree root.
var DemoFiles = map[string]string{
	"fpga/common/hdl/cpu.v":                 "module cpu();\nendmodule\n",
	"fpga/common/hdl/ram.v":                 "module ram();\nendmodule\n",
	"fpga/common/hdl/gpio.v":                "module gpio();\nendmodule\n",
	"fpga/common/hdl/uart.v":                "module uart_axi();\nendmodule\n",
	"fpga/common/hdl/unused.v":              "module unused();\nendmodule\n",
	"fpga/boards/arty/src/hdl/clocking.v":   "module clocking();\nendmodule\n",
	"fpga/boards/arty/src/hdl/reset_sync.v": "module reset_sync();\nendmodule\n",
	"fpga/boards/arty/src/ip/clk_wiz_0.xci": "{}\n",
	"systems/demo/src/firmware.hex":         "00000013\n",
	"systems/demo/src/notes/ignored.txt":    "subdirectories are not staged\n",
}

// Tree is a library root written to disk.
type Tree struct {
	Root   string
	System string
	Board  string
}

// WriteTree writes lib as YAML documents in the conventional layout below a
// temporary root, plus system as systems/demo/system.yaml and every entry of
// files.
func WriteTree(t testing.TB, lib Library, system string, files map[string]string) *Tree {
	t.Helper()
	root := t.TempDir()

	docs := map[string]string{
		"fpga/common/config/modules.yaml":     lib.Modules,
		"fpga/common/config/definitions.yaml": lib.Definitions,
		"fpga/common/config/defaults.yaml":    lib.CommonDefaults,
		"fpga/boards/arty/config/board.yaml":  lib.Board,
		"systems/demo/system.yaml":            system,
	}
	if lib.BoardDefaults != "" {
		docs["fpga/boards/arty/config/defaults.yaml"] = lib.BoardDefaults
	}
	for name, content := range docs {
		WriteFile(t, root, name, content)
	}
	for name, content := range files {
		WriteFile(t, root, name, content)
	}

	return &Tree{
		Root:   root,
		System: filepath.Join(root, "systems", "demo", "system.yaml"),
		Board:  "arty",
	}
}

// WriteFile writes content to root/name, creating parent directories.
func WriteFile(t testing.TB, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ReadFile returns the content of root/name.
func ReadFile(t testing.TB, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}
