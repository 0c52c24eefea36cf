package dag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/socforge/internal/model"
)

func TestDriverGraph(t *testing.T) {
	testCases := []struct {
		name    string
		build   func(d *DriverGraph)
		wantErr error
		wantMsg string
	}{
		{
			name: "fan out from one source",
			build: func(d *DriverGraph) {
				d.Drive("module_cpu_bus_addr", "port cpu.bus_addr")
				d.Assign("a", "clk")
				d.Assign("b", "clk")
				d.Assign("c", "a")
			},
		},
		{
			name: "two drivers",
			build: func(d *DriverGraph) {
				d.Drive("led", "port gpio.leds")
				d.Assign("led", "custom_x")
			},
			wantErr: model.ErrArity,
			wantMsg: "wire led has 2 drivers: port gpio.leds; assign from custom_x",
		},
		{
			name: "assignment loop",
			build: func(d *DriverGraph) {
				d.Assign("a", "b")
				d.Assign("b", "c")
				d.Assign("c", "a")
			},
			wantErr: model.ErrResolution,
			wantMsg: "assignment loop: b -> a -> c -> b",
		},
		{
			name: "loop reached from outside",
			build: func(d *DriverGraph) {
				d.Assign("x", "clk")
				d.Assign("y", "x")
				d.Assign("x", "y")
			},
			wantErr: model.ErrArity,
			wantMsg: "wire x has 2 drivers: assign from clk; assign from y",
		},
		{
			name: "two wire loop",
			build: func(d *DriverGraph) {
				d.Assign("p", "q")
				d.Assign("q", "p")
			},
			wantErr: model.ErrResolution,
			wantMsg: "assignment loop: q -> p -> q",
		},
		{
			name: "self assignment",
			build: func(d *DriverGraph) {
				d.Assign("w", "w")
			},
			wantErr: model.ErrResolution,
			wantMsg: "assignment loop: w -> w",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			d := NewDriverGraph()
			tc.build(d)

			// --- Act ---
			err := d.Check()

			// --- Assert ---
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
			assert.ErrorContains(t, err, tc.wantMsg)
		})
	}
}

func TestDriverGraph_Drivers(t *testing.T) {
	d := NewDriverGraph()
	d.Drive("w", "select REQ")
	d.Assign("v", "w")

	assert.Equal(t, []string{"select REQ"}, d.Drivers("w"))
	assert.Equal(t, []string{"assign from w"}, d.Drivers("v"))
	assert.Nil(t, d.Drivers("nope"))
}
