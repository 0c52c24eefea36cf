package uart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/socforge/internal/registry"
	"github.com/vk/socforge/internal/testutil"
)

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name      string
		overrides string
		want      string
	}{
		{name: "defaults", want: "868"},
		{name: "baud override", overrides: "{UART_BAUD_RATE_BPS: 9600}", want: "10416"},
		{name: "clock override", overrides: "{CLOCK_FREQ_MHZ: 50}", want: "434"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fx := testutil.Instance{
				Module:    ModuleType,
				Declared:  []string{"CLKS_PER_BIT"},
				Common:    "{CLOCK_FREQ_MHZ: 100, UART_BAUD_RATE_BPS: 115200}",
				Overrides: tc.overrides,
			}
			env := fx.Env(t, testutil.Files{})

			require.NoError(t, Evaluate(context.Background(), env))
			assert.Equal(t, tc.want, testutil.ParamText(t, env.Params, "CLKS_PER_BIT"))
		})
	}
}

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	_, ok := r.Lookup(ModuleType)
	assert.True(t, ok)
}
