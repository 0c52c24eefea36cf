package laplacian

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/socforge/internal/testutil"
)

func TestEvaluate(t *testing.T) {
	fx := testutil.Instance{
		Module: ModuleType,
		Common: "{CLOCK_FREQ_MHZ: 100, SPI_FREQ_MHZ: 8, UART_BAUD_RATE_BPS: 115200}",
	}
	env := fx.Env(t, testutil.Files{})

	require.NoError(t, Evaluate(context.Background(), env))
	// 50 -> 25 -> 13 -> 7
	assert.Equal(t, "3", testutil.ParamText(t, env.Params, "SPI_CLOCK_DIVISOR"))
	assert.Equal(t, "868", testutil.ParamText(t, env.Params, "UART_TX_CLKS_PER_BIT"))
	assert.Equal(t, []string{"SPI_CLOCK_DIVISOR", "UART_TX_CLKS_PER_BIT"}, env.Params.Names())
}
