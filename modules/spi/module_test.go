package spi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/socforge/internal/testutil"
)

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name      string
		overrides string
		want      string
	}{
		{name: "10MHz from 100MHz", want: "2"},
		{name: "fast enough without dividing", overrides: "{SPI_FREQ_MHZ: 25}", want: "0"},
		{name: "slow target", overrides: "{SPI_FREQ_MHZ: 1}", want: "5"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fx := testutil.Instance{
				Module:    ModuleType,
				Common:    "{CLOCK_FREQ_MHZ: 100, SPI_FREQ_MHZ: 10}",
				Overrides: tc.overrides,
			}
			env := fx.Env(t, testutil.Files{})

			require.NoError(t, Evaluate(context.Background(), env))
			assert.Equal(t, tc.want, testutil.ParamText(t, env.Params, "CLOCK_DIVISOR"))
		})
	}
}

func TestEvaluate_UnreachableTarget(t *testing.T) {
	fx := testutil.Instance{Module: ModuleType, Common: "{CLOCK_FREQ_MHZ: 100, SPI_FREQ_MHZ: 0}"}
	assert.Error(t, Evaluate(context.Background(), fx.Env(t, testutil.Files{})))
}
