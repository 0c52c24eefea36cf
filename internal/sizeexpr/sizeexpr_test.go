package sizeexpr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/socforge/internal/model"
)

func lookup(vars map[string]int64) Lookup {
	return func(name string) (int64, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestEval(t *testing.T) {
	vars := lookup(map[string]int64{"MACRO_CONFIG_WORDS_NEEDED": 3, "NUM_MACROS": 16, "BANKS": 8})

	testCases := []struct {
		expr string
		want int64
	}{
		{expr: "16", want: 16},
		{expr: "0x20", want: 32},
		{expr: "NUM_MACROS * MACRO_CONFIG_WORDS_NEEDED", want: 48},
		{expr: "2 + 3 * 4", want: 14},
		{expr: "(2 + 3) * 4", want: 20},
		{expr: "10 - 4 - 3", want: 3},
		{expr: "7 / 2", want: 3},
		{expr: "-BANKS + 10", want: 2},
		{expr: "BANKS*BANKS/2", want: 32},
	}
	for _, tc := range testCases {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := Eval(tc.expr, vars)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	vars := lookup(nil)

	_, err := Eval("UNKNOWN * 2", vars)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrResolution))
	assert.Contains(t, err.Error(), "UNKNOWN")

	for _, expr := range []string{"", "1 +", "(1", "1 2", "4 / 0", "2 ** 3", "3 % 2", "0xZZ"} {
		_, err := Eval(expr, vars)
		require.Error(t, err, "expression %q", expr)
		assert.True(t, errors.Is(err, model.ErrResolution), "expression %q: %v", expr, err)
	}

	_, err = Eval("BANKS / (2 - 2)", lookup(map[string]int64{"BANKS": 8}))
	assert.EqualError(t, err, `resolution error: size expression "BANKS / (2 - 2)": division by zero`)
}
