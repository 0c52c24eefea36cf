package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClocksPerBit(t *testing.T) {
	got, err := ClocksPerBit(100, 115200)
	require.NoError(t, err)
	assert.Equal(t, int64(868), got)

	got, err = ClocksPerBit(12.5, 9600)
	require.NoError(t, err)
	assert.Equal(t, int64(1302), got)

	_, err = ClocksPerBit(100, 0)
	assert.Error(t, err)
}

func TestCeilLog2(t *testing.T) {
	testCases := []struct {
		in   float64
		want int64
	}{
		{in: 1000, want: 10},
		{in: 1024, want: 10},
		{in: 1025, want: 11},
		{in: 1, want: 0},
		{in: 0.5, want: -1},
	}
	for _, tc := range testCases {
		got, err := CeilLog2(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "ceil(log2(%v))", tc.in)
	}
	_, err := CeilLog2(0)
	assert.Error(t, err)
}

func TestBitsFor(t *testing.T) {
	for n, want := range map[int64]int64{1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 8: 3, 9: 4} {
		got, err := BitsFor(n)
		require.NoError(t, err)
		assert.Equal(t, want, got, "BitsFor(%d)", n)
	}
	_, err := BitsFor(0)
	assert.Error(t, err)
}

func TestHalvingDivisor(t *testing.T) {
	testCases := []struct {
		name          string
		clock, target float64
		want          int64
	}{
		{name: "already slow enough", clock: 25, target: 25, want: 0},
		{name: "spi 100MHz to 10MHz", clock: 25, target: 10, want: 2},
		{name: "rounds up while halving", clock: 50, target: 7, want: 3},
		{name: "down to one", clock: 25, target: 1, want: 5},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := HalvingDivisor(tc.clock, tc.target)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := HalvingDivisor(25, 0)
	assert.Error(t, err)
}

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, int64(3), CeilDiv(17, 8))
	assert.Equal(t, int64(2), CeilDiv(16, 8))
}
