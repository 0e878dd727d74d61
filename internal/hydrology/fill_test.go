package hydrology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillDepressionsRaisesPit(t *testing.T) {
	const w, h = 5, 5
	heights := uniform(w, h, 0.5)
	heights[12] = 0.1

	res := FillDepressions(heights, w, h, 0)
	require.NotNil(t, res)

	assert.Equal(t, float32(0.1), heights[12], "input must not change")
	assert.True(t, res.Raised[12])
	assert.Greater(t, res.Heights[12], float32(0.5))
	assert.False(t, res.Raised[0], "border cells are outlets")
	assert.Equal(t, 9, res.Count)
}

func TestFillDepressionsLeavesDrainedSurface(t *testing.T) {
	heights := []float32{
		0.9, 0.9, 0.9, 0.9,
		0.9, 0.7, 0.6, 0.1,
		0.9, 0.9, 0.9, 0.9,
	}
	res := FillDepressions(heights, 4, 3, 0)
	require.NotNil(t, res)
	assert.Zero(t, res.Count)
	assert.Equal(t, heights, res.Heights)
}

func TestFillDepressionsNoInteriorPits(t *testing.T) {
	const w, h = 48, 40
	const outlet = 0.3
	for _, seed := range []uint64{21, 22, 23} {
		heights := smoothNoise(w, h, seed)
		res := FillDepressions(heights, w, h, outlet)
		require.NotNil(t, res)

		for i, v := range res.Heights {
			require.GreaterOrEqual(t, v, heights[i])
		}

		flow := ComputeFlow(res.Heights, w, h, Params{SeaLevel: outlet})
		for _, s := range flow.Sinks() {
			x, y := s%w, s/w
			edge := x == 0 || y == 0 || x == w-1 || y == h-1
			assert.True(t, edge || res.Heights[s] <= outlet, "seed %d: interior pit at (%d,%d)", seed, x, y)
		}
	}
}

func TestFillDepressionsRejectsBadDimensions(t *testing.T) {
	assert.Nil(t, FillDepressions([]float32{1}, 2, 1, 0))
}
