package hydrology

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	prng "terrasim/pkg/core"
)

func uniform(w, h int, v float32) []float32 {
	cells := make([]float32, w*h)
	for i := range cells {
		cells[i] = v
	}
	return cells
}

// smoothNoise returns a blurred random field so routing sees broad slopes.
func smoothNoise(w, h int, seed uint64) []float32 {
	rng := prng.NewRNG(seed)
	raw := make([]float32, w*h)
	for i := range raw {
		raw[i] = rng.Float32n(1)
	}
	out := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float32
			var n float32
			for oy := -2; oy <= 2; oy++ {
				for ox := -2; ox <= 2; ox++ {
					nx, ny := x+ox, y+oy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					sum += raw[ny*w+nx]
					n++
				}
			}
			out[y*w+x] = sum / n
		}
	}
	return out
}

func TestComputeFlowUniformField(t *testing.T) {
	const w, h = 4, 4
	flow := ComputeFlow(uniform(w, h, 0.5), w, h, Params{SeaLevel: 0})
	require.NotNil(t, flow)

	for y := 0; y < h; y++ {
		for x := 0; x < w-1; x++ {
			assert.Equal(t, uint8(0), flow.Dir[y*w+x], "cell (%d,%d) should drain east", x, y)
		}
	}
	for y := 0; y < h-1; y++ {
		assert.Equal(t, uint8(5), flow.Dir[y*w+w-1], "last column row %d should drain south-west", y)
	}
	assert.Equal(t, Sink, flow.Dir[w*h-1])
	assert.Equal(t, []int{w*h - 1}, flow.Sinks())
	assert.Equal(t, float32(w*h), flow.Accum[w*h-1])
}

func TestComputeFlowRamp(t *testing.T) {
	const w = 10
	heights := make([]float32, w)
	for x := range heights {
		heights[x] = 1 - float32(x)/float32(w-1)
	}

	flow := ComputeFlow(heights, w, 1, Params{SeaLevel: 0})
	require.NotNil(t, flow)

	for x := 0; x < w-1; x++ {
		assert.Equal(t, uint8(0), flow.Dir[x], "x=%d", x)
		assert.Equal(t, x+1, flow.Downstream(x))
	}
	assert.Equal(t, Sink, flow.Dir[w-1])
	assert.Equal(t, -1, flow.Downstream(w-1))

	want := make([]float32, w)
	for x := range want {
		want[x] = float32(x + 1)
	}
	if diff := cmp.Diff(want, flow.Accum); diff != "" {
		t.Fatalf("accumulation mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeFlowPitBecomesSink(t *testing.T) {
	heights := []float32{
		1, 1, 1,
		1, 0.2, 1,
		1, 1, 1,
	}
	flow := ComputeFlow(heights, 3, 3, Params{SeaLevel: 0})
	require.NotNil(t, flow)

	assert.Equal(t, Sink, flow.Dir[4])
	for i := range heights {
		if i == 4 {
			continue
		}
		assert.Equal(t, 4, flow.Downstream(i), "cell %d", i)
	}
	assert.Equal(t, float32(9), flow.Accum[4])
}

func TestComputeFlowSeaCellsAreSinks(t *testing.T) {
	heights := []float32{0.8, 0.4, 0.1, 0.05}
	flow := ComputeFlow(heights, 4, 1, Params{SeaLevel: 0.1})
	require.NotNil(t, flow)

	assert.Equal(t, []uint8{0, 0, Sink, Sink}, flow.Dir)
	assert.Equal(t, []float32{1, 2, 3, 1}, flow.Accum)
}

func TestComputeFlowForestProperties(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3, 17} {
		const w, h = 40, 30
		heights := smoothNoise(w, h, seed)
		// Quantise so flats and exact ties appear.
		for i, v := range heights {
			heights[i] = float32(int(v*20)) / 20
		}
		flow := ComputeFlow(heights, w, h, Params{SeaLevel: 0.3})
		require.NotNil(t, flow)

		for i := range heights {
			require.GreaterOrEqual(t, flow.Accum[i], float32(1))

			j := flow.Downstream(i)
			if j < 0 {
				continue
			}
			assert.GreaterOrEqual(t, flow.Accum[j], flow.Accum[i], "seed %d edge %d->%d", seed, i, j)
			assert.LessOrEqual(t, heights[j], heights[i])

			cur, steps := i, 0
			for cur >= 0 && steps <= w*h {
				cur = flow.Downstream(cur)
				steps++
			}
			require.Less(t, cur, 0, "seed %d: walk from %d did not reach a sink", seed, i)
		}
	}
}

func TestComputeFlowDeterministic(t *testing.T) {
	heights := smoothNoise(32, 32, 9)
	a := ComputeFlow(heights, 32, 32, DefaultParams())
	b := ComputeFlow(heights, 32, 32, DefaultParams())
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("flow not deterministic (-a +b):\n%s", diff)
	}
}

func TestComputeFlowRejectsBadDimensions(t *testing.T) {
	assert.Nil(t, ComputeFlow([]float32{1, 2, 3}, 2, 2, DefaultParams()))
	assert.Nil(t, ComputeFlow(nil, 0, 0, DefaultParams()))
}

func TestMaxSlopeWeightsDiagonals(t *testing.T) {
	heights := []float32{
		1.414, 0, 0,
		0, 0, 0,
		0, 0, 0,
	}
	assert.InDelta(t, 1.0, maxSlope(heights, 3, 3, 4), 1e-3)

	heights[0] = 0
	heights[1] = 0.5
	assert.InDelta(t, 0.5, maxSlope(heights, 3, 3, 4), 1e-6)
}
