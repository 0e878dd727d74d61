package erosion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terrasim/internal/core"
)

// pyramid builds a square field peaking at 1 in the centre and dropping by
// step per ring, floored at zero.
func pyramid(size int, step float32) []float32 {
	cells := make([]float32, size*size)
	c := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			ring := max(abs(x-c), abs(y-c))
			cells[y*size+x] = max(0, 1-step*float32(ring))
		}
	}
	return cells
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxLocalSlope(cells []float32, w, h int) float32 {
	var best float32
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hc := cells[y*w+x]
			for k := 0; k < 8; k++ {
				nx, ny := x+neighborDX[k], y+neighborDY[k]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				d := hc - cells[ny*w+nx]
				if d < 0 {
					d = -d
				}
				best = max(best, d)
			}
		}
	}
	return best
}

func TestApplyThermalPyramidRelaxes(t *testing.T) {
	p := ThermalParams{TalusAngle: 0.1, ErosionRate: 0.5, TimeStep: 1}

	for _, iters := range []int{1, 5} {
		cells := pyramid(5, 0.5)
		before := maxLocalSlope(cells, 5, 5)

		p.Iterations = iters
		stats := ApplyThermal(cells, 5, 5, p)

		assert.Equal(t, iters, stats.Iterations)
		assert.Positive(t, stats.Moved)
		assert.Less(t, maxLocalSlope(cells, 5, 5), before, "iterations=%d", iters)
		for i, v := range cells {
			require.GreaterOrEqual(t, v, float32(0), "cell %d negative after %d iterations", i, iters)
		}
	}
}

func TestApplyThermalFirstPassValues(t *testing.T) {
	cells := pyramid(5, 0.5)
	ApplyThermal(cells, 5, 5, ThermalParams{Iterations: 1, TalusAngle: 0.1, ErosionRate: 0.5, TimeStep: 1})

	// Each of the eight downhill neighbours exceeds talus by 0.4, so every
	// share is 0.5 * 0.4 * 0.1 = 0.02.
	assert.InDelta(t, 1-8*0.02, cells[12], 1e-6)
	assert.InDelta(t, 0.5-5*0.02+0.02, cells[6], 1e-6)
	assert.InDelta(t, 0.5-3*0.02+0.02, cells[7], 1e-6)
	assert.InDelta(t, 0.02, cells[0], 1e-6)
}

func TestApplyThermalIsScanOrderIndependent(t *testing.T) {
	cells := pyramid(7, 0.3)
	ApplyThermal(cells, 7, 7, ThermalParams{Iterations: 4, TalusAngle: 0.05, ErosionRate: 0.4, TimeStep: 1})

	for y := 0; y < 7; y++ {
		for x := 0; x < 7; x++ {
			assert.InDelta(t, cells[y*7+x], cells[y*7+(6-x)], 1e-6, "mirror x at (%d,%d)", x, y)
			assert.InDelta(t, cells[y*7+x], cells[(6-y)*7+x], 1e-6, "mirror y at (%d,%d)", x, y)
		}
	}
}

func TestApplyThermalFlatFieldUntouched(t *testing.T) {
	cells := make([]float32, 16)
	for i := range cells {
		cells[i] = 0.5
	}
	stats := ApplyThermal(cells, 4, 4, DefaultThermalParams())

	assert.Zero(t, stats.Moved)
	for _, v := range cells {
		assert.Equal(t, float32(0.5), v)
	}
}

func TestApplyThermalFitsOutOfRangeInput(t *testing.T) {
	cells := pyramid(5, 0.5)
	for i := range cells {
		cells[i] *= 4
	}
	ApplyThermal(cells, 5, 5, ThermalParams{Iterations: 2, TalusAngle: 0.1, ErosionRate: 0.5, TimeStep: 1})

	lo, hi := core.MinMax(cells)
	assert.GreaterOrEqual(t, lo, float32(0))
	assert.InDelta(t, 1, hi, 1e-6)
}

func TestThermalRejectsMismatchedBuffer(t *testing.T) {
	cells := []float32{1, 0, 1}
	stats := ApplyThermal(cells, 2, 2, DefaultThermalParams())
	assert.Equal(t, ThermalStats{}, stats)
	assert.Equal(t, []float32{1, 0, 1}, cells)
}

func TestThermalBorrowsField(t *testing.T) {
	field, err := core.WrapHeights(5, 5, pyramid(5, 0.5))
	require.NoError(t, err)

	stats := Thermal(field, ThermalParams{Iterations: 3, TalusAngle: 0.1, ErosionRate: 0.5, TimeStep: 1})
	assert.Equal(t, 3, stats.Iterations)

	cells, release := field.Borrow()
	release()
	release()
	assert.Less(t, cells[12], float32(1))
}
