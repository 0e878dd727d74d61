package erosion

import "terrasim/internal/core"

// ThermalStats summarises a thermal erosion run.
type ThermalStats struct {
	Iterations int
	Moved      float64
}

// Moore neighbourhood in D8 order (E, NE, N, NW, W, SW, S, SE).
var (
	neighborDX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	neighborDY = [8]int{0, -1, -1, -1, 0, 1, 1, 1}
)

// Thermal borrows the field for the duration of the run and relaxes it in place.
func Thermal(field *core.HeightField, p ThermalParams) ThermalStats {
	cells, release := field.Borrow()
	defer release()
	return ApplyThermal(cells, field.W, field.H, p)
}

// ApplyThermal moves material from interior cells towards neighbours whose
// drop exceeds the talus angle. Every pass reads the heights as they were at
// the start of the pass and applies the accumulated deltas afterwards, so scan
// order has no influence on the result. Heights are clamped at zero after each
// pass and the buffer is fitted into core.UnitRange at the end.
func ApplyThermal(cells []float32, w, h int, p ThermalParams) ThermalStats {
	var stats ThermalStats
	if w <= 0 || h <= 0 || len(cells) != w*h {
		return stats
	}

	delta := make([]float32, len(cells))
	var excess [8]float32

	for it := 0; it < p.Iterations; it++ {
		clear(delta)

		for y := 1; y < h-1; y++ {
			for x := 1; x < w-1; x++ {
				i := y*w + x
				hc := cells[i]

				var total float32
				for k := 0; k < 8; k++ {
					n := (y+neighborDY[k])*w + x + neighborDX[k]
					e := (hc - cells[n]) - p.TalusAngle
					if e > p.MinSlope {
						excess[k] = e
						total += e
					} else {
						excess[k] = 0
					}
				}
				if total <= 0 {
					continue
				}

				amount := p.ErosionRate * p.TimeStep * total
				for k := 0; k < 8; k++ {
					if excess[k] == 0 {
						continue
					}
					share := amount * (excess[k] / total) * p.TalusAngle
					n := (y+neighborDY[k])*w + x + neighborDX[k]
					delta[i] -= share
					delta[n] += share
					stats.Moved += float64(share)
				}
			}
		}

		for i, d := range delta {
			v := cells[i] + d
			if v < 0 {
				v = 0
			}
			cells[i] = v
		}
		stats.Iterations++
	}

	Fit(cells, core.UnitRange)
	return stats
}
