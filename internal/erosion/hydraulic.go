package erosion

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"terrasim/internal/core"
	prng "terrasim/pkg/core"
)

// HydraulicStats summarises a hydraulic erosion run.
type HydraulicStats struct {
	Droplets  int
	Steps     int
	Eroded    float64
	Deposited float64
}

// Hydraulic borrows the field for the duration of the run and erodes it in place.
func Hydraulic(field *core.HeightField, seed uint64, p Params) HydraulicStats {
	cells, release := field.Borrow()
	defer release()
	return ApplyHydraulic(cells, field.W, field.H, seed, p)
}

// ApplyHydraulic simulates p.DropletCount independent droplets over the
// row-major w×h buffer and finishes by stretching the result into
// core.UnitRange. Output is fully determined by the inputs and seed.
//
// A buffer whose length does not match w*h, or non-positive dimensions,
// leaves cells untouched.
func ApplyHydraulic(cells []float32, w, h int, seed uint64, p Params) HydraulicStats {
	var stats HydraulicStats
	if w <= 0 || h <= 0 || len(cells) != w*h {
		return stats
	}

	// Bilinear sampling needs at least a 2×2 neighbourhood.
	if w >= 2 && h >= 2 {
		rng := prng.NewRNG(seed)
		k := newErodeKernel(p.ErodeRadius)
		for d := 0; d < p.DropletCount; d++ {
			runDroplet(cells, w, h, rng, p, &k, &stats)
			stats.Droplets++
		}
	}

	Stretch(cells, core.UnitRange)
	return stats
}

func runDroplet(cells []float32, w, h int, rng *prng.RNG, p Params, k *erodeKernel, stats *HydraulicStats) {
	pos := mgl32.Vec2{rng.Float32n(float32(w - 1)), rng.Float32n(float32(h - 1))}
	var dir mgl32.Vec2
	speed := p.InitialSpeed
	water := p.InitialWater
	var sediment float32

	maxX := float32(w - 2)
	maxY := float32(h - 2)

	for step := 0; step < p.MaxSteps; step++ {
		h0, grad := sampleGradient(cells, w, h, pos)

		dir = dir.Mul(p.Inertia).Sub(grad.Mul(1 - p.Inertia))
		if l := dir.Len(); l != 0 {
			dir = dir.Mul(1 / l)
		}
		pos = pos.Add(dir)
		stats.Steps++

		if pos.X() < 1 || pos.Y() < 1 || pos.X() >= maxX || pos.Y() >= maxY {
			return
		}

		h1, _ := sampleGradient(cells, w, h, pos)
		dh := h1 - h0

		capacity := max(-dh, p.MinSlope) * speed * water * p.SedimentCapacityFactor
		if sediment > capacity {
			amount := (sediment - capacity) * p.DepositSpeed
			sediment -= amount
			deposit(cells, w, pos, amount)
			stats.Deposited += float64(amount)
		} else {
			amount := min((capacity-sediment)*p.ErodeSpeed, p.MaxErodePerStep)
			removed := k.apply(cells, w, h, pos, amount)
			sediment += removed
			stats.Eroded += float64(removed)
		}

		speed = float32(math.Sqrt(float64(max(0, speed*speed+dh*p.Gravity))))
		water *= 1 - p.EvaporateSpeed
		if water < p.MinWater {
			return
		}
	}
}

// sampleGradient returns the bilinearly interpolated height at pos and the
// gradient of the bilinear patch spanned by the four surrounding cells.
func sampleGradient(cells []float32, w, h int, pos mgl32.Vec2) (float32, mgl32.Vec2) {
	ix, iy, fx, fy := cellOf(pos, w, h)
	i := iy*w + ix
	h00 := cells[i]
	h10 := cells[i+1]
	h01 := cells[i+w]
	h11 := cells[i+w+1]

	grad := mgl32.Vec2{
		(h10-h00)*(1-fy) + (h11-h01)*fy,
		(h01-h00)*(1-fx) + (h11-h10)*fx,
	}
	height := h00*(1-fx)*(1-fy) + h10*fx*(1-fy) + h01*(1-fx)*fy + h11*fx*fy
	return height, grad
}

// cellOf returns the top-left cell of the 2×2 patch containing pos, clamped
// so the patch stays on the grid, and the fractional offsets within it.
func cellOf(pos mgl32.Vec2, w, h int) (ix, iy int, fx, fy float32) {
	ix = int(math.Floor(float64(pos.X())))
	iy = int(math.Floor(float64(pos.Y())))
	ix = max(0, min(w-2, ix))
	iy = max(0, min(h-2, iy))
	fx = pos.X() - float32(ix)
	fy = pos.Y() - float32(iy)
	return ix, iy, fx, fy
}

// deposit spreads amount over the four cells around pos with bilinear weights.
func deposit(cells []float32, w int, pos mgl32.Vec2, amount float32) {
	ix := int(pos.X())
	iy := int(pos.Y())
	fx := pos.X() - float32(ix)
	fy := pos.Y() - float32(iy)
	i := iy*w + ix
	cells[i] += amount * (1 - fx) * (1 - fy)
	cells[i+1] += amount * fx * (1 - fy)
	cells[i+w] += amount * (1 - fx) * fy
	cells[i+w+1] += amount * fx * fy
}

// erodeKernel holds the 3×3 falloff weights, row-major from (-1,-1).
type erodeKernel struct {
	weights [9]float32
}

func newErodeKernel(radius float32) erodeKernel {
	var k erodeKernel
	if radius <= 0 {
		k.weights[4] = 1
		return k
	}
	for oy := -1; oy <= 1; oy++ {
		for ox := -1; ox <= 1; ox++ {
			d := float32(math.Sqrt(float64(ox*ox + oy*oy)))
			k.weights[(oy+1)*3+(ox+1)] = max(0, 1-d/radius)
		}
	}
	return k
}

// apply removes amount from the 3×3 neighbourhood of the cell under pos,
// weighted by the kernel normalised over on-grid cells. Heights are clamped at
// zero; the returned value is the material actually removed.
func (k *erodeKernel) apply(cells []float32, w, h int, pos mgl32.Vec2, amount float32) float32 {
	cx := int(pos.X())
	cy := int(pos.Y())

	var wsum float32
	for oy := -1; oy <= 1; oy++ {
		for ox := -1; ox <= 1; ox++ {
			x, y := cx+ox, cy+oy
			if x < 0 || y < 0 || x >= w || y >= h {
				continue
			}
			wsum += k.weights[(oy+1)*3+(ox+1)]
		}
	}
	if wsum <= 0 {
		return 0
	}

	var removed float32
	for oy := -1; oy <= 1; oy++ {
		for ox := -1; ox <= 1; ox++ {
			x, y := cx+ox, cy+oy
			if x < 0 || y < 0 || x >= w || y >= h {
				continue
			}
			wgt := k.weights[(oy+1)*3+(ox+1)]
			if wgt == 0 {
				continue
			}
			i := y*w + x
			take := min(amount*wgt/wsum, cells[i])
			if take < 0 {
				take = 0
			}
			cells[i] -= take
			removed += take
		}
	}
	return removed
}
