// Package noisefield generates fractal simplex height fields used as the
// starting terrain of a run.
package noisefield

import (
	"math"
	"strconv"

	opensimplex "github.com/ojrac/opensimplex-go"

	"terrasim/internal/core"
	"terrasim/internal/erosion"
)

// Params controls the octave sum.
type Params struct {
	// Frequency is the base frequency in cycles per grid width.
	Frequency   float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	// Falloff blends toward zero away from the centre. 0 disables it, 1
	// drives the corners to sea level.
	Falloff float64
}

// DefaultParams returns a continent-scale octave sum.
func DefaultParams() Params {
	return Params{
		Frequency:   3,
		Octaves:     6,
		Persistence: 0.5,
		Lacunarity:  2,
		Falloff:     0.6,
	}
}

// WithMap returns a copy of p with any recognised keys from cfg applied.
func (p Params) WithMap(cfg map[string]string) Params {
	if cfg == nil {
		return p
	}
	if v, ok := cfg["frequency"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			p.Frequency = parsed
		}
	}
	if v, ok := cfg["octaves"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 1 {
			p.Octaves = parsed
		}
	}
	if v, ok := cfg["persistence"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			p.Persistence = parsed
		}
	}
	if v, ok := cfg["lacunarity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			p.Lacunarity = parsed
		}
	}
	if v, ok := cfg["falloff"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			p.Falloff = parsed
		}
	}
	return p
}

// Parameters describes the noise tunables.
func (p Params) Parameters() core.ParameterGroup {
	return core.ParameterGroup{
		Name: "Noise",
		Params: []core.Parameter{
			core.FloatParam("frequency", "Frequency", float32(p.Frequency)),
			core.IntParam("octaves", "Octaves", p.Octaves),
			core.FloatParam("persistence", "Persistence", float32(p.Persistence)),
			core.FloatParam("lacunarity", "Lacunarity", float32(p.Lacunarity)),
			core.FloatParam("falloff", "Radial falloff", float32(p.Falloff)),
		},
		Summary: "Fractal simplex noise used as the input terrain.",
	}
}

// Generate builds a w×h field from seeded noise, stretched to [0, 1].
func Generate(w, h int, seed uint64, p Params) *core.HeightField {
	field := core.NewHeightField(w, h)
	cells := field.Cells()
	noise := opensimplex.NewNormalized(int64(seed))

	scale := 1 / float64(max(field.W, field.H))
	cx, cy := float64(field.W-1)/2, float64(field.H-1)/2
	maxR := math.Hypot(cx, cy)

	for y := 0; y < field.H; y++ {
		for x := 0; x < field.W; x++ {
			v := octaveNoise(noise, float64(x)*scale, float64(y)*scale, p)
			if p.Falloff > 0 && maxR > 0 {
				r := math.Hypot(float64(x)-cx, float64(y)-cy) / maxR
				v *= 1 - p.Falloff*r*r
			}
			cells[field.Index(x, y)] = float32(v)
		}
	}

	erosion.Stretch(cells, core.UnitRange)
	return field
}

// octaveNoise layers octaves of normalized noise and returns their weighted
// mean in [0, 1).
func octaveNoise(noise opensimplex.Noise, x, y float64, p Params) float64 {
	total, maxVal := 0.0, 0.0
	amplitude, frequency := 1.0, p.Frequency
	for i := 0; i < max(p.Octaves, 1); i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= p.Persistence
		frequency *= p.Lacunarity
	}
	return total / maxVal
}
