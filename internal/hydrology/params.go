package hydrology

import (
	"strconv"

	"terrasim/internal/core"
)

const (
	// MinRiverCells is the shortest walk kept as a river.
	MinRiverCells = 6
	// MinLakeCells is the smallest flood-filled component kept as a lake.
	MinLakeCells = 15

	lakeSeedAccumFactor  = 0.5
	lakeGrowAccumFactor  = 0.4
	lakeGrowSlopeRelaxed = 1.1
)

// Params holds the thresholds shared by flow routing, river extraction and
// lake detection.
type Params struct {
	SeaLevel      float32
	MinRiverAccum float32
	MaxLakeSlope  float32
	MaxRiverLen   int
}

// DefaultParams returns the standard hydrology configuration.
func DefaultParams() Params {
	return Params{
		SeaLevel:      0,
		MinRiverAccum: 150,
		MaxLakeSlope:  0.01,
		MaxRiverLen:   10000,
	}
}

// FromMap builds params from flag-style key/value pairs.
func FromMap(cfg map[string]string) Params {
	return DefaultParams().WithMap(cfg)
}

// WithMap returns a copy of p with any recognised keys from cfg applied.
// Unparseable values are ignored.
func (p Params) WithMap(cfg map[string]string) Params {
	if cfg == nil {
		return p
	}
	if v, ok := cfg["sea_level"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			p.SeaLevel = float32(parsed)
		}
	}
	if v, ok := cfg["min_river_accum"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed >= 0 {
			p.MinRiverAccum = float32(parsed)
		}
	}
	if v, ok := cfg["max_lake_slope"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed >= 0 {
			p.MaxLakeSlope = float32(parsed)
		}
	}
	if v, ok := cfg["max_river_len"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			p.MaxRiverLen = parsed
		}
	}
	return p
}

// Parameters describes the hydrology tunables.
func (p Params) Parameters() core.ParameterGroup {
	return core.ParameterGroup{
		Name: "Hydrology",
		Params: []core.Parameter{
			core.FloatParam("sea_level", "Sea level", p.SeaLevel),
			core.FloatParam("min_river_accum", "Min river accumulation", p.MinRiverAccum),
			core.FloatParam("max_lake_slope", "Max lake slope", p.MaxLakeSlope),
			core.IntParam("max_river_len", "Max river length", p.MaxRiverLen),
		},
	}
}
