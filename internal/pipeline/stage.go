package pipeline

import (
	"fmt"
	"strconv"

	"terrasim/internal/core"
	"terrasim/internal/erosion"
	"terrasim/internal/hydrology"
)

// Kind tags a stage descriptor.
type Kind string

const (
	KindHydraulic Kind = "hydraulic"
	KindThermal   Kind = "thermal"
	KindFill      Kind = "fill"
	KindFlow      Kind = "flow"
	KindRivers    Kind = "rivers"
	KindLakes     Kind = "lakes"
)

// Stage describes one step of a plan. Only the parameter set matching Kind is
// read; Seed applies to hydraulic stages.
type Stage struct {
	Kind      Kind
	Seed      uint64
	Hydraulic erosion.Params
	Thermal   erosion.ThermalParams
	Hydro     hydrology.Params
}

// HydraulicStage returns a droplet erosion stage.
func HydraulicStage(seed uint64, p erosion.Params) Stage {
	return Stage{Kind: KindHydraulic, Seed: seed, Hydraulic: p}
}

// ThermalStage returns a talus relaxation stage.
func ThermalStage(p erosion.ThermalParams) Stage {
	return Stage{Kind: KindThermal, Thermal: p}
}

// FillStage returns a depression filling stage. Its sea level is the outlet
// height of the flood.
func FillStage(p hydrology.Params) Stage {
	return Stage{Kind: KindFill, Hydro: p}
}

// FlowStage returns a D8 routing stage.
func FlowStage(p hydrology.Params) Stage {
	return Stage{Kind: KindFlow, Hydro: p}
}

// RiversStage returns a river extraction stage.
func RiversStage(p hydrology.Params) Stage {
	return Stage{Kind: KindRivers, Hydro: p}
}

// LakesStage returns a lake detection stage.
func LakesStage(p hydrology.Params) Stage {
	return Stage{Kind: KindLakes, Hydro: p}
}

// NewStage returns a stage of the given kind with default parameters.
func NewStage(kind Kind, seed uint64) (Stage, error) {
	switch kind {
	case KindHydraulic:
		return HydraulicStage(seed, erosion.DefaultParams()), nil
	case KindThermal:
		return ThermalStage(erosion.DefaultThermalParams()), nil
	case KindFill, KindFlow, KindRivers, KindLakes:
		return Stage{Kind: kind, Hydro: hydrology.DefaultParams()}, nil
	}
	return Stage{}, fmt.Errorf("%w: %q", ErrUnknownStage, kind)
}

// Mutates reports whether the stage rewrites the height field.
func (s Stage) Mutates() bool {
	return s.Kind == KindHydraulic || s.Kind == KindThermal
}

// Parameters describes the tunables read by the stage.
func (s Stage) Parameters() core.ParameterGroup {
	var g core.ParameterGroup
	switch s.Kind {
	case KindHydraulic:
		g = s.Hydraulic.Parameters()
		g.Params = append([]core.Parameter{core.Uint64Param("seed", "Seed", s.Seed)}, g.Params...)
	case KindThermal:
		g = s.Thermal.Parameters()
	default:
		g = s.Hydro.Parameters()
	}
	g.Name = string(s.Kind)
	return g
}

// WithMap returns a copy of the stage with flag-style overrides applied to
// the parameter set it reads.
func (s Stage) WithMap(cfg map[string]string) Stage {
	switch s.Kind {
	case KindHydraulic:
		if v, ok := cfg["seed"]; ok {
			if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
				s.Seed = parsed
			}
		}
		s.Hydraulic = s.Hydraulic.WithMap(cfg)
	case KindThermal:
		s.Thermal = s.Thermal.WithMap(cfg)
	default:
		s.Hydro = s.Hydro.WithMap(cfg)
	}
	return s
}

func (s Stage) String() string { return string(s.Kind) }
