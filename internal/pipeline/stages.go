package pipeline

import (
	"log/slog"

	"terrasim/internal/core"
	"terrasim/internal/erosion"
	"terrasim/internal/hydrology"
)

// runState is the working set threaded through the stages of one run.
type runState struct {
	field *core.HeightField

	fill *hydrology.FillResult

	flow        *hydrology.FlowField
	flowHeights []float32

	rivers []hydrology.River
	lakes  []hydrology.Lake
}

// surface returns the heights routing should follow: the filled surface when
// a fill stage ran, otherwise a copy of the terrain.
func (st *runState) surface() []float32 {
	if st.fill != nil {
		return st.fill.Heights
	}
	return st.field.Snapshot()
}

func init() {
	register(KindHydraulic, runHydraulic)
	register(KindThermal, runThermal)
	register(KindFill, runFill)
	register(KindFlow, runFlow)
	register(KindRivers, runRivers)
	register(KindLakes, runLakes)
}

func runHydraulic(st *runState, s Stage) []slog.Attr {
	stats := erosion.Hydraulic(st.field, s.Seed, s.Hydraulic)
	return []slog.Attr{
		slog.Uint64("seed", s.Seed),
		slog.Int("droplets", stats.Droplets),
		slog.Int("steps", stats.Steps),
		slog.Float64("eroded", stats.Eroded),
		slog.Float64("deposited", stats.Deposited),
	}
}

func runThermal(st *runState, s Stage) []slog.Attr {
	stats := erosion.Thermal(st.field, s.Thermal)
	return []slog.Attr{
		slog.Int("iterations", stats.Iterations),
		slog.Float64("moved", stats.Moved),
	}
}

func runFill(st *runState, s Stage) []slog.Attr {
	st.fill = hydrology.FillDepressions(st.field.Snapshot(), st.field.W, st.field.H, s.Hydro.SeaLevel)
	return []slog.Attr{slog.Int("raised", st.fill.Count)}
}

func runFlow(st *runState, s Stage) []slog.Attr {
	heights := st.surface()
	st.flow = hydrology.ComputeFlow(heights, st.field.W, st.field.H, s.Hydro)
	st.flowHeights = heights

	var peak float32
	for _, a := range st.flow.Accum {
		peak = max(peak, a)
	}
	return []slog.Attr{
		slog.Int("sinks", len(st.flow.Sinks())),
		slog.Float64("max_accum", float64(peak)),
	}
}

func runRivers(st *runState, s Stage) []slog.Attr {
	st.rivers = hydrology.ExtractRivers(st.flow, st.flowHeights, st.field.W, st.field.H, s.Hydro)
	longest := 0
	for _, r := range st.rivers {
		longest = max(longest, len(r.Cells))
	}
	return []slog.Attr{
		slog.Int("rivers", len(st.rivers)),
		slog.Int("longest", longest),
	}
}

func runLakes(st *runState, s Stage) []slog.Attr {
	st.lakes = hydrology.InferLakes(st.flow, st.flowHeights, st.field.W, st.field.H, s.Hydro)
	cells := 0
	for _, l := range st.lakes {
		cells += len(l.Cells)
	}
	return []slog.Attr{
		slog.Int("lakes", len(st.lakes)),
		slog.Int("lake_cells", cells),
	}
}
