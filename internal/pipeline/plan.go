package pipeline

import (
	"errors"
	"fmt"

	"terrasim/internal/erosion"
	"terrasim/internal/hydrology"
)

var (
	// ErrUnknownStage reports a stage kind with no registered runner.
	ErrUnknownStage = errors.New("unknown stage kind")
	// ErrStageOrder reports a plan whose stages cannot run in the given order.
	ErrStageOrder = errors.New("invalid stage order")
	// ErrEmptyPlan reports a plan without stages.
	ErrEmptyPlan = errors.New("plan has no stages")
)

// Plan is an ordered list of stage descriptors.
type Plan struct {
	Stages []Stage
}

// NewPlan returns a plan running the given stages in order.
func NewPlan(stages ...Stage) Plan {
	return Plan{Stages: stages}
}

// DefaultPlan erodes, fills depressions, routes flow and extracts rivers and
// lakes using the default parameters of every stage. Routing over the filled
// surface leaves no interior pits above sea level.
func DefaultPlan(seed uint64) Plan {
	hp := hydrology.DefaultParams()
	return NewPlan(
		HydraulicStage(seed, erosion.DefaultParams()),
		ThermalStage(erosion.DefaultThermalParams()),
		FillStage(hp),
		FlowStage(hp),
		RiversStage(hp),
		LakesStage(hp),
	)
}

// StageID names the i-th stage of a plan in its dependency graph.
func StageID(i int, kind Kind) string {
	return fmt.Sprintf("%03d:%s", i, kind)
}

// Graph builds the dependency graph of the plan. Erosion stages chain on the
// previous erosion stage, fill depends on the last erosion before it, flow
// depends on the last fill or erosion before it, and rivers and lakes depend
// on the last flow before them. Ordering violations are reported with
// ErrStageOrder.
func (p Plan) Graph() (*Graph, error) {
	if len(p.Stages) == 0 {
		return nil, ErrEmptyPlan
	}

	g := NewGraph()
	lastMutate, lastFill, lastFlow := -1, -1, -1

	for i, s := range p.Stages {
		if !Known(s.Kind) {
			return nil, fmt.Errorf("stage %d: %w: %q", i, ErrUnknownStage, s.Kind)
		}
		id := StageID(i, s.Kind)
		g.AddNode(id)

		var dep int
		switch s.Kind {
		case KindHydraulic, KindThermal:
			if lastFlow >= 0 || lastFill >= 0 {
				return nil, fmt.Errorf("%w: %s at stage %d runs after routing has started", ErrStageOrder, s.Kind, i)
			}
			dep = lastMutate
			lastMutate = i
		case KindFill:
			if lastFlow >= 0 {
				return nil, fmt.Errorf("%w: fill at stage %d follows flow at stage %d", ErrStageOrder, i, lastFlow)
			}
			dep = lastMutate
			lastFill = i
		case KindFlow:
			dep = lastMutate
			if lastFill >= 0 {
				dep = lastFill
			}
			lastFlow = i
		case KindRivers, KindLakes:
			if lastFlow < 0 {
				return nil, fmt.Errorf("%w: %s at stage %d needs an earlier flow stage", ErrStageOrder, s.Kind, i)
			}
			dep = lastFlow
		}

		if dep >= 0 {
			if err := g.AddEdge(StageID(dep, p.Stages[dep].Kind), id); err != nil {
				return nil, err
			}
		}
	}

	if err := g.DetectCycles(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStageOrder, err)
	}
	return g, nil
}

// Validate checks that every stage kind is known and the order is runnable.
func (p Plan) Validate() error {
	_, err := p.Graph()
	return err
}

// Kinds returns the stage kinds of the plan in order.
func (p Plan) Kinds() []Kind {
	out := make([]Kind, len(p.Stages))
	for i, s := range p.Stages {
		out[i] = s.Kind
	}
	return out
}
