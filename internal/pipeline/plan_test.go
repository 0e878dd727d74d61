package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terrasim/internal/erosion"
	"terrasim/internal/hydrology"
)

func TestDefaultPlanGraph(t *testing.T) {
	plan := DefaultPlan(7)
	assert.Equal(t, []Kind{KindHydraulic, KindThermal, KindFill, KindFlow, KindRivers, KindLakes}, plan.Kinds())

	g, err := plan.Graph()
	require.NoError(t, err)

	deps, err := g.Dependencies(StageID(1, KindThermal))
	require.NoError(t, err)
	assert.Equal(t, []string{StageID(0, KindHydraulic)}, deps)

	deps, err = g.Dependencies(StageID(2, KindFill))
	require.NoError(t, err)
	assert.Equal(t, []string{StageID(1, KindThermal)}, deps)

	deps, err = g.Dependencies(StageID(3, KindFlow))
	require.NoError(t, err)
	assert.Equal(t, []string{StageID(2, KindFill)}, deps)

	dependents, err := g.Dependents(StageID(3, KindFlow))
	require.NoError(t, err)
	assert.Equal(t, []string{StageID(4, KindRivers), StageID(5, KindLakes)}, dependents)
}

func TestPlanFlowDependsOnFill(t *testing.T) {
	hp := hydrology.DefaultParams()
	plan := NewPlan(ThermalStage(erosion.DefaultThermalParams()), FillStage(hp), FlowStage(hp))

	g, err := plan.Graph()
	require.NoError(t, err)

	deps, err := g.Dependencies(StageID(2, KindFlow))
	require.NoError(t, err)
	assert.Equal(t, []string{StageID(1, KindFill)}, deps)
}

func TestPlanValidateOrdering(t *testing.T) {
	hp := hydrology.DefaultParams()
	tp := erosion.DefaultThermalParams()

	tests := []struct {
		name    string
		plan    Plan
		wantErr error
	}{
		{name: "empty", plan: NewPlan(), wantErr: ErrEmptyPlan},
		{name: "rivers without flow", plan: NewPlan(ThermalStage(tp), RiversStage(hp)), wantErr: ErrStageOrder},
		{name: "lakes before flow", plan: NewPlan(LakesStage(hp), FlowStage(hp)), wantErr: ErrStageOrder},
		{name: "erosion after flow", plan: NewPlan(FlowStage(hp), ThermalStage(tp)), wantErr: ErrStageOrder},
		{name: "erosion after fill", plan: NewPlan(FillStage(hp), HydraulicStage(1, erosion.DefaultParams())), wantErr: ErrStageOrder},
		{name: "fill after flow", plan: NewPlan(FlowStage(hp), FillStage(hp)), wantErr: ErrStageOrder},
		{name: "unknown kind", plan: NewPlan(Stage{Kind: "glaciers"}), wantErr: ErrUnknownStage},
		{name: "flow only", plan: NewPlan(FlowStage(hp))},
		{name: "routing on raw terrain", plan: NewPlan(FillStage(hp), FlowStage(hp), LakesStage(hp), RiversStage(hp))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.plan.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestNewStage(t *testing.T) {
	for _, kind := range Kinds() {
		s, err := NewStage(kind, 3)
		require.NoError(t, err, "kind %s", kind)
		assert.Equal(t, kind, s.Kind)
	}

	_, err := NewStage("glaciers", 0)
	assert.ErrorIs(t, err, ErrUnknownStage)
}

func TestKindsRegistered(t *testing.T) {
	assert.Equal(t,
		[]Kind{KindFill, KindFlow, KindHydraulic, KindLakes, KindRivers, KindThermal},
		Kinds())
}

func TestStageWithMap(t *testing.T) {
	s := HydraulicStage(1, erosion.DefaultParams()).WithMap(map[string]string{
		"seed":          "99",
		"droplet_count": "10",
	})
	assert.Equal(t, uint64(99), s.Seed)
	assert.Equal(t, 10, s.Hydraulic.DropletCount)

	th := ThermalStage(erosion.DefaultThermalParams()).WithMap(map[string]string{"iterations": "3"})
	assert.Equal(t, 3, th.Thermal.Iterations)

	fl := FlowStage(hydrology.DefaultParams()).WithMap(map[string]string{"sea_level": "0.4"})
	assert.Equal(t, float32(0.4), fl.Hydro.SeaLevel)
}

func TestStageParameters(t *testing.T) {
	g := HydraulicStage(5, erosion.DefaultParams()).Parameters()
	assert.Equal(t, "hydraulic", g.Name)
	require.NotEmpty(t, g.Params)
	assert.Equal(t, "seed", g.Params[0].Key)
	assert.Equal(t, "5", g.Params[0].Value)

	assert.True(t, LakesStage(hydrology.DefaultParams()).Parameters().Has("max_lake_slope"))
	assert.True(t, ThermalStage(erosion.DefaultThermalParams()).Parameters().Has("talus_angle"))
	assert.True(t, ThermalStage(erosion.DefaultThermalParams()).Mutates())
	assert.False(t, FlowStage(hydrology.DefaultParams()).Mutates())
}
