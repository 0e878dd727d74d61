package erosion

import (
	"strconv"

	"terrasim/internal/core"
)

// Params holds the droplet simulation tunables for hydraulic erosion.
type Params struct {
	DropletCount           int
	MaxSteps               int
	Inertia                float32
	SedimentCapacityFactor float32
	MinSlope               float32
	DepositSpeed           float32
	ErodeSpeed             float32
	EvaporateSpeed         float32
	Gravity                float32
	InitialWater           float32
	InitialSpeed           float32

	// ErodeRadius is the falloff distance of the 3×3 erosion kernel.
	ErodeRadius float32
	// MinWater terminates a droplet once its water drops below it.
	MinWater float32
	// MaxErodePerStep caps the material a droplet removes in one step.
	MaxErodePerStep float32
}

// ThermalParams holds the talus relaxation tunables.
type ThermalParams struct {
	Iterations  int
	TalusAngle  float32
	ErosionRate float32
	MinSlope    float32
	TimeStep    float32
}

// DefaultParams returns the standard hydraulic configuration.
func DefaultParams() Params {
	return Params{
		DropletCount:           70000,
		MaxSteps:               30,
		Inertia:                0.05,
		SedimentCapacityFactor: 4,
		MinSlope:               0.01,
		DepositSpeed:           0.3,
		ErodeSpeed:             0.3,
		EvaporateSpeed:         0.01,
		Gravity:                4,
		InitialWater:           1,
		InitialSpeed:           1,
		ErodeRadius:            2,
		MinWater:               0.01,
		MaxErodePerStep:        0.3,
	}
}

// DefaultThermalParams returns the standard thermal configuration.
func DefaultThermalParams() ThermalParams {
	return ThermalParams{
		Iterations:  20,
		TalusAngle:  0.01,
		ErosionRate: 0.5,
		MinSlope:    0,
		TimeStep:    1,
	}
}

// FromMap builds hydraulic params from flag-style key/value pairs.
func FromMap(cfg map[string]string) Params {
	return DefaultParams().WithMap(cfg)
}

// WithMap returns a copy of p with any recognised keys from cfg applied.
// Unparseable or out-of-range values are ignored.
func (p Params) WithMap(cfg map[string]string) Params {
	if cfg == nil {
		return p
	}
	setInt(cfg, "droplet_count", 0, &p.DropletCount)
	setInt(cfg, "max_steps", 0, &p.MaxSteps)
	if v, ok := parseFloat(cfg, "inertia"); ok && v >= 0 && v <= 1 {
		p.Inertia = v
	}
	setFloat(cfg, "sediment_capacity_factor", &p.SedimentCapacityFactor)
	setFloat(cfg, "min_slope", &p.MinSlope)
	setFloat(cfg, "deposit_speed", &p.DepositSpeed)
	setFloat(cfg, "erode_speed", &p.ErodeSpeed)
	if v, ok := parseFloat(cfg, "evaporate_speed"); ok && v >= 0 && v <= 1 {
		p.EvaporateSpeed = v
	}
	setFloat(cfg, "gravity", &p.Gravity)
	setFloat(cfg, "initial_water", &p.InitialWater)
	setFloat(cfg, "initial_speed", &p.InitialSpeed)
	if v, ok := parseFloat(cfg, "erode_radius"); ok && v > 0 {
		p.ErodeRadius = v
	}
	setFloat(cfg, "min_water", &p.MinWater)
	setFloat(cfg, "max_erode_per_step", &p.MaxErodePerStep)
	return p
}

// ThermalFromMap builds thermal params from flag-style key/value pairs.
func ThermalFromMap(cfg map[string]string) ThermalParams {
	return DefaultThermalParams().WithMap(cfg)
}

// WithMap returns a copy of p with any recognised keys from cfg applied.
func (p ThermalParams) WithMap(cfg map[string]string) ThermalParams {
	if cfg == nil {
		return p
	}
	setInt(cfg, "iterations", 0, &p.Iterations)
	setFloat(cfg, "talus_angle", &p.TalusAngle)
	setFloat(cfg, "erosion_rate", &p.ErosionRate)
	setFloat(cfg, "min_slope", &p.MinSlope)
	setFloat(cfg, "time_step", &p.TimeStep)
	return p
}

// Parameters describes the hydraulic tunables.
func (p Params) Parameters() core.ParameterGroup {
	return core.ParameterGroup{
		Name: "Hydraulic Erosion",
		Params: []core.Parameter{
			core.IntParam("droplet_count", "Droplet count", p.DropletCount),
			core.IntParam("max_steps", "Max steps per droplet", p.MaxSteps),
			core.FloatParam("inertia", "Inertia", p.Inertia),
			core.FloatParam("sediment_capacity_factor", "Sediment capacity factor", p.SedimentCapacityFactor),
			core.FloatParam("min_slope", "Min slope", p.MinSlope),
			core.FloatParam("deposit_speed", "Deposit speed", p.DepositSpeed),
			core.FloatParam("erode_speed", "Erode speed", p.ErodeSpeed),
			core.FloatParam("evaporate_speed", "Evaporate speed", p.EvaporateSpeed),
			core.FloatParam("gravity", "Gravity", p.Gravity),
			core.FloatParam("initial_water", "Initial water", p.InitialWater),
			core.FloatParam("initial_speed", "Initial speed", p.InitialSpeed),
			core.FloatParam("erode_radius", "Erode radius", p.ErodeRadius),
			core.FloatParam("min_water", "Min water", p.MinWater),
			core.FloatParam("max_erode_per_step", "Max erode per step", p.MaxErodePerStep),
		},
	}
}

// Parameters describes the thermal tunables.
func (p ThermalParams) Parameters() core.ParameterGroup {
	return core.ParameterGroup{
		Name: "Thermal Erosion",
		Params: []core.Parameter{
			core.IntParam("iterations", "Iterations", p.Iterations),
			core.FloatParam("talus_angle", "Talus angle", p.TalusAngle),
			core.FloatParam("erosion_rate", "Erosion rate", p.ErosionRate),
			core.FloatParam("min_slope", "Min slope", p.MinSlope),
			core.FloatParam("time_step", "Time step", p.TimeStep),
		},
	}
}

func parseFloat(cfg map[string]string, key string) (float32, bool) {
	v, ok := cfg[key]
	if !ok {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, false
	}
	return float32(parsed), true
}

func setFloat(cfg map[string]string, key string, dst *float32) {
	if v, ok := parseFloat(cfg, key); ok {
		*dst = v
	}
}

func setInt(cfg map[string]string, key string, floor int, dst *int) {
	v, ok := cfg[key]
	if !ok {
		return
	}
	if parsed, err := strconv.Atoi(v); err == nil && parsed >= floor {
		*dst = parsed
	}
}
