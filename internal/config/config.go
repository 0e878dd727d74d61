// Package config resolves run settings from HCL pipeline files and
// flag-style overrides.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"terrasim/internal/core"
	"terrasim/internal/hydrology"
	"terrasim/internal/noisefield"
	"terrasim/internal/pipeline"
)

// ErrUnknownParameter reports an override or attribute no stage reads.
var ErrUnknownParameter = errors.New("unknown parameter")

// Config is a fully resolved run description.
type Config struct {
	Width  int
	Height int
	Seed   uint64
	// Noise shapes the generated input terrain.
	Noise noisefield.Params
	// Hydro is the base hydrology parameter set new routing stages start from.
	Hydro hydrology.Params
	Plan  pipeline.Plan
}

// Default returns a config running the default plan on a w×h field.
func Default(w, h int, seed uint64) Config {
	return Config{
		Width:  w,
		Height: h,
		Seed:   seed,
		Noise:  noisefield.DefaultParams(),
		Hydro:  hydrology.DefaultParams(),
		Plan:   pipeline.DefaultPlan(seed),
	}
}

// Size returns the grid dimensions.
func (c Config) Size() core.Size { return core.Size{W: c.Width, H: c.Height} }

// WithOverrides applies flag-style overrides. Keys "width", "height" and
// "seed" set the run dimensions and seed, "noise.<key>" tunes the input
// terrain and "<kind>.<key>" sets a parameter on every stage of that kind in
// the plan.
func (c Config) WithOverrides(overrides map[string]string) (Config, error) {
	perKind := make(map[pipeline.Kind]map[string]string)
	noise := make(map[string]string)

	for key, value := range overrides {
		switch key {
		case "width", "height":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return c, fmt.Errorf("invalid %s %q: must be a positive integer", key, value)
			}
			if key == "width" {
				c.Width = n
			} else {
				c.Height = n
			}
			continue
		case "seed":
			s, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return c, fmt.Errorf("invalid seed %q: %w", value, err)
			}
			c.Seed = s
			continue
		}

		kind, param, ok := strings.Cut(key, ".")
		if ok && kind == "noise" {
			noise[param] = value
			continue
		}
		if !ok || !pipeline.Known(pipeline.Kind(kind)) {
			return c, fmt.Errorf("%w: %q", ErrUnknownParameter, key)
		}
		k := pipeline.Kind(kind)
		if perKind[k] == nil {
			perKind[k] = make(map[string]string)
		}
		perKind[k][param] = value
	}

	if len(noise) > 0 {
		if err := checkKeys(c.Noise.Parameters(), noise); err != nil {
			return c, fmt.Errorf("noise: %w", err)
		}
		c.Noise = c.Noise.WithMap(noise)
	}
	if len(perKind) == 0 {
		return c, nil
	}

	stages := make([]pipeline.Stage, len(c.Plan.Stages))
	copy(stages, c.Plan.Stages)
	for kind, values := range perKind {
		matched := false
		for i, s := range stages {
			if s.Kind != kind {
				continue
			}
			if err := checkKeys(s.Parameters(), values); err != nil {
				return c, fmt.Errorf("stage %d (%s): %w", i, kind, err)
			}
			stages[i] = s.WithMap(values)
			matched = true
		}
		if !matched {
			return c, fmt.Errorf("override for %s: plan has no %s stage", kind, kind)
		}
	}
	c.Plan = pipeline.NewPlan(stages...)
	return c, nil
}

// Describe snapshots the run settings and every stage's parameters.
func (c Config) Describe() core.ParameterSnapshot {
	groups := []core.ParameterGroup{{
		Name: "Run",
		Params: []core.Parameter{
			core.IntParam("width", "Width", c.Width),
			core.IntParam("height", "Height", c.Height),
			core.Uint64Param("seed", "Seed", c.Seed),
		},
	}, c.Noise.Parameters()}
	for i, s := range c.Plan.Stages {
		g := s.Parameters()
		g.Name = pipeline.StageID(i, s.Kind)
		groups = append(groups, g)
	}
	return core.ParameterSnapshot{Groups: groups}
}

func checkKeys(group core.ParameterGroup, values map[string]string) error {
	for key := range values {
		if !group.Has(key) {
			return fmt.Errorf("%w: %q", ErrUnknownParameter, key)
		}
	}
	return nil
}
