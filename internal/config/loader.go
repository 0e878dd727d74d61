package config

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"terrasim/internal/ctxlog"
	"terrasim/internal/hydrology"
	"terrasim/internal/pipeline"
)

// fileHeader holds the top-level run attributes. They are decoded without
// variables so that later blocks can reference them.
type fileHeader struct {
	Width  *int     `hcl:"width,optional"`
	Height *int     `hcl:"height,optional"`
	Seed   *uint64  `hcl:"seed,optional"`
	Remain hcl.Body `hcl:",remain"`
}

// fileBody holds the blocks of a pipeline file.
type fileBody struct {
	Noise     *paramsBlock  `hcl:"noise,block"`
	Hydrology *paramsBlock  `hcl:"hydrology,block"`
	Stages    []*stageBlock `hcl:"stage,block"`
}

type paramsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type stageBlock struct {
	Kind string   `hcl:"kind,label"`
	Body hcl.Body `hcl:",remain"`
}

// Load parses the pipeline file at path on top of base.
func Load(ctx context.Context, path string, base Config) (Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(ctx, src, path, base)
}

// Parse decodes an HCL pipeline description. Top-level width, height and seed
// replace the values in base and are visible to blocks as variables. A noise
// block tunes the generated input terrain and a hydrology block sets the base
// parameters every routing stage starts from.
// Stage blocks replace the plan of base in file order; without any, the
// default plan is rebuilt from the resolved seed and hydrology parameters.
func Parse(ctx context.Context, src []byte, filename string, base Config) (Config, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return base, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var header fileHeader
	if diags := gohcl.DecodeBody(file.Body, nil, &header); diags.HasErrors() {
		return base, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	cfg := base
	if header.Width != nil {
		cfg.Width = *header.Width
	}
	if header.Height != nil {
		cfg.Height = *header.Height
	}
	if header.Seed != nil {
		cfg.Seed = *header.Seed
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return base, fmt.Errorf("%s: width and height must be positive, got %dx%d", filename, cfg.Width, cfg.Height)
	}

	evalCtx := newEvalContext(cfg)

	var body fileBody
	if diags := gohcl.DecodeBody(header.Remain, evalCtx, &body); diags.HasErrors() {
		return base, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	if body.Noise != nil {
		values, err := attributeStrings(body.Noise.Body, evalCtx)
		if err != nil {
			return base, fmt.Errorf("%s: noise block: %w", filename, err)
		}
		if err := checkKeys(cfg.Noise.Parameters(), values); err != nil {
			return base, fmt.Errorf("%s: noise block: %w", filename, err)
		}
		cfg.Noise = cfg.Noise.WithMap(values)
	}

	if body.Hydrology != nil {
		values, err := attributeStrings(body.Hydrology.Body, evalCtx)
		if err != nil {
			return base, fmt.Errorf("%s: hydrology block: %w", filename, err)
		}
		if err := checkKeys(cfg.Hydro.Parameters(), values); err != nil {
			return base, fmt.Errorf("%s: hydrology block: %w", filename, err)
		}
		cfg.Hydro = cfg.Hydro.WithMap(values)
	}

	if len(body.Stages) == 0 {
		cfg.Plan = defaultPlan(cfg.Seed, cfg.Hydro)
		logger.Debug("Config loaded with default plan.", "file", filename, "width", cfg.Width, "height", cfg.Height)
		return cfg, nil
	}

	stages := make([]pipeline.Stage, 0, len(body.Stages))
	for i, block := range body.Stages {
		stage, err := pipeline.NewStage(pipeline.Kind(block.Kind), cfg.Seed)
		if err != nil {
			return base, fmt.Errorf("%s: stage %d: %w", filename, i, err)
		}
		if !stage.Mutates() {
			stage.Hydro = cfg.Hydro
		}

		values, err := attributeStrings(block.Body, evalCtx)
		if err != nil {
			return base, fmt.Errorf("%s: stage %d (%s): %w", filename, i, block.Kind, err)
		}
		if err := checkKeys(stage.Parameters(), values); err != nil {
			return base, fmt.Errorf("%s: stage %d (%s): %w", filename, i, block.Kind, err)
		}
		stages = append(stages, stage.WithMap(values))
	}
	cfg.Plan = pipeline.NewPlan(stages...)

	if err := cfg.Plan.Validate(); err != nil {
		return base, fmt.Errorf("%s: %w", filename, err)
	}

	logger.Debug("Config loaded.", "file", filename, "stages", len(stages), "width", cfg.Width, "height", cfg.Height)
	return cfg, nil
}

func defaultPlan(seed uint64, hp hydrology.Params) pipeline.Plan {
	plan := pipeline.DefaultPlan(seed)
	for i, s := range plan.Stages {
		if !s.Mutates() {
			plan.Stages[i].Hydro = hp
		}
	}
	return plan
}

// newEvalContext exposes the resolved run settings and a few numeric
// helpers to block expressions.
func newEvalContext(cfg Config) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"width":  cty.NumberIntVal(int64(cfg.Width)),
			"height": cty.NumberIntVal(int64(cfg.Height)),
			"seed":   cty.NumberUIntVal(cfg.Seed),
		},
		Functions: map[string]function.Function{
			"min":   stdlib.MinFunc,
			"max":   stdlib.MaxFunc,
			"floor": stdlib.FloorFunc,
			"ceil":  stdlib.CeilFunc,
		},
	}
}

// attributeStrings evaluates every attribute of a flat block body and
// renders the values as strings for the parameter WithMap helpers.
func attributeStrings(body hcl.Body, evalCtx *hcl.EvalContext) (map[string]string, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make(map[string]string, len(attrs))
	for _, name := range names {
		attr := attrs[name]
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		if val.IsNull() || !val.IsKnown() {
			return nil, fmt.Errorf("attribute %q has no value", name)
		}
		str, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = str.AsString()
	}
	return out, nil
}
