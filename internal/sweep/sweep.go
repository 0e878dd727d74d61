// Package sweep runs the same plan over many seeds concurrently and
// summarises the resulting drainage networks.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"terrasim/internal/config"
	"terrasim/internal/ctxlog"
	"terrasim/internal/noisefield"
	"terrasim/internal/pipeline"
	prng "terrasim/pkg/core"
)

// Result summarises one seeded run.
type Result struct {
	Seed         uint64
	Rivers       int
	LongestRiver int
	Discharge    float32
	Lakes        int
	LakeCells    int
	Sinks        int
	MeanHeight   float32
	Elapsed      time.Duration
}

func (r Result) String() string {
	return fmt.Sprintf("seed=%d rivers=%d longest=%d discharge=%.1f lakes=%d lakeCells=%d sinks=%d mean=%.3f",
		r.Seed, r.Rivers, r.LongestRiver, r.Discharge, r.Lakes, r.LakeCells, r.Sinks, r.MeanHeight)
}

// Seeds derives n run seeds from base.
func Seeds(base uint64, n int) []uint64 {
	rng := prng.NewRNG(base)
	out := make([]uint64, n)
	for i := range out {
		out[i] = rng.Uint64()
	}
	return out
}

// Run executes cfg once per seed with at most workers runs in flight. Each run
// generates its own field and overrides the seed of every hydraulic stage.
// Results are returned in seed order; the first failing run cancels the rest.
func Run(ctx context.Context, cfg config.Config, seeds []uint64, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := ctxlog.FromContext(ctx)
	logger.Info("Sweep started.", "runs", len(seeds), "workers", workers, "width", cfg.Width, "height", cfg.Height)

	results := make([]Result, len(seeds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, seed := range seeds {
		g.Go(func() error {
			res, err := runOne(gctx, cfg, seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = res
			logger.Debug("Sweep run complete.", "seed", seed, "elapsed", res.Elapsed)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Info("Sweep finished.", "runs", len(seeds))
	return results, nil
}

func runOne(ctx context.Context, cfg config.Config, seed uint64) (Result, error) {
	start := time.Now()
	field := noisefield.Generate(cfg.Width, cfg.Height, seed, cfg.Noise)

	stages := make([]pipeline.Stage, len(cfg.Plan.Stages))
	copy(stages, cfg.Plan.Stages)
	for i := range stages {
		if stages[i].Kind == pipeline.KindHydraulic {
			stages[i].Seed = seed
		}
	}

	// Stage logs from concurrent runs would interleave; keep them quiet.
	quiet := ctxlog.WithLogger(ctx, slog.New(slog.DiscardHandler))
	art, err := pipeline.New().Run(quiet, field, pipeline.NewPlan(stages...))
	if err != nil {
		return Result{}, err
	}

	res := Summarize(art)
	res.Seed = seed
	res.Elapsed = time.Since(start)
	return res, nil
}

// Summarize reduces run artifacts to sweep statistics.
func Summarize(art *pipeline.Artifacts) Result {
	var res Result
	res.Rivers = len(art.Rivers)
	for _, r := range art.Rivers {
		res.LongestRiver = max(res.LongestRiver, len(r.Cells))
		res.Discharge = max(res.Discharge, r.Discharge)
	}
	res.Lakes = len(art.Lakes)
	for _, l := range art.Lakes {
		res.LakeCells += len(l.Cells)
	}
	if art.Flow != nil {
		res.Sinks = len(art.Flow.Sinks())
	}
	res.MeanHeight = mean(art.Heights)
	return res
}

func mean(cells []float32) float32 {
	if len(cells) == 0 {
		return 0
	}
	var sum float64
	for _, v := range cells {
		sum += float64(v)
	}
	return float32(sum / float64(len(cells)))
}

// Best returns the result with the longest river, preferring more lakes on
// ties. ok is false for an empty slice.
func Best(results []Result) (best Result, ok bool) {
	for i, r := range results {
		if i == 0 || r.LongestRiver > best.LongestRiver ||
			(r.LongestRiver == best.LongestRiver && r.Lakes > best.Lakes) {
			best = r
		}
	}
	return best, len(results) > 0
}
