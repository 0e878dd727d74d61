package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"terrasim/internal/app"
	"terrasim/internal/cli"
	"terrasim/internal/config"
	"terrasim/internal/core"
	"terrasim/internal/ctxlog"
	"terrasim/internal/noisefield"
	"terrasim/internal/pipeline"
	"terrasim/internal/render"
)

// main is the entrypoint for the terrasim binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	flags, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := app.NewLogger(flags.LogLevel, flags.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)

	cfg, err := resolveConfig(ctx, flags)
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	if flags.Describe {
		printSnapshot(outW, cfg.Describe())
		return nil
	}

	logger.Info("Generating terrain.", "width", cfg.Width, "height", cfg.Height, "seed", cfg.Seed)
	field := noisefield.Generate(cfg.Width, cfg.Height, cfg.Seed, cfg.Noise)

	orch := pipeline.New()
	orch.OnStage = func(r pipeline.Report) {
		fmt.Fprintf(outW, "%-16s %10s\n", pipeline.StageID(r.Index, r.Kind), r.Duration.Round(time.Microsecond))
	}
	art, err := orch.Run(ctx, field, cfg.Plan)
	if err != nil {
		return err
	}

	printSummary(outW, art)

	if flags.OutputPath != "" {
		if err := writeMap(flags.OutputPath, art, seaLevel(cfg)); err != nil {
			return err
		}
		logger.Info("Map written.", "path", flags.OutputPath)
	}
	return nil
}

// seaLevel is the sea level of the last routing stage, or the base
// hydrology sea level when the plan has none.
func seaLevel(cfg config.Config) float32 {
	level := cfg.Hydro.SeaLevel
	for _, s := range cfg.Plan.Stages {
		if !s.Mutates() {
			level = s.Hydro.SeaLevel
		}
	}
	return level
}

func writeMap(path string, art *pipeline.Artifacts, sea float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create map %s: %w", path, err)
	}
	if err := png.Encode(f, render.Terrain(art, sea)); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode map %s: %w", path, err)
	}
	return f.Close()
}

// resolveConfig layers the pipeline file and -set overrides over the flag
// defaults.
func resolveConfig(ctx context.Context, flags *app.Config) (config.Config, error) {
	cfg := config.Default(flags.Width, flags.Height, flags.Seed)
	if flags.ConfigPath != "" {
		loaded, err := config.Load(ctx, flags.ConfigPath, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	return cfg.WithOverrides(flags.Overrides.Map())
}

func printSnapshot(w io.Writer, snap core.ParameterSnapshot) {
	for _, g := range snap.Groups {
		fmt.Fprintf(w, "[%s]\n", g.Name)
		for _, p := range g.Params {
			fmt.Fprintf(w, "  %-26s %-10s %s\n", p.Key, p.Value, p.Label)
		}
	}
}

func printSummary(w io.Writer, art *pipeline.Artifacts) {
	lo, hi := core.MinMax(art.Heights)
	fmt.Fprintf(w, "\nterrain  %dx%d  heights [%.3f, %.3f]\n", art.Size.W, art.Size.H, lo, hi)
	if art.Flow != nil {
		fmt.Fprintf(w, "flow     %d sinks\n", len(art.Flow.Sinks()))
	}
	if art.Raised != nil {
		raised := 0
		for _, r := range art.Raised {
			if r {
				raised++
			}
		}
		fmt.Fprintf(w, "fill     %d cells raised\n", raised)
	}
	fmt.Fprintf(w, "rivers   %d\n", len(art.Rivers))
	for i, r := range art.Rivers {
		if i == 5 {
			fmt.Fprintf(w, "  ... %d more\n", len(art.Rivers)-5)
			break
		}
		start := r.Cells[0]
		fmt.Fprintf(w, "  #%d from (%d,%d) len=%d discharge=%.1f end=%s\n", i, start.X, start.Y, len(r.Cells), r.Discharge, r.End)
	}
	fmt.Fprintf(w, "lakes    %d\n", len(art.Lakes))
	for i, l := range art.Lakes {
		if i == 5 {
			fmt.Fprintf(w, "  ... %d more\n", len(art.Lakes)-5)
			break
		}
		fmt.Fprintf(w, "  #%d cells=%d level=%.3f bounds=(%d,%d)-(%d,%d)\n", i, len(l.Cells), l.Level, l.Min.X, l.Min.Y, l.Max.X, l.Max.Y)
	}
}
