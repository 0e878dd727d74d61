package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"time"

	"terrasim/internal/app"
	"terrasim/internal/config"
	"terrasim/internal/ctxlog"
	"terrasim/internal/sweep"
)

func main() {
	runs := flag.Int("runs", 16, "number of seeds to simulate")
	workers := flag.Int("workers", runtime.NumCPU(), "number of concurrent runs")
	width := flag.Int("width", 128, "terrain width in cells")
	height := flag.Int("height", 128, "terrain height in cells")
	seed := flag.Uint64("seed", 1337, "base seed the run seeds are derived from")
	pipelinePath := flag.String("config", "", "optional HCL pipeline file")
	top := flag.Int("top", 5, "number of results to print")
	logLevel := flag.String("log-level", "info", "logging level: debug, info, warn or error")
	var overrides app.KVList
	flag.Var(&overrides, "set", "stage override in kind.key=value form (repeatable)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = ctxlog.WithLogger(ctx, app.NewLogger(*logLevel, "text", os.Stderr))

	cfg := config.Default(*width, *height, *seed)
	if *pipelinePath != "" {
		loaded, err := config.Load(ctx, *pipelinePath, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		cfg = loaded
	}
	cfg, err := cfg.WithOverrides(overrides.Map())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Sweeping %d seeds (%d workers, %dx%d, %d stages)\n", *runs, *workers, cfg.Width, cfg.Height, len(cfg.Plan.Stages))

	start := time.Now()
	results, err := sweep.Run(ctx, cfg, sweep.Seeds(cfg.Seed, *runs), *workers)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	best, _ := sweep.Best(results)

	ranked := make([]sweep.Result, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].LongestRiver > ranked[j].LongestRiver })

	fmt.Printf("\nTop %d results (elapsed %s):\n", min(*top, len(ranked)), elapsed.Round(time.Millisecond))
	for i := 0; i < len(ranked) && i < *top; i++ {
		res := ranked[i]
		fmt.Printf("%2d) %s took=%s\n", i+1, res, res.Elapsed.Round(time.Millisecond))
	}

	if len(results) > 0 {
		fmt.Printf("\nBest overall: %s\n", best)
	}
}
