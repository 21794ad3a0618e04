package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"github.com/san-kum/dropscene/internal/experiment"
	"github.com/san-kum/dropscene/internal/sim"
	"github.com/san-kum/dropscene/internal/storage"
	"github.com/san-kum/dropscene/internal/tui"
	"github.com/spf13/cobra"
)

func runOptions(cat *storage.Catalog) experiment.Options {
	return experiment.Options{
		Preset:     preset,
		Catalog:    cat,
		Trajectory: trajectory,
		Metrics:    metricList,
		Logger:     log,
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cat, err := storage.OpenCatalog(dataDir)
	if err != nil {
		return err
	}
	defer cat.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var summary *experiment.Summary
	run := func(ctx context.Context, obs ...sim.Observer) error {
		opts := runOptions(cat)
		opts.Observers = obs
		exp := experiment.New(cfg, opts)
		if err := exp.Setup(); err != nil {
			return err
		}
		s, err := exp.Run(ctx)
		summary = s
		return err
	}

	if progress {
		err = tui.RunProgress(ctx, "dropscene generate", cfg.TotalFrames(), func(ctx context.Context, r *tui.Reporter) error {
			return run(ctx, r)
		})
	} else {
		err = run(ctx)
	}
	if err != nil {
		return err
	}

	printSummary(summary)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cat, err := storage.OpenCatalog(dataDir)
	if err != nil {
		return err
	}
	defer cat.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("generating %d seeds into %s...\n", runs, cfg.OutputDir)
	summaries, err := experiment.Sweep(ctx, cfg, runOptions(cat), runs, seedStart)
	if err != nil {
		return err
	}

	for _, s := range summaries {
		fmt.Println()
		printSummary(s)
	}
	return nil
}

func printSummary(s *experiment.Summary) {
	fmt.Printf("completed in %v\n", s.Elapsed)
	fmt.Printf("run id: %s\n", s.RunID)
	fmt.Printf("seed: %d\n", s.Seed)
	fmt.Printf("frames: %d -> %s\n", s.Result.Frames, s.OutputDir)
	fmt.Printf("bodies: %d\n", s.Result.Bodies)

	names := make([]string, 0, len(s.Result.Metrics))
	for name := range s.Result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, s.Result.Metrics[name])
	}
}
