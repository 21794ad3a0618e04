package experiment

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/san-kum/dropscene/internal/config"
	"github.com/san-kum/dropscene/internal/dynamo"
	"github.com/san-kum/dropscene/internal/storage"
)

func quickConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.GetPreset("quick")
	cfg.OutputDir = filepath.Join(t.TempDir(), "frames")
	cfg.Seed = 7
	return cfg
}

func TestExperiment_Run(t *testing.T) {
	cfg := quickConfig(t)
	dataDir := t.TempDir()

	cat, err := storage.OpenCatalog(dataDir)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer cat.Close()

	exp := New(cfg, Options{Preset: "quick", Catalog: cat, Trajectory: true, Logger: zerolog.Nop()})
	if err := exp.Setup(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	summary, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if summary.Result.Frames != 24 {
		t.Errorf("expected 24 frames, got %d", summary.Result.Frames)
	}
	if summary.Result.Bodies != 1 {
		t.Errorf("expected 1 body, got %d", summary.Result.Bodies)
	}
	if summary.Seed != 7 {
		t.Errorf("expected seed 7, got %d", summary.Seed)
	}

	for _, f := range []int{0, 12, 23} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, storage.FrameName(f))); err != nil {
			t.Errorf("frame %d missing: %v", f, err)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, storage.FrameName(24))); !os.IsNotExist(err) {
		t.Error("unexpected frame 24")
	}

	traj, err := storage.LoadTrajectory(filepath.Join(cfg.OutputDir, storage.TrajectoryFile))
	if err != nil {
		t.Fatalf("load trajectory: %v", err)
	}
	if len(traj[1]) != 24 {
		t.Errorf("expected 24 samples, got %d", len(traj[1]))
	}

	run, err := cat.Load(exp.RunID())
	if err != nil {
		t.Fatalf("catalog load: %v", err)
	}
	if run.Preset != "quick" || run.Frames != 24 || run.Seed != 7 {
		t.Errorf("unexpected catalog row %+v", run)
	}
	vals, err := run.MetricValues()
	if err != nil {
		t.Fatal(err)
	}
	if vals["active_bodies"] != 1 {
		t.Errorf("expected active_bodies 1, got %v", vals["active_bodies"])
	}
	if vals["bounces"] < 1 {
		t.Errorf("expected at least one bounce, got %v", vals["bounces"])
	}

	if last := exp.Exporter().Last(); last.Frame != 23 || last.ActiveBodies != 1 {
		t.Errorf("unexpected exporter snapshot %+v", last)
	}
}

func TestExperiment_InvalidConfigWritesNothing(t *testing.T) {
	cfg := quickConfig(t)
	cfg.Radius = 0

	exp := New(cfg, Options{Logger: zerolog.Nop()})
	err := exp.Setup()
	if !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Error("output directory created for invalid config")
	}
}

func TestExperiment_NonFiniteConfigWritesNothing(t *testing.T) {
	cfg := quickConfig(t)
	cfg.CameraRadius = math.Inf(1)
	cfg.GroundLevel = math.NaN()

	exp := New(cfg, Options{Logger: zerolog.Nop()})
	if err := exp.Setup(); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Error("output directory created for non-finite config")
	}
}

func TestExperiment_UnwritableOutput(t *testing.T) {
	cfg := quickConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.OutputDir = filepath.Join(blocker, "frames")

	err := New(cfg, Options{Logger: zerolog.Nop()}).Setup()
	if !errors.Is(err, dynamo.ErrOutput) {
		t.Errorf("expected ErrOutput, got %v", err)
	}
}

func TestExperiment_RunWithoutSetup(t *testing.T) {
	if _, err := New(quickConfig(t), Options{}).Run(context.Background()); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestExperiment_TimeSeed(t *testing.T) {
	cfg := quickConfig(t)
	cfg.Seed = 0

	if New(cfg, Options{}).Seed() == 0 {
		t.Error("expected a non-zero seed to be chosen")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	names := r.ListMetrics()
	if len(names) != 4 {
		t.Errorf("expected 4 metrics, got %v", names)
	}
	if _, err := r.GetMetric("energy", config.DefaultConfig()); err != nil {
		t.Errorf("energy metric: %v", err)
	}
	if _, err := r.GetMetric("nope", config.DefaultConfig()); err == nil {
		t.Error("expected error for unknown metric")
	}
}
