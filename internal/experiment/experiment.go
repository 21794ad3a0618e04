package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/dropscene/internal/config"
	"github.com/san-kum/dropscene/internal/integrators"
	"github.com/san-kum/dropscene/internal/metrics"
	"github.com/san-kum/dropscene/internal/sim"
	"github.com/san-kum/dropscene/internal/storage"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Options carries everything about a run that is not a simulation
// parameter.
type Options struct {
	Preset        string
	Catalog       *storage.Catalog
	Trajectory    bool
	Metrics       []string
	Logger        zerolog.Logger
	MeterProvider metric.MeterProvider

	// Observers are attached to every run. A sweep shares them between
	// concurrent runs, so they must be safe for concurrent use there.
	Observers []sim.Observer
}

type Summary struct {
	RunID     string
	Seed      int64
	OutputDir string
	Result    *sim.Result
	Elapsed   time.Duration
}

type Experiment struct {
	cfg        *config.Config
	opts       Options
	runID      string
	seed       int64
	randSource *rand.Rand
	driver     *sim.Driver
	frames     *storage.FrameWriter
	trajectory *storage.TrajectoryRecorder
	exporter   *metrics.Exporter
	log        zerolog.Logger
}

// New prepares a run. A zero seed is replaced by a time-based one so that
// the seed actually used can be recorded and replayed.
func New(cfg *config.Config, opts Options) *Experiment {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	runID := storage.NewRunID(seed)
	return &Experiment{
		cfg:        cfg,
		opts:       opts,
		runID:      runID,
		seed:       seed,
		randSource: rand.New(rand.NewSource(seed)),
		log:        opts.Logger.With().Str("run", runID).Logger(),
	}
}

func (e *Experiment) RunID() string { return e.runID }
func (e *Experiment) Seed() int64   { return e.seed }

// Setup validates the configuration, creates the output directory and wires
// the driver. Nothing is written when the configuration is invalid.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	e.frames = storage.NewFrameWriter(e.cfg.OutputDir)
	driver, err := sim.New(e.cfg, integrators.NewEuler(e.randSource), e.frames)
	if err != nil {
		return err
	}
	driver.SetLogger(e.log)

	registry := NewRegistry()
	names := e.opts.Metrics
	if len(names) == 0 {
		names = registry.ListMetrics()
	}
	for _, name := range names {
		m, err := registry.GetMetric(name, e.cfg)
		if err != nil {
			return err
		}
		driver.AddMetric(m)
	}

	provider := e.opts.MeterProvider
	if provider == nil {
		provider = noop.NewMeterProvider()
	}
	e.exporter, err = metrics.NewExporter(provider, e.runID)
	if err != nil {
		return err
	}
	driver.AddObserver(e.exporter)

	for _, obs := range e.opts.Observers {
		driver.AddObserver(obs)
	}

	if err := e.frames.Init(); err != nil {
		return err
	}

	if e.opts.Trajectory {
		e.trajectory, err = storage.NewTrajectoryRecorder(filepath.Join(e.cfg.OutputDir, storage.TrajectoryFile))
		if err != nil {
			return fmt.Errorf("failed to create trajectory file: %w", err)
		}
		driver.AddObserver(e.trajectory)
	}

	e.driver = driver
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*Summary, error) {
	if e.driver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	e.log.Info().
		Int64("seed", e.seed).
		Int("frames", e.cfg.TotalFrames()).
		Str("output", e.frames.Dir()).
		Msg("generating frames")

	start := time.Now()
	result, err := e.driver.Run(ctx)
	elapsed := time.Since(start)

	if e.trajectory != nil {
		if cerr := e.trajectory.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to write trajectory: %w", cerr)
		}
	}
	if err != nil {
		e.log.Error().Err(err).Int("frames_written", e.frames.Written()).Msg("generation aborted")
		return nil, err
	}

	summary := &Summary{
		RunID:     e.runID,
		Seed:      e.seed,
		OutputDir: e.cfg.OutputDir,
		Result:    result,
		Elapsed:   elapsed,
	}

	if e.opts.Catalog != nil {
		if err := e.record(summary); err != nil {
			return summary, fmt.Errorf("failed to record run: %w", err)
		}
	}

	e.log.Info().
		Int("frames", result.Frames).
		Int("bodies", result.Bodies).
		Int("contacts", result.Contacts).
		Dur("elapsed", elapsed).
		Msg("generation finished")

	return summary, nil
}

func (e *Experiment) record(s *Summary) error {
	cfg := *e.cfg
	cfg.Seed = e.seed
	return e.opts.Catalog.Record(&storage.Run{
		ID:        s.RunID,
		Preset:    e.opts.Preset,
		Seed:      s.Seed,
		FPS:       e.cfg.FPS,
		Duration:  e.cfg.Duration,
		Frames:    s.Result.Frames,
		Bodies:    s.Result.Bodies,
		OutputDir: s.OutputDir,
		Values:    s.Result.Metrics,
	}, cfg)
}

// Exporter exposes the metric exporter attached during Setup.
func (e *Experiment) Exporter() *metrics.Exporter { return e.exporter }
