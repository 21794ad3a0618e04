package sim

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/san-kum/dropscene/internal/config"
	"github.com/san-kum/dropscene/internal/dynamo"
	"github.com/san-kum/dropscene/internal/integrators"
	"github.com/san-kum/dropscene/internal/scene"
)

// Driver runs the frame loop: spawn, integrate, assemble, emit. Frames are
// produced strictly in order since each depends on every earlier step.
type Driver struct {
	cfg       *config.Config
	params    integrators.Params
	stepper   Stepper
	spawner   *Spawner
	assembler *scene.Assembler
	sink      Sink
	metrics   []Metric
	observers []Observer
	bodies    []*dynamo.Body
	log       zerolog.Logger
}

// New validates cfg and returns a driver writing to sink. No frame is
// produced when the config is invalid.
func New(cfg *config.Config, stepper Stepper, sink Sink) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	asm, err := scene.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Driver{
		cfg: cfg,
		params: integrators.Params{
			Dt:              cfg.Dt(),
			Gravity:         cfg.Gravity,
			GroundLevel:     cfg.GroundLevel,
			Radius:          cfg.Radius,
			Restitution:     cfg.Restitution,
			HorizontalSpeed: cfg.HorizontalSpeed,
		},
		stepper:   stepper,
		spawner:   NewSpawner(cfg.SpawnInterval, cfg.InitialHeight, cfg.SpawnZ),
		assembler: asm,
		sink:      sink,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       zerolog.Nop(),
	}, nil
}

func (d *Driver) AddMetric(m Metric)         { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer)     { d.observers = append(d.observers, o) }
func (d *Driver) SetLogger(l zerolog.Logger) { d.log = l }

// Bodies returns the active set in spawn order.
func (d *Driver) Bodies() []*dynamo.Body { return d.bodies }

// Step processes a single frame and returns its document along with the
// number of ground contacts.
func (d *Driver) Step(frame int) (*scene.Document, int) {
	if b := d.spawner.Next(frame, len(d.bodies)); b != nil {
		d.bodies = append(d.bodies, b)
		d.log.Debug().Int("frame", frame).Int("body", b.ID).Msg("spawned body")
	}

	contacts := d.stepper.AdvanceAll(d.bodies, d.params)

	t := float64(frame) * d.params.Dt
	for _, m := range d.metrics {
		m.Observe(frame, t, d.bodies)
	}
	for _, obs := range d.observers {
		obs.OnFrame(frame, t, d.bodies)
	}

	return d.assembler.Assemble(d.bodies, frame), contacts
}

func (d *Driver) Run(ctx context.Context) (*Result, error) {
	total := d.cfg.TotalFrames()
	result := &Result{Metrics: make(map[string]float64)}

	for _, m := range d.metrics {
		m.Reset()
	}

	for frame := 0; frame < total; frame++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w at frame %d: %v", dynamo.ErrContextCanceled, frame, ctx.Err())
		default:
		}

		doc, contacts := d.Step(frame)
		result.Contacts += contacts
		result.Bodies = len(d.bodies)

		if err := d.sink.WriteFrame(frame, doc); err != nil {
			return result, &FrameError{Frame: frame, Err: err}
		}
		result.Frames++
	}

	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}
