package metrics

import (
	"context"
	"fmt"

	"github.com/san-kum/dropscene/internal/dynamo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/san-kum/dropscene"

// Snapshot is the last state pushed to the meter.
type Snapshot struct {
	Frame        int
	ActiveBodies int
	Bounces      int
}

// Exporter publishes per-frame run state through an OpenTelemetry meter so
// operators can watch the active set grow.
type Exporter struct {
	active  metric.Int64Gauge
	frames  metric.Int64Counter
	bounces metric.Int64Gauge
	attrs   metric.MeasurementOption
	last    Snapshot
}

func NewExporter(provider metric.MeterProvider, runID string) (*Exporter, error) {
	meter := provider.Meter(meterName)

	active, err := meter.Int64Gauge("dropscene.bodies.active",
		metric.WithDescription("bodies in the active set"),
		metric.WithUnit("{body}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create active bodies gauge: %w", err)
	}
	frames, err := meter.Int64Counter("dropscene.frames",
		metric.WithDescription("scene documents produced"),
		metric.WithUnit("{frame}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create frame counter: %w", err)
	}
	bounces, err := meter.Int64Gauge("dropscene.bounces",
		metric.WithDescription("ground contacts across all bodies"),
		metric.WithUnit("{bounce}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create bounce gauge: %w", err)
	}

	return &Exporter{
		active:  active,
		frames:  frames,
		bounces: bounces,
		attrs:   metric.WithAttributes(attribute.String("run", runID)),
	}, nil
}

func (e *Exporter) OnFrame(frame int, t float64, bodies []*dynamo.Body) {
	ctx := context.Background()

	n := 0
	for _, b := range bodies {
		n += b.Bounces
	}

	e.active.Record(ctx, int64(len(bodies)), e.attrs)
	e.bounces.Record(ctx, int64(n), e.attrs)
	e.frames.Add(ctx, 1, e.attrs)

	e.last = Snapshot{Frame: frame, ActiveBodies: len(bodies), Bounces: n}
}

func (e *Exporter) Last() Snapshot { return e.last }
