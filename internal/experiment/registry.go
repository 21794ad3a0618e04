package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/dropscene/internal/config"
	"github.com/san-kum/dropscene/internal/metrics"
	"github.com/san-kum/dropscene/internal/sim"
)

type Registry struct {
	metrics map[string]func(*config.Config) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(*config.Config) sim.Metric),
	}

	r.metrics["active_bodies"] = func(*config.Config) sim.Metric { return metrics.NewActiveBodies() }
	r.metrics["bounces"] = func(*config.Config) sim.Metric { return metrics.NewBounces() }
	r.metrics["lowest_height"] = func(*config.Config) sim.Metric { return metrics.NewLowestHeight() }
	r.metrics["energy"] = func(c *config.Config) sim.Metric {
		return metrics.NewEnergy(c.Gravity, c.GroundLevel+c.Radius)
	}

	return r
}

func (r *Registry) GetMetric(name string, cfg *config.Config) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s (available: %v)", name, r.ListMetrics())
	}
	return fn(cfg), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
