package metrics

import (
	"github.com/san-kum/dropscene/internal/dynamo"
)

// Energy averages the total specific mechanical energy of all bodies over
// the observed frames.
type Energy struct {
	name        string
	gravity     float64
	ground      float64
	samples     int
	totalEnergy float64
}

func NewEnergy(gravity, ground float64) *Energy {
	return &Energy{
		name:    "energy",
		gravity: gravity,
		ground:  ground,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(frame int, t float64, bodies []*dynamo.Body) {
	sum := 0.0
	for _, b := range bodies {
		sum += b.Energy(e.gravity, e.ground)
	}
	e.totalEnergy += sum
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}
