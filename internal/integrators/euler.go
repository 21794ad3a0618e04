package integrators

import (
	"math"

	"github.com/san-kum/dropscene/internal/dynamo"
)

// Params holds the fixed per-step simulation constants.
type Params struct {
	Dt              float64
	Gravity         float64
	GroundLevel     float64
	Radius          float64
	Restitution     float64
	HorizontalSpeed float64
}

// Euler advances bodies with semi-implicit Euler and resolves contact with a
// horizontal ground plane.
type Euler struct {
	rng dynamo.Rand
}

func NewEuler(rng dynamo.Rand) *Euler {
	return &Euler{rng: rng}
}

// Advance moves b forward by one step and reports whether it touched the
// ground. Gravity updates velocity before the position update.
func (e *Euler) Advance(b *dynamo.Body, p Params) bool {
	b.Velocity[1] -= p.Gravity * p.Dt
	b.Position = b.Position.Add(b.Velocity.Mul(p.Dt))

	floor := p.GroundLevel + p.Radius
	if b.Position[1] >= floor {
		return false
	}

	b.Position[1] = floor
	b.Velocity[1] = -b.Velocity[1] * p.Restitution
	b.Bounces++

	// Only a body with no horizontal motion yet gets a new heading, so the
	// direction picked on the first bounce is kept for the body's lifetime.
	if b.Velocity[0] == 0 {
		theta := e.rng.Float64() * 2 * math.Pi
		b.Velocity[0] = p.HorizontalSpeed * math.Cos(theta)
		b.Velocity[2] = p.HorizontalSpeed * math.Sin(theta)
	}
	return true
}

// AdvanceAll advances every body in order and returns the number of ground
// contacts.
func (e *Euler) AdvanceAll(bodies []*dynamo.Body, p Params) int {
	contacts := 0
	for _, b := range bodies {
		if e.Advance(b, p) {
			contacts++
		}
	}
	return contacts
}
