package metrics

import (
	"math"

	"github.com/san-kum/dropscene/internal/dynamo"
)

// ActiveBodies tracks the size of the active set. The set never shrinks, so
// the last observation is also the peak.
type ActiveBodies struct {
	count int
}

func NewActiveBodies() *ActiveBodies { return &ActiveBodies{} }

func (a *ActiveBodies) Name() string { return "active_bodies" }

func (a *ActiveBodies) Observe(frame int, t float64, bodies []*dynamo.Body) {
	a.count = len(bodies)
}

func (a *ActiveBodies) Value() float64 { return float64(a.count) }
func (a *ActiveBodies) Reset()         { a.count = 0 }

// Bounces is the total number of ground contacts across all bodies.
type Bounces struct {
	total int
}

func NewBounces() *Bounces { return &Bounces{} }

func (b *Bounces) Name() string { return "bounces" }

func (b *Bounces) Observe(frame int, t float64, bodies []*dynamo.Body) {
	n := 0
	for _, body := range bodies {
		n += body.Bounces
	}
	b.total = n
}

func (b *Bounces) Value() float64 { return float64(b.total) }
func (b *Bounces) Reset()         { b.total = 0 }

// LowestHeight records the smallest sphere centre height seen in the run.
type LowestHeight struct {
	min  float64
	seen bool
}

func NewLowestHeight() *LowestHeight { return &LowestHeight{min: math.Inf(1)} }

func (l *LowestHeight) Name() string { return "lowest_height" }

func (l *LowestHeight) Observe(frame int, t float64, bodies []*dynamo.Body) {
	for _, b := range bodies {
		if y := b.Position.Y(); y < l.min {
			l.min = y
			l.seen = true
		}
	}
}

func (l *LowestHeight) Value() float64 {
	if !l.seen {
		return 0
	}
	return l.min
}

func (l *LowestHeight) Reset() {
	l.min = math.Inf(1)
	l.seen = false
}
