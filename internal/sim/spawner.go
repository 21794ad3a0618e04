package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dropscene/internal/dynamo"
)

// ShouldSpawn reports whether a body is introduced at frame.
func ShouldSpawn(frame, interval int) bool {
	return frame%interval == 0
}

// Spawner introduces one body at rest every Interval frames. There is no cap
// on the number of bodies.
type Spawner struct {
	Interval int
	Origin   mgl64.Vec3
}

func NewSpawner(interval int, height, z float64) *Spawner {
	return &Spawner{Interval: interval, Origin: mgl64.Vec3{0, height, z}}
}

// Next returns the body to add at frame given the current active count, or
// nil when frame is not a spawn frame.
func (s *Spawner) Next(frame, active int) *dynamo.Body {
	if !ShouldSpawn(frame, s.Interval) {
		return nil
	}
	return dynamo.NewBody(active+1, s.Origin)
}
