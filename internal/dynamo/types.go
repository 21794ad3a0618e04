package dynamo

import "github.com/go-gl/mathgl/mgl64"

// Color is an RGB triple with channels in [0, 1].
type Color [3]float64

// Palette is the fixed set of body colours, cycled by body id.
var Palette = [5]Color{
	{0.5, 0.3, 0.9},
	{0.9, 0.3, 0.5},
	{0.5, 0.9, 0.3},
	{0.3, 0.9, 0.5},
	{0.3, 0.5, 0.9},
}

// ColorFor returns the palette colour for a 1-based body id.
func ColorFor(id int) Color {
	n := len(Palette)
	idx := (id - 1) % n
	if idx < 0 {
		idx += n
	}
	return Palette[idx]
}

// Body is the physical state of one sphere. Color never changes after
// NewBody.
type Body struct {
	ID       int
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Color    Color
	Bounces  int
}

// NewBody creates a body at rest at pos.
func NewBody(id int, pos mgl64.Vec3) *Body {
	return &Body{
		ID:       id,
		Position: pos,
		Color:    ColorFor(id),
	}
}


// HorizontalSpeed returns the magnitude of the velocity in the xz plane.
func (b *Body) HorizontalSpeed() float64 {
	return mgl64.Vec2{b.Velocity.X(), b.Velocity.Z()}.Len()
}

// Energy returns the specific mechanical energy (per unit mass) of the body
// relative to the given ground height.
func (b *Body) Energy(gravity, ground float64) float64 {
	ke := 0.5 * b.Velocity.Dot(b.Velocity)
	pe := gravity * (b.Position.Y() - ground)
	return ke + pe
}


// Rand is the random capability consumed by integrators. *rand.Rand from
// math/rand satisfies it.
type Rand interface {
	Float64() float64
}
