// Package dynamo provides the core primitives shared by the scene generator.
//
// The package defines the mutable physical state of a falling sphere and the
// small capabilities the rest of the pipeline depends on:
//
//   - [Body]: position, velocity and immutable colour of one sphere
//   - [Color]: RGB triple, assigned from [Palette] by body id
//   - [Rand]: injectable random source used for bounce trajectories
//
// # Example
//
//	b := dynamo.NewBody(1, mgl64.Vec3{0, 1, 3})
//	integ := integrators.NewEuler(rand.New(rand.NewSource(seed)))
//	integ.Advance(b, params)
//
// # Thread Safety
//
// Bodies are owned by a single driver and are NOT safe for concurrent
// mutation. Independent runs may execute in parallel as long as each owns its
// own bodies and random source.
package dynamo
