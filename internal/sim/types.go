package sim

import (
	"fmt"

	"github.com/san-kum/dropscene/internal/dynamo"
	"github.com/san-kum/dropscene/internal/integrators"
	"github.com/san-kum/dropscene/internal/scene"
)

// Sink is the output boundary. WriteFrame must finish, or fail, before the
// next frame is simulated.
type Sink interface {
	WriteFrame(frame int, doc *scene.Document) error
}

// Stepper advances every active body by one frame and returns the number of
// ground contacts.
type Stepper interface {
	AdvanceAll(bodies []*dynamo.Body, p integrators.Params) int
}

type Metric interface {
	Name() string
	Observe(frame int, t float64, bodies []*dynamo.Body)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(frame int, t float64, bodies []*dynamo.Body)
}

type Result struct {
	Frames   int
	Bodies   int
	Contacts int
	Metrics  map[string]float64
}

// FrameError reports the frame at which the output boundary failed.
type FrameError struct {
	Frame int
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %04d: %v", e.Frame, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
