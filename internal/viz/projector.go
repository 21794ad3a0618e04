package viz

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dropscene/internal/scene"
)

type View int

const (
	Side View = iota
	Top
	CameraView
)

func (v View) String() string {
	switch v {
	case Side:
		return "side"
	case Top:
		return "top"
	case CameraView:
		return "camera"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

func ParseView(s string) (View, error) {
	for _, v := range []View{Side, Top, CameraView} {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown view %q (available: side, top, camera)", s)
}

const (
	margin = 0.05
	near   = 0.1
	far    = 100.0
)

// Projector maps world points onto a width x height surface with y down.
type Projector struct {
	view          View
	width, height float64

	// orthographic views
	minU, maxU, minV, maxV float64

	// camera view
	mvp      mgl64.Mat4
	fx, fy   float64
	hasDepth bool
}

// NewProjector fits an orthographic view around the ground, the spheres and
// the camera, or sets up the document's perspective camera.
func NewProjector(doc *scene.Document, view View, width, height int) *Projector {
	p := &Projector{view: view, width: float64(width), height: float64(height)}

	if view == CameraView {
		cam := doc.Camera
		aspect := p.width / p.height
		if cam.Width > 0 && cam.Height > 0 {
			aspect = float64(cam.Width) / float64(cam.Height)
		}
		proj := mgl64.Perspective(mgl64.DegToRad(cam.FOV), aspect, near, far)
		p.mvp = proj.Mul4(mgl64.LookAtV(cam.Position, cam.LookAt, cam.UpVector))
		p.fx, p.fy = proj.At(0, 0), proj.At(1, 1)
		p.hasDepth = true
		return p
	}

	p.minU, p.minV = math.Inf(1), math.Inf(1)
	p.maxU, p.maxV = math.Inf(-1), math.Inf(-1)
	include := func(pt mgl64.Vec3, r float64) {
		u, v := p.axes(pt)
		p.minU, p.maxU = min(p.minU, u-r), max(p.maxU, u+r)
		p.minV, p.maxV = min(p.minV, v-r), max(p.maxV, v+r)
	}

	for _, s := range doc.Scene.Shapes {
		switch s := s.(type) {
		case *scene.Triangle:
			include(s.V0, 0)
			include(s.V1, 0)
			include(s.V2, 0)
		case *scene.Sphere:
			include(s.Center, s.Radius)
		}
	}
	include(doc.Camera.Position, 0)

	spanU := max(p.maxU-p.minU, 1e-9)
	spanV := max(p.maxV-p.minV, 1e-9)
	p.minU -= spanU * margin
	p.maxU += spanU * margin
	p.minV -= spanV * margin
	p.maxV += spanV * margin
	return p
}

func (p *Projector) axes(pt mgl64.Vec3) (float64, float64) {
	if p.view == Top {
		return pt.X(), pt.Z()
	}
	return pt.X(), pt.Y()
}

// Point projects pt. ok is false for points behind the camera.
func (p *Projector) Point(pt mgl64.Vec3) (x, y float64, ok bool) {
	if p.hasDepth {
		clip := p.mvp.Mul4x1(pt.Vec4(1))
		if clip.W() <= near {
			return 0, 0, false
		}
		ndc := clip.Vec3().Mul(1 / clip.W())
		return (ndc.X() + 1) / 2 * (p.width - 1), (1 - ndc.Y()) / 2 * (p.height - 1), true
	}

	u, v := p.axes(pt)
	x = (u - p.minU) / (p.maxU - p.minU) * (p.width - 1)
	y = (p.maxV - v) / (p.maxV - p.minV) * (p.height - 1)
	return x, y, true
}

// Radius returns the on-surface radii of a sphere of radius r centred at pt.
func (p *Projector) Radius(pt mgl64.Vec3, r float64) (rx, ry float64) {
	if p.hasDepth {
		w := p.mvp.Mul4x1(pt.Vec4(1)).W()
		if w <= near {
			return 0, 0
		}
		return r * p.fx / w * (p.width - 1) / 2, r * p.fy / w * (p.height - 1) / 2
	}
	return r / (p.maxU - p.minU) * (p.width - 1), r / (p.maxV - p.minV) * (p.height - 1)
}

// Hex formats a renderer colour as #rrggbb.
func Hex(c [3]float64) string {
	b := func(v float64) int { return int(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	return fmt.Sprintf("#%02x%02x%02x", b(c[0]), b(c[1]), b(c[2]))
}
