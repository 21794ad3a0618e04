package viz

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dropscene/internal/scene"
)

const (
	groundColor = "#777777"
	cameraColor = "#ffffff"
)

// Preview draws doc onto a cols x rows Braille canvas: ground edges in
// grey, spheres filled with their diffuse colour and, outside the camera
// view, the camera as a cross.
func Preview(doc *scene.Document, view View, cols, rows int) string {
	c := NewCanvas(cols, rows)
	p := NewProjector(doc, view, c.PixelWidth(), c.PixelHeight())

	for _, s := range doc.Scene.Shapes {
		switch s := s.(type) {
		case *scene.Triangle:
			verts := [3][2]int{}
			visible := true
			for i, v := range []mgl64.Vec3{s.V0, s.V1, s.V2} {
				x, y, ok := p.Point(v)
				if !ok {
					visible = false
					break
				}
				verts[i] = [2]int{int(x + 0.5), int(y + 0.5)}
			}
			if !visible {
				continue
			}
			for i := range verts {
				a, b := verts[i], verts[(i+1)%3]
				c.DrawLine(a[0], a[1], b[0], b[1], groundColor)
			}
		case *scene.Sphere:
			x, y, ok := p.Point(s.Center)
			if !ok {
				continue
			}
			rx, ry := p.Radius(s.Center, s.Radius)
			c.FillEllipse(x, y, rx, ry, Hex(s.Material.DiffuseColor))
		}
	}

	if view != CameraView {
		x, y, _ := p.Point(doc.Camera.Position)
		cx, cy := int(x+0.5), int(y+0.5)
		c.DrawLine(cx-2, cy, cx+2, cy, cameraColor)
		c.DrawLine(cx, cy-2, cx, cy+2, cameraColor)
	}

	return c.String()
}
