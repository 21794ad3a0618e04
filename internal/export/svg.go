package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dropscene/internal/dynamo"
	"github.com/san-kum/dropscene/internal/scene"
	"github.com/san-kum/dropscene/internal/storage"
	"github.com/san-kum/dropscene/internal/viz"
)

// FrameSVG draws a scene document as seen from view.
func FrameSVG(doc *scene.Document, view viz.View, width, height int) string {
	p := viz.NewProjector(doc, view, width, height)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, viz.Hex(doc.Scene.BackgroundColor))

	for _, s := range doc.Scene.Shapes {
		switch s := s.(type) {
		case *scene.Triangle:
			var pts []string
			for _, v := range []mgl64.Vec3{s.V0, s.V1, s.V2} {
				x, y, ok := p.Point(v)
				if !ok {
					pts = nil
					break
				}
				pts = append(pts, fmt.Sprintf("%.1f,%.1f", x, y))
			}
			if len(pts) == 3 {
				fmt.Fprintf(&sb, `<polygon points="%s" fill="%s" stroke="#444444" stroke-width="1"/>
`, strings.Join(pts, " "), viz.Hex(s.Material.DiffuseColor))
			}
		case *scene.Sphere:
			x, y, ok := p.Point(s.Center)
			if !ok {
				continue
			}
			rx, ry := p.Radius(s.Center, s.Radius)
			fmt.Fprintf(&sb, `<ellipse cx="%.1f" cy="%.1f" rx="%.2f" ry="%.2f" fill="%s"/>
`, x, y, math.Max(rx, 1), math.Max(ry, 1), viz.Hex(s.Material.DiffuseColor))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectorySVG plots the height of every body over frames, one polyline
// per body in its own colour. Frames where a body did not exist yet are
// skipped.
func TrajectorySVG(traj map[int][]storage.Sample, width, height int) string {
	minF, maxF := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, samples := range traj {
		for _, s := range samples {
			minF, maxF = math.Min(minF, float64(s.Frame)), math.Max(maxF, float64(s.Frame))
			minY, maxY = math.Min(minY, s.Position[1]), math.Max(maxY, s.Position[1])
		}
	}
	if math.IsInf(minF, 1) {
		return ""
	}

	rangeF := maxF - minF
	rangeY := maxY - minY
	if rangeF == 0 {
		rangeF = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for _, id := range storage.BodyIDs(traj) {
		samples := traj[id]
		if len(samples) == 0 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, viz.Hex(dynamo.ColorFor(id)))
		for i, s := range samples {
			x := (float64(s.Frame) - minF) / rangeF * float64(width)
			y := float64(height) - (s.Position[1]-minY)/rangeY*float64(height)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
