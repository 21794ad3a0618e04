package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dropscene/internal/config"
	"github.com/san-kum/dropscene/internal/dynamo"
)

const (
	TypePinhole    = "pinhole"
	TypePointLight = "pointlight"
	TypeTriangle   = "triangle"
	TypeSphere     = "sphere"

	cameraHeight  = 1.0
	orbitCenterZ  = 3.0
	staticShapes  = 2
	materialKs    = 0.1
	materialKd    = 0.9
	specularPower = 20
)

var (
	lookAt          = mgl64.Vec3{0, -0.5, 3}
	upVector        = mgl64.Vec3{0, 1, 0}
	backgroundColor = [3]float64{0.25, 0.25, 0.25}
	light           = Light{
		Type:      TypePointLight,
		Position:  mgl64.Vec3{0, 1.2, 3},
		Intensity: [3]float64{0.8, 0.8, 0.8},
	}
	groundMaterial = Material{
		Ks:               materialKs,
		Kd:               materialKd,
		SpecularExponent: specularPower,
		DiffuseColor:     [3]float64{0.8, 0.8, 0.8},
		SpecularColor:    [3]float64{1, 1, 1},
		Reflectivity:     1.0,
		RefractiveIndex:  1.0,
	}
)

// Ground returns the two triangles forming the static ground quad.
func Ground() []*Triangle {
	return []*Triangle{
		{
			Type:     TypeTriangle,
			V0:       mgl64.Vec3{-3, -0.5, 6},
			V1:       mgl64.Vec3{3, -0.5, 6},
			V2:       mgl64.Vec3{3, -0.5, 0},
			Material: groundMaterial,
		},
		{
			Type:     TypeTriangle,
			V0:       mgl64.Vec3{-3, -0.5, 0},
			V1:       mgl64.Vec3{-3, -0.5, 6},
			V2:       mgl64.Vec3{3, -0.5, 0},
			Material: groundMaterial,
		},
	}
}

// CameraPosition places the camera on a circle of the given radius around
// z=3, completing one orbit over totalFrames.
func CameraPosition(frame, totalFrames int, radius float64) (mgl64.Vec3, error) {
	if totalFrames <= 0 {
		return mgl64.Vec3{}, fmt.Errorf("camera orbit over %d frames: %w", totalFrames, dynamo.ErrNoFrames)
	}
	angle := float64(frame) / float64(totalFrames) * 2 * math.Pi
	return mgl64.Vec3{
		radius * math.Cos(angle),
		cameraHeight,
		radius*math.Sin(angle) + orbitCenterZ,
	}, nil
}

// Assembler builds per-frame documents for one run.
type Assembler struct {
	render       config.RenderConfig
	totalFrames  int
	cameraRadius float64
	bodyRadius   float64
}

func NewAssembler(render config.RenderConfig, totalFrames int, cameraRadius, bodyRadius float64) (*Assembler, error) {
	if totalFrames <= 0 {
		return nil, fmt.Errorf("scene assembler: %w", dynamo.ErrNoFrames)
	}
	return &Assembler{
		render:       render,
		totalFrames:  totalFrames,
		cameraRadius: cameraRadius,
		bodyRadius:   bodyRadius,
	}, nil
}

// FromConfig builds an assembler for a validated config.
func FromConfig(cfg *config.Config) (*Assembler, error) {
	return NewAssembler(cfg.Render, cfg.TotalFrames(), cfg.CameraRadius, cfg.Radius)
}

// Assemble snapshots bodies into a new document. The document does not alias
// body state, so later integration steps leave it unchanged.
func (a *Assembler) Assemble(bodies []*dynamo.Body, frame int) *Document {
	// totalFrames is checked in NewAssembler
	pos, _ := CameraPosition(frame, a.totalFrames, a.cameraRadius)

	shapes := make([]Shape, 0, staticShapes+len(bodies))
	for _, t := range Ground() {
		shapes = append(shapes, t)
	}
	for _, b := range bodies {
		shapes = append(shapes, a.sphere(b))
	}

	return &Document{
		NBounces:   a.render.NBounces,
		RenderMode: a.render.RenderMode,
		Camera: Camera{
			Type:     TypePinhole,
			Width:    a.render.Width,
			Height:   a.render.Height,
			Position: pos,
			LookAt:   lookAt,
			UpVector: upVector,
			FOV:      a.render.FOV,
			Exposure: a.render.Exposure,
		},
		Scene: Scene{
			BackgroundColor: backgroundColor,
			LightSources:    []Light{light},
			Shapes:          shapes,
		},
	}
}

func (a *Assembler) sphere(b *dynamo.Body) *Sphere {
	return &Sphere{
		Type:   TypeSphere,
		Center: b.Position,
		Radius: a.bodyRadius,
		Material: Material{
			Ks:               materialKs,
			Kd:               materialKd,
			SpecularExponent: specularPower,
			DiffuseColor:     b.Color,
			Reflectivity:     1.0,
			RefractiveIndex:  1.0,
		},
	}
}
