package scene

import "github.com/go-gl/mathgl/mgl64"

// Document is one frame's scene description. Field names and nesting are
// the contract read by the renderer.
type Document struct {
	NBounces   int    `json:"nbounces"`
	RenderMode string `json:"rendermode"`
	Camera     Camera `json:"camera"`
	Scene      Scene  `json:"scene"`
}

type Camera struct {
	Type     string     `json:"type"`
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	Position mgl64.Vec3 `json:"position"`
	LookAt   mgl64.Vec3 `json:"lookAt"`
	UpVector mgl64.Vec3 `json:"upVector"`
	FOV      float64    `json:"fov"`
	Exposure float64    `json:"exposure"`
}

type Scene struct {
	BackgroundColor [3]float64 `json:"backgroundcolor"`
	LightSources    []Light    `json:"lightsources"`
	Shapes          []Shape    `json:"shapes"`
}

type Light struct {
	Type      string     `json:"type"`
	Position  mgl64.Vec3 `json:"position"`
	Intensity [3]float64 `json:"intensity"`
}

type Material struct {
	Ks               float64    `json:"ks"`
	Kd               float64    `json:"kd"`
	SpecularExponent float64    `json:"specularexponent"`
	DiffuseColor     [3]float64 `json:"diffusecolor"`
	SpecularColor    [3]float64 `json:"specularcolor"`
	IsReflective     bool       `json:"isreflective"`
	Reflectivity     float64    `json:"reflectivity"`
	IsRefractive     bool       `json:"isrefractive"`
	RefractiveIndex  float64    `json:"refractiveindex"`
}

// Shape is either a *Triangle or a *Sphere.
type Shape interface {
	ShapeType() string
}

type Triangle struct {
	Type     string     `json:"type"`
	V0       mgl64.Vec3 `json:"v0"`
	V1       mgl64.Vec3 `json:"v1"`
	V2       mgl64.Vec3 `json:"v2"`
	Material Material   `json:"material"`
}

func (t *Triangle) ShapeType() string { return t.Type }

type Sphere struct {
	Type     string     `json:"type"`
	Center   mgl64.Vec3 `json:"center"`
	Radius   float64    `json:"radius"`
	Material Material   `json:"material"`
}

func (s *Sphere) ShapeType() string { return s.Type }

// Spheres returns the dynamic shapes of the document in order.
func (d *Document) Spheres() []*Sphere {
	var out []*Sphere
	for _, s := range d.Scene.Shapes {
		if sp, ok := s.(*Sphere); ok {
			out = append(out, sp)
		}
	}
	return out
}
