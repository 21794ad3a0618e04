package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/dropscene/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS             = 24
	DefaultDuration        = 10.0
	DefaultInitialHeight   = 1.0
	DefaultSpawnZ          = 3.0
	DefaultGravity         = 9.81
	DefaultRadius          = 0.05
	DefaultGroundLevel     = -0.5
	DefaultRestitution     = 0.8
	DefaultHorizontalSpeed = 0.35
	DefaultSpawnInterval   = 48
	DefaultCameraRadius    = 5.0
	DefaultOutputDir       = "data/animation_frames"

	DefaultWidth      = 1200
	DefaultHeight     = 800
	DefaultNBounces   = 8
	DefaultRenderMode = "phong"
	DefaultFOV        = 30.0
	DefaultExposure   = 0.1
)

type Config struct {
	FPS             int          `yaml:"fps"`
	Duration        float64      `yaml:"duration"`
	InitialHeight   float64      `yaml:"initial_height"`
	SpawnZ          float64      `yaml:"spawn_z"`
	Gravity         float64      `yaml:"gravity"`
	Radius          float64      `yaml:"radius"`
	GroundLevel     float64      `yaml:"ground_level"`
	Restitution     float64      `yaml:"restitution"`
	HorizontalSpeed float64      `yaml:"horizontal_speed"`
	SpawnInterval   int          `yaml:"spawn_interval"`
	CameraRadius    float64      `yaml:"camera_radius"`
	OutputDir       string       `yaml:"output_dir"`
	Seed            int64        `yaml:"seed"`
	Render          RenderConfig `yaml:"render"`
}

// RenderConfig holds the settings copied verbatim into every scene document
// for the downstream renderer.
type RenderConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	NBounces   int     `yaml:"nbounces"`
	RenderMode string  `yaml:"rendermode"`
	FOV        float64 `yaml:"fov"`
	Exposure   float64 `yaml:"exposure"`
}

func DefaultRender() RenderConfig {
	return RenderConfig{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		NBounces:   DefaultNBounces,
		RenderMode: DefaultRenderMode,
		FOV:        DefaultFOV,
		Exposure:   DefaultExposure,
	}
}

func DefaultConfig() *Config {
	return &Config{
		FPS:             DefaultFPS,
		Duration:        DefaultDuration,
		InitialHeight:   DefaultInitialHeight,
		SpawnZ:          DefaultSpawnZ,
		Gravity:         DefaultGravity,
		Radius:          DefaultRadius,
		GroundLevel:     DefaultGroundLevel,
		Restitution:     DefaultRestitution,
		HorizontalSpeed: DefaultHorizontalSpeed,
		SpawnInterval:   DefaultSpawnInterval,
		CameraRadius:    DefaultCameraRadius,
		OutputDir:       DefaultOutputDir,
		Render:          DefaultRender(),
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes the YAML file at path over cfg. Keys missing from the
// file keep the values already in cfg, so a file can refine a preset.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// TotalFrames is fps*duration rounded to the nearest frame.
func (c *Config) TotalFrames() int {
	return int(math.Round(float64(c.FPS) * c.Duration))
}

// Dt is the simulated time between consecutive frames.
func (c *Config) Dt() float64 {
	if c.FPS <= 0 {
		return 0
	}
	return 1 / float64(c.FPS)
}

// Validate reports every invalid field at once. The returned error matches
// dynamo.ErrInvalidConfig with errors.Is.
func (c *Config) Validate() error {
	var errs []error
	bad := func(field string, value any, msg string) {
		errs = append(errs, &dynamo.FieldError{Field: field, Value: value, Message: msg})
	}

	nonFinite := make(map[string]bool)
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"duration", c.Duration},
		{"initial_height", c.InitialHeight},
		{"spawn_z", c.SpawnZ},
		{"gravity", c.Gravity},
		{"radius", c.Radius},
		{"ground_level", c.GroundLevel},
		{"restitution", c.Restitution},
		{"horizontal_speed", c.HorizontalSpeed},
		{"camera_radius", c.CameraRadius},
		{"render.fov", c.Render.FOV},
		{"render.exposure", c.Render.Exposure},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			bad(f.name, f.value, fmt.Sprintf("must be finite, got %f", f.value))
			nonFinite[f.name] = true
		}
	}

	if c.FPS <= 0 {
		bad("fps", c.FPS, fmt.Sprintf("must be positive, got %d", c.FPS))
	}
	if !nonFinite["duration"] && c.Duration <= 0 {
		bad("duration", c.Duration, fmt.Sprintf("must be positive, got %f", c.Duration))
	}
	if !nonFinite["radius"] && c.Radius <= 0 {
		bad("radius", c.Radius, fmt.Sprintf("must be positive, got %f", c.Radius))
	}
	if c.SpawnInterval <= 0 {
		bad("spawn_interval", c.SpawnInterval, fmt.Sprintf("must be positive, got %d", c.SpawnInterval))
	}
	if !nonFinite["camera_radius"] && c.CameraRadius <= 0 {
		bad("camera_radius", c.CameraRadius, fmt.Sprintf("must be positive, got %f", c.CameraRadius))
	}
	if !nonFinite["gravity"] && c.Gravity < 0 {
		bad("gravity", c.Gravity, fmt.Sprintf("must not be negative, got %f", c.Gravity))
	}
	if !nonFinite["restitution"] && (c.Restitution < 0 || c.Restitution > 1) {
		bad("restitution", c.Restitution, fmt.Sprintf("must be within [0, 1], got %f", c.Restitution))
	}
	if !nonFinite["horizontal_speed"] && c.HorizontalSpeed < 0 {
		bad("horizontal_speed", c.HorizontalSpeed, fmt.Sprintf("must not be negative, got %f", c.HorizontalSpeed))
	}
	if !nonFinite["render.fov"] && (c.Render.FOV <= 0 || c.Render.FOV >= 180) {
		bad("render.fov", c.Render.FOV, fmt.Sprintf("must be within (0, 180), got %f", c.Render.FOV))
	}
	if c.OutputDir == "" {
		bad("output_dir", c.OutputDir, "must not be empty")
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		bad("render", fmt.Sprintf("%dx%d", c.Render.Width, c.Render.Height), "width and height must be positive")
	}
	if c.Render.NBounces < 0 {
		bad("render.nbounces", c.Render.NBounces, "must not be negative")
	}

	if len(errs) == 0 && c.TotalFrames() <= 0 {
		errs = append(errs, fmt.Errorf("fps %d x duration %g: %w", c.FPS, c.Duration, dynamo.ErrNoFrames))
	}
	return errors.Join(errs...)
}
