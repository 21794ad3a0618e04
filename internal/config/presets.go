package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"quick": withDefaults(func(c *Config) {
		c.Duration = 1
	}),
	"rain": withDefaults(func(c *Config) {
		c.Duration = 20
		c.SpawnInterval = 6
		c.InitialHeight = 1.5
	}),
	"marathon": withDefaults(func(c *Config) {
		c.Duration = 120
	}),
	"moon": withDefaults(func(c *Config) {
		c.Duration = 30
		c.Gravity = 1.62
		c.Restitution = 0.9
		c.HorizontalSpeed = 0.15
	}),
	"preview": withDefaults(func(c *Config) {
		c.Duration = 4
		c.Render.Width = 300
		c.Render.Height = 200
		c.Render.NBounces = 2
	}),
}

func withDefaults(mod func(*Config)) *Config {
	c := DefaultConfig()
	mod(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
