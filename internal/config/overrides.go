package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DROPSCENE_FPS.
const EnvPrefix = "DROPSCENE"

type override struct {
	key   string
	apply func(c *Config, v *viper.Viper, key string)
}

// Keys double as flag names; env names are derived by upper-casing and
// replacing '-' and '.' with '_'.
var overrides = []override{
	{"fps", func(c *Config, v *viper.Viper, k string) { c.FPS = v.GetInt(k) }},
	{"duration", func(c *Config, v *viper.Viper, k string) { c.Duration = v.GetFloat64(k) }},
	{"initial-height", func(c *Config, v *viper.Viper, k string) { c.InitialHeight = v.GetFloat64(k) }},
	{"spawn-z", func(c *Config, v *viper.Viper, k string) { c.SpawnZ = v.GetFloat64(k) }},
	{"gravity", func(c *Config, v *viper.Viper, k string) { c.Gravity = v.GetFloat64(k) }},
	{"radius", func(c *Config, v *viper.Viper, k string) { c.Radius = v.GetFloat64(k) }},
	{"ground-level", func(c *Config, v *viper.Viper, k string) { c.GroundLevel = v.GetFloat64(k) }},
	{"restitution", func(c *Config, v *viper.Viper, k string) { c.Restitution = v.GetFloat64(k) }},
	{"horizontal-speed", func(c *Config, v *viper.Viper, k string) { c.HorizontalSpeed = v.GetFloat64(k) }},
	{"spawn-interval", func(c *Config, v *viper.Viper, k string) { c.SpawnInterval = v.GetInt(k) }},
	{"camera-radius", func(c *Config, v *viper.Viper, k string) { c.CameraRadius = v.GetFloat64(k) }},
	{"output", func(c *Config, v *viper.Viper, k string) { c.OutputDir = v.GetString(k) }},
	{"seed", func(c *Config, v *viper.Viper, k string) { c.Seed = v.GetInt64(k) }},
	{"width", func(c *Config, v *viper.Viper, k string) { c.Render.Width = v.GetInt(k) }},
	{"height", func(c *Config, v *viper.Viper, k string) { c.Render.Height = v.GetInt(k) }},
}

var envReplacer = strings.NewReplacer("-", "_", ".", "_")

// NewEnv returns a viper instance reading DROPSCENE_* environment variables.
func NewEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()
	return v
}

// ApplyOverrides layers environment variables and then explicitly set flags
// on top of cfg. Flags that were not changed on the command line never
// override a value from a preset or config file.
func ApplyOverrides(cfg *Config, v *viper.Viper, flags *pflag.FlagSet) error {
	for _, o := range overrides {
		if flags != nil {
			if fl := flags.Lookup(o.key); fl != nil && fl.Changed {
				if err := v.BindPFlag(o.key, fl); err != nil {
					return err
				}
				o.apply(cfg, v, o.key)
				continue
			}
		}
		if v.IsSet(o.key) {
			o.apply(cfg, v, o.key)
		}
	}
	return nil
}

// EnvName returns the environment variable read for key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(envReplacer.Replace(key))
}

// OverrideKeys lists the keys understood by ApplyOverrides.
func OverrideKeys() []string {
	keys := make([]string, len(overrides))
	for i, o := range overrides {
		keys[i] = o.key
	}
	return keys
}
