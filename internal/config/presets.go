package config

import "sort"

// Presets tune the backdrop and converter for common setups. They are
// applied on top of the defaults.
var Presets = map[string]func(*Config){
	"calm": func(c *Config) {
		c.Field.Density = 60000
		c.Field.Influence = 100
		c.Reveal.DurationMs = 2000
	},
	"storm": func(c *Config) {
		c.Field.Density = 8000
		c.Field.Influence = 220
		c.Reveal.DurationMs = 600
	},
	"still": func(c *Config) {
		c.Field.Enabled = false
		c.Audio.Enabled = false
		c.Reveal.DurationMs = 1
	},
	"wide": func(c *Config) {
		c.Engine.Width = 200
	},
	"narrow": func(c *Config) {
		c.Engine.Width = 60
		c.Theme = "retro"
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
