package config

import (
	"sort"

	"github.com/san-kum/weatherwave/internal/weather"
)

// Preset is a named adjustment applied on top of DefaultConfig.
type Preset struct {
	Description string
	apply       func(*Config)
}

var Presets = map[string]Preset{
	"calm": {
		Description: "mild, slowly drifting weather with light wind",
		apply: func(c *Config) {
			c.Weather.Temperature = FieldConfig{Base: 18, Amplitude: 2, Period: 60}
			c.Weather.Humidity = FieldConfig{Base: 55, Amplitude: 5, Period: 60, Phase: weather.DefaultPhaseH}
			c.Weather.Wind = FieldConfig{Base: 1.5, Amplitude: 0.5, Period: 60, Phase: weather.DefaultPhaseW}
			c.Display.Theme = "minimal"
		},
	},
	"storm": {
		Description: "gusty, humid and noisy; five stacked drifting layers",
		apply: func(c *Config) {
			c.Weather.Temperature = FieldConfig{Base: 15, Amplitude: 4, Period: 12}
			c.Weather.Humidity = FieldConfig{Base: 85, Amplitude: 10, Period: 8, Phase: weather.DefaultPhaseH}
			c.Weather.Wind = FieldConfig{Base: 18, Amplitude: 10, Period: 6, Phase: weather.DefaultPhaseW}
			c.Weather.Noise = NoiseConfig{Temperature: 0.8, Humidity: 3, Wind: 2.5, Seed: 7}
			c.Waveform.Strategy = "drift"
			c.Waveform.Layers = 5
			c.Color.Strategy = "weather"
			c.Display.Theme = "night"
		},
	},
	"heatwave": {
		Description: "hot and dry; fast oscillation on the weather colormap",
		apply: func(c *Config) {
			c.Weather.Temperature = FieldConfig{Base: 34, Amplitude: 6, Period: 20}
			c.Weather.Humidity = FieldConfig{Base: 25, Amplitude: 8, Period: 20, Phase: weather.DefaultPhaseH}
			c.Weather.Wind = FieldConfig{Base: 3, Amplitude: 2, Period: 20, Phase: weather.DefaultPhaseW}
			c.Color.Strategy = "weather"
			c.Display.Theme = "sunset"
		},
	},
	"reference": {
		Description: "100 daily samples with a 100-day period, unpaced",
		apply: func(c *Config) {
			c.Frames = 100
			c.Realtime = false
			c.Weather.Temperature.Period = 100
			c.Weather.Humidity.Period = 100
			c.Weather.Wind.Period = 100
		},
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	p.apply(cfg)
	return cfg
}

// ListPresets returns preset names in order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
