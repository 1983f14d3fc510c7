// Package palette maps temperatures onto colors along a fixed gradient.
package palette

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultCold = "#0000ff"
	DefaultHot  = "#ff0000"
)

// WeatherStops is the cold-to-warm ramp used by the "weather" strategy.
var WeatherStops = []string{"#2E3192", "#1BFFFF", "#FFFFFF", "#FFD700", "#FF4500"}

// Domain is the temperature interval used for normalization. It is fixed for a run.
type Domain struct {
	Min, Max float64
}

// DomainFor spans base ± amplitude.
func DomainFor(base, amplitude float64) Domain {
	amplitude = math.Abs(amplitude)
	return Domain{Min: base - amplitude, Max: base + amplitude}
}

// Fraction normalizes t into [0, 1]. It is non-decreasing in t.
func Fraction(t float64, d Domain) float64 {
	span := d.Max - d.Min
	if math.IsNaN(t) || !(span > 0) {
		return 0
	}
	f := (t - d.Min) / span
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Mapper converts a temperature into a color. Implementations must be pure.
type Mapper interface {
	Name() string
	Map(t float64, d Domain) color.RGBA
}

// Config selects colors for the built-in strategies.
type Config struct {
	Cold  string
	Hot   string
	Stops []string
}

func DefaultConfig() Config {
	return Config{Cold: DefaultCold, Hot: DefaultHot, Stops: WeatherStops}
}

var strategies = map[string]func(Config) (Mapper, error){
	"linear":  func(c Config) (Mapper, error) { return NewLinear(c.Cold, c.Hot) },
	"weather": func(c Config) (Mapper, error) { return NewGradient(c.Stops...) },
}

// New returns the strategy registered under name.
func New(name string, cfg Config) (Mapper, error) {
	fn, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown color strategy: %s", name)
	}
	return fn(cfg)
}

func Strategies() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func parse(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return c, nil
}

// ParseHex parses #rrggbb or #rgb into an opaque color.
func ParseHex(hex string) (color.RGBA, error) {
	c, err := parse(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	return toRGBA(c), nil
}

// Blend is c drawn over bg at the given opacity, as an opaque color.
func Blend(bg, c color.RGBA, alpha float64) color.RGBA {
	if alpha >= 1 {
		return opaque(c)
	}
	alpha = math.Max(0, alpha)
	b, _ := colorful.MakeColor(opaque(bg))
	f, _ := colorful.MakeColor(opaque(c))
	return toRGBA(b.BlendRgb(f, alpha))
}

func opaque(c color.RGBA) color.RGBA {
	c.A = 0xff
	return c
}
