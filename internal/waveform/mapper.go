package waveform

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/weatherwave/internal/weather"
)

const (
	DefaultKF            = 0.1
	DefaultKA            = 0.02
	DefaultKC            = 0.5
	DefaultPhaseStep     = math.Pi / 4
	DefaultMaxComplexity = 16
	DefaultResolution    = 1000
)

// Mapper turns one sample into a curve. Implementations must be pure.
type Mapper interface {
	Name() string
	Map(s weather.Sample, d Domain, resolution int) Curve
}

// Layered is a Mapper that can draw phase-shifted variants of one sample,
// stacked in the same frame.
type Layered interface {
	Mapper
	MapLayer(s weather.Sample, d Domain, resolution, layer int) Curve
}

// Layers maps s into n stacked curves, layer 0 first. A mapper that is not
// Layered, or n < 2, yields the single curve from Map.
func Layers(m Mapper, s weather.Sample, d Domain, resolution, n int) []Curve {
	lm, ok := m.(Layered)
	if !ok || n < 2 {
		return []Curve{m.Map(s, d, resolution)}
	}
	curves := make([]Curve, n)
	for i := range curves {
		curves[i] = lm.MapLayer(s, d, resolution, i)
	}
	return curves
}

// Config carries the scale constants shared by the built-in strategies.
type Config struct {
	KF            float64
	KA            float64
	KC            float64
	PhaseStep     float64
	MaxComplexity int
}

func DefaultConfig() Config {
	return Config{
		KF:            DefaultKF,
		KA:            DefaultKA,
		KC:            DefaultKC,
		PhaseStep:     DefaultPhaseStep,
		MaxComplexity: DefaultMaxComplexity,
	}
}

var strategies = map[string]func(Config) Mapper{
	"harmonic": func(c Config) Mapper { return NewHarmonic(c) },
	"drift":    func(c Config) Mapper { return NewDrift(c) },
}

// New returns the strategy registered under name.
func New(name string, cfg Config) (Mapper, error) {
	fn, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown waveform strategy: %s", name)
	}
	return fn(cfg), nil
}

// Strategies lists registered strategy names.
func Strategies() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Frequency is k_f * temperature, never negative or NaN.
func Frequency(kf, temperature float64) float64 {
	return nonNegative(kf * nonNegative(temperature))
}

// Amplitude is k_a * humidity, never negative or NaN.
func Amplitude(ka, humidity float64) float64 {
	return nonNegative(ka * nonNegative(humidity))
}

// Complexity is the harmonic count for a wind speed, floored at 1 and capped at
// max (DefaultMaxComplexity when max <= 0).
func Complexity(kc, wind float64, max int) int {
	if max <= 0 {
		max = DefaultMaxComplexity
	}
	c := math.Round(nonNegative(kc * nonNegative(wind)))
	if c > float64(max) {
		return max
	}
	if c < 1 {
		return 1
	}
	return int(c)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if math.IsInf(v, 1) {
		return math.MaxFloat32
	}
	return v
}
