package waveform

import (
	"math"

	"github.com/san-kum/weatherwave/internal/weather"
)

// Harmonic superposes 1/i weighted harmonics of a temperature-driven frequency:
//
//	y(x) = A * Σ_{i=1..c} (1/i) * sin(f*i*x + i*PhaseStep)
type Harmonic struct {
	cfg Config
}

func NewHarmonic(cfg Config) *Harmonic {
	return &Harmonic{cfg: cfg}
}

func (h *Harmonic) Name() string { return "harmonic" }

func (h *Harmonic) Map(s weather.Sample, d Domain, resolution int) Curve {
	f := Frequency(h.cfg.KF, s.Temperature)
	a := Amplitude(h.cfg.KA, s.Humidity)
	c := Complexity(h.cfg.KC, s.WindSpeed, h.cfg.MaxComplexity)

	xs := d.Xs(resolution)
	curve := make(Curve, len(xs))
	for j, x := range xs {
		y := 0.0
		for i := 1; i <= c; i++ {
			fi := float64(i)
			y += math.Sin(f*fi*x+fi*h.cfg.PhaseStep) / fi
		}
		curve[j] = Point{X: x, Y: a * y}
	}
	return curve
}
