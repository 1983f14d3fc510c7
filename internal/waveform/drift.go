package waveform

import (
	"math"

	"github.com/san-kum/weatherwave/internal/weather"
)

// Drift is a base sine plus detuned harmonics at f*(i+0.5) with amplitude A/(2i).
// Each layer shifts the base phase by layer*π/2 and harmonic i by layer*π/(i+1),
// so stacked layers do not coincide.
type Drift struct {
	cfg Config
}

func NewDrift(cfg Config) *Drift {
	return &Drift{cfg: cfg}
}

func (d *Drift) Name() string { return "drift" }

// Map returns layer 0.
func (d *Drift) Map(s weather.Sample, dom Domain, resolution int) Curve {
	return d.MapLayer(s, dom, resolution, 0)
}

func (d *Drift) MapLayer(s weather.Sample, dom Domain, resolution, layer int) Curve {
	f := Frequency(d.cfg.KF, s.Temperature)
	a := Amplitude(d.cfg.KA, s.Humidity)
	c := Complexity(d.cfg.KC, s.WindSpeed, d.cfg.MaxComplexity)
	shift := float64(layer)

	xs := dom.Xs(resolution)
	curve := make(Curve, len(xs))
	for j, x := range xs {
		y := a * math.Sin(f*x+shift*math.Pi/2)
		for i := 1; i <= c; i++ {
			fi := float64(i)
			y += a / (2 * fi) * math.Sin(f*(fi+0.5)*x+shift*math.Pi/(fi+1))
		}
		curve[j] = Point{X: x, Y: y}
	}
	return curve
}
