// Package spectrum inspects the frequency content of rendered curves.
package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/weatherwave/internal/waveform"
)

// Spectrum is the one-sided magnitude spectrum of a curve. Bin k holds the
// magnitude of k oscillations across the curve's x span.
type Spectrum struct {
	Magnitude []float64
	Span      float64
}

// Analyze removes the mean, applies a Hann window and transforms the curve's ys.
func Analyze(c waveform.Curve) Spectrum {
	n := len(c)
	if n < 4 {
		return Spectrum{}
	}
	ys := c.Ys()

	mean := 0.0
	for _, y := range ys {
		mean += y
	}
	mean /= float64(n)

	for i := range ys {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		ys[i] = (ys[i] - mean) * w
	}

	coeffs := fft.FFTReal(ys)
	mag := make([]float64, n/2)
	for i := range mag {
		mag[i] = cmplx.Abs(coeffs[i])
	}

	x0, x1 := c[0].X, c[n-1].X
	return Spectrum{Magnitude: mag, Span: x1 - x0}
}

// Dominant returns the strongest oscillation count, refined between bins by
// parabolic interpolation, and its magnitude. A flat curve reports 0.
func (s Spectrum) Dominant() (cycles, magnitude float64) {
	best := 0
	for k := 1; k < len(s.Magnitude); k++ {
		if s.Magnitude[k] > s.Magnitude[best] {
			best = k
		}
	}
	if best == 0 || s.Magnitude[best] < 1e-9 {
		return 0, 0
	}

	peak := float64(best)
	if best+1 < len(s.Magnitude) {
		a, b, g := s.Magnitude[best-1], s.Magnitude[best], s.Magnitude[best+1]
		if d := a - 2*b + g; d != 0 {
			peak += 0.5 * (a - g) / d
		}
	}
	return peak, s.Magnitude[best]
}

// DominantCycles is the number of full oscillations the curve's strongest
// component makes across its span.
func DominantCycles(c waveform.Curve) float64 {
	cycles, _ := Analyze(c).Dominant()
	return cycles
}

// Frequency converts the dominant oscillation count to radians per x unit, the
// same unit as waveform.Frequency.
func Frequency(c waveform.Curve) float64 {
	s := Analyze(c)
	cycles, _ := s.Dominant()
	if s.Span <= 0 {
		return 0
	}
	return 2 * math.Pi * cycles / s.Span
}
