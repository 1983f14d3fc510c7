package spectrum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/weatherwave/internal/waveform"
	"github.com/san-kum/weatherwave/internal/weather"
)

func sine(freq float64, n int) waveform.Curve {
	xs := waveform.DefaultDomain().Xs(n)
	c := make(waveform.Curve, len(xs))
	for i, x := range xs {
		c[i] = waveform.Point{X: x, Y: math.Sin(freq * x)}
	}
	return c
}

func TestDominantCycles_PureSine(t *testing.T) {
	// 2 rad/unit over 10 units is 20/2π ≈ 3.18 cycles
	got := DominantCycles(sine(2, 1000))
	assert.InDelta(t, 20/(2*math.Pi), got, 0.3)
}

func TestFrequency_RecoversMapperFrequency(t *testing.T) {
	assert.InDelta(t, 3.0, Frequency(sine(3, 1000)), 0.2)
}

func TestAnalyze_MagnitudeScalesWithAmplitude(t *testing.T) {
	base := sine(3, 1000)
	tripled := make(waveform.Curve, len(base))
	for i, p := range base {
		tripled[i] = waveform.Point{X: p.X, Y: 3 * p.Y}
	}

	s1, s3 := Analyze(base), Analyze(tripled)
	require.Len(t, s1.Magnitude, 500)
	_, m1 := s1.Dominant()
	_, m3 := s3.Dominant()
	require.Greater(t, m1, 0.0)
	assert.InDelta(t, 3.0, m3/m1, 1e-6)
}

func TestDominantCycles_Flat(t *testing.T) {
	c := make(waveform.Curve, 100)
	for i := range c {
		c[i] = waveform.Point{X: float64(i), Y: 1}
	}
	assert.Zero(t, DominantCycles(c))
	assert.Zero(t, DominantCycles(c[:2]))
}

func TestDominantCycles_HotterOscillatesFaster(t *testing.T) {
	m := waveform.NewHarmonic(waveform.DefaultConfig())
	dom := waveform.DefaultDomain()

	prev := 0.0
	for _, temp := range []float64{10, 20, 30, 40} {
		s := weather.Sample{Temperature: temp, Humidity: 60, WindSpeed: 2}
		got := DominantCycles(m.Map(s, dom, 1000))
		assert.Greater(t, got, prev, "temperature %.0f", temp)
		prev = got
	}
}
