package weather

import (
	"math"
	"math/rand/v2"
	"time"
)

const (
	DefaultBaseT   = 20.0
	DefaultAmpT    = 5.0
	DefaultBaseH   = 60.0
	DefaultAmpH    = 15.0
	DefaultBaseW   = 5.0
	DefaultAmpW    = 3.0
	DefaultPeriod  = 30.0
	DefaultPhaseH  = 0.5
	DefaultPhaseW  = 1.0
	DefaultStepDur = 24 * time.Hour
)

// Sample is one timestep of simulated weather.
type Sample struct {
	Index       int       `json:"index"`
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
}

// FieldParams describes the sinusoid of a single field.
type FieldParams struct {
	Base      float64
	Amplitude float64
	Period    float64
	Phase     float64
}

// Min and Max bound the noiseless field.
func (f FieldParams) Min() float64 { return f.Base - f.Amplitude }
func (f FieldParams) Max() float64 { return f.Base + f.Amplitude }

func (f FieldParams) eval(t int) float64 {
	return f.Base + f.Amplitude*math.Sin(2*math.Pi*float64(t)/f.Period+f.Phase)
}

// Noise adds seeded Gaussian jitter. Zero std-devs disable it.
type Noise struct {
	Temperature float64
	Humidity    float64
	Wind        float64
	Seed        uint64
}

func (n Noise) enabled() bool {
	return n.Temperature != 0 || n.Humidity != 0 || n.Wind != 0
}

// Params fully determines a series.
type Params struct {
	Temperature FieldParams
	Humidity    FieldParams
	Wind        FieldParams
	Noise       Noise

	// Start and Step only label samples with a timestamp.
	Start time.Time
	Step  time.Duration
}

func DefaultParams() Params {
	return Params{
		Temperature: FieldParams{Base: DefaultBaseT, Amplitude: DefaultAmpT, Period: DefaultPeriod},
		Humidity:    FieldParams{Base: DefaultBaseH, Amplitude: DefaultAmpH, Period: DefaultPeriod, Phase: DefaultPhaseH},
		Wind:        FieldParams{Base: DefaultBaseW, Amplitude: DefaultAmpW, Period: DefaultPeriod, Phase: DefaultPhaseW},
		Step:        DefaultStepDur,
	}
}

// Validate rejects parameters that would produce undefined samples.
func (p Params) Validate() error {
	fields := []struct {
		name string
		f    FieldParams
	}{
		{"temperature", p.Temperature},
		{"humidity", p.Humidity},
		{"wind", p.Wind},
	}
	for _, fp := range fields {
		if !finite(fp.f.Base, fp.f.Amplitude, fp.f.Period, fp.f.Phase) {
			return invalid(fp.name, "non-finite parameter")
		}
		if fp.f.Period <= 0 {
			return invalid(fp.name+".period", "must be positive, got %g", fp.f.Period)
		}
		if fp.f.Amplitude < 0 {
			return invalid(fp.name+".amplitude", "must not be negative, got %g", fp.f.Amplitude)
		}
	}
	if p.Noise.Temperature < 0 || p.Noise.Humidity < 0 || p.Noise.Wind < 0 {
		return invalid("noise", "std-dev must not be negative")
	}
	if p.Step < 0 {
		return invalid("step", "must not be negative, got %s", p.Step)
	}
	return nil
}

// At evaluates the series at frame index t.
func (p Params) At(t int) Sample {
	s := Sample{
		Index:       t,
		Time:        p.Start.Add(time.Duration(t) * p.Step),
		Temperature: p.Temperature.eval(t),
		Humidity:    p.Humidity.eval(t),
		WindSpeed:   p.Wind.eval(t),
	}
	if p.Noise.enabled() {
		s.Temperature += p.Noise.Temperature * normal(p.Noise.Seed, t, 0)
		s.Humidity += p.Noise.Humidity * normal(p.Noise.Seed, t, 1)
		s.WindSpeed = math.Abs(s.WindSpeed + p.Noise.Wind*normal(p.Noise.Seed, t, 2))
	}
	return s
}

// Generate returns samples 0..n-1. n == 0 yields an empty series.
func Generate(n int, p Params) ([]Sample, error) {
	if n < 0 {
		return nil, invalid("frames", "must not be negative, got %d", n)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	samples := make([]Sample, n)
	for t := range samples {
		samples[t] = p.At(t)
	}
	return samples, nil
}

// normal draws a standard normal value that depends only on (seed, t, field).
func normal(seed uint64, t int, field uint64) float64 {
	r := rand.New(rand.NewPCG(seed, uint64(t)<<2|field))
	return r.NormFloat64()
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
