// Package weather generates deterministic meteorological time series.
//
// Each field of a [Sample] is a sinusoid of the frame index:
//
//	value(t) = base + amplitude * sin(2π * t / period + phase)
//
// with optional Gaussian noise drawn from a source seeded by the frame index,
// so [Params.At] stays a pure function of t.
//
// # Example
//
//	p := weather.DefaultParams()
//	samples, err := weather.Generate(60, p)
package weather
