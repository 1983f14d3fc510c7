package waveform

// Point is one (x, y) vertex of a curve.
type Point struct {
	X, Y float64
}

// Curve is an ordered polyline over a fixed x-domain.
type Curve []Point

// Domain is the closed x interval a curve is sampled over.
type Domain struct {
	Min, Max float64
}

func DefaultDomain() Domain {
	return Domain{Min: 0, Max: 10}
}

// Xs returns n evenly spaced x values over d, endpoints included.
func (d Domain) Xs(n int) []float64 {
	if n < 2 {
		n = 2
	}
	xs := make([]float64, n)
	step := (d.Max - d.Min) / float64(n-1)
	for i := range xs {
		xs[i] = d.Min + float64(i)*step
	}
	xs[n-1] = d.Max
	return xs
}

// Ys extracts the y column.
func (c Curve) Ys() []float64 {
	ys := make([]float64, len(c))
	for i, p := range c {
		ys[i] = p.Y
	}
	return ys
}

// Bounds returns the y extent of the curve.
func (c Curve) Bounds() (minY, maxY float64) {
	if len(c) == 0 {
		return 0, 0
	}
	minY, maxY = c[0].Y, c[0].Y
	for _, p := range c[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return minY, maxY
}
