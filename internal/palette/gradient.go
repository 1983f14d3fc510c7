package palette

import (
	"errors"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Gradient interpolates piecewise in RGB across evenly spaced stops.
type Gradient struct {
	stops []colorful.Color
}

func NewGradient(stops ...string) (*Gradient, error) {
	if len(stops) < 2 {
		return nil, errors.New("gradient needs at least two stops")
	}
	g := &Gradient{stops: make([]colorful.Color, len(stops))}
	for i, s := range stops {
		c, err := parse(s)
		if err != nil {
			return nil, err
		}
		g.stops[i] = c
	}
	return g, nil
}

func (g *Gradient) Name() string { return "weather" }

func (g *Gradient) Map(t float64, d Domain) color.RGBA {
	pos := Fraction(t, d) * float64(len(g.stops)-1)
	i := int(math.Floor(pos))
	if i >= len(g.stops)-1 {
		return toRGBA(g.stops[len(g.stops)-1])
	}
	return toRGBA(g.stops[i].BlendRgb(g.stops[i+1], pos-float64(i)))
}
