package palette

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Linear interpolates in RGB between a cold and a hot endpoint.
type Linear struct {
	cold, hot colorful.Color
}

func NewLinear(cold, hot string) (*Linear, error) {
	c, err := parse(cold)
	if err != nil {
		return nil, err
	}
	h, err := parse(hot)
	if err != nil {
		return nil, err
	}
	return &Linear{cold: c, hot: h}, nil
}

func (l *Linear) Name() string { return "linear" }

func (l *Linear) Map(t float64, d Domain) color.RGBA {
	return toRGBA(l.cold.BlendRgb(l.hot, Fraction(t, d)))
}
