package animation

import (
	"github.com/san-kum/weatherwave/internal/palette"
	"github.com/san-kum/weatherwave/internal/render"
	"github.com/san-kum/weatherwave/internal/waveform"
	"github.com/san-kum/weatherwave/internal/weather"
)

// Pipeline turns a frame index into a frame: sample -> curve & color -> frame.
// All of its inputs are fixed for the run.
type Pipeline struct {
	Params      weather.Params
	Waveform    waveform.Mapper
	Palette     palette.Mapper
	ColorDomain palette.Domain
	XDomain     waveform.Domain
	Resolution  int
	// Layers is the number of stacked curves per frame for Layered mappers.
	Layers   int
	Renderer *render.Renderer
}

// NewPipeline fixes the color domain from the temperature base ± amplitude.
func NewPipeline(p weather.Params, wm waveform.Mapper, cm palette.Mapper, vp render.Viewport) *Pipeline {
	return &Pipeline{
		Params:      p,
		Waveform:    wm,
		Palette:     cm,
		ColorDomain: palette.DomainFor(p.Temperature.Base, p.Temperature.Amplitude),
		XDomain:     waveform.Domain{Min: vp.XMin, Max: vp.XMax},
		Resolution:  waveform.DefaultResolution,
		Layers:      1,
		Renderer:    render.NewRenderer(vp),
	}
}

// Frame builds the frame for index t.
func (p *Pipeline) Frame(t int) render.Frame {
	s := p.Params.At(t)
	curves := waveform.Layers(p.Waveform, s, p.XDomain, p.Resolution, p.Layers)
	col := p.Palette.Map(s.Temperature, p.ColorDomain)
	f := p.Renderer.Render(s, curves[0], col)
	if len(curves) > 1 {
		f.Layers = curves[1:]
	}
	return f
}
