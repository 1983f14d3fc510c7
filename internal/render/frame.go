package render

import (
	"errors"
	"image"
	"image/color"

	"github.com/san-kum/weatherwave/internal/waveform"
	"github.com/san-kum/weatherwave/internal/weather"
)

// Viewport is the fixed axis range every frame is drawn against.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
}

func DefaultViewport() Viewport {
	return Viewport{XMin: 0, XMax: 10, YMin: -4, YMax: 4}
}

func (v Viewport) Validate() error {
	if !(v.XMax > v.XMin) || !(v.YMax > v.YMin) {
		return errors.New("viewport: max must be greater than min on both axes")
	}
	return nil
}

// Frame is one drawable timestep. Curve is layer 0; Layers holds any further
// stacked layers, drawn after it in order.
type Frame struct {
	Index    int
	Sample   weather.Sample
	Curve    waveform.Curve
	Layers   []waveform.Curve
	Color    color.RGBA
	Viewport Viewport
}

// Stroke is one curve of a frame and the opacity it is drawn with.
type Stroke struct {
	Curve waveform.Curve
	Alpha float64
}

// Strokes lists the frame's curves in drawing order. A single curve is opaque;
// with n layers, layer i gets opacity 0.5 + 0.5*i/n.
func (f Frame) Strokes() []Stroke {
	n := 1 + len(f.Layers)
	if n == 1 {
		return []Stroke{{Curve: f.Curve, Alpha: 1}}
	}
	strokes := make([]Stroke, 0, n)
	strokes = append(strokes, Stroke{Curve: f.Curve, Alpha: 0.5})
	for i, c := range f.Layers {
		strokes = append(strokes, Stroke{Curve: c, Alpha: 0.5 + 0.5*float64(i+1)/float64(n)})
	}
	return strokes
}

// Render composes a frame. It performs no scaling.
func Render(c waveform.Curve, col color.RGBA, vp Viewport) Frame {
	return Frame{Curve: c, Color: col, Viewport: vp}
}

// Renderer pins the viewport for a run.
type Renderer struct {
	viewport Viewport
}

func NewRenderer(vp Viewport) *Renderer {
	return &Renderer{viewport: vp}
}

func (r *Renderer) Viewport() Viewport { return r.viewport }

// Render builds the frame for sample s.
func (r *Renderer) Render(s weather.Sample, c waveform.Curve, col color.RGBA) Frame {
	f := Render(c, col, r.viewport)
	f.Index = s.Index
	f.Sample = s
	return f
}

// project maps data coordinates onto a w x h pixel grid with y pointing down.
// Points outside the viewport land outside the grid.
func (v Viewport) project(x, y float64, w, h int) (int, int) {
	px := (x - v.XMin) / (v.XMax - v.XMin) * float64(w-1)
	py := (v.YMax - y) / (v.YMax - v.YMin) * float64(h-1)
	return round(px), round(py)
}

// Polyline projects c onto a w x h surface, for sinks that draw their own
// lines. y is clamped to one viewport height beyond either edge, as in the
// rasterizer.
func (v Viewport) Polyline(c waveform.Curve, w, h int) []image.Point {
	pts := make([]image.Point, len(c))
	for i, p := range c {
		x, y := v.project(p.X, clampY(p.Y, v), w, h)
		pts[i] = image.Pt(x, y)
	}
	return pts
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
