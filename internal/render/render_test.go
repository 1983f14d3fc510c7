package render

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/san-kum/weatherwave/internal/waveform"
	"github.com/san-kum/weatherwave/internal/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.RGBA{R: 0xff, A: 0xff}
	blue = color.RGBA{B: 0xff, A: 0xff}
	bg   = color.RGBA{A: 0xff}
)

func flat(y float64) waveform.Curve {
	return waveform.Curve{{X: 0, Y: y}, {X: 5, Y: y}, {X: 10, Y: y}}
}

func TestRender_FixedViewport(t *testing.T) {
	vp := DefaultViewport()
	c := flat(1)

	a := Render(c, red, vp)
	b := Render(c, blue, vp)
	assert.Equal(t, a.Viewport, b.Viewport)
	assert.Equal(t, vp, a.Viewport)

	// a curve far outside the viewport does not rescale it
	big := Render(flat(100), red, vp)
	assert.Equal(t, vp, big.Viewport)
}

func TestRenderer_CarriesSample(t *testing.T) {
	r := NewRenderer(DefaultViewport())
	s := weather.Sample{Index: 7, Temperature: 21}
	f := r.Render(s, flat(0), red)

	assert.Equal(t, 7, f.Index)
	assert.Equal(t, s, f.Sample)
	assert.Equal(t, r.Viewport(), f.Viewport)
}

func TestViewport_Validate(t *testing.T) {
	assert.NoError(t, DefaultViewport().Validate())
	assert.Error(t, Viewport{XMin: 1, XMax: 1, YMin: 0, YMax: 1}.Validate())
	assert.Error(t, Viewport{XMin: 0, XMax: 1, YMin: 2, YMax: -2}.Validate())
}

func TestRasterize_HorizontalLine(t *testing.T) {
	r := NewRasterizer(101, 81, bg, 1)
	img := r.Rasterize(Render(flat(0), red, DefaultViewport()))

	require.Equal(t, 101, img.Bounds().Dx())
	// y=0 maps to the middle row of the fixed viewport
	for x := 0; x < 101; x++ {
		assert.Equal(t, red, img.RGBAAt(x, 40), "x=%d", x)
	}
	assert.Equal(t, bg, img.RGBAAt(50, 10))
}

func TestRasterize_SamePixelsAcrossColors(t *testing.T) {
	r := NewRasterizer(64, 48, bg, 2)
	c := waveform.Curve{{X: 0, Y: -3}, {X: 10, Y: 3}}
	a := r.Rasterize(Render(c, red, DefaultViewport()))
	b := r.Rasterize(Render(c, blue, DefaultViewport()))

	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			assert.Equal(t, a.RGBAAt(x, y) == bg, b.RGBAAt(x, y) == bg)
		}
	}
}

func TestRasterize_OutOfViewportClipped(t *testing.T) {
	r := NewRasterizer(32, 32, bg, 3)
	img := r.Rasterize(Render(flat(50), red, DefaultViewport()))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if img.RGBAAt(x, y) != bg {
				t.Fatalf("pixel (%d,%d) drawn for a curve above the viewport", x, y)
			}
		}
	}
}

func TestCanvas_Plot(t *testing.T) {
	c := NewCanvas(20, 5)
	c.Plot(Render(flat(0), red, DefaultViewport()))

	w, h := 40, 20
	mid := round(float64(h-1) / 2)
	for x := 0; x < w; x++ {
		assert.True(t, c.IsSet(x, mid), "x=%d", x)
	}
	assert.False(t, c.IsSet(0, 0))
	assert.Len(t, strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n"), 5)

	c.Clear()
	assert.False(t, c.IsSet(0, mid))
}

func TestFrameSVG(t *testing.T) {
	svg := FrameSVG(Render(flat(0), red, DefaultViewport()), 100, 80, bg)
	assert.Contains(t, svg, `stroke="#ff0000"`)
	assert.Contains(t, svg, `fill="#000000"`)
	assert.Contains(t, svg, "M0.0,40.0 L50.0,40.0 L100.0,40.0")
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))
}

func TestViewport_Polyline(t *testing.T) {
	c := waveform.Curve{{X: 0, Y: 4}, {X: 5, Y: -4}, {X: 10, Y: -10}, {X: 10, Y: 500}}
	pts := DefaultViewport().Polyline(c, 11, 9)
	assert.Equal(t, image.Pt(0, 0), pts[0])
	assert.Equal(t, image.Pt(5, 8), pts[1])
	// one viewport height of overshoot is kept, anything further is clamped
	assert.Equal(t, image.Pt(10, 14), pts[2])
	assert.Equal(t, image.Pt(10, -8), pts[3])
}

func TestFrame_Strokes(t *testing.T) {
	single := Render(flat(0), red, DefaultViewport())
	require.Len(t, single.Strokes(), 1)
	assert.Equal(t, 1.0, single.Strokes()[0].Alpha)

	layered := single
	layered.Layers = []waveform.Curve{flat(2), flat(-2)}
	strokes := layered.Strokes()
	require.Len(t, strokes, 3)
	assert.InDelta(t, 0.5, strokes[0].Alpha, 1e-12)
	assert.InDelta(t, 0.5+0.5/3, strokes[1].Alpha, 1e-12)
	assert.InDelta(t, 0.5+1.0/3, strokes[2].Alpha, 1e-12)
	assert.Equal(t, flat(2), strokes[1].Curve)
}

func TestRasterize_Layers(t *testing.T) {
	f := Render(flat(0), red, DefaultViewport())
	f.Layers = []waveform.Curve{flat(2), flat(-2)}

	r := NewRasterizer(101, 81, bg, 1)
	cols := r.StrokeColors(f)
	require.Len(t, cols, 3)
	assert.Equal(t, color.RGBA{R: 128, A: 0xff}, cols[0])
	assert.Less(t, cols[1].R, cols[2].R)

	img := r.Rasterize(f)
	assert.Equal(t, cols[0], img.RGBAAt(50, 40))
	assert.Equal(t, cols[1], img.RGBAAt(50, 20))
	assert.Equal(t, cols[2], img.RGBAAt(50, 60))
}

func TestFrameSVG_Layers(t *testing.T) {
	f := Render(flat(0), red, DefaultViewport())
	f.Layers = []waveform.Curve{flat(2)}
	svg := FrameSVG(f, 100, 80, bg)

	assert.Equal(t, 2, strings.Count(svg, "<path"))
	assert.Contains(t, svg, `stroke-opacity="0.50"`)
	assert.Contains(t, svg, `stroke-opacity="0.75"`)
	assert.NotContains(t, FrameSVG(Render(flat(0), red, DefaultViewport()), 100, 80, bg), "stroke-opacity")
}
