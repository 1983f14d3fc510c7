package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/san-kum/weatherwave/internal/palette"
	"github.com/san-kum/weatherwave/internal/waveform"
)

// Rasterizer draws frames into RGBA images of a fixed size.
type Rasterizer struct {
	Width, Height int
	Background    color.RGBA
	LineWidth     int
}

func NewRasterizer(w, h int, bg color.RGBA, lineWidth int) *Rasterizer {
	if lineWidth < 1 {
		lineWidth = 1
	}
	return &Rasterizer{Width: w, Height: h, Background: bg, LineWidth: lineWidth}
}

// Rasterize draws f into a new image.
func (r *Rasterizer) Rasterize(f Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	r.Draw(img, f)
	return img
}

// Draw clears img and draws every stroke of f into it.
func (r *Rasterizer) Draw(img *image.RGBA, f Frame) {
	draw.Draw(img, img.Bounds(), &image.Uniform{C: r.Background}, image.Point{}, draw.Src)
	for _, st := range f.Strokes() {
		r.curve(img, f.Viewport, st.Curve, palette.Blend(r.Background, f.Color, st.Alpha))
	}
}

// StrokeColors are the colors Draw uses for f's strokes, in drawing order.
func (r *Rasterizer) StrokeColors(f Frame) []color.RGBA {
	strokes := f.Strokes()
	cols := make([]color.RGBA, len(strokes))
	for i, st := range strokes {
		cols[i] = palette.Blend(r.Background, f.Color, st.Alpha)
	}
	return cols
}

func (r *Rasterizer) curve(img *image.RGBA, v Viewport, c waveform.Curve, col color.RGBA) {
	if len(c) == 0 {
		return
	}
	x0, y0, ok0 := r.point(v, c[0])
	for i := 1; i < len(c); i++ {
		x1, y1, ok1 := r.point(v, c[i])
		if ok0 && ok1 {
			r.line(img, x0, y0, x1, y1, col)
		}
		x0, y0, ok0 = x1, y1, ok1
	}
}

func (r *Rasterizer) point(v Viewport, p waveform.Point) (int, int, bool) {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return 0, 0, false
	}
	x, y := v.project(p.X, clampY(p.Y, v), r.Width, r.Height)
	return x, y, true
}

// clampY keeps far out-of-range points from producing huge Bresenham walks.
func clampY(y float64, v Viewport) float64 {
	pad := v.YMax - v.YMin
	return math.Max(v.YMin-pad, math.Min(v.YMax+pad, y))
}

// line draws a Bresenham line with a square brush.
func (r *Rasterizer) line(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		r.dot(img, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (r *Rasterizer) dot(img *image.RGBA, x, y int, c color.RGBA) {
	half := r.LineWidth / 2
	b := img.Bounds()
	for py := y - half; py < y-half+r.LineWidth; py++ {
		for px := x - half; px < x-half+r.LineWidth; px++ {
			if px < b.Min.X || py < b.Min.Y || px >= b.Max.X || py >= b.Max.Y {
				continue
			}
			img.SetRGBA(px, py, c)
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
