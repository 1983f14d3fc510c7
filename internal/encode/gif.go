package encode

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"
)

// GIF encodes an animated GIF with the standard library encoder.
type GIF struct{}

func NewGIF() *GIF { return &GIF{} }

func (g *GIF) Format() string { return "gif" }
func (g *GIF) Ext() string    { return "gif" }

func (g *GIF) Probe(_ context.Context, path string) error {
	return checkWritable(path)
}

func (g *GIF) Encode(ctx context.Context, src FrameSource, opts Options, path string) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", opts.Width, opts.Height)
	}
	delay := 100 / max(opts.FPS, 1)
	if delay < 1 {
		delay = 1
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	n := src.Len()
	anim := &gif.GIF{
		Image: make([]*image.Paletted, n),
		Delay: make([]int, n),
	}
	parallelFor(n, 8, func(start, end int) {
		r := opts.rasterizer()
		rgba := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
		for i := start; i < end; i++ {
			f := src.Frame(i)
			r.Draw(rgba, f)
			frame := image.NewPaletted(rgba.Bounds(), framePalette(opts.Background, r.StrokeColors(f)...))
			draw.Draw(frame, frame.Bounds(), rgba, image.Point{}, draw.Src)
			anim.Image[i] = frame
			anim.Delay[i] = delay
		}
	})

	// write next to the target and rename, so a failure leaves nothing behind
	tmp, err := os.CreateTemp(filepath.Dir(path), ".weatherwave-*.gif")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := gif.EncodeAll(tmp, anim); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// framePalette puts the colors a frame actually uses first, so they are
// reproduced exactly, and fills the rest from Plan9.
func framePalette(bg color.RGBA, strokes ...color.RGBA) color.Palette {
	p := make(color.Palette, 0, 256)
	p = append(p, bg)
	for _, c := range strokes {
		p = append(p, c)
	}
	for _, c := range palette.Plan9 {
		if len(p) == cap(p) {
			break
		}
		p = append(p, c)
	}
	return p
}
