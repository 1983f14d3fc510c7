package encode

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/san-kum/weatherwave/internal/render"
)

// FrameSource is a read-only view of buffered frames.
type FrameSource interface {
	Len() int
	Frame(i int) render.Frame
}

// Options control how frames are turned into pixels.
type Options struct {
	FPS        int
	Width      int
	Height     int
	LineWidth  int
	Background color.RGBA
}

func DefaultOptions() Options {
	return Options{
		FPS:        5,
		Width:      960,
		Height:     640,
		LineWidth:  3,
		Background: color.RGBA{A: 0xff},
	}
}

func (o Options) rasterizer() *render.Rasterizer {
	return render.NewRasterizer(o.Width, o.Height, o.Background, o.LineWidth)
}

// RasterizeFrame draws a single frame the way the image encoders do.
func RasterizeFrame(f render.Frame, opts Options) *image.RGBA {
	return opts.rasterizer().Rasterize(f)
}

// WriteFrameSVG writes a single frame the way the svg sequence does.
func WriteFrameSVG(w io.Writer, f render.Frame, opts Options) error {
	return render.WriteSVG(w, f, opts.Width, opts.Height, opts.Background)
}

// Capability is an external encoder that may or may not be usable at run time.
type Capability interface {
	// Format is the identifier reported in results, e.g. "mp4".
	Format() string
	// Ext is the file extension of the artifact, without the dot.
	Ext() string
	// Probe checks that the capability can be used to write path.
	Probe(ctx context.Context, path string) error
	// Encode writes the artifact. On failure it leaves no partial artifact behind.
	Encode(ctx context.Context, src FrameSource, opts Options, path string) error
}

// Registry builds capabilities by format name.
type Registry struct {
	factories map[string]func() Capability
}

// NewRegistry registers the built-in formats. ffmpegBin and codec configure mp4.
func NewRegistry(ffmpegBin, codec string) *Registry {
	r := &Registry{factories: make(map[string]func() Capability)}
	r.factories["mp4"] = func() Capability { return NewFFmpeg(ffmpegBin, codec) }
	r.factories["gif"] = func() Capability { return NewGIF() }
	r.factories["svg"] = func() Capability { return NewSVGSequence() }
	return r
}

// Register adds or replaces a format.
func (r *Registry) Register(format string, fn func() Capability) {
	r.factories[format] = fn
}

func (r *Registry) Get(format string) (Capability, error) {
	fn, ok := r.factories[format]
	if !ok {
		return nil, fmt.Errorf("unknown encoding format: %s", format)
	}
	return fn(), nil
}

func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkWritable verifies the artifact's directory exists and accepts files.
func checkWritable(path string) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	f, err := os.CreateTemp(dir, ".weatherwave-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
