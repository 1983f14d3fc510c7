package encode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/weatherwave/internal/render"
)

// SVGSequence writes one SVG document per frame into a directory.
type SVGSequence struct{}

func NewSVGSequence() *SVGSequence { return &SVGSequence{} }

func (s *SVGSequence) Format() string { return "svg" }
func (s *SVGSequence) Ext() string    { return "svg" }

func (s *SVGSequence) Probe(_ context.Context, path string) error {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return fmt.Errorf("%s exists and is not a directory", path)
	}
	return checkWritable(path)
}

func (s *SVGSequence) Encode(ctx context.Context, src FrameSource, opts Options, path string) error {
	created := false
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		created = true
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}

	var written []string
	cleanup := func() {
		if created {
			os.RemoveAll(path)
			return
		}
		for _, name := range written {
			os.Remove(name)
		}
	}

	for i := 0; i < src.Len(); i++ {
		if err := ctx.Err(); err != nil {
			cleanup()
			return err
		}
		name := filepath.Join(path, fmt.Sprintf("frame_%04d.svg", i))
		if err := writeSVGFile(name, src.Frame(i), opts); err != nil {
			cleanup()
			return err
		}
		written = append(written, name)
	}
	return nil
}

func writeSVGFile(name string, f render.Frame, opts Options) error {
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := WriteFrameSVG(out, f, opts); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
