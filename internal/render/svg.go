package render

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/san-kum/weatherwave/internal/palette"
)

// FrameSVG renders f as a standalone SVG document of w x h pixels.
func FrameSVG(f Frame, w, h int, bg color.RGBA) string {
	var sb strings.Builder
	_ = WriteSVG(&sb, f, w, h, bg)
	return sb.String()
}

// WriteSVG streams f as SVG, one path per stroke, in pixel space of the fixed viewport.
func WriteSVG(out io.Writer, f Frame, w, h int, bg color.RGBA) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, palette.Hex(bg))

	for _, st := range f.Strokes() {
		if len(st.Curve) < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="2"`, palette.Hex(f.Color))
		if st.Alpha < 1 {
			fmt.Fprintf(&sb, ` stroke-opacity="%.2f"`, st.Alpha)
		}
		sb.WriteString(` d="M`)
		for i, p := range st.Curve {
			x := (p.X - f.Viewport.XMin) / (f.Viewport.XMax - f.Viewport.XMin) * float64(w)
			y := (f.Viewport.YMax - clampY(p.Y, f.Viewport)) / (f.Viewport.YMax - f.Viewport.YMin) * float64(h)
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString(`"/>
`)
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(out, sb.String())
	return err
}
