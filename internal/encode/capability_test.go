package encode

import (
	"bytes"
	"context"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/weatherwave/internal/render"
	"github.com/san-kum/weatherwave/internal/waveform"
)

type sliceSource []render.Frame

func (s sliceSource) Len() int                 { return len(s) }
func (s sliceSource) Frame(i int) render.Frame { return s[i] }

func testFrames(n int) sliceSource {
	out := make(sliceSource, n)
	for i := range out {
		c := waveform.Curve{{X: 0, Y: -1}, {X: 5, Y: 1}, {X: 10, Y: -1}}
		out[i] = render.Render(c, color.RGBA{R: uint8(20 * i), B: 0xff, A: 0xff}, render.DefaultViewport())
		out[i].Index = i
	}
	return out
}

func smallOptions() Options {
	o := DefaultOptions()
	o.Width, o.Height = 64, 48
	return o
}

func TestGIF_Encode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	g := NewGIF()

	require.NoError(t, g.Probe(context.Background(), path))
	require.NoError(t, g.Encode(context.Background(), testFrames(4), smallOptions(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	anim, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, anim.Image, 4)
	assert.Equal(t, []int{20, 20, 20, 20}, anim.Delay)
	assert.Equal(t, 64, anim.Config.Width)
}

func TestGIF_LayerColorsExact(t *testing.T) {
	flat := func(y float64) waveform.Curve {
		return waveform.Curve{{X: 0, Y: y}, {X: 10, Y: y}}
	}
	f := render.Render(flat(0), color.RGBA{R: 0xff, G: 0x80, A: 0xff}, render.DefaultViewport())
	f.Layers = []waveform.Curve{flat(2), flat(-2)}

	opts := smallOptions()
	path := filepath.Join(t.TempDir(), "layers.gif")
	require.NoError(t, NewGIF().Encode(context.Background(), sliceSource{f}, opts, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	anim, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, anim.Image, 1)

	want := opts.rasterizer().StrokeColors(f)
	img := anim.Image[0]
	assert.Equal(t, want[0], img.At(32, 24))
	assert.Equal(t, want[1], img.At(32, 12))
	assert.Equal(t, want[2], img.At(32, 35))
	assert.Equal(t, opts.Background, img.At(32, 2))
}

func TestGIF_ProbeMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.gif")
	assert.Error(t, NewGIF().Probe(context.Background(), path))
}

func TestGIF_CanceledLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.gif")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, NewGIF().Encode(ctx, testFrames(3), smallOptions(), path))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSVGSequence_Encode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames")
	s := NewSVGSequence()

	require.NoError(t, s.Probe(context.Background(), path))
	require.NoError(t, s.Encode(context.Background(), testFrames(3), smallOptions(), path))

	entries, err := os.ReadDir(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "frame_0000.svg", entries[0].Name())

	data, err := os.ReadFile(filepath.Join(path, "frame_0002.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestSVGSequence_ProbeRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	assert.Error(t, NewSVGSequence().Probe(context.Background(), path))
}

func TestFFmpeg_ProbeMissingBinary(t *testing.T) {
	f := NewFFmpeg("weatherwave-no-such-ffmpeg", "")
	assert.Equal(t, DefaultCodec, f.Codec)
	assert.Error(t, f.Probe(context.Background(), filepath.Join(t.TempDir(), "out.mp4")))
}

func TestHasEncoder(t *testing.T) {
	listing := "Encoders:\n V..... = Video\n ------\n V....D libx264              libx264 H.264\n A....D aac                  AAC\n"
	assert.True(t, hasEncoder(listing, "libx264"))
	assert.True(t, hasEncoder(listing, "aac"))
	assert.False(t, hasEncoder(listing, "libx265"))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry("", "")
	assert.Equal(t, []string{"gif", "mp4", "svg"}, r.Formats())

	c, err := r.Get("gif")
	require.NoError(t, err)
	assert.Equal(t, "gif", c.Format())

	_, err = r.Get("webm")
	assert.Error(t, err)
}

func TestParallelFor_CoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 64, 1001} {
		hits := make([]int32, n)
		parallelFor(n, 8, func(start, end int) {
			for i := start; i < end; i++ {
				hits[i]++
			}
		})
		for i, h := range hits {
			require.Equal(t, int32(1), h, "n=%d i=%d", n, i)
		}
	}
}
