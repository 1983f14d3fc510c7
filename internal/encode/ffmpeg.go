package encode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

const (
	DefaultFFmpegBin = "ffmpeg"
	DefaultCodec     = "libx264"
)

// FFmpeg encodes video by piping raw RGBA frames into an ffmpeg process.
type FFmpeg struct {
	Bin   string
	Codec string
}

func NewFFmpeg(bin, codec string) *FFmpeg {
	if bin == "" {
		bin = DefaultFFmpegBin
	}
	if codec == "" {
		codec = DefaultCodec
	}
	return &FFmpeg{Bin: bin, Codec: codec}
}

func (f *FFmpeg) Format() string { return "mp4" }
func (f *FFmpeg) Ext() string    { return "mp4" }

// Probe checks the binary is on PATH, lists the configured codec, and that the
// output directory is writable.
func (f *FFmpeg) Probe(ctx context.Context, path string) error {
	if _, err := exec.LookPath(f.Bin); err != nil {
		return err
	}
	out, err := f.command(ctx, "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s -encoders: %w", f.Bin, err)
	}
	if !hasEncoder(string(out), f.Codec) {
		return fmt.Errorf("%s has no %s encoder", f.Bin, f.Codec)
	}
	return checkWritable(path)
}

func (f *FFmpeg) Encode(ctx context.Context, src FrameSource, opts Options, path string) error {
	// yuv420p needs even dimensions
	opts.Width -= opts.Width % 2
	opts.Height -= opts.Height % 2
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", opts.Width, opts.Height)
	}
	if opts.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", opts.FPS)
	}

	cmd := f.command(ctx,
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-r", strconv.Itoa(opts.FPS),
		"-i", "-",
		"-c:v", f.Codec,
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	writeErr := writeFrames(stdin, src, opts)
	closeErr := stdin.Close()
	waitErr := cmd.Wait()

	if err := errors.Join(writeErr, closeErr, waitErr); err != nil {
		os.Remove(path)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", f.Bin, err, msg)
		}
		return fmt.Errorf("%s: %w", f.Bin, err)
	}
	return nil
}

func writeFrames(w interface{ Write([]byte) (int, error) }, src FrameSource, opts Options) error {
	r := opts.rasterizer()
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	for i := 0; i < src.Len(); i++ {
		r.Draw(img, src.Frame(i))
		if _, err := w.Write(img.Pix); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

func (f *FFmpeg) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, f.Bin, args...)
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	return cmd
}

// hasEncoder scans `ffmpeg -encoders` output, whose rows look like
// " V....D libx264   libx264 H.264 / AVC ...".
func hasEncoder(listing, codec string) bool {
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == codec {
			return true
		}
	}
	return false
}
