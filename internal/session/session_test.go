package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/weatherwave/internal/animation"
	"github.com/san-kum/weatherwave/internal/config"
	"github.com/san-kum/weatherwave/internal/encode"
	"github.com/san-kum/weatherwave/internal/render"
	"github.com/san-kum/weatherwave/internal/storage"
	"github.com/san-kum/weatherwave/internal/weather"
)

type fakeCapability struct {
	format   string
	probeErr error
	frames   int
}

func (f *fakeCapability) Format() string { return f.format }
func (f *fakeCapability) Ext() string    { return f.format }
func (f *fakeCapability) Probe(context.Context, string) error {
	return f.probeErr
}
func (f *fakeCapability) Encode(_ context.Context, src encode.FrameSource, _ encode.Options, _ string) error {
	f.frames = src.Len()
	return nil
}

// cancelSink cancels the run when it is shown frame number at.
type cancelSink struct {
	animation.Discard
	at     int
	shown  int
	cancel context.CancelFunc
}

func (c *cancelSink) Show(render.Frame) error {
	c.shown++
	if c.shown == c.at {
		c.cancel()
	}
	return nil
}

type brokenSink struct{ animation.Discard }

func (brokenSink) Open() error { return errors.New("no terminal") }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.GetPreset("reference")
	cfg.Output.Dir = filepath.Join(t.TempDir(), "out")
	cfg.Display.Mode = "none"
	return cfg
}

func registry(video, gif *fakeCapability) *encode.Registry {
	r := encode.NewRegistry("", "")
	r.Register("mp4", func() encode.Capability { return video })
	r.Register("gif", func() encode.Capability { return gif })
	return r
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestSession_PartialBufferIsEncoded(t *testing.T) {
	cfg := testConfig(t)
	require.Equal(t, 100, cfg.Frames)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	video := &fakeCapability{format: "mp4", probeErr: errors.New("ffmpeg not found")}
	gif := &fakeCapability{format: "gif"}
	s, err := New(cfg,
		WithLogger(quiet()),
		WithClock(clockwork.NewFakeClock()),
		WithSink(&cancelSink{at: 40, cancel: cancel}),
		WithRegistry(registry(video, gif)),
	)
	require.NoError(t, err)

	report, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, report.State.Len())
	assert.Equal(t, animation.StopCanceled, report.State.StopReason())

	require.NoError(t, report.EncodeErr)
	assert.Equal(t, []string{"mp4", "gif"}, report.Encoding.AttemptedFormats)
	assert.Equal(t, "gif", report.Encoding.SucceededFormat)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "animation.gif"), report.Encoding.OutputPath)
	assert.Equal(t, 40, gif.frames)

	_, err = os.Stat(cfg.Output.Dir)
	assert.NoError(t, err, "output directory is created")
}

func TestSession_HeadlessFallback(t *testing.T) {
	cfg := testConfig(t)
	cfg.Frames = 10
	cfg.Realtime = true

	gif := &fakeCapability{format: "gif"}
	s, err := New(cfg,
		WithLogger(quiet()),
		WithSink(brokenSink{}),
		WithRegistry(registry(&fakeCapability{format: "mp4"}, gif)),
	)
	require.NoError(t, err)

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Headless)
	assert.Equal(t, 10, report.State.Len())
	assert.Equal(t, animation.StopCompleted, report.State.StopReason())
	assert.Equal(t, "mp4", report.Encoding.SucceededFormat)
}

func TestSession_DisplayUnavailableWithoutFallback(t *testing.T) {
	cfg := testConfig(t)
	cfg.Display.HeadlessFallback = false

	video := &fakeCapability{format: "mp4"}
	s, err := New(cfg,
		WithLogger(quiet()),
		WithSink(brokenSink{}),
		WithRegistry(registry(video, &fakeCapability{format: "gif"})),
	)
	require.NoError(t, err)

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.State.Len())
	assert.True(t, errors.Is(report.EncodeErr, encode.ErrNoFrames))
	assert.True(t, report.Encoding.Failed)
	assert.Empty(t, report.Encoding.AttemptedFormats)
}

func TestSession_BothFormatsFail(t *testing.T) {
	cfg := testConfig(t)
	cfg.Frames = 3

	s, err := New(cfg,
		WithLogger(quiet()),
		WithRegistry(registry(
			&fakeCapability{format: "mp4", probeErr: errors.New("missing")},
			&fakeCapability{format: "gif", probeErr: errors.New("read-only")},
		)),
	)
	require.NoError(t, err)

	report, err := s.Run(context.Background())
	require.NoError(t, err, "encoding failure is not fatal")
	assert.True(t, errors.Is(report.EncodeErr, encode.ErrEncodingFailed))
	assert.Equal(t, []string{"mp4", "gif"}, report.Encoding.AttemptedFormats)
}

func TestSession_RecordsRunAndMetrics(t *testing.T) {
	cfg := testConfig(t)
	cfg.Frames = 5
	cfg.Store.Enabled = true
	cfg.Store.Dir = filepath.Join(t.TempDir(), "runs")
	cfg.MetricsFile = filepath.Join(t.TempDir(), "weatherwave.prom")

	s, err := New(cfg,
		WithLogger(quiet()),
		WithPreset("reference"),
		WithRegistry(registry(&fakeCapability{format: "mp4"}, &fakeCapability{format: "gif"})),
	)
	require.NoError(t, err)

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, report.RunID)

	st := storage.New(cfg.Store.Dir)
	meta, err := st.Load(report.RunID)
	require.NoError(t, err)
	assert.Equal(t, "reference", meta.Preset)
	assert.Equal(t, 5, meta.Buffered)
	assert.Equal(t, "completed", meta.StopReason)
	assert.Equal(t, "mp4", meta.Encoding.SucceededFormat)

	samples, err := st.LoadSamples(report.RunID)
	require.NoError(t, err)
	assert.Len(t, samples, 5)

	data, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "weatherwave_frames_rendered_total 5")
}

func TestSession_PipelineStacksLayers(t *testing.T) {
	cfg := testConfig(t)
	cfg.Waveform.Strategy = "drift"
	cfg.Waveform.Layers = 5

	s, err := New(cfg, WithLogger(quiet()))
	require.NoError(t, err)
	p, err := s.Pipeline()
	require.NoError(t, err)
	assert.Len(t, p.Frame(0).Strokes(), 5)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Weather.Temperature.Period = 0
	_, err := New(cfg)
	assert.True(t, errors.Is(err, weather.ErrGeneration))
}
