// Package session runs one complete animation: live loop, encoding, and the
// optional run record and metrics textfile.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/san-kum/weatherwave/internal/animation"
	"github.com/san-kum/weatherwave/internal/config"
	"github.com/san-kum/weatherwave/internal/display"
	"github.com/san-kum/weatherwave/internal/encode"
	"github.com/san-kum/weatherwave/internal/palette"
	"github.com/san-kum/weatherwave/internal/storage"
	"github.com/san-kum/weatherwave/internal/telemetry"
	"github.com/san-kum/weatherwave/internal/waveform"
	"github.com/san-kum/weatherwave/internal/weather"
)

type Session struct {
	cfg      *config.Config
	preset   string
	logger   *slog.Logger
	clock    clockwork.Clock
	metrics  *telemetry.Metrics
	sink     animation.Sink
	registry *encode.Registry
}

type Option func(*Session)

func WithLogger(l *slog.Logger) Option       { return func(s *Session) { s.logger = l } }
func WithClock(c clockwork.Clock) Option     { return func(s *Session) { s.clock = c } }
func WithSink(sink animation.Sink) Option    { return func(s *Session) { s.sink = sink } }
func WithRegistry(r *encode.Registry) Option { return func(s *Session) { s.registry = r } }

// WithPreset only labels the run record.
func WithPreset(name string) Option { return func(s *Session) { s.preset = name } }

// Report summarizes a finished session.
type Report struct {
	State     *animation.State
	Encoding  encode.Result
	EncodeErr error
	// Headless is set when the live view failed and frames were rendered
	// without one.
	Headless bool
	RunID    string
}

// New validates cfg. Nothing is opened until Run.
func New(cfg *config.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		cfg:     cfg,
		logger:  slog.Default(),
		clock:   clockwork.NewRealClock(),
		metrics: telemetry.NewMetrics(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.registry == nil {
		s.registry = encode.NewRegistry(cfg.Output.FFmpeg, cfg.Output.Codec)
	}
	return s, nil
}

func (s *Session) Metrics() *telemetry.Metrics { return s.metrics }

// Pipeline builds the frame pipeline the session animates.
func (s *Session) Pipeline() (*animation.Pipeline, error) {
	wm, err := waveform.New(s.cfg.Waveform.Strategy, s.cfg.WaveformConfig())
	if err != nil {
		return nil, err
	}
	cm, err := palette.New(s.cfg.Color.Strategy, s.cfg.PaletteConfig())
	if err != nil {
		return nil, err
	}
	p := animation.NewPipeline(s.cfg.WeatherParams(s.clock.Now()), wm, cm, s.cfg.RenderViewport())
	p.ColorDomain = s.cfg.ColorDomain()
	p.XDomain = s.cfg.XDomain()
	p.Resolution = s.cfg.Waveform.Resolution
	p.Layers = s.cfg.Waveform.Layers
	return p, nil
}

// Run animates, then encodes whatever was buffered. Only invalid input and
// I/O failures of the optional artifacts are returned as errors; a failed
// encoding is reported in Report.EncodeErr.
func (s *Session) Run(ctx context.Context) (*Report, error) {
	pipe, err := s.Pipeline()
	if err != nil {
		return nil, &weather.GenerationError{Field: "strategy", Reason: err.Error()}
	}

	sink := s.sink
	if sink == nil {
		sink, err = display.New(s.cfg.Display.Mode, display.Options{
			Theme:  s.cfg.Display.Theme,
			Hold:   s.cfg.Display.Hold,
			Width:  s.cfg.Output.Width,
			Height: s.cfg.Output.Height,
			Logger: s.logger,
		})
		if err != nil {
			return nil, err
		}
	}

	report := &Report{}
	report.State, err = s.animate(ctx, pipe, sink, s.cfg.Realtime)
	switch {
	case errors.Is(err, weather.ErrGeneration):
		return report, err
	case errors.Is(err, animation.ErrDisplayUnavailable):
		if report.State.Len() == 0 && s.cfg.Display.HeadlessFallback {
			s.logger.Warn("display unavailable, rendering headless", "error", err)
			report.Headless = true
			report.State, err = s.animate(ctx, pipe, display.NewHeadless(s.logger), false)
			if err != nil {
				return report, err
			}
		} else {
			s.logger.Warn("display failed", "error", err, "frames", report.State.Len())
		}
	case err != nil:
		return report, err
	}

	report.Encoding, report.EncodeErr = s.encode(ctx, report.State)
	if report.EncodeErr != nil {
		s.logger.Error("encoding failed", "error", report.EncodeErr)
	}

	if s.cfg.Store.Enabled {
		if report.RunID, err = s.record(report); err != nil {
			return report, fmt.Errorf("record run: %w", err)
		}
		s.logger.Info("run recorded", "id", report.RunID, "dir", s.cfg.Store.Dir)
	}
	if s.cfg.MetricsFile != "" {
		if err := s.metrics.WriteTextfile(s.cfg.MetricsFile); err != nil {
			return report, fmt.Errorf("write metrics: %w", err)
		}
	}
	return report, nil
}

func (s *Session) animate(ctx context.Context, pipe *animation.Pipeline, sink animation.Sink, realtime bool) (*animation.State, error) {
	d := animation.NewDriver(pipe, sink, s.cfg.FrameRate,
		animation.WithClock(s.clock),
		animation.WithLogger(s.logger),
		animation.WithMetrics(s.metrics),
		animation.WithRealtime(realtime),
	)
	return d.Run(ctx, s.cfg.Frames)
}

// encode runs after cancellation too, so a stopped run still saves its
// partial buffer.
func (s *Session) encode(ctx context.Context, state *animation.State) (encode.Result, error) {
	ctx = context.WithoutCancel(ctx)

	if err := os.MkdirAll(s.cfg.Output.Dir, 0755); err != nil {
		return encode.Result{Failed: true, Frames: state.Len()}, err
	}

	primary, err := s.target(s.cfg.Output.Primary)
	if err != nil {
		return encode.Result{Failed: true, Frames: state.Len()}, err
	}
	var fallback encode.Target
	if f := s.cfg.Output.Fallback; f != "" && f != s.cfg.Output.Primary {
		if fallback, err = s.target(f); err != nil {
			return encode.Result{Failed: true, Frames: state.Len()}, err
		}
	}

	enc := encode.New(primary, fallback, s.cfg.EncodeOptions(),
		encode.WithLogger(s.logger),
		encode.WithMetrics(s.metrics),
	)
	return enc.Run(ctx, state)
}

func (s *Session) target(format string) (encode.Target, error) {
	c, err := s.registry.Get(format)
	if err != nil {
		return encode.Target{}, err
	}
	return encode.Target{Capability: c, Path: s.cfg.OutputPath(format)}, nil
}

func (s *Session) record(r *Report) (string, error) {
	st := storage.New(s.cfg.Store.Dir)
	if err := st.Init(); err != nil {
		return "", err
	}

	frames := r.State.Frames()
	samples := make([]weather.Sample, len(frames))
	for i, f := range frames {
		samples[i] = f.Sample
	}

	return st.Save(storage.RunMetadata{
		Preset:     s.preset,
		Requested:  s.cfg.Frames,
		Buffered:   r.State.Len(),
		FrameRate:  s.cfg.FrameRate,
		StopReason: string(r.State.StopReason()),
		Waveform:   s.cfg.Waveform.Strategy,
		Color:      s.cfg.Color.Strategy,
		Seed:       s.cfg.Weather.Noise.Seed,
		Elapsed:    r.State.Finished().Sub(r.State.Started()),
		Encoding:   r.Encoding,
	}, samples)
}
