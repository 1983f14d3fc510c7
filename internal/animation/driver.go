package animation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/san-kum/weatherwave/internal/telemetry"
	"github.com/san-kum/weatherwave/internal/weather"
)

// Driver runs the live loop at a fixed frame rate.
type Driver struct {
	pipeline  *Pipeline
	sink      Sink
	clock     clockwork.Clock
	frameRate int
	realtime  bool
	logger    *slog.Logger
	metrics   *telemetry.Metrics
}

// Option configures a Driver.
type Option func(*Driver)

func WithClock(c clockwork.Clock) Option      { return func(d *Driver) { d.clock = c } }
func WithLogger(l *slog.Logger) Option        { return func(d *Driver) { d.logger = l } }
func WithMetrics(m *telemetry.Metrics) Option { return func(d *Driver) { d.metrics = m } }
func WithRealtime(realtime bool) Option       { return func(d *Driver) { d.realtime = realtime } }

// NewDriver creates a paced driver. A nil sink runs headless.
func NewDriver(p *Pipeline, sink Sink, frameRate int, opts ...Option) *Driver {
	if sink == nil {
		sink = Discard{}
	}
	d := &Driver{
		pipeline:  p,
		sink:      sink,
		clock:     clockwork.NewRealClock(),
		frameRate: frameRate,
		realtime:  true,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.metrics == nil {
		d.metrics = telemetry.NewMetrics()
	}
	return d
}

// Interval is the target time between frames.
func (d *Driver) Interval() time.Duration {
	if d.frameRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(d.frameRate)
}

// Run produces up to n frames. The returned State is always sealed and non-nil,
// including when an error is returned; frames buffered before a stop are kept.
func (d *Driver) Run(ctx context.Context, n int) (*State, error) {
	state := NewState(max(n, 0))
	state.started = d.clock.Now()

	if n < 0 {
		state.Seal(StopCanceled, d.clock.Now())
		return state, &weather.GenerationError{Field: "frames", Reason: fmt.Sprintf("must not be negative, got %d", n)}
	}
	if err := d.pipeline.Params.Validate(); err != nil {
		state.Seal(StopCanceled, d.clock.Now())
		return state, err
	}

	if err := d.sink.Open(); err != nil {
		state.Seal(StopDisplayFailed, d.clock.Now())
		if !errors.Is(err, ErrDisplayUnavailable) {
			err = fmt.Errorf("%w: %w", ErrDisplayUnavailable, err)
		}
		return state, err
	}
	defer func() {
		if err := d.sink.Close(); err != nil {
			d.logger.Warn("closing display", "error", err)
		}
	}()

	paced := d.realtime && d.frameRate > 0
	var tick <-chan time.Time
	if paced && n > 1 {
		ticker := d.clock.NewTicker(d.Interval())
		defer ticker.Stop()
		tick = ticker.Chan()
	}

	d.logger.Info("live loop started", "frames", n, "frame_rate", d.frameRate, "paced", paced)

	reason := StopCompleted
	var runErr error
loop:
	for t := 0; t < n; t++ {
		if r := d.stopRequested(ctx); r != StopNone {
			reason = r
			break
		}

		start := d.clock.Now()
		frame := d.pipeline.Frame(t)
		d.metrics.FrameDuration.Observe(d.clock.Since(start).Seconds())
		d.metrics.FramesRendered.Inc()

		if err := d.sink.Show(frame); err != nil {
			reason = StopDisplayFailed
			runErr = fmt.Errorf("%w: frame %d: %w", ErrDisplayUnavailable, t, err)
			break
		}
		d.metrics.FramesDisplayed.Inc()

		if err := state.Append(frame); err != nil {
			runErr = err
			break
		}
		d.metrics.FramesBuffered.Set(float64(state.Len()))
		d.logger.Debug("frame", "index", t, "temperature", frame.Sample.Temperature, "color", frame.Color)

		if tick == nil || t == n-1 {
			continue
		}
		select {
		case <-tick:
		case <-ctx.Done():
			reason = StopCanceled
			break loop
		case <-d.sink.Stopped():
			reason = StopDisplayClosed
			break loop
		}
	}

	state.Seal(reason, d.clock.Now())
	d.logger.Info("live loop finished", "frames", state.Len(), "reason", reason)
	return state, runErr
}

func (d *Driver) stopRequested(ctx context.Context) StopReason {
	select {
	case <-ctx.Done():
		return StopCanceled
	case <-d.sink.Stopped():
		return StopDisplayClosed
	default:
		return StopNone
	}
}
