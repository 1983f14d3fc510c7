package encode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/weatherwave/internal/telemetry"
)

// State is a position in the encoding state machine.
type State int

const (
	Idle State = iota
	AttemptingPrimary
	AttemptingFallback
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AttemptingPrimary:
		return "attempting-primary"
	case AttemptingFallback:
		return "attempting-fallback"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool { return s == Done || s == Failed }

// Target pairs a capability with the path it should write.
type Target struct {
	Capability Capability
	Path       string
}

// Attempt records one step of the chain.
type Attempt struct {
	Format   string        `json:"format"`
	Path     string        `json:"path"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// Result is the outcome of Run.
type Result struct {
	AttemptedFormats []string  `json:"attempted_formats"`
	SucceededFormat  string    `json:"succeeded_format,omitempty"`
	OutputPath       string    `json:"output_path,omitempty"`
	Failed           bool      `json:"failed"`
	Frames           int       `json:"frames"`
	Attempts         []Attempt `json:"-"`
}

func (r Result) Succeeded() bool { return !r.Failed && r.SucceededFormat != "" }

// Encoder drives one primary and one fallback attempt.
type Encoder struct {
	primary  Target
	fallback Target
	opts     Options
	state    State
	logger   *slog.Logger
	metrics  *telemetry.Metrics
	observer func(from, to State)
}

// Option configures an Encoder.
type Option func(*Encoder)

func WithLogger(l *slog.Logger) Option        { return func(e *Encoder) { e.logger = l } }
func WithMetrics(m *telemetry.Metrics) Option { return func(e *Encoder) { e.metrics = m } }

// WithObserver is called on every state transition.
func WithObserver(fn func(from, to State)) Option { return func(e *Encoder) { e.observer = fn } }

func New(primary, fallback Target, opts Options, options ...Option) *Encoder {
	e := &Encoder{
		primary:  primary,
		fallback: fallback,
		opts:     opts,
		state:    Idle,
		logger:   slog.Default(),
	}
	for _, o := range options {
		o(e)
	}
	if e.metrics == nil {
		e.metrics = telemetry.NewMetrics()
	}
	return e
}

func (e *Encoder) State() State { return e.state }

func (e *Encoder) transition(to State) {
	from := e.state
	e.state = to
	e.logger.Debug("encoder state", "from", from, "to", to)
	if e.observer != nil {
		e.observer(from, to)
	}
}

// Run encodes src. It must be called once, from Idle. On exhaustion the returned
// error wraps ErrEncodingFailed and every attempt's error.
func (e *Encoder) Run(ctx context.Context, src FrameSource) (Result, error) {
	if e.state != Idle {
		return Result{}, fmt.Errorf("encode: Run called in state %s", e.state)
	}

	res := Result{AttemptedFormats: []string{}, Frames: src.Len()}
	if src.Len() == 0 {
		e.transition(Failed)
		res.Failed = true
		e.logger.Warn("nothing to encode")
		return res, fmt.Errorf("%w: %w", ErrEncodingFailed, ErrNoFrames)
	}

	steps := []struct {
		state  State
		target Target
	}{
		{AttemptingPrimary, e.primary},
		{AttemptingFallback, e.fallback},
	}

	var errs []error
	for _, step := range steps {
		if step.target.Capability == nil {
			continue
		}
		e.transition(step.state)

		att := e.attempt(ctx, step.target, src)
		res.Attempts = append(res.Attempts, att)
		res.AttemptedFormats = append(res.AttemptedFormats, att.Format)

		if att.Err == nil {
			e.transition(Done)
			res.SucceededFormat = att.Format
			res.OutputPath = att.Path
			e.logger.Info("animation saved", "format", att.Format, "path", att.Path, "frames", src.Len())
			return res, nil
		}
		errs = append(errs, att.Err)
		e.logger.Warn("encoding attempt failed", "format", att.Format, "error", att.Err)

		if ctx.Err() != nil {
			break
		}
	}

	e.transition(Failed)
	res.Failed = true
	return res, fmt.Errorf("%w: %w", ErrEncodingFailed, errors.Join(errs...))
}

func (e *Encoder) attempt(ctx context.Context, t Target, src FrameSource) (att Attempt) {
	format := t.Capability.Format()
	att = Attempt{Format: format, Path: t.Path}
	start := time.Now()
	defer func() {
		att.Duration = time.Since(start)
		e.metrics.EncodeDuration.WithLabelValues(format).Observe(att.Duration.Seconds())
	}()

	e.logger.Info("encoding", "format", format, "path", t.Path)

	if err := t.Capability.Probe(ctx, t.Path); err != nil {
		e.metrics.EncodeAttempts.WithLabelValues(format, "unavailable").Inc()
		att.Err = &CapabilityError{
			Format:  format,
			Stage:   StageProbe,
			Wrapped: fmt.Errorf("%w: %w", ErrCapabilityUnavailable, err),
		}
		return att
	}

	if err := t.Capability.Encode(ctx, src, e.opts, t.Path); err != nil {
		e.metrics.EncodeAttempts.WithLabelValues(format, "error").Inc()
		att.Err = &CapabilityError{Format: format, Stage: StageEncode, Wrapped: err}
		return att
	}

	e.metrics.EncodeAttempts.WithLabelValues(format, "success").Inc()
	return att
}
