// Package telemetry holds the prometheus metrics collected during a run.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weatherwave"

// Metrics holds the counters, gauges and histograms for one run.
type Metrics struct {
	FramesRendered  prometheus.Counter
	FramesDisplayed prometheus.Counter
	FramesBuffered  prometheus.Gauge
	FrameDuration   prometheus.Histogram

	// Encoding metrics.
	EncodeAttempts *prometheus.CounterVec   // labels: format, outcome={success,unavailable,error}
	EncodeDuration *prometheus.HistogramVec // labels: format

	registry *prometheus.Registry
}

// NewMetrics creates metrics registered on a fresh registry, so independent runs
// (and tests) never collide.
func NewMetrics() *Metrics {
	m := &Metrics{
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_rendered_total",
			Help:      "Frames produced by the pipeline.",
		}),
		FramesDisplayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_displayed_total",
			Help:      "Frames accepted by the live display sink.",
		}),
		FramesBuffered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frames_buffered",
			Help:      "Frames held in the animation buffer.",
		}),
		FrameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_build_duration_seconds",
			Help:      "Time to map, color and render one frame.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		EncodeAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encode_attempts_total",
			Help:      "Encoding attempts by format and outcome.",
		}, []string{"format", "outcome"}),
		EncodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "encode_duration_seconds",
			Help:      "Duration of an encoding attempt.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"format"}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.FramesRendered,
		m.FramesDisplayed,
		m.FramesBuffered,
		m.FrameDuration,
		m.EncodeAttempts,
		m.EncodeDuration,
	)

	return m
}

// Registry exposes the underlying gatherer.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current values in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
