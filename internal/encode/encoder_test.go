package encode_test

import (
	"context"
	"errors"
	"image/color"
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/weatherwave/internal/encode"
	"github.com/san-kum/weatherwave/internal/render"
	"github.com/san-kum/weatherwave/internal/telemetry"
	"github.com/san-kum/weatherwave/internal/waveform"
)

type frames []render.Frame

func (f frames) Len() int                 { return len(f) }
func (f frames) Frame(i int) render.Frame { return f[i] }

func makeFrames(n int) frames {
	out := make(frames, n)
	for i := range out {
		out[i] = render.Render(waveform.Curve{{X: 0, Y: 0}, {X: 10, Y: 1}}, color.RGBA{R: 0xff, A: 0xff}, render.DefaultViewport())
		out[i].Index = i
	}
	return out
}

type fakeCapability struct {
	format    string
	probeErr  error
	encodeErr error
	probed    int
	encoded   int
	lastLen   int
}

func (f *fakeCapability) Format() string { return f.format }
func (f *fakeCapability) Ext() string    { return f.format }

func (f *fakeCapability) Probe(context.Context, string) error {
	f.probed++
	return f.probeErr
}

func (f *fakeCapability) Encode(_ context.Context, src encode.FrameSource, _ encode.Options, _ string) error {
	f.encoded++
	f.lastLen = src.Len()
	return f.encodeErr
}

var _ = Describe("Encoder", func() {
	var (
		video       *fakeCapability
		gif         *fakeCapability
		metrics     *telemetry.Metrics
		transitions []encode.State
	)

	newEncoder := func() *encode.Encoder {
		return encode.New(
			encode.Target{Capability: video, Path: "out.mp4"},
			encode.Target{Capability: gif, Path: "out.gif"},
			encode.DefaultOptions(),
			encode.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
			encode.WithMetrics(metrics),
			encode.WithObserver(func(_, to encode.State) { transitions = append(transitions, to) }),
		)
	}

	BeforeEach(func() {
		video = &fakeCapability{format: "mp4"}
		gif = &fakeCapability{format: "gif"}
		metrics = telemetry.NewMetrics()
		transitions = nil
	})

	It("starts idle", func() {
		Expect(newEncoder().State()).To(Equal(encode.Idle))
	})

	Context("when the primary succeeds", func() {
		It("never touches the fallback", func() {
			enc := newEncoder()
			res, err := enc.Run(context.Background(), makeFrames(3))

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Succeeded()).To(BeTrue())
			Expect(res.AttemptedFormats).To(Equal([]string{"mp4"}))
			Expect(res.SucceededFormat).To(Equal("mp4"))
			Expect(res.OutputPath).To(Equal("out.mp4"))
			Expect(gif.probed).To(BeZero())
			Expect(enc.State()).To(Equal(encode.Done))
			Expect(transitions).To(Equal([]encode.State{encode.AttemptingPrimary, encode.Done}))
		})
	})

	Context("when the primary is unavailable", func() {
		BeforeEach(func() {
			video.probeErr = errors.New("ffmpeg not found")
		})

		It("falls back to the secondary format", func() {
			enc := newEncoder()
			res, err := enc.Run(context.Background(), makeFrames(40))

			Expect(err).NotTo(HaveOccurred())
			Expect(res.AttemptedFormats).To(Equal([]string{"mp4", "gif"}))
			Expect(res.SucceededFormat).To(Equal("gif"))
			Expect(res.OutputPath).To(Equal("out.gif"))
			Expect(res.Frames).To(Equal(40))
			Expect(video.encoded).To(BeZero())
			Expect(gif.lastLen).To(Equal(40))
			Expect(transitions).To(Equal([]encode.State{
				encode.AttemptingPrimary, encode.AttemptingFallback, encode.Done,
			}))
		})

		It("records the probe failure as unavailable", func() {
			res, _ := newEncoder().Run(context.Background(), makeFrames(2))

			Expect(res.Attempts).To(HaveLen(2))
			var capErr *encode.CapabilityError
			Expect(errors.As(res.Attempts[0].Err, &capErr)).To(BeTrue())
			Expect(capErr.Stage).To(Equal(encode.StageProbe))
			Expect(res.Attempts[0].Err).To(MatchError(encode.ErrCapabilityUnavailable))
			Expect(testutil.ToFloat64(metrics.EncodeAttempts.WithLabelValues("mp4", "unavailable"))).To(Equal(1.0))
			Expect(testutil.ToFloat64(metrics.EncodeAttempts.WithLabelValues("gif", "success"))).To(Equal(1.0))
		})
	})

	Context("when the primary fails while encoding", func() {
		It("falls back too", func() {
			video.encodeErr = errors.New("broken pipe")
			res, err := newEncoder().Run(context.Background(), makeFrames(2))

			Expect(err).NotTo(HaveOccurred())
			Expect(res.SucceededFormat).To(Equal("gif"))
			Expect(video.encoded).To(Equal(1))
		})
	})

	Context("when both attempts fail", func() {
		It("ends failed and reports both causes", func() {
			video.probeErr = errors.New("ffmpeg not found")
			gif.encodeErr = errors.New("disk full")

			enc := newEncoder()
			res, err := enc.Run(context.Background(), makeFrames(5))

			Expect(err).To(MatchError(encode.ErrEncodingFailed))
			Expect(err.Error()).To(ContainSubstring("ffmpeg not found"))
			Expect(err.Error()).To(ContainSubstring("disk full"))
			Expect(res.Failed).To(BeTrue())
			Expect(res.Succeeded()).To(BeFalse())
			Expect(res.AttemptedFormats).To(Equal([]string{"mp4", "gif"}))
			Expect(enc.State()).To(Equal(encode.Failed))
		})
	})

	Context("when the buffer is empty", func() {
		It("fails without attempting anything", func() {
			enc := newEncoder()
			res, err := enc.Run(context.Background(), makeFrames(0))

			Expect(err).To(MatchError(encode.ErrNoFrames))
			Expect(err).To(MatchError(encode.ErrEncodingFailed))
			Expect(res.AttemptedFormats).To(BeEmpty())
			Expect(video.probed).To(BeZero())
			Expect(gif.probed).To(BeZero())
			Expect(transitions).To(Equal([]encode.State{encode.Failed}))
		})
	})

	Context("without a fallback", func() {
		It("fails after the primary", func() {
			video.probeErr = errors.New("missing")
			enc := encode.New(
				encode.Target{Capability: video, Path: "out.mp4"},
				encode.Target{},
				encode.DefaultOptions(),
				encode.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
			)
			res, err := enc.Run(context.Background(), makeFrames(1))

			Expect(err).To(HaveOccurred())
			Expect(res.AttemptedFormats).To(Equal([]string{"mp4"}))
		})
	})

	It("refuses to run twice", func() {
		enc := newEncoder()
		_, err := enc.Run(context.Background(), makeFrames(1))
		Expect(err).NotTo(HaveOccurred())

		_, err = enc.Run(context.Background(), makeFrames(1))
		Expect(err).To(HaveOccurred())
		Expect(video.encoded).To(Equal(1))
	})

	It("describes its states", func() {
		Expect(encode.AttemptingFallback.String()).To(Equal("attempting-fallback"))
		Expect(encode.Done.Terminal()).To(BeTrue())
		Expect(encode.AttemptingPrimary.Terminal()).To(BeFalse())
	})
})
