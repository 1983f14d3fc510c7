package display

import (
	"log/slog"

	"github.com/san-kum/weatherwave/internal/render"
)

// Headless accepts every frame and only logs it.
type Headless struct {
	Logger *slog.Logger
}

func NewHeadless(l *slog.Logger) *Headless {
	if l == nil {
		l = slog.Default()
	}
	return &Headless{Logger: l}
}

func (h *Headless) Open() error { return nil }

func (h *Headless) Show(f render.Frame) error {
	h.Logger.Debug("frame", "index", f.Index, "temperature", f.Sample.Temperature)
	return nil
}

func (h *Headless) Stopped() <-chan struct{} { return nil }
func (h *Headless) Close() error             { return nil }
