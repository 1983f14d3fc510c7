package display

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/weatherwave/internal/animation"
)

const (
	ModeTUI    = "tui"
	ModeWindow = "window"
	ModeNone   = "none"
)

// Options configure New.
type Options struct {
	Theme  string
	Hold   bool
	Width  int
	Height int
	Logger *slog.Logger
}

// New builds the sink for mode. Availability is only known once the sink is
// opened.
func New(mode string, opts Options) (animation.Sink, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	switch mode {
	case ModeTUI:
		return NewTUI(WithTheme(opts.Theme), WithHold(opts.Hold), WithTUILogger(opts.Logger)), nil
	case ModeWindow:
		return NewWindow(opts.Width, opts.Height, opts.Hold), nil
	case ModeNone, "headless", "":
		return NewHeadless(opts.Logger), nil
	}
	return nil, fmt.Errorf("unknown display mode: %s", mode)
}

func Modes() []string { return []string{ModeNone, ModeTUI, ModeWindow} }
