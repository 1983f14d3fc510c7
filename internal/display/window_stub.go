//go:build !raylib

package display

import (
	"fmt"

	"github.com/san-kum/weatherwave/internal/animation"
	"github.com/san-kum/weatherwave/internal/render"
)

// Window is unavailable in builds without the raylib tag.
type Window struct{}

func NewWindow(width, height int, hold bool) *Window { return &Window{} }

func (w *Window) Open() error {
	return fmt.Errorf("%w: built without raylib (use -tags raylib)", animation.ErrDisplayUnavailable)
}

func (w *Window) Show(render.Frame) error  { return animation.ErrDisplayUnavailable }
func (w *Window) Stopped() <-chan struct{} { return nil }
func (w *Window) Close() error             { return nil }
