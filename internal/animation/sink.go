package animation

import "github.com/san-kum/weatherwave/internal/render"

// Sink is a live display surface.
type Sink interface {
	// Open acquires the surface. An error means no live view is possible.
	Open() error
	// Show presents a frame. It must not block for longer than a tick.
	Show(f render.Frame) error
	// Stopped is closed when the user dismisses the surface. A nil channel never fires.
	Stopped() <-chan struct{}
	Close() error
}

// Discard is a headless sink that accepts every frame.
type Discard struct{}

func (Discard) Open() error              { return nil }
func (Discard) Show(render.Frame) error  { return nil }
func (Discard) Stopped() <-chan struct{} { return nil }
func (Discard) Close() error             { return nil }
