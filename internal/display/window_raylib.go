//go:build raylib

package display

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/weatherwave/internal/animation"
	"github.com/san-kum/weatherwave/internal/render"
)

var (
	colBg   = rl.NewColor(10, 10, 10, 255)
	colText = rl.NewColor(140, 140, 140, 255)
	colGrid = rl.NewColor(30, 30, 30, 255)
)

// Window draws frames in a native raylib window. raylib must be driven from a
// single locked OS thread, so the window owns a goroutine and frames reach it
// through a one-slot mailbox where newer frames replace older ones.
type Window struct {
	width, height int32
	hold          bool
	frames        chan render.Frame
	quit          chan struct{}
	stopped       chan struct{}
	done          chan struct{}
	closed        bool
}

func NewWindow(width, height int, hold bool) *Window {
	if width <= 0 {
		width = 960
	}
	if height <= 0 {
		height = 640
	}
	return &Window{
		width:   int32(width),
		height:  int32(height),
		hold:    hold,
		frames:  make(chan render.Frame, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (w *Window) Open() error {
	ready := make(chan error, 1)
	go w.loop(ready)
	return <-ready
}

func (w *Window) loop(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(w.done)

	rl.InitWindow(w.width, w.height, "weatherwave")
	if !rl.IsWindowReady() {
		close(w.stopped)
		ready <- fmt.Errorf("%w: raylib could not create a window", animation.ErrDisplayUnavailable)
		return
	}
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	rl.SetExitKey(rl.KeyQ)
	ready <- nil

	var current *render.Frame
	finished := false
	for {
		if rl.WindowShouldClose() {
			close(w.stopped)
			return
		}
		select {
		case f := <-w.frames:
			current = &f
		case <-w.quit:
			if !w.hold {
				close(w.stopped)
				return
			}
			finished = true
		default:
		}
		w.draw(current, finished)
	}
}

func (w *Window) draw(f *render.Frame, finished bool) {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(colBg)

	mid := w.height / 2
	rl.DrawLine(0, mid, w.width, mid, colGrid)
	if f == nil {
		rl.DrawText("waiting for the first frame...", 20, 20, 20, colText)
		return
	}

	for _, st := range f.Strokes() {
		col := rl.NewColor(f.Color.R, f.Color.G, f.Color.B, uint8(st.Alpha*255))
		pts := f.Viewport.Polyline(st.Curve, int(w.width), int(w.height))
		for i := 1; i < len(pts); i++ {
			a := rl.NewVector2(float32(pts[i-1].X), float32(pts[i-1].Y))
			b := rl.NewVector2(float32(pts[i].X), float32(pts[i].Y))
			rl.DrawLineEx(a, b, 3, col)
		}
	}

	rl.DrawText(f.Sample.Time.Format("2006-01-02"), 20, 20, 20, colText)
	rl.DrawText(InfoLine(f.Sample), 20, 46, 20, colText)
	if finished {
		rl.DrawText("finished. q: close", 20, w.height-36, 18, colText)
	}
}

// Show replaces any frame the window has not drawn yet.
func (w *Window) Show(f render.Frame) error {
	select {
	case <-w.stopped:
		return nil
	default:
	}
	select {
	case <-w.frames:
	default:
	}
	w.frames <- f
	return nil
}

func (w *Window) Stopped() <-chan struct{} { return w.stopped }

func (w *Window) Close() error {
	if !w.closed {
		w.closed = true
		close(w.quit)
	}
	<-w.done
	return nil
}
