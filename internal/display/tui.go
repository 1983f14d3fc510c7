package display

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/san-kum/weatherwave/internal/animation"
	"github.com/san-kum/weatherwave/internal/render"
)

// TUI shows frames in the terminal through a bubbletea program running on its
// own goroutine.
type TUI struct {
	theme   Theme
	hold    bool
	in      io.Reader
	out     io.Writer
	altScr  bool
	logger  *slog.Logger
	program *tea.Program
	stopped chan struct{}
	runErr  error
	once    sync.Once
}

type TUIOption func(*TUI)

// WithHold keeps the view open after the last frame until the user quits.
func WithHold(hold bool) TUIOption { return func(t *TUI) { t.hold = hold } }

func WithTheme(name string) TUIOption { return func(t *TUI) { t.theme = GetTheme(name) } }

// WithIO replaces the terminal. The terminal check is skipped for writers
// that are not files.
func WithIO(in io.Reader, out io.Writer) TUIOption {
	return func(t *TUI) {
		t.in, t.out = in, out
		t.altScr = false
	}
}

func WithTUILogger(l *slog.Logger) TUIOption { return func(t *TUI) { t.logger = l } }

func NewTUI(opts ...TUIOption) *TUI {
	t := &TUI{
		theme:   ThemeNight,
		in:      os.Stdin,
		out:     os.Stdout,
		altScr:  true,
		logger:  slog.Default(),
		stopped: make(chan struct{}),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Terminal reports whether w is an interactive terminal.
func Terminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (t *TUI) Open() error {
	if _, isFile := t.out.(*os.File); isFile && !Terminal(t.out) {
		return fmt.Errorf("%w: output is not a terminal", animation.ErrDisplayUnavailable)
	}

	opts := []tea.ProgramOption{tea.WithInput(t.in), tea.WithOutput(t.out)}
	if t.altScr {
		opts = append(opts, tea.WithAltScreen())
	}
	t.program = tea.NewProgram(newModel(t.theme), opts...)

	go func() {
		_, err := t.program.Run()
		t.runErr = err
		close(t.stopped)
	}()
	t.logger.Debug("tui opened", "theme", t.theme.Name)
	return nil
}

// Show hands the frame to the program's event loop.
func (t *TUI) Show(f render.Frame) error {
	select {
	case <-t.stopped:
		return nil
	default:
	}
	t.program.Send(FrameMsg(f))
	return nil
}

func (t *TUI) Stopped() <-chan struct{} { return t.stopped }

// Close ends the program, first waiting for the user when hold is set.
func (t *TUI) Close() error {
	if t.program == nil {
		return nil
	}
	t.once.Do(func() {
		if t.hold {
			t.program.Send(doneMsg{})
		} else {
			t.program.Quit()
		}
	})
	<-t.stopped
	if t.runErr != nil && t.runErr != tea.ErrProgramKilled {
		return t.runErr
	}
	return nil
}
