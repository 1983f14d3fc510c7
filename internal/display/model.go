package display

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/weatherwave/internal/palette"
	"github.com/san-kum/weatherwave/internal/render"
	"github.com/san-kum/weatherwave/internal/weather"
)

const (
	canvasWidth  = 60
	canvasHeight = 16
	traceLen     = 120
)

// FrameMsg delivers a rendered frame to the live view.
type FrameMsg render.Frame

// doneMsg tells the view the run is over and it is only waiting to be dismissed.
type doneMsg struct{}

type model struct {
	styles styles
	canvas *render.Canvas
	frame  *render.Frame
	temps  []float64
	shown  int
	done   bool
}

func newModel(theme Theme) model {
	return model{
		styles: theme.styles(),
		canvas: render.NewCanvas(canvasWidth, canvasHeight),
		temps:  make([]float64, 0, traceLen),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case FrameMsg:
		f := render.Frame(msg)
		m.frame = &f
		m.shown++
		m.temps = append(m.temps, f.Sample.Temperature)
		if len(m.temps) > traceLen {
			m.temps = m.temps[1:]
		}
	case doneMsg:
		m.done = true
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("WEATHERWAVE") + "\n")

	if m.frame == nil {
		b.WriteString(m.styles.help.Render("waiting for the first frame...") + "\n")
		return b.String()
	}

	m.canvas.Plot(*m.frame)
	curve := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Hex(m.frame.Color)))
	b.WriteString(m.styles.panel.Render(curve.Render(strings.TrimSuffix(m.canvas.String(), "\n"))) + "\n")

	b.WriteString(m.styles.label.Render(fmt.Sprintf("day %-4d ", m.frame.Sample.Index)))
	b.WriteString(m.styles.value.Render(m.frame.Sample.Time.Format("2006-01-02")) + "  ")
	b.WriteString(m.styles.value.Render(InfoLine(m.frame.Sample)) + "\n")

	if len(m.temps) > 1 {
		chart := asciigraph.Plot(m.temps,
			asciigraph.Height(4),
			asciigraph.Width(canvasWidth),
			asciigraph.Caption("temperature °C"))
		b.WriteString(m.styles.graph.Render(chart) + "\n")
	}

	if m.done {
		b.WriteString(m.styles.help.Render(fmt.Sprintf("finished after %d frames. q: close", m.shown)))
	} else {
		b.WriteString(m.styles.help.Render("q: stop"))
	}
	return b.String()
}

// InfoLine formats the weather readout shown under the curve.
func InfoLine(s weather.Sample) string {
	return fmt.Sprintf("T: %.1f°C  H: %.1f%%  W: %.1f m/s", s.Temperature, s.Humidity, s.WindSpeed)
}
