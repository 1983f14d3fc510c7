package display

import "github.com/charmbracelet/lipgloss"

// Theme is the chrome around the plotted curve. The curve itself is always
// drawn in the frame's own color.
type Theme struct {
	Name   string
	Title  lipgloss.Color
	Border lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Graph  lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeNight = Theme{
		Name:   "night",
		Title:  lipgloss.Color("#e0f0ff"),
		Border: lipgloss.Color("#334466"),
		Label:  lipgloss.Color("#8899aa"),
		Value:  lipgloss.Color("#ffffff"),
		Graph:  lipgloss.Color("#00ccff"),
		Muted:  lipgloss.Color("#556677"),
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Title:  lipgloss.Color("#88ff88"),
		Border: lipgloss.Color("#005500"),
		Label:  lipgloss.Color("#00cc00"),
		Value:  lipgloss.Color("#00ff00"),
		Graph:  lipgloss.Color("#88ff88"),
		Muted:  lipgloss.Color("#005500"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Title:  lipgloss.Color("#ffffff"),
		Border: lipgloss.Color("#444444"),
		Label:  lipgloss.Color("#888888"),
		Value:  lipgloss.Color("#ffffff"),
		Graph:  lipgloss.Color("#cccccc"),
		Muted:  lipgloss.Color("#666666"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Title:  lipgloss.Color("#feca57"),
		Border: lipgloss.Color("#8b6b8c"),
		Label:  lipgloss.Color("#ff9ff3"),
		Value:  lipgloss.Color("#fff5f5"),
		Graph:  lipgloss.Color("#ff6b6b"),
		Muted:  lipgloss.Color("#8b6b8c"),
	}

	Themes = []Theme{ThemeNight, ThemeRetro, ThemeMinimal, ThemeSunset}
)

// GetTheme returns the named theme, or night when the name is unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	title lipgloss.Style
	panel lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	graph lipgloss.Style
	help  lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		title: lipgloss.NewStyle().Foreground(t.Title).Bold(true).MarginBottom(1),
		panel: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1),
		label: lipgloss.NewStyle().Foreground(t.Label),
		value: lipgloss.NewStyle().Foreground(t.Value).Bold(true),
		graph: lipgloss.NewStyle().Foreground(t.Graph),
		help:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
	}
}
