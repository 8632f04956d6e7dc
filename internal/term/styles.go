package term

import "github.com/charmbracelet/lipgloss"

// Palette holds the color roles of one display mode.
type Palette struct {
	Name    string
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Accent  lipgloss.Color
	Good    lipgloss.Color
	Warn    lipgloss.Color
	Bad     lipgloss.Color
	Surface lipgloss.Color
}

var (
	Dark = Palette{
		Name:    "dark",
		Text:    lipgloss.Color("#FFFCF0"),
		Muted:   lipgloss.Color("#878580"),
		Border:  lipgloss.Color("#403E3C"),
		Accent:  lipgloss.Color("#3AA99F"),
		Good:    lipgloss.Color("#879A39"),
		Warn:    lipgloss.Color("#DA702C"),
		Bad:     lipgloss.Color("#D14D41"),
		Surface: lipgloss.Color("#1C1B1A"),
	}
	Light = Palette{
		Name:    "light",
		Text:    lipgloss.Color("#100F0F"),
		Muted:   lipgloss.Color("#6F6E69"),
		Border:  lipgloss.Color("#CECDC3"),
		Accent:  lipgloss.Color("#24837B"),
		Good:    lipgloss.Color("#66800B"),
		Warn:    lipgloss.Color("#BC5215"),
		Bad:     lipgloss.Color("#AF3029"),
		Surface: lipgloss.Color("#F2F0E5"),
	}
)

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	muted   lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
	card    lipgloss.Style
	navOn   lipgloss.Style
	navOff  lipgloss.Style
	alert   lipgloss.Style
	errLine lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, p Palette) styles {
	return styles{
		title: r.NewStyle().Bold(true).Foreground(p.Accent),
		label: r.NewStyle().Foreground(p.Muted),
		value: r.NewStyle().Bold(true).Foreground(p.Text),
		muted: r.NewStyle().Foreground(p.Muted).Italic(true),
		good:  r.NewStyle().Foreground(p.Good),
		bad:   r.NewStyle().Bold(true).Foreground(p.Bad),
		card: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		navOn:   r.NewStyle().Bold(true).Foreground(p.Accent).Underline(true),
		navOff:  r.NewStyle().Foreground(p.Muted),
		alert:   r.NewStyle().Foreground(p.Warn),
		errLine: r.NewStyle().Foreground(p.Bad),
	}
}
