package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/toolbox/internal/session"
)

const (
	padding  = 2
	maxWidth = 80
)

// Style holds the lipgloss styles of the timer view.
type Style struct {
	Base      lipgloss.Style
	Main      lipgloss.Style
	Secondary lipgloss.Style
	Hint      lipgloss.Style
	Tile      lipgloss.Style
	Sessions  map[session.Type]lipgloss.Style
}

// NewStyle returns the timer styles for a dark or light terminal.
func NewStyle(dark bool) Style {
	work, short, long, hint := "#FF6B6B", "#4ECDC4", "#5B8DEF", "#888888"
	if !dark {
		work, short, long, hint = "#C0392B", "#16A085", "#2C5AA0", "#555555"
	}

	label := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		MarginRight(1).
		Foreground(lipgloss.Color("#FFFFFF"))

	return Style{
		Base: lipgloss.NewStyle().Padding(1, padding),
		Main: lipgloss.NewStyle().Bold(true),
		Secondary: lipgloss.NewStyle().
			Foreground(lipgloss.Color(hint)).
			Italic(true),
		Hint: lipgloss.NewStyle().Foreground(lipgloss.Color(hint)),
		Tile: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(hint)).
			Padding(0, 1).
			MarginRight(1),
		Sessions: map[session.Type]lipgloss.Style{
			session.Work: label.Background(lipgloss.Color(work)).
				SetString(session.Work.Label()),
			session.ShortBreak: label.Background(lipgloss.Color(short)).
				SetString(session.ShortBreak.Label()),
			session.LongBreak: label.Background(lipgloss.Color(long)).
				SetString(session.LongBreak.Label()),
		},
	}
}
