package ui

import (
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/toolbox/internal/session"
)

// DarkTheme switches the printers below to their light variants.
var DarkTheme bool

type printer func(a ...any) string

func themed(light, dark printer) func(a any) string {
	return func(a any) string {
		if DarkTheme {
			return dark(a)
		}

		return light(a)
	}
}

var (
	Green     = themed(pterm.Green, pterm.LightGreen)
	Cyan      = themed(pterm.Cyan, pterm.LightCyan)
	Magenta   = themed(pterm.Magenta, pterm.LightMagenta)
	Blue      = themed(pterm.Blue, pterm.LightBlue)
	Red       = themed(pterm.Red, pterm.LightRed)
	Highlight = themed(pterm.Black, pterm.LightWhite)
)

// SessionColor renders a in the colour associated with session type t.
func SessionColor(t session.Type, a any) string {
	switch t {
	case session.Work:
		return Red(a)
	case session.ShortBreak:
		return Cyan(a)
	case session.LongBreak:
		return Blue(a)
	default:
		return Highlight(a)
	}
}
