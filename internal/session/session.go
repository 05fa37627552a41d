// Package session defines the Pomodoro session kinds
package session

import "strings"

// Type represents the kind of a timed interval.
type Type string

const (
	Work       Type = "work"
	ShortBreak Type = "shortBreak"
	LongBreak  Type = "longBreak"
)

// Phase marks the start or end of a session.
type Phase string

const (
	Start Phase = "start"
	End   Phase = "end"
)

var labels = map[Type]string{
	Work:       "Work",
	ShortBreak: "Short Break",
	LongBreak:  "Long Break",
}

var descriptions = map[Type]string{
	Work:       "Time to focus and be productive",
	ShortBreak: "Take a quick break and recharge",
	LongBreak:  "Enjoy a longer break - you earned it!",
}

// Valid reports whether t is one of the known session types.
func (t Type) Valid() bool {
	_, ok := labels[t]
	return ok
}

// IsBreak reports whether t is a short or long break.
func (t Type) IsBreak() bool {
	return t == ShortBreak || t == LongBreak
}

// Label returns the display name of the session.
func (t Type) Label() string {
	return labels[t]
}

// Description returns a one line description of the session.
func (t Type) Description() string {
	return descriptions[t]
}

// EventKey returns the lookup key for a session event, e.g. "shortBreakEnd".
func EventKey(t Type, p Phase) string {
	phase := string(p)
	if phase == "" {
		return string(t)
	}

	return string(t) + strings.ToUpper(phase[:1]) + phase[1:]
}
