package config

import "github.com/ayoisaiah/toolbox/internal/session"

// Default Pomodoro durations in seconds.
const (
	DefaultWorkDuration            = 25 * 60
	DefaultShortBreakDuration      = 5 * 60
	DefaultLongBreakDuration       = 15 * 60
	DefaultSessionsBeforeLongBreak = 4
)

// Pomodoro is the effective timer configuration. Durations are in seconds.
type Pomodoro struct {
	WorkDuration            int `json:"work_duration"              yaml:"work_duration"`
	ShortBreakDuration      int `json:"short_break_duration"       yaml:"short_break_duration"`
	LongBreakDuration       int `json:"long_break_duration"        yaml:"long_break_duration"`
	SessionsBeforeLongBreak int `json:"sessions_before_long_break" yaml:"sessions_before_long_break"`
}

// PomodoroOverrides is a partial Pomodoro. Nil fields leave the underlying
// value untouched.
type PomodoroOverrides struct {
	WorkDuration            *int `json:"work_duration,omitempty"              yaml:"work_duration,omitempty"`
	ShortBreakDuration      *int `json:"short_break_duration,omitempty"       yaml:"short_break_duration,omitempty"`
	LongBreakDuration       *int `json:"long_break_duration,omitempty"        yaml:"long_break_duration,omitempty"`
	SessionsBeforeLongBreak *int `json:"sessions_before_long_break,omitempty" yaml:"sessions_before_long_break,omitempty"`
}

// Value returns a pointer to n for use in PomodoroOverrides literals.
func Value(n int) *int {
	return &n
}

// DefaultPomodoro returns the built-in 25/5/15 configuration with a long
// break after every fourth work session.
func DefaultPomodoro() Pomodoro {
	return Pomodoro{
		WorkDuration:            DefaultWorkDuration,
		ShortBreakDuration:      DefaultShortBreakDuration,
		LongBreakDuration:       DefaultLongBreakDuration,
		SessionsBeforeLongBreak: DefaultSessionsBeforeLongBreak,
	}
}

// LayerPomodoro merges the layers over the defaults. Later layers win per
// field.
func LayerPomodoro(layers ...PomodoroOverrides) Pomodoro {
	p := DefaultPomodoro()

	for _, l := range layers {
		p = p.Apply(l)
	}

	return p
}

// Apply returns a copy of p with every positive field of o applied.
func (p Pomodoro) Apply(o PomodoroOverrides) Pomodoro {
	set := func(dst *int, src *int) {
		if src != nil && *src > 0 {
			*dst = *src
		}
	}

	set(&p.WorkDuration, o.WorkDuration)
	set(&p.ShortBreakDuration, o.ShortBreakDuration)
	set(&p.LongBreakDuration, o.LongBreakDuration)
	set(&p.SessionsBeforeLongBreak, o.SessionsBeforeLongBreak)

	return p
}

// Duration returns the full length in seconds of a session type.
func (p Pomodoro) Duration(t session.Type) int {
	switch t {
	case session.ShortBreak:
		return p.ShortBreakDuration
	case session.LongBreak:
		return p.LongBreakDuration
	default:
		return p.WorkDuration
	}
}

// IsZero reports whether no override is set.
func (o PomodoroOverrides) IsZero() bool {
	return o.WorkDuration == nil && o.ShortBreakDuration == nil &&
		o.LongBreakDuration == nil && o.SessionsBeforeLongBreak == nil
}
