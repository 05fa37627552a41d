package config

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/toolbox/internal/session"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Work              string
	ShortBreak        string
	LongBreak         string
	SessionCmd        string
	LongBreakInterval uint
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
// Durations become Pomodoro overrides which win over stored preferences.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Work:              ctx.String("work"),
			ShortBreak:        ctx.String("short-break"),
			LongBreak:         ctx.String("long-break"),
			LongBreakInterval: ctx.Uint("long-break-interval"),
			SessionCmd:        ctx.String("session-cmd"),
		}

		return applyCLIOptions(c, opts)
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) error {
	if err := applyCLIDurations(c, opts); err != nil {
		return fmt.Errorf("applying CLI durations: %w", err)
	}

	if opts.SessionCmd != "" {
		c.Settings.SessionCmd = opts.SessionCmd
	}

	return nil
}

// applyCLIDurations handles parsing and applying duration settings from CLI.
func applyCLIDurations(c *Config, opts CLIOptions) error {
	durations := []struct {
		dst  **int
		name session.Type
		val  string
	}{
		{&c.Pomodoro.WorkDuration, session.Work, opts.Work},
		{&c.Pomodoro.ShortBreakDuration, session.ShortBreak, opts.ShortBreak},
		{&c.Pomodoro.LongBreakDuration, session.LongBreak, opts.LongBreak},
	}

	for _, d := range durations {
		if d.val == "" {
			continue
		}

		dur, err := parseDuration(d.val)
		if err != nil {
			return errInvalidCLIDuration.Fmt(d.name.Label(), err)
		}

		*d.dst = Value(int(dur / time.Second))
	}

	if opts.LongBreakInterval > 0 {
		c.Pomodoro.SessionsBeforeLongBreak = Value(int(opts.LongBreakInterval))
	}

	return nil
}
