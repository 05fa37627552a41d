package config

import (
	"slices"
	"strings"
	"time"

	"github.com/ayoisaiah/toolbox/internal/session"
)

var (
	// Minimum and maximum duration constraints.
	minSessionDuration = 1 * time.Second
	maxSessionDuration = 720 * time.Minute // 12 hours

	minLongBreakInterval = 1
	maxLongBreakInterval = 12

	validDrivers  = []string{DriverBolt, DriverSQLite, DriverMemory}
	validBackends = []string{BackendAuto, BackendDBus, BackendBeeep, BackendOff}
	validLevels   = []string{"debug", "info", "warn", "error"}
)

// Validate performs validation checks on the Config struct and its fields.
// Empty values are accepted since viper fills them in from defaults.
func (c *Config) Validate() error {
	if err := c.Pomodoro.Validate(); err != nil {
		return err
	}

	if c.Storage.Driver != "" && !slices.Contains(validDrivers, c.Storage.Driver) {
		return errUnknownDriver.Fmt(c.Storage.Driver)
	}

	if c.Notifications.Backend != "" &&
		!slices.Contains(validBackends, c.Notifications.Backend) {
		return errUnknownBackend.Fmt(c.Notifications.Backend)
	}

	level := strings.ToLower(c.Log.Level)
	if level != "" && !slices.Contains(validLevels, level) {
		return errUnknownLogLevel.Fmt(c.Log.Level)
	}

	return nil
}

// Validate checks the explicitly set overrides.
func (o PomodoroOverrides) Validate() error {
	durations := []struct {
		val  *int
		name session.Type
	}{
		{o.WorkDuration, session.Work},
		{o.ShortBreakDuration, session.ShortBreak},
		{o.LongBreakDuration, session.LongBreak},
	}

	for _, d := range durations {
		if d.val == nil {
			continue
		}

		dur := time.Duration(*d.val) * time.Second
		if dur < minSessionDuration || dur > maxSessionDuration {
			return errInvalidDuration.Fmt(
				d.name.Label(),
				minSessionDuration,
				maxSessionDuration,
			)
		}
	}

	if n := o.SessionsBeforeLongBreak; n != nil &&
		(*n < minLongBreakInterval || *n > maxLongBreakInterval) {
		return errInvalidLongBreakInterval.Fmt(
			minLongBreakInterval,
			maxLongBreakInterval,
		)
	}

	return nil
}
