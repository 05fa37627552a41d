package app

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/toolbox/internal/config"
	"github.com/ayoisaiah/toolbox/internal/models"
	"github.com/ayoisaiah/toolbox/store"
)

// prefsForm holds the user's responses to the preference prompts. Durations
// are in seconds.
type prefsForm struct {
	WorkDuration            int
	ShortBreakDuration      int
	LongBreakDuration       int
	SessionsBeforeLongBreak int
	AudioVolume             float64
	AudioNotifications      bool
	NotificationsEnabled    bool
}

func newPrefsForm(p models.Preferences, effective config.Pomodoro) prefsForm {
	return prefsForm{
		WorkDuration:            effective.WorkDuration,
		ShortBreakDuration:      effective.ShortBreakDuration,
		LongBreakDuration:       effective.LongBreakDuration,
		SessionsBeforeLongBreak: effective.SessionsBeforeLongBreak,
		AudioVolume:             p.AudioVolume,
		AudioNotifications:      p.AudioNotifications,
		NotificationsEnabled:    p.NotificationsEnabled,
	}
}

// apply returns p updated with the form's answers. Only the values that
// differ from the built-in defaults are stored as custom timer settings.
func (f prefsForm) apply(p models.Preferences) models.Preferences {
	var o config.PomodoroOverrides

	set := func(dst **int, v, def int) {
		if v > 0 && v != def {
			*dst = config.Value(v)
		}
	}

	set(&o.WorkDuration, f.WorkDuration, config.DefaultWorkDuration)
	set(&o.ShortBreakDuration, f.ShortBreakDuration, config.DefaultShortBreakDuration)
	set(&o.LongBreakDuration, f.LongBreakDuration, config.DefaultLongBreakDuration)
	set(
		&o.SessionsBeforeLongBreak,
		f.SessionsBeforeLongBreak,
		config.DefaultSessionsBeforeLongBreak,
	)

	p.CustomConfig = nil
	if o != (config.PomodoroOverrides{}) {
		p.CustomConfig = &o
	}

	p.AudioVolume = min(max(f.AudioVolume, 0), 1)
	p.AudioNotifications = f.AudioNotifications
	p.NotificationsEnabled = f.NotificationsEnabled

	return p
}

func minuteOptions(current int, minutes ...int) []huh.Option[int] {
	opts := make([]huh.Option[int], 0, len(minutes))

	for _, m := range minutes {
		secs := m * 60
		opts = append(
			opts,
			huh.NewOption(fmt.Sprintf("%d minutes", m), secs).Selected(secs == current),
		)
	}

	if current%60 != 0 || current == 0 {
		return opts
	}

	for _, m := range minutes {
		if m*60 == current {
			return opts
		}
	}

	// keep a custom value selectable
	return append(opts, huh.NewOption(
		fmt.Sprintf("%d minutes", current/60), current,
	).Selected(true))
}

// promptPrefs runs the interactive preference form.
func promptPrefs(f *prefsForm) error {
	volumes := []huh.Option[float64]{}
	for _, v := range []float64{0, 0.25, 0.5, 0.75, 1} {
		volumes = append(volumes, huh.NewOption(
			fmt.Sprintf("%d%%", int(v*100)), v,
		).Selected(v == f.AudioVolume))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Work session length").
				Options(minuteOptions(f.WorkDuration, 25, 35, 50, 60, 90)...).
				Value(&f.WorkDuration),
			huh.NewSelect[int]().
				Title("Short break length").
				Options(minuteOptions(f.ShortBreakDuration, 5, 10, 15, 20)...).
				Value(&f.ShortBreakDuration),
			huh.NewSelect[int]().
				Title("Long break length").
				Options(minuteOptions(f.LongBreakDuration, 15, 20, 30, 45)...).
				Value(&f.LongBreakDuration),
			huh.NewSelect[int]().
				Title("Work sessions before long break").
				Options(
					huh.NewOption("2 sessions", 2).Selected(f.SessionsBeforeLongBreak == 2),
					huh.NewOption("4 sessions", 4).Selected(f.SessionsBeforeLongBreak == 4),
					huh.NewOption("6 sessions", 6).Selected(f.SessionsBeforeLongBreak == 6),
					huh.NewOption("8 sessions", 8).Selected(f.SessionsBeforeLongBreak == 8),
				).
				Value(&f.SessionsBeforeLongBreak),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Play sounds on session changes?").
				Value(&f.AudioNotifications),
			huh.NewSelect[float64]().
				Title("Volume").
				Options(volumes...).
				Value(&f.AudioVolume),
			huh.NewConfirm().
				Title("Show desktop notifications?").
				Value(&f.NotificationsEnabled),
		),
	)

	if err := form.Run(); err != nil {
		return errPromptFailed.Wrap(err)
	}

	return nil
}

// prefsAction edits the stored preferences interactively, or moves every
// record in or out of a YAML file with --export and --import.
func prefsAction(ctx *cli.Context) error {
	e, err := openEnv(configFrom(ctx))
	if err != nil {
		return err
	}

	defer e.Close()

	if path := ctx.String("export"); path != "" {
		return exportRecords(e.gateway, path)
	}

	if path := ctx.String("import"); path != "" {
		return importRecords(e.gateway, path)
	}

	prefs := e.gateway.LoadPreferences()
	form := newPrefsForm(prefs, e.pomodoro())

	if err := promptPrefs(&form); err != nil {
		return err
	}

	e.gateway.SavePreferences(form.apply(prefs))

	pterm.Success.Println("Preferences saved")

	return nil
}

func exportRecords(g *store.Gateway, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errFileAccess.Fmt(path).Wrap(err)
	}

	if err := g.Export(f); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return errFileAccess.Fmt(path).Wrap(err)
	}

	pterm.Success.Printfln("Records exported to %s", path)

	return nil
}

func importRecords(g *store.Gateway, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errFileAccess.Fmt(path).Wrap(err)
	}

	defer f.Close()

	if err := g.Import(f); err != nil {
		return err
	}

	pterm.Success.Printfln("Records imported from %s", path)

	return nil
}
