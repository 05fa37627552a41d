package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/toolbox/audio"
	"github.com/ayoisaiah/toolbox/internal/config"
	"github.com/ayoisaiah/toolbox/internal/models"
	"github.com/ayoisaiah/toolbox/internal/osutil"
	"github.com/ayoisaiah/toolbox/internal/timeutil"
	"github.com/ayoisaiah/toolbox/internal/tui"
	"github.com/ayoisaiah/toolbox/internal/ui"
	"github.com/ayoisaiah/toolbox/stats"
	"github.com/ayoisaiah/toolbox/store"
)

const (
	envNoColor        = "NO_COLOR"
	envToolboxNoColor = "TOOLBOX_NO_COLOR"
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// defaultAction starts the terminal timer.
func defaultAction(ctx *cli.Context) error {
	e, err := openEnv(configFrom(ctx))
	if err != nil {
		return err
	}

	defer e.Close()

	s := newServices(ctx.Context, e)
	defer s.Close()

	t := newTimer(e, s)
	defer t.Close()

	model := tui.NewModel(t, tui.Options{
		Stats:          e.stats,
		DarkTheme:      e.cfg.Display.DarkTheme,
		TwentyFourHour: e.cfg.Settings.TwentyFourHour,
	})

	p := tea.NewProgram(model, tea.WithReportFocus())

	// a clicked notification counts as the terminal regaining focus
	s.setFocus(func() {
		p.Send(tea.FocusMsg{})
	})

	_, err = p.Run()

	return err
}

// editConfigAction handles the edit-config command which opens the config
// file in the user's default text editor.
func editConfigAction(_ *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == osutil.Windows {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, config.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

// statusAction prints the saved state of the timer.
func statusAction(ctx *cli.Context) error {
	e, err := openEnv(configFrom(ctx))
	if err != nil {
		if store.IsLocked(err) {
			pterm.Info.Println("The timer is running in another terminal")
			return nil
		}

		return err
	}

	defer e.Close()

	cfg := e.pomodoro()
	snap := e.gateway.LoadTimerState(models.DefaultSnapshot(cfg.WorkDuration))

	printStatus(config.Stdout, snap, cfg)

	return nil
}

func printStatus(w io.Writer, snap models.Snapshot, cfg config.Pomodoro) {
	cycle := ""
	if snap.SessionType.Valid() && !snap.SessionType.IsBreak() {
		cycle = fmt.Sprintf(
			" (%d/%d)",
			snap.SessionsCompleted%cfg.SessionsBeforeLongBreak+1,
			cfg.SessionsBeforeLongBreak,
		)
	}

	label := snap.SessionType.Label()
	if label == "" {
		label = string(snap.SessionType)
	}

	fmt.Fprintf(
		w,
		"%s%s: %s remaining of %s\n",
		ui.Highlight(label),
		cycle,
		ui.Green(timeutil.FormatTime(snap.TimeLeft)),
		timeutil.FormatDuration(cfg.Duration(snap.SessionType)),
	)

	fmt.Fprintf(
		w,
		"%d work sessions completed, %d sessions in total\n",
		snap.SessionsCompleted,
		snap.TotalSessions,
	)
}

// statsAction reports on the sessions of a period, or resets the aggregate
// statistics with --reset.
func statsAction(ctx *cli.Context) error {
	period, err := parsePeriod(ctx.String("period"))
	if err != nil {
		return err
	}

	e, err := openEnv(configFrom(ctx))
	if err != nil {
		return err
	}

	defer e.Close()

	if reset := ctx.String("reset"); reset != "" {
		return resetStats(e.stats, reset)
	}

	start, end := period.Bounds(now())

	summary := stats.Summarize(e.gateway.LoadHistory(), e.stats.Get(), start, end)

	if ctx.Bool("json") {
		b, err := summary.ToJSON()
		if err != nil {
			return err
		}

		fmt.Fprintln(config.Stdout, string(b))

		return nil
	}

	summary.Render(config.Stdout)

	return nil
}

func resetStats(s *stats.Store, what string) error {
	switch what {
	case "all":
		s.ResetAll()
	case "daily":
		s.ResetDaily()
	case "weekly":
		s.ResetWeekly()
	case "streak":
		s.ResetStreak()
	default:
		return errInvalidReset.Fmt(what)
	}

	pterm.Success.Printfln("Statistics reset: %s", what)

	return nil
}

func parsePeriod(s string) (timeutil.Period, error) {
	p := timeutil.Period(s)

	if _, ok := timeutil.Range[p]; !ok {
		return "", errInvalidPeriod.Fmt(s, periods())
	}

	return p, nil
}

// soundsAction lists the sound files used for session transitions.
func soundsAction(ctx *cli.Context) error {
	dir := configFrom(ctx).Sound.Dir

	if err := audio.EnsureSounds(dir); err != nil {
		return err
	}

	names, err := audio.ListSounds(dir)
	if err != nil {
		return err
	}

	pterm.Info.Printfln("Sounds in %s", dir)

	for _, name := range names {
		fmt.Fprintln(config.Stdout, "  "+name)
	}

	return nil
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if TOOLBOX_NO_COLOR is set
	if _, exists := os.LookupEnv(envToolboxNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	ctx.App.Metadata[metaConfig] = cfg
	ctx.App.Metadata[metaLogFile] = setupLogging(cfg, config.LogFilePath())

	slog.InfoContext(ctx.Context, "starting toolbox", slog.Any("args", ctx.Args().Slice()))

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting toolbox")

	if c, ok := ctx.App.Metadata[metaLogFile].(io.Closer); ok {
		return c.Close()
	}

	return nil
}
