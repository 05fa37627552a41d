package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/toolbox/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the toolbox app instance.
func Get() *cli.App {
	toolboxApp := &cli.App{
		Name: "toolbox",
		Authors: []*cli.Author{
			{
				Name:  "Ayooluwa Isaiah",
				Email: "ayo@freshman.tech",
			},
		},
		Usage: `
		Toolbox is a Pomodoro focus timer for the command-line. Work in focused
		sessions separated by short breaks, with a longer break after every few
		sessions, and keep track of your progress over time.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Print the saved state of the timer",
				Action: statusAction,
			},
			{
				Name: "stats",
				Usage: `
				Track your progress with detailed statistics reporting. Defaults to a
				reporting period of 7 days`,
				Flags:  []cli.Flag{periodFlag, jsonFlag, resetFlag},
				Action: statsAction,
			},
			{
				Name:   "history",
				Usage:  "List completed sessions",
				Flags:  []cli.Flag{periodFlag, sinceFlag, jsonFlag, clearHistoryFlag, yesFlag},
				Action: historyAction,
			},
			{
				Name:   "prefs",
				Usage:  "Edit preferences, or export and import all records",
				Flags:  []cli.Flag{exportFlag, importFlag},
				Action: prefsAction,
			},
			{
				Name:   "sounds",
				Usage:  "List the sound files used for session transitions",
				Action: soundsAction,
			},
			{
				Name:   "clear",
				Usage:  "Delete the timer state, preferences, history and statistics",
				Flags:  []cli.Flag{yesFlag},
				Action: clearAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			workFlag,
			shortBreakFlag,
			longBreakFlag,
			longBreakIntervalFlag,
			sessionCmdFlag,
			noColorFlag,
		},
		Metadata: map[string]any{},
		Action:   defaultAction,
		Before:   beforeAction,
		After:    afterAction,
	}

	return toolboxApp
}
