package app

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/toolbox/internal/timeutil"
)

func periods() string {
	names := make([]string, len(timeutil.PeriodCollection))

	for i, p := range timeutil.PeriodCollection {
		names[i] = string(p)
	}

	return strings.Join(names, ", ")
}

var (
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after each session",
	}

	shortBreakFlag = &cli.StringFlag{
		Name:    "short-break",
		Aliases: []string{"s"},
		Usage:   "Short break duration in minutes (default: 5)",
	}

	longBreakFlag = &cli.StringFlag{
		Name:    "long-break",
		Aliases: []string{"l"},
		Usage:   "Long break duration in minutes (default: 15)",
	}

	longBreakIntervalFlag = &cli.UintFlag{
		Name:    "long-break-interval",
		Aliases: []string{"int"},
		Usage:   "The number of work sessions before a long break (default: 4)",
	}

	workFlag = &cli.StringFlag{
		Name:    "work",
		Aliases: []string{"w"},
		Usage:   "Work duration in minutes (default: 25)",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output as JSON",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   fmt.Sprintf("Reporting period. One of: %s", periods()),
		Value:   string(timeutil.Period7Days),
	}

	sinceFlag = &cli.StringFlag{
		Name:  "since",
		Usage: "Only include sessions started after this time (e.g. '3 days ago', 'last monday')",
	}

	resetFlag = &cli.StringFlag{
		Name:  "reset",
		Usage: "Reset statistics. One of: all, daily, weekly, streak",
	}

	clearHistoryFlag = &cli.BoolFlag{
		Name:  "clear",
		Usage: "Delete the session history",
	}

	exportFlag = &cli.StringFlag{
		Name:  "export",
		Usage: "Write all records to a YAML file",
	}

	importFlag = &cli.StringFlag{
		Name:  "import",
		Usage: "Restore all records from a YAML file",
	}

	yesFlag = &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Skip the confirmation prompt",
	}
)
