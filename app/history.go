package app

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/markusmobius/go-dateparser"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/toolbox/internal/config"
	"github.com/ayoisaiah/toolbox/internal/models"
	"github.com/ayoisaiah/toolbox/internal/timeutil"
	"github.com/ayoisaiah/toolbox/internal/ui"
	"github.com/ayoisaiah/toolbox/store"
)

const noSessionsMsg = "No sessions found for the specified time range"

var now = time.Now

// parseSince interprets a natural language time such as "2 days ago"
// relative to ref.
func parseSince(s string, ref time.Time) (time.Time, error) {
	d, err := dateparser.Parse(&dateparser.Configuration{
		CurrentTime:         ref,
		PreferredDateSource: dateparser.Past,
	}, s)
	if err != nil {
		return time.Time{}, errInvalidSince.Fmt(s).Wrap(err)
	}

	return d.Time, nil
}

// filterHistory returns the entries started within [start, end], newest
// first.
func filterHistory(
	history []models.HistoryEntry,
	start, end time.Time,
) []models.HistoryEntry {
	var out []models.HistoryEntry

	for _, e := range history {
		if e.StartTime.Before(start) || e.StartTime.After(end) {
			continue
		}

		out = append(out, e)
	}

	slices.SortStableFunc(out, func(a, b models.HistoryEntry) int {
		return b.StartTime.Compare(a.StartTime)
	})

	return out
}

// historyAction lists the sessions recorded within the requested period, or
// deletes the history with --clear.
func historyAction(ctx *cli.Context) error {
	period, err := parsePeriod(ctx.String("period"))
	if err != nil {
		return err
	}

	ref := now()
	start, end := period.Bounds(ref)

	if since := ctx.String("since"); since != "" {
		start, err = parseSince(since, ref)
		if err != nil {
			return err
		}
	}

	e, err := openEnv(configFrom(ctx))
	if err != nil {
		return err
	}

	defer e.Close()

	if ctx.Bool("clear") {
		return clearRecords(
			e.gateway,
			"The session history will be deleted permanently",
			ctx.Bool("yes"),
			store.KindHistory,
		)
	}

	entries := filterHistory(e.gateway.LoadHistory(), start, end)

	if ctx.Bool("json") {
		if entries == nil {
			entries = []models.HistoryEntry{}
		}

		b, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}

		fmt.Fprintln(config.Stdout, string(b))

		return nil
	}

	if len(entries) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return nil
	}

	printHistoryTable(config.Stdout, entries, ref, e.cfg.Settings.TwentyFourHour)

	return nil
}

// printHistoryTable prints a table of history entries to w.
func printHistoryTable(
	w io.Writer,
	entries []models.HistoryEntry,
	ref time.Time,
	twentyFourHour bool,
) {
	tableBody := make([][]string, len(entries))

	for i := range entries {
		e := entries[i]

		statusText := ui.Green("completed")
		if !e.Completed {
			statusText = ui.Magenta("abandoned")
		}

		started := timeutil.FormatDate(e.StartTime) + " " +
			timeutil.FormatTimeOfDay(e.StartTime, twentyFourHour)

		tableBody[i] = []string{
			fmt.Sprintf("%d", i+1),
			ui.SessionColor(e.SessionType, e.SessionType.Label()),
			started,
			humanize.RelTime(e.StartTime, ref, "ago", "from now"),
			timeutil.FormatDuration(e.Duration),
			statusText,
		}
	}

	tableBody = append([][]string{
		{"#", "SESSION", "STARTED", "WHEN", "DURATION", "STATUS"},
	}, tableBody...)

	ui.PrintTable(tableBody, w)
}
