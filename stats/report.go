package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/toolbox/internal/models"
	"github.com/ayoisaiah/toolbox/internal/timeutil"
	"github.com/ayoisaiah/toolbox/internal/ui"
)

const (
	barChartChar  = "▇"
	maxChartDays  = 31
	dayKeyLayout  = "2006-01-02"
	noSessionsMsg = "No sessions found for the specified time range"
)

// DayTotal is the focused time logged on one day.
type DayTotal struct {
	Date     string `json:"date"`
	WorkTime int    `json:"work_time"`
	Sessions int    `json:"sessions"`
}

// Summary reports on the history entries started within a time period.
// Times are in seconds.
type Summary struct {
	StartTime     time.Time         `json:"start_time"`
	EndTime       time.Time         `json:"end_time"`
	WorkSessions  int               `json:"work_sessions"`
	BreakSessions int               `json:"break_sessions"`
	Abandoned     int               `json:"abandoned"`
	FocusTime     int               `json:"focus_time"`
	BreakTime     int               `json:"break_time"`
	Daily         []DayTotal        `json:"daily"`
	Totals        models.Statistics `json:"totals"`
}

// Summarize computes the Summary of history between start and end. A zero
// start covers the whole history.
func Summarize(
	history []models.HistoryEntry,
	totals models.Statistics,
	start, end time.Time,
) Summary {
	entries := make([]models.HistoryEntry, 0, len(history))

	for _, e := range history {
		if e.StartTime.Before(start) || e.StartTime.After(end) {
			continue
		}

		entries = append(entries, e)
	}

	slices.SortStableFunc(entries, func(a, b models.HistoryEntry) int {
		return a.StartTime.Compare(b.StartTime)
	})

	// For all-time, start from the first recorded session
	if start.IsZero() && len(entries) > 0 {
		start = timeutil.RoundToStart(entries[0].StartTime)
	}

	s := Summary{
		StartTime: start,
		EndTime:   end,
		Totals:    totals,
		Daily:     []DayTotal{},
	}

	days := make(map[string]*DayTotal)

	if !start.IsZero() {
		for d := timeutil.RoundToStart(start); !d.After(end); d = d.AddDate(0, 0, 1) {
			s.Daily = append(s.Daily, DayTotal{Date: d.Format(dayKeyLayout)})
		}

		for i := range s.Daily {
			days[s.Daily[i].Date] = &s.Daily[i]
		}
	}

	for _, e := range entries {
		if !e.Completed {
			s.Abandoned++
			continue
		}

		if e.SessionType.IsBreak() {
			s.BreakSessions++
			s.BreakTime += e.Duration

			continue
		}

		s.WorkSessions++
		s.FocusTime += e.Duration

		if day, ok := days[e.StartTime.In(start.Location()).Format(dayKeyLayout)]; ok {
			day.WorkTime += e.Duration
			day.Sessions++
		}
	}

	return s
}

// ToJSON returns the indented JSON form of the summary.
func (s Summary) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func (s Summary) overview() string {
	header := fmt.Sprintf("%s\n", ui.Blue("Overview"))

	return header +
		fmt.Sprintln("Today:", ui.Green(s.Totals.TodaySessions)) +
		fmt.Sprintln("Current streak:", ui.Green(s.Totals.CurrentStreak)) +
		fmt.Sprintln("Longest streak:", ui.Green(s.Totals.LongestStreak)) +
		fmt.Sprintln("Total time:", ui.Green(timeutil.FormatDuration(s.Totals.TotalWorkTime))) +
		fmt.Sprintln("Completed:", ui.Green(s.Totals.TotalWorkSessions))
}

func (s Summary) summary() string {
	header := fmt.Sprintf("\n%s\n", ui.Blue("Summary"))

	return header +
		fmt.Sprintf("Time focused: %s\n", ui.Green(timeutil.FormatDuration(s.FocusTime))) +
		fmt.Sprintf("Time on break: %s\n", ui.Green(timeutil.FormatDuration(s.BreakTime))) +
		fmt.Sprintln("Work sessions:", ui.Green(s.WorkSessions)) +
		fmt.Sprintln("Breaks taken:", ui.Green(s.BreakSessions)) +
		fmt.Sprintln("Sessions abandoned:", ui.Green(s.Abandoned))
}

func (s Summary) barChart() string {
	if len(s.Daily) == 0 || len(s.Daily) > maxChartDays {
		return ""
	}

	header := ui.Blue("\nDaily breakdown (minutes)")

	bars := make(pterm.Bars, 0, len(s.Daily))

	for _, d := range s.Daily {
		date, err := time.Parse(dayKeyLayout, d.Date)
		if err != nil {
			continue
		}

		bars = append(bars, pterm.Bar{
			Value: timeutil.SecondsToMinutes(d.WorkTime),
			Label: timeutil.FormatDate(date),
		})
	}

	chart, err := pterm.DefaultBarChart.WithHorizontalBarCharacter(barChartChar).
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		pterm.Error.Println(err)
		return ""
	}

	return header + chart
}

// Render writes a human readable report to w.
func (s Summary) Render(w io.Writer) {
	var timePeriod string

	if s.StartTime.IsZero() {
		timePeriod = "Reporting period: all time"
	} else {
		timePeriod = "Reporting period: " + timeutil.FormatDate(s.StartTime) +
			" - " + timeutil.FormatDate(s.EndTime)
	}

	header := pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprintfln("%s", timePeriod)

	body := s.overview() + s.summary()

	if s.WorkSessions+s.BreakSessions+s.Abandoned == 0 {
		body += "\n" + pterm.Info.Sprint(noSessionsMsg)
	} else {
		body += s.barChart()
	}

	fmt.Fprintln(w, strings.TrimSpace(header+body))
}
