// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	secondsInAMinute = 60
	secondsInAnHour  = 3600
)

const (
	HoursInADay = 24
	DaysInAWeek = 7
)

type Period string

const (
	PeriodAllTime   Period = "all-time"
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	Period7Days     Period = "7days"
	Period14Days    Period = "14days"
	Period30Days    Period = "30days"
	Period90Days    Period = "90days"
	Period180Days   Period = "180days"
	Period365Days   Period = "365days"
)

// Range maps a period to the day offset of its first day relative to today.
var Range = map[Period]int{
	PeriodAllTime:   0,
	PeriodToday:     0,
	PeriodYesterday: -1,
	Period7Days:     -6,
	Period14Days:    -13,
	Period30Days:    -29,
	Period90Days:    -89,
	Period180Days:   -179,
	Period365Days:   -364,
}

var PeriodCollection = []Period{
	PeriodAllTime,
	PeriodToday,
	PeriodYesterday,
	Period7Days,
	Period14Days,
	Period30Days,
	Period90Days,
	Period180Days,
	Period365Days,
}

// Bounds returns the start and end of period relative to ref. The all-time
// period starts at the zero time.
func (p Period) Bounds(ref time.Time) (start, end time.Time) {
	end = RoundToEnd(ref)

	if p == PeriodAllTime {
		return time.Time{}, end
	}

	start = RoundToStart(ref.AddDate(0, 0, Range[p]))

	if p == PeriodYesterday {
		end = RoundToEnd(start)
	}

	return start, end
}

// Round rounds a time value in seconds, minutes, or hours to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// FormatTime formats seconds as MM:SS. Negative values are treated as zero
// and minutes are never wrapped into hours.
func FormatTime(seconds int) string {
	seconds = max(seconds, 0)

	return fmt.Sprintf(
		"%02d:%02d",
		seconds/secondsInAMinute,
		seconds%secondsInAMinute,
	)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}

	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatDuration renders seconds as a human readable duration such as
// "1 hour and 30 minutes". Seconds are only shown for durations under an
// hour.
func FormatDuration(seconds int) string {
	hours := seconds / secondsInAnHour
	minutes := (seconds % secondsInAnHour) / secondsInAMinute
	secs := seconds % secondsInAMinute

	var parts []string

	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}

	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}

	if secs > 0 && hours == 0 {
		parts = append(parts, plural(secs, "second"))
	}

	switch len(parts) {
	case 0:
		return "0 seconds"
	case 1:
		return parts[0]
	}

	last := len(parts) - 1

	return strings.Join(parts[:last], ", ") + " and " + parts[last]
}

// MinutesToSeconds converts minutes to whole seconds.
func MinutesToSeconds(minutes float64) int {
	return int(minutes * secondsInAMinute)
}

// SecondsToMinutes converts seconds to minutes, rounded down.
func SecondsToMinutes(seconds int) int {
	return seconds / secondsInAMinute
}

// TimeDifferenceInSeconds returns the whole seconds from start to end. The
// result is negative when end is before start.
func TimeDifferenceInSeconds(start, end time.Time) int {
	return int(end.Sub(start) / time.Second)
}

// Progress returns the completed percentage of a session of total seconds
// with left seconds remaining.
func Progress(total, left int) float64 {
	if total <= 0 {
		return 0
	}

	return float64(total-left) / float64(total) * 100
}

// IsToday reports whether t falls on the same calendar day as ref.
func IsToday(t, ref time.Time) bool {
	t = t.In(ref.Location())

	y1, m1, d1 := t.Date()
	y2, m2, d2 := ref.Date()

	return y1 == y2 && m1 == m2 && d1 == d2
}

// StartOfWeek returns midnight of the Sunday that begins the week of t.
func StartOfWeek(t time.Time) time.Time {
	return RoundToStart(t.AddDate(0, 0, -int(t.Weekday())))
}

// IsThisWeek reports whether t falls within the Sunday to Saturday week
// containing ref.
func IsThisWeek(t, ref time.Time) bool {
	start := StartOfWeek(ref)
	end := start.AddDate(0, 0, DaysInAWeek)

	return !t.Before(start) && t.Before(end)
}

// FormatDate formats t like "Jan 2, 2006".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// FormatTimeOfDay formats t on a 12 or 24 hour clock.
func FormatTimeOfDay(t time.Time, twentyFourHour bool) string {
	if twentyFourHour {
		return t.Format("15:04")
	}

	return t.Format("03:04 PM")
}

// GenerateID returns a random identifier for history entries.
func GenerateID() string {
	return uuid.NewString()
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		0,
		t.Location(),
	)
}

// DayFormat returns t as a sortable YYYYMMDD integer.
func DayFormat(t time.Time) int {
	d := fmt.Sprintf("%d%02d%02d", t.Year(), t.Month(), t.Day())

	i, _ := strconv.Atoi(d)

	return i
}
