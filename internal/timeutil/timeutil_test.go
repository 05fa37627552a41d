package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		30:   "00:30",
		60:   "01:00",
		90:   "01:30",
		1500: "25:00",
		3661: "61:01",
		-1:   "00:00",
	}

	for in, want := range cases {
		assert.Equal(t, want, FormatTime(in), "FormatTime(%d)", in)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0 seconds"},
		{1, "1 second"},
		{30, "30 seconds"},
		{60, "1 minute"},
		{90, "1 minute and 30 seconds"},
		{120, "2 minutes"},
		{3600, "1 hour"},
		{3660, "1 hour and 1 minute"},
		{3661, "1 hour and 1 minute"},
		{7320, "2 hours and 2 minutes"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(tc.in), "FormatDuration(%d)", tc.in)
	}
}

func TestConversions(t *testing.T) {
	assert.Equal(t, 0, MinutesToSeconds(0))
	assert.Equal(t, 1500, MinutesToSeconds(25))
	assert.Equal(t, 30, MinutesToSeconds(0.5))

	assert.Equal(t, 0, SecondsToMinutes(59))
	assert.Equal(t, 1, SecondsToMinutes(90))
	assert.Equal(t, 25, SecondsToMinutes(1500))
}

func TestTimeDifferenceInSeconds(t *testing.T) {
	start := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)

	assert.Equal(t, 90, TimeDifferenceInSeconds(start, end))
	assert.Equal(t, -90, TimeDifferenceInSeconds(end, start))
}

func TestProgress(t *testing.T) {
	assert.InDelta(t, 0.0, Progress(1500, 1500), 0.001)
	assert.InDelta(t, 50.0, Progress(1500, 750), 0.001)
	assert.InDelta(t, 100.0, Progress(1500, 0), 0.001)
	assert.InDelta(t, 0.0, Progress(0, 0), 0.001)
}

func TestIsTodayAndThisWeek(t *testing.T) {
	// Wednesday
	ref := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsToday(ref.Add(-11*time.Hour), ref))
	assert.False(t, IsToday(ref.AddDate(0, 0, -1), ref))
	assert.False(t, IsToday(ref.AddDate(0, 0, 1), ref))

	sunday := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2024, 5, 18, 23, 59, 59, 0, time.UTC)

	assert.True(t, IsThisWeek(ref, ref))
	assert.True(t, IsThisWeek(sunday, ref))
	assert.True(t, IsThisWeek(saturday, ref))
	assert.False(t, IsThisWeek(sunday.Add(-time.Second), ref))
	assert.False(t, IsThisWeek(ref.AddDate(0, 0, 7), ref))
}

func TestPeriodBounds(t *testing.T) {
	ref := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

	start, end := PeriodYesterday.Bounds(ref)
	assert.Equal(t, time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 5, 14, 23, 59, 59, 0, time.UTC), end)

	start, end = Period7Days.Bounds(ref)
	assert.Equal(t, time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 5, 15, 23, 59, 59, 0, time.UTC), end)

	start, _ = PeriodAllTime.Bounds(ref)
	assert.True(t, start.IsZero())
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestFormatters(t *testing.T) {
	ts := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, "Jan 15, 2024", FormatDate(ts))
	assert.Equal(t, "02:30 PM", FormatTimeOfDay(ts, false))
	assert.Equal(t, "14:30", FormatTimeOfDay(ts, true))
	assert.Equal(t, 20240115, DayFormat(ts))
}
