package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/toolbox/internal/session"
	"github.com/ayoisaiah/toolbox/internal/timeutil"
)

func (m *Model) sessionPromptView() string {
	var s strings.Builder

	title := "Your focus session is complete"
	msg := "It's time to take a well-deserved break!"

	if m.state.SessionType == session.Work {
		title = "Your break is over"
		msg = "It's time to refocus and get back to work!"
	}

	s.WriteString(m.style.Main.Render(title))
	s.WriteString("\n\n" + m.style.Secondary.Render(msg))
	s.WriteString("\n\n" + m.help.ShortHelpView([]key.Binding{
		defaultKeymap.enter,
		defaultKeymap.skip,
		defaultKeymap.quit,
	}))

	return s.String()
}

func (m *Model) timerView() string {
	var s strings.Builder

	if label, ok := m.style.Sessions[m.state.SessionType]; ok {
		s.WriteString(label.Render())
	}

	if m.state.IsRunning {
		end := m.now().Add(time.Duration(m.state.TimeLeft) * time.Second)

		s.WriteString(m.style.Hint.Render(
			"until " + timeutil.FormatTimeOfDay(end, m.twentyFourHour),
		))
	} else {
		s.WriteString(m.style.Secondary.Render("[Paused]"))
	}

	if m.state.SessionType == session.Work {
		n := m.state.Config.SessionsBeforeLongBreak
		if n < 1 {
			n = 1
		}

		s.WriteString(m.style.Hint.Render(
			fmt.Sprintf(" (%d/%d)", m.state.SessionsCompleted%n+1, n),
		))
	}

	s.WriteString("\n\n")
	s.WriteString(m.style.Main.Render(m.state.FormattedTime))
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())
	s.WriteString("\n\n")
	s.WriteString(m.style.Hint.Render(fmt.Sprintf(
		"%d work sessions completed, %d sessions in total",
		m.state.SessionsCompleted,
		m.state.TotalSessions,
	)))
	if m.showStats {
		s.WriteString("\n\n" + m.statsView())
	}

	s.WriteString("\n\n" + m.help.View(defaultKeymap))

	return s.String()
}

// statsView renders the statistics tiles side by side.
func (m *Model) statsView() string {
	tile := func(label, value, desc string) string {
		return m.style.Tile.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.style.Hint.Render(label),
			m.style.Main.Render(value),
			m.style.Secondary.Render(desc),
		))
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		tile("Today", strconv.Itoa(m.stats.TodaySessions), "Sessions completed"),
		tile("Current Streak", strconv.Itoa(m.stats.CurrentStreak), "Consecutive sessions"),
		tile("Total Time", timeutil.FormatDuration(m.stats.TotalWorkTime), "Time focused"),
		tile("Completed", strconv.Itoa(m.stats.TotalWorkSessions), "Work sessions"),
	)
}

func (m *Model) View() string {
	if m.waitForNextSession {
		return m.style.Base.Render(m.sessionPromptView())
	}

	return m.style.Base.Render(m.timerView())
}
