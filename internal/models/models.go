// Package models defines the records persisted by toolbox
package models

import (
	"time"

	"github.com/ayoisaiah/toolbox/internal/config"
	"github.com/ayoisaiah/toolbox/internal/session"
)

// Snapshot is the minimal mutable state needed to resume or render the timer.
type Snapshot struct {
	SessionType       session.Type `json:"session_type"       yaml:"session_type"`
	TimeLeft          int          `json:"time_left"          yaml:"time_left"`
	SessionsCompleted int          `json:"sessions_completed" yaml:"sessions_completed"`
	TotalSessions     int          `json:"total_sessions"     yaml:"total_sessions"`
	IsRunning         bool         `json:"is_running"         yaml:"is_running"`
}

// Preferences are the user editable settings stored next to the timer state.
type Preferences struct {
	CustomConfig         *config.PomodoroOverrides `json:"custom_config,omitempty" yaml:"custom_config,omitempty"`
	AudioVolume          float64                   `json:"audio_volume"            yaml:"audio_volume"`
	AudioNotifications   bool                      `json:"audio_notifications"     yaml:"audio_notifications"`
	NotificationsEnabled bool                      `json:"desktop_notifications"   yaml:"desktop_notifications"`
}

// HistoryEntry records one finished session.
type HistoryEntry struct {
	StartTime   time.Time    `json:"start_time"   yaml:"start_time"`
	EndTime     time.Time    `json:"end_time"     yaml:"end_time"`
	ID          string       `json:"id"           yaml:"id"`
	SessionType session.Type `json:"session_type" yaml:"session_type"`
	Duration    int          `json:"duration"     yaml:"duration"`
	Completed   bool         `json:"completed"    yaml:"completed"`
}

// Statistics are the aggregate counters derived from completed sessions.
// Times are in seconds.
type Statistics struct {
	TotalWorkSessions  int `json:"total_work_sessions"  yaml:"total_work_sessions"`
	TotalWorkTime      int `json:"total_work_time"      yaml:"total_work_time"`
	TotalBreakSessions int `json:"total_break_sessions" yaml:"total_break_sessions"`
	TotalBreakTime     int `json:"total_break_time"     yaml:"total_break_time"`
	CurrentStreak      int `json:"current_streak"       yaml:"current_streak"`
	LongestStreak      int `json:"longest_streak"       yaml:"longest_streak"`
	TodaySessions      int `json:"today_sessions"       yaml:"today_sessions"`
	WeekSessions       int `json:"week_sessions"        yaml:"week_sessions"`
}

// DefaultSnapshot returns the state of a fresh timer: a full work session,
// paused, with zero counters.
func DefaultSnapshot(workDuration int) Snapshot {
	return Snapshot{
		TimeLeft:    workDuration,
		SessionType: session.Work,
	}
}

// DefaultPreferences returns audio on, desktop notifications off and half
// volume.
func DefaultPreferences() Preferences {
	return Preferences{
		AudioNotifications:   true,
		NotificationsEnabled: false,
		AudioVolume:          0.5,
	}
}
