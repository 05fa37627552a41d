// Package tui renders the Pomodoro timer in the terminal with bubbletea
package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"github.com/ayoisaiah/toolbox/internal/models"
	"github.com/ayoisaiah/toolbox/timer"
)

// Timer is the part of the state machine the terminal view drives.
type Timer interface {
	State() timer.State
	Subscribe(fn func(timer.State)) (unsubscribe func())
	Toggle()
	Reset()
	Skip()
	ResetAll()
	SetVisible(visible bool)
}

// Stats is the statistics store rendered below the timer.
type Stats interface {
	Get() models.Statistics
	Subscribe(fn func(models.Statistics)) (unsubscribe func())
}

// stateMsg carries a new timer state into the bubbletea loop.
type stateMsg timer.State

// statsMsg carries new statistics into the bubbletea loop.
type statsMsg models.Statistics

// Model renders a Timer and maps key presses onto its actions.
type Model struct {
	timer       Timer
	now         func() time.Time
	states      chan timer.State
	statsCh     chan models.Statistics
	unsubscribe []func()
	style       Style
	help        help.Model
	progress    progress.Model
	state       timer.State
	stats       models.Statistics
	showStats   bool

	// waitForNextSession is set when a session has just completed and the
	// next one has not been started yet.
	waitForNextSession bool
	twentyFourHour     bool
}

// Options configure a Model.
type Options struct {
	Now            func() time.Time
	Stats          Stats
	DarkTheme      bool
	TwentyFourHour bool
}

// NewModel subscribes to t and returns a Model that renders it.
func NewModel(t Timer, opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := &Model{
		timer:          t,
		now:            opts.Now,
		states:         make(chan timer.State, 1),
		statsCh:        make(chan models.Statistics, 1),
		style:          NewStyle(opts.DarkTheme),
		help:           help.New(),
		progress:       progress.New(progress.WithDefaultGradient()),
		state:          t.State(),
		twentyFourHour: opts.TwentyFourHour,
	}

	m.unsubscribe = append(m.unsubscribe, t.Subscribe(func(s timer.State) {
		pushLatest(m.states, s)
	}))

	if opts.Stats != nil {
		m.showStats = true
		m.stats = opts.Stats.Get()
		m.unsubscribe = append(m.unsubscribe, opts.Stats.Subscribe(
			func(st models.Statistics) {
				pushLatest(m.statsCh, st)
			},
		))
	}

	return m
}

// pushLatest hands v to the bubbletea loop without blocking. Only the latest
// pending value is kept since each one is a full replacement.
func pushLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}

func (m *Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-m.states)
	}
}

func (m *Model) waitForStats() tea.Cmd {
	return func() tea.Msg {
		return statsMsg(<-m.statsCh)
	}
}

func (m *Model) Init() tea.Cmd {
	if !m.showStats {
		return m.waitForState()
	}

	return tea.Batch(m.waitForState(), m.waitForStats())
}

// handleState stores a new timer state and animates the progress bar.
func (m *Model) handleState(msg stateMsg) (tea.Model, tea.Cmd) {
	prev := m.state
	m.state = timer.State(msg)

	if m.state.TotalSessions > prev.TotalSessions && prev.IsRunning {
		m.waitForNextSession = true
	}

	if m.state.IsRunning {
		m.waitForNextSession = false
	}

	cmd := m.progress.SetPercent(m.state.Progress / 100)

	return m, tea.Batch(cmd, m.waitForState())
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeymap.quit):
		for _, unsubscribe := range m.unsubscribe {
			unsubscribe()
		}

		return m, tea.Batch(tea.ClearScreen, tea.Quit)

	case key.Matches(msg, defaultKeymap.enter):
		if m.waitForNextSession {
			m.waitForNextSession = false
			m.timer.Toggle()
		}

	case key.Matches(msg, defaultKeymap.togglePlay):
		m.waitForNextSession = false
		m.timer.Toggle()

	case key.Matches(msg, defaultKeymap.skip):
		m.waitForNextSession = false
		m.timer.Skip()

	case key.Matches(msg, defaultKeymap.reset):
		m.timer.Reset()

	case key.Matches(msg, defaultKeymap.resetAll):
		m.waitForNextSession = false
		m.timer.ResetAll()

	case key.Matches(msg, defaultKeymap.help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		return m.handleState(msg)

	case statsMsg:
		m.stats = models.Statistics(msg)

		return m, m.waitForStats()

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.FocusMsg:
		m.timer.SetVisible(true)

		return m, nil

	case tea.BlurMsg:
		m.timer.SetVisible(false)

		return m, nil

	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - padding*2 - 4
		if m.progress.Width > maxWidth {
			m.progress.Width = maxWidth
		}

		m.help.Width = msg.Width

		return m, nil

	// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress, _ = progressModel.(progress.Model)

		return m, cmd
	}

	slog.Debug("unhandled message", slog.String("msg", spew.Sdump(msg)))

	return m, nil
}
