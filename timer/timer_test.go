package timer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/toolbox/audio"
	"github.com/ayoisaiah/toolbox/internal/config"
	"github.com/ayoisaiah/toolbox/internal/models"
	"github.com/ayoisaiah/toolbox/internal/session"
	"github.com/ayoisaiah/toolbox/stats"
	"github.com/ayoisaiah/toolbox/store"
)

type manualScheduler struct {
	fn      func()
	started int
	stopped int
	mu      sync.Mutex
}

func (s *manualScheduler) Every(_ time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.started++
	s.fn = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.stopped++
		s.fn = nil
	}
}

func (s *manualScheduler) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fn != nil
}

// fire runs the scheduled callback n times.
func (s *manualScheduler) fire(n int) {
	for range n {
		s.mu.Lock()
		fn := s.fn
		s.mu.Unlock()

		if fn == nil {
			return
		}

		fn()
	}
}

type clock struct {
	now time.Time
	mu  sync.Mutex
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type fakePlayer struct {
	err     error
	played  []audio.Sound
	volume  float64
	enabled bool
	mu      sync.Mutex
}

func (p *fakePlayer) Play(_ context.Context, s audio.Sound) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.played = append(p.played, s)

	return p.err
}

func (p *fakePlayer) SetVolume(v float64) {
	p.volume = v
}

func (p *fakePlayer) SetEnabled(enabled bool) {
	p.enabled = enabled
}

func (p *fakePlayer) sounds() []audio.Sound {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]audio.Sound(nil), p.played...)
}

type fakeNotifier struct {
	err     error
	events  []string
	enabled bool
	mu      sync.Mutex
}

func (n *fakeNotifier) NotifySessionEvent(
	_ context.Context,
	t session.Type,
	p session.Phase,
) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.events = append(n.events, session.EventKey(t, p))

	return n.err
}

func (n *fakeNotifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

type fakeTones struct {
	success      int
	notification int
	mu           sync.Mutex
}

func (f *fakeTones) PlaySuccess(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.success++
}

func (f *fakeTones) PlayNotification(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.notification++
}

type fixture struct {
	timer    *Timer
	gateway  *store.Gateway
	stats    *stats.Store
	sched    *manualScheduler
	clock    *clock
	player   *fakePlayer
	notifier *fakeNotifier
	tones    *fakeTones
}

func newFixture(
	t *testing.T,
	g *store.Gateway,
	overrides config.PomodoroOverrides,
) *fixture {
	t.Helper()

	if g == nil {
		g = store.NewGateway(store.NewMemory())
	}

	f := &fixture{
		gateway:  g,
		stats:    stats.New(g),
		sched:    &manualScheduler{},
		clock:    &clock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
		player:   &fakePlayer{},
		notifier: &fakeNotifier{},
		tones:    &fakeTones{},
	}

	f.timer = New(Deps{
		Gateway:   g,
		Stats:     f.stats,
		Audio:     f.player,
		Tones:     f.tones,
		Notifier:  f.notifier,
		Scheduler: f.sched,
		Now:       f.clock.Now,
	}, overrides)

	t.Cleanup(f.timer.Close)

	return f
}

// short uses tiny durations so sessions can be ticked to completion.
var short = config.PomodoroOverrides{
	WorkDuration:            config.Value(3),
	ShortBreakDuration:      config.Value(2),
	LongBreakDuration:       config.Value(4),
	SessionsBeforeLongBreak: config.Value(2),
}

func TestNewDefaults(t *testing.T) {
	f := newFixture(t, nil, config.PomodoroOverrides{})

	want := State{
		Config:          config.DefaultPomodoro(),
		SessionType:     session.Work,
		FormattedTime:   "25:00",
		TimeLeft:        1500,
		SessionDuration: 1500,
	}

	if diff := cmp.Diff(want, f.timer.State()); diff != "" {
		t.Fatalf("State() mismatch (-want +got):\n%s", diff)
	}

	assert.InDelta(t, 0.5, f.player.volume, 0.0001)
	assert.True(t, f.player.enabled)
	assert.False(t, f.notifier.enabled)
}

func TestConfigLayering(t *testing.T) {
	g := store.NewGateway(store.NewMemory())

	g.SavePreferences(models.Preferences{
		CustomConfig: &config.PomodoroOverrides{
			WorkDuration:       config.Value(1500),
			ShortBreakDuration: config.Value(120),
		},
		AudioVolume:          0.8,
		NotificationsEnabled: true,
	})

	f := newFixture(t, g, config.PomodoroOverrides{
		WorkDuration: config.Value(300),
	})

	cfg := f.timer.Config()

	assert.Equal(t, 300, cfg.WorkDuration)
	assert.Equal(t, 120, cfg.ShortBreakDuration)
	assert.Equal(t, config.DefaultLongBreakDuration, cfg.LongBreakDuration)
	assert.Equal(t, 300, f.timer.State().TimeLeft)

	assert.InDelta(t, 0.8, f.player.volume, 0.0001)
	assert.True(t, f.notifier.enabled)
}

func TestRestoreSnapshot(t *testing.T) {
	g := store.NewGateway(store.NewMemory())

	g.SaveTimerState(models.Snapshot{
		SessionType:       session.ShortBreak,
		TimeLeft:          42,
		SessionsCompleted: 3,
		TotalSessions:     5,
		IsRunning:         true,
	})

	f := newFixture(t, g, config.PomodoroOverrides{})
	s := f.timer.State()

	assert.Equal(t, session.ShortBreak, s.SessionType)
	assert.Equal(t, 42, s.TimeLeft)
	assert.Equal(t, 3, s.SessionsCompleted)
	assert.Equal(t, 5, s.TotalSessions)
	assert.False(t, s.IsRunning, "restored timers never resume")
	assert.False(t, f.sched.active())
}

func TestRestoreSanitizes(t *testing.T) {
	g := store.NewGateway(store.NewMemory())

	g.SaveTimerState(models.Snapshot{
		SessionType:       "nap",
		TimeLeft:          -10,
		SessionsCompleted: -1,
	})

	s := newFixture(t, g, config.PomodoroOverrides{}).timer.State()

	assert.Equal(t, session.Work, s.SessionType)
	assert.Equal(t, 1500, s.TimeLeft)
	assert.Zero(t, s.SessionsCompleted)
}

func TestToggle(t *testing.T) {
	f := newFixture(t, nil, short)

	f.timer.Toggle()
	f.timer.Wait()

	assert.True(t, f.timer.State().IsRunning)
	assert.True(t, f.sched.active())
	assert.Equal(t, []audio.Sound{audio.WorkStart}, f.player.sounds())
	assert.Equal(t, []string{"workStart"}, f.notifier.events)
	assert.True(t, f.gateway.LoadTimerState(models.Snapshot{}).IsRunning)

	f.timer.Toggle()
	f.timer.Wait()

	assert.False(t, f.timer.State().IsRunning)
	assert.False(t, f.sched.active())
	assert.Len(t, f.player.sounds(), 1, "pausing has no side effects")
}

func TestTick(t *testing.T) {
	f := newFixture(t, nil, short)

	f.timer.Tick()
	assert.Equal(t, 3, f.timer.State().TimeLeft, "paused timers do not tick")

	f.timer.Toggle()
	f.sched.fire(1)

	s := f.timer.State()
	assert.Equal(t, 2, s.TimeLeft)
	assert.Equal(t, "00:02", s.FormattedTime)
	assert.Equal(t, 2, f.gateway.LoadTimerState(models.Snapshot{}).TimeLeft)
}

func TestCompletion(t *testing.T) {
	f := newFixture(t, nil, short)

	f.timer.Toggle()
	f.clock.Advance(3 * time.Second)
	f.sched.fire(3)
	f.timer.Wait()

	s := f.timer.State()

	assert.Equal(t, session.ShortBreak, s.SessionType, "(0+1) mod 2 != 0")
	assert.Equal(t, 1, s.SessionsCompleted)
	assert.Equal(t, 1, s.TotalSessions)
	assert.False(t, s.IsRunning, "the next session does not start by itself")
	assert.False(t, f.sched.active())

	history := f.gateway.LoadHistory()
	require.Len(t, history, 1)
	assert.Equal(t, session.Work, history[0].SessionType)
	assert.Equal(t, 3, history[0].Duration)
	assert.True(t, history[0].Completed)
	assert.Equal(t, 3*time.Second, history[0].EndTime.Sub(history[0].StartTime))
	assert.NotEmpty(t, history[0].ID)

	st := f.stats.Get()
	assert.Equal(t, 1, st.TotalWorkSessions)
	assert.Equal(t, 3, st.TotalWorkTime)

	assert.ElementsMatch(t, []audio.Sound{audio.WorkStart, audio.WorkEnd}, f.player.sounds())
	assert.ElementsMatch(t, []string{"workStart", "workEnd"}, f.notifier.events)
}

func TestTransitionTable(t *testing.T) {
	f := newFixture(t, nil, config.PomodoroOverrides{
		WorkDuration:            config.Value(1),
		ShortBreakDuration:      config.Value(1),
		LongBreakDuration:       config.Value(1),
		SessionsBeforeLongBreak: config.Value(3),
	})

	want := []session.Type{
		session.ShortBreak, // W=0: (0+1) mod 3 != 0
		session.Work,
		session.ShortBreak, // W=1
		session.Work,
		session.LongBreak, // W=2: (2+1) mod 3 == 0
		session.Work,
	}

	for i, next := range want {
		f.timer.Toggle()
		f.sched.fire(1)

		assert.Equal(t, next, f.timer.State().SessionType, "transition %d", i)
	}

	s := f.timer.State()
	assert.Equal(t, 3, s.SessionsCompleted, "only work sessions are counted")
	assert.Equal(t, 6, s.TotalSessions)

	st := f.stats.Get()
	assert.Equal(t, 3, st.TotalWorkSessions)
	assert.Equal(t, 3, st.TotalBreakSessions)
	assert.Len(t, f.gateway.LoadHistory(), 6)
}

func TestProgressBoundary(t *testing.T) {
	f := newFixture(t, nil, short)

	var states []State

	unsubscribe := f.timer.Subscribe(func(s State) {
		states = append(states, s)
	})
	defer unsubscribe()

	assert.Zero(t, states[0].Progress)

	f.timer.Toggle()
	f.sched.fire(3)

	var boundary *State

	for i := range states {
		if states[i].TimeLeft == 0 {
			boundary = &states[i]
		}
	}

	require.NotNil(t, boundary, "the zero state must be observable")
	assert.InDelta(t, 100.0, boundary.Progress, 0.0001)
	assert.Equal(t, session.Work, boundary.SessionType)
	assert.Equal(t, "00:00", boundary.FormattedTime)

	last := states[len(states)-1]
	assert.Equal(t, session.ShortBreak, last.SessionType)
	assert.Zero(t, last.Progress)
}

func TestSkipFromFreshWorkGoesToLongBreak(t *testing.T) {
	f := newFixture(t, nil, config.PomodoroOverrides{})

	f.timer.Skip()

	s := f.timer.State()
	assert.Equal(t, session.LongBreak, s.SessionType)
	assert.Equal(t, config.DefaultLongBreakDuration, s.TimeLeft)
	assert.Zero(t, s.SessionsCompleted)
	assert.Equal(t, 1, s.TotalSessions)
}

func TestSkipCounters(t *testing.T) {
	g := store.NewGateway(store.NewMemory())
	g.SaveTimerState(models.Snapshot{
		SessionType:       session.Work,
		TimeLeft:          100,
		SessionsCompleted: 1,
	})

	f := newFixture(t, g, config.PomodoroOverrides{})

	f.timer.Toggle()
	f.timer.Skip()

	s := f.timer.State()
	assert.Equal(t, session.ShortBreak, s.SessionType)
	assert.Equal(t, 1, s.SessionsCompleted)
	assert.False(t, s.IsRunning)
	assert.False(t, f.sched.active())

	f.timer.Skip()

	s = f.timer.State()
	assert.Equal(t, session.Work, s.SessionType)
	assert.Equal(t, 1, s.SessionsCompleted)
	assert.Equal(t, 2, s.TotalSessions)

	assert.Empty(t, g.LoadHistory(), "skipped sessions are not recorded")
	assert.Zero(t, f.stats.Get().TotalWorkSessions)
}

func TestReset(t *testing.T) {
	f := newFixture(t, nil, short)

	f.timer.Skip()
	f.timer.Toggle()
	f.sched.fire(1)
	f.timer.Reset()

	s := f.timer.State()
	assert.Equal(t, session.LongBreak, s.SessionType)
	assert.Equal(t, 4, s.TimeLeft)
	assert.False(t, s.IsRunning)
	assert.Equal(t, 1, s.TotalSessions)
	assert.False(t, f.sched.active())
}

func TestResetAll(t *testing.T) {
	f := newFixture(t, nil, short)

	f.timer.Toggle()
	f.sched.fire(3)
	f.timer.Skip()
	f.timer.ResetAll()

	want := models.Snapshot{
		SessionType: session.Work,
		TimeLeft:    3,
	}

	assert.Equal(t, want, f.timer.Snapshot())

	def := models.Snapshot{SessionType: "sentinel"}
	assert.Equal(t, def, f.gateway.LoadTimerState(def), "saved snapshot is removed")
}

func TestStatsAcrossSessions(t *testing.T) {
	f := newFixture(t, nil, config.PomodoroOverrides{
		WorkDuration:       config.Value(2),
		ShortBreakDuration: config.Value(1),
		LongBreakDuration:  config.Value(1),
	})

	for range 6 {
		f.timer.Toggle()
		f.sched.fire(2)
	}

	st := f.stats.Get()
	assert.Equal(t, 3, st.TotalWorkSessions)
	assert.Equal(t, 6, st.TotalWorkTime)
	assert.Equal(t, 3, st.CurrentStreak)
	assert.Equal(t, 3, st.LongestStreak)
}

func TestSetVisibleReconciles(t *testing.T) {
	f := newFixture(t, nil, config.PomodoroOverrides{})

	f.timer.Toggle()
	f.timer.SetVisible(false)

	f.clock.Advance(90 * time.Second)
	f.timer.SetVisible(true)

	assert.Equal(t, 1500-90, f.timer.State().TimeLeft)

	// a single second is within normal tick jitter
	f.clock.Advance(time.Second)
	f.timer.SetVisible(true)

	assert.Equal(t, 1500-90, f.timer.State().TimeLeft)
}

func TestSetVisibleCompletes(t *testing.T) {
	f := newFixture(t, nil, short)

	f.timer.Toggle()
	f.clock.Advance(time.Hour)
	f.timer.SetVisible(true)
	f.timer.Wait()

	s := f.timer.State()
	assert.Equal(t, session.ShortBreak, s.SessionType)
	assert.Equal(t, 1, s.SessionsCompleted)
	assert.Len(t, f.gateway.LoadHistory(), 1)
}

func TestSetVisiblePaused(t *testing.T) {
	f := newFixture(t, nil, short)

	f.clock.Advance(time.Hour)
	f.timer.SetVisible(true)

	assert.Equal(t, 3, f.timer.State().TimeLeft)
}

func TestFallbackTones(t *testing.T) {
	f := newFixture(t, nil, short)

	f.player.err = errors.New("no audio device")

	f.timer.Toggle()
	f.timer.Wait()

	assert.Equal(t, 1, f.tones.notification)
	assert.Equal(t, []string{"workStart"}, f.notifier.events, "the notification does not depend on the sound")

	f.player.err = nil
	f.notifier.err = errors.New("no notification server")

	f.sched.fire(3)
	f.timer.Wait()

	assert.Equal(t, 1, f.tones.success)
	assert.Equal(t, session.ShortBreak, f.timer.State().SessionType)
}

func TestWithoutCollaborators(t *testing.T) {
	sched := &manualScheduler{}
	tm := New(Deps{Scheduler: sched}, short)

	defer tm.Close()

	tm.Toggle()
	sched.fire(3)
	tm.Wait()

	assert.Equal(t, session.ShortBreak, tm.State().SessionType)
}

func TestStaleScheduledTick(t *testing.T) {
	f := newFixture(t, nil, config.PomodoroOverrides{})

	f.timer.Toggle()

	f.sched.mu.Lock()
	stale := f.sched.fn
	f.sched.mu.Unlock()

	f.timer.Toggle()
	f.timer.Toggle()

	stale()
	assert.Equal(t, 1500, f.timer.State().TimeLeft)
	assert.Equal(t, 2, f.sched.started)
	assert.Equal(t, 1, f.sched.stopped)
}

func TestClose(t *testing.T) {
	sched := &manualScheduler{}
	tm := New(Deps{Scheduler: sched}, short)

	tm.Toggle()
	require.True(t, sched.active())

	tm.Close()
	assert.False(t, sched.active())
}

func TestSessionCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "done")

	sched := &manualScheduler{}
	tm := New(Deps{
		Scheduler:  sched,
		SessionCmd: "touch '" + out + "'",
	}, short)

	defer tm.Close()

	tm.Toggle()
	sched.fire(3)
	tm.Wait()

	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestRunSessionCmdInvalid(t *testing.T) {
	err := runSessionCmd(context.Background(), "echo 'unterminated")
	assert.ErrorIs(t, err, errParseSessionCmd)

	assert.NoError(t, runSessionCmd(context.Background(), ""))
	assert.NoError(t, runSessionCmd(context.Background(), "   "))
}

func TestStatsSubscriberReadsTimer(t *testing.T) {
	f := newFixture(t, nil, short)

	var (
		seen []State
		mu   sync.Mutex
	)

	unsubscribe := f.stats.Subscribe(func(models.Statistics) {
		st := f.timer.State()

		mu.Lock()
		seen = append(seen, st)
		mu.Unlock()
	})
	defer unsubscribe()

	done := make(chan struct{})

	go func() {
		defer close(done)

		f.timer.Toggle()
		f.sched.fire(3)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("completing a session blocked on a statistics subscriber")
	}

	mu.Lock()
	defer mu.Unlock()

	require.Len(t, seen, 2, "one emission on subscribe and one for the completion")
	assert.Equal(t, session.ShortBreak, seen[1].SessionType)
	assert.Equal(t, 1, seen[1].SessionsCompleted)
	assert.Equal(t, 1, f.stats.Get().TotalWorkSessions)
	assert.Len(t, f.gateway.LoadHistory(), 1)
}

// blockingPlayer holds every sound until release is closed.
type blockingPlayer struct {
	fakePlayer
	release chan struct{}
}

func (p *blockingPlayer) Play(ctx context.Context, s audio.Sound) error {
	_ = p.fakePlayer.Play(ctx, s)

	select {
	case <-p.release:
	case <-ctx.Done():
	}

	return nil
}

func TestNotificationDoesNotWaitForSound(t *testing.T) {
	player := &blockingPlayer{release: make(chan struct{})}
	notifier := &fakeNotifier{}

	tm := New(Deps{
		Gateway:   store.NewGateway(store.NewMemory()),
		Audio:     player,
		Notifier:  notifier,
		Scheduler: &manualScheduler{},
	}, short)
	t.Cleanup(tm.Close)

	tm.Toggle()

	assert.Eventually(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()

		return len(notifier.events) == 1
	}, time.Second, 10*time.Millisecond, "notification shown while the sound plays")

	close(player.release)
	tm.Wait()

	assert.Equal(t, []audio.Sound{audio.WorkStart}, player.sounds())
}
