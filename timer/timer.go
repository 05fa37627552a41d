// Package timer operates the Pomodoro state machine: it counts sessions down,
// moves between work and breaks, and records every completed session
package timer

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/ayoisaiah/toolbox/audio"
	"github.com/ayoisaiah/toolbox/internal/config"
	"github.com/ayoisaiah/toolbox/internal/models"
	"github.com/ayoisaiah/toolbox/internal/session"
	"github.com/ayoisaiah/toolbox/internal/timeutil"
	"github.com/ayoisaiah/toolbox/store"
)

// tickInterval is how often a running timer counts down.
const tickInterval = time.Second

type (
	// Player plays the sound for a session transition.
	Player interface {
		Play(ctx context.Context, s audio.Sound) error
		SetVolume(v float64)
		SetEnabled(enabled bool)
	}

	// Tones are played when a transition's sound or notification fails.
	Tones interface {
		PlaySuccess(ctx context.Context)
		PlayNotification(ctx context.Context)
	}

	// Notifier shows desktop notifications for session transitions.
	Notifier interface {
		NotifySessionEvent(ctx context.Context, t session.Type, p session.Phase) error
		SetEnabled(enabled bool)
	}

	// Recorder accumulates statistics for completed sessions.
	Recorder interface {
		UpdateWork(duration int)
		UpdateBreak(duration int)
	}
)

// Deps are the collaborators of a Timer. Nil fields disable the feature they
// provide, except Scheduler and Now which default to real time.
type Deps struct {
	Gateway    *store.Gateway
	Stats      Recorder
	Audio      Player
	Tones      Tones
	Notifier   Notifier
	Scheduler  Scheduler
	Now        func() time.Time
	SessionCmd string
}

// State is what a renderer needs to draw the timer.
type State struct {
	Config            config.Pomodoro
	SessionType       session.Type
	FormattedTime     string
	TimeLeft          int
	SessionDuration   int
	SessionsCompleted int
	TotalSessions     int
	Progress          float64
	IsRunning         bool
}

// Timer is the Pomodoro state machine. All methods are safe for concurrent
// use.
type Timer struct {
	sessionStart time.Time
	lastTick     time.Time
	ctx          context.Context
	deps         Deps
	cancel       context.CancelFunc
	stopTicking  func()
	subs         map[int]func(State)
	deferred     []func()
	effects      conc.WaitGroup
	snap         models.Snapshot
	cfg          config.Pomodoro
	nextSub      int
	generation   int
	closed       bool

	// emitMu orders mutations with the delivery of their states.
	emitMu sync.Mutex
	mu     sync.Mutex
}

// New creates a Timer. Its configuration layers overrides over the stored
// preferences over the defaults, and its state is restored from the last
// saved snapshot. A restored timer is always paused.
func New(deps Deps, overrides config.PomodoroOverrides) *Timer {
	if deps.Scheduler == nil {
		deps.Scheduler = TickerScheduler{}
	}

	if deps.Now == nil {
		deps.Now = time.Now
	}

	prefs := deps.Gateway.LoadPreferences()

	var stored config.PomodoroOverrides
	if prefs.CustomConfig != nil {
		stored = *prefs.CustomConfig
	}

	cfg := config.LayerPomodoro(stored, overrides)

	if deps.Audio != nil {
		deps.Audio.SetVolume(prefs.AudioVolume)
		deps.Audio.SetEnabled(prefs.AudioNotifications)
	}

	if deps.Notifier != nil {
		deps.Notifier.SetEnabled(prefs.NotificationsEnabled)
	}

	ctx, cancel := context.WithCancel(context.Background())

	t := &Timer{
		deps:   deps,
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[int]func(State)),
	}

	t.snap = t.sanitize(
		deps.Gateway.LoadTimerState(models.DefaultSnapshot(cfg.WorkDuration)),
	)

	return t
}

// sanitize repairs a snapshot read from storage so that it describes a
// reachable, paused state.
func (t *Timer) sanitize(s models.Snapshot) models.Snapshot {
	if !s.SessionType.Valid() {
		s.SessionType = session.Work
	}

	full := t.cfg.Duration(s.SessionType)
	if s.TimeLeft <= 0 || s.TimeLeft > full {
		s.TimeLeft = full
	}

	s.SessionsCompleted = max(s.SessionsCompleted, 0)
	s.TotalSessions = max(s.TotalSessions, 0)
	s.IsRunning = false

	return s
}

// Config returns the effective configuration.
func (t *Timer) Config() config.Pomodoro {
	return t.cfg
}

// State returns the current state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state()
}

// state must be called with mu held.
func (t *Timer) state() State {
	full := t.cfg.Duration(t.snap.SessionType)

	return State{
		Config:            t.cfg,
		SessionType:       t.snap.SessionType,
		TimeLeft:          t.snap.TimeLeft,
		SessionDuration:   full,
		SessionsCompleted: t.snap.SessionsCompleted,
		TotalSessions:     t.snap.TotalSessions,
		IsRunning:         t.snap.IsRunning,
		Progress:          timeutil.Progress(full, t.snap.TimeLeft),
		FormattedTime:     timeutil.FormatTime(t.snap.TimeLeft),
	}
}

// Snapshot returns the persisted form of the current state.
func (t *Timer) Snapshot() models.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.snap
}

// Subscribe calls fn with every state the timer moves through, starting
// with the current one. fn runs synchronously and must not call back into
// the Timer.
func (t *Timer) Subscribe(fn func(State)) (unsubscribe func()) {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()

	t.mu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn
	s := t.state()
	t.mu.Unlock()

	fn(s)

	var once sync.Once

	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
		})
	}
}

// mutate runs fn under the state lock. Once the lock is released it runs the
// work fn deferred and delivers every state fn recorded to the subscribers.
// Deferred work may therefore read the Timer.
func (t *Timer) mutate(fn func(record func())) {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()

	t.mu.Lock()

	var states []State

	fn(func() {
		states = append(states, t.state())
	})

	subs := make([]func(State), 0, len(t.subs))
	for _, sub := range t.subs {
		subs = append(subs, sub)
	}

	deferred := t.deferred
	t.deferred = nil

	t.mu.Unlock()

	for _, d := range deferred {
		d()
	}

	for _, s := range states {
		for _, sub := range subs {
			sub(s)
		}
	}
}

// commit persists the snapshot, reconciles the tick schedule and records
// the resulting state. It must be called with mu held.
func (t *Timer) commit(record func()) {
	t.deps.Gateway.SaveTimerState(t.snap)
	t.schedule()
	record()
}

// schedule starts the one second tick while the timer is running with time
// left and stops it otherwise. It must be called with mu held.
func (t *Timer) schedule() {
	want := !t.closed && t.snap.IsRunning && t.snap.TimeLeft > 0

	switch {
	case want && t.stopTicking == nil:
		t.generation++
		gen := t.generation
		t.stopTicking = t.deps.Scheduler.Every(tickInterval, func() {
			t.scheduledTick(gen)
		})
	case !want && t.stopTicking != nil:
		t.stopTicking()
		t.stopTicking = nil
		t.generation++
	}
}

// Toggle starts or pauses the timer. Starting records the session start and
// announces it.
func (t *Timer) Toggle() {
	t.mutate(func(record func()) {
		t.snap.IsRunning = !t.snap.IsRunning

		if t.snap.IsRunning {
			now := t.deps.Now()
			t.sessionStart = now
			t.lastTick = now

			t.announce(t.snap.SessionType, session.Start)
		}

		t.commit(record)
	})
}

// Tick counts down one second. When no time is left the session completes.
// It is a no-op unless the timer is running with time left.
func (t *Timer) Tick() {
	t.mutate(func(record func()) {
		t.tick(record)
	})
}

// scheduledTick ignores ticks from a schedule that has since been stopped.
func (t *Timer) scheduledTick(gen int) {
	t.mutate(func(record func()) {
		if gen != t.generation {
			return
		}

		t.tick(record)
	})
}

func (t *Timer) tick(record func()) {
	if !t.snap.IsRunning || t.snap.TimeLeft <= 0 {
		return
	}

	t.lastTick = t.deps.Now()
	t.snap.TimeLeft--

	if t.snap.TimeLeft > 0 {
		t.commit(record)
		return
	}

	record()
	t.complete(record)
}

// Reset restores the full duration of the current session and pauses.
func (t *Timer) Reset() {
	t.mutate(func(record func()) {
		t.snap.TimeLeft = t.cfg.Duration(t.snap.SessionType)
		t.snap.IsRunning = false
		t.sessionStart = time.Time{}

		t.commit(record)
	})
}

// Skip moves on to the next session without recording the current one.
func (t *Timer) Skip() {
	t.mutate(func(record func()) {
		next := t.next(t.snap.SessionType, t.snap.SessionsCompleted)

		t.snap.SessionType = next
		t.snap.TimeLeft = t.cfg.Duration(next)
		t.snap.TotalSessions++
		t.snap.IsRunning = false
		t.sessionStart = time.Time{}

		t.commit(record)
	})
}

// ResetAll returns the timer to a fresh work session with zero counters and
// removes the saved snapshot.
func (t *Timer) ResetAll() {
	t.mutate(func(record func()) {
		t.snap = models.DefaultSnapshot(t.cfg.WorkDuration)
		t.sessionStart = time.Time{}

		t.deps.Gateway.Clear(store.KindTimerState)
		t.schedule()
		record()
	})
}

// SetVisible tells the timer whether its host is in the foreground. Ticks
// may be lost while hidden, so on becoming visible a running timer catches
// up on the wall clock time that passed since the last tick.
func (t *Timer) SetVisible(visible bool) {
	if !visible {
		return
	}

	t.mutate(func(record func()) {
		if !t.snap.IsRunning || t.lastTick.IsZero() {
			return
		}

		now := t.deps.Now()
		elapsed := int(now.Sub(t.lastTick) / time.Second)
		t.lastTick = now

		if elapsed <= 1 {
			return
		}

		t.snap.TimeLeft = max(t.snap.TimeLeft-elapsed, 0)

		if t.snap.TimeLeft > 0 {
			t.commit(record)
			return
		}

		record()
		t.complete(record)
	})
}

// next returns the session that follows current given the number of work
// sessions completed so far.
func (t *Timer) next(current session.Type, completed int) session.Type {
	if current != session.Work {
		return session.Work
	}

	if completed%t.cfg.SessionsBeforeLongBreak == 0 {
		return session.LongBreak
	}

	return session.ShortBreak
}

// complete records the finished session and moves on to the next one. It
// must be called with mu held from within mutate.
func (t *Timer) complete(record func()) {
	now := t.deps.Now()
	finished := t.snap.SessionType
	duration := t.cfg.Duration(finished)

	start := t.sessionStart
	if start.IsZero() {
		start = now
	}

	entry := models.HistoryEntry{
		ID:          timeutil.GenerateID(),
		SessionType: finished,
		StartTime:   start,
		EndTime:     now,
		Duration:    duration,
		Completed:   true,
	}

	// statistics subscribers may read the timer, so recording waits for mu
	// to be released
	gateway, recorder := t.deps.Gateway, t.deps.Stats

	t.deferred = append(t.deferred, func() {
		gateway.AppendHistory(entry)

		if recorder == nil {
			return
		}

		if finished == session.Work {
			recorder.UpdateWork(duration)
		} else {
			recorder.UpdateBreak(duration)
		}
	})

	t.finish(finished)

	completed := t.snap.SessionsCompleted
	if finished == session.Work {
		completed++
	}

	next := t.next(finished, completed)

	t.snap = models.Snapshot{
		SessionType:       next,
		TimeLeft:          t.cfg.Duration(next),
		SessionsCompleted: completed,
		TotalSessions:     t.snap.TotalSessions + 1,
		IsRunning:         false,
	}
	t.sessionStart = time.Time{}

	t.commit(record)
}

// Wait blocks until every pending sound, notification and session command
// has finished.
func (t *Timer) Wait() {
	t.effects.Wait()
}

// Close stops the timer for good: ticking stops and pending side effects
// are cancelled and waited for.
func (t *Timer) Close() {
	t.mu.Lock()
	t.closed = true
	t.schedule()
	t.mu.Unlock()

	t.cancel()
	t.effects.Wait()
}
