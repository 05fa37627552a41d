// Package audio plays the session transition sounds and synthesizes fallback
// tones
package audio

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ayoisaiah/toolbox/internal/session"
)

// Sound is a logical sound played on a session transition.
type Sound string

const (
	WorkStart  Sound = "work-start"
	WorkEnd    Sound = "work-end"
	BreakStart Sound = "break-start"
	BreakEnd   Sound = "break-end"
	Tick       Sound = "tick"
)

// Sounds lists every logical sound.
var Sounds = []Sound{WorkStart, WorkEnd, BreakStart, BreakEnd, Tick}

// ForEvent returns the sound for the start or end of a session.
func ForEvent(t session.Type, p session.Phase) Sound {
	switch {
	case t == session.Work && p == session.Start:
		return WorkStart
	case t == session.Work:
		return WorkEnd
	case p == session.Start:
		return BreakStart
	default:
		return BreakEnd
	}
}

// Clip is a loaded, replayable sound.
type Clip interface {
	// SetVolume sets the playback volume in the range 0 to 1
	SetVolume(v float64)
	// Play rewinds the clip and blocks until playback ends or ctx is done
	Play(ctx context.Context) error
	// Stop halts playback
	Stop()
}

// Backend loads clips for logical sounds.
type Backend interface {
	Load(s Sound) (Clip, error)
}

// Manager plays cached clips. A Manager with a nil Backend never makes a
// sound.
type Manager struct {
	backend Backend
	cache   map[Sound]Clip
	volume  float64
	enabled bool
	mu      sync.Mutex
}

func clamp(v float64) float64 {
	return min(max(v, 0), 1)
}

// NewManager creates a Manager and preloads every sound. Sounds that fail to
// load are retried on first play.
func NewManager(b Backend, volume float64, enabled bool) *Manager {
	m := &Manager{
		backend: b,
		cache:   make(map[Sound]Clip),
		volume:  clamp(volume),
		enabled: enabled,
	}

	if b == nil {
		return m
	}

	for _, s := range Sounds {
		clip, err := b.Load(s)
		if err != nil {
			slog.Debug(
				"preloading sound failed",
				slog.String("sound", string(s)),
				slog.Any("error", err),
			)

			continue
		}

		clip.SetVolume(m.volume)
		m.cache[s] = clip
	}

	return m
}

// clip returns the cached clip for s, loading it if needed.
func (m *Manager) clip(s Sound) (Clip, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.cache[s]; ok {
		return c, m.volume, nil
	}

	if m.backend == nil {
		return nil, 0, errAudioUnavailable
	}

	c, err := m.backend.Load(s)
	if err != nil {
		return nil, 0, errLoadSound.Fmt(s).Wrap(err)
	}

	m.cache[s] = c

	return c, m.volume, nil
}

// Play plays s from the beginning and blocks until it finishes. It is a no-op
// when the manager is disabled. Errors are logged and returned so callers
// can fall back to a tone.
func (m *Manager) Play(ctx context.Context, s Sound) error {
	if !m.Enabled() {
		return nil
	}

	c, vol, err := m.clip(s)
	if err != nil {
		slog.Warn(
			"unable to play sound",
			slog.String("sound", string(s)),
			slog.Any("error", err),
		)

		return err
	}

	c.SetVolume(vol)

	if err := c.Play(ctx); err != nil {
		slog.Warn(
			"sound playback failed",
			slog.String("sound", string(s)),
			slog.Any("error", err),
		)

		return errPlayback.Fmt(s).Wrap(err)
	}

	return nil
}

// SetVolume clamps v to [0, 1] and applies it to every cached clip.
func (m *Manager) SetVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.volume = clamp(v)

	for _, c := range m.cache {
		c.SetVolume(m.volume)
	}
}

func (m *Manager) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.volume
}

func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.enabled = enabled
}

func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.enabled
}

// StopAll halts every playing clip.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.cache {
		c.Stop()
	}
}

// ClearCache stops and drops every cached clip.
func (m *Manager) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for s, c := range m.cache {
		c.Stop()
		delete(m.cache, s)
	}
}
