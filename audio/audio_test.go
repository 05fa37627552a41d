package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/toolbox/internal/session"
)

type fakeClip struct {
	playErr error
	volume  float64
	plays   int
	stops   int
	mu      sync.Mutex
}

func (c *fakeClip) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.volume = v
}

func (c *fakeClip) Play(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.plays++

	return c.playErr
}

func (c *fakeClip) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stops++
}

type fakeBackend struct {
	clips   map[Sound]*fakeClip
	missing map[Sound]bool
	loads   map[Sound]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		clips:   make(map[Sound]*fakeClip),
		missing: make(map[Sound]bool),
		loads:   make(map[Sound]int),
	}
}

var errMissing = errors.New("file not found")

func (b *fakeBackend) Load(s Sound) (Clip, error) {
	b.loads[s]++

	if b.missing[s] {
		return nil, errMissing
	}

	c, ok := b.clips[s]
	if !ok {
		c = &fakeClip{}
		b.clips[s] = c
	}

	return c, nil
}

func TestForEvent(t *testing.T) {
	cases := []struct {
		typ   session.Type
		phase session.Phase
		want  Sound
	}{
		{session.Work, session.Start, WorkStart},
		{session.Work, session.End, WorkEnd},
		{session.ShortBreak, session.Start, BreakStart},
		{session.LongBreak, session.End, BreakEnd},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ForEvent(tc.typ, tc.phase))
	}
}

func TestManagerPreloads(t *testing.T) {
	b := newFakeBackend()

	NewManager(b, 0.5, true)

	for _, s := range Sounds {
		assert.Equal(t, 1, b.loads[s], "sound %s should be preloaded", s)
		assert.InDelta(t, 0.5, b.clips[s].volume, 0.0001)
	}
}

func TestManagerPlay(t *testing.T) {
	b := newFakeBackend()
	m := NewManager(b, 0.5, true)

	require.NoError(t, m.Play(context.Background(), WorkStart))
	require.NoError(t, m.Play(context.Background(), WorkStart))

	assert.Equal(t, 2, b.clips[WorkStart].plays)
	assert.Equal(t, 1, b.loads[WorkStart], "cached clip should be reused")
}

func TestManagerPlayDisabled(t *testing.T) {
	b := newFakeBackend()
	m := NewManager(b, 0.5, false)

	require.NoError(t, m.Play(context.Background(), WorkEnd))
	assert.Zero(t, b.clips[WorkEnd].plays)

	m.SetEnabled(true)
	assert.True(t, m.Enabled())

	require.NoError(t, m.Play(context.Background(), WorkEnd))
	assert.Equal(t, 1, b.clips[WorkEnd].plays)
}

func TestManagerLoadsOnDemand(t *testing.T) {
	b := newFakeBackend()
	b.missing[Tick] = true

	m := NewManager(b, 1, true)

	err := m.Play(context.Background(), Tick)
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissing)

	b.missing[Tick] = false

	require.NoError(t, m.Play(context.Background(), Tick))
	assert.Equal(t, 1, b.clips[Tick].plays)
	assert.Equal(t, 3, b.loads[Tick])
}

func TestManagerPlaybackError(t *testing.T) {
	b := newFakeBackend()
	m := NewManager(b, 1, true)

	b.clips[BreakStart].playErr = errors.New("device busy")

	err := m.Play(context.Background(), BreakStart)
	require.Error(t, err)
	assert.ErrorIs(t, err, errPlayback)
}

func TestManagerWithoutBackend(t *testing.T) {
	m := NewManager(nil, 1, true)

	err := m.Play(context.Background(), WorkStart)
	assert.ErrorIs(t, err, errAudioUnavailable)
}

func TestManagerVolume(t *testing.T) {
	b := newFakeBackend()
	m := NewManager(b, 3, true)

	assert.InDelta(t, 1.0, m.Volume(), 0.0001)

	m.SetVolume(-1)
	assert.Zero(t, m.Volume())

	m.SetVolume(0.25)
	assert.InDelta(t, 0.25, m.Volume(), 0.0001)

	for _, s := range Sounds {
		assert.InDelta(t, 0.25, b.clips[s].volume, 0.0001)
	}
}

func TestManagerStopAndClear(t *testing.T) {
	b := newFakeBackend()
	m := NewManager(b, 1, true)

	m.StopAll()

	for _, s := range Sounds {
		assert.Equal(t, 1, b.clips[s].stops)
	}

	m.ClearCache()

	require.NoError(t, m.Play(context.Background(), WorkStart))
	assert.Equal(t, 2, b.loads[WorkStart], "cleared clips should be reloaded")
}

func TestEnvelope(t *testing.T) {
	tone := ToneSuccess

	assert.Zero(t, Envelope(0, tone))
	assert.InDelta(t, tone.Volume/2, Envelope(5*time.Millisecond, tone), 0.0001)
	assert.InDelta(t, tone.Volume, Envelope(attack, tone), 0.0001)
	assert.InDelta(t, floorGain, Envelope(tone.Duration-time.Nanosecond, tone), 0.0001)
	assert.Zero(t, Envelope(tone.Duration, tone))

	mid := Envelope(150*time.Millisecond, tone)
	assert.Less(t, mid, tone.Volume)
	assert.Greater(t, mid, floorGain)
}

func TestTonePresets(t *testing.T) {
	assert.Equal(t, Tone{1000, 300 * time.Millisecond, 0.3}, ToneSuccess)
	assert.Equal(t, Tone{800, 200 * time.Millisecond, 0.3}, ToneNotification)
	assert.Equal(t, Tone{600, 400 * time.Millisecond, 0.3}, ToneWarning)
}

type fakeSink struct {
	err   error
	tones []Tone
}

func (s *fakeSink) PlayTone(_ context.Context, tone Tone) error {
	s.tones = append(s.tones, tone)
	return s.err
}

func TestToneGenerator(t *testing.T) {
	sink := &fakeSink{}
	g := NewToneGenerator(sink)

	g.PlaySuccess(context.Background())
	g.PlayNotification(context.Background())
	g.PlayWarning(context.Background())

	assert.Equal(t, []Tone{ToneSuccess, ToneNotification, ToneWarning}, sink.tones)

	sink.err = errors.New("no device")
	g.PlaySuccess(context.Background())

	// nil generators and sinks stay silent
	var nilGen *ToneGenerator
	nilGen.PlayWarning(context.Background())
	NewToneGenerator(nil).PlayWarning(context.Background())
}

func TestEnsureSounds(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sounds")

	custom := filepath.Join(dir, string(Tick)+".mp3")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(custom, []byte("user sound"), 0o644))

	require.NoError(t, EnsureSounds(dir))

	for _, s := range []Sound{WorkStart, WorkEnd, BreakStart, BreakEnd} {
		info, err := os.Stat(filepath.Join(dir, string(s)+".wav"))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	_, err := os.Stat(filepath.Join(dir, string(Tick)+".wav"))
	assert.ErrorIs(t, err, os.ErrNotExist, "existing sounds must not be replaced")

	clip, err := NewBeepBackend(dir).Load(WorkStart)
	require.NoError(t, err)

	bc, ok := clip.(*beepClip)
	require.True(t, ok)
	assert.Equal(t, sampleRate.N(440*time.Millisecond), bc.buf.Len())

	names, err := ListSounds(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"break-end.wav",
		"break-start.wav",
		"tick.mp3",
		"work-end.wav",
		"work-start.wav",
	}, names)
}

func TestLoadMissingSound(t *testing.T) {
	_, err := NewBeepBackend(t.TempDir()).Load(WorkEnd)
	assert.ErrorIs(t, err, errSoundNotFound)
}

func TestListSoundsMissingDir(t *testing.T) {
	names, err := ListSounds(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
