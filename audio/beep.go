package audio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/maruel/natural"

	"github.com/ayoisaiah/toolbox/internal/osutil"
)

const sampleRate = beep.SampleRate(44100)

var format = beep.Format{
	SampleRate:  sampleRate,
	NumChannels: 2,
	Precision:   2,
}

// Extensions are tried in this order when looking up a sound file.
var Extensions = []string{".ogg", ".mp3", ".flac", ".wav"}

var (
	speakerOnce sync.Once
	speakerErr  error
)

// initSpeaker opens the audio device once for the whole process.
func initSpeaker() error {
	speakerOnce.Do(func() {
		bufferSize := 10

		speakerErr = speaker.Init(
			sampleRate,
			sampleRate.N(time.Duration(int(time.Second)/bufferSize)),
		)
	})

	return speakerErr
}

// BeepBackend loads sound files from a directory and plays them on the
// default audio device.
type BeepBackend struct {
	dir string
}

func NewBeepBackend(dir string) *BeepBackend {
	return &BeepBackend{dir: dir}
}

// path returns the first existing file for s.
func (b *BeepBackend) path(s Sound) (string, error) {
	for _, ext := range Extensions {
		p := filepath.Join(b.dir, string(s)+ext)

		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", errSoundNotFound.Fmt(s, b.dir)
}

// decode returns an audio stream for the file at path.
func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		stream beep.StreamSeekCloser
		sf     beep.Format
	)

	switch filepath.Ext(path) {
	case ".ogg":
		stream, sf, err = vorbis.Decode(f)
	case ".mp3":
		stream, sf, err = mp3.Decode(f)
	case ".flac":
		stream, sf, err = flac.Decode(f)
	case ".wav":
		stream, sf, err = wav.Decode(f)
	default:
		err = errInvalidSoundFormat
	}

	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, err
	}

	return stream, sf, nil
}

// Load decodes the file for s into memory.
func (b *BeepBackend) Load(s Sound) (Clip, error) {
	path, err := b.path(s)
	if err != nil {
		return nil, err
	}

	stream, streamFormat, err := decode(path)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	defer stream.Close()

	var src beep.Streamer = stream

	if streamFormat.SampleRate != sampleRate {
		src = beep.Resample(4, streamFormat.SampleRate, sampleRate, stream)
	}

	buf := beep.NewBuffer(format)
	buf.Append(src)

	return &beepClip{buf: buf, volume: 1}, nil
}

// PlayTone synthesizes tone on the audio device.
func (b *BeepBackend) PlayTone(ctx context.Context, tone Tone) error {
	if err := initSpeaker(); err != nil {
		return errAudioUnavailable.Wrap(err)
	}

	s, err := toneStreamer(tone)
	if err != nil {
		return err
	}

	return playAndWait(ctx, &beep.Ctrl{Streamer: s})
}

// playAndWait plays ctrl and blocks until it drains or ctx is done.
func playAndWait(ctx context.Context, ctrl *beep.Ctrl) error {
	done := make(chan struct{})

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Lock()
		ctrl.Streamer = nil
		speaker.Unlock()

		return ctx.Err()
	}
}

type beepClip struct {
	buf    *beep.Buffer
	ctrl   *beep.Ctrl
	volume float64
	mu     sync.Mutex
}

func (c *beepClip) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.volume = v
}

// gain converts a linear volume to the base 2 exponent used by
// effects.Volume.
func gain(v float64) (exp float64, silent bool) {
	if v <= 0 {
		return 0, true
	}

	return math.Log2(v), false
}

func (c *beepClip) Play(ctx context.Context) error {
	if err := initSpeaker(); err != nil {
		return errAudioUnavailable.Wrap(err)
	}

	c.mu.Lock()

	exp, silent := gain(c.volume)

	ctrl := &beep.Ctrl{
		Streamer: &effects.Volume{
			Streamer: c.buf.Streamer(0, c.buf.Len()),
			Base:     2,
			Volume:   exp,
			Silent:   silent,
		},
	}
	c.ctrl = ctrl

	c.mu.Unlock()

	return playAndWait(ctx, ctrl)
}

func (c *beepClip) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ctrl == nil {
		return
	}

	speaker.Lock()
	c.ctrl.Streamer = nil
	speaker.Unlock()

	c.ctrl = nil
}

// toneStreamer returns a finite sine wave shaped by Envelope.
func toneStreamer(tone Tone) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, tone.Frequency)
	if err != nil {
		return nil, err
	}

	var pos int

	shaped := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := sine.Stream(samples)

		for i := range samples[:n] {
			g := Envelope(sampleRate.D(pos), tone)
			samples[i][0] *= g
			samples[i][1] *= g
			pos++
		}

		return n, ok
	})

	return beep.Take(sampleRate.N(tone.Duration), shaped), nil
}

// chimes are the tone sequences written for missing sound files.
var chimes = map[Sound][]Tone{
	WorkStart: {
		{Frequency: 660, Duration: 180 * time.Millisecond, Volume: 0.5},
		{Frequency: 880, Duration: 260 * time.Millisecond, Volume: 0.5},
	},
	WorkEnd: {
		{Frequency: 880, Duration: 180 * time.Millisecond, Volume: 0.5},
		{Frequency: 660, Duration: 180 * time.Millisecond, Volume: 0.5},
		{Frequency: 990, Duration: 320 * time.Millisecond, Volume: 0.5},
	},
	BreakStart: {
		{Frequency: 520, Duration: 220 * time.Millisecond, Volume: 0.4},
		{Frequency: 440, Duration: 320 * time.Millisecond, Volume: 0.4},
	},
	BreakEnd: {
		{Frequency: 440, Duration: 180 * time.Millisecond, Volume: 0.5},
		{Frequency: 660, Duration: 180 * time.Millisecond, Volume: 0.5},
		{Frequency: 880, Duration: 260 * time.Millisecond, Volume: 0.5},
	},
	Tick: {
		{Frequency: 1200, Duration: 30 * time.Millisecond, Volume: 0.3},
	},
}

// EnsureSounds writes a synthesized WAV chime into dir for every sound that
// has no file yet. Existing files are left untouched.
func EnsureSounds(dir string) error {
	if err := os.MkdirAll(dir, osutil.DirPermission); err != nil {
		return err
	}

	b := NewBeepBackend(dir)

	for _, s := range Sounds {
		if _, err := b.path(s); err == nil {
			continue
		}

		if err := writeChime(filepath.Join(dir, string(s)+".wav"), chimes[s]); err != nil {
			return fmt.Errorf("writing %s: %w", s, err)
		}
	}

	return nil
}

func writeChime(path string, tones []Tone) (err error) {
	streamers := make([]beep.Streamer, 0, len(tones))

	for _, t := range tones {
		s, err := toneStreamer(t)
		if err != nil {
			return err
		}

		streamers = append(streamers, s)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		ferr := f.Close()
		if err == nil {
			err = ferr
		}
	}()

	return wav.Encode(f, beep.Seq(streamers...), format)
}

// ListSounds returns the names of the sound files in dir in natural order.
func ListSounds(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	var names []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		names = append(names, e.Name())
	}

	sort.Sort(natural.StringSlice(names))

	return names, nil
}
