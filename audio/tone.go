package audio

import (
	"context"
	"log/slog"
	"math"
	"time"
)

// Tone is a short sine wave beep.
type Tone struct {
	Frequency float64
	Duration  time.Duration
	Volume    float64
}

// Fallback presets.
var (
	ToneSuccess      = Tone{Frequency: 1000, Duration: 300 * time.Millisecond, Volume: 0.3}
	ToneNotification = Tone{Frequency: 800, Duration: 200 * time.Millisecond, Volume: 0.3}
	ToneWarning      = Tone{Frequency: 600, Duration: 400 * time.Millisecond, Volume: 0.3}
)

const (
	attack    = 10 * time.Millisecond
	floorGain = 0.001
)

// Envelope returns the gain of tone at elapsed time t: a linear attack to
// the tone volume over the first 10ms followed by an exponential decay that
// reaches 0.001 at the end of the tone.
func Envelope(t time.Duration, tone Tone) float64 {
	switch {
	case t < 0 || t >= tone.Duration || tone.Volume <= 0:
		return 0
	case t < attack:
		return tone.Volume * float64(t) / float64(attack)
	}

	decay := tone.Duration - attack
	if decay <= 0 {
		return tone.Volume
	}

	progress := float64(t-attack) / float64(decay)

	return tone.Volume * math.Pow(floorGain/tone.Volume, progress)
}

// ToneSink renders tones on an audio device.
type ToneSink interface {
	PlayTone(ctx context.Context, tone Tone) error
}

// ToneGenerator plays fallback tones. It never reports failure: without a
// working sink it stays silent.
type ToneGenerator struct {
	sink ToneSink
}

func NewToneGenerator(sink ToneSink) *ToneGenerator {
	return &ToneGenerator{sink: sink}
}

// Play renders tone and blocks until it ends.
func (g *ToneGenerator) Play(ctx context.Context, tone Tone) {
	if g == nil || g.sink == nil {
		return
	}

	if err := g.sink.PlayTone(ctx, tone); err != nil {
		slog.Debug("tone playback failed", slog.Any("error", err))
	}
}

func (g *ToneGenerator) PlaySuccess(ctx context.Context) {
	g.Play(ctx, ToneSuccess)
}

func (g *ToneGenerator) PlayNotification(ctx context.Context) {
	g.Play(ctx, ToneNotification)
}

func (g *ToneGenerator) PlayWarning(ctx context.Context) {
	g.Play(ctx, ToneWarning)
}
