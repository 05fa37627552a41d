package timer

import (
	"context"
	"log/slog"
	"os/exec"

	"github.com/kballard/go-shellquote"
	"github.com/sourcegraph/conc/pool"

	"github.com/ayoisaiah/toolbox/audio"
	"github.com/ayoisaiah/toolbox/internal/session"
)

// announce plays the sound and shows the notification for a session event
// in the background. A failure of either falls back to a tone. It must be
// called with mu held.
func (t *Timer) announce(typ session.Type, phase session.Phase) {
	if t.closed {
		return
	}

	ctx := t.ctx
	deps := t.deps

	t.effects.Go(func() {
		err := playAndNotify(ctx, deps, typ, phase)
		if err == nil {
			return
		}

		slog.Debug(
			"session announcement failed, playing fallback tone",
			slog.String("session", string(typ)),
			slog.String("phase", string(phase)),
			slog.Any("error", err),
		)

		if deps.Tones == nil {
			return
		}

		if phase == session.End {
			deps.Tones.PlaySuccess(ctx)
		} else {
			deps.Tones.PlayNotification(ctx)
		}
	})
}

// playAndNotify plays the sound and shows the notification side by side,
// since a sound only returns once it has finished playing.
func playAndNotify(
	ctx context.Context,
	deps Deps,
	typ session.Type,
	phase session.Phase,
) error {
	p := pool.New().WithErrors()

	if deps.Audio != nil {
		p.Go(func() error {
			return deps.Audio.Play(ctx, audio.ForEvent(typ, phase))
		})
	}

	if deps.Notifier != nil {
		p.Go(func() error {
			return deps.Notifier.NotifySessionEvent(ctx, typ, phase)
		})
	}

	return p.Wait()
}

// finish announces the end of a session and runs the session command. It
// must be called with mu held.
func (t *Timer) finish(finished session.Type) {
	t.announce(finished, session.End)

	if t.closed || t.deps.SessionCmd == "" {
		return
	}

	ctx := t.ctx
	cmd := t.deps.SessionCmd

	t.effects.Go(func() {
		if err := runSessionCmd(ctx, cmd); err != nil {
			slog.Warn("session command failed", slog.Any("error", err))
		}
	})
}

// runSessionCmd executes the user's session command.
func runSessionCmd(ctx context.Context, sessionCmd string) error {
	if sessionCmd == "" {
		return nil
	}

	cmdSlice, err := shellquote.Split(sessionCmd)
	if err != nil {
		return errParseSessionCmd.Wrap(err)
	}

	if len(cmdSlice) == 0 {
		return nil
	}

	name := cmdSlice[0]
	args := cmdSlice[1:]

	if err := exec.CommandContext(ctx, name, args...).Run(); err != nil {
		return errRunSessionCmd.Fmt(sessionCmd).Wrap(err)
	}

	return nil
}
