package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/adrg/xdg"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/toolbox/audio"
	"github.com/ayoisaiah/toolbox/internal/config"
	"github.com/ayoisaiah/toolbox/notify"
	"github.com/ayoisaiah/toolbox/stats"
	"github.com/ayoisaiah/toolbox/store"
	"github.com/ayoisaiah/toolbox/timer"
)

const (
	metaConfig  = "config"
	metaLogFile = "log_file"
	appName     = "toolbox"
)

// configFrom returns the configuration loaded by beforeAction.
func configFrom(ctx *cli.Context) *config.Config {
	if cfg, ok := ctx.App.Metadata[metaConfig].(*config.Config); ok {
		return cfg
	}

	return &config.Config{}
}

// loadConfig reads the config file and applies the command-line flags.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	if err := config.InitializePaths(); err != nil {
		return nil, err
	}

	return config.New(
		config.WithViperConfig(config.ConfigFilePath()),
		config.WithCLIConfig(ctx),
	)
}

// env holds the persistence layer shared by every command.
type env struct {
	cfg     *config.Config
	gateway *store.Gateway
	stats   *stats.Store
}

func openEnv(cfg *config.Config) (*env, error) {
	db, err := store.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	g := store.NewGateway(db)

	return &env{
		cfg:     cfg,
		gateway: g,
		stats:   stats.New(g),
	}, nil
}

func (e *env) Close() error {
	return e.gateway.Close()
}

// pomodoro returns the effective timer configuration without starting a
// timer.
func (e *env) pomodoro() config.Pomodoro {
	prefs := e.gateway.LoadPreferences()

	var stored config.PomodoroOverrides
	if prefs.CustomConfig != nil {
		stored = *prefs.CustomConfig
	}

	return config.LayerPomodoro(stored, e.cfg.Pomodoro)
}

// services are the audio and notification collaborators of a timer.
type services struct {
	player   *audio.Manager
	tones    *audio.ToneGenerator
	notifier *notify.Manager
	onFocus  atomic.Pointer[func()]
	closers  []io.Closer
}

// focus runs the callback registered with setFocus, if any. A click on a
// desktop notification lands here.
func (s *services) focus() {
	if fn := s.onFocus.Load(); fn != nil {
		(*fn)()
	}
}

func (s *services) setFocus(fn func()) {
	s.onFocus.Store(&fn)
}

func (s *services) Close() {
	s.notifier.ClearAll()
	s.player.StopAll()

	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			slog.Debug("closing service failed", slog.Any("error", err))
		}
	}
}

// newServices wires the sound and desktop notification backends. Failures
// only disable the feature.
func newServices(ctx context.Context, e *env) *services {
	soundDir := e.cfg.Sound.Dir

	if err := audio.EnsureSounds(soundDir); err != nil {
		slog.Warn("unable to write default sounds", slog.Any("error", err))
	}

	backend := audio.NewBeepBackend(soundDir)
	prefs := e.gateway.LoadPreferences()

	s := &services{
		player: audio.NewManager(
			backend,
			prefs.AudioVolume,
			prefs.AudioNotifications,
		),
		tones: audio.NewToneGenerator(backend),
	}

	nb, err := notify.NewBackend(e.cfg.Notifications.Backend, appName)
	if err != nil {
		slog.Warn("desktop notifications unavailable", slog.Any("error", err))
	}

	if c, ok := nb.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}

	// pathToIcon is empty unless the user placed an icon in the data dir
	pathToIcon, _ := xdg.SearchDataFile(
		filepath.Join(config.Dir(), "icon.png"),
	)

	s.notifier = notify.NewManager(
		nb,
		notify.WithIcon(pathToIcon),
		notify.WithFocus(s.focus),
	)
	s.notifier.RequestPermission(ctx)

	return s
}

// newTimer builds the state machine on top of e and s.
func newTimer(e *env, s *services) *timer.Timer {
	return timer.New(timer.Deps{
		Gateway:    e.gateway,
		Stats:      e.stats,
		Audio:      s.player,
		Tones:      s.tones,
		Notifier:   s.notifier,
		SessionCmd: e.cfg.Settings.SessionCmd,
	}, e.cfg.Pomodoro)
}
