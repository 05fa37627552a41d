package app

import (
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayoisaiah/toolbox/internal/config"
)

const (
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// setupLogging sends the default slog logger to a rotated JSON log file.
// The returned closer flushes and closes the file.
func setupLogging(cfg *config.Config, path string) io.Closer {
	var level slog.Level

	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Log.Level))); err != nil {
		level = slog.LevelInfo
	}

	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	slog.SetDefault(slog.New(handler).With(
		slog.String("version", config.Version),
	))

	return w
}
