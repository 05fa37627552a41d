package notify

import (
	"log/slog"

	"github.com/ayoisaiah/toolbox/internal/config"
)

// NewBackend returns the backend named by the notifications.backend setting.
// "auto" prefers D-Bus and falls back to beeep. "off" returns a nil backend.
func NewBackend(name, appName string) (Backend, error) {
	switch name {
	case config.BackendOff:
		return nil, nil
	case config.BackendBeeep:
		return NewBeeepBackend(), nil
	case config.BackendDBus:
		b, err := NewDBusBackend(appName)
		if err != nil {
			return nil, err
		}

		return b, nil
	}

	b, err := NewDBusBackend(appName)
	if err == nil {
		return b, nil
	}

	slog.Debug(
		"dbus notifications unavailable, falling back to beeep",
		slog.Any("error", err),
	)

	return NewBeeepBackend(), nil
}
