// Package notify shows desktop notifications for session transitions
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ayoisaiah/toolbox/internal/session"
)

// Permission is the platform's answer to whether notifications may be shown.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// AutoClose is how long a notification stays on screen.
const AutoClose = 5 * time.Second

// Notification is a single desktop notification. Notifications sharing a
// Tag replace each other where the backend supports it.
type Notification struct {
	Title string
	Body  string
	Icon  string
	Tag   string
}

// Options are the optional fields of a generic notification.
type Options struct {
	Body string
	Icon string
	Tag  string
}

// Handle refers to a notification that is on screen.
type Handle interface {
	Close() error
}

// Backend is a desktop notification surface.
type Backend interface {
	// Supported reports whether notifications can be shown at all
	Supported() bool
	// Permission returns the current permission without prompting
	Permission() Permission
	// RequestPermission asks the platform for permission
	RequestPermission(ctx context.Context) (Permission, error)
	// Show displays n. onClick is invoked when the user activates it.
	Show(ctx context.Context, n Notification, onClick func()) (Handle, error)
}

var templates = map[string]Notification{
	session.EventKey(session.Work, session.Start): {
		Title: "🍅 Work Session Started",
		Body:  "Time to focus! Let's get productive.",
		Tag:   "pomodoro-work-start",
	},
	session.EventKey(session.Work, session.End): {
		Title: "✅ Work Session Complete",
		Body:  "Great job! Time for a well-deserved break.",
		Tag:   "pomodoro-work-end",
	},
	session.EventKey(session.ShortBreak, session.Start): {
		Title: "☕ Short Break Started",
		Body:  "Take a moment to relax and recharge.",
		Tag:   "pomodoro-short-break-start",
	},
	session.EventKey(session.ShortBreak, session.End): {
		Title: "⏰ Break Time Over",
		Body:  "Ready to get back to work?",
		Tag:   "pomodoro-short-break-end",
	},
	session.EventKey(session.LongBreak, session.Start): {
		Title: "🌟 Long Break Started",
		Body:  "Enjoy your extended break - you earned it!",
		Tag:   "pomodoro-long-break-start",
	},
	session.EventKey(session.LongBreak, session.End): {
		Title: "🚀 Ready to Continue",
		Body:  "Feeling refreshed? Let's start another work session.",
		Tag:   "pomodoro-long-break-end",
	},
}

// Template returns the notification shown for a session event.
func Template(t session.Type, p session.Phase) (Notification, bool) {
	n, ok := templates[session.EventKey(t, p)]
	return n, ok
}

type shown struct {
	handle Handle
	timer  *time.Timer
}

// Manager gates notifications on permission and the user's preference, and
// dismisses them automatically.
type Manager struct {
	backend    Backend
	focus      func()
	open       map[*shown]struct{}
	icon       string
	permission Permission
	autoClose  time.Duration
	enabled    bool
	mu         sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithFocus sets the callback that brings the app to the foreground when a
// notification is clicked.
func WithFocus(fn func()) Option {
	return func(m *Manager) {
		m.focus = fn
	}
}

// WithIcon sets the icon used when a notification does not name one.
func WithIcon(path string) Option {
	return func(m *Manager) {
		m.icon = path
	}
}

// WithAutoClose changes how long notifications stay on screen.
func WithAutoClose(d time.Duration) Option {
	return func(m *Manager) {
		m.autoClose = d
	}
}

// NewManager creates a Manager on top of b. A nil backend is valid and
// results in a Manager that never shows anything.
func NewManager(b Backend, opts ...Option) *Manager {
	m := &Manager{
		backend:    b,
		open:       make(map[*shown]struct{}),
		permission: PermissionDefault,
		autoClose:  AutoClose,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.supported() {
		m.permission = b.Permission()
		m.enabled = m.permission == PermissionGranted
	}

	return m
}

func (m *Manager) supported() bool {
	return m.backend != nil && m.backend.Supported()
}

// RequestPermission asks the platform for permission if it has not been
// decided yet and returns the resulting permission.
func (m *Manager) RequestPermission(ctx context.Context) Permission {
	if !m.supported() {
		return PermissionDenied
	}

	m.mu.Lock()
	current := m.permission
	m.mu.Unlock()

	if current != PermissionDefault {
		return current
	}

	p, err := m.backend.RequestPermission(ctx)
	if err != nil {
		slog.Warn(
			"failed to request notification permission",
			slog.Any("error", errPermission.Wrap(err)),
		)

		return PermissionDenied
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.permission = p
	m.enabled = p == PermissionGranted

	return p
}

func (m *Manager) Permission() Permission {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.permission
}

func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.enabled
}

// SetEnabled turns notifications on or off. They stay off unless permission
// has been granted.
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.enabled = enabled && m.permission == PermissionGranted
}

// NotifySessionEvent shows the notification for the start or end of a
// session. It does nothing when notifications are disabled or unsupported.
func (m *Manager) NotifySessionEvent(
	ctx context.Context,
	t session.Type,
	p session.Phase,
) error {
	if !m.Enabled() || !m.supported() {
		return nil
	}

	n, ok := Template(t, p)
	if !ok {
		return nil
	}

	return m.display(ctx, n)
}

func (m *Manager) NotifyWorkStart(ctx context.Context) error {
	return m.NotifySessionEvent(ctx, session.Work, session.Start)
}

func (m *Manager) NotifyWorkEnd(ctx context.Context) error {
	return m.NotifySessionEvent(ctx, session.Work, session.End)
}

func (m *Manager) NotifyBreakStart(ctx context.Context, t session.Type) error {
	return m.NotifySessionEvent(ctx, t, session.Start)
}

func (m *Manager) NotifyBreakEnd(ctx context.Context, t session.Type) error {
	return m.NotifySessionEvent(ctx, t, session.End)
}

// Show displays an arbitrary notification under the same gating as session
// notifications.
func (m *Manager) Show(ctx context.Context, title string, opts Options) error {
	if !m.Enabled() || !m.supported() {
		return nil
	}

	return m.display(ctx, Notification{
		Title: title,
		Body:  opts.Body,
		Icon:  opts.Icon,
		Tag:   opts.Tag,
	})
}

func (m *Manager) display(ctx context.Context, n Notification) error {
	if n.Icon == "" {
		n.Icon = m.icon
	}

	s := &shown{}

	h, err := m.backend.Show(ctx, n, func() {
		m.clicked(s)
	})
	if err != nil {
		err = errShow.Wrap(err)

		slog.Warn(
			"failed to show notification",
			slog.String("title", n.Title),
			slog.Any("error", err),
		)

		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s.handle = h
	s.timer = time.AfterFunc(m.autoClose, func() {
		m.dismiss(s)
	})
	m.open[s] = struct{}{}

	return nil
}

func (m *Manager) clicked(s *shown) {
	if m.focus != nil {
		m.focus()
	}

	m.dismiss(s)
}

// dismiss closes s unless it was already closed.
func (m *Manager) dismiss(s *shown) {
	m.mu.Lock()

	if _, ok := m.open[s]; !ok {
		m.mu.Unlock()
		return
	}

	delete(m.open, s)
	s.timer.Stop()

	m.mu.Unlock()

	closeHandle(s.handle)
}

// ClearAll closes every notification that is still on screen.
func (m *Manager) ClearAll() {
	m.mu.Lock()

	handles := make([]Handle, 0, len(m.open))

	for s := range m.open {
		s.timer.Stop()
		handles = append(handles, s.handle)
		delete(m.open, s)
	}

	m.mu.Unlock()

	for _, h := range handles {
		closeHandle(h)
	}
}

func closeHandle(h Handle) {
	if h == nil {
		return
	}

	if err := h.Close(); err != nil {
		slog.Debug("closing notification failed", slog.Any("error", err))
	}
}
