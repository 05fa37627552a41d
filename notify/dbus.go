package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	dbusDest      = "org.freedesktop.Notifications"
	dbusPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
	dbusInterface = "org.freedesktop.Notifications"

	dbusNotify            = dbusInterface + ".Notify"
	dbusCloseNotification = dbusInterface + ".CloseNotification"
	dbusGetCapabilities   = dbusInterface + ".GetCapabilities"
	dbusActionInvoked     = dbusInterface + ".ActionInvoked"
	dbusNotificationClose = dbusInterface + ".NotificationClosed"

	defaultAction = "default"
	closeTimeout  = 2 * time.Second
)

// DBusBackend talks to the freedesktop notification server on the session
// bus. Unlike beeep it can replace, close, and react to clicks on the
// notifications it shows.
type DBusBackend struct {
	conn    *dbus.Conn
	obj     dbus.BusObject
	signals chan *dbus.Signal
	clicks  map[uint32]func()
	tags    map[string]uint32
	appName string
	mu      sync.Mutex
}

// NewDBusBackend connects to the session bus and verifies that a
// notification server is listening.
func NewDBusBackend(appName string) (*DBusBackend, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, errSessionBus.Wrap(err)
	}

	obj := conn.Object(dbusDest, dbusPath)

	var caps []string

	err = obj.Call(dbusGetCapabilities, 0).Store(&caps)
	if err != nil {
		_ = conn.Close()
		return nil, errNoServer.Wrap(err)
	}

	b := &DBusBackend{
		conn:    conn,
		obj:     obj,
		signals: make(chan *dbus.Signal, 16),
		clicks:  make(map[uint32]func()),
		tags:    make(map[string]uint32),
		appName: appName,
	}

	err = conn.AddMatchSignal(
		dbus.WithMatchObjectPath(dbusPath),
		dbus.WithMatchInterface(dbusInterface),
	)
	if err != nil {
		_ = conn.Close()
		return nil, errSessionBus.Wrap(err)
	}

	conn.Signal(b.signals)

	go b.listen()

	slog.Debug("using dbus notifications", slog.Any("capabilities", caps))

	return b, nil
}

// listen dispatches click and close signals until the connection is closed.
func (b *DBusBackend) listen() {
	for sig := range b.signals {
		if len(sig.Body) == 0 {
			continue
		}

		id, ok := sig.Body[0].(uint32)
		if !ok {
			continue
		}

		switch sig.Name {
		case dbusActionInvoked:
			b.mu.Lock()
			fn := b.clicks[id]
			b.mu.Unlock()

			if fn != nil {
				fn()
			}
		case dbusNotificationClose:
			b.forget(id)
		}
	}
}

func (b *DBusBackend) forget(id uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.clicks, id)

	for tag, tid := range b.tags {
		if tid == id {
			delete(b.tags, tag)
		}
	}
}

func (b *DBusBackend) Supported() bool {
	return b != nil && b.conn != nil && b.conn.Connected()
}

// Permission is always granted once a notification server answered.
func (b *DBusBackend) Permission() Permission {
	return PermissionGranted
}

func (b *DBusBackend) RequestPermission(context.Context) (Permission, error) {
	return PermissionGranted, nil
}

// Show sends n to the notification server. A notification with the same tag
// as one still on screen replaces it.
func (b *DBusBackend) Show(
	ctx context.Context,
	n Notification,
	onClick func(),
) (Handle, error) {
	b.mu.Lock()
	replaces := b.tags[n.Tag]
	b.mu.Unlock()

	actions := []string{defaultAction, "Open"}

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(1)),
	}

	var id uint32

	err := b.obj.CallWithContext(
		ctx,
		dbusNotify,
		0,
		b.appName,
		replaces,
		n.Icon,
		n.Title,
		n.Body,
		actions,
		hints,
		int32(-1),
	).Store(&id)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if onClick != nil {
		b.clicks[id] = onClick
	}

	if n.Tag != "" {
		b.tags[n.Tag] = id
	}

	return &dbusHandle{backend: b, id: id}, nil
}

// Close disconnects from the session bus.
func (b *DBusBackend) Close() error {
	return b.conn.Close()
}

type dbusHandle struct {
	backend *DBusBackend
	id      uint32
}

func (h *dbusHandle) Close() error {
	h.backend.forget(h.id)

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	return h.backend.obj.CallWithContext(
		ctx,
		dbusCloseNotification,
		0,
		h.id,
	).Err
}
