//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	notifyDest   = "org.freedesktop.Notifications"
	notifyPath   = "/org/freedesktop/Notifications"
	notifyMethod = "org.freedesktop.Notifications.Notify"
	closeMethod  = "org.freedesktop.Notifications.CloseNotification"

	appName      = "Sangeet"
	desktopEntry = "sangeet"
)

type dbusNotifier struct {
	obj dbus.BusObject
}

// New connects to the session bus. Without one (headless session, bare
// container) notifications degrade to silent no-ops rather than errors.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return &stubNotifier{}, nil //nolint:nilerr // no session bus, fall back to the no-op sink
	}
	return &dbusNotifier{obj: conn.Object(notifyDest, notifyPath)}, nil
}

func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant(desktopEntry),
	}
	if notif.Urgency == UrgencyLow {
		// Now-playing notices replace each other and should not pile
		// up in the notification history.
		hints["transient"] = dbus.MakeVariant(true)
	}

	// Notify(app_name, replaces_id, icon, summary, body, actions, hints, timeout)
	call := n.obj.Call(notifyMethod, 0,
		appName, notif.ReplacesID, notif.Icon,
		notif.Title, notif.Body,
		[]string{}, hints, notif.Timeout)
	if call.Err != nil {
		return 0, call.Err
	}

	var id uint32
	err := call.Store(&id)
	return id, err
}

func (n *dbusNotifier) Close(id uint32) error {
	return n.obj.Call(closeMethod, 0, id).Err
}

// stubNotifier swallows notifications when no session bus exists.
type stubNotifier struct{}

func (*stubNotifier) Notify(Notification) (uint32, error) { return 0, nil }

func (*stubNotifier) Close(uint32) error { return nil }
