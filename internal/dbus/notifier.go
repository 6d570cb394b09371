// Package dbus talks to desktop services over D-Bus: desktop notifications,
// MPRIS media players and NetworkManager.
package dbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsDest  = "org.freedesktop.Notifications"
	notificationsPath  = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsIface = "org.freedesktop.Notifications"
)

// Urgency is the notification urgency hint.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notifier posts desktop notifications. Identical keys are rate limited so a
// repeating failure does not flood the notification daemon.
type Notifier struct {
	mu     sync.Mutex
	conn   *dbus.Conn
	logger *slog.Logger

	appName        string
	lastNotifyTime map[string]time.Time
	minInterval    time.Duration
	enabled        bool
}

// NewNotifier creates a notifier on the session bus connection conn.
func NewNotifier(conn *dbus.Conn, appName string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		conn:           conn,
		logger:         logger,
		appName:        appName,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		enabled:        conn != nil,
	}
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled && n.conn != nil
}

// Notify sends a notification unless the same key was sent recently.
func (n *Notifier) Notify(ctx context.Context, key, summary, body string, urgency Urgency) error {
	n.mu.Lock()
	if !n.enabled {
		n.mu.Unlock()
		n.logger.Debug("notification skipped", "summary", summary)
		return nil
	}
	if last, ok := n.lastNotifyTime[key]; ok && time.Since(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("notification rate-limited", "key", key, "summary", summary)
		return nil
	}
	n.lastNotifyTime[key] = time.Now()
	n.mu.Unlock()

	icon := "dialog-information"
	switch urgency {
	case UrgencyNormal:
		icon = "dialog-warning"
	case UrgencyCritical:
		icon = "dialog-error"
	}

	hints := map[string]dbus.Variant{
		"urgency":   dbus.MakeVariant(byte(urgency)),
		"transient": dbus.MakeVariant(true),
	}

	obj := n.conn.Object(notificationsDest, notificationsPath)
	call := obj.CallWithContext(ctx, notificationsIface+".Notify", 0,
		n.appName,   // app_name
		uint32(0),   // replaces_id
		icon,        // app_icon
		summary,     // summary
		body,        // body
		[]string{},  // actions
		hints,       // hints
		int32(5000), // expire_timeout
	)
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}
	return nil
}
