package dbus

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	nmDest  = "org.freedesktop.NetworkManager"
	nmPath  = dbus.ObjectPath("/org/freedesktop/NetworkManager")
	nmIface = "org.freedesktop.NetworkManager"
	nmConn  = "org.freedesktop.NetworkManager.Connection.Active"
)

// NMState values from NetworkManager's NMState enum.
const (
	nmStateAsleep          = 10
	nmStateDisconnected    = 20
	nmStateDisconnecting   = 30
	nmStateConnecting      = 40
	nmStateConnectedLocal  = 50
	nmStateConnectedSite   = 60
	nmStateConnectedGlobal = 70
)

// NetworkStatus summarizes NetworkManager's view of connectivity.
type NetworkStatus struct {
	State      string // offline, connecting, limited or online
	Connection string // id of the primary connection, if any
}

// Online reports whether the system has global connectivity.
func (s NetworkStatus) Online() bool {
	return s.State == "online"
}

// Network reads NetworkManager state from the system bus.
type Network struct {
	conn *dbus.Conn
}

// NewNetwork returns a NetworkManager client on conn.
func NewNetwork(conn *dbus.Conn) *Network {
	return &Network{conn: conn}
}

// Status returns the current connectivity and primary connection.
func (n *Network) Status(ctx context.Context) (NetworkStatus, error) {
	obj := n.conn.Object(nmDest, nmPath)

	var state dbus.Variant
	if err := obj.CallWithContext(ctx, propertiesGet, 0, nmIface, "State").Store(&state); err != nil {
		return NetworkStatus{}, fmt.Errorf("network state: %w", err)
	}
	raw, _ := state.Value().(uint32)
	status := NetworkStatus{State: stateName(raw)}

	var primary dbus.Variant
	if err := obj.CallWithContext(ctx, propertiesGet, 0, nmIface, "PrimaryConnection").Store(&primary); err != nil {
		return status, nil
	}
	path, _ := primary.Value().(dbus.ObjectPath)
	if path == "" || path == "/" {
		return status, nil
	}

	var id dbus.Variant
	active := n.conn.Object(nmDest, path)
	if err := active.CallWithContext(ctx, propertiesGet, 0, nmConn, "Id").Store(&id); err == nil {
		status.Connection, _ = id.Value().(string)
	}
	return status, nil
}

func stateName(state uint32) string {
	switch state {
	case nmStateConnectedGlobal:
		return "online"
	case nmStateConnectedLocal, nmStateConnectedSite:
		return "limited"
	case nmStateConnecting:
		return "connecting"
	case nmStateAsleep, nmStateDisconnected, nmStateDisconnecting:
		return "offline"
	default:
		return "unknown"
	}
}
