package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WatchActiveWindow calls fn whenever the root window's _NET_ACTIVE_WINDOW
// property changes.
func (c *Connection) WatchActiveWindow(fn func(xproto.Window)) error {
	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify); err != nil {
		return fmt.Errorf("failed to listen on root window: %w", err)
	}

	activeAtom, err := xprop.Atm(c.XUtil, "_NET_ACTIVE_WINDOW")
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if ev.Atom != activeAtom {
			return
		}
		active, err := c.GetActiveWindow()
		if err != nil {
			return
		}
		fn(active)
	}).Connect(c.XUtil, c.Root)
	return nil
}

// WatchRootGeometry calls fn when the root window is resized, which is how
// RandR screen changes reach clients that do not select RandR events.
func (c *Connection) WatchRootGeometry(fn func()) error {
	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify); err != nil {
		return fmt.Errorf("failed to listen on root window: %w", err)
	}

	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		if ev.Window != c.Root {
			return
		}
		fn()
	}).Connect(c.XUtil, c.Root)
	return nil
}

// WatchClicks calls fn with window-relative coordinates for every button press
// on one of our windows.
func (c *Connection) WatchClicks(windowID xproto.Window, fn func(x, y int)) {
	xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		fn(int(ev.EventX), int(ev.EventY))
	}).Connect(c.XUtil, windowID)
}
