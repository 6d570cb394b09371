package x11

import (
	"context"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	surfaces surfaces
}

// NewConnection establishes a connection to the X11 server and initializes required extensions
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	// Initialize keybind module (required for global hotkeys)
	keybind.Initialize(xu)

	return &Connection{
		XUtil:    xu,
		Root:     xu.RootWin(),
		surfaces: make(surfaces),
	}, nil
}

// Run drives the X11 event loop and executes posted calls on the same
// goroutine, so event callbacks and posted calls never interleave. It returns
// when ctx is cancelled or the event loop quits.
func (c *Connection) Run(ctx context.Context, calls <-chan func()) error {
	pingBefore, pingAfter, pingQuit := xevent.MainPing(c.XUtil)
	for {
		select {
		case <-pingBefore:
			// An event callback is running; wait for it to finish.
			<-pingAfter
		case fn := <-calls:
			if fn != nil {
				fn()
			}
		case <-pingQuit:
			return nil
		case <-ctx.Done():
			xevent.Quit(c.XUtil)
			return ctx.Err()
		}
	}
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
