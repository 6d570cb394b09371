//go:build linux

package platform

import (
	"context"
	"fmt"
	"image"

	"github.com/1broseidon/deskshell/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection

	activeHandlers Handlers[WindowID]
	screenHandlers Handlers[Rect]
	lastScreen     Rect
	watching       bool
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Screen returns the primary monitor's geometry.
func (b *LinuxBackend) Screen() (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}
	m, err := conn.PrimaryMonitor()
	if err != nil {
		return Rect{}, err
	}
	return rectFromMonitor(m), nil
}

// CreateWindow creates an unmapped window carrying the hints for kind.
func (b *LinuxBackend) CreateWindow(kind WindowKind, bounds Rect) (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	hints := hintsFor(kind)
	win, err := conn.CreateWindow(bounds.X, bounds.Y, bounds.Width, bounds.Height, hints)
	if err != nil {
		return 0, fmt.Errorf("create %s window: %w", kind, err)
	}
	return WindowID(win), nil
}

func hintsFor(kind WindowKind) x11.Hints {
	switch kind {
	case KindShell:
		return x11.Hints{
			Name:        "deskshell",
			Types:       []string{"_NET_WM_WINDOW_TYPE_DOCK"},
			States:      []string{"_NET_WM_STATE_SKIP_TASKBAR", "_NET_WM_STATE_SKIP_PAGER", "_NET_WM_STATE_STICKY"},
			AllDesktops: true,
		}
	case KindDesktop:
		return x11.Hints{
			Name:        "desktop",
			Types:       []string{"_NET_WM_WINDOW_TYPE_DESKTOP"},
			States:      []string{"_NET_WM_STATE_SKIP_TASKBAR", "_NET_WM_STATE_SKIP_PAGER", "_NET_WM_STATE_STICKY"},
			AllDesktops: true,
		}
	case KindDock:
		return x11.Hints{
			Name:        "panel",
			Types:       []string{"_NET_WM_WINDOW_TYPE_DOCK"},
			States:      []string{"_NET_WM_STATE_STICKY"},
			AllDesktops: true,
		}
	default:
		return x11.Hints{
			Name:        "dialog",
			Types:       []string{"_NET_WM_WINDOW_TYPE_DIALOG"},
			States:      []string{"_NET_WM_STATE_SKIP_TASKBAR", "_NET_WM_STATE_SKIP_PAGER", "_NET_WM_STATE_ABOVE"},
			AllDesktops: true,
			Undecorated: true,
		}
	}
}

// DestroyWindow destroys a window created by CreateWindow.
func (b *LinuxBackend) DestroyWindow(id WindowID) {
	if conn, err := b.connection(); err == nil {
		conn.DestroyWindow(xproto.Window(id))
	}
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(id WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveResizeWindow(xproto.Window(id), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

// Show maps a window.
func (b *LinuxBackend) Show(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MapWindow(xproto.Window(id))
}

// Hide unmaps a window.
func (b *LinuxBackend) Hide(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.UnmapWindow(xproto.Window(id))
}

// Activate asks the window manager to focus and raise a window.
func (b *LinuxBackend) Activate(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.FocusWindow(uint32(id))
}

// SetColor paints a window with a solid 0xRRGGBB color.
func (b *LinuxBackend) SetColor(id WindowID, rgb uint32) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetBackgroundColor(xproto.Window(id), rgb)
}

// SetImage paints img as a window's background.
func (b *LinuxBackend) SetImage(id WindowID, img image.Image) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.PaintImage(xproto.Window(id), img)
}

// PublishStruts announces reserved screen space on the given window.
func (b *LinuxBackend) PublishStruts(id WindowID, struts Struts, screen Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	area := x11.StrutArea{X: screen.X, Y: screen.Y, Width: screen.Width, Height: screen.Height}
	return conn.SetStruts(xproto.Window(id), struts.Left, struts.Right, struts.Top, struts.Bottom, area)
}

// SetSlideHint requests a slide animation from the window manager.
func (b *LinuxBackend) SetSlideHint(id WindowID, hint SlideHint) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetSlide(xproto.Window(id), hint.Offset, int(hint.Edge),
		int(hint.In.Milliseconds()), int(hint.Out.Milliseconds()))
}

// OnActiveWindowChanged registers fn for _NET_ACTIVE_WINDOW changes.
func (b *LinuxBackend) OnActiveWindowChanged(fn func(WindowID)) func() {
	return b.activeHandlers.Add(fn)
}

// OnScreenChanged registers fn for primary screen geometry changes.
func (b *LinuxBackend) OnScreenChanged(fn func(Rect)) {
	b.screenHandlers.Add(fn)
}

// OnClick registers fn for button presses on one of our windows.
func (b *LinuxBackend) OnClick(id WindowID, fn func(x, y int)) {
	if conn, err := b.connection(); err == nil {
		conn.WatchClicks(xproto.Window(id), fn)
	}
}

// Run subscribes to root window events and drives the event loop until ctx
// is done.
func (b *LinuxBackend) Run(ctx context.Context, calls <-chan func()) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if err := b.watch(conn); err != nil {
		return err
	}
	return conn.Run(ctx, calls)
}

func (b *LinuxBackend) watch(conn *x11.Connection) error {
	if b.watching {
		return nil
	}
	b.watching = true

	if err := conn.WatchActiveWindow(func(win xproto.Window) {
		b.activeHandlers.Call(WindowID(win))
	}); err != nil {
		return err
	}

	b.lastScreen, _ = b.Screen()
	return conn.WatchRootGeometry(func() {
		screen, err := b.Screen()
		if err != nil || screen == b.lastScreen {
			return
		}
		b.lastScreen = screen
		b.screenHandlers.Call(screen)
	})
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func rectFromMonitor(m x11.Monitor) Rect {
	return Rect{
		X:      m.X,
		Y:      m.Y,
		Width:  m.Width,
		Height: m.Height,
	}
}
