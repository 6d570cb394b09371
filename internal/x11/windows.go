package x11

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowClass is the WM_CLASS class reported by every shell window.
const WindowClass = "Deskshell"

// Hints describes the EWMH hints applied to a freshly created window.
type Hints struct {
	Name        string
	Types       []string // _NET_WM_WINDOW_TYPE atoms, most specific first
	States      []string // _NET_WM_STATE atoms
	AllDesktops bool
	Undecorated bool
}

// CreateWindow creates an unmapped top-level window managed by the window
// manager and applies the given hints.
func (c *Connection) CreateWindow(x, y, width, height int, hints Hints) (xproto.Window, error) {
	conn := c.XUtil.Conn()
	screen := c.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		c.Root,
		int16(x), int16(y),
		uint16(width), uint16(height),
		0, // border_width
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		// Value list order follows the bit positions of the mask (low to high).
		[]uint32{0, xproto.EventMaskButtonPress | xproto.EventMaskStructureNotify},
	).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}

	if err := c.applyHints(wid, hints); err != nil {
		xproto.DestroyWindow(conn, wid)
		return 0, err
	}
	return wid, nil
}

func (c *Connection) applyHints(win xproto.Window, hints Hints) error {
	if hints.Name != "" {
		if err := ewmh.WmNameSet(c.XUtil, win, hints.Name); err != nil {
			return fmt.Errorf("failed to set _NET_WM_NAME: %w", err)
		}
		if err := icccm.WmClassSet(c.XUtil, win, &icccm.WmClass{
			Instance: hints.Name,
			Class:    WindowClass,
		}); err != nil {
			return fmt.Errorf("failed to set WM_CLASS: %w", err)
		}
	}
	if len(hints.Types) > 0 {
		if err := ewmh.WmWindowTypeSet(c.XUtil, win, hints.Types); err != nil {
			return fmt.Errorf("failed to set _NET_WM_WINDOW_TYPE: %w", err)
		}
	}
	if len(hints.States) > 0 {
		if err := ewmh.WmStateSet(c.XUtil, win, hints.States); err != nil {
			return fmt.Errorf("failed to set _NET_WM_STATE: %w", err)
		}
	}
	if hints.AllDesktops {
		if err := c.pinToAllDesktops(win); err != nil {
			return err
		}
	}
	if hints.Undecorated {
		// Not every WM honors motif hints; the window still works decorated.
		_ = motif.WmHintsSet(c.XUtil, win, &motif.Hints{
			Flags:      motif.HintDecorations,
			Decoration: motif.DecorationNone,
		})
	}
	return nil
}

// MoveResizeWindow moves and resizes one of our own windows and records the
// position as user-specified so the window manager keeps it.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	err := icccm.WmNormalHintsSet(c.XUtil, windowID, &icccm.NormalHints{
		Flags:  icccm.SizeHintUSPosition | icccm.SizeHintUSSize,
		X:      x,
		Y:      y,
		Width:  uint(width),
		Height: uint(height),
	})
	if err != nil {
		return fmt.Errorf("failed to set WM_NORMAL_HINTS: %w", err)
	}

	xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	return nil
}

// MapWindow makes a window visible.
func (c *Connection) MapWindow(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// UnmapWindow hides a window without destroying it.
func (c *Connection) UnmapWindow(windowID xproto.Window) error {
	return xproto.UnmapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// DestroyWindow detaches event handlers, destroys the window and frees its
// painted surface.
func (c *Connection) DestroyWindow(windowID xproto.Window) {
	xwindow.New(c.XUtil, windowID).Destroy()
	if old := c.surfaces.release(windowID); old != nil {
		old.Destroy()
	}
}

// SetBackgroundColor sets the window background pixel and repaints it.
func (c *Connection) SetBackgroundColor(windowID xproto.Window, color uint32) error {
	conn := c.XUtil.Conn()
	if err := xproto.ChangeWindowAttributesChecked(conn, windowID, xproto.CwBackPixel, []uint32{color}).Check(); err != nil {
		return fmt.Errorf("failed to set background: %w", err)
	}
	xproto.ClearArea(conn, false, windowID, 0, 0, 0, 0)
	if old := c.surfaces.release(windowID); old != nil {
		old.Destroy()
	}
	return nil
}

// PaintImage converts img to the X server's format and uses it as the
// window's background surface. The surface painted before it is freed.
func (c *Connection) PaintImage(windowID xproto.Window, img image.Image) error {
	ximg := xgraphics.NewConvert(c.XUtil, img)
	if err := ximg.XSurfaceSet(windowID); err != nil {
		ximg.Destroy()
		return fmt.Errorf("failed to create surface: %w", err)
	}
	ximg.XDraw()
	ximg.XPaint(windowID)
	if c.surfaces == nil {
		c.surfaces = make(surfaces)
	}
	if old := c.surfaces.replace(windowID, ximg); old != nil {
		old.Destroy()
	}
	return nil
}

// surfaces holds the image currently backing each painted window. Each one
// owns a server pixmap until it is replaced or its window goes away.
type surfaces map[xproto.Window]*xgraphics.Image

// replace records im for win and returns the surface it supersedes.
func (s surfaces) replace(win xproto.Window, im *xgraphics.Image) *xgraphics.Image {
	old := s[win]
	s[win] = im
	if old == im {
		return nil
	}
	return old
}

// release forgets win's surface and returns it.
func (s surfaces) release(win xproto.Window) *xgraphics.Image {
	old, ok := s[win]
	if !ok {
		return nil
	}
	delete(s, win)
	return old
}

// StrutArea is the screen the struts are measured against.
type StrutArea struct {
	X, Y, Width, Height int
}

// SetStruts publishes _NET_WM_STRUT and _NET_WM_STRUT_PARTIAL for a window.
// Partial ranges span the whole area so both flavours reserve the same space.
func (c *Connection) SetStruts(windowID xproto.Window, left, right, top, bottom int, area StrutArea) error {
	strut := &ewmh.WmStrut{
		Left:   uint(left),
		Right:  uint(right),
		Top:    uint(top),
		Bottom: uint(bottom),
	}
	if err := ewmh.WmStrutSet(c.XUtil, windowID, strut); err != nil {
		return fmt.Errorf("failed to set _NET_WM_STRUT: %w", err)
	}

	lastX := area.X + area.Width - 1
	lastY := area.Y + area.Height - 1
	if lastX < area.X {
		lastX = area.X
	}
	if lastY < area.Y {
		lastY = area.Y
	}
	partial := &ewmh.WmStrutPartial{
		Left:         uint(left),
		Right:        uint(right),
		Top:          uint(top),
		Bottom:       uint(bottom),
		LeftStartY:   uint(area.Y),
		LeftEndY:     uint(lastY),
		RightStartY:  uint(area.Y),
		RightEndY:    uint(lastY),
		TopStartX:    uint(area.X),
		TopEndX:      uint(lastX),
		BottomStartX: uint(area.X),
		BottomEndX:   uint(lastX),
	}
	if err := ewmh.WmStrutPartialSet(c.XUtil, windowID, partial); err != nil {
		return fmt.Errorf("failed to set _NET_WM_STRUT_PARTIAL: %w", err)
	}
	return nil
}

// SetSlide sets the _KDE_SLIDE property: offset, location, and the slide-in
// and slide-out durations in milliseconds.
func (c *Connection) SetSlide(windowID xproto.Window, offset, location, inMillis, outMillis int) error {
	return xprop.ChangeProp32(c.XUtil, windowID, "_KDE_SLIDE", "_KDE_SLIDE",
		uint(offset), uint(location), uint(inMillis), uint(outMillis))
}
