// Package dialog implements popovers anchored to a panel control.
package dialog

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/deskshell/internal/layout"
	"github.com/1broseidon/deskshell/internal/platform"
)

const slideDuration = 200 * time.Millisecond

// Anchor supplies the geometry a dialog is positioned against. Values are
// read on every show.
type Anchor interface {
	Struts() platform.Struts
	Screen() platform.Rect
}

// Dialog is a popover window. It hides itself as soon as another window
// becomes active.
type Dialog struct {
	backend platform.Backend
	anchor  Anchor
	logger  *slog.Logger

	id      platform.WindowID
	size    platform.Size
	color   uint32
	rect    platform.Rect
	visible bool
	closed  bool

	unwatch func()
}

// New creates the dialog window, initially hidden.
func New(backend platform.Backend, anchor Anchor, size platform.Size, color uint32, logger *slog.Logger) (*Dialog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	id, err := backend.CreateWindow(platform.KindDialog, platform.Rect{Width: size.Width, Height: size.Height})
	if err != nil {
		return nil, fmt.Errorf("create dialog: %w", err)
	}
	if err := backend.SetColor(id, color); err != nil {
		logger.Debug("dialog color not applied", "error", err)
	}

	d := &Dialog{
		backend: backend,
		anchor:  anchor,
		logger:  logger,
		id:      id,
		size:    size,
		color:   color,
	}
	d.unwatch = backend.OnActiveWindowChanged(d.activeWindowChanged)
	return d, nil
}

// ID returns the dialog's window.
func (d *Dialog) ID() platform.WindowID {
	return d.id
}

// Visible reports whether the dialog is shown.
func (d *Dialog) Visible() bool {
	return d.visible
}

// Rect returns where the dialog was last placed.
func (d *Dialog) Rect() platform.Rect {
	return d.rect
}

// Size returns the dialog's natural size.
func (d *Dialog) Size() platform.Size {
	return d.size
}

// SetSize changes the natural size used by the next show.
func (d *Dialog) SetSize(size platform.Size) {
	d.size = size
}

// Show places the dialog next to trigger and shows it. trigger is relative
// to the screen origin.
func (d *Dialog) Show(trigger platform.Rect) error {
	rect := layout.PositionDialog(layout.AnchorRequest{
		Trigger: trigger,
		Dialog:  d.size,
		Struts:  d.anchor.Struts(),
		Screen:  d.anchor.Screen(),
	})
	return d.ShowAt(rect)
}

// ShowAt shows the dialog at an absolute rectangle.
func (d *Dialog) ShowAt(rect platform.Rect) error {
	if d.closed {
		return fmt.Errorf("dialog closed")
	}
	if err := d.backend.MoveResize(d.id, rect); err != nil {
		return fmt.Errorf("place dialog: %w", err)
	}

	hint := platform.SlideHint{Offset: 0, Edge: platform.EdgeTop, In: slideDuration, Out: slideDuration}
	if err := d.backend.SetSlideHint(d.id, hint); err != nil {
		d.logger.Debug("slide hint not applied", "error", err)
	}

	if err := d.backend.Show(d.id); err != nil {
		return fmt.Errorf("show dialog: %w", err)
	}
	d.rect = rect
	d.visible = true

	if err := d.backend.Activate(d.id); err != nil {
		d.logger.Debug("dialog activation failed", "error", err)
	}
	return nil
}

// Hide hides the dialog.
func (d *Dialog) Hide() error {
	if !d.visible {
		return nil
	}
	d.visible = false
	return d.backend.Hide(d.id)
}

// Toggle shows the dialog at trigger, or hides it when already visible.
func (d *Dialog) Toggle(trigger platform.Rect) error {
	if d.visible {
		return d.Hide()
	}
	return d.Show(trigger)
}

// Close destroys the window. The dialog cannot be shown again.
func (d *Dialog) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.visible = false
	if d.unwatch != nil {
		d.unwatch()
	}
	d.backend.DestroyWindow(d.id)
}

func (d *Dialog) activeWindowChanged(active platform.WindowID) {
	if d.closed || !d.visible || active == d.id {
		return
	}
	if err := d.Hide(); err != nil {
		d.logger.Debug("dialog hide failed", "error", err)
	}
}
