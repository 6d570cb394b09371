package layout

import "github.com/1broseidon/deskshell/internal/platform"

// AnchorRequest describes one dialog placement.
type AnchorRequest struct {
	Trigger platform.Rect // trigger control, relative to the screen origin
	Dialog  platform.Size
	Struts  platform.Struts
	Screen  platform.Rect
}

// PositionDialog places a dialog next to its trigger control.
//
// The dialog keeps its natural size. x is the trigger's x shifted by the left
// strut and half the dialog width; y is the trigger's y shifted by the top
// strut. Both are clamped into [0, screen-dialog] and then offset by the
// screen origin.
func PositionDialog(req AnchorRequest) platform.Rect {
	d := req.Dialog
	x := req.Struts.Left + req.Trigger.X + d.Width/2
	y := req.Struts.Top + req.Trigger.Y

	x = clamp(x, req.Screen.Width-d.Width)
	y = clamp(y, req.Screen.Height-d.Height)

	return platform.Rect{
		X:      req.Screen.X + x,
		Y:      req.Screen.Y + y,
		Width:  d.Width,
		Height: d.Height,
	}
}

// CenterIn centers size inside area, never above or left of area's origin.
func CenterIn(area platform.Rect, size platform.Size) platform.Rect {
	x := clamp((area.Width-size.Width)/2, area.Width-size.Width)
	y := clamp((area.Height-size.Height)/2, area.Height-size.Height)
	return platform.Rect{
		X:      area.X + x,
		Y:      area.Y + y,
		Width:  size.Width,
		Height: size.Height,
	}
}

func clamp(v, upper int) int {
	if v > upper {
		v = upper
	}
	if v < 0 {
		v = 0
	}
	return v
}
