package layout

import "github.com/1broseidon/deskshell/internal/platform"

// Reservation is the part of a panel the strut computation cares about.
type Reservation struct {
	Edge    platform.Edge
	Size    platform.Size
	Reserve bool
}

// Thickness returns the panel's extent perpendicular to its edge: width for
// Left/Right panels, height for Top/Bottom panels.
func (r Reservation) Thickness() int {
	if r.Edge.Vertical() {
		return r.Size.Width
	}
	return r.Size.Height
}

// ComputeStruts sums the thickness of every reserving panel per edge.
// Edges are independent accumulators, so the order of panels does not matter
// and overlapping panels are not resolved.
func ComputeStruts(panels []Reservation) platform.Struts {
	var s platform.Struts
	for _, p := range panels {
		if !p.Reserve {
			continue
		}
		n := p.Thickness()
		if n < 0 {
			n = 0
		}
		s.Add(p.Edge, n)
	}
	return s
}

// WorkArea returns the part of screen not covered by struts.
func WorkArea(screen platform.Rect, s platform.Struts) platform.Rect {
	r := platform.Rect{
		X:      screen.X + s.Left,
		Y:      screen.Y + s.Top,
		Width:  screen.Width - s.Left - s.Right,
		Height: screen.Height - s.Top - s.Bottom,
	}
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}
