package layout

import "github.com/1broseidon/deskshell/internal/platform"

const shadowGap = 20

// PanelBounds returns the screen rectangle of a panel docked at edge.
// Thickness comes from size (width for vertical edges, height otherwise); the
// panel spans the full length of its edge.
func PanelBounds(screen platform.Rect, edge platform.Edge, size platform.Size) platform.Rect {
	switch edge {
	case platform.EdgeLeft:
		return platform.Rect{X: screen.X, Y: screen.Y, Width: size.Width, Height: screen.Height}
	case platform.EdgeRight:
		return platform.Rect{X: screen.X + screen.Width - size.Width, Y: screen.Y, Width: size.Width, Height: screen.Height}
	case platform.EdgeBottom:
		return platform.Rect{X: screen.X, Y: screen.Y + screen.Height - size.Height, Width: screen.Width, Height: size.Height}
	default:
		return platform.Rect{X: screen.X, Y: screen.Y, Width: screen.Width, Height: size.Height}
	}
}

// Cells lays out count square-ish cells of buttonSize along a panel. Cells
// are relative to the panel's own origin.
func Cells(panel platform.Rect, edge platform.Edge, buttonSize, count int) []platform.Rect {
	if count <= 0 {
		return nil
	}
	cells := make([]platform.Rect, 0, count)
	for i := 0; i < count; i++ {
		if edge.Vertical() {
			cells = append(cells, platform.Rect{X: 0, Y: i * buttonSize, Width: panel.Width, Height: buttonSize})
		} else {
			cells = append(cells, platform.Rect{X: i * buttonSize, Y: 0, Width: buttonSize, Height: panel.Height})
		}
	}
	return cells
}

// CellAt returns the index of the cell containing the panel-relative point,
// or -1.
func CellAt(cells []platform.Rect, x, y int) int {
	for i, c := range cells {
		if c.Contains(x, y) {
			return i
		}
	}
	return -1
}

// ShadowRegion returns the wallpaper area a panel's shadow falls on. Top
// panels shade a band twice their height starting at the panel; bottom panels
// shade three times their height ending at the panel. Side panels cast none.
func ShadowRegion(panel platform.Rect, edge platform.Edge) (platform.Rect, bool) {
	switch edge {
	case platform.EdgeTop:
		return platform.Rect{X: panel.X, Y: panel.Y, Width: panel.Width, Height: panel.Height * 2}, true
	case platform.EdgeBottom:
		return platform.Rect{
			X:      panel.X,
			Y:      panel.Y - panel.Height - shadowGap,
			Width:  panel.Width,
			Height: panel.Height * 3,
		}, true
	default:
		return platform.Rect{}, false
	}
}
