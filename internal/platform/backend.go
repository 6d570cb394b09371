package platform

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"
)

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Size is a width/height pair.
type Size struct {
	Width  int
	Height int
}

// Edge is a screen edge. Values follow the _KDE_SLIDE location numbering.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeTop
	EdgeRight
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "Left"
	case EdgeTop:
		return "Top"
	case EdgeRight:
		return "Right"
	case EdgeBottom:
		return "Bottom"
	default:
		return fmt.Sprintf("Edge(%d)", int(e))
	}
}

// ParseEdge parses an edge name case-insensitively.
func ParseEdge(s string) (Edge, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return EdgeLeft, nil
	case "top":
		return EdgeTop, nil
	case "right":
		return EdgeRight, nil
	case "bottom":
		return EdgeBottom, nil
	default:
		return EdgeTop, fmt.Errorf("unknown edge %q", s)
	}
}

// Vertical reports whether panels on this edge run top to bottom.
func (e Edge) Vertical() bool {
	return e == EdgeLeft || e == EdgeRight
}

// Struts holds the reserved pixels along each screen edge.
type Struts struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// Get returns the reservation for one edge.
func (s Struts) Get(e Edge) int {
	switch e {
	case EdgeLeft:
		return s.Left
	case EdgeRight:
		return s.Right
	case EdgeTop:
		return s.Top
	default:
		return s.Bottom
	}
}

// Add increases the reservation for one edge.
func (s *Struts) Add(e Edge, n int) {
	switch e {
	case EdgeLeft:
		s.Left += n
	case EdgeRight:
		s.Right += n
	case EdgeTop:
		s.Top += n
	default:
		s.Bottom += n
	}
}

// IsZero reports whether nothing is reserved.
func (s Struts) IsZero() bool {
	return s == Struts{}
}

// SlideHint asks the window manager to animate a window in from an edge.
type SlideHint struct {
	Offset int
	Edge   Edge
	In     time.Duration
	Out    time.Duration
}

// WindowKind selects the window-type and state hints applied at creation.
type WindowKind int

const (
	// KindShell is the invisible dock window carrying the shell's struts.
	KindShell WindowKind = iota
	// KindDesktop is the wallpaper surface below all windows.
	KindDesktop
	// KindDock is a panel.
	KindDock
	// KindDialog is a popover that must stay out of the taskbar.
	KindDialog
)

func (k WindowKind) String() string {
	switch k {
	case KindShell:
		return "shell"
	case KindDesktop:
		return "desktop"
	case KindDock:
		return "dock"
	case KindDialog:
		return "dialog"
	default:
		return fmt.Sprintf("WindowKind(%d)", int(k))
	}
}

// Backend abstracts the window-manager operations used by the shell.
//
// All methods and all registered callbacks run on the thread that drives Run.
type Backend interface {
	// Screen returns the geometry of the primary screen.
	Screen() (Rect, error)

	CreateWindow(kind WindowKind, bounds Rect) (WindowID, error)
	DestroyWindow(id WindowID)
	MoveResize(id WindowID, bounds Rect) error
	Show(id WindowID) error
	Hide(id WindowID) error
	Activate(id WindowID) error
	SetColor(id WindowID, rgb uint32) error
	SetImage(id WindowID, img image.Image) error

	PublishStruts(id WindowID, struts Struts, screen Rect) error
	SetSlideHint(id WindowID, hint SlideHint) error

	// OnActiveWindowChanged registers fn and returns a function that
	// unregisters it.
	OnActiveWindowChanged(fn func(WindowID)) (remove func())
	OnScreenChanged(fn func(Rect))
	OnClick(id WindowID, fn func(x, y int))

	// Run processes window-system events and posted calls until ctx is done.
	Run(ctx context.Context, calls <-chan func()) error
}
