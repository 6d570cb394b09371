// Package platformtest provides an in-memory platform.Backend for tests.
package platformtest

import (
	"context"
	"fmt"
	"image"

	"github.com/1broseidon/deskshell/internal/platform"
)

// Window is the recorded state of one fake window.
type Window struct {
	Kind      platform.WindowKind
	Bounds    platform.Rect
	Visible   bool
	Color     uint32
	Image     image.Image
	Struts    platform.Struts
	Slide     *platform.SlideHint
	Destroyed bool
}

// Backend records every call. It is not safe for concurrent use outside Run.
type Backend struct {
	ScreenRect platform.Rect
	Windows    map[platform.WindowID]*Window
	Activated  []platform.WindowID
	Published  []platform.Struts

	// Errors injected into the matching calls.
	ScreenErr  error
	CreateErr  error
	PublishErr error
	SlideErr   error
	ImageErr   error

	next     platform.WindowID
	onActive platform.Handlers[platform.WindowID]
	onScreen platform.Handlers[platform.Rect]
	onClick  map[platform.WindowID]func(x, y int)
}

var _ platform.Backend = (*Backend)(nil)

// New returns a fake backend with a screen of the given size.
func New(width, height int) *Backend {
	return &Backend{
		ScreenRect: platform.Rect{Width: width, Height: height},
		Windows:    make(map[platform.WindowID]*Window),
		onClick:    make(map[platform.WindowID]func(x, y int)),
		next:       100,
	}
}

func (b *Backend) Screen() (platform.Rect, error) {
	return b.ScreenRect, b.ScreenErr
}

func (b *Backend) CreateWindow(kind platform.WindowKind, bounds platform.Rect) (platform.WindowID, error) {
	if b.CreateErr != nil {
		return 0, b.CreateErr
	}
	b.next++
	b.Windows[b.next] = &Window{Kind: kind, Bounds: bounds}
	return b.next, nil
}

func (b *Backend) DestroyWindow(id platform.WindowID) {
	if w, ok := b.Windows[id]; ok {
		w.Destroyed = true
		w.Visible = false
	}
	delete(b.onClick, id)
}

func (b *Backend) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	w, err := b.window(id)
	if err != nil {
		return err
	}
	w.Bounds = bounds
	return nil
}

func (b *Backend) Show(id platform.WindowID) error {
	w, err := b.window(id)
	if err != nil {
		return err
	}
	w.Visible = true
	return nil
}

func (b *Backend) Hide(id platform.WindowID) error {
	w, err := b.window(id)
	if err != nil {
		return err
	}
	w.Visible = false
	return nil
}

// Activate records the request and reports the window as active, the way a
// window manager would.
func (b *Backend) Activate(id platform.WindowID) error {
	if _, err := b.window(id); err != nil {
		return err
	}
	b.Activated = append(b.Activated, id)
	b.SetActive(id)
	return nil
}

func (b *Backend) SetColor(id platform.WindowID, rgb uint32) error {
	w, err := b.window(id)
	if err != nil {
		return err
	}
	w.Color = rgb
	return nil
}

func (b *Backend) SetImage(id platform.WindowID, img image.Image) error {
	if b.ImageErr != nil {
		return b.ImageErr
	}
	w, err := b.window(id)
	if err != nil {
		return err
	}
	w.Image = img
	return nil
}

func (b *Backend) PublishStruts(id platform.WindowID, struts platform.Struts, _ platform.Rect) error {
	if b.PublishErr != nil {
		return b.PublishErr
	}
	w, err := b.window(id)
	if err != nil {
		return err
	}
	w.Struts = struts
	b.Published = append(b.Published, struts)
	return nil
}

func (b *Backend) SetSlideHint(id platform.WindowID, hint platform.SlideHint) error {
	if b.SlideErr != nil {
		return b.SlideErr
	}
	w, err := b.window(id)
	if err != nil {
		return err
	}
	w.Slide = &hint
	return nil
}

func (b *Backend) OnActiveWindowChanged(fn func(platform.WindowID)) func() {
	return b.onActive.Add(fn)
}

// ActiveHandlers returns the number of registered active-window handlers.
func (b *Backend) ActiveHandlers() int {
	return b.onActive.Len()
}

func (b *Backend) OnScreenChanged(fn func(platform.Rect)) {
	b.onScreen.Add(fn)
}

func (b *Backend) OnClick(id platform.WindowID, fn func(x, y int)) {
	b.onClick[id] = fn
}

// Run executes posted calls until ctx is done.
func (b *Backend) Run(ctx context.Context, calls <-chan func()) error {
	for {
		select {
		case fn := <-calls:
			if fn != nil {
				fn()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// SetActive delivers an active-window change.
func (b *Backend) SetActive(id platform.WindowID) {
	b.onActive.Call(id)
}

// ChangeScreen resizes the screen and delivers the change.
func (b *Backend) ChangeScreen(r platform.Rect) {
	b.ScreenRect = r
	b.onScreen.Call(r)
}

// Click delivers a button press at window-relative coordinates.
func (b *Backend) Click(id platform.WindowID, x, y int) bool {
	fn, ok := b.onClick[id]
	if ok {
		fn(x, y)
	}
	return ok
}

// Live returns the non-destroyed windows of kind.
func (b *Backend) Live(kind platform.WindowKind) []platform.WindowID {
	var ids []platform.WindowID
	for id, w := range b.Windows {
		if w.Kind == kind && !w.Destroyed {
			ids = append(ids, id)
		}
	}
	return ids
}

func (b *Backend) window(id platform.WindowID) (*Window, error) {
	w, ok := b.Windows[id]
	if !ok || w.Destroyed {
		return nil, fmt.Errorf("no window %d", id)
	}
	return w, nil
}
